package main

import (
	"io"
	"strings"

	"github.com/noriah/fastsum"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// step is one command of a script.
type step struct {
	Cmd  string      `yaml:"cmd"`
	Args []yaml.Node `yaml:"args"`
	// Bind names the plan created by an init step.
	Bind string `yaml:"bind"`
	// Print writes the results of the step.
	Print bool `yaml:"print"`
	// Expect is the error code the step must fail with.
	Expect string `yaml:"expect"`
}

func loadScript(r io.Reader) ([]step, error) {
	var steps []step

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&steps); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to parse script")
	}

	return steps, nil
}

// runner feeds script steps to a session.
type runner struct {
	session  *fastsum.Session
	out      *numberWriter
	bindings map[string]fastsum.Ref
}

func newRunner(session *fastsum.Session, out *numberWriter) *runner {
	return &runner{
		session:  session,
		out:      out,
		bindings: make(map[string]fastsum.Ref),
	}
}

func (r *runner) run(steps []step) error {
	for i := range steps {
		if err := r.step(&steps[i]); err != nil {
			return errors.Wrapf(err, "step %d (%s)", i+1, steps[i].Cmd)
		}
	}
	return nil
}

func (r *runner) step(s *step) error {
	args := make([]fastsum.Value, len(s.Args))
	for i := range s.Args {
		v, err := r.value(&s.Args[i])
		if err != nil {
			if s.Expect != "" && string(fastsum.GetCode(err)) == s.Expect {
				return nil
			}
			return errors.Wrapf(err, "argument %d", i)
		}
		args[i] = v
	}

	out, err := r.session.Dispatch(s.Cmd, args)

	if s.Expect != "" {
		if err == nil {
			return errors.Errorf("succeeded, expected %s", s.Expect)
		}
		if code := string(fastsum.GetCode(err)); code != s.Expect {
			return errors.Wrapf(err, "expected %s", s.Expect)
		}
		return nil
	}

	if err != nil {
		return err
	}

	if s.Bind != "" {
		if err := r.bind(s.Bind, out); err != nil {
			return err
		}
	}

	if s.Print {
		return r.out.Write(s.Cmd, out)
	}

	return nil
}

func (r *runner) bind(name string, out []fastsum.Value) error {
	if len(out) != 1 {
		return errors.Errorf("cannot bind %q to %d results", name, len(out))
	}

	h, ok := out[0].(fastsum.Scalar)
	if !ok {
		return errors.Errorf("cannot bind %q to a %T", name, out[0])
	}

	p, err := r.session.Registry().Get(fastsum.Handle(h))
	if err != nil {
		return errors.Wrapf(err, "cannot bind %q", name)
	}

	r.bindings[name] = p.Ref()
	return nil
}

// value converts one script argument:
//
//   - $name resolves a bound plan handle
//   - numbers are scalars, other strings are text
//   - {rows, cols, data} is a column-major matrix
//   - {re, im, dims} is a complex array
//   - a list of numbers is a column, a list of lists a row-major matrix
func (r *runner) value(n *yaml.Node) (fastsum.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			var v float64
			if err := n.Decode(&v); err != nil {
				return nil, errors.Wrapf(err, "line %d", n.Line)
			}
			return fastsum.Scalar(v), nil
		}

		if strings.HasPrefix(n.Value, "$") {
			return r.lookup(n.Value[1:])
		}
		return fastsum.Text(n.Value), nil

	case yaml.MappingNode:
		return decodeMapping(n)

	case yaml.SequenceNode:
		return decodeRows(n)
	}

	return nil, errors.Errorf("line %d: unsupported argument", n.Line)
}

func (r *runner) lookup(name string) (fastsum.Value, error) {
	ref, ok := r.bindings[name]
	if !ok {
		return nil, errors.Errorf("unbound name $%s", name)
	}

	if _, err := r.session.Registry().Resolve(ref); err != nil {
		return nil, errors.Wrapf(err, "$%s", name)
	}

	return fastsum.Scalar(ref.Handle), nil
}

func decodeMapping(n *yaml.Node) (fastsum.Value, error) {
	keys := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys[n.Content[i].Value] = true
	}

	switch {
	case keys["re"] || keys["im"]:
		var c struct {
			Dims []int     `yaml:"dims"`
			Re   []float64 `yaml:"re"`
			Im   []float64 `yaml:"im"`
		}
		if err := n.Decode(&c); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		if c.Im == nil {
			c.Im = make([]float64, len(c.Re))
		}
		if c.Dims == nil {
			c.Dims = []int{len(c.Re)}
		}
		return fastsum.ComplexArray{Dims: c.Dims, Re: c.Re, Im: c.Im}, nil

	case keys["rows"] || keys["data"]:
		var m struct {
			Rows int       `yaml:"rows"`
			Cols int       `yaml:"cols"`
			Data []float64 `yaml:"data"`
		}
		if err := n.Decode(&m); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return fastsum.Matrix{Rows: m.Rows, Cols: m.Cols, Data: m.Data}, nil
	}

	return nil, errors.Errorf("line %d: mapping is neither a matrix nor a complex array", n.Line)
}

func decodeRows(n *yaml.Node) (fastsum.Value, error) {
	if len(n.Content) == 0 || n.Content[0].Kind != yaml.SequenceNode {
		var col []float64
		if err := n.Decode(&col); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return fastsum.Matrix{Rows: len(col), Cols: 1, Data: col}, nil
	}

	var rows [][]float64
	if err := n.Decode(&rows); err != nil {
		return nil, errors.Wrapf(err, "line %d", n.Line)
	}

	m := fastsum.NewMatrix(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != m.Cols {
			return nil, errors.Errorf("line %d: row %d has %d entries, want %d", n.Line, i, len(row), m.Cols)
		}
		for j, v := range row {
			m.Set(i, j, v)
		}
	}

	return m, nil
}
