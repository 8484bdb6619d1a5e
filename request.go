package fastsum

import (
	"math"
	"sort"

	"github.com/noriah/fastsum/kernel"
)

// Request is one decoded command.
type Request interface {
	Command() string
}

type (
	GetNumThreads struct{}

	Init struct {
		Options Options
	}

	SetX struct {
		Handle Handle
		Points Matrix
	}

	SetY struct {
		Handle Handle
		Points Matrix
	}

	SetAlpha struct {
		Handle Handle
		Alpha  ComplexArray
	}

	Precompute  struct{ Handle Handle }
	Trafo       struct{ Handle Handle }
	TrafoDirect struct{ Handle Handle }
	GetF        struct{ Handle Handle }
	GetX        struct{ Handle Handle }
	GetY        struct{ Handle Handle }
	GetAlpha    struct{ Handle Handle }
	GetB        struct{ Handle Handle }
	Finalize    struct{ Handle Handle }
	Display     struct{ Handle Handle }
)

func (GetNumThreads) Command() string { return "get_num_threads" }
func (Init) Command() string          { return "init" }
func (SetX) Command() string          { return "set_x" }
func (SetY) Command() string          { return "set_y" }
func (SetAlpha) Command() string      { return "set_alpha" }
func (Precompute) Command() string    { return "precompute" }
func (Trafo) Command() string         { return "trafo" }
func (TrafoDirect) Command() string   { return "trafo_direct" }
func (GetF) Command() string          { return "get_f" }
func (GetX) Command() string          { return "get_x" }
func (GetY) Command() string          { return "get_y" }
func (GetAlpha) Command() string      { return "get_alpha" }
func (GetB) Command() string          { return "get_b" }
func (Finalize) Command() string      { return "finalize" }
func (Display) Command() string       { return "display" }

type decoder struct {
	arity  int
	decode func(args []Value) (Request, error)
}

func handleOnly(build func(Handle) Request) decoder {
	return decoder{1, func(args []Value) (Request, error) {
		h, err := argHandle(args, 0)
		if err != nil {
			return nil, err
		}
		return build(h), nil
	}}
}

var decoders = map[string]decoder{
	"get_num_threads": {0, func([]Value) (Request, error) { return GetNumThreads{}, nil }},
	"init":            {10, decodeInit},
	"init_guru":       {10, decodeInit},
	"set_x": {2, func(args []Value) (Request, error) {
		h, m, err := handleAndMatrix(args)
		return SetX{Handle: h, Points: m}, err
	}},
	"set_y": {2, func(args []Value) (Request, error) {
		h, m, err := handleAndMatrix(args)
		return SetY{Handle: h, Points: m}, err
	}},
	"set_alpha": {2, func(args []Value) (Request, error) {
		h, err := argHandle(args, 0)
		if err != nil {
			return nil, err
		}
		a, err := argComplex(args, 1)
		if err != nil {
			return nil, err
		}
		return SetAlpha{Handle: h, Alpha: a}, nil
	}},
	"precompute":   handleOnly(func(h Handle) Request { return Precompute{h} }),
	"trafo":        handleOnly(func(h Handle) Request { return Trafo{h} }),
	"trafo_direct": handleOnly(func(h Handle) Request { return TrafoDirect{h} }),
	"get_f":        handleOnly(func(h Handle) Request { return GetF{h} }),
	"get_x":        handleOnly(func(h Handle) Request { return GetX{h} }),
	"get_y":        handleOnly(func(h Handle) Request { return GetY{h} }),
	"get_alpha":    handleOnly(func(h Handle) Request { return GetAlpha{h} }),
	"get_b":        handleOnly(func(h Handle) Request { return GetB{h} }),
	"finalize":     handleOnly(func(h Handle) Request { return Finalize{h} }),
	"display":      handleOnly(func(h Handle) Request { return Display{h} }),
}

// Commands returns every accepted command name, sorted.
func Commands() []string {
	out := make([]string, 0, len(decoders))
	for name := range decoders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Decode checks the name, arity and argument types of a command and returns
// its request. Checks that need the plan happen when the request runs.
func Decode(name string, args []Value) (Request, error) {
	req, err := decode(name, args)
	if err != nil {
		return nil, withCommand(err, name)
	}
	return req, nil
}

func decode(name string, args []Value) (Request, error) {
	if len(name) > CmdLenMax {
		return nil, newError(CodeInvalidCommand, "command name longer than %d characters", CmdLenMax)
	}

	dec, ok := decoders[name]
	if !ok {
		return nil, newError(CodeInvalidCommand, "unknown command %q", name)
	}

	if len(args) != dec.arity {
		return nil, newError(CodeWrongArgumentCount, "want %d arguments, got %d", dec.arity, len(args))
	}

	req, err := dec.decode(args)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func decodeInit(args []Value) (Request, error) {
	ints := make([]int, 6)
	for i := range ints {
		v, err := argInt(args, i)
		if err != nil {
			return nil, err
		}
		ints[i] = v
	}

	name, ok := args[6].(Text)
	if !ok {
		return nil, argTypeError(args, 6, "kernel name string")
	}

	kind, err := kernel.Lookup(string(name))
	if err != nil {
		return nil, wrapError(CodeUnknownKernel, err, "")
	}

	reals := make([]float64, 3)
	for i := range reals {
		v, err := argScalar(args, 7+i)
		if err != nil {
			return nil, err
		}
		reals[i] = v
	}

	return Init{Options{
		D:           ints[0],
		N:           ints[1],
		M:           ints[2],
		Bandwidth:   ints[3],
		Cutoff:      ints[4],
		Smoothness:  ints[5],
		Kernel:      kind,
		KernelParam: reals[0],
		EpsI:        reals[1],
		EpsB:        reals[2],
	}}, nil
}

func handleAndMatrix(args []Value) (Handle, Matrix, error) {
	h, err := argHandle(args, 0)
	if err != nil {
		return 0, Matrix{}, err
	}

	m, ok := args[1].(Matrix)
	if !ok {
		return 0, Matrix{}, argTypeError(args, 1, "real matrix")
	}
	if m.Rows < 0 || m.Cols < 0 || len(m.Data) != m.Rows*m.Cols {
		return 0, Matrix{}, newError(CodeInvalidArgumentType,
			"argument 1: %dx%d matrix holds %d values", m.Rows, m.Cols, len(m.Data))
	}

	return h, m, nil
}

func argTypeError(args []Value, i int, want string) error {
	got := "nil"
	if args[i] != nil {
		got = args[i].kind()
	}
	return newError(CodeInvalidArgumentType, "argument %d: want %s, got %s", i, want, got)
}

func argScalar(args []Value, i int) (float64, error) {
	s, ok := args[i].(Scalar)
	if !ok {
		return 0, argTypeError(args, i, "numeric scalar")
	}
	return float64(s), nil
}

func argInt(args []Value, i int) (int, error) {
	v, err := argScalar(args, i)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, newError(CodeInvalidArgumentType, "argument %d: %g is not an integer", i, v)
	}
	return int(v), nil
}

func argHandle(args []Value, i int) (Handle, error) {
	v, err := argScalar(args, i)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
		return 0, newError(CodeInvalidHandle, "%g is not a handle", v)
	}
	return Handle(v), nil
}

func argComplex(args []Value, i int) (ComplexArray, error) {
	a, ok := args[i].(ComplexArray)
	if !ok {
		return ComplexArray{}, argTypeError(args, i, "complex array")
	}
	if len(a.Re) != len(a.Im) {
		return ComplexArray{}, newError(CodeInvalidArgumentType,
			"argument %d: %d real and %d imaginary parts", i, len(a.Re), len(a.Im))
	}

	total := 1
	for _, n := range a.Dims {
		total *= n
	}
	if len(a.Dims) > 0 && total != len(a.Re) {
		return ComplexArray{}, newError(CodeInvalidArgumentType,
			"argument %d: dims %v do not hold %d entries", i, a.Dims, len(a.Re))
	}

	return a, nil
}
