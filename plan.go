package fastsum

import (
	"strings"

	"github.com/noriah/fastsum/engine"
	"github.com/noriah/fastsum/kernel"
)

// State is the set of lifecycle steps a plan has completed. The zero value
// is a freshly created plan.
type State uint8

const (
	SourceLoaded State = 1 << iota
	TargetLoaded
	WeightsLoaded
	Precomputed
	Transformed

	// Loaded is every input a transform needs.
	Loaded = SourceLoaded | TargetLoaded | WeightsLoaded
)

var stateNames = [...]string{"source", "target", "weights", "precomputed", "transformed"}

// Has reports whether every flag in f is set.
func (s State) Has(f State) bool {
	return s&f == f
}

func (s State) String() string {
	if s == 0 {
		return "created"
	}

	var parts []string
	for i, name := range stateNames {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Options are the parameters of one summation problem, as given to init.
type Options struct {
	D int // dimension
	N int // source nodes
	M int // target nodes

	Bandwidth  int // expansion degree n
	Cutoff     int // window cutoff m
	Smoothness int // regularization degree p

	Kernel      kernel.Kind
	KernelParam float64

	EpsI float64
	EpsB float64
}

func (o Options) engineConfig() engine.Config {
	return engine.Config{
		D:          o.D,
		N:          o.N,
		M:          o.M,
		Bandwidth:  o.Bandwidth,
		Cutoff:     o.Cutoff,
		Smoothness: o.Smoothness,
		Kernel:     o.Kernel,
		Param:      o.KernelParam,
		EpsI:       o.EpsI,
		EpsB:       o.EpsB,
	}
}

// Validate reports the first parameter no plan can be built with.
func (o Options) Validate() error {
	if err := o.engineConfig().Validate(); err != nil {
		return wrapError(CodeInvalidArgumentType, err, "invalid plan parameters")
	}
	return nil
}

// Radius returns the radius of the ball every node must lie in.
func (o Options) Radius() float64 {
	return 0.25 - o.EpsB/2
}

// Coefficients returns n^d, the number of kernel Fourier coefficients.
// Validate keeps it below engine.MaxSize.
func (o Options) Coefficients() int {
	total := 1
	for t := 0; t < o.D; t++ {
		total *= o.Bandwidth
	}
	return total
}

// Handle is a plan slot index.
type Handle int

// Ref pins a handle to the plan that occupied the slot when the ref was
// taken.
type Ref struct {
	Handle Handle
	Gen    uint32
}

// Plan is one summation problem owned by a Registry.
type Plan struct {
	handle Handle
	gen    uint32
	opts   Options

	x, y  []float64 // point-major, x[k*d+t]
	alpha []complex128
	f     []complex128
	b     []complex128

	state  State
	engine EnginePlan
}

func newPlan(h Handle, gen uint32, opts Options, ep EnginePlan) *Plan {
	return &Plan{
		handle: h,
		gen:    gen,
		opts:   opts,
		x:      make([]float64, opts.N*opts.D),
		y:      make([]float64, opts.M*opts.D),
		alpha:  make([]complex128, opts.N),
		f:      make([]complex128, opts.M),
		b:      make([]complex128, opts.Coefficients()),
		engine: ep,
	}
}

// Handle returns the slot the plan occupies.
func (p *Plan) Handle() Handle { return p.handle }

// Ref returns a generation-checked reference to the plan.
func (p *Plan) Ref() Ref { return Ref{Handle: p.handle, Gen: p.gen} }

// Options returns the plan parameters.
func (p *Plan) Options() Options { return p.opts }

// State returns the completed lifecycle steps.
func (p *Plan) State() State { return p.state }

// invalidate clears the flags a reload of the nodes or weights makes stale.
func (p *Plan) invalidate(loaded State) {
	switch loaded {
	case SourceLoaded, TargetLoaded:
		p.state &^= Precomputed | Transformed
	case WeightsLoaded:
		p.state &^= Transformed
	}
	p.state |= loaded
}

// release frees the engine plan and drops the kernel parameter before the
// buffers.
func (p *Plan) release() {
	p.opts.KernelParam = 0
	if p.engine != nil {
		p.engine.Release()
		p.engine = nil
	}
	p.x, p.y = nil, nil
	p.alpha, p.f, p.b = nil, nil, nil
	p.state = 0
}
