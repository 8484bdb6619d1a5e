package fastsum

import (
	"github.com/noriah/fastsum/engine"
	"github.com/noriah/fastsum/kernel"
	"github.com/pkg/errors"
)

var errInjected = errors.New("injected failure")

type fakeEngine struct {
	threads int
	failNew bool
	plans   []*fakePlan
}

func (e *fakeEngine) NumThreads() int { return e.threads }

func (e *fakeEngine) NewPlan(cfg engine.Config) (EnginePlan, error) {
	if e.failNew {
		return nil, errInjected
	}
	p := &fakePlan{cfg: cfg}
	e.plans = append(e.plans, p)
	return p, nil
}

// fakePlan sums alpha into every target and scribbles over its output
// before failing, so tests can check the caller discards partial results.
type fakePlan struct {
	cfg         engine.Config
	precomputed bool
	released    int
	fail        bool
}

func (p *fakePlan) Precompute(x, y []float64) error {
	if p.fail {
		return errInjected
	}
	p.precomputed = true
	return nil
}

func (p *fakePlan) Trafo(alpha, f []complex128) error {
	if !p.precomputed {
		return engine.ErrNotPrecomputed
	}
	return p.Exact(nil, nil, alpha, f)
}

func (p *fakePlan) Exact(x, y []float64, alpha, f []complex128) error {
	if p.fail {
		for j := range f {
			f[j] = 99
		}
		return errInjected
	}

	var sum complex128
	for _, a := range alpha {
		sum += a
	}
	for j := range f {
		f[j] = sum
	}
	return nil
}

func (p *fakePlan) Coefficients() []complex128 {
	if !p.precomputed {
		return nil
	}
	total := 1
	for t := 0; t < p.cfg.D; t++ {
		total *= p.cfg.Bandwidth
	}
	b := make([]complex128, total)
	for i := range b {
		b[i] = 1
	}
	return b
}

func (p *fakePlan) Release() { p.released++ }

func testOptions() Options {
	return Options{
		D: 1, N: 2, M: 2,
		Bandwidth: 32, Cutoff: 4, Smoothness: 8,
		Kernel: kernel.Gaussian, KernelParam: 1,
		EpsI: 0.1, EpsB: 0.1,
	}
}

func initArgs(o Options) []Value {
	return []Value{
		Scalar(o.D), Scalar(o.N), Scalar(o.M),
		Scalar(o.Bandwidth), Scalar(o.Cutoff), Scalar(o.Smoothness),
		Text(o.Kernel.String()), Scalar(o.KernelParam),
		Scalar(o.EpsI), Scalar(o.EpsB),
	}
}

func column(v ...float64) Matrix {
	return Matrix{Rows: len(v), Cols: 1, Data: v}
}
