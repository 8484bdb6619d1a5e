package fastsum

import "github.com/noriah/fastsum/engine"

// Engine creates engine plans. The bundled implementation is returned by
// NewEngine; tests substitute their own.
type Engine interface {
	NumThreads() int
	NewPlan(engine.Config) (EnginePlan, error)
}

// EnginePlan is the engine side of one plan.
type EnginePlan interface {
	// Precompute fixes the nodes and computes the kernel coefficients.
	Precompute(x, y []float64) error
	// Trafo writes the fast summation of alpha into f.
	Trafo(alpha, f []complex128) error
	// Exact writes the direct summation into f.
	Exact(x, y []float64, alpha, f []complex128) error
	// Coefficients returns the kernel Fourier coefficients, nil before
	// Precompute.
	Coefficients() []complex128
	Release()
}

type bundled struct {
	*engine.Engine
}

// NewEngine returns the bundled NFFT based engine with the given number of
// worker goroutines, or GOMAXPROCS when threads is zero.
func NewEngine(threads int) Engine {
	return bundled{engine.New(threads)}
}

func (e bundled) NewPlan(cfg engine.Config) (EnginePlan, error) {
	p, err := e.Engine.NewPlan(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}
