// Package engine implements fast summation of radial kernels,
//
//	f(y_j) = sum_k alpha_k K(y_j - x_k),
//
// for source nodes x_k and target nodes y_j inside the ball of radius
// 1/4 - eps_B/2. The kernel is regularized into a smooth one-periodic
// function whose Fourier coefficients are computed once per plan; the sum is
// then evaluated with an adjoint NFFT at the sources, a diagonal scaling and
// an NFFT at the targets, plus a direct correction for pairs closer than
// eps_I.
//
// See D. Potts, G. Steidl, A. Nieslony: Fast convolution with radial kernels
// at nonequispaced knots. Numer. Math. 98 (2004).
package engine

import (
	"math"
	"runtime"

	"github.com/noriah/fastsum/fft"
	"github.com/noriah/fastsum/kernel"
	"github.com/noriah/fastsum/nfft"
	"github.com/pkg/errors"
)

var (
	// ErrConfig is returned for plan parameters the algorithm cannot use.
	ErrConfig = errors.New("engine: invalid configuration")
	// ErrNotPrecomputed is returned by Trafo before Precompute.
	ErrNotPrecomputed = errors.New("engine: plan not precomputed")
	// ErrLength is returned for buffers that do not match the plan.
	ErrLength = errors.New("engine: buffer length mismatch")
	// ErrReleased is returned for any use of a released plan.
	ErrReleased = errors.New("engine: plan released")
)

// Config describes one summation problem.
type Config struct {
	D int // dimension
	N int // source nodes
	M int // target nodes

	Bandwidth  int // expansion degree n
	Cutoff     int // window cutoff m
	Smoothness int // regularization degree p

	Kernel kernel.Kind
	Param  float64

	EpsI float64 // inner boundary
	EpsB float64 // outer boundary
}

// Validate reports the first parameter the engine cannot work with.
func (cfg Config) Validate() error {
	switch {
	case cfg.D < 1:
		return errors.Wrapf(ErrConfig, "d must be positive, got %d", cfg.D)
	case cfg.N < 1:
		return errors.Wrapf(ErrConfig, "N must be positive, got %d", cfg.N)
	case cfg.M < 1:
		return errors.Wrapf(ErrConfig, "M must be positive, got %d", cfg.M)
	case cfg.Bandwidth < 1:
		return errors.Wrapf(ErrConfig, "n must be positive, got %d", cfg.Bandwidth)
	case cfg.Cutoff < 1:
		return errors.Wrapf(ErrConfig, "m must be positive, got %d", cfg.Cutoff)
	case cfg.Smoothness < 1:
		return errors.Wrapf(ErrConfig, "p must be positive, got %d", cfg.Smoothness)
	case cfg.Cutoff > cfg.Bandwidth:
		return errors.Wrapf(ErrConfig, "m=%d exceeds n=%d", cfg.Cutoff, cfg.Bandwidth)
	case !cfg.Kernel.Valid():
		return errors.Wrapf(ErrConfig, "kernel %d", cfg.Kernel)
	case math.IsNaN(cfg.Param) || math.IsInf(cfg.Param, 0):
		return errors.Wrapf(ErrConfig, "kernel parameter %v", cfg.Param)
	case !(cfg.EpsB >= 0 && cfg.EpsB < 0.5):
		return errors.Wrapf(ErrConfig, "eps_B must be in [0, 0.5), got %v", cfg.EpsB)
	case !(cfg.EpsI >= 0):
		return errors.Wrapf(ErrConfig, "eps_I must not be negative, got %v", cfg.EpsI)
	case !(cfg.EpsI+cfg.EpsB < 0.5):
		return errors.Wrapf(ErrConfig, "eps_I + eps_B must be below 0.5, got %v", cfg.EpsI+cfg.EpsB)
	}
	return cfg.checkSizes()
}

// MaxSize bounds the length of every buffer a plan allocates: the
// oversampled grid, and the window weights of the sources and targets.
const MaxSize = 1 << 26

func (cfg Config) checkSizes() error {
	grid := 1
	for t := 0; t < cfg.D; t++ {
		var ok bool
		if grid, ok = boundedMul(grid, nfft.Sigma*cfg.Bandwidth); !ok {
			return errors.Wrapf(ErrConfig, "grid of (%d)^%d exceeds %d values", nfft.Sigma*cfg.Bandwidth, cfg.D, MaxSize)
		}
	}

	width := 2*cfg.Cutoff + 1
	for _, nodes := range []int{cfg.N, cfg.M} {
		w, ok := boundedMul(nodes, cfg.D)
		if ok {
			w, ok = boundedMul(w, width)
		}
		if !ok {
			return errors.Wrapf(ErrConfig, "%d nodes with window %d in %d dimensions exceed %d weights", nodes, width, cfg.D, MaxSize)
		}
	}

	return nil
}

// boundedMul returns a*b for positive a and b, or false when the product
// exceeds MaxSize.
func boundedMul(a, b int) (int, bool) {
	if b > MaxSize/a {
		return 0, false
	}
	return a * b, true
}

// Radius returns the radius of the ball all nodes must lie in.
func (cfg Config) Radius() float64 {
	return 0.25 - cfg.EpsB/2
}

// Engine creates plans that share a worker count.
type Engine struct {
	threads int
}

// New returns an engine using the given number of worker goroutines, or
// GOMAXPROCS when threads is not positive.
func New(threads int) *Engine {
	if threads < 1 {
		threads = runtime.GOMAXPROCS(0)
	}
	return &Engine{threads: threads}
}

// NumThreads returns the number of workers a plan may use.
func (e *Engine) NumThreads() int {
	return e.threads
}

// Plan holds the precomputed state of one summation problem.
type Plan struct {
	cfg     Config
	threads int

	eval evaluator
	reg  *regularizer

	src  *nfft.Plan
	dst  *nfft.Plan
	fhat []complex128
	b    []complex128

	x, y []float64
	near *cells

	precomputed bool
	released    bool
}

// NewPlan allocates a plan for cfg.
func (e *Engine) NewPlan(cfg Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := nfft.NewPlan(cfg.D, cfg.Bandwidth, cfg.Cutoff, cfg.N)
	if err != nil {
		return nil, errors.Wrap(err, "engine: source transform")
	}

	dst, err := nfft.NewPlan(cfg.D, cfg.Bandwidth, cfg.Cutoff, cfg.M)
	if err != nil {
		return nil, errors.Wrap(err, "engine: target transform")
	}

	eval := newEvaluator(cfg.Kernel, cfg.Param)

	return &Plan{
		cfg:     cfg,
		threads: e.threads,
		eval:    eval,
		reg:     newRegularizer(eval, cfg.Smoothness, cfg.EpsI, cfg.EpsB, cfg.D > 1),
		src:     src,
		dst:     dst,
		fhat:    make([]complex128, src.Frequencies()),
	}, nil
}

// Precompute fixes the nodes and computes the kernel Fourier coefficients.
func (p *Plan) Precompute(x, y []float64) error {
	if p.released {
		return ErrReleased
	}
	if len(x) != p.cfg.N*p.cfg.D || len(y) != p.cfg.M*p.cfg.D {
		return errors.Wrapf(ErrLength, "x=%d y=%d", len(x), len(y))
	}

	p.x = append(p.x[:0], x...)
	p.y = append(p.y[:0], y...)

	if err := p.src.SetNodes(p.x); err != nil {
		return errors.Wrap(err, "engine: source nodes")
	}
	if err := p.dst.SetNodes(p.y); err != nil {
		return errors.Wrap(err, "engine: target nodes")
	}

	if p.b == nil {
		b, err := p.coefficients()
		if err != nil {
			return err
		}
		p.b = b
	}

	if p.cfg.EpsI > 0 {
		p.near = newCells(p.x, p.cfg.D, p.cfg.EpsI)
	}

	p.precomputed = true
	return nil
}

// coefficients samples K_R on the n^d grid t_j = j/n - 1/2 and returns its
// Fourier coefficients b_l for l in [-n/2, n/2)^d, so that
// K_R(t) ~ sum_l b_l exp(-2 pi i l.t).
func (p *Plan) coefficients() ([]complex128, error) {
	n, d := p.cfg.Bandwidth, p.cfg.D

	plan := fft.NewPlan(n, d)
	grid := make([]complex128, plan.Len())
	idx := make([]int, d)
	t := make([]float64, d)

	for lin := range grid {
		unravel(lin, n, idx)
		for i, j := range idx {
			t[i] = float64(j)/float64(n) - 0.5
		}
		grid[lin] = complex(p.reg.at(t), 0)
	}

	if err := plan.Execute(grid, fft.Backward); err != nil {
		return nil, errors.Wrap(err, "engine: kernel coefficients")
	}

	b := make([]complex128, len(grid))
	scale := 1.0 / float64(len(grid))
	for lin := range b {
		unravel(lin, n, idx)
		g, sign := 0, scale
		for _, i := range idx {
			l := i - n/2
			g = g*n + ((l%n)+n)%n
			if l%2 != 0 {
				sign = -sign
			}
		}
		b[lin] = grid[g] * complex(sign, 0)
	}

	return b, nil
}

// Trafo computes the fast summation into f.
func (p *Plan) Trafo(alpha, f []complex128) error {
	if p.released {
		return ErrReleased
	}
	if !p.precomputed {
		return ErrNotPrecomputed
	}
	if len(alpha) != p.cfg.N || len(f) != p.cfg.M {
		return errors.Wrapf(ErrLength, "alpha=%d f=%d", len(alpha), len(f))
	}

	if err := p.src.Adjoint(alpha, p.fhat); err != nil {
		return errors.Wrap(err, "engine: adjoint transform")
	}

	for i := range p.fhat {
		p.fhat[i] *= p.b[i]
	}

	if err := p.dst.Trafo(p.fhat, f); err != nil {
		return errors.Wrap(err, "engine: transform")
	}

	if p.near != nil {
		p.nearField(alpha, f)
	}

	return nil
}

// nearField adds alpha_k (K - K_R)(y_j - x_k) for every pair closer than
// eps_I.
func (p *Plan) nearField(alpha, f []complex128) {
	d := p.cfg.D
	parallel(p.threads, p.cfg.M, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			var sum complex128
			p.near.near(p.y[j*d:(j+1)*d], func(k int, r float64) {
				sum += alpha[k] * complex(p.eval.value(r)-p.reg.value(r), 0)
			})
			f[j] += sum
		}
	})
}

// Exact computes the sum directly in O(N*M).
func (p *Plan) Exact(x, y []float64, alpha, f []complex128) error {
	if p.released {
		return ErrReleased
	}

	d := p.cfg.D
	if len(x) != p.cfg.N*d || len(y) != p.cfg.M*d ||
		len(alpha) != p.cfg.N || len(f) != p.cfg.M {
		return errors.Wrapf(ErrLength, "x=%d y=%d alpha=%d f=%d", len(x), len(y), len(alpha), len(f))
	}

	parallel(p.threads, p.cfg.M, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			yj := y[j*d : (j+1)*d]

			var sum complex128
			for k := range alpha {
				r := separation(yj, x[k*d:(k+1)*d])
				sum += alpha[k] * complex(p.eval.value(r), 0)
			}
			f[j] = sum
		}
	})

	return nil
}

// Coefficients returns the kernel Fourier coefficients, or nil before the
// first Precompute.
func (p *Plan) Coefficients() []complex128 {
	return p.b
}

// Release drops every buffer held by the plan. It is safe to call twice.
func (p *Plan) Release() {
	p.released = true
	p.precomputed = false
	p.src, p.dst = nil, nil
	p.fhat, p.b = nil, nil
	p.x, p.y = nil, nil
	p.near = nil
}

// unravel writes the row-major multi-index of lin on an n^len(idx) grid.
func unravel(lin, n int, idx []int) {
	for t := len(idx) - 1; t >= 0; t-- {
		idx[t] = lin % n
		lin /= n
	}
}
