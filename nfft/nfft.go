// Package nfft implements the non-equispaced fast Fourier transform on the
// torus [-1/2, 1/2)^d.
//
// For frequencies k in [-n/2, n/2)^d and nodes x_j the transforms are
//
//	Trafo:   f_j   = sum_k fhat_k exp(-2 pi i k.x_j)
//	Adjoint: fhat_k = sum_j f_j   exp(+2 pi i k.x_j)
//
// Frequency arrays are stored row-major with the first dimension slowest and
// index i mapping to k = i - n/2. Nodes are stored dimension-fastest.
//
// See https://www-user.tu-chemnitz.de/~potts/nfft/
package nfft

import (
	"math"

	"github.com/noriah/fastsum/fft"
	"github.com/pkg/errors"
)

// Sigma is the oversampling factor of the internal grid.
const Sigma = 2

var (
	// ErrNodesNotSet is returned when a transform runs before SetNodes.
	ErrNodesNotSet = errors.New("nfft: nodes not set")
	// ErrLength is returned for buffers that do not match the plan.
	ErrLength = errors.New("nfft: buffer length mismatch")
	// ErrParameter is returned for invalid plan parameters.
	ErrParameter = errors.New("nfft: invalid parameter")
)

// Plan is an NFFT plan for a fixed set of nodes.
type Plan struct {
	dims  int
	n     int // frequencies per dimension
	os    int // oversampled grid size per dimension
	m     int
	nodes int

	window   KaiserBessel
	hatScale []float64 // 1/PhiHat, indexed like a frequency axis

	start []int     // first grid cell touched, per node and dimension
	psi   []float64 // window weights, per node, dimension and cell
	ready bool

	grid    []complex128
	plan    *fft.Plan
	counter []int
}

// NewPlan returns a plan for n^dims frequencies, a window cutoff of m grid
// cells and the given number of nodes.
func NewPlan(dims, n, m, nodes int) (*Plan, error) {
	if dims < 1 || n < 1 || m < 1 || nodes < 1 {
		return nil, errors.Wrapf(ErrParameter, "dims=%d n=%d m=%d nodes=%d", dims, n, m, nodes)
	}

	p := &Plan{
		dims:     dims,
		n:        n,
		os:       Sigma * n,
		m:        m,
		nodes:    nodes,
		hatScale: make([]float64, n),
		start:    make([]int, nodes*dims),
		psi:      make([]float64, nodes*dims*(2*m+1)),
		counter:  make([]int, dims),
	}

	p.window = NewKaiserBessel(m, p.os, Sigma)
	for i := range p.hatScale {
		p.hatScale[i] = 1.0 / p.window.PhiHat(i-n/2)
	}

	p.plan = fft.NewPlan(p.os, dims)
	p.grid = make([]complex128, p.plan.Len())

	return p, nil
}

// Frequencies returns the number of frequency coefficients, n^dims.
func (p *Plan) Frequencies() int {
	total := 1
	for t := 0; t < p.dims; t++ {
		total *= p.n
	}
	return total
}

// SetNodes precomputes the window weights for the nodes x.
func (p *Plan) SetNodes(x []float64) error {
	if len(x) != p.nodes*p.dims {
		return errors.Wrapf(ErrLength, "got %d coordinates, want %d", len(x), p.nodes*p.dims)
	}

	w := 2*p.m + 1
	for i, v := range x {
		u := float64(p.os) * v
		u0 := int(math.Ceil(u - float64(p.m)))
		p.start[i] = u0

		psi := p.psi[i*w : (i+1)*w]
		for c := range psi {
			psi[c] = p.window.Phi(u - float64(u0+c))
		}
	}

	p.ready = true
	return nil
}

// Trafo evaluates the trigonometric polynomial fhat at every node into f.
func (p *Plan) Trafo(fhat, f []complex128) error {
	if err := p.check(fhat, f); err != nil {
		return err
	}

	for i := range p.grid {
		p.grid[i] = 0
	}

	p.eachFrequency(func(lin, g int, scale float64) {
		p.grid[g] = fhat[lin] * complex(scale, 0)
	})

	if err := p.plan.Execute(p.grid, fft.Forward); err != nil {
		return errors.Wrap(err, "nfft: trafo")
	}

	for j := range f {
		var sum complex128
		p.eachCell(j, func(g int, w float64) {
			sum += p.grid[g] * complex(w, 0)
		})
		f[j] = sum
	}

	return nil
}

// Adjoint computes the adjoint transform of the node values f into fhat.
func (p *Plan) Adjoint(f, fhat []complex128) error {
	if err := p.check(fhat, f); err != nil {
		return err
	}

	for i := range p.grid {
		p.grid[i] = 0
	}

	for j, v := range f {
		p.eachCell(j, func(g int, w float64) {
			p.grid[g] += v * complex(w, 0)
		})
	}

	if err := p.plan.Execute(p.grid, fft.Backward); err != nil {
		return errors.Wrap(err, "nfft: adjoint")
	}

	p.eachFrequency(func(lin, g int, scale float64) {
		fhat[lin] = p.grid[g] * complex(scale, 0)
	})

	return nil
}

func (p *Plan) check(fhat, f []complex128) error {
	if !p.ready {
		return ErrNodesNotSet
	}
	if len(fhat) != p.Frequencies() {
		return errors.Wrapf(ErrLength, "got %d coefficients, want %d", len(fhat), p.Frequencies())
	}
	if len(f) != p.nodes {
		return errors.Wrapf(ErrLength, "got %d values, want %d", len(f), p.nodes)
	}
	return nil
}

// eachFrequency calls fn with the linear frequency index, the matching
// oversampled grid index and the deconvolution factor.
func (p *Plan) eachFrequency(fn func(lin, g int, scale float64)) {
	total := p.Frequencies()
	for lin := 0; lin < total; lin++ {
		rest, stride := lin, total
		g, scale := 0, 1.0
		for t := 0; t < p.dims; t++ {
			stride /= p.n
			i := rest / stride
			rest %= stride

			g = g*p.os + wrap(i-p.n/2, p.os)
			scale *= p.hatScale[i]
		}
		fn(lin, g, scale)
	}
}

// eachCell calls fn for every grid cell in the window around node j.
func (p *Plan) eachCell(j int, fn func(g int, w float64)) {
	width := 2*p.m + 1
	c := p.counter
	for t := range c {
		c[t] = 0
	}

	for {
		g, weight := 0, 1.0
		for t := 0; t < p.dims; t++ {
			i := j*p.dims + t
			g = g*p.os + wrap(p.start[i]+c[t], p.os)
			weight *= p.psi[i*width+c[t]]
		}
		fn(g, weight)

		t := p.dims - 1
		for ; t >= 0; t-- {
			if c[t]++; c[t] < width {
				break
			}
			c[t] = 0
		}
		if t < 0 {
			return
		}
	}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
