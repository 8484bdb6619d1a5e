// Package fft provides generic abstractions around fourier transformers.
package fft

import (
	"github.com/pkg/errors"
)

// Direction is the sign of the exponent used by a transform.
type Direction int

const (
	// Forward computes sum_j a_j exp(-2 pi i jk/n).
	Forward Direction = -1
	// Backward computes sum_j a_j exp(+2 pi i jk/n).
	Backward Direction = 1
)

// ErrSize is returned when a buffer does not match the plan.
var ErrSize = errors.New("buffer does not match plan size")

// InitPlan creates a plan for a dims-dimensional grid with side length n
// stored in row-major order (last dimension fastest).
func InitPlan(pointer **Plan, n, dims int) {
	(*pointer) = &Plan{
		side: n,
		dims: dims,
	}

	(*pointer).init()
}

// NewPlan returns a plan for an n^dims grid.
func NewPlan(n, dims int) *Plan {
	var p *Plan
	InitPlan(&p, n, dims)
	return p
}

// Side returns the grid side length.
func (p *Plan) Side() int {
	return p.side
}

// Len returns the total number of grid values.
func (p *Plan) Len() int {
	return p.total
}

func (p *Plan) init() {
	p.total = 1
	for i := 0; i < p.dims; i++ {
		p.total *= p.side
	}
	p.line = make([]complex128, p.side)
	p.work = make([]complex128, p.side)
}

// Execute transforms data in place along every dimension. The transform is
// unnormalized in both directions.
func (p *Plan) Execute(data []complex128, dir Direction) error {
	if len(data) != p.total {
		return errors.Wrapf(ErrSize, "got %d values, want %d", len(data), p.total)
	}

	n := p.side
	stride := p.total
	for axis := 0; axis < p.dims; axis++ {
		stride /= n
		block := stride * n

		for base := 0; base < p.total; base += block {
			for off := 0; off < stride; off++ {
				start := base + off

				for k := 0; k < n; k++ {
					p.line[k] = data[start+k*stride]
				}

				p.transform(dir)

				for k := 0; k < n; k++ {
					data[start+k*stride] = p.work[k]
				}
			}
		}
	}

	return nil
}
