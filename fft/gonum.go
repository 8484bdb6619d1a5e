package fft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan holds a gonum FFT plan along with scratch lines for one axis.
type Plan struct {
	side  int
	dims  int
	total int
	line  []complex128
	work  []complex128
	fft   *fourier.CmplxFFT
}

// transform runs the 1-D transform of p.line into p.work.
func (p *Plan) transform(dir Direction) {
	if p.fft == nil {
		p.fft = fourier.NewCmplxFFT(p.side)
	}

	if dir == Forward {
		p.fft.Coefficients(p.work, p.line)
		return
	}
	p.fft.Sequence(p.work, p.line)
}
