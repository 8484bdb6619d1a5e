package nfft

import "math"

// KaiserBessel is the Kaiser-Bessel window used to spread nodes onto the
// oversampled grid.
//
// See https://wikipedia.org/wiki/Kaiser_window
type KaiserBessel struct {
	m    float64 // cutoff, in grid cells
	beta float64 // shape
	size float64 // oversampled grid size
}

// NewKaiserBessel builds the window for cutoff m on a grid of size cells
// with oversampling factor sigma.
func NewKaiserBessel(m, size int, sigma float64) KaiserBessel {
	return KaiserBessel{
		m:    float64(m),
		beta: math.Pi * (2.0 - 1.0/sigma),
		size: float64(size),
	}
}

// Phi evaluates the window at u grid cells from its center. It is truncated
// to |u| <= m.
func (kb KaiserBessel) Phi(u float64) float64 {
	r := kb.m*kb.m - u*u
	switch {
	case r > 0:
		s := math.Sqrt(r)
		return math.Sinh(kb.beta*s) / (math.Pi * s)
	case r == 0:
		return kb.beta / math.Pi
	}
	return 0
}

// PhiHat evaluates the Fourier transform of the window at frequency k.
func (kb KaiserBessel) PhiHat(k int) float64 {
	w := 2.0 * math.Pi * float64(k) / kb.size
	return besselI0(kb.m * math.Sqrt(kb.beta*kb.beta-w*w))
}

// besselI0 is the modified Bessel function of the first kind of order zero.
func besselI0(x float64) float64 {
	q := x * x / 4.0
	sum, term := 1.0, 1.0
	for k := 1.0; k < 500; k++ {
		term *= q / (k * k)
		sum += term
		if term < sum*1e-17 {
			break
		}
	}
	return sum
}
