package engine

import "math"

// series is a truncated Taylor expansion a_0 + a_1 t + ... around some point.
// All operands of one computation share the same length.
type series []float64

// variable is the expansion of the identity around x0.
func variable(x0 float64, order int) series {
	s := make(series, order)
	s[0] = x0
	if order > 1 {
		s[1] = 1
	}
	return s
}

// derivative returns the r-th derivative at the expansion point.
func (a series) derivative(r int) float64 {
	return a[r] * factorial(r)
}

func (a series) add(b series) series {
	c := make(series, len(a))
	for k := range c {
		c[k] = a[k] + b[k]
	}
	return c
}

func (a series) shift(v float64) series {
	c := append(series(nil), a...)
	c[0] += v
	return c
}

func (a series) scale(v float64) series {
	c := make(series, len(a))
	for k := range c {
		c[k] = a[k] * v
	}
	return c
}

func (a series) mul(b series) series {
	c := make(series, len(a))
	for k := range c {
		for j := 0; j <= k; j++ {
			c[k] += a[j] * b[k-j]
		}
	}
	return c
}

func (a series) div(b series) series {
	c := make(series, len(a))
	for k := range c {
		v := a[k]
		for j := 1; j <= k; j++ {
			v -= b[j] * c[k-j]
		}
		c[k] = v / b[0]
	}
	return c
}

func (a series) exp() series {
	b := make(series, len(a))
	b[0] = math.Exp(a[0])
	for k := 1; k < len(b); k++ {
		for j := 1; j <= k; j++ {
			b[k] += float64(j) * a[j] * b[k-j]
		}
		b[k] /= float64(k)
	}
	return b
}

func (a series) log() series {
	b := make(series, len(a))
	b[0] = math.Log(a[0])
	for k := 1; k < len(b); k++ {
		v := 0.0
		for j := 1; j < k; j++ {
			v += float64(j) * b[j] * a[k-j]
		}
		b[k] = (a[k] - v/float64(k)) / a[0]
	}
	return b
}

// pow raises a series with a positive constant term to a real power.
func (a series) pow(alpha float64) series {
	b := make(series, len(a))
	b[0] = math.Pow(a[0], alpha)
	for k := 1; k < len(b); k++ {
		v := 0.0
		for j := 1; j <= k; j++ {
			v += (alpha*float64(j) - float64(k-j)) * a[j] * b[k-j]
		}
		b[k] = v / (float64(k) * a[0])
	}
	return b
}

func (a series) sincos() (series, series) {
	s := make(series, len(a))
	c := make(series, len(a))
	s[0], c[0] = math.Sincos(a[0])
	for k := 1; k < len(a); k++ {
		for j := 1; j <= k; j++ {
			s[k] += float64(j) * a[j] * c[k-j]
			c[k] -= float64(j) * a[j] * s[k-j]
		}
		s[k] /= float64(k)
		c[k] /= float64(k)
	}
	return s, c
}

// abs is only valid away from zero.
func (a series) abs() series {
	if a[0] < 0 {
		return a.scale(-1)
	}
	return a
}

func factorial(r int) float64 {
	f := 1.0
	for i := 2; i <= r; i++ {
		f *= float64(i)
	}
	return f
}
