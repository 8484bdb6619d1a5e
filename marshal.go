package fastsum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// importPoints converts a count x d column-major matrix into a fresh
// point-major buffer. With check set every point must lie in the ball of the
// given radius.
func importPoints(m Matrix, count, d int, radius float64, check bool) ([]float64, error) {
	if m.Rows != count || m.Cols != d {
		return nil, newError(CodeInvalidArgumentType,
			"expected a %dx%d matrix, got %dx%d", count, d, m.Rows, m.Cols)
	}
	if len(m.Data) != count*d {
		return nil, newError(CodeInvalidArgumentType,
			"matrix holds %d values, want %d", len(m.Data), count*d)
	}

	out := make([]float64, count*d)
	for k := 0; k < count; k++ {
		for t := 0; t < d; t++ {
			v := m.Data[k+t*count]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, newError(CodeInvalidArgumentType,
					"point %d coordinate %d is not finite", k, t)
			}
			out[k*d+t] = v
		}
	}

	if check {
		if k := outside(out, d, radius); k >= 0 {
			p := out[k*d : (k+1)*d]
			return nil, newError(CodeDomainViolation,
				"point %d has norm %g, outside radius %g", k, math.Sqrt(floats.Dot(p, p)), radius)
		}
	}

	return out, nil
}

// outside returns the index of the first point whose squared norm exceeds
// radius^2, or -1.
func outside(x []float64, d int, radius float64) int {
	limit := radius * radius
	for k := 0; k*d < len(x); k++ {
		p := x[k*d : (k+1)*d]
		if floats.Dot(p, p) > limit {
			return k
		}
	}
	return -1
}

// exportPoints converts a point-major buffer back into a column-major
// count x d matrix.
func exportPoints(x []float64, count, d int) Matrix {
	m := NewMatrix(count, d)
	for k := 0; k < count; k++ {
		for t := 0; t < d; t++ {
			m.Data[k+t*count] = x[k*d+t]
		}
	}
	return m
}

// importWeights converts split planes into a fresh interleaved buffer of
// length count.
func importWeights(a ComplexArray, count int) ([]complex128, error) {
	if a.Len() != count {
		return nil, newError(CodeInvalidArgumentType,
			"expected %d complex entries, got %d", count, a.Len())
	}
	if len(a.Im) != len(a.Re) {
		return nil, newError(CodeInvalidArgumentType,
			"%d real and %d imaginary parts", len(a.Re), len(a.Im))
	}

	out := make([]complex128, count)
	for i := range out {
		re, im := a.Re[i], a.Im[i]
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return nil, newError(CodeInvalidArgumentType, "weight %d is not finite", i)
		}
		out[i] = complex(re, im)
	}

	return out, nil
}

// exportComplex splits v into planes with the given axis extents.
func exportComplex(v []complex128, dims ...int) ComplexArray {
	a := ComplexArray{
		Dims: append([]int(nil), dims...),
		Re:   make([]float64, len(v)),
		Im:   make([]float64, len(v)),
	}
	for i, c := range v {
		a.Re[i], a.Im[i] = real(c), imag(c)
	}
	return a
}
