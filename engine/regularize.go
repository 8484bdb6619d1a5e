package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// regularizer is the kernel modified into a smooth one-periodic function.
//
// K_R equals K on eps_I <= |x| <= 1/2 - eps_B. Inside |x| < eps_I and on
// 1/2 - eps_B < |x| <= 1/2 it is replaced by two point Taylor interpolants
// of degree 2p-1, the outer one reaching the boundary value with vanishing
// derivatives so that the periodization stays p-1 times differentiable.
type regularizer struct {
	eval evaluator
	p    int
	a, b float64

	// radial kernels are regularized as functions of |x|; in one dimension
	// the sign is kept so odd kernels stay odd.
	radial bool

	innerLo, innerHi []float64 // derivatives at -a and a
	outerLo, outerHi []float64 // derivatives at -(1/2-b) and 1/2-b
	edge             float64
}

func newRegularizer(eval evaluator, p int, epsI, epsB float64, radial bool) *regularizer {
	r := &regularizer{
		eval:   eval,
		p:      p,
		a:      epsI,
		b:      epsB,
		radial: radial,
	}

	if epsI > 0 {
		r.innerHi = eval.derivatives(epsI, p)
		if !radial {
			r.innerLo = eval.derivatives(-epsI, p)
		}
	}

	if epsB > 0 {
		r.outerHi = eval.derivatives(0.5-epsB, p)
		if radial {
			r.edge = eval.value(0.5)
		} else {
			r.outerLo = eval.derivatives(-0.5+epsB, p)
			r.edge = (eval.value(-0.5) + eval.value(0.5)) / 2
		}
	}

	return r
}

// at evaluates K_R at the point t of the torus.
func (r *regularizer) at(t []float64) float64 {
	if !r.radial {
		return r.line(t[0])
	}
	return r.radius(floats.Norm(t, 2))
}

// value evaluates K_R at the separation produced by the kernel evaluator.
func (r *regularizer) value(x float64) float64 {
	if !r.radial {
		return r.line(x)
	}
	return r.radius(x)
}

func (r *regularizer) line(x float64) float64 {
	a, b, m := r.a, r.b, r.p-1

	if x < -0.5 {
		x = -0.5
	}
	if x > 0.5 {
		x = 0.5
	}

	switch {
	case (x >= -0.5+b && x <= -a) || (x >= a && x <= 0.5-b):
		return r.eval.value(x)

	case x < -0.5+b:
		sum := r.edge * basisPoly(m, 0, 2*x/b+(1-b)/b)
		for k := 0; k < r.p; k++ {
			sum += math.Pow(-b/2, float64(k)) * r.outerLo[k] * basisPoly(m, k, -2*x/b+(b-1)/b)
		}
		return sum

	case x > -a && x < a:
		sum := 0.0
		for k := 0; k < r.p; k++ {
			sign := 1.0
			if k%2 == 1 {
				sign = -1
			}
			sum += math.Pow(a, float64(k)) *
				(r.innerLo[k]*basisPoly(m, k, x/a) + sign*r.innerHi[k]*basisPoly(m, k, -x/a))
		}
		return sum

	case x > 0.5-b:
		sum := r.edge * basisPoly(m, 0, -2*x/b+(1-b)/b)
		for k := 0; k < r.p; k++ {
			sum += math.Pow(b/2, float64(k)) * r.outerHi[k] * basisPoly(m, k, 2*x/b-(1-b)/b)
		}
		return sum
	}

	return r.eval.value(x)
}

func (r *regularizer) radius(x float64) float64 {
	a, b, m := r.a, r.b, r.p-1

	x = math.Abs(x)
	if x > 0.5 {
		x = 0.5
	}

	switch {
	case a <= x && x <= 0.5-b:
		return r.eval.value(x)

	case x < a:
		sum := 0.0
		for k := 0; k < r.p; k++ {
			sum += math.Pow(-a, float64(k)) * r.innerHi[k] *
				(basisPoly(m, k, x/a) + basisPoly(m, k, -x/a))
		}
		return sum
	}

	sum := r.edge * basisPoly(m, 0, -2*x/b+(1-b)/b)
	for k := 0; k < r.p; k++ {
		sum += math.Pow(b/2, float64(k)) * r.outerHi[k] * basisPoly(m, k, 2*x/b-(1-b)/b)
	}
	return sum
}

// basisPoly is the two point Taylor basis polynomial of degree 2m+1 on
// [-1, 1] whose r-th derivative is one at -1 and whose other derivatives up
// to order m vanish at both ends.
func basisPoly(m, r int, x float64) float64 {
	sum := 0.0
	for k := 0; k <= m-r; k++ {
		sum += binomial(m+k, k) * math.Pow((x+1)/2, float64(k))
	}
	return sum * math.Pow(x+1, float64(r)) * math.Pow(1-x, float64(m+1)) /
		math.Pow(2, float64(m+1)) / factorial(r)
}

func binomial(n, k int) float64 {
	v := 1.0
	for i := 1; i <= k; i++ {
		v *= float64(n-k+i) / float64(i)
	}
	return v
}
