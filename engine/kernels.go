package engine

import (
	"math"

	"github.com/noriah/fastsum/kernel"
	"gonum.org/v1/gonum/floats"
)

// expansion evaluates a kernel on a Taylor series argument.
type expansion func(x series, c float64) series

var expansions = map[kernel.Kind]expansion{
	kernel.Gaussian: func(x series, c float64) series {
		return x.mul(x).scale(-1 / (c * c)).exp()
	},
	kernel.Multiquadric: func(x series, c float64) series {
		return x.mul(x).shift(c * c).pow(0.5)
	},
	kernel.InverseMultiquadric: func(x series, c float64) series {
		return x.mul(x).shift(c * c).pow(-0.5)
	},
	kernel.Logarithm: func(x series, c float64) series {
		return x.abs().log()
	},
	kernel.ThinplateSpline: func(x series, c float64) series {
		return x.mul(x).mul(x.abs().log())
	},
	kernel.OneOverSquare: func(x series, c float64) series {
		return x.mul(x).pow(-1)
	},
	kernel.OneOverModulus: func(x series, c float64) series {
		return x.abs().pow(-1)
	},
	kernel.OneOverX: func(x series, c float64) series {
		return one(len(x)).div(x)
	},
	kernel.InverseMultiquadric3: func(x series, c float64) series {
		return x.mul(x).shift(c * c).pow(-1.5)
	},
	kernel.SincKernel: func(x series, c float64) series {
		s, _ := x.scale(c).sincos()
		return s.div(x)
	},
	kernel.Cosc: func(x series, c float64) series {
		_, co := x.scale(c).sincos()
		return co.div(x)
	},
	kernel.Cot: func(x series, c float64) series {
		s, co := x.scale(c).sincos()
		return co.div(s)
	},
}

func one(order int) series {
	s := make(series, order)
	s[0] = 1
	return s
}

// closed forms used on the hot path of the direct sums.
var closed = map[kernel.Kind]func(x, c float64) float64{
	kernel.Gaussian: func(x, c float64) float64 {
		return math.Exp(-x * x / (c * c))
	},
	kernel.Multiquadric: func(x, c float64) float64 {
		return math.Sqrt(x*x + c*c)
	},
	kernel.InverseMultiquadric: func(x, c float64) float64 {
		return 1 / math.Sqrt(x*x+c*c)
	},
	kernel.Logarithm: func(x, c float64) float64 {
		return math.Log(math.Abs(x))
	},
	kernel.ThinplateSpline: func(x, c float64) float64 {
		return x * x * math.Log(math.Abs(x))
	},
	kernel.OneOverSquare: func(x, c float64) float64 {
		return 1 / (x * x)
	},
	kernel.OneOverModulus: func(x, c float64) float64 {
		return 1 / math.Abs(x)
	},
	kernel.OneOverX: func(x, c float64) float64 {
		return 1 / x
	},
	kernel.InverseMultiquadric3: func(x, c float64) float64 {
		s := math.Sqrt(x*x + c*c)
		return 1 / (s * s * s)
	},
	kernel.SincKernel: func(x, c float64) float64 {
		return math.Sin(c*x) / x
	},
	kernel.Cosc: func(x, c float64) float64 {
		return math.Cos(c*x) / x
	},
	kernel.Cot: func(x, c float64) float64 {
		return 1 / math.Tan(c*x)
	},
}

// evaluator evaluates one kernel with a fixed shape parameter.
type evaluator struct {
	kind  kernel.Kind
	param float64
	fn    expansion
	at    func(x, c float64) float64
}

func newEvaluator(kind kernel.Kind, param float64) evaluator {
	return evaluator{
		kind:  kind,
		param: param,
		fn:    expansions[kind],
		at:    closed[kind],
	}
}

// value returns K(x). Kernels that are singular at the origin are defined as
// zero there, except sinc which takes its limit.
func (e evaluator) value(x float64) float64 {
	if x == 0 && e.kind.Singular() {
		if e.kind == kernel.SincKernel {
			return e.param
		}
		return 0
	}
	return e.at(x, e.param)
}

// derivatives returns K(x), K'(x), ..., K^(order-1)(x).
func (e evaluator) derivatives(x float64, order int) []float64 {
	s := e.fn(variable(x, order), e.param)
	out := make([]float64, order)
	for r := range out {
		out[r] = s.derivative(r)
	}
	return out
}

// separation returns the argument the kernel is evaluated at for target y
// and source x: the signed difference in one dimension, the distance
// otherwise.
func separation(y, x []float64) float64 {
	if len(y) == 1 {
		return y[0] - x[0]
	}
	return floats.Distance(y, x, 2)
}
