package nfft

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// NDFT evaluates the trafo directly in O(n^d * len(f)). It is the reference
// the fast transform is measured against.
func NDFT(dims, n int, x []float64, fhat, f []complex128) error {
	return direct(dims, n, x, fhat, f, -1, false)
}

// AdjointNDFT evaluates the adjoint directly.
func AdjointNDFT(dims, n int, x []float64, f, fhat []complex128) error {
	return direct(dims, n, x, fhat, f, 1, true)
}

func direct(dims, n int, x []float64, fhat, f []complex128, sign float64, adjoint bool) error {
	total := 1
	for t := 0; t < dims; t++ {
		total *= n
	}
	if len(fhat) != total || len(x) != len(f)*dims {
		return errors.Wrapf(ErrLength, "fhat=%d f=%d x=%d", len(fhat), len(f), len(x))
	}

	if adjoint {
		for i := range fhat {
			fhat[i] = 0
		}
	} else {
		for j := range f {
			f[j] = 0
		}
	}

	for lin := 0; lin < total; lin++ {
		for j := range f {
			rest, stride := lin, total
			phase := 0.0
			for t := 0; t < dims; t++ {
				stride /= n
				k := rest/stride - n/2
				rest %= stride
				phase += float64(k) * x[j*dims+t]
			}
			e := cmplx.Exp(complex(0, sign*2*math.Pi*phase))
			if adjoint {
				fhat[lin] += f[j] * e
			} else {
				f[j] += fhat[lin] * e
			}
		}
	}

	return nil
}
