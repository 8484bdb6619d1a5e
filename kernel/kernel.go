// Package kernel names the radial kernels the fast summation engine knows how
// to evaluate.
package kernel

import "github.com/pkg/errors"

// Kind identifies a kernel function K.
type Kind int

// Kernel kinds, in catalog order.
const (
	Gaussian Kind = iota
	Multiquadric
	InverseMultiquadric
	Logarithm
	ThinplateSpline
	OneOverSquare
	OneOverModulus
	OneOverX
	InverseMultiquadric3
	SincKernel
	Cosc
	Cot

	numKinds
)

// ErrUnknown is returned by Lookup for names outside the catalog.
var ErrUnknown = errors.New("unknown kernel function")

type entry struct {
	name string
	kind Kind
	// singular kernels are defined as a constant at the origin and have
	// no derivatives there.
	singular bool
}

var catalog = [numKinds]entry{
	{"gaussian", Gaussian, false},
	{"multiquadric", Multiquadric, false},
	{"inverse_multiquadric", InverseMultiquadric, false},
	{"logarithm", Logarithm, true},
	{"thinplate_spline", ThinplateSpline, true},
	{"one_over_square", OneOverSquare, true},
	{"one_over_modulus", OneOverModulus, true},
	{"one_over_x", OneOverX, true},
	{"inverse_multiquadric3", InverseMultiquadric3, false},
	{"sinc_kernel", SincKernel, true},
	{"cosc", Cosc, true},
	{"cot", Cot, true},
}

// Lookup finds the kernel registered under name.
func Lookup(name string) (Kind, error) {
	for _, e := range catalog {
		if e.name == name {
			return e.kind, nil
		}
	}

	return 0, errors.Wrapf(ErrUnknown, "%q", name)
}

// Names returns every kernel name in catalog order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.name
	}
	return out
}

// Valid reports whether k is part of the catalog.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// Singular reports whether the kernel needs the near field treatment at the
// origin rather than being smooth there.
func (k Kind) Singular() bool {
	if !k.Valid() {
		return false
	}
	return catalog[k].singular
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return catalog[k].name
}
