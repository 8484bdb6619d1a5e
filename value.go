package fastsum

// Value is one positional argument or result of a command.
type Value interface {
	kind() string
}

// Scalar is a real number.
type Scalar float64

// Text is a string argument such as a kernel name.
type Text string

// Matrix is a real matrix stored column-major: entry (r, c) is at
// Data[r+c*Rows].
type Matrix struct {
	Rows, Cols int
	Data       []float64
}

// ComplexArray is a complex array stored as split real and imaginary planes.
// Dims lists the extent of every axis.
type ComplexArray struct {
	Dims   []int
	Re, Im []float64
}

func (Scalar) kind() string       { return "scalar" }
func (Text) kind() string         { return "string" }
func (Matrix) kind() string       { return "matrix" }
func (ComplexArray) kind() string { return "complex array" }

// NewMatrix allocates a zero rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns entry (r, c).
func (m Matrix) At(r, c int) float64 {
	return m.Data[r+c*m.Rows]
}

// Set writes entry (r, c).
func (m Matrix) Set(r, c int, v float64) {
	m.Data[r+c*m.Rows] = v
}

// Vector returns a complex column vector from its entries.
func Vector(v ...complex128) ComplexArray {
	a := ComplexArray{
		Dims: []int{len(v)},
		Re:   make([]float64, len(v)),
		Im:   make([]float64, len(v)),
	}
	for i, c := range v {
		a.Re[i], a.Im[i] = real(c), imag(c)
	}
	return a
}

// Len returns the number of entries.
func (a ComplexArray) Len() int {
	return len(a.Re)
}

// At returns entry i in storage order.
func (a ComplexArray) At(i int) complex128 {
	return complex(a.Re[i], a.Im[i])
}

// Complex returns the entries interleaved.
func (a ComplexArray) Complex() []complex128 {
	out := make([]complex128, a.Len())
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}
