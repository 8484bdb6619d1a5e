package fastsum

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/noriah/fastsum/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	opts := testOptions()
	opts.Kernel = kernel.OneOverX
	opts.KernelParam = 0.5

	m := column(0, 0.1)
	a := Vector(1, 2i)

	tests := []struct {
		name string
		args []Value
		want Request
	}{
		{"get_num_threads", nil, GetNumThreads{}},
		{"init", initArgs(opts), Init{opts}},
		{"init_guru", initArgs(opts), Init{opts}},
		{"set_x", []Value{Scalar(3), m}, SetX{3, m}},
		{"set_y", []Value{Scalar(0), m}, SetY{0, m}},
		{"set_alpha", []Value{Scalar(7), a}, SetAlpha{7, a}},
		{"precompute", []Value{Scalar(1)}, Precompute{1}},
		{"trafo", []Value{Scalar(1)}, Trafo{1}},
		{"trafo_direct", []Value{Scalar(1)}, TrafoDirect{1}},
		{"get_f", []Value{Scalar(2)}, GetF{2}},
		{"get_x", []Value{Scalar(2)}, GetX{2}},
		{"get_y", []Value{Scalar(2)}, GetY{2}},
		{"get_alpha", []Value{Scalar(2)}, GetAlpha{2}},
		{"get_b", []Value{Scalar(2)}, GetB{2}},
		{"finalize", []Value{Scalar(99)}, Finalize{99}},
		{"display", []Value{Scalar(0)}, Display{0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.name, tc.args)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tc.name, diff)
			}
		})
	}

	assert.Len(t, Commands(), len(tests))
}

func TestDecodeErrors(t *testing.T) {
	good := initArgs(testOptions())

	replace := func(i int, v Value) []Value {
		args := append([]Value(nil), good...)
		args[i] = v
		return args
	}

	tests := []struct {
		name string
		cmd  string
		args []Value
		code Code
	}{
		{"too long", strings.Repeat("x", CmdLenMax+1), nil, CodeInvalidCommand},
		{"unknown", "trafo_fast", []Value{Scalar(0)}, CodeInvalidCommand},
		{"case", "Trafo", []Value{Scalar(0)}, CodeInvalidCommand},
		{"too few", "trafo", nil, CodeWrongArgumentCount},
		{"too many", "get_num_threads", []Value{Scalar(0)}, CodeWrongArgumentCount},
		{"init arity", "init", good[:9], CodeWrongArgumentCount},
		{"non integral d", "init", replace(0, Scalar(1.5)), CodeInvalidArgumentType},
		{"string N", "init", replace(1, Text("2")), CodeInvalidArgumentType},
		{"numeric kernel", "init", replace(6, Scalar(0)), CodeInvalidArgumentType},
		{"unknown kernel", "init", replace(6, Text("bessel")), CodeUnknownKernel},
		{"matrix param", "init", replace(7, column(1)), CodeInvalidArgumentType},
		{"negative handle", "precompute", []Value{Scalar(-1)}, CodeInvalidHandle},
		{"fractional handle", "get_f", []Value{Scalar(0.5)}, CodeInvalidHandle},
		{"text handle", "get_f", []Value{Text("0")}, CodeInvalidArgumentType},
		{"nil handle", "get_f", []Value{nil}, CodeInvalidArgumentType},
		{"scalar points", "set_x", []Value{Scalar(0), Scalar(1)}, CodeInvalidArgumentType},
		{"ragged points", "set_y", []Value{Scalar(0), Matrix{Rows: 2, Cols: 2, Data: []float64{1}}}, CodeInvalidArgumentType},
		{"real weights", "set_alpha", []Value{Scalar(0), column(1, 2)}, CodeInvalidArgumentType},
		{"split weights", "set_alpha", []Value{Scalar(0), ComplexArray{Re: []float64{1}, Im: nil}}, CodeInvalidArgumentType},
		{"dims", "set_alpha", []Value{Scalar(0), ComplexArray{Dims: []int{3}, Re: []float64{1, 2}, Im: []float64{0, 0}}}, CodeInvalidArgumentType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := Decode(tc.cmd, tc.args)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.Equal(t, tc.code, GetCode(err))

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.cmd, e.Command)
		})
	}
}

func TestDecodeNameLimit(t *testing.T) {
	_, err := Decode(strings.Repeat("a", CmdLenMax), nil)
	assert.ErrorIs(t, err, ErrInvalidCommand, "unknown, but within the length limit")
	assert.Contains(t, err.Error(), "unknown command")
}
