package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/noriah/fastsum"
	"github.com/pkg/errors"
)

// numberWriter prints command results, one line per result.
type numberWriter struct {
	w         io.Writer
	precision int
	buf       strings.Builder
}

func newNumberWriter(w io.Writer, precision int) *numberWriter {
	return &numberWriter{
		w:         w,
		precision: precision,
	}
}

// Write prints every value returned by cmd.
func (nw *numberWriter) Write(cmd string, values []fastsum.Value) error {
	for _, v := range values {
		nw.buf.Reset()
		nw.buf.WriteString(cmd)
		nw.buf.WriteString(":")

		switch v := v.(type) {
		case fastsum.Scalar:
			nw.real(float64(v))

		case fastsum.Text:
			nw.buf.WriteByte(' ')
			nw.buf.WriteString(string(v))

		case fastsum.Matrix:
			for r := 0; r < v.Rows; r++ {
				if r > 0 {
					nw.buf.WriteString(" ;")
				}
				for c := 0; c < v.Cols; c++ {
					nw.real(v.At(r, c))
				}
			}

		case fastsum.ComplexArray:
			for i := 0; i < v.Len(); i++ {
				nw.buf.WriteByte(' ')
				nw.buf.WriteString(strconv.FormatComplex(v.At(i), 'g', nw.precision, 128))
			}

		default:
			return errors.Errorf("cannot print %T", v)
		}

		nw.buf.WriteByte('\n')
		if _, err := io.WriteString(nw.w, nw.buf.String()); err != nil {
			return err
		}
	}

	return nil
}

func (nw *numberWriter) real(v float64) {
	nw.buf.WriteByte(' ')
	nw.buf.WriteString(strconv.FormatFloat(v, 'g', nw.precision, 64))
}
