package ring

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
)

// BinarySize returns the serialized size of the object in bytes.
func (p IntPoly) BinarySize() int {
	return 4 * len(p.Coeffs)
}

// WriteTo writes the coefficients of p on w as little-endian int32.
func (p IntPoly) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = buffer.WriteAsUint32Slice(w, p.Coeffs); err != nil {
			return n, fmt.Errorf("buffer.WriteAsUint32Slice: %w", err)
		}
		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the coefficients of p from r. p must be allocated with
// the number of coefficients to read.
func (p *IntPoly) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		if n, err = buffer.ReadAsUint32Slice(r, p.Coeffs); err != nil {
			return n, fmt.Errorf("buffer.ReadAsUint32Slice: %w", err)
		}
		return
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// BinarySize returns the serialized size of the object in bytes.
func (p TorusPoly[T]) BinarySize() int {
	return torus.Bits[T]() / 8 * len(p.Coeffs)
}

// WriteTo writes the coefficients of p on w as little-endian words of the torus width.
func (p TorusPoly[T]) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = torus.WriteSlice(w, p.Coeffs); err != nil {
			return n, fmt.Errorf("torus.WriteSlice: %w", err)
		}
		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the coefficients of p from r. p must be allocated with
// the number of coefficients to read.
func (p *TorusPoly[T]) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		if n, err = torus.ReadSlice(r, p.Coeffs); err != nil {
			return n, fmt.Errorf("torus.ReadSlice: %w", err)
		}
		return
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}
