package torus

import (
	"github.com/tfhego/tfhe/utils/buffer"
)

// WriteSlice writes c on w as little-endian words of Bits[T]() bits.
func WriteSlice[T Torus](w buffer.Writer, c []T) (n int64, err error) {
	if Bits[T]() == 32 {
		return buffer.WriteAsUint32Slice(w, c)
	}
	return buffer.WriteAsUint64Slice(w, c)
}

// ReadSlice reads len(c) little-endian words of Bits[T]() bits from r into c.
func ReadSlice[T Torus](r buffer.Reader, c []T) (n int64, err error) {
	if Bits[T]() == 32 {
		return buffer.ReadAsUint32Slice(r, c)
	}
	return buffer.ReadAsUint64Slice(r, c)
}

// Write writes x on w as a little-endian word of Bits[T]() bits.
func Write[T Torus](w buffer.Writer, x T) (n int64, err error) {
	return WriteSlice(w, []T{x})
}

// Read reads a little-endian word of Bits[T]() bits from r into x.
func Read[T Torus](r buffer.Reader, x *T) (n int64, err error) {
	var c [1]T
	n, err = ReadSlice(r, c[:])
	*x = c[0]
	return
}
