package buffer

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// WriteAsUint32 casts &T to an *uint32 and writes it to w.
// T must be a 4-byte type.
func WriteAsUint32[T any](w Writer, c T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 4-byte types */
	return WriteUint32(w, *(*uint32)(unsafe.Pointer(&c)))
}

// WriteAsUint64 casts &T to an *uint64 and writes it to w.
// T must be an 8-byte type.
func WriteAsUint64[T any](w Writer, c T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 8-byte types */
	return WriteUint64(w, *(*uint64)(unsafe.Pointer(&c)))
}

// WriteAsUint32Slice casts &[]T into *[]uint32 and writes it to w.
// T must be a 4-byte type.
func WriteAsUint32Slice[T any](w Writer, c []T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 4-byte types */
	return WriteUint32Slice(w, *(*[]uint32)(unsafe.Pointer(&c)))
}

// WriteAsUint64Slice casts &[]T into *[]uint64 and writes it to w.
// T must be an 8-byte type.
func WriteAsUint64Slice[T any](w Writer, c []T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 8-byte types */
	return WriteUint64Slice(w, *(*[]uint64)(unsafe.Pointer(&c)))
}

// WriteComplex128Slice writes c to w as consecutive (real, imag) float64 pairs.
func WriteComplex128Slice(w Writer, c []complex128) (n int64, err error) {
	if len(c) == 0 {
		return
	}
	/* #nosec G103 -- a complex128 is two contiguous float64 */
	return WriteAsUint64Slice(w, unsafe.Slice((*float64)(unsafe.Pointer(&c[0])), 2*len(c)))
}

// Write writes a slice of bytes to w.
func Write(w Writer, c []byte) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteString writes the bytes of s to w.
func WriteString(w Writer, s string) (n int64, err error) {
	return Write(w, []byte(s))
}

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {
	return WriteUint8Slice(w, []uint8{c})
}

// WriteUint8Slice writes a slice of bytes c to w.
func WriteUint8Slice(w Writer, c []uint8) (n int64, err error) {
	return writeSlice(w, c, 1, func(b []byte, v uint8) { b[0] = v })
}

// WriteUint32 writes an uint32 c to w.
func WriteUint32(w Writer, c uint32) (n int64, err error) {
	return WriteUint32Slice(w, []uint32{c})
}

// WriteUint32Slice writes a slice of uint32 c to w.
func WriteUint32Slice(w Writer, c []uint32) (n int64, err error) {
	return writeSlice(w, c, 4, binary.LittleEndian.PutUint32)
}

// WriteUint64 writes an uint64 c to w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {
	return WriteUint64Slice(w, []uint64{c})
}

// WriteUint64Slice writes a slice of uint64 c to w.
func WriteUint64Slice(w Writer, c []uint64) (n int64, err error) {
	return writeSlice(w, c, 8, binary.LittleEndian.PutUint64)
}

// writeSlice encodes c directly into the available buffer of w, flushing
// whenever it is full.
func writeSlice[U uint8 | uint32 | uint64](w Writer, c []U, size int, put func([]byte, U)) (n int64, err error) {

	for len(c) > 0 {

		available := w.Available() / size

		if available == 0 {

			if err = w.Flush(); err != nil {
				return
			}

			if available = w.Available() / size; available == 0 {
				return n, fmt.Errorf("cannot write: available buffer is smaller than %d bytes even after flush", size)
			}
		}

		if available > len(c) {
			available = len(c)
		}

		buf := w.AvailableBuffer()[:available*size]
		for i, v := range c[:available] {
			put(buf[i*size:], v)
		}

		var inc int
		inc, err = w.Write(buf)
		n += int64(inc)

		if err != nil {
			return
		}

		c = c[available:]
	}

	return
}
