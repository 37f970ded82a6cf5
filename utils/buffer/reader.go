package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

// ReadAsUint32 reads an uint32 from r and stores it in c as a T.
// T must be a 4-byte type.
func ReadAsUint32[T any](r Reader, c *T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 4-byte types */
	return ReadUint32(r, (*uint32)(unsafe.Pointer(c)))
}

// ReadAsUint64 reads an uint64 from r and stores it in c as a T.
// T must be an 8-byte type.
func ReadAsUint64[T any](r Reader, c *T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 8-byte types */
	return ReadUint64(r, (*uint64)(unsafe.Pointer(c)))
}

// ReadAsUint32Slice reads len(c) uint32 from r into c.
// T must be a 4-byte type.
func ReadAsUint32Slice[T any](r Reader, c []T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 4-byte types */
	return ReadUint32Slice(r, *(*[]uint32)(unsafe.Pointer(&c)))
}

// ReadAsUint64Slice reads len(c) uint64 from r into c.
// T must be an 8-byte type.
func ReadAsUint64Slice[T any](r Reader, c []T) (n int64, err error) {
	/* #nosec G103 -- pointer type cast on 8-byte types */
	return ReadUint64Slice(r, *(*[]uint64)(unsafe.Pointer(&c)))
}

// ReadComplex128Slice reads len(c) (real, imag) float64 pairs from r into c.
func ReadComplex128Slice(r Reader, c []complex128) (n int64, err error) {
	if len(c) == 0 {
		return
	}
	/* #nosec G103 -- a complex128 is two contiguous float64 */
	return ReadAsUint64Slice(r, unsafe.Slice((*float64)(unsafe.Pointer(&c[0])), 2*len(c)))
}

// ReadUint8 reads a byte from r.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}
	var bb [1]uint8
	n, err = ReadUint8Slice(r, bb[:])
	*c = bb[0]
	return
}

// ReadUint8Slice reads len(c) bytes from r into c.
func ReadUint8Slice(r Reader, c []uint8) (n int64, err error) {
	return readSlice(r, c, 1, func(b []byte) uint8 { return b[0] })
}

// ReadUint32 reads an uint32 from r.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}
	var bb [1]uint32
	n, err = ReadUint32Slice(r, bb[:])
	*c = bb[0]
	return
}

// ReadUint32Slice reads len(c) uint32 from r into c.
func ReadUint32Slice(r Reader, c []uint32) (n int64, err error) {
	return readSlice(r, c, 4, binary.LittleEndian.Uint32)
}

// ReadUint64 reads an uint64 from r.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}
	var bb [1]uint64
	n, err = ReadUint64Slice(r, bb[:])
	*c = bb[0]
	return
}

// ReadUint64Slice reads len(c) uint64 from r into c.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {
	return readSlice(r, c, 8, binary.LittleEndian.Uint64)
}

// readSlice decodes c directly from the internal buffer of r, using
// Peek and Discard to avoid intermediate copies.
func readSlice[U uint8 | uint32 | uint64](r Reader, c []U, size int, get func([]byte) U) (n int64, err error) {

	for len(c) > 0 {

		chunk := r.Size() / size

		if chunk > len(c) {
			chunk = len(c)
		}

		if chunk == 0 {
			chunk = 1
		}

		var slice []byte
		if slice, err = r.Peek(chunk * size); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return
		}

		for i := range c[:chunk] {
			c[i] = get(slice[i*size:])
		}

		var inc int
		inc, err = r.Discard(chunk * size)
		n += int64(inc)

		if err != nil {
			return
		}

		c = c[chunk:]
	}

	return
}
