package structs

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/tfhego/tfhe/utils/buffer"
)

// Vector is a sequence of independently owned components of type T.
// T can be:
//   - int32, uint32, int64, uint64 or float64.
//   - A pointer type implementing CopyNewer[T], BinarySizer, io.WriterTo,
//     io.ReaderFrom or Equatable[T] depending on the method called.
//
// The binary layout is a uint64 length followed by the components.
type Vector[T any] []T

// CopyNew returns a deep copy of the object.
func (v Vector[T]) CopyNew() (vcpy Vector[T]) {

	vcpy = make(Vector[T], len(v))

	var t T
	switch any(t).(type) {
	case int32, uint32, int64, uint64, float64:
		copy(vcpy, v)
	default:
		for i := range v {
			c, ok := any(v[i]).(CopyNewer[T])
			if !ok {
				panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(CopyNewer[T])))
			}
			vcpy[i] = c.CopyNew()
		}
	}

	return
}

// BinarySize returns the serialized size of the object in bytes.
func (v Vector[T]) BinarySize() (size int) {

	var t T
	switch any(t).(type) {
	case int32, uint32:
		return 8 + 4*len(v)
	case int64, uint64, float64:
		return 8 + 8*len(v)
	default:
		size = 8
		for i := range v {
			s, ok := any(v[i]).(BinarySizer)
			if !ok {
				panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(BinarySizer)))
			}
			size += s.BinarySize()
		}
	}

	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Writer. When writing multiple times to an
// io.Writer, it is preferable to first wrap it in a bufio.Writer.
func (v Vector[T]) WriteTo(w io.Writer) (n int64, err error) {

	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteUint64(w, uint64(len(v))); err != nil {
			return inc, fmt.Errorf("buffer.WriteUint64: %w", err)
		}

		n += inc

		var t T
		switch any(t).(type) {
		case int32, uint32:
			if inc, err = buffer.WriteAsUint32Slice(w, []T(v)); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteAsUint32Slice[%T]: %w", t, err)
			}
			n += inc
		case int64, uint64, float64:
			if inc, err = buffer.WriteAsUint64Slice(w, []T(v)); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteAsUint64Slice[%T]: %w", t, err)
			}
			n += inc
		default:
			for i := range v {
				wt, ok := any(v[i]).(io.WriterTo)
				if !ok {
					return n, fmt.Errorf("vector component of type %T does not comply to %T", t, new(io.WriterTo))
				}
				if inc, err = wt.WriteTo(w); err != nil {
					return n + inc, fmt.Errorf("%T.WriteTo: %w", t, err)
				}
				n += inc
			}
		}

		return n, w.Flush()

	default:
		return v.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Reader. It implements the
// io.ReaderFrom interface.
//
// Components that are not of a primitive type must be preallocated: the
// vector must already hold as many components as the serialized one, each
// with the dimensions of the serialized components.
//
// Unless r implements the buffer.Reader interface (see utils/buffer/buffer.go),
// it will be wrapped into a bufio.Reader. When reading multiple objects from
// the same io.Reader, it is preferable to first wrap it in a bufio.Reader.
func (v *Vector[T]) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		var size uint64

		if inc, err = buffer.ReadUint64(r, &size); err != nil {
			return inc, fmt.Errorf("buffer.ReadUint64: %w", err)
		}

		n += inc

		var t T
		switch any(t).(type) {
		case int32, uint32:
			*v = slices.Grow((*v)[:0], int(size))[:size]
			if inc, err = buffer.ReadAsUint32Slice(r, []T(*v)); err != nil {
				return n + inc, fmt.Errorf("buffer.ReadAsUint32Slice[%T]: %w", t, err)
			}
			n += inc
		case int64, uint64, float64:
			*v = slices.Grow((*v)[:0], int(size))[:size]
			if inc, err = buffer.ReadAsUint64Slice(r, []T(*v)); err != nil {
				return n + inc, fmt.Errorf("buffer.ReadAsUint64Slice[%T]: %w", t, err)
			}
			n += inc
		default:

			if uint64(len(*v)) != size {
				return n, fmt.Errorf("cannot ReadFrom: vector of %T must be preallocated with %d components but has %d", t, size, len(*v))
			}

			for i := range *v {
				rf, ok := any((*v)[i]).(io.ReaderFrom)
				if !ok {
					return n, fmt.Errorf("vector component of type %T does not comply to %T", t, new(io.ReaderFrom))
				}
				if inc, err = rf.ReadFrom(r); err != nil {
					return n + inc, fmt.Errorf("%T.ReadFrom: %w", t, err)
				}
				n += inc
			}
		}

		return n, nil

	default:
		return v.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (v Vector[T]) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(v.BinarySize())
	_, err = v.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (v *Vector[T]) UnmarshalBinary(p []byte) (err error) {
	_, err = v.ReadFrom(buffer.NewBuffer(p))
	return
}

// Equal performs a deep equal.
func (v Vector[T]) Equal(other Vector[T]) (isEqual bool) {

	if len(v) != len(other) {
		return false
	}

	var t T
	switch any(t).(type) {
	case int32, uint32, int64, uint64, float64:
		for i := range v {
			if any(v[i]) != any(other[i]) {
				return false
			}
		}
		return true
	default:
		for i := range v {
			e, ok := any(v[i]).(Equatable[T])
			if !ok {
				panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(Equatable[T])))
			}
			if !e.Equal(other[i]) {
				return false
			}
		}
		return true
	}
}
