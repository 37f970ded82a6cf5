package lwe

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
)

// Sample is a LWE sample (a, b) of dimension n over the torus T, with
// b = <a, s> + message + noise. Variance tracks the variance of the noise.
type Sample[T torus.Torus] struct {
	params   *Parameters
	A        []T
	B        T
	Variance float64
}

// NewSample allocates a new sample over the 32-bit torus with zero mask,
// zero body and zero variance.
func NewSample(params *Parameters) *Sample[torus.Torus32] {
	return NewSampleT[torus.Torus32](params)
}

// NewSample64 allocates a new sample over the 64-bit torus with zero mask,
// zero body and zero variance.
func NewSample64(params *Parameters) *Sample[torus.Torus64] {
	return NewSampleT[torus.Torus64](params)
}

// NewSampleT allocates a new zero sample over the torus T.
func NewSampleT[T torus.Torus](params *Parameters) *Sample[T] {
	return &Sample[T]{params: params, A: make([]T, params.N())}
}

// Params returns the parameters of the sample.
func (s Sample[T]) Params() *Parameters {
	return s.params
}

// N returns the dimension of the mask.
func (s Sample[T]) N() int {
	return len(s.A)
}

// Clear sets the sample to the noiseless trivial encryption of zero.
func (s *Sample[T]) Clear() {
	clear(s.A)
	s.B = 0
	s.Variance = 0
}

// NoiselessTrivial sets the sample to (0, mu), a noiseless encryption of mu
// under any key.
func (s *Sample[T]) NoiselessTrivial(mu T) {
	clear(s.A)
	s.B = mu
	s.Variance = 0
}

// Copy copies other on s.
func (s *Sample[T]) Copy(other *Sample[T]) {
	checkDims(s.N(), other.N())
	copy(s.A, other.A)
	s.B = other.B
	s.Variance = other.Variance
}

// CopyNew returns a deep copy of the sample.
func (s Sample[T]) CopyNew() *Sample[T] {
	return &Sample[T]{params: s.params, A: slices.Clone(s.A), B: s.B, Variance: s.Variance}
}

// Equal returns true if s and other have the same parameters, mask, body and variance.
func (s Sample[T]) Equal(other *Sample[T]) bool {
	return s.params.Equal(other.params) && slices.Equal(s.A, other.A) && s.B == other.B && s.Variance == other.Variance
}

// AddTo sets s = s + other.
func (s *Sample[T]) AddTo(other *Sample[T]) {
	s.AddMulTo(1, other)
}

// SubTo sets s = s - other.
func (s *Sample[T]) SubTo(other *Sample[T]) {
	s.SubMulTo(1, other)
}

// AddMulTo sets s = s + p * other for an integer p.
func (s *Sample[T]) AddMulTo(p int64, other *Sample[T]) {
	checkDims(s.N(), other.N())
	for i := range s.A {
		s.A[i] += T(p) * other.A[i]
	}
	s.B += T(p) * other.B
	s.Variance += float64(p) * float64(p) * other.Variance
}

// SubMulTo sets s = s - p * other for an integer p.
func (s *Sample[T]) SubMulTo(p int64, other *Sample[T]) {
	checkDims(s.N(), other.N())
	for i := range s.A {
		s.A[i] -= T(p) * other.A[i]
	}
	s.B -= T(p) * other.B
	s.Variance += float64(p) * float64(p) * other.Variance
}

// Negate sets s = -other.
func (s *Sample[T]) Negate(other *Sample[T]) {
	checkDims(s.N(), other.N())
	for i := range s.A {
		s.A[i] = -other.A[i]
	}
	s.B = -other.B
	s.Variance = other.Variance
}

// SampleUID returns the TypeUID of the samples over the torus T.
func SampleUID[T torus.Torus]() codec.TypeUID {
	if torus.Bits[T]() == 64 {
		return codec.LweSampleLvl2UID
	}
	return codec.LweSampleUID
}

// BinarySize returns the serialized size of the object in bytes.
func (s Sample[T]) BinarySize() int {
	return 4 + torus.Bits[T]()/8*(len(s.A)+1) + 8
}

// WriteTo writes the sample on w: its TypeUID, the mask, the body and the
// variance as a float64.
func (s Sample[T]) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = codec.WriteTypeUID(w, SampleUID[T]()); err != nil {
			return n, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}

		var inc int64
		if inc, err = s.writeBody(w); err != nil {
			return n + inc, err
		}

		return n + inc, w.Flush()

	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

func (s Sample[T]) writeBody(w buffer.Writer) (n int64, err error) {

	if n, err = torus.WriteSlice(w, s.A); err != nil {
		return n, fmt.Errorf("torus.WriteSlice: %w", err)
	}

	var inc int64
	if inc, err = torus.Write(w, s.B); err != nil {
		return n + inc, fmt.Errorf("torus.Write: %w", err)
	}
	n += inc

	if inc, err = buffer.WriteAsUint64(w, s.Variance); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint64[float64]: %w", err)
	}

	return n + inc, nil
}

// ReadFrom reads a sample from r on the object. The sample must be allocated
// with the dimension of the sample to read. An error wrapping [codec.ErrTypeUID]
// is returned if the record is not a sample over T.
func (s *Sample[T]) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if n, err = codec.ReadTypeUID(r, SampleUID[T]()); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		var inc int64
		if inc, err = torus.ReadSlice(r, s.A); err != nil {
			return n + inc, fmt.Errorf("torus.ReadSlice: %w", err)
		}
		n += inc

		if inc, err = torus.Read(r, &s.B); err != nil {
			return n + inc, fmt.Errorf("torus.Read: %w", err)
		}
		n += inc

		if inc, err = buffer.ReadAsUint64(r, &s.Variance); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint64[float64]: %w", err)
		}

		return n + inc, nil

	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (s Sample[T]) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(s.BinarySize())
	_, err = s.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Sample.MarshalBinary] or [Sample.WriteTo] on the object.
func (s *Sample[T]) UnmarshalBinary(data []byte) (err error) {
	_, err = s.ReadFrom(buffer.NewBuffer(data))
	return
}

func checkDims(n0, n1 int) {
	if n0 != n1 {
		panic(fmt.Errorf("lwe dimension mismatch: %d != %d", n0, n1))
	}
}
