package tlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
)

// Sample is a TLWE sample over the torus T: k mask polynomials followed by
// the body A[k] = sum key_i * A[i] + message + noise. Variance tracks the
// variance of the noise.
type Sample[T torus.Torus] struct {
	params   *Parameters
	A        []ring.TorusPoly[T]
	Variance float64
}

// NewSample allocates a new zero sample over the 32-bit torus.
func NewSample(params *Parameters) *Sample[torus.Torus32] {
	return NewSampleT[torus.Torus32](params)
}

// NewSample64 allocates a new zero sample over the 64-bit torus.
func NewSample64(params *Parameters) *Sample[torus.Torus64] {
	return NewSampleT[torus.Torus64](params)
}

// NewSampleT allocates a new zero sample over the torus T.
func NewSampleT[T torus.Torus](params *Parameters) *Sample[T] {
	a := make([]ring.TorusPoly[T], params.K()+1)
	for i := range a {
		a[i] = *ring.NewTorusPoly[T](params.N())
	}
	return &Sample[T]{params: params, A: a}
}

// Params returns the parameters of the sample.
func (s Sample[T]) Params() *Parameters {
	return s.params
}

// K returns the number of mask polynomials.
func (s Sample[T]) K() int {
	return len(s.A) - 1
}

// Body returns the body polynomial A[k].
func (s *Sample[T]) Body() *ring.TorusPoly[T] {
	return &s.A[len(s.A)-1]
}

// Clear sets the sample to the noiseless trivial encryption of zero.
func (s *Sample[T]) Clear() {
	for i := range s.A {
		s.A[i].Zero()
	}
	s.Variance = 0
}

// NoiselessTrivial sets the sample to (0, ..., 0, mu).
func (s *Sample[T]) NoiselessTrivial(mu *ring.TorusPoly[T]) {
	s.Clear()
	s.Body().Copy(mu)
}

// NoiselessTrivialT sets the sample to the trivial encryption of the constant polynomial mu.
func (s *Sample[T]) NoiselessTrivialT(mu T) {
	s.Clear()
	s.Body().Coeffs[0] = mu
}

// Copy copies other on s.
func (s *Sample[T]) Copy(other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		s.A[i].Copy(&other.A[i])
	}
	s.Variance = other.Variance
}

// CopyNew returns a deep copy of the sample.
func (s Sample[T]) CopyNew() *Sample[T] {
	a := make([]ring.TorusPoly[T], len(s.A))
	for i := range a {
		a[i] = *s.A[i].CopyNew()
	}
	return &Sample[T]{params: s.params, A: a, Variance: s.Variance}
}

// Equal returns true if s and other have equal parameters, polynomials and variance.
func (s Sample[T]) Equal(other *Sample[T]) bool {
	if !s.params.Equal(other.params) || len(s.A) != len(other.A) || s.Variance != other.Variance {
		return false
	}
	for i := range s.A {
		if !s.A[i].Equal(&other.A[i]) {
			return false
		}
	}
	return true
}

// AddTo sets s = s + other.
func (s *Sample[T]) AddTo(other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		ring.AddTo(&s.A[i], &other.A[i])
	}
	s.Variance += other.Variance
}

// SubTo sets s = s - other.
func (s *Sample[T]) SubTo(other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		ring.SubTo(&s.A[i], &other.A[i])
	}
	s.Variance += other.Variance
}

// AddMulZTo sets s = s + p * other for an integer p.
func (s *Sample[T]) AddMulZTo(p int64, other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		ring.AddMulZTo(&s.A[i], p, &other.A[i])
	}
	s.Variance += float64(p) * float64(p) * other.Variance
}

// SubMulZTo sets s = s - p * other for an integer p.
func (s *Sample[T]) SubMulZTo(p int64, other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		ring.SubMulZTo(&s.A[i], p, &other.A[i])
	}
	s.Variance += float64(p) * float64(p) * other.Variance
}

// AddMulRTo sets s = s + p * other for an integer polynomial p, the products
// being computed by m.
func (s *Sample[T]) AddMulRTo(m *ring.Multiplier, p *ring.IntPoly, other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		ring.AddMul(m, &s.A[i], p, &other.A[i])
	}
	s.Variance += p.Norm2() * other.Variance
}

// MulByXaiMinusOne sets s = (X^ai - 1) * other for 0 <= ai < 2N.
// s and other must be distinct samples.
func (s *Sample[T]) MulByXaiMinusOne(ai int, other *Sample[T]) {
	checkK(s.K(), other.K())
	for i := range s.A {
		ring.MulByXaiMinusOne(&s.A[i], ai, &other.A[i])
	}

	// ||X^ai - 1||^2
	var norm2 float64
	switch N := s.params.N(); ai {
	case 0:
	case N:
		norm2 = 4
	default:
		norm2 = 2
	}

	s.Variance = norm2 * other.Variance
}

// ExtractLweSample sets res to the LWE sample, over the extracted
// parameters, whose phase is the constant coefficient of the phase of ct.
func ExtractLweSample[T torus.Torus](res *lwe.Sample[T], ct *Sample[T]) {
	ExtractLweSampleIndex(res, ct, 0)
}

// ExtractLweSampleIndex sets res to the LWE sample, over the extracted
// parameters, whose phase is the coefficient of degree index of the phase of ct.
func ExtractLweSampleIndex[T torus.Torus](res *lwe.Sample[T], ct *Sample[T], index int) {

	N := ct.params.N()
	k := ct.K()

	if res.N() != k*N {
		panic(fmt.Errorf("cannot ExtractLweSample: lwe dimension %d != %d", res.N(), k*N))
	}

	if index < 0 || index >= N {
		panic(fmt.Errorf("cannot ExtractLweSample: index %d is not in [0, %d)", index, N))
	}

	for i := 0; i < k; i++ {
		a := ct.A[i].Coeffs
		resA := res.A[i*N : (i+1)*N]
		for j := 0; j <= index; j++ {
			resA[j] = a[index-j]
		}
		for j := index + 1; j < N; j++ {
			resA[j] = -a[N+index-j]
		}
	}

	res.B = ct.Body().Coeffs[index]
	res.Variance = ct.Variance
}

// SampleUID returns the TypeUID of the samples over the torus T.
func SampleUID[T torus.Torus]() codec.TypeUID {
	if torus.Bits[T]() == 64 {
		return codec.TLweSampleLvl2UID
	}
	return codec.TLweSampleUID
}

// BinarySize returns the serialized size of the object in bytes.
func (s Sample[T]) BinarySize() int {
	return 4 + s.PayloadSize()
}

// PayloadSize returns the size in bytes of the sample without its TypeUID.
func (s Sample[T]) PayloadSize() (size int) {
	for i := range s.A {
		size += s.A[i].BinarySize()
	}
	return size + 8
}

// WriteTo writes the sample on w: its TypeUID, the k+1 polynomials and the
// variance as a float64.
func (s Sample[T]) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = codec.WriteTypeUID(w, SampleUID[T]()); err != nil {
			return n, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}

		var inc int64
		if inc, err = s.WritePayload(w); err != nil {
			return n + inc, err
		}

		return n + inc, w.Flush()

	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// WritePayload writes the polynomials and the variance of the sample on w,
// without TypeUID.
func (s Sample[T]) WritePayload(w buffer.Writer) (n int64, err error) {

	for i := range s.A {
		var inc int64
		if inc, err = s.A[i].WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("ring.TorusPoly.WriteTo: %w", err)
		}
		n += inc
	}

	var inc int64
	if inc, err = buffer.WriteAsUint64(w, s.Variance); err != nil {
		return n + inc, fmt.Errorf("buffer.WriteAsUint64[float64]: %w", err)
	}

	return n + inc, nil
}

// ReadFrom reads a sample from r on the object. The sample must be allocated
// with the dimensions of the sample to read. An error wrapping
// [codec.ErrTypeUID] is returned if the record is not a sample over T.
func (s *Sample[T]) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if n, err = codec.ReadTypeUID(r, SampleUID[T]()); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		var inc int64
		inc, err = s.ReadPayload(r)

		return n + inc, err

	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// ReadPayload reads the polynomials and the variance of the sample from r,
// without TypeUID.
func (s *Sample[T]) ReadPayload(r buffer.Reader) (n int64, err error) {

	for i := range s.A {
		var inc int64
		if inc, err = s.A[i].ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("ring.TorusPoly.ReadFrom: %w", err)
		}
		n += inc
	}

	var inc int64
	if inc, err = buffer.ReadAsUint64(r, &s.Variance); err != nil {
		return n + inc, fmt.Errorf("buffer.ReadAsUint64[float64]: %w", err)
	}

	return n + inc, nil
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
