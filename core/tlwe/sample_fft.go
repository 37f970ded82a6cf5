package tlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
)

// SampleFFT is a TLWE sample over the 32-bit torus in FFT representation.
type SampleFFT struct {
	params   *Parameters
	A        []ring.LagrangeHalfCPoly
	Variance float64
}

// NewSampleFFT allocates a new zero sample in FFT representation.
func NewSampleFFT(params *Parameters) *SampleFFT {
	a := make([]ring.LagrangeHalfCPoly, params.K()+1)
	for i := range a {
		a[i] = *ring.NewLagrangeHalfCPoly(params.N())
	}
	return &SampleFFT{params: params, A: a}
}

// Params returns the parameters of the sample.
func (s SampleFFT) Params() *Parameters {
	return s.params
}

// K returns the number of mask polynomials.
func (s SampleFFT) K() int {
	return len(s.A) - 1
}

// Clear sets the sample to zero.
func (s *SampleFFT) Clear() {
	for i := range s.A {
		s.A[i].Zero()
	}
	s.Variance = 0
}

// Copy copies other on s.
func (s *SampleFFT) Copy(other *SampleFFT) {
	checkK(s.K(), other.K())
	for i := range s.A {
		s.A[i].Copy(&other.A[i])
	}
	s.Variance = other.Variance
}

// CopyNew returns a deep copy of the sample.
func (s SampleFFT) CopyNew() *SampleFFT {
	a := make([]ring.LagrangeHalfCPoly, len(s.A))
	for i := range a {
		a[i] = *s.A[i].CopyNew()
	}
	return &SampleFFT{params: s.params, A: a, Variance: s.Variance}
}

// Equal returns true if s and other have equal parameters, values and variance.
func (s SampleFFT) Equal(other *SampleFFT) bool {
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

// AddMulRTo sets s = s + p * other for a polynomial p in FFT representation.
// The variance is updated with the squared norm of the polynomial represented by p.
func (s *SampleFFT) AddMulRTo(p *ring.LagrangeHalfCPoly, other *SampleFFT) {
	checkK(s.K(), other.K())
	for i := range s.A {
		s.A[i].AddMulTo(p, &other.A[i])
	}
	s.Variance += p.Norm2() * other.Variance
}

// AddTo sets s = s + other.
func (s *SampleFFT) AddTo(other *SampleFFT) {
	checkK(s.K(), other.K())
	for i := range s.A {
		s.A[i].AddTo(&other.A[i])
	}
	s.Variance += other.Variance
}

// ToFFT sets res to the FFT representation of ct.
func ToFFT(p *ring.FFTProcessor, res *SampleFFT, ct *Sample[torus.Torus32]) {
	checkK(res.K(), ct.K())
	for i := range ct.A {
		p.TorusPolyToFFT(&res.A[i], &ct.A[i])
	}
	res.Variance = ct.Variance
}

// FromFFT sets res to the sample represented by ct, rounding each
// coefficient to the nearest torus element.
func FromFFT(p *ring.FFTProcessor, res *Sample[torus.Torus32], ct *SampleFFT) {
	checkK(res.K(), ct.K())
	for i := range ct.A {
		p.FFTToTorusPoly(&res.A[i], &ct.A[i])
	}
	res.Variance = ct.Variance
}

// BinarySize returns the serialized size of the object in bytes.
func (s SampleFFT) BinarySize() int {
	return 4 + s.PayloadSize()
}

// PayloadSize returns the size in bytes of the sample without its TypeUID.
func (s SampleFFT) PayloadSize() (size int) {
	for i := range s.A {
		size += s.A[i].BinarySize()
	}
	return size + 8
}

// WriteTo writes the sample on w: the TLWE_SAMPLE_FFT TypeUID, the k+1
// polynomials as pairs of float64 and the variance as a float64.
func (s SampleFFT) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = codec.WriteTypeUID(w, codec.TLweSampleFFTUID); err != nil {
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
func (s SampleFFT) WritePayload(w buffer.Writer) (n int64, err error) {

	for i := range s.A {
		var inc int64
		if inc, err = s.A[i].WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("ring.LagrangeHalfCPoly.WriteTo: %w", err)
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
// with the dimensions of the sample to read.
func (s *SampleFFT) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if n, err = codec.ReadTypeUID(r, codec.TLweSampleFFTUID); err != nil {
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
func (s *SampleFFT) ReadPayload(r buffer.Reader) (n int64, err error) {

	for i := range s.A {
		var inc int64
		if inc, err = s.A[i].ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("ring.LagrangeHalfCPoly.ReadFrom: %w", err)
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
func (s SampleFFT) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(s.BinarySize())
	_, err = s.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [SampleFFT.MarshalBinary] or [SampleFFT.WriteTo] on the object.
func (s *SampleFFT) UnmarshalBinary(data []byte) (err error) {
	_, err = s.ReadFrom(buffer.NewBuffer(data))
	return
}
