package tgsw

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/tlwe"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/buffer"
)

// Sample is a TGSW sample over the torus T: (k+1)*l TLWE samples. Row
// bloc*l+i encrypts mu*h[i] added to the polynomial of index bloc, so that
// the sample is an encryption of zero plus mu times the gadget matrix.
type Sample[T torus.Torus] struct {
	params *Parameters
	Rows   []tlwe.Sample[T]
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
	rows := make([]tlwe.Sample[T], params.kpl)
	for i := range rows {
		rows[i] = *tlwe.NewSampleT[T](params.tlwe)
	}
	return &Sample[T]{params: params, Rows: rows}
}

// Params returns the parameters of the sample.
func (s Sample[T]) Params() *Parameters {
	return s.params
}

// Block returns the l rows whose polynomial of index bloc carries the message.
func (s Sample[T]) Block(bloc int) []tlwe.Sample[T] {
	l := s.params.l
	return s.Rows[bloc*l : (bloc+1)*l]
}

// Clear sets every row to the noiseless trivial encryption of zero.
func (s *Sample[T]) Clear() {
	for i := range s.Rows {
		s.Rows[i].Clear()
	}
}

// Copy copies other on s.
func (s *Sample[T]) Copy(other *Sample[T]) {
	checkKPL(len(s.Rows), len(other.Rows))
	for i := range s.Rows {
		s.Rows[i].Copy(&other.Rows[i])
	}
}

// CopyNew returns a deep copy of the sample.
func (s Sample[T]) CopyNew() *Sample[T] {
	rows := make([]tlwe.Sample[T], len(s.Rows))
	for i := range rows {
		rows[i] = *s.Rows[i].CopyNew()
	}
	return &Sample[T]{params: s.params, Rows: rows}
}

// Equal returns true if s and other have equal parameters and rows.
func (s Sample[T]) Equal(other *Sample[T]) bool {
	if !s.params.Equal(other.params) || len(s.Rows) != len(other.Rows) {
		return false
	}
	for i := range s.Rows {
		if !s.Rows[i].Equal(&other.Rows[i]) {
			return false
		}
	}
	return true
}

// AddTo sets s = s + other.
func (s *Sample[T]) AddTo(other *Sample[T]) {
	checkKPL(len(s.Rows), len(other.Rows))
	for i := range s.Rows {
		s.Rows[i].AddTo(&other.Rows[i])
	}
}

// SampleUID returns the TypeUID of the samples over the torus T.
func SampleUID[T torus.Torus]() codec.TypeUID {
	if torus.Bits[T]() == 64 {
		return codec.TGswSampleLvl2UID
	}
	return codec.TGswSampleUID
}

// BinarySize returns the serialized size of the object in bytes.
func (s Sample[T]) BinarySize() (size int) {
	for i := range s.Rows {
		size += s.Rows[i].PayloadSize()
	}
	return 4 + size
}

// WriteTo writes the sample on w: its TypeUID followed by the payload of
// each row. Rows are written without their own TypeUID.
func (s Sample[T]) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = codec.WriteTypeUID(w, SampleUID[T]()); err != nil {
			return n, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}

		for i := range s.Rows {
			var inc int64
			if inc, err = s.Rows[i].WritePayload(w); err != nil {
				return n + inc, fmt.Errorf("tlwe.Sample.WritePayload: %w", err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
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

		for i := range s.Rows {
			var inc int64
			if inc, err = s.Rows[i].ReadPayload(r); err != nil {
				return n + inc, fmt.Errorf("tlwe.Sample.ReadPayload: %w", err)
			}
			n += inc
		}

		return

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

// SampleFFT is a TGSW sample over the 32-bit torus whose rows are in FFT
// representation. It is the operand of the external product.
type SampleFFT struct {
	params *Parameters
	Rows   []tlwe.SampleFFT
}

// NewSampleFFT allocates a new zero sample in FFT representation.
func NewSampleFFT(params *Parameters) *SampleFFT {
	rows := make([]tlwe.SampleFFT, params.kpl)
	for i := range rows {
		rows[i] = *tlwe.NewSampleFFT(params.tlwe)
	}
	return &SampleFFT{params: params, Rows: rows}
}

// Params returns the parameters of the sample.
func (s SampleFFT) Params() *Parameters {
	return s.params
}

// CopyNew returns a deep copy of the sample.
func (s SampleFFT) CopyNew() *SampleFFT {
	rows := make([]tlwe.SampleFFT, len(s.Rows))
	for i := range rows {
		rows[i] = *s.Rows[i].CopyNew()
	}
	return &SampleFFT{params: s.params, Rows: rows}
}

// Equal returns true if s and other have equal parameters and rows.
func (s SampleFFT) Equal(other *SampleFFT) bool {
	if !s.params.Equal(other.params) || len(s.Rows) != len(other.Rows) {
		return false
	}
	for i := range s.Rows {
		if !s.Rows[i].Equal(&other.Rows[i]) {
			return false
		}
	}
	return true
}

// ToFFT sets res to the FFT representation of ct.
func ToFFT(p *ring.FFTProcessor, res *SampleFFT, ct *Sample[torus.Torus32]) {
	checkKPL(len(res.Rows), len(ct.Rows))
	for i := range ct.Rows {
		tlwe.ToFFT(p, &res.Rows[i], &ct.Rows[i])
	}
}

// FromFFT sets res to the sample represented by ct.
func FromFFT(p *ring.FFTProcessor, res *Sample[torus.Torus32], ct *SampleFFT) {
	checkKPL(len(res.Rows), len(ct.Rows))
	for i := range ct.Rows {
		tlwe.FromFFT(p, &res.Rows[i], &ct.Rows[i])
	}
}

// BinarySize returns the serialized size of the object in bytes.
func (s SampleFFT) BinarySize() (size int) {
	for i := range s.Rows {
		size += s.Rows[i].PayloadSize()
	}
	return 4 + size
}

// WriteTo writes the sample on w: its TypeUID followed by the payload of each row.
func (s SampleFFT) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = codec.WriteTypeUID(w, codec.TGswSampleFFTUID); err != nil {
			return n, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}

		for i := range s.Rows {
			var inc int64
			if inc, err = s.Rows[i].WritePayload(w); err != nil {
				return n + inc, fmt.Errorf("tlwe.SampleFFT.WritePayload: %w", err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads a sample from r on the object. The sample must be allocated
// with the dimensions of the sample to read.
func (s *SampleFFT) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if n, err = codec.ReadTypeUID(r, codec.TGswSampleFFTUID); err != nil {
			return n, fmt.Errorf("cannot ReadFrom: %w", err)
		}

		for i := range s.Rows {
			var inc int64
			if inc, err = s.Rows[i].ReadPayload(r); err != nil {
				return n + inc, fmt.Errorf("tlwe.SampleFFT.ReadPayload: %w", err)
			}
			n += inc
		}

		return

	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
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

func checkKPL(kpl0, kpl1 int) {
	if kpl0 != kpl1 {
		panic(fmt.Errorf("tgsw row count mismatch: %d != %d", kpl0, kpl1))
	}
}
