package tlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/utils/buffer"
	"github.com/tfhego/tfhe/utils/sampling"
)

// Key is a TLWE secret key: k polynomials with binary coefficients.
type Key struct {
	params *Parameters
	Polys  []ring.IntPoly
}

// NewKey allocates a new zero key.
func NewKey(params *Parameters) *Key {
	polys := make([]ring.IntPoly, params.K())
	for i := range polys {
		polys[i] = *ring.NewIntPoly(params.N())
	}
	return &Key{params: params, Polys: polys}
}

// Params returns the parameters of the key.
func (k Key) Params() *Parameters {
	return k.params
}

// CopyNew returns a deep copy of the key sharing the same parameters.
func (k Key) CopyNew() *Key {
	polys := make([]ring.IntPoly, len(k.Polys))
	for i := range polys {
		polys[i] = *k.Polys[i].CopyNew()
	}
	return &Key{params: k.params, Polys: polys}
}

// Equal returns true if k and other have equal parameters and the same polynomials.
func (k Key) Equal(other *Key) bool {
	if k.params == nil || !k.params.Equal(other.params) || len(k.Polys) != len(other.Polys) {
		return false
	}
	for i := range k.Polys {
		if !k.Polys[i].Equal(&other.Polys[i]) {
			return false
		}
	}
	return true
}

// ExtractLweKey returns the LWE key of dimension k*N, over the extracted
// parameters, under which the samples extracted from TLWE samples encrypted
// under k decrypt.
func (k Key) ExtractLweKey() *lwe.Key {
	key := lwe.NewKey(k.params.Extracted())
	N := k.params.N()
	for i := range k.Polys {
		copy(key.Bits[i*N:(i+1)*N], k.Polys[i].Coeffs)
	}
	return key
}

// KeyGenerator generates uniform binary TLWE keys.
type KeyGenerator struct {
	params *Parameters
	src    *sampling.Source
}

// NewKeyGenerator creates a new KeyGenerator drawing from the process-wide
// source of randomness, see [sampling.Default].
func NewKeyGenerator(params *Parameters) *KeyGenerator {
	return &KeyGenerator{params: params}
}

// WithSource returns a copy of the KeyGenerator drawing from src.
func (kgen KeyGenerator) WithSource(src *sampling.Source) *KeyGenerator {
	kgen.src = src
	return &kgen
}

// GenKey sets key to a uniformly random binary key.
func (kgen KeyGenerator) GenKey(key *Key) {
	checkK(kgen.params.K(), len(key.Polys))
	src := source(kgen.src)
	for i := range key.Polys {
		key.Polys[i].UniformBinary(src)
	}
}

// GenKeyNew generates a new uniformly random binary key.
func (kgen KeyGenerator) GenKeyNew() (key *Key) {
	key = NewKey(kgen.params)
	kgen.GenKey(key)
	return
}

// BinarySize returns the serialized size of the object in bytes.
func (k Key) BinarySize() int {
	return k.params.BinarySize() + 4 + k.PayloadSize()
}

// PayloadSize returns the size in bytes of the key polynomials.
func (k Key) PayloadSize() (size int) {
	for i := range k.Polys {
		size += k.Polys[i].BinarySize()
	}
	return
}

// WriteTo writes the key on w: the text block of its parameters, the
// TLWE_KEY TypeUID and the k*N coefficients as int32.
func (k Key) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = k.params.WriteTo(w); err != nil {
			return n, fmt.Errorf("tlwe.Parameters.WriteTo: %w", err)
		}

		var inc int64
		if inc, err = codec.WriteTypeUID(w, codec.TLweKeyUID); err != nil {
			return n + inc, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}
		n += inc

		if inc, err = k.WritePayload(w); err != nil {
			return n + inc, err
		}

		return n + inc, w.Flush()

	default:
		return k.WriteTo(bufio.NewWriter(w))
	}
}

// WritePayload writes the key polynomials on w, without parameters nor TypeUID.
func (k Key) WritePayload(w buffer.Writer) (n int64, err error) {
	for i := range k.Polys {
		var inc int64
		if inc, err = k.Polys[i].WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("ring.IntPoly.WriteTo: %w", err)
		}
		n += inc
	}
	return
}

// ReadPayload reads the key polynomials from r. The key must be allocated.
func (k *Key) ReadPayload(r buffer.Reader) (n int64, err error) {
	for i := range k.Polys {
		var inc int64
		if inc, err = k.Polys[i].ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("ring.IntPoly.ReadFrom: %w", err)
		}
		n += inc
	}
	return
}

// ReadFrom reads a key from r on the object. The parameters of the key are
// read from the stream and registered in [registry.Default].
func (k *Key) ReadFrom(r io.Reader) (n int64, err error) {
	return k.readFrom(r, registry.Default())
}

// ReadKey reads a key from r. The parameters of the key are read from the
// stream and registered in reg.
func ReadKey(r io.Reader, reg *registry.Registry) (k *Key, n int64, err error) {
	k = new(Key)
	if n, err = k.readFrom(r, reg); err != nil {
		return nil, n, err
	}
	return
}

func (k *Key) readFrom(r io.Reader, reg *registry.Registry) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		params := new(Parameters)
		if n, err = params.ReadFrom(r); err != nil {
			return
		}

		var inc int64
		if inc, err = codec.ReadTypeUID(r, codec.TLweKeyUID); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: %w", err)
		}
		n += inc

		key := NewKey(params)
		if inc, err = key.ReadPayload(r); err != nil {
			return n + inc, err
		}
		n += inc

		reg.Register(params)
		*k = *key

		return

	default:
		return k.readFrom(bufio.NewReader(r), reg)
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (k Key) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(k.BinarySize())
	_, err = k.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Key.MarshalBinary] or [Key.WriteTo] on the object.
func (k *Key) UnmarshalBinary(data []byte) (err error) {
	_, err = k.ReadFrom(buffer.NewBuffer(data))
	return
}

func source(src *sampling.Source) *sampling.Source {
	if src != nil {
		return src
	}
	return sampling.Default()
}

func checkK(k0, k1 int) {
	if k0 != k1 {
		panic(fmt.Errorf("tlwe mask size mismatch: %d != %d", k0, k1))
	}
}
