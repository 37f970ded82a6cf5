package tgsw

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/core/tlwe"
	"github.com/tfhego/tfhe/utils/buffer"
	"github.com/tfhego/tfhe/utils/sampling"
)

// Key is a TGSW secret key. It is the TLWE key under which the rows of the
// TGSW samples are encrypted.
type Key struct {
	params *Parameters
	TLwe   *tlwe.Key
}

// NewKey allocates a new zero key.
func NewKey(params *Parameters) *Key {
	return &Key{params: params, TLwe: tlwe.NewKey(params.tlwe)}
}

// Params returns the parameters of the key.
func (k Key) Params() *Parameters {
	return k.params
}

// CopyNew returns a deep copy of the key sharing the same parameters.
func (k Key) CopyNew() *Key {
	return &Key{params: k.params, TLwe: k.TLwe.CopyNew()}
}

// Equal returns true if k and other have equal parameters and the same polynomials.
func (k Key) Equal(other *Key) bool {
	return k.params != nil && k.params.Equal(other.params) && k.TLwe.Equal(other.TLwe)
}

// KeyGenerator generates uniform binary TGSW keys.
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
	tlwe.NewKeyGenerator(kgen.params.tlwe).WithSource(kgen.src).GenKey(key.TLwe)
}

// GenKeyNew generates a new uniformly random binary key.
func (kgen KeyGenerator) GenKeyNew() (key *Key) {
	key = NewKey(kgen.params)
	kgen.GenKey(key)
	return
}

// BinarySize returns the serialized size of the object in bytes.
func (k Key) BinarySize() int {
	return k.params.BinarySize() + 4 + k.TLwe.PayloadSize()
}

// WriteTo writes the key on w: the text blocks of its parameters, the
// TGSW_KEY TypeUID and the k*N coefficients as int32.
func (k Key) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = k.params.WriteTo(w); err != nil {
			return n, fmt.Errorf("tgsw.Parameters.WriteTo: %w", err)
		}

		var inc int64
		if inc, err = codec.WriteTypeUID(w, codec.TGswKeyUID); err != nil {
			return n + inc, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}
		n += inc

		if inc, err = k.TLwe.WritePayload(w); err != nil {
			return n + inc, err
		}

		return n + inc, w.Flush()

	default:
		return k.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads a key from r on the object. The TGSW and TLWE parameters of
// the key are read from the stream and registered in [registry.Default].
func (k *Key) ReadFrom(r io.Reader) (n int64, err error) {
	return k.readFrom(r, registry.Default())
}

// ReadKey reads a key from r. The TGSW and TLWE parameters of the key are
// read from the stream and registered in reg.
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

		// Dependencies are registered once the whole key is read
		deps := registry.New()

		var params *Parameters
		if params, n, err = ReadParameters(r, deps); err != nil {
			return
		}

		var inc int64
		if inc, err = codec.ReadTypeUID(r, codec.TGswKeyUID); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: %w", err)
		}
		n += inc

		key := NewKey(params)
		if inc, err = key.TLwe.ReadPayload(r); err != nil {
			return n + inc, err
		}
		n += inc

		for _, obj := range deps.Objects() {
			reg.Register(obj)
		}
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
