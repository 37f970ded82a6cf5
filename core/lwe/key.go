package lwe

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/utils/buffer"
	"github.com/tfhego/tfhe/utils/sampling"
)

// Key is a binary LWE secret key.
type Key struct {
	params *Parameters
	Bits   []int32
}

// NewKey allocates a new zero key.
func NewKey(params *Parameters) *Key {
	return &Key{params: params, Bits: make([]int32, params.N())}
}

// Params returns the parameters of the key.
func (k Key) Params() *Parameters {
	return k.params
}

// CopyNew returns a deep copy of the key sharing the same parameters.
func (k Key) CopyNew() *Key {
	return &Key{params: k.params, Bits: slices.Clone(k.Bits)}
}

// Equal returns true if k and other have equal parameters and the same bits.
func (k Key) Equal(other *Key) bool {
	return k.params != nil && k.params.Equal(other.params) && cmp.Equal(k.Bits, other.Bits)
}

// KeyGenerator generates uniform binary LWE keys.
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

func (kgen KeyGenerator) source() *sampling.Source {
	if kgen.src != nil {
		return kgen.src
	}
	return sampling.Default()
}

// GenKey sets key to a uniformly random binary key.
func (kgen KeyGenerator) GenKey(key *Key) {
	checkDims(kgen.params.N(), len(key.Bits))
	src := kgen.source()
	for i := range key.Bits {
		key.Bits[i] = src.Bit()
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
	return k.params.BinarySize() + 4 + 4*len(k.Bits)
}

// WriteTo writes the key on w: the text block of its parameters, the
// LWE_KEY TypeUID and the n bits as int32.
func (k Key) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = k.params.WriteTo(w); err != nil {
			return n, fmt.Errorf("lwe.Parameters.WriteTo: %w", err)
		}

		var inc int64
		if inc, err = codec.WriteTypeUID(w, codec.LweKeyUID); err != nil {
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

// WritePayload writes the n key bits as int32 on w, without parameters nor TypeUID.
func (k Key) WritePayload(w buffer.Writer) (n int64, err error) {
	if n, err = buffer.WriteAsUint32Slice(w, k.Bits); err != nil {
		return n, fmt.Errorf("buffer.WriteAsUint32Slice: %w", err)
	}
	return
}

// ReadPayload reads the key bits from r. The key must be allocated.
func (k *Key) ReadPayload(r buffer.Reader) (n int64, err error) {
	if n, err = buffer.ReadAsUint32Slice(r, k.Bits); err != nil {
		return n, fmt.Errorf("buffer.ReadAsUint32Slice: %w", err)
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
		if inc, err = codec.ReadTypeUID(r, codec.LweKeyUID); err != nil {
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
