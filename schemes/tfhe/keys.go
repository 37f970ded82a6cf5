package tfhe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tfhego/tfhe/core/codec"
	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/core/registry"
	"github.com/tfhego/tfhe/core/tgsw"
	"github.com/tfhego/tfhe/utils/buffer"
	"github.com/tfhego/tfhe/utils/sampling"
)

// SecretKeySet is the secret key material of a gate bootstrapping parameter
// set: the LWE key of the gate inputs and outputs, the TGSW key of the
// bootstrapping key and, for sets with a second level, the lvl2 TGSW key.
type SecretKeySet struct {
	params      *Parameters
	LweKey      *lwe.Key
	TGswKey     *tgsw.Key
	TGswKeyLvl2 *tgsw.Key
}

// NewSecretKeySet allocates a new zero key set.
func NewSecretKeySet(params *Parameters) *SecretKeySet {
	sk := &SecretKeySet{
		params:  params,
		LweKey:  lwe.NewKey(params.inOut),
		TGswKey: tgsw.NewKey(params.tgsw),
	}
	if params.HasLvl2() {
		sk.TGswKeyLvl2 = tgsw.NewKey(params.tgswLvl2)
	}
	return sk
}

// Params returns the parameters of the key set.
func (sk SecretKeySet) Params() *Parameters {
	return sk.params
}

// Equal returns true if sk and other have equal parameters and keys.
func (sk SecretKeySet) Equal(other *SecretKeySet) bool {
	if sk.params == nil || !sk.params.Equal(other.params) {
		return false
	}
	eq := sk.LweKey.Equal(other.LweKey) && sk.TGswKey.Equal(other.TGswKey)
	if sk.params.HasLvl2() {
		eq = eq && sk.TGswKeyLvl2.Equal(other.TGswKeyLvl2)
	}
	return eq
}

// KeyGenerator generates gate bootstrapping secret key sets.
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

// GenSecretKeySet sets every key of sk to a uniformly random binary key.
func (kgen KeyGenerator) GenSecretKeySet(sk *SecretKeySet) {
	lwe.NewKeyGenerator(kgen.params.inOut).WithSource(kgen.src).GenKey(sk.LweKey)
	tgsw.NewKeyGenerator(kgen.params.tgsw).WithSource(kgen.src).GenKey(sk.TGswKey)
	if kgen.params.HasLvl2() {
		tgsw.NewKeyGenerator(kgen.params.tgswLvl2).WithSource(kgen.src).GenKey(sk.TGswKeyLvl2)
	}
}

// GenSecretKeySetNew generates a new secret key set.
func (kgen KeyGenerator) GenSecretKeySetNew() (sk *SecretKeySet) {
	sk = NewSecretKeySet(kgen.params)
	kgen.GenSecretKeySet(sk)
	return
}

// BinarySize returns the serialized size of the object in bytes.
func (sk SecretKeySet) BinarySize() (size int) {
	size = sk.params.BinarySize() + 4 + 4*len(sk.LweKey.Bits) + 4 + sk.TGswKey.TLwe.PayloadSize()
	if sk.params.HasLvl2() {
		size += 4 + sk.TGswKeyLvl2.TLwe.PayloadSize()
	}
	return
}

// WriteTo writes the key set on w: its parameter set once, then the
// LWE_KEY TypeUID and the LWE key bits, the TGSW_KEY TypeUID and the TGSW key
// polynomials, and the same for the lvl2 TGSW key if present.
func (sk SecretKeySet) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		if n, err = sk.params.WriteTo(w); err != nil {
			return n, fmt.Errorf("tfhe.Parameters.WriteTo: %w", err)
		}

		var inc int64
		if inc, err = codec.WriteTypeUID(w, codec.LweKeyUID); err != nil {
			return n + inc, fmt.Errorf("codec.WriteTypeUID: %w", err)
		}
		n += inc

		if inc, err = sk.LweKey.WritePayload(w); err != nil {
			return n + inc, err
		}
		n += inc

		keys := []*tgsw.Key{sk.TGswKey}
		if sk.params.HasLvl2() {
			keys = append(keys, sk.TGswKeyLvl2)
		}

		for _, key := range keys {

			if inc, err = codec.WriteTypeUID(w, codec.TGswKeyUID); err != nil {
				return n + inc, fmt.Errorf("codec.WriteTypeUID: %w", err)
			}
			n += inc

			if inc, err = key.TLwe.WritePayload(w); err != nil {
				return n + inc, err
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return sk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads a key set from r on the object. Its parameter set and the
// parameters the set is built on are registered in [registry.Default].
func (sk *SecretKeySet) ReadFrom(r io.Reader) (n int64, err error) {
	return sk.readFrom(r, registry.Default())
}

// ReadSecretKeySet reads a key set from r. Its parameter set and the
// parameters the set is built on are registered in reg.
func ReadSecretKeySet(r io.Reader, reg *registry.Registry) (sk *SecretKeySet, n int64, err error) {
	sk = new(SecretKeySet)
	if n, err = sk.readFrom(r, reg); err != nil {
		return nil, n, err
	}
	return
}

func (sk *SecretKeySet) readFrom(r io.Reader, reg *registry.Registry) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		deps := registry.New()

		var params *Parameters
		if params, n, err = ReadParameters(r, deps); err != nil {
			return
		}

		key := NewSecretKeySet(params)

		var inc int64
		if inc, err = codec.ReadTypeUID(r, codec.LweKeyUID); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: %w", err)
		}
		n += inc

		if inc, err = key.LweKey.ReadPayload(r); err != nil {
			return n + inc, err
		}
		n += inc

		keys := []*tgsw.Key{key.TGswKey}
		if params.HasLvl2() {
			keys = append(keys, key.TGswKeyLvl2)
		}

		for _, k := range keys {

			if inc, err = codec.ReadTypeUID(r, codec.TGswKeyUID); err != nil {
				return n + inc, fmt.Errorf("cannot ReadFrom: %w", err)
			}
			n += inc

			if inc, err = k.TLwe.ReadPayload(r); err != nil {
				return n + inc, err
			}
			n += inc
		}

		for _, obj := range deps.Objects() {
			reg.Register(obj)
		}
		reg.Register(params)

		*sk = *key

		return

	default:
		return sk.readFrom(bufio.NewReader(r), reg)
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (sk SecretKeySet) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(sk.BinarySize())
	_, err = sk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [SecretKeySet.MarshalBinary] or [SecretKeySet.WriteTo] on the object.
func (sk *SecretKeySet) UnmarshalBinary(data []byte) (err error) {
	_, err = sk.ReadFrom(buffer.NewBuffer(data))
	return
}
