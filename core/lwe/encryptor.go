package lwe

import (
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/sampling"
)

// Encryptor encrypts torus messages into LWE samples under a secret key.
type Encryptor struct {
	key *Key
	src *sampling.Source
}

// NewEncryptor creates a new Encryptor under key, drawing from the
// process-wide source of randomness, see [sampling.Default].
func NewEncryptor(key *Key) *Encryptor {
	return &Encryptor{key: key}
}

// WithSource returns a copy of the Encryptor drawing from src.
func (enc Encryptor) WithSource(src *sampling.Source) *Encryptor {
	enc.src = src
	return &enc
}

// WithKey returns a copy of the Encryptor encrypting under key.
func (enc Encryptor) WithKey(key *Key) *Encryptor {
	enc.key = key
	return &enc
}

func (enc Encryptor) source() *sampling.Source {
	if enc.src != nil {
		return enc.src
	}
	return sampling.Default()
}

// Encrypt sets ct to a fresh encryption of message with Gaussian noise of
// standard deviation alpha.
func (enc Encryptor) Encrypt(ct *Sample[torus.Torus32], message torus.Torus32, alpha float64) {
	encrypt(enc, ct, torus.Gaussian(enc.source(), message, alpha), alpha)
}

// Encrypt64 sets ct to a fresh encryption over the 64-bit torus of message
// with Gaussian noise of standard deviation alpha.
func (enc Encryptor) Encrypt64(ct *Sample[torus.Torus64], message torus.Torus64, alpha float64) {
	encrypt(enc, ct, torus.Gaussian(enc.source(), message, alpha), alpha)
}

// EncryptWithExternalNoise sets ct to an encryption of message with the
// given noise value instead of a sampled one. alpha is the standard
// deviation the noise was drawn from.
func (enc Encryptor) EncryptWithExternalNoise(ct *Sample[torus.Torus32], message torus.Torus32, noise, alpha float64) {
	encrypt(enc, ct, message+torus.DoubleToTorus32(noise), alpha)
}

// EncryptT is the generic form of [Encryptor.Encrypt] and [Encryptor.Encrypt64].
func EncryptT[T torus.Torus](enc *Encryptor, ct *Sample[T], message T, alpha float64) {
	encrypt(*enc, ct, torus.Gaussian(enc.source(), message, alpha), alpha)
}

// encrypt sets ct = (a, <a, s> + body) for a uniform mask a.
func encrypt[T torus.Torus](enc Encryptor, ct *Sample[T], body T, alpha float64) {

	checkDims(len(enc.key.Bits), ct.N())

	src := enc.source()

	for i := range ct.A {
		ct.A[i] = torus.Uniform[T](src)
		if enc.key.Bits[i] != 0 {
			body += ct.A[i]
		}
	}

	ct.B = body
	ct.Variance = alpha * alpha
}
