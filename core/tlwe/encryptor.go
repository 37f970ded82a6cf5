package tlwe

import (
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/sampling"
)

// Encryptor encrypts torus polynomials into TLWE samples under a secret key.
// Products by the key are computed with a [ring.Multiplier].
type Encryptor struct {
	key *Key
	mul *ring.Multiplier
	src *sampling.Source
}

// NewEncryptor creates a new Encryptor under key using the FFT multiplier
// and drawing from the process-wide source of randomness, see [sampling.Default].
func NewEncryptor(key *Key) *Encryptor {
	return &Encryptor{key: key, mul: ring.NewMultiplier(key.params.N(), ring.FFT)}
}

// WithSource returns a copy of the Encryptor drawing from src.
func (enc Encryptor) WithSource(src *sampling.Source) *Encryptor {
	enc.src = src
	return &enc
}

// WithMultiplier returns a copy of the Encryptor computing its products with m.
func (enc Encryptor) WithMultiplier(m *ring.Multiplier) *Encryptor {
	enc.mul = m
	return &enc
}

// Multiplier returns the multiplier of the Encryptor.
func (enc Encryptor) Multiplier() *ring.Multiplier {
	return enc.mul
}

// EncryptZero sets ct to a fresh encryption of zero with Gaussian noise of
// standard deviation alpha.
func (enc Encryptor) EncryptZero(ct *Sample[torus.Torus32], alpha float64) {
	EncryptZeroT(&enc, ct, alpha)
}

// Encrypt sets ct to a fresh encryption of the polynomial message.
func (enc Encryptor) Encrypt(ct *Sample[torus.Torus32], message *ring.TorusPoly[torus.Torus32], alpha float64) {
	EncryptT(&enc, ct, message, alpha)
}

// EncryptT sets ct to a fresh encryption of the constant polynomial message.
func (enc Encryptor) EncryptT(ct *Sample[torus.Torus32], message torus.Torus32, alpha float64) {
	EncryptConstantT(&enc, ct, message, alpha)
}

// EncryptZero64 is the 64-bit counterpart of [Encryptor.EncryptZero].
func (enc Encryptor) EncryptZero64(ct *Sample[torus.Torus64], alpha float64) {
	EncryptZeroT(&enc, ct, alpha)
}

// Encrypt64 is the 64-bit counterpart of [Encryptor.Encrypt].
func (enc Encryptor) Encrypt64(ct *Sample[torus.Torus64], message *ring.TorusPoly[torus.Torus64], alpha float64) {
	EncryptT(&enc, ct, message, alpha)
}

// EncryptT64 is the 64-bit counterpart of [Encryptor.EncryptT].
func (enc Encryptor) EncryptT64(ct *Sample[torus.Torus64], message torus.Torus64, alpha float64) {
	EncryptConstantT(&enc, ct, message, alpha)
}

// EncryptZeroT sets ct to (a_0, ..., a_{k-1}, sum key_i * a_i + e) for uniform
// a_i and Gaussian e of standard deviation alpha.
func EncryptZeroT[T torus.Torus](enc *Encryptor, ct *Sample[T], alpha float64) {

	checkK(len(enc.key.Polys), ct.K())

	src := source(enc.src)

	body := ct.Body()
	for j := range body.Coeffs {
		body.Coeffs[j] = torus.Gaussian[T](src, 0, alpha)
	}

	for i := range enc.key.Polys {
		ct.A[i].Uniform(src)
		ring.AddMul(enc.mul, body, &enc.key.Polys[i], &ct.A[i])
	}

	ct.Variance = alpha * alpha
}

// EncryptT is the generic form of [Encryptor.Encrypt] and [Encryptor.Encrypt64].
func EncryptT[T torus.Torus](enc *Encryptor, ct *Sample[T], message *ring.TorusPoly[T], alpha float64) {
	EncryptZeroT(enc, ct, alpha)
	ring.AddTo(ct.Body(), message)
}

// EncryptConstantT is the generic form of [Encryptor.EncryptT] and [Encryptor.EncryptT64].
func EncryptConstantT[T torus.Torus](enc *Encryptor, ct *Sample[T], message T, alpha float64) {
	EncryptZeroT(enc, ct, alpha)
	ct.Body().Coeffs[0] += message
}
