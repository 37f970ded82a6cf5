package tfhe

import (
	"github.com/tfhego/tfhe/core/lwe"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/sampling"
	"github.com/tfhego/tfhe/utils/structs"
)

// mu is the torus encoding of true: 1/8. false is encoded as -1/8.
var mu = torus.ModSwitchToTorus32(1, 8)

// NewCiphertext allocates a new LWE sample encrypting a bit under params.
func NewCiphertext(params *Parameters) *lwe.Sample[torus.Torus32] {
	return lwe.NewSample(params.inOut)
}

// NewCiphertexts allocates a vector of size LWE samples encrypting bits under
// params. Its serialization is a uint64 count followed by the samples.
func NewCiphertexts(params *Parameters, size int) structs.Vector[*lwe.Sample[torus.Torus32]] {
	cts := make(structs.Vector[*lwe.Sample[torus.Torus32]], size)
	for i := range cts {
		cts[i] = NewCiphertext(params)
	}
	return cts
}

// Encryptor encrypts bits under the LWE key of a secret key set.
type Encryptor struct {
	params *Parameters
	enc    *lwe.Encryptor
}

// NewEncryptor creates a new Encryptor drawing from the process-wide source
// of randomness, see [sampling.Default].
func NewEncryptor(sk *SecretKeySet) *Encryptor {
	return &Encryptor{params: sk.params, enc: lwe.NewEncryptor(sk.LweKey)}
}

// WithSource returns a copy of the Encryptor drawing from src.
func (enc Encryptor) WithSource(src *sampling.Source) *Encryptor {
	enc.enc = enc.enc.WithSource(src)
	return &enc
}

// Encrypt sets ct to a fresh encryption of bit, with noise of standard
// deviation the minimal noise of the input parameters.
func (enc Encryptor) Encrypt(ct *lwe.Sample[torus.Torus32], bit bool) {
	enc.enc.Encrypt(ct, encode(bit), enc.params.inOut.AlphaMin())
}

// EncryptNew returns a fresh encryption of bit.
func (enc Encryptor) EncryptNew(bit bool) (ct *lwe.Sample[torus.Torus32]) {
	ct = NewCiphertext(enc.params)
	enc.Encrypt(ct, bit)
	return
}

// EncryptBitsNew returns a vector of fresh encryptions of bits.
func (enc Encryptor) EncryptBitsNew(bits []bool) (cts structs.Vector[*lwe.Sample[torus.Torus32]]) {
	cts = NewCiphertexts(enc.params, len(bits))
	for i := range bits {
		enc.Encrypt(cts[i], bits[i])
	}
	return
}

// Decryptor decrypts bits under the LWE key of a secret key set.
type Decryptor struct {
	dec *lwe.Decryptor
}

// NewDecryptor creates a new Decryptor.
func NewDecryptor(sk *SecretKeySet) *Decryptor {
	return &Decryptor{dec: lwe.NewDecryptor(sk.LweKey)}
}

// Decrypt returns true if the phase of ct is positive.
func (dec Decryptor) Decrypt(ct *lwe.Sample[torus.Torus32]) bool {
	return dec.dec.Phase(ct) > 0
}

// DecryptBits decrypts each sample of cts.
func (dec Decryptor) DecryptBits(cts []*lwe.Sample[torus.Torus32]) (bits []bool) {
	bits = make([]bool, len(cts))
	for i := range cts {
		bits[i] = dec.Decrypt(cts[i])
	}
	return
}

func encode(bit bool) torus.Torus32 {
	if bit {
		return mu
	}
	return -mu
}

// Evaluator evaluates the gates that do not require bootstrapping.
type Evaluator struct {
	params *Parameters
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(params *Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// Constant sets res to the noiseless trivial encryption of bit.
func (eval Evaluator) Constant(res *lwe.Sample[torus.Torus32], bit bool) {
	res.NoiselessTrivial(encode(bit))
}

// Not sets res to an encryption of the negation of the bit encrypted by ct.
func (eval Evaluator) Not(res, ct *lwe.Sample[torus.Torus32]) {
	res.Negate(ct)
}

// Copy sets res to a copy of ct.
func (eval Evaluator) Copy(res, ct *lwe.Sample[torus.Torus32]) {
	res.Copy(ct)
}

// Parameters returns the parameters of the Evaluator.
func (eval Evaluator) Parameters() *Parameters {
	return eval.params
}
