package tlwe

import (
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
)

// Decryptor computes the phase of TLWE samples under a secret key.
type Decryptor struct {
	key *Key
	mul *ring.Multiplier
}

// NewDecryptor creates a new Decryptor under key using the FFT multiplier.
func NewDecryptor(key *Key) *Decryptor {
	return &Decryptor{key: key, mul: ring.NewMultiplier(key.params.N(), ring.FFT)}
}

// WithMultiplier returns a copy of the Decryptor computing its products with m.
func (dec Decryptor) WithMultiplier(m *ring.Multiplier) *Decryptor {
	dec.mul = m
	return &dec
}

// Phase sets phase = body - sum key_i * A[i].
func (dec Decryptor) Phase(ct *Sample[torus.Torus32], phase *ring.TorusPoly[torus.Torus32]) {
	PhaseT(&dec, ct, phase)
}

// Decrypt sets res to the phase of ct with each coefficient rounded to the
// nearest multiple of 1/msize.
func (dec Decryptor) Decrypt(ct *Sample[torus.Torus32], res *ring.TorusPoly[torus.Torus32], msize int32) {
	PhaseT(&dec, ct, res)
	ApproxPhase(res, res, int64(msize))
}

// DecryptT returns the constant coefficient of the phase of ct rounded to the
// nearest multiple of 1/msize.
func (dec Decryptor) DecryptT(ct *Sample[torus.Torus32], msize int32) torus.Torus32 {
	return DecryptConstantT(&dec, ct, int64(msize))
}

// Phase64 is the 64-bit counterpart of [Decryptor.Phase].
func (dec Decryptor) Phase64(ct *Sample[torus.Torus64], phase *ring.TorusPoly[torus.Torus64]) {
	PhaseT(&dec, ct, phase)
}

// Decrypt64 is the 64-bit counterpart of [Decryptor.Decrypt].
func (dec Decryptor) Decrypt64(ct *Sample[torus.Torus64], res *ring.TorusPoly[torus.Torus64], msize int64) {
	PhaseT(&dec, ct, res)
	ApproxPhase(res, res, msize)
}

// DecryptT64 is the 64-bit counterpart of [Decryptor.DecryptT].
func (dec Decryptor) DecryptT64(ct *Sample[torus.Torus64], msize int64) torus.Torus64 {
	return DecryptConstantT(&dec, ct, msize)
}

// PhaseT is the generic form of [Decryptor.Phase] and [Decryptor.Phase64].
func PhaseT[T torus.Torus](dec *Decryptor, ct *Sample[T], phase *ring.TorusPoly[T]) {
	checkK(len(dec.key.Polys), ct.K())
	phase.Copy(ct.Body())
	for i := range dec.key.Polys {
		ring.SubMul(dec.mul, phase, &dec.key.Polys[i], &ct.A[i])
	}
}

// DecryptConstantT is the generic form of [Decryptor.DecryptT] and [Decryptor.DecryptT64].
func DecryptConstantT[T torus.Torus](dec *Decryptor, ct *Sample[T], msize int64) T {
	phase := ring.NewTorusPoly[T](ct.params.N())
	PhaseT(dec, ct, phase)
	return torus.ApproxPhase(phase.Coeffs[0], msize)
}

// ApproxPhase sets res to phase with each coefficient rounded to the nearest
// multiple of 1/msize.
func ApproxPhase[T torus.Torus](res, phase *ring.TorusPoly[T], msize int64) {
	for i, c := range phase.Coeffs {
		res.Coeffs[i] = torus.ApproxPhase(c, msize)
	}
}
