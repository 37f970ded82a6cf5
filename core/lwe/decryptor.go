package lwe

import (
	"github.com/tfhego/tfhe/torus"
)

// Decryptor computes the phase of LWE samples under a secret key.
type Decryptor struct {
	key *Key
}

// NewDecryptor creates a new Decryptor under key.
func NewDecryptor(key *Key) *Decryptor {
	return &Decryptor{key: key}
}

// Phase returns b - <a, s>, the noisy message of ct.
func (dec Decryptor) Phase(ct *Sample[torus.Torus32]) torus.Torus32 {
	return PhaseT(&dec, ct)
}

// Phase64 returns b - <a, s> over the 64-bit torus.
func (dec Decryptor) Phase64(ct *Sample[torus.Torus64]) torus.Torus64 {
	return PhaseT(&dec, ct)
}

// Decrypt returns the phase of ct rounded to the nearest multiple of 1/msize.
func (dec Decryptor) Decrypt(ct *Sample[torus.Torus32], msize int32) torus.Torus32 {
	return torus.ApproxPhase32(dec.Phase(ct), msize)
}

// Decrypt64 returns the phase of ct rounded to the nearest multiple of 1/msize.
func (dec Decryptor) Decrypt64(ct *Sample[torus.Torus64], msize int64) torus.Torus64 {
	return torus.ApproxPhase64(dec.Phase64(ct), msize)
}

// PhaseT is the generic form of [Decryptor.Phase] and [Decryptor.Phase64].
func PhaseT[T torus.Torus](dec *Decryptor, ct *Sample[T]) (phase T) {
	checkDims(len(dec.key.Bits), ct.N())
	phase = ct.B
	for i, a := range ct.A {
		if dec.key.Bits[i] != 0 {
			phase -= a
		}
	}
	return
}
