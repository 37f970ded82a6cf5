package tgsw

import (
	"github.com/tfhego/tfhe/core/tlwe"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/sampling"
)

// Encryptor encrypts integers and integer polynomials into TGSW samples.
type Encryptor struct {
	params *Parameters
	enc    *tlwe.Encryptor
}

// NewEncryptor creates a new Encryptor under key drawing from the
// process-wide source of randomness, see [sampling.Default].
func NewEncryptor(key *Key) *Encryptor {
	return &Encryptor{params: key.params, enc: tlwe.NewEncryptor(key.TLwe)}
}

// WithSource returns a copy of the Encryptor drawing from src.
func (enc Encryptor) WithSource(src *sampling.Source) *Encryptor {
	enc.enc = enc.enc.WithSource(src)
	return &enc
}

// WithMultiplier returns a copy of the Encryptor computing its products with m.
func (enc Encryptor) WithMultiplier(m *ring.Multiplier) *Encryptor {
	enc.enc = enc.enc.WithMultiplier(m)
	return &enc
}

// EncryptZero sets every row of ct to a fresh TLWE encryption of zero.
func (enc Encryptor) EncryptZero(ct *Sample[torus.Torus32], alpha float64) {
	EncryptZeroT(&enc, ct, alpha)
}

// Encrypt sets ct to a fresh encryption of the integer polynomial message.
func (enc Encryptor) Encrypt(ct *Sample[torus.Torus32], message *ring.IntPoly, alpha float64) {
	EncryptT(&enc, ct, message, alpha)
}

// EncryptInt sets ct to a fresh encryption of the integer message.
func (enc Encryptor) EncryptInt(ct *Sample[torus.Torus32], message int32, alpha float64) {
	EncryptIntT(&enc, ct, message, alpha)
}

// Encrypt64 is the 64-bit counterpart of [Encryptor.Encrypt].
func (enc Encryptor) Encrypt64(ct *Sample[torus.Torus64], message *ring.IntPoly, alpha float64) {
	EncryptT(&enc, ct, message, alpha)
}

// EncryptInt64 is the 64-bit counterpart of [Encryptor.EncryptInt].
func (enc Encryptor) EncryptInt64(ct *Sample[torus.Torus64], message int32, alpha float64) {
	EncryptIntT(&enc, ct, message, alpha)
}

// EncryptZeroT is the generic form of [Encryptor.EncryptZero].
func EncryptZeroT[T torus.Torus](enc *Encryptor, ct *Sample[T], alpha float64) {
	checkKPL(enc.params.kpl, len(ct.Rows))
	for i := range ct.Rows {
		tlwe.EncryptZeroT(enc.enc, &ct.Rows[i], alpha)
	}
}

// EncryptT is the generic form of [Encryptor.Encrypt] and [Encryptor.Encrypt64].
func EncryptT[T torus.Torus](enc *Encryptor, ct *Sample[T], message *ring.IntPoly, alpha float64) {
	EncryptZeroT(enc, ct, alpha)
	AddMuH(ct, message)
}

// EncryptIntT is the generic form of [Encryptor.EncryptInt] and [Encryptor.EncryptInt64].
func EncryptIntT[T torus.Torus](enc *Encryptor, ct *Sample[T], message int32, alpha float64) {
	EncryptZeroT(enc, ct, alpha)
	AddMuIntH(ct, message)
}

// AddH adds the gadget matrix to ct: h[i] is added to the constant
// coefficient of the polynomial bloc of row bloc*l+i.
func AddH[T torus.Torus](ct *Sample[T]) {
	AddMuIntH(ct, 1)
}

// AddMuIntH adds mu times the gadget matrix to ct.
func AddMuIntH[T torus.Torus](ct *Sample[T], mu int32) {
	h, _ := gadget[T](ct.params)
	for bloc := 0; bloc <= ct.params.tlwe.K(); bloc++ {
		rows := ct.Block(bloc)
		for i := range rows {
			rows[i].A[bloc].Coeffs[0] += T(mu) * h[i]
		}
	}
}

// AddMuH adds the integer polynomial mu times the gadget matrix to ct.
func AddMuH[T torus.Torus](ct *Sample[T], mu *ring.IntPoly) {
	h, _ := gadget[T](ct.params)
	for bloc := 0; bloc <= ct.params.tlwe.K(); bloc++ {
		rows := ct.Block(bloc)
		for i := range rows {
			coeffs := rows[i].A[bloc].Coeffs
			for j, c := range mu.Coeffs {
				coeffs[j] += T(c) * h[i]
			}
		}
	}
}

// Decryptor decrypts TGSW samples under a secret key.
type Decryptor struct {
	params *Parameters
	dec    *tlwe.Decryptor
}

// NewDecryptor creates a new Decryptor under key.
func NewDecryptor(key *Key) *Decryptor {
	return &Decryptor{params: key.params, dec: tlwe.NewDecryptor(key.TLwe)}
}

// WithMultiplier returns a copy of the Decryptor computing its products with m.
func (dec Decryptor) WithMultiplier(m *ring.Multiplier) *Decryptor {
	dec.dec = dec.dec.WithMultiplier(m)
	return &dec
}

// Decrypt sets res to the integer polynomial encrypted by ct, with
// coefficients in [-Bg/2, Bg/2).
func (dec Decryptor) Decrypt(ct *Sample[torus.Torus32], res *ring.IntPoly) {
	DecryptT(&dec, ct, res)
}

// DecryptInt returns the integer encrypted by ct, in [-Bg/2, Bg/2).
func (dec Decryptor) DecryptInt(ct *Sample[torus.Torus32]) int32 {
	return DecryptIntT(&dec, ct)
}

// Decrypt64 is the 64-bit counterpart of [Decryptor.Decrypt].
func (dec Decryptor) Decrypt64(ct *Sample[torus.Torus64], res *ring.IntPoly) {
	DecryptT(&dec, ct, res)
}

// DecryptInt64 is the 64-bit counterpart of [Decryptor.DecryptInt].
func (dec Decryptor) DecryptInt64(ct *Sample[torus.Torus64]) int32 {
	return DecryptIntT(&dec, ct)
}

// DecryptT is the generic form of [Decryptor.Decrypt]. The message is read
// from row k*l, whose phase is mu*h[0] plus noise.
func DecryptT[T torus.Torus](dec *Decryptor, ct *Sample[T], res *ring.IntPoly) {

	checkKPL(dec.params.kpl, len(ct.Rows))

	phase := ring.NewTorusPoly[T](dec.params.tlwe.N())
	tlwe.PhaseT(dec.dec, &ct.Block(dec.params.tlwe.K())[0], phase)

	bg := int64(dec.params.bg)
	half := int64(dec.params.halfBg)
	for j, c := range phase.Coeffs {
		mu := torus.ModSwitchFrom(c, bg)
		if mu >= half {
			mu -= bg
		}
		res.Coeffs[j] = int32(mu)
	}
}

// DecryptIntT is the generic form of [Decryptor.DecryptInt].
func DecryptIntT[T torus.Torus](dec *Decryptor, ct *Sample[T]) int32 {
	res := ring.NewIntPoly(dec.params.tlwe.N())
	DecryptT(dec, ct, res)
	return res.Coeffs[0]
}
