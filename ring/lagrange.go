package ring

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/tfhego/tfhe/utils/buffer"
)

// LagrangeHalfCPoly is the FFT representation of a real polynomial of
// Z[X]/(X^N+1): its N/2 evaluations at the roots w^{4k+1}, w = exp(i*Pi/N).
// Products in this representation are coefficient-wise.
type LagrangeHalfCPoly struct {
	Coeffs []complex128
}

// NewLagrangeHalfCPoly allocates a new zero LagrangeHalfCPoly for polynomials of N coefficients.
func NewLagrangeHalfCPoly(N int) *LagrangeHalfCPoly {
	return &LagrangeHalfCPoly{Coeffs: make([]complex128, N>>1)}
}

// N returns the number of coefficients of the represented polynomial.
func (p LagrangeHalfCPoly) N() int {
	return len(p.Coeffs) << 1
}

// Zero sets p to zero.
func (p *LagrangeHalfCPoly) Zero() {
	clear(p.Coeffs)
}

// Copy copies other on p.
func (p *LagrangeHalfCPoly) Copy(other *LagrangeHalfCPoly) {
	checkN(p.N(), other.N())
	copy(p.Coeffs, other.Coeffs)
}

// CopyNew returns a deep copy of p.
func (p LagrangeHalfCPoly) CopyNew() *LagrangeHalfCPoly {
	return &LagrangeHalfCPoly{Coeffs: slices.Clone(p.Coeffs)}
}

// Equal returns true if p and other hold the same values.
func (p LagrangeHalfCPoly) Equal(other *LagrangeHalfCPoly) bool {
	return slices.Equal(p.Coeffs, other.Coeffs)
}

// MulTo sets p = a * b.
func (p *LagrangeHalfCPoly) MulTo(a, b *LagrangeHalfCPoly) {
	checkN(a.N(), b.N())
	checkN(p.N(), a.N())
	for i := range p.Coeffs {
		p.Coeffs[i] = a.Coeffs[i] * b.Coeffs[i]
	}
}

// AddMulTo sets p = p + a * b.
func (p *LagrangeHalfCPoly) AddMulTo(a, b *LagrangeHalfCPoly) {
	checkN(a.N(), b.N())
	checkN(p.N(), a.N())
	for i := range p.Coeffs {
		p.Coeffs[i] += a.Coeffs[i] * b.Coeffs[i]
	}
}

// SubMulTo sets p = p - a * b.
func (p *LagrangeHalfCPoly) SubMulTo(a, b *LagrangeHalfCPoly) {
	checkN(a.N(), b.N())
	checkN(p.N(), a.N())
	for i := range p.Coeffs {
		p.Coeffs[i] -= a.Coeffs[i] * b.Coeffs[i]
	}
}

// AddTo sets p = p + a.
func (p *LagrangeHalfCPoly) AddTo(a *LagrangeHalfCPoly) {
	checkN(p.N(), a.N())
	for i := range p.Coeffs {
		p.Coeffs[i] += a.Coeffs[i]
	}
}

// SubTo sets p = p - a.
func (p *LagrangeHalfCPoly) SubTo(a *LagrangeHalfCPoly) {
	checkN(p.N(), a.N())
	for i := range p.Coeffs {
		p.Coeffs[i] -= a.Coeffs[i]
	}
}

// BinarySize returns the serialized size of the object in bytes.
func (p LagrangeHalfCPoly) BinarySize() int {
	return 16 * len(p.Coeffs)
}

// WriteTo writes the values of p as (real, imag) float64 pairs on w.
func (p LagrangeHalfCPoly) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		if n, err = buffer.WriteComplex128Slice(w, p.Coeffs); err != nil {
			return n, fmt.Errorf("buffer.WriteComplex128Slice: %w", err)
		}
		return n, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the values of p from r. p must be allocated with the
// number of values to read.
func (p *LagrangeHalfCPoly) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		if n, err = buffer.ReadComplex128Slice(r, p.Coeffs); err != nil {
			return n, fmt.Errorf("buffer.ReadComplex128Slice: %w", err)
		}
		return
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// Norm2 returns the squared Euclidean norm of the represented polynomial,
// computed from its evaluations with Parseval's identity.
func (p LagrangeHalfCPoly) Norm2() (norm float64) {
	for _, c := range p.Coeffs {
		norm += real(c)*real(c) + imag(c)*imag(c)
	}
	return 2 * norm / float64(p.N())
}
