// Package ring implements the arithmetic of polynomials in Z[X]/(X^N+1) with
// integer or torus coefficients, and their multiplication by the schoolbook,
// Karatsuba and negacyclic FFT methods.
package ring

import (
	"fmt"
	"slices"

	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils"
	"github.com/tfhego/tfhe/utils/sampling"
)

// IntPoly is a polynomial of Z[X]/(X^N+1) with small integer coefficients.
type IntPoly struct {
	Coeffs []int32
}

// NewIntPoly allocates a new IntPoly with N zero coefficients.
func NewIntPoly(N int) *IntPoly {
	return &IntPoly{Coeffs: make([]int32, N)}
}

// N returns the number of coefficients of the polynomial.
func (p IntPoly) N() int {
	return len(p.Coeffs)
}

// Zero sets all coefficients to zero.
func (p *IntPoly) Zero() {
	clear(p.Coeffs)
}

// Copy copies the coefficients of other on p.
func (p *IntPoly) Copy(other *IntPoly) {
	checkN(p.N(), other.N())
	copy(p.Coeffs, other.Coeffs)
}

// CopyNew returns a deep copy of the polynomial.
func (p IntPoly) CopyNew() *IntPoly {
	return &IntPoly{Coeffs: slices.Clone(p.Coeffs)}
}

// Equal returns true if p and other have the same coefficients.
func (p IntPoly) Equal(other *IntPoly) bool {
	return slices.Equal(p.Coeffs, other.Coeffs)
}

// Norm2 returns the squared Euclidean norm of the polynomial.
func (p IntPoly) Norm2() (norm float64) {
	for _, c := range p.Coeffs {
		norm += float64(c) * float64(c)
	}
	return
}

// InfNorm returns the largest absolute value of the coefficients.
func (p IntPoly) InfNorm() (norm int64) {
	for _, c := range p.Coeffs {
		norm = max(norm, utils.Abs(int64(c)))
	}
	return
}

// UniformBinary sets the coefficients of p to uniform values in {0, 1}.
func (p *IntPoly) UniformBinary(src *sampling.Source) {
	for i := range p.Coeffs {
		p.Coeffs[i] = src.Bit()
	}
}

// TorusPoly is a polynomial of T[X]/(X^N+1) with torus coefficients.
type TorusPoly[T torus.Torus] struct {
	Coeffs []T
}

// NewTorusPoly allocates a new TorusPoly with N zero coefficients.
func NewTorusPoly[T torus.Torus](N int) *TorusPoly[T] {
	return &TorusPoly[T]{Coeffs: make([]T, N)}
}

// N returns the number of coefficients of the polynomial.
func (p TorusPoly[T]) N() int {
	return len(p.Coeffs)
}

// Zero sets all coefficients to zero.
func (p *TorusPoly[T]) Zero() {
	clear(p.Coeffs)
}

// Copy copies the coefficients of other on p.
func (p *TorusPoly[T]) Copy(other *TorusPoly[T]) {
	checkN(p.N(), other.N())
	copy(p.Coeffs, other.Coeffs)
}

// CopyNew returns a deep copy of the polynomial.
func (p TorusPoly[T]) CopyNew() *TorusPoly[T] {
	return &TorusPoly[T]{Coeffs: slices.Clone(p.Coeffs)}
}

// Equal returns true if p and other have the same coefficients.
func (p TorusPoly[T]) Equal(other *TorusPoly[T]) bool {
	return slices.Equal(p.Coeffs, other.Coeffs)
}

// Uniform sets the coefficients of p to uniform torus elements.
func (p *TorusPoly[T]) Uniform(src *sampling.Source) {
	for i := range p.Coeffs {
		p.Coeffs[i] = torus.Uniform[T](src)
	}
}

func checkN(n0, n1 int) {
	if n0 != n1 {
		panic(fmt.Errorf("polynomial degree mismatch: %d != %d", n0, n1))
	}
}
