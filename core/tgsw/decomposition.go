package tgsw

import (
	"fmt"

	"github.com/tfhego/tfhe/core/tlwe"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
)

// Decompose sets res[i*l+p] to the p-th digit of the gadget decomposition of
// the polynomial i of ct, for i in [0, k] and p in [0, l). Each digit is in
// [-Bg/2, Bg/2) and sum_p res[i*l+p] * h[p] equals ct.A[i] up to its
// w-l*Bgbit least significant bits.
func Decompose[T torus.Torus](params *Parameters, res []ring.IntPoly, ct *tlwe.Sample[T]) {

	if len(res) != params.kpl {
		panic(fmt.Errorf("cannot Decompose: len(res)=%d != kpl=%d", len(res), params.kpl))
	}

	if len(ct.A) != params.tlwe.K()+1 {
		panic(fmt.Errorf("cannot Decompose: sample has %d polynomials but parameters expect %d", len(ct.A), params.tlwe.K()+1))
	}

	l := params.l
	for i := range ct.A {
		DecomposePoly(params, res[i*l:(i+1)*l], &ct.A[i])
	}
}

// DecomposePoly sets res[p] to the p-th digit of the gadget decomposition of a.
func DecomposePoly[T torus.Torus](params *Parameters, res []ring.IntPoly, a *ring.TorusPoly[T]) {

	_, offset := gadget[T](params)

	w := torus.Bits[T]()
	mask := uint64(params.bg - 1)
	half := params.halfBg

	for j, c := range a.Coeffs {
		buf := uint64(c + T(offset))
		for p := range res {
			shift := w - (p+1)*params.bgbit
			res[p].Coeffs[j] = int32((buf>>shift)&mask) - half
		}
	}
}

// Recompose sets the polynomials of res to sum_p digits[i*l+p] * h[p]. It is
// the inverse of [Decompose] up to the precision of the gadget. The variance
// of res is set to zero.
func Recompose[T torus.Torus](params *Parameters, res *tlwe.Sample[T], digits []ring.IntPoly) {

	if len(digits) != params.kpl {
		panic(fmt.Errorf("cannot Recompose: len(digits)=%d != kpl=%d", len(digits), params.kpl))
	}

	h, _ := gadget[T](params)

	l := params.l
	for i := range res.A {
		coeffs := res.A[i].Coeffs
		clear(coeffs)
		for p, d := range digits[i*l : (i+1)*l] {
			for j, c := range d.Coeffs {
				coeffs[j] += T(c) * h[p]
			}
		}
	}

	res.Variance = 0
}

// NewDecomposition allocates the kpl integer polynomials receiving a decomposition.
func NewDecomposition(params *Parameters) []ring.IntPoly {
	res := make([]ring.IntPoly, params.kpl)
	for i := range res {
		res[i] = *ring.NewIntPoly(params.tlwe.N())
	}
	return res
}
