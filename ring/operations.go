package ring

import (
	"fmt"

	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils"
)

// Add sets res = a + b.
func Add[T torus.Torus](res, a, b *TorusPoly[T]) {
	checkN(a.N(), b.N())
	checkN(res.N(), a.N())
	for i := range res.Coeffs {
		res.Coeffs[i] = a.Coeffs[i] + b.Coeffs[i]
	}
}

// Sub sets res = a - b.
func Sub[T torus.Torus](res, a, b *TorusPoly[T]) {
	checkN(a.N(), b.N())
	checkN(res.N(), a.N())
	for i := range res.Coeffs {
		res.Coeffs[i] = a.Coeffs[i] - b.Coeffs[i]
	}
}

// AddTo sets res = res + a.
func AddTo[T torus.Torus](res, a *TorusPoly[T]) {
	Add(res, res, a)
}

// SubTo sets res = res - a.
func SubTo[T torus.Torus](res, a *TorusPoly[T]) {
	Sub(res, res, a)
}

// Neg sets res = -a.
func Neg[T torus.Torus](res, a *TorusPoly[T]) {
	checkN(res.N(), a.N())
	for i := range res.Coeffs {
		res.Coeffs[i] = -a.Coeffs[i]
	}
}

// AddMulZTo sets res = res + p*a for an integer p.
func AddMulZTo[T torus.Torus](res *TorusPoly[T], p int64, a *TorusPoly[T]) {
	checkN(res.N(), a.N())
	for i := range res.Coeffs {
		res.Coeffs[i] += T(p) * a.Coeffs[i]
	}
}

// SubMulZTo sets res = res - p*a for an integer p.
func SubMulZTo[T torus.Torus](res *TorusPoly[T], p int64, a *TorusPoly[T]) {
	checkN(res.N(), a.N())
	for i := range res.Coeffs {
		res.Coeffs[i] -= T(p) * a.Coeffs[i]
	}
}

// MulByXai sets res = X^ai * a mod X^N+1 for 0 <= ai < 2N.
// res and a must not share their coefficients.
func MulByXai[T torus.Torus](res *TorusPoly[T], ai int, a *TorusPoly[T]) {
	checkN(res.N(), a.N())
	checkNoAlias(res.Coeffs, a.Coeffs)
	mulByXai(res.Coeffs, ai, a.Coeffs, false)
}

// MulByXaiMinusOne sets res = (X^ai - 1) * a mod X^N+1 for 0 <= ai < 2N.
// res and a must not share their coefficients.
func MulByXaiMinusOne[T torus.Torus](res *TorusPoly[T], ai int, a *TorusPoly[T]) {
	checkN(res.N(), a.N())
	checkNoAlias(res.Coeffs, a.Coeffs)
	mulByXai(res.Coeffs, ai, a.Coeffs, true)
}

// MulByXai sets p = X^ai * a mod X^N+1 for 0 <= ai < 2N.
func (p *IntPoly) MulByXai(ai int, a *IntPoly) {
	checkN(p.N(), a.N())
	checkNoAlias(p.Coeffs, a.Coeffs)
	mulByXai(p.Coeffs, ai, a.Coeffs, false)
}

// mulByXai computes the negacyclic rotation of a by ai positions, minus a if minusOne is set.
func mulByXai[C ~int32 | ~int64](res []C, ai int, a []C, minusOne bool) {

	N := len(a)

	if ai < 0 || ai >= 2*N {
		panic(fmt.Errorf("cannot MulByXai: exponent %d is not in [0, %d)", ai, 2*N))
	}

	if ai < N {
		for i := 0; i < ai; i++ {
			res[i] = -a[i-ai+N]
		}
		for i := ai; i < N; i++ {
			res[i] = a[i-ai]
		}
	} else {
		aa := ai - N
		for i := 0; i < aa; i++ {
			res[i] = a[i-aa+N]
		}
		for i := aa; i < N; i++ {
			res[i] = -a[i-aa]
		}
	}

	if minusOne {
		for i := range res {
			res[i] -= a[i]
		}
	}
}

func checkNoAlias[C any](res, a []C) {
	if utils.Alias1D(res, a) {
		panic(fmt.Errorf("result and operand must not share their coefficients"))
	}
}
