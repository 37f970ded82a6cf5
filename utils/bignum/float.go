// Package bignum implements the high precision computations used to
// precompute transform tables and to bound decryption failure probabilities.
package bignum

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
)

const pi = "3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679821480865132823066470938446095505822317253594081284811174502841027019385211055596446229489549303819644288109756659334461284756482337867831652712019091456485669234603486104543266482133936072602491412737245870066063155881748815209209628292540917153643678925903600113305305488204665213841469519415116094330572703657595919530921861173819326117931051185480744623799627495673518857527248912279381830119491298336733624406566430860213949463952247371907021798609437027705392171762931767523846748184676694051320005681271452635608277857713427577896091736371787214684409012249534301465495853710507922796892589235420199561121290219608640344181598136297747713099605187072113499999983729780499510597317328160963185950244594553469083026425223082533446850352619311881710100031378387528865875332083814206171776691473035982534904287554687311595628638823537875937519577818577805321712268066130019278766111959092164201989"

// Pi returns Pi with prec bits of precision.
func Pi(prec uint) *big.Float {
	pi, _ := new(big.Float).SetPrec(prec).SetString(pi)
	return pi
}

// NewFloat creates a new big.Float with prec bits of precision.
// Valid types for x are int, int64, uint64, float64 and *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float).SetPrec(prec)

	switch x := x.(type) {
	case nil:
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("cannot NewFloat: invalid x.(type) %T, valid types are int, int64, uint64, float64 and *big.Float", x))
	}

	return
}

// Cos is an iterative arbitrary precision computation of Cos(x) with an error of (1/4)^k after k iterations.
// ref: Johansson, B. Tomas, An elementary algorithm to evaluate trigonometric functions to high precision, 2018
func Cos(x *big.Float) (cosx *big.Float) {

	prec := x.Prec()

	t := NewFloat(1, prec)
	t.SetMantExp(t, -int(prec>>1)+1) // 2^{-k}

	s := new(big.Float).SetPrec(prec).Mul(x, t)
	s.Mul(s, s)

	four := NewFloat(4, prec)
	tmp := new(big.Float).SetPrec(prec)

	for i := uint(1); i < prec>>1; i++ {
		tmp.Sub(four, s)
		s.Mul(s, tmp)
	}

	cosx = new(big.Float).SetPrec(prec).Quo(s, NewFloat(2, prec))
	return cosx.Sub(NewFloat(1, prec), cosx)
}

// Sin returns Sin(x) = Cos(x - Pi/2).
func Sin(x *big.Float) (sinx *big.Float) {
	halfPi := Pi(x.Prec())
	halfPi.Quo(halfPi, NewFloat(2, x.Prec()))
	return Cos(new(big.Float).SetPrec(x.Prec()).Sub(x, halfPi))
}

// Log returns ln(x).
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Exp returns exp(x).
func Exp(x *big.Float) (exp *big.Float) {
	return bigfloat.Exp(x)
}
