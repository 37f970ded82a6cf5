package bignum

import (
	"math/big"
)

// Erfc returns the complementary error function 1 - erf(x) for x >= 0 with x.Prec()
// bits of precision. Unlike math.Erfc, the result does not underflow for large x.
func Erfc(x *big.Float) (y *big.Float) {

	prec := x.Prec()

	if x.Sign() < 0 {
		panic("cannot Erfc: x must be non-negative")
	}

	if x.Cmp(NewFloat(3, prec)) < 0 {
		y = NewFloat(1, prec)
		return y.Sub(y, erfSeries(x))
	}

	return erfcContinuedFraction(x)
}

// erfSeries evaluates erf(x) = 2/sqrt(pi) * sum_{n} (-1)^n x^{2n+1} / (n! (2n+1)).
func erfSeries(x *big.Float) *big.Float {

	prec := x.Prec()

	x2 := new(big.Float).SetPrec(prec).Mul(x, x)
	x2.Neg(x2)

	term := new(big.Float).SetPrec(prec).Set(x) // (-1)^n x^{2n+1} / n!
	sum := new(big.Float).SetPrec(prec).Set(x)
	tmp := new(big.Float).SetPrec(prec)

	eps := NewFloat(1, prec)
	eps.SetMantExp(eps, -int(prec)-8)

	for n := int64(1); ; n++ {
		term.Mul(term, x2)
		term.Quo(term, NewFloat(n, prec))
		tmp.Quo(term, NewFloat(2*n+1, prec))
		sum.Add(sum, tmp)
		if new(big.Float).Abs(tmp).Cmp(eps) < 0 {
			break
		}
	}

	return sum.Mul(sum, twoOverSqrtPi(prec))
}

// erfcContinuedFraction evaluates erfc(x) = exp(-x^2)/sqrt(pi) / (x + (1/2)/(x + 1/(x + (3/2)/(x + ...)))).
func erfcContinuedFraction(x *big.Float) *big.Float {

	prec := x.Prec()

	half := NewFloat(0.5, prec)

	t := new(big.Float).SetPrec(prec).Set(x)
	tmp := new(big.Float).SetPrec(prec)

	for n := int64(4 * prec); n > 0; n-- {
		tmp.Mul(NewFloat(n, prec), half)
		tmp.Quo(tmp, t)
		t.Add(x, tmp)
	}

	exp := new(big.Float).SetPrec(prec).Mul(x, x)
	exp = Exp(exp.Neg(exp))

	y := new(big.Float).SetPrec(prec).Quo(exp, t)
	return y.Quo(y, new(big.Float).SetPrec(prec).Sqrt(Pi(prec)))
}

func twoOverSqrtPi(prec uint) *big.Float {
	y := new(big.Float).SetPrec(prec).Sqrt(Pi(prec))
	return y.Quo(NewFloat(2, prec), y)
}
