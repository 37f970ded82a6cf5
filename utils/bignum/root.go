package bignum

import (
	"math/big"
)

// UnitRoot returns exp(i*Pi*num/den) rounded to a complex128, computed with prec bits
// of precision.
func UnitRoot(num, den int, prec uint) complex128 {
	angle := Pi(prec)
	angle.Mul(angle, NewFloat(num, prec))
	angle.Quo(angle, NewFloat(den, prec))
	re, _ := Cos(angle).Float64()
	im, _ := Sin(angle).Float64()
	return complex(re, im)
}

// Float64 returns the float64 nearest to x.
func Float64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}
