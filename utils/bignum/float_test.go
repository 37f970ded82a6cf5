package bignum

import (
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	testFunc1("Sin", 1.4142135623730951, math.Sin, Sin, 1e-15, t)
	testFunc1("Cos", 1.4142135623730951, math.Cos, Cos, 1e-15, t)
	testFunc1("Cos/Pi", math.Pi-1e-3, math.Cos, Cos, 1e-15, t)
	testFunc1("Log", 1.4142135623730951, math.Log, Log, 1e-15, t)
	testFunc1("Exp", 1.4142135623730951, math.Exp, Exp, 1e-15, t)

	for _, x := range []float64{0, 0.1, 1, 2.5, 3, 4.5, 6} {
		testFunc1("Erfc", x, math.Erfc, Erfc, 1e-15, t)
	}

	t.Run("Erfc/NoUnderflow", func(t *testing.T) {
		y := Erfc(NewFloat(100, 128))
		require.Equal(t, 1, y.Sign())
		// log(erfc(x)) ~ -x^2 - log(x*sqrt(pi))
		ln, _ := Log(y).Float64()
		require.InDelta(t, -1e4-math.Log(100*math.Sqrt(math.Pi)), ln, 1e-3)
	})

	t.Run("UnitRoot", func(t *testing.T) {
		for _, c := range []struct{ num, den int }{{0, 1}, {1, 2}, {1, 1}, {3, 1024}, {-5, 16}} {
			want := cmplx.Exp(complex(0, math.Pi*float64(c.num)/float64(c.den)))
			have := UnitRoot(c.num, c.den, 128)
			require.InDelta(t, real(want), real(have), 1e-15)
			require.InDelta(t, imag(want), imag(have), 1e-15)
		}
	})
}

func testFunc1(name string, x float64, f func(x float64) (y float64), g func(x *big.Float) (y *big.Float), delta float64, t *testing.T) {
	t.Run(name, func(t *testing.T) {
		y, _ := g(NewFloat(x, 128)).Float64()
		require.InDelta(t, f(x), y, delta)
	})
}
