// Package torus implements the arithmetic of the real torus T = R/Z discretized
// modulo 2^32 and 2^64, and the modular Gaussian noise sampler.
//
// A Torus32 x represents the real x/2^32 mod 1 and a Torus64 x the real x/2^64 mod 1.
// Addition, subtraction and multiplication by an integer are the native wrapping
// integer operations.
package torus

import (
	"math"
	"math/bits"
)

// Torus32 is an element of the torus discretized modulo 2^32.
type Torus32 int32

// Torus64 is an element of the torus discretized modulo 2^64.
type Torus64 int64

// Torus is the type constraint of the discretized torus types.
type Torus interface {
	Torus32 | Torus64
}

const (
	two32 = 1 << 32
	two63 = 1 << 63
	two64 = 1 << 64
)

// Bits returns the bit width w of T.
func Bits[T Torus]() int {
	var t T
	switch any(t).(type) {
	case Torus32:
		return 32
	default:
		return 64
	}
}

// DoubleToTorus32 maps the real d mod 1 to the nearest element of the torus modulo 2^32.
// Ties are rounded away from zero.
func DoubleToTorus32(d float64) Torus32 {
	r := d - math.Round(d)
	return Torus32(int64(math.Round(r * two32)))
}

// DoubleToTorus64 maps the real d mod 1 to the nearest element of the torus modulo 2^64.
// Ties are rounded away from zero.
func DoubleToTorus64(d float64) Torus64 {
	v := math.Round((d - math.Round(d)) * two64)
	if v >= two63 {
		v -= two64
	}
	return Torus64(int64(v))
}

// Torus32ToDouble returns the signed real in [-1/2, 1/2) represented by x.
func Torus32ToDouble(x Torus32) float64 {
	return float64(x) / two32
}

// Torus64ToDouble returns the signed real in [-1/2, 1/2) represented by x.
func Torus64ToDouble(x Torus64) float64 {
	return float64(x) / two64
}

// ModSwitchToTorus32 returns the torus element nearest to mu/msize, with mu taken mod msize.
func ModSwitchToTorus32(mu, msize int32) Torus32 {
	m := reduce(int64(mu), int64(msize))
	return Torus32(uint32((uint64(m)<<32 + uint64(msize)/2) / uint64(msize)))
}

// ModSwitchToTorus64 returns the torus element nearest to mu/msize, with mu taken mod msize.
func ModSwitchToTorus64(mu, msize int64) Torus64 {
	m := reduce(mu, msize)
	q, rem := bits.Div64(uint64(m), 0, uint64(msize))
	if 2*rem >= uint64(msize) {
		q++
	}
	return Torus64(q)
}

// ModSwitchFromTorus32 returns the integer in [0, msize) nearest to phase*msize.
func ModSwitchFromTorus32(phase Torus32, msize int32) int32 {
	q := (uint64(uint32(phase))*uint64(msize) + 1<<31) >> 32
	return int32(q % uint64(msize))
}

// ModSwitchFromTorus64 returns the integer in [0, msize) nearest to phase*msize.
func ModSwitchFromTorus64(phase Torus64, msize int64) int64 {
	hi, lo := bits.Mul64(uint64(phase), uint64(msize))
	if lo >= two63 {
		hi++
	}
	return int64(hi % uint64(msize))
}

// ApproxPhase32 rounds phase to the nearest multiple of 1/msize.
func ApproxPhase32(phase Torus32, msize int32) Torus32 {
	return ModSwitchToTorus32(ModSwitchFromTorus32(phase, msize), msize)
}

// ApproxPhase64 rounds phase to the nearest multiple of 1/msize.
func ApproxPhase64(phase Torus64, msize int64) Torus64 {
	return ModSwitchToTorus64(ModSwitchFromTorus64(phase, msize), msize)
}

// FromDouble is the generic form of DoubleToTorus32 and DoubleToTorus64.
func FromDouble[T Torus](d float64) T {
	var t T
	switch any(t).(type) {
	case Torus32:
		return T(DoubleToTorus32(d))
	default:
		return T(DoubleToTorus64(d))
	}
}

// ToDouble is the generic form of Torus32ToDouble and Torus64ToDouble.
func ToDouble[T Torus](x T) float64 {
	switch x := any(x).(type) {
	case Torus32:
		return Torus32ToDouble(x)
	default:
		return Torus64ToDouble(x.(Torus64))
	}
}

// ModSwitchTo is the generic form of ModSwitchToTorus32 and ModSwitchToTorus64.
// msize must fit in an int32 when T is Torus32.
func ModSwitchTo[T Torus](mu, msize int64) T {
	var t T
	switch any(t).(type) {
	case Torus32:
		return T(ModSwitchToTorus32(int32(reduce(mu, msize)), int32(msize)))
	default:
		return T(ModSwitchToTorus64(mu, msize))
	}
}

// ModSwitchFrom is the generic form of ModSwitchFromTorus32 and ModSwitchFromTorus64.
// msize must fit in an int32 when T is Torus32.
func ModSwitchFrom[T Torus](phase T, msize int64) int64 {
	switch x := any(phase).(type) {
	case Torus32:
		return int64(ModSwitchFromTorus32(x, int32(msize)))
	default:
		return ModSwitchFromTorus64(x.(Torus64), msize)
	}
}

// ApproxPhase is the generic form of ApproxPhase32 and ApproxPhase64.
func ApproxPhase[T Torus](phase T, msize int64) T {
	return ModSwitchTo[T](ModSwitchFrom(phase, msize), msize)
}

// reduce returns mu mod msize in [0, msize).
func reduce(mu, msize int64) int64 {
	if msize <= 0 {
		panic("message space size must be strictly positive")
	}
	if mu %= msize; mu < 0 {
		mu += msize
	}
	return mu
}
