package torus

import (
	"github.com/tfhego/tfhe/utils/sampling"
)

// Gaussian32 returns message + e where e is a sample of the Gaussian distribution
// of standard deviation sigma, reduced modulo 1 and mapped on the torus.
func Gaussian32(src *sampling.Source, message Torus32, sigma float64) Torus32 {
	return message + DoubleToTorus32(src.NormFloat64()*sigma)
}

// Gaussian64 is the 64-bit counterpart of Gaussian32.
func Gaussian64(src *sampling.Source, message Torus64, sigma float64) Torus64 {
	return message + DoubleToTorus64(src.NormFloat64()*sigma)
}

// Gaussian is the generic form of Gaussian32 and Gaussian64.
func Gaussian[T Torus](src *sampling.Source, message T, sigma float64) T {
	return message + FromDouble[T](src.NormFloat64()*sigma)
}

// Uniform returns a uniform element of T.
func Uniform[T Torus](src *sampling.Source) T {
	var t T
	switch any(t).(type) {
	case Torus32:
		return T(int32(src.Uint32()))
	default:
		return T(int64(src.Uint64()))
	}
}
