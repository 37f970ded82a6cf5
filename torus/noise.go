package torus

import (
	"math"
	"math/big"

	"github.com/montanaflynn/stats"
	"github.com/tfhego/tfhe/utils/bignum"
)

// FailureProbability returns the probability that a centered Gaussian error of
// the given variance is at least half a slot of a message space of size msize,
// that is, the probability of decrypting to a wrong message. The result is
// computed with 128 bits of precision and does not underflow.
func FailureProbability(variance float64, msize int64) *big.Float {

	const prec = 128

	if variance <= 0 {
		return bignum.NewFloat(0, prec)
	}

	// erfc(1/(2*msize) / sqrt(2*variance))
	x := bignum.NewFloat(0.5/float64(msize), prec)
	x.Quo(x, new(big.Float).SetPrec(prec).Sqrt(bignum.NewFloat(2*variance, prec)))

	return bignum.Erfc(x)
}

// Log2FailureProbability returns log2(FailureProbability(variance, msize)).
func Log2FailureProbability(variance float64, msize int64) float64 {
	p := FailureProbability(variance, msize)
	if p.Sign() == 0 {
		return math.Inf(-1)
	}
	ln := bignum.Float64(bignum.Log(p))
	return ln / math.Ln2
}

// NoiseStats summarizes a set of phase errors, expressed as reals in [-1/2, 1/2).
type NoiseStats struct {
	Samples int
	Mean    float64
	StdDev  float64
	MaxAbs  float64
}

// NewNoiseStats computes the statistics of errs.
func NewNoiseStats(errs []float64) (ns NoiseStats, err error) {

	data := stats.Float64Data(errs)

	ns.Samples = len(errs)

	if ns.Mean, err = stats.Mean(data); err != nil {
		return
	}

	if ns.StdDev, err = stats.StandardDeviation(data); err != nil {
		return
	}

	abs := make(stats.Float64Data, len(errs))
	for i := range errs {
		abs[i] = math.Abs(errs[i])
	}

	ns.MaxAbs, err = stats.Max(abs)

	return
}

// PhaseError returns the signed distance on the torus between phase and expected.
func PhaseError[T Torus](phase, expected T) float64 {
	return ToDouble(phase - expected)
}
