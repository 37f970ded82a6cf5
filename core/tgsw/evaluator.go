package tgsw

import (
	"github.com/tfhego/tfhe/core/tlwe"
	"github.com/tfhego/tfhe/ring"
	"github.com/tfhego/tfhe/torus"
)

// Evaluator computes external products of TLWE samples by TGSW samples. It
// holds scratch buffers and is not safe for concurrent use: use
// [Evaluator.ShallowCopy] to obtain one Evaluator per goroutine.
type Evaluator struct {
	params *Parameters
	fft    *ring.FFTProcessor
	mul    *ring.Multiplier

	digits    []ring.IntPoly
	digitsFFT []ring.LagrangeHalfCPoly
	acc       *tlwe.SampleFFT
}

// NewEvaluator creates a new Evaluator for the given parameters. The
// coefficient domain products of [ExternalProductT] use the FFT multiplier.
func NewEvaluator(params *Parameters) *Evaluator {
	mul := ring.NewMultiplier(params.tlwe.N(), ring.FFT)
	return newEvaluator(params, mul.FFTProcessor(), mul)
}

func newEvaluator(params *Parameters, fft *ring.FFTProcessor, mul *ring.Multiplier) *Evaluator {
	digitsFFT := make([]ring.LagrangeHalfCPoly, params.kpl)
	for i := range digitsFFT {
		digitsFFT[i] = *ring.NewLagrangeHalfCPoly(params.tlwe.N())
	}
	return &Evaluator{
		params:    params,
		fft:       fft,
		mul:       mul,
		digits:    NewDecomposition(params),
		digitsFFT: digitsFFT,
		acc:       tlwe.NewSampleFFT(params.tlwe),
	}
}

// ShallowCopy returns a new Evaluator sharing the read-only precomputations
// of eval with its own scratch buffers.
func (eval Evaluator) ShallowCopy() *Evaluator {
	return newEvaluator(eval.params, eval.fft, eval.mul)
}

// WithMultiplier returns a new Evaluator whose coefficient domain products
// are computed with m.
func (eval Evaluator) WithMultiplier(m *ring.Multiplier) *Evaluator {
	return newEvaluator(eval.params, eval.fft, m)
}

// Parameters returns the parameters of the Evaluator.
func (eval Evaluator) Parameters() *Parameters {
	return eval.params
}

// ExternalProduct sets res to the external product of gsw by ct: the
// decomposition of ct multiplied by the rows of gsw. If gsw encrypts the
// integer polynomial mu and ct encrypts m, res encrypts mu*m. res and ct may
// be the same sample.
//
// The variance of res is the variance of ct plus sum_p ||dec_p||^2 times the
// variance of row p.
func (eval Evaluator) ExternalProduct(res *tlwe.Sample[torus.Torus32], gsw *SampleFFT, ct *tlwe.Sample[torus.Torus32]) {

	checkKPL(eval.params.kpl, len(gsw.Rows))

	Decompose(eval.params, eval.digits, ct)
	for p := range eval.digits {
		eval.fft.IntPolyToFFT(&eval.digitsFFT[p], &eval.digits[p])
	}

	v := ct.Variance

	eval.acc.Clear()
	for p := range eval.digitsFFT {
		eval.acc.AddMulRTo(&eval.digitsFFT[p], &gsw.Rows[p])
	}

	tlwe.FromFFT(eval.fft, res, eval.acc)
	res.Variance += v
}

// ExternalProductT computes the external product of gsw by ct in the
// coefficient domain, with the products of eval's multiplier. It serves both
// tori, and in particular the 64-bit samples. res and ct may be the same sample.
func ExternalProductT[T torus.Torus](eval *Evaluator, res *tlwe.Sample[T], gsw *Sample[T], ct *tlwe.Sample[T]) {

	checkKPL(eval.params.kpl, len(gsw.Rows))

	Decompose(eval.params, eval.digits, ct)

	v := ct.Variance

	res.Clear()
	for p := range eval.digits {
		res.AddMulRTo(eval.mul, &eval.digits[p], &gsw.Rows[p])
	}

	res.Variance += v
}

// ToFFT sets res to the FFT representation of gsw.
func (eval Evaluator) ToFFT(res *SampleFFT, gsw *Sample[torus.Torus32]) {
	ToFFT(eval.fft, res, gsw)
}

// CMux sets res to an encryption of d1 if c encrypts 1 and of d0 if c
// encrypts 0, computed as d0 + c*(d1-d0). res must be distinct from d0 and d1.
func (eval Evaluator) CMux(res *tlwe.Sample[torus.Torus32], c *SampleFFT, d0, d1 *tlwe.Sample[torus.Torus32]) {
	res.Copy(d1)
	res.SubTo(d0)
	eval.ExternalProduct(res, c, res)
	res.AddTo(d0)
}
