package ring

import (
	"fmt"
	"math"

	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils"
	"github.com/tfhego/tfhe/utils/bignum"
	"github.com/tfhego/tfhe/utils/structs"
)

// twiddlePrecision is the precision in bits used to compute the twiddle factors.
const twiddlePrecision = 128

// limbBits is the width of the signed limbs the torus operand is split into by MulFFT.
const limbBits = 16

// maxFFTLogBound is the log2 of the largest N * max|a_i| for which MulFFT is exact.
const maxFFTLogBound = 30

// FFTProcessor implements the negacyclic FFT over Z[X]/(X^N+1).
//
// A real polynomial a of N coefficients is folded into the N/2 complex values
// z_j = (a_j + i*a_{j+N/2}) * w^j with w = exp(i*Pi/N), on which a cyclic FFT of
// size N/2 is applied. The k-th output is the evaluation of a at w^{4k+1}, a root
// of X^N+1, so that products of folded polynomials are negacyclic products.
//
// An FFTProcessor is safe for concurrent use.
type FFTProcessor struct {
	n     int
	twist []complex128 // w^j for 0 <= j < N/2
	roots []complex128 // exp(2i*Pi*t/(N/2)) for 0 <= t < N/4
	pool  *structs.SyncPool[*fftBuffers]
}

type fftBuffers struct {
	a, b   []complex128
	re     []float64
	rest   []uint64
	digits []int64
	acc    []uint64
}

// NewFFTProcessor creates a new FFTProcessor for polynomials of N coefficients.
// N must be a power of two greater or equal to 2.
func NewFFTProcessor(N int) (p *FFTProcessor) {

	if N < 2 || !utils.IsPowerOfTwo(N) {
		panic(fmt.Errorf("cannot NewFFTProcessor: N=%d must be a power of two greater or equal to 2", N))
	}

	M := N >> 1

	p = &FFTProcessor{
		n:     N,
		twist: make([]complex128, M),
		roots: make([]complex128, M>>1),
	}

	for j := range p.twist {
		p.twist[j] = bignum.UnitRoot(j, N, twiddlePrecision)
	}

	for t := range p.roots {
		p.roots[t] = bignum.UnitRoot(2*t, M, twiddlePrecision)
	}

	p.pool = structs.NewSyncPool(func() *fftBuffers {
		return &fftBuffers{
			a:      make([]complex128, M),
			b:      make([]complex128, M),
			re:     make([]float64, N),
			rest:   make([]uint64, N),
			digits: make([]int64, N),
			acc:    make([]uint64, N),
		}
	})

	return
}

// N returns the number of coefficients of the polynomials handled by the processor.
func (p *FFTProcessor) N() int {
	return p.n
}

// NewLagrangeHalfCPoly allocates a new LagrangeHalfCPoly matching the processor.
func (p *FFTProcessor) NewLagrangeHalfCPoly() *LagrangeHalfCPoly {
	return NewLagrangeHalfCPoly(p.n)
}

// IntPolyToFFT sets res to the FFT representation of a.
func (p *FFTProcessor) IntPolyToFFT(res *LagrangeHalfCPoly, a *IntPoly) {
	checkN(p.n, a.N())
	p.checkLagrange(res)
	fold(p.twist, res.Coeffs, a.Coeffs)
	p.forward(res.Coeffs)
}

// TorusPolyToFFT sets res to the FFT representation of a.
func (p *FFTProcessor) TorusPolyToFFT(res *LagrangeHalfCPoly, a *TorusPoly[torus.Torus32]) {
	checkN(p.n, a.N())
	p.checkLagrange(res)
	fold(p.twist, res.Coeffs, a.Coeffs)
	p.forward(res.Coeffs)
}

// FFTToTorusPoly sets res to the torus polynomial whose FFT representation is a,
// rounding each coefficient to the nearest integer modulo 2^32. a is not modified.
func (p *FFTProcessor) FFTToTorusPoly(res *TorusPoly[torus.Torus32], a *LagrangeHalfCPoly) {
	p.fromFFT(res, a, false)
}

// FFTToTorusPolyAdd sets res = res + the torus polynomial whose FFT representation is a.
// a is not modified.
func (p *FFTProcessor) FFTToTorusPolyAdd(res *TorusPoly[torus.Torus32], a *LagrangeHalfCPoly) {
	p.fromFFT(res, a, true)
}

func (p *FFTProcessor) fromFFT(res *TorusPoly[torus.Torus32], a *LagrangeHalfCPoly, add bool) {

	checkN(p.n, res.N())
	p.checkLagrange(a)

	buf := p.pool.Get()
	defer p.pool.Put(buf)

	copy(buf.a, a.Coeffs)
	p.backward(buf.a, buf.re)

	for i, x := range buf.re {
		c := torus.Torus32(roundToUint64(x))
		if add {
			res.Coeffs[i] += c
		} else {
			res.Coeffs[i] = c
		}
	}
}

// MulFFT sets res = a * b mod X^N+1 with the negacyclic FFT.
//
// The torus operand is split into signed limbs of 16 bits whose products with a
// are exactly recovered by rounding, then recombined modulo 2^w. The result is
// exact for N * max|a_i| <= 2^30 (for example |a_i| <= 2^16 with N <= 2^14);
// MulFFT panics on larger integer operands.
func MulFFT[T torus.Torus](p *FFTProcessor, res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) {

	N := checkMulDims(res, a, b)
	checkN(p.n, N)

	if bound := int64(N) * a.InfNorm(); bound > 1<<maxFFTLogBound {
		panic(fmt.Errorf("cannot MulFFT: N*max|a_i|=%d exceeds 2^%d", bound, maxFFTLogBound))
	}

	buf := p.pool.Get()
	defer p.pool.Put(buf)

	fold(p.twist, buf.a, a.Coeffs)
	p.forward(buf.a)

	w := torus.Bits[T]()

	for i, c := range b.Coeffs {
		buf.rest[i] = uint64(c) & (math.MaxUint64 >> (64 - w))
	}

	clear(buf.acc)

	for shift := 0; shift < w; shift += limbBits {

		for i, r := range buf.rest {
			d := int64(r & (1<<limbBits - 1))
			if d >= 1<<(limbBits-1) {
				d -= 1 << limbBits
			}
			buf.digits[i] = d
			buf.rest[i] = (r - uint64(d)) >> limbBits
		}

		fold(p.twist, buf.b, buf.digits)
		p.forward(buf.b)

		for j := range buf.b {
			buf.b[j] *= buf.a[j]
		}

		p.backward(buf.b, buf.re)

		for i, x := range buf.re {
			buf.acc[i] += roundToUint64(x) << shift
		}
	}

	for i := range res.Coeffs {
		res.Coeffs[i] = T(buf.acc[i])
	}
}

// fold sets res_j = (a_j + i*a_{j+N/2}) * twist_j.
func fold[C ~int32 | ~int64](twist, res []complex128, a []C) {
	M := len(twist)
	for j := range twist {
		res[j] = complex(float64(a[j]), float64(a[j+M])) * twist[j]
	}
}

// forward applies in place the cyclic FFT of size N/2 with kernel exp(2i*Pi*jk/(N/2)).
func (p *FFTProcessor) forward(v []complex128) {
	p.transform(v, false)
}

// backward applies in place the inverse cyclic FFT to v and unfolds the result on re.
func (p *FFTProcessor) backward(v []complex128, re []float64) {

	p.transform(v, true)

	M := len(v)
	scale := 1 / float64(M)

	for j, t := range p.twist {
		x := v[j] * complex(real(t)*scale, -imag(t)*scale)
		re[j] = real(x)
		re[j+M] = imag(x)
	}
}

// transform is an iterative radix-2 decimation-in-time FFT.
func (p *FFTProcessor) transform(v []complex128, inverse bool) {

	M := len(v)

	utils.BitReverseInPlaceSlice(v, M)

	for size := 2; size <= M; size <<= 1 {

		half := size >> 1
		step := M / size

		for i := 0; i < M; i += size {
			for j := 0; j < half; j++ {

				w := p.roots[j*step]
				if inverse {
					w = complex(real(w), -imag(w))
				}

				u, t := v[i+j], v[i+j+half]*w
				v[i+j], v[i+j+half] = u+t, u-t
			}
		}
	}
}

func (p *FFTProcessor) checkLagrange(a *LagrangeHalfCPoly) {
	if 2*len(a.Coeffs) != p.n {
		panic(fmt.Errorf("lagrange polynomial size mismatch: %d points for N=%d", len(a.Coeffs), p.n))
	}
}

// roundToUint64 returns round(x) mod 2^64.
func roundToUint64(x float64) uint64 {
	r := math.Round(x)
	if math.Abs(r) >= 1<<62 {
		r -= math.Round(r/(1<<64)) * (1 << 64)
		if r >= 1<<63 {
			r -= 1 << 64
		}
	}
	return uint64(int64(r))
}

// ShallowCopy returns a new FFTProcessor sharing the precomputed twiddle factors
// of p but with its own scratch buffers.
func (p *FFTProcessor) ShallowCopy() *FFTProcessor {
	M := p.n >> 1
	N := p.n
	return &FFTProcessor{
		n:     p.n,
		twist: p.twist,
		roots: p.roots,
		pool: structs.NewSyncPool(func() *fftBuffers {
			return &fftBuffers{
				a:      make([]complex128, M),
				b:      make([]complex128, M),
				re:     make([]float64, N),
				rest:   make([]uint64, N),
				digits: make([]int64, N),
				acc:    make([]uint64, N),
			}
		}),
	}
}
