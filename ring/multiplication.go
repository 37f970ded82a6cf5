package ring

import (
	"fmt"

	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/structs"
)

// karatsubaThreshold is the size at or below which the Karatsuba recursion
// falls back to the schoolbook product.
const karatsubaThreshold = 4

// Strategy identifies a polynomial multiplication algorithm.
type Strategy int

const (
	// Naive is the quadratic schoolbook product.
	Naive = Strategy(iota)
	// Karatsuba is the recursive Karatsuba product.
	Karatsuba
	// FFT is the negacyclic FFT product.
	FFT
)

func (s Strategy) String() string {
	switch s {
	case Naive:
		return "Naive"
	case Karatsuba:
		return "Karatsuba"
	case FFT:
		return "FFT"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Multiplier computes products of an IntPoly by a TorusPoly modulo X^N+1 with
// a fixed Strategy. All strategies are interchangeable on their common domain:
// their results agree within one unit of the torus discretization on every
// coefficient. The FFT strategy requires N * max|a_i| <= 2^30, see [MulFFT].
//
// A Multiplier is safe for concurrent use.
type Multiplier struct {
	strategy Strategy
	fft      *FFTProcessor
	pool     *structs.SyncPool[*mulBuffers]
}

// mulBuffers holds the scratch products of AddMul and SubMul.
type mulBuffers struct {
	p32 TorusPoly[torus.Torus32]
	p64 TorusPoly[torus.Torus64]
}

// scratch returns the scratch polynomial of buf over the torus T.
func scratch[T torus.Torus](buf *mulBuffers) *TorusPoly[T] {
	if torus.Bits[T]() == 32 {
		return any(&buf.p32).(*TorusPoly[T])
	}
	return any(&buf.p64).(*TorusPoly[T])
}

// NewMultiplier creates a new Multiplier for polynomials of N coefficients.
func NewMultiplier(N int, strategy Strategy) *Multiplier {
	m := &Multiplier{
		strategy: strategy,
		pool: structs.NewSyncPool(func() *mulBuffers {
			return &mulBuffers{
				p32: *NewTorusPoly[torus.Torus32](N),
				p64: *NewTorusPoly[torus.Torus64](N),
			}
		}),
	}
	switch strategy {
	case Naive, Karatsuba:
	case FFT:
		m.fft = NewFFTProcessor(N)
	default:
		panic(fmt.Errorf("cannot NewMultiplier: invalid strategy %s", strategy))
	}
	return m
}

// Strategy returns the multiplication algorithm of the Multiplier.
func (m *Multiplier) Strategy() Strategy {
	return m.strategy
}

// FFTProcessor returns the FFTProcessor of the Multiplier, or nil if its
// strategy is not FFT.
func (m *Multiplier) FFTProcessor() *FFTProcessor {
	return m.fft
}

// Mul sets res = a * b mod X^N+1 using the strategy of m.
func Mul[T torus.Torus](m *Multiplier, res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) {
	switch m.strategy {
	case Naive:
		MulNaive(res, a, b)
	case Karatsuba:
		MulKaratsuba(res, a, b)
	default:
		MulFFT(m.fft, res, a, b)
	}
}

// AddMul sets res = res + a * b mod X^N+1 using the strategy of m.
func AddMul[T torus.Torus](m *Multiplier, res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) {
	buf := m.pool.Get()
	defer m.pool.Put(buf)
	tmp := scratch[T](buf)
	Mul(m, tmp, a, b)
	AddTo(res, tmp)
}

// SubMul sets res = res - a * b mod X^N+1 using the strategy of m.
func SubMul[T torus.Torus](m *Multiplier, res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) {
	buf := m.pool.Get()
	defer m.pool.Put(buf)
	tmp := scratch[T](buf)
	Mul(m, tmp, a, b)
	SubTo(res, tmp)
}

// MulNaive sets res = a * b mod X^N+1 with the schoolbook algorithm.
func MulNaive[T torus.Torus](res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) {

	N := checkMulDims(res, a, b)

	out := make([]T, N)

	for i := 0; i < N; i++ {
		var ri T
		for j := 0; j <= i; j++ {
			ri += T(a.Coeffs[j]) * b.Coeffs[i-j]
		}
		for j := i + 1; j < N; j++ {
			ri -= T(a.Coeffs[j]) * b.Coeffs[N+i-j]
		}
		out[i] = ri
	}

	copy(res.Coeffs, out)
}

// MulKaratsuba sets res = a * b mod X^N+1 with the Karatsuba algorithm.
// N must be a power of two.
func MulKaratsuba[T torus.Torus](res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) {

	N := checkMulDims(res, a, b)

	if N&(N-1) != 0 {
		panic(fmt.Errorf("cannot MulKaratsuba: N=%d is not a power of two", N))
	}

	aT := make([]T, N)
	for i, c := range a.Coeffs {
		aT[i] = T(c)
	}

	r := make([]T, 2*N-1)

	karatsuba(r, aT, b.Coeffs, N, make([]T, 4*N))

	// Reduction modulo X^N+1
	for i := 0; i < N-1; i++ {
		res.Coeffs[i] = r[i] - r[N+i]
	}
	res.Coeffs[N-1] = r[N-1]
}

// karatsuba sets r (2*size-1 coefficients) to the full product of a and b
// (size coefficients each), using buf as scratch space.
func karatsuba[T torus.Torus](r, a, b []T, size int, buf []T) {

	if size <= karatsubaThreshold {
		clear(r[:2*size-1])
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				r[i+j] += a[i] * b[j]
			}
		}
		return
	}

	h := size >> 1

	at, bt, rt := buf[:h], buf[h:2*h], buf[2*h:2*h+size]
	buf = buf[2*h+size:]

	for i := 0; i < h; i++ {
		at[i] = a[i] + a[h+i]
		bt[i] = b[i] + b[h+i]
	}

	karatsuba(r[:size-1], a[:h], b[:h], h, buf)
	karatsuba(r[size:], a[h:], b[h:], h, buf)
	karatsuba(rt, at, bt, h, buf)

	r[size-1] = 0

	for i := 0; i < size-1; i++ {
		rt[i] -= r[i] + r[size+i]
	}

	for i := 0; i < size-1; i++ {
		r[h+i] += rt[i]
	}
}

func checkMulDims[T torus.Torus](res *TorusPoly[T], a *IntPoly, b *TorusPoly[T]) int {
	N := res.N()
	checkN(N, a.N())
	checkN(N, b.N())
	return N
}
