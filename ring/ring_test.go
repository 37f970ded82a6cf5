package ring

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfhego/tfhe/torus"
	"github.com/tfhego/tfhe/utils/sampling"
)

var testN = []int{2, 4, 16, 256, 2048}

func testString(opname string, N int) string {
	return fmt.Sprintf("%s/N=%d", opname, N)
}

func newTestSource(t *testing.T, N int) *sampling.Source {
	src, err := sampling.NewSeededSource([]byte("ring"), []byte{byte(N), byte(N >> 8)})
	require.NoError(t, err)
	return src
}

// uniformIntPoly samples coefficients in [-bound, bound).
func uniformIntPoly(src *sampling.Source, N int, bound int64) *IntPoly {
	p := NewIntPoly(N)
	for i := range p.Coeffs {
		p.Coeffs[i] = int32(int64(src.Uint64()%uint64(2*bound)) - bound)
	}
	return p
}

func requireCloseTorus[T torus.Torus](t *testing.T, want, have *TorusPoly[T], delta T) {
	require.Equal(t, want.N(), have.N())
	for i := range want.Coeffs {
		d := have.Coeffs[i] - want.Coeffs[i]
		require.True(t, d >= -delta && d <= delta, "coefficient %d: |%d - %d| > %d", i, have.Coeffs[i], want.Coeffs[i], delta)
	}
}

func TestRing(t *testing.T) {
	for _, N := range testN {
		testMultiplication[torus.Torus32](t, N)
		testMultiplication[torus.Torus64](t, N)
		testMulByXai(t, N)
		testFFT(t, N)
	}
	testMultiplicationEquivalence[torus.Torus32](t, 2048, 1000)
	testMultiplicationEquivalence[torus.Torus64](t, 2048, 200)
	testMulFFTBound(t)
	testMultiplierConcurrent(t)
}

// testMultiplicationEquivalence compares the three strategies on many random pairs.
func testMultiplicationEquivalence[T torus.Torus](t *testing.T, N, trials int) {

	t.Run(testString(fmt.Sprintf("Multiplication/Equivalence/W%d", torus.Bits[T]()), N), func(t *testing.T) {

		if testing.Short() {
			trials = 10
		}

		src := newTestSource(t, N)
		fft := NewFFTProcessor(N)

		a := NewIntPoly(N)
		b := NewTorusPoly[T](N)
		naive := NewTorusPoly[T](N)
		kara := NewTorusPoly[T](N)
		viaFFT := NewTorusPoly[T](N)

		for trial := 0; trial < trials; trial++ {

			a.Copy(uniformIntPoly(src, N, 2*int64(N)))
			b.Uniform(src)

			MulKaratsuba(kara, a, b)
			MulFFT(fft, viaFFT, a, b)
			requireCloseTorus(t, kara, viaFFT, 1)

			// Naive is quadratic, checked on a subset of the pairs
			if trial%50 == 0 {
				MulNaive(naive, a, b)
				require.True(t, naive.Equal(kara))
			}
		}
	})
}

func testMulFFTBound(t *testing.T) {

	t.Run("MulFFT/Bound", func(t *testing.T) {

		N := 256
		src := newTestSource(t, N)

		b := NewTorusPoly[torus.Torus32](N)
		b.Uniform(src)
		res := NewTorusPoly[torus.Torus32](N)

		// N * 2^22 = 2^30 is the largest accepted bound
		a := NewIntPoly(N)
		a.Coeffs[3] = 1 << 22
		require.NotPanics(t, func() { MulFFT(NewFFTProcessor(N), res, a, b) })

		want := NewTorusPoly[torus.Torus32](N)
		MulNaive(want, a, b)
		requireCloseTorus(t, want, res, 1)

		a.Coeffs[3] = 1 << 24
		require.Panics(t, func() { MulFFT(NewFFTProcessor(N), res, a, b) })
		require.Panics(t, func() { Mul(NewMultiplier(N, FFT), res, a, b) })

		MulNaive(want, a, b)
		for _, s := range []Strategy{Naive, Karatsuba} {
			require.NotPanics(t, func() { Mul(NewMultiplier(N, s), res, a, b) })
			require.True(t, want.Equal(res))
		}
	})
}

func testMultiplierConcurrent(t *testing.T) {

	t.Run("Multiplier/Concurrent", func(t *testing.T) {

		N := 256
		src := newTestSource(t, N)

		a := uniformIntPoly(src, N, 512)
		b32 := NewTorusPoly[torus.Torus32](N)
		b32.Uniform(src)
		b64 := NewTorusPoly[torus.Torus64](N)
		b64.Uniform(src)

		want32 := NewTorusPoly[torus.Torus32](N)
		MulNaive(want32, a, b32)
		want64 := NewTorusPoly[torus.Torus64](N)
		MulNaive(want64, a, b64)

		m := NewMultiplier(N, Karatsuba)

		res32 := make([]*TorusPoly[torus.Torus32], 8)
		res64 := make([]*TorusPoly[torus.Torus64], 8)

		var wg sync.WaitGroup
		for i := range res32 {
			res32[i] = NewTorusPoly[torus.Torus32](N)
			res64[i] = NewTorusPoly[torus.Torus64](N)
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 4; j++ {
					AddMul(m, res32[i], a, b32)
					AddMul(m, res64[i], a, b64)
					SubMul(m, res32[i], a, b32)
					SubMul(m, res64[i], a, b64)
				}
				AddMul(m, res32[i], a, b32)
				AddMul(m, res64[i], a, b64)
			}(i)
		}
		wg.Wait()

		for i := range res32 {
			require.True(t, want32.Equal(res32[i]))
			require.True(t, want64.Equal(res64[i]))
		}
	})
}

func testMultiplication[T torus.Torus](t *testing.T, N int) {

	t.Run(testString(fmt.Sprintf("Multiplication/W%d", torus.Bits[T]()), N), func(t *testing.T) {

		src := newTestSource(t, N)
		fft := NewFFTProcessor(N)

		for trial := 0; trial < 10; trial++ {

			a := uniformIntPoly(src, N, 2*int64(N))
			b := NewTorusPoly[T](N)
			b.Uniform(src)

			naive := NewTorusPoly[T](N)
			kara := NewTorusPoly[T](N)
			viaFFT := NewTorusPoly[T](N)

			MulNaive(naive, a, b)
			MulKaratsuba(kara, a, b)
			MulFFT(fft, viaFFT, a, b)

			require.True(t, naive.Equal(kara))
			requireCloseTorus(t, naive, viaFFT, 1)
		}
	})

	t.Run(testString(fmt.Sprintf("Multiplier/W%d", torus.Bits[T]()), N), func(t *testing.T) {

		src := newTestSource(t, N)

		a := uniformIntPoly(src, N, 512)
		b := NewTorusPoly[T](N)
		b.Uniform(src)
		init := NewTorusPoly[T](N)
		init.Uniform(src)

		want := NewTorusPoly[T](N)
		MulNaive(want, a, b)
		AddTo(want, init)

		for _, s := range []Strategy{Naive, Karatsuba, FFT} {
			m := NewMultiplier(N, s)
			require.Equal(t, s, m.Strategy())

			have := init.CopyNew()
			AddMul(m, have, a, b)
			requireCloseTorus(t, want, have, 1)

			SubMul(m, have, a, b)
			requireCloseTorus(t, init, have, 2)
		}
	})

	t.Run(testString(fmt.Sprintf("Multiplication/Aliasing/W%d", torus.Bits[T]()), N), func(t *testing.T) {

		src := newTestSource(t, N)
		a := uniformIntPoly(src, N, 16)
		b := NewTorusPoly[T](N)
		b.Uniform(src)

		want := NewTorusPoly[T](N)
		MulNaive(want, a, b)

		for _, s := range []Strategy{Naive, Karatsuba, FFT} {
			have := b.CopyNew()
			Mul(NewMultiplier(N, s), have, a, have)
			requireCloseTorus(t, want, have, 1)
		}
	})
}

func testMulByXai(t *testing.T, N int) {

	t.Run(testString("MulByXai", N), func(t *testing.T) {

		src := newTestSource(t, N)

		a := NewTorusPoly[torus.Torus32](N)
		a.Uniform(src)

		res := NewTorusPoly[torus.Torus32](N)
		want := NewTorusPoly[torus.Torus32](N)

		for _, ai := range []int{0, 1, N - 1, N, N + 1, 2*N - 1} {

			// X^ai as a polynomial modulo X^N+1
			monomial := NewIntPoly(N)
			if ai < N {
				monomial.Coeffs[ai] = 1
			} else {
				monomial.Coeffs[ai-N] = -1
			}

			MulNaive(want, monomial, a)
			MulByXai(res, ai, a)
			require.True(t, want.Equal(res))

			SubTo(want, a)
			MulByXaiMinusOne(res, ai, a)
			require.True(t, want.Equal(res))

			resInt := NewIntPoly(N)
			resInt.MulByXai(ai, monomial)
			require.Equal(t, int64(1), resInt.InfNorm())
		}

		require.Panics(t, func() { MulByXai(a, 1, a) })
		require.Panics(t, func() { MulByXai(res, 2*N, a) })
	})
}

func testFFT(t *testing.T, N int) {

	t.Run(testString("FFT/RoundTrip", N), func(t *testing.T) {

		src := newTestSource(t, N)
		fft := NewFFTProcessor(N)

		a := NewTorusPoly[torus.Torus32](N)
		a.Uniform(src)

		fa := fft.NewLagrangeHalfCPoly()
		fft.TorusPolyToFFT(fa, a)

		have := NewTorusPoly[torus.Torus32](N)
		fft.FFTToTorusPoly(have, fa)
		require.True(t, a.Equal(have))

		fft.FFTToTorusPolyAdd(have, fa)
		Add(a, a, a)
		require.True(t, a.Equal(have))
	})

	t.Run(testString("FFT/Lagrange", N), func(t *testing.T) {

		src := newTestSource(t, N)
		fft := NewFFTProcessor(N)

		key := NewIntPoly(N)
		key.UniformBinary(src)
		dec := uniformIntPoly(src, N, 4)

		a := NewTorusPoly[torus.Torus32](N)
		a.Uniform(src)
		b := NewTorusPoly[torus.Torus32](N)
		b.Uniform(src)

		// want = key*a + dec*b - key*b
		want := NewTorusPoly[torus.Torus32](N)
		tmp := NewTorusPoly[torus.Torus32](N)
		MulNaive(want, key, a)
		MulNaive(tmp, dec, b)
		AddTo(want, tmp)
		MulNaive(tmp, key, b)
		SubTo(want, tmp)

		fkey, fdec := fft.NewLagrangeHalfCPoly(), fft.NewLagrangeHalfCPoly()
		fa, fb := fft.NewLagrangeHalfCPoly(), fft.NewLagrangeHalfCPoly()
		fft.IntPolyToFFT(fkey, key)
		fft.IntPolyToFFT(fdec, dec)
		fft.TorusPolyToFFT(fa, a)
		fft.TorusPolyToFFT(fb, b)

		require.InDelta(t, dec.Norm2(), fdec.Norm2(), 1e-6*(1+dec.Norm2()))

		acc := fft.NewLagrangeHalfCPoly()
		acc.MulTo(fkey, fa)
		acc.AddMulTo(fdec, fb)
		acc.SubMulTo(fkey, fb)

		have := NewTorusPoly[torus.Torus32](N)
		fft.FFTToTorusPoly(have, acc)
		requireCloseTorus(t, want, have, 1)

		sum := fa.CopyNew()
		sum.AddTo(fb)
		sum.SubTo(fb)
		fft.FFTToTorusPoly(have, sum)
		requireCloseTorus(t, a, have, 1)
	})

	t.Run(testString("FFT/WriteAndRead", N), func(t *testing.T) {

		src := newTestSource(t, N)
		fft := NewFFTProcessor(N)

		a := NewIntPoly(N)
		a.UniformBinary(src)
		fa := fft.NewLagrangeHalfCPoly()
		fft.IntPolyToFFT(fa, a)

		var stream bytes.Buffer
		n, err := fa.WriteTo(&stream)
		require.NoError(t, err)
		require.Equal(t, int64(fa.BinarySize()), n)

		fb := fft.NewLagrangeHalfCPoly()
		_, err = fb.ReadFrom(&stream)
		require.NoError(t, err)
		require.True(t, fa.Equal(fb))
	})
}
