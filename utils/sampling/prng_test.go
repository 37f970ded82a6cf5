package sampling_test

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
	"github.com/tfhego/tfhe/utils/sampling"
)

func TestPRNG(t *testing.T) {

	t.Run("KeyedPRNG/Reset", func(t *testing.T) {

		key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
			0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

		Ha, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)
		Hb, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)
		require.Equal(t, key, Ha.Key())

		sum0 := make([]byte, 512)
		sum1 := make([]byte, 512)

		for i := 0; i < 128; i++ {
			_, err = Hb.Read(sum1)
			require.NoError(t, err)
		}

		Hb.Reset()

		_, err = Ha.Read(sum0)
		require.NoError(t, err)
		_, err = Hb.Read(sum1)
		require.NoError(t, err)

		require.Equal(t, sum0, sum1)
	})

	t.Run("SeededPRNG", func(t *testing.T) {
		Ha, err := sampling.NewSeededPRNG([]byte("seed"))
		require.NoError(t, err)
		Hb, err := sampling.NewSeededPRNG([]byte("se"), []byte("ed"))
		require.NoError(t, err)
		Hc, err := sampling.NewSeededPRNG([]byte("other seed"))
		require.NoError(t, err)

		a, b, c := make([]byte, 64), make([]byte, 64), make([]byte, 64)
		_, _ = Ha.Read(a)
		_, _ = Hb.Read(b)
		_, _ = Hc.Read(c)

		require.Equal(t, a, b)
		require.NotEqual(t, a, c)
	})
}

func TestSource(t *testing.T) {

	t.Run("Deterministic", func(t *testing.T) {
		s0, err := sampling.NewSeededSource([]byte{1, 2, 3})
		require.NoError(t, err)
		s1, err := sampling.NewSeededSource([]byte{1, 2, 3})
		require.NoError(t, err)

		for i := 0; i < 1000; i++ {
			require.Equal(t, s0.Uint64(), s1.Uint64())
			require.Equal(t, s0.NormFloat64(), s1.NormFloat64())
		}
	})

	t.Run("Seed", func(t *testing.T) {
		s0, err := sampling.NewSeededSource([]byte("a"))
		require.NoError(t, err)
		s1, err := sampling.NewSeededSource([]byte("b"))
		require.NoError(t, err)

		s0.Seed(42)
		s1.Seed(42)
		require.Equal(t, s0.Uint64(), s1.Uint64())
	})

	t.Run("Reseed", func(t *testing.T) {
		previous := sampling.Default()
		defer sampling.SetDefault(previous)

		require.NoError(t, sampling.Reseed([]byte("default")))
		x := sampling.Default().Uint64()

		require.NoError(t, sampling.Reseed([]byte("default")))
		require.Equal(t, x, sampling.Default().Uint64())
	})

	t.Run("Distributions", func(t *testing.T) {
		s, err := sampling.NewSeededSource([]byte("distributions"))
		require.NoError(t, err)

		const samples = 1 << 14

		norm := make([]float64, samples)
		unif := make([]float64, samples)
		var ones int32
		for i := range norm {
			norm[i] = s.NormFloat64()
			unif[i] = s.Float64()
			ones += s.Bit()
			require.True(t, unif[i] >= 0 && unif[i] < 1)
		}

		mean, err := stats.Mean(norm)
		require.NoError(t, err)
		std, err := stats.StandardDeviation(norm)
		require.NoError(t, err)

		require.InDelta(t, 0, mean, 0.05)
		require.InDelta(t, 1, std, 0.05)

		mean, err = stats.Mean(unif)
		require.NoError(t, err)
		require.InDelta(t, 0.5, mean, 0.02)

		require.InDelta(t, 0.5, float64(ones)/samples, 0.03)
		require.False(t, math.IsNaN(mean))
	})
}
