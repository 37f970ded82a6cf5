package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUtils(t *testing.T) {

	t.Run("IsPowerOfTwo", func(t *testing.T) {
		for _, x := range []int{1, 2, 4, 1024, 1 << 40} {
			require.True(t, IsPowerOfTwo(x))
		}
		for _, x := range []int{0, -2, 3, 6, 1000} {
			require.False(t, IsPowerOfTwo(x))
		}
	})

	t.Run("Abs", func(t *testing.T) {
		require.Equal(t, int64(3), Abs(int64(-3)))
		require.Equal(t, 0.5, Abs(-0.5))
	})

	t.Run("BitReverse", func(t *testing.T) {
		s := []int{0, 1, 2, 3, 4, 5, 6, 7}
		BitReverseInPlaceSlice(s, len(s))
		require.Equal(t, []int{0, 4, 2, 6, 1, 5, 3, 7}, s)
	})

	t.Run("Alias1D", func(t *testing.T) {
		x := make([]int, 4)
		require.True(t, Alias1D(x, x[1:]))
		require.False(t, Alias1D(x, make([]int, 4)))
	})
}
