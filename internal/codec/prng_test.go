package codec_test

import (
	"testing"

	"github.com/bkyoung/rearc/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPRNG_Next(t *testing.T) {
	t.Run("matches reference sequence for seed 1", func(t *testing.T) {
		prng := codec.NewPRNG(1)

		expected := []uint32{1103527590, 377401575, 662824084, 1147902781, 2035015474}
		for i, want := range expected {
			assert.Equal(t, want, prng.Next(), "draw %d", i)
		}
	})

	t.Run("stays within 31 bits", func(t *testing.T) {
		prng := codec.NewPRNG(0xFFFFFFFF)

		for i := 0; i < 1000; i++ {
			assert.LessOrEqual(t, prng.Next(), uint32(0x7FFFFFFF))
		}
	})

	t.Run("is deterministic per seed", func(t *testing.T) {
		a := codec.NewPRNG(12345)
		b := codec.NewPRNG(12345)

		for i := 0; i < 100; i++ {
			require.Equal(t, a.Next(), b.Next())
		}
	})
}

func TestPRNG_Next16(t *testing.T) {
	t.Run("returns the high bits of each draw", func(t *testing.T) {
		prng := codec.NewPRNG(1)

		expected := []uint16{16838, 5758, 10113, 17515, 31051}
		for i, want := range expected {
			assert.Equal(t, want, prng.Next16(), "draw %d", i)
		}
	})
}

func TestPRNG_Shuffle(t *testing.T) {
	t.Run("produces the reference permutation for seed 42", func(t *testing.T) {
		prng := codec.NewPRNG(42)
		values := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

		prng.Shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})

		assert.Equal(t, []int{4, 3, 0, 5, 2, 6, 9, 1, 8, 7}, values)
	})

	t.Run("is a permutation", func(t *testing.T) {
		prng := codec.NewPRNG(777)
		values := make([]int, 64)
		for i := range values {
			values[i] = i
		}

		prng.Shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})

		seen := make(map[int]bool, len(values))
		for _, v := range values {
			require.False(t, seen[v], "value %d appears twice", v)
			seen[v] = true
		}
		assert.Len(t, seen, 64)
	})

	t.Run("handles empty and single-element inputs", func(t *testing.T) {
		prng := codec.NewPRNG(1)

		prng.Shuffle(0, func(i, j int) { t.Fatal("swap called for empty input") })
		prng.Shuffle(1, func(i, j int) { t.Fatal("swap called for single element") })
	})
}
