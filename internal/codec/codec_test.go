package codec_test

import (
	"testing"

	"github.com/bkyoung/rearc/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSeedID uint32 = 0x12345678
	testPepper        = "correct horse battery staple"
)

// testInternalSeed is DeriveSeed(testSeedID, testPepper).
const testInternalSeed uint32 = 0x645bd9ad

// referenceBatch is the expected output for (testSeedID, testInternalSeed,
// 10 tasks, no message), pinned against an independent implementation of
// the scheme.
var referenceBatch = []string{
	"61db003c", "46a917f4", "5d885949", "0a350189", "13740193",
	"20533e1b", "5a534bdc", "0c770ceb", "3c5a5fb7", "3ba23e78",
}

// referenceBatchWithMessage embeds "hello world!" into the same batch.
var referenceBatchWithMessage = []string{
	"61db6859", "46a97b98", "5d883669", "0a3576e6", "137473ff",
	"20535a3a", "5a534bdc", "0c770ceb", "3c5a5fb7", "3ba23473",
}

func TestGenerateTaskIDs(t *testing.T) {
	t.Run("matches the reference batch", func(t *testing.T) {
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 10, nil)

		require.NoError(t, err)
		assert.Equal(t, referenceBatch, ids)
	})

	t.Run("is deterministic across calls", func(t *testing.T) {
		first, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 32, nil)
		require.NoError(t, err)
		second, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 32, nil)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("identifiers and position markers are pairwise distinct", func(t *testing.T) {
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 100, nil)
		require.NoError(t, err)

		seenIDs := make(map[string]bool, len(ids))
		seenUppers := make(map[uint16]bool, len(ids))
		for _, s := range ids {
			require.False(t, seenIDs[s], "duplicate identifier %s", s)
			seenIDs[s] = true

			id, err := codec.ParseTaskID(s)
			require.NoError(t, err)
			require.False(t, seenUppers[id.Upper()], "duplicate position marker %04x", id.Upper())
			seenUppers[id.Upper()] = true
		}
	})

	t.Run("single task batch carries the seed directly", func(t *testing.T) {
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 1, nil)

		require.NoError(t, err)
		require.Len(t, ids, 1)
		assert.Equal(t, "12345678", ids[0])

		seed, err := codec.RecoverSeed(ids)
		require.NoError(t, err)
		assert.Equal(t, testSeedID, seed)
	})

	t.Run("embeds a message without breaking seed recovery", func(t *testing.T) {
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 10, []byte("hello world!"))

		require.NoError(t, err)
		assert.Equal(t, referenceBatchWithMessage, ids)

		seed, err := codec.RecoverSeed(ids)
		require.NoError(t, err)
		assert.Equal(t, testSeedID, seed)
	})

	t.Run("rejects task counts outside 1..65536", func(t *testing.T) {
		for _, count := range []int{0, -1, 65537} {
			_, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, count, nil)
			assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeInvalidTaskCount}, "count %d", count)
		}
	})

	t.Run("enforces the message capacity boundary", func(t *testing.T) {
		_, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 10, make([]byte, 18))
		assert.NoError(t, err)

		_, err = codec.GenerateTaskIDs(testSeedID, testInternalSeed, 10, make([]byte, 19))
		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeMessageTooLarge})
	})

	t.Run("fails loudly when the unique constraint is unsatisfiable", func(t *testing.T) {
		// Two distinct 16-bit values can never XOR to zero, so a batch of
		// two with a zero upper seed half must exhaust the search.
		_, err := codec.GenerateTaskIDs(0x0000ABCD, testInternalSeed, 2, nil)

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeUniqueSequenceExhausted})
	})
}

func TestRecoverSeed(t *testing.T) {
	t.Run("recovers the seed regardless of order", func(t *testing.T) {
		permuted := []string{
			referenceBatch[7], referenceBatch[2], referenceBatch[9], referenceBatch[0],
			referenceBatch[5], referenceBatch[4], referenceBatch[1], referenceBatch[8],
			referenceBatch[3], referenceBatch[6],
		}

		seed, err := codec.RecoverSeed(permuted)

		require.NoError(t, err)
		assert.Equal(t, testSeedID, seed)
	})

	t.Run("rejects an empty list", func(t *testing.T) {
		_, err := codec.RecoverSeed(nil)

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeEmptyIdentifierList})
	})

	t.Run("rejects malformed identifiers", func(t *testing.T) {
		_, err := codec.RecoverSeed([]string{referenceBatch[0], "not-hex!"})

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeInvalidIdentifierFormat})
	})
}

func TestDecodeTaskIDs(t *testing.T) {
	t.Run("recovers the generation order from a reversed batch", func(t *testing.T) {
		reversed := make([]string, len(referenceBatch))
		for i, id := range referenceBatch {
			reversed[len(referenceBatch)-1-i] = id
		}

		result, err := codec.DecodeTaskIDs(reversed, testPepper, 0)

		require.NoError(t, err)
		assert.Equal(t, testSeedID, result.SeedID)
		assert.Equal(t, testInternalSeed, result.InternalSeed)
		assert.Equal(t, referenceBatch, result.OrderedIdentifiers)
		assert.Nil(t, result.Message)
	})

	t.Run("recovers the generation order from a shuffled batch", func(t *testing.T) {
		shuffled := make([]string, len(referenceBatch))
		copy(shuffled, referenceBatch)
		prng := codec.NewPRNG(99)
		prng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		result, err := codec.DecodeTaskIDs(shuffled, testPepper, 0)

		require.NoError(t, err)
		assert.Equal(t, referenceBatch, result.OrderedIdentifiers)
	})

	t.Run("round-trips a hidden message", func(t *testing.T) {
		message := []byte("hello world!")

		result, err := codec.DecodeTaskIDs(referenceBatchWithMessage, testPepper, len(message))

		require.NoError(t, err)
		assert.Equal(t, testSeedID, result.SeedID)
		assert.Equal(t, referenceBatchWithMessage, result.OrderedIdentifiers)
		assert.Equal(t, message, result.Message)
	})

	t.Run("round-trips an odd-length message", func(t *testing.T) {
		message := []byte("odd")
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 5, message)
		require.NoError(t, err)
		assert.Equal(t, []string{"01936f58", "3e1b73f4", "4bdc5949", "0ceb0189", "6a8b1214"}, ids)

		result, err := codec.DecodeTaskIDs(ids, testPepper, len(message))

		require.NoError(t, err)
		assert.Equal(t, message, result.Message)
	})

	t.Run("round-trips a capacity-filling message", func(t *testing.T) {
		message := make([]byte, 18)
		for i := range message {
			message[i] = byte(i)
		}
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 10, message)
		require.NoError(t, err)

		result, err := codec.DecodeTaskIDs(ids, testPepper, len(message))

		require.NoError(t, err)
		assert.Equal(t, message, result.Message)
	})

	t.Run("fails when more message bytes are requested than a batch can hold", func(t *testing.T) {
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 5, nil)
		require.NoError(t, err)

		_, err = codec.DecodeTaskIDs(ids, testPepper, 9)

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeMessageIncomplete})
	})

	t.Run("rejects a batch containing a duplicate", func(t *testing.T) {
		ids, err := codec.GenerateTaskIDs(testSeedID, testInternalSeed, 5, nil)
		require.NoError(t, err)
		withDuplicate := append(ids, ids[0])

		_, err = codec.DecodeTaskIDs(withDuplicate, testPepper, 0)

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeDecodeFailed})
	})

	t.Run("rejects an empty list", func(t *testing.T) {
		_, err := codec.DecodeTaskIDs(nil, testPepper, 0)

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeEmptyIdentifierList})
	})

	t.Run("rejects malformed identifiers", func(t *testing.T) {
		_, err := codec.DecodeTaskIDs([]string{"12345678", "nonsense"}, testPepper, 0)

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeInvalidIdentifierFormat})
	})
}

func TestPepperSecrecy(t *testing.T) {
	t.Run("different peppers derive different seeds and batches", func(t *testing.T) {
		otherSeed := codec.DeriveSeed(testSeedID, "a different pepper")
		require.NotEqual(t, testInternalSeed, otherSeed)

		otherBatch, err := codec.GenerateTaskIDs(testSeedID, otherSeed, 10, nil)
		require.NoError(t, err)

		assert.NotEqual(t, referenceBatch, otherBatch)

		// The seed stays recoverable either way; only the sequences differ.
		seed, err := codec.RecoverSeed(otherBatch)
		require.NoError(t, err)
		assert.Equal(t, testSeedID, seed)
	})
}

func TestMessageCapacity(t *testing.T) {
	assert.Equal(t, 0, codec.MessageCapacity(0))
	assert.Equal(t, 0, codec.MessageCapacity(1))
	assert.Equal(t, 2, codec.MessageCapacity(2))
	assert.Equal(t, 18, codec.MessageCapacity(10))
	assert.Equal(t, 131070, codec.MessageCapacity(65536))
}
