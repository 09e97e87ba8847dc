package codec_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bkyoung/rearc/internal/codec"
	"github.com/stretchr/testify/assert"
)

func TestErrorType_String(t *testing.T) {
	cases := map[codec.ErrorType]string{
		codec.ErrTypeInvalidIdentifierFormat: "invalid identifier format",
		codec.ErrTypeEmptyIdentifierList:     "empty identifier list",
		codec.ErrTypeInvalidTaskCount:        "invalid task count",
		codec.ErrTypeMessageTooLarge:         "message too large",
		codec.ErrTypeUniqueSequenceExhausted: "unique sequence exhausted",
		codec.ErrTypeDecodeFailed:            "decode failed",
		codec.ErrTypeMessageIncomplete:       "message incomplete",
	}

	for errType, want := range cases {
		assert.Equal(t, want, errType.String())
	}

	assert.Equal(t, "unknown error", codec.ErrorType(99).String())
}

func TestError_Is(t *testing.T) {
	t.Run("matches on type", func(t *testing.T) {
		err := &codec.Error{Type: codec.ErrTypeDecodeFailed, Message: "missing marker"}

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeDecodeFailed})
		assert.NotErrorIs(t, err, &codec.Error{Type: codec.ErrTypeMessageIncomplete})
	})

	t.Run("does not match unrelated errors", func(t *testing.T) {
		err := &codec.Error{Type: codec.ErrTypeDecodeFailed}

		assert.NotErrorIs(t, err, errors.New("decode failed"))
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("verify submission: %w", &codec.Error{Type: codec.ErrTypeDecodeFailed, Message: "dup"})

		assert.ErrorIs(t, err, &codec.Error{Type: codec.ErrTypeDecodeFailed})
	})
}

func TestError_Error(t *testing.T) {
	err := &codec.Error{Type: codec.ErrTypeMessageTooLarge, Message: "message length 19 exceeds capacity 18"}

	assert.Equal(t, "message too large: message length 19 exceeds capacity 18", err.Error())
}
