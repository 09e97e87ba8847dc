package codec

import "fmt"

// ErrorType represents the category of codec failure.
type ErrorType int

const (
	ErrTypeInvalidIdentifierFormat ErrorType = iota
	ErrTypeEmptyIdentifierList
	ErrTypeInvalidTaskCount
	ErrTypeMessageTooLarge
	ErrTypeUniqueSequenceExhausted
	ErrTypeDecodeFailed
	ErrTypeMessageIncomplete
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeInvalidIdentifierFormat:
		return "invalid identifier format"
	case ErrTypeEmptyIdentifierList:
		return "empty identifier list"
	case ErrTypeInvalidTaskCount:
		return "invalid task count"
	case ErrTypeMessageTooLarge:
		return "message too large"
	case ErrTypeUniqueSequenceExhausted:
		return "unique sequence exhausted"
	case ErrTypeDecodeFailed:
		return "decode failed"
	case ErrTypeMessageIncomplete:
		return "message incomplete"
	default:
		return "unknown error"
	}
}

// Error represents a codec failure with its category.
// All codec errors are fatal to the call that produced them; the codec
// never retries internally and never returns partial results.
type Error struct {
	Type    ErrorType
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

// Is implements error equality checking for errors.Is.
// Two codec errors match when their types match, so callers can test
// against a bare &Error{Type: ...} sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newInvalidIdentifierFormatError(id string) *Error {
	return &Error{
		Type:    ErrTypeInvalidIdentifierFormat,
		Message: fmt.Sprintf("identifier %q is not exactly 8 hex characters", id),
	}
}

func newEmptyIdentifierListError() *Error {
	return &Error{
		Type:    ErrTypeEmptyIdentifierList,
		Message: "at least one identifier is required",
	}
}

func newInvalidTaskCountError(count int) *Error {
	return &Error{
		Type:    ErrTypeInvalidTaskCount,
		Message: fmt.Sprintf("task count %d outside 1..%d", count, MaxTasks),
	}
}

func newMessageTooLargeError(msgLen, capacity int) *Error {
	return &Error{
		Type:    ErrTypeMessageTooLarge,
		Message: fmt.Sprintf("message length %d exceeds capacity %d", msgLen, capacity),
	}
}

func newUniqueSequenceExhaustedError(attempts int) *Error {
	return &Error{
		Type:    ErrTypeUniqueSequenceExhausted,
		Message: fmt.Sprintf("rejection sampling exceeded %d attempts", attempts),
	}
}

func newDecodeFailedError(message string) *Error {
	return &Error{
		Type:    ErrTypeDecodeFailed,
		Message: message,
	}
}

func newMessageIncompleteError(got, want int) *Error {
	return &Error{
		Type:    ErrTypeMessageIncomplete,
		Message: fmt.Sprintf("recovered %d of %d requested message bytes", got, want),
	}
}
