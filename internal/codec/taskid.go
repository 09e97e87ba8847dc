package codec

import "fmt"

// TaskID is a 32-bit task identifier. The upper 16 bits carry the position
// marker, the lower 16 bits carry the payload slot. The printed form is
// always 8 lowercase hex digits, which is safe for URLs, JSON keys and
// filenames.
type TaskID uint32

// AssembleTaskID packs an upper and lower half into one identifier.
func AssembleTaskID(upper, lower uint16) TaskID {
	return TaskID(uint32(upper)<<16 | uint32(lower))
}

// Upper returns the position-marker half.
func (id TaskID) Upper() uint16 {
	return uint16(uint32(id) >> 16)
}

// Lower returns the payload half.
func (id TaskID) Lower() uint16 {
	return uint16(uint32(id) & 0xFFFF)
}

// String formats the identifier as 8 zero-padded lowercase hex digits.
func (id TaskID) String() string {
	return fmt.Sprintf("%08x", uint32(id))
}

// ParseTaskID parses an 8-hex-digit identifier. Anything that is not
// exactly 8 hex characters is rejected with an InvalidIdentifierFormat
// error. Uppercase digits are accepted on the way in; output is always
// lowercase.
func ParseTaskID(s string) (TaskID, error) {
	if len(s) != 8 {
		return 0, newInvalidIdentifierFormatError(s)
	}
	var v uint32
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, newInvalidIdentifierFormatError(s)
		}
		v = v<<4 | uint32(d)
	}
	return TaskID(v), nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
