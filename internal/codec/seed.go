package codec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// DeriveSeed turns a public seed identifier and the server-held pepper into
// the internal PRNG seed. The derivation is HMAC-SHA256 keyed by the pepper
// over the decimal representation of seedID, truncated to the first 4 bytes
// big-endian.
//
// The seed identifier is recoverable from any batch by XOR alone, so the
// pepper is the only thing standing between an observer and the ability to
// regenerate the internal sequences. The pepper must be non-empty and is
// validated where configuration is loaded, not here.
func DeriveSeed(seedID uint32, pepper string) uint32 {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(strconv.FormatUint(uint64(seedID), 10)))
	digest := mac.Sum(nil)
	return binary.BigEndian.Uint32(digest[:4])
}
