// Package codec implements the RE-ARC task-identifier scheme: batches of
// 8-hex-digit identifiers whose XOR-reduction recovers the public seed,
// whose generation order is recoverable from the identifiers alone, and
// which can steganographically carry a byte message readable only by a
// holder of the server pepper.
//
// The package is purely computational. It performs no I/O, keeps no state
// across calls and emits no logs; concurrent calls are safe because every
// invocation builds its own PRNG and collections.
package codec

const (
	// MaxTasks is the full 16-bit space; the unique upper sequence cannot
	// hold more pairwise-distinct position markers than that.
	MaxTasks = 65536

	// DefaultMaxAttempts bounds the rejection sampling in the unique
	// sequence generator. Empirical, inherited from the reference scheme;
	// generation never approaches it for task counts within MaxTasks.
	DefaultMaxAttempts = 10000
)

// Codec generates and decodes task-identifier batches. The zero value is
// not usable; construct with NewCodec.
type Codec struct {
	maxAttempts int
}

// NewCodec constructs a codec. maxAttempts bounds the unique-sequence
// rejection sampling; values < 1 fall back to DefaultMaxAttempts.
func NewCodec(maxAttempts int) *Codec {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Codec{maxAttempts: maxAttempts}
}

// DecodeResult is everything recoverable from a batch of identifiers.
type DecodeResult struct {
	// SeedID is the public seed, recovered by XOR-reducing the batch.
	SeedID uint32

	// InternalSeed is the pepper-derived PRNG seed used to regenerate
	// the sequences.
	InternalSeed uint32

	// OrderedIdentifiers lists the presented identifiers in their original
	// generation order, formatted as lowercase hex.
	OrderedIdentifiers []string

	// Message holds the recovered hidden bytes, nil when no message
	// length was requested.
	Message []byte
}

// GenerateTaskIDs produces numTasks identifiers in generation order.
//
// The lower sequence is built first with target seedID&0xFFFF, folding the
// optional message into positions 0..numTasks-2; the upper sequence follows
// with target seedID>>16 and pairwise-distinct values. Both consume the
// same PRNG run, which is what lets DecodeTaskIDs regenerate them.
//
// Callers may reorder the returned identifiers before transmission; decoding
// does not depend on presentation order.
func (c *Codec) GenerateTaskIDs(seedID, internalSeed uint32, numTasks int, message []byte) ([]string, error) {
	if numTasks < 1 || numTasks > MaxTasks {
		return nil, newInvalidTaskCountError(numTasks)
	}
	if capacity := MessageCapacity(numTasks); len(message) > capacity {
		return nil, newMessageTooLargeError(len(message), capacity)
	}

	prng := NewPRNG(internalSeed)
	lower := normalSequence(prng, numTasks, uint16(seedID&0xFFFF), message)
	upper, err := uniqueSequence(prng, numTasks, uint16(seedID>>16), c.maxAttempts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, numTasks)
	for i := range ids {
		ids[i] = AssembleTaskID(upper[i], lower[i]).String()
	}
	return ids, nil
}

// DecodeTaskIDs recovers the seed, the original generation order and an
// optional hidden message from a batch of identifiers presented in any
// order. messageLength is the expected hidden-message size in bytes; zero
// means no message extraction.
//
// Identifiers must be well-formed and pairwise distinct; a duplicate makes
// the position matching ambiguous and fails the whole call.
func (c *Codec) DecodeTaskIDs(identifiers []string, pepper string, messageLength int) (DecodeResult, error) {
	parsed, err := parseDistinct(identifiers)
	if err != nil {
		return DecodeResult{}, err
	}

	var seedID uint32
	for _, id := range parsed {
		seedID ^= uint32(id)
	}
	internalSeed := DeriveSeed(seedID, pepper)

	// Regenerate the exact sequences encoding produced, minus the message
	// fold: same PRNG, same draw order, lower before upper.
	prng := NewPRNG(internalSeed)
	count := len(parsed)
	lower := normalSequence(prng, count, uint16(seedID&0xFFFF), nil)
	upper, err := uniqueSequence(prng, count, uint16(seedID>>16), c.maxAttempts)
	if err != nil {
		return DecodeResult{}, err
	}

	byUpper := make(map[uint16]TaskID, count)
	for _, id := range parsed {
		byUpper[id.Upper()] = id
	}

	ordered := make([]TaskID, count)
	orderedHex := make([]string, count)
	for i, u := range upper {
		id, ok := byUpper[u]
		if !ok {
			return DecodeResult{}, newDecodeFailedError(
				"no identifier matches a regenerated position marker; batch is missing or corrupted")
		}
		ordered[i] = id
		orderedHex[i] = id.String()
	}

	result := DecodeResult{
		SeedID:             seedID,
		InternalSeed:       internalSeed,
		OrderedIdentifiers: orderedHex,
	}

	if messageLength > 0 {
		message, err := extractMessage(ordered, lower, messageLength)
		if err != nil {
			return DecodeResult{}, err
		}
		result.Message = message
	}
	return result, nil
}

// RecoverSeed returns the XOR-reduction of the identifiers, which is the
// public seed the batch was generated from. No pepper and no PRNG run are
// needed; the result is independent of identifier order.
func RecoverSeed(identifiers []string) (uint32, error) {
	if len(identifiers) == 0 {
		return 0, newEmptyIdentifierListError()
	}
	var seedID uint32
	for _, s := range identifiers {
		id, err := ParseTaskID(s)
		if err != nil {
			return 0, err
		}
		seedID ^= uint32(id)
	}
	return seedID, nil
}

// MessageCapacity returns the number of message bytes a batch of numTasks
// identifiers can carry: two per position except the final correction slot.
func MessageCapacity(numTasks int) int {
	if numTasks < 1 {
		return 0
	}
	return (numTasks - 1) * 2
}

func parseDistinct(identifiers []string) ([]TaskID, error) {
	if len(identifiers) == 0 {
		return nil, newEmptyIdentifierListError()
	}
	parsed := make([]TaskID, 0, len(identifiers))
	seen := make(map[TaskID]struct{}, len(identifiers))
	for _, s := range identifiers {
		id, err := ParseTaskID(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, newDecodeFailedError("duplicate identifier " + id.String())
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	return parsed, nil
}

// extractMessage XOR-diffs the ordered identifiers' lower halves against the
// regenerated unfolded lower sequence, two bytes per position big-endian.
func extractMessage(ordered []TaskID, lower []uint16, messageLength int) ([]byte, error) {
	recoverable := MessageCapacity(len(ordered))
	if messageLength > recoverable {
		return nil, newMessageIncompleteError(recoverable, messageLength)
	}
	positions := (messageLength + 1) / 2
	message := make([]byte, 0, positions*2)
	for i := 0; i < positions; i++ {
		diff := ordered[i].Lower() ^ lower[i]
		message = append(message, byte(diff>>8), byte(diff))
	}
	return message[:messageLength], nil
}

var defaultCodec = NewCodec(DefaultMaxAttempts)

// GenerateTaskIDs runs the default codec; see Codec.GenerateTaskIDs.
func GenerateTaskIDs(seedID, internalSeed uint32, numTasks int, message []byte) ([]string, error) {
	return defaultCodec.GenerateTaskIDs(seedID, internalSeed, numTasks, message)
}

// DecodeTaskIDs runs the default codec; see Codec.DecodeTaskIDs.
func DecodeTaskIDs(identifiers []string, pepper string, messageLength int) (DecodeResult, error) {
	return defaultCodec.DecodeTaskIDs(identifiers, pepper, messageLength)
}
