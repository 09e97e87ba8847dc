package codec

// LCG parameters shared with the reference implementation. The recurrence
// is state = (a*state + c) mod 2^31, the classic glibc rand() constants.
const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModMask    = 0x7FFFFFFF
)

// PRNG is a seeded linear-congruential generator. Encode and decode must
// observe the exact same draw sequence for a given seed, so every value is
// consumed through this type and each call constructs its own instance.
// A PRNG is not safe for concurrent use; callers hold one per invocation.
type PRNG struct {
	state uint32
}

// NewPRNG constructs a generator from a 32-bit seed.
func NewPRNG(seed uint32) *PRNG {
	return &PRNG{state: seed}
}

// Next advances the generator and returns the new 31-bit state.
func (p *PRNG) Next() uint32 {
	// uint32 arithmetic wraps mod 2^32; masking to 31 bits afterwards is
	// equivalent to reducing the full product mod 2^31.
	p.state = (lcgMultiplier*p.state + lcgIncrement) & lcgModMask
	return p.state
}

// Next16 returns bits 16..31 of the next state. The high bits of an LCG
// have a longer period than the low bits, so the 16-bit draws come from
// the top of the word.
func (p *PRNG) Next16() uint16 {
	return uint16((p.Next() >> 16) & 0xFFFF)
}

// Shuffle permutes n elements in place using a Fisher-Yates walk that
// consumes one Next per swap. The permutation is deterministic for a
// fixed seed and length. The signature mirrors rand.Shuffle so any slice
// type can be shuffled through its swap func.
func (p *PRNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(p.Next() % uint32(i+1))
		swap(i, j)
	}
}
