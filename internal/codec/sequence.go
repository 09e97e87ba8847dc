package codec

// normalSequence draws count-1 values from the generator, folds optional
// message bytes into the pre-final positions, and forces the final value so
// that the XOR-reduction of the whole sequence equals targetXor. Values may
// repeat.
//
// Message folding packs up to two bytes big-endian per position and XORs
// them into the drawn value before accumulating, so the constraint holds on
// the folded sequence. The original draws are only recoverable by re-running
// the same PRNG without a message.
func normalSequence(prng *PRNG, count int, targetXor uint16, message []byte) []uint16 {
	values := make([]uint16, 0, count)
	var acc uint16
	for i := 0; i < count-1; i++ {
		v := prng.Next16() ^ messageFold(message, i)
		acc ^= v
		values = append(values, v)
	}
	return append(values, targetXor^acc)
}

// messageFold returns the big-endian 16-bit fold for position i, packing
// message bytes 2i and 2i+1. Positions past the message are zero, which
// leaves the drawn value untouched.
func messageFold(message []byte, i int) uint16 {
	var fold uint16
	if 2*i < len(message) {
		fold |= uint16(message[2*i]) << 8
	}
	if 2*i+1 < len(message) {
		fold |= uint16(message[2*i+1])
	}
	return fold
}

// uniqueSequence produces count pairwise-distinct values whose XOR-reduction
// equals targetXor.
//
// The first count-2 values come from rejection sampling against the used
// set. The last two slots are searched jointly: a candidate is drawn for the
// second-to-last slot and the final value is forced by the XOR constraint;
// the pair is accepted only when the forced value is unused and differs from
// the candidate. Drawing the last slots independently cannot work because
// the forced value may collide with an earlier draw.
//
// Every failed draw counts against maxAttempts per slot. Exhaustion means the
// 16-bit space is too crowded for the requested count and surfaces as a
// UniqueSequenceExhausted error rather than a silent constraint violation.
func uniqueSequence(prng *PRNG, count int, targetXor uint16, maxAttempts int) ([]uint16, error) {
	if count == 1 {
		return []uint16{targetXor}, nil
	}

	used := make(map[uint16]struct{}, count)
	values := make([]uint16, 0, count)
	var acc uint16

	for i := 0; i < count-2; i++ {
		attempts := 0
		for {
			v := prng.Next16()
			if _, taken := used[v]; !taken {
				used[v] = struct{}{}
				values = append(values, v)
				acc ^= v
				break
			}
			attempts++
			if attempts >= maxAttempts {
				return nil, newUniqueSequenceExhaustedError(maxAttempts)
			}
		}
	}

	attempts := 0
	for {
		candidate := prng.Next16()
		if _, taken := used[candidate]; !taken {
			forced := targetXor ^ acc ^ candidate
			if _, taken := used[forced]; !taken && forced != candidate {
				return append(values, candidate, forced), nil
			}
		}
		attempts++
		if attempts >= maxAttempts {
			return nil, newUniqueSequenceExhaustedError(maxAttempts)
		}
	}
}
