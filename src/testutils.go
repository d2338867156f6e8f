package stdc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// RandomBits returns n bits, 0 or 1 per byte, from a seeded generator.
func RandomBits(n int, seed uint64) []byte {
	return RandomBitsFrom(n, rand.New(rand.NewPCG(seed, seed^0x5bd1e995)))
}

func RandomBitsFrom(n int, rng *rand.Rand) []byte {
	var bits = make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.IntN(2))
	}

	return bits
}

/*------------------------------------------------------------------
 *
 * Name:	AlignBits
 *
 * Purpose:	Find where a demodulated bit stream sits in what was sent.
 *
 * Inputs:	sent		- Transmitted bits.
 *		received	- Demodulated bits, received[j] expected to
 *				  be sent[j - offset], possibly inverted.
 *		maxOffset	- Search offsets in [-maxOffset, maxOffset].
 *		window		- Compare over this many of the last
 *				  received bits.  Loops have settled by then.
 *
 * Returns:	Best offset, polarity and the mismatches in the window.
 *
 *------------------------------------------------------------------*/

func AlignBits(sent []byte, received []byte, maxOffset int, window int) (offset int, inverted bool, mismatches int) {
	mismatches = -1

	var from = max(len(received)-window, 0)

	for off := -maxOffset; off <= maxOffset; off++ {
		for _, inv := range []bool{false, true} {
			var errs = CountBitErrors(sent, received, off, inv, from)
			if errs < 0 {
				continue
			}
			if mismatches < 0 || errs < mismatches {
				offset, inverted, mismatches = off, inv, errs
			}
		}
	}

	return offset, inverted, mismatches
}

// CountBitErrors compares received[from:] against sent at the given
// alignment.  Returns -1 if nothing overlaps.
func CountBitErrors(sent []byte, received []byte, offset int, inverted bool, from int) int {
	var errs = 0
	var compared = 0

	var flip byte
	if inverted {
		flip = 1
	}

	for j := from; j < len(received); j++ {
		var k = j - offset
		if k < 0 || k >= len(sent) {
			continue
		}

		compared++
		if received[j]^flip != sent[k] {
			errs++
		}
	}

	if compared == 0 {
		return -1
	}

	return errs
}

// RequireBitsMatch fails unless received reproduces sent without error
// from bit index from onwards.
func RequireBitsMatch(t *testing.T, sent []byte, received []byte, maxOffset int, from int) (offset int, inverted bool) {
	t.Helper()

	var mismatches int
	offset, inverted, mismatches = AlignBits(sent, received, maxOffset, 4000)
	require.Zero(t, mismatches, "best alignment offset %d inverted %v", offset, inverted)

	var errs = CountBitErrors(sent, received, offset, inverted, from)
	require.Zero(t, errs, "bit errors after %d, offset %d inverted %v", from, offset, inverted)

	return offset, inverted
}
