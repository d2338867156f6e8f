package stdc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func bitSymbol(bit byte) complex128 {
	if bit != 0 {
		return 1
	}

	return -1
}

func TestCheckUWRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var rng = rand.New(rand.NewPCG(rapid.Uint64().Draw(t, "seed"), 0))
		var inverted = rapid.Bool().Draw(t, "inverted")
		var lead = rapid.IntRange(0, 500).Draw(t, "lead")

		// Some noise, then two frames.
		var bits = RandomBitsFrom(lead, rng)
		bits = append(bits, MakeFrameBits(2, rng)...)
		if inverted {
			for i := range bits {
				bits[i] ^= 1
			}
		}

		var buf = NewSymbolBuffer(FrameSymbols)
		var matches []int

		for i, b := range bits {
			buf.Push(b, bitSymbol(b))

			if buf.CheckUW() {
				matches = append(matches, i)
				assert.Equal(t, inverted, buf.Inverted())
			}
		}

		assert.Equal(t, []int{lead + FrameSymbols - 1, lead + 2*FrameSymbols - 1}, matches)
	})
}

func TestCheckUWNeedsBothColumns(t *testing.T) {
	var rng = rand.New(rand.NewPCG(42, 0))
	var bits = MakeFrameBits(1, rng)

	// Break the second column of one row only.
	bits[17*UniqueWordStride+1] ^= 1

	var buf = NewSymbolBuffer(FrameSymbols)
	for _, b := range bits {
		buf.Push(b, bitSymbol(b))
	}

	assert.False(t, buf.CheckUW())
	assert.Equal(t, UniqueWord, buf.column(0))
}

func TestSymbolBufferOffsets(t *testing.T) {
	var buf = NewSymbolBuffer(10)

	for i := 0; i < 25; i++ {
		buf.Push(byte(i&1), complex(float64(i), 0))
	}

	// Holds 15..24, oldest first.
	for k := 0; k < 10; k++ {
		assert.Equal(t, complex(float64(15+k), 0), buf.GetSymbol(k))
		assert.Equal(t, byte((15+k)&1), buf.GetBit(k))
	}
	assert.Equal(t, complex(24, 0), buf.GetSymbol(-1))
	assert.Equal(t, complex(15, 0), buf.GetSymbol(10))
}

func TestSymbolBufferEVM(t *testing.T) {
	var buf = NewSymbolBuffer(100)
	assert.Zero(t, buf.EVM())

	for i := 0; i < 50; i++ {
		buf.Push(1, complex(1.1, 0))
	}
	assert.InDelta(t, 0.1, buf.EVM(), 1e-9)

	// Old errors fall out of the window.
	for i := 0; i < 100; i++ {
		buf.Push(0, complex(-1, 0.2))
	}
	assert.InDelta(t, 0.2, buf.EVM(), 1e-9)

	buf.Reset()
	assert.Zero(t, buf.EVM())
	require.False(t, buf.CheckUW())
}
