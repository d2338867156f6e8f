package stdc

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeFrameBitsCarriesUniqueWord(t *testing.T) {
	var bits = MakeFrameBits(2, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, bits, 2*FrameSymbols)

	var b = NewSymbolBuffer(FrameSymbols)
	for i, bit := range bits {
		b.Push(bit, complex(2*float64(bit)-1, 0))

		var atEnd = (i+1)%FrameSymbols == 0
		assert.Equal(t, atEnd, b.CheckUW(), "symbol %d", i)
	}

	assert.False(t, b.Inverted())
	assert.Zero(t, b.EVM())
}

// With no impairments the symbol centres of a single pulse train are
// the bits times the pulse peak.
func TestModulateBPSKSymbolCentres(t *testing.T) {
	var bits = []byte{1, 0, 0, 1, 1, 0, 1}

	var p = DefaultSignalParams()
	var x = ModulateBPSK(bits, p)
	require.Len(t, x, len(bits)*SamplesPerSymbol)

	var peak = rrc(0, p.Rolloff)
	for k := range bits {
		var want = peak * p.Amplitude
		if bits[k] == 0 {
			want = -want
		}
		// Neighbouring RRC pulses are not zero at the centre, only
		// the sign is guaranteed.
		assert.Equal(t, math.Signbit(want), math.Signbit(real(x[k*SamplesPerSymbol])), "symbol %d", k)
		assert.Zero(t, imag(x[k*SamplesPerSymbol]))
	}
}

func TestModulateBPSKCarrierOffset(t *testing.T) {
	var bits = RandomBits(200, 1)

	var p = DefaultSignalParams()
	var clean = ModulateBPSK(bits, p)

	p.CFOHz = 100
	var shifted = ModulateBPSK(bits, p)

	for i := range clean {
		var rot = cmplx.Rect(1, 2*math.Pi*100*float64(i)/ChannelSampleRate)
		assert.InDelta(t, 0, cmplx.Abs(shifted[i]-clean[i]*rot), 1e-9)
	}
}
