package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Generate a synthetic STD-C signal for testing.
 *
 * Description:	Frames of 64 rows by 162 symbols.  The first two
 *		symbols of each row carry one bit of the unique word,
 *		the rest are random.  No scrambling, interleaving or
 *		FEC, the demodulator does not care.
 *
 *		Pulses are evaluated from the RRC formula at the exact
 *		sample time so any timing offset, integer or not, is
 *		exact.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
)

// MakeFrameBits returns nframes frames of bits, 0 or 1 per byte.
func MakeFrameBits(nframes int, rng *rand.Rand) []byte {
	var bits = make([]byte, 0, nframes*FrameSymbols)

	for f := 0; f < nframes; f++ {
		for row := 0; row < UniqueWordRows; row++ {
			var u = byte((UniqueWord >> (UniqueWordRows - 1 - row)) & 1)
			bits = append(bits, u, u)

			for k := 2; k < UniqueWordStride; k++ {
				bits = append(bits, byte(rng.IntN(2)))
			}
		}
	}

	return bits
}

type SignalParams struct {
	SampleRate   float64
	Baud         float64
	Rolloff      float64
	DelaySamples float64 // positive is later
	CFOHz        float64
	Amplitude    float64
	NoiseStd     float64 // per component, added after scaling
	Seed         uint64
}

func DefaultSignalParams() SignalParams {
	return SignalParams{
		SampleRate: ChannelSampleRate,
		Baud:       Baud,
		Rolloff:    0.5,
		Amplitude:  0.5,
	}
}

/*------------------------------------------------------------------
 *
 * Name:	ModulateBPSK
 *
 * Purpose:	Bits to complex baseband.
 *
 * Inputs:	bits	- 1 maps to +1, 0 to -1.
 *		p	- Rates, pulse shape and impairments.
 *
 * Returns:	len(bits) * SampleRate / Baud samples.
 *
 *------------------------------------------------------------------*/

func ModulateBPSK(bits []byte, p SignalParams) []complex128 {
	var sps = p.SampleRate / p.Baud
	var n = int(float64(len(bits)) * sps)
	var out = make([]complex128, n)

	var reach = RRCSpan/2 + 5

	var noise *rand.Rand
	if p.NoiseStd > 0 {
		noise = rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
	}

	for i := 0; i < n; i++ {
		var t = (float64(i) - p.DelaySamples) / sps
		var k0 = int(math.Floor(t))

		var acc float64
		for k := k0 - reach; k <= k0+reach; k++ {
			if k < 0 || k >= len(bits) {
				continue
			}

			var a = -1.0
			if bits[k] != 0 {
				a = 1.0
			}
			acc += a * rrc(t-float64(k), p.Rolloff)
		}

		var x = complex(p.Amplitude*acc, 0) * cmplx.Rect(1, 2*math.Pi*p.CFOHz*float64(i)/p.SampleRate)

		if noise != nil {
			x += complex(p.NoiseStd*noise.NormFloat64(), p.NoiseStd*noise.NormFloat64())
		}

		out[i] = x
	}

	return out
} /* end ModulateBPSK */
