package stdc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRRCFilterTaps(t *testing.T) {
	for _, rolloff := range []float64{0.35, 0.5, 1.0} {
		var f = NewRRCFilter(rolloff, SamplesPerSymbol, RRCSpan)
		var taps = f.Taps()

		require.Len(t, taps, RRCSpan*SamplesPerSymbol+1)
		assert.InDelta(t, float64(RRCSpan*SamplesPerSymbol)/2, f.Delay(), 1e-12)

		var sum float64
		var centre = len(taps) / 2
		for k, h := range taps {
			sum += h
			assert.InDelta(t, h, taps[len(taps)-1-k], 1e-12, "tap %d", k)
			assert.LessOrEqual(t, h, taps[centre])
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}

// Two matched filters in a row should give close to zero intersymbol
// interference at multiples of the symbol period.
func TestRRCFilterNyquist(t *testing.T) {
	var taps = NewRRCFilter(0.5, SamplesPerSymbol, RRCSpan).Taps()
	var n = len(taps)

	var conv = make([]float64, 2*n-1)
	for i := range taps {
		for j := range taps {
			conv[i+j] += taps[i] * taps[j]
		}
	}

	var centre = n - 1
	for m := 1; m < RRCSpan; m++ {
		assert.Less(t, conv[centre+m*SamplesPerSymbol]/conv[centre], 0.002, "symbol %d", m)
		assert.Greater(t, conv[centre+m*SamplesPerSymbol]/conv[centre], -0.002, "symbol %d", m)
	}
}

func TestFIRFilterImpulseResponse(t *testing.T) {
	var taps = []float64{0.1, -0.2, 0.3, 0.4, 0.25}
	var f = NewFIRFilter(taps)

	var out []complex128
	out = append(out, f.Filter(1i))
	for i := 0; i < len(taps)+2; i++ {
		out = append(out, f.Filter(0))
	}

	for k, h := range taps {
		assert.InDelta(t, h, imag(out[k]), 1e-15)
		assert.Zero(t, real(out[k]))
	}
	assert.Zero(t, out[len(taps)])

	f.Reset()
	assert.Equal(t, complex(0.1, 0), f.Filter(1))
}

func TestWindowShapes(t *testing.T) {
	const size = 65

	assert.Equal(t, 1.0, window(WindowTruncated, size, 0))
	assert.InDelta(t, 1.0, window(WindowCosine, size, 32), 1e-12)
	assert.InDelta(t, 1.0, window(WindowHamming, size, 32), 1e-12)
	assert.InDelta(t, 0.07672, window(WindowHamming, size, 0), 1e-12)
	assert.InDelta(t, 1.0, window(WindowBlackman, size, 32), 1e-3)
	assert.InDelta(t, 4.636, window(WindowFlattop, size, 32), 1e-9)

	for _, w := range []WindowType{WindowCosine, WindowHamming, WindowBlackman, WindowFlattop} {
		for j := 0; j < size; j++ {
			assert.InDelta(t, window(w, size, j), window(w, size, size-1-j), 1e-12, "%s %d", w, j)
		}
	}
}

func TestParseWindowType(t *testing.T) {
	for w, name := range windowNames {
		var got, err = ParseWindowType(name)
		require.NoError(t, err)
		assert.Equal(t, w, got)
		assert.Equal(t, name, w.String())
	}

	var got, err = ParseWindowType(" Rectangular ")
	require.NoError(t, err)
	assert.Equal(t, WindowTruncated, got)

	_, err = ParseWindowType("kaiser")
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	assert.Equal(t, "WindowType(42)", WindowType(42).String())
}
