package stdc

import (
	"math"
	"math/cmplx"
)

// NCO is a complex oscillator used to shift the channel and to cancel the
// coarse frequency estimate.  Phase is kept in (-pi, pi].
type NCO struct {
	phase     float64
	increment float64
}

// SetFreq sets the oscillator frequency.  Phase is kept so the output
// stays continuous across a retune.
func (n *NCO) SetFreq(hz float64, sampleRate float64) {
	n.increment = 2 * math.Pi * hz / sampleRate
}

func (n *NCO) Freq(sampleRate float64) float64 {
	return n.increment * sampleRate / (2 * math.Pi)
}

// Next returns exp(j*phase) and advances the phase by one sample.
func (n *NCO) Next() complex128 {
	var v = cmplx.Rect(1, n.phase)

	n.phase += n.increment
	if n.phase > math.Pi {
		n.phase -= 2 * math.Pi
	} else if n.phase < -math.Pi {
		n.phase += 2 * math.Pi
	}

	return v
}

func (n *NCO) Reset() {
	n.phase = 0
}
