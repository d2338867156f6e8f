package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Fractional rate change from whatever the channelizer
 *		delivers to the internal processing rate.
 *
 * Description:	Polyphase windowed-sinc interpolator.  The prototype
 *		low pass is tabulated at resamplerPhases points per input
 *		sample and evaluated at the exact fractional position of
 *		each output sample, with linear interpolation between
 *		table entries.
 *
 *		The same code decimates and interpolates.  The cutoff
 *		must be below half of the lower of the two rates.
 *
 *---------------------------------------------------------------*/

import (
	"math"
)

const (
	resamplerPhases     = 32
	resamplerMinTaps    = 16
	resamplerMaxTaps    = 512
	resamplerWindowType = WindowHamming
)

type Resampler struct {
	inRate   float64
	outRate  float64
	distance float64 // input samples per output sample
	bypass   bool

	taps  int       // input samples spanned by the filter
	table []float64 // taps*resamplerPhases + 1 entries

	delay []complex128 // newest at head
	head  int

	next float64 // time of the next output relative to the newest input
}

/*------------------------------------------------------------------
 *
 * Name:	NewResampler
 *
 * Inputs:	inRate	- Rate samples arrive at.
 *		outRate	- Rate wanted.
 *		cutoff	- Low pass cutoff in Hz.  Clamped to just under half
 *			  of the lower rate.
 *
 * Returns:	Resampler.  When the rates are equal samples pass
 *		straight through.
 *
 *------------------------------------------------------------------*/

func NewResampler(inRate float64, outRate float64, cutoff float64) *Resampler {
	var r = &Resampler{
		inRate:   inRate,
		outRate:  outRate,
		distance: inRate / outRate,
		bypass:   inRate == outRate,
	}

	if r.bypass {
		return r
	}

	var nyquist = 0.5 * math.Min(inRate, outRate)
	if cutoff <= 0 || cutoff > 0.9*nyquist {
		cutoff = 0.9 * nyquist
	}

	// Transition width roughly inRate/taps, aim for a few times narrower than the cutoff.
	var taps = int(math.Ceil(4 * inRate / cutoff))
	if taps < resamplerMinTaps {
		taps = resamplerMinTaps
	}
	if taps > resamplerMaxTaps {
		taps = resamplerMaxTaps
	}
	r.taps = taps

	var size = taps*resamplerPhases + 1
	r.table = make([]float64, size)
	genLowpass(cutoff/(inRate*resamplerPhases), r.table, resamplerWindowType)

	// genLowpass gives unity sum over the whole table.  Each output uses
	// one tap per input sample, i.e. one entry in every resamplerPhases.
	for j := range r.table {
		r.table[j] *= resamplerPhases
	}

	r.delay = make([]complex128, taps)

	return r
}

// Process consumes one input sample and calls emit for every output
// sample that falls due.  That can be zero, one or several.
func (r *Resampler) Process(x complex128, emit func(complex128)) {
	if r.bypass {
		emit(x)
		return
	}

	r.head--
	if r.head < 0 {
		r.head = r.taps - 1
	}
	r.delay[r.head] = x

	for r.next <= 0 {
		emit(r.interpolate(-r.next))
		r.next += r.distance
	}

	r.next -= 1
}

// interpolate evaluates the filter output frac input samples before the newest.
func (r *Resampler) interpolate(frac float64) complex128 {
	var re, im float64
	var j = r.head

	// Entry 0 is one input sample ahead of the newest so that k-frac+1 stays
	// inside the table.
	for k := 0; k < r.taps; k++ {
		var pos = (float64(k) + 1 - frac) * resamplerPhases
		var i0 = int(pos)
		var w = pos - float64(i0)

		var h = r.table[i0]
		if i0+1 < len(r.table) {
			h += w * (r.table[i0+1] - r.table[i0])
		}

		re += h * real(r.delay[j])
		im += h * imag(r.delay[j])

		j++
		if j == r.taps {
			j = 0
		}
	}

	return complex(re, im)
}

// Bypass reports whether the rates are equal.
func (r *Resampler) Bypass() bool {
	return r.bypass
}

// Delay is the group delay in input samples.
func (r *Resampler) Delay() float64 {
	if r.bypass {
		return 0
	}

	return 0.5*float64(r.taps) - 1
}

func (r *Resampler) Reset() {
	clear(r.delay)
	r.head = 0
	r.next = 0
}
