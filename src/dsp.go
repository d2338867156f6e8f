package stdc

/*------------------------------------------------------------------
 *
 * Purpose:     Generate the filters and windows used by the receive chain.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"strings"
)

type WindowType int

const (
	WindowTruncated WindowType = iota
	WindowCosine
	WindowHamming
	WindowBlackman
	WindowFlattop
)

var windowNames = map[WindowType]string{
	WindowTruncated: "truncated",
	WindowCosine:    "cosine",
	WindowHamming:   "hamming",
	WindowBlackman:  "blackman",
	WindowFlattop:   "flattop",
}

func (w WindowType) String() string {
	if name, ok := windowNames[w]; ok {
		return name
	}

	return fmt.Sprintf("WindowType(%d)", int(w))
}

// ParseWindowType accepts the names printed by String.  "rectangular" is
// an alias for truncated.
func ParseWindowType(s string) (WindowType, error) {
	var name = strings.ToLower(strings.TrimSpace(s))
	if name == "rectangular" || name == "" {
		return WindowTruncated, nil
	}

	for w, n := range windowNames {
		if n == name {
			return w, nil
		}
	}

	return WindowTruncated, fmt.Errorf("window %q: %w", s, ErrInvalidWindow)
}

/*------------------------------------------------------------------
 *
 * Name:        window
 *
 * Purpose:     Filter window shape functions.
 *
 * Inputs:   	windowType	- WindowHamming, etc.
 *		size		- Number of filter taps.
 *		j		- Index in range of 0 to size-1.
 *
 * Returns:     Multiplier for the window shape.
 *
 *----------------------------------------------------------------*/

func window(windowType WindowType, _size int, _j int) float64 {
	var size = float64(_size)
	var j = float64(_j)

	var center = 0.5 * (size - 1)
	var w float64

	switch windowType {
	case WindowCosine:
		w = math.Cos((j - center) / size * math.Pi)

	case WindowHamming:
		w = 0.53836 - 0.46164*math.Cos((j*2*math.Pi)/(size-1))

	case WindowBlackman:
		w = 0.42659 - 0.49656*math.Cos((j*2*math.Pi)/(size-1)) +
			0.076849*math.Cos((j*4*math.Pi)/(size-1))

	case WindowFlattop:
		w = 1.0 - 1.93*math.Cos((j*2*math.Pi)/(size-1)) +
			1.29*math.Cos((j*4*math.Pi)/(size-1)) -
			0.388*math.Cos((j*6*math.Pi)/(size-1)) +
			0.028*math.Cos((j*8*math.Pi)/(size-1))

	case WindowTruncated:
		fallthrough
	default:
		w = 1.0
	}

	return w
}

/*------------------------------------------------------------------
 *
 * Name:        rrc
 *
 * Purpose:     Root Raised Cosine impulse response.
 *
 * Inputs:      t		- Time in units of symbol duration.
 *		a		- Roll off factor, between 0 and 1.
 *
 * Returns:	h(t) for a unit symbol period.  Two of these back to back
 *		give a raised cosine, which is zero at every nonzero
 *		integer t.
 *
 *----------------------------------------------------------------*/

func rrc(t float64, a float64) float64 {
	if math.Abs(t) < 1e-9 {
		return 1 - a + 4*a/math.Pi
	}

	// Singular points at t = +- 1/(4a).
	if a > 0 && math.Abs(math.Abs(4*a*t)-1) < 1e-9 {
		return (a / math.Sqrt2) * ((1+2/math.Pi)*math.Sin(math.Pi/(4*a)) +
			(1-2/math.Pi)*math.Cos(math.Pi/(4*a)))
	}

	var num = math.Sin(math.Pi*t*(1-a)) + 4*a*t*math.Cos(math.Pi*t*(1+a))
	var den = math.Pi * t * (1 - (4*a*t)*(4*a*t))

	return num / den
}

// genRRCLowpass fills pfilter with RRC taps and scales for unity gain at DC.
func genRRCLowpass(pfilter []float64, rolloff float64, samplesPerSymbol float64) {
	var filterTaps = len(pfilter)

	for k := 0; k < filterTaps; k++ {
		var t = (float64(k) - (float64(filterTaps)-1.0)/2.0) / samplesPerSymbol
		pfilter[k] = rrc(t, rolloff)
	}

	var g float64
	for k := 0; k < filterTaps; k++ {
		g += pfilter[k]
	}
	for k := 0; k < filterTaps; k++ {
		pfilter[k] /= g
	}
}

/*------------------------------------------------------------------
 *
 * Name:        genLowpass
 *
 * Purpose:     Generate low pass filter kernel.
 *
 * Inputs:   	fc		- Cutoff frequency as fraction of sampling frequency.
 *		lpFilter	- Filter taps, len() is the filter size.
 *		wtype		- Window type, WindowHamming, etc.
 *
 *----------------------------------------------------------------*/

func genLowpass(fc float64, lpFilter []float64, wtype WindowType) {
	var filterSize = len(lpFilter)
	var center = 0.5 * float64(filterSize-1)

	for j := 0; j < filterSize; j++ {
		var sinc float64

		if float64(j)-center == 0 {
			sinc = 2 * fc
		} else {
			sinc = math.Sin(2*math.Pi*(fc*(float64(j)-center))) / (math.Pi * (float64(j) - center))
		}

		lpFilter[j] = sinc * window(wtype, filterSize, j)
	}

	/*
	 * Normalize lowpass for unity gain at DC.
	 */
	var G float64
	for j := 0; j < filterSize; j++ {
		G += lpFilter[j]
	}
	for j := 0; j < filterSize; j++ {
		lpFilter[j] /= G
	}
} /* end genLowpass */

// FIRFilter is a complex sample FIR with real taps.  The delay line is a
// ring so pushing a sample never allocates.
type FIRFilter struct {
	taps  []float64
	delay []complex128
	head  int
}

func NewFIRFilter(taps []float64) *FIRFilter {
	var t = make([]float64, len(taps))
	copy(t, taps)

	return &FIRFilter{
		taps:  t,
		delay: make([]complex128, len(t)),
	}
}

// NewRRCFilter creates the matched filter for the given roll-off.
func NewRRCFilter(rolloff float64, samplesPerSymbol int, spanSymbols int) *FIRFilter {
	var taps = make([]float64, spanSymbols*samplesPerSymbol+1)
	genRRCLowpass(taps, rolloff, float64(samplesPerSymbol))

	return NewFIRFilter(taps)
}

func (f *FIRFilter) Filter(x complex128) complex128 {
	var n = len(f.taps)
	f.delay[f.head] = x

	var re, im float64
	var j = f.head
	for k := 0; k < n; k++ {
		re += f.taps[k] * real(f.delay[j])
		im += f.taps[k] * imag(f.delay[j])
		j--
		if j < 0 {
			j = n - 1
		}
	}

	f.head++
	if f.head == n {
		f.head = 0
	}

	return complex(re, im)
}

// Delay is the group delay in samples.
func (f *FIRFilter) Delay() float64 {
	return 0.5 * float64(len(f.taps)-1)
}

func (f *FIRFilter) Taps() []float64 {
	var t = make([]float64, len(f.taps))
	copy(t, f.taps)

	return t
}

func (f *FIRFilter) Reset() {
	clear(f.delay)
	f.head = 0
}

/* end dsp.go */
