package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Adaptive linear equalizer applied to derotated symbols.
 *
 * Description:	Two algorithms share the same tapped delay line:
 *
 *		CMA	Blind.  Pushes |y| towards 1.  Needs no decisions
 *			so it can run from the first symbol.
 *
 *		LMS	Decision directed.  Error is the distance to the
 *			nearest of +-1, or to the known bit while training
 *			on the unique word.
 *
 *		In LMS mode the taps are adapted with the CMA rule until
 *		frame sync, then trained on the unique word symbols and
 *		switched over.
 *
 *		Output is sum of conj(tap[i]) * delay[i], delay[0] newest.
 *		Taps start as a centre spike so a fresh equalizer is the
 *		identity with a delay of half the line.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"math/cmplx"
	"strings"
)

const (
	defaultCMAMu    = 0.001
	defaultLMSMu    = 0.1
	cmaModulus      = 1.0
	equalizerCentre = EqualizerTaps / 2
)

type EqualizerMode int

const (
	EqualizerNone EqualizerMode = iota
	EqualizerCMA
	EqualizerLMS
)

func (m EqualizerMode) String() string {
	switch m {
	case EqualizerNone:
		return "none"
	case EqualizerCMA:
		return "cma"
	case EqualizerLMS:
		return "lms"
	default:
		return fmt.Sprintf("EqualizerMode(%d)", int(m))
	}
}

func ParseEqualizerMode(s string) (EqualizerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return EqualizerNone, nil
	case "cma":
		return EqualizerCMA, nil
	case "lms":
		return EqualizerLMS, nil
	default:
		return EqualizerNone, fmt.Errorf("equalizer %q: %w", s, ErrInvalidEqualizer)
	}
}

// Equalizer is implemented by the CMA and LMS variants.  "None" is a nil
// Equalizer.
type Equalizer interface {
	ProcessOneSample(x complex128, update bool, training bool) complex128
	Error() complex128
	Taps() []complex128
	Mode() EqualizerMode
	Reset()
}

// newEqualizer returns nil for EqualizerNone.
func newEqualizer(mode EqualizerMode, cmaMu float64, lmsMu float64) Equalizer {
	switch mode {
	case EqualizerCMA:
		return NewCMAEqualizer(cmaMu)
	case EqualizerLMS:
		return NewLMSEqualizer(cmaMu, lmsMu)
	default:
		return nil
	}
}

type tapLine struct {
	taps  [EqualizerTaps]complex128
	delay [EqualizerTaps]complex128
	err   complex128
}

func (t *tapLine) reset() {
	t.taps = [EqualizerTaps]complex128{}
	t.taps[equalizerCentre] = 1
	t.delay = [EqualizerTaps]complex128{}
	t.err = 0
}

func shiftIn(delay *[EqualizerTaps]complex128, x complex128) {
	copy(delay[1:], delay[:EqualizerTaps-1])
	delay[0] = x
}

func (t *tapLine) output(delay *[EqualizerTaps]complex128) complex128 {
	var y complex128
	for i := range t.taps {
		y += cmplx.Conj(t.taps[i]) * delay[i]
	}

	return y
}

// cma adapts towards constant modulus using the live delay line.
func (t *tapLine) cma(x complex128, update bool, mu float64) complex128 {
	shiftIn(&t.delay, x)

	var y = t.output(&t.delay)
	var e = magSq(y) - cmaModulus*cmaModulus
	t.err = complex(e, 0)

	if update {
		var g = complex(mu*e, 0) * cmplx.Conj(y)
		for i := range t.taps {
			t.taps[i] -= g * t.delay[i]
		}
	}

	return y
}

// lms adapts towards +-1 decisions.  While training the decision is the
// known symbol at the centre of the line, which is what the centre tap
// should reproduce.
func (t *tapLine) lms(delay *[EqualizerTaps]complex128, x complex128, update bool, training bool, mu float64) complex128 {
	shiftIn(delay, x)

	var y = t.output(delay)

	var ref float64
	if training {
		ref = sign(real(delay[equalizerCentre]))
	} else {
		ref = sign(real(y))
	}

	var e = complex(ref, 0) - y
	t.err = e

	if update {
		var g = complex(mu, 0) * cmplx.Conj(e)
		for i := range t.taps {
			t.taps[i] += g * delay[i]
		}
	}

	return y
}

func (t *tapLine) copyTaps() []complex128 {
	var out = make([]complex128, EqualizerTaps)
	copy(out, t.taps[:])

	return out
}

type CMAEqualizer struct {
	line tapLine
	mu   float64
}

func NewCMAEqualizer(mu float64) *CMAEqualizer {
	var e = &CMAEqualizer{mu: mu}
	e.line.reset()

	return e
}

// ProcessOneSample ignores training, CMA has no use for known bits.
func (e *CMAEqualizer) ProcessOneSample(x complex128, update bool, _ bool) complex128 {
	return e.line.cma(x, update, e.mu)
}

func (e *CMAEqualizer) Error() complex128   { return e.line.err }
func (e *CMAEqualizer) Taps() []complex128  { return e.line.copyTaps() }
func (e *CMAEqualizer) Mode() EqualizerMode { return EqualizerCMA }
func (e *CMAEqualizer) Reset()              { e.line.reset() }

type LMSEqualizer struct {
	line  tapLine
	cmaMu float64
	mu    float64
}

func NewLMSEqualizer(cmaMu float64, lmsMu float64) *LMSEqualizer {
	var e = &LMSEqualizer{cmaMu: cmaMu, mu: lmsMu}
	e.line.reset()

	return e
}

func (e *LMSEqualizer) ProcessOneSample(x complex128, update bool, training bool) complex128 {
	return e.line.lms(&e.line.delay, x, update, training, e.mu)
}

// ProcessBlind adapts with the CMA rule.  Used until the first unique word.
func (e *LMSEqualizer) ProcessBlind(x complex128, update bool) complex128 {
	return e.line.cma(x, update, e.cmaMu)
}

/*------------------------------------------------------------------
 *
 * Name:	Train
 *
 * Purpose:	Converge the taps on known symbols.
 *
 * Inputs:	symbols	- Received symbols whose bits are known to be
 *			  right, e.g. the unique word columns of a frame
 *			  that was just detected.
 *
 * Description:	Uses a scratch delay line.  The live one carries on
 *		from the last payload symbol as if training never
 *		happened.
 *
 *------------------------------------------------------------------*/

func (e *LMSEqualizer) Train(symbols []complex128) {
	var scratch [EqualizerTaps]complex128

	for _, x := range symbols {
		e.line.lms(&scratch, x, true, true, e.mu)
	}
}

func (e *LMSEqualizer) Error() complex128   { return e.line.err }
func (e *LMSEqualizer) Taps() []complex128  { return e.line.copyTaps() }
func (e *LMSEqualizer) Mode() EqualizerMode { return EqualizerLMS }
func (e *LMSEqualizer) Reset()              { e.line.reset() }
