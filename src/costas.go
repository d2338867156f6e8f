package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Carrier phase and frequency tracking, once per symbol.
 *
 * Description:	Second order Costas loop for BPSK.  The phase detector
 *		is I*Q of the derotated symbol, which is zero for either
 *		of the two constellation points, so the loop settles on
 *		0 or 180 degrees and the unique word sorts out which.
 *
 *		Frequency is held inside +- maxFreq (radians per symbol).
 *		Outside the channel bandwidth there is nothing to track.
 *
 *		The lock detector compares the energy on the I and Q
 *		axes.  Locked BPSK has everything on I.
 *
 *---------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"
)

const (
	costasDamping        = math.Sqrt2 / 2
	defaultLockThreshold = 0.45
	lockAlpha            = 0.01
	lockMinMagnitude     = 1e-12
)

// DefaultLoopBandwidth is in radians per symbol.
const DefaultLoopBandwidth = 2 * math.Pi / 100

type CostasLoop struct {
	alpha   float64
	beta    float64
	minFreq float64
	maxFreq float64

	phase float64
	freq  float64
	ref   complex128
	err   float64
}

/*------------------------------------------------------------------
 *
 * Name:	NewCostasLoop
 *
 * Inputs:	loopBW	- Loop bandwidth, radians per symbol.
 *		minFreq	- Frequency limits, radians per symbol.
 *		maxFreq
 *
 *------------------------------------------------------------------*/

func NewCostasLoop(loopBW float64, minFreq float64, maxFreq float64) *CostasLoop {
	var c = &CostasLoop{
		minFreq: minFreq,
		maxFreq: maxFreq,
		ref:     1,
	}
	c.SetLoopBandwidth(loopBW)

	return c
}

func (c *CostasLoop) SetLoopBandwidth(loopBW float64) {
	var denom = 1 + 2*costasDamping*loopBW + loopBW*loopBW
	c.alpha = 4 * costasDamping * loopBW / denom
	c.beta = 4 * loopBW * loopBW / denom
}

func (c *CostasLoop) SetFreqRange(minFreq float64, maxFreq float64) {
	c.minFreq = minFreq
	c.maxFreq = maxFreq
	c.freq = clamp(c.freq, minFreq, maxFreq)
}

// Feed runs the loop for one symbol.  The reference used to derotate this
// symbol is latched before the update and returned by Complex.
func (c *CostasLoop) Feed(i float64, q float64) {
	c.ref = cmplx.Rect(1, c.phase)

	var y = complex(i, q) * cmplx.Conj(c.ref)
	var e = clamp(real(y)*imag(y), -1, 1)
	c.err = e

	c.freq = clamp(c.freq+c.beta*e, c.minFreq, c.maxFreq)
	c.phase += c.freq + c.alpha*e

	for c.phase > math.Pi {
		c.phase -= 2 * math.Pi
	}
	for c.phase < -math.Pi {
		c.phase += 2 * math.Pi
	}
}

// Complex is the unit phase correction vector for the last symbol fed.
func (c *CostasLoop) Complex() complex128 {
	return c.ref
}

func (c *CostasLoop) Phase() float64 { return c.phase }
func (c *CostasLoop) Freq() float64  { return c.freq }
func (c *CostasLoop) Error() float64 { return c.err }

// FreqHz converts the frequency integrator to Hz at the given symbol rate.
func (c *CostasLoop) FreqHz(baud float64) float64 {
	return c.freq * baud / (2 * math.Pi)
}

func (c *CostasLoop) Reset() {
	c.phase = 0
	c.freq = 0
	c.ref = 1
	c.err = 0
}

// costasFreqLimit is the frequency clamp in radians per symbol for a
// channel of rfBandwidth Hz.
func costasFreqLimit(rfBandwidth float64, baud float64) float64 {
	var hz = rfBandwidth/2 - baud/2
	if hz < 0 {
		hz = 0
	}

	return hz * 2 * math.Pi / baud
}

/*------------------------------------------------------------------
 *
 * Name:	LockDetector
 *
 * Purpose:	Decide if the carrier loop is locked.
 *
 * Description:	Exponential average of (|I| - |Q|) / |z|.
 *		Unlocked, the symbols spin and the average hovers around
 *		zero.  Locked, it heads for 1.
 *
 *------------------------------------------------------------------*/

type LockDetector struct {
	threshold float64
	average   float64
	locked    bool
}

func NewLockDetector(threshold float64) *LockDetector {
	return &LockDetector{threshold: threshold}
}

func (l *LockDetector) Update(derot complex128) bool {
	var mag = cabs(derot)

	// Nothing to learn from silence.
	if mag > lockMinMagnitude {
		var iNorm = math.Abs(real(derot)) / mag
		var qNorm = math.Abs(imag(derot)) / mag
		l.average += lockAlpha * ((iNorm - qNorm) - l.average)
	}

	l.locked = l.average > l.threshold

	return l.locked
}

func (l *LockDetector) SetThreshold(threshold float64) {
	l.threshold = threshold
}

func (l *LockDetector) Locked() bool     { return l.locked }
func (l *LockDetector) Average() float64 { return l.average }

func (l *LockDetector) Reset() {
	l.average = 0
	l.locked = false
}
