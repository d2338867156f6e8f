package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Coarse carrier frequency offset estimate.
 *
 * Description:	Squaring a BPSK signal strips the modulation and leaves a
 *		tone at twice the carrier offset.  Squared samples are
 *		collected into an FFT buffer and the strongest bin gives
 *		the offset.
 *
 *		The squared samples are taken before the correction is
 *		applied so each estimate is absolute, not a residual on
 *		top of the previous one.
 *
 *		A new estimate replaces the one in use only when the
 *		carrier loop is not locked, or when it is clearly stronger
 *		(3x in magnitude) and not just a neighbouring bin.  That
 *		keeps a strong interferer or a harmonic from pulling us
 *		off a weaker signal we are already tracking.
 *
 *---------------------------------------------------------------*/

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	cfoPromoteRatio   = 3.0
	cfoPromoteMinBins = 2
)

type FrequencyOffsetEstimator struct {
	fft        *fourier.CmplxFFT
	size       int
	sampleRate float64
	windowType WindowType
	window     []float64

	buf    []complex128
	coeffs []complex128
	count  int

	nco NCO

	havePrev     bool
	prevBin      int
	lockedHz     float64
	lockedPower  float64
	currentBin   int
	currentHz    float64
	currentPower float64
	promotions   int
}

func NewFrequencyOffsetEstimator(size int, sampleRate float64, windowType WindowType) *FrequencyOffsetEstimator {
	var e = &FrequencyOffsetEstimator{
		fft:        fourier.NewCmplxFFT(size),
		size:       size,
		sampleRate: sampleRate,
		buf:        make([]complex128, size),
		coeffs:     make([]complex128, size),
	}
	e.SetWindow(windowType)

	return e
}

// SetWindow changes the window applied before the FFT.
func (e *FrequencyOffsetEstimator) SetWindow(windowType WindowType) {
	e.windowType = windowType
	e.window = nil

	if windowType == WindowTruncated {
		return
	}

	e.window = make([]float64, e.size)
	for j := range e.window {
		e.window[j] = window(windowType, e.size, j)
	}
}

/*------------------------------------------------------------------
 *
 * Name:	Process
 *
 * Purpose:	Accumulate one sample and return it with the current
 *		coarse offset removed.
 *
 * Inputs:	sample	- AGC output.
 *		locked	- Carrier loop lock state, used for promotion.
 *
 *------------------------------------------------------------------*/

func (e *FrequencyOffsetEstimator) Process(sample complex128, locked bool) complex128 {
	e.buf[e.count] = sample * sample
	e.count++

	if e.count == e.size {
		e.estimate(locked)
		e.count = 0
	}

	return sample * e.nco.Next()
}

func (e *FrequencyOffsetEstimator) estimate(locked bool) {
	if e.window != nil {
		for j := range e.buf {
			e.buf[j] *= complex(e.window[j], 0)
		}
	}

	e.coeffs = e.fft.Coefficients(e.coeffs, e.buf)

	var best = 0
	var bestPower = -1.0
	for k, c := range e.coeffs {
		var p = magSq(c)
		if p > bestPower {
			bestPower = p
			best = k
		}
	}

	var n2 = float64(e.size) * float64(e.size)

	var idx = best
	if idx > e.size/2 {
		idx -= e.size
	}

	e.currentBin = idx
	e.currentHz = e.binToHz(idx)
	e.currentPower = bestPower / n2

	var prevPower = 0.0
	if e.havePrev {
		prevPower = magSq(e.coeffs[(e.prevBin+e.size)%e.size]) / n2
	}
	e.lockedPower = prevPower

	var ratio = math.Inf(1)
	if prevPower > 0 {
		ratio = math.Sqrt(e.currentPower) / math.Sqrt(prevPower)
	}

	var farEnough = !e.havePrev || absInt(idx-e.prevBin) >= cfoPromoteMinBins

	if !locked || (ratio >= cfoPromoteRatio && farEnough) {
		if !e.havePrev || idx != e.prevBin {
			e.havePrev = true
			e.prevBin = idx
			e.lockedHz = e.currentHz
			e.lockedPower = e.currentPower
			e.nco.SetFreq(-e.lockedHz, e.sampleRate)
			e.promotions++

			logger.Info("coarse frequency offset", "hz", e.lockedHz, "bin", idx, "power", e.currentPower, "locked", locked)
		}
	}
} /* end estimate */

// The squared signal sits at twice the offset.
func (e *FrequencyOffsetEstimator) binToHz(idx int) float64 {
	return float64(idx) * e.sampleRate / float64(e.size) / 2
}

// BinHz is the carrier frequency resolution of one FFT bin.
func (e *FrequencyOffsetEstimator) BinHz() float64 {
	return e.sampleRate / float64(e.size) / 2
}

func (e *FrequencyOffsetEstimator) LockedHz() float64     { return e.lockedHz }
func (e *FrequencyOffsetEstimator) LockedPower() float64  { return e.lockedPower }
func (e *FrequencyOffsetEstimator) CurrentHz() float64    { return e.currentHz }
func (e *FrequencyOffsetEstimator) CurrentPower() float64 { return e.currentPower }
func (e *FrequencyOffsetEstimator) Promotions() int       { return e.promotions }

func (e *FrequencyOffsetEstimator) Reset() {
	clear(e.buf)
	e.count = 0
	e.nco = NCO{}
	e.havePrev = false
	e.prevBin = 0
	e.lockedHz = 0
	e.lockedPower = 0
	e.currentBin = 0
	e.currentHz = 0
	e.currentPower = 0
	e.promotions = 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
