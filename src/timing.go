package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Symbol timing recovery with the Gardner detector.
 *
 * Description:	Matched filter output goes into a short history.  Every
 *		"samples per symbol" samples, adjusted by the loop, the
 *		newest sample is taken as the symbol.  The detector needs
 *		the previous symbol and the sample half way between:
 *
 *			e = (cur.I - prev.I) * mid.I + (cur.Q - prev.Q) * mid.Q
 *
 *		Positive error means we are sampling late.  A PI filter
 *		turns that into a fractional offset mu in [-0.5, 0.5) and
 *		the wait until the next symbol is shortened or lengthened
 *		by round(mu * sps) samples, at most one.
 *
 *		No decisions are needed so this works before the carrier
 *		loop has locked.
 *
 *---------------------------------------------------------------*/

const (
	defaultTimingKp = 0.1
	defaultTimingKi = 0.01
	timingMaxAdjust = 1
)

type TimingRecovery struct {
	sps int
	kp  float64
	ki  float64

	history []complex128 // ring, sps+2 long
	head    int          // next write position

	sampleIdx   int
	adjustedSPS int

	errorSum   float64
	lastError  float64
	mu         float64
	adjustment int
}

func NewTimingRecovery(sps int, kp float64, ki float64) *TimingRecovery {
	var t = &TimingRecovery{
		sps:     sps,
		kp:      kp,
		ki:      ki,
		history: make([]complex128, sps+2),
	}
	t.Reset()

	return t
}

// SetGains changes the loop filter without disturbing its state.
func (t *TimingRecovery) SetGains(kp float64, ki float64) {
	t.kp = kp
	t.ki = ki
}

// back returns the sample n samples before the newest.
func (t *TimingRecovery) back(n int) complex128 {
	var i = t.head - 1 - n
	for i < 0 {
		i += len(t.history)
	}

	return t.history[i]
}

/*------------------------------------------------------------------
 *
 * Name:	Process
 *
 * Purpose:	Take one matched filter sample.
 *
 * Returns:	symbol	- The recovered symbol, when ok is true.
 *		ok	- True once per symbol period.
 *
 *------------------------------------------------------------------*/

func (t *TimingRecovery) Process(filtered complex128) (complex128, bool) {
	t.history[t.head] = filtered
	t.head++
	if t.head == len(t.history) {
		t.head = 0
	}

	if t.sampleIdx < t.adjustedSPS-1 {
		t.sampleIdx++
		return 0, false
	}

	t.sampleIdx = 0

	var cur = t.back(0)
	var mid = t.back(t.sps / 2)
	var prev = t.back(t.sps)

	var e = gardnerError(prev, mid, cur)

	t.lastError = e
	t.errorSum += e
	t.mu = wrapHalf(t.kp*e + t.ki*t.errorSum)

	var adj = roundInt(t.mu * float64(t.sps))
	if adj > timingMaxAdjust {
		adj = timingMaxAdjust
	} else if adj < -timingMaxAdjust {
		adj = -timingMaxAdjust
	}
	t.adjustment = adj
	t.adjustedSPS = t.sps - adj

	return cur, true
} /* end Process */

func gardnerError(prev complex128, mid complex128, cur complex128) float64 {
	return (real(cur)-real(prev))*real(mid) + (imag(cur)-imag(prev))*imag(mid)
}

func roundInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}

	return -int(-v + 0.5)
}

func (t *TimingRecovery) LastError() float64 { return t.lastError }
func (t *TimingRecovery) Mu() float64        { return t.mu }
func (t *TimingRecovery) Adjustment() int    { return t.adjustment }

func (t *TimingRecovery) Reset() {
	clear(t.history)
	t.head = 0
	t.sampleIdx = 0
	t.adjustedSPS = t.sps
	t.errorSum = 0
	t.lastError = 0
	t.mu = 0
	t.adjustment = 0
}
