package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Automatic gain control ahead of everything else.
 *
 * Description:	The loops further down expect symbols of roughly unit
 *		magnitude.  A moving average of |z| is compared with the
 *		target and the gain nudged proportionally.
 *
 *		While the carrier loop is still hunting we want the gain
 *		to settle quickly.  Once locked a fast AGC only adds AM
 *		noise to the symbols so the step is cut by a factor of ten.
 *
 *		Proportional step mu times amplitude must stay below 1 for
 *		the loop to be stable.  Input is expected to be within
 *		about full scale, as the IQ readers deliver.
 *
 *---------------------------------------------------------------*/

const (
	agcTarget      = 1.0
	agcAlpha       = 1.0 / 32
	agcMuUnlocked  = 0.3
	agcMuLocked    = 0.03
	agcMinGain     = 0.01
	agcMaxGain     = 10000.0
	agcInitialGain = 1.0
)

type AGC struct {
	gain    float64
	average float64
}

func NewAGC() *AGC {
	return &AGC{gain: agcInitialGain}
}

// Process returns the sample scaled by the current gain, then updates the gain.
func (a *AGC) Process(sample complex128, locked bool) complex128 {
	var z = complex(a.gain, 0) * sample

	a.average += agcAlpha * (cabs(z) - a.average)

	var mu = agcMuUnlocked
	if locked {
		mu = agcMuLocked
	}

	a.gain += mu * (agcTarget - a.average)
	a.gain = clamp(a.gain, agcMinGain, agcMaxGain)

	return z
}

func (a *AGC) Gain() float64 {
	return a.gain
}

func (a *AGC) Average() float64 {
	return a.average
}

func (a *AGC) Reset() {
	a.gain = agcInitialGain
	a.average = 0
}
