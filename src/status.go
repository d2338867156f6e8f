package stdc

// Status is a copy of the diagnostic values, taken under the demodulator lock.
type Status struct {
	Locked                    bool
	SyncedToFrame             bool
	CoarseFreqOffsetHz        float64
	CoarseFreqOffsetPower     float64
	CoarseFreqOffsetCurrentHz float64
	CoarseFreqCurrentPower    float64
	FineFreqHz                float64
	EVM                       float64
	LockAverage               float64
	AGCGain                   float64
	AGCAverage                float64
	TimingMu                  float64
	Samples                   int64
	Symbols                   int64
	UniqueWords               int64
	Chunks                    int64
	Results                   int64
}

// FreqOffsetHz is the total carrier offset seen at the processing rate.
func (s Status) FreqOffsetHz() float64 {
	return s.CoarseFreqOffsetHz + s.FineFreqHz
}
