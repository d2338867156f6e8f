package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	STD-C BPSK demodulator.
 *
 * Description:	One complex sample at a time goes through
 *
 *			AGC
 *			coarse frequency correction
 *			RRC matched filter
 *			Gardner timing recovery
 *
 *		and, once per recovered symbol,
 *
 *			Costas loop + lock detector
 *			equalizer (none, CMA, or CMA then LMS)
 *			bit slicer
 *			unique word frame sync
 *			decoder hand-off every DecoderChunkBits bits
 *
 *		All of the loop state lives in demodulatorState and is
 *		touched only while holding Demodulator.mutex.  Settings,
 *		reset and status snapshots take the same lock, so they
 *		always land between two samples.
 *
 *---------------------------------------------------------------*/

import (
	"math/cmplx"
	"slices"
	"sync"
	"time"
)

type demodulatorState struct {
	settings Settings
	channel  ChannelSettings

	channelNCO NCO
	resampler  *Resampler

	agc       *AGC
	cfo       *FrequencyOffsetEstimator
	rrc       *FIRFilter
	timing    *TimingRecovery
	costas    *CostasLoop
	lock      *LockDetector
	equalizer Equalizer // nil for none
	symbols   *SymbolBuffer

	synced         bool
	symbolsSinceUW int

	decoderBits []byte
	trainBuf    []complex128

	samples     int64
	symbolCount int64
	uniqueWords int64
	chunks      int64
	results     int64
}

func newDemodulatorState(settings Settings, channel ChannelSettings) *demodulatorState {
	var limit = costasFreqLimit(settings.RFBandwidth, Baud)

	var s = &demodulatorState{
		settings:    settings,
		channel:     channel,
		agc:         NewAGC(),
		cfo:         NewFrequencyOffsetEstimator(FFTSize, ChannelSampleRate, settings.FFTWindow),
		rrc:         NewRRCFilter(settings.RRCRolloff, SamplesPerSymbol, RRCSpan),
		timing:      NewTimingRecovery(SamplesPerSymbol, settings.TimingKp, settings.TimingKi),
		costas:      NewCostasLoop(settings.PLLBandwidth, -limit, limit),
		lock:        NewLockDetector(settings.LockThreshold),
		equalizer:   newEqualizer(settings.Equalizer, settings.CMAMu, settings.LMSMu),
		symbols:     NewSymbolBuffer(FrameSymbols),
		decoderBits: make([]byte, 0, settings.DecoderChunkBits),
		trainBuf:    make([]complex128, 0, 2*UniqueWordRows),
	}

	s.resampler = newChannelResampler(channel, settings)
	s.channelNCO.SetFreq(-settings.InputFrequencyOffset, channel.SampleRate)

	return s
}

func newChannelResampler(channel ChannelSettings, settings Settings) *Resampler {
	return NewResampler(channel.SampleRate, ChannelSampleRate, settings.RFBandwidth/2.2)
}

/*------------------------------------------------------------------
 *
 * Name:	reset
 *
 * Purpose:	Put every loop back to its starting point.
 *
 * Description:	Configuration is kept.  Anything learned from the
 *		signal is forgotten, including half filled decoder
 *		chunks.  Calling it twice is the same as calling it once.
 *
 *------------------------------------------------------------------*/

func (s *demodulatorState) reset() {
	s.channelNCO.Reset()
	s.resampler.Reset()
	s.agc.Reset()
	s.cfo.Reset()
	s.rrc.Reset()
	s.timing.Reset()
	s.costas.Reset()
	s.lock.Reset()
	if s.equalizer != nil {
		s.equalizer.Reset()
	}
	s.symbols.Reset()

	s.synced = false
	s.symbolsSinceUW = 0
	s.decoderBits = s.decoderBits[:0]

	s.samples = 0
	s.symbolCount = 0
	s.uniqueWords = 0
	s.chunks = 0
	s.results = 0
} /* end reset */

// apply re-derives whatever depends on the named keys.  Settings have
// already been validated.
func (s *demodulatorState) apply(settings Settings, keys []string) {
	s.settings = settings

	var newEq = false

	for _, k := range keys {
		switch k {
		case KeyInputFrequencyOffset:
			s.channelNCO.SetFreq(-settings.InputFrequencyOffset, s.channel.SampleRate)
		case KeyRFBandwidth:
			var limit = costasFreqLimit(settings.RFBandwidth, Baud)
			s.costas.SetFreqRange(-limit, limit)
			s.resampler = newChannelResampler(s.channel, settings)
		case KeyRRCRolloff:
			s.rrc = NewRRCFilter(settings.RRCRolloff, SamplesPerSymbol, RRCSpan)
		case KeyPLLBandwidth:
			s.costas.SetLoopBandwidth(settings.PLLBandwidth)
		case KeyEqualizer, KeyCMAMu, KeyLMSMu:
			newEq = true
		case KeyLockThreshold:
			s.lock.SetThreshold(settings.LockThreshold)
		case KeyTimingKp, KeyTimingKi:
			s.timing.SetGains(settings.TimingKp, settings.TimingKi)
		case KeyFFTWindow:
			s.cfo.SetWindow(settings.FFTWindow)
		case KeyDecoderChunkBits:
			if cap(s.decoderBits) < settings.DecoderChunkBits {
				var bits = make([]byte, len(s.decoderBits), settings.DecoderChunkBits)
				copy(bits, s.decoderBits)
				s.decoderBits = bits
			}
		}
	}

	if newEq {
		s.equalizer = newEqualizer(settings.Equalizer, settings.CMAMu, settings.LMSMu)
	}
}

// Demodulator is safe for use from several goroutines.  Samples must
// still come from one producer, in order.
type Demodulator struct {
	mutex sync.Mutex
	state *demodulatorState

	decoder   Decoder
	sink      ResultSink
	scopes    *ScopeTaps
	chunkLog  *ChunkLog
	fileStart time.Time

	emit func(complex128)
}

/*------------------------------------------------------------------
 *
 * Name:	NewDemodulator
 *
 * Inputs:	settings	- Validated before use.
 *		channel		- Rate the samples passed to Feed arrive at.
 *		decoder		- Receives every chunk of bits.  nil drops them.
 *
 * Returns:	Demodulator ready for Feed, or a configuration error.
 *
 *------------------------------------------------------------------*/

func NewDemodulator(settings Settings, channel ChannelSettings, decoder Decoder) (*Demodulator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := channel.Validate(); err != nil {
		return nil, err
	}

	if decoder == nil {
		decoder = NullDecoder
	}

	var d = &Demodulator{
		state:   newDemodulatorState(settings, channel),
		decoder: decoder,
	}
	d.emit = d.processOneSample

	if settings.LogEnabled {
		d.chunkLog = NewChunkLog(settings.LogDailyNames, settings.LogFilename)
	}

	return d, nil
}

func (d *Demodulator) SetResultSink(sink ResultSink) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.sink = sink
}

func (d *Demodulator) SetScopeTaps(taps *ScopeTaps) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.scopes = taps
}

// SetFileStartTime gives the wall clock time of the first sample of a
// recording.  Used for result timestamps when UseFileTime is set.
func (d *Demodulator) SetFileStartTime(t time.Time) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.fileStart = t
}

// Feed runs a block of samples at the channel rate through the chain.
func (d *Demodulator) Feed(samples []complex128) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var s = d.state

	for _, x := range samples {
		s.resampler.Process(x*s.channelNCO.Next(), d.emit)
	}
}

func (d *Demodulator) processOneSample(x complex128) {
	var s = d.state

	s.samples++
	d.scopes.offer(ScopeRaw, s.samples, x)

	var locked = s.lock.Locked()

	var z = s.agc.Process(x, locked)
	d.scopes.offer(ScopeAGC, s.samples, z)

	var c = s.cfo.Process(z, locked)
	d.scopes.offer(ScopeCFO, s.samples, c)

	var f = s.rrc.Filter(c)

	var sym, ok = s.timing.Process(f)
	if !ok {
		return
	}

	d.processSymbol(sym)
}

func (d *Demodulator) processSymbol(sym complex128) {
	var s = d.state

	s.symbolCount++
	d.scopes.offer(ScopeMatchedFilter, s.symbolCount, sym)
	d.scopes.offer(ScopeTimingError, s.symbolCount, complex(s.timing.LastError(), s.timing.Mu()))

	// Carrier.

	s.costas.Feed(real(sym), imag(sym))
	var ref = s.costas.Complex()
	var derot = sym * cmplx.Conj(ref)
	d.scopes.offer(ScopeCostasVector, s.symbolCount, ref)
	d.scopes.offer(ScopeDerotated, s.symbolCount, derot)

	var wasLocked = s.lock.Locked()
	var locked = s.lock.Update(derot)
	if locked != wasLocked {
		logger.Info("carrier lock", "locked", locked, "symbol", s.symbolCount,
			"fineHz", s.costas.FreqHz(Baud), "coarseHz", s.cfo.LockedHz())
	}

	// Equalizer.

	var y complex128
	switch eq := s.equalizer.(type) {
	case nil:
		y = derot
	case *LMSEqualizer:
		if s.synced {
			y = eq.ProcessOneSample(derot, true, false)
		} else {
			y = eq.ProcessBlind(derot, true)
		}
	default:
		y = eq.ProcessOneSample(derot, true, false)
	}

	d.scopes.offer(ScopeEqualized, s.symbolCount, y)
	if s.equalizer != nil {
		d.scopes.offer(ScopeEqualizerError, s.symbolCount, s.equalizer.Error())
	}

	// Slicer.

	var bit byte
	if real(y) >= 0 {
		bit = 1
	}
	d.scopes.offer(ScopeBit, s.symbolCount, complex(float64(bit), 0))

	s.symbols.Push(bit, y)
	d.frameSync()

	s.decoderBits = append(s.decoderBits, bit)
	if len(s.decoderBits) >= s.settings.DecoderChunkBits {
		d.handOff()
	}
} /* end processSymbol */

/*------------------------------------------------------------------
 *
 * Name:	frameSync
 *
 * Purpose:	Unique word state machine.
 *
 * Description:	UNSYNCED -> SYNCED on a unique word.  The first time
 *		round the LMS equalizer is trained on the unique word
 *		symbols of the frame just found.
 *
 *		SYNCED -> SYNCED on each later unique word, which should
 *		be exactly one frame after the last.
 *
 *		SYNCED -> UNSYNCED after SyncLossFrames frames without
 *		one.  A corrupted unique word here and there is normal.
 *
 *------------------------------------------------------------------*/

func (d *Demodulator) frameSync() {
	var s = d.state
	var size = s.symbols.Size()

	if s.symbols.CheckUW() {
		s.uniqueWords++

		if s.synced && s.symbolsSinceUW != size-1 {
			logger.Debug("unique word out of step", "symbolsSince", s.symbolsSinceUW, "expected", size-1, "symbol", s.symbolCount)
		}
		s.symbolsSinceUW = 0

		if !s.synced {
			logger.Info("frame sync", "symbol", s.symbolCount, "inverted", s.symbols.Inverted(), "evm", s.symbols.EVM())

			if lms, ok := s.equalizer.(*LMSEqualizer); ok {
				s.trainBuf = s.trainBuf[:0]
				for col := 0; col < 2; col++ {
					for row := 0; row < UniqueWordRows; row++ {
						s.trainBuf = append(s.trainBuf, s.symbols.GetSymbol(row*UniqueWordStride+col))
					}
				}
				lms.Train(s.trainBuf)
			}

			s.synced = true
		}
	} else if s.synced {
		if s.symbolsSinceUW < SyncLossFrames*size {
			s.symbolsSinceUW++
		} else {
			s.symbolsSinceUW = 0
			s.synced = false
			logger.Info("lost frame sync", "symbol", s.symbolCount)
		}
	}
} /* end frameSync */

// handOff passes every complete chunk to the decoder.  Bits past the last
// full chunk stay buffered, so a smaller chunk size never yields an
// oversized chunk.
func (d *Demodulator) handOff() {
	var s = d.state
	var n = s.settings.DecoderChunkBits

	for len(s.decoderBits) >= n {
		s.chunks++
		var results = d.decoder.Decode(s.decoderBits[:n])
		var left = copy(s.decoderBits, s.decoderBits[n:])
		s.decoderBits = s.decoderBits[:left]

		d.deliver(results)
	}
}

func (d *Demodulator) deliver(results []DecodedResult) {
	var s = d.state

	if len(results) == 0 {
		return
	}

	var when = d.resultTime()
	for i := range results {
		results[i].Chunk = int(s.chunks)
		if results[i].Time.IsZero() {
			results[i].Time = when
		}
	}
	s.results += int64(len(results))

	if d.chunkLog != nil {
		d.chunkLog.Write(results)
	}

	if d.sink != nil {
		d.sink(results)
	}
}

func (d *Demodulator) resultTime() time.Time {
	if d.state.settings.UseFileTime && !d.fileStart.IsZero() {
		var elapsed = float64(d.state.samples) / ChannelSampleRate
		return d.fileStart.Add(time.Duration(elapsed * float64(time.Second)))
	}

	return time.Now()
}

/*------------------------------------------------------------------
 *
 * Name:	ApplySettings
 *
 * Purpose:	Change configuration between two samples.
 *
 * Inputs:	keys		- Which fields of settings to take.  Others
 *				  keep their current value.
 *		settings	- New values.
 *		force		- Take every field and reset all loops.
 *
 * Returns:	Error if the result would be invalid.  In that case
 *		nothing changes.
 *
 *------------------------------------------------------------------*/

func (d *Demodulator) ApplySettings(keys []string, settings Settings, force bool) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var merged = settings
	if force {
		keys = allSettingsKeys
	} else {
		var err error
		merged, err = d.state.settings.merge(settings, keys)
		if err != nil {
			logger.Warn("settings rejected", "err", err)
			return err
		}
	}

	if err := merged.Validate(); err != nil {
		logger.Warn("settings rejected", "err", err)
		return err
	}

	d.state.apply(merged, keys)

	if touchesLog(keys) {
		d.chunkLog.Close()
		d.chunkLog = nil
		if merged.LogEnabled {
			d.chunkLog = NewChunkLog(merged.LogDailyNames, merged.LogFilename)
		}
	}

	if force {
		d.state.reset()
	} else if slices.Contains(keys, KeyDecoderChunkBits) {
		d.handOff()
	}

	logger.Debug("settings applied", "keys", keys, "force", force)

	return nil
}

func touchesLog(keys []string) bool {
	for _, k := range keys {
		if k == KeyLogEnabled || k == KeyLogFilename || k == KeyLogDailyNames {
			return true
		}
	}

	return false
}

// ApplyChannelSettings is called when the channelizer changes the rate it
// delivers at.
func (d *Demodulator) ApplyChannelSettings(channel ChannelSettings) error {
	if err := channel.Validate(); err != nil {
		logger.Warn("channel settings rejected", "err", err)
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	var s = d.state
	s.channel = channel
	s.resampler = newChannelResampler(channel, s.settings)
	s.channelNCO.SetFreq(-s.settings.InputFrequencyOffset, channel.SampleRate)

	return nil
}

func (d *Demodulator) Settings() Settings {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.state.settings
}

// Reset forgets everything learned from the signal.  Configuration stays.
func (d *Demodulator) Reset() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.state.reset()
}

func (d *Demodulator) Status() Status {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var s = d.state

	return Status{
		Locked:                    s.lock.Locked(),
		SyncedToFrame:             s.synced,
		CoarseFreqOffsetHz:        s.cfo.LockedHz(),
		CoarseFreqOffsetPower:     s.cfo.LockedPower(),
		CoarseFreqOffsetCurrentHz: s.cfo.CurrentHz(),
		CoarseFreqCurrentPower:    s.cfo.CurrentPower(),
		FineFreqHz:                s.costas.FreqHz(Baud),
		EVM:                       s.symbols.EVM(),
		LockAverage:               s.lock.Average(),
		AGCGain:                   s.agc.Gain(),
		AGCAverage:                s.agc.Average(),
		TimingMu:                  s.timing.Mu(),
		Samples:                   s.samples,
		Symbols:                   s.symbolCount,
		UniqueWords:               s.uniqueWords,
		Chunks:                    s.chunks,
		Results:                   s.results,
	}
}

// Close flushes and closes the chunk log, if any.
func (d *Demodulator) Close() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.chunkLog.Close()
	d.chunkLog = nil
}
