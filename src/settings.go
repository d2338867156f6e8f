package stdc

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Settings is everything the user can change.  Field names in YAML are
// also the keys accepted by ApplySettings.
type Settings struct {
	InputFrequencyOffset float64       `yaml:"inputFrequencyOffset"`
	RFBandwidth          float64       `yaml:"rfBandwidth"`
	RRCRolloff           float64       `yaml:"rrcRolloff"`
	PLLBandwidth         float64       `yaml:"pllBandwidth"`
	Equalizer            EqualizerMode `yaml:"equalizer"`
	LockThreshold        float64       `yaml:"lockThreshold"`
	TimingKp             float64       `yaml:"timingKp"`
	TimingKi             float64       `yaml:"timingKi"`
	CMAMu                float64       `yaml:"cmaMu"`
	LMSMu                float64       `yaml:"lmsMu"`
	FFTWindow            WindowType    `yaml:"fftWindow"`
	DecoderChunkBits     int           `yaml:"decoderChunkBits"`
	LogEnabled           bool          `yaml:"logEnabled"`
	LogFilename          string        `yaml:"logFilename"`
	LogDailyNames        bool          `yaml:"logDailyNames"`
	UseFileTime          bool          `yaml:"useFileTime"`
}

const (
	KeyInputFrequencyOffset = "inputFrequencyOffset"
	KeyRFBandwidth          = "rfBandwidth"
	KeyRRCRolloff           = "rrcRolloff"
	KeyPLLBandwidth         = "pllBandwidth"
	KeyEqualizer            = "equalizer"
	KeyLockThreshold        = "lockThreshold"
	KeyTimingKp             = "timingKp"
	KeyTimingKi             = "timingKi"
	KeyCMAMu                = "cmaMu"
	KeyLMSMu                = "lmsMu"
	KeyFFTWindow            = "fftWindow"
	KeyDecoderChunkBits     = "decoderChunkBits"
	KeyLogEnabled           = "logEnabled"
	KeyLogFilename          = "logFilename"
	KeyLogDailyNames        = "logDailyNames"
	KeyUseFileTime          = "useFileTime"
)

var allSettingsKeys = []string{
	KeyInputFrequencyOffset, KeyRFBandwidth, KeyRRCRolloff, KeyPLLBandwidth,
	KeyEqualizer, KeyLockThreshold, KeyTimingKp, KeyTimingKi, KeyCMAMu,
	KeyLMSMu, KeyFFTWindow, KeyDecoderChunkBits, KeyLogEnabled,
	KeyLogFilename, KeyLogDailyNames, KeyUseFileTime,
}

func DefaultSettings() Settings {
	return Settings{
		InputFrequencyOffset: 0,
		RFBandwidth:          2400,
		RRCRolloff:           0.5,
		PLLBandwidth:         DefaultLoopBandwidth,
		Equalizer:            EqualizerLMS,
		LockThreshold:        defaultLockThreshold,
		TimingKp:             defaultTimingKp,
		TimingKi:             defaultTimingKi,
		CMAMu:                defaultCMAMu,
		LMSMu:                defaultLMSMu,
		FFTWindow:            WindowTruncated,
		DecoderChunkBits:     DefaultDecoderChunkBits,
		LogDailyNames:        false,
	}
}

/*------------------------------------------------------------------
 *
 * Name:	Validate
 *
 * Purpose:	Reject settings that would make a loop meaningless.
 *
 * Returns:	nil or an error wrapping one of the Err... values.
 *
 *------------------------------------------------------------------*/

func (s Settings) Validate() error {
	if !(s.RFBandwidth > 0) {
		return fmt.Errorf("rfBandwidth %v: %w", s.RFBandwidth, ErrInvalidBandwidth)
	}

	if !(s.RRCRolloff > 0 && s.RRCRolloff <= 1) {
		return fmt.Errorf("rrcRolloff %v: %w", s.RRCRolloff, ErrInvalidRolloff)
	}

	if !(s.PLLBandwidth > 0) {
		return fmt.Errorf("pllBandwidth %v: %w", s.PLLBandwidth, ErrInvalidLoopBandwidth)
	}

	switch s.Equalizer {
	case EqualizerNone, EqualizerCMA, EqualizerLMS:
	default:
		return fmt.Errorf("equalizer %v: %w", s.Equalizer, ErrInvalidEqualizer)
	}

	if _, ok := windowNames[s.FFTWindow]; !ok {
		return fmt.Errorf("fftWindow %v: %w", s.FFTWindow, ErrInvalidWindow)
	}

	if !(s.LockThreshold > 0 && s.LockThreshold < 1) {
		return fmt.Errorf("lockThreshold %v: %w", s.LockThreshold, ErrInvalidThreshold)
	}

	if !(s.TimingKp > 0) || !(s.TimingKi >= 0) {
		return fmt.Errorf("timing kp %v ki %v: %w", s.TimingKp, s.TimingKi, ErrInvalidLoopGain)
	}

	if !(s.CMAMu > 0) || !(s.LMSMu > 0) {
		return fmt.Errorf("equalizer mu cma %v lms %v: %w", s.CMAMu, s.LMSMu, ErrInvalidLoopGain)
	}

	if s.DecoderChunkBits <= 0 {
		return fmt.Errorf("decoderChunkBits %d: %w", s.DecoderChunkBits, ErrInvalidChunkSize)
	}

	return nil
} /* end Validate */

// merge copies the named keys from src.  An unknown key is an error and
// nothing is copied.
func (s Settings) merge(src Settings, keys []string) (Settings, error) {
	for _, k := range keys {
		if !slices.Contains(allSettingsKeys, k) {
			return s, fmt.Errorf("%q: %w", k, ErrUnknownSettingsKey)
		}
	}

	var out = s

	for _, k := range keys {
		switch k {
		case KeyInputFrequencyOffset:
			out.InputFrequencyOffset = src.InputFrequencyOffset
		case KeyRFBandwidth:
			out.RFBandwidth = src.RFBandwidth
		case KeyRRCRolloff:
			out.RRCRolloff = src.RRCRolloff
		case KeyPLLBandwidth:
			out.PLLBandwidth = src.PLLBandwidth
		case KeyEqualizer:
			out.Equalizer = src.Equalizer
		case KeyLockThreshold:
			out.LockThreshold = src.LockThreshold
		case KeyTimingKp:
			out.TimingKp = src.TimingKp
		case KeyTimingKi:
			out.TimingKi = src.TimingKi
		case KeyCMAMu:
			out.CMAMu = src.CMAMu
		case KeyLMSMu:
			out.LMSMu = src.LMSMu
		case KeyFFTWindow:
			out.FFTWindow = src.FFTWindow
		case KeyDecoderChunkBits:
			out.DecoderChunkBits = src.DecoderChunkBits
		case KeyLogEnabled:
			out.LogEnabled = src.LogEnabled
		case KeyLogFilename:
			out.LogFilename = src.LogFilename
		case KeyLogDailyNames:
			out.LogDailyNames = src.LogDailyNames
		case KeyUseFileTime:
			out.UseFileTime = src.UseFileTime
		}
	}

	return out, nil
}

// LoadSettings reads YAML on top of the defaults.  Keys missing from the
// file keep their default.
func LoadSettings(path string) (Settings, error) {
	var s = DefaultSettings()

	var data, readErr = os.ReadFile(path)
	if readErr != nil {
		return s, fmt.Errorf("reading settings: %w", readErr)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}

	return s, nil
}

func (m EqualizerMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *EqualizerMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	var parsed, err = ParseEqualizerMode(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

func (w WindowType) MarshalYAML() (any, error) {
	return w.String(), nil
}

func (w *WindowType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	var parsed, err = ParseWindowType(s)
	if err != nil {
		return err
	}

	*w = parsed

	return nil
}

// ChannelSettings describes what the channelizer delivers.
type ChannelSettings struct {
	SampleRate float64
}

func (c ChannelSettings) Validate() error {
	if !(c.SampleRate > 0) {
		return fmt.Errorf("channel sample rate %v: %w", c.SampleRate, ErrInvalidSampleRate)
	}

	return nil
}
