package stdc

import (
	"errors"
)

// Configuration is checked before it is applied.  Processing itself never fails.
var (
	ErrInvalidBandwidth     = errors.New("rf bandwidth must be positive")
	ErrInvalidRolloff       = errors.New("rrc roll-off must be in (0, 1]")
	ErrInvalidLoopBandwidth = errors.New("loop bandwidth must be positive")
	ErrInvalidLoopGain      = errors.New("loop gain out of range")
	ErrInvalidEqualizer     = errors.New("unknown equalizer")
	ErrInvalidWindow        = errors.New("unknown window")
	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidChunkSize     = errors.New("decoder chunk size must be positive")
	ErrInvalidThreshold     = errors.New("lock threshold must be in (0, 1)")
	ErrUnknownSettingsKey   = errors.New("unknown settings key")
	ErrUnknownIQFormat      = errors.New("unknown IQ sample format")
	ErrQueueClosed          = errors.New("sample queue closed")
)
