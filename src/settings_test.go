package stdc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultSettingsValid(t *testing.T) {
	var s = DefaultSettings()
	require.NoError(t, s.Validate())

	assert.Equal(t, 2400.0, s.RFBandwidth)
	assert.Equal(t, EqualizerLMS, s.Equalizer)
	assert.Equal(t, WindowTruncated, s.FFTWindow)
	assert.Equal(t, DefaultDecoderChunkBits, s.DecoderChunkBits)
}

func TestSettingsValidate(t *testing.T) {
	var tests = []struct {
		name   string
		change func(*Settings)
		want   error
	}{
		{"zero bandwidth", func(s *Settings) { s.RFBandwidth = 0 }, ErrInvalidBandwidth},
		{"zero rolloff", func(s *Settings) { s.RRCRolloff = 0 }, ErrInvalidRolloff},
		{"rolloff above one", func(s *Settings) { s.RRCRolloff = 1.01 }, ErrInvalidRolloff},
		{"negative pll bandwidth", func(s *Settings) { s.PLLBandwidth = -0.1 }, ErrInvalidLoopBandwidth},
		{"equalizer out of range", func(s *Settings) { s.Equalizer = EqualizerMode(9) }, ErrInvalidEqualizer},
		{"window out of range", func(s *Settings) { s.FFTWindow = WindowType(-1) }, ErrInvalidWindow},
		{"threshold one", func(s *Settings) { s.LockThreshold = 1 }, ErrInvalidThreshold},
		{"zero kp", func(s *Settings) { s.TimingKp = 0 }, ErrInvalidLoopGain},
		{"negative ki", func(s *Settings) { s.TimingKi = -0.01 }, ErrInvalidLoopGain},
		{"zero lms mu", func(s *Settings) { s.LMSMu = 0 }, ErrInvalidLoopGain},
		{"zero chunk", func(s *Settings) { s.DecoderChunkBits = 0 }, ErrInvalidChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s = DefaultSettings()
			tt.change(&s)
			assert.ErrorIs(t, s.Validate(), tt.want)
		})
	}
}

func TestSettingsMergeOnlyNamedKeys(t *testing.T) {
	var base = DefaultSettings()
	var src = Settings{RFBandwidth: 3000, RRCRolloff: 0.35}

	var out, err = base.merge(src, []string{KeyRFBandwidth})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, out.RFBandwidth)
	assert.Equal(t, base.RRCRolloff, out.RRCRolloff)

	_, err = base.merge(src, []string{KeyRFBandwidth, "bogus"})
	assert.ErrorIs(t, err, ErrUnknownSettingsKey)
}

func TestLoadSettings(t *testing.T) {
	var dir = t.TempDir()
	var path = filepath.Join(dir, "stdc.yaml")

	var doc = "rfBandwidth: 3000\nequalizer: cma\nfftWindow: hamming\ndecoderChunkBits: 1000\nuseFileTime: true\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	var s, err = LoadSettings(path)
	require.NoError(t, err)

	var want = DefaultSettings()
	want.RFBandwidth = 3000
	want.Equalizer = EqualizerCMA
	want.FFTWindow = WindowHamming
	want.DecoderChunkBits = 1000
	want.UseFileTime = true
	assert.Equal(t, want, s)
}

func TestLoadSettingsErrors(t *testing.T) {
	var dir = t.TempDir()

	var write = func(name string, doc string) string {
		var path = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
		return path
	}

	var _, err = LoadSettings(write("eq.yaml", "equalizer: zf\n"))
	assert.ErrorIs(t, err, ErrInvalidEqualizer)

	_, err = LoadSettings(write("window.yaml", "fftWindow: kaiser\n"))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = LoadSettings(write("rolloff.yaml", "rrcRolloff: 1.5\n"))
	assert.ErrorIs(t, err, ErrInvalidRolloff)

	_, err = LoadSettings(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSettingsYAMLNames(t *testing.T) {
	var data, err = yaml.Marshal(DefaultSettings())
	require.NoError(t, err)

	assert.Contains(t, string(data), "equalizer: lms")
	assert.Contains(t, string(data), "fftWindow: truncated")

	var back Settings
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, DefaultSettings(), back)
}

func newTestDemodulator(t *testing.T, settings Settings) *Demodulator {
	t.Helper()

	var d, err = NewDemodulator(settings, ChannelSettings{SampleRate: ChannelSampleRate}, nil)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	return d
}

func TestNewDemodulatorRejectsBadConfig(t *testing.T) {
	var s = DefaultSettings()
	s.RRCRolloff = 0

	var _, err = NewDemodulator(s, ChannelSettings{SampleRate: ChannelSampleRate}, nil)
	assert.ErrorIs(t, err, ErrInvalidRolloff)

	_, err = NewDemodulator(DefaultSettings(), ChannelSettings{}, nil)
	assert.ErrorIs(t, err, ErrInvalidSampleRate)
}

func TestApplySettingsKeys(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())

	require.NoError(t, d.ApplySettings([]string{KeyRFBandwidth, KeyEqualizer},
		Settings{RFBandwidth: 3000, Equalizer: EqualizerCMA, RRCRolloff: 0.2}, false))

	var got = d.Settings()
	assert.Equal(t, 3000.0, got.RFBandwidth)
	assert.Equal(t, EqualizerCMA, got.Equalizer)
	assert.Equal(t, 0.5, got.RRCRolloff)
	assert.Equal(t, EqualizerCMA, d.state.equalizer.Mode())

	require.NoError(t, d.ApplySettings([]string{KeyEqualizer}, Settings{Equalizer: EqualizerNone}, false))
	assert.Nil(t, d.state.equalizer)
}

func TestApplySettingsRejectsAndKeepsOld(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())
	var before = d.Settings()

	var err = d.ApplySettings([]string{"noSuchKey"}, DefaultSettings(), false)
	assert.ErrorIs(t, err, ErrUnknownSettingsKey)

	err = d.ApplySettings([]string{KeyRRCRolloff}, Settings{RRCRolloff: 0}, false)
	assert.ErrorIs(t, err, ErrInvalidRolloff)

	err = d.ApplySettings(nil, Settings{}, true)
	assert.ErrorIs(t, err, ErrInvalidBandwidth)

	assert.Equal(t, before, d.Settings())
}

func TestApplySettingsForceResets(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())

	var p = DefaultSignalParams()
	d.Feed(ModulateBPSK(RandomBits(500, 3), p))
	require.NotZero(t, d.Status().Symbols)

	// A plain change keeps the loops running.
	require.NoError(t, d.ApplySettings([]string{KeyPLLBandwidth}, Settings{PLLBandwidth: 0.05}, false))
	assert.NotZero(t, d.Status().Symbols)

	var s = DefaultSettings()
	s.Equalizer = EqualizerNone
	require.NoError(t, d.ApplySettings(nil, s, true))

	var st = d.Status()
	assert.Zero(t, st.Samples)
	assert.Zero(t, st.Symbols)
	assert.False(t, st.Locked)
	assert.Equal(t, s, d.Settings())
}

func TestApplyChannelSettings(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())

	assert.ErrorIs(t, d.ApplyChannelSettings(ChannelSettings{}), ErrInvalidSampleRate)
	assert.True(t, d.state.resampler.Bypass())

	require.NoError(t, d.ApplyChannelSettings(ChannelSettings{SampleRate: 48000}))
	assert.False(t, d.state.resampler.Bypass())

	d.Feed(make([]complex128, 4800))
	assert.Equal(t, int64(960), d.Status().Samples)
}

func TestApplySettingsSmallerChunkKeepsChunkSize(t *testing.T) {
	var s = DefaultSettings()
	s.DecoderChunkBits = 1000

	var sizes []int
	var decoder = DecoderFunc(func(bits []byte) []DecodedResult {
		sizes = append(sizes, len(bits))
		return nil
	})

	var d, err = NewDemodulator(s, ChannelSettings{SampleRate: ChannelSampleRate}, decoder)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	d.Feed(ModulateBPSK(RandomBits(700, 11), DefaultSignalParams()))
	var buffered = d.Status().Symbols
	require.Greater(t, buffered, int64(600))
	require.Empty(t, sizes)

	// The bits already buffered go out straight away, 100 at a time.
	require.NoError(t, d.ApplySettings([]string{KeyDecoderChunkBits}, Settings{DecoderChunkBits: 100}, false))
	assert.Len(t, sizes, int(buffered/100))

	d.Feed(ModulateBPSK(RandomBits(400, 12), DefaultSignalParams()))

	var st = d.Status()
	require.Len(t, sizes, int(st.Chunks))
	for i, n := range sizes {
		assert.Equal(t, 100, n, "chunk %d", i)
	}
	assert.Equal(t, st.Symbols/100, st.Chunks)
	assert.Len(t, d.state.decoderBits, int(st.Symbols%100))
}
