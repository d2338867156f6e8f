package stdc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIQRoundTrip(t *testing.T) {
	var tests = []struct {
		format  IQFormat
		samples []complex128
	}{
		{IQFormatCF32, []complex128{complex(0.5, -0.25), complex(-1, 1), 0, complex(0.125, 3)}},
		{IQFormatCS16, []complex128{complex(0.5, -0.25), complex(-1, 1.0/32768), 0, complex(100.0/32768, -7.0/32768)}},
		{IQFormatCU8, []complex128{complex((0-127.5)/127.5, (255-127.5)/127.5), complex((100-127.5)/127.5, (128-127.5)/127.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer

			var w = NewIQWriter(&buf, tt.format)
			require.NoError(t, w.Write(tt.samples))
			require.NoError(t, w.Flush())
			assert.Equal(t, len(tt.samples)*tt.format.BytesPerSample(), buf.Len())

			var r = NewIQReader(&buf, tt.format)
			var got = make([]complex128, 16)

			var n, err = r.Read(got)
			require.NoError(t, err)
			require.Equal(t, len(tt.samples), n)

			for i := range tt.samples {
				assert.InDelta(t, real(tt.samples[i]), real(got[i]), 1e-12, "sample %d", i)
				assert.InDelta(t, imag(tt.samples[i]), imag(got[i]), 1e-12, "sample %d", i)
			}

			n, err = r.Read(got)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestIQReaderDropsPartialSample(t *testing.T) {
	var buf bytes.Buffer

	var w = NewIQWriter(&buf, IQFormatCS16)
	require.NoError(t, w.Write([]complex128{0.5, -0.5, 0.25}))
	require.NoError(t, w.Flush())
	buf.Write([]byte{1, 2})

	var r = NewIQReader(&buf, IQFormatCS16)
	var got = make([]complex128, 2)

	var n, err = r.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, complex(0.25, 0), got[0])

	n, err = r.Read(got)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestIQWriterClamps(t *testing.T) {
	var buf bytes.Buffer

	var w = NewIQWriter(&buf, IQFormatCS16)
	require.NoError(t, w.Write([]complex128{complex(2, -2)}))
	require.NoError(t, w.Flush())

	var got = make([]complex128, 1)
	var _, err = NewIQReader(&buf, IQFormatCS16).Read(got)
	require.NoError(t, err)
	assert.Equal(t, complex(32767.0/32768, -1), got[0])
}

func TestParseIQFormat(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want IQFormat
	}{
		{"cu8", IQFormatCU8},
		{"CS16", IQFormatCS16},
		{"fc32", IQFormatCF32},
		{"f32", IQFormatCF32},
	} {
		var got, err = ParseIQFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var _, err = ParseIQFormat("wav")
	assert.ErrorIs(t, err, ErrUnknownIQFormat)
}
