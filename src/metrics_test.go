package stdc

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	var s = DefaultSettings()
	s.DecoderChunkBits = 100

	var d = newTestDemodulator(t, s)
	var c = NewMetricsCollector(d, prometheus.Labels{"channel": "test"})

	assert.Equal(t, 11, testutil.CollectAndCount(c))

	var reg = prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	d.Feed(make([]complex128, 8*250))

	var expected = `
# HELP stdc_demod_decoder_chunks_total Bit chunks handed to the decoder
# TYPE stdc_demod_decoder_chunks_total counter
stdc_demod_decoder_chunks_total{channel="test"} 2
# HELP stdc_demod_synced 1 when synced to the frame unique word
# TYPE stdc_demod_synced gauge
stdc_demod_synced{channel="test"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"stdc_demod_decoder_chunks_total", "stdc_demod_synced"))

	var st = d.Status()
	assert.Equal(t, int64(2), st.Chunks)
	assert.Zero(t, st.Results)
}
