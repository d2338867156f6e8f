package stdc

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exports a demodulator's Status on every scrape.
type MetricsCollector struct {
	demod *Demodulator

	locked        *prometheus.Desc // 1 when the carrier loop is locked
	synced        *prometheus.Desc // 1 when synced to the unique word
	coarseFreq    *prometheus.Desc // Coarse offset in use, Hz
	coarseCurrent *prometheus.Desc // Latest coarse estimate, Hz
	fineFreq      *prometheus.Desc // Costas loop frequency, Hz
	evm           *prometheus.Desc // RMS error vector over the last frame
	agcGain       *prometheus.Desc
	symbols       *prometheus.Desc
	uniqueWords   *prometheus.Desc
	chunks        *prometheus.Desc
	results       *prometheus.Desc
}

func NewMetricsCollector(demod *Demodulator, constLabels prometheus.Labels) *MetricsCollector {
	var desc = func(name string, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("stdc", "demod", name), help, nil, constLabels)
	}

	return &MetricsCollector{
		demod:         demod,
		locked:        desc("locked", "1 when the carrier loop is locked"),
		synced:        desc("synced", "1 when synced to the frame unique word"),
		coarseFreq:    desc("coarse_freq_offset_hz", "Coarse carrier frequency offset being corrected"),
		coarseCurrent: desc("coarse_freq_offset_current_hz", "Most recent coarse carrier frequency estimate"),
		fineFreq:      desc("fine_freq_hz", "Residual frequency tracked by the carrier loop"),
		evm:           desc("evm", "RMS error vector magnitude over the symbol history"),
		agcGain:       desc("agc_gain", "AGC gain"),
		symbols:       desc("symbols_total", "Symbols recovered"),
		uniqueWords:   desc("unique_words_total", "Unique words detected"),
		chunks:        desc("decoder_chunks_total", "Bit chunks handed to the decoder"),
		results:       desc("decoded_results_total", "Results returned by the decoder"),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.locked
	ch <- c.synced
	ch <- c.coarseFreq
	ch <- c.coarseCurrent
	ch <- c.fineFreq
	ch <- c.evm
	ch <- c.agcGain
	ch <- c.symbols
	ch <- c.uniqueWords
	ch <- c.chunks
	ch <- c.results
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	var s = c.demod.Status()

	ch <- prometheus.MustNewConstMetric(c.locked, prometheus.GaugeValue, boolToFloat(s.Locked))
	ch <- prometheus.MustNewConstMetric(c.synced, prometheus.GaugeValue, boolToFloat(s.SyncedToFrame))
	ch <- prometheus.MustNewConstMetric(c.coarseFreq, prometheus.GaugeValue, s.CoarseFreqOffsetHz)
	ch <- prometheus.MustNewConstMetric(c.coarseCurrent, prometheus.GaugeValue, s.CoarseFreqOffsetCurrentHz)
	ch <- prometheus.MustNewConstMetric(c.fineFreq, prometheus.GaugeValue, s.FineFreqHz)
	ch <- prometheus.MustNewConstMetric(c.evm, prometheus.GaugeValue, s.EVM)
	ch <- prometheus.MustNewConstMetric(c.agcGain, prometheus.GaugeValue, s.AGCGain)
	ch <- prometheus.MustNewConstMetric(c.symbols, prometheus.CounterValue, float64(s.Symbols))
	ch <- prometheus.MustNewConstMetric(c.uniqueWords, prometheus.CounterValue, float64(s.UniqueWords))
	ch <- prometheus.MustNewConstMetric(c.chunks, prometheus.CounterValue, float64(s.Chunks))
	ch <- prometheus.MustNewConstMetric(c.results, prometheus.CounterValue, float64(s.Results))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
