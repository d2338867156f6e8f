package main

/*------------------------------------------------------------------
 *
 * Purpose:	Demodulate an Inmarsat STD-C channel from an I/Q
 *		recording or a pipe.
 *
 * Description:	Samples are read in blocks by one goroutine and
 *		queued for the demodulator goroutine.  Lock, frame sync
 *		and carrier offsets are logged as they change and
 *		optionally exported for Prometheus.
 *
 *		Demodulated bits are handed to the packet decoder in
 *		chunks.  Packet decoding itself lives elsewhere; this
 *		program only reports the chunks at debug level.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	stdc "github.com/doismellburning/stdcdemod/src"
)

const readBlockSamples = 4096

func main() {
	var sampleRate = pflag.Float64P("sample-rate", "r", stdc.ChannelSampleRate, "Sample rate of the input, per sec.")
	var formatStr = pflag.StringP("format", "f", "cf32", "Input sample format: cu8, cs16 or cf32.")
	var offset = pflag.Float64P("offset", "o", 0, "Frequency of the STD-C carrier in the input, Hz from centre.")
	var equalizerStr = pflag.StringP("equalizer", "e", "", "Equalizer: none, cma or lms.  Overrides the configuration file.")
	var configFileName = pflag.StringP("config-file", "c", "", "YAML settings file.")
	var logFile = pflag.StringP("log-file", "l", "", "CSV file for decoded results.")
	var logDir = pflag.StringP("log-dir", "L", "", "Directory for daily CSV files of decoded results.")
	var useFileTime = pflag.BoolP("use-file-time", "t", false, "Time stamp results from the recording rather than the wall clock.")
	var startTimeStr = pflag.StringP("start-time", "T", "", "RFC 3339 time of the first sample.  Default is the input file modification time.")
	var statusInterval = pflag.DurationP("status-interval", "s", 10*time.Second, "How often to log demodulator status.  0 to disable.")
	var metricsAddr = pflag.StringP("metrics-addr", "m", "", "Serve Prometheus metrics on this address, e.g. :9100.")
	var verbose = pflag.CountP("verbose", "v", "More logging.  Repeat for more.")
	var quiet = pflag.CountP("quiet", "q", "Less logging.  Repeat for less.")
	var showVersion = pflag.BoolP("version", "V", false, "Print version and exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Inmarsat STD-C BPSK demodulator.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: stdcdemod [options] [ file | - ]\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Input is interleaved I/Q, read from stdin when no file is given.\n")
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	if *showVersion {
		stdc.PrintVersion(os.Stdout, "stdcdemod", *verbose > 0)
		os.Exit(0)
	}

	stdc.SetLogger(stdc.NewLogger(os.Stderr, stdc.LogLevelFromVerbosity(*verbose, *quiet)))
	var logger = stdc.Logger()

	var format, formatErr = stdc.ParseIQFormat(*formatStr)
	if formatErr != nil {
		logger.Fatal("bad --format", "err", formatErr)
	}

	var settings = stdc.DefaultSettings()
	if *configFileName != "" {
		var loaded, err = stdc.LoadSettings(*configFileName)
		if err != nil {
			logger.Fatal("can't load settings", "err", err)
		}
		settings = loaded
	}

	/*
	 * Command line overrides the configuration file.
	 */

	if pflag.CommandLine.Changed("offset") {
		settings.InputFrequencyOffset = *offset
	}

	if *equalizerStr != "" {
		var mode, err = stdc.ParseEqualizerMode(*equalizerStr)
		if err != nil {
			logger.Fatal("bad --equalizer", "err", err)
		}
		settings.Equalizer = mode
	}

	switch {
	case *logDir != "":
		settings.LogEnabled = true
		settings.LogDailyNames = true
		settings.LogFilename = *logDir
	case *logFile != "":
		settings.LogEnabled = true
		settings.LogDailyNames = false
		settings.LogFilename = *logFile
	}

	if *useFileTime {
		settings.UseFileTime = true
	}

	/*
	 * Open the input.
	 */

	var input io.Reader = os.Stdin
	var inputName = "stdin"
	var startTime time.Time

	if pflag.NArg() > 0 && pflag.Arg(0) != "-" {
		if pflag.NArg() > 1 {
			logger.Warn("file(s) beyond the first are ignored")
		}

		inputName = pflag.Arg(0)

		var f, err = os.Open(inputName)
		if err != nil {
			logger.Fatal("can't open input", "path", inputName, "err", err)
		}
		defer f.Close()

		if stat, statErr := f.Stat(); statErr == nil {
			startTime = stat.ModTime()
		}

		input = f
	}

	if *startTimeStr != "" {
		var t, err = time.Parse(time.RFC3339, *startTimeStr)
		if err != nil {
			logger.Fatal("bad --start-time", "err", err)
		}
		startTime = t
	}

	var demod, demodErr = stdc.NewDemodulator(settings, stdc.ChannelSettings{SampleRate: *sampleRate}, chunkReporter{})
	if demodErr != nil {
		logger.Fatal("bad configuration", "err", demodErr)
	}
	defer demod.Close()

	if settings.UseFileTime && !startTime.IsZero() {
		demod.SetFileStartTime(startTime)
	}

	demod.SetResultSink(func(results []stdc.DecodedResult) {
		for _, r := range results {
			fmt.Printf("%s [%d] %s %s\n", r.Time.UTC().Format(time.RFC3339), r.Chunk, r.Type, r.Text)
		}
	})

	if *metricsAddr != "" {
		serveMetrics(*metricsAddr, demod)
	}

	logger.Info("demodulating", "input", inputName, "format", format, "rate", *sampleRate,
		"offset", settings.InputFrequencyOffset, "equalizer", settings.Equalizer)

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var queue = stdc.NewSampleQueue()

	go readInput(ctx, stdc.NewIQReader(input, format), queue)

	if *statusInterval > 0 {
		go reportStatus(ctx, demod, *statusInterval)
	}

	var runErr = queue.Run(ctx, demod)

	logStatus(demod.Status())

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("demodulator stopped", "err", runErr)
		demod.Close()
		os.Exit(1)
	}
} /* end main */

// readInput pushes blocks until end of input, then closes the queue.
func readInput(ctx context.Context, r *stdc.IQReader, queue *stdc.SampleQueue) {
	defer queue.Close()

	for ctx.Err() == nil {
		var block = make([]complex128, readBlockSamples)

		var n, err = r.Read(block)
		if n > 0 {
			if pushErr := queue.Push(block[:n]); pushErr != nil {
				return
			}
		}

		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			stdc.Logger().Error("input read failed", "err", err)
			return
		}
	}
}

func reportStatus(ctx context.Context, demod *stdc.Demodulator, interval time.Duration) {
	var ticker = time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logStatus(demod.Status())
		}
	}
}

func logStatus(st stdc.Status) {
	stdc.Logger().Info("status",
		"locked", st.Locked,
		"synced", st.SyncedToFrame,
		"offsetHz", fmt.Sprintf("%.1f", st.FreqOffsetHz()),
		"coarseHz", st.CoarseFreqOffsetHz,
		"evm", fmt.Sprintf("%.3f", st.EVM),
		"symbols", st.Symbols,
		"uniqueWords", st.UniqueWords,
		"chunks", st.Chunks)
}

func serveMetrics(addr string, demod *stdc.Demodulator) {
	var registry = prometheus.NewRegistry()
	registry.MustRegister(stdc.NewMetricsCollector(demod, nil))

	var mux = http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		stdc.Logger().Info("serving metrics", "addr", addr)

		if err := http.ListenAndServe(addr, mux); err != nil {
			stdc.Logger().Error("metrics server stopped", "err", err)
		}
	}()
}

// chunkReporter stands in for a packet decoder.
type chunkReporter struct{}

func (chunkReporter) Decode(bits []byte) []stdc.DecodedResult {
	var ones = 0
	for _, b := range bits {
		ones += int(b)
	}

	stdc.Logger().Debug("decoder chunk", "bits", len(bits), "ones", ones)

	return nil
}
