package main

/*------------------------------------------------------------------
 *
 * Purpose:	Generate a synthetic STD-C recording for testing the
 *		demodulator.
 *
 * Description:	Frames carry the unique word in the first two columns
 *		and random bits elsewhere.  Output is interleaved I/Q
 *		in any format stdcdemod reads.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/pflag"

	stdc "github.com/doismellburning/stdcdemod/src"
)

func main() {
	var frames = pflag.IntP("frames", "n", 3, "Number of frames.")
	var sampleRate = pflag.Float64P("sample-rate", "r", stdc.ChannelSampleRate, "Output sample rate, per sec.")
	var cfo = pflag.Float64P("offset", "o", 0, "Carrier offset, Hz.")
	var delay = pflag.Float64P("delay", "d", 0, "Timing offset in samples.  May be fractional.")
	var amplitude = pflag.Float64P("amplitude", "a", 0.5, "Peak amplitude of a single pulse, before noise.")
	var noise = pflag.Float64P("noise", "N", 0, "Noise standard deviation per component.")
	var rolloff = pflag.Float64P("rolloff", "R", 0.5, "RRC roll-off.")
	var seed = pflag.Uint64P("seed", "s", 1, "Random seed for bits and noise.")
	var formatStr = pflag.StringP("format", "f", "cf32", "Output sample format: cu8, cs16 or cf32.")
	var outName = pflag.StringP("output", "w", "-", "Output file, - for stdout.")
	var bitsName = pflag.StringP("bits", "b", "", "Also write the transmitted bits to this file, one '0' or '1' per bit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - generate a test STD-C signal.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: stdcgen [options]\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	var logger = stdc.Logger()

	var format, formatErr = stdc.ParseIQFormat(*formatStr)
	if formatErr != nil {
		logger.Fatal("bad --format", "err", formatErr)
	}

	if *frames < 1 || *sampleRate < stdc.Baud {
		logger.Fatal("need at least one frame and a sample rate above the symbol rate")
	}

	var rng = rand.New(rand.NewPCG(*seed, *seed))
	var bits = stdc.MakeFrameBits(*frames, rng)

	var p = stdc.DefaultSignalParams()
	p.SampleRate = *sampleRate
	p.CFOHz = *cfo
	p.DelaySamples = *delay
	p.Amplitude = *amplitude
	p.NoiseStd = *noise
	p.Rolloff = *rolloff
	p.Seed = *seed

	var samples = stdc.ModulateBPSK(bits, p)

	var out io.Writer = os.Stdout
	if *outName != "-" {
		var f, err = os.Create(*outName)
		if err != nil {
			logger.Fatal("can't create output", "path", *outName, "err", err)
		}
		defer f.Close()
		out = f
	}

	var w = stdc.NewIQWriter(out, format)
	if err := w.Write(samples); err != nil {
		logger.Fatal("write failed", "err", err)
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("write failed", "err", err)
	}

	if *bitsName != "" {
		if err := writeBits(*bitsName, bits); err != nil {
			logger.Fatal("can't write bits", "path", *bitsName, "err", err)
		}
	}

	logger.Info("generated", "frames", *frames, "samples", len(samples), "rate", *sampleRate, "format", format)
}

func writeBits(path string, bits []byte) error {
	var f, err = os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w = bufio.NewWriter(f)
	for i, b := range bits {
		w.WriteByte('0' + b)
		if (i+1)%stdc.UniqueWordStride == 0 {
			w.WriteByte('\n')
		}
	}

	return w.Flush()
}
