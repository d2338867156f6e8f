package stdc

// Fixed parameters of the STD-C receive chain.

/*
 * Internal processing rate.
 * Whatever the channelizer delivers is shifted and resampled to this
 * before anything else happens.
 */

const ChannelSampleRate = 9600

/*
 * STD-C forward/return channels run at 1200 symbols per second.
 * 9600 / 1200 gives an integer number of samples per symbol which keeps
 * the Gardner lookback simple.
 */

const Baud = 1200

const SamplesPerSymbol = ChannelSampleRate / Baud

/*
 * Coarse frequency estimator.
 * 2048 points at 9600 S/s is 4.6875 Hz per bin of the squared signal,
 * or about 2.3 Hz of carrier offset after undoing the doubling.
 */

const FFTSize = 2048

/*
 * Matched filter length in symbols.  Taps = span * sps + 1.
 */

const RRCSpan = 8

/*
 * Unique word.
 *
 * A frame is 64 rows of 162 symbols.  The first two symbols of each row
 * carry the same bit of the unique word, so reading down the first column
 * (or the second) spells out the 64 bit pattern below, or its complement
 * when the carrier loop settled on the other phase.
 */

const UniqueWord uint64 = 0x07eacdda4e2f28c2

const UniqueWordRows = 64

const UniqueWordStride = 162

const FrameSymbols = UniqueWordRows * UniqueWordStride // 10368

/*
 * Equalizer delay line.  8 * sps + 1 with one sample per symbol.
 */

const EqualizerTaps = 9

/*
 * Frame sync is declared lost after this many buffer lengths
 * without a fresh unique word.
 */

const SyncLossFrames = 3

const DefaultDecoderChunkBits = 5000
