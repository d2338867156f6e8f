package stdc

import (
	"time"
)

// DecodedResult is whatever the packet decoder got out of a chunk.  The
// demodulator fills in Chunk and Time.
type DecodedResult struct {
	Chunk   int
	Time    time.Time
	Type    string
	Payload []byte
	Text    string
}

// Decoder turns a chunk of decided bits (one bit per byte, 0 or 1) into
// zero or more results.  It runs on the demodulator's goroutine and must
// not keep a reference to bits after returning.  Returning nothing is not
// an error, just no packet this time.
type Decoder interface {
	Decode(bits []byte) []DecodedResult
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(bits []byte) []DecodedResult

func (f DecoderFunc) Decode(bits []byte) []DecodedResult {
	return f(bits)
}

// ResultSink receives the results of every chunk that produced any.
type ResultSink func(results []DecodedResult)

// NullDecoder drops everything.  Handy when only lock/sync matter.
var NullDecoder = DecoderFunc(func([]byte) []DecodedResult { return nil })
