package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Side channel view of the signal at each stage, for
 *		plotting.
 *
 * Description:	Every value offered is either queued or dropped.  A
 *		slow reader only loses points, it never holds up the
 *		receive chain.
 *
 *---------------------------------------------------------------*/

import (
	"sync/atomic"
)

type ScopeStream int

const (
	ScopeRaw ScopeStream = iota
	ScopeAGC
	ScopeCFO
	ScopeMatchedFilter
	ScopeTimingError
	ScopeCostasVector
	ScopeDerotated
	ScopeEqualized
	ScopeEqualizerError
	ScopeBit
	scopeStreamCount
)

var scopeStreamNames = [scopeStreamCount]string{
	"raw", "agc", "cfo", "matched_filter", "timing_error",
	"costas_vector", "derotated", "equalized", "equalizer_error", "bit",
}

func (s ScopeStream) String() string {
	if s >= 0 && s < scopeStreamCount {
		return scopeStreamNames[s]
	}

	return "unknown"
}

// Sample streams run at the channel rate, the rest once per symbol.
func (s ScopeStream) PerSymbol() bool {
	return s >= ScopeMatchedFilter
}

type ScopePoint struct {
	Stream ScopeStream
	Index  int64 // sample or symbol counter
	Value  complex128
}

type ScopeTaps struct {
	enabled [scopeStreamCount]bool
	points  chan ScopePoint
	dropped atomic.Uint64
}

// NewScopeTaps makes a tap set with room for depth points.  No stream is
// enabled until Enable is called.
func NewScopeTaps(depth int) *ScopeTaps {
	return &ScopeTaps{
		points: make(chan ScopePoint, depth),
	}
}

// Enable is meant to be called before the taps are attached to a demodulator.
func (t *ScopeTaps) Enable(streams ...ScopeStream) {
	for _, s := range streams {
		if s >= 0 && s < scopeStreamCount {
			t.enabled[s] = true
		}
	}
}

func (t *ScopeTaps) Points() <-chan ScopePoint {
	return t.points
}

func (t *ScopeTaps) Dropped() uint64 {
	return t.dropped.Load()
}

// offer never blocks.  Safe on a nil receiver.
func (t *ScopeTaps) offer(stream ScopeStream, index int64, value complex128) {
	if t == nil || !t.enabled[stream] {
		return
	}

	select {
	case t.points <- ScopePoint{Stream: stream, Index: index, Value: value}:
	default:
		t.dropped.Add(1)
	}
}
