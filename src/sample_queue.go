package stdc

/*------------------------------------------------------------------
 *
 * Purpose:	Queue between whatever produces samples (file reader,
 *		SDR callback, network) and the demodulator goroutine.
 *
 * Description:	One producer pushes blocks, one consumer takes them in
 *		the same order and feeds them to the demodulator.  The
 *		producer never waits on the demodulator, or on the
 *		packet decoder running inside it.
 *
 *		Blocks are kept in a slice guarded by a mutex.  A wake
 *		channel with room for one token tells the consumer
 *		there is something to do.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"sync"
)

// Above this many blocks something downstream is stuck.
const queueWarnLength = 1000

type SampleQueue struct {
	mutex   sync.Mutex
	blocks  [][]complex128
	closed  bool
	warned  bool
	wake    chan struct{}
	pushed  int64
	removed int64
}

func NewSampleQueue() *SampleQueue {
	return &SampleQueue{
		wake: make(chan struct{}, 1),
	}
}

/*-------------------------------------------------------------------
 *
 * Name:        Push
 *
 * Purpose:     Add a block of samples to the end of the queue.
 *
 * Inputs:	block	- Samples at the channel rate.  The queue takes
 *			  ownership, the caller must not reuse it.
 *
 * Returns:	ErrQueueClosed after Close.
 *
 *--------------------------------------------------------------------*/

func (q *SampleQueue) Push(block []complex128) error {
	q.mutex.Lock()

	if q.closed {
		q.mutex.Unlock()
		return ErrQueueClosed
	}

	q.blocks = append(q.blocks, block)
	q.pushed++
	var length = len(q.blocks)

	if length <= queueWarnLength {
		q.warned = false
	}
	var warn = length > queueWarnLength && !q.warned
	if warn {
		q.warned = true
	}

	q.mutex.Unlock()

	if warn {
		logger.Warn("sample queue is out of control, demodulator is probably stuck", "length", length)
	}

	q.signal()

	return nil
} /* end Push */

func (q *SampleQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
		// Already signalled.
	}
}

// Close lets Run finish once the queue is drained.
func (q *SampleQueue) Close() {
	q.mutex.Lock()
	q.closed = true
	q.mutex.Unlock()

	q.signal()
}

// remove takes the oldest block.  ok is false when the queue is empty.
func (q *SampleQueue) remove() (block []complex128, ok bool, closed bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.blocks) == 0 {
		return nil, false, q.closed
	}

	block = q.blocks[0]
	q.blocks[0] = nil
	q.blocks = q.blocks[1:]
	q.removed++

	return block, true, q.closed
}

func (q *SampleQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.blocks)
}

/*-------------------------------------------------------------------
 *
 * Name:        Run
 *
 * Purpose:     Feed queued blocks to the demodulator, in order, until
 *		the context is cancelled or the queue is closed and empty.
 *
 * Returns:	ctx.Err() on cancellation, nil when closed and drained.
 *
 *--------------------------------------------------------------------*/

func (q *SampleQueue) Run(ctx context.Context, demod *Demodulator) error {
	for {
		var block, ok, closed = q.remove()

		if ok {
			demod.Feed(block)

			if err := ctx.Err(); err != nil {
				return err
			}

			continue
		}

		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
} /* end Run */
