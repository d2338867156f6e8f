package stdc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleQueueDrainsInOrder(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())
	var q = NewSampleQueue()

	var samples = ModulateBPSK(RandomBits(400, 8), DefaultSignalParams())
	for i := 0; i < len(samples); i += 100 {
		require.NoError(t, q.Push(samples[i:i+100]))
	}
	q.Close()

	assert.ErrorIs(t, q.Push(nil), ErrQueueClosed)

	require.NoError(t, q.Run(context.Background(), d))
	assert.Zero(t, q.Len())

	// Same result as feeding everything in one go.
	var ref = newTestDemodulator(t, DefaultSettings())
	ref.Feed(samples)

	assert.Equal(t, ref.Status(), d.Status())
}

func TestSampleQueueConcurrentProducer(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())
	var q = NewSampleQueue()

	var done = make(chan error, 1)
	go func() {
		done <- q.Run(context.Background(), d)
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, q.Push(make([]complex128, 80)))
	}
	q.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	assert.Equal(t, int64(4000), d.Status().Samples)
}

func TestSampleQueueCancel(t *testing.T) {
	var d = newTestDemodulator(t, DefaultSettings())
	var q = NewSampleQueue()

	var ctx, cancel = context.WithCancel(context.Background())

	var done = make(chan error, 1)
	go func() {
		done <- q.Run(ctx, d)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
