package syncutil

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
	failN   int
}

func (r *batchRecorder) process(batch []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failN > 0 {
		r.failN--
		return errors.New("downstream unavailable")
	}
	cp := make([]string, len(batch))
	copy(cp, batch)
	r.batches = append(r.batches, cp)
	return nil
}

func (r *batchRecorder) all() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}

func TestDebouncedQueueFlushesOnMaxBatch(t *testing.T) {
	rec := &batchRecorder{}
	q := NewDebouncedQueue(3, time.Hour, rec.process)

	q.Add("a")
	q.Add("b")
	require.Equal(t, 2, q.Len())
	q.Add("c")

	require.Eventually(t, func() bool {
		b := rec.all()
		return len(b) == 1 && len(b[0]) == 3
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Close())
}

func TestDebouncedQueueFlushesOnTimer(t *testing.T) {
	rec := &batchRecorder{}
	q := NewDebouncedQueue(100, 20*time.Millisecond, rec.process)

	q.Add("a")
	q.Add("b")

	require.Eventually(t, func() bool {
		b := rec.all()
		return len(b) == 1 && len(b[0]) == 2
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Close())
}

func TestDebouncedQueueRetriesFailedBatch(t *testing.T) {
	rec := &batchRecorder{failN: 1}
	q := NewDebouncedQueue(2, 10*time.Millisecond, rec.process)

	q.Add("a")
	q.Add("b")

	// First attempt fails, the batch is re-queued and retried after the
	// same delay.
	require.Eventually(t, func() bool {
		b := rec.all()
		return len(b) == 1 && len(b[0]) == 2
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Close())
}

func TestDebouncedQueueCloseDrains(t *testing.T) {
	rec := &batchRecorder{}
	q := NewDebouncedQueue(100, time.Hour, rec.process)

	q.Add("a")
	require.NoError(t, q.Close())

	b := rec.all()
	require.Len(t, b, 1)
	require.Equal(t, []string{"a"}, b[0])

	// Adds after close are dropped.
	q.Add("b")
	require.Equal(t, 0, q.Len())
}
