package syncutil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDeduplicator[V any](ttl time.Duration) (*Deduplicator[V], *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := &Deduplicator[V]{
		ttl:     ttl,
		entries: make(map[string]*dedupeEntry[V]),
		now:     func() time.Time { return now },
	}
	return d, &now
}

func TestDeduplicatorSharesInFlightCall(t *testing.T) {
	d, _ := newTestDeduplicator[*int](time.Second)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func() (*int, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		v := 42
		return &v, nil
	}

	results := make([]*int, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = d.Do(context.Background(), "k", fn)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = d.Do(context.Background(), "k", func() (*int, error) {
			t.Error("second caller must not execute")
			return nil, nil
		})
	}()

	close(release)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	// Both callers observe the same underlying result instance.
	require.Same(t, results[0], results[1])
	require.Equal(t, 42, *results[0])
}

func TestDeduplicatorServesCachedResultWithinTTL(t *testing.T) {
	d, now := newTestDeduplicator[int](time.Second)

	var calls int
	fn := func() (int, error) { calls++; return calls, nil }

	v1, err := d.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	v2, err := d.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Equal(t, 1, calls)

	*now = now.Add(2 * time.Second)
	v3, err := d.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	require.Equal(t, 2, v3)
}

func TestDeduplicatorForget(t *testing.T) {
	d, _ := newTestDeduplicator[int](time.Minute)

	var calls int
	fn := func() (int, error) { calls++; return calls, nil }

	_, _ = d.Do(context.Background(), "k", fn)
	d.Forget("k")
	_, _ = d.Do(context.Background(), "k", fn)
	require.Equal(t, 2, calls)
}

func TestDeduplicatorWaiterContextCancel(t *testing.T) {
	d, _ := newTestDeduplicator[int](time.Second)

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = d.Do(context.Background(), "k", func() (int, error) {
			close(started)
			<-release
			return 7, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Do(ctx, "k", func() (int, error) { return 0, nil })
	require.ErrorIs(t, err, context.Canceled)
	close(release)
}
