package syncutil

import (
	"context"
	"sync"
	"time"
)

type dedupeEntry[V any] struct {
	done    chan struct{}
	val     V
	err     error
	expires time.Time
}

// Deduplicator collapses concurrent and recent calls that share a key into a
// single execution. While a call is in flight every caller with the same key
// waits on it; after it completes the result is served from cache until the
// TTL passes.
type Deduplicator[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*dedupeEntry[V]
	now     func() time.Time
}

func NewDeduplicator[V any](ttl time.Duration) *Deduplicator[V] {
	d := &Deduplicator[V]{
		ttl:     ttl,
		entries: make(map[string]*dedupeEntry[V]),
		now:     time.Now,
	}
	go d.sweep()
	return d
}

// Do returns the shared result for key, invoking fn only when no live entry
// exists. A waiter whose context ends before the shared call finishes gets
// the context error; the call itself keeps running for the others.
func (d *Deduplicator[V]) Do(ctx context.Context, key string, fn func() (V, error)) (V, error) {
	d.mu.Lock()
	e, live := d.entries[key]
	if live {
		select {
		case <-e.done:
			if d.now().Before(e.expires) {
				d.mu.Unlock()
				return e.val, e.err
			}
			live = false
		default:
			// still in flight, share it
		}
	}
	if !live {
		e = &dedupeEntry[V]{done: make(chan struct{})}
		d.entries[key] = e
		d.mu.Unlock()

		e.val, e.err = fn()
		d.mu.Lock()
		e.expires = d.now().Add(d.ttl)
		d.mu.Unlock()
		close(e.done)
		return e.val, e.err
	}
	d.mu.Unlock()

	select {
	case <-e.done:
		return e.val, e.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Forget drops the cached entry for key. An in-flight call is unaffected for
// the callers already waiting on it.
func (d *Deduplicator[V]) Forget(key string) {
	d.mu.Lock()
	delete(d.entries, key)
	d.mu.Unlock()
}

func (d *Deduplicator[V]) sweep() {
	for {
		time.Sleep(time.Minute)
		now := d.now()
		d.mu.Lock()
		for key, e := range d.entries {
			select {
			case <-e.done:
				if !now.Before(e.expires) {
					delete(d.entries, key)
				}
			default:
			}
		}
		d.mu.Unlock()
	}
}
