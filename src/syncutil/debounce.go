package syncutil

import (
	"sync"
	"time"
)

// DebouncedQueue buffers items and hands them to a processor in batches,
// either when the debounce delay elapses or when the buffer reaches maxBatch.
// A failed batch is put back at the front of the buffer and retried after the
// same delay.
type DebouncedQueue[T any] struct {
	mu       sync.Mutex
	items    []T
	maxBatch int
	delay    time.Duration
	process  func([]T) error
	timer    *time.Timer
	closed   bool
	inFlight sync.WaitGroup
}

func NewDebouncedQueue[T any](maxBatch int, delay time.Duration, process func([]T) error) *DebouncedQueue[T] {
	if maxBatch < 1 {
		maxBatch = 1
	}
	return &DebouncedQueue[T]{
		maxBatch: maxBatch,
		delay:    delay,
		process:  process,
	}
}

// Add buffers an item. Items added after Close are dropped.
func (q *DebouncedQueue[T]) Add(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, item)
	if len(q.items) >= q.maxBatch {
		q.flushLocked()
		return
	}
	if q.timer == nil {
		q.timer = time.AfterFunc(q.delay, q.onTimer)
	}
}

// Len reports the number of buffered (not yet in-flight) items.
func (q *DebouncedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *DebouncedQueue[T]) onTimer() {
	q.mu.Lock()
	q.timer = nil
	q.flushLocked()
	q.mu.Unlock()
}

// flushLocked takes the buffered batch and processes it asynchronously.
// Caller holds q.mu.
func (q *DebouncedQueue[T]) flushLocked() {
	if len(q.items) == 0 {
		return
	}
	batch := q.items
	q.items = nil
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.inFlight.Add(1)
	go q.run(batch)
}

func (q *DebouncedQueue[T]) run(batch []T) {
	defer q.inFlight.Done()
	if err := q.process(batch); err == nil {
		return
	}
	// Re-queue the failed batch ahead of anything added meanwhile and retry
	// after the same delay. When closing, Close picks the batch up instead.
	q.mu.Lock()
	q.items = append(batch, q.items...)
	if !q.closed && q.timer == nil {
		q.timer = time.AfterFunc(q.delay, q.onTimer)
	}
	q.mu.Unlock()
}

// Close stops the timer, waits for in-flight batches, and processes whatever
// remains buffered one final time.
func (q *DebouncedQueue[T]) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.mu.Unlock()

	q.inFlight.Wait()

	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}
	return q.process(batch)
}
