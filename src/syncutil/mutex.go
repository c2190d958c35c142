package syncutil

import "context"

// Mutex is an exclusion primitive whose Lock can be abandoned via context.
// Waiters queue on the channel and are admitted one at a time.
type Mutex struct {
	slot chan struct{}
}

func NewMutex() *Mutex {
	return &Mutex{slot: make(chan struct{}, 1)}
}

func (m *Mutex) Lock(ctx context.Context) error {
	select {
	case m.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mutex) TryLock() bool {
	select {
	case m.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *Mutex) Unlock() {
	select {
	case <-m.slot:
	default:
		panic("syncutil: unlock of unlocked mutex")
	}
}

// RunExclusive runs fn while holding the mutex. Two concurrent calls never
// overlap their fn bodies.
func (m *Mutex) RunExclusive(ctx context.Context, fn func() error) error {
	if err := m.Lock(ctx); err != nil {
		return err
	}
	defer m.Unlock()
	return fn()
}
