package syncutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMutexCriticalSectionsNeverOverlap(t *testing.T) {
	m := NewMutex()
	var inside, maxInside int
	var track sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.RunExclusive(context.Background(), func() error {
				track.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				track.Unlock()

				time.Sleep(time.Millisecond)

				track.Lock()
				inside--
				track.Unlock()
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, maxInside)
}

func TestMutexLockHonorsContext(t *testing.T) {
	m := NewMutex()
	require.NoError(t, m.Lock(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.Lock(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	m.Unlock()
	require.NoError(t, m.Lock(context.Background()))
	m.Unlock()
}

func TestMutexTryLock(t *testing.T) {
	m := NewMutex()
	require.True(t, m.TryLock())
	require.False(t, m.TryLock())
	m.Unlock()
	require.True(t, m.TryLock())
	m.Unlock()
}

func TestSemaphoreCeiling(t *testing.T) {
	s := NewSemaphore(3)
	var peak, current int
	var track sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, s.Acquire(context.Background()))
			defer s.Release()

			track.Lock()
			current++
			if current > peak {
				peak = current
			}
			track.Unlock()

			time.Sleep(time.Millisecond)

			track.Lock()
			current--
			track.Unlock()
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, peak, 3)
	require.Equal(t, 0, s.InUse())
}

func TestSemaphoreTryAcquire(t *testing.T) {
	s := NewSemaphore(1)
	require.True(t, s.TryAcquire())
	require.False(t, s.TryAcquire())
	s.Release()
	require.True(t, s.TryAcquire())
	s.Release()
}
