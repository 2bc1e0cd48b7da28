package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAcquired is returned when the context expires before the key's
// critical section becomes free.
var ErrNotAcquired = errors.New("lock not acquired within wait bound")

// KeyedMutex serializes work per key. Admissions for different resources hold
// different keys and never block each other; within one key at most one holder
// is inside the critical section at a time.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		slots: make(map[string]chan struct{}),
	}
}

// Acquire blocks until the key is free or ctx ends. On success it returns a
// release func that must be called exactly once; calling it again is a no-op.
func (m *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	slot := m.slot(key)

	select {
	case slot <- struct{}{}:
		var once sync.Once
		release := func() {
			once.Do(func() { <-slot })
		}
		return release, nil
	case <-ctx.Done():
		return nil, ErrNotAcquired
	}
}

// TryAcquire is Acquire without waiting.
func (m *KeyedMutex) TryAcquire(key string) (func(), bool) {
	slot := m.slot(key)

	select {
	case slot <- struct{}{}:
		var once sync.Once
		release := func() {
			once.Do(func() { <-slot })
		}
		return release, true
	default:
		return nil, false
	}
}

func (m *KeyedMutex) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		m.slots[key] = slot
	}
	return slot
}
