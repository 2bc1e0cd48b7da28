package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAcquireRelease(t *testing.T) {
	m := NewKeyedMutex()

	release, err := m.Acquire(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.Acquire(ctx, "room-1"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired while held, got %v", err)
	}

	release()

	release2, err := m.Acquire(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release2()
}

func TestReleaseIsIdempotent(t *testing.T) {
	m := NewKeyedMutex()

	release, err := m.Acquire(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()
	release() // second call must not free a slot someone else holds

	release2, err := m.Acquire(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer release2()

	if _, ok := m.TryAcquire("room-1"); ok {
		t.Fatal("double release freed the slot twice")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	m := NewKeyedMutex()

	release1, err := m.Acquire(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer release1()

	release2, err := m.Acquire(context.Background(), "room-2")
	if err != nil {
		t.Fatalf("holding room-1 must not block room-2: %v", err)
	}
	release2()
}

func TestMutualExclusionUnderContention(t *testing.T) {
	m := NewKeyedMutex()

	const workers = 32
	var inside, max int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background(), "room-1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > max {
				max = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if max != 1 {
		t.Fatalf("expected at most 1 holder in the critical section, saw %d", max)
	}
}
