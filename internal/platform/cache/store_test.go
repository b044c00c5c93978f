package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_BytesHonourPerKeyTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if err := store.SetBytes(t.Context(), "fixtures:39:20", []byte(`[1]`), time.Minute); err != nil {
		t.Fatalf("SetBytes error: %v", err)
	}
	if raw, ok, _ := store.GetBytes(t.Context(), "fixtures:39:20"); !ok || string(raw) != "[1]" {
		t.Fatalf("expected cached payload, got ok=%v raw=%q", ok, raw)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.GetBytes(t.Context(), "fixtures:39:20"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(t.Context(), "fixtures:39:20", 1)
	store.Set(t.Context(), "fixtures:140:20", 2)
	store.Set(t.Context(), "teams:39", 3)

	_ = store.DeletePrefix(t.Context(), "fixtures:")

	if _, ok := store.Get(t.Context(), "fixtures:39:20"); ok {
		t.Fatalf("expected fixtures entry to be removed")
	}
	if _, ok := store.Get(t.Context(), "teams:39"); !ok {
		t.Fatalf("expected teams entry to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
