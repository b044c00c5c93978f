package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight[[]byte]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			out, err, _ := g.Do("/fixtures?id=1035012", func() ([]byte, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte(`{"results":1}`), nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if string(out) != `{"results":1}` {
				t.Errorf("unexpected payload %q", out)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_PropagatesError(t *testing.T) {
	t.Parallel()

	var g SingleFlight[int]
	boom := errors.New("boom")
	out, err, _ := g.Do("k", func() (int, error) { return 7, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if out != 0 {
		t.Fatalf("expected zero value on error, got %d", out)
	}
}
