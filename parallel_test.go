package gameloc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// slowCache simulates a slow cache so concurrent misses overlap.
type slowCache struct {
	data    map[string]string
	mu      sync.RWMutex
	delay   time.Duration
	lookups int64
}

func newSlowCache(delay time.Duration) *slowCache {
	return &slowCache{
		data:  make(map[string]string),
		delay: delay,
	}
}

func (c *slowCache) Get(key string) (string, bool) {
	atomic.AddInt64(&c.lookups, 1)
	time.Sleep(c.delay)
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *slowCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func TestForEachBounded_RunsAll(t *testing.T) {
	var calls int64
	done, err := forEachBounded(context.Background(), 10, 3, func(ctx context.Context, i int) (bool, error) {
		atomic.AddInt64(&calls, 1)
		return true, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 10 {
		t.Errorf("Expected 10 calls, got %d", calls)
	}
	for i, ok := range done {
		if !ok {
			t.Errorf("index %d not marked done", i)
		}
	}
}

func TestForEachBounded_Limit(t *testing.T) {
	var inFlight, peak int64
	_, err := forEachBounded(context.Background(), 20, 4, func(ctx context.Context, i int) (bool, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return true, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 4 {
		t.Errorf("Expected at most 4 in flight, saw %d", peak)
	}
	if peak < 2 {
		t.Errorf("Expected work to overlap, peak was %d", peak)
	}
}

func TestForEachBounded_ErrorStopsDispatch(t *testing.T) {
	boom := errors.New("boom")
	var calls int64
	done, err := forEachBounded(context.Background(), 5, 1, func(ctx context.Context, i int) (bool, error) {
		atomic.AddInt64(&calls, 1)
		if i == 0 {
			return false, boom
		}
		return true, nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected dispatch to stop after the error, got %d calls", calls)
	}
	for i, ok := range done {
		if ok {
			t.Errorf("index %d should not be done", i)
		}
	}
}

func TestForEachBounded_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	done, err := forEachBounded(ctx, 5, 2, func(ctx context.Context, i int) (bool, error) {
		atomic.AddInt64(&calls, 1)
		return true, nil
	})

	if err != nil {
		t.Fatalf("cancellation is reported by the caller, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls on a cancelled context, got %d", calls)
	}
	if len(done) != 5 {
		t.Errorf("Expected done to cover every index, got %d", len(done))
	}
}

func TestProgressReporter(t *testing.T) {
	var seen []Progress
	r := newProgressReporter(3, func(p Progress) {
		seen = append(seen, p)
	})

	r.report(2, TranslationResult{TranslatedText: "c"})
	r.report(0, TranslationResult{TranslatedText: "a"})
	r.report(1, TranslationResult{TranslatedText: "b"})
	r.close()

	if len(seen) != 3 {
		t.Fatalf("Expected 3 callbacks, got %d", len(seen))
	}
	for i, p := range seen {
		if p.Completed != i+1 {
			t.Errorf("callback %d: Completed = %d", i, p.Completed)
		}
		if p.Total != 3 {
			t.Errorf("callback %d: Total = %d", i, p.Total)
		}
	}
	if seen[0].Index != 2 || seen[0].Result.TranslatedText != "c" {
		t.Errorf("unexpected first callback: %+v", seen[0])
	}
}

func TestProgressReporter_Nil(t *testing.T) {
	r := newProgressReporter(3, nil)
	if r != nil {
		t.Fatal("Expected nil reporter without a callback")
	}

	// nil reporters are no-ops
	r.report(0, TranslationResult{})
	r.close()
}
