package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetCachesWhileFresh(t *testing.T) {
	var calls int32
	q := New(Config{Key: "k", StaleAfter: time.Minute}, func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	for i := 0; i < 3; i++ {
		v, err := q.Get(context.Background())
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if v != 1 {
			t.Fatalf("get %d returned %d, cache not used", i, v)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fetch ran %d times, want 1", got)
	}
}

func TestGetRefetchesWhenStale(t *testing.T) {
	var calls int32
	q := New(Config{Key: "k", StaleAfter: 10 * time.Millisecond}, func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	if _, err := q.Get(context.Background()); err != nil {
		t.Fatalf("first get: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	v, err := q.Get(context.Background())
	if err != nil {
		t.Fatalf("stale get: %v", err)
	}
	if v != 2 {
		t.Fatalf("stale get returned %d, want a fresh fetch", v)
	}
}

func TestZeroStaleAfterAlwaysFetches(t *testing.T) {
	var calls int32
	q := New(Config{Key: "k"}, func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})
	q.Get(context.Background())
	q.Get(context.Background())
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("fetch ran %d times, want 2", got)
	}
}

func TestDisabledQueryNeverExecutes(t *testing.T) {
	var calls int32
	enabled := false
	q := New(Config{Key: "k", Enabled: func() bool { return enabled }}, func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	})

	if _, err := q.Get(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := q.Refetch(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled from refetch, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("disabled query must not execute the fetch")
	}

	enabled = true
	if v, err := q.Get(context.Background()); err != nil || v != 42 {
		t.Fatalf("enabled get=%d,%v", v, err)
	}
}

func TestConcurrentGetsCollapse(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	q := New(Config{Key: "k", StaleAfter: time.Minute}, func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := q.Get(context.Background()); err != nil || v != 7 {
				t.Errorf("get=%d,%v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("concurrent gets ran %d fetches, want 1", got)
	}
}

func TestInvalidateDropsCacheAndWinsOverInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	q := New(Config{Key: "k", StaleAfter: time.Minute}, func(ctx context.Context) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			close(started)
			<-release
		}
		return int(n), nil
	})

	done := make(chan int, 1)
	go func() {
		v, _ := q.Get(context.Background())
		done <- v
	}()
	<-started
	q.Invalidate()
	close(release)

	if v := <-done; v != 1 {
		t.Fatalf("overtaken fetch delivered %d to its caller, want 1", v)
	}
	// The overtaken result must not have been installed.
	if _, ok := q.Peek(); ok {
		t.Fatal("value fetched before Invalidate must not be cached")
	}
	v, err := q.Get(context.Background())
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if v != 2 {
		t.Fatalf("get after invalidate=%d, want a fresh fetch", v)
	}
}

func TestLastErrAndPeek(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	q := New(Config{Key: "k", StaleAfter: time.Minute}, func(ctx context.Context) (int, error) {
		if fail {
			return 0, boom
		}
		return 9, nil
	})

	if _, err := q.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !errors.Is(q.LastErr(), boom) {
		t.Fatalf("LastErr=%v want boom", q.LastErr())
	}
	if _, ok := q.Peek(); ok {
		t.Fatal("failed fetch must not populate the cache")
	}

	fail = false
	if _, err := q.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.LastErr() != nil {
		t.Fatalf("LastErr should clear on success, got %v", q.LastErr())
	}
	if v, ok := q.Peek(); !ok || v != 9 {
		t.Fatalf("Peek=%d,%v want 9,true", v, ok)
	}
}

func TestStartPolling(t *testing.T) {
	var calls int32
	q := New(Config{Key: "k", PollEvery: 10 * time.Millisecond}, func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := q.StartPolling(ctx)
	time.Sleep(55 * time.Millisecond)
	stop()
	polled := atomic.LoadInt32(&calls)
	if polled < 2 {
		t.Fatalf("polling ran %d fetches, want at least 2", polled)
	}
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != polled {
		t.Fatalf("fetches continued after stop: %d -> %d", polled, got)
	}
}
