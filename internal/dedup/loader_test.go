package dedup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func identity(s string) string { return s }

func TestLoader_SharesInFlightCall(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	l := New(identity, func(ctx context.Context, owner string) ([]string, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return []string{"Rent", "EMI"}, nil
	})

	const callers = 10
	var wg sync.WaitGroup
	results := make([][]string, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = l.Do(context.Background(), "user-1")
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = l.Do(context.Background(), "user-1")
		}(i)
	}
	// Give the joiners time to attach to the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 load, got %d", got)
	}
	for i := range results {
		if errs[i] != nil {
			t.Errorf("caller %d error = %v", i, errs[i])
		}
		if len(results[i]) != 2 {
			t.Errorf("caller %d got %v", i, results[i])
		}
	}
}

func TestLoader_EvictsAfterSettle(t *testing.T) {
	var calls atomic.Int32
	fail := errors.New("store unavailable")

	l := New(identity, func(ctx context.Context, id string) (int, error) {
		n := calls.Add(1)
		if n == 1 {
			return 0, fail
		}
		return int(n), nil
	})

	if _, err := l.Do(context.Background(), "k"); !errors.Is(err, fail) {
		t.Fatalf("first call error = %v, want %v", err, fail)
	}
	v, err := l.Do(context.Background(), "k")
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if v != 2 {
		t.Errorf("second call = %d, want a fresh load (2)", v)
	}
	v, _ = l.Do(context.Background(), "k")
	if v != 3 {
		t.Errorf("third call = %d, want a fresh load (3)", v)
	}
}

func TestLoader_DistinctKeysDoNotShare(t *testing.T) {
	var calls atomic.Int32
	l := New(identity, func(ctx context.Context, id string) (string, error) {
		calls.Add(1)
		return id, nil
	})

	a, _ := l.Do(context.Background(), "a")
	b, _ := l.Do(context.Background(), "b")
	if a != "a" || b != "b" {
		t.Errorf("got %q, %q", a, b)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 loads, got %d", calls.Load())
	}
}

func TestLoader_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	var loadErr atomic.Value

	l := New(identity, func(ctx context.Context, id string) (string, error) {
		defer close(done)
		<-release
		if err := ctx.Err(); err != nil {
			loadErr.Store(err)
		}
		return "ok", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := l.Do(ctx, "k")
		errc <- err
	}()

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(release)
	<-done
	if v := loadErr.Load(); v != nil {
		t.Errorf("shared load saw caller cancellation: %v", v)
	}
}

func TestLoader_Forget(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{}, 2)
	release := make(chan struct{})

	l := New(identity, func(ctx context.Context, id string) (int32, error) {
		n := calls.Add(1)
		started <- struct{}{}
		<-release
		return n, nil
	})

	first := make(chan int32, 1)
	go func() {
		v, _ := l.Do(context.Background(), "k")
		first <- v
	}()
	<-started

	l.Forget("k")

	second := make(chan int32, 1)
	go func() {
		v, _ := l.Do(context.Background(), "k")
		second <- v
	}()
	<-started
	close(release)

	if a, b := <-first, <-second; a == b {
		t.Errorf("expected a fresh load after Forget, both callers got %d", a)
	}
}
