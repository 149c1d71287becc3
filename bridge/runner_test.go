package bridge

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestDo_ForwardsValueAndError(t *testing.T) {
	runner := New(2)
	defer runner.Close()

	value, err := Do(context.Background(), runner, func(context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || value != "ok" {
		t.Fatalf("expected ok, got %q (%v)", value, err)
	}

	sentinel := errors.New("boom")
	_, err = Do(context.Background(), runner, func(context.Context) (int, error) {
		return 0, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error to pass through unchanged, got %v", err)
	}
}

func TestDo_RunsConcurrentlyWithoutCrossTalk(t *testing.T) {
	runner := New(4)
	defer runner.Close()

	const calls = 64
	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Do(context.Background(), runner, func(context.Context) (int, error) {
				time.Sleep(time.Millisecond)
				return i * 10, nil
			})
			if err != nil {
				errs <- err
				return
			}
			if got != i*10 {
				errs <- fmt.Errorf("call %d observed %d", i, got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestDo_UsesBoundedWorkers(t *testing.T) {
	runner := New(2)
	defer runner.Close()

	var active, peak int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Do(context.Background(), runner, func(context.Context) (struct{}, error) {
				current := atomic.AddInt32(&active, 1)
				for {
					seen := atomic.LoadInt32(&peak)
					if current <= seen || atomic.CompareAndSwapInt32(&peak, seen, current) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return struct{}{}, nil
			})
		}()
	}
	wg.Wait()
	if peak > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, saw %d", peak)
	}
}

type ctxKey struct{}

func TestDo_DetachesCancellationButKeepsValues(t *testing.T) {
	runner := New(1)
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	cancel()

	got, err := Do(ctx, runner, func(taskCtx context.Context) (string, error) {
		if taskCtx.Err() != nil {
			return "", taskCtx.Err()
		}
		value, _ := taskCtx.Value(ctxKey{}).(string)
		return value, nil
	})
	if err != nil {
		t.Fatalf("expected task to run despite canceled caller, got %v", err)
	}
	if got != "req-1" {
		t.Fatalf("expected context value to flow through, got %q", got)
	}
}

func TestDo_RecoversPanics(t *testing.T) {
	runner := New(1)
	defer runner.Close()

	_, err := Do(context.Background(), runner, func(context.Context) (int, error) {
		panic("kaboom")
	})
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if richErr.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %s", richErr.Category)
	}

	value, err := Do(context.Background(), runner, func(context.Context) (int, error) { return 7, nil })
	if err != nil || value != 7 {
		t.Fatalf("expected worker to survive panic, got %d (%v)", value, err)
	}
}

func TestClose_WaitsForInFlightAndRejectsNewWork(t *testing.T) {
	runner := New(1)

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		_, err := Do(context.Background(), runner, func(context.Context) (bool, error) {
			close(started)
			<-release
			return true, nil
		})
		finished <- err
	}()
	<-started

	closed := make(chan struct{})
	go func() {
		_ = runner.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatalf("expected close to wait for the in-flight task")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-closed
	if err := <-finished; err != nil {
		t.Fatalf("expected in-flight task to finish cleanly, got %v", err)
	}

	if _, err := Do(context.Background(), runner, func(context.Context) (int, error) { return 1, nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
	if err := runner.Close(); err != nil {
		t.Fatalf("expected repeated close to be a no-op, got %v", err)
	}
}

func TestClose_LeavesNoWorkerGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()
	runner := New(8)
	for range 8 {
		_, _ = Do(context.Background(), runner, func(context.Context) (int, error) { return 1, nil })
	}
	_ = runner.Close()

	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if after := runtime.NumGoroutine(); after > before {
		t.Fatalf("expected workers to exit, goroutines before=%d after=%d", before, after)
	}
}

func TestNew_DefaultsWorkers(t *testing.T) {
	runner := New(0)
	defer runner.Close()
	if runner.Workers() != DefaultWorkers {
		t.Fatalf("expected %d workers, got %d", DefaultWorkers, runner.Workers())
	}
}
