// Package bridge runs blocking calls on a worker pool owned by a single client.
//
// A Runner is created once and reused for the life of its owner. Each call is
// queued as a task, picked up by a worker and joined through a one-shot result
// channel, so callers see a plain synchronous function.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

const DefaultWorkers = 4

var ErrClosed = errors.New("bridge: runner is closed")

type task struct {
	ctx context.Context
	run func(context.Context)
}

type Runner struct {
	tasks   chan task
	workers int

	mu     sync.RWMutex
	closed bool

	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Runner)

// WithQueueSize sets how many submitted tasks may wait for a free worker.
func WithQueueSize(size int) Option {
	return func(r *Runner) {
		if size >= 0 {
			r.tasks = make(chan task, size)
		}
	}
}

func New(workers int, opts ...Option) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	r := &Runner{
		tasks:   make(chan task, workers),
		workers: workers,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.wg.Add(workers)
	for range workers {
		go r.work()
	}
	return r
}

func (r *Runner) Workers() int {
	if r == nil {
		return 0
	}
	return r.workers
}

func (r *Runner) work() {
	defer r.wg.Done()
	for t := range r.tasks {
		t.run(t.ctx)
	}
}

func (r *Runner) submit(ctx context.Context, run func(context.Context)) error {
	if r == nil {
		return ErrClosed
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	r.tasks <- task{ctx: ctx, run: run}
	return nil
}

// Close stops accepting work, lets queued and running tasks finish and waits
// for every worker to exit. Calling it again is a no-op.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.tasks)
		r.mu.Unlock()
		r.wg.Wait()
	})
	return nil
}

type result[T any] struct {
	value T
	err   error
}

// Do runs fn on one of the runner's workers and blocks until it returns. The
// value and error are forwarded unchanged. The task sees ctx's values but not
// its cancellation: once submitted, a call runs to completion.
func Do[T any](ctx context.Context, r *Runner, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if fn == nil {
		return zero, fmt.Errorf("bridge: task function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan result[T], 1)
	err := r.submit(context.WithoutCancel(ctx), func(taskCtx context.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				done <- result[T]{err: panicError(recovered)}
			}
		}()
		value, err := fn(taskCtx)
		done <- result[T]{value: value, err: err}
	})
	if err != nil {
		return zero, err
	}
	out := <-done
	return out.value, out.err
}

func panicError(recovered any) error {
	buf := make([]byte, 4<<10)
	buf = buf[:runtime.Stack(buf, false)]
	return goerrors.New(fmt.Sprintf("bridge: task panicked: %v", recovered), goerrors.CategoryInternal).
		WithTextCode("BRIDGE_TASK_PANIC").
		WithMetadata(map[string]any{"stack": string(buf)})
}
