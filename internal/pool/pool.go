// Package pool provides a fixed-size worker pool for CPU-bound work.
//
// The comparison pipeline has two concurrency tiers: network fan-out, which
// is cheap to oversubscribe, and analysis inference, which is not. The pool
// caps the latter process-wide so heavy analysis of one request cannot
// starve the I/O handling of others.
package pool

import (
	"context"
	"runtime"
	"sync"
)

type task struct {
	fn   func()
	done chan struct{}
}

// Pool runs submitted functions on a fixed set of worker goroutines. It is
// created once at process start and shared by all requests.
type Pool struct {
	workers int
	tasks   chan task
	once    sync.Once
}

// New creates a pool with the given number of workers. A non-positive count
// defaults to GOMAXPROCS.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan task),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Do runs fn on a pool worker and blocks until it completes. If ctx is
// cancelled while the task is still queued, the task is abandoned and the
// context error is returned. A task that has already started always runs to
// completion; CPU-bound work has no safe preemption point.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case p.tasks <- t:
		<-t.done
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the workers. It must only be called once no more submitters
// are running.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
}

func (p *Pool) worker() {
	for t := range p.tasks {
		t.fn()
		close(t.done)
	}
}
