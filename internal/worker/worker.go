// Package worker implements the single dedicated analysis-worker thread every
// backend call is serialized through (spec §5): the Analysis Backend does not
// support concurrent sessions-under-analysis, so every call — including session
// construction and disposal — runs on one goroutine while request threads block
// waiting for their turn.
//
// Grounded on the analysis/execution split Soong itself draws: soong_build's
// analysis phase runs single-threaded before the resulting build graph is handed
// to parallel Ninja actions. Here the worker goroutine is the analysis phase;
// request goroutines are the (parallel, blocking) callers.
package worker

import (
	"context"
	"time"
)

// Worker serializes all backend calls onto one goroutine.
type Worker struct {
	tasks chan func()
}

// New starts the worker loop and returns a handle to it.
func New() *Worker {
	w := &Worker{tasks: make(chan func(), 256)}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	for fn := range w.tasks {
		fn()
	}
}

// Submit enqueues fn to run on the worker goroutine. It does not wait for fn to
// run; use Call/CallContext when the result is needed.
func (w *Worker) Submit(fn func()) { w.tasks <- fn }

// Close stops accepting new work. Already-queued work still runs to completion.
func (w *Worker) Close() { close(w.tasks) }

// Call runs fn on the worker and blocks until it completes. Per spec §5, ordering
// is preserved: calls submitted later by the same caller observe the effects of
// calls submitted earlier, because both run on the same single goroutine in
// submission order.
func Call[T any](w *Worker, fn func() T) T {
	done := make(chan T, 1)
	w.Submit(func() { done <- fn() })
	return <-done
}

// CallContext runs fn on the worker with a bound on how long the caller will
// wait. If ctx is cancelled or timeout elapses first, CallContext returns
// ok=false immediately — per spec §5 "the core itself does not cancel in-flight
// backend calls... any work already started runs to completion on the worker" —
// the queued fn still runs, its result is simply discarded by the caller.
func CallContext[T any](ctx context.Context, w *Worker, timeout time.Duration, fn func() T) (T, bool) {
	done := make(chan T, 1)
	w.Submit(func() { done <- fn() })

	tctx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case v := <-done:
		return v, true
	case <-tctx.Done():
		var zero T
		return zero, false
	}
}
