// Package workpool bounds CPU-heavy work so a burst of large images
// cannot starve request handling.
package workpool

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"

	"go.uber.org/atomic"

	"github.com/pixelveil/pixelveil/internal/pkg/stacktrace"
)

// ErrTimeout indicates the work did not finish before its deadline.
var ErrTimeout = errors.New("workpool: processing timed out")

// Pool runs tasks on a fixed number of slots and makes callers wait for
// their own task, unlike a fire-and-forget manager. Pixel codec and KDF
// calls go through here.
type Pool struct {
	sema     chan struct{}
	inFlight *atomic.Int64
}

// New creates a Pool with the provided slot count.
//
// A non-positive size falls back to the CPU count.
func New(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}

	return &Pool{
		sema:     make(chan struct{}, size),
		inFlight: atomic.NewInt64(0),
	}
}

// InFlight reports how many tasks are currently executing.
func (p *Pool) InFlight() int64 {
	return p.inFlight.Load()
}

// Do runs f on a pool slot and blocks until it completes or ctx expires.
//
// Expiry while queued or mid-run returns ErrTimeout; a task already
// running keeps its slot until it returns and its result is discarded.
// The task should honor ctx itself where it can.
func (p *Pool) Do(ctx context.Context, f func(ctx context.Context) error) error {
	select {
	case p.sema <- struct{}{}:
	case <-ctx.Done():
		return ErrTimeout
	}

	done := make(chan error, 1)

	go func() {
		p.inFlight.Inc()
		defer func() {
			p.inFlight.Dec()
			<-p.sema

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				paths := stacktrace.InternalPaths(stack)
				if len(paths) == 0 {
					slog.ErrorContext(ctx, "panic occurred in pooled task", "stack", string(stack))
				} else {
					slog.ErrorContext(ctx, "panic occurred in pooled task", "stack", paths)
				}
				done <- errors.New("workpool: task panicked")
			}
		}()

		done <- f(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrTimeout
	}
}
