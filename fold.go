package pulsestream

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotResolved is returned when a fold result is read before the
// upstream stream has completed.
var ErrNotResolved = errors.New("fold result not resolved")

// FoldResult is a single-assignment result cell, resolved exactly once
// when the folded stream completes.
type FoldResult[U any] struct {
	done     chan struct{}
	value    U
	resolved bool
}

func newFoldResult[U any]() *FoldResult[U] {
	return &FoldResult[U]{done: make(chan struct{})}
}

func (r *FoldResult[U]) resolve(value U) {
	r.value = value
	r.resolved = true
	close(r.done)
}

// Resolved reports whether the result has been settled.
func (r *FoldResult[U]) Resolved() bool {
	return r.resolved
}

// Value returns the accumulated value, or ErrNotResolved if the upstream
// has not completed yet.
func (r *FoldResult[U]) Value() (U, error) {
	if !r.resolved {
		var zero U
		return zero, fmt.Errorf("fold: %w", ErrNotResolved)
	}
	return r.value, nil
}

// Done returns a channel that is closed once the result is resolved.
func (r *FoldResult[U]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the result is resolved or the context is canceled.
// Since completion propagation is synchronous, by the time the upstream
// has completed this is a plain read of an already-resolved value.
func (r *FoldResult[U]) Wait(ctx context.Context) (U, error) {
	select {
	case <-r.done:
		return r.value, nil
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Fold accumulates a single running value over the upstream, starting at
// initial and updated once per element in arrival order. Nothing is
// pushed downstream during the stream's lifetime; the returned result is
// resolved with the final accumulated value when the upstream completes.
// An empty upstream resolves the result with exactly initial.
func Fold[T, U any](upstream *Stream[T], initial U, fn func(U, T) U) *FoldResult[U] {
	observer := &foldObserver[T, U]{
		result:      newFoldResult[U](),
		accumulator: initial,
		fn:          fn,
	}
	upstream.Subscribe(observer)
	return observer.result
}

type foldObserver[T, U any] struct {
	result      *FoldResult[U]
	accumulator U
	fn          func(U, T) U
}

func (o *foldObserver[T, U]) OnSubscribe(*Stream[T]) {}

func (o *foldObserver[T, U]) OnNext(_ *Stream[T], element T) {
	o.accumulator = o.fn(o.accumulator, element)
}

func (o *foldObserver[T, U]) OnComplete(*Stream[T]) {
	o.result.resolve(o.accumulator)
}
