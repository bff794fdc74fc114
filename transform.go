package pulsestream

import "log"

// Map subscribes a transformation to the upstream and returns a new
// downstream stream carrying fn(element) for each upstream element,
// preserving order and count 1:1. Upstream completion completes the
// downstream.
func Map[T, U any](upstream *Stream[T], fn func(T) U) *Stream[U] {
	observer := &mapObserver[T, U]{
		downstream: NewStream[U](),
		fn:         fn,
	}
	upstream.Subscribe(observer)
	return observer.downstream
}

type mapObserver[T, U any] struct {
	downstream *Stream[U]
	fn         func(T) U
}

func (o *mapObserver[T, U]) OnSubscribe(*Stream[T]) {}

func (o *mapObserver[T, U]) OnNext(_ *Stream[T], element T) {
	if err := o.downstream.Push(o.fn(element)); err != nil {
		log.Printf("map: error pushing downstream: %v", err)
	}
}

func (o *mapObserver[T, U]) OnComplete(*Stream[T]) {
	if err := o.downstream.PushCompletion(); err != nil {
		log.Printf("map: error completing downstream: %v", err)
	}
}

// Filter returns a downstream stream carrying only the upstream elements
// for which the predicate holds.
func Filter[T any](upstream *Stream[T], predicate func(T) bool) *Stream[T] {
	observer := &filterObserver[T]{
		downstream: NewStream[T](),
		predicate:  predicate,
	}
	upstream.Subscribe(observer)
	return observer.downstream
}

type filterObserver[T any] struct {
	downstream *Stream[T]
	predicate  func(T) bool
}

func (o *filterObserver[T]) OnSubscribe(*Stream[T]) {}

func (o *filterObserver[T]) OnNext(_ *Stream[T], element T) {
	if !o.predicate(element) {
		return
	}
	if err := o.downstream.Push(element); err != nil {
		log.Printf("filter: error pushing downstream: %v", err)
	}
}

func (o *filterObserver[T]) OnComplete(*Stream[T]) {
	if err := o.downstream.PushCompletion(); err != nil {
		log.Printf("filter: error completing downstream: %v", err)
	}
}

// MapWithState subscribes a stateful transformation to the upstream. The
// observer owns the current state, initialized to initial; for each
// element it computes (newState, output) = fn(currentState, element),
// replaces the state and pushes the output downstream. The state is
// visited strictly once per element, in arrival order. This is the
// building block for all stateful aggregation.
func MapWithState[S, T, U any](upstream *Stream[T], initial S, fn func(S, T) (S, U)) *Stream[U] {
	observer := &stateObserver[S, T, U]{
		downstream: NewStream[U](),
		state:      initial,
		fn:         fn,
	}
	upstream.Subscribe(observer)
	return observer.downstream
}

type stateObserver[S, T, U any] struct {
	downstream *Stream[U]
	state      S
	fn         func(S, T) (S, U)
}

func (o *stateObserver[S, T, U]) OnSubscribe(*Stream[T]) {}

func (o *stateObserver[S, T, U]) OnNext(_ *Stream[T], element T) {
	newState, output := o.fn(o.state, element)
	o.state = newState

	if err := o.downstream.Push(output); err != nil {
		log.Printf("mapWithState: error pushing downstream: %v", err)
	}
}

func (o *stateObserver[S, T, U]) OnComplete(*Stream[T]) {
	if err := o.downstream.PushCompletion(); err != nil {
		log.Printf("mapWithState: error completing downstream: %v", err)
	}
}

// FlatMap returns a downstream stream carrying every value of
// fn(element), in order, for each upstream element. fn may produce zero,
// one or many outputs per input.
func FlatMap[T, U any](upstream *Stream[T], fn func(T) []U) *Stream[U] {
	observer := &flatMapObserver[T, U]{
		downstream: NewStream[U](),
		fn:         fn,
	}
	upstream.Subscribe(observer)
	return observer.downstream
}

type flatMapObserver[T, U any] struct {
	downstream *Stream[U]
	fn         func(T) []U
}

func (o *flatMapObserver[T, U]) OnSubscribe(*Stream[T]) {}

func (o *flatMapObserver[T, U]) OnNext(_ *Stream[T], element T) {
	if err := o.downstream.PushAll(o.fn(element)...); err != nil {
		log.Printf("flatMap: error pushing downstream: %v", err)
	}
}

func (o *flatMapObserver[T, U]) OnComplete(*Stream[T]) {
	if err := o.downstream.PushCompletion(); err != nil {
		log.Printf("flatMap: error completing downstream: %v", err)
	}
}
