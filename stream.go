// Package pulsestream is a push-based stream processing library. A Stream
// delivers elements and a terminal completion signal to its subscribers
// synchronously and in subscription order; combinators (Map, MapWithState,
// FlatMap, Filter, Fold) chain streams into transformation pipelines.
//
// Delivery is single-threaded: a Push call recursively drives every
// downstream reaction to completion before it returns. Streams provide no
// internal locking and must not be shared across goroutines without
// external synchronization.
package pulsestream

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrStreamCompleted is returned when elements or a second completion
// signal are pushed into a stream that has already completed.
var ErrStreamCompleted = errors.New("stream already completed")

// Stream is an ordered broadcast channel carrying elements and a terminal
// completion signal to its subscribers.
type Stream[T any] struct {
	id        string
	observers []Observer[T]
	completed bool
}

// NewStream creates a new empty stream with a unique identity.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{
		id:        uuid.NewString(),
		observers: make([]Observer[T], 0),
	}
}

// ID returns the stream's unique identifier, used in error messages,
// logs and metric labels.
func (s *Stream[T]) ID() string {
	return s.id
}

// Completed reports whether the stream has signaled completion.
func (s *Stream[T]) Completed() bool {
	return s.completed
}

// Subscribe appends the observer to the subscriber list and immediately
// invokes its subscription reaction. Elements pushed before this call are
// not replayed; an observer subscribed after completion sees nothing.
// Subscriptions are expected to happen during setup, never concurrently
// with delivery.
func (s *Stream[T]) Subscribe(observer Observer[T]) {
	s.observers = append(s.observers, observer)
	observer.OnSubscribe(s)
}

// Push delivers the element to every subscriber in subscription order.
// The call returns only once every subscriber, and everything transitively
// triggered by them, has finished reacting. Pushing into a completed
// stream is a contract violation and returns ErrStreamCompleted.
func (s *Stream[T]) Push(element T) error {
	if s.completed {
		return fmt.Errorf("stream %s: push: %w", s.id, ErrStreamCompleted)
	}

	for _, observer := range s.observers {
		observer.OnNext(s, element)
	}

	return nil
}

// PushAll pushes each element in the given order.
func (s *Stream[T]) PushAll(elements ...T) error {
	for _, element := range elements {
		if err := s.Push(element); err != nil {
			return err
		}
	}
	return nil
}

// PushCompletion delivers the completion signal to every subscriber in
// subscription order. It may be called at most once per stream; a second
// call returns ErrStreamCompleted.
func (s *Stream[T]) PushCompletion() error {
	if s.completed {
		return fmt.Errorf("stream %s: completion: %w", s.id, ErrStreamCompleted)
	}
	s.completed = true

	for _, observer := range s.observers {
		observer.OnComplete(s)
	}

	return nil
}

// PushAllAndComplete pushes all elements in order, then completes the stream.
func (s *Stream[T]) PushAllAndComplete(elements ...T) error {
	if err := s.PushAll(elements...); err != nil {
		return err
	}
	return s.PushCompletion()
}
