package pulsestream

// Observer is a subscriber's reaction logic to elements and completion.
// Stateless observers carry no mutable fields; stateful observers own
// private state mutated only within their own reactions.
type Observer[T any] interface {
	// OnSubscribe is invoked once, when the observer is subscribed.
	OnSubscribe(stream *Stream[T])

	// OnNext is invoked for each element pushed into the stream.
	OnNext(stream *Stream[T], element T)

	// OnComplete is invoked once, when the stream signals completion.
	OnComplete(stream *Stream[T])
}

// ObserverFuncs adapts plain functions to the Observer interface.
// Any nil reaction defaults to a no-op.
type ObserverFuncs[T any] struct {
	SubscribeFn func(stream *Stream[T])
	NextFn      func(stream *Stream[T], element T)
	CompleteFn  func(stream *Stream[T])
}

// OnSubscribe invokes SubscribeFn if set.
func (o *ObserverFuncs[T]) OnSubscribe(stream *Stream[T]) {
	if o.SubscribeFn != nil {
		o.SubscribeFn(stream)
	}
}

// OnNext invokes NextFn if set.
func (o *ObserverFuncs[T]) OnNext(stream *Stream[T], element T) {
	if o.NextFn != nil {
		o.NextFn(stream, element)
	}
}

// OnComplete invokes CompleteFn if set.
func (o *ObserverFuncs[T]) OnComplete(stream *Stream[T]) {
	if o.CompleteFn != nil {
		o.CompleteFn(stream)
	}
}
