package pulsestream

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrSourceStarted is returned when Start is called on a source that has
// already been started.
var ErrSourceStarted = errors.New("source already started")

// Source is a producer owning a stream. Start pushes a finite element
// sequence into the owned stream, then signals completion. All
// subscriptions and combinator chains on the owned stream must be
// established before Start is invoked; elements pushed before a
// subscriber registers are lost to that subscriber.
type Source[T any] interface {
	// Stream returns the stream owned by this source.
	Stream() *Stream[T]

	// Start pushes the source's elements followed by completion. It runs
	// to completion once begun; there is no way to stop it mid-sequence.
	Start() error
}

// SliceSource pushes a fixed in-memory sequence of elements.
type SliceSource[T any] struct {
	stream   *Stream[T]
	elements []T
	started  bool
}

// NewSliceSource creates a source over the given elements.
func NewSliceSource[T any](elements ...T) *SliceSource[T] {
	return &SliceSource[T]{
		stream:   NewStream[T](),
		elements: elements,
	}
}

// Stream returns the stream owned by this source.
func (s *SliceSource[T]) Stream() *Stream[T] {
	return s.stream
}

// Start pushes all elements in order, then completes the stream.
func (s *SliceSource[T]) Start() error {
	if s.started {
		return ErrSourceStarted
	}
	s.started = true

	return s.stream.PushAllAndComplete(s.elements...)
}

// maxLineSize caps the length of a single input line read by
// LineFileSource.
const maxLineSize = 1024 * 1024

// LineFileSource reads a file line by line and pushes each line, in
// order, into a stream of text lines it owns.
type LineFileSource struct {
	stream  *Stream[string]
	path    string
	started bool
}

// NewLineFileSource creates a source reading lines from the file at path.
// The file is opened when Start is called.
func NewLineFileSource(path string) *LineFileSource {
	return &LineFileSource{
		stream: NewStream[string](),
		path:   path,
	}
}

// Stream returns the stream of text lines owned by this source.
func (s *LineFileSource) Stream() *Stream[string] {
	return s.stream
}

// Start opens the file, pushes each line in order, then completes the
// stream and releases the file handle. An unreadable path surfaces as an
// error from this call.
func (s *LineFileSource) Start() error {
	if s.started {
		return ErrSourceStarted
	}
	s.started = true

	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", s.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lines := 0
	for scanner.Scan() {
		if err := s.stream.Push(scanner.Text()); err != nil {
			return err
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file %s: %w", s.path, err)
	}

	log.Printf("Finished reading file %s (%d lines)", s.path, lines)
	return s.stream.PushCompletion()
}
