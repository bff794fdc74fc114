package pulsestream

import (
	"bufio"
	"fmt"
	"log"
	"os"
)

// LineFileSink is an observer over text lines that appends each element
// plus a line terminator to an output file, then flushes and closes the
// file on completion.
type LineFileSink struct {
	path string
	file *os.File
	w    *bufio.Writer
	err  error
}

// NewLineFileSink creates (or truncates) the output file at path. An
// unwritable path surfaces as an error from this call.
func NewLineFileSink(path string) (*LineFileSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return &LineFileSink{
		path: path,
		file: file,
		w:    bufio.NewWriter(file),
	}, nil
}

// OnSubscribe is a no-op; the file is opened at construction.
func (s *LineFileSink) OnSubscribe(*Stream[string]) {}

// OnNext writes the line plus a line terminator. Write errors are
// recorded and surfaced through Err; delivery itself never fails.
func (s *LineFileSink) OnNext(_ *Stream[string], line string) {
	if s.err != nil {
		return
	}
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		s.err = fmt.Errorf("failed to write to file %s: %w", s.path, err)
		log.Printf("Error writing to file %s: %v", s.path, err)
	}
}

// OnComplete flushes buffered output and closes the file.
func (s *LineFileSink) OnComplete(*Stream[string]) {
	if err := s.w.Flush(); err != nil && s.err == nil {
		s.err = fmt.Errorf("failed to flush file %s: %w", s.path, err)
	}
	if err := s.file.Close(); err != nil && s.err == nil {
		s.err = fmt.Errorf("failed to close file %s: %w", s.path, err)
	}
}

// Err returns the first write, flush or close error encountered.
func (s *LineFileSink) Err() error {
	return s.err
}

// ConsoleSink is an observer that prints each text line to stdout.
type ConsoleSink struct{}

// NewConsoleSink creates a sink printing lines to stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

// OnSubscribe is a no-op.
func (s *ConsoleSink) OnSubscribe(*Stream[string]) {}

// OnNext prints the line.
func (s *ConsoleSink) OnNext(_ *Stream[string], line string) {
	fmt.Println(line)
}

// OnComplete is a no-op.
func (s *ConsoleSink) OnComplete(*Stream[string]) {}

// Collector is an observer that records everything it receives in
// memory. It is the in-memory sink used throughout the tests.
type Collector[T any] struct {
	values      []T
	subscribed  bool
	completions int
}

// NewCollector creates an empty collector.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{values: make([]T, 0)}
}

// OnSubscribe records that the collector was subscribed.
func (c *Collector[T]) OnSubscribe(*Stream[T]) {
	c.subscribed = true
}

// OnNext records the element.
func (c *Collector[T]) OnNext(_ *Stream[T], element T) {
	c.values = append(c.values, element)
}

// OnComplete records the completion signal.
func (c *Collector[T]) OnComplete(*Stream[T]) {
	c.completions++
}

// Values returns all recorded elements in arrival order.
func (c *Collector[T]) Values() []T {
	return c.values
}

// Subscribed reports whether the subscription reaction has run.
func (c *Collector[T]) Subscribed() bool {
	return c.subscribed
}

// Completed reports whether at least one completion signal was received.
func (c *Collector[T]) Completed() bool {
	return c.completions > 0
}

// Completions returns the number of completion signals received.
func (c *Collector[T]) Completions() int {
	return c.completions
}
