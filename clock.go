package pulsestream

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Clock provides time operations for deterministic testing.
type Clock = clockz.Clock

// Timer represents a single event timer.
type Timer = clockz.Timer

// Ticker delivers ticks at intervals.
type Ticker = clockz.Ticker

// RealClock is the default Clock using standard time.
var RealClock Clock = clockz.RealClock

// Stopwatch measures elapsed wall-clock time for a pipeline run.
type Stopwatch struct {
	clock Clock
	start time.Time
}

// NewStopwatch starts a stopwatch on the given clock. A nil clock
// defaults to RealClock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = RealClock
	}
	return &Stopwatch{
		clock: clock,
		start: clock.Now(),
	}
}

// Elapsed returns the time elapsed since the stopwatch was started.
func (s *Stopwatch) Elapsed() time.Duration {
	return s.clock.Now().Sub(s.start)
}
