package pulsestream

// WindowState holds the trailing window over a non-decreasing timestamped
// sequence: the buffered points whose timestamp is within the interval of
// the most recently absorbed point, plus running count, sum, min and max
// consistent with that buffer. A state is never mutated in place; Absorb
// returns a replacement.
type WindowState struct {
	points []TSData
	Count  int
	Sum    float64
	Min    float64
	Max    float64
}

// NewWindowState creates the state for the first data point of a
// sequence: a single-element buffer with count 1 and sum, min and max all
// equal to the point's measurement.
func NewWindowState(point TSData) *WindowState {
	return &WindowState{
		points: []TSData{point},
		Count:  1,
		Sum:    point.Measurement,
		Min:    point.Measurement,
		Max:    point.Measurement,
	}
}

// Size returns the number of buffered points.
func (w *WindowState) Size() int {
	return len(w.points)
}

// Absorb folds the incoming point into the window and returns the new
// state. Points whose timestamp is interval seconds or more older than
// the incoming point are evicted from the front of the buffer. When at
// least one point was evicted, min and max are recomputed by a full scan
// of the trimmed buffer (an evicted point may have held the previous
// extremum); otherwise they are updated by comparison against the
// incoming measurement only. Timestamps are assumed non-decreasing
// across the sequence; out-of-order input produces an undefined result.
func (w *WindowState) Absorb(point TSData, interval int64) *WindowState {
	evicted := 0
	evictedSum := 0.0
	kept := w.points
	for len(kept) > 0 && point.Timestamp-kept[0].Timestamp >= interval {
		evictedSum += kept[0].Measurement
		kept = kept[1:]
		evicted++
	}

	// Cap the kept slice so the append below cannot write into backing
	// array positions still reachable from this state or a sibling
	// derived from it.
	next := &WindowState{
		points: append(kept[:len(kept):len(kept)], point),
		Count:  w.Count - evicted + 1,
		Sum:    w.Sum - evictedSum + point.Measurement,
	}

	if evicted > 0 {
		next.Min, next.Max = rescanExtrema(next.points)
	} else {
		next.Min = min(w.Min, point.Measurement)
		next.Max = max(w.Max, point.Measurement)
	}

	return next
}

// Report derives the report record for the most recently absorbed point.
func (w *WindowState) Report() TSReportData {
	last := w.points[len(w.points)-1]
	return TSReportData{
		Timestamp:   last.Timestamp,
		Measurement: last.Measurement,
		Count:       w.Count,
		Sum:         w.Sum,
		Min:         w.Min,
		Max:         w.Max,
	}
}

func rescanExtrema(points []TSData) (min, max float64) {
	min = points[0].Measurement
	max = points[0].Measurement
	for _, p := range points[1:] {
		if p.Measurement < min {
			min = p.Measurement
		}
		if p.Measurement > max {
			max = p.Measurement
		}
	}
	return min, max
}

// WindowReport layers the windowed aggregator over MapWithState: one
// report record is emitted per input point, carrying the rolling count,
// sum, min and max over the trailing interval (in seconds). The update
// is O(1) amortized when nothing is evicted and O(window size) on
// eviction boundaries.
func WindowReport(upstream *Stream[TSData], interval int64) *Stream[TSReportData] {
	return MapWithState(upstream, (*WindowState)(nil),
		func(state *WindowState, point TSData) (*WindowState, TSReportData) {
			if state == nil {
				state = NewWindowState(point)
			} else {
				state = state.Absorb(point, interval)
			}
			return state, state.Report()
		})
}
