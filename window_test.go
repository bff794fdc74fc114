package pulsestream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowReportRollingAggregation(t *testing.T) {
	source := NewSliceSource(
		TSData{Timestamp: 1000, Measurement: 1.0},
		TSData{Timestamp: 1020, Measurement: 2.0},
		TSData{Timestamp: 1090, Measurement: 3.0},
	)
	reports := WindowReport(source.Stream(), 60)
	collector := NewCollector[TSReportData]()
	reports.Subscribe(collector)

	require.NoError(t, source.Start())

	require.Len(t, collector.Values(), 3)
	assert.Equal(t, TSReportData{Timestamp: 1000, Measurement: 1.0, Count: 1, Sum: 1.0, Min: 1.0, Max: 1.0}, collector.Values()[0])
	assert.Equal(t, TSReportData{Timestamp: 1020, Measurement: 2.0, Count: 2, Sum: 3.0, Min: 1.0, Max: 2.0}, collector.Values()[1])
	// 1090 evicts both earlier points: 1090-1000 = 90 >= 60 and 1090-1020 = 70 >= 60.
	assert.Equal(t, TSReportData{Timestamp: 1090, Measurement: 3.0, Count: 1, Sum: 3.0, Min: 3.0, Max: 3.0}, collector.Values()[2])
	assert.True(t, collector.Completed())
}

func TestNewWindowStateSinglePoint(t *testing.T) {
	state := NewWindowState(TSData{Timestamp: 100, Measurement: 4.5})

	assert.Equal(t, 1, state.Count)
	assert.Equal(t, 4.5, state.Sum)
	assert.Equal(t, 4.5, state.Min)
	assert.Equal(t, 4.5, state.Max)
	assert.Equal(t, 1, state.Size())
}

func TestAbsorbWithoutEvictionUpdatesExtremaIncrementally(t *testing.T) {
	state := NewWindowState(TSData{Timestamp: 100, Measurement: 5.0})
	state = state.Absorb(TSData{Timestamp: 110, Measurement: 1.0}, 60)
	state = state.Absorb(TSData{Timestamp: 120, Measurement: 9.0}, 60)

	assert.Equal(t, 3, state.Count)
	assert.Equal(t, 15.0, state.Sum)
	assert.Equal(t, 1.0, state.Min)
	assert.Equal(t, 9.0, state.Max)
	assert.Equal(t, 3, state.Size())
}

func TestAbsorbEvictsAtExactIntervalBoundary(t *testing.T) {
	state := NewWindowState(TSData{Timestamp: 0, Measurement: 5.0})
	state = state.Absorb(TSData{Timestamp: 60, Measurement: 3.0}, 60)

	assert.Equal(t, 1, state.Count)
	assert.Equal(t, 3.0, state.Sum)
	assert.Equal(t, 3.0, state.Min)
	assert.Equal(t, 3.0, state.Max)
}

func TestAbsorbEvictionRecomputesExtrema(t *testing.T) {
	state := NewWindowState(TSData{Timestamp: 0, Measurement: 5.0})
	state = state.Absorb(TSData{Timestamp: 30, Measurement: 1.0}, 60)
	// Evicts the point holding the previous maximum; a full rescan must
	// find the new extrema in the trimmed buffer.
	state = state.Absorb(TSData{Timestamp: 60, Measurement: 3.0}, 60)

	assert.Equal(t, 2, state.Count)
	assert.Equal(t, 4.0, state.Sum)
	assert.Equal(t, 1.0, state.Min)
	assert.Equal(t, 3.0, state.Max)
}

func TestAbsorbReplacesStateRatherThanMutating(t *testing.T) {
	first := NewWindowState(TSData{Timestamp: 0, Measurement: 2.0})
	second := first.Absorb(TSData{Timestamp: 10, Measurement: 7.0}, 60)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 2.0, first.Sum)
	assert.Equal(t, 2.0, first.Max)
	assert.Equal(t, 2, second.Count)
}

func TestAbsorbSiblingStatesDoNotShareBuffer(t *testing.T) {
	state := NewWindowState(TSData{Timestamp: 0, Measurement: 1.0})
	state = state.Absorb(TSData{Timestamp: 1, Measurement: 2.0}, 1000)
	state = state.Absorb(TSData{Timestamp: 2, Measurement: 3.0}, 1000)

	// Two states branched off the same parent must not see each other's
	// appended point through a shared backing array.
	first := state.Absorb(TSData{Timestamp: 3, Measurement: 4.0}, 1000)
	second := state.Absorb(TSData{Timestamp: 4, Measurement: 99.0}, 1000)

	assert.Equal(t, TSReportData{Timestamp: 3, Measurement: 4.0, Count: 4, Sum: 10.0, Min: 1.0, Max: 4.0}, first.Report())
	assert.Equal(t, TSReportData{Timestamp: 4, Measurement: 99.0, Count: 4, Sum: 105.0, Min: 1.0, Max: 99.0}, second.Report())
	assert.Equal(t, 3, state.Size())
}

func TestIncrementalExtremaMatchRescanWithoutEviction(t *testing.T) {
	points := []TSData{
		{Timestamp: 0, Measurement: 3.0},
		{Timestamp: 1, Measurement: 8.5},
		{Timestamp: 2, Measurement: -2.0},
		{Timestamp: 3, Measurement: 8.5},
		{Timestamp: 4, Measurement: 0.25},
	}

	state := NewWindowState(points[0])
	for _, point := range points[1:] {
		state = state.Absorb(point, 1000)
		min, max := rescanExtrema(state.points)
		assert.Equal(t, min, state.Min)
		assert.Equal(t, max, state.Max)
	}
	assert.Equal(t, len(points), state.Count)
}

func TestWindowReportEndToEndThroughFiles(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "input.tsv")
	outPath := filepath.Join(dir, "output.tsv")
	require.NoError(t, os.WriteFile(inPath, []byte("1000\t1.0\n1020\t2.0\n1090\t3.0\n"), 0644))

	source := NewLineFileSource(inPath)
	points := Map(source.Stream(), func(line string) TSData {
		point, err := ParseTSData(line)
		require.NoError(t, err)
		return point
	})
	rows := Map(WindowReport(points, 60), TSReportData.String)

	sink, err := NewLineFileSink(outPath)
	require.NoError(t, err)
	rows.Subscribe(sink)

	require.NoError(t, source.Start())
	require.NoError(t, sink.Err())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t,
		"1000\t1.00000\t1\t1.00000\t1.00000\t1.00000\n"+
			"1020\t2.00000\t2\t3.00000\t1.00000\t2.00000\n"+
			"1090\t3.00000\t1\t3.00000\t3.00000\t3.00000\n",
		string(data))
}
