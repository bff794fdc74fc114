package pulsestream

import (
	"fmt"
	"strconv"
	"strings"
)

// TSData is a single time-series data point: a timestamp in integer
// seconds and a floating-point measurement. Immutable value.
type TSData struct {
	Timestamp   int64
	Measurement float64
}

// ParseTSData parses a tab-separated "timestamp\tmeasurement" record.
// The line must split into exactly two fields, the first an integer
// timestamp and the second a floating-point measurement.
func ParseTSData(line string) (TSData, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return TSData{}, fmt.Errorf("malformed record %q: expected 2 tab-separated fields, got %d", line, len(fields))
	}

	timestamp, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return TSData{}, fmt.Errorf("malformed timestamp %q: %w", fields[0], err)
	}

	measurement, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return TSData{}, fmt.Errorf("malformed measurement %q: %w", fields[1], err)
	}

	return TSData{Timestamp: timestamp, Measurement: measurement}, nil
}

// TSReportData is one record of the rolling window report: the incoming
// point's timestamp and measurement combined with the window's running
// count, sum, min and max at the moment the point was absorbed.
type TSReportData struct {
	Timestamp   int64
	Measurement float64
	Count       int
	Sum         float64
	Min         float64
	Max         float64
}

// String formats the record as a tab-separated row, floating-point
// fields with 5 decimal places.
func (r TSReportData) String() string {
	return fmt.Sprintf("%d\t%.5f\t%d\t%.5f\t%.5f\t%.5f",
		r.Timestamp, r.Measurement, r.Count, r.Sum, r.Min, r.Max)
}
