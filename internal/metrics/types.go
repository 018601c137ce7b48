package metrics

import (
	"math"
	"time"
)

// Provider operation names recorded by the aggregator.
const (
	OpGenerate = "generate"
	OpEmbed    = "embed"
	OpHealth   = "health"
)

// OperationStats aggregates every call of one provider operation.
type OperationStats struct {
	Operation     string      `json:"operation"`
	Calls         int64       `json:"calls"`
	Errors        int64       `json:"errors"`
	LatencyMillis RunningStat `json:"latency_ms"`
}

// Total returns the summed latency of all recorded calls.
func (s OperationStats) Total() time.Duration {
	return time.Duration(s.LatencyMillis.Mean * float64(s.LatencyMillis.Count) * float64(time.Millisecond))
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev returns the sample standard deviation, zero below two samples.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
