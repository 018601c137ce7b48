package metrics

import (
	"sort"
	"sync"
	"time"
)

// Aggregator collects per-operation provider call statistics in memory.
// It is safe for concurrent use by the embedding work queue.
type Aggregator struct {
	mutex sync.Mutex
	stats map[string]*OperationStats
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{stats: make(map[string]*OperationStats)}
}

// Record adds one call of op that took elapsed and ended with err.
func (a *Aggregator) Record(op string, elapsed time.Duration, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	s, ok := a.stats[op]
	if !ok {
		s = &OperationStats{Operation: op}
		a.stats[op] = s
	}
	s.Calls++
	if err != nil {
		s.Errors++
	}
	updateRunningStat(&s.LatencyMillis, float64(elapsed)/float64(time.Millisecond))
}

// Summary returns a copy of the collected statistics ordered by operation name.
func (a *Aggregator) Summary() []OperationStats {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]OperationStats, 0, len(a.stats))
	for _, s := range a.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Operation < out[j].Operation
	})
	return out
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
