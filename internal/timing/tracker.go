// Package timing keeps recent durations of named operations.
package timing

import (
	"sort"
	"sync"
	"time"
)

const DefaultWindow = 64

// Tracker records the last window durations per operation.
type Tracker struct {
	mu      sync.RWMutex
	timings map[string][]time.Duration
	window  int
	enabled bool
}

func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		timings: make(map[string][]time.Duration),
		window:  window,
		enabled: true,
	}
}

// Start begins timing operation. The returned function records and returns
// the elapsed time.
func (tt *Tracker) Start(operation string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		tt.Record(operation, d)
		return d
	}
}

func (tt *Tracker) Record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if !tt.enabled {
		return
	}

	samples := append(tt.timings[operation], d)
	if len(samples) > tt.window {
		samples = samples[len(samples)-tt.window:]
	}
	tt.timings[operation] = samples
}

// Timings returns a copy of the recorded samples, oldest first.
func (tt *Tracker) Timings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) Average(operation string) time.Duration {
	timings := tt.Timings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

// Summary returns count and average per operation, keyed for log fields.
func (tt *Tracker) Summary() map[string]interface{} {
	tt.mu.RLock()
	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	tt.mu.RUnlock()
	sort.Strings(ops)

	summary := make(map[string]interface{}, len(ops)*2)
	for _, op := range ops {
		summary[op+"_count"] = len(tt.Timings(op))
		summary[op+"_avg"] = tt.Average(op).String()
	}
	return summary
}

func (tt *Tracker) SetEnabled(enabled bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.enabled = enabled
}

// Reset drops samples for operation, or for every operation when it is empty.
func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.timings = make(map[string][]time.Duration)
	} else {
		delete(tt.timings, operation)
	}
}
