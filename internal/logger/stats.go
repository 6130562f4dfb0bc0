package logger

import "sync/atomic"

var (
	predictions atomic.Int64
	errorCount  atomic.Int64
	warnings    atomic.Int64
)

// Counts is what the health endpoint reports. Counters move whether or not
// the matching log line was sampled.
type Counts struct {
	Predictions int64
	Errors      int64
	Warnings    int64
}

// Stats returns the current counters
func Stats() Counts {
	return Counts{
		Predictions: predictions.Load(),
		Errors:      errorCount.Load(),
		Warnings:    warnings.Load(),
	}
}

// CountPrediction records one completed prediction
func CountPrediction() {
	predictions.Add(1)
}

// CountHTTPStatus counts a 5xx response as an error and a 4xx response as
// a warning
func CountHTTPStatus(status int) {
	switch {
	case status >= 500:
		errorCount.Add(1)
	case status >= 400:
		warnings.Add(1)
	}
}
