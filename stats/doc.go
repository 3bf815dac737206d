// Package stats polls a stop repeatedly and summarizes which services were
// observed across the samples.
//
// Sampling is intentionally serial: the provider must be polled at real
// wall-clock intervals to observe changing bus positions, so a statistics
// request blocks for roughly samples x interval. Individual sample failures
// are skipped rather than aborting the run.
package stats
