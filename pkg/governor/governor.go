// Package governor implements the adaptive speed governor that throttles or
// aborts a running query from observed row/byte throughput and projected
// completion time.
//
// The governor is stateless per call: it holds only an immutable Limits
// configuration and a reference to the query-scoped sleep counter. It may be
// invoked concurrently from the parallel streams of one query, each with its
// own progress counters, all sharing that one counter.
package governor

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vireodb/vireo/pkg/errors"
	"github.com/vireodb/vireo/pkg/metrics"
)

// Limits is the per-query speed configuration, fixed once at query start
// from session settings. Zero values disable the corresponding check.
type Limits struct {
	// MinRowsPerSecond fails the query when the measured row rate drops
	// below it.
	MinRowsPerSecond uint64 `yaml:"min_rows_per_second" json:"min_rows_per_second"`
	// MaxRowsPerSecond caps the average row rate via bounded sleeps.
	MaxRowsPerSecond uint64 `yaml:"max_rows_per_second" json:"max_rows_per_second"`
	// MinBytesPerSecond fails the query when the measured byte rate drops
	// below it.
	MinBytesPerSecond uint64 `yaml:"min_bytes_per_second" json:"min_bytes_per_second"`
	// MaxBytesPerSecond caps the average byte rate via bounded sleeps.
	MaxBytesPerSecond uint64 `yaml:"max_bytes_per_second" json:"max_bytes_per_second"`
	// TimeoutBeforeCheck suppresses all checks until this much time has
	// elapsed, avoiding false positives on very short queries.
	TimeoutBeforeCheck time.Duration `yaml:"timeout_before_check" json:"timeout_before_check"`
	// MaxExecutionTime fails the query when the projected total execution
	// time exceeds it.
	MaxExecutionTime time.Duration `yaml:"max_execution_time" json:"max_execution_time"`
}

// Enabled reports whether any limit is configured at all.
func (l Limits) Enabled() bool {
	return l.MinRowsPerSecond != 0 || l.MaxRowsPerSecond != 0 ||
		l.MinBytesPerSecond != 0 || l.MaxBytesPerSecond != 0 ||
		l.MaxExecutionTime != 0
}

// Progress is a cumulative snapshot reported by the pipeline driver on each
// check. All counters are monotonically non-decreasing totals, never deltas.
type Progress struct {
	ReadRows  uint64
	ReadBytes uint64
	// TotalRows is the estimated total rows to process; 0 means unknown.
	TotalRows uint64
	// Elapsed is the total wall time since the query started.
	Elapsed time.Duration
}

// SleepCounter accumulates the throttling sleep time of one query across all
// of its streams. The governor subtracts this from elapsed time on later
// evaluations so its own sleeps are not misread as slow progress. Safe for
// concurrent increment and read.
type SleepCounter struct {
	micros atomic.Int64
}

// Add records d of throttling sleep and mirrors it to the Prometheus
// counter.
func (c *SleepCounter) Add(d time.Duration) {
	c.micros.Add(d.Microseconds())
	metrics.ThrottleSleepMicroseconds.Add(float64(d.Microseconds()))
}

// Total returns the accumulated sleep time.
func (c *SleepCounter) Total() time.Duration {
	return time.Duration(c.micros.Load()) * time.Microsecond
}

// Governor evaluates one query's progress against its limits.
type Governor struct {
	limits Limits
	sleeps *SleepCounter
	logger *zap.Logger

	// sleep blocks the calling thread; replaced in tests.
	sleep func(time.Duration)
}

// New creates a governor for one query. The sleep counter is shared by
// every stream of the query; limits are immutable for the query's lifetime.
func New(limits Limits, sleeps *SleepCounter, logger *zap.Logger) *Governor {
	return &Governor{
		limits: limits,
		sleeps: sleeps,
		logger: logger.With(zap.String("component", "governor")),
		sleep:  time.Sleep,
	}
}

// Limits returns the immutable configuration.
func (g *Governor) Limits() Limits { return g.limits }

// maxThrottleSleep bounds a single throttling sleep so the driver can still
// observe cancellation between progress checks.
const maxThrottleSleep = time.Second

// Throttle evaluates one progress snapshot. It returns a too_slow error when
// the query must be terminated, or nil after optionally sleeping to cap the
// average rate at the configured maximum. Min-speed and projection checks
// are fatal; max-speed sleeps are pure backpressure, bounded at one second
// each and recorded in the shared sleep counter.
func (g *Governor) Throttle(p Progress) error {
	limited := g.limits.MinRowsPerSecond != 0 || g.limits.MaxRowsPerSecond != 0 ||
		g.limits.MinBytesPerSecond != 0 || g.limits.MaxBytesPerSecond != 0 ||
		(p.TotalRows != 0 && (g.limits.MaxExecutionTime != 0 || g.limits.TimeoutBeforeCheck != 0))

	if !limited || p.Elapsed <= g.limits.TimeoutBeforeCheck {
		return nil
	}

	// Exclude our own sleeps from the measurement. The counter can
	// transiently exceed elapsed when another stream slept after this
	// snapshot was taken; skip the round entirely then.
	slept := g.sleeps.Total()
	if slept > p.Elapsed {
		return nil
	}

	elapsedSeconds := (p.Elapsed - slept).Seconds()
	if elapsedSeconds <= 0 {
		return nil
	}

	rowRate := float64(p.ReadRows) / elapsedSeconds
	byteRate := float64(p.ReadBytes) / elapsedSeconds

	if g.limits.MinRowsPerSecond != 0 && rowRate < float64(g.limits.MinRowsPerSecond) {
		metrics.QueriesFailed.WithLabelValues("min_rows").Inc()
		return errors.Newf(errors.ErrorTypeTooSlow,
			"query is executing too slow: %.0f rows/sec, minimum: %d",
			rowRate, g.limits.MinRowsPerSecond)
	}

	if g.limits.MinBytesPerSecond != 0 && byteRate < float64(g.limits.MinBytesPerSecond) {
		metrics.QueriesFailed.WithLabelValues("min_bytes").Inc()
		return errors.Newf(errors.ErrorTypeTooSlow,
			"query is executing too slow: %.0f bytes/sec, minimum: %d",
			byteRate, g.limits.MinBytesPerSecond)
	}

	// Projected completion time from the fraction of rows done so far.
	if g.limits.MaxExecutionTime != 0 && p.TotalRows != 0 && p.ReadRows != 0 {
		estimatedSeconds := elapsedSeconds * float64(p.TotalRows) / float64(p.ReadRows)

		if estimatedSeconds > g.limits.MaxExecutionTime.Seconds() {
			metrics.QueriesFailed.WithLabelValues("projection").Inc()
			return errors.Newf(errors.ErrorTypeTooSlow,
				"estimated query execution time (%.1f seconds) is too long, maximum: %.1f seconds, estimated rows to process: %d",
				estimatedSeconds, g.limits.MaxExecutionTime.Seconds(), p.TotalRows)
		}
	}

	if g.limits.MaxRowsPerSecond != 0 && rowRate >= float64(g.limits.MaxRowsPerSecond) {
		g.limitProgressingSpeed(p.ReadRows, g.limits.MaxRowsPerSecond, p.Elapsed)
	}

	if g.limits.MaxBytesPerSecond != 0 && byteRate >= float64(g.limits.MaxBytesPerSecond) {
		g.limitProgressingSpeed(p.ReadBytes, g.limits.MaxBytesPerSecond, p.Elapsed)
	}

	return nil
}

// limitProgressingSpeed sleeps long enough that the average rate over the
// whole query comes down to exactly maxSpeed, clamped to one second per
// call. The slept time is added to the shared counter so later evaluations
// exclude it from elapsed time.
func (g *Governor) limitProgressingSpeed(totalProgress, maxSpeed uint64, totalElapsed time.Duration) {
	desired := time.Duration(float64(totalProgress) / float64(maxSpeed) * float64(time.Second))
	if desired <= totalElapsed {
		return
	}

	sleepFor := desired - totalElapsed
	if sleepFor > maxThrottleSleep {
		sleepFor = maxThrottleSleep
	}

	g.logger.Debug("throttling query",
		zap.Duration("sleep", sleepFor),
		zap.Uint64("progress", totalProgress),
		zap.Uint64("max_speed", maxSpeed))

	g.sleep(sleepFor)
	g.sleeps.Add(sleepFor)
	metrics.ThrottleEvents.Inc()
}
