// Package metrics provides Prometheus observability for Vireo query
// execution: block/row throughput counters and the throttler sleep time
// accumulated by the speed governor.
//
// Counter: monotonically increasing values (e.g. rows processed)
// Gauge: values that can go up or down (e.g. current throughput)
// Histogram: distribution of values (e.g. per-block processing latency)
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlocksProcessed tracks the total number of blocks that passed through
	// a pipeline stage.
	// Labels: pipeline, stage, status (success/failure)
	BlocksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vireo_blocks_processed_total",
			Help: "Total number of blocks processed",
		},
		[]string{"pipeline", "stage", "status"},
	)

	// RowsProcessed tracks the total number of rows read by a pipeline.
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vireo_rows_processed_total",
			Help: "Total number of rows processed",
		},
		[]string{"pipeline"},
	)

	// BytesProcessed tracks the total number of bytes read by a pipeline.
	BytesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vireo_bytes_processed_total",
			Help: "Total number of bytes processed",
		},
		[]string{"pipeline"},
	)

	// ThrottleSleepMicroseconds tracks the cumulative time the speed governor
	// spent sleeping to cap throughput. The governor excludes this time from
	// its own elapsed-time measurements.
	ThrottleSleepMicroseconds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vireo_throttle_sleep_microseconds_total",
			Help: "Cumulative governor throttling sleep time in microseconds",
		},
	)

	// ThrottleEvents counts individual governor-initiated sleeps.
	ThrottleEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vireo_throttle_events_total",
			Help: "Total number of governor throttling sleeps",
		},
	)

	// QueriesFailed counts queries terminated by the governor.
	// Labels: reason (min_rows/min_bytes/projection)
	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vireo_queries_failed_total",
			Help: "Total number of queries failed by the speed governor",
		},
		[]string{"reason"},
	)

	// Throughput tracks rows per second per pipeline.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vireo_throughput_rows_per_second",
			Help: "Current throughput in rows per second",
		},
		[]string{"pipeline"},
	)

	// BlockLatency tracks the distribution of per-block processing latencies
	// in nanoseconds, with buckets tuned for sub-millisecond stages.
	BlockLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "vireo_block_latency_nanoseconds",
			Help: "Per-block processing latency in nanoseconds",
			Buckets: []float64{
				1000,   // 1μs - memory-only operators
				10000,  // 10μs - small blocks
				100000, // 100μs - typical blocks
				1e6,    // 1ms
				1e7,    // 10ms
				1e8,    // 100ms - large blocks
				1e9,    // 1s
			},
		},
		[]string{"pipeline", "stage"},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. The timer can be stopped
// multiple times, each returning the total elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks rows per second over time windows and publishes
// the result to the Throughput gauge. Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	pipeline  string
}

// NewThroughputTracker creates a throughput tracker for a pipeline.
func NewThroughputTracker(pipeline string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		pipeline:  pipeline,
	}
}

// Increment adds n to the row count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (rows/second), updates the
// Prometheus gauge, resets the counter, and returns the calculated value.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()

	Throughput.WithLabelValues(t.pipeline).Set(throughput)

	return throughput
}
