// Package vireo is the execution core of a streaming query engine: the
// columnar block that carries data between pipeline stages and the adaptive
// speed governor that throttles or aborts a running query.
//
// # Architecture
//
// The core is two independent components consumed by a stream driver:
//
// 1. Block (pkg/block): an ordered collection of named, typed, equal-length
// columns with O(1) lookup by position and by name. Blocks are single-owner
// values, cheap to clone (containers shared, indexes rebuilt) and moved
// between stages.
//
// 2. Speed governor (pkg/governor): a stateless-per-call evaluator that
// takes periodic cumulative progress snapshots and either does nothing,
// sleeps to cap the average rate, or fails the query as too slow. Its own
// sleeps are recorded in a shared counter and excluded from later
// elapsed-time measurements.
//
// The two never call each other; a stream driver owns blocks, reports
// progress, and converts governor signals into query termination. The
// reference driver lives in internal/pipeline and is exercised through the
// vireo CLI; external drivers build on the public packages directly.
//
// # Quick Start
//
//	import (
//	    "time"
//	    "github.com/vireodb/vireo/pkg/block"
//	    "github.com/vireodb/vireo/pkg/column"
//	    "github.com/vireodb/vireo/pkg/governor"
//	    "github.com/vireodb/vireo/pkg/logger"
//	)
//
//	b := block.New()
//	b.Insert(block.Entry{Name: "id", Type: column.Int64, Data: column.NewInt64Data()})
//
//	gov := governor.New(governor.Limits{
//	    MaxRowsPerSecond: 100_000,
//	    MaxExecutionTime: time.Minute,
//	}, &governor.SleepCounter{}, logger.Get())
//
//	if err := gov.Throttle(progress); err != nil {
//	    // too_slow: terminate the query with the carried message
//	}
package vireo
