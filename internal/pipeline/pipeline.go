// Package pipeline implements the stream driver that owns blocks as they
// flow from a source through operators to a sink, reporting cumulative
// progress to the speed governor on a regular cadence.
//
// The driver is the only component that calls both the block layer and the
// governor; the two never call each other. A too_slow signal from the
// governor unwinds the pipeline and fails the query.
package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vireodb/vireo/pkg/block"
	"github.com/vireodb/vireo/pkg/config"
	"github.com/vireodb/vireo/pkg/errors"
	"github.com/vireodb/vireo/pkg/governor"
	"github.com/vireodb/vireo/pkg/metrics"
)

// BlockSource produces blocks for the pipeline. Read returns nil when the
// stream is exhausted.
type BlockSource interface {
	Read(ctx context.Context) (*block.Block, error)
	// TotalRows returns the estimated total row count, 0 when unknown.
	TotalRows() uint64
}

// BlockSink consumes processed blocks.
type BlockSink interface {
	Write(ctx context.Context, b *block.Block) error
}

// Operator transforms a block in-flight. Operators run sequentially in the
// order they were added and may return a new block or mutate the given one.
type Operator func(ctx context.Context, b *block.Block) (*block.Block, error)

// StreamPipeline drives one query's stream of blocks and its governor.
type StreamPipeline struct {
	cfg       *config.QueryConfig
	source    BlockSource
	sink      BlockSink
	operators []Operator

	gov    *governor.Governor
	sleeps *governor.SleepCounter

	// Cumulative progress, shared with the stats reporter
	readRows  atomic.Uint64
	readBytes atomic.Uint64
	blocks    atomic.Uint64

	startTime time.Time
	tracker   *metrics.ThroughputTracker
	logger    *zap.Logger
	proc      *procSampler
}

// New creates a pipeline for the given query configuration. The governor is
// constructed here with a fresh query-scoped sleep counter.
func New(cfg *config.QueryConfig, source BlockSource, sink BlockSink, logger *zap.Logger) *StreamPipeline {
	sleeps := &governor.SleepCounter{}
	return &StreamPipeline{
		cfg:     cfg,
		source:  source,
		sink:    sink,
		gov:     governor.New(cfg.Limits, sleeps, logger),
		sleeps:  sleeps,
		tracker: metrics.NewThroughputTracker(cfg.Name),
		logger:  logger.With(zap.String("pipeline", cfg.Name)),
		proc:    newProcSampler(),
	}
}

// AddOperator appends a transformation stage.
func (p *StreamPipeline) AddOperator(op Operator) {
	p.operators = append(p.operators, op)
}

// SleepCounter exposes the query-scoped throttling sleep accumulator.
func (p *StreamPipeline) SleepCounter() *governor.SleepCounter {
	return p.sleeps
}

// Run drives the stream to completion. It returns the first fatal error:
// a structural violation from the block layer, a sink/source failure, a
// governor too_slow signal, or context cancellation.
func (p *StreamPipeline) Run(ctx context.Context) error {
	p.startTime = time.Now()
	totalRows := p.source.TotalRows()

	p.logger.Info("pipeline starting",
		zap.Uint64("total_rows_estimate", totalRows),
		zap.Int("operators", len(p.operators)))

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go p.reportStats(statsCtx)

	var reference *block.Block
	lastCheck := p.startTime

	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeQuery, "pipeline canceled")
		}

		blk, err := p.source.Read(ctx)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeQuery, "source read failed")
		}
		if blk == nil {
			break
		}

		timer := metrics.NewTimer()

		rows, err := blk.Rows()
		if err != nil {
			metrics.BlocksProcessed.WithLabelValues(p.cfg.Name, "read", "failure").Inc()
			return err
		}
		bytes := blk.ByteSize()

		for _, op := range p.operators {
			blk, err = op(ctx, blk)
			if err != nil {
				metrics.BlocksProcessed.WithLabelValues(p.cfg.Name, "operator", "failure").Inc()
				return err
			}
		}

		// The sink sees one schema for the whole stream. The first block
		// fixes it; later blocks only need compatible types.
		if reference == nil {
			reference = blk.CloneEmpty()
		} else if !block.CompatibleStructure(reference, blk) {
			return errors.Newf(errors.ErrorTypeQuery,
				"block structure diverged from stream schema: [%s] vs [%s]",
				reference.DumpStructure(), blk.DumpStructure())
		}

		if err := p.sink.Write(ctx, blk); err != nil {
			metrics.BlocksProcessed.WithLabelValues(p.cfg.Name, "write", "failure").Inc()
			return errors.Wrap(err, errors.ErrorTypeQuery, "sink write failed")
		}

		p.readRows.Add(uint64(rows))
		p.readBytes.Add(uint64(bytes))
		p.blocks.Add(1)
		p.tracker.Increment(int64(rows))

		metrics.BlocksProcessed.WithLabelValues(p.cfg.Name, "write", "success").Inc()
		metrics.RowsProcessed.WithLabelValues(p.cfg.Name).Add(float64(rows))
		metrics.BytesProcessed.WithLabelValues(p.cfg.Name).Add(float64(bytes))
		metrics.BlockLatency.WithLabelValues(p.cfg.Name, "total").Observe(float64(timer.Stop().Nanoseconds()))

		if p.cfg.Pipeline.CheckInterval == 0 || time.Since(lastCheck) >= p.cfg.Pipeline.CheckInterval {
			lastCheck = time.Now()
			if err := p.checkSpeed(totalRows); err != nil {
				return err
			}
		}
	}

	p.logger.Info("pipeline finished",
		zap.Uint64("rows", p.readRows.Load()),
		zap.Uint64("bytes", p.readBytes.Load()),
		zap.Uint64("blocks", p.blocks.Load()),
		zap.Duration("elapsed", time.Since(p.startTime)),
		zap.Duration("throttled", p.sleeps.Total()))

	return nil
}

// checkSpeed reports cumulative progress to the governor and converts its
// signal into query termination.
func (p *StreamPipeline) checkSpeed(totalRows uint64) error {
	err := p.gov.Throttle(governor.Progress{
		ReadRows:  p.readRows.Load(),
		ReadBytes: p.readBytes.Load(),
		TotalRows: totalRows,
		Elapsed:   time.Since(p.startTime),
	})
	if err != nil {
		p.logger.Error("query terminated by speed governor", zap.Error(err))
		return err
	}
	return nil
}

// reportStats periodically logs live pipeline statistics.
func (p *StreamPipeline) reportStats(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Pipeline.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := p.Stats()
			p.logger.Info("pipeline stats",
				zap.Uint64("rows", stats.RowsProcessed),
				zap.Uint64("blocks", stats.BlocksProcessed),
				zap.Float64("rows_per_sec", stats.ThroughputRPS),
				zap.Uint64("memory_rss_bytes", stats.MemoryRSSBytes),
				zap.Float64("cpu_percent", stats.CPUPercent))
		}
	}
}
