// Package config provides the query/session configuration for Vireo.
// A QueryConfig is populated once at query start and stays immutable for
// the query's lifetime; the Limits section carries the speed-governor knobs.
package config

import (
	"time"

	"github.com/vireodb/vireo/pkg/errors"
	"github.com/vireodb/vireo/pkg/governor"
)

// QueryConfig is the per-query configuration assembled from session
// settings.
type QueryConfig struct {
	// Name identifies the query or pipeline instance
	Name string `yaml:"name" json:"name"`

	// Limits carries the six speed-governor knobs
	Limits governor.Limits `yaml:"limits" json:"limits"`

	// Pipeline controls the stream driver
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// Logging configures the structured logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PipelineConfig controls the stream driver's batching and check cadence.
type PipelineConfig struct {
	// BlockRows is the number of rows per block produced by the source
	BlockRows int `yaml:"block_rows" json:"block_rows"`
	// CheckInterval is how often progress is reported to the governor;
	// 0 means after every block
	CheckInterval time.Duration `yaml:"check_interval" json:"check_interval"`
	// StatsInterval is how often live stats are logged
	StatsInterval time.Duration `yaml:"stats_interval" json:"stats_interval"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
	Encoding    string `yaml:"encoding" json:"encoding"`
}

// NewQueryConfig returns a configuration with defaults applied.
func NewQueryConfig(name string) *QueryConfig {
	return &QueryConfig{
		Name: name,
		Pipeline: PipelineConfig{
			BlockRows:     8192,
			StatsInterval: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate checks the configuration and fills in defaults for zero fields.
func (c *QueryConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "query name is required")
	}

	if c.Pipeline.BlockRows < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "block_rows must be non-negative, got %d", c.Pipeline.BlockRows)
	}
	if c.Pipeline.BlockRows == 0 {
		c.Pipeline.BlockRows = 8192
	}
	if c.Pipeline.StatsInterval == 0 {
		c.Pipeline.StatsInterval = 10 * time.Second
	}

	if c.Limits.MinRowsPerSecond != 0 && c.Limits.MaxRowsPerSecond != 0 &&
		c.Limits.MinRowsPerSecond > c.Limits.MaxRowsPerSecond {
		return errors.Newf(errors.ErrorTypeConfig,
			"min_rows_per_second (%d) exceeds max_rows_per_second (%d)",
			c.Limits.MinRowsPerSecond, c.Limits.MaxRowsPerSecond)
	}

	if c.Limits.MinBytesPerSecond != 0 && c.Limits.MaxBytesPerSecond != 0 &&
		c.Limits.MinBytesPerSecond > c.Limits.MaxBytesPerSecond {
		return errors.Newf(errors.ErrorTypeConfig,
			"min_bytes_per_second (%d) exceeds max_bytes_per_second (%d)",
			c.Limits.MinBytesPerSecond, c.Limits.MaxBytesPerSecond)
	}

	if c.Limits.TimeoutBeforeCheck < 0 || c.Limits.MaxExecutionTime < 0 {
		return errors.New(errors.ErrorTypeConfig, "governor durations must be non-negative")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "json"
	}

	return nil
}
