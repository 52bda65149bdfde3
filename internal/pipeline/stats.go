package pipeline

import (
	"os"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/shirou/gopsutil/v3/process"
)

// StreamStats is a point-in-time snapshot of one pipeline's progress.
type StreamStats struct {
	Query            string        `json:"query"`
	BlocksProcessed  uint64        `json:"blocks_processed"`
	RowsProcessed    uint64        `json:"rows_processed"`
	BytesProcessed   uint64        `json:"bytes_processed"`
	ThroughputRPS    float64       `json:"throughput_rps"`
	ThrottleSleep    time.Duration `json:"throttle_sleep"`
	Elapsed          time.Duration `json:"elapsed"`
	MemoryRSSBytes   uint64        `json:"memory_rss_bytes"`
	CPUPercent       float64       `json:"cpu_percent"`
}

// Stats returns a snapshot of the pipeline's cumulative counters plus
// process-level resource usage.
func (p *StreamPipeline) Stats() StreamStats {
	stats := StreamStats{
		Query:           p.cfg.Name,
		BlocksProcessed: p.blocks.Load(),
		RowsProcessed:   p.readRows.Load(),
		BytesProcessed:  p.readBytes.Load(),
		ThroughputRPS:   p.tracker.GetAndReset(),
		ThrottleSleep:   p.sleeps.Total(),
	}
	if !p.startTime.IsZero() {
		stats.Elapsed = time.Since(p.startTime)
	}

	if rss, cpu, ok := p.proc.sample(); ok {
		stats.MemoryRSSBytes = rss
		stats.CPUPercent = cpu
	}

	return stats
}

// JSON encodes the snapshot for CLI output and structured sinks.
func (s StreamStats) JSON() ([]byte, error) {
	return gojson.Marshal(s)
}

// procSampler reads RSS and CPU utilization for the current process.
type procSampler struct {
	proc *process.Process
}

func newProcSampler() *procSampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return &procSampler{}
	}
	return &procSampler{proc: proc}
}

func (s *procSampler) sample() (rss uint64, cpu float64, ok bool) {
	if s.proc == nil {
		return 0, 0, false
	}

	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return 0, 0, false
	}

	cpu, err = s.proc.CPUPercent()
	if err != nil {
		cpu = 0
	}

	return mem.RSS, cpu, true
}
