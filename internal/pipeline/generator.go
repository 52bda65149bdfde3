package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vireodb/vireo/pkg/block"
	"github.com/vireodb/vireo/pkg/column"
	"github.com/vireodb/vireo/pkg/pool"
	stringpool "github.com/vireodb/vireo/pkg/strings"
)

// blockPool recycles block shells between the generator and sinks that
// release their blocks. Sinks that retain blocks simply never return them.
var blockPool = pool.New(
	func() *block.Block { return block.New() },
	func(b *block.Block) { b.Clear() },
)

// GeneratorSource produces synthetic blocks with a fixed three-column
// schema (id Int64, value Float64, label String). Used by the demo command
// and the driver tests.
type GeneratorSource struct {
	blockRows int
	numBlocks int

	produced int
	nextID   int64
}

// NewGeneratorSource creates a source that emits numBlocks blocks of
// blockRows rows each.
func NewGeneratorSource(blockRows, numBlocks int) *GeneratorSource {
	return &GeneratorSource{blockRows: blockRows, numBlocks: numBlocks}
}

// TotalRows returns the exact row count the generator will produce.
func (s *GeneratorSource) TotalRows() uint64 {
	return uint64(s.blockRows) * uint64(s.numBlocks)
}

// Read produces the next block, or nil when the configured count is done.
func (s *GeneratorSource) Read(ctx context.Context) (*block.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.produced >= s.numBlocks {
		return nil, nil
	}
	s.produced++

	ids := column.NewInt64Data()
	values := column.NewFloat64Data()
	labels := column.NewStringData()

	for i := 0; i < s.blockRows; i++ {
		id := s.nextID
		s.nextID++

		if err := ids.Append(id); err != nil {
			return nil, err
		}
		if err := values.Append(float64(id) * 0.5); err != nil {
			return nil, err
		}
		if err := labels.Append(stringpool.Sprintf("row-%d", id)); err != nil {
			return nil, err
		}
	}

	b := blockPool.Get()
	b.Insert(block.Entry{Name: "id", Type: column.Int64, Data: ids})
	b.Insert(block.Entry{Name: "value", Type: column.Float64, Data: values})
	b.Insert(block.Entry{Name: "label", Type: column.String, Data: labels})
	return b, nil
}

// MemorySink retains every block it receives. Test and demo helper.
type MemorySink struct {
	mu     sync.Mutex
	blocks []*block.Block
	rows   uint64
}

// NewMemorySink creates an empty collecting sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write retains the block.
func (s *MemorySink) Write(_ context.Context, b *block.Block) error {
	rows, err := b.Rows()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.blocks = append(s.blocks, b)
	s.rows += uint64(rows)
	s.mu.Unlock()
	return nil
}

// Blocks returns the retained blocks.
func (s *MemorySink) Blocks() []*block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks
}

// Rows returns the total rows written.
func (s *MemorySink) Rows() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// DiscardSink counts rows and releases blocks back to the pool. Used by the
// demo command where only throughput matters.
type DiscardSink struct {
	rows atomic.Uint64
}

// Write counts the block's rows and recycles it.
func (s *DiscardSink) Write(_ context.Context, b *block.Block) error {
	rows, err := b.Rows()
	if err != nil {
		return err
	}

	s.rows.Add(uint64(rows))
	blockPool.Put(b)
	return nil
}

// Rows returns the total rows discarded.
func (s *DiscardSink) Rows() uint64 {
	return s.rows.Load()
}
