// Package pool provides type-safe object pooling for Vireo. Blocks and the
// slices that carry them between pipeline stages are recycled through these
// pools to keep steady-state allocation near zero.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool wraps sync.Pool with type safety, an optional reset hook, and
// hit/miss statistics. Safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		hits      int64
		misses    int64
	}
}

// New creates a typed pool. The factory is called when the pool is empty;
// the reset hook, if non-nil, runs before an object is returned to the pool.
func New[T any](factory func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		atomic.AddInt64(&p.stats.misses, 1)
		return factory()
	}
	return p
}

// Get retrieves an object from the pool, creating one if necessary.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.hits, 1)
	return p.pool.Get().(T)
}

// Put resets the object and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Stats reports cumulative pool counters.
type Stats struct {
	Allocated int64
	Hits      int64
	Misses    int64
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Allocated: atomic.LoadInt64(&p.stats.allocated),
		Hits:      atomic.LoadInt64(&p.stats.hits),
		Misses:    atomic.LoadInt64(&p.stats.misses),
	}
}
