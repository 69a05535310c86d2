package codec

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
)

// Builder pool events reported to the observer.
const (
	PoolHit     = "hit"
	PoolMiss    = "miss"
	PoolReset   = "reset"
	PoolDiscard = "discard"
)

// DefaultBuildersPerType bounds how many idle builders are kept per data type.
const DefaultBuildersPerType = 4

// BuilderPool recycles Arrow builders between Encode calls to avoid
// allocation overhead. Builders are keyed by data type fingerprint; a builder
// finalized with NewArray is empty again and can be handed out as is.
type BuilderPool struct {
	mu         sync.Mutex
	idle       map[string][]array.Builder
	allocator  memory.Allocator
	maxPerType int
	logger     *zap.Logger
	observer   func(event string)
	closed     bool

	// Pool statistics for monitoring
	stats struct {
		hits   int64
		misses int64
		resets int64
	}
}

// NewBuilderPool creates a builder pool allocating from allocator
func NewBuilderPool(allocator memory.Allocator, maxPerType int, logger *zap.Logger) *BuilderPool {
	if allocator == nil {
		allocator = memory.NewGoAllocator()
	}
	if maxPerType <= 0 {
		maxPerType = DefaultBuildersPerType
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuilderPool{
		idle:       make(map[string][]array.Builder),
		allocator:  allocator,
		maxPerType: maxPerType,
		logger:     logger,
	}
}

// SetObserver registers fn to be called for every pool event.
func (p *BuilderPool) SetObserver(fn func(event string)) {
	p.mu.Lock()
	p.observer = fn
	p.mu.Unlock()
}

// Allocator returns the allocator new builders are created with
func (p *BuilderPool) Allocator() memory.Allocator {
	return p.allocator
}

// Get retrieves an empty builder for dt, creating one if necessary
func (p *BuilderPool) Get(dt arrow.DataType) array.Builder {
	key := dt.Fingerprint()

	p.mu.Lock()
	if key != "" && !p.closed {
		if free := p.idle[key]; len(free) > 0 {
			b := free[len(free)-1]
			p.idle[key] = free[:len(free)-1]
			p.stats.hits++
			p.mu.Unlock()
			p.notify(PoolHit)
			return b
		}
	}
	p.stats.misses++
	p.mu.Unlock()

	p.notify(PoolMiss)
	return array.NewBuilder(p.allocator, dt)
}

// Put returns a builder to the pool. The builder must be empty, i.e. freshly
// finalized by NewArray; anything else is released.
func (p *BuilderPool) Put(b array.Builder) {
	if b == nil {
		return
	}
	key := b.Type().Fingerprint()

	p.mu.Lock()
	if key == "" || p.closed || b.Len() != 0 || len(p.idle[key]) >= p.maxPerType {
		p.mu.Unlock()
		b.Release()
		p.notify(PoolDiscard)
		return
	}
	p.idle[key] = append(p.idle[key], b)
	p.stats.resets++
	p.mu.Unlock()
	p.notify(PoolReset)
}

// Stats returns pool statistics
func (p *BuilderPool) Stats() (hits, misses, resets int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.hits, p.stats.misses, p.stats.resets
}

// Idle returns the number of builders currently held by the pool
func (p *BuilderPool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, free := range p.idle {
		n += len(free)
	}
	return n
}

// Close releases every pooled builder. Builders returned afterwards are
// released immediately.
func (p *BuilderPool) Close() {
	p.mu.Lock()
	idle := p.idle
	p.idle = make(map[string][]array.Builder)
	p.closed = true
	p.mu.Unlock()

	released := 0
	for _, free := range idle {
		for _, b := range free {
			b.Release()
			released++
		}
	}
	p.logger.Debug("Arrow builder pool closed", zap.Int("released", released))
}

func (p *BuilderPool) notify(event string) {
	p.mu.Lock()
	fn := p.observer
	p.mu.Unlock()
	if fn != nil {
		fn(event)
	}
}
