package codec

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
)

// Env carries the resources used to build arrays. It is threaded explicitly
// through every encode and serialize call; no package-level allocator is
// consulted. An Env is safe for concurrent use when its allocator is.
type Env struct {
	// Allocator backs every builder created by Encode.
	Allocator memory.Allocator
	// Builders, when set, recycles builders between Encode calls. Builders
	// taken from the pool allocate from the pool's allocator.
	Builders *BuilderPool
	// Logger receives debug output for failed encodes.
	Logger *zap.Logger
}

// Option configures an Env
type Option func(*Env)

// WithAllocator sets the allocator used for builders
func WithAllocator(mem memory.Allocator) Option {
	return func(e *Env) { e.Allocator = mem }
}

// WithBuilderPool enables builder reuse through p
func WithBuilderPool(p *BuilderPool) Option {
	return func(e *Env) { e.Builders = p }
}

// WithLogger sets the logger used for debug output
func WithLogger(l *zap.Logger) Option {
	return func(e *Env) { e.Logger = l }
}

// NewEnv creates an Env. Without options it allocates from a fresh Go allocator.
func NewEnv(opts ...Option) *Env {
	env := &Env{}
	for _, opt := range opts {
		opt(env)
	}
	if env.Allocator == nil {
		if env.Builders != nil {
			env.Allocator = env.Builders.Allocator()
		} else {
			env.Allocator = memory.NewGoAllocator()
		}
	}
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	return env
}

var defaultEnv = sync.OnceValue(func() *Env { return NewEnv() })

// DefaultEnv returns a shared Env backed by the Go allocator, without builder
// pooling or logging.
func DefaultEnv() *Env {
	return defaultEnv()
}

func (e *Env) builder(dt arrow.DataType) array.Builder {
	if e.Builders != nil {
		return e.Builders.Get(dt)
	}
	mem := e.Allocator
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return array.NewBuilder(mem, dt)
}

// recycle hands an emptied builder back to the pool or releases it.
func (e *Env) recycle(b array.Builder) {
	if e.Builders != nil {
		e.Builders.Put(b)
		return
	}
	b.Release()
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
