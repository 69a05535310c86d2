package sink

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/logger"
)

// BatchingSink buffers chunks and forwards them to an inner sink once
// BatchSize of them are pending.
type BatchingSink struct {
	inner     Sink
	batchSize int
	logger    *zap.Logger

	mu      sync.Mutex
	pending []Chunk
	closed  bool
}

// NewBatchingSink wraps inner. A batchSize below 1 is treated as 1.
func NewBatchingSink(inner Sink, batchSize int, logger *zap.Logger) (*BatchingSink, error) {
	if inner == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "inner sink is nil")
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchingSink{
		inner:     inner,
		batchSize: batchSize,
		logger:    logger,
		pending:   make([]Chunk, 0, batchSize),
	}, nil
}

func (b *BatchingSink) Send(ctx context.Context, chunk Chunk) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New(errors.ErrorTypeSink, "batching sink is closed")
	}
	b.pending = append(b.pending, chunk.Retain())
	if len(b.pending) < b.batchSize {
		return nil
	}
	return b.flushLocked(ctx)
}

// Pending returns the number of buffered chunks
func (b *BatchingSink) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *BatchingSink) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.flushLocked(ctx); err != nil {
		return err
	}
	return b.inner.Flush(ctx)
}

// flushLocked forwards pending chunks in order. On failure the chunks not yet
// delivered are dropped.
func (b *BatchingSink) flushLocked(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	batch := b.pending
	b.pending = make([]Chunk, 0, b.batchSize)
	defer func() {
		for _, c := range batch {
			c.Release()
		}
	}()

	for i, c := range batch {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeSink, "flush cancelled").
				WithDetail("dropped", len(batch)-i)
		}
		if err := b.inner.Send(ctx, c); err != nil {
			logger.WithContext(ctx, b.logger).Warn("dropping batch after send failure",
				zap.Int("dropped", len(batch)-i),
				zap.Error(err))
			return err
		}
	}
	b.logger.Debug("batch flushed", zap.Int("chunks", len(batch)))
	return nil
}

// Close flushes pending chunks and closes the inner sink.
func (b *BatchingSink) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	flushErr := b.flushLocked(context.Background())
	closeErr := b.inner.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
