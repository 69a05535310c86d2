package sink

import (
	"context"
	"sync"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/metrics"
)

// MemorySink keeps every chunk in memory.
type MemorySink struct {
	mu     sync.Mutex
	chunks []Chunk
	closed bool
}

// NewMemorySink creates an empty memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Send(_ context.Context, chunk Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New(errors.ErrorTypeSink, "memory sink is closed")
	}
	m.chunks = append(m.chunks, chunk.Retain())
	metrics.SinkChunks.WithLabelValues("memory").Inc()
	return nil
}

func (m *MemorySink) Flush(context.Context) error { return nil }

// Chunks returns the chunks received so far. They stay valid until Close.
func (m *MemorySink) Chunks() []Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Chunk, len(m.chunks))
	copy(out, m.chunks)
	return out
}

// Len returns the number of chunks received
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}

// Close releases every chunk.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for _, c := range m.chunks {
		c.Release()
	}
	m.chunks = nil
	return nil
}
