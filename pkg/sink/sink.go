// Package sink receives serialized chunks from a recording and delivers them
// somewhere: memory, an Arrow IPC file, or another sink in batches.
//
// Sinks never take ownership of the cells they are sent. A sink that keeps a
// chunk beyond Send retains its cells and releases them when done.
package sink

import (
	"context"
	"sort"

	"github.com/ajitpratap0/arrowlog/pkg/cell"
)

// Sink consumes chunks. Implementations are safe for concurrent use.
type Sink interface {
	// Send delivers one chunk.
	Send(ctx context.Context, chunk Chunk) error
	// Flush forces buffered chunks to their destination.
	Flush(ctx context.Context) error
	// Close flushes and releases the sink. Send fails after Close.
	Close() error
}

// Chunk is one logged record: the cells of an archetype at an entity path and
// point in time.
type Chunk struct {
	EntityPath string
	// Timepoint maps timeline names to values. A nil timepoint marks static
	// data that holds for all times.
	Timepoint map[string]int64
	Cells     []cell.Cell
}

// IsStatic reports whether the chunk is timeless.
func (c Chunk) IsStatic() bool {
	return c.Timepoint == nil
}

// Timelines returns the chunk's timeline names in sorted order.
func (c Chunk) Timelines() []string {
	names := make([]string, 0, len(c.Timepoint))
	for name := range c.Timepoint {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Retain retains every cell and returns c.
func (c Chunk) Retain() Chunk {
	for _, cl := range c.Cells {
		cl.Retain()
	}
	return c
}

// Release releases every cell.
func (c Chunk) Release() {
	cell.ReleaseAll(c.Cells)
}
