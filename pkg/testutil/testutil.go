// Package testutil provides testing utilities for arrowlog
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// CheckedAllocator returns an allocator that tracks every byte it hands out.
// When the test finishes it fails if any allocation was not released.
func CheckedAllocator(t *testing.T) *memory.CheckedAllocator {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	return mem
}

// FailingAllocator is a memory.Allocator that succeeds for a fixed number of
// allocations and then panics, the way Arrow allocators report exhaustion.
type FailingAllocator struct {
	memory.Allocator
	remaining atomic.Int64
}

// NewFailingAllocator allows after allocations before failing.
func NewFailingAllocator(after int) *FailingAllocator {
	a := &FailingAllocator{Allocator: memory.NewGoAllocator()}
	a.remaining.Store(int64(after))
	return a
}

// Allocate implements memory.Allocator.
func (a *FailingAllocator) Allocate(size int) []byte {
	if a.remaining.Add(-1) < 0 {
		panic(fmt.Errorf("allocator exhausted: cannot allocate %d bytes", size))
	}
	return a.Allocator.Allocate(size)
}

// Reallocate implements memory.Allocator.
func (a *FailingAllocator) Reallocate(size int, b []byte) []byte {
	if a.remaining.Add(-1) < 0 {
		panic(fmt.Errorf("allocator exhausted: cannot reallocate %d bytes", size))
	}
	return a.Allocator.Reallocate(size, b)
}
