// Package collection holds batches of component values on their way to the
// columnar encoder.
//
// A Collection is immutable once constructed. It either owns its storage or
// borrows the caller's storage for the duration of a single serialize call;
// borrowing avoids a copy for large batches. Which one applies is recorded in
// its Mode.
package collection

import "fmt"

// Mode records how a Collection relates to the memory it reads from.
type Mode uint8

const (
	// Owned collections hold a private copy of the values.
	Owned Mode = iota
	// Adopted collections took over a caller buffer without copying it. The
	// caller gave the buffer away and must not touch it again.
	Adopted
	// Borrowed collections alias caller storage. The caller keeps ownership
	// and must keep the storage alive and unmodified until the collection has
	// been serialized.
	Borrowed
)

func (m Mode) String() string {
	switch m {
	case Owned:
		return "owned"
	case Adopted:
		return "adopted"
	case Borrowed:
		return "borrowed"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Collection is an ordered, read-only batch of T values.
type Collection[T any] struct {
	values []T
	mode   Mode
	debug  debugState
}

// Of returns an owning collection holding a copy of values.
func Of[T any](values ...T) *Collection[T] {
	return FromSlice(values)
}

// FromSlice returns an owning collection holding a copy of s.
func FromSlice[T any](s []T) *Collection[T] {
	owned := make([]T, len(s))
	copy(owned, s)
	return &Collection[T]{values: owned, mode: Owned}
}

// Take adopts buf without copying. buf must not be used by the caller
// afterwards.
func Take[T any](buf []T) *Collection[T] {
	if buf == nil {
		buf = []T{}
	}
	return &Collection[T]{values: buf[:len(buf):len(buf)], mode: Adopted}
}

// Borrow aliases buf without copying. buf must outlive every serialize call
// made with the returned collection.
func Borrow[T any](buf []T) *Collection[T] {
	if buf == nil {
		buf = []T{}
	}
	return &Collection[T]{values: buf[:len(buf):len(buf)], mode: Borrowed}
}

// Empty returns an owning collection with no values. Serializing it yields a
// zero-length cell, which receivers interpret as clearing the component.
func Empty[T any]() *Collection[T] {
	return &Collection[T]{values: []T{}, mode: Owned}
}

// Len returns the number of values. A nil collection has length zero.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// IsEmpty reports whether the collection holds no values.
func (c *Collection[T]) IsEmpty() bool {
	return c.Len() == 0
}

// At returns the i-th value. It panics if i is out of range.
func (c *Collection[T]) At(i int) T {
	return c.values[i]
}

// Mode reports whether the collection owns or borrows its storage. A nil
// collection reports Owned.
func (c *Collection[T]) Mode() Mode {
	if c == nil {
		return Owned
	}
	return c.mode
}

// Values returns the underlying storage. The slice must not be modified; for a
// borrowed collection it is the caller's own buffer.
func (c *Collection[T]) Values() []T {
	if c == nil {
		return nil
	}
	c.debug.use(c.mode)
	return c.values
}
