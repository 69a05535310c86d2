// Package archetype turns archetype records into the ordered cells that make
// up one logged row.
//
// An archetype is a fixed, schema-defined set of optional component fields.
// Serialize validates the instance counts of all present fields, emits the
// archetype's type-tag cell first and then one cell per present field in
// declaration order. It either returns every cell or none.
package archetype

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

// Archetype is implemented by every archetype record.
type Archetype interface {
	// Descriptor returns the archetype's schema.
	Descriptor() *schema.Archetype
	// Batches returns one batch per descriptor field, in declaration order.
	// Absent fields are reported as batches that are not Present.
	Batches() []Batch
}

// Batch is one type-erased component field of an archetype record.
type Batch interface {
	// Field returns the schema slot this batch fills.
	Field() schema.Field
	// Present reports whether the field was set. An empty collection is
	// present; a nil one is not.
	Present() bool
	// Len returns the number of values, 0 when absent.
	Len() int
	// DataType returns the Arrow type of the field's component.
	DataType() arrow.DataType
	// Serialize encodes the field into a cell named after its component.
	Serialize(env *codec.Env) (cell.Cell, error)
}

type batch[T any] struct {
	field schema.Field
	codec codec.Codec[T]
	coll  *collection.Collection[T]
}

// NewBatch binds a typed collection to its schema slot. coll may be nil for an
// absent field.
func NewBatch[T any](field schema.Field, c codec.Codec[T], coll *collection.Collection[T]) Batch {
	return batch[T]{field: field, codec: c, coll: coll}
}

func (b batch[T]) Field() schema.Field { return b.field }

func (b batch[T]) Present() bool { return b.coll != nil }

func (b batch[T]) Len() int { return b.coll.Len() }

func (b batch[T]) DataType() arrow.DataType { return b.codec.DataType() }

func (b batch[T]) Serialize(env *codec.Env) (cell.Cell, error) {
	return cell.FromCollection(env, b.field.Component, b.codec, b.coll)
}
