// Package cell defines the serialized form of one component batch: a named,
// immutable Arrow array.
package cell

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/json"
)

// Cell is a named column. Cells are immutable; they hold one reference on
// their array, so a Cell must be released once it is no longer needed.
// Copying a Cell value does not add a reference.
type Cell struct {
	name  string
	array arrow.Array
}

// New wraps arr under name. The cell takes its own reference on arr.
func New(name string, arr arrow.Array) (Cell, error) {
	if arr == nil {
		return Cell{}, errors.New(errors.ErrorTypeNullArgument, "cell requires an array")
	}
	if name == "" {
		return Cell{}, errors.New(errors.ErrorTypeValidation, "cell requires a component name")
	}
	arr.Retain()
	return Cell{name: name, array: arr}, nil
}

// FromCollection encodes every value of coll with c into a cell called name.
func FromCollection[T any](env *codec.Env, name string, c codec.Codec[T], coll *collection.Collection[T]) (Cell, error) {
	if coll == nil {
		return Cell{}, errors.Newf(errors.ErrorTypeNullArgument, "no collection for %s", name)
	}
	arr, err := codec.Encode(env, c, coll.Values(), coll.Len())
	if err != nil {
		return Cell{}, errors.Wrap(err, errors.TypeOf(err), "failed to serialize "+name)
	}
	// Hand the encoder's reference to the cell.
	return Cell{name: name, array: arr}, nil
}

// TypeTag returns the zero-length cell that identifies an archetype on the
// wire. indicator is the archetype's indicator component name.
func TypeTag(indicator string) Cell {
	return Cell{name: indicator, array: array.NewNull(0)}
}

// Name returns the component name
func (c Cell) Name() string { return c.name }

// Array returns the underlying array without adding a reference
func (c Cell) Array() arrow.Array { return c.array }

// Len returns the number of component instances in the cell
func (c Cell) Len() int {
	if c.array == nil {
		return 0
	}
	return c.array.Len()
}

// DataType returns the Arrow type of the cell's array
func (c Cell) DataType() arrow.DataType {
	if c.array == nil {
		return arrow.Null
	}
	return c.array.DataType()
}

// IsTypeTag reports whether c is an archetype indicator cell.
func (c Cell) IsTypeTag() bool {
	return c.array != nil && c.array.DataType().ID() == arrow.NULL && c.array.Len() == 0
}

// Equal reports whether both cells have the same name and structurally equal
// arrays.
func (c Cell) Equal(other Cell) bool {
	if c.name != other.name {
		return false
	}
	if c.array == nil || other.array == nil {
		return c.array == other.array
	}
	return array.Equal(c.array, other.array)
}

// Retain adds a reference to the cell's array and returns the cell
func (c Cell) Retain() Cell {
	if c.array != nil {
		c.array.Retain()
	}
	return c
}

// Release drops the cell's reference to its array
func (c Cell) Release() {
	if c.array != nil {
		c.array.Release()
	}
}

type jsonCell struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Length int             `json:"length"`
	Values json.RawMessage `json:"values"`
}

// MarshalJSON renders the cell for debugging.
func (c Cell) MarshalJSON() ([]byte, error) {
	out := jsonCell{Name: c.name, Type: c.DataType().String(), Length: c.Len(), Values: json.RawMessage("[]")}
	if c.array != nil && c.array.Len() > 0 {
		values, err := c.array.MarshalJSON()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeUnderlying, "failed to render "+c.name)
		}
		out.Values = values
	}
	return json.Marshal(out)
}

// ReleaseAll releases every cell in cells
func ReleaseAll(cells []Cell) {
	for _, c := range cells {
		c.Release()
	}
}
