package archetype

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// Column is one component's values for many rows at once: a list array whose
// i-th entry holds the component batch of row i.
type Column struct {
	name   string
	values arrow.Array
	list   *array.List
}

// Columns builds the column-oriented form of a. Every present field is
// partitioned into unit-length rows, one per value of the first present field,
// and the indicator column gets an empty entry per row. Use Partition to
// regroup rows. The caller owns the returned columns.
func Columns(env *codec.Env, a Archetype) ([]Column, error) {
	cells, err := Serialize(env, a)
	if err != nil {
		return nil, err
	}
	defer cell.ReleaseAll(cells)

	fields := cells[1:]
	if len(fields) == 0 {
		return []Column{}, nil
	}

	rows := fields[0].Len()
	lengths := make([]int, rows)
	for i := range lengths {
		lengths[i] = 1
	}

	tag := cells[0]
	indicator, err := partition(tag.Name(), tag.Array(), make([]int, rows))
	if err != nil {
		return nil, err
	}
	columns := []Column{indicator}
	for _, c := range fields {
		col, err := partition(c.Name(), c.Array(), lengths)
		if err != nil {
			ReleaseColumns(columns)
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// Name returns the component name
func (c Column) Name() string { return c.name }

// Array returns the partitioned list array without adding a reference
func (c Column) Array() *array.List { return c.list }

// Rows returns the number of rows in the column
func (c Column) Rows() int { return c.list.Len() }

// Partition regroups the column's values into len(lengths) rows where row i
// holds lengths[i] values. The lengths must add up to the number of values.
func (c Column) Partition(lengths []int) (Column, error) {
	return partition(c.name, c.values, lengths)
}

// Release drops the column's references
func (c Column) Release() {
	if c.list != nil {
		c.list.Release()
	}
	if c.values != nil {
		c.values.Release()
	}
}

// ReleaseColumns releases every column in columns
func ReleaseColumns(columns []Column) {
	for _, c := range columns {
		c.Release()
	}
}

func partition(name string, values arrow.Array, lengths []int) (Column, error) {
	offsets := make([]int32, len(lengths)+1)
	for i, l := range lengths {
		if l < 0 {
			return Column{}, errors.Newf(errors.ErrorTypeValidation, "negative partition length %d for %s", l, name)
		}
		offsets[i+1] = offsets[i] + int32(l)
	}
	if int(offsets[len(lengths)]) != values.Len() {
		return Column{}, errors.Newf(errors.ErrorTypeSchemaMismatch,
			"partition lengths of %s add up to %d, but there are %d values",
			name, offsets[len(lengths)], values.Len())
	}

	data := array.NewData(
		arrow.ListOf(values.DataType()), len(lengths),
		[]*memory.Buffer{nil, memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offsets))},
		[]arrow.ArrayData{values.Data()},
		0, 0,
	)
	defer data.Release()

	values.Retain()
	return Column{name: name, values: values, list: array.NewListData(data)}, nil
}
