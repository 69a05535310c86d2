package codec

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// Field describes one member of a struct encoded by Struct.
type Field[T any] interface {
	arrowField() arrow.Field
	appendFrom(b array.Builder, values []T, count int) error
	decodeInto(arr arrow.Array, out []T) error
}

type structField[T, F any] struct {
	name  string
	codec Codec[F]
	get   func(*T) F
	set   func(*T, F)
}

// StructField declares a struct member called name, encoded by c. get reads
// the member from a value and set writes it back when decoding.
func StructField[T, F any](name string, c Codec[F], get func(*T) F, set func(*T, F)) Field[T] {
	return structField[T, F]{name: name, codec: c, get: get, set: set}
}

func (f structField[T, F]) arrowField() arrow.Field {
	return arrow.Field{Name: f.name, Type: f.codec.DataType()}
}

func (f structField[T, F]) appendFrom(b array.Builder, values []T, count int) error {
	column := make([]F, count)
	for i := range column {
		column[i] = f.get(&values[i])
	}
	return f.codec.Append(b, column, count)
}

func (f structField[T, F]) decodeInto(arr arrow.Array, out []T) error {
	column, err := f.codec.Decode(arr)
	if err != nil {
		return err
	}
	if len(column) != len(out) {
		return errors.Newf(errors.ErrorTypeUnderlying,
			"struct field %q has %d values, want %d", f.name, len(column), len(out))
	}
	for i := range out {
		f.set(&out[i], column[i])
	}
	return nil
}

type structCodec[T any] struct {
	fields   []Field[T]
	dataType func() arrow.DataType
}

// Struct returns the codec for a Go struct encoded as an Arrow struct whose
// children appear in the order the fields are given.
func Struct[T any](fields ...Field[T]) Codec[T] {
	return structCodec[T]{
		fields: fields,
		dataType: sync.OnceValue(func() arrow.DataType {
			fs := make([]arrow.Field, len(fields))
			for i, f := range fields {
				fs[i] = f.arrowField()
			}
			return arrow.StructOf(fs...)
		}),
	}
}

func (s structCodec[T]) DataType() arrow.DataType { return s.dataType() }

func (s structCodec[T]) Append(b array.Builder, values []T, count int) error {
	if skip, err := checkAppend(b, values, count); skip || err != nil {
		return err
	}
	sb, ok := b.(*array.StructBuilder)
	if !ok {
		return builderMismatch("struct builder", b)
	}
	if sb.NumField() != len(s.fields) {
		return errors.Newf(errors.ErrorTypeUnderlying,
			"struct builder has %d fields, want %d", sb.NumField(), len(s.fields))
	}

	sb.AppendValues(validity(count))
	for i, f := range s.fields {
		if err := f.appendFrom(sb.FieldBuilder(i), values, count); err != nil {
			return err
		}
	}
	return nil
}

func (s structCodec[T]) Decode(arr arrow.Array) ([]T, error) {
	a, ok := arr.(*array.Struct)
	if !ok {
		return nil, arrayMismatch("struct array", arr)
	}
	out := make([]T, a.Len())
	for i, f := range s.fields {
		if err := f.decodeInto(a.Field(i), out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
