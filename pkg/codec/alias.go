package codec

import (
	"fmt"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

type alias[T, U any] struct {
	inner Codec[U]
}

// Alias returns a codec for T that reuses inner, the codec of T's underlying
// type U. It is meant for named types such as type Radius Float32, which share
// both memory layout and Arrow type with the type they are defined from.
// Alias panics if T and U differ in size.
func Alias[T, U any](inner Codec[U]) Codec[T] {
	var (
		zeroT T
		zeroU U
	)
	if unsafe.Sizeof(zeroT) != unsafe.Sizeof(zeroU) {
		panic(fmt.Sprintf("codec: %T cannot alias %T", zeroT, zeroU))
	}
	return alias[T, U]{inner: inner}
}

func (a alias[T, U]) DataType() arrow.DataType { return a.inner.DataType() }

func (a alias[T, U]) Append(b array.Builder, values []T, count int) error {
	if skip, err := checkAppend(b, values, count); skip || err != nil {
		return err
	}
	return a.inner.Append(b, reinterpret[T, U](values[:count]), count)
}

func (a alias[T, U]) Decode(arr arrow.Array) ([]T, error) {
	v, err := a.inner.Decode(arr)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return []T{}, nil
	}
	return reinterpret[U, T](v), nil
}
