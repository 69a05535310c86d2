package codec

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

type fixedSizeList[T, E any] struct {
	n        int
	elem     Codec[E]
	dataType func() arrow.DataType
}

// FixedSizeList returns the codec for a Go array type T made of n elements
// encoded by elem, for example type Vec3D [3]float32. T must have exactly the
// memory layout of [n]E; FixedSizeList panics otherwise.
//
// Call it once per type and keep the result: the Arrow descriptor is created
// lazily and shared by every user of the returned codec.
func FixedSizeList[T, E any](n int, elem Codec[E]) Codec[T] {
	var (
		zeroT T
		zeroE E
	)
	if n <= 0 || unsafe.Sizeof(zeroT) != uintptr(n)*unsafe.Sizeof(zeroE) {
		panic(fmt.Sprintf("codec: %T is not laid out as [%d]%T", zeroT, n, zeroE))
	}
	return fixedSizeList[T, E]{
		n:    n,
		elem: elem,
		dataType: sync.OnceValue(func() arrow.DataType {
			return arrow.FixedSizeListOfNonNullable(int32(n), elem.DataType())
		}),
	}
}

func (f fixedSizeList[T, E]) DataType() arrow.DataType { return f.dataType() }

func (f fixedSizeList[T, E]) Append(b array.Builder, values []T, count int) error {
	if skip, err := checkAppend(b, values, count); skip || err != nil {
		return err
	}
	lb, ok := b.(*array.FixedSizeListBuilder)
	if !ok {
		return builderMismatch("fixed size list builder", b)
	}

	lb.AppendValues(validity(count))
	flat := unsafe.Slice((*E)(unsafe.Pointer(unsafe.SliceData(values))), count*f.n)
	return f.elem.Append(lb.ValueBuilder(), flat, len(flat))
}

func (f fixedSizeList[T, E]) Decode(arr arrow.Array) ([]T, error) {
	a, ok := arr.(*array.FixedSizeList)
	if !ok {
		return nil, arrayMismatch("fixed size list array", arr)
	}
	if a.Len() == 0 {
		return []T{}, nil
	}

	start := int64(a.Offset() * f.n)
	child := array.NewSlice(a.ListValues(), start, start+int64(a.Len()*f.n))
	defer child.Release()

	flat, err := f.elem.Decode(child)
	if err != nil {
		return nil, err
	}
	if len(flat) != a.Len()*f.n {
		return nil, errors.Newf(errors.ErrorTypeUnderlying,
			"fixed size list child has %d values, want %d", len(flat), a.Len()*f.n)
	}
	out := make([]T, a.Len())
	copy(out, unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(flat))), a.Len()))
	return out, nil
}

type list[T ~[]E, E any] struct {
	elem     Codec[E]
	dataType func() arrow.DataType
}

// List returns the codec for a variable length slice type T of elements
// encoded by elem, for example type Blob []byte.
func List[T ~[]E, E any](elem Codec[E]) Codec[T] {
	return list[T, E]{
		elem: elem,
		dataType: sync.OnceValue(func() arrow.DataType {
			return arrow.ListOfNonNullable(elem.DataType())
		}),
	}
}

func (l list[T, E]) DataType() arrow.DataType { return l.dataType() }

func (l list[T, E]) Append(b array.Builder, values []T, count int) error {
	if skip, err := checkAppend(b, values, count); skip || err != nil {
		return err
	}
	lb, ok := b.(*array.ListBuilder)
	if !ok {
		return builderMismatch("list builder", b)
	}

	vb := lb.ValueBuilder()
	for _, v := range values[:count] {
		lb.Append(true)
		if err := l.elem.Append(vb, []E(v), len(v)); err != nil {
			return err
		}
	}
	return nil
}

func (l list[T, E]) Decode(arr arrow.Array) ([]T, error) {
	a, ok := arr.(*array.List)
	if !ok {
		return nil, arrayMismatch("list array", arr)
	}
	if a.Len() == 0 {
		return []T{}, nil
	}

	// Offsets spans the whole buffer; a sliced array starts at a.Offset().
	off := a.Offset()
	offsets := a.Offsets()[off : off+a.Len()+1]
	first, last := int64(offsets[0]), int64(offsets[a.Len()])
	child := array.NewSlice(a.ListValues(), first, last)
	defer child.Release()

	flat, err := l.elem.Decode(child)
	if err != nil {
		return nil, err
	}
	out := make([]T, a.Len())
	for i := range out {
		lo, hi := int64(offsets[i])-first, int64(offsets[i+1])-first
		out[i] = T(flat[lo:hi:hi])
	}
	return out, nil
}

// validity returns n set validity bits for builders that require them.
func validity(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}
	return valid
}
