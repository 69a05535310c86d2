package codec

import (
	"strings"
	"sync"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Scalar descriptors, shared by every codec built on the same Arrow type.
var (
	boolType    = sync.OnceValue(func() arrow.DataType { return arrow.FixedWidthTypes.Boolean })
	uint8Type   = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Uint8 })
	uint16Type  = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Uint16 })
	uint32Type  = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Uint32 })
	uint64Type  = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Uint64 })
	int32Type   = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Int32 })
	int64Type   = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Int64 })
	float32Type = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Float32 })
	float64Type = sync.OnceValue(func() arrow.DataType { return arrow.PrimitiveTypes.Float64 })
	utf8Type    = sync.OnceValue(func() arrow.DataType { return arrow.BinaryTypes.String })
)

// primitive is a codec for any T whose underlying type is the Arrow-native N.
// Values are appended in bulk by reinterpreting []T as []N.
type primitive[T, N any] struct {
	name       string
	dataType   func() arrow.DataType
	appendBulk func(b array.Builder, v []N) bool
	values     func(arr arrow.Array) ([]N, bool)
}

func (p primitive[T, N]) DataType() arrow.DataType { return p.dataType() }

func (p primitive[T, N]) Append(b array.Builder, values []T, count int) error {
	if skip, err := checkAppend(b, values, count); skip || err != nil {
		return err
	}
	if !p.appendBulk(b, reinterpret[T, N](values[:count])) {
		return builderMismatch(p.name+" builder", b)
	}
	return nil
}

func (p primitive[T, N]) Decode(arr arrow.Array) ([]T, error) {
	v, ok := p.values(arr)
	if !ok {
		return nil, arrayMismatch(p.name+" array", arr)
	}
	out := make([]T, len(v))
	copy(out, reinterpret[N, T](v))
	return out, nil
}

// reinterpret views s as a slice of To without copying. From and To must
// share the same memory layout.
func reinterpret[From, To any](s []From) []To {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

// Bool returns the codec for types whose underlying type is bool.
func Bool[T ~bool]() Codec[T] {
	return primitive[T, bool]{
		name:     "bool",
		dataType: boolType,
		appendBulk: func(b array.Builder, v []bool) bool {
			bb, ok := b.(*array.BooleanBuilder)
			if ok {
				bb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]bool, bool) {
			a, ok := arr.(*array.Boolean)
			if !ok {
				return nil, false
			}
			out := make([]bool, a.Len())
			for i := range out {
				out[i] = a.Value(i)
			}
			return out, true
		},
	}
}

// UInt8 returns the codec for types whose underlying type is uint8.
func UInt8[T ~uint8]() Codec[T] {
	return primitive[T, uint8]{
		name:     "uint8",
		dataType: uint8Type,
		appendBulk: func(b array.Builder, v []uint8) bool {
			nb, ok := b.(*array.Uint8Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]uint8, bool) {
			a, ok := arr.(*array.Uint8)
			if !ok {
				return nil, false
			}
			return a.Uint8Values(), true
		},
	}
}

// UInt16 returns the codec for types whose underlying type is uint16.
func UInt16[T ~uint16]() Codec[T] {
	return primitive[T, uint16]{
		name:     "uint16",
		dataType: uint16Type,
		appendBulk: func(b array.Builder, v []uint16) bool {
			nb, ok := b.(*array.Uint16Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]uint16, bool) {
			a, ok := arr.(*array.Uint16)
			if !ok {
				return nil, false
			}
			return a.Uint16Values(), true
		},
	}
}

// UInt32 returns the codec for types whose underlying type is uint32.
func UInt32[T ~uint32]() Codec[T] {
	return primitive[T, uint32]{
		name:     "uint32",
		dataType: uint32Type,
		appendBulk: func(b array.Builder, v []uint32) bool {
			nb, ok := b.(*array.Uint32Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]uint32, bool) {
			a, ok := arr.(*array.Uint32)
			if !ok {
				return nil, false
			}
			return a.Uint32Values(), true
		},
	}
}

// UInt64 returns the codec for types whose underlying type is uint64.
func UInt64[T ~uint64]() Codec[T] {
	return primitive[T, uint64]{
		name:     "uint64",
		dataType: uint64Type,
		appendBulk: func(b array.Builder, v []uint64) bool {
			nb, ok := b.(*array.Uint64Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]uint64, bool) {
			a, ok := arr.(*array.Uint64)
			if !ok {
				return nil, false
			}
			return a.Uint64Values(), true
		},
	}
}

// Int32 returns the codec for types whose underlying type is int32.
func Int32[T ~int32]() Codec[T] {
	return primitive[T, int32]{
		name:     "int32",
		dataType: int32Type,
		appendBulk: func(b array.Builder, v []int32) bool {
			nb, ok := b.(*array.Int32Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]int32, bool) {
			a, ok := arr.(*array.Int32)
			if !ok {
				return nil, false
			}
			return a.Int32Values(), true
		},
	}
}

// Int64 returns the codec for types whose underlying type is int64.
func Int64[T ~int64]() Codec[T] {
	return primitive[T, int64]{
		name:     "int64",
		dataType: int64Type,
		appendBulk: func(b array.Builder, v []int64) bool {
			nb, ok := b.(*array.Int64Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]int64, bool) {
			a, ok := arr.(*array.Int64)
			if !ok {
				return nil, false
			}
			return a.Int64Values(), true
		},
	}
}

// Float32 returns the codec for types whose underlying type is float32.
func Float32[T ~float32]() Codec[T] {
	return primitive[T, float32]{
		name:     "float32",
		dataType: float32Type,
		appendBulk: func(b array.Builder, v []float32) bool {
			nb, ok := b.(*array.Float32Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]float32, bool) {
			a, ok := arr.(*array.Float32)
			if !ok {
				return nil, false
			}
			return a.Float32Values(), true
		},
	}
}

// Float64 returns the codec for types whose underlying type is float64.
func Float64[T ~float64]() Codec[T] {
	return primitive[T, float64]{
		name:     "float64",
		dataType: float64Type,
		appendBulk: func(b array.Builder, v []float64) bool {
			nb, ok := b.(*array.Float64Builder)
			if ok {
				nb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]float64, bool) {
			a, ok := arr.(*array.Float64)
			if !ok {
				return nil, false
			}
			return a.Float64Values(), true
		},
	}
}

// Utf8 returns the codec for types whose underlying type is string.
func Utf8[T ~string]() Codec[T] {
	return primitive[T, string]{
		name:     "utf8",
		dataType: utf8Type,
		appendBulk: func(b array.Builder, v []string) bool {
			sb, ok := b.(*array.StringBuilder)
			if ok {
				sb.AppendValues(v, nil)
			}
			return ok
		},
		values: func(arr arrow.Array) ([]string, bool) {
			a, ok := arr.(*array.String)
			if !ok {
				return nil, false
			}
			// Value aliases the array's buffer, which may be released later.
			out := make([]string, a.Len())
			for i := range out {
				out[i] = strings.Clone(a.Value(i))
			}
			return out, true
		},
	}
}
