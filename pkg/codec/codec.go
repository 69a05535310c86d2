// Package codec defines how a Go value type maps onto an Arrow columnar array.
//
// Every loggable type T has a Codec[T] that describes its Arrow layout
// (DataType), appends values into an open builder (Append) and reads them back
// (Decode). Encode ties those together: it creates a builder from the
// descriptor using the allocator carried by an explicit Env, appends, and
// finalizes an immutable array.
//
// Descriptors are process-wide singletons initialized on first use, so the
// same codec may be used from many goroutines at once.
package codec

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// Codec describes the columnar representation of T and converts between
// []T and Arrow arrays. Implementations must be safe for concurrent use.
type Codec[T any] interface {
	// DataType returns the lazily initialized, immutable Arrow descriptor of T.
	DataType() arrow.DataType

	// Append appends the first count values into b. It fails with
	// ErrorTypeNullArgument when b or values is nil while count > 0.
	Append(b array.Builder, values []T, count int) error

	// Decode reads every element of arr back into Go values.
	Decode(arr arrow.Array) ([]T, error)
}

// Encode builds an immutable Arrow array holding the first count values.
//
// A zero count always succeeds and yields an empty array, even when values is
// nil. The returned array is owned by the caller, who must Release it.
func Encode[T any](env *Env, c Codec[T], values []T, count int) (arrow.Array, error) {
	if env == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "encode requires an allocation environment")
	}
	if c == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "encode requires a codec")
	}
	if count < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative instance count %d", count)
	}

	var arr arrow.Array
	err := guard("encode", func() error {
		b := env.builder(c.DataType())
		finished := false
		defer func() {
			if !finished {
				b.Release()
			}
		}()

		if count > 0 {
			if err := c.Append(b, values, count); err != nil {
				return err
			}
		}
		arr = b.NewArray()
		finished = true
		env.recycle(b)
		return nil
	})
	if err != nil {
		err = classify(err, "failed to encode values")
		env.logger().Debug("encode failed",
			zap.String("type", describe(c)),
			zap.Int("count", count),
			zap.Error(err))
		return nil, err
	}
	return arr, nil
}

// Decode converts arr back into Go values using c.
func Decode[T any](c Codec[T], arr arrow.Array) ([]T, error) {
	if c == nil || arr == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "decode requires a codec and an array")
	}
	if !arrow.TypeEqual(arr.DataType(), c.DataType()) {
		return nil, errors.Newf(errors.ErrorTypeUnderlying, "cannot decode %s as %s", arr.DataType(), c.DataType())
	}

	var out []T
	err := guard("decode", func() error {
		var err error
		out, err = c.Decode(arr)
		return err
	})
	if err != nil {
		return nil, classify(err, "failed to decode array")
	}
	return out, nil
}

// classify keeps structured errors as they are and wraps everything else as a
// columnar library failure.
func classify(err error, message string) error {
	var e *errors.Error
	if errors.As(err, &e) {
		return err
	}
	return errors.Wrap(err, errors.ErrorTypeUnderlying, message)
}

func describe[T any](c Codec[T]) string {
	dt := c.DataType()
	if dt == nil {
		return "<nil>"
	}
	return dt.String()
}

// checkAppend validates the arguments shared by every Append implementation.
// skip is true when there is nothing to append.
func checkAppend[T any](b array.Builder, values []T, count int) (skip bool, err error) {
	switch {
	case count == 0:
		return true, nil
	case count < 0:
		return false, errors.Newf(errors.ErrorTypeValidation, "negative instance count %d", count)
	case b == nil:
		return false, errors.New(errors.ErrorTypeNullArgument, "passed array builder is nil")
	case values == nil:
		return false, errors.New(errors.ErrorTypeNullArgument, "cannot serialize nil values to arrow array")
	case count > len(values):
		return false, errors.Newf(errors.ErrorTypeSchemaMismatch,
			"count %d exceeds the %d available values", count, len(values))
	}
	return false, nil
}

func builderMismatch(want string, b array.Builder) error {
	return errors.Newf(errors.ErrorTypeUnderlying, "expected %s, got %T", want, b)
}

func arrayMismatch(want string, arr arrow.Array) error {
	return errors.Newf(errors.ErrorTypeUnderlying, "expected %s, got %T", want, arr)
}
