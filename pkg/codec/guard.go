package codec

import (
	"fmt"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// guard runs fn and converts a panic raised inside the columnar library into
// an allocation failure. Arrow allocators signal exhaustion by panicking.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = errors.Wrap(cause, errors.ErrorTypeAllocation, op+" aborted by the columnar library")
		}
	}()
	return fn()
}
