// Package errors provides examples of structured error handling in arrowlog.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeSchemaMismatch, "component length does not match instance count").
		WithDetail("component", "arrowlog.components.Radius").
		WithDetail("length", 3).
		WithDetail("instances", 2)

	fmt.Println(err.Error())

	// Output:
	// schema_mismatch: component length does not match instance count
}

// ExampleWrap shows how a columnar library failure is wrapped.
func ExampleWrap() {
	err := errors.Wrap(io.ErrShortBuffer, errors.ErrorTypeUnderlying, "failed to finalize array").
		WithDetail("type", "uint64")

	if errors.IsType(err, errors.ErrorTypeUnderlying) {
		fmt.Println("library failure")
	}
	if errors.Is(err, io.ErrShortBuffer) {
		fmt.Println("cause preserved")
	}

	// Output:
	// library failure
	// cause preserved
}

// ExampleTypeOf demonstrates classifying arbitrary errors.
func ExampleTypeOf() {
	nullErr := errors.New(errors.ErrorTypeNullArgument, "passed array builder is nil")
	foreign := io.EOF

	fmt.Println(errors.TypeOf(nullErr))
	fmt.Println(errors.TypeOf(foreign))

	// Output:
	// null_argument
	// underlying_failure
}

// Example_errorChain shows how context accumulates while the cause survives.
func Example_errorChain() {
	err := errors.New(errors.ErrorTypeAllocation, "out of memory")
	err = errors.Wrap(err, errors.ErrorTypeAllocation, "failed to build arrowlog.components.Position3D")

	fmt.Println(err)

	// Output:
	// allocation_failure: failed to build arrowlog.components.Position3D: allocation_failure: out of memory
}
