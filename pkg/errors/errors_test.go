package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeUnderlying, "nothing"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeNullArgument, "builder is nil")
	outer := Wrap(inner, ErrorTypeNullArgument, "append failed")

	require.NotEmpty(t, inner.Stack)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.Equal(t, ErrorTypeNullArgument, TypeOf(outer))
}

func TestIsTypeOutermostOnly(t *testing.T) {
	inner := New(ErrorTypeAllocation, "oom")
	outer := Wrap(inner, ErrorTypeUnderlying, "finalize")

	assert.True(t, IsType(outer, ErrorTypeUnderlying))
	assert.False(t, IsType(outer, ErrorTypeAllocation))
	assert.False(t, IsType(io.EOF, ErrorTypeUnderlying))
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeSchemaMismatch, "component %q has %d instances", "radii", 3)
	assert.Equal(t, `schema_mismatch: component "radii" has 3 instances`, err.Error())
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeValidation, "bad").WithDetail("a", 1).WithDetail("b", "two")
	assert.Equal(t, map[string]interface{}{"a": 1, "b": "two"}, err.Details)
}
