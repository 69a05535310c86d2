package collection

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestOfCopies(t *testing.T) {
	src := []float32{1, 2, 3}
	c := FromSlice(src)
	src[0] = 42

	assert.Equal(t, Owned, c.Mode())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, float32(1), c.At(0))
	assert.Equal(t, []float32{4, 5}, Of[float32](4, 5).Values())
}

func TestBorrowIsZeroCopy(t *testing.T) {
	buf := []float32{0.5, 1.5}
	c := Borrow(buf)

	assert.Equal(t, Borrowed, c.Mode())
	assert.Same(t, unsafe.SliceData(buf), unsafe.SliceData(c.Values()))
}

func TestTakeAdoptsBuffer(t *testing.T) {
	buf := make([]uint32, 2, 8)
	c := Take(buf)

	assert.Equal(t, Adopted, c.Mode())
	assert.Same(t, unsafe.SliceData(buf), unsafe.SliceData(c.Values()))
	assert.Equal(t, 2, cap(c.Values()))
}

func TestEmpty(t *testing.T) {
	c := Empty[string]()
	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Values())

	var missing *Collection[string]
	assert.Equal(t, 0, missing.Len())
	assert.Nil(t, missing.Values())
	assert.Equal(t, Owned, missing.Mode())
	assert.True(t, missing.IsEmpty())

	assert.NotNil(t, Borrow[int](nil).Values())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "owned", Owned.String())
	assert.Equal(t, "adopted", Adopted.String())
	assert.Equal(t, "borrowed", Borrowed.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
}
