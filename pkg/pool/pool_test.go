package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolStats(t *testing.T) {
	p := New(func() []int { return make([]int, 0, 8) }, nil)

	a := p.Get()
	b := p.Get()
	allocated, inUse, hits, misses := p.Stats()
	assert.Equal(t, int64(2), allocated)
	assert.Equal(t, int64(2), inUse)
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(2), misses)

	p.Put(a)
	p.Put(b)
	_, inUse, _, _ = p.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestBufferPoolBuckets(t *testing.T) {
	p := NewBufferPool()

	small := p.Get(10)
	assert.Len(t, small, 10)
	assert.Equal(t, 512, cap(small))
	p.Put(small)

	huge := p.Get(32 << 20)
	assert.Len(t, huge, 32<<20)
	p.Put(huge)
}

func TestPutBufferDropsLargeBuffers(t *testing.T) {
	buf := GetBuffer()
	assert.Equal(t, 0, buf.Len())
	buf.Grow(maxPooledBuffer * 2)
	PutBuffer(buf)
	PutBuffer(nil)
}
