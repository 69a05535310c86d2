package codec_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/testutil"
)

type radius float32

type label string

type vec3 [3]float32

type blob []byte

type packet struct {
	Seq     uint32
	Payload blob
}

type pose struct {
	ID       uint32
	Name     string
	Position vec3
}

var (
	radiusCodec = codec.Float32[radius]()
	labelCodec  = codec.Utf8[label]()
	vec3Codec   = codec.FixedSizeList[vec3](3, codec.Float32[float32]())
	blobCodec   = codec.List[blob](codec.UInt8[uint8]())
	poseCodec   = codec.Struct(
		codec.StructField("id", codec.UInt32[uint32](),
			func(p *pose) uint32 { return p.ID }, func(p *pose, v uint32) { p.ID = v }),
		codec.StructField("name", codec.Utf8[string](),
			func(p *pose) string { return p.Name }, func(p *pose, v string) { p.Name = v }),
		codec.StructField("position", vec3Codec,
			func(p *pose) vec3 { return p.Position }, func(p *pose, v vec3) { p.Position = v }),
	)
	packetCodec = codec.Struct(
		codec.StructField("seq", codec.UInt32[uint32](),
			func(p *packet) uint32 { return p.Seq }, func(p *packet, v uint32) { p.Seq = v }),
		codec.StructField("payload", blobCodec,
			func(p *packet) blob { return p.Payload }, func(p *packet, v blob) { p.Payload = v }),
	)
)

func roundTrip[T any](t *testing.T, c codec.Codec[T], values []T) {
	t.Helper()
	mem := testutil.CheckedAllocator(t)
	env := codec.NewEnv(codec.WithAllocator(mem))

	arr, err := codec.Encode(env, c, values, len(values))
	require.NoError(t, err)
	defer arr.Release()

	assert.Equal(t, len(values), arr.Len())
	assert.True(t, arrow.TypeEqual(c.DataType(), arr.DataType()))

	got, err := codec.Decode(c, arr)
	require.NoError(t, err)
	if len(values) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, values, got)
}

func TestRoundTrip(t *testing.T) {
	t.Run("float32", func(t *testing.T) {
		roundTrip(t, radiusCodec, []radius{})
		roundTrip(t, radiusCodec, []radius{0.5})
		roundTrip(t, radiusCodec, []radius{0.5, 1, 1.5, 2})
	})
	t.Run("utf8", func(t *testing.T) {
		roundTrip(t, labelCodec, []label{})
		roundTrip(t, labelCodec, []label{"a"})
		roundTrip(t, labelCodec, []label{"left", "", "right"})
	})
	t.Run("scalars", func(t *testing.T) {
		roundTrip(t, codec.Bool[bool](), []bool{true, false, true})
		roundTrip(t, codec.UInt8[uint8](), []uint8{0, 7, 255})
		roundTrip(t, codec.UInt16[uint16](), []uint16{1, 65535})
		roundTrip(t, codec.UInt32[uint32](), []uint32{42})
		roundTrip(t, codec.UInt64[uint64](), []uint64{1 << 40, 3})
		roundTrip(t, codec.Int32[int32](), []int32{-1, 0, 1})
		roundTrip(t, codec.Int64[int64](), []int64{-1 << 50})
		roundTrip(t, codec.Float64[float64](), []float64{3.25, -2})
	})
	t.Run("fixed size list", func(t *testing.T) {
		roundTrip(t, vec3Codec, []vec3{})
		roundTrip(t, vec3Codec, []vec3{{1, 2, 3}})
		roundTrip(t, vec3Codec, []vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	})
	t.Run("list", func(t *testing.T) {
		roundTrip(t, blobCodec, []blob{})
		roundTrip(t, blobCodec, []blob{{1, 2, 3}})
		roundTrip(t, blobCodec, []blob{{1}, {}, {2, 3}})
	})
	t.Run("struct", func(t *testing.T) {
		roundTrip(t, poseCodec, []pose{})
		roundTrip(t, poseCodec, []pose{{ID: 1, Name: "a", Position: vec3{1, 2, 3}}})
		roundTrip(t, poseCodec, []pose{
			{ID: 1, Name: "a", Position: vec3{1, 2, 3}},
			{ID: 2, Name: "b", Position: vec3{4, 5, 6}},
		})
	})
}

func TestEncodeZeroCountAcceptsNilValues(t *testing.T) {
	env := codec.NewEnv()

	arr, err := codec.Encode[radius](env, radiusCodec, nil, 0)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, 0, arr.Len())

	nested, err := codec.Encode[pose](env, poseCodec, nil, 0)
	require.NoError(t, err)
	defer nested.Release()
	assert.Equal(t, 0, nested.Len())
}

func TestEncodePrefix(t *testing.T) {
	env := codec.NewEnv()
	arr, err := codec.Encode(env, radiusCodec, []radius{1, 2, 3}, 2)
	require.NoError(t, err)
	defer arr.Release()

	got, err := codec.Decode(radiusCodec, arr)
	require.NoError(t, err)
	assert.Equal(t, []radius{1, 2}, got)
}

func TestEncodeArgumentErrors(t *testing.T) {
	_, err := codec.Encode(nil, radiusCodec, []radius{1}, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))

	_, err = codec.Encode[radius](codec.NewEnv(), nil, []radius{1}, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))

	_, err = codec.Encode(codec.NewEnv(), radiusCodec, []radius{1}, -1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = codec.Encode(codec.NewEnv(), radiusCodec, []radius{1}, 2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestAppendNullArgument(t *testing.T) {
	mem := memory.NewGoAllocator()

	err := radiusCodec.Append(nil, []radius{1}, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))

	b := array.NewBuilder(mem, radiusCodec.DataType())
	defer b.Release()
	err = radiusCodec.Append(b, nil, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))
	assert.Equal(t, 0, b.Len())

	// Nothing to append is never an error.
	require.NoError(t, radiusCodec.Append(nil, nil, 0))
}

func TestAppendWrongBuilder(t *testing.T) {
	b := array.NewBuilder(memory.NewGoAllocator(), arrow.PrimitiveTypes.Int64)
	defer b.Release()

	err := radiusCodec.Append(b, []radius{1}, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnderlying))

	err = vec3Codec.Append(b, []vec3{{1, 2, 3}}, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnderlying))
}

func TestDecodeTypeMismatch(t *testing.T) {
	arr, err := codec.Encode(codec.NewEnv(), labelCodec, []label{"x"}, 1)
	require.NoError(t, err)
	defer arr.Release()

	_, err = codec.Decode(radiusCodec, arr)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnderlying))
}

func TestDecodeSlicedArrays(t *testing.T) {
	env := codec.NewEnv()

	blobs, err := codec.Encode(env, blobCodec, []blob{{1}, {2, 3}, {4, 5, 6}, {7}}, 4)
	require.NoError(t, err)
	defer blobs.Release()
	sliced := array.NewSlice(blobs, 1, 3)
	defer sliced.Release()
	gotBlobs, err := codec.Decode(blobCodec, sliced)
	require.NoError(t, err)
	assert.Equal(t, []blob{{2, 3}, {4, 5, 6}}, gotBlobs)

	vecs, err := codec.Encode(env, vec3Codec, []vec3{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}}, 3)
	require.NoError(t, err)
	defer vecs.Release()
	tail := array.NewSlice(vecs, 2, 3)
	defer tail.Release()
	gotVecs, err := codec.Decode(vec3Codec, tail)
	require.NoError(t, err)
	assert.Equal(t, []vec3{{3, 3, 3}}, gotVecs)

	packets, err := codec.Encode(env, packetCodec, []packet{
		{Seq: 1, Payload: blob{9}},
		{Seq: 2, Payload: blob{1, 2}},
		{Seq: 3, Payload: blob{}},
		{Seq: 4, Payload: blob{3, 4, 5}},
	}, 4)
	require.NoError(t, err)
	defer packets.Release()
	middle := array.NewSlice(packets, 1, 4)
	defer middle.Release()
	gotPackets, err := codec.Decode(packetCodec, middle)
	require.NoError(t, err)
	assert.Equal(t, []packet{
		{Seq: 2, Payload: blob{1, 2}},
		{Seq: 3, Payload: blob{}},
		{Seq: 4, Payload: blob{3, 4, 5}},
	}, gotPackets)
}

func TestDecodeSlicedListSkipsLeadingRows(t *testing.T) {
	blobs, err := codec.Encode(codec.NewEnv(), blobCodec, []blob{{9}, {1, 2}}, 2)
	require.NoError(t, err)
	defer blobs.Release()

	last := array.NewSlice(blobs, 1, 2)
	defer last.Release()
	got, err := codec.Decode(blobCodec, last)
	require.NoError(t, err)
	assert.Equal(t, []blob{{1, 2}}, got)
}

func TestDescriptorSingletonUnderConcurrentFirstUse(t *testing.T) {
	c := codec.FixedSizeList[vec3](3, codec.Float32[float32]())

	const workers = 32
	seen := make([]arrow.DataType, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			seen[i] = c.DataType()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, dt := range seen[1:] {
		assert.Same(t, seen[0].(*arrow.FixedSizeListType), dt.(*arrow.FixedSizeListType))
	}
}

func TestEncodeAllocationFailure(t *testing.T) {
	env := codec.NewEnv(codec.WithAllocator(testutil.NewFailingAllocator(0)))

	_, err := codec.Encode(env, radiusCodec, []radius{1, 2, 3}, 3)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAllocation))
}

func TestFixedSizeListRejectsMismatchedLayout(t *testing.T) {
	assert.Panics(t, func() {
		codec.FixedSizeList[vec3](2, codec.Float32[float32]())
	})
}

func TestBuilderPoolReuse(t *testing.T) {
	mem := testutil.CheckedAllocator(t)
	pool := codec.NewBuilderPool(mem, 2, testutil.TestLogger(t))
	defer pool.Close()

	var events []string
	pool.SetObserver(func(event string) { events = append(events, event) })

	env := codec.NewEnv(codec.WithBuilderPool(pool))
	assert.Same(t, mem, env.Allocator)

	for i := 0; i < 3; i++ {
		arr, err := codec.Encode(env, vec3Codec, []vec3{{1, 2, 3}}, 1)
		require.NoError(t, err)
		arr.Release()
	}

	hits, misses, resets := pool.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(3), resets)
	assert.Equal(t, 1, pool.Idle())
	assert.Equal(t, []string{
		codec.PoolMiss, codec.PoolReset,
		codec.PoolHit, codec.PoolReset,
		codec.PoolHit, codec.PoolReset,
	}, events)
}

func TestBuilderPoolReleasesFailedBuilders(t *testing.T) {
	mem := testutil.CheckedAllocator(t)
	pool := codec.NewBuilderPool(mem, 2, nil)
	defer pool.Close()
	env := codec.NewEnv(codec.WithBuilderPool(pool))

	_, err := codec.Encode(env, blobCodec, []blob{{1}}, 2)
	require.Error(t, err)
	assert.Equal(t, 0, pool.Idle())
}
