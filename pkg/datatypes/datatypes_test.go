package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/testutil"
)

func roundTrip[T any](t *testing.T, c codec.Codec[T], values ...T) {
	t.Helper()
	env := codec.NewEnv(codec.WithAllocator(testutil.CheckedAllocator(t)))

	for _, n := range []int{0, 1, len(values)} {
		arr, err := codec.Encode(env, c, values, n)
		require.NoError(t, err)
		got, err := codec.Decode(c, arr)
		arr.Release()
		require.NoError(t, err)
		if n == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, values[:n], got)
	}
}

func TestRoundTrip(t *testing.T) {
	roundTrip(t, BoolCodec, true, false)
	roundTrip(t, UInt8Codec, 1, 2, 3)
	roundTrip(t, UInt16Codec, 1, 65535)
	roundTrip(t, UInt32Codec, 7, 8)
	roundTrip(t, UInt64Codec, 1<<63, 0, 42)
	roundTrip(t, Float32Codec, 0.25, -1)
	roundTrip(t, Float64Codec, 1e300, 2)
	roundTrip(t, Utf8Codec, "hello", "", "world")
	roundTrip(t, Vec2DCodec, Vec2D{1, 2}, Vec2D{3, 4})
	roundTrip(t, Vec3DCodec, Vec3D{1, 2, 3}, Vec3D{4, 5, 6}, Vec3D{7, 8, 9})
	roundTrip(t, QuaternionCodec, IdentityQuaternion, Quaternion{1, 0, 0, 0})
	roundTrip(t, Rgba32Codec, RGB(255, 0, 0), RGBA(0, 0, 255, 128))
	roundTrip(t, Range1DCodec, Range1D{-1, 1}, Range1D{0, 10})
	roundTrip(t, BlobCodec, Blob{1, 2, 3}, Blob{}, Blob{4})
	roundTrip(t, ImageFormatCodec,
		ImageFormat{Width: 2, Height: 3, ChannelDatatype: ChannelU8},
		ImageFormat{Width: 640, Height: 480, ChannelDatatype: ChannelU16})
	roundTrip(t, RotationAxisAngleCodec,
		RotationAxisAngle{Axis: Vec3D{0, 0, 1}, Angle: 1.5},
		RotationAxisAngle{Axis: Vec3D{1, 0, 0}, Angle: -0.5})
}

func TestRegistered(t *testing.T) {
	c, ok := codec.Lookup[Vec3D]()
	require.True(t, ok)
	assert.Equal(t, Vec3DCodec.DataType(), c.DataType())

	err := codec.Register(Vec3DCodec)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestRgba32(t *testing.T) {
	c := RGBA(0x11, 0x22, 0x33, 0x44)
	assert.Equal(t, Rgba32(0x11223344), c)
	r, g, b, a := c.Components()
	assert.Equal(t, []uint8{0x11, 0x22, 0x33, 0x44}, []uint8{r, g, b, a})
}

func TestImageFormatValidate(t *testing.T) {
	f := ImageFormat{Width: 2, Height: 2, ChannelDatatype: ChannelU16}
	assert.Equal(t, 8, f.NumBytes())
	require.NoError(t, f.Validate(make(Blob, 8)))

	err := f.Validate(make(Blob, 4))
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	err = ImageFormat{Width: 1, Height: 1}.Validate(Blob{0})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
