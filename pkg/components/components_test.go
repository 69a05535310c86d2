package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/datatypes"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

func TestAliasSharesDatatypeLayout(t *testing.T) {
	assert.Same(t, datatypes.Vec3DCodec.DataType(), Position3DCodec.DataType())
	assert.Equal(t, datatypes.Float32Codec.DataType(), RadiusCodec.DataType())
}

func TestComponentRoundTrip(t *testing.T) {
	env := codec.NewEnv()

	arr, err := codec.Encode(env, PoseRotationAxisAngleCodec, []PoseRotationAxisAngle{
		{Axis: datatypes.Vec3D{0, 1, 0}, Angle: 2},
	}, 1)
	require.NoError(t, err)
	defer arr.Release()

	got, err := codec.Decode(PoseRotationAxisAngleCodec, arr)
	require.NoError(t, err)
	assert.Equal(t, []PoseRotationAxisAngle{{Axis: datatypes.Vec3D{0, 1, 0}, Angle: 2}}, got)

	buffers, err := codec.Encode(env, ImageBufferCodec, []ImageBuffer{{1, 2}, {3}}, 2)
	require.NoError(t, err)
	defer buffers.Release()
	gotBuffers, err := codec.Decode(ImageBufferCodec, buffers)
	require.NoError(t, err)
	assert.Equal(t, []ImageBuffer{{1, 2}, {3}}, gotBuffers)
}

func TestComponentsRegistered(t *testing.T) {
	c, ok := schema.Default.Component("arrowlog.components.Radius")
	require.True(t, ok)
	assert.Equal(t, datatypes.NameFloat32, c.Datatype)

	_, ok = codec.Lookup[Radius]()
	assert.True(t, ok)
}
