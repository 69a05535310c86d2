package datatypes

import "github.com/ajitpratap0/arrowlog/pkg/codec"

// RotationAxisAngle is a rotation of Angle radians around Axis.
type RotationAxisAngle struct {
	Axis  Vec3D
	Angle float32
}

// RotationAxisAngleCodec encodes axis-angle rotations as a struct.
var RotationAxisAngleCodec = codec.Struct(
	codec.StructField("axis", Vec3DCodec,
		func(r *RotationAxisAngle) Vec3D { return r.Axis },
		func(r *RotationAxisAngle, v Vec3D) { r.Axis = v }),
	codec.StructField("angle", codec.Float32[float32](),
		func(r *RotationAxisAngle) float32 { return r.Angle },
		func(r *RotationAxisAngle, v float32) { r.Angle = v }),
)
