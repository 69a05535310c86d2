// Package components defines the named component types archetypes are made
// of. Each component is a distinct Go type over a datatype, with its own
// schema name and a codec that shares the datatype's Arrow layout.
package components

import (
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/datatypes"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

// Geometry components.
type (
	// Position3D is a point in 3D space.
	Position3D datatypes.Vec3D
	// Radius of a point, sphere or capsule. Negative values are UI points.
	Radius datatypes.Float32
	// Length of a capsule's cylindrical section along its local z axis.
	Length datatypes.Float32
	// PoseTranslation3D moves an instance in 3D space.
	PoseTranslation3D datatypes.Vec3D
	// PoseRotationAxisAngle rotates an instance around an axis.
	PoseRotationAxisAngle datatypes.RotationAxisAngle
	// PoseRotationQuat rotates an instance by a quaternion.
	PoseRotationQuat datatypes.Quaternion
)

// Presentation components.
type (
	Color      datatypes.Rgba32
	Text       datatypes.Utf8
	ShowLabels datatypes.Bool
	ClassID    datatypes.UInt16
	KeypointID datatypes.UInt16
	Opacity    datatypes.Float32
	DrawOrder  datatypes.Float32
)

// Data components.
type (
	// Scalar is a single value plotted over time.
	Scalar datatypes.Float64
	// ImageBuffer holds the raw bytes of an image.
	ImageBuffer datatypes.Blob
	// ImageFormat describes an ImageBuffer.
	ImageFormat datatypes.ImageFormat
	// QueryExpression selects entities for a view.
	QueryExpression datatypes.Utf8
)

// Component names.
var (
	NamePosition3D            = schema.ComponentName("Position3D")
	NameRadius                = schema.ComponentName("Radius")
	NameLength                = schema.ComponentName("Length")
	NamePoseTranslation3D     = schema.ComponentName("PoseTranslation3D")
	NamePoseRotationAxisAngle = schema.ComponentName("PoseRotationAxisAngle")
	NamePoseRotationQuat      = schema.ComponentName("PoseRotationQuat")
	NameColor                 = schema.ComponentName("Color")
	NameText                  = schema.ComponentName("Text")
	NameShowLabels            = schema.ComponentName("ShowLabels")
	NameClassID               = schema.ComponentName("ClassId")
	NameKeypointID            = schema.ComponentName("KeypointId")
	NameOpacity               = schema.ComponentName("Opacity")
	NameDrawOrder             = schema.ComponentName("DrawOrder")
	NameScalar                = schema.ComponentName("Scalar")
	NameImageBuffer           = schema.ComponentName("ImageBuffer")
	NameImageFormat           = schema.ComponentName("ImageFormat")
	NameQueryExpression       = schema.ComponentName("QueryExpression")
)

// Component codecs.
var (
	Position3DCodec            = codec.Alias[Position3D](datatypes.Vec3DCodec)
	RadiusCodec                = codec.Alias[Radius](datatypes.Float32Codec)
	LengthCodec                = codec.Alias[Length](datatypes.Float32Codec)
	PoseTranslation3DCodec     = codec.Alias[PoseTranslation3D](datatypes.Vec3DCodec)
	PoseRotationAxisAngleCodec = codec.Alias[PoseRotationAxisAngle](datatypes.RotationAxisAngleCodec)
	PoseRotationQuatCodec      = codec.Alias[PoseRotationQuat](datatypes.QuaternionCodec)
	ColorCodec                 = codec.Alias[Color](datatypes.Rgba32Codec)
	TextCodec                  = codec.Alias[Text](datatypes.Utf8Codec)
	ShowLabelsCodec            = codec.Alias[ShowLabels](datatypes.BoolCodec)
	ClassIDCodec               = codec.Alias[ClassID](datatypes.UInt16Codec)
	KeypointIDCodec            = codec.Alias[KeypointID](datatypes.UInt16Codec)
	OpacityCodec               = codec.Alias[Opacity](datatypes.Float32Codec)
	DrawOrderCodec             = codec.Alias[DrawOrder](datatypes.Float32Codec)
	ScalarCodec                = codec.Alias[Scalar](datatypes.Float64Codec)
	ImageBufferCodec           = codec.Alias[ImageBuffer](datatypes.BlobCodec)
	ImageFormatCodec           = codec.Alias[ImageFormat](datatypes.ImageFormatCodec)
	QueryExpressionCodec       = codec.Alias[QueryExpression](datatypes.Utf8Codec)
)

func register[T any](name, datatype string, c codec.Codec[T]) {
	codec.MustRegister(c)
	if err := schema.Default.RegisterComponent(schema.Component{Name: name, Datatype: datatype}); err != nil {
		panic(err)
	}
}

func init() {
	register(NamePosition3D, datatypes.NameVec3D, Position3DCodec)
	register(NameRadius, datatypes.NameFloat32, RadiusCodec)
	register(NameLength, datatypes.NameFloat32, LengthCodec)
	register(NamePoseTranslation3D, datatypes.NameVec3D, PoseTranslation3DCodec)
	register(NamePoseRotationAxisAngle, datatypes.NameRotationAxisAngle, PoseRotationAxisAngleCodec)
	register(NamePoseRotationQuat, datatypes.NameQuaternion, PoseRotationQuatCodec)
	register(NameColor, datatypes.NameRgba32, ColorCodec)
	register(NameText, datatypes.NameUtf8, TextCodec)
	register(NameShowLabels, datatypes.NameBool, ShowLabelsCodec)
	register(NameClassID, datatypes.NameUInt16, ClassIDCodec)
	register(NameKeypointID, datatypes.NameUInt16, KeypointIDCodec)
	register(NameOpacity, datatypes.NameFloat32, OpacityCodec)
	register(NameDrawOrder, datatypes.NameFloat32, DrawOrderCodec)
	register(NameScalar, datatypes.NameFloat64, ScalarCodec)
	register(NameImageBuffer, datatypes.NameBlob, ImageBufferCodec)
	register(NameImageFormat, datatypes.NameImageFormat, ImageFormatCodec)
	register(NameQueryExpression, datatypes.NameUtf8, QueryExpressionCodec)
}
