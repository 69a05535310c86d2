// Package datatypes defines the value types components are built from and
// their columnar codecs.
//
// Every datatype's codec is created once at package initialization and
// registered with the codec registry.
package datatypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/codec"
)

// Datatype names.
const (
	NameBool              = "arrowlog.datatypes.Bool"
	NameUInt8             = "arrowlog.datatypes.UInt8"
	NameUInt16            = "arrowlog.datatypes.UInt16"
	NameUInt32            = "arrowlog.datatypes.UInt32"
	NameUInt64            = "arrowlog.datatypes.UInt64"
	NameFloat32           = "arrowlog.datatypes.Float32"
	NameFloat64           = "arrowlog.datatypes.Float64"
	NameUtf8              = "arrowlog.datatypes.Utf8"
	NameVec2D             = "arrowlog.datatypes.Vec2D"
	NameVec3D             = "arrowlog.datatypes.Vec3D"
	NameQuaternion        = "arrowlog.datatypes.Quaternion"
	NameRgba32            = "arrowlog.datatypes.Rgba32"
	NameRange1D           = "arrowlog.datatypes.Range1D"
	NameBlob              = "arrowlog.datatypes.Blob"
	NameImageFormat       = "arrowlog.datatypes.ImageFormat"
	NameRotationAxisAngle = "arrowlog.datatypes.RotationAxisAngle"
)

// Scalar datatypes.
type (
	Bool    bool
	UInt8   uint8
	UInt16  uint16
	UInt32  uint32
	UInt64  uint64
	Float32 float32
	Float64 float64
	Utf8    string
)

// Vec2D is a vector in 2D space.
type Vec2D [2]float32

// Vec3D is a vector in 3D space.
type Vec3D [3]float32

// Quaternion is a rotation stored as x, y, z, w.
type Quaternion [4]float32

// IdentityQuaternion does not rotate.
var IdentityQuaternion = Quaternion{0, 0, 0, 1}

// Range1D is an inclusive [min, max] range.
type Range1D [2]float64

// Blob is an opaque byte buffer.
type Blob []byte

// Codecs of the scalar and vector datatypes.
var (
	BoolCodec       = codec.Bool[Bool]()
	UInt8Codec      = codec.UInt8[UInt8]()
	UInt16Codec     = codec.UInt16[UInt16]()
	UInt32Codec     = codec.UInt32[UInt32]()
	UInt64Codec     = codec.UInt64[UInt64]()
	Float32Codec    = codec.Float32[Float32]()
	Float64Codec    = codec.Float64[Float64]()
	Utf8Codec       = codec.Utf8[Utf8]()
	Vec2DCodec      = codec.FixedSizeList[Vec2D](2, codec.Float32[float32]())
	Vec3DCodec      = codec.FixedSizeList[Vec3D](3, codec.Float32[float32]())
	QuaternionCodec = codec.FixedSizeList[Quaternion](4, codec.Float32[float32]())
	Range1DCodec    = codec.FixedSizeList[Range1D](2, codec.Float64[float64]())
	BlobCodec       = codec.List[Blob](codec.UInt8[uint8]())
)

func init() {
	codec.MustRegister(BoolCodec)
	codec.MustRegister(UInt8Codec)
	codec.MustRegister(UInt16Codec)
	codec.MustRegister(UInt32Codec)
	codec.MustRegister(UInt64Codec)
	codec.MustRegister(Float32Codec)
	codec.MustRegister(Float64Codec)
	codec.MustRegister(Utf8Codec)
	codec.MustRegister(Vec2DCodec)
	codec.MustRegister(Vec3DCodec)
	codec.MustRegister(QuaternionCodec)
	codec.MustRegister(Rgba32Codec)
	codec.MustRegister(Range1DCodec)
	codec.MustRegister(BlobCodec)
	codec.MustRegister(ImageFormatCodec)
	codec.MustRegister(RotationAxisAngleCodec)
}
