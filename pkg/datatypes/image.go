package datatypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// ChannelDatatype is the element type of an image channel.
type ChannelDatatype uint8

// Channel datatypes.
const (
	ChannelU8  ChannelDatatype = 6
	ChannelI8  ChannelDatatype = 7
	ChannelU16 ChannelDatatype = 8
	ChannelI16 ChannelDatatype = 9
	ChannelU32 ChannelDatatype = 10
	ChannelI32 ChannelDatatype = 11
	ChannelU64 ChannelDatatype = 12
	ChannelI64 ChannelDatatype = 13
	ChannelF16 ChannelDatatype = 33
	ChannelF32 ChannelDatatype = 34
	ChannelF64 ChannelDatatype = 35
)

// Bits returns the width of one channel value.
func (d ChannelDatatype) Bits() int {
	switch d {
	case ChannelU8, ChannelI8:
		return 8
	case ChannelU16, ChannelI16, ChannelF16:
		return 16
	case ChannelU32, ChannelI32, ChannelF32:
		return 32
	case ChannelU64, ChannelI64, ChannelF64:
		return 64
	default:
		return 0
	}
}

// ImageFormat describes the size and element type of a single-channel image.
type ImageFormat struct {
	Width           uint32
	Height          uint32
	ChannelDatatype ChannelDatatype
}

// NumBytes returns the buffer size an image of this format occupies.
func (f ImageFormat) NumBytes() int {
	return int(f.Width) * int(f.Height) * f.ChannelDatatype.Bits() / 8
}

// Validate checks that buffer matches the format.
func (f ImageFormat) Validate(buffer Blob) error {
	if f.ChannelDatatype.Bits() == 0 {
		return errors.Newf(errors.ErrorTypeValidation, "unknown channel datatype %d", f.ChannelDatatype)
	}
	if len(buffer) != f.NumBytes() {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"image buffer has %d bytes, %dx%d format needs %d", len(buffer), f.Width, f.Height, f.NumBytes())
	}
	return nil
}

// ImageFormatCodec encodes image formats as a struct.
var ImageFormatCodec = codec.Struct(
	codec.StructField("width", codec.UInt32[uint32](),
		func(f *ImageFormat) uint32 { return f.Width },
		func(f *ImageFormat, v uint32) { f.Width = v }),
	codec.StructField("height", codec.UInt32[uint32](),
		func(f *ImageFormat) uint32 { return f.Height },
		func(f *ImageFormat, v uint32) { f.Height = v }),
	codec.StructField("channel_datatype", codec.UInt8[ChannelDatatype](),
		func(f *ImageFormat) ChannelDatatype { return f.ChannelDatatype },
		func(f *ImageFormat, v ChannelDatatype) { f.ChannelDatatype = v }),
)
