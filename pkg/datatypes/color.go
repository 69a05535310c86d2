package datatypes

import "github.com/ajitpratap0/arrowlog/pkg/codec"

// Rgba32 is an sRGB color with unmultiplied alpha packed as 0xRRGGBBAA.
type Rgba32 uint32

// Rgba32Codec encodes colors as uint32.
var Rgba32Codec = codec.UInt32[Rgba32]()

// RGB returns an opaque color.
func RGB(r, g, b uint8) Rgba32 {
	return RGBA(r, g, b, 255)
}

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a uint8) Rgba32 {
	return Rgba32(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// Components returns the red, green, blue and alpha channels.
func (c Rgba32) Components() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}
