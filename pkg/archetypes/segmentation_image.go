package archetypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/datatypes"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

var segmentationImage = describe("SegmentationImage",
	schema.Required(components.NameImageBuffer),
	schema.Required(components.NameImageFormat),
	schema.Mono(components.NameOpacity),
	schema.Mono(components.NameDrawOrder),
)

// SegmentationImage is an image whose pixel values are class ids.
type SegmentationImage struct {
	Buffer    *collection.Collection[components.ImageBuffer]
	Format    *collection.Collection[components.ImageFormat]
	Opacity   *collection.Collection[components.Opacity]
	DrawOrder *collection.Collection[components.DrawOrder]
}

// NewSegmentationImage creates a segmentation image from its raw pixel buffer.
// The buffer must hold exactly width*height values of the format's channel
// datatype.
func NewSegmentationImage(buffer []byte, format datatypes.ImageFormat) (*SegmentationImage, error) {
	if buffer == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "segmentation image buffer is nil")
	}
	if err := format.Validate(buffer); err != nil {
		return nil, err
	}
	return &SegmentationImage{
		Buffer: collection.Of(components.ImageBuffer(buffer)),
		Format: collection.Of(components.ImageFormat(format)),
	}, nil
}

// ClearedSegmentationImage returns a SegmentationImage that clears every
// field of the receiver.
func ClearedSegmentationImage() *SegmentationImage {
	return &SegmentationImage{
		Buffer:    collection.Empty[components.ImageBuffer](),
		Format:    collection.Empty[components.ImageFormat](),
		Opacity:   collection.Empty[components.Opacity](),
		DrawOrder: collection.Empty[components.DrawOrder](),
	}
}

// WithOpacity sets the opacity in [0, 1] the image is drawn with.
func (s *SegmentationImage) WithOpacity(opacity float32) *SegmentationImage {
	s.Opacity = collection.Of(components.Opacity(opacity))
	return s
}

// WithDrawOrder sets the image's layer; higher values are drawn on top.
func (s *SegmentationImage) WithDrawOrder(order float32) *SegmentationImage {
	s.DrawOrder = collection.Of(components.DrawOrder(order))
	return s
}

func (s *SegmentationImage) Descriptor() *schema.Archetype { return segmentationImage }

func (s *SegmentationImage) Batches() []archetype.Batch {
	f := segmentationImage.Fields
	return []archetype.Batch{
		archetype.NewBatch(f[0], components.ImageBufferCodec, s.Buffer),
		archetype.NewBatch(f[1], components.ImageFormatCodec, s.Format),
		archetype.NewBatch(f[2], components.OpacityCodec, s.Opacity),
		archetype.NewBatch(f[3], components.DrawOrderCodec, s.DrawOrder),
	}
}
