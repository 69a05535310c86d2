package archetypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

var points3D = describe("Points3D",
	schema.Required(components.NamePosition3D),
	schema.Optional(components.NameRadius),
	schema.Optional(components.NameColor),
	schema.Optional(components.NameText),
	schema.Mono(components.NameShowLabels),
	schema.Optional(components.NameClassID),
	schema.Optional(components.NameKeypointID),
)

// Points3D is a point cloud in 3D space.
type Points3D struct {
	Positions   *collection.Collection[components.Position3D]
	Radii       *collection.Collection[components.Radius]
	Colors      *collection.Collection[components.Color]
	Labels      *collection.Collection[components.Text]
	ShowLabels  *collection.Collection[components.ShowLabels]
	ClassIDs    *collection.Collection[components.ClassID]
	KeypointIDs *collection.Collection[components.KeypointID]
}

// NewPoints3D creates a point cloud at positions.
func NewPoints3D(positions *collection.Collection[components.Position3D]) *Points3D {
	return &Points3D{Positions: positions}
}

// ClearedPoints3D returns a Points3D that clears every field of the receiver.
func ClearedPoints3D() *Points3D {
	return &Points3D{
		Positions:   collection.Empty[components.Position3D](),
		Radii:       collection.Empty[components.Radius](),
		Colors:      collection.Empty[components.Color](),
		Labels:      collection.Empty[components.Text](),
		ShowLabels:  collection.Empty[components.ShowLabels](),
		ClassIDs:    collection.Empty[components.ClassID](),
		KeypointIDs: collection.Empty[components.KeypointID](),
	}
}

func (p *Points3D) WithRadii(c *collection.Collection[components.Radius]) *Points3D {
	p.Radii = c
	return p
}

func (p *Points3D) WithColors(c *collection.Collection[components.Color]) *Points3D {
	p.Colors = c
	return p
}

func (p *Points3D) WithLabels(c *collection.Collection[components.Text]) *Points3D {
	p.Labels = c
	return p
}

// WithShowLabels sets whether labels are drawn. It applies to every point.
func (p *Points3D) WithShowLabels(show bool) *Points3D {
	p.ShowLabels = collection.Of(components.ShowLabels(show))
	return p
}

func (p *Points3D) WithClassIDs(c *collection.Collection[components.ClassID]) *Points3D {
	p.ClassIDs = c
	return p
}

func (p *Points3D) WithKeypointIDs(c *collection.Collection[components.KeypointID]) *Points3D {
	p.KeypointIDs = c
	return p
}

func (p *Points3D) Descriptor() *schema.Archetype { return points3D }

func (p *Points3D) Batches() []archetype.Batch {
	f := points3D.Fields
	return []archetype.Batch{
		archetype.NewBatch(f[0], components.Position3DCodec, p.Positions),
		archetype.NewBatch(f[1], components.RadiusCodec, p.Radii),
		archetype.NewBatch(f[2], components.ColorCodec, p.Colors),
		archetype.NewBatch(f[3], components.TextCodec, p.Labels),
		archetype.NewBatch(f[4], components.ShowLabelsCodec, p.ShowLabels),
		archetype.NewBatch(f[5], components.ClassIDCodec, p.ClassIDs),
		archetype.NewBatch(f[6], components.KeypointIDCodec, p.KeypointIDs),
	}
}
