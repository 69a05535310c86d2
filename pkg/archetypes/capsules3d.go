package archetypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

var capsules3D = describe("Capsules3D",
	schema.Optional(components.NameLength),
	schema.Optional(components.NameRadius),
	schema.Optional(components.NamePoseTranslation3D),
	schema.Optional(components.NamePoseRotationAxisAngle),
	schema.Optional(components.NamePoseRotationQuat),
	schema.Optional(components.NameColor),
	schema.Optional(components.NameText),
	schema.Mono(components.NameShowLabels),
	schema.Optional(components.NameClassID),
)

// Capsules3D is a batch of capsules: cylinders of a given length along the
// local z axis, capped by hemispheres of a given radius.
type Capsules3D struct {
	Lengths      *collection.Collection[components.Length]
	Radii        *collection.Collection[components.Radius]
	Translations *collection.Collection[components.PoseTranslation3D]
	Rotations    *collection.Collection[components.PoseRotationAxisAngle]
	Quaternions  *collection.Collection[components.PoseRotationQuat]
	Colors       *collection.Collection[components.Color]
	Labels       *collection.Collection[components.Text]
	ShowLabels   *collection.Collection[components.ShowLabels]
	ClassIDs     *collection.Collection[components.ClassID]
}

// NewCapsules3D creates capsules with no fields set.
func NewCapsules3D() *Capsules3D {
	return &Capsules3D{}
}

// Capsules3DFromLengthsAndRadii creates capsules from their lengths and radii.
func Capsules3DFromLengthsAndRadii(lengths *collection.Collection[components.Length], radii *collection.Collection[components.Radius]) *Capsules3D {
	return &Capsules3D{Lengths: lengths, Radii: radii}
}

// ClearedCapsules3D returns a Capsules3D that clears every field of the receiver.
func ClearedCapsules3D() *Capsules3D {
	return &Capsules3D{
		Lengths:      collection.Empty[components.Length](),
		Radii:        collection.Empty[components.Radius](),
		Translations: collection.Empty[components.PoseTranslation3D](),
		Rotations:    collection.Empty[components.PoseRotationAxisAngle](),
		Quaternions:  collection.Empty[components.PoseRotationQuat](),
		Colors:       collection.Empty[components.Color](),
		Labels:       collection.Empty[components.Text](),
		ShowLabels:   collection.Empty[components.ShowLabels](),
		ClassIDs:     collection.Empty[components.ClassID](),
	}
}

func (c *Capsules3D) WithLengths(v *collection.Collection[components.Length]) *Capsules3D {
	c.Lengths = v
	return c
}

func (c *Capsules3D) WithRadii(v *collection.Collection[components.Radius]) *Capsules3D {
	c.Radii = v
	return c
}

func (c *Capsules3D) WithTranslations(v *collection.Collection[components.PoseTranslation3D]) *Capsules3D {
	c.Translations = v
	return c
}

func (c *Capsules3D) WithRotationAxisAngles(v *collection.Collection[components.PoseRotationAxisAngle]) *Capsules3D {
	c.Rotations = v
	return c
}

func (c *Capsules3D) WithQuaternions(v *collection.Collection[components.PoseRotationQuat]) *Capsules3D {
	c.Quaternions = v
	return c
}

func (c *Capsules3D) WithColors(v *collection.Collection[components.Color]) *Capsules3D {
	c.Colors = v
	return c
}

func (c *Capsules3D) WithLabels(v *collection.Collection[components.Text]) *Capsules3D {
	c.Labels = v
	return c
}

func (c *Capsules3D) WithShowLabels(show bool) *Capsules3D {
	c.ShowLabels = collection.Of(components.ShowLabels(show))
	return c
}

func (c *Capsules3D) WithClassIDs(v *collection.Collection[components.ClassID]) *Capsules3D {
	c.ClassIDs = v
	return c
}

func (c *Capsules3D) Descriptor() *schema.Archetype { return capsules3D }

func (c *Capsules3D) Batches() []archetype.Batch {
	f := capsules3D.Fields
	return []archetype.Batch{
		archetype.NewBatch(f[0], components.LengthCodec, c.Lengths),
		archetype.NewBatch(f[1], components.RadiusCodec, c.Radii),
		archetype.NewBatch(f[2], components.PoseTranslation3DCodec, c.Translations),
		archetype.NewBatch(f[3], components.PoseRotationAxisAngleCodec, c.Rotations),
		archetype.NewBatch(f[4], components.PoseRotationQuatCodec, c.Quaternions),
		archetype.NewBatch(f[5], components.ColorCodec, c.Colors),
		archetype.NewBatch(f[6], components.TextCodec, c.Labels),
		archetype.NewBatch(f[7], components.ShowLabelsCodec, c.ShowLabels),
		archetype.NewBatch(f[8], components.ClassIDCodec, c.ClassIDs),
	}
}
