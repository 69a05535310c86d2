// Package archetypes provides the built-in archetypes. Each archetype is a
// struct holding one optional collection per component; a nil field is absent
// and is left out of the serialized record.
//
// Archetypes are built with a constructor taking their required components and
// chained With methods for the rest:
//
//	pts := archetypes.NewPoints3D(collection.Of(components.Position3D{1, 2, 3})).
//		WithRadii(collection.Of[components.Radius](0.5))
//	cells, err := archetype.Serialize(env, pts)
package archetypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

// Name returns the fully qualified name of a built-in archetype.
func Name(short string) string {
	return schema.Namespace + ".archetypes." + short
}

func describe(short string, fields ...schema.Field) *schema.Archetype {
	desc := schema.MustArchetype(Name(short), fields...)
	if err := schema.Default.RegisterArchetype(desc); err != nil {
		panic(err)
	}
	return desc
}

var (
	_ archetype.Archetype = (*Points3D)(nil)
	_ archetype.Archetype = (*Capsules3D)(nil)
	_ archetype.Archetype = (*Scalar)(nil)
	_ archetype.Archetype = (*SegmentationImage)(nil)
	_ archetype.Archetype = (*ViewContents)(nil)
)
