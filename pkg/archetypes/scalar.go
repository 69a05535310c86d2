package archetypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

var scalar = describe("Scalar",
	schema.Required(components.NameScalar),
)

// Scalar logs one or more values on a time series plot.
type Scalar struct {
	Scalars *collection.Collection[components.Scalar]
}

// NewScalar creates a Scalar from a single value.
func NewScalar(v float64) *Scalar {
	return &Scalar{Scalars: collection.Of(components.Scalar(v))}
}

// NewScalars creates a Scalar holding one value per row, for use with
// archetype.Columns.
func NewScalars(values *collection.Collection[components.Scalar]) *Scalar {
	return &Scalar{Scalars: values}
}

func ClearedScalar() *Scalar {
	return &Scalar{Scalars: collection.Empty[components.Scalar]()}
}

func (s *Scalar) Descriptor() *schema.Archetype { return scalar }

func (s *Scalar) Batches() []archetype.Batch {
	return []archetype.Batch{
		archetype.NewBatch(scalar.Fields[0], components.ScalarCodec, s.Scalars),
	}
}
