package archetypes

import (
	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

var viewContents = describe("ViewContents",
	schema.Required(components.NameQueryExpression),
)

// ViewContents selects the entities a view shows. Each query expression is
// a line such as "+ /world/**" or "- /world/debug".
type ViewContents struct {
	Query *collection.Collection[components.QueryExpression]
}

func NewViewContents(queries ...string) *ViewContents {
	exprs := make([]components.QueryExpression, len(queries))
	for i, q := range queries {
		exprs[i] = components.QueryExpression(q)
	}
	return &ViewContents{Query: collection.Take(exprs)}
}

func (v *ViewContents) Descriptor() *schema.Archetype { return viewContents }

func (v *ViewContents) Batches() []archetype.Batch {
	return []archetype.Batch{
		archetype.NewBatch(viewContents.Fields[0], components.QueryExpressionCodec, v.Query),
	}
}
