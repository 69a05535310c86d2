package archetype

import (
	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/schema"
)

// Serialize converts a into its cells: the type tag first, then every present
// field in declaration order. On failure no cell is returned and everything
// built so far has been released. The caller owns the returned cells.
func Serialize(env *codec.Env, a Archetype) ([]cell.Cell, error) {
	if env == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "serialize requires an allocation environment")
	}
	desc, batches, err := layout(a)
	if err != nil {
		return nil, err
	}
	if _, err := instanceCount(desc, batches); err != nil {
		return nil, err
	}

	cells := make([]cell.Cell, 0, len(batches)+1)
	cells = append(cells, cell.TypeTag(desc.Indicator))
	for _, b := range batches {
		if !b.Present() {
			continue
		}
		c, err := b.Serialize(env)
		if err != nil {
			cell.ReleaseAll(cells)
			return nil, errors.Wrap(err, errors.TypeOf(err),
				"failed to serialize "+b.Field().Component+" of "+desc.Name)
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// NumInstances returns the instance count shared by a's fields, validating
// every present field against it.
func NumInstances(a Archetype) (int, error) {
	desc, batches, err := layout(a)
	if err != nil {
		return 0, err
	}
	return instanceCount(desc, batches)
}

func layout(a Archetype) (*schema.Archetype, []Batch, error) {
	if a == nil {
		return nil, nil, errors.New(errors.ErrorTypeNullArgument, "archetype is nil")
	}
	desc := a.Descriptor()
	if desc == nil {
		return nil, nil, errors.New(errors.ErrorTypeNullArgument, "archetype has no descriptor")
	}
	batches := a.Batches()
	if len(batches) != len(desc.Fields) {
		return nil, nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
			"%s declares %d fields but provided %d batches", desc.Name, len(desc.Fields), len(batches))
	}
	for i, b := range batches {
		if b == nil || b.Field().Component != desc.Fields[i].Component {
			return nil, nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
				"%s field %d is not %s", desc.Name, i, desc.Fields[i].Component)
		}
	}
	return desc, batches, nil
}

// instanceCount derives N from the first present required field, falling back
// to the longest present non-mono field, then checks every present field:
// non-mono fields hold N values or a single value broadcast to all instances,
// mono fields hold at most one value.
func instanceCount(desc *schema.Archetype, batches []Batch) (int, error) {
	n, found := 0, false
	for _, b := range batches {
		if b.Present() && b.Field().Required {
			n, found = b.Len(), true
			break
		}
	}
	if !found {
		for _, b := range batches {
			if b.Present() && !b.Field().Mono && b.Len() > n {
				n = b.Len()
			}
		}
	}

	for _, b := range batches {
		if !b.Present() {
			continue
		}
		f, l := b.Field(), b.Len()
		switch {
		case f.Mono && l > 1:
			return 0, errors.Newf(errors.ErrorTypeSchemaMismatch,
				"%s of %s holds %d values but accepts at most one", f.Component, desc.Name, l).
				WithDetail("component", f.Component).
				WithDetail("length", l)
		case !f.Mono && l != n && l != 1:
			return 0, errors.Newf(errors.ErrorTypeSchemaMismatch,
				"%s of %s holds %d values, expected %d or 1", f.Component, desc.Name, l, n).
				WithDetail("component", f.Component).
				WithDetail("length", l).
				WithDetail("instances", n)
		}
	}
	return n, nil
}
