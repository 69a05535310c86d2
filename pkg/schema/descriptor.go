// Package schema describes components and archetypes: their names, the order
// of an archetype's fields and which fields are required or broadcast-only.
//
// Descriptors are plain immutable values; the encoding of each component
// lives in its codec.
package schema

import (
	"strings"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// Namespace prefixes every built-in component and archetype name.
const Namespace = "arrowlog"

// Component describes one component type.
type Component struct {
	// Name is the fully qualified component name, e.g. arrowlog.components.Radius.
	Name string `json:"name"`
	// Datatype names the underlying datatype, e.g. arrowlog.datatypes.Float32.
	Datatype string `json:"datatype"`
}

// ComponentName returns the fully qualified name of a built-in component.
func ComponentName(short string) string {
	return Namespace + ".components." + short
}

// Field is one component slot of an archetype.
type Field struct {
	// Component is the component name stored in this slot.
	Component string `json:"component"`
	// Required fields define the archetype's instance count.
	Required bool `json:"required"`
	// Mono fields hold at most one value that applies to every instance.
	Mono bool `json:"mono"`
}

// Archetype describes the ordered component layout of an archetype.
type Archetype struct {
	Name      string  `json:"name"`
	Indicator string  `json:"indicator"`
	Fields    []Field `json:"fields"`
}

// NewArchetype builds an archetype descriptor. The indicator component name is
// derived from the archetype's short name.
func NewArchetype(name string, fields ...Field) (*Archetype, error) {
	if name == "" {
		return nil, errors.New(errors.ErrorTypeValidation, "archetype name is required")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Component == "" {
			return nil, errors.Newf(errors.ErrorTypeValidation, "archetype %s has an unnamed field", name)
		}
		if f.Required && f.Mono {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"archetype %s: field %s cannot be both required and mono", name, f.Component)
		}
		if _, dup := seen[f.Component]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"archetype %s lists %s twice", name, f.Component)
		}
		seen[f.Component] = struct{}{}
	}

	short := name[strings.LastIndexByte(name, '.')+1:]
	return &Archetype{
		Name:      name,
		Indicator: ComponentName(short + "Indicator"),
		Fields:    append([]Field(nil), fields...),
	}, nil
}

// MustArchetype is like NewArchetype but panics on error.
func MustArchetype(name string, fields ...Field) *Archetype {
	a, err := NewArchetype(name, fields...)
	if err != nil {
		panic(err)
	}
	return a
}

// ShortName returns the unqualified archetype name, e.g. Points3D.
func (a *Archetype) ShortName() string {
	return a.Name[strings.LastIndexByte(a.Name, '.')+1:]
}

// Field returns the field storing component.
func (a *Archetype) Field(component string) (Field, bool) {
	for _, f := range a.Fields {
		if f.Component == component {
			return f, true
		}
	}
	return Field{}, false
}

// Required returns a required field for component.
func Required(component string) Field {
	return Field{Component: component, Required: true}
}

// Optional returns an optional field for component.
func Optional(component string) Field {
	return Field{Component: component}
}

// Mono returns an optional, broadcast-only field for component.
func Mono(component string) Field {
	return Field{Component: component, Mono: true}
}
