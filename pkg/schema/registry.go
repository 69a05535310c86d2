package schema

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
	jsonpool "github.com/ajitpratap0/arrowlog/pkg/json"
)

// Registry indexes component and archetype descriptors by name.
type Registry struct {
	components map[string]Component
	archetypes map[string]*Archetype
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewRegistry creates a new schema registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		components: make(map[string]Component),
		archetypes: make(map[string]*Archetype),
		logger:     logger,
	}
}

// Default is the registry built-in components and archetypes add themselves to.
var Default = NewRegistry(nil)

// RegisterComponent registers a component descriptor. Registering the same
// descriptor again is a no-op; a conflicting one is an error.
func (r *Registry) RegisterComponent(c Component) error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeValidation, "component name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.components[c.Name]; ok {
		if existing == c {
			return nil
		}
		return errors.Newf(errors.ErrorTypeValidation,
			"component %s already registered with datatype %s", c.Name, existing.Datatype)
	}
	r.components[c.Name] = c
	r.logger.Debug("component registered", zap.String("component", c.Name))
	return nil
}

// RegisterArchetype registers an archetype descriptor. Every field must name a
// registered component.
func (r *Registry) RegisterArchetype(a *Archetype) error {
	if a == nil {
		return errors.New(errors.ErrorTypeNullArgument, "archetype descriptor is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range a.Fields {
		if _, ok := r.components[f.Component]; !ok {
			return errors.Newf(errors.ErrorTypeValidation,
				"archetype %s references unknown component %s", a.Name, f.Component)
		}
	}
	if existing, ok := r.archetypes[a.Name]; ok {
		if Fingerprint(existing) == Fingerprint(a) {
			return nil
		}
		return errors.Newf(errors.ErrorTypeValidation, "archetype %s already registered with a different layout", a.Name)
	}
	r.archetypes[a.Name] = a
	r.logger.Debug("archetype registered",
		zap.String("archetype", a.Name),
		zap.String("fingerprint", Fingerprint(a)))
	return nil
}

// Component retrieves a component descriptor
func (r *Registry) Component(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Archetype retrieves an archetype descriptor
func (r *Registry) Archetype(name string) (*Archetype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.archetypes[name]
	return a, ok
}

// ArchetypeByIndicator finds the archetype whose indicator component is name.
func (r *Registry) ArchetypeByIndicator(name string) (*Archetype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.archetypes {
		if a.Indicator == name {
			return a, true
		}
	}
	return nil, false
}

// Archetypes returns every registered archetype sorted by name
func (r *Registry) Archetypes() []*Archetype {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Archetype, 0, len(r.archetypes))
	for _, a := range r.archetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Components returns every registered component sorted by name
func (r *Registry) Components() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Export exports the registry state as indented JSON
func (r *Registry) Export() ([]byte, error) {
	state := struct {
		Components []Component  `json:"components"`
		Archetypes []*Archetype `json:"archetypes"`
	}{
		Components: r.Components(),
		Archetypes: r.Archetypes(),
	}
	return jsonpool.MarshalIndent(state, "", "  ")
}

// Fingerprint returns a stable description of an archetype's layout. Two
// archetypes with the same fingerprint serialize identically.
func Fingerprint(a *Archetype) string {
	var b strings.Builder
	b.WriteString(a.Name)
	b.WriteByte('{')
	for _, f := range a.Fields {
		b.WriteString(f.Component)
		switch {
		case f.Required:
			b.WriteByte('!')
		case f.Mono:
			b.WriteByte('1')
		default:
			b.WriteByte('?')
		}
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}
