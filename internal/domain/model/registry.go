package model

import (
	"fmt"

	"github.com/kailas-cloud/dataprovider/internal/domain"
)

// Registry maps type names to model types.
type Registry[M Model] struct {
	types map[string]Type[M]
	names []string
}

// NewRegistry creates a registry holding the given types.
// Names must be unique and non-empty, and every type needs a Populate func.
func NewRegistry[M Model](types ...Type[M]) (*Registry[M], error) {
	r := &Registry[M]{types: make(map[string]Type[M], len(types))}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a model type.
func (r *Registry[M]) Register(t Type[M]) error {
	if t.Name == "" {
		return domain.NewConfigurationError("model type", "name is required")
	}
	if t.Populate == nil {
		return domain.NewConfigurationError("model type", fmt.Sprintf("%q has no populate func", t.Name))
	}
	if _, exists := r.types[t.Name]; exists {
		return domain.NewConfigurationError("model type", fmt.Sprintf("%q already registered", t.Name))
	}
	r.types[t.Name] = t
	r.names = append(r.names, t.Name)
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry[M]) Lookup(name string) (Type[M], bool) {
	t, ok := r.types[name]
	return t, ok
}

// Names returns registered type names in registration order.
func (r *Registry[M]) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
