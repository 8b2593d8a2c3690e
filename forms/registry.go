package forms

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maintains the known form definitions.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]FormDefinition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{forms: map[string]FormDefinition{}}
}

// Register installs a form definition. Returns an error if the ID already
// exists or the definition does not validate.
func (r *Registry) Register(def FormDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	normalized := def.Normalized()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forms[normalized.ID]; exists {
		return fmt.Errorf("form: %s already registered", normalized.ID)
	}
	r.forms[normalized.ID] = normalized
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(def FormDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Resolve returns a form definition by ID.
func (r *Registry) Resolve(id string) (FormDefinition, error) {
	r.mu.RLock()
	def, ok := r.forms[id]
	r.mu.RUnlock()
	if !ok {
		return FormDefinition{}, fmt.Errorf("form: unknown id %s", id)
	}
	return def, nil
}

// IDs returns a sorted list of registered form identifiers.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegisterDirectory discovers YAML form definitions under dir and installs
// them into the registry. Duplicate IDs across files are an error so a
// project cannot silently shadow one form with another.
func RegisterDirectory(reg *Registry, dir string) error {
	if reg == nil {
		return nil
	}
	defs, err := LoadFormDir(dir)
	if err != nil {
		return err
	}
	seen := make(map[string]string)
	for _, file := range defs {
		def := file.Definition
		if existing, ok := seen[def.ID]; ok {
			return fmt.Errorf("form: duplicate form id %s (%s and %s)", def.ID, existing, file.Path)
		}
		seen[def.ID] = file.Path
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("form: register %s from %s: %w", def.ID, file.Path, err)
		}
	}
	return nil
}
