package form

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores schemas by kind so configuration documents can refer to
// form kinds by name ("comment", "registration", ...).
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]Schema),
	}
}

// Register adds a schema under kind. Duplicate kinds return an error.
func (r *Registry) Register(kind string, schema Schema) error {
	if schema == nil {
		return fmt.Errorf("form: schema is required")
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return fmt.Errorf("form: schema kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[kind]; exists {
		return fmt.Errorf("form: schema %q already registered", kind)
	}

	r.schemas[kind] = schema
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind string, schema Schema) {
	if err := r.Register(kind, schema); err != nil {
		panic(err)
	}
}

// Get retrieves a schema by kind.
func (r *Registry) Get(kind string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[strings.TrimSpace(kind)]
	if !ok {
		return nil, fmt.Errorf("form: schema %q not found", kind)
	}
	return schema, nil
}

// List returns a sorted list of registered kinds.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.schemas))
	for kind := range r.schemas {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
