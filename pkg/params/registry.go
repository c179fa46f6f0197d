package params

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Lookup resolves a parameter by identifier.
type Lookup interface {
	Lookup(id string) (Parameter, bool)
}

// Registry is the parameter table of a camera. Identifiers are unique and
// stable for the registry's lifetime.
type Registry struct {
	mu     sync.RWMutex
	params map[string]Parameter
}

func NewRegistry() *Registry {
	return &Registry{params: make(map[string]Parameter)}
}

// Add registers params. The batch is rejected as a whole if any identifier is
// already registered or repeated within the batch.
func (r *Registry) Add(params ...Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		id := p.ID()
		if _, ok := r.params[id]; ok || seen[id] {
			return fmt.Errorf("%s: %w", id, ErrDuplicateParameter)
		}
		seen[id] = true
	}
	for _, p := range params {
		r.params[p.ID()] = p
	}
	return nil
}

func (r *Registry) Lookup(id string) (Parameter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.params[id]
	return p, ok
}

func (r *Registry) Get(id string) (uint32, error) {
	p, ok := r.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, ErrUnknownParameter)
	}
	return p.Get()
}

func (r *Registry) Set(id string, value uint32) error {
	p, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownParameter)
	}
	return p.Set(value)
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.params))
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.params)
}
