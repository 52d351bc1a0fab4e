package adapter

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
)

// ErrNoAdapter is returned when no adapter is registered for an artifact type
var ErrNoAdapter = errors.New("no adapter registered for artifact type")

// Registry manages Adapter implementations keyed by artifact type.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[document.ArtifactType]Adapter
}

// NewRegistry creates a Registry holding the five built-in adapters
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.Register(NewCarePlanAdapter())
	r.Register(NewInvoiceAdapter())
	r.Register(NewWorkoutAdapter())
	r.Register(NewMealPlanAdapter())
	r.Register(NewContractAdapter())
	return r
}

// NewEmptyRegistry creates a Registry without any adapters
func NewEmptyRegistry() *Registry {
	return &Registry{adapters: make(map[document.ArtifactType]Adapter)}
}

// Register adds an adapter, replacing any previous one for the same type
func (r *Registry) Register(a Adapter) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.ArtifactType()] = a
}

// Get returns the adapter for the given type
func (r *Registry) Get(t document.ArtifactType) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[t]
	return a, ok
}

// Has checks if an adapter is registered for the given type
func (r *Registry) Has(t document.ArtifactType) bool {
	_, ok := r.Get(t)
	return ok
}

// Types returns the registered artifact types in a stable order
func (r *Registry) Types() []document.ArtifactType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]document.ArtifactType, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Assemble selects the adapter for t and builds the section sequence of rec
func (r *Registry) Assemble(t document.ArtifactType, rec record.Record) ([]document.Section, error) {
	a, ok := r.Get(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, t)
	}
	if rec == nil {
		rec = record.Record{}
	}
	return a.Build(rec), nil
}
