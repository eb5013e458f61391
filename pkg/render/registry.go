package render

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores renderer factories by content type. It is an explicit
// instance rather than package-level state so the embedding application owns
// its lifetime; implementations can embed or wrap it for dependency
// injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under its ContentType(). Duplicate content types
// return an error.
func (r *Registry) Register(factory Factory) error {
	if factory == nil {
		return fmt.Errorf("render: factory is required")
	}
	contentType := factory.ContentType()
	if contentType == "" {
		return fmt.Errorf("render: factory content type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[contentType]; exists {
		return fmt.Errorf("render: content type %q already registered", contentType)
	}

	r.factories[contentType] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(factory Factory) {
	if err := r.Register(factory); err != nil {
		panic(err)
	}
}

// Get retrieves the factory registered for a content type. A missing entry
// is a configuration error: the view layer surfaces it immediately at build
// time rather than retrying.
func (r *Registry) Get(contentType string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[contentType]
	if !ok {
		return nil, fmt.Errorf("render: no renderer registered for content type %q", contentType)
	}
	return factory, nil
}

// MustGet panics if no factory is registered for the content type.
func (r *Registry) MustGet(contentType string) Factory {
	factory, err := r.Get(contentType)
	if err != nil {
		panic(err)
	}
	return factory
}

// List returns the registered content types in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contentTypes := make([]string, 0, len(r.factories))
	for contentType := range r.factories {
		contentTypes = append(contentTypes, contentType)
	}
	sort.Strings(contentTypes)
	return contentTypes
}

// Has reports whether a factory is registered for the content type.
func (r *Registry) Has(contentType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[contentType]
	return ok
}
