package metadata

import (
	"log/slog"
	"sync"
)

// Registry holds the set of known providers. Registration happens at
// startup; afterwards the registry is read-mostly and safe for
// concurrent lookups.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider. Registering a name twice replaces the earlier
// provider but keeps its original position, so iteration order stays
// stable for reproducible merges.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		slog.Debug("Replacing registered provider", "provider", name)
	} else {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Get returns the provider with the given name, or nil when unknown.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// Names returns all registered provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns all registered providers in registration order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	providers := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		providers = append(providers, r.providers[name])
	}
	return providers
}

// ForLookup returns the providers whose CanLookup accepts the given
// lookup and id type, in registration order.
func (r *Registry) ForLookup(lookup Lookup, idType IDType) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var applicable []Provider
	for _, name := range r.order {
		p := r.providers[name]
		if p.CanLookup(lookup, idType) {
			applicable = append(applicable, p)
		}
	}
	return applicable
}
