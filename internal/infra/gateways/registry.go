package gateways

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// Registry provider name -> adapter
type Registry struct {
	adapters map[domain.Provider]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.Provider]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register replaces any adapter previously registered for the same provider
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Provider()] = a
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[domain.Provider(strings.ToLower(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return a, nil
}

// Providers registered names, sorted
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for p := range r.adapters {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}
