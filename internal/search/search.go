package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Request carries all parameters required to execute a search.
type Request struct {
	Query     string
	UserAgent string
}

// Engine captures a single search backend (Google, DuckDuckGo, etc.).
type Engine interface {
	Name() string
	// Domain is the engine's own registrable domain; links back to it are never research.
	Domain() string
	// Search returns outbound result links in page order.
	Search(ctx context.Context, req Request) ([]string, error)
}

// Registry keeps a mapping from engine names to their implementations.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: map[string]Engine{}}
}

// Register adds or replaces an engine implementation.
func (r *Registry) Register(engine Engine) {
	if r.engines == nil {
		r.engines = map[string]Engine{}
	}
	r.engines[strings.ToLower(engine.Name())] = engine
}

// Resolve returns an engine by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Engine, error) {
	if engine, ok := r.engines[strings.ToLower(name)]; ok {
		return engine, nil
	}
	return nil, fmt.Errorf("search engine %s is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered engines in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
