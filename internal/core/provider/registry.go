package provider

import (
	"github.com/bmatcuk/doublestar/v4"
)

// Registry is a read-only ordered collection of provider definitions,
// supplied once at startup.
type Registry struct {
	defs []Definition
	byID map[string]int
}

// NewRegistry creates a registry from the given definitions. Later
// definitions with a duplicate id replace earlier ones in place.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{byID: make(map[string]int, len(defs))}
	for _, def := range defs {
		if i, ok := r.byID[def.ID]; ok {
			r.defs[i] = def
			continue
		}
		r.byID[def.ID] = len(r.defs)
		r.defs = append(r.defs, def)
	}
	return r
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (Definition, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// IDs returns every provider id in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.defs))
	for i, def := range r.defs {
		out[i] = def.ID
	}
	return out
}

// Match returns the definitions whose id matches the glob pattern. An
// invalid pattern matches nothing.
func (r *Registry) Match(pattern string) []Definition {
	var out []Definition
	for _, def := range r.defs {
		if ok, err := doublestar.Match(pattern, def.ID); err == nil && ok {
			out = append(out, def)
		}
	}
	return out
}
