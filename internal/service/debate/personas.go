package debate

import (
	"sort"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

// Registry holds the immutable persona roster for a run. Iteration order is
// the sorted agent id order, so every stage walks agents deterministically.
type Registry struct {
	order []string
	byID  map[string]core.AgentPersona
}

// NewRegistry builds a registry from an id -> instruction map.
func NewRegistry(personas map[string]string) (*Registry, error) {
	if len(personas) == 0 {
		return nil, core.ErrValidation(core.CodeNoPersonas, "no agent personas configured")
	}

	r := &Registry{
		order: make([]string, 0, len(personas)),
		byID:  make(map[string]core.AgentPersona, len(personas)),
	}
	for id, instruction := range personas {
		if id == "" || instruction == "" {
			return nil, core.ErrValidation(core.CodeNoPersonas, "persona entries require a non-empty id and instruction")
		}
		r.order = append(r.order, id)
		r.byID[id] = core.AgentPersona{ID: id, Instruction: instruction}
	}
	sort.Strings(r.order)

	return r, nil
}

// IDs returns the agent ids in iteration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Lookup returns the persona bound to id.
func (r *Registry) Lookup(id string) (core.AgentPersona, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len returns the roster size.
func (r *Registry) Len() int {
	return len(r.order)
}
