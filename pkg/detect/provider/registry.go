// Package provider holds the registry of detection providers. Each provider's
// wire format lives in its own subpackage and is registered here as data; the
// dispatcher never branches on provider ids.
package provider

import (
	"github.com/papercomputeco/aiscore/pkg/detect"
)

// Registry is an immutable lookup table of provider specs.
// It is safe for concurrent use.
type Registry struct {
	specs map[detect.ProviderID]detect.Spec
	order []detect.ProviderID
}

// NewRegistry builds a registry from specs. With no arguments the built-in
// provider table is used. Later specs with a duplicate id replace earlier ones.
func NewRegistry(specs ...detect.Spec) *Registry {
	if len(specs) == 0 {
		specs = builtins()
	}

	r := &Registry{
		specs: make(map[detect.ProviderID]detect.Spec, len(specs)),
		order: make([]detect.ProviderID, 0, len(specs)),
	}

	for _, s := range specs {
		if _, dup := r.specs[s.ID]; !dup {
			r.order = append(r.order, s.ID)
		}
		r.specs[s.ID] = s
	}

	return r
}

// Lookup returns the spec registered for id.
func (r *Registry) Lookup(id detect.ProviderID) (detect.Spec, error) {
	spec, ok := r.specs[id]
	if !ok {
		return detect.Spec{}, &detect.Error{Kind: detect.KindUnknownProvider, Provider: id}
	}
	return spec, nil
}

// Providers returns registered ids in registration order.
func (r *Registry) Providers() []detect.ProviderID {
	out := make([]detect.ProviderID, len(r.order))
	copy(out, r.order)
	return out
}

// Specs returns all registered specs in registration order.
func (r *Registry) Specs() []detect.Spec {
	out := make([]detect.Spec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

var _ detect.Registry = (*Registry)(nil)
