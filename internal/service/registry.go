package service

import (
	"context"
	"fmt"
)

// Provider is a runnable job source, independent of its raw item type.
type Provider interface {
	ID() string
	Config() ServiceConfig
	Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	Invalidate(ctx context.Context)
}

// Registry maps provider ids to providers, keeping registration order.
type Registry struct {
	order []string
	byID  map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{byID: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(p Provider) {
	id := p.ID()
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.byID[id] = p
}

// Get returns the provider for id or an error wrapping ErrUnknownProvider.
func (r *Registry) Get(id string) (Provider, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return p, nil
}

// Providers returns every provider in registration order.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the registered provider ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}
