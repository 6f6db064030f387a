// Package board is the consumer-facing side of the job service: it picks a
// provider, runs fetches and refreshes, and applies the board's filters.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/service"
)

// Result is one provider response as the board presents it. Err is set
// instead of returning an error so a consumer always gets a value.
type Result struct {
	Provider  string                `json:"provider"`
	Jobs      []model.ParsedJob     `json:"jobs"`
	Thread    *model.ThreadMetadata `json:"thread,omitempty"`
	Err       error                 `json:"-"`
	Error     string                `json:"error,omitempty"`
	FromCache bool                  `json:"fromCache"`
	FetchedAt time.Time             `json:"fetchedAt"`
}

// Selector tracks the active provider and dispatches fetches to it.
type Selector struct {
	registry *service.Registry

	mu     sync.Mutex
	active string
}

// NewSelector returns a selector with defaultProvider active.
func NewSelector(registry *service.Registry, defaultProvider string) *Selector {
	return &Selector{registry: registry, active: defaultProvider}
}

// Active returns the active provider id.
func (s *Selector) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select makes id the active provider.
func (s *Selector) Select(id string) error {
	if _, err := s.registry.Get(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	return nil
}

// Fetch loads jobs for provider id, or the active provider when id is empty.
func (s *Selector) Fetch(ctx context.Context, id string, opts service.FetchOptions) Result {
	if id == "" {
		id = s.Active()
	}
	p, err := s.registry.Get(id)
	if err != nil {
		return Result{Provider: id, Jobs: []model.ParsedJob{}, Err: err, Error: err.Error()}
	}

	res, err := p.Fetch(ctx, opts)
	if err != nil {
		log.Error().Err(err).Str("provider", id).Msg("Board fetch failed")
		return Result{Provider: id, Jobs: []model.ParsedJob{}, Err: err, Error: err.Error()}
	}
	return Result{
		Provider:  id,
		Jobs:      res.Jobs,
		Thread:    res.Metadata,
		FromCache: res.FromCache,
		FetchedAt: res.FetchedAt,
	}
}

// Refresh is Fetch with the cache bypassed.
func (s *Selector) Refresh(ctx context.Context, id string, opts service.FetchOptions) Result {
	opts.ForceRefresh = true
	return s.Fetch(ctx, id, opts)
}
