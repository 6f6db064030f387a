// Package service drives the job providers: each provider is an Adapter
// that fetches raw items and maps them to ParsedJob, and JobService runs
// any adapter through cache lookup, fetch, transform and post-processing.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/jobboard-api/internal/cache"
	"github.com/yourusername/jobboard-api/internal/model"
)

// ServiceConfig is the per-provider configuration.
type ServiceConfig struct {
	ProviderID    string
	Name          string
	APIURL        string
	CacheDuration time.Duration
	MaxJobs       int
	MaxAgeDays    int
}

// FetchOptions are the caller's parameters for one fetch.
type FetchOptions struct {
	Temperature  float64
	Region       model.Region
	ForceRefresh bool
}

// FetchResult is what a provider fetch returns.
type FetchResult struct {
	Jobs      []model.ParsedJob
	Metadata  *model.ThreadMetadata
	FromCache bool
	FetchedAt time.Time
}

// ── Adapter contract ─────────────────────────────────

// Adapter fetches one upstream API and maps its items of type T to ParsedJob.
type Adapter[T any] interface {
	Config() ServiceConfig
	FetchFromAPI(ctx context.Context, opts FetchOptions) ([]T, error)
	TransformJob(raw T, opts FetchOptions) (model.ParsedJob, error)
}

// MetadataFetcher is implemented by adapters with source-level metadata.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, opts FetchOptions) (*model.ThreadMetadata, error)
}

// CacheVariants is implemented by adapters whose upstream results depend
// on the fetch options. Each variant is cached under its own key.
type CacheVariants interface {
	CacheVariant(opts FetchOptions) string
	CacheVariants() []string
}

// JobProcessor is implemented by adapters that replace the default
// post-processing. Implementations usually finish with ProcessJobs.
type JobProcessor interface {
	ProcessJobs(jobs []model.ParsedJob, now time.Time) []model.ParsedJob
}

// ProcessJobs drops postings older than cfg.MaxAgeDays, sorts by match
// score (highest first, stable) and caps the result at cfg.MaxJobs.
// Postings without a timestamp are kept.
func ProcessJobs(cfg ServiceConfig, jobs []model.ParsedJob, now time.Time) []model.ParsedJob {
	out := make([]model.ParsedJob, 0, len(jobs))
	cutoff := now.AddDate(0, 0, -cfg.MaxAgeDays)
	for _, j := range jobs {
		if cfg.MaxAgeDays > 0 && !j.PostedAt.IsZero() && j.PostedAt.Before(cutoff) {
			continue
		}
		out = append(out, j)
	}

	sort.SliceStable(out, func(i, k int) bool {
		return out[i].MatchScore > out[k].MatchScore
	})

	if cfg.MaxJobs > 0 && len(out) > cfg.MaxJobs {
		out = out[:cfg.MaxJobs]
	}
	return out
}

// ── Orchestrator ─────────────────────────────────────

type serviceOptions struct {
	now func() time.Time
}

// ServiceOption configures a JobService.
type ServiceOption func(*serviceOptions)

// WithClock overrides the time source used for age filtering and fetchedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) { o.now = now }
}

// JobService runs an Adapter through cache → fetch → transform → process.
type JobService[T any] struct {
	adapter Adapter[T]
	cache   *cache.Cache
	now     func() time.Time

	// generations holds one counter per cache key, incremented on every
	// upstream fetch; only the newest fetch for a key may write it.
	generations sync.Map
}

// NewJobService wraps adapter. c may be nil to disable caching.
func NewJobService[T any](adapter Adapter[T], c *cache.Cache, opts ...ServiceOption) *JobService[T] {
	o := serviceOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &JobService[T]{adapter: adapter, cache: c, now: o.now}
}

func (s *JobService[T]) ID() string            { return s.adapter.Config().ProviderID }
func (s *JobService[T]) Config() ServiceConfig { return s.adapter.Config() }

func (s *JobService[T]) cacheKey(opts FetchOptions) string {
	if v, ok := s.adapter.(CacheVariants); ok {
		return cache.VariantKey(s.ID(), v.CacheVariant(opts))
	}
	return cache.KeyFor(s.ID())
}

func (s *JobService[T]) generation(key string) *atomic.Uint64 {
	g, _ := s.generations.LoadOrStore(key, new(atomic.Uint64))
	return g.(*atomic.Uint64)
}

// Fetch returns the provider's jobs, from cache when a fresh entry exists
// and opts.ForceRefresh is false.
func (s *JobService[T]) Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	cfg := s.adapter.Config()
	key := s.cacheKey(opts)

	if s.cache != nil && !opts.ForceRefresh {
		if entry := s.cache.Read(ctx, key, cfg.CacheDuration); entry != nil {
			log.Debug().Str("provider", cfg.ProviderID).Str("key", key).Int("count", len(entry.Jobs)).Msg("Serving jobs from cache")
			// HTML bodies are stripped before caching.
			for i := range entry.Jobs {
				entry.Jobs[i].HTMLText = entry.Jobs[i].DisplayHTML()
			}
			return &FetchResult{
				Jobs:      entry.Jobs,
				Metadata:  entry.Metadata,
				FromCache: true,
				FetchedAt: entry.FetchedAt,
			}, nil
		}
	}

	counter := s.generation(key)
	gen := counter.Add(1)

	var (
		items    []T
		metadata *model.ThreadMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.adapter.FetchFromAPI(gctx, opts)
		return err
	})
	if mf, ok := s.adapter.(MetadataFetcher); ok {
		g.Go(func() error {
			md, err := mf.FetchMetadata(gctx, opts)
			if err != nil {
				log.Warn().Err(err).Str("provider", cfg.ProviderID).Msg("Metadata fetch failed")
				return nil
			}
			metadata = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("provider", cfg.ProviderID).Msg("Provider fetch failed")
		return nil, fmt.Errorf("fetching %s jobs: %w", cfg.ProviderID, err)
	}

	jobs := make([]model.ParsedJob, 0, len(items))
	skipped := 0
	for _, raw := range items {
		job, err := s.transform(raw, opts)
		if err != nil {
			skipped++
			log.Warn().Err(err).Str("provider", cfg.ProviderID).Msg("Skipping job that failed to transform")
			continue
		}
		jobs = append(jobs, job)
	}

	now := s.now()
	if p, ok := s.adapter.(JobProcessor); ok {
		jobs = p.ProcessJobs(jobs, now)
	} else {
		jobs = ProcessJobs(cfg, jobs, now)
	}

	log.Info().
		Str("provider", cfg.ProviderID).
		Int("fetched", len(items)).
		Int("skipped", skipped).
		Int("count", len(jobs)).
		Msg("Provider fetch complete")

	result := &FetchResult{Jobs: jobs, Metadata: metadata, FetchedAt: now}

	if s.cache != nil {
		if counter.Load() != gen {
			log.Warn().Str("provider", cfg.ProviderID).Str("key", key).Msg("Superseded fetch, skipping cache write")
		} else {
			s.cache.Write(ctx, key, model.CacheEntry{
				Jobs:      jobs,
				Metadata:  metadata,
				FetchedAt: now,
			})
		}
	}

	return result, nil
}

// Invalidate drops the provider's cache entries, every variant included.
func (s *JobService[T]) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Clear(ctx, cache.KeyFor(s.ID()))
	if v, ok := s.adapter.(CacheVariants); ok {
		for _, variant := range v.CacheVariants() {
			s.cache.Clear(ctx, cache.VariantKey(s.ID(), variant))
		}
	}
}

// transform runs TransformJob and turns a panic on one malformed item
// into an error so the rest of the batch survives.
func (s *JobService[T]) transform(raw T, opts FetchOptions) (job model.ParsedJob, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panic: %v", r)
		}
	}()
	return s.adapter.TransformJob(raw, opts)
}
