// Package app wires configuration, scoring, cache and providers together
// for the server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/board"
	"github.com/yourusername/jobboard-api/internal/cache"
	"github.com/yourusername/jobboard-api/internal/config"
	"github.com/yourusername/jobboard-api/internal/scoring"
	"github.com/yourusername/jobboard-api/internal/service"
	"github.com/yourusername/jobboard-api/internal/skills"
)

// DefaultProvider is active until a consumer selects another.
const DefaultProvider = "hn"

// App holds the long-lived components.
type App struct {
	Config    *config.Config
	Skills    *skills.Registry
	Engine    *scoring.Engine
	Cache     *cache.Cache
	Providers *service.Registry
	Selector  *board.Selector

	pool *pgxpool.Pool
}

// SetupLogging configures the global zerolog logger: console output in
// development, JSON otherwise.
func SetupLogging(env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// New builds every component from cfg. Close releases the database pool.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	profile, err := config.LoadProfile(cfg.SkillsFile)
	if err != nil {
		return nil, err
	}
	reg, engine, err := profile.Build(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("skills", reg.Len()).
		Str("region", string(engine.Config().DefaultRegion)).
		Float64("temperature", engine.Config().DefaultTemperature).
		Msg("Skill profile loaded")

	a := &App{Config: cfg, Skills: reg, Engine: engine}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Cache = cache.New(store)

	client := service.NewHTTPClient(cfg.HTTPTimeout)
	a.Providers = NewProviders(client, engine, a.Cache, cfg.ProviderURLs)
	a.Selector = board.NewSelector(a.Providers, DefaultProvider)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (cache.Store, error) {
	if a.Config.CacheBackend != config.CachePostgres {
		log.Info().Int64("quota_bytes", a.Config.CacheQuotaBytes).Msg("Using in-memory job cache")
		return cache.NewMemoryStore(a.Config.CacheQuotaBytes), nil
	}

	pool, err := pgxpool.New(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	store := cache.NewPostgresStore(pool, a.Config.CacheQuotaBytes)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	a.pool = pool
	log.Info().Int64("quota_bytes", a.Config.CacheQuotaBytes).Msg("Using PostgreSQL job cache")
	return store, nil
}

// Close releases external resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// NewProviders registers the five job sources in display order. urls
// overrides base URLs by provider id.
func NewProviders(client *http.Client, scorer service.Scorer, c *cache.Cache, urls map[string]string, opts ...service.ServiceOption) *service.Registry {
	return service.NewRegistry(
		service.NewJobService(service.NewHNAdapter(client, scorer, urls["hn"]), c, opts...),
		service.NewJobService(service.NewRemoteOKAdapter(client, scorer, urls["remoteok"]), c, opts...),
		service.NewJobService(service.NewArbeitnowAdapter(client, scorer, urls["arbeitnow"]), c, opts...),
		service.NewJobService(service.NewJobicyAdapter(client, scorer, urls["jobicy"]), c, opts...),
		service.NewJobService(service.NewRemotiveAdapter(client, scorer, urls["remotive"]), c, opts...),
	)
}
