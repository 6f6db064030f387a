package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourusername/jobboard-api/internal/model"
)

// Cache backends.
const (
	CacheMemory   = "memory"
	CachePostgres = "postgres"
)

type Config struct {
	// Server
	Port     string
	Env      string // development, staging, production
	LogLevel string

	// Cache
	CacheBackend    string // memory, postgres
	CacheQuotaBytes int64
	DatabaseURL     string

	// Scoring
	SkillsFile         string // empty uses the embedded profile
	DefaultRegion      model.Region
	DefaultTemperature float64

	// Providers
	HTTPTimeout  time.Duration
	ProviderURLs map[string]string // provider id → base URL override

	// Rate Limiting
	RateLimitRPS int

	// CORS
	AllowedOrigins []string
}

// providerURLEnv maps provider ids to the env vars that override their base URL.
var providerURLEnv = map[string]string{
	"hn":        "HN_API_URL",
	"remoteok":  "REMOTEOK_API_URL",
	"arbeitnow": "ARBEITNOW_API_URL",
	"jobicy":    "JOBICY_API_URL",
	"remotive":  "REMOTIVE_API_URL",
}

func Load() (*Config, error) {
	// .env is optional; real env vars take precedence.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CacheBackend:       strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
		CacheQuotaBytes:    getEnvInt64("CACHE_QUOTA_BYTES", 5<<20),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SkillsFile:         getEnv("SKILLS_FILE", ""),
		DefaultTemperature: getEnvFloat("DEFAULT_TEMPERATURE", -1),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT", 20*time.Second),
		ProviderURLs:       make(map[string]string),
		RateLimitRPS:       getEnvInt("RATE_LIMIT_RPS", 10),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS",
			"http://localhost:5173,http://localhost:3000")),
	}

	for id, key := range providerURLEnv {
		if v := os.Getenv(key); v != "" {
			cfg.ProviderURLs[id] = strings.TrimRight(v, "/")
		}
	}

	if raw := os.Getenv("DEFAULT_REGION"); raw != "" {
		r, ok := model.ParseRegion(raw)
		if !ok {
			return nil, fmt.Errorf("DEFAULT_REGION %q is not one of EU, Americas, APAC, MENA, Global", raw)
		}
		cfg.DefaultRegion = r
	}

	switch cfg.CacheBackend {
	case CacheMemory:
	case CachePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	if cfg.DefaultTemperature > 1 {
		return nil, fmt.Errorf("DEFAULT_TEMPERATURE %.2f outside [0, 1]", cfg.DefaultTemperature)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with ENV=production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
