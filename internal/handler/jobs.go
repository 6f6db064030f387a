package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/board"
	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/scoring"
	"github.com/yourusername/jobboard-api/internal/service"
)

// Engine is what the handlers need from the scoring engine.
type Engine interface {
	Score(text string, temperature float64, region model.Region) model.WeightedMatchResult
	Rescore(job model.ParsedJob, temperature float64, region model.Region) model.ParsedJob
	Config() scoring.Config
}

type JobHandler struct {
	selector *board.Selector
	registry *service.Registry
	engine   Engine
}

func NewJobHandler(selector *board.Selector, registry *service.Registry, engine Engine) *JobHandler {
	return &JobHandler{selector: selector, registry: registry, engine: engine}
}

// ListProviders handles GET /providers
func (h *JobHandler) ListProviders(c *gin.Context) {
	active := h.selector.Active()
	providers := make([]gin.H, 0)
	for _, p := range h.registry.Providers() {
		cfg := p.Config()
		providers = append(providers, gin.H{
			"id":                   cfg.ProviderID,
			"name":                 cfg.Name,
			"cacheDurationSeconds": int(cfg.CacheDuration.Seconds()),
			"maxJobs":              cfg.MaxJobs,
			"maxAgeDays":           cfg.MaxAgeDays,
			"active":               cfg.ProviderID == active,
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// SelectProvider handles POST /providers/:id/select
func (h *JobHandler) SelectProvider(c *gin.Context) {
	id := c.Param("id")
	if err := h.selector.Select(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Info().Str("provider", id).Msg("Active provider changed")
	c.JSON(http.StatusOK, gin.H{"active": id})
}

// GetJobs handles GET /jobs/:provider, and GET /jobs for the active provider
func (h *JobHandler) GetJobs(c *gin.Context) {
	h.serveJobs(c, c.Query("refresh") == "true")
}

// RefreshJobs handles POST /jobs/:provider/refresh
func (h *JobHandler) RefreshJobs(c *gin.Context) {
	h.serveJobs(c, true)
}

func (h *JobHandler) serveJobs(c *gin.Context, refresh bool) {
	q, err := h.parseJobsQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := service.FetchOptions{
		Temperature:  q.temperature,
		Region:       q.filters.Region,
		ForceRefresh: refresh,
	}

	provider := c.Param("provider")
	res := h.selector.Fetch(c.Request.Context(), provider, opts)
	if res.Err != nil {
		status, msg := errorStatus(res.Err)
		log.Error().Err(res.Err).Str("provider", provider).Int("status", status).Msg("Failed to fetch jobs")
		c.JSON(status, gin.H{"error": msg, "provider": provider})
		return
	}

	jobs := board.ApplyFilters(res.Jobs, q.filters, h.engine)

	c.JSON(http.StatusOK, gin.H{
		"provider":  res.Provider,
		"jobs":      jobs,
		"count":     len(jobs),
		"total":     len(res.Jobs),
		"thread":    res.Thread,
		"fromCache": res.FromCache,
		"fetchedAt": res.FetchedAt,
	})
}

type jobsQuery struct {
	temperature float64
	filters     board.FilterState
}

func (h *JobHandler) parseJobsQuery(c *gin.Context) (jobsQuery, error) {
	defaults := h.engine.Config()
	q := jobsQuery{
		temperature: defaults.DefaultTemperature,
		filters: board.FilterState{
			Search: c.Query("search"),
			Region: defaults.DefaultRegion,
		},
	}
	// Cached scores may come from another caller's temperature or region.
	q.filters.Temperature = &q.temperature

	if raw := c.Query("temperature"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil || t < 0 || t > 1 {
			return q, errors.New("temperature must be a number between 0 and 1")
		}
		q.temperature = t
	}

	if raw := c.Query("region"); raw != "" {
		r, ok := model.ParseRegion(raw)
		if !ok {
			return q, errors.New("region must be one of EU, Americas, APAC, MENA, Global")
		}
		q.filters.Region = r
	}

	if raw := c.Query("minScore"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			return q, errors.New("minScore must be an integer between 0 and 100")
		}
		q.filters.MinScore = n
	}

	sortOrder, err := board.ParseSortOrder(c.Query("sort"))
	if err != nil {
		return q, err
	}
	q.filters.Sort = sortOrder

	mode, ok := location.ParseFilterMode(c.Query("location"))
	if !ok {
		return q, errors.New("location must be one of all, remote-global, remote-region, onsite-region, any-region")
	}
	q.filters.Location = mode

	return q, nil
}

// errorStatus maps a fetch error to an HTTP status and client message.
func errorStatus(err error) (int, string) {
	var apiErr *service.APIError
	switch {
	case errors.Is(err, service.ErrUnknownProvider):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, "Upstream job source failed: " + apiErr.Error()
	case errors.Is(err, service.ErrAllSegmentsFailed):
		return http.StatusBadGateway, "Upstream job source failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Upstream job source timed out"
	}
	return http.StatusInternalServerError, "Failed to fetch jobs"
}
