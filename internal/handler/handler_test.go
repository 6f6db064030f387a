package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jobboard-api/internal/board"
	"github.com/yourusername/jobboard-api/internal/config"
	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/service"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubProvider struct {
	id      string
	jobs    []model.ParsedJob
	err     error
	lastOpt service.FetchOptions
}

func (p *stubProvider) ID() string { return p.id }

func (p *stubProvider) Config() service.ServiceConfig {
	return service.ServiceConfig{ProviderID: p.id, Name: "Stub " + p.id, CacheDuration: time.Hour, MaxJobs: 100, MaxAgeDays: 30}
}

func (p *stubProvider) Fetch(_ context.Context, opts service.FetchOptions) (*service.FetchResult, error) {
	p.lastOpt = opts
	if p.err != nil {
		return nil, p.err
	}
	return &service.FetchResult{Jobs: p.jobs, FromCache: !opts.ForceRefresh, FetchedAt: t0}, nil
}

func (p *stubProvider) Invalidate(context.Context) {}

// job returns a posting already scored at the server defaults.
func job(id, text string, score int) model.ParsedJob {
	return model.ParsedJob{
		ID: id, Company: "Acme", RawText: text, MatchScore: score,
		LocationData: location.Classify(text),
		MatchDetails: &model.WeightedMatchResult{Score: score, Temperature: 0.4, Region: model.RegionEU},
	}
}

type testServer struct {
	router *gin.Engine
	hn     *stubProvider
}

func newTestServer(t *testing.T, failing ...*stubProvider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profile, err := config.DefaultProfile()
	require.NoError(t, err)
	_, engine, err := profile.Build(&config.Config{DefaultRegion: model.RegionEU, DefaultTemperature: 0.4})
	require.NoError(t, err)

	hn := &stubProvider{id: "hn", jobs: []model.ParsedJob{
		job("hn-1", "Senior Go engineer, remote. Kubernetes and Docker.", 80),
		job("hn-2", "Office manager, on-site in Berlin, no remote.", 30),
	}}
	providers := []service.Provider{hn}
	for _, p := range failing {
		providers = append(providers, p)
	}
	reg := service.NewRegistry(providers...)
	selector := board.NewSelector(reg, "hn")

	jobs := NewJobHandler(selector, reg, engine)
	analyze := NewAnalyzeHandler(engine)

	r := gin.New()
	r.GET("/providers", jobs.ListProviders)
	r.POST("/providers/:id/select", jobs.SelectProvider)
	r.GET("/jobs", jobs.GetJobs)
	r.GET("/jobs/:provider", jobs.GetJobs)
	r.POST("/jobs/:provider/refresh", jobs.RefreshJobs)
	r.POST("/score", analyze.Score)
	r.POST("/classify", analyze.Classify)
	return &testServer{router: r, hn: hn}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

// ── Jobs ─────────────────────────────────────────────

func TestListProviders(t *testing.T) {
	s := newTestServer(t, &stubProvider{id: "remoteok"})
	w, out := s.do(t, http.MethodGet, "/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	providers := out["providers"].([]any)
	require.Len(t, providers, 2)
	first := providers[0].(map[string]any)
	assert.Equal(t, "hn", first["id"])
	assert.Equal(t, true, first["active"])
	assert.Equal(t, float64(3600), first["cacheDurationSeconds"])
	assert.Equal(t, false, providers[1].(map[string]any)["active"])
}

func TestGetJobs(t *testing.T) {
	s := newTestServer(t)
	w, out := s.do(t, http.MethodGet, "/jobs/hn", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "hn", out["provider"])
	assert.Equal(t, float64(2), out["count"])
	assert.Equal(t, float64(2), out["total"])
	assert.Equal(t, true, out["fromCache"])
	assert.False(t, s.hn.lastOpt.ForceRefresh)
	assert.InDelta(t, 0.4, s.hn.lastOpt.Temperature, 1e-9)
	assert.Equal(t, model.RegionEU, s.hn.lastOpt.Region)
}

func TestGetJobsFilters(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(t, http.MethodGet, "/jobs/hn?minScore=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), out["count"])
	assert.Equal(t, float64(2), out["total"])

	w, out = s.do(t, http.MethodGet, "/jobs/hn?location=onsite-region&region=eu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	jobs := out["jobs"].([]any)
	require.Len(t, jobs, 1)
	assert.Equal(t, "hn-2", jobs[0].(map[string]any)["id"])
}

func TestGetJobsRescores(t *testing.T) {
	s := newTestServer(t)

	score := func(temp string) float64 {
		w, out := s.do(t, http.MethodGet, "/jobs/hn?search=kubernetes&temperature="+temp, nil)
		require.Equal(t, http.StatusOK, w.Code)
		jobs := out["jobs"].([]any)
		require.Len(t, jobs, 1)
		return jobs[0].(map[string]any)["matchScore"].(float64)
	}

	cold, hot := score("0.1"), score("0.95")
	assert.Greater(t, hot, cold)
	assert.InDelta(t, 0.95, s.hn.lastOpt.Temperature, 1e-9)
}

func TestGetJobsRescoresJobsScoredElsewhere(t *testing.T) {
	s := newTestServer(t)
	text := "Senior Go engineer, remote. Kubernetes and Docker."
	stale := job("hn-9", text, 99)
	stale.MatchDetails = &model.WeightedMatchResult{Score: 99, Temperature: 0.95, Region: model.RegionAPAC}
	s.hn.jobs = []model.ParsedJob{stale}

	details := func(path string) map[string]any {
		w, out := s.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		jobs := out["jobs"].([]any)
		require.Len(t, jobs, 1)
		j := jobs[0].(map[string]any)
		d := j["matchDetails"].(map[string]any)
		assert.Equal(t, d["score"], j["matchScore"])
		return d
	}

	d := details("/jobs/hn")
	assert.InDelta(t, 0.4, d["temperature"].(float64), 1e-9)
	assert.Equal(t, "EU", d["region"])
	assert.NotEqual(t, float64(99), d["score"])

	d = details("/jobs/hn?region=americas")
	assert.Equal(t, "Americas", d["region"])
	assert.InDelta(t, 0.4, d["temperature"].(float64), 1e-9)
}

func TestSelectProvider(t *testing.T) {
	remoteok := &stubProvider{id: "remoteok", jobs: []model.ParsedJob{job("remoteok-1", "Remote (EU). Go.", 60)}}
	s := newTestServer(t, remoteok)

	w, out := s.do(t, http.MethodGet, "/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hn", out["provider"])

	w, out = s.do(t, http.MethodPost, "/providers/remoteok/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "remoteok", out["active"])

	w, out = s.do(t, http.MethodGet, "/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "remoteok", out["provider"])
	assert.Equal(t, float64(1), out["count"])

	_, out = s.do(t, http.MethodGet, "/providers", nil)
	providers := out["providers"].([]any)
	assert.Equal(t, false, providers[0].(map[string]any)["active"])
	assert.Equal(t, true, providers[1].(map[string]any)["active"])

	w, _ = s.do(t, http.MethodPost, "/providers/monster/select", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshJobs(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(t, http.MethodPost, "/jobs/hn/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["fromCache"])
	assert.True(t, s.hn.lastOpt.ForceRefresh)

	w, _ = s.do(t, http.MethodGet, "/jobs/hn?refresh=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.hn.lastOpt.ForceRefresh)
}

func TestGetJobsBadQuery(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{
		"temperature=2",
		"temperature=hot",
		"region=Atlantis",
		"minScore=101",
		"minScore=abc",
		"sort=random",
		"location=moon",
	} {
		w, out := s.do(t, http.MethodGet, "/jobs/hn?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.NotEmpty(t, out["error"], q)
	}
}

func TestGetJobsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"upstream status", fmt.Errorf("fetching x jobs: %w", &service.APIError{Provider: "X", StatusCode: 503, Body: "down"}), http.StatusBadGateway},
		{"all segments", fmt.Errorf("jobicy: %w", service.ErrAllSegmentsFailed), http.StatusBadGateway},
		{"timeout", fmt.Errorf("calling X API: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubProvider{id: "broken", err: tt.err})
			w, out := s.do(t, http.MethodGet, "/jobs/broken", nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, "broken", out["provider"])
			assert.NotEmpty(t, out["error"])
		})
	}

	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/jobs/monster", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── Analyze ──────────────────────────────────────────

func TestScore(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(t, http.MethodPost, "/score", gin.H{
		"text":        "Senior Go engineer, remote. Kubernetes and Docker.",
		"temperature": 0.95,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EU", out["region"])
	result := out["result"].(map[string]any)
	assert.Greater(t, result["score"].(float64), float64(0))
	assert.InDelta(t, 0.95, result["temperature"].(float64), 1e-9)
	assert.Len(t, result["matchedSkills"].([]any), 3)
}

func TestScoreBadRequest(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []gin.H{
		{},
		{"text": "Go", "temperature": 1.5},
		{"text": "Go", "region": "Atlantis"},
	} {
		w, _ := s.do(t, http.MethodPost, "/score", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestClassify(t *testing.T) {
	s := newTestServer(t)

	w, out := s.do(t, http.MethodPost, "/classify", gin.H{"text": "Remote (US/Canada/Europe)"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Remote (Americas)", out["description"])
	loc := out["location"].(map[string]any)
	assert.Equal(t, string(model.LocationRemoteRegional), loc["type"])
	filters := out["filters"].(map[string]any)
	assert.Equal(t, false, filters["remoteEU"])
	assert.Equal(t, false, filters["remoteGlobal"])

	w, out = s.do(t, http.MethodPost, "/classify", gin.H{"text": "Remote (EU)", "region": "americas"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Americas", out["region"])
	filters = out["filters"].(map[string]any)
	assert.Equal(t, true, filters["remoteEU"])
	assert.Equal(t, false, filters["remoteRegion"])
}
