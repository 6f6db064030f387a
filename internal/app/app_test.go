package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jobboard-api/internal/config"
	"github.com/yourusername/jobboard-api/internal/middleware"
	"github.com/yourusername/jobboard-api/internal/service"
)

func remotiveStub(t *testing.T, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{"jobs": []map[string]any{{
			"id":                          7,
			"title":                       "Senior Backend Engineer",
			"company_name":                "Acme",
			"candidate_required_location": "Europe",
			"publication_date":            time.Now().UTC().Format("2006-01-02T15:04:05"),
			"description":                 "<p>Go, PostgreSQL and Kubernetes.</p>",
		}}})
		assert.NoError(t, err)
	}))
}

func newTestApp(t *testing.T, urls map[string]string) *App {
	t.Helper()
	cfg := &config.Config{
		Env:                "test",
		CacheBackend:       config.CacheMemory,
		CacheQuotaBytes:    1 << 20,
		DefaultTemperature: -1,
		HTTPTimeout:        5 * time.Second,
		ProviderURLs:       urls,
		AllowedOrigins:     []string{"http://localhost:3000"},
	}
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewProvidersOrder(t *testing.T) {
	reg := NewProviders(service.NewHTTPClient(time.Second), nil, nil, nil)
	assert.Equal(t, []string{"hn", "remoteok", "arbeitnow", "jobicy", "remotive"}, reg.IDs())
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, nil)
	w := httptest.NewRecorder()
	a.Router(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	var out struct {
		Status    string   `json:"status"`
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "ok", out.Status)
	assert.Len(t, out.Providers, 5)
}

func TestJobsEndToEnd(t *testing.T) {
	var hits atomic.Int32
	upstream := remotiveStub(t, &hits)
	defer upstream.Close()

	a := newTestApp(t, map[string]string{"remotive": upstream.URL})
	router := a.Router(nil)

	type jobsResponse struct {
		Count     int  `json:"count"`
		FromCache bool `json:"fromCache"`
		Jobs      []struct {
			ID            string   `json:"id"`
			MatchScore    int      `json:"matchScore"`
			MatchedSkills []string `json:"matchedSkills"`
			IsRemote      bool     `json:"isRemote"`
			Location      string   `json:"location"`
			HTMLText      string   `json:"htmlText"`
		} `json:"jobs"`
	}

	fetch := func(path string) jobsResponse {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out jobsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	first := fetch("/jobs/remotive")
	require.Equal(t, 1, first.Count)
	assert.False(t, first.FromCache)
	job := first.Jobs[0]
	assert.Equal(t, "remotive-7", job.ID)
	assert.True(t, job.IsRemote)
	assert.Equal(t, "Remote (EU)", job.Location)
	assert.Greater(t, job.MatchScore, 0)
	assert.Subset(t, job.MatchedSkills, []string{"Go", "PostgreSQL", "Kubernetes"})

	second := fetch("/jobs/remotive?location=remote-region&region=eu")
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, second.Count)
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, second.Jobs[0].HTMLText, "<p>")

	other := fetch("/jobs/remotive?location=remote-region&region=apac")
	assert.Equal(t, 0, other.Count)
}
