package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/model"
)

const remotiveDefaultURL = "https://remotive.com/api/remote-jobs"

// RemotiveAdapter wraps the Remotive free remote jobs API.
// No API key required.
type RemotiveAdapter struct {
	client   *http.Client
	scorer   Scorer
	cfg      ServiceConfig
	category string
	limit    int
}

func NewRemotiveAdapter(client *http.Client, scorer Scorer, apiURL string) *RemotiveAdapter {
	if apiURL == "" {
		apiURL = remotiveDefaultURL
	}
	return &RemotiveAdapter{
		client: client,
		scorer: scorer,
		cfg: ServiceConfig{
			ProviderID:    "remotive",
			Name:          "Remotive",
			APIURL:        apiURL,
			CacheDuration: time.Hour,
			MaxJobs:       100,
			MaxAgeDays:    30,
		},
		category: "software-dev",
		limit:    150,
	}
}

// ── Remotive API response types ──────────────────────

type remotiveResponse struct {
	JobCount int           `json:"job-count"`
	Jobs     []RemotiveJob `json:"jobs"`
}

type RemotiveJob struct {
	ID                        int      `json:"id"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	CompanyLogo               string   `json:"company_logo"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Salary                    string   `json:"salary"`
	URL                       string   `json:"url"`
	Description               string   `json:"description"`
}

func (a *RemotiveAdapter) Config() ServiceConfig { return a.cfg }

// ── Fetch ────────────────────────────────────────────

func (a *RemotiveAdapter) FetchFromAPI(ctx context.Context, _ FetchOptions) ([]RemotiveJob, error) {
	params := url.Values{}
	params.Set("category", a.category)
	params.Set("limit", strconv.Itoa(a.limit))
	reqURL := a.cfg.APIURL + "?" + params.Encode()

	log.Info().
		Str("provider", a.cfg.ProviderID).
		Str("category", a.category).
		Int("limit", a.limit).
		Msg("Fetching Remotive jobs")

	var result remotiveResponse
	if err := getJSON(ctx, a.client, "Remotive", reqURL, &result); err != nil {
		return nil, err
	}

	log.Info().
		Str("provider", a.cfg.ProviderID).
		Int("results", len(result.Jobs)).
		Msg("Remotive API fetch complete")

	return result.Jobs, nil
}

// ── Converter ────────────────────────────────────────

// TransformJob maps a Remotive listing. Every Remotive job is remote; the
// freeform candidate_required_location ("USA Only", "Europe", "Worldwide")
// is classified along with the description.
func (a *RemotiveAdapter) TransformJob(rj RemotiveJob, opts FetchOptions) (model.ParsedJob, error) {
	if rj.ID == 0 {
		return model.ParsedJob{}, fmt.Errorf("remotive job without id")
	}

	tags := rj.Tags
	if jt := remotiveJobType(rj.JobType); jt != "" {
		tags = append(append([]string(nil), tags...), jt)
	}

	return buildJob(a.cfg.ProviderID, posting{
		ID:           strconv.Itoa(rj.ID),
		Company:      rj.CompanyName,
		Title:        rj.Title,
		HTML:         rj.Description,
		PostedAt:     parseTime(rj.PublicationDate, time.RFC3339, "2006-01-02T15:04:05"),
		URL:          rj.URL,
		Tags:         tags,
		LocationHint: remoteHint(rj.CandidateRequiredLocation),
	}, a.scorer, opts), nil
}

func remotiveJobType(s string) string {
	switch s {
	case "full_time":
		return "full-time"
	case "part_time":
		return "part-time"
	case "contract", "freelance":
		return "contract"
	case "internship":
		return "internship"
	}
	return ""
}
