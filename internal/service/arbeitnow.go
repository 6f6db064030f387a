package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/model"
)

const (
	arbeitnowDefaultURL = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowMaxPages   = 3
)

// ArbeitnowAdapter pages through the Arbeitnow job board API.
type ArbeitnowAdapter struct {
	client   *http.Client
	scorer   Scorer
	cfg      ServiceConfig
	maxPages int
}

func NewArbeitnowAdapter(client *http.Client, scorer Scorer, apiURL string) *ArbeitnowAdapter {
	if apiURL == "" {
		apiURL = arbeitnowDefaultURL
	}
	return &ArbeitnowAdapter{
		client: client,
		scorer: scorer,
		cfg: ServiceConfig{
			ProviderID:    "arbeitnow",
			Name:          "Arbeitnow",
			APIURL:        apiURL,
			CacheDuration: time.Hour,
			MaxJobs:       150,
			MaxAgeDays:    30,
		},
		maxPages: arbeitnowMaxPages,
	}
}

// ── Arbeitnow API response types ─────────────────────

type arbeitnowResponse struct {
	Data  []ArbeitnowJob `json:"data"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
}

type ArbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

func (a *ArbeitnowAdapter) Config() ServiceConfig { return a.cfg }

// ── Fetch ────────────────────────────────────────────

// FetchFromAPI reads pages sequentially until the API reports no next
// page or the page cap is reached. Each page is accumulated before the
// next link is checked.
func (a *ArbeitnowAdapter) FetchFromAPI(ctx context.Context, _ FetchOptions) ([]ArbeitnowJob, error) {
	var all []ArbeitnowJob
	for page := 1; page <= a.maxPages; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		reqURL := a.cfg.APIURL + "?" + params.Encode()

		var resp arbeitnowResponse
		if err := getJSON(ctx, a.client, "Arbeitnow", reqURL, &resp); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, resp.Data...)

		log.Debug().
			Str("provider", a.cfg.ProviderID).
			Int("page", page).
			Int("count", len(resp.Data)).
			Msg("Arbeitnow page fetched")

		if resp.Links.Next == nil || *resp.Links.Next == "" || len(resp.Data) == 0 {
			break
		}
	}

	log.Info().
		Str("provider", a.cfg.ProviderID).
		Int("results", len(all)).
		Msg("Arbeitnow API fetch complete")

	return all, nil
}

// ── Converter ────────────────────────────────────────

func (a *ArbeitnowAdapter) TransformJob(aj ArbeitnowJob, opts FetchOptions) (model.ParsedJob, error) {
	if aj.Slug == "" {
		return model.ParsedJob{}, fmt.Errorf("arbeitnow job without slug")
	}

	hint := strings.TrimSpace(aj.Location)
	if aj.Remote {
		hint = remoteHint(hint)
	}

	var postedAt time.Time
	if aj.CreatedAt > 0 {
		postedAt = time.Unix(aj.CreatedAt, 0).UTC()
	}

	tags := make([]string, 0, len(aj.Tags)+len(aj.JobTypes))
	tags = append(tags, aj.Tags...)
	tags = append(tags, aj.JobTypes...)

	return buildJob(a.cfg.ProviderID, posting{
		ID:           aj.Slug,
		Company:      aj.CompanyName,
		Title:        aj.Title,
		HTML:         aj.Description,
		PostedAt:     postedAt,
		URL:          aj.URL,
		Tags:         tags,
		LocationHint: hint,
	}, a.scorer, opts), nil
}
