package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/jobboard-api/internal/model"
)

const remoteOKDefaultURL = "https://remoteok.com/api"

// RemoteOKAdapter reads the RemoteOK public feed. The first array element
// is a legal notice, not a job.
type RemoteOKAdapter struct {
	client *http.Client
	scorer Scorer
	cfg    ServiceConfig
}

func NewRemoteOKAdapter(client *http.Client, scorer Scorer, apiURL string) *RemoteOKAdapter {
	if apiURL == "" {
		apiURL = remoteOKDefaultURL
	}
	return &RemoteOKAdapter{
		client: client,
		scorer: scorer,
		cfg: ServiceConfig{
			ProviderID:    "remoteok",
			Name:          "RemoteOK",
			APIURL:        apiURL,
			CacheDuration: time.Hour,
			MaxJobs:       100,
			MaxAgeDays:    30,
		},
	}
}

// ── RemoteOK API response types ──────────────────────

// FlexibleID accepts ids encoded as JSON strings or numbers.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("remoteok id: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

type RemoteOKJob struct {
	Legal       string     `json:"legal"`
	ID          FlexibleID `json:"id"`
	Slug        string     `json:"slug"`
	Epoch       int64      `json:"epoch"`
	Date        string     `json:"date"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Tags        []string   `json:"tags"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	SalaryMin   int        `json:"salary_min"`
	SalaryMax   int        `json:"salary_max"`
	URL         string     `json:"url"`
	ApplyURL    string     `json:"apply_url"`
}

func (a *RemoteOKAdapter) Config() ServiceConfig { return a.cfg }

// ── Fetch ────────────────────────────────────────────

func (a *RemoteOKAdapter) FetchFromAPI(ctx context.Context, _ FetchOptions) ([]RemoteOKJob, error) {
	var raw []RemoteOKJob
	if err := getJSON(ctx, a.client, "RemoteOK", a.cfg.APIURL, &raw); err != nil {
		return nil, err
	}

	jobs := make([]RemoteOKJob, 0, len(raw))
	for _, j := range raw {
		if j.Legal != "" || j.ID == "" {
			continue
		}
		jobs = append(jobs, j)
	}

	log.Info().
		Str("provider", a.cfg.ProviderID).
		Int("results", len(jobs)).
		Msg("RemoteOK API fetch complete")

	return jobs, nil
}

// ── Converter ────────────────────────────────────────

func (a *RemoteOKAdapter) TransformJob(rj RemoteOKJob, opts FetchOptions) (model.ParsedJob, error) {
	if rj.Position == "" && rj.Company == "" {
		return model.ParsedJob{}, fmt.Errorf("remoteok job %s has no company or position", rj.ID)
	}

	postedAt := parseTime(rj.Date, time.RFC3339)
	if postedAt.IsZero() && rj.Epoch > 0 {
		postedAt = time.Unix(rj.Epoch, 0).UTC()
	}

	sourceURL := rj.URL
	if sourceURL == "" {
		sourceURL = "https://remoteok.com/remote-jobs/" + string(rj.ID)
	}

	tags := make([]string, 0, len(rj.Tags)+1)
	tags = append(tags, rj.Tags...)
	if s := remoteOKSalary(rj.SalaryMin, rj.SalaryMax); s != "" {
		tags = append(tags, s)
	}

	return buildJob(a.cfg.ProviderID, posting{
		ID:           string(rj.ID),
		Company:      strings.TrimSpace(rj.Company),
		Title:        strings.TrimSpace(rj.Position),
		HTML:         rj.Description,
		PostedAt:     postedAt,
		URL:          sourceURL,
		Tags:         tags,
		LocationHint: remoteHint(rj.Location),
	}, a.scorer, opts), nil
}

func remoteOKSalary(lo, hi int) string {
	switch {
	case lo > 0 && hi > 0:
		return "$" + strconv.Itoa(lo/1000) + "k-$" + strconv.Itoa(hi/1000) + "k"
	case lo > 0:
		return "$" + strconv.Itoa(lo/1000) + "k+"
	}
	return ""
}
