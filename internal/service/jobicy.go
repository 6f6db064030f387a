package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/jobboard-api/internal/model"
)

const jobicyDefaultURL = "https://jobicy.com/api/v2/remote-jobs"

// jobicyGeos maps a caller region to the Jobicy geo slugs fetched as
// separate segments. An empty slug fetches every geo.
var jobicyGeos = map[model.Region][]string{
	model.RegionEU:       {"europe", "emea", "uk"},
	model.RegionAmericas: {"usa", "canada", "latam"},
	model.RegionAPAC:     {"apac", "australia"},
	model.RegionMENA:     {"emea", "israel"},
	model.RegionGlobal:   {""},
}

// JobicyAdapter fetches Jobicy in concurrent geo segments and tolerates
// the failure of some of them.
type JobicyAdapter struct {
	client *http.Client
	scorer Scorer
	cfg    ServiceConfig
	count  int
}

func NewJobicyAdapter(client *http.Client, scorer Scorer, apiURL string) *JobicyAdapter {
	if apiURL == "" {
		apiURL = jobicyDefaultURL
	}
	return &JobicyAdapter{
		client: client,
		scorer: scorer,
		cfg: ServiceConfig{
			ProviderID:    "jobicy",
			Name:          "Jobicy",
			APIURL:        apiURL,
			CacheDuration: time.Hour,
			MaxJobs:       100,
			MaxAgeDays:    30,
		},
		count: 50,
	}
}

// ── Jobicy API response types ────────────────────────

type jobicyResponse struct {
	JobCount int         `json:"jobCount"`
	Jobs     []JobicyJob `json:"jobs"`
}

type JobicyJob struct {
	ID             int             `json:"id"`
	URL            string          `json:"url"`
	JobSlug        string          `json:"jobSlug"`
	JobTitle       string          `json:"jobTitle"`
	CompanyName    string          `json:"companyName"`
	JobIndustry    jobicyStringSet `json:"jobIndustry"`
	JobType        jobicyStringSet `json:"jobType"`
	JobGeo         string          `json:"jobGeo"`
	JobLevel       string          `json:"jobLevel"`
	JobExcerpt     string          `json:"jobExcerpt"`
	JobDescription string          `json:"jobDescription"`
	PubDate        string          `json:"pubDate"`
}

// jobicyStringSet decodes fields Jobicy sends either as a string or as a
// list of strings.
type jobicyStringSet []string

func (s *jobicyStringSet) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = list
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return fmt.Errorf("jobicy string set: %w", err)
	}
	if one == "" {
		*s = nil
	} else {
		*s = []string{one}
	}
	return nil
}

// Segments returns the geo slugs fetched for a region.
func (a *JobicyAdapter) Segments(region model.Region) []string {
	if geos, ok := jobicyGeos[region]; ok {
		return geos
	}
	return []string{""}
}

func (a *JobicyAdapter) Config() ServiceConfig { return a.cfg }

// CacheVariant keys the cache by region, since each region fetches
// different geo segments.
func (a *JobicyAdapter) CacheVariant(opts FetchOptions) string {
	if _, ok := jobicyGeos[opts.Region]; ok {
		return strings.ToLower(string(opts.Region))
	}
	return strings.ToLower(string(model.RegionGlobal))
}

// CacheVariants lists every variant CacheVariant can return.
func (a *JobicyAdapter) CacheVariants() []string {
	out := make([]string, 0, len(jobicyGeos))
	for r := range jobicyGeos {
		out = append(out, strings.ToLower(string(r)))
	}
	sort.Strings(out)
	return out
}

// ── Fetch ────────────────────────────────────────────

// FetchFromAPI runs every segment concurrently. It fails only when all
// segments fail; otherwise failures are logged and the successful
// segments are merged, de-duplicated by job id.
func (a *JobicyAdapter) FetchFromAPI(ctx context.Context, opts FetchOptions) ([]JobicyJob, error) {
	segments := a.Segments(opts.Region)
	results := make([][]JobicyJob, len(segments))
	errs := make([]error, len(segments))

	var g errgroup.Group
	for i, geo := range segments {
		g.Go(func() error {
			results[i], errs[i] = a.fetchSegment(ctx, geo)
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	seen := make(map[int]bool)
	var jobs []JobicyJob
	for i, geo := range segments {
		if errs[i] != nil {
			failed = append(failed, fmt.Errorf("segment %q: %w", geo, errs[i]))
			continue
		}
		for _, j := range results[i] {
			if seen[j.ID] {
				continue
			}
			seen[j.ID] = true
			jobs = append(jobs, j)
		}
	}

	if len(failed) == len(segments) {
		return nil, fmt.Errorf("jobicy: %w: %w", ErrAllSegmentsFailed, errors.Join(failed...))
	}
	for _, err := range failed {
		log.Warn().Err(err).Str("provider", a.cfg.ProviderID).Msg("Jobicy segment failed, continuing")
	}

	log.Info().
		Str("provider", a.cfg.ProviderID).
		Int("segments", len(segments)).
		Int("failed", len(failed)).
		Int("results", len(jobs)).
		Msg("Jobicy API fetch complete")

	return jobs, nil
}

func (a *JobicyAdapter) fetchSegment(ctx context.Context, geo string) ([]JobicyJob, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(a.count))
	if geo != "" {
		params.Set("geo", geo)
	}
	reqURL := a.cfg.APIURL + "?" + params.Encode()

	var resp jobicyResponse
	if err := getJSON(ctx, a.client, "Jobicy", reqURL, &resp); err != nil {
		return nil, err
	}
	log.Debug().Str("provider", a.cfg.ProviderID).Str("segment", geo).Int("count", len(resp.Jobs)).Msg("Jobicy segment fetched")
	return resp.Jobs, nil
}

// ── Converter ────────────────────────────────────────

func (a *JobicyAdapter) TransformJob(jj JobicyJob, opts FetchOptions) (model.ParsedJob, error) {
	if jj.ID == 0 {
		return model.ParsedJob{}, fmt.Errorf("jobicy job without id")
	}

	html := jj.JobDescription
	if html == "" {
		html = jj.JobExcerpt
	}

	tags := make([]string, 0, len(jj.JobIndustry)+len(jj.JobType)+1)
	tags = append(tags, jj.JobIndustry...)
	tags = append(tags, jj.JobType...)
	if jj.JobLevel != "" && !strings.EqualFold(jj.JobLevel, "any") {
		tags = append(tags, jj.JobLevel)
	}

	return buildJob(a.cfg.ProviderID, posting{
		ID:           strconv.Itoa(jj.ID),
		Company:      jj.CompanyName,
		Title:        jj.JobTitle,
		HTML:         html,
		PostedAt:     parseTime(jj.PubDate, "2006-01-02 15:04:05", time.RFC3339),
		URL:          jj.URL,
		Tags:         tags,
		LocationHint: remoteHint(jj.JobGeo),
	}, a.scorer, opts), nil
}
