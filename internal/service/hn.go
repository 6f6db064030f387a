package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/textutil"
)

const (
	hnDefaultURL = "https://hn.algolia.com/api/v1"
	hnItemURL    = "https://news.ycombinator.com/item?id="

	// hnMinTextLen drops replies too short to be a posting ("Is this remote?").
	hnMinTextLen = 50
)

// HNAdapter reads top-level replies of the latest "Ask HN: Who is hiring?"
// thread through the Algolia HN API.
type HNAdapter struct {
	client  *http.Client
	scorer  Scorer
	cfg     ServiceConfig
	threads singleflight.Group
}

func NewHNAdapter(client *http.Client, scorer Scorer, apiURL string) *HNAdapter {
	if apiURL == "" {
		apiURL = hnDefaultURL
	}
	return &HNAdapter{
		client: client,
		scorer: scorer,
		cfg: ServiceConfig{
			ProviderID:    "hn",
			Name:          "Hacker News: Who is hiring?",
			APIURL:        apiURL,
			CacheDuration: 30 * time.Minute,
			MaxJobs:       200,
			MaxAgeDays:    45,
		},
	}
}

// ── Algolia API response types ───────────────────────

type hnSearchResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	CreatedAtI  int64  `json:"created_at_i"`
	NumComments int    `json:"num_comments"`
}

type hnItem struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Children []HNComment `json:"children"`
}

// HNComment is one top-level reply in the hiring thread.
type HNComment struct {
	ID         int64  `json:"id"`
	Author     string `json:"author"`
	Text       string `json:"text"`
	CreatedAtI int64  `json:"created_at_i"`
}

func (a *HNAdapter) Config() ServiceConfig { return a.cfg }

// ── Thread lookup ────────────────────────────────────

// latestThread finds the newest hiring thread. Concurrent callers share
// one upstream request.
func (a *HNAdapter) latestThread(ctx context.Context) (*model.ThreadMetadata, error) {
	v, err, _ := a.threads.Do("latest", func() (any, error) {
		params := url.Values{}
		params.Set("tags", "story,author_whoishiring")
		params.Set("hitsPerPage", "10")
		reqURL := a.cfg.APIURL + "/search_by_date?" + params.Encode()

		var resp hnSearchResponse
		if err := getJSON(ctx, a.client, "HN", reqURL, &resp); err != nil {
			return nil, err
		}
		for _, h := range resp.Hits {
			if strings.Contains(strings.ToLower(h.Title), "who is hiring") {
				return &model.ThreadMetadata{
					ID:           h.ObjectID,
					Title:        h.Title,
					URL:          hnItemURL + h.ObjectID,
					PostedAt:     time.Unix(h.CreatedAtI, 0).UTC(),
					CommentCount: h.NumComments,
				}, nil
			}
		}
		return nil, fmt.Errorf("no \"Who is hiring?\" thread among %d HN stories", len(resp.Hits))
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ThreadMetadata), nil
}

// FetchMetadata returns the hiring thread the jobs come from.
func (a *HNAdapter) FetchMetadata(ctx context.Context, _ FetchOptions) (*model.ThreadMetadata, error) {
	return a.latestThread(ctx)
}

// ── Fetch ────────────────────────────────────────────

func (a *HNAdapter) FetchFromAPI(ctx context.Context, _ FetchOptions) ([]HNComment, error) {
	thread, err := a.latestThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("locating hiring thread: %w", err)
	}

	var item hnItem
	if err := getJSON(ctx, a.client, "HN", a.cfg.APIURL+"/items/"+thread.ID, &item); err != nil {
		return nil, err
	}

	comments := make([]HNComment, 0, len(item.Children))
	for _, c := range item.Children {
		if strings.TrimSpace(c.Text) == "" {
			continue // deleted or flagged
		}
		comments = append(comments, c)
	}

	log.Info().
		Str("provider", a.cfg.ProviderID).
		Str("thread", thread.ID).
		Int("results", len(comments)).
		Msg("HN thread fetch complete")

	return comments, nil
}

// ── Converter ────────────────────────────────────────

// TransformJob parses a reply. By convention the first line is
// "Company | Role | Location | ...".
func (a *HNAdapter) TransformJob(c HNComment, opts FetchOptions) (model.ParsedJob, error) {
	text := textutil.StripHTML(c.Text)
	if text == "" {
		return model.ParsedJob{}, fmt.Errorf("hn comment %d has no text", c.ID)
	}

	company, title := splitHNHeader(textutil.FirstLine(text))

	var postedAt time.Time
	if c.CreatedAtI > 0 {
		postedAt = time.Unix(c.CreatedAtI, 0).UTC()
	}

	id := strconv.FormatInt(c.ID, 10)
	return buildJob(a.cfg.ProviderID, posting{
		ID:           id,
		Company:      company,
		Title:        title,
		HTML:         c.Text,
		Text:         text,
		PostedAt:     postedAt,
		Author:       c.Author,
		URL:          hnItemURL + id,
		HeaderInText: true,
	}, a.scorer, opts), nil
}

// ProcessJobs drops replies under hnMinTextLen characters of normalized
// text, then applies the default age/sort/cap processing.
func (a *HNAdapter) ProcessJobs(jobs []model.ParsedJob, now time.Time) []model.ParsedJob {
	kept := make([]model.ParsedJob, 0, len(jobs))
	for _, j := range jobs {
		normalized := strings.Join(strings.Fields(j.RawText), " ")
		if utf8.RuneCountInString(normalized) < hnMinTextLen {
			continue
		}
		kept = append(kept, j)
	}
	return ProcessJobs(a.cfg, kept, now)
}

// splitHNHeader takes the company from the first pipe-separated field and
// the title from the first later field naming a role.
func splitHNHeader(line string) (company, title string) {
	parts := strings.Split(line, "|")
	company = textutil.Truncate(strings.TrimSpace(parts[0]), 80)
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); location.MentionsRole(p) {
			return company, textutil.Truncate(p, 120)
		}
	}
	return company, ""
}
