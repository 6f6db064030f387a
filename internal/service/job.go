package service

import (
	"strings"
	"time"

	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/textutil"
)

// Scorer rates posting text. *scoring.Engine satisfies it.
type Scorer interface {
	Score(text string, temperature float64, region model.Region) model.WeightedMatchResult
}

// maxRawText caps the stored plain text of one posting.
const maxRawText = 8000

// posting is the provider-neutral intermediate every adapter fills in.
type posting struct {
	ID       string
	Company  string
	Title    string
	HTML     string // upstream HTML body, may be empty
	Text     string // plain text body, derived from HTML when empty
	PostedAt time.Time
	Author   string
	URL      string
	Tags     []string

	// LocationHint is the provider's structured location ("Remote (Europe)",
	// "Berlin"), classified ahead of the body.
	LocationHint string

	// HeaderInText is set when Text already opens with the company and
	// title line, as HN replies do.
	HeaderInText bool
}

// buildJob scores and classifies p and assembles the ParsedJob. RawText is
// the exact text that was scored, so a later Rescore sees the same input.
func buildJob(provider string, p posting, scorer Scorer, opts FetchOptions) model.ParsedJob {
	text := p.Text
	if text == "" && p.HTML != "" {
		text = textutil.StripHTML(p.HTML)
	}
	full := strings.TrimSpace(text)
	if !p.HeaderInText {
		header := joinNonEmpty(" | ", p.Company, p.Title, p.LocationHint)
		full = joinNonEmpty("\n\n", header, full)
	}
	full = textutil.Truncate(full, maxRawText)

	match := scorer.Score(full, opts.Temperature, opts.Region)
	loc := location.Classify(full)

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return model.ParsedJob{
		ID:            provider + "-" + p.ID,
		Company:       p.Company,
		Title:         p.Title,
		RawText:       full,
		HTMLText:      p.HTML,
		PostedAt:      p.PostedAt,
		Author:        p.Author,
		MatchScore:    match.Score,
		MatchedSkills: match.SkillNames(),
		LocationData:  loc,
		MatchDetails:  &match,
		Source:        provider,
		SourceURL:     p.URL,
		IsRemote:      loc.IsRemote(),
		Location:      location.Describe(loc),
		Tags:          tags,
	}
}

// remoteHint renders a provider's location field for a remote listing.
func remoteHint(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return "Remote"
	}
	return "Remote (" + loc + ")"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// parseTime tries each layout in turn and returns the zero time when none fit.
func parseTime(s string, layouts ...string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
