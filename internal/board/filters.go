package board

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/textutil"
)

// SortOrder orders filtered postings.
type SortOrder string

const (
	SortScore SortOrder = "score"
	SortDate  SortOrder = "date"
)

// ParseSortOrder maps a query value to a SortOrder; empty means score.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "", SortScore:
		return SortScore, nil
	case SortDate:
		return SortDate, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// FilterState is the board's filter panel.
type FilterState struct {
	Search   string
	MinScore int
	Sort     SortOrder
	Location location.FilterMode
	Region   model.Region

	// Temperature, when set, rescores every posting whose match details
	// were computed at another temperature or region.
	Temperature *float64
}

// Rescorer produces a copy of a job scored at another temperature.
// *scoring.Engine satisfies it.
type Rescorer interface {
	Rescore(job model.ParsedJob, temperature float64, region model.Region) model.ParsedJob
}

// ApplyFilters returns a new slice with the filters applied. Input jobs
// are never modified; rescoring produces derived copies.
func ApplyFilters(jobs []model.ParsedJob, f FilterState, rescorer Rescorer) []model.ParsedJob {
	rescore := f.Temperature != nil && rescorer != nil && !math.IsNaN(*f.Temperature)
	needle := textutil.Fold(strings.TrimSpace(f.Search))
	mode := f.Location
	if mode == "" {
		mode = location.FilterAll
	}

	out := make([]model.ParsedJob, 0, len(jobs))
	for _, j := range jobs {
		if rescore && stale(j, *f.Temperature, f.Region) {
			j = rescorer.Rescore(j, *f.Temperature, f.Region)
		}
		if needle != "" && !matchesSearch(j, needle) {
			continue
		}
		if j.MatchScore < f.MinScore {
			continue
		}
		if !mode.Matches(j.LocationData, f.Region) {
			continue
		}
		out = append(out, j)
	}

	switch f.Sort {
	case SortDate:
		sort.SliceStable(out, func(a, b int) bool { return out[a].PostedAt.After(out[b].PostedAt) })
	default:
		sort.SliceStable(out, func(a, b int) bool { return out[a].MatchScore > out[b].MatchScore })
	}
	return out
}

func stale(j model.ParsedJob, temperature float64, region model.Region) bool {
	d := j.MatchDetails
	return d == nil || d.Temperature != temperature || d.Region != region
}

// matchesSearch checks company, title and body, ignoring case and accents.
func matchesSearch(j model.ParsedJob, needle string) bool {
	for _, field := range []string{j.Company, j.Title, j.RawText} {
		if strings.Contains(textutil.Fold(field), needle) {
			return true
		}
	}
	return false
}
