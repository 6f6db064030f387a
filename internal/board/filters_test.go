package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// offsetRescorer adds the temperature, scaled to points, to every score.
type offsetRescorer struct{ calls int }

func (r *offsetRescorer) Rescore(job model.ParsedJob, temperature float64, _ model.Region) model.ParsedJob {
	r.calls++
	job.MatchScore += int(temperature * 100)
	return job
}

func sampleJobs() []model.ParsedJob {
	return []model.ParsedJob{
		{
			ID: "hn-1", Company: "Acme", Title: "Go Engineer", RawText: "Remote (EU). Go and Postgres.",
			MatchScore: 40, PostedAt: t0.Add(-3 * 24 * time.Hour),
			LocationData: location.Classify("Remote (EU)"),
		},
		{
			ID: "hn-2", Company: "Crème Brûlée Labs", Title: "Frontend Developer", RawText: "React, on-site in Paris, no remote.",
			MatchScore: 70, PostedAt: t0.Add(-1 * 24 * time.Hour),
			LocationData: location.Classify("On-site in Paris, no remote."),
		},
		{
			ID: "hn-3", Company: "Globex", Title: "Data Scientist", RawText: "Fully remote, work from anywhere. Python.",
			MatchScore: 55, PostedAt: t0.Add(-2 * 24 * time.Hour),
			LocationData: location.Classify("Fully remote, work from anywhere."),
		},
		{
			ID: "hn-4", Company: "Initech", Title: "SRE", RawText: "US REMOTE | Kubernetes",
			MatchScore: 55, PostedAt: t0,
			LocationData: location.Classify("US REMOTE | Kubernetes"),
		},
	}
}

func ids(jobs []model.ParsedJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestApplyFiltersDefaults(t *testing.T) {
	got := ApplyFilters(sampleJobs(), FilterState{Region: model.RegionEU}, nil)
	assert.Equal(t, []string{"hn-2", "hn-3", "hn-4", "hn-1"}, ids(got))
}

func TestApplyFiltersSearch(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"creme", []string{"hn-2"}},
		{"  PYTHON ", []string{"hn-3"}},
		{"engineer", []string{"hn-1"}},
		{"nothing matches", []string{}},
	}
	for _, tt := range tests {
		got := ApplyFilters(sampleJobs(), FilterState{Search: tt.search}, nil)
		assert.Equal(t, tt.want, ids(got), tt.search)
	}
}

func TestApplyFiltersMinScoreAndDateSort(t *testing.T) {
	got := ApplyFilters(sampleJobs(), FilterState{MinScore: 55, Sort: SortDate}, nil)
	assert.Equal(t, []string{"hn-4", "hn-2", "hn-3"}, ids(got))
}

func TestApplyFiltersLocation(t *testing.T) {
	tests := []struct {
		mode location.FilterMode
		want []string
	}{
		{location.FilterRemoteGlobal, []string{"hn-3"}},
		{location.FilterRemoteRegion, []string{"hn-3", "hn-1"}},
		{location.FilterOnSiteRegion, []string{"hn-2"}},
		{location.FilterAnyRegion, []string{"hn-2", "hn-3", "hn-1"}},
		{location.FilterAll, []string{"hn-2", "hn-3", "hn-4", "hn-1"}},
	}
	for _, tt := range tests {
		got := ApplyFilters(sampleJobs(), FilterState{Location: tt.mode, Region: model.RegionEU}, nil)
		assert.Equal(t, tt.want, ids(got), string(tt.mode))
	}
}

func TestApplyFiltersRescores(t *testing.T) {
	jobs := sampleJobs()
	temp := 0.2
	r := &offsetRescorer{}

	got := ApplyFilters(jobs, FilterState{Temperature: &temp, MinScore: 60}, r)
	require.Equal(t, []string{"hn-2", "hn-3", "hn-4", "hn-1"}, ids(got))
	assert.Equal(t, 90, got[0].MatchScore)
	assert.Equal(t, 4, r.calls)

	assert.Equal(t, 70, jobs[1].MatchScore, "input must not change")
}

func TestApplyFiltersRescoresOnlyStaleJobs(t *testing.T) {
	jobs := sampleJobs()
	jobs[0].MatchDetails = &model.WeightedMatchResult{Temperature: 0.4, Region: model.RegionEU}
	jobs[1].MatchDetails = &model.WeightedMatchResult{Temperature: 0.9, Region: model.RegionEU}
	jobs[2].MatchDetails = &model.WeightedMatchResult{Temperature: 0.4, Region: model.RegionAmericas}
	temp := 0.4
	r := &offsetRescorer{}

	got := ApplyFilters(jobs, FilterState{Temperature: &temp, Region: model.RegionEU}, r)
	require.Len(t, got, 4)
	assert.Equal(t, 3, r.calls)

	scores := make(map[string]int)
	for _, j := range got {
		scores[j.ID] = j.MatchScore
	}
	assert.Equal(t, map[string]int{"hn-1": 40, "hn-2": 110, "hn-3": 95, "hn-4": 95}, scores)
}

func TestApplyFiltersEmptyInput(t *testing.T) {
	got := ApplyFilters(nil, FilterState{}, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSortOrder(t *testing.T) {
	s, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortScore, s)

	s, err = ParseSortOrder("DATE")
	require.NoError(t, err)
	assert.Equal(t, SortDate, s)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}
