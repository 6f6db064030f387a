package model

import (
	"html"
	"strings"
	"time"
)

// ── Regions ───────────────────────────────────────────

// Region is a coarse geographic bucket used for location filtering and scoring.
type Region string

const (
	RegionEU       Region = "EU"
	RegionAmericas Region = "Americas"
	RegionAPAC     Region = "APAC"
	RegionMENA     Region = "MENA"
	RegionGlobal   Region = "Global"
)

// AllRegions lists the concrete regions in display order.
var AllRegions = []Region{RegionEU, RegionAmericas, RegionAPAC, RegionMENA}

// ParseRegion maps user input ("eu", "americas", "us", ...) to a Region.
func ParseRegion(s string) (Region, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eu", "europe", "emea":
		return RegionEU, true
	case "americas", "us", "usa", "na", "north america", "latam":
		return RegionAmericas, true
	case "apac", "asia":
		return RegionAPAC, true
	case "mena", "middle east":
		return RegionMENA, true
	case "global", "worldwide":
		return RegionGlobal, true
	}
	return "", false
}

// ── Location classification ──────────────────────────

// LocationType is the classifier's verdict on where a posting can be worked from.
type LocationType string

const (
	LocationRemoteGlobal   LocationType = "REMOTE_GLOBAL"
	LocationRemoteRegional LocationType = "REMOTE_REGIONAL"
	LocationHybrid         LocationType = "HYBRID"
	LocationOnSite         LocationType = "ON_SITE"
	LocationMixedRoles     LocationType = "MIXED_ROLES"
	LocationUnknown        LocationType = "UNKNOWN"
)

// Confidence is the classifier's self-reported certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// RoleBreakdown counts roles per location type in a multi-role posting.
type RoleBreakdown struct {
	Remote int `json:"remote"`
	OnSite int `json:"onSite"`
	Hybrid int `json:"hybrid"`
}

// ParsedLocationData is the structured verdict produced by the location classifier.
// A region never appears in both PrimaryRegions and SecondaryRegions.
type ParsedLocationData struct {
	Type             LocationType   `json:"type"`
	PrimaryRegions   []Region       `json:"primaryRegions"`
	SecondaryRegions []Region       `json:"secondaryRegions"`
	OnSiteLocations  []string       `json:"onSiteLocations"`
	ExcludedRegions  []Region       `json:"excludedRegions"`
	Confidence       Confidence     `json:"confidence"`
	RoleBreakdown    *RoleBreakdown `json:"roleBreakdown,omitempty"`
}

// HasPrimary reports whether r is one of the primary regions.
func (d ParsedLocationData) HasPrimary(r Region) bool { return containsRegion(d.PrimaryRegions, r) }

// HasSecondary reports whether r is one of the secondary regions.
func (d ParsedLocationData) HasSecondary(r Region) bool { return containsRegion(d.SecondaryRegions, r) }

// IsExcluded reports whether r was explicitly excluded.
func (d ParsedLocationData) IsExcluded(r Region) bool { return containsRegion(d.ExcludedRegions, r) }

// IsRemote reports whether the verdict is one of the remote types.
func (d ParsedLocationData) IsRemote() bool {
	return d.Type == LocationRemoteGlobal || d.Type == LocationRemoteRegional
}

func containsRegion(list []Region, r Region) bool {
	for _, x := range list {
		if x == r {
			return true
		}
	}
	return false
}

// ── Scoring ──────────────────────────────────────────

// SkillMatch is one registry skill found in a posting.
type SkillMatch struct {
	Name         string  `json:"name"`
	Weight       int     `json:"weight"`
	PointsEarned float64 `json:"pointsEarned"`
}

// Bonuses holds the contextual signals detected by the scoring engine.
type Bonuses struct {
	Remote          bool `json:"remote"`
	RegionFriendly  bool `json:"regionFriendly"`
	SeniorityMatch  bool `json:"seniorityMatch"`
	DomainRelevance bool `json:"domainRelevance"`
}

// WeightedMatchResult is the full output of one scoring call.
type WeightedMatchResult struct {
	Score             int          `json:"score"`
	RawPoints         float64      `json:"rawPoints"`
	MaxPossiblePoints float64      `json:"maxPossiblePoints"`
	SkillPoints       float64      `json:"skillPoints"`
	BonusPoints       float64      `json:"bonusPoints"`
	MatchedSkills     []SkillMatch `json:"matchedSkills"`
	Bonuses           Bonuses      `json:"bonuses"`
	Temperature       float64      `json:"temperature"`
	Region            Region       `json:"region,omitempty"`
}

// SkillNames returns the matched skill names in match order.
func (r WeightedMatchResult) SkillNames() []string {
	names := make([]string, 0, len(r.MatchedSkills))
	for _, m := range r.MatchedSkills {
		names = append(names, m.Name)
	}
	return names
}

// ── Jobs ─────────────────────────────────────────────

// ParsedJob is the normalized posting produced by a provider adapter.
// Jobs are not mutated after creation; rescoring produces copies.
type ParsedJob struct {
	ID            string               `json:"id"`
	Company       string               `json:"company"`
	Title         string               `json:"title,omitempty"`
	RawText       string               `json:"rawText"`
	HTMLText      string               `json:"htmlText,omitempty"`
	PostedAt      time.Time            `json:"postedAt"`
	Author        string               `json:"author"`
	MatchScore    int                  `json:"matchScore"`
	MatchedSkills []string             `json:"matchedSkills"`
	LocationData  ParsedLocationData   `json:"locationData"`
	MatchDetails  *WeightedMatchResult `json:"matchDetails,omitempty"`
	Source        string               `json:"source"`
	SourceURL     string               `json:"sourceUrl"`
	IsRemote      bool                 `json:"isRemote"`
	Location      string               `json:"location"`
	Tags          []string             `json:"tags"`
}

// DisplayHTML returns the HTML body, rebuilding it from RawText when the
// HTML was stripped before caching.
func (j ParsedJob) DisplayHTML() string {
	if j.HTMLText != "" {
		return j.HTMLText
	}
	var b strings.Builder
	for _, para := range strings.Split(j.RawText, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// ThreadMetadata describes the source thread a batch came from (HN only).
type ThreadMetadata struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	PostedAt     time.Time `json:"postedAt"`
	CommentCount int       `json:"commentCount"`
}

// CacheEntry is what the cache layer persists per provider key.
type CacheEntry struct {
	Jobs      []ParsedJob     `json:"jobs"`
	Metadata  *ThreadMetadata `json:"metadata,omitempty"`
	FetchedAt time.Time       `json:"fetchedAt"`
}
