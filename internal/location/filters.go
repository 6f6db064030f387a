package location

import "github.com/yourusername/jobboard-api/internal/model"

// FilterMode selects one of the location filter predicates.
type FilterMode string

const (
	FilterAll          FilterMode = "all"
	FilterRemoteGlobal FilterMode = "remote-global"
	FilterRemoteRegion FilterMode = "remote-region"
	FilterOnSiteRegion FilterMode = "onsite-region"
	FilterAnyRegion    FilterMode = "any-region"
)

// ParseFilterMode maps a query value to a FilterMode. Unknown values are rejected.
func ParseFilterMode(s string) (FilterMode, bool) {
	switch FilterMode(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterRemoteGlobal, FilterRemoteRegion, FilterOnSiteRegion, FilterAnyRegion:
		return FilterMode(s), true
	}
	return "", false
}

// Matches applies the predicate selected by mode.
func (m FilterMode) Matches(d model.ParsedLocationData, region model.Region) bool {
	switch m {
	case FilterRemoteGlobal:
		return MatchesRemoteGlobal(d)
	case FilterRemoteRegion:
		return MatchesRemoteRegion(d, region)
	case FilterOnSiteRegion:
		return MatchesOnSiteRegion(d, region)
	case FilterAnyRegion:
		return MatchesAnyRegion(d, region)
	}
	return true
}

// MatchesRemoteGlobal is true for work-from-anywhere postings.
func MatchesRemoteGlobal(d model.ParsedLocationData) bool {
	return d.Type == model.LocationRemoteGlobal
}

// MatchesRemoteRegion is true for remote postings open to region. A regional
// posting qualifies only when region is primary, or when no primary region
// was found at all; being listed as secondary is not enough.
func MatchesRemoteRegion(d model.ParsedLocationData, region model.Region) bool {
	if d.IsExcluded(region) {
		return false
	}
	switch d.Type {
	case model.LocationRemoteGlobal:
		return true
	case model.LocationRemoteRegional:
		return d.HasPrimary(region) || len(d.PrimaryRegions) == 0
	}
	return false
}

// MatchesRemoteEU is MatchesRemoteRegion for the EU.
func MatchesRemoteEU(d model.ParsedLocationData) bool {
	return MatchesRemoteRegion(d, model.RegionEU)
}

// MatchesOnSiteRegion is true for on-site or hybrid postings with an office
// in region.
func MatchesOnSiteRegion(d model.ParsedLocationData, region model.Region) bool {
	if d.Type != model.LocationOnSite && d.Type != model.LocationHybrid {
		return false
	}
	return hasOfficeIn(d, region)
}

// MatchesAnyRegion is the union of the remote and on-site predicates, plus
// mixed-role postings that are plausibly open to region.
func MatchesAnyRegion(d model.ParsedLocationData, region model.Region) bool {
	if d.IsExcluded(region) {
		return false
	}
	if MatchesRemoteGlobal(d) || MatchesRemoteRegion(d, region) || MatchesOnSiteRegion(d, region) {
		return true
	}
	if d.Type != model.LocationMixedRoles {
		return false
	}
	if d.HasPrimary(region) || hasOfficeIn(d, region) {
		return true
	}
	// Nothing to go on: give the posting the benefit of the doubt.
	return len(d.OnSiteLocations) == 0 && len(d.PrimaryRegions) == 0
}

// AccessibleFrom reports whether a candidate in region can plausibly work
// the posting: global remote, or region listed as primary or secondary.
func AccessibleFrom(d model.ParsedLocationData, region model.Region) bool {
	if d.IsExcluded(region) {
		return false
	}
	if d.Type == model.LocationRemoteGlobal {
		return true
	}
	if region == model.RegionGlobal {
		return false
	}
	if d.HasPrimary(region) || d.HasSecondary(region) {
		return true
	}
	return d.Type == model.LocationRemoteRegional && len(d.PrimaryRegions) == 0 && len(d.SecondaryRegions) == 0
}

func hasOfficeIn(d model.ParsedLocationData, region model.Region) bool {
	for _, c := range d.OnSiteLocations {
		if r, ok := CityRegion(c); ok && (r == region || region == model.RegionGlobal) {
			return true
		}
	}
	return false
}
