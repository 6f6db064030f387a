// Package location classifies where a job posting can be worked from using
// ordered text heuristics, and provides the filter predicates the board
// applies over the result.
package location

import (
	"strings"

	"github.com/yourusername/jobboard-api/internal/model"
)

// stage is one step of the classification cascade. It returns ok=false to
// pass the posting on to the next stage.
type stage func(d *document) (model.ParsedLocationData, bool)

// stages run in priority order; the first decisive stage wins.
var stages = []stage{
	classifyMixedRoles,
	classifyHybrid,
	classifyOnSite,
	classifyRemoteGlobal,
	classifyRemoteRegional,
	classifyFallback,
}

// document carries the text and the analyses shared by the stages.
type document struct {
	text      string
	global    bool
	regional  RegionalAnalysis
	cities    []string
	usCentric bool
}

// Classify maps free text to a location verdict. It is deterministic and
// keeps no state between calls.
func Classify(text string) model.ParsedLocationData {
	d := &document{
		text:      text,
		global:    hasGlobalRemote(text),
		regional:  AnalyzeRegions(text),
		cities:    findCities(text),
		usCentric: AppearsUSCentric(text),
	}
	for _, s := range stages {
		if out, ok := s(d); ok {
			return normalize(out)
		}
	}
	return normalize(model.ParsedLocationData{Type: model.LocationUnknown, Confidence: model.ConfidenceLow})
}

// ── Stage 1: multiple roles with different arrangements ──

type roleTag int

const (
	roleUntagged roleTag = iota
	roleRemote
	roleOnSite
	roleHybrid
)

func tagSegment(seg string) roleTag {
	switch {
	case hasHybrid(seg):
		return roleHybrid
	case noRemote.MatchString(seg), onSitePhrase.MatchString(seg):
		return roleOnSite
	case MentionsRemote(seg), hasGlobalRemote(seg):
		return roleRemote
	case len(findCities(seg)) > 0:
		return roleOnSite
	}
	return roleUntagged
}

func classifyMixedRoles(d *document) (model.ParsedLocationData, bool) {
	var breakdown model.RoleBreakdown
	roles := 0
	for _, seg := range segmentSplit.Split(d.text, -1) {
		if !roleKeyword.MatchString(seg) {
			continue
		}
		switch tagSegment(seg) {
		case roleRemote:
			breakdown.Remote++
		case roleOnSite:
			breakdown.OnSite++
		case roleHybrid:
			breakdown.Hybrid++
		default:
			continue
		}
		roles++
	}

	types := 0
	for _, n := range []int{breakdown.Remote, breakdown.OnSite, breakdown.Hybrid} {
		if n > 0 {
			types++
		}
	}
	if roles < 2 || types < 2 {
		return model.ParsedLocationData{}, false
	}

	return model.ParsedLocationData{
		Type:             model.LocationMixedRoles,
		PrimaryRegions:   d.regional.Primary,
		SecondaryRegions: d.regional.Secondary,
		ExcludedRegions:  d.regional.Excluded,
		OnSiteLocations:  d.cities,
		Confidence:       model.ConfidenceMedium,
		RoleBreakdown:    &breakdown,
	}, true
}

// ── Stage 2 and 3: hybrid and on-site ──

func classifyHybrid(d *document) (model.ParsedLocationData, bool) {
	if d.global || !hasHybrid(d.text) {
		return model.ParsedLocationData{}, false
	}
	return d.officeVerdict(model.LocationHybrid), true
}

func classifyOnSite(d *document) (model.ParsedLocationData, bool) {
	if d.global {
		return model.ParsedLocationData{}, false
	}
	explicit := noRemote.MatchString(d.text)
	if !explicit && !(onSitePhrase.MatchString(d.text) && !MentionsRemote(d.text)) {
		return model.ParsedLocationData{}, false
	}
	return d.officeVerdict(model.LocationOnSite), true
}

// officeVerdict builds an office-bound verdict whose primary regions are the
// regions of the named cities plus any explicit regional signal.
func (d *document) officeVerdict(t model.LocationType) model.ParsedLocationData {
	var primary regionSet
	for _, c := range d.cities {
		if r, ok := CityRegion(c); ok {
			primary.add(r)
		}
	}
	for _, r := range d.regional.Primary {
		primary.add(r)
	}

	conf := model.ConfidenceMedium
	if len(d.cities) > 0 {
		conf = model.ConfidenceHigh
	}
	return model.ParsedLocationData{
		Type:             t,
		PrimaryRegions:   primary.list(),
		SecondaryRegions: d.regional.Secondary,
		ExcludedRegions:  d.regional.Excluded,
		OnSiteLocations:  d.cities,
		Confidence:       conf,
	}
}

// ── Stage 4 and 5: remote ──

func classifyRemoteGlobal(d *document) (model.ParsedLocationData, bool) {
	if !d.global || len(d.regional.Primary) > 0 || d.usCentric {
		return model.ParsedLocationData{}, false
	}
	return model.ParsedLocationData{
		Type:            model.LocationRemoteGlobal,
		PrimaryRegions:  []model.Region{model.RegionGlobal},
		ExcludedRegions: d.regional.Excluded,
		Confidence:      model.ConfidenceHigh,
	}, true
}

func classifyRemoteRegional(d *document) (model.ParsedLocationData, bool) {
	if !d.global && !MentionsRemote(d.text) {
		return model.ParsedLocationData{}, false
	}

	ra := d.regional
	if len(ra.Primary) == 0 && len(ra.Excluded) == 0 && !d.usCentric {
		return model.ParsedLocationData{
			Type:           model.LocationRemoteGlobal,
			PrimaryRegions: []model.Region{model.RegionGlobal},
			Confidence:     model.ConfidenceMedium,
		}, true
	}

	primary := ra.Primary
	conf := model.ConfidenceHigh
	if len(primary) == 0 {
		conf = model.ConfidenceMedium
		if d.usCentric && !containsRegion(ra.Excluded, model.RegionAmericas) {
			primary = []model.Region{model.RegionAmericas}
		}
	}
	return model.ParsedLocationData{
		Type:             model.LocationRemoteRegional,
		PrimaryRegions:   primary,
		SecondaryRegions: ra.Secondary,
		ExcludedRegions:  ra.Excluded,
		Confidence:       conf,
	}, true
}

// ── Stage 6: fallback ──

func classifyFallback(d *document) (model.ParsedLocationData, bool) {
	if len(d.cities) > 0 {
		v := d.officeVerdict(model.LocationOnSite)
		v.Confidence = model.ConfidenceMedium
		return v, true
	}
	return model.ParsedLocationData{
		Type:       model.LocationUnknown,
		Confidence: model.ConfidenceLow,
	}, true
}

// normalize replaces nil slices so the JSON shape is stable and enforces
// primary/secondary exclusivity.
func normalize(d model.ParsedLocationData) model.ParsedLocationData {
	if d.PrimaryRegions == nil {
		d.PrimaryRegions = []model.Region{}
	}
	var secondary []model.Region
	for _, r := range d.SecondaryRegions {
		if !containsRegion(d.PrimaryRegions, r) {
			secondary = append(secondary, r)
		}
	}
	d.SecondaryRegions = secondary
	if d.SecondaryRegions == nil {
		d.SecondaryRegions = []model.Region{}
	}
	if d.ExcludedRegions == nil {
		d.ExcludedRegions = []model.Region{}
	}
	if d.OnSiteLocations == nil {
		d.OnSiteLocations = []string{}
	}
	return d
}

func containsRegion(list []model.Region, r model.Region) bool {
	for _, x := range list {
		if x == r {
			return true
		}
	}
	return false
}

// Describe renders a short human-readable label for a verdict, used for
// the legacy ParsedJob.Location field.
func Describe(d model.ParsedLocationData) string {
	switch d.Type {
	case model.LocationRemoteGlobal:
		return "Remote (Global)"
	case model.LocationRemoteRegional:
		if len(d.PrimaryRegions) == 0 {
			return "Remote"
		}
		return "Remote (" + joinRegions(d.PrimaryRegions) + ")"
	case model.LocationHybrid:
		if len(d.OnSiteLocations) == 0 {
			return "Hybrid"
		}
		return "Hybrid · " + strings.Join(d.OnSiteLocations, ", ")
	case model.LocationOnSite:
		if len(d.OnSiteLocations) == 0 {
			return "On-site"
		}
		return strings.Join(d.OnSiteLocations, ", ")
	case model.LocationMixedRoles:
		return "Multiple roles"
	}
	return ""
}

func joinRegions(rs []model.Region) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, "/")
}
