package location

import (
	"regexp"
	"strings"

	"github.com/yourusername/jobboard-api/internal/model"
)

// regionRule maps a phrase pattern to the region it signals.
type regionRule struct {
	re     *regexp.Regexp
	region model.Region
}

func rules(region model.Region, patterns ...string) []regionRule {
	out := make([]regionRule, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regionRule{re: regexp.MustCompile(p), region: region})
	}
	return out
}

// Token groups. "US" is matched case-sensitively so the pronoun "us" does
// not count as a region.
const (
	euTokens  = `(?i:eu|europe|european union|emea|cet|uk|united kingdom|germany|france|spain|portugal|netherlands|poland|ireland|italy|sweden|denmark|finland|norway|austria|switzerland|belgium)`
	usTokens  = `(?:US|USA|U\.S\.A?\.?|(?i:united states|north america|americas|canada|latam|latin america))`
	sepTokens = `\s*(?:,\s*(?i:or|and)?|/|&|\+|\s(?i:or|and)\s)\s*`
)

var (
	exclusionRules = append(append(append(
		rules(model.RegionAmericas,
			`(?i)\b(?:no|not|excluding|except(?:\s+for)?|outside(?:\s+of)?|non)[\s-]+(?:the\s+)?(?:us|usa|u\.s\.|united states|american|north america)\b(?:\s+(?:citizens?|residents?|applicants?|candidates?|based))?`,
		),
		rules(model.RegionEU,
			`(?i)\b(?:no|not|excluding|except(?:\s+for)?|outside(?:\s+of)?|non)[\s-]+(?:the\s+)?(?:eu|europe|european|emea)\b(?:\s+(?:citizens?|residents?|applicants?|candidates?|based))?`,
		)...),
		rules(model.RegionAPAC,
			`(?i)\b(?:no|not|excluding|except(?:\s+for)?|outside(?:\s+of)?)\s+(?:the\s+)?(?:apac|asia)\b`,
		)...),
		rules(model.RegionMENA,
			`(?i)\b(?:no|not|excluding|except(?:\s+for)?|outside(?:\s+of)?)\s+(?:the\s+)?(?:mena|middle east)\b`,
		)...)

	// EU listed after a US/Americas token: Americas is primary, EU secondary.
	euSecondaryRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i:remote)\s*[(\[]\s*` + usTokens + `[^)\]]*?` + euTokens + `[^)\]]*[)\]]`),
		regexp.MustCompile(`\b` + usTokens + `(?:` + sepTokens + usTokens + `)*` + sepTokens + euTokens + `\b`),
		regexp.MustCompile(`\b(?:US|USA)\b[^.\n]{0,60}?(?i:preferred)[^.\n]{0,40}?\b` + euTokens + `\b`),
	}

	usTimezoneRules = rules(model.RegionAmericas,
		`\b(?:EST|EDT|CST|CDT|MST|MDT|PST|PDT|ET|PT|CT)\b`,
		`(?i)\b(?:eastern|pacific|central|mountain)\s+(?:standard\s+)?(?:time|time\s*zones?|timezones?)\b`,
		`(?i)\b(?:us|u\.s\.|north american?)\s+time\s*zones?\b`,
		`(?i)\b(?:gmt|utc)\s*[-−–]\s*0?[4-8](?::?00)?\b`,
	)

	primaryRules = append(append(append(append(
		rules(model.RegionEU,
			`(?i:remote)\s*[(\[]\s*`+euTokens+`(?:`+sepTokens+euTokens+`)*\s*(?i:only)?\s*[)\]]`,
			`(?i)\b(?:eu|europe|european|emea|cet|cest)\s*(?:time\s*zones?|timezones?|tz|hours|working\s+hours)\b`,
			`(?i)\b(?:gmt|utc)\s*\+\s*0?[0-3](?::?00)?\b`,
			`(?i)\b(?:eu|europe|emea)[\s-]*(?:only|based|remote)\b`,
			`(?i)\bremote\s*[-–—:,/]\s*(?:eu|europe|emea)\b`,
			`(?i)\b(?:based|located|living|residing|resident)\s+in\s+(?:the\s+)?(?:eu|europe|european\s+union|emea)\b`,
			`(?i)\bremote\s+(?:in|within|across)\s+(?:the\s+)?(?:eu|europe|emea)\b`,
			`(?i)\b(?:right|eligible|authori[sz]ed|permit)\s+to\s+work\s+in\s+(?:the\s+)?(?:eu|europe|uk|european\s+union)\b`,
		),
		rules(model.RegionAmericas,
			`(?i:remote)\s*[(\[]\s*`+usTokens,
			`\b(?:US|USA|U\.S\.)[\s-]*(?i:only|based|remote|residents?|citizens?)\b`,
			`(?i)\b(?:united\s+states|north\s+america|canada|latam|latin\s+america|americas)[\s-]*(?:only|based|remote)\b`,
			`(?i:remote)\s*[-–—:,/]\s*`+usTokens+`\b`,
			`(?i)\b(?:based|located|living|residing|resident)\s+in\s+(?:the\s+)?(?:us|usa|u\.s\.|united\s+states|north\s+america|canada|americas)\b`,
			`(?i)\b(?:authori[sz]ed|eligible|legally\s+able|permitted)\s+to\s+work\s+in\s+(?:the\s+)?(?:us|u\.s\.|usa|united\s+states)\b`,
			`(?i)\b(?:green\s+card|h-?1b|security\s+clearance|us\s+persons?)\b`,
		)...),
		usTimezoneRules...),
		rules(model.RegionAPAC,
			`(?i)\bremote\s*[(\[]\s*(?:apac|asia|asia[\s-]pacific|australia|india|singapore|japan|new\s+zealand|anz)\b`,
			`(?i)\b(?:apac|asia[\s-]pacific|anz)[\s-]*(?:only|based|remote|time\s*zones?|hours)\b`,
			`\b(?:AEST|AEDT|SGT|JST|IST)\b`,
			`(?i)\b(?:based|located|living|residing)\s+in\s+(?:apac|asia|australia|india|singapore)\b`,
		)...),
		rules(model.RegionMENA,
			`(?i)\bremote\s*[(\[]\s*(?:mena|middle\s+east|uae|israel|saudi\s+arabia|egypt)\b`,
			`(?i)\b(?:mena|middle\s+east)[\s-]*(?:only|based|remote|time\s*zones?)\b`,
		)...)

	europeMention  = regexp.MustCompile(`(?i)\b(?:eu|europe|european|emea|uk)\b`)
	usdSalary      = regexp.MustCompile(`\$\s?\d{2,3}(?:[,.]\d{3}|\s?[kK])|\b\d{2,3}[kK]?\s?USD\b|\bUSD\s?\d`)
	salaryNotLocal = regexp.MustCompile(`(?i)\b(?:worldwide|international(?:ly)?|global(?:ly)?|anywhere|eu|europe)\b`)
)

// RegionalAnalysis is the result of scanning a whole document for region signals.
type RegionalAnalysis struct {
	Primary   []model.Region
	Secondary []model.Region
	Excluded  []model.Region
}

// AnalyzeRegions scans text for primary, secondary and excluded regions.
// Exclusions are masked before the other passes, and EU-after-US phrasing
// is masked before the primary pass, so "no US citizens" never marks the
// Americas primary and "US or Europe" never marks the EU primary.
func AnalyzeRegions(text string) RegionalAnalysis {
	var primary, secondary, excluded regionSet
	work := text

	for _, r := range exclusionRules {
		if r.re.MatchString(work) {
			excluded.add(r.region)
			work = mask(r.re, work)
		}
	}

	for _, re := range euSecondaryRules {
		if re.MatchString(work) {
			primary.add(model.RegionAmericas)
			secondary.add(model.RegionEU)
			work = mask(re, work)
		}
	}

	for _, r := range primaryRules {
		if r.re.MatchString(work) {
			primary.add(r.region)
		}
	}

	for _, r := range excluded.list() {
		primary.remove(r)
		secondary.remove(r)
	}
	for _, r := range primary.list() {
		secondary.remove(r)
	}

	return RegionalAnalysis{
		Primary:   primary.list(),
		Secondary: secondary.list(),
		Excluded:  excluded.list(),
	}
}

// HasUSTimezone reports US time zone phrasing (PST, "Eastern time", GMT-5...).
func HasUSTimezone(text string) bool {
	for _, r := range usTimezoneRules {
		if r.re.MatchString(text) {
			return true
		}
	}
	return false
}

// AppearsUSCentric is true when text names three or more US cities with
// no mention of Europe, uses US time zone phrasing, or quotes a USD salary
// without a worldwide/international/EU qualifier.
func AppearsUSCentric(text string) bool {
	if countCities(text, model.RegionAmericas) >= 3 && !europeMention.MatchString(text) {
		return true
	}
	if HasUSTimezone(text) {
		return true
	}
	return usdSalary.MatchString(text) && !salaryNotLocal.MatchString(text)
}

func mask(re *regexp.Regexp, s string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

// regionSet keeps insertion-independent, canonical ordering.
type regionSet map[model.Region]bool

func (s *regionSet) add(r model.Region) {
	if *s == nil {
		*s = make(regionSet)
	}
	(*s)[r] = true
}

func (s *regionSet) remove(r model.Region) {
	if *s != nil {
		delete(*s, r)
	}
}

func (s regionSet) list() []model.Region {
	out := []model.Region{}
	for _, r := range model.AllRegions {
		if s[r] {
			out = append(out, r)
		}
	}
	return out
}
