package location

import (
	"regexp"
	"strings"

	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/textutil"
)

type city struct {
	name    string
	region  model.Region
	aliases []string
	re      *regexp.Regexp
}

// knownCities is matched against diacritic-folded text, so aliases are ASCII.
var knownCities = []city{
	// Americas
	{name: "New York", region: model.RegionAmericas, aliases: []string{"new york", "nyc", "manhattan", "brooklyn"}},
	{name: "San Francisco", region: model.RegionAmericas, aliases: []string{"san francisco", "sf bay area", "bay area"}},
	{name: "Los Angeles", region: model.RegionAmericas, aliases: []string{"los angeles"}},
	{name: "Seattle", region: model.RegionAmericas, aliases: []string{"seattle"}},
	{name: "Austin", region: model.RegionAmericas, aliases: []string{"austin"}},
	{name: "Boston", region: model.RegionAmericas, aliases: []string{"boston", "cambridge, ma"}},
	{name: "Chicago", region: model.RegionAmericas, aliases: []string{"chicago"}},
	{name: "Denver", region: model.RegionAmericas, aliases: []string{"denver", "boulder"}},
	{name: "Atlanta", region: model.RegionAmericas, aliases: []string{"atlanta"}},
	{name: "Miami", region: model.RegionAmericas, aliases: []string{"miami"}},
	{name: "Portland", region: model.RegionAmericas, aliases: []string{"portland"}},
	{name: "San Diego", region: model.RegionAmericas, aliases: []string{"san diego"}},
	{name: "San Jose", region: model.RegionAmericas, aliases: []string{"san jose"}},
	{name: "Palo Alto", region: model.RegionAmericas, aliases: []string{"palo alto", "mountain view", "menlo park", "sunnyvale"}},
	{name: "Washington DC", region: model.RegionAmericas, aliases: []string{"washington dc", "washington, dc", "washington d.c."}},
	{name: "Philadelphia", region: model.RegionAmericas, aliases: []string{"philadelphia"}},
	{name: "Dallas", region: model.RegionAmericas, aliases: []string{"dallas"}},
	{name: "Houston", region: model.RegionAmericas, aliases: []string{"houston"}},
	{name: "Salt Lake City", region: model.RegionAmericas, aliases: []string{"salt lake city"}},
	{name: "Pittsburgh", region: model.RegionAmericas, aliases: []string{"pittsburgh"}},
	{name: "Minneapolis", region: model.RegionAmericas, aliases: []string{"minneapolis"}},
	{name: "Raleigh", region: model.RegionAmericas, aliases: []string{"raleigh", "durham"}},
	{name: "Nashville", region: model.RegionAmericas, aliases: []string{"nashville"}},
	{name: "Toronto", region: model.RegionAmericas, aliases: []string{"toronto"}},
	{name: "Vancouver", region: model.RegionAmericas, aliases: []string{"vancouver"}},
	{name: "Montreal", region: model.RegionAmericas, aliases: []string{"montreal"}},
	{name: "Sao Paulo", region: model.RegionAmericas, aliases: []string{"sao paulo"}},
	{name: "Mexico City", region: model.RegionAmericas, aliases: []string{"mexico city"}},
	{name: "Buenos Aires", region: model.RegionAmericas, aliases: []string{"buenos aires"}},

	// EU (Europe at large, including the UK and Switzerland)
	{name: "London", region: model.RegionEU, aliases: []string{"london"}},
	{name: "Berlin", region: model.RegionEU, aliases: []string{"berlin"}},
	{name: "Munich", region: model.RegionEU, aliases: []string{"munich", "munchen"}},
	{name: "Hamburg", region: model.RegionEU, aliases: []string{"hamburg"}},
	{name: "Frankfurt", region: model.RegionEU, aliases: []string{"frankfurt"}},
	{name: "Amsterdam", region: model.RegionEU, aliases: []string{"amsterdam"}},
	{name: "Rotterdam", region: model.RegionEU, aliases: []string{"rotterdam"}},
	{name: "Paris", region: model.RegionEU, aliases: []string{"paris"}},
	{name: "Dublin", region: model.RegionEU, aliases: []string{"dublin"}},
	{name: "Barcelona", region: model.RegionEU, aliases: []string{"barcelona"}},
	{name: "Madrid", region: model.RegionEU, aliases: []string{"madrid"}},
	{name: "Lisbon", region: model.RegionEU, aliases: []string{"lisbon", "lisboa"}},
	{name: "Stockholm", region: model.RegionEU, aliases: []string{"stockholm"}},
	{name: "Copenhagen", region: model.RegionEU, aliases: []string{"copenhagen"}},
	{name: "Oslo", region: model.RegionEU, aliases: []string{"oslo"}},
	{name: "Helsinki", region: model.RegionEU, aliases: []string{"helsinki"}},
	{name: "Zurich", region: model.RegionEU, aliases: []string{"zurich"}},
	{name: "Vienna", region: model.RegionEU, aliases: []string{"vienna", "wien"}},
	{name: "Prague", region: model.RegionEU, aliases: []string{"prague"}},
	{name: "Warsaw", region: model.RegionEU, aliases: []string{"warsaw"}},
	{name: "Krakow", region: model.RegionEU, aliases: []string{"krakow"}},
	{name: "Budapest", region: model.RegionEU, aliases: []string{"budapest"}},
	{name: "Brussels", region: model.RegionEU, aliases: []string{"brussels"}},
	{name: "Milan", region: model.RegionEU, aliases: []string{"milan"}},
	{name: "Edinburgh", region: model.RegionEU, aliases: []string{"edinburgh"}},
	{name: "Manchester", region: model.RegionEU, aliases: []string{"manchester"}},
	{name: "Tallinn", region: model.RegionEU, aliases: []string{"tallinn"}},

	// APAC
	{name: "Singapore", region: model.RegionAPAC, aliases: []string{"singapore"}},
	{name: "Sydney", region: model.RegionAPAC, aliases: []string{"sydney"}},
	{name: "Melbourne", region: model.RegionAPAC, aliases: []string{"melbourne"}},
	{name: "Tokyo", region: model.RegionAPAC, aliases: []string{"tokyo"}},
	{name: "Bangalore", region: model.RegionAPAC, aliases: []string{"bangalore", "bengaluru"}},
	{name: "Hong Kong", region: model.RegionAPAC, aliases: []string{"hong kong"}},
	{name: "Seoul", region: model.RegionAPAC, aliases: []string{"seoul"}},
	{name: "Auckland", region: model.RegionAPAC, aliases: []string{"auckland"}},

	// MENA
	{name: "Dubai", region: model.RegionMENA, aliases: []string{"dubai"}},
	{name: "Abu Dhabi", region: model.RegionMENA, aliases: []string{"abu dhabi"}},
	{name: "Tel Aviv", region: model.RegionMENA, aliases: []string{"tel aviv"}},
	{name: "Riyadh", region: model.RegionMENA, aliases: []string{"riyadh"}},
	{name: "Cairo", region: model.RegionMENA, aliases: []string{"cairo"}},
}

var cityRegion = make(map[string]model.Region)

func init() {
	for i := range knownCities {
		c := &knownCities[i]
		c.re = textutil.WordPattern(c.aliases...)
		cityRegion[strings.ToLower(c.name)] = c.region
	}
}

// findCities returns the canonical names of known cities in text, in
// table order, without duplicates.
func findCities(text string) []string {
	folded := textutil.Fold(text)
	var out []string
	for _, c := range knownCities {
		if c.re.MatchString(folded) {
			out = append(out, c.name)
		}
	}
	return out
}

// countCities returns how many distinct cities of region appear in text.
func countCities(text string, region model.Region) int {
	n := 0
	for _, name := range findCities(text) {
		if cityRegion[strings.ToLower(name)] == region {
			n++
		}
	}
	return n
}

// CityRegion returns the region a known city belongs to.
func CityRegion(name string) (model.Region, bool) {
	r, ok := cityRegion[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}
