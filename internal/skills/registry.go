// Package skills builds the immutable weighted skill registry the scoring
// engine matches postings against.
package skills

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/jobboard-api/internal/textutil"
)

// DefaultWeight is used for skills configured without an explicit weight.
const DefaultWeight = 5

// ── Configuration input ──────────────────────────────

// Category groups skills in the profile file.
type Category struct {
	Name   string      `yaml:"name" json:"name" validate:"required"`
	Skills []SkillSpec `yaml:"skills" json:"skills" validate:"dive"`
}

// SkillSpec is one configured skill. Weight and Aliases are optional.
type SkillSpec struct {
	Name    string   `yaml:"name" json:"name" validate:"required"`
	Weight  int      `yaml:"weight,omitempty" json:"weight,omitempty" validate:"omitempty,min=1,max=10"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty" validate:"dive,required"`
	Context string   `yaml:"context,omitempty" json:"context,omitempty"`
}

// ── Registry ─────────────────────────────────────────

// Skill is a resolved registry entry.
type Skill struct {
	Name     string
	Weight   int
	Aliases  []string
	Category string

	pattern *regexp.Regexp
}

// Matches reports whether any alias of the skill appears as a whole word in text.
func (s Skill) Matches(text string) bool {
	return s.pattern != nil && s.pattern.MatchString(text)
}

// Registry is an alias-indexed, read-only set of skills.
type Registry struct {
	skills  []Skill // weight desc, then name
	byAlias map[string]int
}

var validate = validator.New()

// NewRegistry validates the categories and builds the registry. A
// non-positive defaultWeight falls back to DefaultWeight.
func NewRegistry(categories []Category, defaultWeight int) (*Registry, error) {
	if defaultWeight <= 0 {
		defaultWeight = DefaultWeight
	}

	var skills []Skill
	names := make(map[string]bool)
	for _, cat := range categories {
		if err := validate.Struct(cat); err != nil {
			return nil, fmt.Errorf("invalid skill category %q: %w", cat.Name, err)
		}
		for _, spec := range cat.Skills {
			name := strings.TrimSpace(spec.Name)
			key := strings.ToLower(name)
			if names[key] {
				return nil, fmt.Errorf("duplicate skill %q", name)
			}
			names[key] = true

			weight := spec.Weight
			if weight == 0 {
				weight = defaultWeight
			}
			aliases := normalizeAliases(name, spec.Aliases)
			skills = append(skills, Skill{
				Name:     name,
				Weight:   weight,
				Aliases:  aliases,
				Category: cat.Name,
				pattern:  textutil.WordPattern(aliases...),
			})
		}
	}

	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Weight != skills[j].Weight {
			return skills[i].Weight > skills[j].Weight
		}
		return skills[i].Name < skills[j].Name
	})

	byAlias := make(map[string]int)
	for i, s := range skills {
		for _, a := range s.Aliases {
			if prev, ok := byAlias[a]; ok && prev != i {
				return nil, fmt.Errorf("alias %q used by both %q and %q", a, skills[prev].Name, s.Name)
			}
			byAlias[a] = i
		}
	}

	return &Registry{skills: skills, byAlias: byAlias}, nil
}

// normalizeAliases lowercases, trims, and de-duplicates aliases. The
// canonical name is always included.
func normalizeAliases(name string, aliases []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(aliases)+1)
	for _, a := range append([]string{name}, aliases...) {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Lookup resolves an alias or canonical name, case-insensitively.
func (r *Registry) Lookup(alias string) (Skill, bool) {
	i, ok := r.byAlias[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return Skill{}, false
	}
	return r.skills[i], true
}

// Skills returns every skill ordered by weight, heaviest first.
func (r *Registry) Skills() []Skill {
	out := make([]Skill, len(r.skills))
	copy(out, r.skills)
	return out
}

// Len returns the number of skills.
func (r *Registry) Len() int { return len(r.skills) }

// TopWeights returns the weights of the n heaviest skills.
func (r *Registry) TopWeights(n int) []int {
	if n > len(r.skills) {
		n = len(r.skills)
	}
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = r.skills[i].Weight
	}
	return out
}
