package scoring

import (
	"fmt"

	"github.com/yourusername/jobboard-api/internal/model"
)

// BonusValues are the base points for each contextual signal, before the
// temperature bonus multiplier is applied.
type BonusValues struct {
	Remote          float64
	RegionFriendly  float64
	Seniority       float64
	DomainRelevance float64
}

// Sum returns the total of all base bonus points.
func (b BonusValues) Sum() float64 {
	return b.Remote + b.RegionFriendly + b.Seniority + b.DomainRelevance
}

// Config is the fully-resolved scoring configuration. Build it with
// DefaultConfig or Overrides.Resolve; every field is populated.
type Config struct {
	SkillWeight float64
	BonusWeight float64

	BaseSkillCeiling   int
	MinSkillCount      int
	MaxSkillCount      int
	CeilingSensitivity float64

	ZeroSkillPenaltyMin float64
	ZeroSkillPenaltyMax float64

	Bonuses           BonusValues
	SeniorityKeywords []string
	DomainKeywords    []string

	DefaultTemperature float64
	DefaultRegion      model.Region
}

// DefaultConfig returns the built-in scoring configuration.
func DefaultConfig() Config {
	return Config{
		SkillWeight:         0.65,
		BonusWeight:         0.35,
		BaseSkillCeiling:    8,
		MinSkillCount:       4,
		MaxSkillCount:       12,
		CeilingSensitivity:  1.0,
		ZeroSkillPenaltyMin: 0.15,
		ZeroSkillPenaltyMax: 0.30,
		Bonuses: BonusValues{
			Remote:          10,
			RegionFriendly:  10,
			Seniority:       8,
			DomainRelevance: 7,
		},
		SeniorityKeywords: []string{"senior", "sr.", "staff", "lead", "principal"},
		DomainKeywords: []string{
			"backend", "back-end", "full-stack", "fullstack", "full stack", "frontend",
			"front-end", "platform", "infrastructure", "developer tools", "devtools",
			"distributed systems", "machine learning", "ai", "saas", "open source",
		},
		DefaultTemperature: 0.4,
		DefaultRegion:      model.RegionEU,
	}
}

// Overrides is the optional `scoring:` block of the profile file. Nil
// fields keep their defaults.
type Overrides struct {
	SkillWeight         *float64 `yaml:"skillWeight"`
	BonusWeight         *float64 `yaml:"bonusWeight"`
	BaseSkillCeiling    *int     `yaml:"baseSkillCeiling"`
	MinSkillCount       *int     `yaml:"minSkillCount"`
	MaxSkillCount       *int     `yaml:"maxSkillCount"`
	CeilingSensitivity  *float64 `yaml:"ceilingSensitivity"`
	RemoteBonus         *float64 `yaml:"remoteBonus"`
	RegionFriendlyBonus *float64 `yaml:"regionFriendlyBonus"`
	SeniorityBonus      *float64 `yaml:"seniorityBonus"`
	DomainBonus         *float64 `yaml:"domainBonus"`
	SeniorityKeywords   []string `yaml:"seniorityKeywords"`
	DomainKeywords      []string `yaml:"domainKeywords"`
	DefaultTemperature  *float64 `yaml:"defaultTemperature"`
	DefaultRegion       string   `yaml:"defaultRegion"`
}

// Resolve applies the overrides on top of DefaultConfig and validates the result.
func (o Overrides) Resolve() (Config, error) {
	cfg := DefaultConfig()

	setFloat(&cfg.SkillWeight, o.SkillWeight)
	setFloat(&cfg.BonusWeight, o.BonusWeight)
	setInt(&cfg.BaseSkillCeiling, o.BaseSkillCeiling)
	setInt(&cfg.MinSkillCount, o.MinSkillCount)
	setInt(&cfg.MaxSkillCount, o.MaxSkillCount)
	setFloat(&cfg.CeilingSensitivity, o.CeilingSensitivity)
	setFloat(&cfg.Bonuses.Remote, o.RemoteBonus)
	setFloat(&cfg.Bonuses.RegionFriendly, o.RegionFriendlyBonus)
	setFloat(&cfg.Bonuses.Seniority, o.SeniorityBonus)
	setFloat(&cfg.Bonuses.DomainRelevance, o.DomainBonus)
	setFloat(&cfg.DefaultTemperature, o.DefaultTemperature)
	if len(o.SeniorityKeywords) > 0 {
		cfg.SeniorityKeywords = o.SeniorityKeywords
	}
	if len(o.DomainKeywords) > 0 {
		cfg.DomainKeywords = o.DomainKeywords
	}
	if o.DefaultRegion != "" {
		r, ok := model.ParseRegion(o.DefaultRegion)
		if !ok {
			return Config{}, fmt.Errorf("unknown default region %q", o.DefaultRegion)
		}
		cfg.DefaultRegion = r
	}

	return cfg, cfg.Validate()
}

// Validate checks the internal consistency of a resolved config.
func (c Config) Validate() error {
	if c.SkillWeight < 0 || c.BonusWeight < 0 || c.SkillWeight+c.BonusWeight <= 0 {
		return fmt.Errorf("skill/bonus weights must be non-negative and not both zero")
	}
	if c.MinSkillCount < 1 || c.MaxSkillCount < c.MinSkillCount {
		return fmt.Errorf("skill count bounds [%d, %d] are invalid", c.MinSkillCount, c.MaxSkillCount)
	}
	if c.BaseSkillCeiling < c.MinSkillCount || c.BaseSkillCeiling > c.MaxSkillCount {
		return fmt.Errorf("base skill ceiling %d outside [%d, %d]", c.BaseSkillCeiling, c.MinSkillCount, c.MaxSkillCount)
	}
	if c.DefaultTemperature < 0 || c.DefaultTemperature > 1 {
		return fmt.Errorf("default temperature %.2f outside [0, 1]", c.DefaultTemperature)
	}
	if c.Bonuses.Sum() <= 0 {
		return fmt.Errorf("bonus values must sum to a positive number")
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
