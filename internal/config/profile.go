package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/jobboard-api/internal/scoring"
	"github.com/yourusername/jobboard-api/internal/skills"
)

//go:embed profile.yaml
var defaultProfile []byte

// Profile is the skills file: weighted skill categories plus optional
// scoring overrides.
type Profile struct {
	DefaultWeight int               `yaml:"defaultWeight"`
	Categories    []skills.Category `yaml:"categories"`
	Scoring       scoring.Overrides `yaml:"scoring"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() (*Profile, error) {
	return ParseProfile(defaultProfile)
}

// LoadProfile reads a profile from path, or the embedded one when path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skills file: %w", err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes a YAML profile. Unknown keys are rejected.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse skills profile: %w", err)
	}
	if len(p.Categories) == 0 {
		return nil, fmt.Errorf("skills profile has no categories")
	}
	return &p, nil
}

// Build resolves the profile into a registry and a scoring engine.
// cfg supplies env-level defaults that the profile does not set.
func (p *Profile) Build(cfg *Config) (*skills.Registry, *scoring.Engine, error) {
	reg, err := skills.NewRegistry(p.Categories, p.DefaultWeight)
	if err != nil {
		return nil, nil, err
	}

	overrides := p.Scoring
	if cfg != nil {
		if overrides.DefaultRegion == "" && cfg.DefaultRegion != "" {
			overrides.DefaultRegion = string(cfg.DefaultRegion)
		}
		if overrides.DefaultTemperature == nil && cfg.DefaultTemperature >= 0 {
			t := cfg.DefaultTemperature
			overrides.DefaultTemperature = &t
		}
	}

	sc, err := overrides.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("scoring config: %w", err)
	}
	return reg, scoring.NewEngine(reg, sc), nil
}
