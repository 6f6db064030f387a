// Package scoring rates how well a posting matches the skill profile.
//
// A score blends two parts: skill coverage (sum of matched skill weights
// over the sum of the top-N heaviest skills) and contextual bonuses (remote,
// region, seniority, domain). Temperature in [0, 1] tunes how forgiving the
// blend is: low temperatures amplify weight differences, damp bonuses and
// curve the result down. High temperatures flatten weights, lower the skill
// ceiling and amplify bonuses. Skill credit never shrinks as temperature
// rises, so a posting's score is non-decreasing in temperature.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
	"github.com/yourusername/jobboard-api/internal/skills"
	"github.com/yourusername/jobboard-api/internal/textutil"
)

// Engine scores free text against a skill registry.
type Engine struct {
	cfg       Config
	registry  *skills.Registry
	seniority *regexp.Regexp
	domain    *regexp.Regexp
}

// NewEngine builds an engine from a resolved config.
func NewEngine(registry *skills.Registry, cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		registry:  registry,
		seniority: textutil.WordPattern(cfg.SeniorityKeywords...),
		domain:    textutil.WordPattern(cfg.DomainKeywords...),
	}
}

// Config returns the engine's resolved configuration.
func (e *Engine) Config() Config { return e.cfg }

// Registry returns the skill registry the engine scores against.
func (e *Engine) Registry() *skills.Registry { return e.registry }

// ── Temperature ──────────────────────────────────────

// Factors are the temperature-derived knobs of one scoring call.
type Factors struct {
	WeightExponent     float64
	BonusMultiplier    float64
	ScoreCurveExponent float64
	SkillCeiling       int
}

// Factors computes the piecewise-linear temperature factors.
//
//	≤0.2 strict       exponent 2.0→1.0  bonus 0.5→1.0   curve 1.5→1.0
//	0.2–0.5 balanced  all 1.0
//	0.5–0.8 explore   exponent 1.0→0.5  bonus 1.0→1.25  curve 1.0→0.85
//	>0.8 loose        exponent 0.5→0.2  bonus 1.25→2.0  curve 0.85→0.6
func (e *Engine) Factors(temperature float64) Factors {
	t := clamp01(temperature)
	f := Factors{WeightExponent: 1, BonusMultiplier: 1, ScoreCurveExponent: 1}

	switch {
	case t <= 0.2:
		p := t / 0.2
		f.WeightExponent = lerp(2.0, 1.0, p)
		f.BonusMultiplier = lerp(0.5, 1.0, p)
		f.ScoreCurveExponent = lerp(1.5, 1.0, p)
	case t <= 0.5:
		// balanced
	case t <= 0.8:
		p := (t - 0.5) / 0.3
		f.WeightExponent = lerp(1.0, 0.5, p)
		f.BonusMultiplier = lerp(1.0, 1.25, p)
		f.ScoreCurveExponent = lerp(1.0, 0.85, p)
	default:
		p := (t - 0.8) / 0.2
		f.WeightExponent = lerp(0.5, 0.2, p)
		f.BonusMultiplier = lerp(1.25, 2.0, p)
		f.ScoreCurveExponent = lerp(0.85, 0.6, p)
	}

	f.SkillCeiling = e.skillCeiling(t)
	return f
}

// skillCeiling shifts the number of skills counted in the denominator.
// Warmer temperatures lower the ceiling so fewer matches reach 100%.
func (e *Engine) skillCeiling(t float64) int {
	span := float64(e.cfg.MaxSkillCount - e.cfg.MinSkillCount)
	shift := (t - 0.4) * e.cfg.CeilingSensitivity * span
	n := int(math.Round(float64(e.cfg.BaseSkillCeiling) - shift))
	if n < e.cfg.MinSkillCount {
		n = e.cfg.MinSkillCount
	}
	if n > e.cfg.MaxSkillCount {
		n = e.cfg.MaxSkillCount
	}
	return n
}

// ── Scoring ──────────────────────────────────────────

// ScoreDefault scores text at the configured default temperature and region.
func (e *Engine) ScoreDefault(text string) model.WeightedMatchResult {
	return e.Score(text, e.cfg.DefaultTemperature, e.cfg.DefaultRegion)
}

// Score rates text at the given temperature for a candidate in region.
// Out-of-range or NaN temperatures fall back to the default; an empty
// region falls back to the default region.
func (e *Engine) Score(text string, temperature float64, region model.Region) model.WeightedMatchResult {
	if math.IsNaN(temperature) || temperature < 0 || temperature > 1 {
		temperature = e.cfg.DefaultTemperature
	}
	if region == "" {
		region = e.cfg.DefaultRegion
	}

	result := model.WeightedMatchResult{
		Temperature:   temperature,
		Region:        region,
		MatchedSkills: []model.SkillMatch{},
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	f := e.Factors(temperature)

	// Skill points
	var skillPoints float64
	for _, s := range e.registry.Skills() {
		if !s.Matches(text) {
			continue
		}
		pts := math.Pow(float64(s.Weight), f.WeightExponent)
		skillPoints += pts
		result.MatchedSkills = append(result.MatchedSkills, model.SkillMatch{
			Name:         s.Name,
			Weight:       s.Weight,
			PointsEarned: round2(pts),
		})
	}

	var maxSkillPoints float64
	for _, w := range e.registry.TopWeights(f.SkillCeiling) {
		maxSkillPoints += math.Pow(float64(w), f.WeightExponent)
	}

	// Bonus points
	result.Bonuses = e.detectBonuses(text, region)
	b := e.cfg.Bonuses
	var bonusBase float64
	if result.Bonuses.Remote {
		bonusBase += b.Remote
	}
	if result.Bonuses.RegionFriendly {
		bonusBase += b.RegionFriendly
	}
	if result.Bonuses.SeniorityMatch {
		bonusBase += b.Seniority
	}
	if result.Bonuses.DomainRelevance {
		bonusBase += b.DomainRelevance
	}
	bonusPoints := bonusBase * f.BonusMultiplier
	maxBonusPoints := b.Sum() * f.BonusMultiplier

	// Normalize
	var skillPct, bonusPct float64
	if maxSkillPoints > 0 {
		skillPct = math.Min(1, skillPoints/maxSkillPoints)
	}
	if maxBonusPoints > 0 {
		bonusPct = bonusPoints / maxBonusPoints
	}

	// The multiplier scales only the bonus contribution. Renormalising the
	// split would take skill credit away as temperature rises.
	blended := (e.cfg.SkillWeight*skillPct + e.cfg.BonusWeight*f.BonusMultiplier*bonusPct) /
		(e.cfg.SkillWeight + e.cfg.BonusWeight)

	if len(result.MatchedSkills) == 0 {
		blended = math.Min(blended, e.zeroSkillCap(temperature))
	}

	curved := math.Pow(clamp01(blended), f.ScoreCurveExponent)
	score := int(math.Round(curved * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result.Score = score
	result.SkillPoints = round2(skillPoints)
	result.BonusPoints = round2(bonusPoints)
	result.RawPoints = round2(skillPoints + bonusPoints)
	result.MaxPossiblePoints = round2(maxSkillPoints + maxBonusPoints)
	return result
}

// zeroSkillCap bounds postings that matched no skill at all; the cap grows
// linearly with temperature between the configured min and max.
func (e *Engine) zeroSkillCap(t float64) float64 {
	return lerp(e.cfg.ZeroSkillPenaltyMin, e.cfg.ZeroSkillPenaltyMax, clamp01(t))
}

func (e *Engine) detectBonuses(text string, region model.Region) model.Bonuses {
	var b model.Bonuses
	b.Remote = location.MentionsRemote(text)
	if b.Remote {
		b.RegionFriendly = location.AccessibleFrom(location.Classify(text), region)
	}
	b.SeniorityMatch = e.seniority != nil && e.seniority.MatchString(text)
	b.DomainRelevance = e.domain != nil && e.domain.MatchString(text)
	return b
}

// Rescore returns a copy of job scored at a different temperature or region.
// The original job is left untouched.
func (e *Engine) Rescore(job model.ParsedJob, temperature float64, region model.Region) model.ParsedJob {
	res := e.Score(job.RawText, temperature, region)
	out := job
	out.MatchScore = res.Score
	out.MatchedSkills = res.SkillNames()
	out.MatchDetails = &res
	return out
}

func lerp(a, b, p float64) float64 { return a + (b-a)*p }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
