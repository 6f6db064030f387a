package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jobboard-api/internal/model"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.InDelta(t, 35, DefaultConfig().Bonuses.Sum(), 1e-9)
}

func TestOverridesResolve(t *testing.T) {
	ceiling := 10
	remote := 15.0
	cfg, err := Overrides{
		BaseSkillCeiling: &ceiling,
		RemoteBonus:      &remote,
		DefaultRegion:    "apac",
		DomainKeywords:   []string{"fintech"},
	}.Resolve()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BaseSkillCeiling)
	assert.InDelta(t, 15, cfg.Bonuses.Remote, 1e-9)
	assert.InDelta(t, 10, cfg.Bonuses.RegionFriendly, 1e-9)
	assert.Equal(t, model.RegionAPAC, cfg.DefaultRegion)
	assert.Equal(t, []string{"fintech"}, cfg.DomainKeywords)
	assert.Equal(t, DefaultConfig().SeniorityKeywords, cfg.SeniorityKeywords)
}

func TestOverridesResolveRejectsInvalid(t *testing.T) {
	neg := -1.0
	zero := 0.0
	big := 20
	hot := 1.2

	tests := []struct {
		name string
		o    Overrides
	}{
		{"negative weight", Overrides{SkillWeight: &neg}},
		{"both weights zero", Overrides{SkillWeight: &zero, BonusWeight: &zero}},
		{"ceiling above max", Overrides{BaseSkillCeiling: &big}},
		{"temperature above one", Overrides{DefaultTemperature: &hot}},
		{"unknown region", Overrides{DefaultRegion: "Atlantis"}},
		{"bonuses all zero", Overrides{RemoteBonus: &zero, RegionFriendlyBonus: &zero, SeniorityBonus: &zero, DomainBonus: &zero}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.o.Resolve()
			assert.Error(t, err)
		})
	}
}
