package codex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-cosmic-codex/internal/codex"
)

func TestClassify(t *testing.T) {
	tables := codex.DefaultTables()

	tests := []struct {
		name       string
		events     []string
		pattern    codex.Pattern
		likelihood float64
		tier       codex.Significance
	}{
		{"No indicator", []string{"Moon in Cancer"}, codex.PatternNone, 0.2, codex.SignificanceMinor},
		{"Breakthrough", []string{"Jupiter Conjunction Pluto"}, codex.PatternBreakthrough, 0.8, codex.SignificanceMajor},
		{"Reversed bodies", []string{"Pluto Conjunction Jupiter"}, codex.PatternBreakthrough, 0.8, codex.SignificanceMajor},
		{"Serendipity", []string{"Venus Trine Jupiter"}, codex.PatternSerendipity, 0.7, codex.SignificanceModerate},
		{"Transformation on allowlist", []string{"Saturn Conjunction Pluto"}, codex.PatternTransformation, 0.6, codex.SignificanceMajor},
		{"Transformation off allowlist", []string{"Pluto Square Sun"}, codex.PatternTransformation, 0.6, codex.SignificanceModerate},
		{"Awakening", []string{"Uranus Conjunction Moon"}, codex.PatternAwakening, 0.7, codex.SignificanceModerate},
		{"Breakthrough precedes Awakening", []string{"Uranus Conjunction Sun"}, codex.PatternBreakthrough, 0.8, codex.SignificanceMajor},
		{"Eclipse without pattern", []string{"Total Solar Eclipse"}, codex.PatternNone, 0.2, codex.SignificanceMajor},
		{"Any event can match", []string{"Moon in Cancer", "Venus Conjunction Jupiter"}, codex.PatternSerendipity, 0.7, codex.SignificanceModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := tables.Classify(tt.events)
			assert.Equal(t, tt.pattern, cls.Pattern)
			assert.Equal(t, tt.likelihood, cls.Likelihood)
			assert.NotNil(t, cls.Interpretation)
			assert.Equal(t, tt.tier, tables.Significance(tt.events, cls.Pattern, cls.Likelihood))
		})
	}
}

func TestSignificance_Thresholds(t *testing.T) {
	tables := codex.DefaultTables()
	events := []string{"Moon in Cancer"}

	assert.Equal(t, codex.SignificanceMajor, tables.Significance(events, codex.PatternNone, 0.71))
	assert.Equal(t, codex.SignificanceModerate, tables.Significance(events, codex.PatternNone, 0.7))
	assert.Equal(t, codex.SignificanceModerate, tables.Significance(events, codex.PatternNone, 0.41))
	assert.Equal(t, codex.SignificanceMinor, tables.Significance(events, codex.PatternNone, 0.4))
}

func TestClassify_ClampsLikelihood(t *testing.T) {
	tables := codex.DefaultTables()
	tables.PatternRules[0].Likelihood = 1.5
	tables.BaselineLikelihood = -1

	assert.Equal(t, 1.0, tables.Classify([]string{"Jupiter Conjunction Pluto"}).Likelihood)
	assert.Equal(t, 0.0, tables.Classify(nil).Likelihood)
}

func TestParseArchetype(t *testing.T) {
	a, ok := codex.ParseArchetype(" Sol Sage ")
	assert.True(t, ok)
	assert.Equal(t, codex.ArchetypeSage, a)

	_, ok = codex.ParseArchetype("wizard")
	assert.False(t, ok)

	a, ok = codex.ArchetypeForSunSign("Scorpio")
	assert.True(t, ok)
	assert.Equal(t, codex.ArchetypeAlchemist, a)
}

func TestLifePhaseForAge(t *testing.T) {
	phases := codex.DefaultLifePhases()

	for age, want := range map[int]string{
		-1: codex.PhaseExplorer,
		0:  codex.PhaseExplorer,
		13: codex.PhaseExplorer,
		14: codex.PhaseEmergence,
		28: codex.PhaseBuilder,
		41: codex.PhaseBuilder,
		42: codex.PhaseMastery,
		90: codex.PhaseWisdom,
	} {
		assert.Equal(t, want, phases.LifePhaseForAge(age).Name, "age %d", age)
	}
}
