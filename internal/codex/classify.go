package codex

import "github.com/nicksnyder/go-i18n/v2/i18n"

// Classification is the pattern verdict for one date.
type Classification struct {
	Pattern        Pattern
	Likelihood     float64
	Interpretation *i18n.Message
}

// Classify tags events with the first pattern rule that matches any of them.
// Rules are tried in order and a date carries at most one pattern, so Uranus
// conjunct the Sun is a BREAKTHROUGH before it is an AWAKENING.
// Dates matching no rule get the baseline likelihood and no pattern.
func (t Tables) Classify(events []string) Classification {
	for _, rule := range t.PatternRules {
		if matchesAny(rule.Indicators, events) {
			return Classification{
				Pattern:        rule.Pattern,
				Likelihood:     clampUnit(rule.Likelihood),
				Interpretation: rule.Interpretation,
			}
		}
	}
	return Classification{
		Pattern:        PatternNone,
		Likelihood:     clampUnit(t.BaselineLikelihood),
		Interpretation: t.BaselineInterpretation,
	}
}

// Significance tiers an event. The default rules only look at the allowlist
// and the likelihood.
func (t Tables) Significance(events []string, _ Pattern, likelihood float64) Significance {
	switch {
	case matchesAny(t.MajorAllowlist, events) || likelihood > 0.7:
		return SignificanceMajor
	case likelihood > 0.4:
		return SignificanceModerate
	default:
		return SignificanceMinor
	}
}

func matchesAny(matchers []EventMatcher, events []string) bool {
	for _, ev := range events {
		for _, m := range matchers {
			if m.Matches(ev) {
				return true
			}
		}
	}
	return false
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
