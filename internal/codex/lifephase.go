package codex

// Life phase names. The curated interpretation tables are keyed by these.
const (
	PhaseExplorer  = "Explorer"
	PhaseEmergence = "Emergence"
	PhaseBuilder   = "Builder"
	PhaseMastery   = "Mastery"
	PhaseWisdom    = "Wisdom"
)

// LifePhase is a named, age-banded stage of life.
type LifePhase struct {
	Name string `json:"name"`
}

// LifePhaseLookup maps an age to its life phase.
type LifePhaseLookup interface {
	LifePhaseForAge(age int) LifePhase
}

// PhaseBand is the inclusive lower age bound of a phase.
type PhaseBand struct {
	FromAge int
	Name    string
}

// StagedLifePhases is a LifePhaseLookup over ascending age bands.
type StagedLifePhases []PhaseBand

// DefaultLifePhases stages a life in fourteen-year bands, i.e. two seven-year cycles each.
func DefaultLifePhases() StagedLifePhases {
	return StagedLifePhases{
		{FromAge: 0, Name: PhaseExplorer},
		{FromAge: 14, Name: PhaseEmergence},
		{FromAge: 28, Name: PhaseBuilder},
		{FromAge: 42, Name: PhaseMastery},
		{FromAge: 56, Name: PhaseWisdom},
	}
}

// LifePhaseForAge returns the last band whose lower bound is <= age.
// Negative ages resolve to the first band.
func (s StagedLifePhases) LifePhaseForAge(age int) LifePhase {
	if len(s) == 0 {
		return LifePhase{Name: PhaseBuilder}
	}
	phase := s[0]
	for _, b := range s {
		if age >= b.FromAge {
			phase = b
		}
	}
	return LifePhase{Name: phase.Name}
}
