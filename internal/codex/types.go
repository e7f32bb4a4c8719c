package codex

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

const daysPerYear = config.DaysPerYear

// ErrEphemerisUnavailable is returned when the ephemeris provider failed for
// every candidate date. It is the only fatal condition of timeline assembly.
var ErrEphemerisUnavailable = errors.New(config.ErrEphemerisUnavailable)

// Pattern is the qualitative character of a cosmic moment.
type Pattern string

const (
	PatternNone           Pattern = ""
	PatternBreakthrough   Pattern = "BREAKTHROUGH"
	PatternSerendipity    Pattern = "SERENDIPITY"
	PatternTransformation Pattern = "TRANSFORMATION"
	PatternAwakening      Pattern = "AWAKENING"

	// PatternGrowth is only ever reported as the dominant pattern of a life
	// in which no event carried a pattern.
	PatternGrowth Pattern = "GROWTH"
)

// MarshalJSON encodes PatternNone as null.
func (p Pattern) MarshalJSON() ([]byte, error) {
	if p == PatternNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts null as PatternNone.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PatternNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = Pattern(s)
	return nil
}

// Significance tiers a timeline event.
type Significance string

const (
	SignificanceMajor    Significance = "major"
	SignificanceModerate Significance = "moderate"
	SignificanceMinor    Significance = "minor"
)

// WorldEvent is a real-world historical event paired with a date.
type WorldEvent struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// TimelineEvent is one astrologically significant moment. It is a value:
// the engine never mutates an event after returning it.
type TimelineEvent struct {
	Date                time.Time    `json:"date"`
	Age                 int          `json:"age"`
	LifePhase           string       `json:"lifePhase"`
	CosmicEvents        []string     `json:"cosmicEvents"`
	CosmicMoment        string       `json:"cosmicMoment"`
	PersonalContext     string       `json:"personalContext"`
	WorldEvent          *WorldEvent  `json:"worldEvent,omitempty"`
	Pattern             Pattern      `json:"pattern"`
	PhenomenaLikelihood float64      `json:"phenomenaLikelihood"`
	Significance        Significance `json:"significance"`
	Trajectory          string       `json:"trajectory"`
}

// LifePatternSummary aggregates a whole timeline.
type LifePatternSummary struct {
	DominantPattern   Pattern    `json:"dominantPattern"`
	SecondaryPatterns []Pattern  `json:"secondaryPatterns"`
	CycleLength       int        `json:"cycleLength"`
	NextMajorEvent    *time.Time `json:"nextMajorEvent,omitempty"`
}

// Timeline is the cosmic codex of one person: every significant moment from
// birth to now, the notable subsets, the aggregate life patterns and the
// speculative future potentials.
type Timeline struct {
	BirthDate            time.Time          `json:"birthDate"`
	Archetype            Archetype          `json:"archetype"`
	TotalEvents          int                `json:"totalEvents"`
	AllEvents            []TimelineEvent    `json:"allEvents"`
	MajorTransformations []TimelineEvent    `json:"majorTransformations"`
	BreakthroughMoments  []TimelineEvent    `json:"breakthroughMoments"`
	SerendipityWindows   []TimelineEvent    `json:"serendipityWindows"`
	FuturePotentials     []TimelineEvent    `json:"futurePotentials"`
	LifePatterns         LifePatternSummary `json:"lifePatterns"`
}

// GenerateOptions tunes a single Generate call.
type GenerateOptions struct {
	// IncludeWorldEvents enables the world event correlator for this call.
	IncludeWorldEvents bool
}

// DefaultGenerateOptions mirrors the defaults of GenerateCosmicCodexTimeline.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{IncludeWorldEvents: true}
}
