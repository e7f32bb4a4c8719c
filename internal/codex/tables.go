package codex

import (
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// EventMatcher recognizes a configuration inside a raw event string.
type EventMatcher interface {
	Matches(event string) bool
}

// Indicator matches an aspect between two bodies, in either order,
// e.g. Indicator{"Jupiter", "conjunction", "Pluto"} matches "Pluto Conjunction Jupiter".
type Indicator struct {
	BodyA  string
	Aspect string
	BodyB  string
}

// Matches implements EventMatcher.
func (i Indicator) Matches(event string) bool {
	ev := strings.ToLower(event)
	a, b, asp := strings.ToLower(i.BodyA), strings.ToLower(i.BodyB), strings.ToLower(i.Aspect)
	return strings.Contains(ev, a+" "+asp+" "+b) || strings.Contains(ev, b+" "+asp+" "+a)
}

// Phrase matches a literal, case-insensitive fragment such as "Total Solar Eclipse".
type Phrase string

// Matches implements EventMatcher.
func (p Phrase) Matches(event string) bool {
	return strings.Contains(strings.ToLower(event), strings.ToLower(string(p)))
}

// PatternRule tags events matching any of its indicators.
type PatternRule struct {
	Pattern        Pattern
	Likelihood     float64
	Indicators     []EventMatcher
	Interpretation *i18n.Message
}

// CuratedEvent is a historically notable configuration with phase-specific prose.
type CuratedEvent struct {
	Key        string
	Matcher    EventMatcher
	Phases     map[string]*i18n.Message
	Trajectory *i18n.Message
}

// Tables is the static configuration of the engine. It is built once,
// handed to NewEngine and never mutated afterwards.
type Tables struct {
	// PatternRules are evaluated in order; the first matching rule wins.
	PatternRules           []PatternRule
	BaselineLikelihood     float64
	BaselineInterpretation *i18n.Message

	MajorAllowlist []EventMatcher

	Curated           []CuratedEvent
	FallbackPhase     string
	ArchetypeReadings map[Archetype]map[string]*i18n.Message
	GenericContext    *i18n.Message
	GenericTrajectory *i18n.Message

	FutureEvent      *i18n.Message
	FutureContext    *i18n.Message
	FutureTrajectory *i18n.Message
	FutureLikelihood float64

	KnownEvents KnownEventTable
}

// QuietMoment is the cosmic moment of a date without events.
const QuietMoment = "Cosmic Quiet"

func msg(id, other string) *i18n.Message {
	return &i18n.Message{ID: id, Other: other}
}

func ind(a, aspect, b string) Indicator {
	return Indicator{BodyA: a, Aspect: aspect, BodyB: b}
}

// DefaultTables returns a fresh copy of the curated tables.
func DefaultTables() Tables {
	return Tables{
		PatternRules: []PatternRule{
			{
				Pattern:    PatternBreakthrough,
				Likelihood: 0.8,
				Indicators: []EventMatcher{
					ind("Jupiter", AspectConjunction, "Pluto"),
					ind("Jupiter", AspectConjunction, "Uranus"),
					ind("Uranus", AspectConjunction, "Sun"),
					ind("Jupiter", AspectTrine, "Sun"),
					ind("Uranus", AspectTrine, "Mercury"),
				},
				Interpretation: msg("pattern.breakthrough",
					"Expansion meets deep power: a window for sudden insight and bold leaps."),
			},
			{
				Pattern:    PatternSerendipity,
				Likelihood: 0.7,
				Indicators: []EventMatcher{
					ind("Venus", AspectConjunction, "Jupiter"),
					ind("Moon", AspectConjunction, "Venus"),
					ind("Jupiter", AspectSextile, "Sun"),
					ind("Venus", AspectTrine, "Jupiter"),
				},
				Interpretation: msg("pattern.serendipity",
					"Grace and good timing align: meaningful coincidences are close at hand."),
			},
			{
				Pattern:    PatternTransformation,
				Likelihood: 0.6,
				Indicators: []EventMatcher{
					ind("Pluto", AspectConjunction, "Sun"),
					ind("Saturn", AspectConjunction, "Pluto"),
					ind("Pluto", AspectSquare, "Sun"),
					ind("Pluto", AspectOpposition, "Sun"),
				},
				Interpretation: msg("pattern.transformation",
					"Old structures dissolve so that something truer can take their place."),
			},
			{
				Pattern:    PatternAwakening,
				Likelihood: 0.7,
				Indicators: []EventMatcher{
					ind("Uranus", AspectConjunction, "Sun"),
					ind("Uranus", AspectConjunction, "Moon"),
					ind("Jupiter", AspectConjunction, "Sun"),
					ind("Sun", AspectConjunction, "Uranus"),
				},
				Interpretation: msg("pattern.awakening",
					"A sudden clarity arrives: the familiar is seen with new eyes."),
			},
		},
		BaselineLikelihood: 0.2,
		BaselineInterpretation: msg("pattern.quiet",
			"A quiet cosmic moment: the sky hums in the background while life unfolds at its own pace."),

		MajorAllowlist: []EventMatcher{
			ind("Jupiter", AspectConjunction, "Pluto"),
			ind("Saturn", AspectConjunction, "Pluto"),
			ind("Jupiter", AspectConjunction, "Saturn"),
			Phrase("Total Solar Eclipse"),
			Phrase("Total Lunar Eclipse"),
		},

		Curated:           defaultCurated(),
		FallbackPhase:     PhaseBuilder,
		ArchetypeReadings: defaultArchetypeReadings(),
		GenericContext: msg("generic.context",
			"As a {{.Archetype}} in your {{.Phase}} phase, {{.Event}} invites you to notice what is quietly shifting."),
		GenericTrajectory: msg("generic.trajectory",
			"Carry this moment forward through your {{.Phase}} phase and let the {{.Archetype}} in you decide what to build from it."),

		FutureEvent: msg("future.event", "Solar Return Year {{.Year}}"),
		FutureContext: msg("future.context",
			"Your solar return at {{.Age}} opens a new {{.Phase}} chapter for the {{.Archetype}}: a year still unwritten."),
		FutureTrajectory: msg("future.trajectory",
			"Set an intention for this {{.Phase}} year; the {{.Archetype}} path rewards those who arrive prepared."),
		FutureLikelihood: 0.5,

		KnownEvents: DefaultKnownEvents(),
	}
}

func defaultCurated() []CuratedEvent {
	return []CuratedEvent{
		{
			Key:     "jupiter_conjunction_pluto",
			Matcher: ind("Jupiter", AspectConjunction, "Pluto"),
			Phases: map[string]*i18n.Message{
				PhaseExplorer: msg("curated.jupiter_conjunction_pluto.explorer",
					"The world around you swelled with change; even as a child you sensed how much bigger life could become."),
				PhaseEmergence: msg("curated.jupiter_conjunction_pluto.emergence",
					"Ambition woke up in you: you glimpsed the power of your own choices for the first time."),
				PhaseBuilder: msg("curated.jupiter_conjunction_pluto.builder",
					"A rare alignment of growth and power asked you to rebuild your foundations on a larger scale."),
				PhaseMastery: msg("curated.jupiter_conjunction_pluto.mastery",
					"Your influence widened; what you had mastered now shaped the people and projects around you."),
				PhaseWisdom: msg("curated.jupiter_conjunction_pluto.wisdom",
					"You watched collective upheaval with the calm of someone who has seen cycles turn before."),
			},
			Trajectory: msg("curated.jupiter_conjunction_pluto.trajectory",
				"The power unlocked in your {{.Phase}} phase keeps compounding; the {{.Archetype}} is meant to use it generously."),
		},
		{
			Key:     "saturn_conjunction_pluto",
			Matcher: ind("Saturn", AspectConjunction, "Pluto"),
			Phases: map[string]*i18n.Message{
				PhaseExplorer: msg("curated.saturn_conjunction_pluto.explorer",
					"The adults around you were tested; you learned early that rules can change overnight."),
				PhaseEmergence: msg("curated.saturn_conjunction_pluto.emergence",
					"Pressure arrived before freedom did, and it forged the spine you still rely on."),
				PhaseBuilder: msg("curated.saturn_conjunction_pluto.builder",
					"Structures you depended on were stripped back to their essentials, and you rebuilt with intention."),
				PhaseMastery: msg("curated.saturn_conjunction_pluto.mastery",
					"Responsibility deepened into stewardship; others leaned on the steadiness you had earned."),
			},
			Trajectory: msg("curated.saturn_conjunction_pluto.trajectory",
				"What survived this reckoning is load-bearing; build your next {{.Phase}} years on it, {{.Archetype}}."),
		},
		{
			Key:     "jupiter_conjunction_saturn",
			Matcher: ind("Jupiter", AspectConjunction, "Saturn"),
			Phases: map[string]*i18n.Message{
				PhaseExplorer: msg("curated.jupiter_conjunction_saturn.explorer",
					"A new twenty-year chapter began for the world, and a seed of your own story was planted with it."),
				PhaseEmergence: msg("curated.jupiter_conjunction_saturn.emergence",
					"Vision met discipline: the first plan you truly committed to took shape."),
				PhaseBuilder: msg("curated.jupiter_conjunction_saturn.builder",
					"The great conjunction reset the social clock; your work found a new direction and a new pace."),
				PhaseWisdom: msg("curated.jupiter_conjunction_saturn.wisdom",
					"You recognised the turning of an era and chose what of the old one to hand down."),
			},
			Trajectory: msg("curated.jupiter_conjunction_saturn.trajectory",
				"The twenty-year cycle begun here will ripen through your {{.Phase}} phase; the {{.Archetype}} plays the long game."),
		},
		{
			Key:     "total_solar_eclipse",
			Matcher: Phrase("Total Solar Eclipse"),
			Phases: map[string]*i18n.Message{
				PhaseBuilder: msg("curated.total_solar_eclipse.builder",
					"The light went out for a moment and came back changed; a door closed so another could open."),
				PhaseEmergence: msg("curated.total_solar_eclipse.emergence",
					"In the brief darkness a new identity was seeded, one you are still growing into."),
			},
		},
	}
}

func defaultArchetypeReadings() map[Archetype]map[string]*i18n.Message {
	reading := func(a Archetype, key, text string) *i18n.Message {
		return msg("archetype."+strings.ToLower(string(a))+"."+strings.ToLower(key), text)
	}
	return map[Archetype]map[string]*i18n.Message{
		ArchetypeInnovator: {
			AspectConjunction: reading(ArchetypeInnovator, AspectConjunction, "Two forces fuse and your inventive mind sees the prototype before anyone else."),
			AspectOpposition:  reading(ArchetypeInnovator, AspectOpposition, "Tension between old and new sharpens your sense of what must be disrupted."),
			AspectTrine:       reading(ArchetypeInnovator, AspectTrine, "Ideas flow without friction; ship what you have been tinkering with."),
			AspectSquare:      reading(ArchetypeInnovator, AspectSquare, "Friction is fuel: the obstacle in front of you is the design brief."),
			AspectSextile:     reading(ArchetypeInnovator, AspectSextile, "A small opening appears; the innovator who notices it first wins."),
			"Uranus":          reading(ArchetypeInnovator, "Uranus", "Your ruling spark is lit: expect the unexpected and lean into it."),
			"Mars":            reading(ArchetypeInnovator, "Mars", "Drive is high; start the thing rather than planning it further."),
		},
		ArchetypeNurturer: {
			AspectConjunction: reading(ArchetypeNurturer, AspectConjunction, "Hearts move closer; the bonds you tend now will hold for years."),
			AspectOpposition:  reading(ArchetypeNurturer, AspectOpposition, "Others' needs pull against your own; care for both sides of the scale."),
			AspectTrine:       reading(ArchetypeNurturer, AspectTrine, "Comfort comes easily; share it, and the circle widens."),
			AspectSquare:      reading(ArchetypeNurturer, AspectSquare, "A boundary is being tested; kindness includes saying no."),
			AspectSextile:     reading(ArchetypeNurturer, AspectSextile, "A gentle invitation arrives through someone you once helped."),
			"Moon":            reading(ArchetypeNurturer, "Moon", "Emotional tides run high; your instinct for home is your compass."),
			"Venus":           reading(ArchetypeNurturer, "Venus", "Beauty and affection gather around the spaces you care for."),
		},
		ArchetypeCatalyst: {
			AspectConjunction: reading(ArchetypeCatalyst, AspectConjunction, "You are the meeting point: introductions made now spark chain reactions."),
			AspectOpposition:  reading(ArchetypeCatalyst, AspectOpposition, "Two camps face each other and you hold the language both understand."),
			AspectTrine:       reading(ArchetypeCatalyst, AspectTrine, "Conversations land; say the thing you have been rehearsing."),
			AspectSquare:      reading(ArchetypeCatalyst, AspectSquare, "Debate heats up; steer it rather than win it."),
			AspectSextile:     reading(ArchetypeCatalyst, AspectSextile, "A light touch is enough to set something moving."),
			"Mercury":         reading(ArchetypeCatalyst, "Mercury", "Messages multiply; your words carry further than usual."),
			"Venus":           reading(ArchetypeCatalyst, "Venus", "Harmony is the goal and you are the one who can broker it."),
		},
		ArchetypeSovereign: {
			AspectConjunction: reading(ArchetypeSovereign, AspectConjunction, "Power concentrates around you; wear it with generosity."),
			AspectOpposition:  reading(ArchetypeSovereign, AspectOpposition, "Authority is challenged and your response defines your reign."),
			AspectTrine:       reading(ArchetypeSovereign, AspectTrine, "Recognition comes naturally; accept it without shrinking."),
			AspectSquare:      reading(ArchetypeSovereign, AspectSquare, "The crown is heavy today; lead by carrying the weight others cannot."),
			AspectSextile:     reading(ArchetypeSovereign, AspectSextile, "An ally offers support; a wise ruler says yes."),
			"Sun":             reading(ArchetypeSovereign, "Sun", "Your light is centre stage; shine for something larger than yourself."),
			"Saturn":          reading(ArchetypeSovereign, "Saturn", "Structure and legacy are in focus; build what will outlast you."),
		},
		ArchetypeSage: {
			AspectConjunction: reading(ArchetypeSage, AspectConjunction, "Knowledge converges; a long study suddenly makes sense."),
			AspectOpposition:  reading(ArchetypeSage, AspectOpposition, "Opposing truths coexist; the sage holds both without hurry."),
			AspectTrine:       reading(ArchetypeSage, AspectTrine, "Understanding flows; teach what you have learned."),
			AspectSquare:      reading(ArchetypeSage, AspectSquare, "A belief is tested; keep what survives the question."),
			AspectSextile:     reading(ArchetypeSage, AspectSextile, "A book, a mentor or a journey appears at the right moment."),
			"Jupiter":         reading(ArchetypeSage, "Jupiter", "Your horizon expands; say yes to the wider view."),
			"Mercury":         reading(ArchetypeSage, "Mercury", "The mind is sharp; write down what you see now."),
		},
		ArchetypeAlchemist: {
			AspectConjunction: reading(ArchetypeAlchemist, AspectConjunction, "Elements fuse in the crucible; something base is turning to gold."),
			AspectOpposition:  reading(ArchetypeAlchemist, AspectOpposition, "Shadow and light face each other; integrate rather than choose."),
			AspectTrine:       reading(ArchetypeAlchemist, AspectTrine, "The transmutation proceeds quietly; trust the process."),
			AspectSquare:      reading(ArchetypeAlchemist, AspectSquare, "Heat is applied; what you are becoming needs this pressure."),
			AspectSextile:     reading(ArchetypeAlchemist, AspectSextile, "A catalyst enters the mixture; welcome it."),
			"Pluto":           reading(ArchetypeAlchemist, "Pluto", "Depth calls; you are at home in the underworld of change."),
			"Neptune":         reading(ArchetypeAlchemist, "Neptune", "Dreams carry instructions now; listen closely."),
		},
	}
}

// Messages lists every narrative message of the tables, in a stable order.
// Translation files are checked against it.
func (t Tables) Messages() []*i18n.Message {
	var out []*i18n.Message
	add := func(m *i18n.Message) {
		if m != nil {
			out = append(out, m)
		}
	}
	for _, r := range t.PatternRules {
		add(r.Interpretation)
	}
	add(t.BaselineInterpretation)
	for _, c := range t.Curated {
		for _, phase := range []string{PhaseExplorer, PhaseEmergence, PhaseBuilder, PhaseMastery, PhaseWisdom} {
			add(c.Phases[phase])
		}
		add(c.Trajectory)
	}
	for _, a := range Archetypes {
		readings := t.ArchetypeReadings[a]
		keys := make([]string, 0, len(readings))
		for k := range readings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			add(readings[k])
		}
	}
	add(t.GenericContext)
	add(t.GenericTrajectory)
	add(t.FutureEvent)
	add(t.FutureContext)
	add(t.FutureTrajectory)
	return out
}
