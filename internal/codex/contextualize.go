package codex

import (
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// Template data keys shared by every narrative message.
const (
	tplArchetype = "Archetype"
	tplPhase     = "Phase"
	tplEvent     = "Event"
	tplAge       = "Age"
	tplYear      = "Year"
)

// narration is the contextualizer output for one date.
type narration struct {
	moment     string
	context    string
	trajectory string
}

// contextualize picks the cosmic moment of a date and writes its personal
// context and trajectory. Lookup order for the context: curated entry for
// the life phase, curated entry for the fallback phase, archetype reading
// keyed by aspect or planet, generic template.
func (e *Engine) contextualize(events []string, phase string, archetype Archetype, cls Classification) narration {
	curated, moment := e.tables.primaryEvent(events)
	data := map[string]any{
		tplArchetype: string(archetype),
		tplPhase:     phase,
		tplEvent:     moment,
	}

	var context string
	trajectory := e.tables.GenericTrajectory
	if curated != nil {
		m, ok := curated.Phases[phase]
		if !ok {
			m = curated.Phases[e.tables.FallbackPhase]
		}
		if m != nil {
			context = e.render(m, data)
		}
		if curated.Trajectory != nil {
			trajectory = curated.Trajectory
		}
	}
	if context == "" {
		if m := e.tables.archetypeReading(archetype, moment); m != nil {
			context = e.render(m, data)
		}
	}
	if context == "" {
		context = e.render(e.tables.GenericContext, data)
	}
	if cls.Interpretation != nil {
		context = context + " " + e.render(cls.Interpretation, data)
	}

	return narration{
		moment:     moment,
		context:    context,
		trajectory: e.render(trajectory, data),
	}
}

// primaryEvent returns the first event with a curated entry, else the first
// raw event, else QuietMoment.
func (t Tables) primaryEvent(events []string) (*CuratedEvent, string) {
	for _, ev := range events {
		for i := range t.Curated {
			if t.Curated[i].Matcher.Matches(ev) {
				return &t.Curated[i], ev
			}
		}
	}
	if len(events) > 0 {
		return nil, events[0]
	}
	return nil, QuietMoment
}

// archetypeReading finds a reading for the first aspect keyword in event,
// then for the first planet named in it.
func (t Tables) archetypeReading(a Archetype, event string) *i18n.Message {
	readings := t.ArchetypeReadings[a]
	if len(readings) == 0 {
		return nil
	}
	fields := strings.Fields(strings.ToLower(event))
	for _, f := range fields {
		if !isMajorAspect(f) {
			continue
		}
		if m, ok := readings[f]; ok {
			return m
		}
	}
	for _, f := range fields {
		name, ok := canonicalBody(f)
		if !ok {
			continue
		}
		if m, ok := readings[name]; ok {
			return m
		}
	}
	return nil
}

// render localizes m. A missing translation falls back to the English
// default message.
func (e *Engine) render(m *i18n.Message, data map[string]any) string {
	if m == nil {
		return ""
	}
	out, err := e.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: m,
		TemplateData:   data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, m.ID,
			config.LogKeyError, err,
		)
	}
	if out == "" {
		return m.Other
	}
	return out
}
