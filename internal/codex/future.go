package codex

import (
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// projectFuture emits one speculative solar-return event for each of the
// next calendar years after now. These never carry a pattern and are kept
// apart from the observed timeline.
func (e *Engine) projectFuture(birth, now time.Time, archetype Archetype) []TimelineEvent {
	nowDay := civilDay(now)
	futures := make([]TimelineEvent, 0, config.DefaultFutureYears)

	for y := nowDay.Year() + 1; y <= nowDay.Year()+config.DefaultFutureYears; y++ {
		date := anniversary(birth, y)
		age := ageAt(birth, date)
		phase := e.phases.LifePhaseForAge(age).Name
		data := map[string]any{
			tplArchetype: string(archetype),
			tplPhase:     phase,
			tplAge:       age,
			tplYear:      y,
		}

		futures = append(futures, TimelineEvent{
			Date:                date,
			Age:                 age,
			LifePhase:           phase,
			CosmicEvents:        []string{e.render(e.tables.FutureEvent, data)},
			CosmicMoment:        e.render(e.tables.FutureEvent, data),
			PersonalContext:     e.render(e.tables.FutureContext, data),
			Pattern:             PatternNone,
			PhenomenaLikelihood: clampUnit(e.tables.FutureLikelihood),
			Significance:        SignificanceModerate,
			Trajectory:          e.render(e.tables.FutureTrajectory, data),
		})
	}
	return futures
}
