package codex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"golang.org/x/text/language"
)

// WorldEventCorrelator pairs a date with a real-world event. It reports
// false when nothing usable was found; failures never surface as errors.
type WorldEventCorrelator interface {
	Correlate(ctx context.Context, date time.Time) (WorldEvent, bool)
}

// Engine assembles cosmic codex timelines. It holds no mutable state and
// may serve concurrent Generate calls.
type Engine struct {
	clock          Clock
	provider       Provider
	correlator     WorldEventCorrelator
	phases         LifePhaseLookup
	tables         Tables
	localizer      *i18n.Localizer
	natalAscendant *float64
	maxParallel    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the source of "now".
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithCorrelator enables world event correlation.
func WithCorrelator(c WorldEventCorrelator) Option { return func(e *Engine) { e.correlator = c } }

// WithLifePhases replaces the default life phase bands.
func WithLifePhases(l LifePhaseLookup) Option { return func(e *Engine) { e.phases = l } }

// WithTables replaces the curated tables.
func WithTables(t Tables) Option { return func(e *Engine) { e.tables = t } }

// WithLocalizer renders narratives through l instead of the English defaults.
func WithLocalizer(l *i18n.Localizer) Option { return func(e *Engine) { e.localizer = l } }

// WithNatalAscendant enables "Sun transiting Nth House" events.
func WithNatalAscendant(longitude float64) Option {
	return func(e *Engine) { e.natalAscendant = &longitude }
}

// WithMaxParallel bounds concurrent world event lookups.
func WithMaxParallel(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxParallel = n
		}
	}
}

// NewEngine creates an engine backed by the given ephemeris provider.
func NewEngine(provider Provider, opts ...Option) *Engine {
	e := &Engine{
		clock:       RealClock{},
		provider:    provider,
		phases:      DefaultLifePhases(),
		tables:      DefaultTables(),
		localizer:   i18n.NewLocalizer(i18n.NewBundle(language.English), config.DefaultLanguage),
		maxParallel: config.DefaultWorldParallel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateCosmicCodexTimeline builds the timeline with world events enabled.
func (e *Engine) GenerateCosmicCodexTimeline(ctx context.Context, birthDate time.Time, archetype string) (*Timeline, error) {
	return e.Generate(ctx, birthDate, archetype, DefaultGenerateOptions())
}

// Generate runs the whole pipeline: candidate dates, event extraction,
// classification, contextualization, world event correlation, aggregation
// and future projection. It fails only on invalid input, cancellation, or
// when the ephemeris failed for every candidate date (ErrEphemerisUnavailable).
func (e *Engine) Generate(ctx context.Context, birthDate time.Time, archetype string, opts GenerateOptions) (*Timeline, error) {
	start := time.Now()
	now := e.clock.Now()
	birth := civilDay(birthDate)

	// 1. Validate Input
	// Only the calendar day of the birth matters. A birth later than today
	// is rejected.
	if birthDate.IsZero() {
		return nil, errors.New(config.ErrBirthDateZero)
	}
	if birth.After(civilDay(now)) {
		return nil, fmt.Errorf("%s: %s", config.ErrBirthAfterNow, birth.Format(config.DateFormatFullDash))
	}

	arch := e.resolveArchetype(archetype)
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDOB, birth.Format(config.DateFormatFullDash),
		config.LogKeyArchetype, string(arch),
	)

	// 2. Collect Candidate Dates
	dates := SignificantDates(birth, now, e.tables.KnownEvents)
	log.InfoContext(ctx, config.MsgAssemblyStarted, config.LogKeyCandidate, len(dates))

	// 3. Process Dates
	// Per-date work is independent and CPU-bound; each goroutine owns its slot
	// in results, so no lock is needed and the output order stays stable.
	results := make([]dateResult, len(dates))
	var wg sync.WaitGroup
	for i, d := range dates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.processDate(ctx, birth, d, arch)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. Gather Results
	// A single failing date degrades to the known-event table; only a provider
	// that failed for every date is reported to the caller.
	failures := 0
	var events []*TimelineEvent
	for _, r := range results {
		if r.providerFailed {
			failures++
		}
		if r.event != nil {
			events = append(events, r.event)
		}
	}
	if len(dates) > 0 && failures == len(dates) {
		return nil, fmt.Errorf("%w (%d candidate dates)", ErrEphemerisUnavailable, len(dates))
	}

	// 5. Correlate World Events (optional, never fatal)
	worldFound := 0
	if opts.IncludeWorldEvents && e.correlator != nil {
		worldFound = e.correlateWorldEvents(ctx, events)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	// 6. Assemble Timeline
	all := make([]TimelineEvent, 0, len(events))
	for _, ev := range events {
		all = append(all, *ev)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	tl := &Timeline{
		BirthDate:   birth,
		Archetype:   arch,
		TotalEvents: len(all),
		AllEvents:   all,
		MajorTransformations: filterEvents(all, func(ev TimelineEvent) bool {
			return ev.Pattern == PatternTransformation && ev.Significance == SignificanceMajor
		}),
		BreakthroughMoments: filterEvents(all, func(ev TimelineEvent) bool {
			return ev.Pattern == PatternBreakthrough && ev.PhenomenaLikelihood > 0.6
		}),
		SerendipityWindows: filterEvents(all, func(ev TimelineEvent) bool {
			return ev.Pattern == PatternSerendipity && ev.PhenomenaLikelihood > 0.5
		}),
		LifePatterns:     SummarizeLifePatterns(all),
		FuturePotentials: e.projectFuture(birth, now, arch),
	}

	log.Info(config.MsgAssemblyFinished,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyCandidate, len(dates)),
			slog.Int(config.LogKeyEvents, tl.TotalEvents),
			slog.Int(config.LogKeyMajor, countMajor(all)),
			slog.Int(config.LogKeyWorld, worldFound),
		),
	)
	return tl, nil
}

// dateResult is the outcome of one candidate date. event is nil when the
// date contributed no cosmic events.
type dateResult struct {
	event          *TimelineEvent
	providerFailed bool
}

// processDate runs extraction, classification and narration for one date.
func (e *Engine) processDate(ctx context.Context, birth, date time.Time, arch Archetype) dateResult {
	// --- Extract: ephemeris first, known-event table as fallback ---
	ex := e.extractEvents(ctx, date)
	res := dateResult{providerFailed: ex.providerErr != nil}
	if len(ex.events) == 0 {
		slog.Debug(config.MsgDateSkipped,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyDate, date.Format(config.DateFormatFullDash))
		return res
	}

	// --- Interpret: phase from age, then pattern, then narrative ---
	age := ageAt(birth, date)
	phase := e.phases.LifePhaseForAge(age).Name
	cls := e.tables.Classify(ex.events)
	n := e.contextualize(ex.events, phase, arch, cls)

	res.event = &TimelineEvent{
		Date:                date,
		Age:                 age,
		LifePhase:           phase,
		CosmicEvents:        ex.events,
		CosmicMoment:        n.moment,
		PersonalContext:     n.context,
		Pattern:             cls.Pattern,
		PhenomenaLikelihood: cls.Likelihood,
		Significance:        e.tables.Significance(ex.events, cls.Pattern, cls.Likelihood),
		Trajectory:          n.trajectory,
	}
	return res
}

// correlateWorldEvents looks up world events for every event with at most
// maxParallel lookups in flight. Each goroutine writes only its own event.
func (e *Engine) correlateWorldEvents(ctx context.Context, events []*TimelineEvent) int {
	sem := make(chan struct{}, e.maxParallel)
	var wg sync.WaitGroup

	for _, ev := range events {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Acquire a slot, or give up if the caller went away while queued.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if we, ok := e.correlator.Correlate(ctx, ev.Date); ok {
				ev.WorldEvent = &we
			}
		}()
	}
	wg.Wait()

	found := 0
	for _, ev := range events {
		if ev.WorldEvent != nil {
			found++
		}
	}
	return found
}

func (e *Engine) resolveArchetype(name string) Archetype {
	if a, ok := ParseArchetype(name); ok {
		return a
	}
	slog.Warn(config.MsgArchetypeUnknown,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyArchetype, name,
		config.LogKeyValue, string(DefaultArchetype),
	)
	return DefaultArchetype
}

func filterEvents(events []TimelineEvent, keep func(TimelineEvent) bool) []TimelineEvent {
	out := make([]TimelineEvent, 0)
	for _, ev := range events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func countMajor(events []TimelineEvent) int {
	n := 0
	for _, ev := range events {
		if ev.Significance == SignificanceMajor {
			n++
		}
	}
	return n
}
