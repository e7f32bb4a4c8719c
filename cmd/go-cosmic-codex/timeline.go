package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-cosmic-codex/internal/birthcard"
	"github.com/tartampluch/go-cosmic-codex/internal/calendar"
	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"github.com/tartampluch/go-cosmic-codex/internal/ephemeris"
	"github.com/tartampluch/go-cosmic-codex/internal/narrative"
	"github.com/tartampluch/go-cosmic-codex/internal/worldevents"
)

// timelineFlags are the inputs shared by timeline, ics and serve.
type timelineFlags struct {
	birth     string
	vcard     string
	archetype string
	noWorld   bool
	ascendant float64
}

func (f *timelineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.birth, config.FlagBirth, "", config.FlagDescBirth)
	fl.StringVar(&f.vcard, config.FlagVCard, "", config.FlagDescVCard)
	fl.StringVar(&f.archetype, config.FlagArchetype, "", config.FlagDescArchetype)
	fl.BoolVar(&f.noWorld, config.FlagNoWorldEvents, false, config.FlagDescNoWorld)
	fl.Float64Var(&f.ascendant, config.FlagAscendant, config.NoAscendantSentinel, config.FlagDescAscendant)
}

// birthDate resolves the birth date from --vcard, else --birth.
func (f *timelineFlags) birthDate() (time.Time, error) {
	if f.vcard != "" {
		p, err := birthcard.ReadFile(f.vcard)
		if err != nil {
			return time.Time{}, err
		}
		return p.BirthDate, nil
	}
	if f.birth == "" {
		return time.Time{}, errors.New(config.ErrBirthMissing)
	}
	t, err := time.Parse(config.DateFormatFullDash, f.birth)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrBirthParse, err)
	}
	return t, nil
}

func (f *timelineFlags) validate() error {
	if f.ascendant == config.NoAscendantSentinel {
		return nil
	}
	if f.ascendant < 0 || f.ascendant >= 360 {
		return errors.New(config.ErrAscendantRange)
	}
	return nil
}

// archetypeFor derives the Sol archetype from the Sun's sign at noon UTC
// on the birth date.
func archetypeFor(birth time.Time) string {
	sign := ephemeris.SignOf(ephemeris.Longitudes(birth.Add(12 * time.Hour))["Sun"])
	a, ok := codex.ArchetypeForSunSign(sign)
	if !ok {
		return string(codex.DefaultArchetype)
	}
	slog.Debug(config.MsgArchetypeDerived,
		config.LogKeyComponent, config.CompMain,
		config.LogKeySign, sign,
		config.LogKeyArchetype, string(a),
	)
	return string(a)
}

func (a *app) worldEvents(f *timelineFlags) bool {
	return a.settings.WorldEvents.Enabled && !f.noWorld
}

// newEngine wires the ephemeris, the narrative language and, when enabled,
// the world event feeds.
func (a *app) newEngine(f *timelineFlags) *codex.Engine {
	opts := []codex.Option{
		codex.WithLocalizer(narrative.Load().Localizer(a.settings.Language)),
		codex.WithMaxParallel(a.settings.WorldEvents.MaxParallel),
	}
	if f.ascendant != config.NoAscendantSentinel {
		opts = append(opts, codex.WithNatalAscendant(f.ascendant))
	}
	if a.worldEvents(f) {
		key := worldevents.NewsArchiveKey(a.settings.WorldEvents.NewsArchiveKey)
		opts = append(opts, codex.WithCorrelator(worldevents.NewDefaultCorrelator(a.settings.WorldEvents, key, nil)))
	}
	return codex.NewEngine(ephemeris.New(), opts...)
}

func (a *app) generate(ctx context.Context, f *timelineFlags) (*codex.Timeline, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	birth, err := f.birthDate()
	if err != nil {
		return nil, err
	}
	archetype := f.archetype
	if archetype == "" {
		archetype = archetypeFor(birth)
	}
	return a.newEngine(f).Generate(ctx, birth, archetype, codex.GenerateOptions{IncludeWorldEvents: a.worldEvents(f)})
}

func newTimelineCmd(a *app) *cobra.Command {
	f := &timelineFlags{}
	cmd := &cobra.Command{
		Use:   config.CmdTimeline,
		Short: config.CmdShortTimeline,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tl, err := a.generate(cmd.Context(), f)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(tl, "", config.JSONIndent)
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func newICSCmd(a *app) *cobra.Command {
	f := &timelineFlags{}
	cmd := &cobra.Command{
		Use:   config.CmdICS,
		Short: config.CmdShortICS,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tl, err := a.generate(cmd.Context(), f)
			if err != nil {
				return err
			}
			data, err := calendar.Encode(tl, time.Now())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	f.register(cmd)
	return cmd
}
