package codex

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// queryHour is the UTC hour at which a civil date is sampled.
	queryHour     = 12
	houseCount    = 12
	degreesPerArc = 30.0

	formatAspect    = "%s %s %s"
	formatPlacement = "%s in %s"
	formatHouse     = "Sun transiting %s House"
)

// extraction is the outcome of event extraction for one candidate date.
type extraction struct {
	events      []string
	fromTable   bool
	providerErr error
}

// extractEvents queries the ephemeris for date and serializes what it finds.
// An empty or failed query falls back to the known-event table.
func (e *Engine) extractEvents(ctx context.Context, date time.Time) extraction {
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDate, date.Format(config.DateFormatFullDash),
	)

	snap, err := e.provider.PositionsAndAspects(ctx, date.Add(queryHour*time.Hour), ReferenceLocation)
	var events []string
	if err != nil {
		log.Debug(config.MsgEphemerisFailed, config.LogKeyError, err)
	} else {
		events = e.serializeSnapshot(snap)
	}
	if len(events) > 0 {
		return extraction{events: events}
	}

	if known := e.tables.KnownEvents.Lookup(date); len(known) > 0 {
		log.Debug(config.MsgKnownEventUsed, config.LogKeyCount, len(known))
		return extraction{events: known, fromTable: true, providerErr: err}
	}

	if err == nil {
		log.Debug(config.MsgEphemerisMiss)
	}
	return extraction{providerErr: err}
}

// serializeSnapshot renders aspects first, then sign placements, then the
// Sun's natal house when a natal Ascendant is known.
func (e *Engine) serializeSnapshot(snap Snapshot) []string {
	title := cases.Title(language.English)
	var events []string

	for _, a := range snap.Aspects {
		bodyA, okA := canonicalBody(a.BodyA)
		bodyB, okB := canonicalBody(a.BodyB)
		aspect := strings.ToLower(a.Type)
		if !okA || !okB || !isMajorAspect(aspect) {
			continue
		}
		events = append(events, fmt.Sprintf(formatAspect, bodyA, title.String(aspect), bodyB))
	}

	positions := make(map[string]BodyPosition, len(snap.Bodies))
	for _, b := range snap.Bodies {
		if name, ok := canonicalBody(b.Name); ok {
			positions[name] = b
		}
	}
	for _, name := range TrackedBodies {
		if p, ok := positions[name]; ok && p.Sign != "" {
			events = append(events, fmt.Sprintf(formatPlacement, name, title.String(p.Sign)))
		}
	}

	if sun, ok := positions["Sun"]; ok && e.natalAscendant != nil {
		house := houseOf(sun.Longitude, *e.natalAscendant)
		events = append(events, fmt.Sprintf(formatHouse, ordinal(house)))
	}
	return events
}

// houseOf returns the equal house (1-12) a longitude falls in, counted from the Ascendant.
func houseOf(longitude, ascendant float64) int {
	offset := math.Mod(longitude-ascendant, 360)
	if offset < 0 {
		offset += 360
	}
	h := int(offset/degreesPerArc) + 1
	if h > houseCount {
		h = houseCount
	}
	return h
}

func canonicalBody(name string) (string, bool) {
	for _, b := range TrackedBodies {
		if strings.EqualFold(b, strings.TrimSpace(name)) {
			return b, true
		}
	}
	return "", false
}

func isMajorAspect(aspect string) bool {
	for _, a := range MajorAspects {
		if a == aspect {
			return true
		}
	}
	return false
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
