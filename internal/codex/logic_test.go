package codex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(ctx context.Context, instant time.Time, loc Location) (Snapshot, error)

func (f providerFunc) PositionsAndAspects(ctx context.Context, instant time.Time, loc Location) (Snapshot, error) {
	return f(ctx, instant, loc)
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestAgeAt covers the floor(days / 365.25) rule, including anniversaries
// that fall a fraction of a day short of a full year.
func TestAgeAt(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		date  time.Time
		want  int
	}{
		{"Same day", utcDate(1990, 5, 24), utcDate(1990, 5, 24), 0},
		{"Known event", utcDate(1990, 5, 24), utcDate(2020, 1, 12), 29},
		{"Anniversary with leap days", utcDate(1990, 5, 24), utcDate(2024, 5, 24), 34},
		{"Leap span", utcDate(2000, 1, 1), utcDate(2001, 1, 1), 1},
		{"Short first year", utcDate(2001, 1, 1), utcDate(2002, 1, 1), 0},
		{"Four full years", utcDate(2001, 1, 1), utcDate(2005, 1, 1), 4},
		{"Date before birth", utcDate(2001, 1, 1), utcDate(2000, 1, 1), 0},
		{"Beyond duration range", utcDate(1700, 1, 1), utcDate(2020, 1, 1), 319},
		{"Half a millennium", utcDate(1500, 6, 1), utcDate(2000, 6, 1), 499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ageAt(tt.birth, tt.date))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.InDelta(t, 1.0, daysBetween(utcDate(2024, 2, 28), utcDate(2024, 2, 29)), 1e-9)
	assert.InDelta(t, -366.0, daysBetween(utcDate(2025, 1, 1), utcDate(2024, 1, 1)), 1e-9)
	assert.InDelta(t, 116877.0, daysBetween(utcDate(1700, 1, 1), utcDate(2020, 1, 1)), 1e-9)
}

func TestCivilDay(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	local := time.Date(1990, 5, 24, 0, 30, 0, 0, paris) // 23:30 UTC the day before

	assert.Equal(t, utcDate(1990, 5, 24), civilDay(local), "the calendar day is read in the value's own zone")
	assert.Equal(t, utcDate(2024, 1, 1), civilDay(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)))
}

func TestAnniversary_Leapling(t *testing.T) {
	birth := utcDate(2000, 2, 29)

	assert.Equal(t, utcDate(2024, 2, 29), anniversary(birth, 2024))
	assert.Equal(t, utcDate(2025, 3, 1), anniversary(birth, 2025), "Feb 29 rolls over to March 1st")
}

func TestSignificantDates(t *testing.T) {
	known := KnownEventTable{
		"2003-07-14": {"Total Solar Eclipse"},
		"1999-01-01": {"Before birth"},
		"2030-01-01": {"After now"},
		"not-a-date": {"Ignored"},
	}
	birth := utcDate(2000, 2, 29)
	now := time.Date(2010, 3, 5, 18, 0, 0, 0, time.UTC)

	dates := SignificantDates(birth, now, known)

	want := []time.Time{
		utcDate(2000, 2, 29),
		utcDate(2001, 3, 1),
		utcDate(2002, 3, 1),
		utcDate(2003, 3, 1),
		utcDate(2003, 7, 14),
		utcDate(2004, 2, 29),
		utcDate(2005, 3, 1),
		utcDate(2006, 3, 1),
		utcDate(2007, 3, 1), // solar return and first seven-year transition
		utcDate(2008, 2, 29),
		utcDate(2009, 3, 1),
		utcDate(2010, 3, 1),
	}
	assert.Equal(t, want, dates)
}

func TestSignificantDates_CappedAtNow(t *testing.T) {
	birth := utcDate(1990, 12, 31)
	now := utcDate(2000, 6, 1)

	dates := SignificantDates(birth, now, nil)

	require.NotEmpty(t, dates)
	assert.Equal(t, birth, dates[0])
	assert.Equal(t, utcDate(1999, 12, 31), dates[len(dates)-1])
	assert.Contains(t, dates, utcDate(1997, 12, 31), "seven-year transition")
}

func TestSignificantDates_NowBeforeBirth(t *testing.T) {
	assert.Empty(t, SignificantDates(utcDate(2020, 1, 1), utcDate(2019, 1, 1), nil))
}

func TestKnownEventTable_LookupReturnsCopy(t *testing.T) {
	table := DefaultKnownEvents()
	events := table.Lookup(utcDate(2020, 1, 12))
	require.Equal(t, []string{"Saturn Conjunction Pluto"}, events)

	events[0] = "mutated"
	assert.Equal(t, []string{"Saturn Conjunction Pluto"}, table.Lookup(utcDate(2020, 1, 12)))
	assert.Nil(t, table.Lookup(utcDate(2020, 1, 13)))
}

func TestHouseOf(t *testing.T) {
	assert.Equal(t, 1, houseOf(15, 0))
	assert.Equal(t, 2, houseOf(45, 0))
	assert.Equal(t, 1, houseOf(5, 350))
	assert.Equal(t, 12, houseOf(340, 350))
	assert.Equal(t, 10, houseOf(0, 90))
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 21: "21st"} {
		assert.Equal(t, want, ordinal(n))
	}
}

func TestSerializeSnapshot(t *testing.T) {
	e := NewEngine(nil, WithNatalAscendant(0))
	snap := Snapshot{
		Aspects: []Aspect{
			{BodyA: "jupiter", BodyB: "PLUTO", Type: "Conjunction"},
			{BodyA: "Sun", BodyB: "Moon", Type: "quincunx"},
			{BodyA: "Sun", BodyB: "Chiron", Type: "trine"},
		},
		Bodies: []BodyPosition{
			{Name: "moon", Sign: "cancer", Longitude: 100},
			{Name: "Sun", Sign: "Gemini", Longitude: 75},
			{Name: "Ceres", Sign: "Leo", Longitude: 130},
		},
	}

	assert.Equal(t, []string{
		"Jupiter Conjunction Pluto",
		"Sun in Gemini",
		"Moon in Cancer",
		"Sun transiting 3rd House",
	}, e.serializeSnapshot(snap))
}

func TestSerializeSnapshot_NoAscendant(t *testing.T) {
	e := NewEngine(nil)
	events := e.serializeSnapshot(Snapshot{Bodies: []BodyPosition{{Name: "Sun", Sign: "Aries", Longitude: 10}}})

	assert.Equal(t, []string{"Sun in Aries"}, events)
}

func TestExtractEvents_FallsBackToKnownEvents(t *testing.T) {
	failing := providerFunc(func(context.Context, time.Time, Location) (Snapshot, error) {
		return Snapshot{}, errors.New("ephemeris offline")
	})
	e := NewEngine(failing)

	ex := e.extractEvents(context.Background(), utcDate(2020, 1, 12))
	assert.Equal(t, []string{"Saturn Conjunction Pluto"}, ex.events)
	assert.True(t, ex.fromTable)
	assert.Error(t, ex.providerErr)

	ex = e.extractEvents(context.Background(), utcDate(2020, 1, 13))
	assert.Empty(t, ex.events)
	assert.Error(t, ex.providerErr)
}

func TestExtractEvents_QueriesAtNoonUTC(t *testing.T) {
	var got time.Time
	e := NewEngine(providerFunc(func(_ context.Context, instant time.Time, loc Location) (Snapshot, error) {
		got = instant
		assert.Equal(t, ReferenceLocation, loc)
		return Snapshot{Bodies: []BodyPosition{{Name: "Moon", Sign: "Cancer"}}}, nil
	}))

	ex := e.extractEvents(context.Background(), utcDate(2020, 1, 12))

	assert.Equal(t, time.Date(2020, 1, 12, 12, 0, 0, 0, time.UTC), got)
	assert.Equal(t, []string{"Moon in Cancer"}, ex.events)
	assert.False(t, ex.fromTable)
	assert.NoError(t, ex.providerErr)
}

func TestContextualize_CuratedPhase(t *testing.T) {
	e := NewEngine(nil)
	tables := DefaultTables()
	events := []string{"Moon in Cancer", "Saturn Conjunction Pluto"}

	n := e.contextualize(events, PhaseBuilder, ArchetypeSage, tables.Classify(events))

	assert.Equal(t, "Saturn Conjunction Pluto", n.moment, "curated events take precedence as the moment")
	assert.Contains(t, n.context, "stripped back to their essentials")
	assert.Contains(t, n.context, "Old structures dissolve", "the pattern interpretation is appended")
	assert.Equal(t, "What survived this reckoning is load-bearing; build your next Builder years on it, Sage.", n.trajectory)
}

func TestContextualize_FallbackPhase(t *testing.T) {
	e := NewEngine(nil)
	events := []string{"Saturn Conjunction Pluto"}

	n := e.contextualize(events, PhaseWisdom, ArchetypeSage, Classification{})

	assert.Equal(t,
		"Structures you depended on were stripped back to their essentials, and you rebuilt with intention.",
		n.context, "missing phase falls back to the Builder entry")
}

func TestContextualize_ArchetypeReadings(t *testing.T) {
	e := NewEngine(nil)

	n := e.contextualize([]string{"Mars Square Venus"}, PhaseExplorer, ArchetypeSage, Classification{})
	assert.Equal(t, "A belief is tested; keep what survives the question.", n.context, "aspect keyword first")

	n = e.contextualize([]string{"Neptune in Pisces"}, PhaseExplorer, ArchetypeAlchemist, Classification{})
	assert.Equal(t, "Dreams carry instructions now; listen closely.", n.context, "then planet")
}

func TestContextualize_GenericTemplate(t *testing.T) {
	e := NewEngine(nil)

	n := e.contextualize([]string{"Moon in Cancer"}, PhaseEmergence, ArchetypeInnovator, Classification{})

	assert.Equal(t,
		"As a Innovator in your Emergence phase, Moon in Cancer invites you to notice what is quietly shifting.",
		n.context)
	assert.Equal(t,
		"Carry this moment forward through your Emergence phase and let the Innovator in you decide what to build from it.",
		n.trajectory)
}

func TestContextualize_NoEvents(t *testing.T) {
	e := NewEngine(nil)

	n := e.contextualize(nil, PhaseBuilder, ArchetypeSage, Classification{})

	assert.Equal(t, QuietMoment, n.moment)
	assert.NotEmpty(t, n.context)
}

func TestMessages_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range DefaultTables().Messages() {
		assert.Falsef(t, seen[m.ID], "duplicate message id %s", m.ID)
		assert.NotEmptyf(t, m.Other, "message %s has no English text", m.ID)
		seen[m.ID] = true
	}
	assert.True(t, seen["future.event"])
	assert.True(t, seen["archetype.sage.square"])
}
