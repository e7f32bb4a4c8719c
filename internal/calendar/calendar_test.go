package calendar_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cosmic-codex/internal/calendar"
	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

var stamp = time.Date(2024, 5, 24, 10, 0, 0, 0, time.UTC)

func sampleTimeline() *codex.Timeline {
	return &codex.Timeline{
		BirthDate: time.Date(1990, 5, 24, 0, 0, 0, 0, time.UTC),
		Archetype: codex.ArchetypeSage,
		AllEvents: []codex.TimelineEvent{
			{
				Date:            time.Date(2020, 1, 12, 0, 0, 0, 0, time.UTC),
				CosmicMoment:    "Saturn Conjunction Pluto",
				PersonalContext: "Structures were stripped back.",
				Trajectory:      "Build on what survived.",
				Pattern:         codex.PatternTransformation,
				Significance:    codex.SignificanceMajor,
				WorldEvent:      &codex.WorldEvent{Text: "Something happened", URL: "https://example.org/event"},
			},
			{
				Date:            time.Date(2021, 5, 24, 0, 0, 0, 0, time.UTC),
				CosmicMoment:    "Moon in Cancer",
				PersonalContext: "A quiet moment.",
				Trajectory:      "Carry it forward.",
				Significance:    codex.SignificanceMinor,
			},
		},
		FuturePotentials: []codex.TimelineEvent{
			{
				Date:            time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC),
				CosmicMoment:    "Solar Return Year 2025",
				PersonalContext: "A year still unwritten.",
				Trajectory:      "Set an intention.",
				Significance:    codex.SignificanceModerate,
			},
		},
	}
}

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err, "output must be valid iCalendar")
	return cal
}

func TestEncode(t *testing.T) {
	data, err := calendar.Encode(sampleTimeline(), stamp)
	require.NoError(t, err)

	cal := decode(t, data)
	events := cal.Events()
	require.Len(t, events, 3)

	prodid, err := cal.Props.Text(config.PropProdid)
	require.NoError(t, err)
	assert.Equal(t, config.ICalProdid, prodid)

	summary, err := events[0].Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Saturn Conjunction Pluto", summary)

	desc, err := events[0].Props.Text(config.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, "Structures were stripped back.\n\nBuild on what survived.\n\nSomething happened", desc)

	start, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 12, 0, 0, 0, 0, time.UTC), start)

	assert.Equal(t, "TRANSFORMATION,MAJOR", events[0].Props.Get(config.PropCategories).Value)
	assert.Equal(t, "https://example.org/event", events[0].Props.Get(config.PropURL).Value)
	assert.Equal(t, "MINOR", events[1].Props.Get(config.PropCategories).Value)
	assert.Nil(t, events[1].Props.Get(config.PropURL))
	assert.Empty(t, events[0].Children, "observed events carry no alarm")
}

func TestEncode_FuturePotentialAlarm(t *testing.T) {
	data, err := calendar.Encode(sampleTimeline(), stamp)
	require.NoError(t, err)

	future := decode(t, data).Events()[2]
	assert.Equal(t, config.ICalFutureTag, future.Props.Get(config.PropCategories).Value)

	require.Len(t, future.Children, 1)
	alarm := future.Children[0]
	assert.Equal(t, config.ICalComponent, alarm.Name)
	assert.Equal(t, config.ICalTrigger, alarm.Props.Get(config.PropTrigger).Value)
	assert.NotContains(t, string(data), "VALUE=TEXT:-P1D")
}

func TestEncode_StableUIDs(t *testing.T) {
	first, err := calendar.Encode(sampleTimeline(), stamp)
	require.NoError(t, err)
	second, err := calendar.Encode(sampleTimeline(), stamp.Add(time.Hour))
	require.NoError(t, err)

	uids := func(data []byte) []string {
		var out []string
		for _, ev := range decode(t, data).Events() {
			uid, err := ev.Props.Text(config.PropUID)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(uid, "@"+config.ICalDomain))
			out = append(out, uid)
		}
		return out
	}

	a, b := uids(first), uids(second)
	assert.Equal(t, a, b, "UIDs do not depend on the stamp")
	assert.Len(t, map[string]bool{a[0]: true, a[1]: true, a[2]: true}, 3, "UIDs are unique per date")
}

func TestEncode_Empty(t *testing.T) {
	data, err := calendar.Encode(&codex.Timeline{}, stamp)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))

	data, err = calendar.Encode(nil, stamp)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}
