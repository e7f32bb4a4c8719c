package codex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cosmic-codex/internal/codex"
)

func eventsWith(patterns ...codex.Pattern) []codex.TimelineEvent {
	events := make([]codex.TimelineEvent, 0, len(patterns))
	for i, p := range patterns {
		events = append(events, codex.TimelineEvent{
			Date:         time.Date(2000+i, 1, 1, 0, 0, 0, 0, time.UTC),
			Pattern:      p,
			Significance: codex.SignificanceMinor,
		})
	}
	return events
}

func TestSummarizeLifePatterns_Empty(t *testing.T) {
	s := codex.SummarizeLifePatterns(nil)

	assert.Equal(t, codex.PatternGrowth, s.DominantPattern)
	assert.NotNil(t, s.SecondaryPatterns)
	assert.Empty(t, s.SecondaryPatterns)
	assert.Equal(t, 7, s.CycleLength)
	assert.Nil(t, s.NextMajorEvent)
}

func TestSummarizeLifePatterns_DominantTieBreaksOnFirstOccurrence(t *testing.T) {
	s := codex.SummarizeLifePatterns(eventsWith(
		codex.PatternSerendipity,
		codex.PatternAwakening,
		codex.PatternAwakening,
		codex.PatternSerendipity,
		codex.PatternNone,
		codex.PatternBreakthrough,
	))

	assert.Equal(t, codex.PatternSerendipity, s.DominantPattern)
	assert.Equal(t, []codex.Pattern{codex.PatternAwakening, codex.PatternBreakthrough}, s.SecondaryPatterns)
}

func TestSummarizeLifePatterns_SecondaryTieBreaksOnMostRecent(t *testing.T) {
	s := codex.SummarizeLifePatterns(eventsWith(
		codex.PatternTransformation,
		codex.PatternTransformation,
		codex.PatternAwakening,
		codex.PatternSerendipity,
		codex.PatternBreakthrough,
	))

	assert.Equal(t, codex.PatternTransformation, s.DominantPattern)
	assert.Equal(t, []codex.Pattern{codex.PatternBreakthrough, codex.PatternSerendipity}, s.SecondaryPatterns)
}

func TestSummarizeLifePatterns_Cycle(t *testing.T) {
	events := []codex.TimelineEvent{
		{Date: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
		{Date: time.Date(2003, 6, 1, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMinor},
		{Date: time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
		{Date: time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
	}

	s := codex.SummarizeLifePatterns(events)

	assert.Equal(t, 7, s.CycleLength)
	require.NotNil(t, s.NextMajorEvent)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), *s.NextMajorEvent)
}

func TestSummarizeLifePatterns_CycleNeverBelowOneYear(t *testing.T) {
	events := []codex.TimelineEvent{
		{Date: time.Date(2020, 4, 5, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
		{Date: time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
		{Date: time.Date(2020, 11, 12, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
	}

	s := codex.SummarizeLifePatterns(events)

	assert.Equal(t, 1, s.CycleLength)
	require.NotNil(t, s.NextMajorEvent)
	assert.Equal(t, time.Date(2021, 11, 12, 0, 0, 0, 0, time.UTC), *s.NextMajorEvent)
}

func TestSummarizeLifePatterns_SingleMajor(t *testing.T) {
	events := []codex.TimelineEvent{
		{Date: time.Date(2017, 8, 21, 0, 0, 0, 0, time.UTC), Significance: codex.SignificanceMajor},
	}

	s := codex.SummarizeLifePatterns(events)

	assert.Equal(t, 7, s.CycleLength)
	require.NotNil(t, s.NextMajorEvent)
	assert.Equal(t, time.Date(2024, 8, 21, 0, 0, 0, 0, time.UTC), *s.NextMajorEvent)
}
