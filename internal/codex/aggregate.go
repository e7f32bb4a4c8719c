package codex

import (
	"math"
	"sort"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

const secondaryPatternCount = 2

type patternTally struct {
	pattern Pattern
	count   int
	first   int
	last    int
}

// SummarizeLifePatterns reduces a chronologically sorted timeline into its
// dominant and secondary patterns, the average cycle between major events,
// and the predicted next major event.
func SummarizeLifePatterns(events []TimelineEvent) LifePatternSummary {
	summary := LifePatternSummary{
		DominantPattern:   PatternGrowth,
		SecondaryPatterns: []Pattern{},
		CycleLength:       config.DefaultCycleLengthYears,
	}

	tallies := tallyPatterns(events)
	if len(tallies) > 0 {
		sort.SliceStable(tallies, func(i, j int) bool {
			if tallies[i].count != tallies[j].count {
				return tallies[i].count > tallies[j].count
			}
			return tallies[i].first < tallies[j].first
		})
		summary.DominantPattern = tallies[0].pattern

		rest := tallies[1:]
		sort.SliceStable(rest, func(i, j int) bool {
			if rest[i].count != rest[j].count {
				return rest[i].count > rest[j].count
			}
			return rest[i].last > rest[j].last
		})
		for i := 0; i < len(rest) && i < secondaryPatternCount; i++ {
			summary.SecondaryPatterns = append(summary.SecondaryPatterns, rest[i].pattern)
		}
	}

	var majors []time.Time
	for _, ev := range events {
		if ev.Significance == SignificanceMajor {
			majors = append(majors, ev.Date)
		}
	}
	if len(majors) >= 2 {
		summary.CycleLength = cycleLength(majors)
	}
	if len(majors) > 0 {
		next := majors[len(majors)-1].AddDate(summary.CycleLength, 0, 0)
		summary.NextMajorEvent = &next
	}
	return summary
}

func tallyPatterns(events []TimelineEvent) []patternTally {
	index := make(map[Pattern]int)
	var tallies []patternTally
	for i, ev := range events {
		if ev.Pattern == PatternNone {
			continue
		}
		j, ok := index[ev.Pattern]
		if !ok {
			j = len(tallies)
			index[ev.Pattern] = j
			tallies = append(tallies, patternTally{pattern: ev.Pattern, first: i})
		}
		tallies[j].count++
		tallies[j].last = i
	}
	return tallies
}

// cycleLength is the mean gap in years between consecutive dates, rounded
// to the nearest year and never below one.
func cycleLength(dates []time.Time) int {
	var total float64
	for i := 1; i < len(dates); i++ {
		total += daysBetween(dates[i-1], dates[i]) / daysPerYear
	}
	years := int(math.Round(total / float64(len(dates)-1)))
	if years < 1 {
		return 1
	}
	return years
}
