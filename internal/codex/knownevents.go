package codex

import (
	"sort"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// KnownEventTable maps a civil date (YYYY-MM-DD) to curated cosmic events.
// It backs the extractor when the ephemeris yields nothing for a date.
type KnownEventTable map[string][]string

// DefaultKnownEvents returns the curated table shipped with the engine.
func DefaultKnownEvents() KnownEventTable {
	return KnownEventTable{
		"1989-11-13": {"Saturn Conjunction Neptune"},
		"1991-07-11": {"Total Solar Eclipse"},
		"1993-02-02": {"Uranus Conjunction Neptune"},
		"1999-08-11": {"Total Solar Eclipse"},
		"2000-05-28": {"Jupiter Conjunction Saturn"},
		"2000-07-16": {"Total Lunar Eclipse"},
		"2008-01-26": {"Pluto in Capricorn"},
		"2010-06-08": {"Jupiter Conjunction Uranus"},
		"2011-01-04": {"Jupiter Conjunction Uranus"},
		"2017-08-21": {"Total Solar Eclipse"},
		"2018-07-27": {"Total Lunar Eclipse", "Mars Conjunction Moon"},
		"2019-07-02": {"Total Solar Eclipse"},
		"2020-01-12": {"Saturn Conjunction Pluto"},
		"2020-04-05": {"Jupiter Conjunction Pluto"},
		"2020-06-30": {"Jupiter Conjunction Pluto"},
		"2020-11-12": {"Jupiter Conjunction Pluto"},
		"2020-12-21": {"Jupiter Conjunction Saturn"},
		"2022-11-08": {"Total Lunar Eclipse"},
		"2023-03-23": {"Pluto in Aquarius"},
		"2024-04-08": {"Total Solar Eclipse"},
		"2025-03-14": {"Total Lunar Eclipse"},
	}
}

// Lookup returns a copy of the events recorded for date's calendar day.
func (k KnownEventTable) Lookup(date time.Time) []string {
	events := k[date.Format(config.DateFormatFullDash)]
	if len(events) == 0 {
		return nil
	}
	return append([]string(nil), events...)
}

// DatesBetween returns the table dates within [from, to], ascending.
// Malformed keys are ignored.
func (k KnownEventTable) DatesBetween(from, to time.Time) []time.Time {
	var dates []time.Time
	for key := range k {
		d, err := time.Parse(config.DateFormatFullDash, key)
		if err != nil {
			continue
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
