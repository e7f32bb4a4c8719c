package codex

import (
	"sort"
	"time"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// SignificantDates enumerates the candidate dates of a lifespan: every solar
// return from the birth year through now, every known-event date inside
// [birth, now] and every seven-year transition. The result is deduplicated
// and ascending. Both bounds are compared as civil dates.
func SignificantDates(birthDate, nowDate time.Time, known KnownEventTable) []time.Time {
	birth := civilDay(birthDate)
	now := civilDay(nowDate)
	if now.Before(birth) {
		return nil
	}

	seen := make(map[int64]struct{})
	var dates []time.Time
	add := func(d time.Time) {
		if d.Before(birth) || d.After(now) {
			return
		}
		if _, ok := seen[d.Unix()]; ok {
			return
		}
		seen[d.Unix()] = struct{}{}
		dates = append(dates, d)
	}

	// Solar returns.
	for y := birth.Year(); y <= now.Year(); y++ {
		add(anniversary(birth, y))
	}

	for _, d := range known.DatesBetween(birth, now) {
		add(d)
	}

	// Seven-year transitions.
	for k := 1; ; k++ {
		d := birth.AddDate(config.TransitionYears*k, 0, 0)
		if d.After(now) {
			break
		}
		add(d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
