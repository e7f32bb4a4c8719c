// Package calendar renders a cosmic codex timeline as an iCalendar feed.
package calendar

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-cosmic-codex/internal/codex"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

// Encode builds the iCalendar document of tl. Every timeline event and
// every future potential becomes an all-day VEVENT; future potentials carry
// a reminder the day before. now is used for DTSTAMP only.
func Encode(tl *codex.Timeline, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	if tl != nil {
		for _, ev := range tl.AllEvents {
			e := newEvent(tl.BirthDate, ev, categories(ev))
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
		for _, ev := range tl.FuturePotentials {
			e := newEvent(tl.BirthDate, ev, config.ICalFutureTag)
			e.Props.Set(dtStampProp)
			addAlarm(e, config.ICalTrigger, ev.CosmicMoment)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// Calendar clients reject a VCALENDAR without components, hence the stub.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarEncoded,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

func newEvent(birth time.Time, ev codex.TimelineEvent, tags string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, eventUID(birth, ev.Date))
	event.Props.SetText(config.PropSummary, ev.CosmicMoment)
	event.Props.SetText(config.PropDescription, description(ev))

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(ev.Date)
	event.Props.Set(dtStartProp)

	// Set categories manually: SetText would escape the separating commas.
	catProp := ical.NewProp(config.PropCategories)
	catProp.Value = tags
	event.Props.Set(catProp)

	if ev.WorldEvent != nil && ev.WorldEvent.URL != "" {
		urlProp := ical.NewProp(config.PropURL)
		urlProp.Value = ev.WorldEvent.URL
		event.Props.Set(urlProp)
	}
	return event
}

// eventUID is stable across refreshes: it only depends on the two dates.
func eventUID(birth, date time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput,
		birth.Format(config.DateFormatFullDash), date.Format(config.DateFormatFullDash), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

func description(ev codex.TimelineEvent) string {
	parts := []string{ev.PersonalContext, ev.Trajectory}
	if ev.WorldEvent != nil && ev.WorldEvent.Text != "" {
		parts = append(parts, ev.WorldEvent.Text)
	}
	return strings.Join(parts, config.ICalDescJoiner)
}

func categories(ev codex.TimelineEvent) string {
	tags := make([]string, 0, 2)
	if ev.Pattern != codex.PatternNone {
		tags = append(tags, string(ev.Pattern))
	}
	tags = append(tags, strings.ToUpper(string(ev.Significance)))
	return strings.Join(tags, ",")
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
