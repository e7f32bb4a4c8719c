// Package birthcard reads a person's birth date from a vCard.
package birthcard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-cosmic-codex/internal/config"
)

var (
	// ErrNoBirthday is returned when no card carries a usable BDAY.
	ErrNoBirthday = errors.New(config.ErrVCardNoBirthday)
	// ErrYearUnknown is returned when the only birthdays found omit the year
	// (e.g. "--05-24"); a timeline cannot be anchored without it.
	ErrYearUnknown = errors.New(config.ErrYearUnknown)
)

// Person is the subject of a timeline.
type Person struct {
	Name      string
	BirthDate time.Time
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) (Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return Person{}, fmt.Errorf("%s: %w", config.ErrOpenVCard, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read returns the first card of r whose BDAY carries a full date.
// Cards without a usable date are skipped. A syntax error before any card
// matched is reported as ErrVCardParse: the decoder cannot resynchronize
// past it.
func Read(r io.Reader) (Person, error) {
	decoder := vcard.NewDecoder(r)
	yearless := false

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Person{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompVCard,
				config.LogKeyValue, bday.Value)
			continue
		}
		if !yearKnown {
			yearless = true
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured)
		name := ""
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}

		slog.Debug(config.MsgBirthCardRead,
			config.LogKeyComponent, config.CompVCard,
			config.LogKeyName, name,
			config.LogKeyDOB, birthDate.Format(config.DateFormatFullDash))
		return Person{Name: name, BirthDate: birthDate}, nil
	}

	if yearless {
		return Person{}, ErrYearUnknown
	}
	return Person{}, ErrNoBirthday
}

// parseDate handles the vCard date forms. The boolean reports whether
// the year is present.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return civil(t), true, nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, errors.New(config.ErrDateParse)
}

// civil keeps the calendar date as written, dropping the time of day.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
