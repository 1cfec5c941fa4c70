// Package timeutil handles the civil date/time strings used at the form
// boundary. All parsing happens in the service's home timezone; instants are
// timezone-aware everywhere past this package.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Keywords accepted by the status query in place of a date.
const (
	KeywordToday    = "today"
	KeywordTomorrow = "tomorrow"
	KeywordWeek     = "week"
)

// ParseCivil combines a YYYY-MM-DD date and an HH:MM clock string into an
// instant in loc.
func ParseCivil(loc *time.Location, date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// DayRange returns the inclusive bounds of the civil day containing t in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// QueryDate is the parsed form of a status-view date argument.
type QueryDate struct {
	Date   time.Time // zero when Weekly
	Label  string
	Weekly bool
}

// ParseQueryDate interprets the free-text date argument of the status view.
// Empty input means today. Unrecognized input must be YYYY-MM-DD.
func ParseQueryDate(text string, now time.Time, loc *time.Location) (QueryDate, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	switch text {
	case "", KeywordToday:
		return QueryDate{Date: now.In(loc), Label: "today"}, nil
	case KeywordTomorrow:
		return QueryDate{Date: now.In(loc).AddDate(0, 0, 1), Label: "tomorrow"}, nil
	case KeywordWeek:
		return QueryDate{Weekly: true, Label: "the next 7 days"}, nil
	}

	d, err := time.ParseInLocation(DateLayout, text, loc)
	if err != nil {
		return QueryDate{}, fmt.Errorf("invalid date %q: expected today, tomorrow, week, or YYYY-MM-DD", text)
	}
	return QueryDate{Date: d, Label: d.Format(DateLayout)}, nil
}

// NextSlot rounds now up to the next slot boundary at least slot in the
// future. Used to seed the create modal with a sensible start time.
func NextSlot(now time.Time, slot time.Duration) time.Time {
	if slot <= 0 {
		return now
	}
	t := now.Add(slot)
	rounded := t.Truncate(slot)
	if rounded.Before(t) {
		rounded = rounded.Add(slot)
	}
	return rounded
}
