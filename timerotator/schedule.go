package timerotator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golift.io/loggerr/rotation"
)

// When names a rotation boundary. Midnight and the weekdays are calendar
// boundaries computed in a zone; Hourly and Daily are fixed periods.
type When string

// The supported boundaries.
const (
	Midnight  When = "midnight"
	Hourly    When = "hourly"
	Daily     When = "daily"
	Sunday    When = "sunday"
	Monday    When = "monday"
	Tuesday   When = "tuesday"
	Wednesday When = "wednesday"
	Thursday  When = "thursday"
	Friday    When = "friday"
	Saturday  When = "saturday"
)

// ErrBadWhen is returned for a boundary name this package does not know.
var ErrBadWhen = errors.New("unknown rotation boundary")

// ParseWhen converts a boundary name into a When. Case insensitive.
func ParseWhen(s string) (When, error) {
	when := When(strings.ToLower(strings.TrimSpace(s)))

	switch when {
	case Midnight, Hourly, Daily,
		Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return when, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadWhen, s)
	}
}

// weekday maps a weekday When onto its time.Weekday.
func (w When) weekday() (time.Weekday, bool) {
	switch w {
	case Sunday:
		return time.Sunday, true
	case Monday:
		return time.Monday, true
	case Tuesday:
		return time.Tuesday, true
	case Wednesday:
		return time.Wednesday, true
	case Thursday:
		return time.Thursday, true
	case Friday:
		return time.Friday, true
	case Saturday:
		return time.Saturday, true
	default:
		return 0, false
	}
}

// NewSchedule maps a boundary name, or a custom period, onto a Schedule.
// A positive every wins over when. Calendar boundaries are computed in loc;
// pass time.UTC to rotate on UTC boundaries instead of local ones.
func NewSchedule(when When, every time.Duration, loc *time.Location) (rotation.Schedule, error) {
	if every > 0 {
		return &Interval{Every: every}, nil
	}

	switch when {
	case Hourly:
		return &Interval{Every: time.Hour}, nil
	case Daily:
		return &Interval{Every: 24 * time.Hour}, nil //nolint:gomnd
	case Midnight, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return &Boundary{When: when, Loc: loc}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadWhen, when)
	}
}

// Boundary is a Schedule that fires on calendar instants: the next midnight,
// or the next occurrence of a weekday's midnight, in the configured zone.
// The date arithmetic goes through time.Date, which normalizes across
// daylight-saving shifts, so a midnight boundary fires exactly once per
// calendar day even when that day gains or loses an hour.
type Boundary struct {
	When When           // Midnight or a weekday.
	Loc  *time.Location // Zone the boundary is computed in. Nil means local.
}

// Next returns the first boundary instant strictly after the given time.
func (b *Boundary) Next(after time.Time) time.Time {
	loc := b.Loc
	if loc == nil {
		loc = time.Local
	}

	local := after.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)

	if weekday, ok := b.When.weekday(); ok {
		for next.Weekday() != weekday {
			next = time.Date(next.Year(), next.Month(), next.Day()+1, 0, 0, 0, 0, loc)
		}
	}

	return next
}

// Interval is a Schedule that fires every fixed duration, measured from the
// previous rotation rather than from calendar boundaries.
type Interval struct {
	Every time.Duration
}

// Next returns the instant one period after the given time.
func (i *Interval) Next(after time.Time) time.Time {
	return after.Add(i.Every)
}

// Both schedules must satisfy rotation.Schedule.
var (
	_ rotation.Schedule = (*Boundary)(nil)
	_ rotation.Schedule = (*Interval)(nil)
)
