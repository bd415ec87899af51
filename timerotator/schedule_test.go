package timerotator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/loggerr/timerotator"
)

func TestParseWhen(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	for input, want := range map[string]timerotator.When{
		"midnight":  timerotator.Midnight,
		"MIDNIGHT":  timerotator.Midnight,
		" hourly ":  timerotator.Hourly,
		"daily":     timerotator.Daily,
		"Wednesday": timerotator.Wednesday,
	} {
		when, err := timerotator.ParseWhen(input)
		assert.NoError(err)
		assert.Equal(want, when)
	}

	_, err := timerotator.ParseWhen("fortnightly")
	assert.ErrorIs(err, timerotator.ErrBadWhen)
}

func TestNewSchedule(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// A positive period wins over any boundary name.
	sched, err := timerotator.NewSchedule(timerotator.Midnight, time.Minute, time.UTC)
	assert.NoError(err)
	assert.IsType(&timerotator.Interval{}, sched)

	sched, err = timerotator.NewSchedule(timerotator.Hourly, 0, time.UTC)
	assert.NoError(err)
	assert.IsType(&timerotator.Interval{}, sched)

	sched, err = timerotator.NewSchedule(timerotator.Midnight, 0, time.UTC)
	assert.NoError(err)
	assert.IsType(&timerotator.Boundary{}, sched)

	sched, err = timerotator.NewSchedule(timerotator.Friday, 0, time.UTC)
	assert.NoError(err)
	assert.IsType(&timerotator.Boundary{}, sched)

	_, err = timerotator.NewSchedule("yearly", 0, time.UTC)
	assert.ErrorIs(err, timerotator.ErrBadWhen)
}

func TestInterval(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sched := &timerotator.Interval{Every: 90 * time.Minute}
	after := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(after.Add(90*time.Minute), sched.Next(after))
}

func TestBoundaryMidnight(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	sched := &timerotator.Boundary{When: timerotator.Midnight, Loc: loc}

	// March 8, 2026 springs forward: that day is only 23 hours long,
	// yet the boundary still fires exactly once per calendar day.
	after := time.Date(2026, 3, 7, 10, 0, 0, 0, loc)
	next := sched.Next(after)
	assert.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, loc), next)

	following := sched.Next(next)
	assert.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, loc), following)
	assert.Equal(23*time.Hour, following.Sub(next), "the short day loses its hour, not its boundary")
}

func TestBoundaryWeekday(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sched := &timerotator.Boundary{When: timerotator.Sunday, Loc: time.UTC}

	// June 1, 2026 is a Monday; the next Sunday midnight is June 7.
	after := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)
	next := sched.Next(after)
	assert.Equal(time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC), next)
	assert.Equal(time.Sunday, next.Weekday())

	// From a Sunday midnight, the next boundary is a full week out.
	assert.Equal(next.AddDate(0, 0, 7), sched.Next(next))
}

func TestBoundaryStrictlyAfter(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sched := &timerotator.Boundary{When: timerotator.Midnight, Loc: time.UTC}
	midnight := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(midnight.AddDate(0, 0, 1), sched.Next(midnight),
		"a boundary instant schedules the following one, never itself")
}
