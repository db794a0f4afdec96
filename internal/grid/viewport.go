package grid

import (
	"time"

	"github.com/nvasani/tempo/internal/timeutil"
)

// DaysVisible is the width of the grid viewport.
const DaysVisible = 7

// Viewport is the 7 consecutive calendar dates currently visible. It is a
// value; navigation returns the adjusted viewport.
type Viewport struct {
	start     time.Time
	weekStart time.Weekday
}

// NewViewport returns a viewport snapped to the calendar week containing
// now, under the configured week-start day.
func NewViewport(now time.Time, weekStart time.Weekday) Viewport {
	return Viewport{
		start:     timeutil.WeekStart(now, weekStart),
		weekStart: weekStart,
	}
}

// Start is the first visible date.
func (v Viewport) Start() time.Time { return v.start }

// Date returns the ISO date of the visible day at the given index.
func (v Viewport) Date(day int) string {
	return timeutil.FormatDate(timeutil.AddDays(v.start, day))
}

// DayIndex maps an ISO date to its viewport column, or -1 when not visible.
func (v Viewport) DayIndex(date string) int {
	for i := 0; i < DaysVisible; i++ {
		if v.Date(i) == date {
			return i
		}
	}
	return -1
}

// Range returns the inclusive ISO date bounds of the viewport.
func (v Viewport) Range() (start, end string) {
	return v.Date(0), v.Date(DaysVisible - 1)
}

// NavigateDay slides the visible window by delta days regardless of
// calendar-week alignment.
func (v Viewport) NavigateDay(delta int) Viewport {
	v.start = timeutil.AddDays(v.start, delta)
	return v
}

// NavigateWeek snaps to the calendar week containing the current viewport
// start, then moves by delta whole weeks.
func (v Viewport) NavigateWeek(delta int) Viewport {
	v.start = timeutil.AddDays(timeutil.WeekStart(v.start, v.weekStart), delta*7)
	return v
}

// GoToToday snaps to the calendar week containing the given current date.
func (v Viewport) GoToToday(now time.Time) Viewport {
	v.start = timeutil.WeekStart(now, v.weekStart)
	return v
}

// Aligned reports whether the viewport start sits on the configured
// calendar-week start.
func (v Viewport) Aligned() bool {
	return v.start.Equal(timeutil.WeekStart(v.start, v.weekStart))
}
