// Package timeutil holds the pure date, clock and slot conversions shared by
// the store, the grid engine and the views. A day is divided into 96 fixed
// 15-minute slots; slot 0 covers 00:00-00:15 and slot 95 covers 23:45-24:00.
package timeutil

import (
	"fmt"
	"time"
)

const (
	// SlotMinutes is the grid resolution.
	SlotMinutes = 15
	// SlotsPerDay is 24 hours * 4 slots per hour.
	SlotsPerDay = 96
	// DateLayout is the fixed-width ISO date used in the log file. Dates in
	// this layout compare correctly as plain strings.
	DateLayout = "2006-01-02"
	// ClockLayout is the minute-resolution wall-clock format of entry times.
	ClockLayout = "15:04"
)

// TimeToMinutes converts "HH:MM" to minutes from midnight. Malformed input
// yields 0; callers parse through the entry grammar first, which guarantees
// the shape.
func TimeToMinutes(s string) int {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0
	}
	return h*60 + m
}

// MinutesToTime converts minutes from midnight to "HH:MM". Minute 1440 maps
// to "24:00" so an end-of-day slot boundary stays representable.
func MinutesToTime(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// SlotToMinutes converts a slot index to minutes from midnight.
func SlotToMinutes(slot int) int {
	return slot * SlotMinutes
}

// MinutesToSlot converts minutes from midnight to the slot containing them.
func MinutesToSlot(mins int) int {
	return mins / SlotMinutes
}

// SlotToTime converts a slot index to its "HH:MM" start time.
func SlotToTime(slot int) string {
	return MinutesToTime(SlotToMinutes(slot))
}

// ClampSlot restricts a slot index to the valid [0, 95] range.
func ClampSlot(slot int) int {
	if slot < 0 {
		return 0
	}
	if slot >= SlotsPerDay {
		return SlotsPerDay - 1
	}
	return slot
}

// FormatDate renders t as an ISO date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO date at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts a date by delta whole days.
func AddDays(t time.Time, delta int) time.Time {
	return StartOfDay(t).AddDate(0, 0, delta)
}

// WeekStart returns the start of the calendar week containing t, for the
// given first day of the week (Sunday or Monday in practice).
func WeekStart(t time.Time, firstDay time.Weekday) time.Time {
	t = StartOfDay(t)
	diff := (int(t.Weekday()) - int(firstDay) + 7) % 7
	return t.AddDate(0, 0, -diff)
}

// FormatDuration renders whole minutes as "1h 40m", "45m" or "0m".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatCountdown renders seconds as MM:SS for the timer display.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
