package grid_test

import (
	"testing"
	"time"

	"github.com/nvasani/tempo/internal/grid"
	"github.com/nvasani/tempo/internal/timeutil"
)

func date(s string) time.Time {
	t, err := timeutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewViewportSnapsToWeek(t *testing.T) {
	// 2025-01-21 is a Tuesday.
	v := grid.NewViewport(date("2025-01-21"), time.Monday)
	if got := v.Date(0); got != "2025-01-20" {
		t.Errorf("start = %s, want 2025-01-20", got)
	}
	if !v.Aligned() {
		t.Error("fresh viewport should be calendar aligned")
	}

	v = grid.NewViewport(date("2025-01-21"), time.Sunday)
	if got := v.Date(0); got != "2025-01-19" {
		t.Errorf("start = %s, want 2025-01-19", got)
	}
}

func TestNavigateDaySlidesFreely(t *testing.T) {
	v := grid.NewViewport(date("2025-01-21"), time.Monday)
	v = v.NavigateDay(3)

	if got := v.Date(0); got != "2025-01-23" {
		t.Errorf("start = %s, want 2025-01-23", got)
	}
	if v.Aligned() {
		t.Error("day-slid viewport must not report calendar alignment")
	}

	v = v.NavigateDay(-3)
	if !v.Aligned() {
		t.Error("sliding back should restore alignment")
	}
}

func TestNavigateWeekSnapsFirst(t *testing.T) {
	v := grid.NewViewport(date("2025-01-21"), time.Monday)
	v = v.NavigateDay(3) // start 2025-01-23, unaligned

	next := v.NavigateWeek(1)
	if got := next.Date(0); got != "2025-01-27" {
		t.Errorf("start = %s, want 2025-01-27 (snap to week, then +1)", got)
	}

	prev := v.NavigateWeek(-1)
	if got := prev.Date(0); got != "2025-01-13" {
		t.Errorf("start = %s, want 2025-01-13", got)
	}

	same := v.NavigateWeek(0)
	if got := same.Date(0); got != "2025-01-20" {
		t.Errorf("start = %s, want snap to containing week 2025-01-20", got)
	}
}

func TestGoToToday(t *testing.T) {
	v := grid.NewViewport(date("2025-01-21"), time.Monday)
	v = v.NavigateWeek(-4).NavigateDay(2)

	v = v.GoToToday(date("2025-01-21"))
	if got := v.Date(0); got != "2025-01-20" {
		t.Errorf("start = %s, want 2025-01-20", got)
	}
	if !v.Aligned() {
		t.Error("today viewport should be aligned")
	}
}

func TestDayIndexAndRange(t *testing.T) {
	v := grid.NewViewport(date("2025-01-21"), time.Monday)

	if got := v.DayIndex("2025-01-22"); got != 2 {
		t.Errorf("DayIndex = %d, want 2", got)
	}
	if got := v.DayIndex("2025-02-01"); got != -1 {
		t.Errorf("DayIndex outside viewport = %d, want -1", got)
	}

	start, end := v.Range()
	if start != "2025-01-20" || end != "2025-01-26" {
		t.Errorf("range = %s..%s", start, end)
	}
}
