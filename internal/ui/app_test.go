package ui

import (
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
)

type memFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *memFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Unix(0, 0) }
func (stubClock) AfterFunc(time.Duration, func()) store.Timer {
	return stubTimer{}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.DataFile = "/data/timelog.txt"
	return cfg
}

func newTestWeek(t *testing.T, content string) (weekModel, *store.Store) {
	t.Helper()
	fsys := &memFS{files: map[string][]byte{"/data/timelog.txt": []byte(content)}}
	st := store.NewWithFS("/data/timelog.txt", fsys, stubClock{})
	if _, err := st.Load(); err != nil {
		t.Fatal(err)
	}
	m := newWeekModel(st, testConfig())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, st
}

// rowFor converts a slot to the terminal row the week view draws it at.
func rowFor(m weekModel, slot int) int {
	return slot - m.scroll + gridHeaderRows
}

func press(m weekModel, x, y int) weekModel {
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return m
}

func release(m weekModel, x, y int) weekModel {
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	return m
}

func typeText(m weekModel, text string) weekModel {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestWeekPaintCreatesEntry(t *testing.T) {
	m, st := newTestWeek(t, "")

	day := 2
	x := gutterWidth + day*dayColWidth + 1
	m = press(m, x, rowFor(m, 36))
	m = release(m, x, rowFor(m, 41))

	if !m.engine.EditorOpen() {
		t.Fatal("editor should open after painting")
	}
	m = typeText(m, "Deep work #dev")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	date := m.viewport.Date(day)
	got := st.EntriesForDate(date)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	e := got[0]
	if e.Start != timeutil.SlotToTime(36) || e.End != timeutil.SlotToTime(42) {
		t.Errorf("span %s-%s, want %s-%s", e.Start, e.End, timeutil.SlotToTime(36), timeutil.SlotToTime(42))
	}
	if e.Description != "Deep work" || len(e.Tags) != 1 || e.Tags[0] != "dev" {
		t.Errorf("unexpected text: %q %v", e.Description, e.Tags)
	}
}

func TestWeekEscapeDiscardsEditor(t *testing.T) {
	m, st := newTestWeek(t, "")

	x := gutterWidth + 1
	m = press(m, x, rowFor(m, 36))
	m = release(m, x, rowFor(m, 36))
	m = typeText(m, "scratch")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.engine.EditorOpen() {
		t.Fatal("editor still open after escape")
	}
	if got := st.EntriesForDate(m.viewport.Date(0)); len(got) != 0 {
		t.Fatalf("escape must not create entries, got %d", len(got))
	}
}

func TestWeekDeleteFocusedEntry(t *testing.T) {
	m, st := newTestWeek(t, "")
	date := m.viewport.Date(0)
	if _, err := st.Add(store.Fields{Date: date, Start: "09:00", End: "10:00", Description: "Standup"}); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	x := gutterWidth + 1
	slot := timeutil.MinutesToSlot(timeutil.TimeToMinutes("09:15"))
	m = press(m, x, rowFor(m, slot))
	m = release(m, x, rowFor(m, slot))
	if m.engine.FocusedID() == "" {
		t.Fatal("click on entry should focus it")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if got := st.EntriesForDate(date); len(got) != 0 {
		t.Fatalf("entry not deleted, %d left", len(got))
	}
}

func TestWeekViewRendersEntries(t *testing.T) {
	m, st := newTestWeek(t, "")
	date := m.viewport.Date(0)
	if _, err := st.Add(store.Fields{Date: date, Start: "09:00", End: "10:00", Description: "Standup"}); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	view := m.View()
	if !strings.Contains(view, "Standup") {
		t.Errorf("entry description missing from view")
	}
	if !strings.Contains(view, "Tempo") {
		t.Errorf("top bar missing from view")
	}
}

func TestCaptureLogsCompletedPomodoro(t *testing.T) {
	fsys := &memFS{files: map[string][]byte{"/data/timelog.txt": nil}}
	st := store.NewWithFS("/data/timelog.txt", fsys, stubClock{})
	if _, err := st.Load(); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.SoundEnabled = false
	cfg.Notifications = false
	cfg.Pomodoro.WorkMinutes = 1

	m := newCaptureModel(st, cfg)
	m = typeCapture(m, "Focus block #deep")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	for i := 0; i < 60; i++ {
		m, _ = m.Update(timerTickMsg{gen: m.tickGen})
	}

	today := timeutil.FormatDate(time.Now())
	got := st.EntriesForDate(today)
	if len(got) != 1 {
		t.Fatalf("expected 1 logged entry, got %d", len(got))
	}
	e := got[0]
	if !e.Pomodoro {
		t.Error("logged entry should carry the pomodoro marker")
	}
	if e.Description != "Focus block" || len(e.Tags) != 1 || e.Tags[0] != "deep" {
		t.Errorf("unexpected text: %q %v", e.Description, e.Tags)
	}
	if e.Date != today {
		t.Errorf("logged on %s, want %s", e.Date, today)
	}
}

func TestCapturePauseResumeKeepsOneTickChain(t *testing.T) {
	fsys := &memFS{files: map[string][]byte{"/data/timelog.txt": nil}}
	st := store.NewWithFS("/data/timelog.txt", fsys, stubClock{})
	if _, err := st.Load(); err != nil {
		t.Fatal(err)
	}
	m := newCaptureModel(st, testConfig())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	staleGen := m.tickGen
	m, _ = m.Update(timerTickMsg{gen: staleGen})
	afterOne := m.timer.Remaining()

	// Pause with the chain's next tick already scheduled, then resume
	// before it lands.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	// The pre-pause tick arrives late. It must neither advance the
	// countdown nor re-arm its chain.
	m, cmd := m.Update(timerTickMsg{gen: staleGen})
	if cmd != nil {
		t.Error("stale tick re-armed its chain")
	}
	if got := m.timer.Remaining(); got != afterOne {
		t.Errorf("stale tick advanced the countdown: remaining %d, want %d", got, afterOne)
	}

	// The live chain still decrements exactly one second per tick.
	m, _ = m.Update(timerTickMsg{gen: m.tickGen})
	if got := m.timer.Remaining(); got != afterOne-1 {
		t.Errorf("remaining %d after one live tick, want %d", got, afterOne-1)
	}
}

func TestEntryLabelTruncatesByDisplayWidth(t *testing.T) {
	cases := []struct {
		name string
		e    store.Entry
	}{
		{"ascii", store.Entry{Description: "a long ascii description that overflows"}},
		{"multibyte", store.Entry{Description: "café rénovation préparée à l'avance"}},
		{"wide", store.Entry{Description: "計画の見直しと整理の時間", Pomodoro: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := entryLabel(tc.e)
			if !utf8.ValidString(got) {
				t.Fatalf("label %q splits a rune", got)
			}
			if w := lipgloss.Width(got); w > dayColWidth-2 {
				t.Errorf("label %q is %d cells wide, max %d", got, w, dayColWidth-2)
			}
		})
	}
}

func typeCapture(m captureModel, text string) captureModel {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}
