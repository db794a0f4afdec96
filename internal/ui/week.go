package ui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/grid"
	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
	"github.com/nvasani/tempo/internal/version"
)

const (
	gutterWidth    = 7 // "HH:MM  "
	dayColWidth    = 16
	gridHeaderRows = 2 // top bar + day header
	doubleClickMax = 400 * time.Millisecond
)

// reloadMsg arrives on the tea loop after the watcher reloaded the file.
type reloadMsg struct{}

// weekModel renders seven day columns of 15-minute slots and feeds pointer
// input to the gesture engine. All storage work happens through the engine's
// emitted actions.
type weekModel struct {
	st    *store.Store
	cfg   config.Config
	theme Theme

	engine   *grid.Engine
	layout   grid.Layout
	viewport grid.Viewport
	entries  map[string][]store.Entry // date -> file-order entries

	editor     textinput.Model
	editorOpen *atomic.Bool // read by the reload veto off the tea loop

	reloads chan struct{}

	width, height int
	scroll        int // first visible slot row

	lastClickAt  time.Time
	lastClickID  string
	lastClickDay int

	status string
}

func newWeekModel(st *store.Store, cfg config.Config) weekModel {
	ti := textinput.New()
	ti.Placeholder = "description #tag ..."
	ti.CharLimit = 200
	ti.Width = 40

	layout := grid.Layout{HeaderHeight: gridHeaderRows, SlotHeight: 1}
	m := weekModel{
		st:         st,
		cfg:        cfg,
		theme:      DefaultTheme,
		engine:     grid.New(layout),
		layout:     layout,
		viewport:   grid.NewViewport(time.Now(), cfg.WeekStartDay()),
		editor:     ti,
		editorOpen: &atomic.Bool{},
		reloads:    make(chan struct{}, 1),
		scroll:     timeutil.MinutesToSlot(timeutil.TimeToMinutes(cfg.WorkingHours.Start)),
	}

	st.SetReloadVeto(m.editorOpen.Load)
	st.Subscribe(func() {
		select {
		case m.reloads <- struct{}{}:
		default:
		}
	})

	m.refresh()
	return m
}

func (m weekModel) Init() tea.Cmd {
	return m.waitForReload()
}

func (m weekModel) waitForReload() tea.Cmd {
	return func() tea.Msg {
		<-m.reloads
		return reloadMsg{}
	}
}

// refresh re-queries the visible range from the store.
func (m *weekModel) refresh() {
	start, end := m.viewport.Range()
	m.entries = make(map[string][]store.Entry)
	for _, e := range m.st.EntriesForRange(start, end) {
		m.entries[e.Date] = append(m.entries[e.Date], e)
	}
}

func (m weekModel) Update(msg tea.Msg) (weekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case reloadMsg:
		m.refresh()
		m.status = "file changed, reloaded"
		return m, m.waitForReload()

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m weekModel) updateKey(msg tea.KeyMsg) (weekModel, tea.Cmd) {
	if m.engine.EditorOpen() {
		switch msg.String() {
		case "enter":
			m.apply(m.engine.ConfirmEditor(m.editor.Value()))
			m.closeEditor()
			return m, nil
		case "esc":
			m.engine.CancelEditor()
			m.closeEditor()
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "left", "h":
		m.viewport = m.viewport.NavigateDay(-1)
		m.refresh()
	case "right", "l":
		m.viewport = m.viewport.NavigateDay(1)
		m.refresh()
	case "pgup", "H":
		m.viewport = m.viewport.NavigateWeek(-1)
		m.refresh()
	case "pgdown", "L":
		m.viewport = m.viewport.NavigateWeek(1)
		m.refresh()
	case "t":
		m.viewport = m.viewport.GoToToday(time.Now())
		m.refresh()
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		if m.scroll < timeutil.SlotsPerDay-m.gridRows() {
			m.scroll++
		}
	case "d", "delete", "backspace":
		m.apply(m.engine.KeyDelete())
	case "esc":
		m.engine.KeyEscape()
	}
	return m, nil
}

func (m weekModel) updateMouse(msg tea.MouseMsg) (weekModel, tea.Cmd) {
	if m.engine.EditorOpen() {
		return m, nil
	}
	// Content-relative Y so the engine sees scrolling as plain geometry.
	y := float64(msg.Y + m.scroll)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		day, ok := m.dayAt(msg.X)
		if !ok || msg.Y < gridHeaderRows {
			return m, nil
		}
		slot := m.layout.SlotAt(y)
		target, ref := m.hitTest(day, slot)

		if ref != nil && m.isDoubleClick(day, ref.ID) {
			e, found := m.entryByID(ref.ID)
			if found {
				m.apply(m.engine.DoubleClick(day, *ref, e.Description, e.Tags))
			}
			return m, nil
		}
		m.rememberClick(day, ref)
		m.engine.Press(day, y, target, ref)

	case tea.MouseActionMotion:
		m.engine.Move(y)

	case tea.MouseActionRelease:
		m.apply(m.engine.Release(y))
	}
	return m, nil
}

func (m *weekModel) isDoubleClick(day int, id string) bool {
	return id != "" && id == m.lastClickID && day == m.lastClickDay &&
		time.Since(m.lastClickAt) <= doubleClickMax
}

func (m *weekModel) rememberClick(day int, ref *grid.EntryRef) {
	m.lastClickAt = time.Now()
	m.lastClickDay = day
	m.lastClickID = ""
	if ref != nil {
		m.lastClickID = ref.ID
	}
}

// dayAt maps a terminal column to a day index.
func (m weekModel) dayAt(x int) (int, bool) {
	if x < gutterWidth {
		return 0, false
	}
	day := (x - gutterWidth) / dayColWidth
	if day < 0 || day >= grid.DaysVisible {
		return 0, false
	}
	return day, true
}

// hitTest decides what a press on (day, slot) lands on. The first and last
// rows of a multi-slot entry act as resize handles.
func (m weekModel) hitTest(day, slot int) (grid.Target, *grid.EntryRef) {
	for _, e := range m.entries[m.viewport.Date(day)] {
		start, end := e.StartSlot(), e.EndSlot()
		if slot < start || slot >= end {
			continue
		}
		ref := &grid.EntryRef{ID: e.ID, Span: grid.Span{Start: start, End: end}}
		switch {
		case end-start == 1:
			return grid.TargetEntryBody, ref
		case slot == start:
			return grid.TargetEntryTop, ref
		case slot == end-1:
			return grid.TargetEntryBottom, ref
		default:
			return grid.TargetEntryBody, ref
		}
	}
	return grid.TargetCell, nil
}

func (m weekModel) entryByID(id string) (store.Entry, bool) {
	for _, day := range m.entries {
		for _, e := range day {
			if e.ID == id {
				return e, true
			}
		}
	}
	return store.Entry{}, false
}

// apply executes an engine action against the store, then re-queries.
func (m *weekModel) apply(action grid.Action) {
	switch a := action.(type) {
	case nil:
		return

	case grid.OpenEditor:
		m.editor.SetValue(a.InitialText)
		m.editor.CursorEnd()
		m.editor.Focus()
		m.editorOpen.Store(true)
		return

	case grid.CreateEntry:
		desc := a.Description
		br := strings.EqualFold(desc, "break")
		if br {
			desc = store.BreakDescription
		}
		_, err := m.st.Add(store.Fields{
			Date:        m.viewport.Date(a.Day),
			Start:       timeutil.SlotToTime(a.Span.Start),
			End:         timeutil.SlotToTime(a.Span.End),
			Description: desc,
			Tags:        a.Tags,
			Break:       br,
		})
		m.noteErr(err)

	case grid.UpdateSpan:
		start := timeutil.SlotToTime(a.Span.Start)
		end := timeutil.SlotToTime(a.Span.End)
		m.noteErr(m.st.Update(a.EntryID, store.Patch{Start: &start, End: &end}))

	case grid.UpdateText:
		m.noteErr(m.st.Update(a.EntryID, store.Patch{Description: &a.Description, Tags: &a.Tags}))

	case grid.DeleteEntry:
		m.noteErr(m.st.Delete(a.EntryID))
	}
	m.refresh()
}

func (m *weekModel) noteErr(err error) {
	if err != nil {
		m.status = err.Error()
	}
}

func (m *weekModel) closeEditor() {
	m.editor.Blur()
	m.editor.SetValue("")
	m.editorOpen.Store(false)
}

func (m weekModel) gridRows() int {
	rows := m.height - gridHeaderRows - 1 // status line
	if rows < 1 {
		rows = 1
	}
	if rows > timeutil.SlotsPerDay {
		rows = timeutil.SlotsPerDay
	}
	return rows
}

func (m weekModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	start, end := m.viewport.Range()
	b.WriteString(m.theme.TopBar.Render(fmt.Sprintf("%s  %s .. %s", version.GetShortVersion(), start, end)))
	b.WriteString("\n")
	b.WriteString(m.renderDayHeader())
	b.WriteString("\n")

	today := timeutil.FormatDate(time.Now())
	rows := m.gridRows()
	for row := 0; row < rows; row++ {
		slot := m.scroll + row
		if slot >= timeutil.SlotsPerDay {
			break
		}
		b.WriteString(m.renderSlotRow(slot, today))
		b.WriteString("\n")
	}

	if m.engine.EditorOpen() {
		b.WriteString(m.renderEditor())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m weekModel) renderDayHeader() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	today := timeutil.FormatDate(time.Now())
	for day := 0; day < grid.DaysVisible; day++ {
		date := m.viewport.Date(day)
		label := date[5:] // MM-DD
		if t, err := timeutil.ParseDate(date); err == nil {
			label = t.Format("Mon 02")
		}
		style := m.theme.DayHeader
		if date == today {
			style = m.theme.DayToday
		}
		b.WriteString(style.Render(pad(label, dayColWidth)))
	}
	return b.String()
}

func (m weekModel) renderSlotRow(slot int, today string) string {
	var b strings.Builder

	gutter := strings.Repeat(" ", gutterWidth)
	if slot%4 == 0 {
		gutter = pad(timeutil.SlotToTime(slot), gutterWidth)
	}
	b.WriteString(m.theme.Gutter.Render(gutter))

	workStart := timeutil.MinutesToSlot(timeutil.TimeToMinutes(m.cfg.WorkingHours.Start))
	workEnd := timeutil.MinutesToSlot(timeutil.TimeToMinutes(m.cfg.WorkingHours.End))
	prevDay, prevSpan, hasPreview := m.engine.Preview()

	for day := 0; day < grid.DaysVisible; day++ {
		cell := m.renderCell(day, slot, workStart, workEnd)
		if hasPreview && day == prevDay && slot >= prevSpan.Start && slot < prevSpan.End {
			cell = m.theme.Preview.Render(pad("·", dayColWidth))
		}
		b.WriteString(cell)
	}
	return b.String()
}

func (m weekModel) renderCell(day, slot, workStart, workEnd int) string {
	for _, e := range m.entries[m.viewport.Date(day)] {
		start, end := e.StartSlot(), e.EndSlot()
		if slot < start || slot >= end {
			continue
		}
		style := m.theme.Entry
		if e.Break {
			style = m.theme.EntryBreak
		}
		if e.ID == m.engine.FocusedID() {
			style = m.theme.EntryFocus
		}
		text := ""
		if slot == start {
			text = entryLabel(e)
		}
		return style.Render(pad(" "+text, dayColWidth))
	}

	style := m.theme.SlotOut
	if slot >= workStart && slot < workEnd {
		style = m.theme.SlotIn
	}
	rule := "·"
	if slot%4 == 0 {
		rule = "─"
	}
	return style.Render(pad(rule, dayColWidth))
}

func (m weekModel) renderEditor() string {
	label := "new entry"
	if day, span, ok := m.engine.EditorSpan(); ok {
		label = fmt.Sprintf("%s %s - %s",
			m.viewport.Date(day),
			timeutil.SlotToTime(span.Start), timeutil.SlotToTime(span.End))
	}
	return m.theme.Editor.Render(label + "  " + m.editor.View())
}

func (m weekModel) renderStatus() string {
	left := m.status
	if left == "" {
		left = "drag: create/move/resize  2x click: edit text  d: delete  h/l: day  H/L: week  t: today  tab: timer  q: quit"
	}
	return m.theme.StatusBar.Render(left)
}

func entryLabel(e store.Entry) string {
	label := e.Description
	if e.Pomodoro {
		label += " ●"
	}
	return truncate(label, dayColWidth-2)
}

// truncate cuts s to at most width display cells, never splitting a rune.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
