package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/notify"
	"github.com/nvasani/tempo/internal/pomodoro"
	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
)

// timerTickMsg drives the pomodoro countdown once per second. The generation
// stamps which tick chain scheduled it: pausing and resuming within one
// second would otherwise leave the pre-pause chain live alongside the new
// one, and the countdown would lose two seconds per wall second.
type timerTickMsg struct{ gen int }

func timerTick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{gen: gen} })
}

// captureModel is the live-capture surface: a pomodoro timer that logs a
// finished interval as an entry, with quick-offset keys for late starts.
type captureModel struct {
	st    *store.Store
	cfg   config.Config
	theme Theme

	timer     *pomodoro.Timer
	tickGen   int                       // current tick chain; stale chains are dropped
	completed *[]pomodoro.CompleteEvent // filled by the timer callback during Tick

	task textinput.Model

	width, height int
	status        string
}

func newCaptureModel(st *store.Store, cfg config.Config) captureModel {
	ti := textinput.New()
	ti.Placeholder = "what are you working on? #tags welcome"
	ti.CharLimit = 200
	ti.Width = 48
	ti.Focus()

	completed := &[]pomodoro.CompleteEvent{}
	timer := pomodoro.New(cfg.TimerOptions(), pomodoro.Callbacks{
		OnComplete: func(ev pomodoro.CompleteEvent) {
			*completed = append(*completed, ev)
		},
	})

	return captureModel{
		st:        st,
		cfg:       cfg,
		theme:     DefaultTheme,
		timer:     timer,
		completed: completed,
		task:      ti,
	}
}

func (m captureModel) Init() tea.Cmd { return nil }

func (m captureModel) Update(msg tea.Msg) (captureModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case timerTickMsg:
		if msg.gen != m.tickGen || m.timer.State() != pomodoro.Running {
			return m, nil
		}
		m.timer.Tick()
		m.drainCompletions()
		if m.timer.State() == pomodoro.Running {
			return m, timerTick(m.tickGen)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m captureModel) updateKey(msg tea.KeyMsg) (captureModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		if m.timer.State() != pomodoro.Running {
			m.tickGen++
			m.timer.Start()
			m.status = fmt.Sprintf("%s started", m.timer.Mode())
			return m, timerTick(m.tickGen)
		}
		return m, nil
	case "ctrl+p":
		m.tickGen++
		m.timer.Pause()
		m.status = "paused"
		return m, nil
	case "ctrl+x":
		m.tickGen++
		m.timer.Stop()
		m.status = "stopped"
		return m, nil
	case "ctrl+r":
		m.tickGen++
		m.timer.Reset()
		m.status = "reset"
		return m, nil
	}

	// Alt+digit back-dates the running interval by the configured offset.
	if key := msg.String(); strings.HasPrefix(key, "alt+") {
		if i := int(key[len(key)-1]) - '1'; i >= 0 && i < len(m.cfg.QuickOffsets) {
			if m.timer.State() == pomodoro.Running {
				m.timer.SetStartTimeOffset(m.cfg.QuickOffsets[i])
				m.status = fmt.Sprintf("started %d minutes ago", m.cfg.QuickOffsets[i])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.task, cmd = m.task.Update(msg)
	return m, cmd
}

// drainCompletions logs every interval the last Tick finished and fires the
// configured sounds and notifications.
func (m *captureModel) drainCompletions() {
	events := *m.completed
	*m.completed = (*m.completed)[:0]

	svc := notify.Acquire(m.cfg.SoundEnabled, m.cfg.Notifications)
	for _, ev := range events {
		m.logInterval(ev)
		if ev.Mode == pomodoro.Work {
			svc.TimerComplete()
			svc.Notify("Pomodoro complete", "Time for a "+m.timer.Mode().String())
		} else {
			svc.BreakComplete()
			svc.Notify("Break over", "Back to work")
		}
	}
}

func (m *captureModel) logInterval(ev pomodoro.CompleteEvent) {
	desc, tags := store.SplitTags(m.task.Value())
	f := store.Fields{
		Date:  timeutil.FormatDate(ev.StartTime),
		Start: ev.StartTime.Format(timeutil.ClockLayout),
		End:   ev.EndTime.Format(timeutil.ClockLayout),
	}
	if ev.Mode == pomodoro.Work {
		f.Description = desc
		f.Tags = tags
		f.Pomodoro = true
	} else {
		f.Description = store.BreakDescription
		f.Break = true
	}

	if _, err := m.st.Add(f); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("logged %s %s - %s", ev.Mode, f.Start, f.End)
}

func (m captureModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.TopBar.Render("Tempo timer"))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(m.theme.Title.Render(strings.ToUpper(m.timer.Mode().String())))
	b.WriteString("  ")
	b.WriteString(m.theme.Countdown.Render(timeutil.FormatCountdown(m.timer.Remaining())))
	b.WriteString("  ")
	b.WriteString(m.theme.Hint.Render(stateLabel(m.timer.State())))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(m.theme.Value.Render(fmt.Sprintf("pomodoros since long break: %d/%d",
		m.timer.Completed(), m.cfg.Pomodoro.BeforeLongBreak)))
	b.WriteString("\n\n  ")
	b.WriteString(m.task.View())
	b.WriteString("\n\n  ")

	offsets := make([]string, len(m.cfg.QuickOffsets))
	for i, mins := range m.cfg.QuickOffsets {
		offsets[i] = fmt.Sprintf("alt+%d: -%dm", i+1, mins)
	}
	b.WriteString(m.theme.Hint.Render(strings.Join(offsets, "  ")))
	b.WriteString("\n")

	status := m.status
	if status == "" {
		status = "ctrl+s: start  ctrl+p: pause  ctrl+x: stop  ctrl+r: reset cycle  tab: week  q: quit"
	}
	b.WriteString(m.theme.StatusBar.Render(status))
	return b.String()
}

func stateLabel(s pomodoro.State) string {
	switch s {
	case pomodoro.Running:
		return "running"
	case pomodoro.Paused:
		return "paused"
	default:
		return "idle"
	}
}
