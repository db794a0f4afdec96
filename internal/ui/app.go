// Package ui is the terminal front end: a mouse-driven week grid over the
// entry file and a pomodoro capture view, switched with tab.
package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvasani/tempo/internal/config"
	"github.com/nvasani/tempo/internal/store"
)

type pane int

const (
	paneWeek pane = iota
	paneCapture
)

// Model multiplexes the two views. Both stay live; the timer keeps counting
// while the week grid is showing.
type Model struct {
	pane    pane
	week    weekModel
	capture captureModel
}

func newModel(st *store.Store, cfg config.Config) Model {
	return Model{
		week:    newWeekModel(st, cfg),
		capture: newCaptureModel(st, cfg),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.week.Init(), m.capture.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		var wCmd, cCmd tea.Cmd
		m.week, wCmd = m.week.Update(msg)
		m.capture, cCmd = m.capture.Update(msg)
		return m, tea.Batch(wCmd, cCmd)

	case reloadMsg, timerTickMsg:
		// Background messages go to their owner regardless of the visible
		// pane.
		var cmd tea.Cmd
		if _, ok := msg.(reloadMsg); ok {
			m.week, cmd = m.week.Update(msg)
		} else {
			m.capture, cmd = m.capture.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if m.pane == paneWeek {
				m.pane = paneCapture
			} else {
				m.pane = paneWeek
			}
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.typing() {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	if m.pane == paneWeek {
		m.week, cmd = m.week.Update(msg)
	} else {
		m.capture, cmd = m.capture.Update(msg)
	}
	return m, cmd
}

// typing reports whether a text input currently owns the keyboard, so plain
// letters must not trigger global shortcuts.
func (m Model) typing() bool {
	if m.pane == paneWeek {
		return m.week.engine.EditorOpen()
	}
	return true // the capture view's task input is always focused
}

func (m Model) View() string {
	if m.pane == paneWeek {
		return m.week.View()
	}
	return m.capture.View()
}

// Run opens the store, starts the file watcher, and blocks in the tea loop
// until the user quits.
func Run(cfg config.Config) error {
	st := store.New(cfg.DataFile)
	if _, err := st.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := st.Watch(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tempo: file watch disabled: %v\n", err)
	}

	p := tea.NewProgram(newModel(st, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

// timerModel is the capture view on its own, for `tempo timer`.
type timerModel struct {
	capture captureModel
}

func (m timerModel) Init() tea.Cmd { return m.capture.Init() }

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.capture, cmd = m.capture.Update(msg)
	return m, cmd
}

func (m timerModel) View() string { return m.capture.View() }

// RunTimer runs the pomodoro capture view without the week grid.
func RunTimer(cfg config.Config) error {
	st := store.New(cfg.DataFile)
	if _, err := st.Load(); err != nil {
		return err
	}
	p := tea.NewProgram(timerModel{capture: newCaptureModel(st, cfg)}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
