package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	TopBar     lipgloss.Style
	StatusBar  lipgloss.Style
	DayHeader  lipgloss.Style
	DayToday   lipgloss.Style
	Gutter     lipgloss.Style
	SlotIn     lipgloss.Style
	SlotOut    lipgloss.Style
	Entry      lipgloss.Style
	EntryFocus lipgloss.Style
	EntryBreak lipgloss.Style
	Preview    lipgloss.Style
	Editor     lipgloss.Style
	Hint       lipgloss.Style
	Error      lipgloss.Style
	Title      lipgloss.Style
	Value      lipgloss.Style
	Countdown  lipgloss.Style
}

var DefaultTheme = Theme{
	TopBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true).Padding(0, 1),
	StatusBar:  lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Background(lipgloss.Color("#313244")).Padding(0, 1),
	DayHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de")).Bold(true),
	DayToday:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true),
	Gutter:     lipgloss.NewStyle().Faint(true),
	SlotIn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#45475a")),
	SlotOut:    lipgloss.NewStyle().Foreground(lipgloss.Color("#313244")).Faint(true),
	Entry:      lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#89B4FA")),
	EntryFocus: lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#F9E2AF")).Bold(true),
	EntryBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#94E2D5")),
	Preview:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#CBA6F7")),
	Editor:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(0, 1),
	Hint:       lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Value:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Countdown:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
}
