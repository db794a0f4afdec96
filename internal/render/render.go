// Package render formats entry lists for the CLI commands.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
)

// Format selects the output shape of list/summary commands.
type Format string

const (
	FormatDefault Format = "default"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDefault, "":
		return FormatDefault, nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown format %q (default|table|json|csv)", s)
}

// Styles contains the lipgloss styles used by the default format.
type Styles struct {
	Date  lipgloss.Style
	Time  lipgloss.Style
	Text  lipgloss.Style
	Tags  lipgloss.Style
	Meta  lipgloss.Style
	Total lipgloss.Style
}

func newStyles(color bool) *Styles {
	s := &Styles{}
	if color {
		s.Date = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
		s.Time = lipgloss.NewStyle().Faint(true)
		s.Text = lipgloss.NewStyle()
		s.Tags = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7"))
		s.Meta = lipgloss.NewStyle().Faint(true)
		s.Total = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA"))
	} else {
		s.Date = lipgloss.NewStyle().Bold(true)
		s.Time = lipgloss.NewStyle()
		s.Text = lipgloss.NewStyle()
		s.Tags = lipgloss.NewStyle()
		s.Meta = lipgloss.NewStyle()
		s.Total = lipgloss.NewStyle().Bold(true)
	}
	return s
}

// Renderer formats entries.
type Renderer struct {
	format Format
	styles *Styles
}

// New returns a renderer for the given format; color applies to the default
// format only.
func New(format Format, color bool) *Renderer {
	return &Renderer{format: format, styles: newStyles(color)}
}

// Entries renders the list in the configured format.
func (r *Renderer) Entries(entries []store.Entry) (string, error) {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(entries)
	case FormatCSV:
		return r.renderCSV(entries), nil
	case FormatTable:
		return r.renderTable(entries), nil
	default:
		return r.renderDefault(entries), nil
	}
}

// renderDefault groups entries by date with a per-day total.
func (r *Renderer) renderDefault(entries []store.Entry) string {
	if len(entries) == 0 {
		return r.styles.Meta.Render("no entries") + "\n"
	}

	byDate := make(map[string][]store.Entry)
	var dates []string
	for _, e := range entries {
		if _, ok := byDate[e.Date]; !ok {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	sort.Strings(dates)

	var b strings.Builder
	for _, date := range dates {
		day := byDate[date]
		total := 0
		b.WriteString(r.styles.Date.Render(date))
		b.WriteString("\n")
		for _, e := range day {
			total += e.DurationMinutes()
			b.WriteString("  ")
			b.WriteString(r.styles.Time.Render(e.Start + " - " + e.End))
			b.WriteString("  ")
			b.WriteString(r.styles.Text.Render(describe(e)))
			if len(e.Tags) > 0 {
				b.WriteString(" ")
				b.WriteString(r.styles.Tags.Render(hashTags(e.Tags)))
			}
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(r.styles.Total.Render("total " + timeutil.FormatDuration(total)))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) renderTable(entries []store.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-7s %-7s %-9s %s\n", "DATE", "START", "END", "DURATION", "DESCRIPTION")
	for _, e := range entries {
		desc := describe(e)
		if len(e.Tags) > 0 {
			desc += " " + hashTags(e.Tags)
		}
		fmt.Fprintf(&b, "%-12s %-7s %-7s %-9s %s\n",
			e.Date, e.Start, e.End, timeutil.FormatDuration(e.DurationMinutes()), desc)
	}
	return b.String()
}

func (r *Renderer) renderCSV(entries []store.Entry) string {
	var b strings.Builder
	b.WriteString("date,start,end,minutes,description,tags,pomodoro,break\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s,%s,%s,%d,%s,%s,%t,%t\n",
			e.Date, e.Start, e.End, e.DurationMinutes(),
			escapeCSV(e.Description), escapeCSV(strings.Join(e.Tags, " ")),
			e.Pomodoro, e.Break)
	}
	return b.String()
}

func (r *Renderer) renderJSON(entries []store.Entry) (string, error) {
	type jsonEntry struct {
		ID          string   `json:"id"`
		Date        string   `json:"date"`
		Start       string   `json:"start"`
		End         string   `json:"end"`
		Minutes     int      `json:"minutes"`
		Description string   `json:"description"`
		Tags        []string `json:"tags,omitempty"`
		Pomodoro    bool     `json:"pomodoro,omitempty"`
		Break       bool     `json:"break,omitempty"`
	}

	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry{
			ID: e.ID, Date: e.Date, Start: e.Start, End: e.End,
			Minutes: e.DurationMinutes(), Description: e.Description,
			Tags: e.Tags, Pomodoro: e.Pomodoro, Break: e.Break,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render json: %w", err)
	}
	return string(data) + "\n", nil
}

func describe(e store.Entry) string {
	desc := e.Description
	if desc == "" {
		desc = "(untitled)"
	}
	if e.Pomodoro {
		desc += " (pomodoro)"
	}
	return desc
}

func hashTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
