package store

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nvasani/tempo/internal/timeutil"
)

// Entry is one tracked time interval parsed from a single log line.
type Entry struct {
	ID          string
	Date        string // "2006-01-02"
	Start       string // "15:04"
	End         string // "15:04", exclusive, same day
	Description string
	Tags        []string
	Pomodoro    bool
	Break       bool

	// Line is the exact text line the entry was parsed from (or the line
	// that was written for it). It is the literal match key for in-place
	// replace and remove, so hand-edited spacing survives untouched.
	Line string
}

var (
	entryRe    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*\|(.*)$`)
	tagRe      = regexp.MustCompile(`#(\w+)`)
	pomodoroRe = regexp.MustCompile(`(?i)\(pomodoro\)`)
	breakRe    = regexp.MustCompile(`(?i)\(break\)`)
)

// BreakDescription is the canonical description written for break entries.
const BreakDescription = "Break"

// EntryID derives the identity of an entry from its time span. Two entries
// with the same date and span collide to the same id on purpose: the file
// format has no hidden identity channel, so identity has to survive a full
// reparse. Lookups take the first match.
func EntryID(date, start, end string) string {
	return fmt.Sprintf("%s_%s-%s", date, start, end)
}

// ParseLine decodes one text line against the entry grammar. Lines that do
// not match are inert content and report ok=false.
func ParseLine(line string) (Entry, bool) {
	m := entryRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Entry{}, false
	}

	e := Entry{
		Date:  m[1],
		Start: normalizeClock(m[2]),
		End:   normalizeClock(m[3]),
		Line:  line,
	}

	rest := m[4]
	for _, tm := range tagRe.FindAllStringSubmatch(rest, -1) {
		e.Tags = append(e.Tags, tm[1])
	}
	rest = tagRe.ReplaceAllString(rest, "")

	if pomodoroRe.MatchString(rest) {
		e.Pomodoro = true
		rest = pomodoroRe.ReplaceAllString(rest, "")
	}

	text := strings.TrimSpace(rest)
	if strings.EqualFold(text, "break") || breakRe.MatchString(text) {
		e.Break = true
		if strings.EqualFold(text, "break") {
			text = BreakDescription
		}
	}

	e.Description = text
	e.ID = EntryID(e.Date, e.Start, e.End)
	return e, true
}

// EncodeLine is the inverse of ParseLine: it renders an entry as a log line.
// A break entry whose text lost every trace of the word "break" gets the
// canonical Break description so the line stays recognizable on reparse.
func EncodeLine(e Entry) string {
	parts := make([]string, 0, len(e.Tags)+2)
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	for _, tag := range e.Tags {
		parts = append(parts, "#"+tag)
	}
	if e.Pomodoro {
		parts = append(parts, "(pomodoro)")
	}

	text := strings.Join(parts, " ")
	if e.Break && !strings.Contains(strings.ToLower(text), "break") {
		text = BreakDescription
	}

	return fmt.Sprintf("%s %s - %s | %s", e.Date, e.Start, e.End, text)
}

// SplitTags extracts every #word token from free text, in order of first
// occurrence, and returns the leftover text trimmed. Shared by the inline
// editor's create and edit paths.
func SplitTags(text string) (description string, tags []string) {
	for _, m := range tagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	description = strings.TrimSpace(tagRe.ReplaceAllString(text, ""))
	return description, tags
}

// DurationMinutes is the entry length in minutes. Cross-midnight spans are
// not modeled, so end is expected to be at or after start.
func (e Entry) DurationMinutes() int {
	return timeutil.TimeToMinutes(e.End) - timeutil.TimeToMinutes(e.Start)
}

// StartSlot returns the 15-minute slot containing the entry start.
func (e Entry) StartSlot() int {
	return timeutil.MinutesToSlot(timeutil.TimeToMinutes(e.Start))
}

// EndSlot returns the exclusive slot bound of the entry.
func (e Entry) EndSlot() int {
	return timeutil.MinutesToSlot(timeutil.TimeToMinutes(e.End) + timeutil.SlotMinutes - 1)
}

// clone returns a copy safe to hand to callers; views must not be able to
// mutate the store's authoritative slice through a shared Tags backing array.
func (e Entry) clone() Entry {
	c := e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	return c
}

func normalizeClock(s string) string {
	return timeutil.MinutesToTime(timeutil.TimeToMinutes(s))
}
