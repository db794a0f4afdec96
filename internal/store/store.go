// Package store keeps an in-memory model of parsed time entries synchronized
// with a free-form, human-editable text file. Lines matching the entry
// grammar become records; every other byte of the file (comments, headings,
// blank lines) is preserved verbatim. Programmatic mutations touch single
// lines in place and never reorder the file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
)

// FS is the file collaborator consumed by the store. An absent file is
// reported through fs.ErrNotExist and treated as empty content.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (osFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// Fields carries the caller-supplied attributes of a new entry. Times are
// "HH:MM" strings, the date is ISO.
type Fields struct {
	Date        string
	Start       string
	End         string
	Description string
	Tags        []string
	Pomodoro    bool
	Break       bool
}

// Patch is a partial update merged onto a copy of an existing entry. Nil
// fields keep their current value. Changing a time field changes identity.
type Patch struct {
	Date        *string
	Start       *string
	End         *string
	Description *string
	Tags        *[]string
	Pomodoro    *bool
	Break       *bool
}

// Store owns the authoritative in-memory entry list for one backing file.
// All methods are safe for concurrent use; the watcher goroutine triggers
// reloads while the UI issues mutations.
type Store struct {
	mu       sync.Mutex
	path     string
	fsys     FS
	entries  []Entry
	gate     *reloadGate
	watcher  *watcher
	listener struct {
		next int
		fns  map[int]func()
	}
}

// New opens a store over the given file path using the real filesystem and
// clock. The file is not read until Load.
func New(path string) *Store {
	return NewWithFS(path, osFS{}, systemClock{})
}

// NewWithFS is the injectable constructor used by tests and by callers that
// need a fake clock for the reload gate.
func NewWithFS(path string, fsys FS, clk Clock) *Store {
	s := &Store{path: path, fsys: fsys}
	s.listener.fns = make(map[int]func())
	s.gate = newReloadGate(clk, s.reloadAndNotify)
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the backing content, reparses every line against the entry
// grammar and replaces the whole in-memory set. An absent file means zero
// entries, not an error.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.read()
	if err != nil {
		return nil, err
	}

	s.entries = s.entries[:0]
	for _, line := range strings.Split(content, "\n") {
		if e, ok := ParseLine(line); ok {
			s.entries = append(s.entries, e)
		}
	}
	return s.copyEntries(), nil
}

// Add encodes the fields as a new line, appends it to the file and to
// memory. Existing lines are never resorted.
func (s *Store) Add(f Fields) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		Date:        f.Date,
		Start:       f.Start,
		End:         f.End,
		Description: f.Description,
		Tags:        append([]string(nil), f.Tags...),
		Pomodoro:    f.Pomodoro,
		Break:       f.Break,
	}
	e.ID = EntryID(e.Date, e.Start, e.End)
	e.Line = EncodeLine(e)

	content, err := s.read()
	if err != nil {
		return Entry{}, err
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += e.Line + "\n"

	// Memory stays ahead of disk on a failed write; the next successful
	// write or external reload resolves the window.
	s.entries = append(s.entries, e)
	if err := s.persist(content); err != nil {
		return e.clone(), err
	}
	return e.clone(), nil
}

// Update merges the patch onto a copy of the entry with the given id,
// recomputes its identity, and replaces the first file line whose trimmed
// text equals the entry's old encoded line. An unknown id is a silent no-op.
// When no file line matches, the file is left unchanged but memory is still
// updated.
func (s *Store) Update(id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	old := s.entries[idx]
	updated := old.clone()
	if p.Date != nil {
		updated.Date = *p.Date
	}
	if p.Start != nil {
		updated.Start = *p.Start
	}
	if p.End != nil {
		updated.End = *p.End
	}
	if p.Description != nil {
		updated.Description = *p.Description
	}
	if p.Tags != nil {
		updated.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Pomodoro != nil {
		updated.Pomodoro = *p.Pomodoro
	}
	if p.Break != nil {
		updated.Break = *p.Break
	}
	updated.ID = EntryID(updated.Date, updated.Start, updated.End)
	updated.Line = EncodeLine(updated)

	content, err := s.read()
	if err != nil {
		return err
	}

	lines := strings.Split(content, "\n")
	oldLine := EncodeLine(old)
	replaced := false
	for i, line := range lines {
		if strings.TrimSpace(line) == oldLine {
			lines[i] = updated.Line
			replaced = true
			break
		}
	}

	s.entries[idx] = updated
	if !replaced {
		return nil
	}
	return s.persist(strings.Join(lines, "\n"))
}

// Delete removes the first file line matching the entry's stored original
// line text and drops the entry from memory. An unknown id is a silent
// no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	target := strings.TrimSpace(s.entries[idx].Line)

	content, err := s.read()
	if err != nil {
		return err
	}

	lines := strings.Split(content, "\n")
	removed := false
	for i, line := range lines {
		if strings.TrimSpace(line) == target {
			lines = append(lines[:i], lines[i+1:]...)
			removed = true
			break
		}
	}

	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	if !removed {
		return nil
	}
	return s.persist(strings.Join(lines, "\n"))
}

// EntriesForDate returns copies of the entries on the given ISO date, in
// file order.
func (s *Store) EntriesForDate(date string) []Entry {
	return s.EntriesForRange(date, date)
}

// EntriesForRange returns copies of the entries whose date falls within
// [start, end], inclusive. The fixed-width ISO format makes lexicographic
// comparison correct.
func (s *Store) EntriesForRange(start, end string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, e := range s.entries {
		if e.Date >= start && e.Date <= end {
			out = append(out, e.clone())
		}
	}
	return out
}

// TotalMinutesForDate sums the raw span lengths of a date's entries.
// Overlapping entries are not merged.
func (s *Store) TotalMinutesForDate(date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, e := range s.entries {
		if e.Date == date {
			total += e.DurationMinutes()
		}
	}
	return total
}

// Tags returns every distinct tag currently in the store, sorted. Used by
// the inline editor's autocomplete.
func (s *Store) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, e := range s.entries {
		for _, tag := range e.Tags {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Subscribe registers a callback fired after an externally-triggered reload.
// It is not fired for the caller's own mutations. The returned func cancels
// the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.listener.next
	s.listener.next++
	s.listener.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listener.fns, id)
	}
}

// SetReloadVeto installs a hook consulted on every file-change notification.
// When it reports true the notification is dropped, e.g. because the file is
// open in another editing surface.
func (s *Store) SetReloadVeto(fn func() bool) {
	s.gate.setVeto(fn)
}

// FileChanged feeds an external change notification into the reload gate.
// Exposed for the watcher and for tests.
func (s *Store) FileChanged() {
	s.gate.fileChanged()
}

func (s *Store) read() (string, error) {
	data, err := s.fsys.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	return string(data), nil
}

func (s *Store) persist(content string) error {
	s.gate.beginSelfWrite()
	if err := s.fsys.WriteFile(s.path, []byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) copyEntries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

// reloadAndNotify is the debounced reaction to an external edit.
func (s *Store) reloadAndNotify() {
	if _, err := s.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "tempo: reload %s: %v\n", s.path, err)
		return
	}

	s.mu.Lock()
	fns := make([]func(), 0, len(s.listener.fns))
	for _, fn := range s.listener.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
