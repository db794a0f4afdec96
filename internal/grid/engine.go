// Package grid turns continuous pointer input into discrete 15-minute
// time-entry operations. The engine is a pure state machine fed abstract
// press/move/release events, so gestures are testable headlessly by replaying
// synthetic sequences; only the view layer knows about real terminal cells.
package grid

import (
	"math"

	"github.com/nvasani/tempo/internal/store"
	"github.com/nvasani/tempo/internal/timeutil"
)

// Layout holds the vertical geometry used to translate pointer coordinates
// into slots. The values are display units, not a rendering dependency.
type Layout struct {
	HeaderHeight float64
	SlotHeight   float64
}

// DefaultLayout matches the original grid proportions.
var DefaultLayout = Layout{HeaderHeight: 40, SlotHeight: 15}

// SlotAt maps a pointer Y coordinate to the slot under it, clamped to the
// valid range.
func (l Layout) SlotAt(y float64) int {
	slot := int(math.Floor((y - l.HeaderHeight) / l.SlotHeight))
	return timeutil.ClampSlot(slot)
}

// DeltaSlots converts a vertical pointer displacement to whole slots.
func (l Layout) DeltaSlots(deltaY float64) int {
	return int(math.Round(deltaY / l.SlotHeight))
}

// Target identifies what part of the grid a press landed on.
type Target int

const (
	TargetCell Target = iota
	TargetEntryBody
	TargetEntryTop
	TargetEntryBottom
)

// Span is a half-open slot interval within one day.
type Span struct {
	Start int // inclusive
	End   int // exclusive
}

// EntryRef is the engine's view of an existing entry: identity plus the slot
// span it occupied when the gesture began.
type EntryRef struct {
	ID   string
	Span Span
}

// Actions emitted by the engine. The view coordinator applies them against
// the store and re-renders once the awaited mutation resolves.
type (
	// OpenEditor positions the inline text editor over a span. EntryID is
	// empty for a new entry; for an existing one InitialText is prefilled
	// with the description and tags.
	OpenEditor struct {
		Day         int
		Span        Span
		EntryID     string
		InitialText string
	}

	// CreateEntry confirms a painted span with its typed text parsed for
	// #tags.
	CreateEntry struct {
		Day         int
		Span        Span
		Description string
		Tags        []string
	}

	// UpdateSpan commits a completed move or resize.
	UpdateSpan struct {
		EntryID string
		Span    Span
	}

	// UpdateText rewrites description and tags only, never times.
	UpdateText struct {
		EntryID     string
		Description string
		Tags        []string
	}

	// DeleteEntry removes the focused entry.
	DeleteEntry struct {
		EntryID string
	}
)

// Action is one of the engine's intent types, or nil when an event causes no
// storage work.
type Action any

type stateKind int

const (
	stateIdle stateKind = iota
	statePainting
	stateDragging
)

type dragMode int

const (
	dragMove dragMode = iota
	dragResizeTop
	dragResizeBottom
)

type editorCtx struct {
	open    bool
	day     int
	span    Span
	entryID string // "" when creating
}

// Engine is the per-gesture interaction state machine. It is not safe for
// concurrent use; the event loop that owns it is single-threaded.
type Engine struct {
	layout Layout

	state stateKind

	// painting
	paintDay    int
	anchorSlot  int
	currentSlot int

	// dragging
	mode    dragMode
	drag    EntryRef
	dragDay int
	pressY  float64
	lastY   float64

	editor  editorCtx
	focused string
}

// New returns an idle engine with the given layout geometry.
func New(layout Layout) *Engine {
	return &Engine{layout: layout}
}

// Press starts a gesture. A press on an empty cell begins painting a new
// entry and clears focus; a press on an entry's body or edge handles begins
// a move or resize and focuses the entry. ref must be non-nil for entry
// targets. While the inline editor is open, presses are ignored.
func (e *Engine) Press(day int, y float64, target Target, ref *EntryRef) {
	if e.editor.open || e.state != stateIdle {
		return
	}

	switch target {
	case TargetCell:
		e.state = statePainting
		e.paintDay = day
		e.anchorSlot = e.layout.SlotAt(y)
		e.currentSlot = e.anchorSlot
		e.focused = ""
	case TargetEntryBody, TargetEntryTop, TargetEntryBottom:
		if ref == nil {
			return
		}
		e.state = stateDragging
		switch target {
		case TargetEntryBody:
			e.mode = dragMove
		case TargetEntryTop:
			e.mode = dragResizeTop
		default:
			e.mode = dragResizeBottom
		}
		e.drag = *ref
		e.dragDay = day
		e.pressY = y
		e.lastY = y
		e.focused = ref.ID
	}
}

// Move advances an in-progress gesture. Outside a gesture it is a no-op.
func (e *Engine) Move(y float64) {
	switch e.state {
	case statePainting:
		e.currentSlot = e.layout.SlotAt(y)
	case stateDragging:
		e.lastY = y
	}
}

// Release ends the gesture. Finishing a paint normalizes the anchor/current
// slots into a span (a plain click yields one slot) and opens the inline
// editor. Finishing a drag commits the new span only when it differs from
// the initial one; a no-op drag issues no storage call.
func (e *Engine) Release(y float64) Action {
	switch e.state {
	case statePainting:
		e.state = stateIdle
		e.currentSlot = e.layout.SlotAt(y)
		span := normalizeSpan(e.anchorSlot, e.currentSlot)
		e.editor = editorCtx{open: true, day: e.paintDay, span: span}
		return OpenEditor{Day: e.paintDay, Span: span}

	case stateDragging:
		e.state = stateIdle
		e.lastY = y
		span := e.dragSpan()
		if span == e.drag.Span {
			return nil
		}
		return UpdateSpan{EntryID: e.drag.ID, Span: span}
	}
	return nil
}

// DoubleClick opens the inline editor over an existing entry, prefilled with
// its description followed by its tags. Confirming updates text only.
func (e *Engine) DoubleClick(day int, ref EntryRef, description string, tags []string) Action {
	if e.editor.open {
		return nil
	}
	e.state = stateIdle
	e.focused = ref.ID

	text := description
	for _, tag := range tags {
		if text != "" {
			text += " "
		}
		text += "#" + tag
	}

	e.editor = editorCtx{open: true, day: day, span: ref.Span, entryID: ref.ID}
	return OpenEditor{Day: day, Span: ref.Span, EntryID: ref.ID, InitialText: text}
}

// ConfirmEditor commits the open inline editor with the typed text. The text
// is parsed for #tags with the same rules as file content.
func (e *Engine) ConfirmEditor(text string) Action {
	if !e.editor.open {
		return nil
	}
	ctx := e.editor
	e.editor = editorCtx{}

	desc, tags := store.SplitTags(text)
	if ctx.entryID != "" {
		return UpdateText{EntryID: ctx.entryID, Description: desc, Tags: tags}
	}
	return CreateEntry{Day: ctx.day, Span: ctx.span, Description: desc, Tags: tags}
}

// CancelEditor discards the open inline editor.
func (e *Engine) CancelEditor() {
	e.editor = editorCtx{}
}

// KeyDelete deletes the focused entry, unless an editor is open (the key
// belongs to the text input then).
func (e *Engine) KeyDelete() Action {
	if e.editor.open || e.focused == "" {
		return nil
	}
	id := e.focused
	e.focused = ""
	return DeleteEntry{EntryID: id}
}

// KeyEscape cancels an open editor, otherwise clears focus.
func (e *Engine) KeyEscape() {
	if e.editor.open {
		e.editor = editorCtx{}
		return
	}
	e.focused = ""
}

// FocusedID reports the entry with keyboard focus, or "".
func (e *Engine) FocusedID() string { return e.focused }

// EditorOpen reports whether the inline editor is showing.
func (e *Engine) EditorOpen() bool { return e.editor.open }

// EditorSpan returns the day and span the open editor is positioned at.
func (e *Engine) EditorSpan() (day int, span Span, ok bool) {
	if !e.editor.open {
		return 0, Span{}, false
	}
	return e.editor.day, e.editor.span, true
}

// Preview exposes the in-progress span for rendering: the painted range
// while painting, or the would-be span of the dragged entry.
func (e *Engine) Preview() (day int, span Span, ok bool) {
	switch e.state {
	case statePainting:
		return e.paintDay, normalizeSpan(e.anchorSlot, e.currentSlot), true
	case stateDragging:
		return e.dragDay, e.dragSpan(), true
	}
	return 0, Span{}, false
}

// dragSpan applies the clamping rules for the current drag mode.
func (e *Engine) dragSpan() Span {
	delta := e.layout.DeltaSlots(e.lastY - e.pressY)
	init := e.drag.Span

	switch e.mode {
	case dragMove:
		duration := init.End - init.Start
		start := clampInt(init.Start+delta, 0, timeutil.SlotsPerDay-1)
		end := start + duration
		if end > timeutil.SlotsPerDay {
			end = timeutil.SlotsPerDay
		}
		// Re-derive the start so the whole span is clamped, not just its
		// leading edge.
		return Span{Start: end - duration, End: end}

	case dragResizeTop:
		start := clampInt(init.Start+delta, 0, init.End-1)
		return Span{Start: start, End: init.End}

	default: // dragResizeBottom
		end := clampInt(init.End+delta, init.Start+1, timeutil.SlotsPerDay)
		return Span{Start: init.Start, End: end}
	}
}

func normalizeSpan(a, b int) Span {
	if a > b {
		a, b = b, a
	}
	return Span{Start: a, End: b + 1}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
