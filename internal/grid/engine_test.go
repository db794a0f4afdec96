package grid_test

import (
	"reflect"
	"testing"

	"github.com/nvasani/tempo/internal/grid"
)

// y returns the pointer Y coordinate of the vertical middle of a slot under
// the default layout.
func y(slot int) float64 {
	return grid.DefaultLayout.HeaderHeight + (float64(slot)+0.5)*grid.DefaultLayout.SlotHeight
}

func TestPaintGesture(t *testing.T) {
	e := grid.New(grid.DefaultLayout)

	e.Press(2, y(36), grid.TargetCell, nil) // 09:00 on day 2
	e.Move(y(39))
	act := e.Release(y(41))

	open, ok := act.(grid.OpenEditor)
	if !ok {
		t.Fatalf("expected OpenEditor, got %T", act)
	}
	if open.Day != 2 {
		t.Errorf("day = %d, want 2", open.Day)
	}
	if open.Span != (grid.Span{Start: 36, End: 42}) {
		t.Errorf("span = %+v, want 36..42", open.Span)
	}
	if !e.EditorOpen() {
		t.Error("editor should be open after release")
	}

	act = e.ConfirmEditor("Fix login bug #dev #urgent")
	create, ok := act.(grid.CreateEntry)
	if !ok {
		t.Fatalf("expected CreateEntry, got %T", act)
	}
	if create.Description != "Fix login bug" {
		t.Errorf("description = %q", create.Description)
	}
	if !reflect.DeepEqual(create.Tags, []string{"dev", "urgent"}) {
		t.Errorf("tags = %v", create.Tags)
	}
	if e.EditorOpen() {
		t.Error("editor should close on confirm")
	}
}

func TestSingleClickPaintsOneSlot(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	e.Press(0, y(40), grid.TargetCell, nil)
	act := e.Release(y(40))

	open := act.(grid.OpenEditor)
	if open.Span != (grid.Span{Start: 40, End: 41}) {
		t.Errorf("span = %+v, want a 1-slot span", open.Span)
	}
}

func TestPaintUpwardNormalizes(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	e.Press(1, y(50), grid.TargetCell, nil)
	act := e.Release(y(44))

	open := act.(grid.OpenEditor)
	if open.Span != (grid.Span{Start: 44, End: 51}) {
		t.Errorf("span = %+v, want 44..51", open.Span)
	}
}

func TestCancelEditorDiscards(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	e.Press(0, y(10), grid.TargetCell, nil)
	e.Release(y(10))

	e.CancelEditor()
	if e.EditorOpen() {
		t.Error("editor still open after cancel")
	}
	if act := e.ConfirmEditor("text"); act != nil {
		t.Errorf("confirm after cancel produced %T", act)
	}
}

func TestMoveCommitsChangedSpan(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 36, End: 40}}

	e.Press(3, y(37), grid.TargetEntryBody, &ref)
	e.Move(y(37) + 4*grid.DefaultLayout.SlotHeight)
	act := e.Release(y(37) + 4*grid.DefaultLayout.SlotHeight)

	up, ok := act.(grid.UpdateSpan)
	if !ok {
		t.Fatalf("expected UpdateSpan, got %T", act)
	}
	if up.EntryID != "a" || up.Span != (grid.Span{Start: 40, End: 44}) {
		t.Errorf("got %+v", up)
	}
}

func TestNoopMoveIssuesNoAction(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 36, End: 40}}

	e.Press(3, y(37), grid.TargetEntryBody, &ref)
	e.Move(y(37) + 2) // less than half a slot
	if act := e.Release(y(37) + 2); act != nil {
		t.Errorf("no-op move produced %T", act)
	}
	if got := e.FocusedID(); got != "a" {
		t.Errorf("click should focus the entry, focused = %q", got)
	}
}

func TestMoveClampsWholeSpanToDayEnd(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	// A late-evening 5-slot entry: 22:30 start, slots 90..95.
	ref := grid.EntryRef{ID: "late", Span: grid.Span{Start: 90, End: 95}}

	e.Press(0, y(91), grid.TargetEntryBody, &ref)
	delta := 10 * grid.DefaultLayout.SlotHeight
	act := e.Release(y(91) + delta)

	up, ok := act.(grid.UpdateSpan)
	if !ok {
		t.Fatalf("expected UpdateSpan, got %T", act)
	}
	// Duration preserved, span clamped to the end of day: 91..96.
	if up.Span != (grid.Span{Start: 91, End: 96}) {
		t.Errorf("span = %+v, want 91..96", up.Span)
	}
}

func TestMoveClampsToDayStart(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "early", Span: grid.Span{Start: 2, End: 6}}

	e.Press(0, y(3), grid.TargetEntryBody, &ref)
	act := e.Release(y(3) - 20*grid.DefaultLayout.SlotHeight)

	up := act.(grid.UpdateSpan)
	if up.Span != (grid.Span{Start: 0, End: 4}) {
		t.Errorf("span = %+v, want 0..4", up.Span)
	}
}

func TestResizeTopNeverReachesEnd(t *testing.T) {
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 40, End: 44}}
	for delta := -50; delta <= 50; delta++ {
		e := grid.New(grid.DefaultLayout)
		e.Press(0, y(40), grid.TargetEntryTop, &ref)
		act := e.Release(y(40) + float64(delta)*grid.DefaultLayout.SlotHeight)

		span := ref.Span
		if up, ok := act.(grid.UpdateSpan); ok {
			span = up.Span
		}
		if span.Start >= span.End {
			t.Fatalf("delta %d: start %d >= end %d", delta, span.Start, span.End)
		}
		if span.End != ref.Span.End {
			t.Fatalf("delta %d: resize-top moved the end to %d", delta, span.End)
		}
		if span.Start < 0 {
			t.Fatalf("delta %d: start %d below day start", delta, span.Start)
		}
	}
}

func TestResizeBottomNeverReachesStart(t *testing.T) {
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 40, End: 44}}
	for delta := -50; delta <= 60; delta++ {
		e := grid.New(grid.DefaultLayout)
		e.Press(0, y(43), grid.TargetEntryBottom, &ref)
		act := e.Release(y(43) + float64(delta)*grid.DefaultLayout.SlotHeight)

		span := ref.Span
		if up, ok := act.(grid.UpdateSpan); ok {
			span = up.Span
		}
		if span.End <= span.Start {
			t.Fatalf("delta %d: end %d <= start %d", delta, span.End, span.Start)
		}
		if span.End > 96 {
			t.Fatalf("delta %d: end %d beyond day bound", delta, span.End)
		}
		if span.Start != ref.Span.Start {
			t.Fatalf("delta %d: resize-bottom moved the start to %d", delta, span.Start)
		}
	}
}

func TestDoubleClickEditsTextOnly(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 36, End: 40}}

	act := e.DoubleClick(1, ref, "Deep work", []string{"dev", "focus"})
	open, ok := act.(grid.OpenEditor)
	if !ok {
		t.Fatalf("expected OpenEditor, got %T", act)
	}
	if open.InitialText != "Deep work #dev #focus" {
		t.Errorf("initial text = %q", open.InitialText)
	}
	if open.EntryID != "a" || open.Span != ref.Span {
		t.Errorf("got %+v", open)
	}

	act = e.ConfirmEditor("Deep work, refactor #dev")
	up, ok := act.(grid.UpdateText)
	if !ok {
		t.Fatalf("expected UpdateText, got %T", act)
	}
	if up.EntryID != "a" || up.Description != "Deep work, refactor" || !reflect.DeepEqual(up.Tags, []string{"dev"}) {
		t.Errorf("got %+v", up)
	}
}

func TestFocusAndDelete(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 10, End: 12}}

	// Clicking an entry focuses it.
	e.Press(0, y(10), grid.TargetEntryBody, &ref)
	e.Release(y(10))
	if e.FocusedID() != "a" {
		t.Fatalf("focused = %q, want a", e.FocusedID())
	}

	act := e.KeyDelete()
	del, ok := act.(grid.DeleteEntry)
	if !ok {
		t.Fatalf("expected DeleteEntry, got %T", act)
	}
	if del.EntryID != "a" {
		t.Errorf("deleted %q", del.EntryID)
	}
	if e.FocusedID() != "" {
		t.Error("focus should clear after delete")
	}

	// Delete with nothing focused is inert.
	if act := e.KeyDelete(); act != nil {
		t.Errorf("unfocused delete produced %T", act)
	}
}

func TestDeleteIgnoredWhileEditorOpen(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 10, End: 12}}
	e.Press(0, y(10), grid.TargetEntryBody, &ref)
	e.Release(y(10))

	e.DoubleClick(0, ref, "text", nil)
	if act := e.KeyDelete(); act != nil {
		t.Errorf("delete while editing produced %T", act)
	}
}

func TestEscapeSemantics(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 10, End: 12}}

	e.DoubleClick(0, ref, "text", nil)
	e.KeyEscape()
	if e.EditorOpen() {
		t.Error("escape should cancel the editor")
	}
	if e.FocusedID() != "a" {
		t.Error("first escape only closes the editor, focus stays")
	}

	e.KeyEscape()
	if e.FocusedID() != "" {
		t.Error("second escape should clear focus")
	}
}

func TestPressOnCellClearsFocus(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	ref := grid.EntryRef{ID: "a", Span: grid.Span{Start: 10, End: 12}}
	e.Press(0, y(10), grid.TargetEntryBody, &ref)
	e.Release(y(10))

	e.Press(0, y(50), grid.TargetCell, nil)
	if e.FocusedID() != "" {
		t.Error("painting press should clear focus")
	}
}

func TestPreviewWhilePainting(t *testing.T) {
	e := grid.New(grid.DefaultLayout)
	e.Press(4, y(20), grid.TargetCell, nil)
	e.Move(y(25))

	day, span, ok := e.Preview()
	if !ok || day != 4 || span != (grid.Span{Start: 20, End: 26}) {
		t.Errorf("preview = %d %+v %v", day, span, ok)
	}
}

func TestPixelMappingClamps(t *testing.T) {
	l := grid.DefaultLayout
	if got := l.SlotAt(0); got != 0 {
		t.Errorf("SlotAt(0) = %d, header area must clamp to slot 0", got)
	}
	if got := l.SlotAt(l.HeaderHeight + 96*l.SlotHeight + 100); got != 95 {
		t.Errorf("SlotAt below grid = %d, want 95", got)
	}
	if got := l.SlotAt(l.HeaderHeight); got != 0 {
		t.Errorf("SlotAt(header bottom) = %d, want 0", got)
	}
}
