package buffer

import "testing"

func TestBuffer_LastChange_InitialAndNoOp(t *testing.T) {
	b := New("a", Options{})

	if _, ok := b.LastChange(); ok {
		t.Fatalf("expected no initial change")
	}

	b.Move(Move{Unit: MoveGrapheme, Dir: DirLeft}) // no-op at BOF
	if _, ok := b.LastChange(); ok {
		t.Fatalf("expected no change after no-op mutation")
	}
}

func TestBuffer_Change_InsertTextShape(t *testing.T) {
	b := New("ab", Options{})
	b.SetCursor(1)
	v := b.Version()

	b.InsertText("X")

	ch, ok := b.LastChange()
	if !ok {
		t.Fatalf("expected last change")
	}
	if got, want := ch.VersionBefore, v; got != want {
		t.Fatalf("version before=%d, want %d", got, want)
	}
	if got, want := ch.VersionAfter, v+1; got != want {
		t.Fatalf("version after=%d, want %d", got, want)
	}
	if got, want := ch.CursorBefore, 1; got != want {
		t.Fatalf("cursor before=%d, want %d", got, want)
	}
	if got, want := ch.CursorAfter, 2; got != want {
		t.Fatalf("cursor after=%d, want %d", got, want)
	}
	if ch.SelectionBefore.Active || ch.SelectionAfter.Active {
		t.Fatalf("expected inactive selection before and after")
	}
	if got, want := len(ch.AppliedEdits), 1; got != want {
		t.Fatalf("applied edits=%d, want %d", got, want)
	}

	e := ch.AppliedEdits[0]
	if got, want := e.RangeBefore, (Range{Start: 1, End: 1}); got != want {
		t.Fatalf("range before=%v, want %v", got, want)
	}
	if got, want := e.RangeAfter, (Range{Start: 1, End: 2}); got != want {
		t.Fatalf("range after=%v, want %v", got, want)
	}
	if e.InsertText != "X" || e.DeletedText != "" {
		t.Fatalf("edit text=%q/%q, want X/empty", e.InsertText, e.DeletedText)
	}
}

func TestBuffer_Change_DeleteRecordsDeletedSpans(t *testing.T) {
	b := New("", Options{})
	tag := NewMentionTag()
	b.Insert(0, "@here", tag)
	b.Insert(5, " ", nil)

	b.Delete(Range{Start: 0, End: 5})

	ch, ok := b.LastChange()
	if !ok {
		t.Fatalf("expected last change")
	}
	e := ch.AppliedEdits[0]
	if e.DeletedText != "@here" {
		t.Fatalf("deleted=%q, want @here", e.DeletedText)
	}
	if len(e.DeletedSpans) != 1 || e.DeletedSpans[0].Tag != tag {
		t.Fatalf("deleted spans=%v, want the mention span", e.DeletedSpans)
	}
	if got, want := ch.CursorAfter, 1; got != want {
		t.Fatalf("cursor after=%d, want %d", got, want)
	}
}

func TestBuffer_Change_TaggedInsertRecordsTag(t *testing.T) {
	b := New("", Options{})
	tag := NewEmojiTag(":wave:")
	b.Insert(0, PlaceholderText, tag)

	ch, _ := b.LastChange()
	if got := ch.AppliedEdits[0].Tag; got != tag {
		t.Fatalf("tag=%v, want %v", got, tag)
	}
}
