package buffer

import "testing"

func TestBuffer_Apply_AppliesSequentiallyAgainstEvolvingState(t *testing.T) {
	b := New("hello", Options{})
	v := b.Version()

	b.Apply(
		TextEdit{Range: Range{Start: 0, End: 0}, Text: "X"},
		TextEdit{Range: Range{Start: 1, End: 2}, Text: ""},
	)

	if got, want := b.Text(), "Xello"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got := b.Cursor(); got != 1 {
		t.Fatalf("cursor=%d, want 1", got)
	}
	if got := b.Version(); got != v+1 {
		t.Fatalf("version=%d, want %d", got, v+1)
	}

	ch, ok := b.LastChange()
	if !ok || len(ch.AppliedEdits) != 2 {
		t.Fatalf("expected one change with two applied edits, got %v", ch)
	}

	if !b.Undo() {
		t.Fatalf("expected Undo=true")
	}
	if got, want := b.Text(), "hello"; got != want {
		t.Fatalf("text after undo=%q, want %q (one undo step)", got, want)
	}
}

func TestBuffer_Apply_ClampsOutOfBoundsRanges(t *testing.T) {
	b := New("ab", Options{})

	b.Apply(
		TextEdit{Range: Range{Start: 999, End: 999}, Text: "X"},
		TextEdit{Range: Range{Start: -5, End: -9}, Text: "Y"},
	)

	if got, want := b.Text(), "YabX"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got := b.Cursor(); got != 1 {
		t.Fatalf("cursor=%d, want 1", got)
	}
}

func TestBuffer_Apply_TaggedEditsAndNoOps(t *testing.T) {
	b := New("", Options{})
	tag := NewMentionTag()

	b.Apply(TextEdit{Text: "@ann", Tag: tag})
	spans := b.Spans()
	if len(spans) != 1 || spans[0].Range != (Range{Start: 0, End: 4}) {
		t.Fatalf("spans=%v, want [0,4)", spans)
	}

	v := b.Version()
	b.Apply(TextEdit{Range: Range{Start: 2, End: 2}})
	b.Apply()
	if b.Version() != v {
		t.Fatalf("expected no-op applies to keep version %d, got %d", v, b.Version())
	}
}
