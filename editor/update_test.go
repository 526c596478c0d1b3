package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
)

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := New(Config{})
	m = typeText(t, m, "ab")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = typeText(t, m, "X")
	buf := m.Composer().Buffer()
	if got := buf.Text(); got != "aXb" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb")
	}
	if got := buf.Cursor(); got != 2 {
		t.Fatalf("cursor after insert: got %d, want %d", got, 2)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := buf.Text(); got != "ab" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab")
	}
	if got := buf.Cursor(); got != 1 {
		t.Fatalf("cursor after backspace: got %d, want %d", got, 1)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	if got := buf.Text(); got != "a" {
		t.Fatalf("text after delete: got %q, want %q", got, "a")
	}
}

func TestUpdate_SpaceAndTab(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(keyRunes("a"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got, want := m.Composer().Buffer().Text(), "a \t"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestUpdate_AltRunesIgnored(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true})
	if got := m.Composer().Buffer().Text(); got != "" {
		t.Fatalf("text: got %q, want empty", got)
	}
}

func TestUpdate_BlurredIgnoresKeys(t *testing.T) {
	m := New(Config{}).Blur()
	m, _ = m.Update(keyRunes("x"))
	if got := m.Composer().Buffer().Text(); got != "" {
		t.Fatalf("text while blurred: got %q, want empty", got)
	}
}

func TestUpdate_SubmitEmitsBlocksAndClears(t *testing.T) {
	m := New(Config{})
	m = typeText(t, m, "hi ")
	m, _ = m.InsertMention(ann)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, msgs := run(t, m, cmd)
	if len(msgs) != 1 {
		t.Fatalf("submit messages: got %d, want 1", len(msgs))
	}
	sub := msgs[0].(SubmitMsg)
	want := []block.Block{block.Plain{Text: "hi "}, ann, block.Plain{Text: " "}}
	if diff := cmp.Diff(want, sub.Blocks); diff != "" {
		t.Fatalf("submitted blocks (-want +got):\n%s", diff)
	}
	if got, want := sub.Text, "hi <@U1> "; got != want {
		t.Fatalf("submitted text: got %q, want %q", got, want)
	}

	if got := m.Composer().Buffer().Text(); got != "" {
		t.Fatalf("text after submit: got %q, want empty", got)
	}
	if got := m.Composer().Mentions().Len(); got != 0 {
		t.Fatalf("mentions after submit: got %d, want 0", got)
	}
}

func TestUpdate_SubmitEmptyDoesNothing(t *testing.T) {
	m := New(Config{})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, msgs := run(t, m, cmd); len(msgs) != 0 {
		t.Fatalf("submit messages on empty input: got %d, want 0", len(msgs))
	}
}

func TestUpdate_NewlineAndClear(t *testing.T) {
	m := New(Config{})
	m = typeText(t, m, "a")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = typeText(t, m, "b")
	if got, want := m.Composer().Buffer().Text(), "a\nb"; got != want {
		t.Fatalf("text after newline: got %q, want %q", got, want)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if got := m.Composer().Buffer().Text(); got != "" {
		t.Fatalf("text after clear: got %q, want empty", got)
	}
	if m.Composer().Buffer().CanUndo() {
		t.Fatalf("clear must reset history")
	}
}

func TestUpdate_BackspaceRemovesMentionAtomically(t *testing.T) {
	m := New(Config{})
	m = typeText(t, m, "to ")
	m, _ = m.InsertMention(ann)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got, want := m.Composer().Buffer().Text(), "to @ann"; got != want {
		t.Fatalf("after first backspace: got %q, want %q", got, want)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got, want := m.Composer().Buffer().Text(), "to "; got != want {
		t.Fatalf("after second backspace: got %q, want %q", got, want)
	}
	if diff := cmp.Diff([]block.Block{block.Plain{Text: "to "}}, m.Blocks()); diff != "" {
		t.Fatalf("blocks (-want +got):\n%s", diff)
	}
}

func TestUpdate_UndoRedo(t *testing.T) {
	m := New(Config{})
	m = typeText(t, m, "ab")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := m.Composer().Buffer().Text(); got != "a" {
		t.Fatalf("text after undo: got %q, want %q", got, "a")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := m.Composer().Buffer().Text(); got != "ab" {
		t.Fatalf("text after redo: got %q, want %q", got, "ab")
	}
}

func TestUpdate_CopyCutPaste(t *testing.T) {
	clip := &memClipboard{}
	m := New(Config{Clipboard: clip, Loader: testLoader()})
	m = typeText(t, m, "hey ")
	m, cmd := m.InsertEmoji(blob)
	m, _ = run(t, m, cmd)
	buf := m.Composer().Buffer()

	buf.SetSelection(buffer.Range{Start: 0, End: buf.Len()})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if got, want := clip.s, "hey :blob:"; got != want {
		t.Fatalf("copied: got %q, want %q", got, want)
	}

	buf.SetSelection(buffer.Range{Start: 0, End: 3})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if got, want := clip.s, "hey"; got != want {
		t.Fatalf("cut: got %q, want %q", got, want)
	}
	if got, want := buf.Text(), " "+buffer.PlaceholderText; got != want {
		t.Fatalf("text after cut: got %q, want %q", got, want)
	}

	clip.s = "a\r\nb\rc"
	buf.SetCursor(0)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	if got, want := buf.Text(), "a\nb\nc "+buffer.PlaceholderText; got != want {
		t.Fatalf("text after paste: got %q, want %q", got, want)
	}
}

func TestUpdate_PasteEventInsertsLiteralText(t *testing.T) {
	m := New(Config{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x\r\ny" + buffer.PlaceholderText), Paste: true})
	if got, want := m.Composer().Buffer().Text(), "x\ny"; got != want {
		t.Fatalf("text after paste: got %q, want %q", got, want)
	}
}

func TestUpdate_VerticalMovementFollowsWrappedRows(t *testing.T) {
	m := New(Config{})
	m, _ = m.SetSize(4, 10)
	m = typeText(t, m, "abcdefgh")
	buf := m.Composer().Buffer()

	steps := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{msg: tea.KeyMsg{Type: tea.KeyUp}, want: 4},
		{msg: tea.KeyMsg{Type: tea.KeyUp}, want: 0},
		{msg: tea.KeyMsg{Type: tea.KeyUp}, want: 0},
		{msg: tea.KeyMsg{Type: tea.KeyRight}, want: 1},
		{msg: tea.KeyMsg{Type: tea.KeyDown}, want: 5},
		{msg: tea.KeyMsg{Type: tea.KeyDown}, want: 8},
	}
	for i, s := range steps {
		m, _ = m.Update(s.msg)
		if got := buf.Cursor(); got != s.want {
			t.Fatalf("step %d (%s): cursor got %d, want %d", i, s.msg, got, s.want)
		}
	}
}

func TestUpdate_ShiftMovementSelects(t *testing.T) {
	m := New(Config{})
	m = typeText(t, m, "abc")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})

	sel, ok := m.Composer().Buffer().Selection()
	if !ok || sel != (buffer.Range{Start: 1, End: 3}) {
		t.Fatalf("selection: got %v (%v), want [1,3)", sel, ok)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Composer().Buffer().Text(); got != "a" {
		t.Fatalf("text after deleting selection: got %q, want %q", got, "a")
	}
}

func TestUpdate_Notifications(t *testing.T) {
	var changes [][]block.Block
	var focus []bool
	m := New(Config{
		OnBlocksChanged: func(b []block.Block) { changes = append(changes, b) },
		OnFocusChanged:  func(f bool) { focus = append(focus, f) },
	})
	if len(focus) != 0 {
		t.Fatalf("focus notifications from New: got %v, want none", focus)
	}

	m = typeText(t, m, "hi")
	if got := len(changes); got != 2 {
		t.Fatalf("block notifications: got %d, want 2", got)
	}
	if diff := cmp.Diff([]block.Block{block.Plain{Text: "hi"}}, changes[1]); diff != "" {
		t.Fatalf("last notification (-want +got):\n%s", diff)
	}

	m = m.Blur()
	m = m.Blur()
	m = m.Focus()
	if diff := cmp.Diff([]bool{false, true}, focus); diff != "" {
		t.Fatalf("focus notifications (-want +got):\n%s", diff)
	}
}

func TestModel_HeightFollowsContent(t *testing.T) {
	m := New(Config{})
	m, _ = m.SetSize(4, 10)
	if got := m.Height(); got != 1 {
		t.Fatalf("empty height: got %d, want 1", got)
	}

	m = typeText(t, m, "abcdef")
	if got := m.Height(); got != 2 {
		t.Fatalf("height for two rows: got %d, want 2", got)
	}

	m = typeText(t, m, "ghijklmnop")
	if got := m.Height(); got != DefaultMaxHeight {
		t.Fatalf("height capped by MaxHeight: got %d, want %d", got, DefaultMaxHeight)
	}

	m, _ = m.SetSize(4, 2)
	if got := m.Height(); got != 2 {
		t.Fatalf("height capped by SetSize: got %d, want 2", got)
	}
	if got, want := m.viewport.YOffset, 3; got != want {
		t.Fatalf("viewport follows cursor: got offset %d, want %d", got, want)
	}
}

func TestUpdate_MouseClickAndDrag(t *testing.T) {
	m := New(Config{})
	m, _ = m.SetSize(10, 4)
	m = typeText(t, m, "hello")
	buf := m.Composer().Buffer()

	m, _ = m.Update(tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := buf.Cursor(); got != 1 {
		t.Fatalf("cursor after click: got %d, want 1", got)
	}

	m, _ = m.Update(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	sel, ok := buf.Selection()
	if !ok || sel != (buffer.Range{Start: 1, End: 4}) {
		t.Fatalf("selection after drag: got %v (%v), want [1,4)", sel, ok)
	}

	m, _ = m.Update(tea.MouseMsg{X: 9, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := buf.Cursor(); got != 5 {
		t.Fatalf("cursor after click past end: got %d, want 5", got)
	}
	if _, ok := buf.Selection(); ok {
		t.Fatalf("click must clear the selection")
	}
}
