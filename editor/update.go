package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/chatline/buffer"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.comp.Focused() {
		return m, nil
	}
	buf := m.comp.Buffer()

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		return m, m.comp.InsertPlain(normalizePasted(string(msg.Runes)))
	}

	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Submit):
		return m, m.submit()
	case key.Matches(msg, km.Newline):
		return m, m.comp.InsertPlain("\n")
	case key.Matches(msg, km.Clear):
		return m, m.comp.Clear()

	case key.Matches(msg, km.Left):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft})
	case key.Matches(msg, km.Right):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight})
	case key.Matches(msg, km.Up):
		m.moveVertical(-1, false)
	case key.Matches(msg, km.Down):
		m.moveVertical(1, false)

	case key.Matches(msg, km.ShiftLeft):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		buf.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		m.moveVertical(-1, true)
	case key.Matches(msg, km.ShiftDown):
		m.moveVertical(1, true)

	case key.Matches(msg, km.WordLeft):
		buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirLeft})
	case key.Matches(msg, km.WordRight):
		buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirRight})

	case key.Matches(msg, km.Home):
		buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirHome})
	case key.Matches(msg, km.End):
		buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd})

	case key.Matches(msg, km.Backspace):
		return m, m.comp.DeleteBackward()
	case key.Matches(msg, km.Delete):
		return m, m.comp.DeleteForward()

	case key.Matches(msg, km.Undo):
		return m, m.comp.Undo()
	case key.Matches(msg, km.Redo):
		return m, m.comp.Redo()

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		return m, m.cutSelection()
	case key.Matches(msg, km.Paste):
		return m, m.pasteClipboard()

	default:
		switch msg.Type {
		case tea.KeyTab:
			return m, m.comp.InsertPlain("\t")
		case tea.KeySpace:
			return m, m.comp.InsertPlain(" ")
		case tea.KeyRunes:
			if len(msg.Runes) > 0 && !msg.Alt {
				return m, m.comp.InsertPlain(string(msg.Runes))
			}
		}
	}

	return m, nil
}

// submit emits the content and clears the input. An empty input is not
// submitted.
func (m Model) submit() tea.Cmd {
	blocks := m.comp.Blocks()
	if len(blocks) == 0 {
		return nil
	}
	send := submitCmd(blocks)
	return tea.Batch(send, m.comp.Clear())
}

// moveVertical moves the cursor by visual rows, keeping its cell column
// where the target row allows.
func (m Model) moveVertical(dir int, extend bool) {
	buf := m.comp.Buffer()
	p := m.layout.position(buf, buf.Cursor())
	target := p.row + dir

	var off int
	switch {
	case target < 0:
		off = 0
	case target >= m.layout.Rows(buf):
		off = buf.Len()
	default:
		off = m.layout.offsetAt(buf, target, p.col)
	}
	moveTo(buf, off, extend)
}

// moveTo places the cursor at off. With extend the selection grows from its
// anchor (or the old cursor) to off.
func moveTo(buf *buffer.Buffer, off int, extend bool) {
	if !extend {
		buf.ClearSelection()
		buf.SetCursor(off)
		return
	}
	anchor := buf.Cursor()
	if raw, ok := buf.SelectionRaw(); ok {
		anchor = raw.Start
	}
	buf.SetCursor(off)
	buf.SetSelection(buffer.Range{Start: anchor, End: off})
}
