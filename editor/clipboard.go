package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/chatline/buffer"
)

// Clipboard provides editor-level clipboard integration.
//
// Errors must not crash the UI; failures are logged and ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// selectedText returns the selection as plain text. Emoji placeholders are
// written as their escaped form.
func (m Model) selectedText() string {
	buf := m.comp.Buffer()
	r, ok := buf.Selection()
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, ch := range buf.Chars() {
		if ch.Start < r.Start || ch.End > r.End {
			continue
		}
		if ch.Text != buffer.PlaceholderText {
			sb.WriteString(ch.Text)
			continue
		}
		tag, ok := buf.TagAt(ch.Start)
		if !ok {
			continue
		}
		if et, ok := tag.(buffer.EmojiTag); ok {
			if tok, ok := m.comp.Emojis().Lookup(et.Key); ok {
				sb.WriteString(tok.Escaped)
			}
		}
	}
	return sb.String()
}

func (m Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	s := m.selectedText()
	if s == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(s); err != nil {
		m.log.Debug("clipboard write failed", "err", err)
	}
}

func (m Model) cutSelection() tea.Cmd {
	if m.cfg.Clipboard == nil {
		return nil
	}
	m.copySelection()
	return m.comp.DeleteSelection()
}

func (m Model) pasteClipboard() tea.Cmd {
	if m.cfg.Clipboard == nil {
		return nil
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.log.Debug("clipboard read failed", "err", err)
		return nil
	}
	return m.comp.InsertPlain(normalizePasted(s))
}

// normalizePasted converts external newlines and drops placeholder
// characters, which only emoji insertion may produce.
func normalizePasted(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, buffer.PlaceholderText, "")
}
