package editor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
	graphemeutil "github.com/iw2rmb/chatline/internal/grapheme"
)

func (m *Model) renderContent() string {
	buf := m.comp.Buffer()
	st := m.cfg.Style
	focused := m.comp.Focused()

	if buf.Len() == 0 && m.cfg.Placeholder != "" {
		return m.renderPlaceholder()
	}

	g := m.layout.grid(buf)
	cursor := buf.Cursor()
	sel, selOK := buf.Selection()
	mentions := resolvedMentions(buf, m.comp.Mentions())

	inMention := func(gl glyph) bool {
		for _, r := range mentions {
			if gl.start >= r.Start && gl.end <= r.End {
				return true
			}
		}
		return false
	}

	out := make([]string, g.rows())
	for row := range out {
		var sb strings.Builder
		for _, gl := range g.rowGlyphs(row) {
			isCursor := focused && gl.start == cursor
			selected := selOK && gl.start >= sel.Start && gl.end <= sel.End

			switch gl.kind {
			case glyphNewline:
				switch {
				case isCursor:
					sb.WriteString(st.Cursor.Render(" "))
				case selected:
					sb.WriteString(st.Selection.Render(" "))
				}
			case glyphEmoji:
				switch {
				case isCursor:
					sb.WriteString(st.Cursor.Render(strings.Repeat(" ", gl.width)))
				case selected:
					sb.WriteString(st.Selection.Render(strings.Repeat(" ", gl.width)))
				default:
					sb.WriteString(m.renderEmoji(gl))
				}
			default:
				text := gl.text
				if text == "\t" || text == buffer.PlaceholderText {
					text = strings.Repeat(" ", gl.width)
				}
				style := st.Text
				if inMention(gl) {
					style = st.Mention.Inherit(st.Text)
				}
				switch {
				case isCursor:
					style = st.Cursor
				case selected:
					style = st.Selection
				}
				sb.WriteString(style.Render(text))
			}
		}
		if focused && cursor == buf.Len() && g.end.row == row {
			sb.WriteString(st.Cursor.Render(" "))
		}
		out[row] = sb.String()
	}
	return strings.Join(out, "\n")
}

// renderEmoji draws a still emoji inline as half-block pixels. Animated emoji
// and emoji without an image leave blank cells; overlays cover the former.
func (m *Model) renderEmoji(gl glyph) string {
	st := m.cfg.Style.Emoji
	key := gl.token.Key()
	img, ok := m.comp.Image(key)
	if !ok || gl.token.Animated() {
		return st.Render(strings.Repeat(" ", gl.width))
	}
	return m.cells.render(st, key, img, 0, gl.width, 1)[0]
}

func (m *Model) renderPlaceholder() string {
	st := m.cfg.Style
	text := m.cfg.Placeholder
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if w := m.viewport.Width; w > 0 {
		text = runewidth.Truncate(text, w-1, "")
	}
	if !m.comp.Focused() {
		return st.Placeholder.Render(text)
	}
	clusters := graphemeutil.Split(text)
	if len(clusters) == 0 {
		return st.Cursor.Render(" ")
	}
	return st.Cursor.Render(clusters[0]) + st.Placeholder.Render(strings.Join(clusters[1:], ""))
}

// resolvedMentions returns the runs of mention-tagged text that resolve to a
// registered mention. Adjacent mention spans form one run.
func resolvedMentions(buf *buffer.Buffer, mentions *block.MentionRegistry) []buffer.Range {
	var out []buffer.Range
	var run buffer.Range
	open := false
	flush := func() {
		if !open {
			return
		}
		if _, ok := mentions.Lookup(buf.Substring(run)); ok {
			out = append(out, run)
		}
		open = false
	}

	spans := buf.SpansFunc(func(t buffer.Tag) bool {
		mt, ok := t.(buffer.MentionTag)
		return ok && mt.Valid()
	})
	for _, s := range spans {
		if open && s.Range.Start == run.End {
			run.End = s.Range.End
			continue
		}
		flush()
		run, open = s.Range, true
	}
	flush()
	return out
}
