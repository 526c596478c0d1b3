package editor

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/chatline/composer"
)

// frameMsg advances emoji animations by one frame interval.
type frameMsg struct {
	tag int
}

func (m Model) frameCmd() tea.Cmd {
	tag := m.tickTag
	return tea.Tick(m.cfg.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{tag: tag}
	})
}

// startTicking schedules the animation loop while overlays are live. At most
// one loop runs at a time.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking || len(m.comp.Overlays()) == 0 {
		return nil
	}
	m.ticking = true
	m.tickTag++
	return m.frameCmd()
}

func (m Model) updateFrame(msg frameMsg) (Model, tea.Cmd) {
	if msg.tag != m.tickTag || !m.ticking {
		return m, nil
	}
	if len(m.comp.Overlays()) == 0 {
		m.ticking = false
		return m, nil
	}
	m.anim += m.cfg.FrameInterval
	return m, m.frameCmd()
}

// compositeOverlays draws the current frame of every visible overlay over
// view. Rows above or below the viewport are clipped; overlays that do not
// fit horizontally are skipped.
func (m Model) compositeOverlays(view string) string {
	for _, ov := range m.comp.Overlays() {
		rows, x, y, ok := m.overlayCells(ov)
		if !ok {
			continue
		}
		view = overlay.Composite(strings.Join(rows, "\n"), view, overlay.Left, overlay.Top, x, y)
	}
	return view
}

func (m Model) overlayCells(ov composer.Overlay) (rows []string, x, y int, ok bool) {
	r := ov.Rect
	if ov.Image == nil || r.W <= 0 || r.H <= 0 {
		return nil, 0, 0, false
	}
	if m.viewport.Width > 0 && r.X+r.W > m.viewport.Width {
		return nil, 0, 0, false
	}

	frame := ov.Image.FrameAt(m.anim)
	rows = m.cells.render(m.cfg.Style.Emoji, ov.Token.Key(), ov.Image, frame, r.W, r.H)

	y = r.Y - m.viewport.YOffset
	if y < 0 {
		if -y >= len(rows) {
			return nil, 0, 0, false
		}
		rows = rows[-y:]
		y = 0
	}
	if over := y + len(rows) - m.viewport.Height; over > 0 {
		if over >= len(rows) {
			return nil, 0, 0, false
		}
		rows = rows[:len(rows)-over]
	}
	return rows, r.X, y, true
}
