package editor

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/composer"
)

// Model is a Bubble Tea component that renders and edits a chat message.
//
// A new Model is focused. Its height follows the content, between one row
// and MaxHeight (or the height given to SetSize, if smaller).
type Model struct {
	cfg Config
	log *slog.Logger

	comp   *composer.Composer
	layout *CellLayout
	cells  *cellCache

	viewport  viewport.Model
	maxHeight int // from SetSize; zero leaves the cap to cfg.MaxHeight

	anim    time.Duration
	ticking bool
	tickTag int

	mouseAnchor   int
	mouseDragging bool

	lastCursor int
	lastText   uint64
}

func New(cfg Config) Model {
	cfg = cfg.withDefaults()
	layout := &CellLayout{TabWidth: cfg.TabWidth}

	notifyFocus := false
	comp := composer.New(composer.Config{
		Loader:          cfg.Loader,
		Layout:          layout,
		HistoryLimit:    cfg.HistoryLimit,
		OnBlocksChanged: cfg.OnBlocksChanged,
		OnFocusChanged: func(focused bool) {
			if notifyFocus && cfg.OnFocusChanged != nil {
				cfg.OnFocusChanged(focused)
			}
		},
		Logger: cfg.Logger,
	})
	comp.SetFocused(true)
	notifyFocus = true
	layout.Emojis = comp.Emojis()

	m := Model{
		cfg:      cfg,
		log:      cfg.Logger,
		comp:     comp,
		layout:   layout,
		cells:    newCellCache(),
		viewport: viewport.New(0, 1),
	}
	m.refresh()
	return m
}

// Composer exposes the underlying composer. Changes made through it show up
// on the next Update.
func (m Model) Composer() *composer.Composer { return m.comp }

func (m Model) Init() tea.Cmd { return nil }

// SetSize sets the width and the maximum height of the input.
func (m Model) SetSize(width, height int) (Model, tea.Cmd) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.maxHeight = height
	m.layout.Width = width

	cmd := m.comp.Relayout()
	m.refresh()
	m.followCursor()
	tick := m.startTicking()
	return m, tea.Batch(cmd, tick)
}

// Width returns the width given to SetSize.
func (m Model) Width() int { return m.viewport.Width }

// Height returns the number of rows the input currently occupies.
func (m Model) Height() int { return m.viewport.Height }

func (m Model) Focus() Model {
	if !m.comp.Focused() {
		m.comp.SetFocused(true)
		m.refresh()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.comp.Focused() {
		m.comp.SetFocused(false)
		m.mouseDragging = false
		m.refresh()
	}
	return m
}

func (m Model) Focused() bool { return m.comp.Focused() }

// Blocks returns the message content.
func (m Model) Blocks() []block.Block { return m.comp.Blocks() }

// Value returns the content in the wire encoding of block.Encode.
func (m Model) Value() string { return block.Encode(m.comp.Blocks()) }

func (m Model) InsertPlain(text string) (Model, tea.Cmd) {
	return m.after(m.comp.InsertPlain(text))
}

func (m Model) InsertMention(mention block.Mention) (Model, tea.Cmd) {
	return m.after(m.comp.InsertMention(mention))
}

// InsertEmoji starts inserting e at the cursor. The placeholder appears when
// the returned command's message has been passed back to Update.
func (m Model) InsertEmoji(e block.CustomEmoji) (Model, tea.Cmd) {
	_, cmd := m.comp.InsertEmoji(e)
	return m.after(cmd)
}

// RenderSequence inserts blocks at the cursor in order.
func (m Model) RenderSequence(blocks []block.Block) (Model, tea.Cmd) {
	_, cmd := m.comp.RenderSequence(blocks)
	return m.after(cmd)
}

func (m Model) Clear() (Model, tea.Cmd) {
	return m.after(m.comp.Clear())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height)
	case frameMsg:
		return m.updateFrame(msg)
	case tea.KeyMsg:
		m, cmd = m.updateKey(msg)
	case tea.MouseMsg:
		m, cmd = m.updateMouse(msg)
	default:
		cmd = m.comp.Update(msg)
	}
	return m.after(cmd)
}

// after brings the view up to date with the composer.
func (m Model) after(cmd tea.Cmd) (Model, tea.Cmd) {
	buf := m.comp.Buffer()
	moved := buf.Cursor() != m.lastCursor || buf.TextVersion() != m.lastText
	m.refresh()
	if moved {
		m.followCursor()
	}
	tick := m.startTicking()
	return m, tea.Batch(cmd, tick)
}

func (m Model) View() string {
	return m.compositeOverlays(m.viewport.View())
}

// refresh re-renders the content and fits the height to it.
func (m *Model) refresh() {
	buf := m.comp.Buffer()
	m.lastCursor = buf.Cursor()
	m.lastText = buf.TextVersion()

	rows := m.layout.Rows(buf)
	limit := m.cfg.MaxHeight
	if m.maxHeight > 0 && m.maxHeight < limit {
		limit = m.maxHeight
	}
	m.viewport.Height = clampInt(rows, 1, max(limit, 1))
	m.viewport.SetContent(m.renderContent())
	m.viewport.SetYOffset(m.viewport.YOffset)
}

func (m *Model) followCursor() {
	buf := m.comp.Buffer()
	row := m.layout.position(buf, buf.Cursor()).row
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
