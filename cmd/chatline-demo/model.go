package main

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/editor"
	"github.com/iw2rmb/chatline/imageload"
	"github.com/iw2rmb/chatline/internal/config"
)

type keyMap struct {
	Quit    key.Binding
	Emoji   key.Binding
	Mention key.Binding
	Replay  key.Binding

	editor editor.KeyMap
}

func defaultKeyMap(ed editor.KeyMap) keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Emoji:   key.NewBinding(key.WithKeys("alt+e"), key.WithHelp("alt+e", "emoji")),
		Mention: key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "mention")),
		Replay:  key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "edit last")),
		editor:  ed,
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.editor.ShortHelp(), k.Emoji, k.Mention, k.Replay, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return append(k.editor.FullHelp(), []key.Binding{k.Emoji, k.Mention, k.Replay, k.Quit})
}

type model struct {
	editor editor.Model
	help   help.Model
	keys   keyMap
	log    *slog.Logger

	emoji       []block.CustomEmoji
	mentions    []block.Mention
	nextEmoji   int
	nextMention int

	transcript []editor.SubmitMsg
	width      int
	height     int

	sender lipgloss.Style
	body   lipgloss.Style
	rule   lipgloss.Style
}

func newModel(cfg config.Config, loader imageload.Loader, cb editor.Clipboard, log *slog.Logger) model {
	ecfg := editor.DefaultConfig()
	ecfg.Placeholder = cfg.Placeholder
	ecfg.MaxHeight = cfg.MaxHeight
	ecfg.Loader = loader
	ecfg.Clipboard = cb
	ecfg.Logger = log.With("component", "editor")

	m := model{
		editor: editor.New(ecfg),
		help:   help.New(),
		keys:   defaultKeyMap(ecfg.KeyMap),
		log:    log,
		sender: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		body:   lipgloss.NewStyle(),
		rule:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	for _, e := range cfg.Emoji {
		m.emoji = append(m.emoji, e.Token())
	}
	for _, mt := range cfg.Mentions {
		m.mentions = append(m.mentions, mt.Block())
	}
	return m
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor, cmd = m.editor.SetSize(msg.Width, m.editorHeight())
		return m, cmd

	case editor.SubmitMsg:
		m.log.Info("submitted", "text", msg.Text, "blocks", len(msg.Blocks))
		m.transcript = append(m.transcript, msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Emoji):
			if len(m.emoji) == 0 {
				return m, nil
			}
			e := m.emoji[m.nextEmoji%len(m.emoji)]
			m.nextEmoji++
			m.editor, cmd = m.editor.InsertEmoji(e)
			return m, cmd
		case key.Matches(msg, m.keys.Mention):
			if len(m.mentions) == 0 {
				return m, nil
			}
			mt := m.mentions[m.nextMention%len(m.mentions)]
			m.nextMention++
			m.editor, cmd = m.editor.InsertMention(mt)
			return m, cmd
		case key.Matches(msg, m.keys.Replay):
			if len(m.transcript) == 0 {
				return m, nil
			}
			last := m.transcript[len(m.transcript)-1]
			m.editor, cmd = m.editor.RenderSequence(last.Blocks)
			return m, cmd
		}
	}

	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// editorHeight is the room left for the editor below the transcript.
func (m model) editorHeight() int {
	return max(1, m.height-2)
}

func (m model) View() string {
	input := m.editor.View()
	footer := m.help.View(m.keys)
	rule := m.rule.Render(strings.Repeat("─", max(0, m.width)))

	avail := m.height - lipgloss.Height(input) - lipgloss.Height(footer) - 1
	lines := m.transcriptLines()
	if len(lines) > avail {
		lines = lines[len(lines)-max(0, avail):]
	}
	for len(lines) < avail {
		lines = append([]string{""}, lines...)
	}
	return strings.Join(append(lines, rule, input, footer), "\n")
}

func (m model) transcriptLines() []string {
	var out []string
	for _, msg := range m.transcript {
		text := block.PlainText(msg.Blocks)
		for _, line := range strings.Split(text, "\n") {
			out = append(out, m.sender.Render("you")+" "+m.body.Render(line))
		}
	}
	return out
}
