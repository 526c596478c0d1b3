package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Text        lipgloss.Style
	Placeholder lipgloss.Style

	Mention lipgloss.Style
	// Emoji is applied to emoji cells; image pixels set their own colors.
	Emoji lipgloss.Style

	Selection lipgloss.Style
	Cursor    lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Mention:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Emoji:       lipgloss.NewStyle(),
		Selection:   lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
	}
}
