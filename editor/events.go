package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/chatline/block"
)

// SubmitMsg is emitted when the user sends the message. The input is
// cleared afterwards; Blocks is what it held.
type SubmitMsg struct {
	Blocks []block.Block
	// Text is Blocks in the wire encoding of block.Encode.
	Text string
}

func submitCmd(blocks []block.Block) tea.Cmd {
	msg := SubmitMsg{Blocks: blocks, Text: block.Encode(blocks)}
	return func() tea.Msg { return msg }
}
