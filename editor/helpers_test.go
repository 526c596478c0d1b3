package editor

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/imageload"
)

const parrotFrame = 10 * time.Millisecond

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}

	parrot = block.CustomEmoji{Escaped: ":parrot:", ImageURL: "https://cdn.test/parrot.gif", Size: block.DefaultEmojiSize}
	blob   = block.CustomEmoji{Escaped: ":blob:", ImageURL: "https://cdn.test/blob.png", Size: block.DefaultEmojiSize}
	ann    = block.Mention{Display: "@ann", Metadata: "<@U1>"}
)

type memClipboard struct {
	s string
}

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func testLoader() imageload.Static {
	return imageload.Static{
		parrot.ImageURL: {
			Frames: []image.Image{solid(red), solid(blue)},
			Delays: []time.Duration{parrotFrame, parrotFrame},
		},
		blob.ImageURL: imageload.Still(solid(red)),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends one key message per rune.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(keyRunes(string(r)))
		m, _ = run(t, m, cmd)
	}
	return m
}

// run executes cmd and feeds the resulting messages back into m until no
// commands remain. Animation frames are not fed back. It returns the
// messages the editor does not consume.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case frameMsg:
		case SubmitMsg:
			out = append(out, msg)
		default:
			var more tea.Cmd
			m, more = m.Update(msg)
			queue = append(queue, more)
		}
	}
	return m, out
}
