package composer

import (
	"context"
	"image"
	"image/color"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/imageload"
)

var (
	parrot = block.CustomEmoji{Escaped: ":parrot:", ImageURL: "https://cdn.test/parrot.gif"}
	blob   = block.CustomEmoji{Escaped: ":blob:", ImageURL: "https://cdn.test/blob.png"}
	broken = block.CustomEmoji{Escaped: ":broken:", ImageURL: "https://cdn.test/broken.gif"}

	ann     = block.Mention{Display: "@ann", Metadata: "<@U1>"}
	devs    = block.Mention{Display: "@devs", Metadata: "<!subteam^S1>"}
	channel = block.Mention{Display: "@channel", Metadata: "<!channel>"}
)

func pixel(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	return img
}

func testImages() imageload.Static {
	return imageload.Static{
		parrot.ImageURL: {Frames: []image.Image{pixel(color.White), pixel(color.Black)}},
		blob.ImageURL:   imageload.Still(pixel(color.White)),
	}
}

// recorder counts observer notifications.
type recorder struct {
	blocks [][]block.Block
	focus  []bool
}

func (r *recorder) config(cfg Config) Config {
	cfg.OnBlocksChanged = func(b []block.Block) { r.blocks = append(r.blocks, b) }
	cfg.OnFocusChanged = func(f bool) { r.focus = append(r.focus, f) }
	return cfg
}

func (r *recorder) last() []block.Block {
	if len(r.blocks) == 0 {
		return nil
	}
	return r.blocks[len(r.blocks)-1]
}

func newTestComposer(t *testing.T) (*Composer, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(rec.config(Config{Loader: testImages()}))
	return c, rec
}

// messages runs cmd and returns the messages it produces, flattening
// batches.
func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, sub := range msg {
			out = append(out, messages(sub)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// drain runs cmd and everything it leads to through c.Update.
func drain(t *testing.T, c *Composer, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatalf("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		for _, msg := range messages(next) {
			queue = append(queue, c.Update(msg))
		}
	}
}

func requireBlocks(t *testing.T, got, want []block.Block) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func failingLoader() imageload.Loader {
	return imageload.LoaderFunc(func(context.Context, string) (*imageload.Image, error) {
		return nil, errors.New("boom")
	})
}
