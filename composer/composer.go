package composer

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/singleflight"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
	"github.com/iw2rmb/chatline/imageload"
)

// Config configures a Composer. The zero value is usable: without a Loader
// emoji are inserted without images, and without a Layout overlays are
// placed by LineLayout.
type Config struct {
	Loader imageload.Loader
	Layout Layout

	HistoryLimit int // see buffer.Options

	// OnBlocksChanged is called after each settled mutation with the new
	// block sequence.
	OnBlocksChanged func([]block.Block)
	// OnFocusChanged is called when SetFocused changes the focus state.
	OnFocusChanged func(bool)

	Logger *slog.Logger
}

// Composer owns a tagged buffer and the state derived from it.
type Composer struct {
	cfg Config
	log *slog.Logger

	buf      *buffer.Buffer
	emojis   *block.EmojiRegistry
	mentions *block.MentionRegistry

	pending map[string]*Insertion // emoji insertions awaiting their image
	replays map[string]*replay    // keyed by the emoji insertion they wait for

	overlays *Overlays
	images   map[string]*imageload.Image // by emoji key; nil after a failed load
	loading  map[string]bool
	loads    *singleflight.Group

	focused bool
}

// EmojiLoadedMsg reports the image load of an emoji insertion. Pass it to
// Update.
type EmojiLoadedMsg struct {
	ID    string // Insertion.ID
	Key   string
	Image *imageload.Image
	Err   error
}

// imageLoadedMsg reports an image requested by overlay sync.
type imageLoadedMsg struct {
	key   string
	image *imageload.Image
	err   error
}

func New(cfg Config) *Composer {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Composer{
		cfg:      cfg,
		log:      log,
		buf:      buffer.New("", buffer.Options{HistoryLimit: cfg.HistoryLimit}),
		emojis:   block.NewEmojiRegistry(),
		mentions: block.NewMentionRegistry(),
		pending:  make(map[string]*Insertion),
		replays:  make(map[string]*replay),
		overlays: NewOverlays(),
		images:   make(map[string]*imageload.Image),
		loading:  make(map[string]bool),
		loads:    &singleflight.Group{},
	}
}

// Buffer exposes the underlying buffer. Text changes must go through the
// Composer; cursor and selection may be changed directly.
func (c *Composer) Buffer() *buffer.Buffer { return c.buf }

func (c *Composer) Emojis() *block.EmojiRegistry { return c.emojis }

func (c *Composer) Mentions() *block.MentionRegistry { return c.mentions }

// Blocks parses the current buffer.
func (c *Composer) Blocks() []block.Block {
	return block.Parse(c.buf, c.emojis, c.mentions)
}

// Overlays returns the live overlays in buffer order.
func (c *Composer) Overlays() []Overlay { return c.overlays.All() }

// Image returns the loaded image for an emoji key, if any.
func (c *Composer) Image(key string) (*imageload.Image, bool) {
	img, ok := c.images[key]
	return img, ok && img != nil
}

// Pending returns the number of emoji insertions awaiting their image.
func (c *Composer) Pending() int { return len(c.pending) }

func (c *Composer) Focused() bool { return c.focused }

// SetFocused records the focus state and notifies OnFocusChanged when it
// changes.
func (c *Composer) SetFocused(focused bool) {
	if c.focused == focused {
		return
	}
	c.focused = focused
	if c.cfg.OnFocusChanged != nil {
		c.cfg.OnFocusChanged(focused)
	}
}

// Update handles the messages produced by the Composer's commands.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case EmojiLoadedMsg:
		return c.completeEmoji(msg)
	case imageLoadedMsg:
		delete(c.loading, msg.key)
		c.storeImage(msg.key, msg.image, msg.err)
		return c.syncOverlays()
	}
	return nil
}

// Clear empties the buffer and forgets every token, overlay and pending
// insertion.
func (c *Composer) Clear() tea.Cmd {
	c.buf.Clear()
	c.emojis.Reset()
	c.mentions.Reset()
	c.overlays.DetachAll()
	c.abandonPending()
	return c.settle(true)
}

// Relayout moves overlays to the current layout rectangles of their
// placeholders. Call it after the layout changed without a text change,
// for example on resize.
func (c *Composer) Relayout() tea.Cmd { return c.syncOverlays() }

// settle re-derives overlays after a mutation and notifies the observer.
func (c *Composer) settle(notify bool) tea.Cmd {
	cmd := c.syncOverlays()
	if notify && c.cfg.OnBlocksChanged != nil {
		c.cfg.OnBlocksChanged(c.Blocks())
	}
	return cmd
}

func (c *Composer) syncOverlays() tea.Cmd {
	missing := c.overlays.Sync(c.buf, c.emojis, c.lookupImage, c.cfg.Layout)
	var cmds []tea.Cmd
	for _, tok := range missing {
		key := tok.Key()
		if c.loading[key] {
			continue
		}
		c.loading[key] = true
		cmds = append(cmds, c.loadImageCmd(tok))
	}
	return tea.Batch(cmds...)
}

func (c *Composer) lookupImage(key string) (*imageload.Image, bool) {
	img, ok := c.images[key]
	return img, ok
}

func (c *Composer) storeImage(key string, img *imageload.Image, err error) {
	if err != nil {
		c.log.Debug("emoji image unavailable", "key", key, "err", err)
	}
	if img != nil {
		c.images[key] = img
		return
	}
	if _, ok := c.images[key]; !ok {
		c.images[key] = nil
	}
}

func (c *Composer) loadImageCmd(tok block.CustomEmoji) tea.Cmd {
	loader, group := c.cfg.Loader, c.loads
	return func() tea.Msg {
		img, err := loadImage(loader, group, tok.ImageURL)
		return imageLoadedMsg{key: tok.Key(), image: img, err: err}
	}
}

// loadImage shares concurrent loads of one reference.
func loadImage(loader imageload.Loader, group *singleflight.Group, ref string) (*imageload.Image, error) {
	if loader == nil || ref == "" {
		return nil, nil
	}
	v, err, _ := group.Do(ref, func() (any, error) {
		return loader.Load(context.Background(), ref)
	})
	if err != nil {
		return nil, err
	}
	img, _ := v.(*imageload.Image)
	return img, nil
}

// abandonPending resolves every pending insertion and replay as not
// inserted. Their later completions find nothing to do.
func (c *Composer) abandonPending() {
	for id, ins := range c.pending {
		c.buf.Unmark(ins.mark)
		ins.resolve(false)
		delete(c.pending, id)
	}
	for id, r := range c.replays {
		r.seq.resolve(false)
		delete(c.replays, id)
	}
	c.buf.DropMarks()
}
