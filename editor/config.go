package editor

import (
	"log/slog"
	"time"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/imageload"
)

// DefaultMaxHeight is the number of rows the input grows to before it
// scrolls.
const DefaultMaxHeight = 4

// DefaultFrameInterval is how often animated emoji overlays are redrawn.
const DefaultFrameInterval = 100 * time.Millisecond

// Config configures the editor Model. The zero value is usable but renders
// without styles; DefaultConfig fills in the default style and key map.
type Config struct {
	// Placeholder is shown while the input is empty.
	Placeholder string

	// MaxHeight caps the auto-growing height in rows. Zero means
	// DefaultMaxHeight.
	MaxHeight int
	TabWidth  int

	Style     Style
	KeyMap    KeyMap
	Clipboard Clipboard

	// Loader resolves emoji image references.
	Loader imageload.Loader
	// FrameInterval is the animation tick. Zero means DefaultFrameInterval.
	FrameInterval time.Duration

	// Forwarded to buffer.Options.
	HistoryLimit int

	// OnBlocksChanged is called after every settled change of the content.
	OnBlocksChanged func([]block.Block)
	// OnFocusChanged is called when the input gains or loses focus.
	OnFocusChanged func(bool)

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Style:  DefaultStyle(),
		KeyMap: DefaultKeyMap(),
	}
}

func (c Config) withDefaults() Config {
	if c.MaxHeight <= 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.TabWidth <= 0 {
		c.TabWidth = 4
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = DefaultFrameInterval
	}
	if c.KeyMap.empty() {
		c.KeyMap = DefaultKeyMap()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}
