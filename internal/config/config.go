// Package config loads the chatline demo configuration from TOML.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/iw2rmb/chatline/block"
)

// Config is the demo host configuration.
type Config struct {
	Placeholder string `toml:"placeholder"`
	MaxHeight   int    `toml:"max_height"`

	Images   Images    `toml:"images"`
	Emoji    []Emoji   `toml:"emoji"`
	Mentions []Mention `toml:"mention"`
}

// Images configures the emoji image fetcher.
type Images struct {
	CacheSize int           `toml:"cache_size"`
	MaxBytes  int64         `toml:"max_bytes"`
	MaxTries  uint          `toml:"max_tries"`
	Timeout   time.Duration `toml:"timeout"`
}

// Emoji is one entry of the emoji palette.
type Emoji struct {
	Name   string `toml:"name"`
	URL    string `toml:"url"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Mention is one entry of the mention palette.
type Mention struct {
	Display  string `toml:"display"`
	Metadata string `toml:"metadata"`
}

// Token returns the emoji as a block. Name is written as :name:.
func (e Emoji) Token() block.CustomEmoji {
	size := block.DefaultEmojiSize
	if e.Width > 0 {
		size.Width = e.Width
	}
	if e.Height > 0 {
		size.Height = e.Height
	}
	return block.CustomEmoji{
		Escaped:  ":" + strings.Trim(e.Name, ":") + ":",
		ImageURL: e.URL,
		Size:     size,
	}
}

// Block returns the mention as a block. Metadata defaults to Display.
func (m Mention) Block() block.Mention {
	meta := m.Metadata
	if meta == "" {
		meta = m.Display
	}
	return block.Mention{Display: m.Display, Metadata: meta}
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Placeholder: "Message",
		MaxHeight:   4,
		Images: Images{
			CacheSize: 256,
			MaxBytes:  8 << 20,
			MaxTries:  4,
			Timeout:   30 * time.Second,
		},
	}
}

// Load reads the file at path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read")
	}
	return Parse(string(data))
}

// Parse decodes TOML over Default and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid palette entry.
func (c Config) Validate() error {
	if c.MaxHeight < 0 {
		return errors.Errorf("config: max_height must not be negative, got %d", c.MaxHeight)
	}
	seen := make(map[string]bool)
	for i, e := range c.Emoji {
		if strings.Trim(e.Name, ":") == "" {
			return errors.Errorf("config: emoji %d: name is required", i)
		}
		if e.URL == "" {
			return errors.Errorf("config: emoji %q: url is required", e.Name)
		}
		if e.Width < 0 || e.Height < 0 {
			return errors.Errorf("config: emoji %q: size must not be negative", e.Name)
		}
		key := e.Token().Key()
		if seen[key] {
			return errors.Errorf("config: emoji %q: duplicate", e.Name)
		}
		seen[key] = true
	}
	displays := make(map[string]bool)
	for i, m := range c.Mentions {
		if m.Display == "" {
			return errors.Errorf("config: mention %d: display is required", i)
		}
		if displays[m.Display] {
			return errors.Errorf("config: mention %q: duplicate", m.Display)
		}
		displays[m.Display] = true
	}
	return nil
}
