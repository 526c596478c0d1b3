package block

import (
	"net/url"
	"path"
	"strings"
)

// Kind identifies the variant of a Block.
type Kind uint8

const (
	KindPlain Kind = iota
	KindMention
	KindCustomEmoji
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMention:
		return "mention"
	case KindCustomEmoji:
		return "custom_emoji"
	default:
		return "unknown"
	}
}

// Block is one semantic unit of composed input: Plain, Mention or
// CustomEmoji.
type Block interface {
	Kind() Kind
	isBlock()
}

// Plain is free text. Parsed sequences never contain an empty Plain or two
// adjacent Plain blocks.
type Plain struct {
	Text string
}

// Mention references a user or channel. Display is what the buffer shows and
// identifies the mention; Metadata is carried through untouched.
type Mention struct {
	Display  string
	Metadata string
}

// Size is a display size in layout units (terminal cells in the editor).
type Size struct {
	Width  int
	Height int
}

// DefaultEmojiSize is used when a CustomEmoji carries no size.
var DefaultEmojiSize = Size{Width: 2, Height: 1}

// CustomEmoji is an image emoji. Two emoji with the same Key are the same
// emoji, whatever their image or size.
type CustomEmoji struct {
	Escaped  string // canonical text form, e.g. ":parrot:"
	ImageURL string
	Size     Size
}

func (Plain) Kind() Kind       { return KindPlain }
func (Mention) Kind() Kind     { return KindMention }
func (CustomEmoji) Kind() Kind { return KindCustomEmoji }

func (Plain) isBlock()       {}
func (Mention) isBlock()     {}
func (CustomEmoji) isBlock() {}

// Key returns the identity of the emoji: its escaped form, or its image URL
// when it has none.
func (e CustomEmoji) Key() string {
	if e.Escaped != "" {
		return e.Escaped
	}
	return e.ImageURL
}

func (e CustomEmoji) Equal(o CustomEmoji) bool {
	return e.Key() == o.Key()
}

// Animated reports whether the emoji image is an animated GIF and therefore
// drawn as an overlay instead of inline.
func (e CustomEmoji) Animated() bool {
	p := e.ImageURL
	if u, err := url.Parse(e.ImageURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".gif")
}

// DisplaySize returns Size, falling back to DefaultEmojiSize for unset
// dimensions.
func (e CustomEmoji) DisplaySize() Size {
	s := e.Size
	if s.Width <= 0 {
		s.Width = DefaultEmojiSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultEmojiSize.Height
	}
	return s
}
