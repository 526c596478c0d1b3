package composer

import (
	"strings"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
	"github.com/iw2rmb/chatline/imageload"
	"github.com/iw2rmb/chatline/internal/grapheme"
)

// Rect is a position and size in layout units.
type Rect struct {
	X, Y int
	W, H int
}

// Layout maps buffer offsets to the rectangle of the character drawn there.
type Layout interface {
	RectForOffset(buf *buffer.Buffer, off int) Rect
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func(buf *buffer.Buffer, off int) Rect

func (f LayoutFunc) RectForOffset(buf *buffer.Buffer, off int) Rect { return f(buf, off) }

// LineLayout places every character in a one-unit cell: X is the character
// column within its line and Y the line index. It does not wrap.
type LineLayout struct{}

func (LineLayout) RectForOffset(buf *buffer.Buffer, off int) Rect {
	text := buf.Text()
	if off > len(text) {
		off = len(text)
	}
	head := text[:off]
	start := strings.LastIndexByte(head, '\n') + 1
	return Rect{
		X: grapheme.Count(head[start:]),
		Y: strings.Count(head, "\n"),
		W: 1,
		H: 1,
	}
}

// Overlay is a floating image drawn over the placeholder of an animated
// emoji.
type Overlay struct {
	ID    string // composite id of the placeholder's EmojiTag
	Token block.CustomEmoji
	Rect  Rect
	Image *imageload.Image
}

// Overlays tracks one overlay per live animated emoji placeholder.
type Overlays struct {
	byID  map[string]*Overlay
	order []string
}

func NewOverlays() *Overlays {
	return &Overlays{byID: make(map[string]*Overlay)}
}

// ImageSource returns the loaded image for an emoji key. ok is false while
// nothing is known about the key; a nil image with ok means loading failed.
type ImageSource func(key string) (img *imageload.Image, ok bool)

// Sync reconciles overlays with the emoji placeholders in buf. Existing
// overlays move to their placeholder's current rectangle, bottom-aligned
// with the line; overlays are created for placeholders whose image is
// loaded; overlays whose placeholder is gone are destroyed. It returns the
// animated tokens whose images are still unknown. Sync is idempotent.
func (o *Overlays) Sync(buf *buffer.Buffer, emojis *block.EmojiRegistry, images ImageSource, layout Layout) []block.CustomEmoji {
	if o.byID == nil {
		o.byID = make(map[string]*Overlay)
	}
	if layout == nil {
		layout = LineLayout{}
	}

	var (
		missing []block.CustomEmoji
		seen    = make(map[string]bool)
		order   []string
	)
	for _, s := range buf.SpansFunc(isEmojiTag) {
		tag := s.Tag.(buffer.EmojiTag)
		tok, ok := emojis.Lookup(tag.Key)
		if !ok || !tok.Animated() {
			continue
		}
		id := tag.CompositeID()
		if seen[id] {
			continue
		}
		seen[id] = true

		rect := anchorRect(layout.RectForOffset(buf, s.Range.Start), tok.DisplaySize())
		if ov, ok := o.byID[id]; ok {
			ov.Rect = rect
			order = append(order, id)
			continue
		}

		img, known := images(tag.Key)
		if !known {
			missing = appendToken(missing, tok)
			continue
		}
		if img == nil {
			continue
		}
		o.byID[id] = &Overlay{ID: id, Token: tok, Rect: rect, Image: img}
		order = append(order, id)
	}

	for id := range o.byID {
		if !seen[id] {
			delete(o.byID, id)
		}
	}
	o.order = order
	return missing
}

// anchorRect sizes an overlay to its token and moves it down so its bottom
// edge sits on the bottom of the character cell.
func anchorRect(cell Rect, size block.Size) Rect {
	return Rect{
		X: cell.X,
		Y: cell.Y + cell.H - size.Height,
		W: size.Width,
		H: size.Height,
	}
}

func appendToken(list []block.CustomEmoji, tok block.CustomEmoji) []block.CustomEmoji {
	for _, t := range list {
		if t.Equal(tok) {
			return list
		}
	}
	return append(list, tok)
}

func isEmojiTag(t buffer.Tag) bool {
	_, ok := t.(buffer.EmojiTag)
	return ok
}

// Detach destroys the overlay with id. It reports whether one existed.
func (o *Overlays) Detach(id string) bool {
	if _, ok := o.byID[id]; !ok {
		return false
	}
	delete(o.byID, id)
	for i, x := range o.order {
		if x == id {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// DetachAll destroys every overlay.
func (o *Overlays) DetachAll() {
	o.byID = make(map[string]*Overlay)
	o.order = nil
}

func (o *Overlays) Len() int { return len(o.order) }

func (o *Overlays) Get(id string) (Overlay, bool) {
	ov, ok := o.byID[id]
	if !ok {
		return Overlay{}, false
	}
	return *ov, true
}

// All returns the overlays in buffer order.
func (o *Overlays) All() []Overlay {
	if len(o.order) == 0 {
		return nil
	}
	out := make([]Overlay, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, *o.byID[id])
	}
	return out
}
