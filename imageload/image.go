package imageload

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound reports a reference with no image behind it.
var ErrNotFound = errors.New("imageload: image not found")

// DefaultFrameDelay is used for animation frames that carry no delay.
const DefaultFrameDelay = 100 * time.Millisecond

// Image is a decoded still or animated image. Delays has one entry per frame.
type Image struct {
	Frames []image.Image
	Delays []time.Duration
}

// Loader resolves an image reference. Load may be called from any goroutine.
type Loader interface {
	Load(ctx context.Context, ref string) (*Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, ref string) (*Image, error)

func (f LoaderFunc) Load(ctx context.Context, ref string) (*Image, error) {
	return f(ctx, ref)
}

// Still wraps a single frame.
func Still(img image.Image) *Image {
	return &Image{Frames: []image.Image{img}, Delays: []time.Duration{0}}
}

// Animated reports whether the image has more than one frame.
func (i *Image) Animated() bool {
	return i != nil && len(i.Frames) > 1
}

// Bounds returns the bounds of the first frame.
func (i *Image) Bounds() image.Rectangle {
	if i == nil || len(i.Frames) == 0 {
		return image.Rectangle{}
	}
	return i.Frames[0].Bounds()
}

// Duration is the length of one animation loop.
func (i *Image) Duration() time.Duration {
	if i == nil {
		return 0
	}
	var d time.Duration
	for k := range i.Frames {
		d += i.delay(k)
	}
	return d
}

// FrameAt returns the index of the frame shown after elapsed time, looping.
func (i *Image) FrameAt(elapsed time.Duration) int {
	if !i.Animated() {
		return 0
	}
	total := i.Duration()
	if total <= 0 {
		return 0
	}
	elapsed %= total
	if elapsed < 0 {
		elapsed += total
	}
	for k := range i.Frames {
		d := i.delay(k)
		if elapsed < d {
			return k
		}
		elapsed -= d
	}
	return len(i.Frames) - 1
}

func (i *Image) delay(k int) time.Duration {
	if k < len(i.Delays) && i.Delays[k] > 0 {
		return i.Delays[k]
	}
	return DefaultFrameDelay
}

// Static serves images from memory, keyed by reference.
type Static map[string]*Image

func (s Static) Load(_ context.Context, ref string) (*Image, error) {
	img, ok := s[ref]
	if !ok || img == nil {
		return nil, errors.Wrapf(ErrNotFound, "ref %q", ref)
	}
	return img, nil
}
