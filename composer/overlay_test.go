package composer

import (
	"reflect"
	"testing"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
	"github.com/iw2rmb/chatline/imageload"
)

func TestOverlays_FollowPlaceholder(t *testing.T) {
	c, _ := newTestComposer(t)
	ins, cmd := c.InsertEmoji(parrot)
	drain(t, c, cmd)

	ovs := c.Overlays()
	if len(ovs) != 1 {
		t.Fatalf("overlays=%d, want 1", len(ovs))
	}
	if ovs[0].ID != ins.ID() || !ovs[0].Token.Equal(parrot) || ovs[0].Image == nil {
		t.Fatalf("overlay=%+v", ovs[0])
	}
	if got, want := ovs[0].Rect, (Rect{X: 0, Y: 0, W: 2, H: 1}); got != want {
		t.Fatalf("rect=%+v, want %+v", got, want)
	}

	c.Buffer().SetCursor(0)
	drain(t, c, c.InsertPlain("ab\ncd"))
	if got, want := c.Overlays()[0].Rect, (Rect{X: 2, Y: 1, W: 2, H: 1}); got != want {
		t.Fatalf("rect after typing=%+v, want %+v", got, want)
	}

	c.Buffer().SetCursor(c.Buffer().Len())
	drain(t, c, c.DeleteBackward())
	if len(c.Overlays()) != 0 {
		t.Fatalf("overlay should be destroyed with its placeholder")
	}

	drain(t, c, c.Undo())
	if len(c.Overlays()) != 1 {
		t.Fatalf("undo should bring the overlay back")
	}
}

func TestOverlays_StillEmojiHaveNone(t *testing.T) {
	c, _ := newTestComposer(t)
	_, cmd := c.InsertEmoji(blob)
	drain(t, c, cmd)
	if len(c.Overlays()) != 0 {
		t.Fatalf("still emoji should not get an overlay")
	}
}

func TestOverlays_BottomAligned(t *testing.T) {
	tall := block.CustomEmoji{Escaped: ":tall:", ImageURL: "tall.gif", Size: block.Size{Width: 4, Height: 2}}
	b := buffer.New("", buffer.Options{})
	b.Insert(0, "x", nil)
	b.Insert(1, buffer.PlaceholderText, buffer.NewEmojiTag(tall.Key()))

	emojis := block.NewEmojiRegistry()
	emojis.Register(tall)
	layout := LayoutFunc(func(_ *buffer.Buffer, off int) Rect { return Rect{X: off * 10, Y: 100, W: 10, H: 30} })
	images := func(string) (*imageload.Image, bool) { return &imageload.Image{}, true }

	o := NewOverlays()
	o.Sync(b, emojis, images, layout)
	if got, want := o.All()[0].Rect, (Rect{X: 10, Y: 128, W: 4, H: 2}); got != want {
		t.Fatalf("rect=%+v, want %+v", got, want)
	}
}

func TestOverlays_SyncIsIdempotent(t *testing.T) {
	b := buffer.New("", buffer.Options{})
	first := buffer.NewEmojiTag(parrot.Key())
	b.Insert(0, buffer.PlaceholderText, first)
	b.Insert(b.Len(), " ", nil)
	b.Insert(b.Len(), buffer.PlaceholderText, buffer.NewEmojiTag(blob.Key()))
	b.Insert(b.Len(), buffer.PlaceholderText, buffer.NewEmojiTag(parrot.Key()))

	emojis := block.NewEmojiRegistry()
	emojis.Register(parrot)
	emojis.Register(blob)
	img := &imageload.Image{}
	images := func(string) (*imageload.Image, bool) { return img, true }

	o := NewOverlays()
	o.Sync(b, emojis, images, nil)
	once := o.All()
	o.Sync(b, emojis, images, nil)
	twice := o.All()

	if len(once) != 2 {
		t.Fatalf("overlays=%d, want 2", len(once))
	}
	if once[0].ID != first.CompositeID() {
		t.Fatalf("overlays not in buffer order: %v", once)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second sync changed overlays:\n%+v\n%+v", once, twice)
	}
}

func TestOverlays_UnknownImageIsRequestedOnce(t *testing.T) {
	c, _ := newTestComposer(t)
	c.Emojis().Register(parrot)
	c.Buffer().Insert(0, buffer.PlaceholderText, buffer.NewEmojiTag(parrot.Key()))

	cmd := c.syncOverlays()
	if cmd == nil {
		t.Fatalf("expected an image load for the unknown image")
	}
	if again := c.syncOverlays(); again != nil {
		t.Fatalf("image load requested twice")
	}
	if len(c.Overlays()) != 0 {
		t.Fatalf("overlay created before its image loaded")
	}

	drain(t, c, cmd)
	if len(c.Overlays()) != 1 {
		t.Fatalf("overlays=%d after load, want 1", len(c.Overlays()))
	}
}

func TestOverlays_Detach(t *testing.T) {
	b := buffer.New("", buffer.Options{})
	tag := buffer.NewEmojiTag(parrot.Key())
	b.Insert(0, buffer.PlaceholderText, tag)
	emojis := block.NewEmojiRegistry()
	emojis.Register(parrot)

	o := NewOverlays()
	o.Sync(b, emojis, func(string) (*imageload.Image, bool) { return &imageload.Image{}, true }, nil)
	if !o.Detach(tag.CompositeID()) {
		t.Fatalf("Detach should report the overlay")
	}
	if o.Detach(tag.CompositeID()) {
		t.Fatalf("second Detach should report nothing")
	}
	if _, ok := o.Get(tag.CompositeID()); ok || o.Len() != 0 {
		t.Fatalf("overlay still tracked after Detach")
	}
}

func TestLineLayout(t *testing.T) {
	b := buffer.New("ab\ne\u0301x", buffer.Options{})
	cases := []struct {
		off  int
		want Rect
	}{
		{0, Rect{X: 0, Y: 0, W: 1, H: 1}},
		{2, Rect{X: 2, Y: 0, W: 1, H: 1}},
		{3, Rect{X: 0, Y: 1, W: 1, H: 1}},
		{6, Rect{X: 1, Y: 1, W: 1, H: 1}},
		{99, Rect{X: 2, Y: 1, W: 1, H: 1}},
	}
	for _, tc := range cases {
		if got := (LineLayout{}).RectForOffset(b, tc.off); got != tc.want {
			t.Fatalf("RectForOffset(%d)=%+v, want %+v", tc.off, got, tc.want)
		}
	}
}
