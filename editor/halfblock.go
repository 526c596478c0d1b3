package editor

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"

	"github.com/iw2rmb/chatline/imageload"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

const cellCacheSize = 512

type cellKey struct {
	key         string
	frame, w, h int
}

// cellCache keeps rendered half-block rows per emoji frame and size.
type cellCache struct {
	rows *lru.Cache[cellKey, []string]
}

func newCellCache() *cellCache {
	rows, err := lru.New[cellKey, []string](cellCacheSize)
	if err != nil {
		panic(err)
	}
	return &cellCache{rows: rows}
}

// render returns h rows of w cells showing frame of img.
func (c *cellCache) render(base lipgloss.Style, key string, img *imageload.Image, frame, w, h int) []string {
	if img == nil || frame < 0 || frame >= len(img.Frames) {
		return blankCells(base, w, h)
	}
	k := cellKey{key: key, frame: frame, w: w, h: h}
	if rows, ok := c.rows.Get(k); ok {
		return rows
	}
	rows := halfBlocks(base, img.Frames[frame], w, h)
	c.rows.Add(k, rows)
	return rows
}

// halfBlocks scales src to w x 2h pixels and draws two pixel rows per cell:
// the upper half block takes the top pixel as foreground and the bottom
// pixel as background.
func halfBlocks(base lipgloss.Style, src image.Image, w, h int) []string {
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			top, topOK := cellColor(dst.RGBAAt(x, 2*y))
			bot, botOK := cellColor(dst.RGBAAt(x, 2*y+1))
			switch {
			case topOK && botOK:
				sb.WriteString(base.Foreground(top).Background(bot).Render(upperHalf))
			case topOK:
				sb.WriteString(base.Foreground(top).Render(upperHalf))
			case botOK:
				sb.WriteString(base.Foreground(bot).Render(lowerHalf))
			default:
				sb.WriteString(base.Render(" "))
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

func blankCells(st lipgloss.Style, w, h int) []string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = st.Render(strings.Repeat(" ", w))
	}
	return rows
}

// cellColor converts a premultiplied pixel. Mostly transparent pixels are
// left to the terminal background.
func cellColor(c color.RGBA) (lipgloss.Color, bool) {
	if c.A < 0x80 {
		return "", false
	}
	r, g, b := c.R, c.G, c.B
	if c.A < 0xff {
		r = uint8(uint32(r) * 0xff / uint32(c.A))
		g = uint8(uint32(g) * 0xff / uint32(c.A))
		b = uint8(uint32(b) * 0xff / uint32(c.A))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
}
