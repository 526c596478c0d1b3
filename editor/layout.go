package editor

import (
	"sort"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
	"github.com/iw2rmb/chatline/composer"
	graphemeutil "github.com/iw2rmb/chatline/internal/grapheme"
)

// CellLayout places buffer characters on a grid of terminal cells.
//
// Lines soft-wrap at Width, breaking after the last whitespace run of the row
// when there is one. An emoji placeholder spans the cell width of its token.
// CellLayout implements composer.Layout; rectangles are in cells with Y
// counted in visual rows.
type CellLayout struct {
	Width    int // wrap width in cells; <= 0 disables wrapping
	TabWidth int
	Emojis   *block.EmojiRegistry

	cache layoutCache
}

var _ composer.Layout = (*CellLayout)(nil)

type glyphKind uint8

const (
	glyphText glyphKind = iota
	glyphNewline
	glyphEmoji
)

type glyph struct {
	start, end int // byte range in the buffer
	text       string
	kind       glyphKind
	token      block.CustomEmoji // glyphEmoji only

	row, col, width int
}

type cellPos struct{ row, col int }

type cellGrid struct {
	glyphs   []glyph
	rowStart []int   // index of the first glyph of each row
	end      cellPos // where the cursor sits after the last glyph
}

func (g *cellGrid) rows() int { return len(g.rowStart) }

// rowGlyphs returns the glyphs placed on row.
func (g *cellGrid) rowGlyphs(row int) []glyph {
	if row < 0 || row >= len(g.rowStart) {
		return nil
	}
	hi := len(g.glyphs)
	if row+1 < len(g.rowStart) {
		hi = g.rowStart[row+1]
	}
	return g.glyphs[g.rowStart[row]:hi]
}

type layoutCache struct {
	grid *cellGrid

	buf      *buffer.Buffer
	version  uint64
	width    int
	tabWidth int
	emojis   int
}

// RectForOffset returns the cells of the character starting at off. The end
// of the buffer maps to the one-cell cursor slot after the last character.
func (l *CellLayout) RectForOffset(buf *buffer.Buffer, off int) composer.Rect {
	g := l.grid(buf)
	if i, ok := g.glyphAt(off); ok {
		gl := g.glyphs[i]
		return composer.Rect{X: gl.col, Y: gl.row, W: gl.width, H: 1}
	}
	p := l.position(buf, off)
	return composer.Rect{X: p.col, Y: p.row, W: 1, H: 1}
}

// Rows returns the number of visual rows the buffer occupies.
func (l *CellLayout) Rows(buf *buffer.Buffer) int {
	return l.grid(buf).rows()
}

// position returns the cell of the cursor slot at off.
func (l *CellLayout) position(buf *buffer.Buffer, off int) cellPos {
	g := l.grid(buf)
	if i, ok := g.glyphAt(off); ok {
		return cellPos{row: g.glyphs[i].row, col: g.glyphs[i].col}
	}
	i := sort.Search(len(g.glyphs), func(i int) bool { return g.glyphs[i].start >= off })
	if i < len(g.glyphs) {
		return cellPos{row: g.glyphs[i].row, col: g.glyphs[i].col}
	}
	return g.end
}

// offsetAt returns the buffer offset of the cursor slot closest to a cell.
func (l *CellLayout) offsetAt(buf *buffer.Buffer, row, col int) int {
	g := l.grid(buf)
	if row < 0 {
		return 0
	}
	if row >= g.rows() {
		return buf.Len()
	}
	glyphs := g.rowGlyphs(row)
	for _, gl := range glyphs {
		if gl.kind == glyphNewline {
			return gl.start
		}
		if col < gl.col+gl.width {
			if col > gl.col && col-gl.col >= (gl.width+1)/2 && gl.width > 1 {
				return gl.end
			}
			return gl.start
		}
	}
	if row+1 < g.rows() && len(glyphs) > 0 {
		// The slot after a soft-wrapped row belongs to the next row.
		return glyphs[len(glyphs)-1].start
	}
	return buf.Len()
}

func (g *cellGrid) glyphAt(off int) (int, bool) {
	i := sort.Search(len(g.glyphs), func(i int) bool { return g.glyphs[i].start >= off })
	if i < len(g.glyphs) && g.glyphs[i].start == off {
		return i, true
	}
	return 0, false
}

func (l *CellLayout) grid(buf *buffer.Buffer) *cellGrid {
	c := &l.cache
	if c.grid != nil && c.buf == buf && c.version == buf.TextVersion() &&
		c.width == l.Width && c.tabWidth == l.TabWidth && c.emojis == l.Emojis.Len() {
		return c.grid
	}
	*c = layoutCache{
		grid:     l.build(buf),
		buf:      buf,
		version:  buf.TextVersion(),
		width:    l.Width,
		tabWidth: l.TabWidth,
		emojis:   l.Emojis.Len(),
	}
	return c.grid
}

func (l *CellLayout) build(buf *buffer.Buffer) *cellGrid {
	chars := buf.Chars()
	g := &cellGrid{
		glyphs:   make([]glyph, 0, len(chars)),
		rowStart: []int{0},
	}
	row, col := 0, 0

	newRow := func(first int) {
		row++
		col = 0
		g.rowStart = append(g.rowStart, first)
	}

	for _, ch := range chars {
		gl := glyph{start: ch.Start, end: ch.End, text: ch.Text, kind: glyphText}
		switch {
		case ch.Text == "\n":
			gl.kind = glyphNewline
		case ch.Text == buffer.PlaceholderText:
			gl.width = 1
			if tag, ok := buf.TagAt(ch.Start); ok {
				if et, ok := tag.(buffer.EmojiTag); ok {
					if tok, ok := l.Emojis.Lookup(et.Key); ok {
						gl.kind = glyphEmoji
						gl.token = tok
						gl.width = max(tok.DisplaySize().Width, 1)
					}
				}
			}
		default:
			gl.width = graphemeCellWidth(ch.Text, col, l.TabWidth)
		}

		if l.Width > 0 && gl.kind != glyphNewline && col > 0 && col+gl.width > l.Width {
			rowFirst := g.rowStart[len(g.rowStart)-1]
			brk, ok := findWordWrapBreak(g.glyphs, rowFirst, len(g.glyphs))
			if !ok {
				brk = len(g.glyphs)
			}
			newRow(brk)
			for i := brk; i < len(g.glyphs); i++ {
				g.glyphs[i].row = row
				g.glyphs[i].col = col
				if g.glyphs[i].text == "\t" {
					g.glyphs[i].width = tabAdvance(col, l.TabWidth)
				}
				col += g.glyphs[i].width
			}
			if gl.text == "\t" {
				gl.width = tabAdvance(col, l.TabWidth)
			}
		}

		gl.row, gl.col = row, col
		g.glyphs = append(g.glyphs, gl)
		if gl.kind == glyphNewline {
			newRow(len(g.glyphs))
			continue
		}
		col += gl.width
	}

	g.end = cellPos{row: row, col: col}
	if l.Width > 0 && col >= l.Width {
		newRow(len(g.glyphs))
		g.end = cellPos{row: row, col: 0}
	}
	return g
}

// findWordWrapBreak returns the index of the first glyph after the last
// whitespace run in glyphs[start:overflow]. It fails when the row has no
// break point past its first glyph.
func findWordWrapBreak(glyphs []glyph, start, overflow int) (int, bool) {
	if start < 0 {
		start = 0
	}
	if overflow > len(glyphs) {
		overflow = len(glyphs)
	}
	if start >= overflow {
		return 0, false
	}

	lastBreak := -1
	i := start
	for i < overflow {
		if !isWrapSpace(glyphs[i]) {
			i++
			continue
		}
		j := i + 1
		for j < overflow && isWrapSpace(glyphs[j]) {
			j++
		}
		lastBreak = j
		i = j
	}

	if lastBreak <= start || lastBreak >= overflow {
		return 0, false
	}
	return lastBreak, true
}

func isWrapSpace(g glyph) bool {
	return g.kind == glyphText && graphemeutil.IsSpace(g.text)
}
