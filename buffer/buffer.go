package buffer

import "github.com/iw2rmb/chatline/internal/grapheme"

type Options struct {
	HistoryLimit int // default: 1000
}

type selectionState struct {
	active bool
	anchor int
	end    int
}

// Char is one displayed character (grapheme cluster) and its byte span.
type Char struct {
	Text  string
	Start int
	End   int
}

// Buffer is the pure composer state: text, tag spans, cursor, selection and
// pending insertion marks.
type Buffer struct {
	text  string
	spans []Span

	version     uint64
	textVersion uint64

	cursor int
	sel    selectionState

	marks    []mark
	nextMark MarkID

	opt  Options
	hist historyState

	lastChange    Change
	hasLastChange bool
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	return &Buffer{
		text: text,
		opt:  opt,
	}
}

func (b *Buffer) Text() string { return b.text }

// Len returns the text length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// CharCount returns the number of displayed characters.
func (b *Buffer) CharCount() int { return grapheme.Count(b.text) }

// Chars returns the displayed characters in order.
func (b *Buffer) Chars() []Char {
	clusters := grapheme.Clusters(b.text)
	out := make([]Char, len(clusters))
	for i, c := range clusters {
		out[i] = Char{Text: c.Text, Start: c.Start, End: c.End}
	}
	return out
}

// Substring returns the text in r, clamped into bounds.
func (b *Buffer) Substring(r Range) string {
	r = ClampRange(r, len(b.text))
	return b.text[r.Start:r.End]
}

func (b *Buffer) Version() uint64 { return b.version }

// TextVersion changes only when text or tags change.
func (b *Buffer) TextVersion() uint64 { return b.textVersion }

func (b *Buffer) Cursor() int { return b.cursor }

func (b *Buffer) SetCursor(off int) {
	next := b.clampOffset(off)
	if next == b.cursor {
		return
	}
	b.cursor = next
	b.version++
}

func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := NormalizeRange(Range{Start: b.sel.anchor, End: b.sel.end})
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

// SelectionRaw returns the raw selection anchor/end without normalization.
//
// This is useful for UI layers that need to preserve the selection direction
// while still treating empty selections as inactive.
func (b *Buffer) SelectionRaw() (Range, bool) {
	if !b.sel.active || b.sel.anchor == b.sel.end {
		return Range{}, false
	}
	return Range{Start: b.sel.anchor, End: b.sel.end}, true
}

func (b *Buffer) SetSelection(r Range) {
	next := selectionState{
		active: true,
		anchor: b.clampOffset(r.Start),
		end:    b.clampOffset(r.End),
	}
	if next.anchor == next.end {
		next = selectionState{}
	}

	prevRange, prevOK := b.Selection()
	nextRange, nextOK := Range{}, next.active
	if nextOK {
		nextRange = NormalizeRange(Range{Start: next.anchor, End: next.end})
	}

	b.sel = next
	if prevOK == nextOK && (!prevOK || prevRange == nextRange) {
		return
	}
	b.version++
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	_, ok := b.Selection()
	b.sel = selectionState{}
	if ok {
		b.version++
	}
}

// TagAt returns the tag covering the character that starts at off.
func (b *Buffer) TagAt(off int) (Tag, bool) {
	for _, s := range b.spans {
		if s.Range.Start > off {
			break
		}
		if s.Range.Contains(off) {
			return s.Tag, true
		}
	}
	return nil, false
}

// Spans returns every tagged range in document order.
func (b *Buffer) Spans() []Span { return cloneSpans(b.spans) }

// SpansOf returns all ranges carrying exactly tag.
func (b *Buffer) SpansOf(tag Tag) []Span {
	return b.SpansFunc(func(t Tag) bool { return t == tag })
}

// SpansFunc returns all ranges whose tag satisfies pred.
func (b *Buffer) SpansFunc(pred func(Tag) bool) []Span {
	var out []Span
	for _, s := range b.spans {
		if pred(s.Tag) {
			out = append(out, s)
		}
	}
	return out
}

// SpansIn returns all spans intersecting r.
func (b *Buffer) SpansIn(r Range) []Span {
	r = NormalizeRange(r)
	var out []Span
	for _, s := range b.spans {
		if r.Intersects(s.Range) {
			out = append(out, s)
		}
	}
	return out
}

// clampOffset clamps off into the text and snaps it back onto a grapheme
// boundary.
func (b *Buffer) clampOffset(off int) int {
	off = clampInt(off, 0, len(b.text))
	if grapheme.Boundary(b.text, off) {
		return off
	}
	return grapheme.Prev(b.text, off)
}
