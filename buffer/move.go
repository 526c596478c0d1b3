package buffer

import (
	"strings"

	"github.com/iw2rmb/chatline/internal/grapheme"
)

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, updates selection anchor/end; if false clears selection
}

func (b *Buffer) Move(m Move) {
	prevCursor := b.cursor
	prevSel := b.sel

	nextCursor := b.clampOffset(b.moveCursor(prevCursor, m))

	nextSel := selectionState{}
	if m.Extend {
		anchor := prevCursor
		if prevSel.active && prevSel.anchor != prevSel.end {
			anchor = prevSel.anchor
		}
		if anchor != nextCursor {
			nextSel = selectionState{active: true, anchor: anchor, end: nextCursor}
		}
	}

	if prevCursor == nextCursor && selectionStateEqual(prevSel, nextSel) {
		return
	}

	b.cursor = nextCursor
	b.sel = nextSel
	b.version++
}

func selectionStateEqual(a, b selectionState) bool {
	if !a.active && !b.active {
		return true
	}
	return a.active == b.active && a.anchor == b.anchor && a.end == b.end
}

func (b *Buffer) moveCursor(off int, m Move) int {
	switch m.Unit {
	case MoveGrapheme:
		return b.moveGrapheme(off, m.Dir)
	case MoveWord:
		return b.moveWord(off, m.Dir)
	case MoveLine:
		return b.moveLine(off, m.Dir)
	case MoveDoc:
		return b.moveDoc(off, m.Dir)
	default:
		return off
	}
}

func (b *Buffer) moveGrapheme(off int, dir MoveDir) int {
	switch dir {
	case DirLeft:
		return grapheme.Prev(b.text, off)
	case DirRight:
		return grapheme.Next(b.text, off)
	default:
		return b.moveLine(off, dir)
	}
}

func (b *Buffer) moveWord(off int, dir MoveDir) int {
	switch dir {
	case DirLeft:
		return prevWordBoundary(b.Chars(), off)
	case DirRight:
		return nextWordBoundary(b.Chars(), off)
	default:
		return b.moveLine(off, dir)
	}
}

func (b *Buffer) moveLine(off int, dir MoveDir) int {
	start, end := b.lineBounds(off)

	switch dir {
	case DirHome:
		return start
	case DirEnd:
		return end
	case DirUp:
		if start == 0 {
			return off
		}
		col := grapheme.Count(b.text[start:off])
		prevStart, prevEnd := b.lineBounds(start - 1)
		return offsetForColumn(b.text[prevStart:prevEnd], prevStart, col)
	case DirDown:
		if end == len(b.text) {
			return off
		}
		col := grapheme.Count(b.text[start:off])
		nextStart, nextEnd := b.lineBounds(end + 1)
		return offsetForColumn(b.text[nextStart:nextEnd], nextStart, col)
	default:
		return off
	}
}

func (b *Buffer) moveDoc(off int, dir MoveDir) int {
	switch dir {
	case DirHome, DirUp:
		return 0
	case DirEnd, DirDown:
		return len(b.text)
	default:
		return off
	}
}

// lineBounds returns the logical line around off, excluding its newline.
func (b *Buffer) lineBounds(off int) (start, end int) {
	off = clampInt(off, 0, len(b.text))
	start = strings.LastIndexByte(b.text[:off], '\n') + 1
	end = len(b.text)
	if i := strings.IndexByte(b.text[off:], '\n'); i >= 0 {
		end = off + i
	}
	return start, end
}

func offsetForColumn(line string, base, col int) int {
	for i, c := range grapheme.Clusters(line) {
		if i == col {
			return base + c.Start
		}
	}
	return base + len(line)
}

// Word boundary rules:
// - skip whitespace, then skip non-whitespace
// - newlines count as whitespace
func prevWordBoundary(chars []Char, off int) int {
	i := len(chars)
	for i > 0 && chars[i-1].Start >= off {
		i--
	}
	for i > 0 && grapheme.IsSpace(chars[i-1].Text) {
		i--
	}
	for i > 0 && !grapheme.IsSpace(chars[i-1].Text) {
		i--
	}
	if i == len(chars) {
		return off
	}
	return chars[i].Start
}

func nextWordBoundary(chars []Char, off int) int {
	i := 0
	for i < len(chars) && chars[i].End <= off {
		i++
	}
	for i < len(chars) && grapheme.IsSpace(chars[i].Text) {
		i++
	}
	for i < len(chars) && !grapheme.IsSpace(chars[i].Text) {
		i++
	}
	if i == 0 {
		return off
	}
	return chars[i-1].End
}
