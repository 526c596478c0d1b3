package buffer

import (
	"unicode/utf16"
	"unicode/utf8"
)

type OffsetClampMode uint8

const (
	OffsetError OffsetClampMode = iota
	OffsetClamp
)

type ConvertPolicy struct {
	ClampMode OffsetClampMode
}

// CharIndexFromOffset converts a byte offset into a displayed-character index.
func (b *Buffer) CharIndexFromOffset(off int, p ConvertPolicy) (int, bool) {
	off, ok := b.normalizeOffset(off, p.ClampMode)
	if !ok {
		return 0, false
	}
	n := 0
	for _, c := range b.Chars() {
		if c.Start >= off {
			break
		}
		n++
	}
	return n, true
}

// OffsetFromCharIndex converts a displayed-character index into a byte offset.
func (b *Buffer) OffsetFromCharIndex(idx int, p ConvertPolicy) (int, bool) {
	chars := b.Chars()
	idx, ok := clampIndex(idx, len(chars), p.ClampMode)
	if !ok {
		return 0, false
	}
	if idx == len(chars) {
		return len(b.text), true
	}
	return chars[idx].Start, true
}

// UTF16FromOffset converts a byte offset into a UTF-16 code unit offset, the
// indexing used by many platform text APIs.
func (b *Buffer) UTF16FromOffset(off int, p ConvertPolicy) (int, bool) {
	off, ok := b.normalizeOffset(off, p.ClampMode)
	if !ok {
		return 0, false
	}
	n := 0
	for _, r := range b.text[:off] {
		n += utf16Len(r)
	}
	return n, true
}

// OffsetFromUTF16 converts a UTF-16 code unit offset into a byte offset.
func (b *Buffer) OffsetFromUTF16(units int, p ConvertPolicy) (int, bool) {
	total := 0
	for _, r := range b.text {
		total += utf16Len(r)
	}
	units, ok := clampIndex(units, total, p.ClampMode)
	if !ok {
		return 0, false
	}

	seen := 0
	for i, r := range b.text {
		if seen >= units {
			if seen > units && p.ClampMode == OffsetError {
				return 0, false
			}
			return b.normalizeOffset(i, p.ClampMode)
		}
		seen += utf16Len(r)
	}
	if seen > units && p.ClampMode == OffsetError {
		return 0, false
	}
	return len(b.text), true
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func clampIndex(idx, max int, mode OffsetClampMode) (int, bool) {
	switch mode {
	case OffsetError:
		if idx < 0 || idx > max {
			return 0, false
		}
		return idx, true
	case OffsetClamp:
		return clampInt(idx, 0, max), true
	default:
		return 0, false
	}
}

// normalizeOffset validates off against the text: it must be in bounds and
// on a character boundary, or is clamped and snapped in OffsetClamp mode.
func (b *Buffer) normalizeOffset(off int, mode OffsetClampMode) (int, bool) {
	switch mode {
	case OffsetError:
		if off < 0 || off > len(b.text) {
			return 0, false
		}
		if off < len(b.text) && !utf8.RuneStart(b.text[off]) {
			return 0, false
		}
		if b.clampOffset(off) != off {
			return 0, false
		}
		return off, true
	case OffsetClamp:
		return b.clampOffset(off), true
	default:
		return 0, false
	}
}
