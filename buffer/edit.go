package buffer

import "github.com/iw2rmb/chatline/internal/grapheme"

// Insert splices text at off. A non-nil tag covers the inserted run.
// The cursor advances when it sits at or after off.
func (b *Buffer) Insert(off int, text string, tag Tag) Range {
	return b.Replace(Range{Start: off, End: off}, text, tag)
}

// Delete removes the text in r and returns it.
func (b *Buffer) Delete(r Range) string {
	r = b.clampRange(r)
	deleted := b.text[r.Start:r.End]
	b.Replace(r, "", nil)
	return deleted
}

// Replace replaces the text in r with text tagged by tag and returns the
// inserted range.
func (b *Buffer) Replace(r Range, text string, tag Tag) Range {
	return b.replace(r, text, tag, false)
}

func (b *Buffer) replace(r Range, text string, tag Tag, cursorToEnd bool) Range {
	prev := b.snapshot()
	change := b.beginChange()

	applied, changed := b.replaceRange(r, text, tag, nil)
	if !changed {
		return Range{Start: applied.RangeAfter.Start, End: applied.RangeAfter.Start}
	}

	if cursorToEnd {
		b.cursor = applied.RangeAfter.End
	}
	b.sel = selectionState{}
	b.bumpText()
	b.recordUndo(prev)
	change.addAppliedEdit(applied)
	b.commitChange(change)
	return applied.RangeAfter
}

// InsertText inserts untagged text at the cursor, or replaces the active
// selection.
func (b *Buffer) InsertText(s string) {
	r, ok := b.Selection()
	if !ok {
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.replace(r, s, nil, true)
}

// Clear empties the buffer, its tags, its history and every pending mark.
func (b *Buffer) Clear() {
	b.marks = nil
	if b.text != "" {
		b.Replace(Range{Start: 0, End: len(b.text)}, "", nil)
	}
	b.ResetHistory()
}

// BackwardRange returns the range backspace would remove: the active
// selection, or the character before the cursor.
func (b *Buffer) BackwardRange() Range {
	if r, ok := b.Selection(); ok {
		return r
	}
	return Range{Start: grapheme.Prev(b.text, b.cursor), End: b.cursor}
}

// ForwardRange returns the range delete would remove: the active selection,
// or the character after the cursor.
func (b *Buffer) ForwardRange() Range {
	if r, ok := b.Selection(); ok {
		return r
	}
	return Range{Start: b.cursor, End: grapheme.Next(b.text, b.cursor)}
}

func (b *Buffer) clampRange(r Range) Range {
	r = NormalizeRange(r)
	return Range{Start: b.clampOffset(r.Start), End: b.clampOffset(r.End)}
}

func (b *Buffer) bumpText() {
	b.version++
	b.textVersion++
}

// replaceRange performs the splice and moves cursor, spans and marks.
// via is the mark the insertion is made through, if any: younger marks at
// the same offset are pushed after the inserted run.
func (b *Buffer) replaceRange(r Range, text string, tag Tag, via *mark) (applied AppliedEdit, changed bool) {
	r = b.clampRange(r)
	if r.IsEmpty() && text == "" {
		return AppliedEdit{RangeAfter: r}, false
	}

	deleted := b.text[r.Start:r.End]
	if deleted == text && tag == nil && len(b.SpansIn(r)) == 0 {
		return AppliedEdit{RangeAfter: Range{Start: r.Start, End: r.End}}, false
	}

	deletedSpans := b.SpansIn(r)
	b.text = b.text[:r.Start] + text + b.text[r.End:]

	b.spans = shiftSpansForDelete(b.spans, r)
	b.spans = shiftSpansForInsert(b.spans, r.Start, len(text))
	b.spans = insertSpan(b.spans, Span{Range: Range{Start: r.Start, End: r.Start + len(text)}, Tag: tag})

	b.cursor = mapDeleted(b.cursor, r)
	if b.cursor >= r.Start {
		b.cursor += len(text)
	}

	for i := range b.marks {
		m := &b.marks[i]
		m.off = mapDeleted(m.off, r)
		switch {
		case m.off > r.Start:
			m.off += len(text)
		case m.off == r.Start && via != nil && m.id > via.id:
			m.off += len(text)
		}
	}

	return AppliedEdit{
		RangeBefore:  r,
		RangeAfter:   Range{Start: r.Start, End: r.Start + len(text)},
		InsertText:   text,
		DeletedText:  deleted,
		Tag:          tag,
		DeletedSpans: deletedSpans,
	}, true
}
