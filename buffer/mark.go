package buffer

// MarkID identifies a pending insertion point. Younger marks have larger ids.
type MarkID uint64

type mark struct {
	id  MarkID
	off int
}

// Mark records a zero-width position at off that follows later edits.
//
// Insertions before the mark shift it; insertions at its offset leave it in
// place, so text typed after the mark was taken lands after the eventual
// insertion. Deleting a range around the mark collapses it to the range
// start. Clear and DropMarks discard it.
func (b *Buffer) Mark(off int) MarkID {
	b.nextMark++
	b.marks = append(b.marks, mark{id: b.nextMark, off: b.clampOffset(off)})
	return b.nextMark
}

// MarkOffset returns the current offset of a live mark.
func (b *Buffer) MarkOffset(id MarkID) (int, bool) {
	if i := b.markIndex(id); i >= 0 {
		return b.marks[i].off, true
	}
	return 0, false
}

func (b *Buffer) Unmark(id MarkID) {
	if i := b.markIndex(id); i >= 0 {
		b.marks = append(b.marks[:i], b.marks[i+1:]...)
	}
}

// DropMarks discards every pending mark.
func (b *Buffer) DropMarks() { b.marks = nil }

// InsertAtMark splices text at a live mark and consumes it. Younger marks at
// the same offset move after the inserted run so that insertions land in the
// order their marks were taken. It reports false when the mark is gone.
func (b *Buffer) InsertAtMark(id MarkID, text string, tag Tag) (Range, bool) {
	i := b.markIndex(id)
	if i < 0 {
		return Range{}, false
	}
	via := b.marks[i]

	prev := b.snapshot()
	change := b.beginChange()
	applied, changed := b.replaceRange(Range{Start: via.off, End: via.off}, text, tag, &via)
	b.Unmark(id)
	if !changed {
		return Range{Start: via.off, End: via.off}, true
	}

	b.sel = selectionState{}
	b.bumpText()
	b.recordUndo(prev)
	change.addAppliedEdit(applied)
	b.commitChange(change)
	return applied.RangeAfter, true
}

func (b *Buffer) markIndex(id MarkID) int {
	for i, m := range b.marks {
		if m.id == id {
			return i
		}
	}
	return -1
}
