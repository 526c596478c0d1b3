package buffer

// Apply applies a sequence of edits in order as one undoable change. Each
// edit's range is interpreted against the buffer state at the time that edit
// is applied.
//
// Semantics:
// - Edit ranges are clamped into current document bounds.
// - Empty range + non-empty text inserts.
// - The cursor follows the edits the same way it does for Replace.
// - Selection is cleared if any edit applies.
func (b *Buffer) Apply(edits ...TextEdit) {
	if len(edits) == 0 {
		return
	}

	prev := b.snapshot()
	change := b.beginChange()

	anyChanged := false
	for _, e := range edits {
		applied, changed := b.replaceRange(e.Range, e.Text, e.Tag, nil)
		if !changed {
			continue
		}
		anyChanged = true
		change.addAppliedEdit(applied)
	}

	if !anyChanged {
		return
	}

	b.sel = selectionState{}
	b.bumpText()
	b.recordUndo(prev)
	b.commitChange(change)
}
