package composer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/chatline/buffer"
)

// Edit applies e through Guard. A deletion inside a mention removes the
// whole mention; OnBlocksChanged fires once either way.
func (c *Composer) Edit(e Edit) tea.Cmd {
	d := Guard(c.buf, e)
	if d.Action == Expand {
		c.log.Debug("mention deletion widened", "requested", e.Range, "ranges", d.Ranges)
	}

	before := c.buf.TextVersion()
	for _, id := range d.Detach {
		c.overlays.Detach(id)
	}

	if e.Text != "" {
		c.buf.Replace(d.Ranges[0], e.Text, nil)
	} else {
		edits := make([]buffer.TextEdit, 0, len(d.Ranges))
		for i := len(d.Ranges) - 1; i >= 0; i-- {
			edits = append(edits, buffer.TextEdit{Range: d.Ranges[i]})
		}
		c.buf.Apply(edits...)
	}

	if d.BulkClear {
		c.bulkClear()
	}
	if c.buf.TextVersion() == before {
		return c.syncOverlays()
	}
	c.logChange()
	return c.settle(true)
}

// logChange records the last buffer change at debug level, counting the
// tagged spans it removed.
func (c *Composer) logChange() {
	ch, ok := c.buf.LastChange()
	if !ok {
		return
	}
	var deleted strings.Builder
	tokens := 0
	for _, e := range ch.AppliedEdits {
		deleted.WriteString(e.DeletedText)
		tokens += len(e.DeletedSpans)
	}
	c.log.Debug("edit applied", "edits", len(ch.AppliedEdits), "deleted", deleted.String(), "tokens", tokens, "cursor", ch.CursorAfter)
}

// bulkClear forgets session state once the user has deleted everything.
// Emoji stay registered; their identity does not depend on the session.
// History goes with the mentions: undo would restore tagged text that no
// longer resolves.
func (c *Composer) bulkClear() {
	c.log.Debug("buffer emptied", "mentions", c.mentions.Len(), "overlays", c.overlays.Len())
	c.mentions.Reset()
	c.buf.ResetHistory()
	c.overlays.DetachAll()
	c.abandonPending()
}

// DeleteBackward deletes the selection or the character before the cursor.
func (c *Composer) DeleteBackward() tea.Cmd {
	return c.Edit(Edit{Range: c.buf.BackwardRange()})
}

// DeleteForward deletes the selection or the character after the cursor.
func (c *Composer) DeleteForward() tea.Cmd {
	return c.Edit(Edit{Range: c.buf.ForwardRange()})
}

// DeleteSelection deletes the active selection, if any.
func (c *Composer) DeleteSelection() tea.Cmd {
	r, ok := c.buf.Selection()
	if !ok {
		return nil
	}
	return c.Edit(Edit{Range: r})
}

// Undo reverts the last buffer change.
func (c *Composer) Undo() tea.Cmd {
	if !c.buf.Undo() {
		return nil
	}
	return c.settle(true)
}

// Redo reapplies the last undone change.
func (c *Composer) Redo() tea.Cmd {
	if !c.buf.Redo() {
		return nil
	}
	return c.settle(true)
}
