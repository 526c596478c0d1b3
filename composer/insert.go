package composer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
)

// InsertPlain replaces the selection, or inserts at the cursor, with text and
// moves the cursor after it.
func (c *Composer) InsertPlain(text string) tea.Cmd {
	if !c.insertPlain(text) {
		return nil
	}
	return c.settle(true)
}

// InsertMention registers m and inserts its display string as one tagged
// run followed by a plain space, replacing the selection if there is one.
func (c *Composer) InsertMention(m block.Mention) tea.Cmd {
	if !c.insertMention(m, true) {
		return nil
	}
	return c.settle(true)
}

// InsertEmoji registers e and starts loading its image. The placeholder is
// inserted when the returned command's message reaches Update, at the
// position the cursor had when InsertEmoji was called.
//
// A second call for the same emoji at the same position while the first is
// still loading returns the first Insertion and a nil command.
func (c *Composer) InsertEmoji(e block.CustomEmoji) (*Insertion, tea.Cmd) {
	return c.insertEmoji(e, false)
}

func (c *Composer) insertRange() buffer.Range {
	if r, ok := c.buf.Selection(); ok {
		return r
	}
	off := c.buf.Cursor()
	return buffer.Range{Start: off, End: off}
}

func (c *Composer) insertPlain(text string) bool {
	if text == "" {
		return false
	}
	before := c.buf.TextVersion()
	c.buf.InsertText(text)
	return c.buf.TextVersion() != before
}

// insertMention inserts m at the cursor. With space, a plain space follows
// the mention so that backspace removes the space before the mention.
func (c *Composer) insertMention(m block.Mention, space bool) bool {
	if m.Display == "" {
		return false
	}
	c.mentions.Register(m)

	r := c.insertRange()
	edits := []buffer.TextEdit{{Range: r, Text: m.Display, Tag: buffer.NewMentionTag()}}
	if space {
		end := r.Start + len(m.Display)
		edits = append(edits, buffer.TextEdit{Range: buffer.Range{Start: end, End: end}, Text: " "})
	}
	c.buf.Apply(edits...)
	return true
}

func (c *Composer) insertEmoji(e block.CustomEmoji, silent bool) (*Insertion, tea.Cmd) {
	c.emojis.Register(e)

	off := c.insertRange().Start
	if !silent {
		for _, p := range c.pending {
			if p.silent || !p.token.Equal(e) {
				continue
			}
			if at, ok := c.buf.MarkOffset(p.mark); ok && at == off {
				return p, nil
			}
		}
	}

	tag := buffer.NewEmojiTag(e.Key())
	ins := newInsertion(tag.CompositeID())
	ins.token = e
	ins.tag = tag
	ins.mark = c.buf.Mark(off)
	ins.silent = silent
	c.pending[ins.id] = ins

	if img, ok := c.images[e.Key()]; ok && img != nil {
		return ins, func() tea.Msg {
			return EmojiLoadedMsg{ID: ins.id, Key: e.Key(), Image: img}
		}
	}
	loader, group := c.cfg.Loader, c.loads
	return ins, func() tea.Msg {
		img, err := loadImage(loader, group, e.ImageURL)
		return EmojiLoadedMsg{ID: ins.id, Key: e.Key(), Image: img, Err: err}
	}
}

// completeEmoji lands a loaded emoji at its mark. A completion whose
// insertion was abandoned, or whose mark is gone, changes nothing.
func (c *Composer) completeEmoji(msg EmojiLoadedMsg) tea.Cmd {
	ins, ok := c.pending[msg.ID]
	if !ok {
		return nil
	}
	delete(c.pending, msg.ID)
	c.storeImage(msg.Key, msg.Image, msg.Err)

	var cmds []tea.Cmd
	_, inserted := c.buf.InsertAtMark(ins.mark, buffer.PlaceholderText, ins.tag)
	if inserted {
		cmds = append(cmds, c.settle(!ins.silent))
	} else {
		c.log.Debug("stale emoji completion", "id", msg.ID)
	}
	ins.resolve(inserted)

	if r, ok := c.replays[msg.ID]; ok {
		delete(c.replays, msg.ID)
		cmds = append(cmds, c.step(r))
	}
	return tea.Batch(cmds...)
}

type replay struct {
	seq    *Insertion
	blocks []block.Block
	next   int
}

// RenderSequence inserts blocks in order at the cursor. Each emoji is
// awaited before the next block is inserted, so the buffer ends up in input
// order. Mentions are inserted without the trailing space InsertMention
// adds. OnBlocksChanged fires once, after the last block.
func (c *Composer) RenderSequence(blocks []block.Block) (*Insertion, tea.Cmd) {
	r := &replay{
		seq:    newInsertion(uuid.NewString()),
		blocks: append([]block.Block(nil), blocks...),
	}
	return r.seq, c.step(r)
}

func (c *Composer) step(r *replay) tea.Cmd {
	for r.next < len(r.blocks) {
		b := r.blocks[r.next]
		r.next++
		switch v := b.(type) {
		case block.Plain:
			c.insertPlain(v.Text)
		case block.Mention:
			c.insertMention(v, false)
		case block.CustomEmoji:
			ins, load := c.insertEmoji(v, true)
			c.replays[ins.id] = r
			return tea.Batch(c.settle(false), load)
		}
	}
	cmd := c.settle(true)
	r.seq.resolve(true)
	return cmd
}
