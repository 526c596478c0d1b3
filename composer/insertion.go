package composer

import (
	"github.com/iw2rmb/chatline/block"
	"github.com/iw2rmb/chatline/buffer"
)

// Insertion tracks one asynchronous insertion: a single emoji or a whole
// rendered sequence.
type Insertion struct {
	id   string
	done chan struct{}

	inserted bool

	// emoji insertions only
	token  block.CustomEmoji
	tag    buffer.EmojiTag
	mark   buffer.MarkID
	silent bool
}

func newInsertion(id string) *Insertion {
	return &Insertion{id: id, done: make(chan struct{})}
}

// ID identifies the insertion. For emoji it is the composite id of the tag
// the placeholder will carry.
func (i *Insertion) ID() string { return i.id }

// Done is closed once the insertion has landed or been abandoned.
func (i *Insertion) Done() <-chan struct{} { return i.done }

// Inserted reports whether the insertion landed in the buffer. It is valid
// after Done is closed.
func (i *Insertion) Inserted() bool {
	select {
	case <-i.done:
		return i.inserted
	default:
		return false
	}
}

func (i *Insertion) resolve(inserted bool) {
	select {
	case <-i.done:
		return
	default:
	}
	i.inserted = inserted
	close(i.done)
}
