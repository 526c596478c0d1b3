package block

import (
	"strings"
	"unicode/utf8"

	"github.com/iw2rmb/chatline/buffer"
	"github.com/iw2rmb/chatline/internal/grapheme"
)

// Source is the read side of a tagged buffer. *buffer.Buffer implements it.
type Source interface {
	Text() string
	TagAt(off int) (buffer.Tag, bool)
}

var _ Source = (*buffer.Buffer)(nil)

// Parse derives the block sequence of src.
//
// Placeholder characters resolve through emojis by their tag key and are
// skipped when unresolved. Mention-tagged runs are bundled and resolved by
// display string through mentions; a run with no registered mention is
// dropped. Parse does not modify src or the registries.
func Parse(src Source, emojis *EmojiRegistry, mentions *MentionRegistry) []Block {
	text := src.Text()
	if text == "" {
		return nil
	}

	b := bundler{mentions: mentions}
	off := 0
	for _, ch := range grapheme.Split(text) {
		tag, _ := src.TagAt(off)
		off += len(ch)

		if r, _ := utf8.DecodeRuneInString(ch); r == buffer.Placeholder {
			et, ok := tag.(buffer.EmojiTag)
			if !ok {
				continue
			}
			e, ok := emojis.Lookup(et.Key)
			if !ok {
				continue
			}
			b.emoji(e)
			continue
		}
		if mt, ok := tag.(buffer.MentionTag); ok && mt.Valid() {
			b.mention(ch)
			continue
		}
		b.plain(ch)
	}
	return b.finish()
}

// bundler merges per-character fragments into minimal runs. Runs are
// delimited by the kind of the previous fragment.
type bundler struct {
	mentions *MentionRegistry
	out      []Block

	prev    Kind
	started bool
	text    strings.Builder
}

func (b *bundler) plain(s string) {
	if b.started && b.prev != KindPlain {
		b.flush()
	}
	b.text.WriteString(s)
	b.prev, b.started = KindPlain, true
}

func (b *bundler) mention(s string) {
	if b.started && b.prev != KindMention {
		b.flush()
	}
	b.text.WriteString(s)
	b.prev, b.started = KindMention, true
}

func (b *bundler) emoji(e CustomEmoji) {
	b.flush()
	b.out = append(b.out, e)
	b.prev, b.started = KindCustomEmoji, true
}

func (b *bundler) flush() {
	if b.text.Len() == 0 {
		return
	}
	s := b.text.String()
	b.text.Reset()
	switch b.prev {
	case KindPlain:
		// A dropped mention run can leave two plain runs next to each other.
		if n := len(b.out); n > 0 {
			if last, ok := b.out[n-1].(Plain); ok {
				b.out[n-1] = Plain{Text: last.Text + s}
				return
			}
		}
		b.out = append(b.out, Plain{Text: s})
	case KindMention:
		if m, ok := b.mentions.Lookup(s); ok {
			b.out = append(b.out, m)
		}
	}
}

func (b *bundler) finish() []Block {
	b.flush()
	return b.out
}
