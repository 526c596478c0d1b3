package buffer

import "github.com/google/uuid"

// Placeholder is the reserved character standing in for an attachment.
const Placeholder = '\uFFFC'

// PlaceholderText is Placeholder as a string.
const PlaceholderText = string(Placeholder)

// Tag marks a run of characters as part of an atomic token.
//
// The set of tags is closed: MentionTag and EmojiTag.
type Tag interface {
	isTag()
}

// MentionTag covers the display text of one inserted mention.
type MentionTag struct {
	ID uuid.UUID
}

// EmojiTag covers the placeholder character of one inserted emoji.
type EmojiTag struct {
	ID  uuid.UUID
	Key string
}

func (MentionTag) isTag() {}
func (EmojiTag) isTag()   {}

func NewMentionTag() MentionTag {
	return MentionTag{ID: uuid.New()}
}

func NewEmojiTag(key string) EmojiTag {
	return EmojiTag{ID: uuid.New(), Key: key}
}

// Valid reports whether the tag carries an id.
func (t MentionTag) Valid() bool { return t.ID != uuid.Nil }

// CompositeID identifies one materialization of an emoji: the insertion id
// joined with the emoji key.
func (t EmojiTag) CompositeID() string {
	return t.ID.String() + "-" + t.Key
}

// Span attaches a tag to a range of the text.
type Span struct {
	Range Range
	Tag   Tag
}

func cloneSpans(in []Span) []Span {
	if len(in) == 0 {
		return nil
	}
	return append([]Span(nil), in...)
}

// shiftSpansForInsert opens a gap of n bytes at off. Spans ending at off or
// starting at off are not extended; a span strictly containing off is split.
func shiftSpansForInsert(spans []Span, off, n int) []Span {
	if n == 0 {
		return spans
	}
	out := make([]Span, 0, len(spans)+1)
	for _, s := range spans {
		switch {
		case s.Range.End <= off:
			out = append(out, s)
		case s.Range.Start >= off:
			out = append(out, Span{Range: Range{Start: s.Range.Start + n, End: s.Range.End + n}, Tag: s.Tag})
		default:
			out = append(out,
				Span{Range: Range{Start: s.Range.Start, End: off}, Tag: s.Tag},
				Span{Range: Range{Start: off + n, End: s.Range.End + n}, Tag: s.Tag},
			)
		}
	}
	return out
}

// shiftSpansForDelete removes r from every span, dropping spans that become
// empty.
func shiftSpansForDelete(spans []Span, r Range) []Span {
	if r.IsEmpty() {
		return spans
	}
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		next := Range{Start: mapDeleted(s.Range.Start, r), End: mapDeleted(s.Range.End, r)}
		if next.IsEmpty() {
			continue
		}
		out = append(out, Span{Range: next, Tag: s.Tag})
	}
	return mergeSpans(out)
}

func mapDeleted(x int, r Range) int {
	switch {
	case x <= r.Start:
		return x
	case x < r.End:
		return r.Start
	default:
		return x - r.Len()
	}
}

func insertSpan(spans []Span, s Span) []Span {
	if s.Tag == nil || s.Range.IsEmpty() {
		return spans
	}
	i := 0
	for i < len(spans) && spans[i].Range.Start < s.Range.Start {
		i++
	}
	out := make([]Span, 0, len(spans)+1)
	out = append(out, spans[:i]...)
	out = append(out, s)
	out = append(out, spans[i:]...)
	return mergeSpans(out)
}

// mergeSpans joins touching spans that carry the same tag value.
func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if last.Range.End == s.Range.Start && last.Tag == s.Tag {
			last.Range.End = s.Range.End
			continue
		}
		out = append(out, s)
	}
	return out
}
