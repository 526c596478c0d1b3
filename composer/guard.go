package composer

import (
	"sort"

	"github.com/iw2rmb/chatline/buffer"
)

// Edit is a requested change: replace Range with Text. An empty Text is a
// deletion.
type Edit struct {
	Range buffer.Range
	Text  string
}

// Action is what Guard decided to do with an Edit.
type Action uint8

const (
	// Allow applies the edit as requested.
	Allow Action = iota
	// Expand rejects the requested range and deletes Decision.Ranges instead.
	Expand
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Expand:
		return "expand"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Guard.
type Decision struct {
	Action Action

	// Ranges are removed from the buffer, ascending and disjoint. For an
	// allowed edit it holds the requested range alone.
	Ranges []buffer.Range

	// Detach lists the composite ids of emoji overlays whose placeholders are
	// removed.
	Detach []string

	// BulkClear reports that the deletion leaves the buffer empty.
	BulkClear bool
}

// Guard decides how e is applied to buf so that atomic tokens are never
// partially deleted. It does not modify buf.
//
// Replacement text is always allowed. A deletion touching an emoji
// placeholder detaches its overlay and proceeds, the placeholder being a
// single character. A deletion touching a mention is widened to every span
// carrying that mention's tag.
func Guard(buf *buffer.Buffer, e Edit) Decision {
	r := buffer.ClampRange(buffer.NormalizeRange(e.Range), buf.Len())
	d := Decision{Action: Allow, Ranges: []buffer.Range{r}}

	if r.IsEmpty() {
		d.BulkClear = e.Text == "" && buf.Len() == 0
		return d
	}

	var mentions []buffer.MentionTag
	for _, s := range buf.SpansIn(r) {
		switch t := s.Tag.(type) {
		case buffer.EmojiTag:
			d.Detach = append(d.Detach, t.CompositeID())
		case buffer.MentionTag:
			if t.Valid() && !containsMention(mentions, t) {
				mentions = append(mentions, t)
			}
		}
	}
	if e.Text != "" {
		return d
	}

	if len(mentions) > 0 {
		ranges := []buffer.Range{r}
		for _, t := range mentions {
			for _, s := range buf.SpansOf(t) {
				ranges = append(ranges, s.Range)
			}
		}
		d.Action = Expand
		d.Ranges = mergeRanges(ranges)
	}

	removed := 0
	for _, x := range d.Ranges {
		removed += x.Len()
	}
	d.BulkClear = removed == buf.Len()
	return d
}

func containsMention(tags []buffer.MentionTag, t buffer.MentionTag) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}

// mergeRanges sorts ranges and joins overlapping or touching ones.
func mergeRanges(in []buffer.Range) []buffer.Range {
	rs := make([]buffer.Range, 0, len(in))
	for _, r := range in {
		if !r.IsEmpty() {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })

	out := rs[:0]
	for _, r := range rs {
		if n := len(out); n > 0 && r.Start <= out[n-1].End {
			out[n-1] = out[n-1].Union(r)
			continue
		}
		out = append(out, r)
	}
	return out
}
