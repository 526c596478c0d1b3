package block

import "strings"

// Normalize returns blocks with empty Plain blocks removed and adjacent Plain
// blocks merged. The input is not modified.
func Normalize(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		p, ok := b.(Plain)
		if !ok {
			out = append(out, b)
			continue
		}
		if p.Text == "" {
			continue
		}
		if n := len(out); n > 0 {
			if last, ok := out[n-1].(Plain); ok {
				out[n-1] = Plain{Text: last.Text + p.Text}
				continue
			}
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Equal reports whether a and b hold the same blocks. Emoji compare by key.
func Equal(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !blockEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func blockEqual(a, b Block) bool {
	switch x := a.(type) {
	case Plain:
		y, ok := b.(Plain)
		return ok && x == y
	case Mention:
		y, ok := b.(Mention)
		return ok && x == y
	case CustomEmoji:
		y, ok := b.(CustomEmoji)
		return ok && x.Equal(y)
	default:
		return false
	}
}

// Encode flattens blocks into the text sent as a message: plain text
// verbatim, mentions as their metadata (or display string when metadata is
// empty) and emoji as their escaped form.
func Encode(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch v := b.(type) {
		case Plain:
			sb.WriteString(v.Text)
		case Mention:
			if v.Metadata != "" {
				sb.WriteString(v.Metadata)
			} else {
				sb.WriteString(v.Display)
			}
		case CustomEmoji:
			sb.WriteString(v.Key())
		}
	}
	return sb.String()
}

// PlainText returns blocks as the user sees them, with emoji shown by their
// escaped form.
func PlainText(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch v := b.(type) {
		case Plain:
			sb.WriteString(v.Text)
		case Mention:
			sb.WriteString(v.Display)
		case CustomEmoji:
			sb.WriteString(v.Key())
		}
	}
	return sb.String()
}
