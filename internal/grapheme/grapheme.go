package grapheme

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Cluster is one displayed character of a text together with its byte span.
type Cluster struct {
	Text  string
	Start int
	End   int
}

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Clusters returns grapheme clusters for text with their byte offsets.
func Clusters(text string) []Cluster {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]Cluster, 0, len(text))
	for g.Next() {
		start, end := g.Positions()
		out = append(out, Cluster{Text: g.Str(), Start: start, End: end})
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Boundary reports whether off falls on a grapheme cluster boundary of text.
// Both ends of text are boundaries.
func Boundary(text string, off int) bool {
	if off <= 0 || off >= len(text) {
		return off == 0 || off == len(text)
	}
	for _, c := range Clusters(text) {
		if c.Start == off {
			return true
		}
		if c.Start > off {
			return false
		}
	}
	return false
}

// Prev returns the start offset of the cluster ending at or spanning off.
func Prev(text string, off int) int {
	prev := 0
	for _, c := range Clusters(text) {
		if c.End >= off {
			return c.Start
		}
		prev = c.End
	}
	return prev
}

// Next returns the end offset of the cluster starting at or spanning off.
func Next(text string, off int) int {
	for _, c := range Clusters(text) {
		if c.End > off {
			return c.End
		}
	}
	return len(text)
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsPunct reports whether all runes in cluster are Unicode punctuation.
func IsPunct(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
