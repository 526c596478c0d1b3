package buffer

// Range is a half-open span of byte offsets: [Start, End).
// Start <= End after normalization.
type Range struct {
	Start int
	End   int
}

// TextEdit replaces the text in Range with Text. A non-nil Tag covers the
// inserted run.
type TextEdit struct {
	Range Range
	Text  string
	Tag   Tag
}

func NormalizeRange(r Range) Range {
	if r.Start <= r.End {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) Len() int {
	r = NormalizeRange(r)
	return r.End - r.Start
}

// Contains reports whether off lies inside r.
func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

// Intersects reports whether r and o share at least one offset. An empty r
// intersects o when it sits strictly inside o.
func (r Range) Intersects(o Range) bool {
	if r.IsEmpty() {
		return r.Start > o.Start && r.Start < o.End
	}
	return r.Start < o.End && o.Start < r.End
}

// Union returns the smallest range covering r and o.
func (r Range) Union(o Range) Range {
	return Range{Start: minInt(r.Start, o.Start), End: maxInt(r.End, o.End)}
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampRange clamps r into [0, n] and normalizes it.
func ClampRange(r Range, n int) Range {
	return NormalizeRange(Range{
		Start: clampInt(r.Start, 0, n),
		End:   clampInt(r.End, 0, n),
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
