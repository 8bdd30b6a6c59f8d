package ast

import "sort"

// CommentRanges is the ordered, non-overlapping set of comment token
// spans in a document. Comments never become tree nodes; consumers ask
// the root whether a range falls inside one.
type CommentRanges []TextRange

func (c *CommentRanges) Add(r TextRange) {
	*c = append(*c, r)
	sort.Slice(*c, func(i, j int) bool {
		return (*c)[i].Start < (*c)[j].Start
	})
}

// ContainingRange returns the comment that fully contains
// [start, start+length), if any.
func (c CommentRanges) ContainingRange(start, length int) (TextRange, bool) {
	i := sort.Search(len(c), func(i int) bool {
		return c[i].End() > start
	})
	if i < len(c) && c[i].ContainsRange(start, start+length) {
		return c[i], true
	}
	return TextRange{}, false
}

// Contains reports whether the offset falls inside any comment.
func (c CommentRanges) Contains(offset int) bool {
	i := sort.Search(len(c), func(i int) bool {
		return c[i].End() > offset
	})
	return i < len(c) && c[i].Contains(offset)
}

// ReflectChange shifts and resizes comment ranges after the text
// [start, oldEnd) was replaced by oldEnd-start+delta bytes. A comment
// straddling the change boundary is dropped; the next full parse
// rediscovers it.
func (c *CommentRanges) ReflectChange(start, oldEnd, delta int) {
	kept := (*c)[:0]
	for _, r := range *c {
		switch {
		case r.End() <= start:
			kept = append(kept, r)
		case r.Start >= oldEnd:
			r.Start += delta
			kept = append(kept, r)
		case r.Start <= start && r.End() >= oldEnd:
			r.Length += delta
			kept = append(kept, r)
		}
	}
	*c = kept
}
