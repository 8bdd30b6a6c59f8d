package ast

// TextRange is a half-open span [Start, Start+Length) of byte offsets.
type TextRange struct {
	Start  int
	Length int
}

func NewRange(start, end int) TextRange {
	return TextRange{Start: start, Length: end - start}
}

func (r TextRange) End() int {
	return r.Start + r.Length
}

// Contains reports whether the offset falls inside the half-open span.
// An offset equal to End is outside, so a position on the boundary
// between two adjacent ranges belongs to the right-hand one.
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End()
}

// ContainsRange reports whether [start, end) lies entirely inside r.
func (r TextRange) ContainsRange(start, end int) bool {
	return start >= r.Start && end <= r.End()
}

// Intersects reports whether r overlaps [start, end). A zero-length
// probe intersects when it falls strictly inside r; on r's boundaries
// it does not, matching the "edit between nodes" rule.
func (r TextRange) Intersects(start, end int) bool {
	if start == end {
		return start > r.Start && start < r.End()
	}
	return start < r.End() && end > r.Start
}
