package ast

// TextProvider resolves document text for a span. Snapshots from the
// text package satisfy it. The root keeps a provider reference, not the
// text itself; the association is only valid for the snapshot the tree
// was built against.
type TextProvider interface {
	Len() int
	Slice(start, length int) string
	Version() int
}

// Root is the top of a syntax tree. It owns the diagnostics produced by
// the parse and the ordered, non-overlapping comment ranges of the
// source. Created once per full parse and replaced wholesale, never
// rebuilt in place.
type Root struct {
	Node
	Text        TextProvider
	Diagnostics []Diagnostic
	Comments    CommentRanges
}

func NewRoot(text TextProvider) *Root {
	length := 0
	if text != nil {
		length = text.Len()
	}
	return &Root{
		Node: Node{Kind: KindRoot, Range: TextRange{Start: 0, Length: length}},
		Text: text,
	}
}

// TextOf resolves a node's current text through the root's provider.
func (r *Root) TextOf(n *Node) string {
	if r.Text == nil {
		return n.Literal
	}
	return r.Text.Slice(n.Range.Start, n.Range.Length)
}

// NodeFromPosition returns the smallest node containing the offset, not
// counting the root itself. Returns nil when the offset falls outside
// every top-level node.
func (r *Root) NodeFromPosition(offset int) *Node {
	for _, child := range r.Children {
		if found := child.NodeFromPosition(offset); found != nil {
			return found
		}
	}
	return nil
}

// NodeFromRange returns the smallest node fully containing the span,
// not counting the root itself.
func (r *Root) NodeFromRange(start, length int) *Node {
	for _, child := range r.Children {
		if found := child.NodeFromRange(start, length); found != nil {
			return found
		}
	}
	return nil
}

// CommentContainingRange returns the comment fully containing
// [start, start+length), if any.
func (r *Root) CommentContainingRange(start, length int) (TextRange, bool) {
	return r.Comments.ContainingRange(start, length)
}

// IsRangeInComment reports whether the span falls inside one comment.
func (r *Root) IsRangeInComment(start, length int) bool {
	_, ok := r.Comments.ContainingRange(start, length)
	return ok
}

// AddDiagnostic records a parse problem against a node range.
func (r *Root) AddDiagnostic(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

func (r *Root) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// RemoveDiagnosticsIn purges diagnostics whose range intersects
// [start, end). Called when the nodes they were recorded against are
// removed during invalidation.
func (r *Root) RemoveDiagnosticsIn(start, end int) {
	kept := r.Diagnostics[:0]
	for _, d := range r.Diagnostics {
		if !d.Range.Intersects(start, end) {
			kept = append(kept, d)
		}
	}
	r.Diagnostics = kept
}

// ReflectChange shifts node spans, comment ranges, and diagnostic
// ranges after the text [start, oldEnd) was replaced by oldEnd-start
// +delta bytes. Diagnostics behave like comment ranges: spanning ones
// grow or shrink, straddlers are dropped until the next full parse.
func (r *Root) ReflectChange(start, oldEnd, delta int) {
	r.Range.Length += delta
	for _, child := range r.Children {
		child.ReflectChange(start, oldEnd, delta)
	}
	r.Comments.ReflectChange(start, oldEnd, delta)
	kept := r.Diagnostics[:0]
	for _, d := range r.Diagnostics {
		switch {
		case d.Range.End() <= start:
			kept = append(kept, d)
		case d.Range.Start >= oldEnd:
			d.Range.Start += delta
			kept = append(kept, d)
		case d.Range.Start <= start && d.Range.End() >= oldEnd:
			d.Range.Length += delta
			kept = append(kept, d)
		}
	}
	r.Diagnostics = kept
}
