package ast

import "strconv"

type NodeKind int

const (
	KindError NodeKind = iota
	KindRoot
	KindMissing

	// Token leaves
	KindIdentifier
	KindNumber
	KindString
	KindLogical
	KindNull
	KindNA
	KindOperator
	KindKeyword
	KindPunct
	KindBreak
	KindNext

	// Composite expressions
	KindAssignment
	KindBinary
	KindUnary
	KindCall
	KindArgument
	KindIndex
	KindFunction
	KindParameter
	KindIf
	KindFor
	KindWhile
	KindRepeat
	KindBlock
	KindParen
)

var nodeKindNames = map[NodeKind]string{
	KindError:      "Error",
	KindRoot:       "Root",
	KindMissing:    "Missing",
	KindIdentifier: "Identifier",
	KindNumber:     "Number",
	KindString:     "String",
	KindLogical:    "Logical",
	KindNull:       "Null",
	KindNA:         "NA",
	KindOperator:   "Operator",
	KindKeyword:    "Keyword",
	KindPunct:      "Punct",
	KindBreak:      "Break",
	KindNext:       "Next",
	KindAssignment: "Assignment",
	KindBinary:     "Binary",
	KindUnary:      "Unary",
	KindCall:       "Call",
	KindArgument:   "Argument",
	KindIndex:      "Index",
	KindFunction:   "Function",
	KindParameter:  "Parameter",
	KindIf:         "If",
	KindFor:        "For",
	KindWhile:      "While",
	KindRepeat:     "Repeat",
	KindBlock:      "Block",
	KindParen:      "Paren",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is one element of the syntax tree. Siblings are ordered by
// position and never overlap; a composite node's children tile its span,
// operator and punctuation tokens included. Literal carries the source
// text of token leaves as captured at parse time; for up-to-date text go
// through the root's text provider.
type Node struct {
	Kind     NodeKind
	Range    TextRange
	Parent   *Node
	Children []*Node
	Literal  string
}

// IsToken reports whether the node is an atomic leaf. Token nodes are
// never partially salvageable: any intersecting edit removes them.
func (n *Node) IsToken() bool {
	return len(n.Children) == 0
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// NodeFromPosition returns the smallest node under n that contains the
// offset, or nil. A position on the boundary between two siblings
// resolves to the right-hand one.
func (n *Node) NodeFromPosition(offset int) *Node {
	if !n.Range.Contains(offset) {
		return nil
	}
	for _, child := range n.Children {
		if inner := child.NodeFromPosition(offset); inner != nil {
			return inner
		}
	}
	return n
}

// NodeFromRange returns the smallest node under n whose span fully
// contains [start, start+length).
func (n *Node) NodeFromRange(start, length int) *Node {
	if !n.Range.ContainsRange(start, start+length) {
		return nil
	}
	for _, child := range n.Children {
		if inner := child.NodeFromRange(start, length); inner != nil {
			return inner
		}
	}
	return n
}

// RemoveChildren detaches the contiguous child range [first, last] and
// returns the removed nodes. Out-of-range indices are clamped; an empty
// or inverted range removes nothing.
func (n *Node) RemoveChildren(first, last int) []*Node {
	if first < 0 {
		first = 0
	}
	if last >= len(n.Children) {
		last = len(n.Children) - 1
	}
	if first > last {
		return nil
	}
	removed := make([]*Node, last-first+1)
	copy(removed, n.Children[first:last+1])
	for _, child := range removed {
		child.Parent = nil
	}
	n.Children = append(n.Children[:first], n.Children[last+1:]...)
	return removed
}

// ReflectChange adjusts spans after the text [start, oldEnd) was
// replaced by text of length oldEnd-start+delta. Nodes ending at or
// before the change keep their spans; nodes starting at or after the
// old end shift; nodes spanning the change grow or shrink. Nodes that
// merely straddle a boundary are left alone — invalidation removes
// those before positions are reflected.
func (n *Node) ReflectChange(start, oldEnd, delta int) {
	switch {
	case n.Range.End() <= start:
		return
	case n.Range.Start >= oldEnd:
		n.Range.Start += delta
		for _, child := range n.Children {
			child.ReflectChange(start, oldEnd, delta)
		}
	case n.Range.Start <= start && n.Range.End() >= oldEnd:
		n.Range.Length += delta
		for _, child := range n.Children {
			child.ReflectChange(start, oldEnd, delta)
		}
	}
}

// Walk visits n and every descendant in document order. Returning false
// from the visitor skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	result := prefix + n.Kind.String()
	if showPositions {
		result += " [" + strconv.Itoa(n.Range.Start) + "-" + strconv.Itoa(n.Range.End()) + ")"
	}
	if n.Literal != "" {
		result += " " + n.Literal
	}
	result += "\n"

	for _, child := range n.Children {
		result += child.stringIndent(indent+1, showPositions)
	}
	return result
}
