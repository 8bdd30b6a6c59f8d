package tree

import (
	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
)

// invalidation is the outcome of applying one change to a tree by
// pruning rather than reparsing.
type invalidation struct {
	// removed holds every node detached from the tree, outermost first.
	removed []*ast.Node
	// salvaged is true when a composite node fully containing the
	// change survived the pruning, so the tree still accounts for the
	// edit. False means only a full reparse can re-cover the region.
	salvaged bool
}

// invalidate prunes the parts of root damaged by the change and shifts
// the survivors to post-edit positions. The change's offsets are
// relative to the text the tree was built against.
//
// Atomic tokens intersecting the change are always removed. A composite
// node that fully contains the change is recursed into and kept; one
// the change straddles is removed whole. Removal within one parent is a
// single contiguous cut, so a damaged node in the middle takes the
// siblings between the outermost damaged pair with it. A zero-length
// insertion on a node boundary intersects nothing and removes nothing.
func invalidate(root *ast.Root, c text.Change) invalidation {
	var inv invalidation
	invalidateChildren(root, &root.Node, c, &inv)

	// The edit is absorbed when its old range still resolves to a
	// composite node after pruning. Anything looser, like top-level
	// damage or an insertion between tokens, leaves text no node
	// accounts for.
	if at := root.NodeFromRange(c.Start, c.OldLength); at != nil && !at.IsToken() {
		inv.salvaged = true
	}

	root.ReflectChange(c.Start, c.OldEnd(), c.Delta())
	return inv
}

func invalidateChildren(root *ast.Root, n *ast.Node, c text.Change, inv *invalidation) {
	start, oldEnd := c.Start, c.OldEnd()
	first, last := -1, -1
	for i, child := range n.Children {
		if !child.Range.Intersects(start, oldEnd) {
			continue
		}
		if !child.IsToken() && child.Range.ContainsRange(start, oldEnd) {
			invalidateChildren(root, child, c, inv)
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return
	}
	cut := n.RemoveChildren(first, last)
	for _, removed := range cut {
		root.RemoveDiagnosticsIn(removed.Range.Start, removed.Range.End())
	}
	inv.removed = append(inv.removed, cut...)
}
