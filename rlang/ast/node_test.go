package ast

import "testing"

func tok(kind NodeKind, start, length int, lit string) *Node {
	return &Node{Kind: kind, Range: TextRange{Start: start, Length: length}, Literal: lit}
}

// buildAssignment builds the tree for "x <- 1": one Assignment node with
// identifier, operator, and number token children.
func buildAssignment() *Node {
	assign := &Node{Kind: KindAssignment, Range: TextRange{Start: 0, Length: 6}}
	assign.AddChild(tok(KindIdentifier, 0, 1, "x"))
	assign.AddChild(tok(KindOperator, 2, 2, "<-"))
	assign.AddChild(tok(KindNumber, 5, 1, "1"))
	return assign
}

func TestRangeIntersects(t *testing.T) {
	r := TextRange{Start: 2, Length: 3} // [2, 5)
	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"inside", 3, 4, true},
		{"covers", 0, 9, true},
		{"touches left edge", 0, 2, false},
		{"touches right edge", 5, 7, false},
		{"overlaps left", 1, 3, true},
		{"zero-length inside", 3, 3, true},
		{"zero-length at start", 2, 2, false},
		{"zero-length at end", 5, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.start, tt.end); got != tt.want {
				t.Errorf("Intersects(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestNodeFromPosition(t *testing.T) {
	assign := buildAssignment()

	tests := []struct {
		offset int
		want   NodeKind
	}{
		{0, KindIdentifier},
		{2, KindOperator},
		{3, KindOperator},
		{5, KindNumber},
		{1, KindAssignment}, // whitespace between tokens
		{4, KindAssignment},
	}
	for _, tt := range tests {
		got := assign.NodeFromPosition(tt.offset)
		if got == nil || got.Kind != tt.want {
			t.Errorf("NodeFromPosition(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}

	if got := assign.NodeFromPosition(6); got != nil {
		t.Errorf("NodeFromPosition(6) = %v, want nil", got)
	}
}

func TestNodeFromPositionPrefersRightHandNode(t *testing.T) {
	parent := &Node{Kind: KindBlock, Range: TextRange{Start: 0, Length: 4}}
	parent.AddChild(tok(KindIdentifier, 0, 2, "ab"))
	parent.AddChild(tok(KindIdentifier, 2, 2, "cd"))

	got := parent.NodeFromPosition(2)
	if got == nil || got.Literal != "cd" {
		t.Errorf("boundary position resolved to %v, want right-hand node", got)
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := &Node{Kind: KindBlock, Range: TextRange{Start: 0, Length: 10}}
	a := tok(KindIdentifier, 0, 1, "a")
	b := tok(KindIdentifier, 2, 1, "b")
	c := tok(KindIdentifier, 4, 1, "c")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	removed := parent.RemoveChildren(1, 2)
	if len(removed) != 2 || removed[0] != b || removed[1] != c {
		t.Fatalf("RemoveChildren(1, 2) = %v", removed)
	}
	if len(parent.Children) != 1 || parent.Children[0] != a {
		t.Errorf("remaining children = %v, want [a]", parent.Children)
	}
	if b.Parent != nil || c.Parent != nil {
		t.Errorf("removed nodes still parented")
	}

	if got := parent.RemoveChildren(3, 1); got != nil {
		t.Errorf("inverted range removed %v", got)
	}
}

func TestReflectChangeInsertion(t *testing.T) {
	// "x <- 1" with "y" inserted at offset 5 -> "x <- y1" shape: the
	// assignment grows, the number shifts, earlier tokens stay put.
	assign := buildAssignment()
	assign.ReflectChange(5, 5, 1)

	if assign.Range != (TextRange{Start: 0, Length: 7}) {
		t.Errorf("assignment range = %+v", assign.Range)
	}
	if assign.Children[0].Range.Start != 0 {
		t.Errorf("identifier moved to %d", assign.Children[0].Range.Start)
	}
	if assign.Children[2].Range.Start != 6 {
		t.Errorf("number start = %d, want 6", assign.Children[2].Range.Start)
	}
}

func TestReflectChangeDeletion(t *testing.T) {
	// Delete [1, 4) from a parent holding [0,1) and [4,6) spans.
	parent := &Node{Kind: KindBlock, Range: TextRange{Start: 0, Length: 6}}
	parent.AddChild(tok(KindIdentifier, 0, 1, "a"))
	parent.AddChild(tok(KindIdentifier, 4, 2, "bb"))

	parent.ReflectChange(1, 4, -3)

	if parent.Range.Length != 3 {
		t.Errorf("parent length = %d, want 3", parent.Range.Length)
	}
	if parent.Children[1].Range.Start != 1 {
		t.Errorf("second child start = %d, want 1", parent.Children[1].Range.Start)
	}
}

func TestReflectChangeInsertionAtBoundaryShiftsRightNode(t *testing.T) {
	parent := &Node{Kind: KindBlock, Range: TextRange{Start: 0, Length: 4}}
	left := tok(KindIdentifier, 0, 2, "ab")
	right := tok(KindIdentifier, 2, 2, "cd")
	parent.AddChild(left)
	parent.AddChild(right)

	parent.ReflectChange(2, 2, 1)

	if left.Range != (TextRange{Start: 0, Length: 2}) {
		t.Errorf("left node changed: %+v", left.Range)
	}
	if right.Range != (TextRange{Start: 3, Length: 2}) {
		t.Errorf("right node = %+v, want start 3", right.Range)
	}
}

func TestRootDiagnostics(t *testing.T) {
	root := NewRoot(nil)
	root.AddDiagnostic(Diagnostic{Range: TextRange{Start: 2, Length: 3}, Severity: SeverityError, Message: "bad"})
	root.AddDiagnostic(Diagnostic{Range: TextRange{Start: 8, Length: 1}, Severity: SeverityWarning, Message: "meh"})

	if !root.HasErrors() {
		t.Error("HasErrors() = false")
	}

	root.RemoveDiagnosticsIn(0, 6)
	if len(root.Diagnostics) != 1 || root.Diagnostics[0].Message != "meh" {
		t.Errorf("diagnostics after purge = %v", root.Diagnostics)
	}
	if root.HasErrors() {
		t.Error("HasErrors() = true after purge")
	}
}

func TestReflectChangeAdjustsDiagnostics(t *testing.T) {
	root := NewRoot(nil)
	root.Range.Length = 30
	root.AddDiagnostic(Diagnostic{Range: TextRange{Start: 2, Length: 3}, Severity: SeverityError, Message: "before"})
	root.AddDiagnostic(Diagnostic{Range: TextRange{Start: 9, Length: 2}, Severity: SeverityError, Message: "straddles"})
	root.AddDiagnostic(Diagnostic{Range: TextRange{Start: 8, Length: 10}, Severity: SeverityError, Message: "spans"})
	root.AddDiagnostic(Diagnostic{Range: TextRange{Start: 25, Length: 2}, Severity: SeverityWarning, Message: "after"})

	// Replace [10, 12) with 6 bytes.
	root.ReflectChange(10, 12, 4)

	want := map[string]TextRange{
		"before": {Start: 2, Length: 3},
		"spans":  {Start: 8, Length: 14},
		"after":  {Start: 29, Length: 2},
	}
	if len(root.Diagnostics) != len(want) {
		t.Fatalf("%d diagnostics survived, want %d: %v", len(root.Diagnostics), len(want), root.Diagnostics)
	}
	for _, d := range root.Diagnostics {
		if r, ok := want[d.Message]; !ok {
			t.Errorf("diagnostic %q should have been dropped", d.Message)
		} else if d.Range != r {
			t.Errorf("%q range = %v, want %v", d.Message, d.Range, r)
		}
	}
}

func TestCommentRanges(t *testing.T) {
	var comments CommentRanges
	comments.Add(TextRange{Start: 10, Length: 5})
	comments.Add(TextRange{Start: 0, Length: 3})

	if comments[0].Start != 0 {
		t.Errorf("comments not sorted: %v", comments)
	}
	if !comments.Contains(1) || comments.Contains(3) || !comments.Contains(12) {
		t.Errorf("Contains misbehaves: %v", comments)
	}

	r, ok := comments.ContainingRange(11, 2)
	if !ok || r.Start != 10 {
		t.Errorf("ContainingRange(11, 2) = %v, %v", r, ok)
	}
	if _, ok := comments.ContainingRange(2, 4); ok {
		t.Error("ContainingRange matched a straddling probe")
	}

	comments.ReflectChange(1, 1, 2) // insertion inside first comment
	if comments[0].Length != 5 {
		t.Errorf("first comment length = %d, want 5", comments[0].Length)
	}
	if comments[1].Start != 12 {
		t.Errorf("second comment start = %d, want 12", comments[1].Start)
	}
}
