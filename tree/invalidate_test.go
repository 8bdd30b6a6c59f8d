package tree

import (
	"testing"

	"github.com/dhamidi/arbor/rlang"
	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
)

func parseTree(t *testing.T, src string) *ast.Root {
	t.Helper()
	return rlang.Parse(src)
}

func TestInvalidateTokenEdit(t *testing.T) {
	root := parseTree(t, "x <- 1\n")
	assignment := root.Children[0]
	ident := assignment.Children[0]
	op := assignment.Children[1]

	// Replace the "1" with one other byte.
	inv := invalidate(root, text.Change{Start: 5, OldLength: 1, NewLength: 1})

	if !inv.salvaged {
		t.Fatal("edit inside a token should be absorbed by the assignment")
	}
	if len(inv.removed) != 1 || inv.removed[0].Kind != ast.KindNumber {
		t.Fatalf("removed = %v, want exactly the number token", inv.removed)
	}
	if root.Children[0] != assignment {
		t.Fatal("assignment identity lost")
	}
	if assignment.Children[0] != ident || assignment.Children[1] != op {
		t.Fatal("sibling token identity lost")
	}
	for _, n := range inv.removed {
		if n.Parent != nil {
			t.Errorf("removed node %v still has a parent", n)
		}
	}
}

func TestInvalidateBoundaryInsertionRemovesNothing(t *testing.T) {
	root := parseTree(t, "x <- 1\n")
	// Insert at the start of the number token: no node is damaged, but
	// no node accounts for the new text either.
	inv := invalidate(root, text.Change{Start: 5, OldLength: 0, NewLength: 1})
	if len(inv.removed) != 0 {
		t.Fatalf("removed = %v, want nothing for a boundary insertion", inv.removed)
	}
	if inv.salvaged {
		t.Fatal("boundary insertion must not count as absorbed")
	}
	if got := root.Range.Length; got != 8 {
		t.Fatalf("root length = %d after reflection, want 8", got)
	}
}

func TestInvalidateInsertionInsideToken(t *testing.T) {
	root := parseTree(t, "x <- 10\n")
	inv := invalidate(root, text.Change{Start: 6, OldLength: 0, NewLength: 1})
	if !inv.salvaged {
		t.Fatal("insertion strictly inside the number should be absorbed")
	}
	if len(inv.removed) != 1 || inv.removed[0].Kind != ast.KindNumber {
		t.Fatalf("removed = %v, want the number token", inv.removed)
	}
}

func TestInvalidateStraddlingStatements(t *testing.T) {
	root := parseTree(t, "x <- 1\ny <- 2\n")
	if len(root.Children) != 2 {
		t.Fatalf("want 2 statements, got %d", len(root.Children))
	}
	// Delete from inside the first assignment into the second.
	inv := invalidate(root, text.Change{Start: 4, OldLength: 5, NewLength: 0})
	if inv.salvaged {
		t.Fatal("a change straddling statements cannot be absorbed")
	}
	if len(root.Children) != 0 {
		t.Fatalf("%d statements survive, want 0: the cut is contiguous", len(root.Children))
	}
	if len(inv.removed) != 2 {
		t.Fatalf("removed %d nodes, want both statements", len(inv.removed))
	}
}

func TestInvalidateContiguousCutTakesMiddleSiblings(t *testing.T) {
	root := parseTree(t, "f(1, 2, 3)\n")
	call := root.Children[0]
	before := len(call.Children)
	// Damage the first and last argument in one change; everything
	// between goes with them.
	argStart := call.Children[2].Range.Start
	lastArg := call.Children[len(call.Children)-2]
	inv := invalidate(root, text.Change{
		Start:     argStart,
		OldLength: lastArg.Range.End() - argStart,
		NewLength: 1,
	})
	if !inv.salvaged {
		t.Fatal("change inside the call should be absorbed by it")
	}
	if len(call.Children) >= before {
		t.Fatal("no children removed from call")
	}
	for i := 1; i < len(call.Children); i++ {
		if call.Children[i-1].Range.End() > call.Children[i].Range.Start {
			t.Fatal("surviving children out of order after cut")
		}
	}
}

func TestInvalidatePurgesDiagnosticsOfRemovedNodes(t *testing.T) {
	root := parseTree(t, "x <- 1\n")
	root.AddDiagnostic(ast.Diagnostic{
		Range:    ast.TextRange{Start: 5, Length: 1},
		Severity: ast.SeverityWarning,
		Message:  "magic number",
	})
	invalidate(root, text.Change{Start: 5, OldLength: 1, NewLength: 1})
	if len(root.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v, want purged with the number token", root.Diagnostics)
	}
}
