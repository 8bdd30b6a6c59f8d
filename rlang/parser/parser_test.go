package parser

import (
	"testing"

	"github.com/dhamidi/arbor/rlang/ast"
)

func parse(t *testing.T, src string) *ast.Root {
	t.Helper()
	root := Parse(src, nil)
	if root == nil {
		t.Fatalf("Parse(%q) returned nil", src)
	}
	return root
}

func TestParseSimpleAssignment(t *testing.T) {
	root := parse(t, "x <- 1\n")

	if len(root.Children) != 1 {
		t.Fatalf("expected 1 top-level node, got %d:\n%s", len(root.Children), root.Node.String())
	}
	assign := root.Children[0]
	if assign.Kind != ast.KindAssignment {
		t.Fatalf("top-level node = %v, want Assignment", assign.Kind)
	}
	if assign.Range != (ast.TextRange{Start: 0, Length: 6}) {
		t.Errorf("assignment range = %+v, want [0,6)", assign.Range)
	}
	if len(assign.Children) != 3 {
		t.Fatalf("assignment children = %d, want 3", len(assign.Children))
	}
	if assign.Children[0].Kind != ast.KindIdentifier ||
		assign.Children[1].Kind != ast.KindOperator ||
		assign.Children[2].Kind != ast.KindNumber {
		t.Errorf("unexpected shape:\n%s", assign.String())
	}
	if len(root.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", root.Diagnostics)
	}
}

func TestParseTopLevelStatements(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"x <- 1\ny <- 2\n", 2},
		{"x <- 1; y <- 2", 2},
		{"", 0},
		{"\n\n", 0},
		{"f(1)\ng(2)\nh(3)\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root := parse(t, tt.src)
			if len(root.Children) != tt.want {
				t.Errorf("top-level nodes = %d, want %d:\n%s", len(root.Children), tt.want, root.Node.String())
			}
		})
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.NodeKind
	}{
		{"f(x, y = 2)", ast.KindCall},
		{"x[1]", ast.KindIndex},
		{"a + b * c", ast.KindBinary},
		{"-x", ast.KindUnary},
		{"(1 + 2)", ast.KindParen},
		{"{ x <- 1 }", ast.KindBlock},
		{"function(a, b = 1) a + b", ast.KindFunction},
		{"if (x > 0) y else z", ast.KindIf},
		{"for (i in xs) print(i)", ast.KindFor},
		{"while (TRUE) break", ast.KindWhile},
		{"repeat next", ast.KindRepeat},
		{"df$col", ast.KindBinary},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root := parse(t, tt.src)
			if len(root.Children) != 1 {
				t.Fatalf("top-level nodes = %d:\n%s", len(root.Children), root.Node.String())
			}
			if got := root.Children[0].Kind; got != tt.kind {
				t.Errorf("kind = %v, want %v:\n%s", got, tt.kind, root.Children[0].String())
			}
			if len(root.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", root.Diagnostics)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	root := parse(t, "a + b * c")
	add := root.Children[0]
	if add.Children[1].Literal != "+" {
		t.Fatalf("outer operator = %q, want +:\n%s", add.Children[1].Literal, add.String())
	}
	mul := add.Children[2]
	if mul.Kind != ast.KindBinary || mul.Children[1].Literal != "*" {
		t.Errorf("right operand is not b * c:\n%s", add.String())
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	root := parse(t, "a <- b <- 1")
	outer := root.Children[0]
	if outer.Kind != ast.KindAssignment {
		t.Fatalf("outer = %v:\n%s", outer.Kind, outer.String())
	}
	inner := outer.Children[2]
	if inner.Kind != ast.KindAssignment {
		t.Errorf("inner = %v, want Assignment:\n%s", inner.Kind, outer.String())
	}
}

func TestChildrenTileCompositeSpans(t *testing.T) {
	root := parse(t, "f(x, y = 2)[1] <- g(3) + 4\n")
	root.Walk(func(n *ast.Node) bool {
		if n.IsToken() || n.Kind == ast.KindRoot {
			return true
		}
		if len(n.Children) == 0 {
			return true
		}
		if n.Children[0].Range.Start != n.Range.Start {
			t.Errorf("%v starts at %d but first child at %d", n.Kind, n.Range.Start, n.Children[0].Range.Start)
		}
		last := n.Children[len(n.Children)-1]
		if last.Range.End() != n.Range.End() {
			t.Errorf("%v ends at %d but last child at %d", n.Kind, n.Range.End(), last.Range.End())
		}
		for i := 1; i < len(n.Children); i++ {
			if n.Children[i].Range.Start < n.Children[i-1].Range.End() {
				t.Errorf("%v children overlap at index %d", n.Kind, i)
			}
		}
		return true
	})
}

func TestParseComments(t *testing.T) {
	root := parse(t, "# header\nx <- 1 # trailing\n")
	if len(root.Comments) != 2 {
		t.Fatalf("comments = %v, want 2 ranges", root.Comments)
	}
	if root.Comments[0] != (ast.TextRange{Start: 0, Length: 8}) {
		t.Errorf("first comment = %+v", root.Comments[0])
	}
	if len(root.Children) != 1 {
		t.Errorf("comments leaked into the tree:\n%s", root.Node.String())
	}
}

func TestParseErrorsProduceDiagnostics(t *testing.T) {
	tests := []string{
		"x <- ",
		"f(1",
		"if (x",
		")",
		"x <- 1)",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			root := parse(t, src)
			if len(root.Diagnostics) == 0 {
				t.Errorf("no diagnostics for %q:\n%s", src, root.Node.String())
			}
			if !root.HasErrors() {
				t.Errorf("HasErrors() = false for %q", src)
			}
		})
	}
}

func TestParseOperatorAtLineEndContinues(t *testing.T) {
	root := parse(t, "x <- 1 +\n  2\n")
	if len(root.Children) != 1 {
		t.Fatalf("top-level nodes = %d, want 1:\n%s", len(root.Children), root.Node.String())
	}
	if len(root.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", root.Diagnostics)
	}
}

func TestParseNewlinesInsideParens(t *testing.T) {
	root := parse(t, "f(\n  1,\n  2\n)\n")
	if len(root.Children) != 1 || root.Children[0].Kind != ast.KindCall {
		t.Fatalf("unexpected tree:\n%s", root.Node.String())
	}
	if len(root.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", root.Diagnostics)
	}
}
