package workspace

import (
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/dhamidi/arbor/rlang/ast"
)

type CompletionKind int

const (
	CompletionKindVariable CompletionKind = iota
	CompletionKindFunction
	CompletionKindKeyword
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// Symbol is a named assignment target with its defining range.
type Symbol struct {
	Name     string
	Function bool
	Range    ast.TextRange
}

// DocumentSymbols lists the top-level assignment targets of one
// document, borrowing its tree under a read lease.
func (w *Workspace) DocumentSymbols(path string) []Symbol {
	doc := w.Get(path)
	if doc == nil {
		return nil
	}
	root, release := doc.Borrow(uuid.NewString())
	defer release()
	if root == nil {
		return nil
	}
	return symbolsOf(root)
}

func symbolsOf(root *ast.Root) []Symbol {
	var out []Symbol
	for _, child := range root.Children {
		if child.Kind != ast.KindAssignment {
			continue
		}
		name, fn := assignmentTarget(root, child)
		if name == "" {
			continue
		}
		out = append(out, Symbol{Name: name, Function: fn, Range: child.Range})
	}
	return out
}

// assignmentTarget returns the assigned identifier's text and whether
// the right-hand side is a function literal. Right-arrow assignments
// put the target on the right.
func assignmentTarget(root *ast.Root, n *ast.Node) (string, bool) {
	if len(n.Children) < 3 {
		return "", false
	}
	left, op, right := n.Children[0], n.Children[1], n.Children[len(n.Children)-1]
	target, value := left, right
	if root.TextOf(op) == "->" {
		target, value = right, left
	}
	if target.Kind != ast.KindIdentifier {
		return "", false
	}
	return root.TextOf(target), value.Kind == ast.KindFunction
}

var completionKeywords = []string{
	"if", "else", "for", "in", "while", "repeat", "function",
	"break", "next", "TRUE", "FALSE", "NULL", "NA",
}

// CompletionsAt collects the assignment targets visible across the
// workspace plus the language keywords. Each document's tree is
// borrowed under its own read lease; documents whose trees are mid-
// update contribute their previous tree or nothing.
func (w *Workspace) CompletionsAt(path string, offset int) []CompletionItem {
	seen := make(map[string]bool)
	var items []CompletionItem

	for _, doc := range w.Documents() {
		root, release := doc.Borrow(uuid.NewString())
		if root == nil {
			release()
			continue
		}
		detail := filepath.Base(doc.Path())
		for _, sym := range symbolsOf(root) {
			// Skip the assignment the cursor is inside of.
			if doc.Path() == path && sym.Range.Contains(offset) {
				continue
			}
			if seen[sym.Name] {
				continue
			}
			seen[sym.Name] = true
			item := CompletionItem{
				Label:      sym.Name,
				Kind:       CompletionKindVariable,
				Detail:     detail,
				InsertText: sym.Name,
			}
			if sym.Function {
				item.Kind = CompletionKindFunction
				item.InsertText = sym.Name + "($1)"
			}
			items = append(items, item)
		}
		release()
	}

	for _, kw := range completionKeywords {
		if seen[kw] {
			continue
		}
		items = append(items, CompletionItem{
			Label:      kw,
			Kind:       CompletionKindKeyword,
			InsertText: kw,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind < items[j].Kind
		}
		return items[i].Label < items[j].Label
	})
	return items
}
