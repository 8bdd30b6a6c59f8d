package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/arbor/rlang/ast"
)

type JSONEncoder struct {
	w    io.Writer
	root *ast.Root
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(root *ast.Root) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(rootToJSON(e.root), "", "  ")
}

type jsonRoot struct {
	Length      int              `json:"length"`
	Nodes       []*jsonNode      `json:"nodes,omitempty"`
	Comments    []jsonSpan       `json:"comments,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     jsonSpan    `json:"span"`
	Literal  string      `json:"literal,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonDiagnostic struct {
	Span     jsonSpan `json:"span"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
}

func rootToJSON(root *ast.Root) jsonRoot {
	out := jsonRoot{Length: root.Range.Length}
	for _, child := range root.Children {
		out.Nodes = append(out.Nodes, nodeToJSON(child))
	}
	for _, c := range root.Comments {
		out.Comments = append(out.Comments, spanOf(c))
	}
	for _, d := range root.Diagnostics {
		severity := "error"
		if d.Severity == ast.SeverityWarning {
			severity = "warning"
		}
		out.Diagnostics = append(out.Diagnostics, jsonDiagnostic{
			Span:     spanOf(d.Range),
			Severity: severity,
			Message:  d.Message,
		})
	}
	return out
}

func nodeToJSON(n *ast.Node) *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
		Span: spanOf(n.Range),
	}
	if n.IsToken() {
		jn.Literal = n.Literal
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, nodeToJSON(child))
	}
	return jn
}

func spanOf(r ast.TextRange) jsonSpan {
	return jsonSpan{Start: r.Start, End: r.End()}
}
