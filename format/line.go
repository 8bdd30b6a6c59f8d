package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/arbor/rlang/ast"
)

// LineEncoder emits one tab-separated line per top-level statement and
// per diagnostic, for grepping and shell pipelines.
type LineEncoder struct {
	w    io.Writer
	root *ast.Root
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(root *ast.Root) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	root := e.root

	for _, n := range root.Children {
		fmt.Fprintf(&sb, "node\t%s\t%d\t%d\t%s\n",
			n.Kind, n.Range.Start, n.Range.End(), nodeSummary(root, n))
	}
	for _, d := range root.Diagnostics {
		severity := "error"
		if d.Severity == ast.SeverityWarning {
			severity = "warning"
		}
		fmt.Fprintf(&sb, "diag\t%s\t%d\t%d\t%s\n",
			severity, d.Range.Start, d.Range.End(), d.Message)
	}

	return []byte(sb.String()), nil
}

// nodeSummary is the statement's text with runs of whitespace collapsed
// so the line stays a single line.
func nodeSummary(root *ast.Root, n *ast.Node) string {
	return strings.Join(strings.Fields(root.TextOf(n)), " ")
}
