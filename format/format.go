package format

import (
	"encoding"

	"github.com/dhamidi/arbor/rlang/ast"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(root *ast.Root) error
}
