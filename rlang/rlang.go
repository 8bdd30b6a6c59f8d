// Package rlang exposes the R-subset parser behind the small surface
// the editing engine consumes: text in, syntax tree out.
package rlang

import (
	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/rlang/parser"
	"github.com/dhamidi/arbor/text"
)

// Parse parses standalone source text.
func Parse(src string) *ast.Root {
	return parser.Parse(src, nil)
}

// ParseSnapshot parses a buffer snapshot and records it as the tree's
// text provider. The result is deterministic for a given snapshot.
func ParseSnapshot(snapshot *text.Snapshot) *ast.Root {
	return parser.Parse(snapshot.Text(), snapshot)
}
