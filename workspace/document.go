package workspace

import (
	"github.com/dhamidi/arbor/rlang"
	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
	"github.com/dhamidi/arbor/tree"
)

// Document is one open file: its text buffer and the syntax tree that
// tracks it. The document holds the tree's owner token, so tree
// mutation goes through the document while background readers borrow
// the tree with leases.
type Document struct {
	path   string
	buffer *text.Buffer
	tree   *tree.Tree
	owner  tree.Owner
}

func NewDocument(path, content string, opts ...tree.Option) *Document {
	buffer := text.NewBuffer(content)
	tr, owner := tree.New(buffer, rlang.ParseSnapshot, opts...)
	return &Document{
		path:   path,
		buffer: buffer,
		tree:   tr,
		owner:  owner,
	}
}

func (d *Document) Path() string { return d.path }

func (d *Document) Buffer() *text.Buffer { return d.buffer }

func (d *Document) Tree() *tree.Tree { return d.tree }

// Apply queues edits; the tree absorbs them on its own schedule.
func (d *Document) Apply(edits ...text.Edit) {
	d.buffer.Apply(edits...)
}

// SetText replaces the whole document.
func (d *Document) SetText(content string) {
	d.buffer.SetText(content)
}

// Ready blocks until the tree reflects the buffer and returns it.
func (d *Document) Ready() *ast.Root {
	return d.owner.EnsureTreeReady()
}

// Borrow grants the identity a read lease on the current tree. When the
// engine holds the write lease, it falls back to the previous tree,
// which needs no release. The returned func is always safe to call.
func (d *Document) Borrow(id string) (*ast.Root, func()) {
	if root := d.tree.AcquireReadLock(id); root != nil {
		return root, func() { d.tree.ReleaseReadLock(id) }
	}
	return d.owner.PreviousRoot(), func() {}
}

// InvokeWhenReady forwards to the tree; see tree.Tree.InvokeWhenReady.
func (d *Document) InvokeWhenReady(kind string, fn func(arg any), arg any, processNow bool) {
	d.tree.InvokeWhenReady(kind, fn, arg, processNow)
}

func (d *Document) Close() {
	d.owner.Close()
}
