package tree

import (
	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
)

// UpdateKind tells listeners how much of the tree an update pass
// changed.
type UpdateKind int

const (
	// UpdateShift means only positions moved; node identity survived.
	UpdateShift UpdateKind = iota
	// UpdateNodesRemoved means some nodes were pruned, the rest kept
	// their identity.
	UpdateNodesRemoved
	// UpdateFull means the tree was rebuilt from scratch; all prior
	// node references are invalid.
	UpdateFull
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateShift:
		return "shift"
	case UpdateNodesRemoved:
		return "nodes-removed"
	case UpdateFull:
		return "full"
	}
	return "unknown"
}

// Listener observes the tree's lifecycle. Callbacks run on whichever
// goroutine drives the update, so implementations must be safe to call
// from the background worker.
type Listener interface {
	// OnUpdatesPending fires when edits are queued and the tree goes
	// dirty.
	OnUpdatesPending(changes []text.Change)
	// OnUpdateBegin fires when an update pass starts.
	OnUpdateBegin()
	// OnUpdateCompleted fires when an update pass finishes.
	OnUpdateCompleted(kind UpdateKind)
	// OnNodesRemoved fires with the nodes an update pass detached.
	OnNodesRemoved(nodes []*ast.Node)
	// OnClosing fires once, before the tree releases its resources.
	OnClosing()
}

// NopListener implements Listener with no-ops, for embedding.
type NopListener struct{}

func (NopListener) OnUpdatesPending([]text.Change) {}

func (NopListener) OnUpdateBegin() {}

func (NopListener) OnUpdateCompleted(UpdateKind) {}

func (NopListener) OnNodesRemoved([]*ast.Node) {}

func (NopListener) OnClosing() {}

func (t *Tree) AddListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

func (t *Tree) RemoveListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, have := range t.listeners {
		if have == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// snapshotListeners copies the registry so events can be delivered
// without holding the tree's mutex.
func (t *Tree) snapshotListeners() []Listener {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Listener, len(t.listeners))
	copy(out, t.listeners)
	return out
}

func (t *Tree) notifyUpdatesPending(changes []text.Change) {
	for _, l := range t.snapshotListeners() {
		l.OnUpdatesPending(changes)
	}
}

func (t *Tree) notifyUpdateBegin() {
	for _, l := range t.snapshotListeners() {
		l.OnUpdateBegin()
	}
}

func (t *Tree) notifyUpdateCompleted(kind UpdateKind) {
	for _, l := range t.snapshotListeners() {
		l.OnUpdateCompleted(kind)
	}
}

func (t *Tree) notifyNodesRemoved(nodes []*ast.Node) {
	if len(nodes) == 0 {
		return
	}
	for _, l := range t.snapshotListeners() {
		l.OnNodesRemoved(nodes)
	}
}

func (t *Tree) notifyClosing() {
	for _, l := range t.snapshotListeners() {
		l.OnClosing()
	}
}
