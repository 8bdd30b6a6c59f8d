package tree

import (
	"time"

	"github.com/dhamidi/arbor/rlang/ast"
	"github.com/dhamidi/arbor/text"
)

// scheduleAsync (re)arms the debounce timer. Each edit pushes the
// deadline out, so a typing burst ends up as one update pass.
func (t *Tree) scheduleAsync(delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scheduleLocked(delay)
}

func (t *Tree) scheduleLocked(delay time.Duration) {
	if t.closed {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.scheduleGen++
	gen := t.scheduleGen
	t.timer = time.AfterFunc(delay, func() { t.runScheduled(gen) })
}

// cancelScheduled stops the pending timer and invalidates any timer
// callback already in flight. A pass that has started is not rolled
// back.
func (t *Tree) cancelScheduled() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scheduleGen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tree) runScheduled(gen uint64) {
	t.mu.Lock()
	stale := t.closed || gen != t.scheduleGen
	t.mu.Unlock()
	if stale {
		return
	}
	t.processPending()
	t.mu.Lock()
	if t.pending.pending() && !t.closed {
		t.scheduleLocked(t.debounce)
	}
	t.mu.Unlock()
}

// processPending performs one update pass over the queued changes.
// Exactly one pass runs at a time; a concurrent caller waits for the
// in-flight pass and then drains whatever queued up meanwhile.
func (t *Tree) processPending() {
	for {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return
		}
		if t.processing {
			done := t.procDone
			t.mu.Unlock()
			<-done
			continue
		}
		if !t.pending.pending() && t.readyLocked() {
			t.mu.Unlock()
			// A concurrent pass drained the queue after the caller
			// decided to come here; deliver any actions it left behind.
			t.fireReadyActions()
			return
		}
		// An empty queue with a stale tree (ClearChanges, Invalidate,
		// dropped batches) falls through: only a parse can catch up.
		t.processing = true
		t.procDone = make(chan struct{})
		changes := t.pending.take(t.syncedVersion)
		target := t.buffer.Snapshot()
		t.mu.Unlock()

		t.runPass(changes, target)

		t.mu.Lock()
		t.processing = false
		done := t.procDone
		t.mu.Unlock()
		close(done)
		// Fired after the pass is fully released so a ready action can
		// safely call back into the tree.
		t.fireReadyActions()
		return
	}
}

// ensureProcessed drains the queue on the calling goroutine, waiting
// out any in-flight async pass.
func (t *Tree) ensureProcessed() {
	for t.IsDirty() {
		t.processPending()
	}
}

func (t *Tree) runPass(changes []text.Change, target *text.Snapshot) {
	t.mu.Lock()
	synced := t.syncedVersion
	t.mu.Unlock()
	if len(changes) == 0 && synced == target.Version() {
		return
	}

	t.notifyUpdateBegin()
	kind := UpdateShift
	var removed []*ast.Node
	t.withWriteLease(func() {
		kind, removed = t.applyLeased(changes, target)
	})
	t.notifyNodesRemoved(removed)
	t.notifyUpdateCompleted(kind)
}

// applyLeased absorbs the taken changes into the tree. Runs with the
// write lease held.
func (t *Tree) applyLeased(changes []text.Change, target *text.Snapshot) (UpdateKind, []*ast.Node) {
	t.mu.Lock()
	root := t.root
	t.mu.Unlock()

	full := root == nil || len(changes) == 0
	damage := 0
	for _, c := range changes {
		damage += Damage(c)
	}
	if damage > t.threshold {
		log.Debugf("damage %d over threshold %d, reparsing", damage, t.threshold)
		full = true
	}

	kind := UpdateShift
	var removed []*ast.Node
	if !full {
		for _, c := range changes {
			if len(changes) == 1 && t.commentInternal(root, c, target) {
				root.ReflectChange(c.Start, c.OldEnd(), c.Delta())
				continue
			}
			inv := invalidate(root, c)
			removed = append(removed, inv.removed...)
			if len(inv.removed) > 0 {
				kind = UpdateNodesRemoved
			}
			if !inv.salvaged {
				full = true
				break
			}
		}
	}
	// The surviving spans must tile the target text exactly; any skew
	// means a notification raced past us and only a parse recovers.
	if !full && root.Range.Length != target.Len() {
		log.Debugf("span drift after partial update (%d != %d), reparsing", root.Range.Length, target.Len())
		full = true
	}

	if full {
		t.replaceRoot()
		return UpdateFull, removed
	}
	t.mu.Lock()
	t.syncedVersion = target.Version()
	t.mu.Unlock()
	return kind, removed
}

// replaceRoot parses the newest snapshot and swaps it in, clearing the
// queue since the fresh parse already reflects every queued edit. The
// old tree is kept as the previous-tree fallback when it had content.
// Caller holds the write lease.
func (t *Tree) replaceRoot() {
	t.mu.Lock()
	t.pending.clear()
	target := t.buffer.Snapshot()
	old := t.root
	t.mu.Unlock()

	newRoot := t.parse(target)

	t.mu.Lock()
	if old != nil && len(old.Children) > 0 {
		t.previous = old
	}
	t.root = newRoot
	t.syncedVersion = target.Version()
	t.mu.Unlock()
}

// commentInternal reports whether the change stays strictly inside one
// comment without breaking it, in which case resizing the comment range
// replaces invalidation entirely. Only valid when the change is the
// whole queue, since the inserted text is read from the target
// snapshot.
func (t *Tree) commentInternal(root *ast.Root, c text.Change, target *text.Snapshot) bool {
	r, ok := root.Comments.ContainingRange(c.Start, c.OldLength)
	if !ok || c.Start <= r.Start {
		return false
	}
	for _, b := range []byte(target.Slice(c.Start, c.NewLength)) {
		if b == '\n' {
			return false
		}
	}
	return true
}

// withWriteLease spins until the readers drain. The engine always wins
// eventually because read leases are short-lived by contract.
func (t *Tree) withWriteLease(fn func()) {
	for attempt := 0; !t.lock.AcquireWrite(); attempt++ {
		if attempt == writeLeaseWarnAfter {
			log.Warningf("update pass stalled behind %d read leases", t.lock.Readers())
		}
		time.Sleep(time.Millisecond)
	}
	defer t.lock.ReleaseWrite()
	fn()
}

const writeLeaseWarnAfter = 500
