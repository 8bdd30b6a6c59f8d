package tree

import (
	"sort"

	"github.com/dhamidi/arbor/text"
)

// Normalize converts a batch of changes that are all relative to the
// same snapshot into a sequence that can be applied one after another:
// sorted by start offset, each start shifted by the cumulative length
// delta of the changes before it.
func Normalize(batch []text.Change) []text.Change {
	out := make([]text.Change, len(batch))
	copy(out, batch)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	delta := 0
	for i := range out {
		out[i].Start += delta
		delta += out[i].Delta()
	}
	return out
}

// Damage is the edit volume of a change, old text plus new text. The
// engine sums it over an update pass's changes to decide when partial
// invalidation stops being worth the walk.
func Damage(c text.Change) int {
	return c.OldLength + c.NewLength
}

// pendingBatch is one buffer notification: sequentially applicable
// changes plus the buffer version they produce.
type pendingBatch struct {
	changes []text.Change
	version int
}

// pendingChanges is the queue of edits the tree has not absorbed yet.
// The tree's mutex guards it.
type pendingChanges struct {
	batches []pendingBatch
}

func (p *pendingChanges) append(changes []text.Change, version int) {
	if len(changes) == 0 {
		return
	}
	p.batches = append(p.batches, pendingBatch{changes: changes, version: version})
}

// take empties the queue, dropping batches already reflected in the
// synced version, and returns the rest flattened in arrival order.
func (p *pendingChanges) take(syncedVersion int) []text.Change {
	var out []text.Change
	for _, b := range p.batches {
		if b.version <= syncedVersion {
			continue
		}
		out = append(out, b.changes...)
	}
	p.batches = nil
	return out
}

func (p *pendingChanges) clear() {
	p.batches = nil
}

func (p *pendingChanges) pending() bool {
	return len(p.batches) > 0
}

// flatten returns a copy of all queued changes without consuming them.
func (p *pendingChanges) flatten() []text.Change {
	var out []text.Change
	for _, b := range p.batches {
		out = append(out, b.changes...)
	}
	return out
}
