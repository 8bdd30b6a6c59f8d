package text

import (
	"sort"
	"strings"
	"sync"
)

// Change records one text replacement as offsets into the document:
// OldLength bytes at Start were replaced by NewLength bytes.
type Change struct {
	Start     int
	OldLength int
	NewLength int
}

func (c Change) OldEnd() int {
	return c.Start + c.OldLength
}

func (c Change) NewEnd() int {
	return c.Start + c.NewLength
}

// Delta is the net growth (positive) or shrinkage (negative) of the text.
func (c Change) Delta() int {
	return c.NewLength - c.OldLength
}

// Edit is a replacement request against the buffer's current snapshot:
// OldLength bytes at Start become Text.
type Edit struct {
	Start     int
	OldLength int
	Text      string
}

// Listener receives change notifications after the buffer has advanced
// to a new snapshot. Changes in one batch are all relative to the
// snapshot that existed before the batch was applied.
type Listener interface {
	OnTextChanged(changes []Change, snapshot *Snapshot)
}

// Buffer holds the live document text as a sequence of immutable
// snapshots. Safe for concurrent use; listeners are invoked on the
// goroutine that applied the edit.
type Buffer struct {
	mu        sync.Mutex
	snapshot  *Snapshot
	listeners []Listener
}

func NewBuffer(content string) *Buffer {
	return &Buffer{snapshot: NewSnapshot(content, 1)}
}

func (b *Buffer) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

func (b *Buffer) Version() int {
	return b.Snapshot().Version()
}

func (b *Buffer) AddListener(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *Buffer) RemoveListener(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, have := range b.listeners {
		if have == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Apply replaces regions of the current snapshot. All edits are
// interpreted against the snapshot at call time and must not overlap;
// edits outside the snapshot bounds are clamped. Returns the new
// snapshot after notifying listeners.
func (b *Buffer) Apply(edits ...Edit) *Snapshot {
	b.mu.Lock()
	old := b.snapshot

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var sb strings.Builder
	changes := make([]Change, 0, len(sorted))
	pos := 0
	for _, e := range sorted {
		e = clampEdit(e, old.Len())
		if e.Start < pos {
			// Overlapping edit in the same batch; drop it rather than
			// corrupt the text.
			continue
		}
		sb.WriteString(old.text[pos:e.Start])
		sb.WriteString(e.Text)
		pos = e.Start + e.OldLength
		changes = append(changes, Change{
			Start:     e.Start,
			OldLength: e.OldLength,
			NewLength: len(e.Text),
		})
	}
	sb.WriteString(old.text[pos:])

	next := NewSnapshot(sb.String(), old.version+1)
	b.snapshot = next
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	if len(changes) > 0 {
		for _, l := range listeners {
			l.OnTextChanged(changes, next)
		}
	}
	return next
}

// SetText replaces the whole document, reported as a single change.
func (b *Buffer) SetText(content string) *Snapshot {
	old := b.Snapshot()
	return b.Apply(Edit{Start: 0, OldLength: old.Len(), Text: content})
}

func clampEdit(e Edit, max int) Edit {
	if e.Start < 0 {
		e.OldLength += e.Start
		e.Start = 0
	}
	if e.Start > max {
		e.Start = max
	}
	if e.OldLength < 0 {
		e.OldLength = 0
	}
	if e.Start+e.OldLength > max {
		e.OldLength = max - e.Start
	}
	return e
}
