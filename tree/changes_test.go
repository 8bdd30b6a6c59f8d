package tree

import (
	"reflect"
	"testing"

	"github.com/dhamidi/arbor/text"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []text.Change
		want []text.Change
	}{
		{
			name: "single change unchanged",
			in:   []text.Change{{Start: 3, OldLength: 1, NewLength: 2}},
			want: []text.Change{{Start: 3, OldLength: 1, NewLength: 2}},
		},
		{
			name: "later change shifted by earlier growth",
			in: []text.Change{
				{Start: 0, OldLength: 0, NewLength: 4},
				{Start: 10, OldLength: 2, NewLength: 0},
			},
			want: []text.Change{
				{Start: 0, OldLength: 0, NewLength: 4},
				{Start: 14, OldLength: 2, NewLength: 0},
			},
		},
		{
			name: "out of order input sorted then shifted",
			in: []text.Change{
				{Start: 8, OldLength: 1, NewLength: 1},
				{Start: 2, OldLength: 3, NewLength: 0},
			},
			want: []text.Change{
				{Start: 2, OldLength: 3, NewLength: 0},
				{Start: 5, OldLength: 1, NewLength: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

type changeCollector struct {
	changes []text.Change
}

func (c *changeCollector) OnTextChanged(changes []text.Change, snapshot *text.Snapshot) {
	c.changes = append(c.changes, changes...)
}

func TestNormalizeRoundTrip(t *testing.T) {
	original := "abcdefghij"
	edits := []text.Edit{
		{Start: 1, OldLength: 2, Text: "XYZ"},
		{Start: 5, OldLength: 0, Text: "--"},
		{Start: 8, OldLength: 2, Text: ""},
	}

	buffer := text.NewBuffer(original)
	collector := &changeCollector{}
	buffer.AddListener(collector)
	snapshot := buffer.Apply(edits...)

	// Replaying the batch sequentially against the original text must
	// land every edit at its normalized offset and reproduce the
	// buffer's live text.
	normalized := Normalize(collector.changes)
	if len(normalized) != len(edits) {
		t.Fatalf("normalized %d changes, want %d", len(normalized), len(edits))
	}
	replayed := original
	for i, c := range normalized {
		if c.NewLength != len(edits[i].Text) {
			t.Fatalf("change %d has NewLength %d, want %d", i, c.NewLength, len(edits[i].Text))
		}
		replayed = replayed[:c.Start] + edits[i].Text + replayed[c.OldEnd():]
	}
	if replayed != snapshot.Text() {
		t.Errorf("replayed text = %q, want %q", replayed, snapshot.Text())
	}
}

func TestPendingChangesDropStaleBatches(t *testing.T) {
	var p pendingChanges
	p.append([]text.Change{{Start: 0, OldLength: 0, NewLength: 1}}, 2)
	p.append([]text.Change{{Start: 5, OldLength: 1, NewLength: 0}}, 3)
	got := p.take(2)
	if len(got) != 1 || got[0].Start != 5 {
		t.Fatalf("take(2) = %v, want only the version-3 batch", got)
	}
	if p.pending() {
		t.Fatal("queue not empty after take")
	}
}
