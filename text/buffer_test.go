package text

import "testing"

func TestApplySingleEdit(t *testing.T) {
	tests := []struct {
		name string
		text string
		edit Edit
		want string
	}{
		{"insert at start", "x <- 1", Edit{0, 0, "y"}, "yx <- 1"},
		{"insert at end", "x <- 1", Edit{6, 0, "\n"}, "x <- 1\n"},
		{"replace", "x <- 1", Edit{5, 1, "42"}, "x <- 42"},
		{"delete", "x <- 1\ny <- 2\n", Edit{0, 7, ""}, "y <- 2\n"},
		{"clamp past end", "abc", Edit{2, 10, "Z"}, "abZ"},
		{"clamp negative start", "abc", Edit{-2, 3, "Z"}, "Zbc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			snap := b.Apply(tt.edit)
			if snap.Text() != tt.want {
				t.Errorf("Apply() text = %q, want %q", snap.Text(), tt.want)
			}
			if snap.Version() != 2 {
				t.Errorf("Apply() version = %d, want 2", snap.Version())
			}
		})
	}
}

func TestApplyBatchIsSnapshotRelative(t *testing.T) {
	b := NewBuffer("abcdef")
	// Both edits name offsets in "abcdef", not in intermediate text.
	snap := b.Apply(
		Edit{Start: 1, OldLength: 1, Text: "BB"},
		Edit{Start: 4, OldLength: 2, Text: ""},
	)
	if got, want := snap.Text(), "aBBcd"; got != want {
		t.Errorf("batch apply = %q, want %q", got, want)
	}
}

type recordingListener struct {
	changes []Change
	version int
}

func (r *recordingListener) OnTextChanged(changes []Change, snap *Snapshot) {
	r.changes = append(r.changes, changes...)
	r.version = snap.Version()
}

func TestBufferNotifiesListeners(t *testing.T) {
	b := NewBuffer("x <- 1")
	l := &recordingListener{}
	b.AddListener(l)

	b.Apply(Edit{Start: 0, OldLength: 0, Text: "y"})

	if len(l.changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(l.changes))
	}
	c := l.changes[0]
	if c.Start != 0 || c.OldLength != 0 || c.NewLength != 1 {
		t.Errorf("change = %+v, want {0 0 1}", c)
	}
	if l.version != 2 {
		t.Errorf("listener saw version %d, want 2", l.version)
	}

	b.RemoveListener(l)
	b.Apply(Edit{Start: 0, OldLength: 1, Text: ""})
	if len(l.changes) != 1 {
		t.Errorf("removed listener still notified")
	}
}

func TestOffsetAt(t *testing.T) {
	snap := NewSnapshot("ab\ncd\n", 1)
	tests := []struct {
		line, character, want int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{0, 99, 2}, // clamps to line end
		{1, 0, 3},
		{1, 2, 5},
		{5, 0, 6}, // clamps to snapshot end
	}
	for _, tt := range tests {
		if got := snap.OffsetAt(tt.line, tt.character); got != tt.want {
			t.Errorf("OffsetAt(%d, %d) = %d, want %d", tt.line, tt.character, got, tt.want)
		}
	}
}

func TestPositionAt(t *testing.T) {
	snap := NewSnapshot("ab\ncd\n", 1)
	line, ch := snap.PositionAt(4)
	if line != 1 || ch != 1 {
		t.Errorf("PositionAt(4) = (%d, %d), want (1, 1)", line, ch)
	}
}

func TestSliceClamps(t *testing.T) {
	snap := NewSnapshot("hello", 1)
	if got := snap.Slice(3, 10); got != "lo" {
		t.Errorf("Slice(3, 10) = %q, want %q", got, "lo")
	}
	if got := snap.Slice(-1, 2); got != "h" {
		t.Errorf("Slice(-1, 2) = %q, want %q", got, "h")
	}
	if got := snap.Slice(9, 2); got != "" {
		t.Errorf("Slice(9, 2) = %q, want empty", got)
	}
}
