package text

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Snapshot is an immutable view of buffer content at a specific version.
// Trees and background readers hold snapshots; the buffer replaces its
// snapshot wholesale on every edit batch.
type Snapshot struct {
	text    string
	version int
}

func NewSnapshot(text string, version int) *Snapshot {
	return &Snapshot{text: text, version: version}
}

func (s *Snapshot) Text() string {
	return s.text
}

func (s *Snapshot) Version() int {
	return s.version
}

func (s *Snapshot) Len() int {
	return len(s.text)
}

// Slice returns the text in [start, start+length), clamped to the
// snapshot bounds. Out-of-range requests degrade to the empty string
// instead of panicking.
func (s *Snapshot) Slice(start, length int) string {
	if start < 0 {
		length += start
		start = 0
	}
	if start >= len(s.text) || length <= 0 {
		return ""
	}
	end := start + length
	if end > len(s.text) {
		end = len(s.text)
	}
	return s.text[start:end]
}

// OffsetAt converts a zero-based line and UTF-16 column (the LSP wire
// convention) into a byte offset. Positions past the end of a line clamp
// to the line end; lines past the end clamp to the snapshot end.
func (s *Snapshot) OffsetAt(line, character int) int {
	offset := 0
	for line > 0 && offset < len(s.text) {
		if s.text[offset] == '\n' {
			line--
		}
		offset++
	}
	if line > 0 {
		return len(s.text)
	}
	for character > 0 && offset < len(s.text) {
		r, size := decodeRune(s.text[offset:])
		if r == '\n' {
			break
		}
		character -= utf16.RuneLen(r)
		offset += size
	}
	return offset
}

// PositionAt converts a byte offset into a zero-based line and UTF-16
// column pair. Offsets outside the snapshot clamp to the nearest end.
func (s *Snapshot) PositionAt(offset int) (line, character int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.text) {
		offset = len(s.text)
	}
	pos := 0
	for pos < offset {
		r, size := decodeRune(s.text[pos:])
		if r == '\n' {
			line++
			character = 0
		} else {
			character += utf16.RuneLen(r)
		}
		pos += size
	}
	return line, character
}

func decodeRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}
