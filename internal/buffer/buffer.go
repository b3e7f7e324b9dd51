// Package buffer holds the text of an open file as a list of lines, with a
// line cursor and named markers that follow their lines across edits.
//
// Line numbers in the public API are 1-based. A buffer always has at least
// one (possibly empty) line.
package buffer

import (
	"errors"
	"os"
	"strings"
)

type ID int

type Buffer struct {
	id         ID
	name       string
	lines      [][]rune
	cursor     int
	markers    map[string]marker
	dirty      bool
	changeTick uint64
}

// marker is a named line handle. A plain marker is erased when its line is
// deleted; an anchor collapses onto the first line after the deleted block.
type marker struct {
	line   int
	anchor bool
}

// New returns a buffer holding text. A single trailing newline does not
// produce an extra empty line.
func New(id ID, name, text string) *Buffer {
	return &Buffer{
		id:      id,
		name:    name,
		lines:   splitLines(text),
		cursor:  1,
		markers: make(map[string]marker),
	}
}

// Load reads path into a new buffer. A missing file yields an empty buffer
// that will be created on save.
func Load(id ID, path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(id, path, ""), nil
		}
		return nil, err
	}
	return New(id, path, string(data)), nil
}

// Save writes the buffer to path, or to its own name when path is empty.
func (b *Buffer) Save(path string) error {
	if path == "" {
		if b.name == "" {
			return errors.New("no file name")
		}
		path = b.name
	}
	if err := os.WriteFile(path, []byte(b.Content()+"\n"), 0o644); err != nil {
		return err
	}
	b.name = path
	b.dirty = false
	return nil
}

func splitLines(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func (b *Buffer) ID() ID { return b.id }

func (b *Buffer) Name() string { return b.name }

func (b *Buffer) Dirty() bool { return b.dirty }

func (b *Buffer) ChangeTick() uint64 { return b.changeTick }

// Content returns the buffer text joined with newlines, without a trailing
// newline.
func (b *Buffer) Content() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

func (b *Buffer) LastLine() int {
	return len(b.lines)
}

// Line returns the text of line n, or "" when n is out of range.
func (b *Buffer) Line(n int) string {
	if n < 1 || n > len(b.lines) {
		return ""
	}
	return string(b.lines[n-1])
}

// Lines returns the text of lines start through end.
func (b *Buffer) Lines(start, end int) []string {
	start, end = b.clampRange(start, end)
	if start > len(b.lines) {
		return nil
	}
	out := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, string(b.lines[n-1]))
	}
	return out
}

func (b *Buffer) clampRange(start, end int) (int, int) {
	if start < 1 {
		start = 1
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if end < start {
		end = start
	}
	return start, end
}

func (b *Buffer) changed() {
	b.dirty = true
	b.changeTick++
}

// SetLine replaces the text of line n. Markers are unaffected.
func (b *Buffer) SetLine(n int, text string) {
	if n < 1 || n > len(b.lines) {
		return
	}
	b.lines[n-1] = []rune(text)
	b.changed()
}

// InsertLines inserts text before line at; at == LastLine()+1 appends.
// Markers on or after at move down.
func (b *Buffer) InsertLines(at int, text []string) {
	if len(text) == 0 {
		return
	}
	if at < 1 {
		at = 1
	}
	if at > len(b.lines)+1 {
		at = len(b.lines) + 1
	}
	ins := make([][]rune, len(text))
	for i, t := range text {
		ins[i] = []rune(t)
	}
	lines := make([][]rune, 0, len(b.lines)+len(ins))
	lines = append(lines, b.lines[:at-1]...)
	lines = append(lines, ins...)
	lines = append(lines, b.lines[at-1:]...)
	b.lines = lines

	for name, m := range b.markers {
		if m.line >= at {
			m.line += len(ins)
			b.markers[name] = m
		}
	}
	if b.cursor >= at {
		b.cursor = min(b.cursor+len(ins), len(b.lines))
	}
	b.changed()
}

// DeleteLines removes lines start through end. Markers below the block move
// up. Markers inside it are erased, except anchors, which collapse onto
// start. Deleting every line leaves a single empty line.
func (b *Buffer) DeleteLines(start, end int) {
	start, end = b.clampRange(start, end)
	if start > len(b.lines) {
		return
	}
	n := end - start + 1
	b.lines = append(b.lines[:start-1], b.lines[end:]...)
	if len(b.lines) == 0 {
		b.lines = [][]rune{{}}
	}
	last := len(b.lines)
	for name, m := range b.markers {
		switch {
		case m.line > end:
			m.line -= n
		case m.line >= start:
			if !m.anchor {
				delete(b.markers, name)
				continue
			}
			m.line = start
		}
		m.line = min(m.line, last)
		b.markers[name] = m
	}
	switch {
	case b.cursor > end:
		b.cursor -= n
	case b.cursor >= start:
		b.cursor = start
	}
	b.cursor = min(b.cursor, last)
	b.changed()
}

// ReplaceLines swaps lines start through end for text.
func (b *Buffer) ReplaceLines(start, end int, text []string) {
	start, end = b.clampRange(start, end)
	if len(text) == 0 {
		b.DeleteLines(start, end)
		return
	}
	whole := start == 1 && end == len(b.lines)
	b.DeleteLines(start, end)
	if whole {
		// the placeholder line left by deleting everything
		b.lines = nil
	}
	b.InsertLines(start, text)
}

func (b *Buffer) CursorLine() int {
	return b.cursor
}

// SetCursorLine moves the cursor to n, clamped to the buffer.
func (b *Buffer) SetCursorLine(n int) {
	b.cursor = max(1, min(n, len(b.lines)))
}

// PlaceMarker sets (or moves) the named marker to line. The marker is
// erased if its line is deleted.
func (b *Buffer) PlaceMarker(name string, line int) {
	b.markers[name] = marker{line: b.clampLine(line)}
}

// PlaceAnchor is PlaceMarker for a marker that survives the deletion of its
// line by moving to the line that took its place.
func (b *Buffer) PlaceAnchor(name string, line int) {
	b.markers[name] = marker{line: b.clampLine(line), anchor: true}
}

func (b *Buffer) clampLine(n int) int {
	return max(1, min(n, len(b.lines)))
}

// ResolveMarker returns the current line of the named marker. It reports
// false for a marker that was never placed or whose line was deleted.
func (b *Buffer) ResolveMarker(name string) (int, bool) {
	m, ok := b.markers[name]
	return m.line, ok
}

func (b *Buffer) DeleteMarker(name string) {
	delete(b.markers, name)
}
