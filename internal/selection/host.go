package selection

// LineSource gives read access to the lines of a buffer.
type LineSource interface {
	Line(n int) string
	LastLine() int
}

// CursorSource exposes the cursor line of a buffer.
type CursorSource interface {
	CursorLine() int
	SetCursorLine(n int)
}

// Markers are named line handles that follow their line when lines are
// inserted or deleted around them. Deleting the marked line itself erases
// the marker, and ResolveMarker then reports false.
type Markers interface {
	PlaceMarker(name string, line int)
	ResolveMarker(name string) (int, bool)
}

// Target is the buffer a run edits.
type Target interface {
	LineSource
	Markers
}

// FocusKeeper brings the target buffer back into view after a command moved
// focus elsewhere. RestoreFocus returns false when the buffer is gone.
type FocusKeeper interface {
	RestoreFocus() bool
}

// Presenter draws selections. It only observes.
type Presenter interface {
	Highlight(s *Set)
	ClearHighlight()
}
