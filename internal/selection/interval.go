// Package selection keeps per-buffer sets of selected line ranges and
// applies commands across them.
package selection

import (
	"fmt"
)

// Interval is an inclusive, 1-based range of buffer lines.
type Interval struct {
	Start int
	End   int
}

// Span returns the interval covering a and b in either order.
func Span(a, b int) Interval {
	if a > b {
		a, b = b, a
	}
	return Interval{Start: a, End: b}
}

// Line returns the single-line interval for n.
func Line(n int) Interval {
	return Interval{Start: n, End: n}
}

// Valid reports whether iv is a non-empty range starting at line 1 or later.
func (iv Interval) Valid() bool {
	return iv.Start >= 1 && iv.Start <= iv.End
}

// Len returns the number of lines in iv, 0 for an inverted range.
func (iv Interval) Len() int {
	if iv.End < iv.Start {
		return 0
	}
	return iv.End - iv.Start + 1
}

// Contains reports whether line lies within iv.
func (iv Interval) Contains(line int) bool {
	return iv.Start <= line && line <= iv.End
}

// Overlaps reports whether iv and o share at least one line.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start <= o.End && o.Start <= iv.End
}

// Shift moves both ends by n lines.
func (iv Interval) Shift(n int) Interval {
	return Interval{Start: iv.Start + n, End: iv.End + n}
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d]", iv.Start, iv.End)
}
