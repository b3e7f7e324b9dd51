package selection

import (
	"cmp"
	"iter"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Set is an immutable collection of line intervals. Every operation returns a
// new Set and leaves the receiver untouched.
//
// A Set built with Add is unconsolidated: intervals are kept in insertion
// order and may overlap or touch. Operations that depend on order or
// disjointness work on the canonical form, which is sorted by Start with
// A.End+1 < B.Start for every adjacent pair. The canonical form of an
// unconsolidated set is computed once and cached.
//
// A nil *Set is a valid empty set.
type Set struct {
	items []Interval
	dirty bool

	once  sync.Once
	canon []Interval
}

// NewSet returns an unconsolidated set holding ivs in the given order.
func NewSet(ivs ...Interval) *Set {
	var s *Set
	for _, iv := range ivs {
		s = s.Add(iv)
	}
	if s == nil {
		return &Set{}
	}
	return s
}

func fromCanonical(items []Interval) *Set {
	return &Set{items: items}
}

// Add appends iv in insertion order. Merging is deferred until the canonical
// form is needed. Invalid intervals are ignored.
func (s *Set) Add(iv Interval) *Set {
	if !iv.Valid() {
		return s
	}
	var items []Interval
	if s != nil {
		items = make([]Interval, len(s.items), len(s.items)+1)
		copy(items, s.items)
	}
	items = append(items, iv)
	return &Set{items: items, dirty: len(items) > 1}
}

// Dirty reports whether the set is held in insertion order and has not been
// consolidated yet.
func (s *Set) Dirty() bool {
	return s != nil && s.dirty
}

// Consolidate returns the canonical form of s. It returns s itself when s is
// already consolidated.
func (s *Set) Consolidate() *Set {
	if s == nil {
		return &Set{}
	}
	if !s.dirty {
		return s
	}
	return fromCanonical(s.canonical())
}

func (s *Set) canonical() []Interval {
	if s == nil {
		return nil
	}
	if !s.dirty {
		return s.items
	}
	s.once.Do(func() {
		s.canon = consolidate(s.items)
	})
	return s.canon
}

func consolidate(items []Interval) []Interval {
	if len(items) == 0 {
		return nil
	}
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Interval) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	out := make([]Interval, 0, len(sorted))
	prev := sorted[0]
	for _, cur := range sorted[1:] {
		if prev.End >= cur.Start-1 {
			// overlapping or touching; cur may be fully contained
			if cur.End > prev.End {
				prev.End = cur.End
			}
			continue
		}
		out = append(out, prev)
		prev = cur
	}
	return append(out, prev)
}

// Subtract removes the lines of r from the set, splitting intervals that
// straddle it. When r is exactly the whole buffer, 1 through lastLine, the
// result is empty without inspecting the intervals.
func (s *Set) Subtract(r Interval, lastLine int) *Set {
	if r == (Interval{Start: 1, End: lastLine}) {
		return &Set{}
	}
	canon := s.canonical()
	out := make([]Interval, 0, len(canon)+1)
	for _, iv := range canon {
		if !iv.Overlaps(r) {
			out = append(out, iv)
			continue
		}
		if iv.Start < r.Start {
			out = append(out, Interval{Start: iv.Start, End: r.Start - 1})
		}
		if iv.End > r.End {
			out = append(out, Interval{Start: r.End + 1, End: iv.End})
		}
	}
	return fromCanonical(out)
}

// Complement inverts the set within r: lines of r covered by an interval
// become unselected and uncovered lines of r become selected. Intervals, and
// parts of intervals, outside r are kept as they are. The result is
// consolidated; an empty result means nothing remains selected.
func (s *Set) Complement(r Interval) *Set {
	canon := s.canonical()
	out := make([]Interval, 0, len(canon)+2)
	cursor := r.Start
	for _, iv := range canon {
		if !iv.Overlaps(r) {
			out = append(out, iv)
			continue
		}
		if iv.Start < r.Start {
			out = append(out, Interval{Start: iv.Start, End: r.Start - 1})
		}
		if iv.Start > cursor {
			out = append(out, Interval{Start: cursor, End: iv.Start - 1})
		}
		cursor = iv.End + 1
		if iv.End > r.End {
			out = append(out, Interval{Start: r.End + 1, End: iv.End})
		}
	}
	if cursor <= r.End {
		out = append(out, Interval{Start: cursor, End: r.End})
	}
	return fromCanonical(consolidate(out))
}

// FindContaining returns the interval holding line.
func (s *Set) FindContaining(line int) (Interval, bool) {
	canon := s.canonical()
	i := sort.Search(len(canon), func(i int) bool {
		return canon[i].End >= line
	})
	if i < len(canon) && canon[i].Start <= line {
		return canon[i], true
	}
	return Interval{}, false
}

// Remove drops the interval equal to iv from the canonical form.
func (s *Set) Remove(iv Interval) *Set {
	canon := s.canonical()
	out := make([]Interval, 0, len(canon))
	for _, cur := range canon {
		if cur != iv {
			out = append(out, cur)
		}
	}
	return fromCanonical(out)
}

// Len returns the number of intervals in the canonical form.
func (s *Set) Len() int {
	return len(s.canonical())
}

func (s *Set) Empty() bool {
	return s == nil || len(s.items) == 0
}

// Lines returns the number of lines covered by the set.
func (s *Set) Lines() int {
	n := 0
	for _, iv := range s.canonical() {
		n += iv.Len()
	}
	return n
}

// Intervals returns a copy of the canonical intervals in ascending order.
func (s *Set) Intervals() []Interval {
	canon := s.canonical()
	if len(canon) == 0 {
		return nil
	}
	return slices.Clone(canon)
}

// All iterates over the canonical intervals in ascending order. The sequence
// can be ranged over any number of times.
func (s *Set) All() iter.Seq[Interval] {
	canon := s.canonical()
	return func(yield func(Interval) bool) {
		for _, iv := range canon {
			if !yield(iv) {
				return
			}
		}
	}
}

// Equal reports whether both sets cover the same lines.
func (s *Set) Equal(o *Set) bool {
	return slices.Equal(s.canonical(), o.canonical())
}

func (s *Set) String() string {
	canon := s.canonical()
	parts := make([]string, len(canon))
	for i, iv := range canon {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
