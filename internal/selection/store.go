package selection

import (
	"iter"
)

// Store holds the selections of one buffer: the current set, a one-level
// snapshot of the state before the last mutation, and whether highlighting
// is suppressed.
//
// A nil current set means the buffer has no selection. Stores are not safe
// for concurrent use.
type Store struct {
	current *Set
	prev    *Set
	hasPrev bool
	hidden  bool
}

func (st *Store) snapshot() {
	if st.current != nil {
		st.prev = st.current.Consolidate()
	} else {
		st.prev = nil
	}
	st.hasPrev = true
}

func (st *Store) replace(s *Set) {
	st.snapshot()
	if s.Empty() {
		st.current = nil
		return
	}
	st.current = s
}

// Add selects iv, creating the set on first use.
func (st *Store) Add(iv Interval) {
	st.AddAll(iv)
}

// AddAll selects every interval in ivs with a single snapshot.
func (st *Store) AddAll(ivs ...Interval) {
	s := st.current
	for _, iv := range ivs {
		s = s.Add(iv)
	}
	if s == st.current {
		return
	}
	st.replace(s)
}

// Clear unselects r. Clearing the whole buffer drops the set.
func (st *Store) Clear(r Interval, lastLine int) {
	if st.current == nil {
		return
	}
	st.replace(st.current.Subtract(r, lastLine))
}

// Invert flips selection state within r. Without a set, r becomes the only
// selection.
func (st *Store) Invert(r Interval) {
	if st.current == nil {
		st.replace(NewSet(r))
		return
	}
	st.replace(st.current.Complement(r))
}

// DeleteAt removes the interval containing line. It reports whether one was
// found.
func (st *Store) DeleteAt(line int) bool {
	iv, ok := ContainingCursor(st.current, line)
	if !ok {
		return false
	}
	st.replace(st.current.Remove(iv))
	return true
}

// Match appends the runs of lines in r satisfying pred (or its negation) and
// returns how many intervals were added.
func (st *Store) Match(r Interval, pred Predicate, negate bool) int {
	s, n := Scan(st.current, r, pred, negate)
	if n > 0 {
		st.replace(s)
	}
	return n
}

// Restore brings back the state saved by the last mutation. The snapshot is
// consumed, so a second Restore in a row does nothing.
func (st *Store) Restore() bool {
	if !st.hasPrev {
		return false
	}
	st.current = st.prev
	st.prev = nil
	st.hasPrev = false
	return true
}

// CanRestore reports whether Restore would change anything.
func (st *Store) CanRestore() bool {
	return st.hasPrev
}

func (st *Store) Exists() bool {
	return st.current != nil
}

// Count returns the number of consolidated intervals.
func (st *Store) Count() int {
	return st.current.Len()
}

// Set returns the current selections; nil when there are none.
func (st *Store) Set() *Set {
	return st.current
}

func (st *Store) Intervals() []Interval {
	return st.current.Intervals()
}

func (st *Store) All() iter.Seq[Interval] {
	return st.current.All()
}

func (st *Store) Hidden() bool {
	return st.hidden
}

func (st *Store) SetHidden(hidden bool) {
	st.hidden = hidden
}

func (st *Store) idle() bool {
	return st.current == nil && !st.hasPrev
}
