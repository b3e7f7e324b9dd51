package selection

// Direction selects which way NextStart looks from the cursor.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// NextStart returns the start line of the nearest interval that begins
// strictly after (Forward) or strictly before (Backward) line.
func NextStart(s *Set, line int, dir Direction) (int, bool) {
	canon := s.canonical()
	switch dir {
	case Forward:
		for _, iv := range canon {
			if iv.Start > line {
				return iv.Start, true
			}
		}
	case Backward:
		for i := len(canon) - 1; i >= 0; i-- {
			if canon[i].Start < line {
				return canon[i].Start, true
			}
		}
	}
	return 0, false
}

// ContainingCursor returns the interval that holds the cursor line. Only exact
// containment counts: a cursor in the gap between two intervals selects
// neither of them.
func ContainingCursor(s *Set, line int) (Interval, bool) {
	return s.FindContaining(line)
}
