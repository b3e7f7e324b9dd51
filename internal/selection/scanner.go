package selection

import (
	"regexp"
)

// Predicate reports whether a buffer line matches.
type Predicate func(line int) bool

// MatchRegexp returns a predicate testing the text of each line against re.
func MatchRegexp(src LineSource, re *regexp.Regexp) Predicate {
	return func(line int) bool {
		return re.MatchString(src.Line(line))
	}
}

// Scan walks the lines of r in order and appends one interval per run of
// consecutive lines for which pred (or its negation) holds. The intervals are
// added to s without consolidation. It returns the new set and the number of
// intervals added; when nothing matched, s is returned unchanged.
func Scan(s *Set, r Interval, pred Predicate, negate bool) (*Set, int) {
	count := 0
	runStart := 0
	for line := r.Start; line <= r.End; line++ {
		ok := pred(line) != negate
		switch {
		case ok && runStart == 0:
			runStart = line
		case !ok && runStart != 0:
			s = s.Add(Interval{Start: runStart, End: line - 1})
			count++
			runStart = 0
		}
	}
	if runStart != 0 {
		s = s.Add(Interval{Start: runStart, End: r.End})
		count++
	}
	return s, count
}
