package selection

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lines []string

func (l lines) Line(n int) string {
	if n < 1 || n > len(l) {
		return ""
	}
	return l[n-1]
}

func (l lines) LastLine() int { return len(l) }

func TestScanGroupsRuns(t *testing.T) {
	src := lines(strings.Split("a\nfoo\nfoo bar\nb\nfoo\nc\nfoo\nfoo", "\n"))
	pred := MatchRegexp(src, regexp.MustCompile(`foo`))

	s, n := Scan(nil, Interval{1, src.LastLine()}, pred, false)
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	if diff := cmp.Diff(ivs(2, 3, 5, 5, 7, 8), s.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	s, n = Scan(nil, Interval{1, src.LastLine()}, pred, true)
	if n != 3 {
		t.Fatalf("negated count = %d, want 3", n)
	}
	if diff := cmp.Diff(ivs(1, 1, 4, 4, 6, 6), s.Intervals()); diff != "" {
		t.Fatalf("negated mismatch (-want +got):\n%s", diff)
	}
}

func TestScanRestrictedRange(t *testing.T) {
	src := lines{"x", "x", "x", "x", "x"}
	pred := MatchRegexp(src, regexp.MustCompile(`x`))
	s, n := Scan(nil, Interval{2, 4}, pred, false)
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	if diff := cmp.Diff(ivs(2, 4), s.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScanAppendsUnconsolidated(t *testing.T) {
	src := lines{"a", "b", "a"}
	base := NewSet(Interval{2, 2})
	s, n := Scan(base, Interval{1, 3}, func(line int) bool { return src.Line(line) == "a" }, false)
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	if !s.Dirty() {
		t.Fatalf("scan result is consolidated")
	}
	if diff := cmp.Diff(ivs(1, 3), s.Intervals()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ivs(2, 2), base.Intervals()); diff != "" {
		t.Fatalf("base set changed (-want +got):\n%s", diff)
	}
}

func TestScanNoMatches(t *testing.T) {
	base := NewSet(Interval{1, 1})
	s, n := Scan(base, Interval{1, 10}, func(int) bool { return false }, false)
	if n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
	if s != base {
		t.Fatalf("scan without matches returned a new set")
	}
}
