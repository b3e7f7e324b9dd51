package selection

import "testing"

func TestNextStart(t *testing.T) {
	s := NewSet(Interval{10, 12}, Interval{2, 4}, Interval{20, 20})
	tests := []struct {
		line int
		dir  Direction
		want int
		ok   bool
	}{
		{1, Forward, 2, true},
		{2, Forward, 10, true},
		{11, Forward, 20, true},
		{20, Forward, 0, false},
		{25, Backward, 20, true},
		{20, Backward, 10, true},
		{10, Backward, 2, true},
		{2, Backward, 0, false},
		{5, Direction(0), 0, false},
	}
	for _, tt := range tests {
		got, ok := NextStart(s, tt.line, tt.dir)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("NextStart(%d, %d) = %d, %v; want %d, %v", tt.line, tt.dir, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := NextStart(nil, 1, Forward); ok {
		t.Fatalf("NextStart on nil set found a start")
	}
}

func TestContainingCursorBoundaries(t *testing.T) {
	s := NewSet(Interval{5, 8}, Interval{12, 12})
	for _, line := range []int{5, 8, 12} {
		if _, ok := ContainingCursor(s, line); !ok {
			t.Fatalf("ContainingCursor(%d) found nothing", line)
		}
	}
	for _, line := range []int{4, 9, 11, 13} {
		if iv, ok := ContainingCursor(s, line); ok {
			t.Fatalf("ContainingCursor(%d) = %v, want none", line, iv)
		}
	}
}
