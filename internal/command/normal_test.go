package command

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/logger"
	"github.com/kobzarvs/multisel/internal/selection"
)

func TestNormal(t *testing.T) {
	tests := []struct {
		name string
		text string
		r    selection.Interval
		keys string
		want string
	}{
		{"insert after indent", "a\n  b\nc", selection.Interval{Start: 1, End: 2}, "I// ", "// a\n  // b\nc"},
		{"append", "a\nb", selection.Interval{Start: 1, End: 2}, "A;", "a;\nb;"},
		{"open below skips new lines", "a\nb\nc", selection.Interval{Start: 1, End: 2}, "o-", "a\n-\nb\n-\nc"},
		{"open above", "a\nb", selection.Line(2), "O-", "a\n-\nb"},
		{"delete lines", "a\nb\nc", selection.Interval{Start: 1, End: 2}, "dd", "c"},
		{"delete to end", "a\nb\nc", selection.Interval{Start: 2, End: 3}, "dd", "a"},
		{"join skips consumed line", "a\nb\nc\nd", selection.Interval{Start: 1, End: 2}, "J", "a b\nc\nd"},
		{"duplicate", "a\nb", selection.Interval{Start: 1, End: 2}, "yyp", "a\na\nb\nb"},
		{"duplicate above", "a\nb\nc", selection.Interval{Start: 2, End: 2}, "yyP", "a\nb\nb\nc"},
		{"delete char", "abc", selection.Line(1), "x", "bc"},
		{"delete last char", "abc", selection.Line(1), "$x", "ab"},
		{"delete after motion", "abc", selection.Line(1), "lx", "ac"},
		{"motion back", "abc", selection.Line(1), "$hx", "ac"},
		{"motion space then home", "abc", selection.Line(1), " 0x", "bc"},
		{"toggle case", "abc\nXyz", selection.Interval{Start: 1, End: 2}, "~~", "ABc\nxYz"},
		{"shift", "a", selection.Line(1), ">>", "    a"},
		{"unshift", "    a", selection.Line(1), "<<", "a"},
		{"esc ends insert", "x", selection.Line(1), "Ifoo<esc>A!", "foox!"},
		{"raw esc ends insert", "x", selection.Line(1), "Ifoo\x1bA!", "foox!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(1, "t", tt.text)
			if err := Normal(b, tt.r, tt.keys, Options{ShiftWidth: 4}); err != nil {
				t.Fatalf("Normal(%q): %v", tt.keys, err)
			}
			if got := b.Content(); got != tt.want {
				t.Fatalf("Normal(%q) = %q, want %q", tt.keys, got, tt.want)
			}
			for _, m := range []string{nextMarker, endMarker} {
				if _, ok := b.ResolveMarker(m); ok {
					t.Fatalf("marker %q left behind", m)
				}
			}
		})
	}
}

func TestNormalErrors(t *testing.T) {
	for _, keys := range []string{"", "q", "d", "dw", "p", "J"} {
		b := buffer.New(1, "t", "a")
		if err := Normal(b, selection.Line(1), keys, Options{}); err == nil {
			t.Fatalf("Normal(%q) succeeded", keys)
		}
	}
}

func TestNormalKeepsOuterMarkers(t *testing.T) {
	b := buffer.New(1, "t", "a\nb\nc\nd")
	b.PlaceMarker("z", 3)
	if err := Normal(b, selection.Interval{Start: 1, End: 2}, "o+", Options{}); err != nil {
		t.Fatalf("Normal: %v", err)
	}
	if got, _ := b.ResolveMarker("z"); got != 5 {
		t.Fatalf("marker z = %d, want 5", got)
	}
}

func TestRunAcrossSelections(t *testing.T) {
	logger.Nop()
	text := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8"
	set := selection.NewSet(selection.Interval{Start: 1, End: 2}, selection.Interval{Start: 5, End: 6})

	tests := []struct {
		name string
		cmd  string
		mode Mode
		want string
	}{
		{"open below", "o+", ModeNormal, "l1\n+\nl2\n+\nl3\nl4\nl5\n+\nl6\n+\nl7\nl8"},
		{"delete", "d", ModeEx, "l3\nl4\nl7\nl8"},
		{"join", "j", ModeEx, "l1 l2\nl3\nl4\nl5 l6\nl7\nl8"},
		{"copy below", "t.", ModeEx, "l1\nl2\nl1\nl2\nl3\nl4\nl5\nl6\nl5\nl6\nl7\nl8"},
		{"move to top", "m0", ModeEx, "l5\nl6\nl1\nl2\nl3\nl4\nl7\nl8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.New(1, "t", text)
			x := selection.NewExecutor(b, nil, selection.Options{AbortOnError: true})
			_, err := x.Run(set, func(iv selection.Interval) selection.ExecResult {
				return selection.ExecResult{Err: Run(b, iv, tt.cmd, tt.mode, Options{})}
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := b.Content(); got != tt.want {
				t.Fatalf("content:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRunJoinAcrossSingleLines(t *testing.T) {
	logger.Nop()
	set := selection.NewSet(selection.Line(1), selection.Line(4))
	for _, tt := range []struct {
		cmd  string
		mode Mode
	}{
		{"j", ModeEx},
		{"J", ModeNormal},
	} {
		t.Run(tt.cmd, func(t *testing.T) {
			b := buffer.New(1, "t", "a\nb\nc\nd\ne\nf")
			var seen []selection.Interval
			x := selection.NewExecutor(b, nil, selection.Options{AbortOnError: true})
			rep, err := x.Run(set, func(iv selection.Interval) selection.ExecResult {
				seen = append(seen, iv)
				return selection.ExecResult{Err: Run(b, iv, tt.cmd, tt.mode, Options{})}
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got, want := b.Content(), "a b\nc\nd e\nf"; got != want {
				t.Fatalf("content = %q, want %q", got, want)
			}
			if len(seen) != 2 || seen[1] != selection.Line(3) {
				t.Fatalf("intervals = %v, want second at line 3", seen)
			}
			if rep.Offset != -2 {
				t.Fatalf("Offset = %d, want -2", rep.Offset)
			}
		})
	}
}

func TestRunAcrossSelectionsReportsFailures(t *testing.T) {
	logger.Nop()
	b := buffer.New(1, "t", "foo\nx\nbar\nx\nfoo")
	set := selection.NewSet(selection.Line(1), selection.Line(3), selection.Line(5))
	x := selection.NewExecutor(b, nil, selection.Options{AbortOnError: true})
	rep, err := x.Run(set, func(iv selection.Interval) selection.ExecResult {
		return selection.ExecResult{Err: Run(b, iv, "s/foo/baz/", ModeEx, Options{})}
	})
	errs := multierr.Errors(err)
	if len(errs) != 1 || !errors.Is(errs[0], ErrPatternNotFound) {
		t.Fatalf("errors = %v, want one pattern-not-found", errs)
	}
	if rep.Applied != 3 {
		t.Fatalf("Applied = %d, want 3", rep.Applied)
	}
	if got := strings.Count(b.Content(), "baz"); got != 2 {
		t.Fatalf("content = %q", b.Content())
	}
}
