package command

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/selection"
)

// markers used to walk the range while keys add and remove lines
const (
	nextMarker = "\x00normal-next"
	endMarker  = "\x00normal-end"
)

type keyOp struct {
	key  string
	text string
}

// Normal replays keys on every line of r, top to bottom, starting each time
// with the cursor in column 0. Lines added by the keys are not visited and
// lines removed by them (for example by "J") are skipped.
//
// Supported keys: I A o O (followed by text up to "<esc>" or the end),
// dd yy >> << x J p P ~, and the motions h l 0 $ and space.
func Normal(b *buffer.Buffer, r selection.Interval, keys string, opts Options) error {
	ops, err := parseKeys(keys)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return ErrEmptyCommand
	}
	defer b.DeleteMarker(nextMarker)
	defer b.DeleteMarker(endMarker)

	bounded := r.End < b.LastLine()
	if bounded {
		b.PlaceAnchor(endMarker, r.End+1)
	}
	ln := r.Start
	for {
		if bounded {
			if end, _ := b.ResolveMarker(endMarker); ln >= end {
				return nil
			}
		} else if ln > b.LastLine() {
			return nil
		}

		hasNext := ln < b.LastLine()
		if hasNext {
			b.PlaceAnchor(nextMarker, ln+1)
		}
		if err := runKeys(b, ln, ops, opts); err != nil {
			return fmt.Errorf("line %d: %w", ln, err)
		}
		if !hasNext {
			return nil
		}
		ln, _ = b.ResolveMarker(nextMarker)
	}
}

func parseKeys(keys string) ([]keyOp, error) {
	var ops []keyOp
	for i := 0; i < len(keys); {
		c := keys[i]
		switch c {
		case 'I', 'A', 'o', 'O':
			rest := keys[i+1:]
			end, skip := findEsc(rest)
			ops = append(ops, keyOp{key: string(c), text: rest[:end]})
			i += 1 + end + skip
		case 'd', 'y', '>', '<':
			if i+1 >= len(keys) || keys[i+1] != c {
				return nil, fmt.Errorf("unsupported key sequence %q", keys[i:])
			}
			ops = append(ops, keyOp{key: keys[i : i+2]})
			i += 2
		case 'x', 'J', 'p', 'P', '~', 'h', 'l', '0', '$', ' ':
			ops = append(ops, keyOp{key: string(c)})
			i++
		default:
			r, _ := utf8.DecodeRuneInString(keys[i:])
			return nil, fmt.Errorf("unsupported key %q", r)
		}
	}
	return ops, nil
}

// findEsc returns the length of inserted text and how many bytes end it.
func findEsc(s string) (int, int) {
	if i := strings.IndexByte(s, 0x1b); i >= 0 {
		if j := strings.Index(strings.ToLower(s), "<esc>"); j >= 0 && j < i {
			return j, len("<esc>")
		}
		return i, 1
	}
	if j := strings.Index(strings.ToLower(s), "<esc>"); j >= 0 {
		return j, len("<esc>")
	}
	return len(s), 0
}

func runKeys(b *buffer.Buffer, ln int, ops []keyOp, opts Options) error {
	col := 0
	reg := opts.register()
	for _, op := range ops {
		line := []rune(b.Line(ln))
		switch op.key {
		case "I":
			indent := leadingBlanks(line)
			ins := []rune(op.text)
			b.SetLine(ln, string(line[:indent])+op.text+string(line[indent:]))
			col = max(indent+len(ins)-1, 0)
		case "A":
			b.SetLine(ln, string(line)+op.text)
			col = max(len(line)+utf8.RuneCountInString(op.text)-1, 0)
		case "o":
			b.InsertLines(ln+1, []string{op.text})
			ln++
			col = max(utf8.RuneCountInString(op.text)-1, 0)
		case "O":
			b.InsertLines(ln, []string{op.text})
			col = max(utf8.RuneCountInString(op.text)-1, 0)
		case "dd":
			reg.Lines = []string{string(line)}
			b.DeleteLines(ln, ln)
			ln = min(ln, b.LastLine())
			col = 0
		case "yy":
			reg.Lines = []string{string(line)}
		case "p":
			if len(reg.Lines) == 0 {
				return fmt.Errorf("register is empty")
			}
			b.InsertLines(ln+1, reg.Lines)
			ln++
			col = 0
		case "P":
			if len(reg.Lines) == 0 {
				return fmt.Errorf("register is empty")
			}
			b.InsertLines(ln, reg.Lines)
			col = 0
		case ">>":
			b.SetLine(ln, shiftRight(string(line), opts))
		case "<<":
			b.SetLine(ln, shiftLeft(string(line), opts))
		case "x":
			if col < len(line) {
				b.SetLine(ln, string(line[:col])+string(line[col+1:]))
				col = min(col, max(len(line)-2, 0))
			}
		case "~":
			if col < len(line) {
				line[col] = toggleCase(line[col])
				b.SetLine(ln, string(line))
				col = min(col+1, len(line)-1)
			}
		case "J":
			if ln >= b.LastLine() {
				return fmt.Errorf("cannot join the last line")
			}
			col = len([]rune(strings.TrimRight(string(line), " \t")))
			joinLines(b, selection.Line(ln))
		case "h":
			col = max(col-1, 0)
		case "l", " ":
			col = min(col+1, max(len(line)-1, 0))
		case "0":
			col = 0
		case "$":
			col = max(len(line)-1, 0)
		}
	}
	return nil
}

func leadingBlanks(line []rune) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func toggleCase(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	return unicode.ToUpper(r)
}
