package command

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/selection"
)

// Ex runs a single range command on lines r of b.
//
// Supported commands:
//
//	d                delete the lines
//	y                yank the lines into the register
//	s/pat/repl/[g]   substitute (any punctuation delimiter)
//	> <              shift right or left, repeatable (">>")
//	j                join the lines (or the line with the next one)
//	t{addr} m{addr}  copy or move the lines; addr is ".", "$" or "0"
//	sort[!]          sort the lines, "!" reverses
//	normal {keys}    run keys on every line (see Normal)
func Ex(b *buffer.Buffer, r selection.Interval, text string, opts Options) error {
	text = strings.TrimLeft(text, " \t")
	if strings.TrimSpace(text) == "" {
		return ErrEmptyCommand
	}
	name, arg := splitCommand(text)
	if name != "norm" && name != "normal" {
		text = strings.TrimSpace(text)
		arg = strings.TrimSpace(arg)
	}
	switch name {
	case "d", "de", "del", "delete":
		opts.register().Lines = b.Lines(r.Start, r.End)
		b.DeleteLines(r.Start, r.End)
		return nil
	case "y", "ya", "yank":
		opts.register().Lines = b.Lines(r.Start, r.End)
		return nil
	case ">", "<":
		return shiftLines(b, r, strings.ReplaceAll(text, " ", ""), opts)
	case "j", "join":
		joinLines(b, r)
		return nil
	case "t", "co", "copy":
		return copyLines(b, r, arg, false)
	case "m", "mo", "move":
		return copyLines(b, r, arg, true)
	case "sort", "sort!":
		sortLines(b, r, name == "sort!")
		return nil
	case "norm", "normal":
		return Normal(b, r, arg, opts)
	case "s":
		return substitute(b, r, text)
	}
	return fmt.Errorf("not an editor command: %s", text)
}

// splitCommand separates the command name from its argument. Names are
// letters (optionally followed by "!"), or a run of one shift character.
func splitCommand(text string) (string, string) {
	if text[0] == '>' || text[0] == '<' {
		return text[:1], ""
	}
	i := 0
	for i < len(text) && unicode.IsLetter(rune(text[i])) {
		i++
	}
	if i < len(text) && text[i] == '!' {
		i++
	}
	if i == 0 {
		return text, ""
	}
	name := text[:i]
	rest := text[i:]
	if name == "substitute" {
		name = "s"
	}
	// "normal" keeps trailing blanks, they may be inserted text
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}
	return name, rest
}

func shiftLines(b *buffer.Buffer, r selection.Interval, text string, opts Options) error {
	dir := text[0]
	n := 0
	for _, c := range text {
		if byte(c) != dir {
			return fmt.Errorf("not an editor command: %s", text)
		}
		n++
	}
	for line := r.Start; line <= r.End && line <= b.LastLine(); line++ {
		s := b.Line(line)
		for i := 0; i < n; i++ {
			if dir == '>' {
				s = shiftRight(s, opts)
			} else {
				s = shiftLeft(s, opts)
			}
		}
		b.SetLine(line, s)
	}
	return nil
}

func shiftRight(s string, opts Options) string {
	if s == "" {
		return s
	}
	return opts.shift() + s
}

func shiftLeft(s string, opts Options) string {
	if strings.HasPrefix(s, "\t") {
		return s[1:]
	}
	width := opts.ShiftWidth
	if width < 1 {
		width = 1
	}
	i := 0
	for i < len(s) && i < width && s[i] == ' ' {
		i++
	}
	return s[i:]
}

func joinLines(b *buffer.Buffer, r selection.Interval) {
	end := r.End
	if end == r.Start {
		end++
	}
	if end > b.LastLine() {
		return
	}
	joined := strings.TrimRight(b.Line(r.Start), " \t")
	for line := r.Start + 1; line <= end; line++ {
		next := strings.TrimSpace(b.Line(line))
		if next == "" {
			continue
		}
		if joined != "" {
			joined += " "
		}
		joined += next
	}
	b.SetLine(r.Start, joined)
	b.DeleteLines(r.Start+1, end)
}

func copyLines(b *buffer.Buffer, r selection.Interval, addr string, move bool) error {
	var at int
	switch addr {
	case ".":
		at = r.End + 1
	case "$":
		at = b.LastLine() + 1
	case "0":
		at = 1
	default:
		n, err := strconv.Atoi(addr)
		if err != nil || n < 0 || n > b.LastLine() {
			return fmt.Errorf("invalid address: %q", addr)
		}
		at = n + 1
	}
	lines := b.Lines(r.Start, r.End)
	if !move {
		b.InsertLines(at, lines)
		return nil
	}
	if at > r.Start && at <= r.End+1 {
		// moving onto itself
		return nil
	}
	if at > r.End {
		b.InsertLines(at, lines)
		b.DeleteLines(r.Start, r.End)
		return nil
	}
	b.DeleteLines(r.Start, r.End)
	b.InsertLines(at, lines)
	return nil
}

func sortLines(b *buffer.Buffer, r selection.Interval, reverse bool) {
	lines := b.Lines(r.Start, r.End)
	slices.Sort(lines)
	if reverse {
		slices.Reverse(lines)
	}
	for i, s := range lines {
		b.SetLine(r.Start+i, s)
	}
}

func substitute(b *buffer.Buffer, r selection.Interval, text string) error {
	pat, repl, flags, err := parseSubstitute(text)
	if err != nil {
		return err
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pat, err)
	}
	global := strings.Contains(flags, "g")
	template := expandTemplate(repl)
	found := false
	for line := r.Start; line <= r.End && line <= b.LastLine(); line++ {
		s := b.Line(line)
		if !re.MatchString(s) {
			continue
		}
		found = true
		if global {
			s = re.ReplaceAllString(s, template)
		} else {
			loc := re.FindStringSubmatchIndex(s)
			dst := re.ExpandString(nil, template, s, loc)
			s = s[:loc[0]] + string(dst) + s[loc[1]:]
		}
		b.SetLine(line, s)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrPatternNotFound, pat)
	}
	return nil
}

// parseSubstitute splits "s/pat/repl/flags". A backslash before the
// delimiter makes it literal.
func parseSubstitute(text string) (pat, repl, flags string, err error) {
	body := strings.TrimPrefix(text, "substitute")
	body = strings.TrimPrefix(body, "s")
	if body == "" {
		return "", "", "", fmt.Errorf("missing pattern: %s", text)
	}
	delim := rune(body[0])
	if unicode.IsLetter(delim) || unicode.IsDigit(delim) || unicode.IsSpace(delim) || delim == '\\' {
		return "", "", "", fmt.Errorf("invalid delimiter %q", delim)
	}
	var parts []string
	var cur strings.Builder
	rs := []rune(body[1:])
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if c == '\\' && i+1 < len(rs) && rs[i+1] == delim {
			cur.WriteRune(delim)
			i++
			continue
		}
		if c == delim {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	parts = append(parts, cur.String())
	if parts[0] == "" {
		return "", "", "", fmt.Errorf("missing pattern: %s", text)
	}
	pat = parts[0]
	if len(parts) > 1 {
		repl = parts[1]
	}
	if len(parts) > 2 {
		flags = parts[2]
	}
	return pat, repl, flags, nil
}

// expandTemplate turns "&" and "\1" style references into regexp.Expand
// syntax and escapes literal dollars.
func expandTemplate(repl string) string {
	var sb strings.Builder
	rs := []rune(repl)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == '$':
			sb.WriteString("$$")
		case c == '&':
			sb.WriteString("${0}")
		case c == '\\' && i+1 < len(rs):
			next := rs[i+1]
			i++
			switch {
			case next >= '0' && next <= '9':
				sb.WriteString("${" + string(next) + "}")
			case next == 't':
				sb.WriteByte('\t')
			case next == '$':
				sb.WriteString("$$")
			default:
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
