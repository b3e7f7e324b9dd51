package editor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kobzarvs/multisel/internal/command"
	"github.com/kobzarvs/multisel/internal/selection"
)

var errInvalidRange = errors.New("invalid range")

// execCommand runs one ":" command line and reports whether the editor
// should quit. Commands take an optional leading range: N, N,M, ".", "$",
// "%" or "'<,'>" for the visual line selection.
func (e *Editor) execCommand(cmd string) bool {
	defer func() { e.anchor = 0 }()
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return false
	}
	r, hasRange, rest, err := e.parseRange(cmd)
	if err != nil {
		e.setStatus(err.Error())
		return false
	}
	name, arg := splitName(rest)
	if isBufferCommand(name) {
		if err := e.bufferCommand(name, arg); err != nil {
			e.setStatus(err.Error())
		}
		return false
	}

	b := e.buf()
	whole := selection.Interval{Start: 1, End: b.LastLine()}
	cursor := selection.Line(b.CursorLine())
	switch name {
	case "q", "quit":
		return e.quit(false)
	case "q!", "quit!":
		return e.quit(true)
	case "wq", "x":
		if err := e.save(arg); err != nil {
			e.setStatus(err.Error())
			return false
		}
		return e.quit(false)
	case "ln":
		e.setLineNumbers(arg)
	case "msadd":
		if r, err = e.argRange(r, hasRange, arg, cursor); err == nil {
			e.selectionAdd(r)
		}
	case "msclear":
		if r, err = e.argRange(r, hasRange, arg, whole); err == nil {
			e.selectionClear(r)
		}
	case "msinvert":
		if r, err = e.argRange(r, hasRange, arg, whole); err == nil {
			e.selectionInvert(r)
		}
	case "msmatch", "msmatch!":
		var pat string
		pat, arg, err = parsePattern(arg)
		if err != nil {
			break
		}
		var re *regexp.Regexp
		if re, err = regexp.Compile(pat); err != nil {
			err = fmt.Errorf("invalid pattern %q: %w", pat, err)
			break
		}
		if r, err = e.argRange(r, hasRange, arg, whole); err == nil {
			e.selectionMatch(r, re, name == "msmatch!")
		}
	case "msnode":
		kindsArg, rangeArg, _ := strings.Cut(arg, " ")
		kinds := strings.FieldsFunc(kindsArg, func(c rune) bool { return c == ',' })
		if len(kinds) == 0 {
			err = errors.New("usage: msnode kind[,kind] [range]")
			break
		}
		if r, err = e.argRange(r, hasRange, strings.TrimSpace(rangeArg), whole); err == nil {
			err = e.selectionNodes(r, kinds)
		}
	case "msgit":
		err = e.selectionGit()
	case "msexec":
		if strings.TrimSpace(arg) == "" {
			err = errors.New("usage: msexec {command}")
			break
		}
		e.runSelection(strings.TrimSpace(arg), command.ModeEx)
	case "msnorm", "msnormal":
		if arg == "" {
			err = errors.New("usage: msnorm {keys}")
			break
		}
		e.runSelection(arg, command.ModeNormal)
	case "msrestore":
		e.selectionRestore()
	case "mshide":
		e.selectionSetHidden(true)
	case "msshow":
		e.selectionSetHidden(false)
	case "msnext":
		e.selectionJump(selection.Forward)
	case "msprev":
		e.selectionJump(selection.Backward)
	case "msdel":
		e.selectionDelete()
	case "mscount":
		e.countStatus()
	default:
		if rest == "" {
			// a bare address jumps there
			b.SetCursorLine(r.End)
			return false
		}
		if !hasRange {
			r = cursor
		}
		err = command.Ex(b, r, rest, command.Options{ShiftWidth: e.shiftWidth, Register: &e.register})
	}
	if err != nil {
		log.Debug("command failed", "command", cmd, "err", err)
		e.setStatus(err.Error())
	}
	return false
}

// splitName separates a command name, letters optionally followed by "!",
// from its argument. One blank after the name is dropped; the rest of the
// argument is kept as typed.
func splitName(text string) (string, string) {
	i := 0
	for i < len(text) && text[i] < utf8RuneSelf && unicode.IsLetter(rune(text[i])) {
		i++
	}
	if i > 0 && i < len(text) && text[i] == '!' {
		i++
	}
	name, arg := text[:i], text[i:]
	arg = strings.TrimPrefix(arg, " ")
	return name, arg
}

const utf8RuneSelf = 0x80

// parseRange reads an optional range prefix and returns the rest of cmd.
func (e *Editor) parseRange(cmd string) (selection.Interval, bool, string, error) {
	b := e.buf()
	last := b.LastLine()
	switch {
	case strings.HasPrefix(cmd, "%"):
		return selection.Interval{Start: 1, End: last}, true, strings.TrimLeft(cmd[1:], " "), nil
	case strings.HasPrefix(cmd, "'<,'>"):
		if e.anchor == 0 {
			return selection.Interval{}, false, "", errors.New("no visual selection")
		}
		return selection.Span(e.anchor, b.CursorLine()), true, strings.TrimLeft(cmd[5:], " "), nil
	}
	start, n, err := e.parseAddress(cmd)
	if err != nil {
		return selection.Interval{}, false, "", err
	}
	if n == 0 {
		return selection.Interval{}, false, cmd, nil
	}
	end := start
	rest := cmd[n:]
	if strings.HasPrefix(rest, ",") {
		var m int
		end, m, err = e.parseAddress(rest[1:])
		if err != nil {
			return selection.Interval{}, false, "", err
		}
		if m == 0 {
			return selection.Interval{}, false, "", errInvalidRange
		}
		rest = rest[1+m:]
	}
	return selection.Span(start, end), true, strings.TrimLeft(rest, " "), nil
}

// parseAddress reads one line address: a number, "." or "$". It returns the
// line and the number of bytes consumed; zero bytes means no address.
func (e *Editor) parseAddress(s string) (int, int, error) {
	b := e.buf()
	if s == "" {
		return 0, 0, nil
	}
	switch s[0] {
	case '.':
		return b.CursorLine(), 1, nil
	case '$':
		return b.LastLine(), 1, nil
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, nil
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n < 1 || n > b.LastLine() {
		return 0, 0, fmt.Errorf("%w: %s", errInvalidRange, s[:i])
	}
	return n, i, nil
}

// argRange resolves the range of a selection command: a leading range wins,
// then a range given as the argument, then def.
func (e *Editor) argRange(r selection.Interval, hasRange bool, arg string, def selection.Interval) (selection.Interval, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		if hasRange {
			return r, nil
		}
		return def, nil
	}
	if hasRange {
		return selection.Interval{}, fmt.Errorf("trailing characters: %s", arg)
	}
	ar, ok, rest, err := e.parseRange(arg)
	if err != nil {
		return selection.Interval{}, err
	}
	if !ok || rest != "" {
		return selection.Interval{}, fmt.Errorf("%w: %s", errInvalidRange, arg)
	}
	return ar, nil
}

// parsePattern reads a delimited pattern such as /foo/ and returns it with
// the remaining text. A backslash escapes the delimiter.
func parsePattern(arg string) (string, string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", "", errors.New("missing pattern")
	}
	delim := arg[0]
	if delim != '/' && delim != '#' && delim != '|' && delim != '"' {
		return "", "", fmt.Errorf("pattern must be delimited, e.g. /%s/", arg)
	}
	var sb strings.Builder
	for i := 1; i < len(arg); i++ {
		c := arg[i]
		if c == '\\' && i+1 < len(arg) && arg[i+1] == delim {
			sb.WriteByte(delim)
			i++
			continue
		}
		if c == delim {
			if sb.Len() == 0 {
				return "", "", errors.New("missing pattern")
			}
			return sb.String(), strings.TrimSpace(arg[i+1:]), nil
		}
		sb.WriteByte(c)
	}
	if sb.Len() == 0 {
		return "", "", errors.New("missing pattern")
	}
	return sb.String(), "", nil
}

func (e *Editor) setLineNumbers(arg string) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		e.toggleLineNumbers()
	case "off":
		e.lineNumberMode = LineNumberOff
		e.setStatus("line numbers off")
	case "abs", "absolute":
		e.lineNumberMode = LineNumberAbsolute
		e.setStatus("line numbers absolute")
	case "rel", "relative":
		e.lineNumberMode = LineNumberRelative
		e.setStatus("line numbers relative")
	default:
		e.setStatus("unknown line number mode")
	}
}
