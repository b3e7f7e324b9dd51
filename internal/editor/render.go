package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/multisel/internal/config"
)

type styles struct {
	main             tcell.Style
	status           tcell.Style
	command          tcell.Style
	lineNumber       tcell.Style
	lineNumberActive tcell.Style
	visual           tcell.Style
	multiselect      tcell.Style
	gutter           tcell.Style

	syntaxKeyword  tcell.Style
	syntaxString   tcell.Style
	syntaxComment  tcell.Style
	syntaxType     tcell.Style
	syntaxFunction tcell.Style
	syntaxNumber   tcell.Style
	syntaxConstant tcell.Style
	syntaxField    tcell.Style
	syntaxVariable tcell.Style
}

func newStyles(t config.Theme) styles {
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	statusFg := parseColor(t.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(t.StatuslineBackground, tcell.ColorGray)
	fg := func(name string) tcell.Style {
		return tcell.StyleDefault.Foreground(parseColor(name, mainFg)).Background(mainBg)
	}
	return styles{
		main:             tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		status:           tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		command:          tcell.StyleDefault.Foreground(parseColor(t.CommandlineForeground, statusFg)).Background(parseColor(t.CommandlineBackground, statusBg)),
		lineNumber:       tcell.StyleDefault.Foreground(parseColor(t.LineNumberForeground, tcell.ColorGray)).Background(mainBg),
		lineNumberActive: fg(t.LineNumberActiveForeground),
		visual:           tcell.StyleDefault.Foreground(parseColor(t.SelectionForeground, mainFg)).Background(parseColor(t.SelectionBackground, mainBg)),
		multiselect:      tcell.StyleDefault.Foreground(parseColor(t.MultiselectForeground, mainBg)).Background(parseColor(t.MultiselectBackground, tcell.ColorYellow)),
		gutter:           tcell.StyleDefault.Foreground(parseColor(t.GutterForeground, tcell.ColorYellow)).Background(mainBg),
		syntaxKeyword:    fg(t.SyntaxKeyword),
		syntaxString:     fg(t.SyntaxString),
		syntaxComment:    fg(t.SyntaxComment),
		syntaxType:       fg(t.SyntaxType),
		syntaxFunction:   fg(t.SyntaxFunction),
		syntaxNumber:     fg(t.SyntaxNumber),
		syntaxConstant:   fg(t.SyntaxConstant),
		syntaxField:      fg(t.SyntaxField),
		syntaxVariable:   fg(t.SyntaxVariable),
	}
}

func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		cmdY = h - 1
	}
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styles.main)
	s.Clear()

	b := e.buf()
	gutterWidth := e.gutterWidth()
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= b.LastLine() {
			clearLine(s, y, w, e.styles.main)
			continue
		}
		e.drawLineWithGutter(s, y, w, gutterWidth, lineIdx)
	}

	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	cx, cy := 0, b.CursorLine()-1-e.scroll
	if cmdY >= 0 {
		x := e.renderCommandline(s, w, cmdY)
		if e.mode == ModeCommand {
			cx, cy = x, cmdY
		}
	}
	if e.mode != ModeCommand {
		cx = gutterWidth
		if cy < 0 || cy >= viewHeight {
			s.HideCursor()
			s.Show()
			return
		}
		s.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	} else {
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	}
	s.ShowCursor(min(cx, w-1), cy)
	s.Show()
}

func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	row := e.buf().CursorLine() - 1
	if row < e.scroll-1 || row >= e.scroll+viewHeight+1 {
		e.scroll = max(row-viewHeight/2, 0)
		return
	}
	if row < e.scroll {
		e.scroll = row
		return
	}
	if row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
}

// gutterWidth covers the selection mark column plus the line numbers.
func (e *Editor) gutterWidth() int {
	if e.lineNumberMode == LineNumberOff {
		return 1
	}
	digits := max(len(strconv.Itoa(e.buf().LastLine())), 2)
	// mark + digits + trailing space
	return 1 + digits + 1
}

func (e *Editor) drawLineWithGutter(s tcell.Screen, y, w, gutterWidth, lineIdx int) {
	line := lineIdx + 1
	cursor := e.buf().CursorLine()
	_, marked := e.marked.FindContaining(line)
	if w > 0 {
		if marked {
			s.SetContent(0, y, e.gutterSymbol, nil, e.styles.gutter)
		} else {
			s.SetContent(0, y, ' ', nil, e.styles.main)
		}
	}
	if e.lineNumberMode != LineNumberOff {
		digits := gutterWidth - 2
		num := line
		if e.lineNumberMode == LineNumberRelative && line != cursor {
			num = line - cursor
			if num < 0 {
				num = -num
			}
		}
		style := e.styles.lineNumber
		if line == cursor {
			style = e.styles.lineNumberActive
		}
		for i, r := range fmt.Sprintf("%*d", digits, num) {
			x := 1 + i
			if x >= gutterWidth-1 || x >= w {
				break
			}
			s.SetContent(x, y, r, nil, style)
		}
		if gutterWidth-1 < w {
			s.SetContent(gutterWidth-1, y, ' ', nil, e.styles.main)
		}
	}
	if gutterWidth >= w {
		return
	}

	base := e.styles.main
	selected := true
	switch {
	case e.anchor != 0 && inSpan(e.anchor, cursor, line):
		base = e.styles.visual
	case marked:
		base = e.styles.multiselect
	default:
		selected = false
	}
	// syntax colors only on unselected lines
	var spans []HighlightSpan
	if !selected && e.highlightStart >= 0 && lineIdx >= e.highlightStart && lineIdx <= e.highlightEnd {
		spans = e.highlights[lineIdx]
	}
	e.drawLine(s, y, w, gutterWidth, []rune(e.buf().Line(line)), base, spans)
}

func inSpan(a, b, line int) bool {
	if a > b {
		a, b = b, a
	}
	return a <= line && line <= b
}

// drawLine draws text after the gutter. Span columns are byte offsets.
func (e *Editor) drawLine(s tcell.Screen, y, w, x0 int, text []rune, base tcell.Style, spans []HighlightSpan) {
	x := x0
	byteCol := 0
	for _, r := range text {
		style := base
		if len(spans) > 0 {
			if kind, ok := highlightKindAt(spans, byteCol); ok {
				style, _ = e.styleForHighlight(kind)
			}
		}
		byteCol += utf8.RuneLen(r)
		if r == '\t' {
			next := x + e.tabWidth - ((x - x0) % e.tabWidth)
			for ; x < next && x < w; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, base)
	}
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	mode := "NORMAL"
	switch {
	case e.mode == ModeCommand:
		mode = "COMMAND"
	case e.anchor != 0:
		mode = "V-LINE"
	}
	b := e.buf()
	name := b.Name()
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if b.Dirty() {
		dirty = "*"
	}
	status := fmt.Sprintf(" %s | %s%s ", mode, name, dirty)
	if len(e.buffers) > 1 {
		status = fmt.Sprintf(" %s | %s%s [%d/%d] ", mode, name, dirty, e.current+1, len(e.buffers))
	}

	right := ""
	if st, ok := e.Selections(); ok && st.Exists() {
		right = fmt.Sprintf(" sel %d", st.Count())
		if st.Hidden() {
			right += " (hidden)"
		}
		right += " |"
	}
	right += fmt.Sprintf(" Ln %d/%d", b.CursorLine(), b.LastLine())
	if e.gitBranch != "" {
		right += " | " + formatGitBranch(e.gitBranchSymbol, e.gitBranch)
	}
	right += " "

	for x, r := range composeStatusLine(status, right, w) {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styles.status)
	}
}

// renderCommandline draws the ":" prompt or the status message and returns
// the prompt cursor column.
func (e *Editor) renderCommandline(s tcell.Screen, w, y int) int {
	var text []rune
	cursor := 0
	if e.mode == ModeCommand {
		text = append([]rune{':'}, e.cmd...)
		cursor = 1 + e.cmdCursor
	} else {
		text = []rune(e.statusMessage)
	}
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		s.SetContent(x, y, r, nil, e.styles.command)
	}
	return cursor
}

func (e *Editor) styleForHighlight(kind string) (tcell.Style, bool) {
	switch kind {
	case "keyword":
		return e.styles.syntaxKeyword, true
	case "string":
		return e.styles.syntaxString, true
	case "comment":
		return e.styles.syntaxComment, true
	case "type":
		return e.styles.syntaxType, true
	case "function":
		return e.styles.syntaxFunction, true
	case "number":
		return e.styles.syntaxNumber, true
	case "constant":
		return e.styles.syntaxConstant, true
	case "field":
		return e.styles.syntaxField, true
	case "variable":
		return e.styles.syntaxVariable, true
	default:
		return e.styles.main, false
	}
}

func highlightPriority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant":
		return 4
	case "type", "function", "number":
		return 3
	case "field", "variable":
		return 2
	default:
		return 0
	}
}

func highlightKindAt(spans []HighlightSpan, col int) (string, bool) {
	bestKind := ""
	bestPriority := 0
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := highlightPriority(span.Kind); p > bestPriority {
			bestPriority = p
			bestKind = span.Kind
		}
	}
	return bestKind, bestKind != ""
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := max(width-len(leftRunes)-len(rightRunes), 0)
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	line = append(line, []rune(strings.Repeat(" ", spaceCount))...)
	return append(line, rightRunes...)
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") {
		return symbol + branch
	}
	return symbol + " " + branch
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// keyString names a key event the way keymaps spell it, e.g. "j", "ctrl+n",
// "pgdn" or "cmd+l".
func keyString(ev *tcell.EventKey) string {
	if ev.Modifiers()&tcell.ModMeta != 0 && ev.Key() == tcell.KeyRune {
		return "cmd+" + strings.ToLower(string(ev.Rune()))
	}
	if ev.Modifiers()&tcell.ModAlt != 0 && ev.Key() == tcell.KeyRune {
		return "alt+" + strings.ToLower(string(ev.Rune()))
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		}
	}
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	// Tab, Enter and Backspace share codes with ctrl+i, ctrl+m and ctrl+h
	switch ev.Key() {
	case tcell.KeyTab:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyEscape:
		return "esc"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
