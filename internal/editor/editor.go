// Package editor is the terminal front end: it owns the open buffers and
// their line selections, maps keys to actions and runs ":" commands.
package editor

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/command"
	"github.com/kobzarvs/multisel/internal/config"
	"github.com/kobzarvs/multisel/internal/logger"
	"github.com/kobzarvs/multisel/internal/selection"
)

var log = logger.Component("editor")

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
)

const (
	actionMoveUp            = "move_up"
	actionMoveDown          = "move_down"
	actionPageUp            = "page_up"
	actionPageDown          = "page_down"
	actionFileStart         = "file_start"
	actionFileEnd           = "file_end"
	actionEnterCommand      = "enter_command"
	actionQuit              = "quit"
	actionToggleLineNumbers = "toggle_line_numbers"

	actionToggleLineSelect  = "toggle_line_select"
	actionCollapseSelection = "collapse_selection"

	actionSelectionAdd          = "selection_add"
	actionSelectionClear        = "selection_clear"
	actionSelectionInvert       = "selection_invert"
	actionSelectionDelete       = "selection_delete"
	actionSelectionNext         = "selection_next"
	actionSelectionPrev         = "selection_prev"
	actionSelectionRestore      = "selection_restore"
	actionSelectionToggleHidden = "selection_toggle_hidden"
)

// NodeMatcher parses a buffer and matches lines lying inside syntax nodes.
type NodeMatcher interface {
	ParseSync(path, text string) bool
	NodePredicate(path string, kinds ...string) selection.Predicate
}

type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

type LineNumberMode int

const (
	LineNumberOff LineNumberMode = iota
	LineNumberAbsolute
	LineNumberRelative
)

type Editor struct {
	buffers []*buffer.Buffer
	current int
	nextID  buffer.ID

	scroll     int
	viewHeight int
	mode       Mode
	keymap     map[string]string

	cmd             []rune
	cmdCursor       int
	cmdHistory      []string
	cmdHistoryIndex int
	statusMessage   string

	tabWidth        int
	shiftWidth      int
	lineNumberMode  LineNumberMode
	gitBranch       string
	gitBranchSymbol string
	styles          styles

	// anchor is the first line of a visual line selection; 0 when none
	anchor int

	selections   *selection.Registry[buffer.ID]
	selOpts      selection.Options
	gutterSymbol rune
	marked       *selection.Set
	register     command.Register

	nodes          NodeMatcher
	sessions       SessionStore
	highlights     map[int][]HighlightSpan
	highlightStart int
	highlightEnd   int
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap.Normal))
	for k, v := range cfg.Keymap.Normal {
		keymap[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	gutter := '▌'
	if rs := []rune(strings.TrimSpace(cfg.Selection.GutterSymbol)); len(rs) > 0 {
		gutter = rs[0]
	}
	e := &Editor{
		mode:            ModeNormal,
		keymap:          keymap,
		cmdHistoryIndex: -1,
		tabWidth:        tabWidth,
		shiftWidth:      cfg.Editor.ShiftWidth,
		lineNumberMode:  parseLineNumberMode(cfg.Editor.LineNumbers),
		gitBranchSymbol: strings.TrimSpace(cfg.Editor.GitBranchSymbol),
		styles:          newStyles(cfg.Theme),
		selections:      selection.NewRegistry[buffer.ID](),
		selOpts: selection.Options{
			AbortOnError: cfg.Selection.AbortOnError,
			StopOnError:  cfg.Selection.StopOnError,
			Marker:       cfg.Selection.Marker,
		},
		gutterSymbol:   gutter,
		highlightStart: -1,
		highlightEnd:   -1,
	}
	e.addBuffer("", "")
	return e
}

func (e *Editor) addBuffer(name, text string) *buffer.Buffer {
	e.nextID++
	b := buffer.New(e.nextID, name, text)
	e.buffers = append(e.buffers, b)
	return b
}

// OpenFile loads path into a new buffer and makes it current. A file that is
// already open is switched to instead. The initial unnamed buffer is
// replaced while it is still empty.
func (e *Editor) OpenFile(path string) error {
	for i, b := range e.buffers {
		if b.Name() != "" && samePath(b.Name(), path) {
			e.focus(i)
			return nil
		}
	}
	e.nextID++
	b, err := buffer.Load(e.nextID, path)
	if err != nil {
		return err
	}
	e.restoreState(b)
	if first := e.buffers[0]; len(e.buffers) == 1 && first.Name() == "" && !first.Dirty() && first.Content() == "" {
		e.selections.Remove(e.buffers[0].ID())
		e.buffers[0] = b
		e.focus(0)
	} else {
		e.buffers = append(e.buffers, b)
		e.focus(len(e.buffers) - 1)
	}
	log.Info("opened file", "path", path, "lines", b.LastLine())
	return nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}

func (e *Editor) focus(i int) {
	e.current = i
	e.anchor = 0
	e.scroll = 0
	e.highlights = nil
	e.highlightStart = -1
	e.highlightEnd = -1
	e.refreshSelection()
}

// focusID makes the buffer with id current. It reports false when the buffer
// has been closed.
func (e *Editor) focusID(id buffer.ID) bool {
	for i, b := range e.buffers {
		if b.ID() == id {
			if i != e.current {
				e.focus(i)
			}
			return true
		}
	}
	return false
}

func (e *Editor) buf() *buffer.Buffer {
	return e.buffers[e.current]
}

// Buffer returns the current buffer.
func (e *Editor) Buffer() *buffer.Buffer {
	return e.buf()
}

func (e *Editor) Content() string {
	return e.buf().Content()
}

func (e *Editor) Path() string {
	return e.buf().Name()
}

func (e *Editor) ChangeTick() uint64 {
	return e.buf().ChangeTick()
}

func (e *Editor) LineCount() int {
	return e.buf().LastLine()
}

func (e *Editor) Mode() Mode {
	return e.mode
}

func (e *Editor) StatusMessage() string {
	return e.statusMessage
}

func (e *Editor) SetStatusMessage(msg string) {
	e.setStatus(msg)
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

func (e *Editor) SetGitBranch(name string) {
	e.gitBranch = name
}

func (e *Editor) SetNodeMatcher(m NodeMatcher) {
	e.nodes = m
}

// VisibleRange returns the first and last visible rows (0-based).
func (e *Editor) VisibleRange() (int, int) {
	h := e.viewHeight
	if h < 1 {
		h = 1
	}
	end := min(e.scroll+h-1, e.buf().LastLine()-1)
	return e.scroll, max(end, e.scroll)
}

// SetHighlights installs syntax spans for rows startRow through endRow.
// A negative startRow clears them.
func (e *Editor) SetHighlights(startRow, endRow int, spans map[int][]HighlightSpan) {
	if startRow < 0 {
		e.highlights = nil
		e.highlightStart = -1
		e.highlightEnd = -1
		return
	}
	e.highlights = spans
	e.highlightStart = startRow
	e.highlightEnd = endRow
}

func (e *Editor) HasHighlights() bool {
	return e.highlightStart >= 0
}

func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.mode == ModeCommand {
		return e.handleCommand(ev)
	}
	e.statusMessage = ""
	return e.handleNormal(ev)
}

func (e *Editor) handleNormal(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if key == "" {
		return false
	}
	action, ok := e.keymap[key]
	if !ok {
		return false
	}
	return e.execAction(action)
}

func (e *Editor) execAction(action string) bool {
	b := e.buf()
	switch action {
	case actionMoveUp:
		b.SetCursorLine(b.CursorLine() - 1)
	case actionMoveDown:
		b.SetCursorLine(b.CursorLine() + 1)
	case actionPageUp:
		b.SetCursorLine(b.CursorLine() - max(e.viewHeight-1, 1))
	case actionPageDown:
		b.SetCursorLine(b.CursorLine() + max(e.viewHeight-1, 1))
	case actionFileStart:
		b.SetCursorLine(1)
	case actionFileEnd:
		b.SetCursorLine(b.LastLine())
	case actionEnterCommand:
		e.mode = ModeCommand
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		if e.anchor != 0 {
			// like vim, a visual range prefills the command line
			e.cmd = append(e.cmd, []rune("'<,'>")...)
			e.cmdCursor = len(e.cmd)
		}
	case actionQuit:
		return e.quit(false)
	case actionToggleLineNumbers:
		e.toggleLineNumbers()
	case actionToggleLineSelect:
		if e.anchor == 0 {
			e.anchor = b.CursorLine()
		} else {
			e.anchor = 0
		}
	case actionCollapseSelection:
		e.anchor = 0
	case actionSelectionAdd:
		e.selectionAdd(e.keyRange())
		e.anchor = 0
	case actionSelectionClear:
		e.selectionClear(e.keyRange())
		e.anchor = 0
	case actionSelectionInvert:
		e.selectionInvert(e.keyRange())
		e.anchor = 0
	case actionSelectionDelete:
		e.selectionDelete()
	case actionSelectionNext:
		e.selectionJump(selection.Forward)
	case actionSelectionPrev:
		e.selectionJump(selection.Backward)
	case actionSelectionRestore:
		e.selectionRestore()
	case actionSelectionToggleHidden:
		e.selectionSetHidden(!e.store().Hidden())
	default:
		log.Debug("unknown action", "action", action)
	}
	return false
}

// keyRange is the range a selection key acts on: the visual line range when
// one is active, else the cursor line.
func (e *Editor) keyRange() selection.Interval {
	cur := e.buf().CursorLine()
	if e.anchor != 0 {
		return selection.Span(e.anchor, cur)
	}
	return selection.Line(cur)
}

func (e *Editor) quit(force bool) bool {
	if force {
		return true
	}
	for _, b := range e.buffers {
		if b.Dirty() {
			e.setStatus("unsaved changes (use :q!)")
			return false
		}
	}
	return true
}

func (e *Editor) toggleLineNumbers() {
	switch e.lineNumberMode {
	case LineNumberAbsolute:
		e.lineNumberMode = LineNumberRelative
		e.setStatus("line numbers relative")
	default:
		e.lineNumberMode = LineNumberAbsolute
		e.setStatus("line numbers absolute")
	}
}

func parseLineNumberMode(value string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return LineNumberRelative
	case "off", "none", "false":
		return LineNumberOff
	default:
		return LineNumberAbsolute
	}
}

func (e *Editor) handleCommand(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		e.mode = ModeNormal
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		e.cmdHistoryIndex = -1
		return false
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(string(e.cmd))
		e.mode = ModeNormal
		if cmd != "" && (len(e.cmdHistory) == 0 || e.cmdHistory[len(e.cmdHistory)-1] != cmd) {
			e.cmdHistory = append(e.cmdHistory, cmd)
		}
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		e.cmdHistoryIndex = -1
		return e.execCommand(cmd)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cmdCursor > 0 {
			e.cmd = append(e.cmd[:e.cmdCursor-1], e.cmd[e.cmdCursor:]...)
			e.cmdCursor--
		} else if len(e.cmd) == 0 {
			e.mode = ModeNormal
		}
		return false
	case tcell.KeyLeft, tcell.KeyCtrlB:
		if e.cmdCursor > 0 {
			e.cmdCursor--
		}
		return false
	case tcell.KeyRight, tcell.KeyCtrlF:
		if e.cmdCursor < len(e.cmd) {
			e.cmdCursor++
		}
		return false
	case tcell.KeyHome, tcell.KeyCtrlA:
		e.cmdCursor = 0
		return false
	case tcell.KeyEnd, tcell.KeyCtrlE:
		e.cmdCursor = len(e.cmd)
		return false
	case tcell.KeyUp, tcell.KeyCtrlP:
		e.cmdHistoryMove(-1)
		return false
	case tcell.KeyDown, tcell.KeyCtrlN:
		e.cmdHistoryMove(1)
		return false
	case tcell.KeyCtrlU:
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		return false
	case tcell.KeyRune:
		e.cmd = append(e.cmd[:e.cmdCursor], append([]rune{ev.Rune()}, e.cmd[e.cmdCursor:]...)...)
		e.cmdCursor++
		e.cmdHistoryIndex = -1
		return false
	}
	return false
}

func (e *Editor) cmdHistoryMove(dir int) {
	if len(e.cmdHistory) == 0 {
		return
	}
	idx := e.cmdHistoryIndex
	if idx < 0 {
		idx = len(e.cmdHistory)
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(e.cmdHistory) {
		e.cmdHistoryIndex = -1
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		return
	}
	e.cmdHistoryIndex = idx
	e.cmd = []rune(e.cmdHistory[idx])
	e.cmdCursor = len(e.cmd)
}
