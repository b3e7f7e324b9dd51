package editor

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/multierr"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/command"
	"github.com/kobzarvs/multisel/internal/gitinfo"
	"github.com/kobzarvs/multisel/internal/selection"
)

func (e *Editor) store() *selection.Store {
	return e.selections.Store(e.buf().ID())
}

// Selections returns the selection store of the current buffer, if any.
func (e *Editor) Selections() (*selection.Store, bool) {
	return e.selections.Lookup(e.buf().ID())
}

// Highlight and ClearHighlight make the editor the selection presenter: the
// set passed last is what the next Render draws.
func (e *Editor) Highlight(s *selection.Set) {
	e.marked = s
}

func (e *Editor) ClearHighlight() {
	e.marked = nil
}

// refreshSelection re-reads the current buffer's selections for display.
// It does nothing while a run is in progress; the run refreshes once done.
func (e *Editor) refreshSelection() {
	if selection.Executing() {
		return
	}
	st, ok := e.selections.Lookup(e.buf().ID())
	if !ok || !st.Exists() || st.Hidden() {
		e.ClearHighlight()
		return
	}
	e.Highlight(st.Set().Consolidate())
}

func (e *Editor) selectionChanged() {
	e.selections.Prune(e.buf().ID())
	e.refreshSelection()
}

func (e *Editor) countStatus() {
	st, ok := e.Selections()
	if !ok || !st.Exists() {
		e.setStatus(selection.ErrNoSelection.Error())
		return
	}
	n := st.Count()
	if n == 1 {
		e.setStatus("1 selection")
	} else {
		e.setStatus(fmt.Sprintf("%d selections", n))
	}
	if st.Hidden() {
		e.setStatus(e.statusMessage + " (hidden)")
	}
}

func (e *Editor) selectionAdd(r selection.Interval) {
	e.store().Add(r)
	e.selectionChanged()
	e.countStatus()
}

func (e *Editor) selectionClear(r selection.Interval) {
	st, ok := e.Selections()
	if !ok || !st.Exists() {
		e.setStatus(selection.ErrNoSelection.Error())
		return
	}
	st.Clear(r, e.buf().LastLine())
	e.selectionChanged()
	e.countStatus()
}

func (e *Editor) selectionInvert(r selection.Interval) {
	e.store().Invert(r)
	e.selectionChanged()
	e.countStatus()
}

func (e *Editor) selectionDelete() {
	st, ok := e.Selections()
	if !ok || !st.DeleteAt(e.buf().CursorLine()) {
		e.setStatus("no selection at cursor")
		return
	}
	e.selectionChanged()
	e.countStatus()
}

func (e *Editor) selectionJump(dir selection.Direction) {
	b := e.buf()
	var set *selection.Set
	if st, ok := e.Selections(); ok {
		set = st.Set()
	}
	line, ok := selection.NextStart(set, b.CursorLine(), dir)
	if !ok {
		if dir == selection.Forward {
			e.setStatus("no next selection")
		} else {
			e.setStatus("no previous selection")
		}
		return
	}
	b.SetCursorLine(line)
}

func (e *Editor) selectionRestore() {
	st, ok := e.Selections()
	if !ok || !st.Restore() {
		e.setStatus("nothing to restore")
		return
	}
	e.selectionChanged()
	e.countStatus()
}

func (e *Editor) selectionSetHidden(hidden bool) {
	e.store().SetHidden(hidden)
	e.selectionChanged()
	if hidden {
		e.setStatus("selections hidden")
	} else {
		e.setStatus("selections shown")
	}
}

func (e *Editor) selectionMatch(r selection.Interval, re *regexp.Regexp, negate bool) {
	n := e.store().Match(r, selection.MatchRegexp(e.buf(), re), negate)
	e.selectionChanged()
	e.setStatus(fmt.Sprintf("%d new selections", n))
}

func (e *Editor) selectionNodes(r selection.Interval, kinds []string) error {
	b := e.buf()
	if e.nodes == nil {
		return errors.New("syntax parsing unavailable")
	}
	if !e.nodes.ParseSync(b.Name(), b.Content()) {
		return fmt.Errorf("no grammar for %q", b.Name())
	}
	n := e.store().Match(r, e.nodes.NodePredicate(b.Name(), kinds...), false)
	e.selectionChanged()
	e.setStatus(fmt.Sprintf("%d new selections", n))
	return nil
}

func (e *Editor) selectionGit() error {
	b := e.buf()
	if b.Name() == "" {
		return errors.New("no file name")
	}
	ranges, err := gitinfo.ChangedRanges(b.Name())
	if err != nil {
		return err
	}
	last := b.LastLine()
	ivs := make([]selection.Interval, 0, len(ranges))
	for _, iv := range ranges {
		if iv.Start > last {
			continue
		}
		iv.End = min(iv.End, last)
		ivs = append(ivs, iv)
	}
	if len(ivs) == 0 {
		e.setStatus("no changed lines")
		return nil
	}
	e.store().AddAll(ivs...)
	e.selectionChanged()
	e.setStatus(fmt.Sprintf("%d changed hunks selected", len(ivs)))
	return nil
}

type focusKeeper struct {
	e  *Editor
	id buffer.ID
}

func (f focusKeeper) RestoreFocus() bool {
	return f.e.focusID(f.id)
}

// runSelection applies text to every selection of the current buffer.
func (e *Editor) runSelection(text string, mode command.Mode) {
	b := e.buf()
	var set *selection.Set
	if st, ok := e.Selections(); ok {
		set = st.Set()
	}
	x := selection.NewExecutor(b, focusKeeper{e: e, id: b.ID()}, e.selOpts)
	rep, err := x.Run(set, e.applyFunc(b, text, mode))
	log.Info("selection run",
		"buffer", b.Name(), "mode", mode.String(), "command", text,
		"applied", rep.Applied, "skipped", rep.Skipped, "offset", rep.Offset, "err", err)
	if err != nil {
		e.setStatus(runErrorMessage(err))
	} else {
		e.setStatus(fmt.Sprintf("%s command applied to %d selections", mode, rep.Applied))
	}
	e.refreshSelection()
}

func (e *Editor) applyFunc(b *buffer.Buffer, text string, mode command.Mode) selection.ApplyFunc {
	opts := command.Options{ShiftWidth: e.shiftWidth, Register: &e.register}
	return func(iv selection.Interval) selection.ExecResult {
		before := e.buf().ID()
		var err error
		if name, arg := splitName(text); mode == command.ModeEx && isBufferCommand(name) {
			err = e.bufferCommand(name, arg)
		} else {
			err = command.Run(b, iv, text, mode, opts)
		}
		return selection.ExecResult{Err: err, FocusChanged: e.buf().ID() != before}
	}
}

func runErrorMessage(err error) string {
	errs := multierr.Errors(err)
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%v (and %d more errors)", errs[0], len(errs)-1)
	}
}
