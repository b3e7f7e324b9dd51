package editor

import (
	"os"
	"path/filepath"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/selection"
	"github.com/kobzarvs/multisel/internal/session"
)

// SessionStore keeps per-file state between runs, keyed by absolute path.
type SessionStore interface {
	FileState(path string) (session.FileState, bool)
	SetFileState(path string, state session.FileState)
}

func (e *Editor) SetSession(s SessionStore) {
	e.sessions = s
}

// Shutdown records the state of every open file.
func (e *Editor) Shutdown() {
	for _, b := range e.buffers {
		e.rememberState(b)
	}
}

// restoreState brings back the cursor line of a reopened file, and its
// selections when the file has not changed on disk since they were saved.
func (e *Editor) restoreState(b *buffer.Buffer) {
	if e.sessions == nil || b.Name() == "" {
		return
	}
	abs, err := filepath.Abs(b.Name())
	if err != nil {
		return
	}
	st, ok := e.sessions.FileState(abs)
	if !ok {
		return
	}
	b.SetCursorLine(st.CursorLine)
	info, err := os.Stat(b.Name())
	if err != nil || !info.ModTime().Equal(st.ModTime) || len(st.Selections) == 0 {
		return
	}
	last := b.LastLine()
	ivs := make([]selection.Interval, 0, len(st.Selections))
	for _, r := range st.Selections {
		iv := selection.Interval{Start: r.Start, End: min(r.End, last)}
		if iv.Valid() {
			ivs = append(ivs, iv)
		}
	}
	if len(ivs) == 0 {
		return
	}
	store := e.selections.Store(b.ID())
	store.AddAll(ivs...)
	store.SetHidden(st.Hidden)
	log.Debug("restored selections", "path", abs, "count", store.Count())
}

func (e *Editor) rememberState(b *buffer.Buffer) {
	if e.sessions == nil || b.Name() == "" {
		return
	}
	abs, err := filepath.Abs(b.Name())
	if err != nil {
		return
	}
	st := session.FileState{CursorLine: b.CursorLine()}
	info, err := os.Stat(b.Name())
	if err == nil && !b.Dirty() {
		st.ModTime = info.ModTime()
		if store, ok := e.selections.Lookup(b.ID()); ok && store.Exists() {
			for iv := range store.All() {
				st.Selections = append(st.Selections, session.Range{Start: iv.Start, End: iv.End})
			}
			st.Hidden = store.Hidden()
		}
	}
	e.sessions.SetFileState(abs, st)
}
