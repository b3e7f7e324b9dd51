package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kobzarvs/multisel/internal/config"
	"github.com/kobzarvs/multisel/internal/session"
)

type memSessions map[string]session.FileState

func (m memSessions) FileState(path string) (session.FileState, bool) {
	st, ok := m[path]
	return st, ok
}

func (m memSessions) SetFileState(path string, st session.FileState) {
	m[path] = st
}

func openWithSessions(t *testing.T, store memSessions, path string) *Editor {
	t.Helper()
	e := New(config.Default())
	e.SetSession(store)
	if err := e.OpenFile(path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	return e
}

func TestSessionRestoresSelections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("1\n2\n3\n4\n5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := memSessions{}
	e := openWithSessions(t, store, path)
	e.execCommand("msadd 2")
	e.execCommand("msadd 4,5")
	e.execCommand("mshide")
	e.Buffer().SetCursorLine(3)
	e.Shutdown()

	e = openWithSessions(t, store, path)
	wantIntervals(t, e, iv(2, 2), iv(4, 5))
	if st, _ := e.Selections(); !st.Hidden() {
		t.Fatalf("hidden state not restored")
	}
	if got := e.Buffer().CursorLine(); got != 3 {
		t.Fatalf("cursor = %d, want 3", got)
	}
}

func TestSessionDropsSelectionsOfChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("1\n2\n3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := memSessions{}
	e := openWithSessions(t, store, path)
	e.execCommand("msadd 2")
	e.Buffer().SetCursorLine(3)
	e.Shutdown()

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	e = openWithSessions(t, store, path)
	if _, ok := e.Selections(); ok {
		t.Fatalf("selections restored for a modified file")
	}
	if got := e.Buffer().CursorLine(); got != 3 {
		t.Fatalf("cursor = %d, want 3", got)
	}
}

func TestSessionSkipsUnsavedSelections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("1\n2\n3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := memSessions{}
	e := openWithSessions(t, store, path)
	e.execCommand("msadd 2")
	e.execCommand("1d")
	e.Shutdown()

	abs, _ := filepath.Abs(path)
	if st := store[abs]; len(st.Selections) != 0 {
		t.Fatalf("selections of a dirty buffer were saved: %v", st.Selections)
	}
}
