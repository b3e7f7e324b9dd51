package app

import (
	"os"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/multisel/internal/config"
	"github.com/kobzarvs/multisel/internal/editor"
	"github.com/kobzarvs/multisel/internal/gitinfo"
	"github.com/kobzarvs/multisel/internal/logger"
	"github.com/kobzarvs/multisel/internal/session"
	"github.com/kobzarvs/multisel/internal/syntax"
)

var log = logger.Component("app")

// larger files are edited without syntax support
const maxHighlightBytes = 8 << 20

// App is the top-level runtime for multisel.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	if err := logger.Init(os.Getenv("MULTISEL_DEBUG") != ""); err != nil {
		logger.Nop()
	}
	defer logger.Close()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ts := syntax.New(langs)
	if err := ts.Start(); err != nil {
		return err
	}
	defer func() { _ = ts.Stop() }()

	ed := editor.New(cfg)
	ed.SetNodeMatcher(ts)
	if path, err := session.DefaultPath(); err == nil {
		sm := session.NewManager(path)
		defer func() {
			if err := sm.Stop(); err != nil {
				log.Warn("saving session failed", "err", err)
			}
		}()
		defer ed.Shutdown()
		ed.SetSession(sm)
	}
	for _, path := range a.args {
		if err := ed.OpenFile(path); err != nil {
			return err
		}
	}
	gitPath := ed.Path()
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	ed.SetGitBranch(gitinfo.Branch(gitPath))

	stop := make(chan struct{})
	defer close(stop)
	go forwardEvents(s, ts.Events(), stop)

	hl := &highlighter{engine: ts, editor: ed}
	ed.Render(s)
	hl.update(false)
	ed.Render(s)
	lastGitCheck := time.Now()
	for {
		parsed := false
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				log.Info("quit")
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if pe, ok := ev.Data().(syntax.Event); ok && pe.Path == ed.Path() {
				parsed = true
			}
		}
		// Render first so the visible range reflects the new cursor.
		ed.Render(s)
		if hl.update(parsed) {
			ed.Render(s)
		}
		if time.Since(lastGitCheck) > 2*time.Second {
			lastGitCheck = time.Now()
			if p := ed.Path(); p != "" {
				gitPath = p
			}
			ed.SetGitBranch(gitinfo.Branch(gitPath))
		}
	}
}

// forwardEvents wakes the event loop when a background parse finishes and
// every couple of seconds so the git branch stays current.
func forwardEvents(s tcell.Screen, events <-chan syntax.Event, stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case ev := <-events:
			_ = s.PostEvent(tcell.NewEventInterrupt(ev))
		case <-ticker.C:
			_ = s.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}
}

// highlighter keeps the editor's syntax spans in step with the current
// buffer: edits queue a background parse, and finished parses or scrolling
// refresh the spans of the visible rows.
type highlighter struct {
	engine *syntax.Engine
	editor *editor.Editor

	path  string
	tick  uint64
	start int
	end   int
	valid bool
}

// update reports whether the editor's spans changed.
func (h *highlighter) update(parsed bool) bool {
	ed := h.editor
	path, tick := ed.Path(), ed.ChangeTick()
	if path == "" || h.engine.Language(path) == "" {
		if h.valid {
			ed.SetHighlights(-1, -1, nil)
			h.valid = false
			return true
		}
		return false
	}
	switched := path != h.path
	if switched || tick != h.tick {
		h.path, h.tick = path, tick
		content := ed.Content()
		if len(content) > maxHighlightBytes {
			return false
		}
		if switched {
			// first look at a buffer: parse now so it is never shown bare
			h.engine.ParseSync(path, content)
			parsed = true
		} else {
			h.engine.Parse(path, content)
		}
	}
	start, end := ed.VisibleRange()
	if !parsed && h.valid && ed.HasHighlights() && start == h.start && end == h.end {
		return false
	}
	spans := h.engine.Highlights(path, start, end)
	if spans == nil {
		return false
	}
	ed.SetHighlights(start, end, convertSpans(spans))
	h.start, h.end, h.valid = start, end, true
	return true
}

func convertSpans(spans map[int][]syntax.Span) map[int][]editor.HighlightSpan {
	out := make(map[int][]editor.HighlightSpan, len(spans))
	for row, rowSpans := range spans {
		dst := make([]editor.HighlightSpan, len(rowSpans))
		for i, span := range rowSpans {
			dst[i] = editor.HighlightSpan{
				StartCol: span.StartCol,
				EndCol:   span.EndCol,
				Kind:     span.Kind,
			}
		}
		out[row] = dst
	}
	return out
}
