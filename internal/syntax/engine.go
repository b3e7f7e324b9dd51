// Package syntax parses buffers with tree-sitter. It provides highlight
// spans for rendering and node-kind line predicates for selection scans.
package syntax

import (
	"context"
	"math"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/multisel/internal/config"
	"github.com/kobzarvs/multisel/internal/logger"
	"github.com/kobzarvs/multisel/internal/selection"
)

var log = logger.Component("syntax")

type Event struct {
	Kind string
	Path string
}

// Span is a highlighted column range of one line. Columns are byte offsets;
// EndCol is exclusive and math.MaxInt32 means the end of the line.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

type Engine struct {
	langs   config.Languages
	parsers map[string]*sitter.Parser
	trees   map[string]*sitter.Tree
	queries map[string]*sitter.Query
	sources map[string][]byte
	reqCh   chan parseRequest
	events  chan Event
	stopCh  chan struct{}
	mu      sync.RWMutex
}

type parseRequest struct {
	path     string
	language string
	text     string
}

func New(langs config.Languages) *Engine {
	return &Engine{
		langs:   langs,
		parsers: make(map[string]*sitter.Parser),
		trees:   make(map[string]*sitter.Tree),
		queries: make(map[string]*sitter.Query),
		sources: make(map[string][]byte),
		reqCh:   make(chan parseRequest, 8),
		events:  make(chan Event, 16),
		stopCh:  make(chan struct{}),
	}
}

func grammar(name string) *sitter.Language {
	switch name {
	case "go":
		return golang.GetLanguage()
	case "bash":
		return bash.GetLanguage()
	case "yaml":
		return yaml.GetLanguage()
	case "toml":
		return toml.GetLanguage()
	}
	return nil
}

// Start compiles highlight queries and starts the background parser.
func (e *Engine) Start() error {
	for name, src := range highlightQueries {
		q, err := sitter.NewQuery([]byte(src), grammar(name))
		if err != nil {
			log.Warn("bad highlight query", "language", name, "err", err)
			continue
		}
		e.queries[name] = q
	}
	go e.loop()
	return nil
}

func (e *Engine) Stop() error {
	select {
	case <-e.stopCh:
	default:
		close(e.stopCh)
	}
	return nil
}

// Events reports finished background parses.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Language returns the grammar name for path, or "" when none matches.
func (e *Engine) Language(path string) string {
	if lang := e.langs.Match(path); lang != nil && grammar(lang.GrammarName()) != nil {
		return lang.GrammarName()
	}
	return ""
}

// Parse queues a background parse. Requests are dropped while the queue is
// full; the next edit queues a fresh one.
func (e *Engine) Parse(path, text string) {
	lang := e.Language(path)
	if lang == "" {
		return
	}
	select {
	case e.reqCh <- parseRequest{path: path, language: lang, text: text}:
	default:
	}
}

func (e *Engine) loop() {
	for {
		select {
		case <-e.stopCh:
			return
		case req := <-e.reqCh:
			if e.parse(req.path, req.language, req.text) {
				e.sendEvent("parsed", req.path)
			}
		}
	}
}

func (e *Engine) sendEvent(kind, path string) {
	select {
	case e.events <- Event{Kind: kind, Path: path}:
	default:
	}
}

// ParseSync parses text for path right away. It reports false when no
// grammar matches the path.
func (e *Engine) ParseSync(path, text string) bool {
	lang := e.Language(path)
	if lang == "" {
		return false
	}
	return e.parse(path, lang, text)
}

func (e *Engine) parse(path, lang, text string) bool {
	tsLang := grammar(lang)
	if tsLang == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	parser := e.parsers[lang]
	if parser == nil {
		parser = sitter.NewParser()
		parser.SetLanguage(tsLang)
		e.parsers[lang] = parser
	}
	src := []byte(text)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		log.Warn("parse failed", "path", path, "err", err)
		return false
	}
	e.trees[path] = tree
	e.sources[path] = src
	return true
}

// Forget drops the parse tree of path.
func (e *Engine) Forget(path string) {
	e.mu.Lock()
	delete(e.trees, path)
	delete(e.sources, path)
	e.mu.Unlock()
}

// Highlights returns spans for rows startRow through endRow (0-based),
// keyed by row.
func (e *Engine) Highlights(path string, startRow, endRow int) map[int][]Span {
	if startRow < 0 || endRow < startRow {
		return nil
	}
	lang := e.Language(path)
	e.mu.RLock()
	defer e.mu.RUnlock()
	query := e.queries[lang]
	tree := e.trees[path]
	if query == nil || tree == nil {
		return nil
	}
	return queryHighlights(query, tree, e.sources[path], startRow, endRow)
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startRow, endRow int) map[int][]Span {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startRow), Column: 0},
		sitter.Point{Row: uint32(endRow + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := max(int(start.Row), startRow); row <= min(int(end.Row), endRow); row++ {
				span := Span{StartCol: 0, EndCol: math.MaxInt32, Kind: kind}
				if row == int(start.Row) {
					span.StartCol = int(start.Column)
				}
				if row == int(end.Row) {
					span.EndCol = int(end.Column)
				}
				out[row] = append(out[row], span)
			}
		}
	}
	return out
}

// NodeLines returns the 1-based lines covered by nodes of the given kinds.
// A node ending at column 0 of a row does not cover that row.
func (e *Engine) NodeLines(path string, kinds ...string) map[int]bool {
	e.mu.RLock()
	tree := e.trees[path]
	e.mu.RUnlock()
	if tree == nil || len(kinds) == 0 {
		return nil
	}
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	lines := make(map[int]bool)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if want[n.Type()] {
			start, end := n.StartPoint(), n.EndPoint()
			last := int(end.Row)
			if end.Column == 0 && end.Row > start.Row {
				last--
			}
			for row := int(start.Row); row <= last; row++ {
				lines[row+1] = true
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil {
				walk(c)
			}
		}
	}
	walk(tree.RootNode())
	return lines
}

// NodePredicate matches lines covered by a node of one of kinds in the last
// parse of path.
func (e *Engine) NodePredicate(path string, kinds ...string) selection.Predicate {
	lines := e.NodeLines(path, kinds...)
	return func(line int) bool {
		return lines[line]
	}
}
