package editor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

func isBufferCommand(name string) bool {
	switch name {
	case "e", "edit", "b", "buffer", "bn", "bnext", "bp", "bprev", "bd", "bd!", "ls", "w", "write":
		return true
	}
	return false
}

// bufferCommand runs a command that opens, switches, closes or writes
// buffers. These may change focus, so a selection run checks focus after
// each one.
func (e *Editor) bufferCommand(name, arg string) error {
	arg = strings.TrimSpace(arg)
	switch name {
	case "e", "edit":
		if arg == "" {
			return errors.New("usage: e {file}")
		}
		return e.OpenFile(arg)
	case "b", "buffer":
		return e.switchBuffer(arg)
	case "bn", "bnext":
		e.focus((e.current + 1) % len(e.buffers))
	case "bp", "bprev":
		e.focus((e.current + len(e.buffers) - 1) % len(e.buffers))
	case "bd", "bd!":
		return e.closeBuffer(name == "bd!")
	case "ls":
		e.setStatus(e.bufferList())
	case "w", "write":
		if err := e.save(arg); err != nil {
			return err
		}
		e.setStatus(fmt.Sprintf("%q written", e.buf().Name()))
	}
	return nil
}

func (e *Editor) save(path string) error {
	b := e.buf()
	if err := b.Save(path); err != nil {
		return err
	}
	log.Info("saved", "path", b.Name())
	e.rememberState(b)
	return nil
}

// switchBuffer focuses a buffer by its number in the list or by a file name.
func (e *Editor) switchBuffer(arg string) error {
	if arg == "" {
		return errors.New("usage: b {number|name}")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(e.buffers) {
			return fmt.Errorf("no buffer %d", n)
		}
		e.focus(n - 1)
		return nil
	}
	for i, b := range e.buffers {
		if b.Name() == "" {
			continue
		}
		if samePath(b.Name(), arg) || filepath.Base(b.Name()) == arg {
			e.focus(i)
			return nil
		}
	}
	return fmt.Errorf("no buffer matching %q", arg)
}

// closeBuffer drops the current buffer and its selections. Closing the last
// buffer leaves an empty unnamed one.
func (e *Editor) closeBuffer(force bool) error {
	b := e.buf()
	if b.Dirty() && !force {
		return errors.New("unsaved changes (use :bd!)")
	}
	e.rememberState(b)
	e.selections.Remove(b.ID())
	e.buffers = append(e.buffers[:e.current], e.buffers[e.current+1:]...)
	log.Info("closed buffer", "name", b.Name(), "id", int(b.ID()))
	if len(e.buffers) == 0 {
		e.addBuffer("", "")
	}
	e.focus(min(e.current, len(e.buffers)-1))
	return nil
}

func (e *Editor) bufferList() string {
	parts := make([]string, len(e.buffers))
	for i, b := range e.buffers {
		name := b.Name()
		if name == "" {
			name = "[No Name]"
		}
		mark := " "
		if i == e.current {
			mark = "%"
		}
		if b.Dirty() {
			name += " +"
		}
		parts[i] = fmt.Sprintf("%d%s %s", i+1, mark, name)
	}
	return strings.Join(parts, " | ")
}
