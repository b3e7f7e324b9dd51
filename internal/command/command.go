// Package command runs line commands over a range of a buffer. It is the
// edit step a selection run applies to every selected interval.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kobzarvs/multisel/internal/buffer"
	"github.com/kobzarvs/multisel/internal/selection"
)

type Mode int

const (
	// ModeEx runs a range command such as "d" or "s/a/b/g" once for the
	// whole interval.
	ModeEx Mode = iota
	// ModeNormal replays normal-mode keys on each line of the interval.
	ModeNormal
)

func (m Mode) String() string {
	switch m {
	case ModeEx:
		return "ex"
	case ModeNormal:
		return "normal"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyCommand    = errors.New("empty command")
	ErrPatternNotFound = errors.New("pattern not found")
)

// Register holds yanked lines shared between commands.
type Register struct {
	Lines []string
}

type Options struct {
	ShiftWidth int
	Register   *Register
}

func (o Options) shift() string {
	if o.ShiftWidth < 1 {
		return "\t"
	}
	return strings.Repeat(" ", o.ShiftWidth)
}

func (o Options) register() *Register {
	if o.Register == nil {
		return &Register{}
	}
	return o.Register
}

// Run applies text to lines r of b in the given mode.
func Run(b *buffer.Buffer, r selection.Interval, text string, mode Mode, opts Options) error {
	switch mode {
	case ModeEx:
		return Ex(b, r, text, opts)
	case ModeNormal:
		return Normal(b, r, text, opts)
	default:
		return fmt.Errorf("unknown command mode %d", mode)
	}
}
