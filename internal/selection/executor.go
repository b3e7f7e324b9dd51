package selection

import (
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/kobzarvs/multisel/internal/logger"
)

var log = logger.Component("selection")

// DefaultMarker names the marker used to measure drift when none is
// configured.
const DefaultMarker = "z"

var executing atomic.Bool

// Executing reports whether a run is in progress. Collaborators triggered
// from inside a command, such as redraw handlers, use it to skip work.
func Executing() bool {
	return executing.Load()
}

// ExecResult is what a command reports after running on one interval.
type ExecResult struct {
	Err          error
	FocusChanged bool
}

// ApplyFunc runs a command on one effective interval of a run.
type ApplyFunc func(Interval) ExecResult

type Options struct {
	// AbortOnError surfaces command errors to the caller. Without it they
	// are only logged. Either way the remaining intervals are still
	// processed unless StopOnError is set.
	AbortOnError bool
	// StopOnError ends the run after the first failing interval. It
	// implies AbortOnError.
	StopOnError bool
	// Marker names the marker reused to measure drift.
	Marker string
}

// Report summarizes a run.
type Report struct {
	Applied int
	Skipped int
	// Offset is the net line count change from all applied commands.
	Offset int
}

// Executor applies a command to every interval of a set in ascending order,
// shifting later intervals by the number of lines earlier commands added or
// removed.
type Executor struct {
	target Target
	focus  FocusKeeper
	opts   Options
}

func NewExecutor(target Target, focus FocusKeeper, opts Options) *Executor {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.StopOnError {
		opts.AbortOnError = true
	}
	return &Executor{target: target, focus: focus, opts: opts}
}

// Run applies apply to each interval of s. The returned error combines every
// surfaced *ApplyError and, when focus could not be restored, ErrFocusLost.
func (x *Executor) Run(s *Set, apply ApplyFunc) (Report, error) {
	var rep Report
	if !executing.CompareAndSwap(false, true) {
		return rep, ErrExecuting
	}
	defer executing.Store(false)

	if s.Empty() {
		return rep, ErrNoSelection
	}

	var errs error
	offset := 0
	for iv := range s.All() {
		last := x.target.LastLine()
		eff := iv.Shift(offset)
		if eff.Start < 1 || eff.Start > last {
			log.Warn("skipping stale interval",
				"interval", iv.String(), "offset", offset, "lastLine", last)
			rep.Skipped++
			continue
		}
		if eff.End > last {
			eff.End = last
		}

		// The marker sits on the first line after the range so it moves
		// with whatever the command inserts or deletes inside it. A command
		// that consumes that line (a join) erases it; the line count delta
		// covers that case.
		marked := eff.End != last
		if marked {
			x.target.PlaceMarker(x.opts.Marker, eff.End+1)
		}

		res := apply(eff)
		rep.Applied++
		if res.Err != nil {
			if x.opts.AbortOnError {
				errs = multierr.Append(errs, &ApplyError{Interval: eff, Err: res.Err})
			} else {
				log.Debug("command failed", "interval", eff.String(), "err", res.Err)
			}
		}

		if res.FocusChanged && (x.focus == nil || !x.focus.RestoreFocus()) {
			log.Error("focus lost, aborting run",
				"interval", eff.String(), "applied", rep.Applied)
			rep.Offset = offset
			return rep, multierr.Append(errs, ErrFocusLost)
		}

		pos, ok := x.target.ResolveMarker(x.opts.Marker)
		if marked && ok {
			offset += pos - (eff.End + 1)
		} else {
			offset += x.target.LastLine() - last
		}

		if res.Err != nil && x.opts.StopOnError {
			break
		}
	}
	rep.Offset = offset
	log.Debug("run finished",
		"applied", rep.Applied, "skipped", rep.Skipped, "offset", rep.Offset)
	return rep, errs
}
