package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned by operations that need an existing
	// selection set when the buffer has none.
	ErrNoSelection = errors.New("no selection")

	// ErrFocusLost aborts a run when the target buffer is no longer shown
	// anywhere after a command. Edits already applied are kept.
	ErrFocusLost = errors.New("selection buffer no longer visible")

	// ErrExecuting is returned when a run is started while another one is
	// still in progress.
	ErrExecuting = errors.New("selection command already running")
)

// ApplyError records a command failure on one interval of a run.
type ApplyError struct {
	Interval Interval
	Err      error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("lines %d-%d: %v", e.Interval.Start, e.Interval.End, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
