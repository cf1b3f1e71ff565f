package driver

import (
	"errors"
	"fmt"

	"dsaviz/interpreter-go/pkg/interpreter"
)

// RunError reports a program that stopped with an error after it began
// executing. Snapshots counts what was recorded before the failure.
type RunError struct {
	Message   string
	Line      int
	Column    int
	Snapshots int
	Err       error
}

func (e *RunError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("run failed at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "run failed: " + e.Message
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func newRunError(err error, snapshots int) *RunError {
	runErr := &RunError{Message: err.Error(), Snapshots: snapshots, Err: err}
	var rtErr *interpreter.RuntimeError
	if errors.As(err, &rtErr) {
		runErr.Message = rtErr.Message
		runErr.Line = rtErr.Span.Start.Line
		runErr.Column = rtErr.Span.Start.Column
	}
	return runErr
}
