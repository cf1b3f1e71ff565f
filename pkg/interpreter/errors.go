package interpreter

import (
	"context"
	"errors"
	"fmt"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/runtime"
)

// ErrStepLimitExceeded is returned when a program runs past Options.MaxSteps.
var ErrStepLimitExceeded = errors.New("interpreter: step limit exceeded")

// RuntimeError reports a failure that stopped evaluation: an uncaught
// exception, an exhausted limit, or cancellation.
type RuntimeError struct {
	Message string
	Span    ast.Span
	// Thrown holds the uncaught value when the failure came from `throw`.
	Thrown runtime.Value
	Err    error
}

func (e *RuntimeError) Error() string {
	if e.Span.Start.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Span.Start.Line, e.Span.Start.Column)
	}
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}

// throwSignal carries an exception value; try/catch intercepts it.
type throwSignal struct {
	value runtime.Value
	span  ast.Span
}

func (t throwSignal) Error() string {
	return "Uncaught " + runtime.ToString(t.value)
}

func spanOf(node ast.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	return node.Span()
}

// throwError raises a catchable exception whose value is the message string.
func (i *Interpreter) throwError(node ast.Node, format string, args ...any) error {
	return throwSignal{value: runtime.String(fmt.Sprintf(format, args...)), span: spanOf(node)}
}

func isFatal(err error) bool {
	return errors.Is(err, ErrStepLimitExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// adoptError turns a plain Go error from a native or the environment into a
// catchable exception, leaving control signals and fatal errors intact.
func (i *Interpreter) adoptError(err error, node ast.Node) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case throwSignal, breakSignal, continueSignal, returnSignal:
		return err
	}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) || isFatal(err) {
		return err
	}
	return throwSignal{value: runtime.String(err.Error()), span: spanOf(node)}
}

func (i *Interpreter) toRuntimeError(err error, node ast.Node) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr
	}
	switch sig := err.(type) {
	case throwSignal:
		span := sig.span
		if span.IsZero() {
			span = spanOf(node)
		}
		return &RuntimeError{Message: sig.Error(), Span: span, Thrown: sig.value}
	case returnSignal:
		return &RuntimeError{Message: "SyntaxError: Illegal return statement", Span: spanOf(node)}
	case breakSignal:
		return &RuntimeError{Message: "SyntaxError: Illegal break statement", Span: spanOf(node)}
	case continueSignal:
		return &RuntimeError{Message: "SyntaxError: Illegal continue statement", Span: spanOf(node)}
	}
	return &RuntimeError{Message: err.Error(), Span: spanOf(node), Err: err}
}
