// Package berr defines the error kinds shared by the Content Pipeline, the
// Import Finder, and the Bundler Driver: StateStuckError, IOError, and
// ParseError. Resolution failures have their own NotFoundError in
// internal/resolve, since only that package's callers need to
// distinguish "swallow this" from "propagate this". All four kinds wrap
// with github.com/pkg/errors so a fatal error retains a stack trace by the
// time it reaches the CLI's --debug logging.
package berr

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// StateStuckError reports that a ContentState transition changed neither
// the state nor the extension, the pipeline's infinite-loop guard.
type StateStuckError struct {
	Module string
	State  string
}

func (e *StateStuckError) Error() string {
	return fmt.Sprintf("pipeline: %s made no progress in state %s", e.Module, e.State)
}

// StateStuck wraps a new StateStuckError with a stack trace.
func StateStuck(module, state string) error {
	return errors.WithStack(&StateStuckError{Module: module, State: state})
}

// IOError reports a failed read, write, or directory creation.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an IOError with a stack trace. Returns nil if err is nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&IOError{Path: path, Op: op, Err: err})
}

// ParseError reports a processor failure to interpret a file's contents.
type ParseError struct {
	Module string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s: %v", e.Module, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse wraps err as a ParseError naming module, with a stack trace.
func Parse(module string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&ParseError{Module: module, Err: err})
}

// IsStateStuck, IsIO, and IsParse report whether err is, or wraps, the
// corresponding kind.
func IsStateStuck(err error) bool {
	var target *StateStuckError
	return stderrors.As(err, &target)
}

func IsIO(err error) bool {
	var target *IOError
	return stderrors.As(err, &target)
}

func IsParse(err error) bool {
	var target *ParseError
	return stderrors.As(err, &target)
}
