// SPDX-License-Identifier: MIT
// Package xs: error taxonomy shared by every package of the engine.
//
// Four families, each a sentinel plus a typed error carrying the implicated
// location:
//   - ErrFormat / *FormatError               — malformed input file (path + line)
//   - ErrLogic / *LogicError                 — inconsistent or ambiguous physics
//   - ErrConvergence / *ConvergenceWarning   — best-effort result, never fatal
//   - ErrInternalConsistency / *InternalConsistencyError — corrupted derived data, always fatal
//
// Match families with errors.Is, inspect details with errors.As.

package xs

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks malformed or structurally invalid input.
	ErrFormat = errors.New("xs: format error")

	// ErrLogic marks a physically inconsistent or ambiguous specification.
	ErrLogic = errors.New("xs: logic error")

	// ErrConvergence marks an iterative procedure that stopped before its
	// tolerance was met. It is reported as a warning.
	ErrConvergence = errors.New("xs: convergence warning")

	// ErrInternalConsistency marks a NaN or out-of-range value found
	// downstream of validated data.
	ErrInternalConsistency = errors.New("xs: internal consistency error")
)

// FormatError reports a parse failure at a specific line of a file.
type FormatError struct {
	Path string // file path, or a stream label
	Line int    // 1-based line number; 0 when the whole file is implicated
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Is makes errors.Is(err, ErrFormat) true.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// LogicError reports an inconsistent or ambiguous specification.
type LogicError struct {
	Op    string // operation, e.g. "Finalize", "Combine"
	Field string // record field or block name
	Index int    // group, precursor or input index; -1 when not applicable
	Msg   string
}

func (e *LogicError) Error() string {
	loc := e.Field
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", e.Field, e.Index)
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}

	return fmt.Sprintf("%s: %s: %s", e.Op, loc, e.Msg)
}

// Is makes errors.Is(err, ErrLogic) true.
func (e *LogicError) Is(target error) bool { return target == ErrLogic }

// ConvergenceWarning describes an iteration that hit its cap, or an angular
// reconstruction that had to drop points.
type ConvergenceWarning struct {
	Op         string
	Iterations int
	Change     float64 // last relative change, or the number of dropped points
	Msg        string
}

func (e *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s: %s (iterations=%d, change=%g)", e.Op, e.Msg, e.Iterations, e.Change)
}

// Is makes errors.Is(err, ErrConvergence) true.
func (e *ConvergenceWarning) Is(target error) bool { return target == ErrConvergence }

// InternalConsistencyError reports corrupted derived data.
type InternalConsistencyError struct {
	Op  string
	Msg string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Is makes errors.Is(err, ErrInternalConsistency) true.
func (e *InternalConsistencyError) Is(target error) bool { return target == ErrInternalConsistency }

// logicErrorf builds a *LogicError with a formatted message.
func logicErrorf(op, field string, index int, format string, args ...any) error {
	return &LogicError{Op: op, Field: field, Index: index, Msg: fmt.Sprintf(format, args...)}
}
