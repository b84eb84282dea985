// Package errz implements the error taxonomy of spec.md §7: compile-time
// errors (source line/column, colored, process-fatal) and runtime errors
// (same fatal treatment). Structure follows the teacher's errz package
// (a single structured error type carrying a source location); coloring
// uses github.com/fatih/color, a direct teacher dependency also used by
// vovakirdan-surge's CLI.
package errz

import (
	"fmt"

	"github.com/fatih/color"
)

// SourceLocation identifies a line/column in source text.
type SourceLocation struct {
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// CompileError is a located, fatal error raised while lowering the AST to
// bytecode (spec.md §7: "reported with source line and column ... then the
// process exits with a non-zero status").
type CompileError struct {
	Loc SourceLocation
	Msg string
}

func NewCompileError(loc SourceLocation, format string, args ...interface{}) *CompileError {
	return &CompileError{Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at %s: %s", e.Loc, e.Msg)
}

// RuntimeError is a fatal error raised during VM execution (spec.md §7:
// operand-stack underflow, type mismatch without a magic slot, division
// or modulus by zero, argument-count mismatch, missing attribute,
// undefined variable, broken jump target, non-list call bundle).
type RuntimeError struct {
	Msg string
	Loc *SourceLocation // nil if no source mapping is available
}

func NewRuntimeError(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) WithLocation(loc SourceLocation) *RuntimeError {
	e.Loc = &loc
	return e
}

func (e *RuntimeError) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("runtime error at %s: %s", *e.Loc, e.Msg)
	}
	return fmt.Sprintf("runtime error: %s", e.Msg)
}

// Format renders err the way the REPL and CLI print fatal errors: in red
// when useColor is true, per spec.md §7 ("printed in color").
func Format(err error, useColor bool) string {
	if !useColor {
		return err.Error()
	}
	red := color.New(color.FgRed, color.Bold)
	return red.Sprint(err.Error())
}
