// Package diag implements the compile-time diagnostic shared by the
// lexer, parser, and bytecode validator: a located, renderable error
// that accumulates into a vector instead of aborting the pass.
package diag

import "fmt"

// Error is a single lex, parse, or validation diagnostic.
type Error struct {
	File       string
	Line       int
	Column     int
	Lexeme     string
	SourceLine string
	Message    string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Vector accumulates diagnostics in emission order, matching the
// propagation policy of recoverable lex/parse errors (spec.md §7):
// they are collected, never abort the pass that produced them.
type Vector struct {
	errs []error
}

func (v *Vector) Add(e error) { v.errs = append(v.errs, e) }

func (v *Vector) Addf(file string, line, column int, lexeme, sourceLine, format string, args ...any) {
	v.Add(&Error{
		File:       file,
		Line:       line,
		Column:     column,
		Lexeme:     lexeme,
		SourceLine: sourceLine,
		Message:    fmt.Sprintf(format, args...),
	})
}

// Merge prepends other's diagnostics ahead of v's own, preserving the
// pipeline order a lex-then-parse pass produced them in.
func (v *Vector) Merge(other *Vector) {
	if other == nil || other.Empty() {
		return
	}
	v.errs = append(append([]error{}, other.errs...), v.errs...)
}

func (v *Vector) Errs() []error { return v.errs }
func (v *Vector) Len() int      { return len(v.errs) }
func (v *Vector) Empty() bool   { return len(v.errs) == 0 }

// Summary renders the textual failure summary described in spec.md §7:
// error count followed by each error's location and message.
func (v *Vector) Summary() string {
	if v.Empty() {
		return "no errors"
	}
	s := fmt.Sprintf("%d error(s):\n", len(v.errs))
	for _, e := range v.errs {
		s += "  " + e.Error() + "\n"
	}
	return s
}
