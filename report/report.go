// Package report implements ParaCL's compile-time error collection: a
// typed, ordered list of diagnostics shared by the lexer, parser, and
// semantic analyzer.
package report

import (
	"fmt"

	"paracl/token"
)

// Kind is one of the six typed compile-time error kinds the pipeline can
// raise.
type Kind int

const (
	UnknownToken Kind = iota
	UnterminatedComment
	Syntax
	UnassignableExpression
	UndeclaredIdentifier
	OutOfLoopStatement
)

var kindNames = map[Kind]string{
	UnknownToken:           "unknown token",
	UnterminatedComment:    "unterminated comment",
	Syntax:                 "syntax error",
	UnassignableExpression: "unassignable expression",
	UndeclaredIdentifier:   "undeclared identifier",
	OutOfLoopStatement:     "statement outside loop",
}

func (k Kind) String() string { return kindNames[k] }

// Error is a single typed diagnostic with its source location.
type Error struct {
	Kind   Kind
	Loc    token.Location
	Detail string
}

// Error renders to the format mandated by ParaCL's external interfaces:
// <file>:<line>:<col>-<line>:<col>: error: <kind> '<detail>'
func (e Error) Error() string {
	return fmt.Sprintf("%s: error: %s '%s'", e.Loc, e.Kind, e.Detail)
}

// Reporter accumulates diagnostics in insertion order. It never panics and
// never stops a caller from continuing to scan/parse/analyze; it is up to
// the Driver to check HasErrors before advancing to the next stage.
type Reporter struct {
	errors []Error
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report appends a new diagnostic.
func (r *Reporter) Report(kind Kind, loc token.Location, detail string) {
	r.errors = append(r.errors, Error{Kind: kind, Loc: loc, Detail: detail})
}

// HasErrors reports whether any diagnostic has been collected.
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors returns the collected diagnostics in the order they were reported.
func (r *Reporter) Errors() []Error {
	return r.errors
}
