package ariaerr

import (
	"errors"
	"fmt"

	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

// Kind is one of ariadne's seven error categories (spec.md §7).
type Kind string

const (
	// Parse covers lexer/grammar failures: the query text does not
	// tokenize or parse into an ast.Query.
	Parse Kind = "parse_error"
	// Semantic covers structurally valid queries that reference an
	// unbound variable, redeclare one, or otherwise fail the
	// read-only or engine-executable mode check.
	Semantic Kind = "semantic_error"
	// Schema covers queries whose pattern names a (source_kind,
	// edge_kind, target_kind) triple the ontology never produces.
	Schema Kind = "schema_error"
	// Engine covers evaluator failures at execution time: type
	// mismatches, missing functions, out-of-range arguments.
	Engine Kind = "engine_error"
	// Backend covers failures talking to an external graph backend
	// (connection, protocol framing, remote-side errors).
	Backend Kind = "backend_error"
	// State covers backend lifecycle misuse: a backend used before
	// Create or after Shutdown.
	State Kind = "state_error"
	// Observer covers failures streaming or replaying cluster
	// snapshots: permission errors, malformed snapshot files, timeouts.
	Observer Kind = "observer_error"
)

// retriable records which kinds a correction loop (spec.md §7) may retry
// after the caller edits the query text. Backend, State and Observer
// errors are not query-shaped and are surfaced as-is.
var retriable = map[Kind]bool{
	Parse:    true,
	Semantic: true,
	Schema:   true,
	Engine:   true,
}

// Error is ariadne's error type: a Kind, a human message, an optional
// wrapped Cause, and — for query-sourced errors — the offending Span.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Span    *ast.Span
}

func (e *Error) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, e.Span.String())
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Retriable reports whether a correction loop may retry this error after
// the query text changes.
func (e *Error) Retriable() bool { return retriable[e.Kind] }

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}

func newf(kind Kind, span *ast.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// ParseErr builds a Parse-kind error anchored at span.
func ParseErr(span ast.Span, format string, args ...any) *Error {
	return newf(Parse, &span, format, args...)
}

// SemanticErr builds a Semantic-kind error anchored at span.
func SemanticErr(span ast.Span, format string, args ...any) *Error {
	return newf(Semantic, &span, format, args...)
}

// SchemaErr builds a Schema-kind error anchored at span.
func SchemaErr(span ast.Span, format string, args ...any) *Error {
	return newf(Schema, &span, format, args...)
}

// EngineErr builds an Engine-kind error anchored at span.
func EngineErr(span ast.Span, format string, args ...any) *Error {
	return newf(Engine, &span, format, args...)
}

// BackendErr builds a Backend-kind error, optionally wrapping cause. It
// carries no query span since it originates outside query evaluation.
func BackendErr(cause error, format string, args ...any) *Error {
	e := newf(Backend, nil, format, args...)
	e.Cause = cause
	return e
}

// StateErr builds a State-kind error describing backend lifecycle
// misuse (use before Create or after Shutdown).
func StateErr(format string, args ...any) *Error {
	return newf(State, nil, format, args...)
}

// ObserverErr builds an Observer-kind error, optionally wrapping cause.
func ObserverErr(cause error, format string, args ...any) *Error {
	e := newf(Observer, nil, format, args...)
	e.Cause = cause
	return e
}
