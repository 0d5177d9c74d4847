/*
Package ariaerr implements ariadne's error taxonomy (spec.md §7): a small
set of typed, wrapped errors shared across the parser, validator,
evaluator and backends.

Each Error carries a stable Kind, a human message, an optional underlying
Cause (unwrappable via errors.Unwrap/errors.As), and — for query errors —
the offending source Span in "row:col-row:col" form. Parse, Semantic,
Schema and Engine errors are retriable by a correction loop; Backend and
State errors are surfaced as-is; Observer errors are logged and absorbed
by the snapshot layer rather than propagated here.

The shape (kind enum + message + wrap helpers) follows the same pattern
jordigilh-kubernaut's internal/errors and r3e-network-service_layer's
infrastructure/errors use for their own app-specific error types — a
small hand-rolled type, not a library, which is the idiomatic choice both
of those repos make themselves for this exact concern.
*/
package ariaerr
