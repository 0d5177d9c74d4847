/*
Package wire implements the length-prefixed JSON protocol spec.md §6.3
describes for an out-of-process graph backend: the four Backend verbs
(create, update, execute_query, shutdown) map to request/response
messages, a query carries a `$name`-placeholder template alongside a
parameter map, and every error carries a stable kind
(ConnectionError, QueryError, CommitError) plus a message.

This stands in for the teacher's protoc-generated gRPC stubs — this
retrieved tree has no .proto sources to regenerate and no toolchain
invocation is available to produce them (see DESIGN.md) — with the same
request/response/typed-error shape over a framing stdlib alone can
build: a 4-byte big-endian length prefix followed by that many bytes of
JSON, read and written with encoding/binary and encoding/json.
*/
package wire
