/*
Package remote implements the Backend trait (pkg/backend) against an
out-of-process graph backend reachable over pkg/backend/wire. Dial
starts a single actor goroutine that owns the connection exclusively;
every Create/Update/ExecuteQuery/Shutdown call is enqueued onto it and
processed in order, so the connection itself never needs its own lock
(spec.md §4.10, §5).

On a request failure the actor closes the bad connection and reconnects
before returning the error to the caller — it does not retry the failed
request itself, matching spec.md §4.10's "the worker reconnects on
bad-connection status before returning the error."

Grounded on original_source/ariadne-core/src/graph/actor.rs's
channel-plus-response-channel shape (Rust mpsc::Sender<Command> paired
with a oneshot per call), translated to Go's idiomatic "channel of
request structs, each carrying its own buffered response channel"
pattern.

Serve is the matching server half, used in this module only for tests
and for documenting the protocol end to end — ariadne itself is a
Backend consumer, not a shipped external graph server (PURPOSE & SCOPE
Non-goals).
*/
package remote
