/*
Package backend implements the Backend trait spec.md §4.10 describes:
create(state), update(diff), execute_query(text), shutdown(). Memory is
the in-process implementation, wrapping a clusterstate.Guard and the
pkg/cypher parser/validator/evaluator directly — no actor, no wire
protocol, just a mutex around a ClusterState (§5's "the in-memory
evaluator is simply one such implementation").

pkg/backend/remote and pkg/backend/wire implement the same trait against
an out-of-process graph backend: requests are serialized through a
single-writer actor goroutine owning the connection (§4.10, §6.3), over a
small length-prefixed JSON protocol (pkg/backend/wire) standing in for
the teacher's protoc-generated gRPC stubs, which this retrieved tree has
no .proto sources to regenerate (see DESIGN.md's dropped-dependency
entry for google.golang.org/grpc).
*/
package backend
