/*
Package clusterstate implements ariadne's in-memory property graph: the
canonical representation of the observed cluster, indexed for the access
patterns the Cypher evaluator (pkg/cypher/eval) needs — by UID, by kind,
and by edge kind.

# Architecture

	┌─────────────────────── ClusterState ───────────────────────┐
	│                                                              │
	│  idregistry.Registry     uid <-> dense handle                │
	│  objects[handle]         *types.GenericObject                │
	│  kindIndex[kind]         []handle, insertion order            │
	│  edges[]                 types.GraphEdge, by EdgeID            │
	│  edgesBySource/Target    []EdgeID                             │
	│  edgesByKind[edgeKind]   []EdgeID                             │
	│                                                              │
	└──────────────────────────────────────────────────────────────┘

A ClusterState on its own is not safe for concurrent use: it is mutated
only by the resolver (pkg/resolver), either by a bulk rebuild or an
in-place diff application, and is otherwise shared read-only. Guard wraps
one ClusterState in a sync.RWMutex, the single mutual-exclusion guard
spec.md §5 calls for — writers (resolver, diff applier) hold it
exclusively for one coherent update; readers (the query evaluator) acquire
and release it around one query evaluation, so every read inside one query
observes one consistent snapshot. This mirrors the teacher's
`Reconciler.mu sync.RWMutex` discipline (cuemby-warren/pkg/reconciler/reconciler.go),
generalized from "one component's own state" to "the shared cluster graph".
*/
package clusterstate
