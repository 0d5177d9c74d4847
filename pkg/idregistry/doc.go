/*
Package idregistry implements ariadne's identifier registry: a bidirectional
map from opaque object UIDs to dense integer node handles, stable for the
lifetime of one registry instance.

A Registry is not safe for concurrent use on its own; callers serialize
access through the owning ClusterState's lock (pkg/clusterstate), the same
single-writer discipline the teacher applies to its Manager-owned state
(cuemby-warren/pkg/reconciler: `mu sync.RWMutex`).
*/
package idregistry
