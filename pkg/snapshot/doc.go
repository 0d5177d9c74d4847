/*
Package snapshot defines ObservedSnapshot, the point-in-time collection of
every watched object ariadne has read from a cluster (or replayed from
disk), and the Observer interface that produces one (spec.md §4.4).

A real cluster Observer (reflector-cache semantics: wait for each kind's
initial list before the snapshot is considered ready, strip noisy fields
such as the last-applied-configuration annotation and managedFields,
treat a permission error or per-kind timeout as "empty for that kind"
rather than a hard failure) is an external collaborator outside this
module's scope (spec.md PURPOSE & SCOPE, Non-goals): ariadne consumes
snapshots, it does not ship a Kubernetes client. DirectoryObserver
implements the one concrete Observer this module does ship: offline
replay from a directory of JSON files (spec.md §6.1), used by tests, the
CLI's --snapshot-dir flag, and fixture-driven development.

pkg/snapshot/cache durably persists the last snapshot observed per kind
(bbolt-backed, grounded on the teacher's pkg/storage BoltStore), so a
restarted process can rebuild its ClusterState without waiting on a full
re-list.
*/
package snapshot
