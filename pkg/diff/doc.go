// Package diff computes additive/removed/modified deltas, at two levels
// (spec.md §4.6):
//
//   - Object-level (DiffSlices): given two sequences of objects of one
//     kind, grouped by UID, report what is new, gone, or changed
//     (differing resource_version). Equal resource versions, or both
//     absent, are treated as unchanged (spec.md §3.2 invariant 6).
//   - State-level (FromStates): the same grouping applied across an
//     entire ClusterState's nodes, plus a structural set-diff of edges
//     (edges have no "modified" case — they are either present or not).
//
// Grounded on original_source/ariadne-core/src/diff.rs's diff_slices: a
// UID-keyed map built from the previous slice, probed by the current
// slice's UIDs. The original type-specialized one Diff<T> struct per
// watched kind (Namespace, Pod, Deployment, ...); ariadne's
// GenericObject/ResourceKind polymorphism collapses that into a single
// generic function reused across every kind, consistent with how the
// rest of this module represents "any object" (FromStates calls
// DiffSlices once over all of a state's nodes, and pkg/resolver's Loop
// calls FromStates each cycle).
package diff
