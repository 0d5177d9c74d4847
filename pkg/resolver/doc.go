/*
Package resolver turns an ObservedSnapshot into a ClusterState: one node
per observed object, logical children derived from their parents
(Container, Endpoint, EndpointAddress, IngressServiceBackend), and every
edge the schema table (pkg/ontology) permits, following the deterministic
rules spec.md §4.5 lays out (owner-reference Manages, BelongsTo/PartOf,
scheduling, storage, service routing, ingress, config references, and
event correlation).

StartDiffLoop runs the other half of §4.5: a long-running task that
periodically re-observes, computes a diff against the previous
resolution, and applies it to a backend, cancelled the way the teacher
cancels its background loops — a context.Context/CancelFunc pair stored
on the caller and checked in a select alongside a ticker (see
cuemby-warren/pkg/worker's health-check loop, cuemby-warren/pkg/manager's
dnsCtx/dnsCancel fields).
*/
package resolver
