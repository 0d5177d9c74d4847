/*
Package ontology defines ariadne's fixed domain vocabulary: the closed
enumeration of resource kinds and edge kinds that make up the cluster
property graph, and the static schema table of which (source kind, edge
kind, target kind) triples are permitted.

The table is built once, at package init, and never mutated afterwards;
every other package treats it as read-only. The resolver (pkg/resolver) is
expected to only ever emit edges the table allows; the Cypher validator
(pkg/cypher/validate) enforces that on user queries.

# Logical kinds

A subset of ResourceKind is never observed directly from the cluster; it is
synthesized by the resolver from another object's payload: Endpoint,
EndpointAddress, IngressServiceBackend, Host, Logs, Provisioner, Container,
and the singleton Cluster node. IsLogical reports this.
*/
package ontology
