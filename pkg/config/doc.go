/*
Package config loads ariadne's runtime configuration: the engine knobs
named in spec.md §6.4 (cluster selector, optional namespace scope,
optional snapshot replay directory) plus the ambient logging, metrics
and query-listener settings cmd/ariadne wires into pkg/log,
pkg/metrics and pkg/backend/remote. The cancellation signal source is
not a config field; cmd/ariadne takes it from process signals.

Defaults come from New(); Load overlays an optional YAML file on top of
those defaults, following the teacher's cobra-flags-as-source-of-truth
spirit but generalized to a single loadable document the way
r3e-network-service_layer/pkg/config does it (the teacher itself has no
config file, only flags — cmd/ariadne layers cobra flags over this
package's YAML+defaults the same way).

A missing config file is not an error: New()'s defaults stand on their
own, matching spec.md §6.4's "no other environment dependencies are
part of the core."
*/
package config
