/*
Command ariadne is the CLI entry point: cobra root command plus
persistent --config/--log-level/--log-json flags, grounded on
cmd/warren's rootCmd/cobra.OnInitialize(initLogging) scaffolding.

serve wires pkg/snapshot (replay mode), pkg/resolver.Loop,
pkg/backend.Memory, pkg/backend/remote's wire listener, and
pkg/metrics/health into one long-running process. query and snapshot
are one-shot commands for ad hoc inspection without a listener.
*/
package main
