/*
Package log provides structured logging for ariadne using zerolog.

The log package wraps zerolog to provide JSON-structured (or console,
for interactive use) logging with component-specific child loggers,
configurable log levels, and helper functions for common logging
patterns. Adapted from the teacher's pkg/log 1:1 in shape — global
Logger, Init(Config), With*-style child loggers — with the context
helpers renamed from node/service/task IDs to the fields ariadne's
components actually carry: component, query, backend.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	obsLog := log.WithComponent("observer")
	obsLog.Info().Str("kind", "Pod").Msg("reflector cache ready")

	evalLog := log.WithQuery(queryText)
	evalLog.Error().Err(err).Msg("evaluation failed")

# Integration Points

  - pkg/snapshot: logs missing per-kind replay files and a replay summary.
  - pkg/resolver: logs observation failures and per-cycle diff sizes.
  - pkg/clusterstate: logs edges dropped for a missing endpoint.
  - pkg/backend, pkg/backend/remote: log diff-apply failures and connection errors.
*/
package log
