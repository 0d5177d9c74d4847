/*
Package metrics exposes ariadne's Prometheus metrics: graph size
(NodesTotal/EdgesTotal), objects ingested per observer cycle, resolve
cycle duration and diff sizes, and per-backend query counts, durations,
and error kinds. All metrics register at package init and are served by
Handler() over /metrics.

Collector periodically reads a clusterstate.Guard to refresh the graph
size gauges; health.go exposes liveness/readiness/health HTTP handlers,
with the observer/resolver/backend component states kept current by
UpdateComponent calls at each component's real state transitions rather
than a one-shot registration.

Grounded on the teacher's pkg/metrics (prometheus.MustRegister at
init, a Timer helper, promhttp.Handler) re-themed from
node/service/task/raft gauges to ariadne's own domain.
*/
package metrics
