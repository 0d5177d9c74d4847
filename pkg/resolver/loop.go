package resolver

import (
	"context"
	"time"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/diff"
	"github.com/cuemby/ariadne/pkg/log"
	"github.com/cuemby/ariadne/pkg/metrics"
	"github.com/cuemby/ariadne/pkg/snapshot"
)

// Backend is the subset of pkg/backend's Backend interface the diff loop
// needs: a way to push a computed delta once a new snapshot has been
// resolved and diffed against the previous state. Declared locally so
// pkg/resolver does not import pkg/backend; backend.Memory and
// remote.Backend satisfy it through their ApplyDiff methods.
type Backend interface {
	ApplyDiff(d diff.ClusterStateDiff)
}

// Loop periodically re-observes, resolves, diffs, and applies, updating
// a shared clusterstate.Guard in place (spec.md §4.5 step 5, §5).
type Loop struct {
	Observer snapshot.Observer
	Guard    *clusterstate.Guard
	Backend  Backend
	Interval time.Duration

	cancel context.CancelFunc
}

// defaultInterval is used when Interval is left at its zero value.
const defaultInterval = 10 * time.Second

// Start spawns the long-running diff loop in its own goroutine and
// returns immediately; Stop cancels it. Grounded on the teacher's
// context.WithCancel-plus-ticker shape
// (cuemby-warren/pkg/worker/health_monitor.go's healthCheckLoop,
// cuemby-warren/pkg/manager's dnsCtx/dnsCancel fields).
func (l *Loop) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	go l.run(loopCtx)
}

// Stop cancels the loop started by Start. Safe to call multiple times.
func (l *Loop) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
}

func (l *Loop) run(ctx context.Context) {
	interval := l.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.tick(ctx)
	for {
		select {
		case <-ticker.C:
			l.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	logger := log.WithComponent("resolver")

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ResolveDuration)
	metrics.ResolveCyclesTotal.Inc()

	snap, err := l.Observer.Observe(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("snapshot observation failed")
		metrics.UpdateComponent("observer", false, err.Error())
		return
	}
	metrics.UpdateComponent("observer", true, "")

	next := Resolve(snap)

	var previous *clusterstate.ClusterState
	l.Guard.Read(func(s *clusterstate.ClusterState) { previous = s })

	delta := diff.FromStates(next, previous)
	metrics.DiffNodesAdded.Observe(float64(len(delta.AddedNodes)))
	metrics.DiffNodesRemoved.Observe(float64(len(delta.RemovedNodes)))
	metrics.DiffNodesModified.Observe(float64(len(delta.ModifiedNodes)))
	metrics.DiffEdgesChanged.Observe(float64(len(delta.AddedEdges) + len(delta.RemovedEdges)))

	if delta.IsEmpty() {
		logger.Debug().Msg("resolved snapshot produced no change")
		l.Guard.Swap(next)
		metrics.UpdateComponent("resolver", true, "")
		return
	}

	logger.Info().
		Int("added_nodes", len(delta.AddedNodes)).
		Int("removed_nodes", len(delta.RemovedNodes)).
		Int("modified_nodes", len(delta.ModifiedNodes)).
		Int("added_edges", len(delta.AddedEdges)).
		Int("removed_edges", len(delta.RemovedEdges)).
		Msg("applying resolved diff")

	l.Guard.Swap(next)
	if l.Backend != nil {
		l.Backend.ApplyDiff(delta)
	}
	metrics.UpdateComponent("resolver", true, "")
}
