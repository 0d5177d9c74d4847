package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/eval"
	"github.com/cuemby/ariadne/pkg/cypher/parser"
	"github.com/cuemby/ariadne/pkg/cypher/validate"
	"github.com/cuemby/ariadne/pkg/diff"
	"github.com/cuemby/ariadne/pkg/log"
	"github.com/cuemby/ariadne/pkg/metrics"
)

// memoryBackendLabel is the "backend" label value Memory reports itself
// under in QueriesTotal/QueryDuration, distinguishing it from any remote
// backend label in the same process (pkg/backend/remote).
const memoryBackendLabel = "memory"

// Backend is spec.md §4.10's trait: install a state, apply incremental
// diffs, answer queries, release resources. Every method is safe for
// concurrent use; callers hold no lock of their own around a call.
type Backend interface {
	Create(state *clusterstate.ClusterState) error
	Update(d diff.ClusterStateDiff) error
	ExecuteQuery(ctx context.Context, text string, params map[string]any) ([]eval.Record, error)
	Shutdown() error
}

// Memory is the in-process Backend: a clusterstate.Guard plus the
// pkg/cypher parse/validate/evaluate pipeline directly in between, with
// no actor or wire hop (§4.10: "the in-memory evaluator is simply one
// such implementation").
type Memory struct {
	mu      sync.Mutex
	guard   *clusterstate.Guard
	created bool
	closed  bool
}

// NewMemory returns a Memory backend with no state installed yet;
// Create must run before Update or ExecuteQuery succeed.
func NewMemory() *Memory {
	return &Memory{}
}

// Create installs state, replacing whatever was installed before — a
// second call replaces rather than erroring, per §4.10's idempotence
// requirement.
func (m *Memory) Create(state *clusterstate.ClusterState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ariaerr.StateErr("backend used after shutdown")
	}
	m.guard = clusterstate.NewGuard(state)
	m.created = true
	metrics.UpdateComponent("backend", true, "")
	return nil
}

// Update applies d to the installed state under one write-lock hold, a
// no-op if d is empty (§4.10).
func (m *Memory) Update(d diff.ClusterStateDiff) error {
	guard, err := m.readyGuard()
	if err != nil {
		return err
	}
	if d.IsEmpty() {
		return nil
	}
	guard.Write(func(s *clusterstate.ClusterState) {
		applyDiff(s, d)
	})
	return nil
}

// ApplyDiff adapts Update to resolver.Backend's no-error signature: the
// diff loop has no caller to propagate a failure to (spec.md §4.5 step 5
// runs unattended), so a failed apply is logged rather than returned.
func (m *Memory) ApplyDiff(d diff.ClusterStateDiff) {
	if err := m.Update(d); err != nil {
		log.WithBackend("memory").Error().Err(err).Msg("apply diff failed")
	}
}

// ExecuteQuery parses, validates in Engine mode, and evaluates text
// against one consistent read of the installed state — every read
// inside one query sees one state snapshot (§5).
func (m *Memory) ExecuteQuery(ctx context.Context, text string, params map[string]any) ([]eval.Record, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.QueryDuration, memoryBackendLabel)

	records, err := m.executeQuery(ctx, text, params)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(memoryBackendLabel, "error").Inc()
		var aerr *ariaerr.Error
		kind := ariaerr.Engine
		if errors.As(err, &aerr) {
			kind = aerr.Kind
		}
		metrics.QueryErrorsTotal.WithLabelValues(string(kind)).Inc()
		return nil, err
	}
	metrics.QueriesTotal.WithLabelValues(memoryBackendLabel, "success").Inc()
	return records, nil
}

func (m *Memory) executeQuery(ctx context.Context, text string, params map[string]any) ([]eval.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	guard, err := m.readyGuard()
	if err != nil {
		return nil, err
	}

	query, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(query, validate.Engine); err != nil {
		return nil, err
	}

	var (
		records []eval.Record
		evalErr error
	)
	guard.Read(func(s *clusterstate.ClusterState) {
		records, evalErr = eval.Evaluate(query, s, params)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return records, nil
}

// Shutdown releases the installed state; further calls fail with a
// StateError (§4.10).
func (m *Memory) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.guard = nil
	metrics.UpdateComponent("backend", false, "backend shut down")
	return nil
}

func (m *Memory) readyGuard() (*clusterstate.Guard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ariaerr.StateErr("backend used after shutdown")
	}
	if !m.created {
		return nil, ariaerr.StateErr("backend used before create")
	}
	return m.guard, nil
}

// applyDiff folds one ClusterStateDiff into s: removals before
// additions/modifications so a node re-added under the same UID in the
// same diff (shouldn't happen, but cheap to order defensively) lands in
// the right final state, edges last since AddEdge requires both
// endpoints to already exist.
func applyDiff(s *clusterstate.ClusterState, d diff.ClusterStateDiff) {
	for _, e := range d.RemovedEdges {
		s.RemoveEdge(e)
	}
	for _, obj := range d.RemovedNodes {
		s.RemoveNode(obj.ID.UID)
	}
	for _, obj := range d.AddedNodes {
		s.AddNode(*obj)
	}
	for _, obj := range d.ModifiedNodes {
		s.AddNode(*obj)
	}
	for _, e := range d.AddedEdges {
		s.AddEdge(e)
	}
}
