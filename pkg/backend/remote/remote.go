package remote

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/backend/wire"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/eval"
	"github.com/cuemby/ariadne/pkg/diff"
	"github.com/cuemby/ariadne/pkg/log"
	"github.com/cuemby/ariadne/pkg/metrics"
)

// Dialer opens a fresh connection to the external backend, used both
// for the initial connect and for the actor's post-failure reconnect.
type Dialer func() (net.Conn, error)

type call struct {
	req    wire.Request
	respCh chan result
}

type result struct {
	resp wire.Response
	err  error
}

// Backend talks to an out-of-process graph backend over pkg/backend/wire,
// serializing every request through one goroutine that owns the
// connection exclusively.
type Backend struct {
	label  string
	dial   Dialer
	calls  chan call
	done   chan struct{}
	closed sync.Once
}

// Dial opens the initial connection and starts the actor goroutine.
func Dial(label string, dial Dialer) (*Backend, error) {
	conn, err := dial()
	if err != nil {
		metrics.UpdateComponent("backend", false, err.Error())
		return nil, ariaerr.BackendErr(err, "%s: initial connect failed", label)
	}
	b := &Backend{
		label: label,
		dial:  dial,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
	metrics.UpdateComponent("backend", true, "")
	go b.run(conn)
	return b, nil
}

func (b *Backend) run(conn net.Conn) {
	logger := log.WithBackend(b.label)
	defer close(b.done)
	defer conn.Close()

	for c := range b.calls {
		resp, err := roundTrip(conn, c.req)
		if err != nil {
			logger.Error().Err(err).Str("kind", string(c.req.Kind)).Msg("request failed, reconnecting")
			conn.Close()
			metrics.BackendReconnectsTotal.WithLabelValues(b.label).Inc()
			if newConn, dialErr := b.dial(); dialErr == nil {
				conn = newConn
			} else {
				logger.Error().Err(dialErr).Msg("reconnect failed")
				metrics.UpdateComponent("backend", false, dialErr.Error())
			}
			c.respCh <- result{err: ariaerr.BackendErr(err, "%s: request failed", b.label)}
			continue
		}
		c.respCh <- result{resp: resp}
	}
}

func roundTrip(conn net.Conn, req wire.Request) (wire.Response, error) {
	if err := wire.WriteMessage(conn, req); err != nil {
		return wire.Response{}, err
	}
	var resp wire.Response
	if err := wire.ReadMessage(conn, &resp); err != nil {
		return wire.Response{}, err
	}
	return resp, nil
}

// send enqueues req and waits for its response, or for ctx to be
// cancelled first.
func (b *Backend) send(ctx context.Context, req wire.Request) (wire.Response, error) {
	select {
	case <-b.done:
		return wire.Response{}, ariaerr.BackendErr(nil, "%s: actor is shut down", b.label)
	default:
	}
	respCh := make(chan result, 1)
	select {
	case b.calls <- call{req: req, respCh: respCh}:
	case <-ctx.Done():
		return wire.Response{}, ctx.Err()
	case <-b.done:
		return wire.Response{}, ariaerr.BackendErr(nil, "%s: actor is shut down", b.label)
	}
	select {
	case r := <-respCh:
		if r.err != nil {
			return wire.Response{}, r.err
		}
		if r.resp.Err != nil {
			return wire.Response{}, ariaerr.BackendErr(r.resp.Err, "%s: %s", b.label, r.resp.Err.Message)
		}
		return r.resp, nil
	case <-ctx.Done():
		return wire.Response{}, ctx.Err()
	}
}

// Create installs state on the remote backend (spec.md §4.10). Only the
// node and edge slices cross the wire, matching
// original_source/ariadne-core/src/graph/actor.rs's
// create_from_snapshot(nodes, edges) — the cluster descriptor is not
// part of the create payload there either.
func (b *Backend) Create(state *clusterstate.ClusterState) error {
	_, err := b.send(context.Background(), wire.Request{
		Kind:  wire.RequestCreate,
		Nodes: state.IterNodes(),
		Edges: state.IterEdges(),
	})
	return err
}

// Update applies d on the remote backend.
func (b *Backend) Update(d diff.ClusterStateDiff) error {
	_, err := b.send(context.Background(), wire.Request{Kind: wire.RequestUpdate, Diff: &d})
	return err
}

// ApplyDiff adapts Update to resolver.Backend's no-error signature.
func (b *Backend) ApplyDiff(d diff.ClusterStateDiff) {
	if err := b.Update(d); err != nil {
		log.WithBackend(b.label).Error().Err(err).Msg("apply diff failed")
	}
}

// ExecuteQuery runs text with params on the remote backend.
func (b *Backend) ExecuteQuery(ctx context.Context, text string, params map[string]any) ([]eval.Record, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.QueryDuration, b.label)

	resp, err := b.send(ctx, wire.Request{Kind: wire.RequestQuery, Query: text, Params: params})
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(b.label, "error").Inc()
		var aerr *ariaerr.Error
		kind := ariaerr.Backend
		if errors.As(err, &aerr) {
			kind = aerr.Kind
		}
		metrics.QueryErrorsTotal.WithLabelValues(string(kind)).Inc()
		return nil, err
	}
	metrics.QueriesTotal.WithLabelValues(b.label, "success").Inc()
	return resp.Records, nil
}

// Shutdown stops the actor goroutine and releases the connection.
// Further calls fail once the actor has drained. Safe to call more
// than once.
func (b *Backend) Shutdown() error {
	var err error
	b.closed.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err = b.send(ctx, wire.Request{Kind: wire.RequestShutdown})
		metrics.UpdateComponent("backend", false, "backend shut down")
		close(b.calls)
		select {
		case <-b.done:
		case <-ctx.Done():
		}
	})
	return err
}
