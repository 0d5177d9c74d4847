package remote

import (
	"context"
	"fmt"
	"net"

	"github.com/cuemby/ariadne/pkg/backend"
	"github.com/cuemby/ariadne/pkg/backend/wire"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/diff"
	"github.com/cuemby/ariadne/pkg/log"
)

// Serve reads length-prefixed wire.Requests off conn, dispatches each to
// b, and writes back a wire.Response, until conn is closed or a
// Shutdown request arrives. One goroutine per connection; b supplies
// whatever locking its own methods need (pkg/backend.Memory already
// does, via its clusterstate.Guard).
func Serve(conn net.Conn, b backend.Backend) {
	logger := log.WithBackend("remote-server")
	defer conn.Close()

	for {
		var req wire.Request
		if err := wire.ReadMessage(conn, &req); err != nil {
			logger.Debug().Err(err).Msg("connection closed")
			return
		}

		resp := dispatch(context.Background(), b, req)
		if err := wire.WriteMessage(conn, resp); err != nil {
			logger.Error().Err(err).Msg("failed to write response")
			return
		}
		if req.Kind == wire.RequestShutdown {
			return
		}
	}
}

func dispatch(ctx context.Context, b backend.Backend, req wire.Request) wire.Response {
	switch req.Kind {
	case wire.RequestCreate:
		state := clusterstate.New(clusterstate.Cluster{})
		for _, obj := range req.Nodes {
			state.AddNode(*obj)
		}
		for _, e := range req.Edges {
			state.AddEdge(e)
		}
		if err := b.Create(state); err != nil {
			return errResponse(wire.CommitError, err)
		}
		return wire.Response{}
	case wire.RequestUpdate:
		d := diff.ClusterStateDiff{}
		if req.Diff != nil {
			d = *req.Diff
		}
		if err := b.Update(d); err != nil {
			return errResponse(wire.CommitError, err)
		}
		return wire.Response{}
	case wire.RequestQuery:
		records, err := b.ExecuteQuery(ctx, req.Query, req.Params)
		if err != nil {
			return errResponse(wire.QueryError, err)
		}
		return wire.Response{Records: records}
	case wire.RequestShutdown:
		if err := b.Shutdown(); err != nil {
			return errResponse(wire.CommitError, err)
		}
		return wire.Response{}
	default:
		return errResponse(wire.QueryError, fmt.Errorf("unknown request kind %q", req.Kind))
	}
}

func errResponse(kind wire.ErrorKind, err error) wire.Response {
	return wire.Response{Err: &wire.Error{Kind: kind, Message: err.Error()}}
}
