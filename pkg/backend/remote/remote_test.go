package remote

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/cuemby/ariadne/pkg/backend"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestState() *clusterstate.ClusterState {
	state := clusterstate.New(clusterstate.Cluster{ID: types.ObjectIdentifier{UID: "cluster-1", Name: "test"}})
	state.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "p1", Name: "web", Namespace: "default"}, Kind: ontology.KindPod})
	return state
}

func dialOnce(t *testing.T, conn net.Conn) Dialer {
	used := false
	return func() (net.Conn, error) {
		if used {
			return nil, errors.New("only one dial supported in this test")
		}
		used = true
		return conn, nil
	}
}

func TestRemoteBackendRoundTripsQuery(t *testing.T) {
	serverConn, clientConn := net.Pipe()

	mem := backend.NewMemory()
	require.NoError(t, mem.Create(buildTestState()))
	go Serve(serverConn, mem)

	client, err := Dial("test", dialOnce(t, clientConn))
	require.NoError(t, err)

	records, err := client.ExecuteQuery(context.Background(), "MATCH (p:Pod) RETURN count(p) AS total", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.EqualValues(t, 1, records[0].Values["total"])
}

func TestRemoteBackendPropagatesQueryError(t *testing.T) {
	serverConn, clientConn := net.Pipe()

	mem := backend.NewMemory()
	require.NoError(t, mem.Create(buildTestState()))
	go Serve(serverConn, mem)

	client, err := Dial("test", dialOnce(t, clientConn))
	require.NoError(t, err)

	_, err = client.ExecuteQuery(context.Background(), "MATCH (p:Pod RETURN p", nil)
	require.Error(t, err)
}

func TestRemoteBackendShutdown(t *testing.T) {
	serverConn, clientConn := net.Pipe()

	mem := backend.NewMemory()
	require.NoError(t, mem.Create(buildTestState()))
	go Serve(serverConn, mem)

	client, err := Dial("test", dialOnce(t, clientConn))
	require.NoError(t, err)
	require.NoError(t, client.Shutdown())
}
