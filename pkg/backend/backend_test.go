package backend

import (
	"context"
	"testing"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/diff"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildState() *clusterstate.ClusterState {
	state := clusterstate.New(clusterstate.Cluster{ID: types.ObjectIdentifier{UID: "cluster-1", Name: "test"}})
	state.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "ns1", Name: "default"}, Kind: ontology.KindNamespace})
	state.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "p1", Name: "web", Namespace: "default"}, Kind: ontology.KindPod})
	state.AddEdge(types.GraphEdge{SourceUID: "p1", SourceKind: ontology.KindPod, TargetUID: "ns1", TargetKind: ontology.KindNamespace, EdgeKind: ontology.EdgeBelongsTo})
	return state
}

func TestMemoryRejectsOperationsBeforeCreate(t *testing.T) {
	m := NewMemory()
	_, err := m.ExecuteQuery(context.Background(), "MATCH (p:Pod) RETURN p", nil)
	require.Error(t, err)
	assert.True(t, ariaerr.Is(err, ariaerr.State))

	err = m.Update(diff.ClusterStateDiff{})
	require.Error(t, err)
	assert.True(t, ariaerr.Is(err, ariaerr.State))
}

func TestMemoryCreateThenQuery(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))

	records, err := m.ExecuteQuery(context.Background(), "MATCH (p:Pod) RETURN p.metadata_name AS name", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "web", records[0].Values["name"])
}

func TestMemoryCreateIsIdempotentAndReplaces(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))
	require.NoError(t, m.Create(clusterstate.New(clusterstate.Cluster{ID: types.ObjectIdentifier{UID: "cluster-2", Name: "other"}})))

	records, err := m.ExecuteQuery(context.Background(), "MATCH (p:Pod) RETURN p", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryUpdateAppliesDiff(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))

	newPod := &types.GenericObject{ID: types.ObjectIdentifier{UID: "p2", Name: "web-2", Namespace: "default"}, Kind: ontology.KindPod}
	require.NoError(t, m.Update(diff.ClusterStateDiff{AddedNodes: []*types.GenericObject{newPod}}))

	records, err := m.ExecuteQuery(context.Background(), "MATCH (p:Pod) RETURN count(p) AS total", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), records[0].Values["total"])
}

func TestMemoryUpdateEmptyDiffIsNoop(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))
	require.NoError(t, m.Update(diff.ClusterStateDiff{}))
}

func TestMemoryShutdownRejectsFurtherCalls(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))
	require.NoError(t, m.Shutdown())

	_, err := m.ExecuteQuery(context.Background(), "MATCH (p:Pod) RETURN p", nil)
	require.Error(t, err)
	assert.True(t, ariaerr.Is(err, ariaerr.State))

	err = m.Create(buildState())
	require.Error(t, err)
}

func TestMemoryExecuteQueryPropagatesParseError(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))

	_, err := m.ExecuteQuery(context.Background(), "MATCH (p:Pod RETURN p", nil)
	require.Error(t, err)
	assert.True(t, ariaerr.Is(err, ariaerr.Parse))
}

func TestMemoryApplyDiffLogsInsteadOfReturning(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Create(buildState()))
	require.NoError(t, m.Shutdown())
	m.ApplyDiff(diff.ClusterStateDiff{})
}
