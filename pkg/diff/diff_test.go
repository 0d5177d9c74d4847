package diff

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(uid, rv string) *types.GenericObject {
	return &types.GenericObject{
		ID:   types.ObjectIdentifier{UID: uid, Name: uid, ResourceVersion: rv},
		Kind: ontology.KindPod,
	}
}

func TestDiffSlicesAddedRemovedModified(t *testing.T) {
	previous := []*types.GenericObject{obj("a", "1"), obj("b", "1")}
	current := []*types.GenericObject{obj("a", "2"), obj("c", "1")}

	d := DiffSlices(current, previous)
	require.Len(t, d.Added, 1)
	assert.Equal(t, "c", d.Added[0].ID.UID)
	require.Len(t, d.Removed, 1)
	assert.Equal(t, "b", d.Removed[0].ID.UID)
	require.Len(t, d.Modified, 1)
	assert.Equal(t, "a", d.Modified[0].ID.UID)
}

func TestDiffSlicesUnchangedWhenVersionEqual(t *testing.T) {
	previous := []*types.GenericObject{obj("a", "1")}
	current := []*types.GenericObject{obj("a", "1")}

	d := DiffSlices(current, previous)
	assert.True(t, d.IsEmpty())
}

func TestDiffSlicesEmptyInputs(t *testing.T) {
	d := DiffSlices(nil, nil)
	assert.True(t, d.IsEmpty())
}

func buildState(t *testing.T) *clusterstate.ClusterState {
	t.Helper()
	s := clusterstate.New(clusterstate.Cluster{})
	s.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "d1", Name: "d1"}, Kind: ontology.KindDeployment})
	s.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "r1", Name: "r1"}, Kind: ontology.KindReplicaSet})
	s.AddEdge(types.GraphEdge{SourceUID: "d1", SourceKind: ontology.KindDeployment, TargetUID: "r1", TargetKind: ontology.KindReplicaSet, EdgeKind: ontology.EdgeManages})
	return s
}

// Property (spec §8.4): diff(S, S) is empty.
func TestFromStatesSelfDiffIsEmpty(t *testing.T) {
	s := buildState(t)
	d := FromStates(s, s)
	assert.True(t, d.IsEmpty())
}

func TestFromStatesDetectsAddedNodeAndEdge(t *testing.T) {
	previous := buildState(t)
	current := buildState(t)
	current.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "p1", Name: "p1"}, Kind: ontology.KindPod})
	current.AddEdge(types.GraphEdge{SourceUID: "r1", SourceKind: ontology.KindReplicaSet, TargetUID: "p1", TargetKind: ontology.KindPod, EdgeKind: ontology.EdgeManages})

	d := FromStates(current, previous)
	require.Len(t, d.AddedNodes, 1)
	assert.Equal(t, "p1", d.AddedNodes[0].ID.UID)
	require.Len(t, d.AddedEdges, 1)
	assert.Equal(t, "p1", d.AddedEdges[0].TargetUID)
	assert.Empty(t, d.RemovedNodes)
	assert.Empty(t, d.RemovedEdges)
}

func TestFromStatesDetectsRemovedNodeAndEdge(t *testing.T) {
	previous := buildState(t)
	previous.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "p1", Name: "p1"}, Kind: ontology.KindPod})
	previous.AddEdge(types.GraphEdge{SourceUID: "r1", SourceKind: ontology.KindReplicaSet, TargetUID: "p1", TargetKind: ontology.KindPod, EdgeKind: ontology.EdgeManages})
	current := buildState(t)

	d := FromStates(current, previous)
	require.Len(t, d.RemovedNodes, 1)
	assert.Equal(t, "p1", d.RemovedNodes[0].ID.UID)
	require.Len(t, d.RemovedEdges, 1)
	assert.Empty(t, d.AddedNodes)
	assert.Empty(t, d.AddedEdges)
}
