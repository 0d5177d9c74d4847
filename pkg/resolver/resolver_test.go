package resolver

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/snapshot"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *snapshot.ObservedSnapshot {
	snap := snapshot.NewEmpty(clusterstate.Cluster{
		ID: types.ObjectIdentifier{UID: "cluster-1", Name: "test"},
	})

	snap.Objects[ontology.KindNamespace] = []*types.GenericObject{
		{ID: types.ObjectIdentifier{UID: "ns1", Name: "default"}, Kind: ontology.KindNamespace},
	}
	snap.Objects[ontology.KindNode] = []*types.GenericObject{
		{ID: types.ObjectIdentifier{UID: "node1", Name: "node-a"}, Kind: ontology.KindNode},
	}
	snap.Objects[ontology.KindDeployment] = []*types.GenericObject{
		{ID: types.ObjectIdentifier{UID: "d1", Name: "web", Namespace: "default"}, Kind: ontology.KindDeployment},
	}
	snap.Objects[ontology.KindReplicaSet] = []*types.GenericObject{
		{
			ID:   types.ObjectIdentifier{UID: "rs1", Name: "web-abc", Namespace: "default"},
			Kind: ontology.KindReplicaSet,
			Attributes: types.ResourceAttributes{
				"metadata": map[string]any{
					"ownerReferences": []any{
						map[string]any{"uid": "d1", "kind": "Deployment", "name": "web"},
					},
				},
			},
		},
	}
	snap.Objects[ontology.KindPod] = []*types.GenericObject{
		{
			ID:   types.ObjectIdentifier{UID: "p1", Name: "web-abc-xyz", Namespace: "default"},
			Kind: ontology.KindPod,
			Attributes: types.ResourceAttributes{
				"metadata": map[string]any{
					"ownerReferences": []any{
						map[string]any{"uid": "rs1", "kind": "ReplicaSet", "name": "web-abc"},
					},
				},
				"spec": map[string]any{
					"nodeName":           "node-a",
					"serviceAccountName": "default",
					"containers": []any{
						map[string]any{"name": "nginx", "image": "nginx:latest"},
					},
				},
			},
		},
	}
	snap.Objects[ontology.KindServiceAccount] = []*types.GenericObject{
		{ID: types.ObjectIdentifier{UID: "sa1", Name: "default", Namespace: "default"}, Kind: ontology.KindServiceAccount},
	}
	return snap
}

func TestResolveInsertsObservedNodes(t *testing.T) {
	state := Resolve(testSnapshot())
	pod, ok := state.NodeByUID("p1")
	require.True(t, ok)
	assert.Equal(t, ontology.KindPod, pod.Kind)
}

func TestResolveDerivesContainerAndEdges(t *testing.T) {
	state := Resolve(testSnapshot())

	var containerUID string
	for _, obj := range state.NodesByKind(ontology.KindContainer) {
		if obj.ID.Namespace == "default" {
			containerUID = obj.ID.UID
		}
	}
	require.NotEmpty(t, containerUID)

	podHandle, ok := state.HandleOf("p1")
	require.True(t, ok)
	var foundManagesContainer bool
	for _, e := range state.EdgesFrom(podHandle) {
		if e.EdgeKind == ontology.EdgeManages && e.TargetUID == containerUID {
			foundManagesContainer = true
		}
	}
	assert.True(t, foundManagesContainer)
}

func TestResolveOwnerReferenceChain(t *testing.T) {
	state := Resolve(testSnapshot())

	deployHandle, ok := state.HandleOf("d1")
	require.True(t, ok)
	var managesRS bool
	for _, e := range state.EdgesFrom(deployHandle) {
		if e.EdgeKind == ontology.EdgeManages && e.TargetUID == "rs1" {
			managesRS = true
		}
	}
	assert.True(t, managesRS)

	rsHandle, ok := state.HandleOf("rs1")
	require.True(t, ok)
	var managesPod bool
	for _, e := range state.EdgesFrom(rsHandle) {
		if e.EdgeKind == ontology.EdgeManages && e.TargetUID == "p1" {
			managesPod = true
		}
	}
	assert.True(t, managesPod)
}

func TestResolvePodRunsOnNode(t *testing.T) {
	state := Resolve(testSnapshot())
	podHandle, ok := state.HandleOf("p1")
	require.True(t, ok)

	var runsOnNode bool
	for _, e := range state.EdgesFrom(podHandle) {
		if e.EdgeKind == ontology.EdgeRunsOn && e.TargetUID == "node1" {
			runsOnNode = true
		}
	}
	assert.True(t, runsOnNode)
}

func TestResolveBelongsToAndPartOf(t *testing.T) {
	state := Resolve(testSnapshot())
	podHandle, ok := state.HandleOf("p1")
	require.True(t, ok)

	var belongsToNS, partOfCluster bool
	for _, e := range state.EdgesFrom(podHandle) {
		if e.EdgeKind == ontology.EdgeBelongsTo && e.TargetUID == "ns1" {
			belongsToNS = true
		}
		if e.EdgeKind == ontology.EdgePartOf && e.TargetUID == "cluster-1" {
			partOfCluster = true
		}
	}
	assert.True(t, belongsToNS)
	assert.True(t, partOfCluster)
}

func TestResolvePodRunsServiceAccount(t *testing.T) {
	state := Resolve(testSnapshot())
	podHandle, ok := state.HandleOf("p1")
	require.True(t, ok)

	var runsSA bool
	for _, e := range state.EdgesFrom(podHandle) {
		if e.EdgeKind == ontology.EdgeRuns && e.TargetUID == "sa1" {
			runsSA = true
		}
	}
	assert.True(t, runsSA)
}

func TestResolveIsDeterministicAcrossCalls(t *testing.T) {
	snap := testSnapshot()
	first := Resolve(snap)
	second := Resolve(snap)

	var firstContainerUID, secondContainerUID string
	for _, obj := range first.NodesByKind(ontology.KindContainer) {
		firstContainerUID = obj.ID.UID
	}
	for _, obj := range second.NodesByKind(ontology.KindContainer) {
		secondContainerUID = obj.ID.UID
	}
	assert.Equal(t, firstContainerUID, secondContainerUID)
}
