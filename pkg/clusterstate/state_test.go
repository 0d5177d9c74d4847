package clusterstate

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pod(uid, name string) types.GenericObject {
	return types.GenericObject{
		ID:   types.ObjectIdentifier{UID: uid, Name: name, Namespace: "ns1"},
		Kind: ontology.KindPod,
	}
}

func node(uid, name string) types.GenericObject {
	return types.GenericObject{
		ID:   types.ObjectIdentifier{UID: uid, Name: name},
		Kind: ontology.KindNode,
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "pod-one"))

	obj, ok := s.NodeByUID("p1")
	require.True(t, ok)
	assert.Equal(t, "pod-one", obj.ID.Name)

	byKind := s.NodesByKind(ontology.KindPod)
	require.Len(t, byKind, 1)
	assert.Equal(t, "p1", byKind[0].ID.UID)
}

func TestAddNodeOverwritesOnSameUID(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "v1"))
	s.AddNode(pod("p1", "v2"))

	obj, _ := s.NodeByUID("p1")
	assert.Equal(t, "v2", obj.ID.Name)
	assert.Len(t, s.NodesByKind(ontology.KindPod), 1, "no duplicate kind-index entry")
}

func TestAddEdgeDropsDanglingReferences(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "p1"))

	ok := s.AddEdge(types.GraphEdge{SourceUID: "p1", SourceKind: ontology.KindPod, TargetUID: "missing", TargetKind: ontology.KindNode, EdgeKind: ontology.EdgeRunsOn})
	assert.False(t, ok)
	assert.Empty(t, s.IterEdges())
}

func TestAddEdgeAndIndexes(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "p1"))
	s.AddNode(node("n1", "n1"))

	e := types.GraphEdge{SourceUID: "p1", SourceKind: ontology.KindPod, TargetUID: "n1", TargetKind: ontology.KindNode, EdgeKind: ontology.EdgeRunsOn}
	ok := s.AddEdge(e)
	require.True(t, ok)

	// Idempotent re-add.
	ok = s.AddEdge(e)
	assert.True(t, ok)
	assert.Len(t, s.IterEdges(), 1)

	byKind := s.EdgesByKind(ontology.EdgeRunsOn)
	require.Len(t, byKind, 1)
	assert.Equal(t, e, byKind[0])

	h, _ := s.HandleOf("p1")
	assert.Equal(t, []types.GraphEdge{e}, s.EdgesFrom(h))
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "p1"))
	s.AddNode(node("n1", "n1"))
	e := types.GraphEdge{SourceUID: "p1", SourceKind: ontology.KindPod, TargetUID: "n1", TargetKind: ontology.KindNode, EdgeKind: ontology.EdgeRunsOn}
	s.AddEdge(e)

	s.RemoveNode("p1")

	_, ok := s.NodeByUID("p1")
	assert.False(t, ok)
	assert.Empty(t, s.IterEdges())
	assert.Empty(t, s.NodesByKind(ontology.KindPod))
}

func TestRemoveEdgeIsIdempotent(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "p1"))
	s.AddNode(node("n1", "n1"))
	e := types.GraphEdge{SourceUID: "p1", SourceKind: ontology.KindPod, TargetUID: "n1", TargetKind: ontology.KindNode, EdgeKind: ontology.EdgeRunsOn}
	s.AddEdge(e)

	s.RemoveEdge(e)
	s.RemoveEdge(e)
	assert.Empty(t, s.IterEdges())
}

func TestNodesByKindAgreesWithFullScan(t *testing.T) {
	s := New(Cluster{})
	s.AddNode(pod("p1", "p1"))
	s.AddNode(pod("p2", "p2"))
	s.AddNode(node("n1", "n1"))

	var scanned []string
	for _, obj := range s.IterNodes() {
		if obj.Kind == ontology.KindPod {
			scanned = append(scanned, obj.ID.UID)
		}
	}
	var indexed []string
	for _, obj := range s.NodesByKind(ontology.KindPod) {
		indexed = append(indexed, obj.ID.UID)
	}
	assert.ElementsMatch(t, scanned, indexed)
}

func TestGuardReadWriteSwap(t *testing.T) {
	g := NewGuard(New(Cluster{}))
	g.Write(func(s *ClusterState) { s.AddNode(pod("p1", "p1")) })

	var found bool
	g.Read(func(s *ClusterState) {
		_, found = s.NodeByUID("p1")
	})
	assert.True(t, found)

	g.Swap(New(Cluster{}))
	g.Read(func(s *ClusterState) {
		_, found = s.NodeByUID("p1")
	})
	assert.False(t, found)
}
