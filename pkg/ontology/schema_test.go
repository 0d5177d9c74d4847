package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsKnownEdge(t *testing.T) {
	assert.True(t, IsKnownEdge(KindDeployment, EdgeManages, KindReplicaSet))
	assert.True(t, IsKnownEdge(KindPod, EdgeRunsOn, KindNode))
	assert.False(t, IsKnownEdge(KindPod, EdgeBoundTo, KindNode))
	assert.False(t, IsKnownEdge(KindService, EdgeManages, KindPod))
}

func TestUniversalEdgesGenerated(t *testing.T) {
	assert.True(t, IsKnownEdge(KindPod, EdgePartOf, KindCluster))
	assert.True(t, IsKnownEdge(KindPod, EdgeBelongsTo, KindNamespace))
	assert.True(t, IsKnownEdge(KindEvent, EdgeConcerns, KindPod))
	assert.False(t, IsKnownEdge(KindEvent, EdgeConcerns, KindEvent))
	assert.False(t, IsKnownEdge(KindEvent, EdgeConcerns, KindContainer), "logical kinds are not observed targets of Concerns")
	assert.False(t, IsKnownEdge(KindCluster, EdgePartOf, KindCluster))
	assert.False(t, IsKnownEdge(KindNode, EdgeBelongsTo, KindNamespace), "Node is cluster-scoped")
}

func TestAllowedPairsListsEveryMatch(t *testing.T) {
	pairs := AllowedPairs(EdgeBoundTo)
	require.Len(t, pairs, 1)
	assert.Equal(t, Triple{KindPersistentVolumeClaim, EdgeBoundTo, KindPersistentVolume}, pairs[0])
}

func TestIsLogical(t *testing.T) {
	assert.True(t, IsLogical(KindContainer))
	assert.True(t, IsLogical(KindCluster))
	assert.False(t, IsLogical(KindPod))
}

func TestIsKnownKind(t *testing.T) {
	assert.True(t, IsKnownKind(KindPod))
	assert.False(t, IsKnownKind(ResourceKind("Bogus")))
}
