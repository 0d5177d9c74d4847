package eval

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/parser"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *clusterstate.ClusterState {
	return clusterstate.New(clusterstate.Cluster{
		ID: types.ObjectIdentifier{UID: "cluster-1", Name: "test"},
	})
}

func pod(uid, name, namespace string) types.GenericObject {
	return types.GenericObject{
		ID:   types.ObjectIdentifier{UID: uid, Name: name, Namespace: namespace},
		Kind: ontology.KindPod,
		Attributes: types.ResourceAttributes{
			"metadata": map[string]any{"uid": uid, "name": name, "namespace": namespace},
		},
	}
}

func deployment(uid, name, namespace string) types.GenericObject {
	return types.GenericObject{
		ID:         types.ObjectIdentifier{UID: uid, Name: name, Namespace: namespace},
		Kind:       ontology.KindDeployment,
		Attributes: types.ResourceAttributes{},
	}
}

func replicaSet(uid, name, namespace string) types.GenericObject {
	return types.GenericObject{
		ID:         types.ObjectIdentifier{UID: uid, Name: name, Namespace: namespace},
		Kind:       ontology.KindReplicaSet,
		Attributes: types.ResourceAttributes{},
	}
}

func runQuery(t *testing.T, query string, state *clusterstate.ClusterState) []Record {
	t.Helper()
	q, err := parser.Parse(query)
	require.NoError(t, err, "parse %q", query)
	records, err := Evaluate(q, state, nil)
	require.NoError(t, err, "evaluate %q", query)
	return records
}

// S1 — count by kind.
func TestCountByKind(t *testing.T) {
	state := newTestState()
	state.AddNode(pod("p1", "p1", "ns1"))
	state.AddNode(pod("p2", "p2", "ns2"))

	records := runQuery(t, `MATCH (p:Pod) RETURN count(p) AS total`, state)
	require.Len(t, records, 1)
	total, ok := records[0].Get("total")
	require.True(t, ok)
	assert.Equal(t, int64(2), total)
}

// S1 variant — a pure-aggregate projection over zero matching rows still
// yields one row with the aggregate's empty-group default, not an empty
// result set.
func TestCountOverEmptyMatchYieldsZero(t *testing.T) {
	state := newTestState()

	records := runQuery(t, `MATCH (p:Pod) RETURN count(p) AS total`, state)
	require.Len(t, records, 1)
	total, ok := records[0].Get("total")
	require.True(t, ok)
	assert.Equal(t, int64(0), total)
}

// Same empty-group rule for sum/avg/min/max/collect: null for the
// scalar aggregates, an empty list for collect.
func TestAggregatesOverEmptyMatchYieldEmptyGroupDefaults(t *testing.T) {
	state := newTestState()

	records := runQuery(t, `MATCH (p:Pod) RETURN sum(p.replicas) AS s, avg(p.replicas) AS a, min(p.replicas) AS mn, max(p.replicas) AS mx, collect(p) AS items`, state)
	require.Len(t, records, 1)

	s, ok := records[0].Get("s")
	require.True(t, ok)
	assert.Nil(t, s)

	avg, ok := records[0].Get("a")
	require.True(t, ok)
	assert.Nil(t, avg)

	mn, ok := records[0].Get("mn")
	require.True(t, ok)
	assert.Nil(t, mn)

	mx, ok := records[0].Get("mx")
	require.True(t, ok)
	assert.Nil(t, mx)

	items, ok := records[0].Get("items")
	require.True(t, ok)
	assert.Equal(t, []any{}, items)
}

// S2 — relationship traversal.
func TestRelationshipTraversal(t *testing.T) {
	state := newTestState()
	state.AddNode(deployment("d1", "d1", "ns1"))
	state.AddNode(replicaSet("r1", "r1", "ns1"))
	state.AddNode(pod("p1", "p1", "ns1"))
	state.AddEdge(types.GraphEdge{SourceUID: "d1", SourceKind: ontology.KindDeployment, TargetUID: "r1", TargetKind: ontology.KindReplicaSet, EdgeKind: ontology.EdgeManages})
	state.AddEdge(types.GraphEdge{SourceUID: "r1", SourceKind: ontology.KindReplicaSet, TargetUID: "p1", TargetKind: ontology.KindPod, EdgeKind: ontology.EdgeManages})

	records := runQuery(t, `MATCH (d:Deployment)-[:Manages]->(:ReplicaSet)-[:Manages]->(p:Pod) RETURN p.metadata_name AS name`, state)
	require.Len(t, records, 1)
	name, _ := records[0].Get("name")
	assert.Equal(t, "p1", name)
}

// S3 — negated existence.
func TestNegatedExistence(t *testing.T) {
	state := newTestState()
	state.AddNode(deployment("d1", "d1", "ns1"))
	state.AddNode(deployment("d2", "d2", "ns1"))
	state.AddNode(replicaSet("r1", "r1", "ns1"))
	state.AddEdge(types.GraphEdge{SourceUID: "d1", SourceKind: ontology.KindDeployment, TargetUID: "r1", TargetKind: ontology.KindReplicaSet, EdgeKind: ontology.EdgeManages})

	records := runQuery(t, `MATCH (d:Deployment) WHERE NOT exists { (d)-[:Manages]->(:ReplicaSet) } RETURN count(d) AS total`, state)
	require.Len(t, records, 1)
	total, _ := records[0].Get("total")
	assert.Equal(t, int64(1), total)
}

// S4 — list comprehension with quantifier.
func TestListComprehensionQuantifier(t *testing.T) {
	state := newTestState()

	p1 := pod("p1", "p1", "ns1")
	p1.Attributes["status"] = map[string]any{
		"containerStatuses": []any{
			map[string]any{
				"name": "main",
				"lastState": map[string]any{
					"terminated": map[string]any{"reason": "OOMKilled", "exitCode": int64(137)},
				},
			},
		},
	}
	state.AddNode(p1)

	p2 := pod("p2", "p2", "ns1")
	p2.Attributes["status"] = map[string]any{
		"containerStatuses": []any{
			map[string]any{
				"name": "main",
				"lastState": map[string]any{
					"terminated": map[string]any{"reason": "Completed", "exitCode": int64(0)},
				},
			},
		},
	}
	state.AddNode(p2)

	query := `
MATCH (p:Pod)
WHERE ANY(cs IN p.status.containerStatuses
          WHERE cs.lastState.terminated.reason = 'OOMKilled')
RETURN p.metadata_name AS pod,
       [cs IN p.status.containerStatuses
        WHERE cs.lastState.terminated.reason = 'OOMKilled'
        | {container: cs.name, exitCode: cs.lastState.terminated.exitCode}] AS oom
`
	records := runQuery(t, query, state)
	require.Len(t, records, 1)
	podName, _ := records[0].Get("pod")
	assert.Equal(t, "p1", podName)

	oom, ok := records[0].Get("oom")
	require.True(t, ok)
	list, ok := oom.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	entry, ok := list[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "main", entry["container"])
	assert.Equal(t, int64(137), entry["exitCode"])
}

// S5 — aggregation over UNWIND.
func TestAggregationOverUnwind(t *testing.T) {
	state := newTestState()
	records := runQuery(t, `UNWIND [1,2,3] AS x WITH x RETURN sum(x) AS total, collect(x) AS items`, state)
	require.Len(t, records, 1)

	total, _ := records[0].Get("total")
	assert.Equal(t, float64(6), total)

	items, _ := records[0].Get("items")
	list, ok := items.([]any)
	require.True(t, ok)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, list)
}

// Property: evaluation is deterministic given a fixed state (spec §8.7).
func TestEvaluationIsDeterministic(t *testing.T) {
	state := newTestState()
	state.AddNode(deployment("d1", "d1", "ns1"))
	state.AddNode(replicaSet("r1", "r1", "ns1"))
	state.AddNode(pod("p1", "p1", "ns1"))
	state.AddNode(pod("p2", "p2", "ns1"))
	state.AddEdge(types.GraphEdge{SourceUID: "d1", SourceKind: ontology.KindDeployment, TargetUID: "r1", TargetKind: ontology.KindReplicaSet, EdgeKind: ontology.EdgeManages})
	state.AddEdge(types.GraphEdge{SourceUID: "r1", SourceKind: ontology.KindReplicaSet, TargetUID: "p1", TargetKind: ontology.KindPod, EdgeKind: ontology.EdgeManages})

	const query = `MATCH (p:Pod) RETURN p.metadata_name AS name ORDER BY name`
	first := runQuery(t, query, state)
	second := runQuery(t, query, state)

	require.Equal(t, len(first), len(second))
	for i := range first {
		a, _ := first[i].Get("name")
		b, _ := second[i].Get("name")
		assert.Equal(t, a, b)
	}
}

// Property: label indexes agree with full scans (spec §8.8).
func TestLabelIndexAgreesWithFullScan(t *testing.T) {
	state := newTestState()
	state.AddNode(pod("p1", "p1", "ns1"))
	state.AddNode(pod("p2", "p2", "ns2"))
	state.AddNode(deployment("d1", "d1", "ns1"))

	byKind := state.NodesByKind(ontology.KindPod)
	var fromScan []*types.GenericObject
	for _, obj := range state.IterNodes() {
		if obj.Kind == ontology.KindPod {
			fromScan = append(fromScan, obj)
		}
	}

	require.Len(t, fromScan, len(byKind))
	seen := make(map[string]bool)
	for _, obj := range byKind {
		seen[obj.ID.UID] = true
	}
	for _, obj := range fromScan {
		assert.True(t, seen[obj.ID.UID], "full scan found %s not present in nodes_by_kind", obj.ID.UID)
	}
}
