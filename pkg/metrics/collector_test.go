package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
)

func buildCollectorState() *clusterstate.ClusterState {
	state := clusterstate.New(clusterstate.Cluster{ID: types.ObjectIdentifier{UID: "cluster-1"}})
	ns := state.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "ns1", Name: "default"}, Kind: ontology.KindNamespace})
	pod := state.AddNode(types.GenericObject{ID: types.ObjectIdentifier{UID: "p1", Name: "web", Namespace: "default"}, Kind: ontology.KindPod})
	state.AddEdge(types.GraphEdge{
		SourceUID: "p1", SourceKind: ontology.KindPod,
		TargetUID: "ns1", TargetKind: ontology.KindNamespace,
		EdgeKind: ontology.EdgeBelongsTo,
	})
	_ = ns
	_ = pod
	return state
}

func TestCollectorUpdatesGauges(t *testing.T) {
	guard := clusterstate.NewGuard(buildCollectorState())
	c := NewCollector(guard)

	c.collect()

	assert.Equal(t, float64(1), testutil.ToFloat64(NodesTotal.WithLabelValues(string(ontology.KindNamespace))))
	assert.Equal(t, float64(1), testutil.ToFloat64(NodesTotal.WithLabelValues(string(ontology.KindPod))))
	assert.Equal(t, float64(1), testutil.ToFloat64(EdgesTotal.WithLabelValues(string(ontology.EdgeBelongsTo))))
}

func TestCollectorStartStop(t *testing.T) {
	guard := clusterstate.NewGuard(buildCollectorState())
	c := NewCollector(guard)

	c.Start()
	time.Sleep(10 * time.Millisecond)
	c.Stop()

	assert.Equal(t, float64(1), testutil.ToFloat64(NodesTotal.WithLabelValues(string(ontology.KindPod))))
}
