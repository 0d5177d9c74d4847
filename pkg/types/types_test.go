package types

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/stretchr/testify/assert"
)

func TestResourceAttributesGetSetRoundtrip(t *testing.T) {
	a := ResourceAttributes{}
	a.Set("node-1", "spec", "nodeName")

	got, ok := a.GetString("spec", "nodeName")
	assert.True(t, ok)
	assert.Equal(t, "node-1", got)

	_, ok = a.GetString("spec", "missing")
	assert.False(t, ok)

	_, ok = a.GetString("status", "phase")
	assert.False(t, ok)
}

func TestGenericObjectLabelsAndOwnerReferences(t *testing.T) {
	obj := GenericObject{
		ID:   ObjectIdentifier{UID: "u1", Name: "p1", Namespace: "ns1"},
		Kind: ontology.KindPod,
		Attributes: ResourceAttributes{
			"metadata": map[string]any{
				"labels": map[string]any{"app": "web"},
				"ownerReferences": []any{
					map[string]any{"uid": "rs-1", "kind": "ReplicaSet", "name": "rs1"},
					map[string]any{"kind": "ReplicaSet"}, // missing uid, dropped
				},
			},
		},
	}

	assert.Equal(t, map[string]string{"app": "web"}, obj.Labels())
	refs := obj.OwnerReferences()
	assert.Len(t, refs, 1)
	assert.Equal(t, OwnerReference{UID: "rs-1", Kind: ontology.KindReplicaSet, Name: "rs1"}, refs[0])
}

func TestGraphEdgeString(t *testing.T) {
	e := GraphEdge{SourceUID: "a", SourceKind: ontology.KindPod, TargetUID: "b", TargetKind: ontology.KindNode, EdgeKind: ontology.EdgeRunsOn}
	assert.Contains(t, e.String(), "RunsOn")
}

func TestAsFloat64(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{42.5, 42.5, true},
		{7, 7, true},
		{"3.5", 3.5, true},
		{"nope", 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := AsFloat64(c.in)
		assert.Equal(t, c.ok, ok)
		if ok {
			assert.Equal(t, c.want, got)
		}
	}
}
