/*
Package types defines ariadne's core data-model entities: ObjectIdentifier,
GenericObject, GraphEdge, and the ResourceAttributes payload each object
carries.

Unlike the teacher's pkg/types (one fixed Go struct per Warren resource —
Node, Service, Task, ...), ariadne's resource payloads are themselves
heterogeneous and orchestrator-defined, so ResourceAttributes is modeled
the way a generic cluster client represents arbitrary objects: a nested
map[string]any under conventional "metadata"/"spec"/"status" keys, rather
than one Go struct per kind. The ResourceKind tag on GenericObject is the
discriminant; Attributes is expected to agree with it by construction
(invariant 4) but nothing in the type system enforces that beyond the
resolver's own construction discipline.

# Core Types

	ObjectIdentifier  - UID + name + optional namespace + opaque resource version
	GenericObject     - {id, kind, attributes}
	ResourceAttributes - nested map[string]any payload, with Get/GetString/... accessors
	GraphEdge         - {source, target, edge kind}, structural equality over all five fields

# Usage

Building an object:

	obj := types.GenericObject{
		ID:   types.ObjectIdentifier{UID: "pod-uid-1", Name: "p1", Namespace: "ns1", ResourceVersion: "42"},
		Kind: ontology.KindPod,
		Attributes: types.ResourceAttributes{
			"metadata": map[string]any{"name": "p1", "namespace": "ns1", "uid": "pod-uid-1"},
			"spec":     map[string]any{"nodeName": "node-1"},
			"status":   map[string]any{"phase": "Running"},
		},
	}

Reading a nested field (used by pkg/cypher/eval for property access and by
pkg/resolver for edge derivation):

	phase, ok := obj.Attributes.GetString("status", "phase")

# Integration Points

  - pkg/clusterstate: indexes GenericObject by UID and kind, GraphEdge by
    source/target/kind.
  - pkg/resolver: constructs GenericObject/GraphEdge from an ObservedSnapshot.
  - pkg/diff: compares GenericObject by UID + ResourceVersion, GraphEdge
    structurally.
  - pkg/cypher/eval: walks ResourceAttributes for property and index access.
*/
package types
