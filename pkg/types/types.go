package types

import (
	"fmt"
	"strconv"

	"github.com/cuemby/ariadne/pkg/ontology"
)

// ObjectIdentifier is the primary key of every object ariadne tracks. UID
// is globally unique and opaque; ResourceVersion is an opaque per-object
// monotonic token used only for modification detection (invariant 6).
type ObjectIdentifier struct {
	UID             string
	Name            string
	Namespace       string // empty for cluster-scoped objects
	ResourceVersion string // empty ⇒ conservatively treated as unchanged
}

// ResourceAttributes carries the full orchestrator-specific payload for one
// object, keyed the way a raw cluster document would be: "metadata",
// "spec", "status", plus whatever else the object's kind defines. Logical
// objects synthesized by the resolver (pkg/resolver) populate the same
// shape so that property access never needs a kind-specific code path.
type ResourceAttributes map[string]any

// Get walks path through nested maps and returns the value at the end, or
// (nil, false) if any segment is missing or not a map.
func (a ResourceAttributes) Get(path ...string) (any, bool) {
	if a == nil || len(path) == 0 {
		return nil, false
	}
	var cur any = map[string]any(a)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString is Get with a string type assertion.
func (a ResourceAttributes) GetString(path ...string) (string, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetMap is Get with a map[string]any type assertion.
func (a ResourceAttributes) GetMap(path ...string) (map[string]any, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// GetSlice is Get with a []any type assertion.
func (a ResourceAttributes) GetSlice(path ...string) ([]any, bool) {
	v, ok := a.Get(path...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// Set writes value at the nested path, creating intermediate maps as
// needed. Used by the resolver when constructing objects.
func (a ResourceAttributes) Set(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	cur := map[string]any(a)
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
}

// OwnerReference mirrors the conventional "who owns this object" link
// found under metadata.ownerReferences, used by the resolver to derive
// Manages edges.
type OwnerReference struct {
	UID  string
	Kind ontology.ResourceKind
	Name string
}

// GenericObject is one node in the cluster graph: its identity, its kind
// tag, and its kind-specific payload. Consumers may assume Attributes
// agrees with Kind (invariant 4).
type GenericObject struct {
	ID         ObjectIdentifier
	Kind       ontology.ResourceKind
	Attributes ResourceAttributes
}

// Labels returns metadata.labels as a string map, or nil if absent.
func (o GenericObject) Labels() map[string]string {
	return stringMap(o.Attributes, "metadata", "labels")
}

// Annotations returns metadata.annotations as a string map, or nil if absent.
func (o GenericObject) Annotations() map[string]string {
	return stringMap(o.Attributes, "metadata", "annotations")
}

// OwnerReferences returns the object's owner references, if any.
func (o GenericObject) OwnerReferences() []OwnerReference {
	raw, ok := o.Attributes.GetSlice("metadata", "ownerReferences")
	if !ok {
		return nil
	}
	refs := make([]OwnerReference, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		uid, _ := m["uid"].(string)
		name, _ := m["name"].(string)
		kind, _ := m["kind"].(string)
		if uid == "" {
			continue
		}
		refs = append(refs, OwnerReference{UID: uid, Kind: ontology.ResourceKind(kind), Name: name})
	}
	return refs
}

func stringMap(a ResourceAttributes, path ...string) map[string]string {
	raw, ok := a.GetMap(path...)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// GraphEdge is a directed relationship between two nodes in the cluster
// graph. Equality is structural over all five fields.
type GraphEdge struct {
	SourceUID  string
	SourceKind ontology.ResourceKind
	TargetUID  string
	TargetKind ontology.ResourceKind
	EdgeKind   ontology.EdgeKind
}

func (e GraphEdge) String() string {
	return fmt.Sprintf("(%s:%s)-[:%s]->(%s:%s)", e.SourceUID, e.SourceKind, e.EdgeKind, e.TargetUID, e.TargetKind)
}

// AsFloat64 coerces common JSON-decoded numeric representations
// (float64, int, int64, numeric string) to float64, used by the Cypher
// evaluator's arithmetic (pkg/cypher/eval).
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
