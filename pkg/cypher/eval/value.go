package eval

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cuemby/ariadne/pkg/types"
)

// nodeToValue flattens obj into the row-value shape: its stored
// attributes plus metadata_uid/metadata_name/metadata_namespace lifted
// to the top level (spec §4.9, §6.2).
func nodeToValue(obj *types.GenericObject) map[string]any {
	out := make(map[string]any, len(obj.Attributes)+3)
	for k, v := range obj.Attributes {
		out[k] = v
	}
	out["metadata_uid"] = obj.ID.UID
	out["metadata_name"] = obj.ID.Name
	out["metadata_namespace"] = obj.ID.Namespace
	return out
}

// edgeToValue is the row-value shape for a matched relationship (§6.2).
func edgeToValue(edge types.GraphEdge) map[string]any {
	return map[string]any{
		"type":        string(edge.EdgeKind),
		"source":      edge.SourceUID,
		"target":      edge.TargetUID,
		"source_type": string(edge.SourceKind),
		"target_type": string(edge.TargetKind),
	}
}

// nodeUIDFromValue recovers the identity a previously-bound node value
// carries, preferring the flattened field but falling back to a nested
// metadata.uid in case the value was constructed some other way.
func nodeUIDFromValue(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	if uid, ok := m["metadata_uid"].(string); ok {
		return uid, true
	}
	if meta, ok := m["metadata"].(map[string]any); ok {
		if uid, ok := meta["uid"].(string); ok {
			return uid, true
		}
	}
	return "", false
}

// relationshipValueMatches reports whether a previously-bound
// relationship value is consistent with edge traversed as (leftUID ->
// rightUID) in this orientation.
func relationshipValueMatches(v any, edge types.GraphEdge, leftUID, rightUID string) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if t, ok := m["type"].(string); ok && !strings.EqualFold(t, string(edge.EdgeKind)) {
		return false
	}
	if s, ok := m["source"].(string); ok && s != leftUID {
		return false
	}
	if t, ok := m["target"].(string); ok && t != rightUID {
		return false
	}
	return true
}

func isNull(v any) bool { return v == nil }

// truthy reports whether v is the bool true; every other value, null
// included, counts as false. AND/OR/XOR/NOT work on these two-valued
// results: null is not carried through as unknown (NOT null is true),
// and AND/OR evaluate both operands without short-circuiting.
func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// valuesEqual is structural equality, used by row-merge conflict
// detection and the IN operator (unlike compareValues, it is defined for
// lists and maps too).
func valuesEqual(a, b any) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	af, aok := types.AsFloat64(a)
	bf, bok := types.AsFloat64(b)
	if aok && bok {
		if _, aIsStr := a.(string); !aIsStr {
			if _, bIsStr := b.(string); !bIsStr {
				return af == bf
			}
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders a against b, following the reference evaluator:
// null sorts below everything, bool/number/string compare by value, and
// any other pairing (lists, maps, cross-type) is not comparable.
func compareValues(a, b any) (int, bool) {
	if isNull(a) && isNull(b) {
		return 0, true
	}
	if isNull(a) {
		return -1, true
	}
	if isNull(b) {
		return 1, true
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0, true
			case !ab:
				return -1, true
			default:
				return 1, true
			}
		}
		return 0, false
	}
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}
	return 0, false
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// asFloat64Lenient matches the reference evaluator's arithmetic: any
// non-numeric operand (including null) coerces to 0 rather than
// propagating null or erroring.
func asFloat64Lenient(v any) float64 {
	f, ok := types.AsFloat64(v)
	if !ok {
		return 0
	}
	return f
}

func toInt64(v any, fallback int64) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return fallback
		}
		return i
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return fallback
	}
}

func valueToString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
