package eval

import (
	"fmt"

	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
	"github.com/cuemby/ariadne/pkg/ontology"
	"github.com/cuemby/ariadne/pkg/types"
)

// patternVariables returns every distinct variable name a MATCH pattern
// (one or more comma-separated path elements) would bind.
func patternVariables(paths []*ast.PathPattern) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, p := range paths {
		add(p.Variable)
		for _, n := range p.Nodes {
			add(n.Variable)
		}
		for _, r := range p.Rels {
			add(r.Variable)
		}
	}
	return out
}

// allBound reports whether every name in vars already has a binding in
// row — the condition under which re-matching a pattern is an existence
// check rather than an enumeration (spec §4.9).
func allBound(vars []string, row Row) bool {
	if len(vars) == 0 {
		return false
	}
	for _, v := range vars {
		if _, ok := row[v]; !ok {
			return false
		}
	}
	return true
}

func combineForMatch(base, binding Row) Row {
	combined := base.clone()
	for k, v := range binding {
		if _, ok := combined[k]; !ok {
			combined[k] = v
		}
	}
	return combined
}

// mergeRows folds binding into base, keeping a null placeholder only
// where binding also has none; returns ok=false if the same variable is
// bound to two disagreeing non-null values (the two occurrences of a
// shared variable across pattern elements do not refer to the same
// thing).
func mergeRows(base Row, binding Row) (Row, bool) {
	merged := base.clone()
	for k, v := range binding {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}
		if isNull(existing) {
			if !isNull(v) {
				merged[k] = v
			}
			continue
		}
		if isNull(v) {
			continue
		}
		if !valuesEqual(existing, v) {
			return nil, false
		}
	}
	return merged, true
}

// matchPatternList matches every comma-separated pattern element in a
// MATCH clause against row, threading bindings across elements that
// share a variable.
func matchPatternList(paths []*ast.PathPattern, row Row, state *clusterstate.ClusterState) ([]Row, error) {
	bindings := []Row{{}}
	for _, p := range paths {
		var next []Row
		for _, binding := range bindings {
			combined := combineForMatch(row, binding)
			matches, err := matchPath(p, combined, state)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				merged := binding.clone()
				for k, v := range m {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		bindings = next
		if len(bindings) == 0 {
			break
		}
	}
	return bindings, nil
}

// matchPath matches one path element (a bare node, or a node-rel-node...
// chain) against row.
func matchPath(p *ast.PathPattern, row Row, state *clusterstate.ClusterState) ([]Row, error) {
	if len(p.Rels) == 0 {
		return matchNodeOnly(p.Nodes[0], row, state)
	}

	nodes := p.Nodes
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Variable
	}
	internal := make(map[string]bool)
	if len(nodes) > 2 {
		used := make(map[string]bool)
		for k := range row {
			used[k] = true
		}
		for _, nm := range names {
			if nm != "" {
				used[nm] = true
			}
		}
		for i := 1; i < len(nodes)-1; i++ {
			if names[i] != "" {
				continue
			}
			idx := i
			for {
				cand := fmt.Sprintf("__ariadne_internal_path_node_%d", idx)
				if !used[cand] {
					used[cand] = true
					names[i] = cand
					internal[cand] = true
					break
				}
				idx++
			}
		}
	}

	bindings := []Row{{}}
	for i, rel := range p.Rels {
		left, right := nodes[i], nodes[i+1]
		leftName, rightName := names[i], names[i+1]
		var next []Row
		for _, binding := range bindings {
			combined := combineForMatch(row, binding)
			matches, err := matchRelationshipSegment(left, leftName, rel, right, rightName, combined, state)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				merged := binding.clone()
				for k, v := range m {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		bindings = next
		if len(bindings) == 0 {
			break
		}
	}

	if len(internal) > 0 {
		for _, b := range bindings {
			for k := range internal {
				delete(b, k)
			}
		}
	}
	return bindings, nil
}

func matchNodeOnly(node *ast.NodePattern, row Row, state *clusterstate.ClusterState) ([]Row, error) {
	if node.Variable != "" {
		if bound, ok := row[node.Variable]; ok {
			uid, ok2 := nodeUIDFromValue(bound)
			if !ok2 {
				return nil, nil
			}
			obj, ok3 := state.NodeByUID(uid)
			if !ok3 || !matchesNodeLabels(obj, node.Labels) {
				return nil, nil
			}
			return []Row{{}}, nil
		}
	}

	var candidates []*types.GenericObject
	if len(node.Labels) == 1 {
		candidates = state.NodesByKind(ontology.ResourceKind(node.Labels[0]))
	} else if len(node.Labels) == 0 {
		candidates = state.IterNodes()
	} else {
		return nil, nil // multi-label patterns are rejected at validation
	}

	var out []Row
	for _, obj := range candidates {
		binding := Row{}
		if node.Variable != "" {
			binding[node.Variable] = nodeToValue(obj)
		}
		out = append(out, binding)
	}
	return out, nil
}

func matchesNodeLabels(obj *types.GenericObject, labels []string) bool {
	if len(labels) == 0 {
		return true
	}
	if len(labels) > 1 {
		return false
	}
	return obj.Kind == ontology.ResourceKind(labels[0])
}

// matchRelationshipSegment matches one -[rel]- hop from left to right,
// honoring direction, type filters, and any identity already bound to
// leftName/rightName/rel.Variable in row.
func matchRelationshipSegment(left *ast.NodePattern, leftName string, rel *ast.RelationshipPattern, right *ast.NodePattern, rightName string, row Row, state *clusterstate.ClusterState) ([]Row, error) {
	var edges []types.GraphEdge
	if len(rel.Types) == 0 {
		edges = state.IterEdges()
	} else {
		seen := make(map[ontology.EdgeKind]bool)
		for _, t := range rel.Types {
			kind := ontology.EdgeKind(t)
			if seen[kind] {
				continue
			}
			seen[kind] = true
			edges = append(edges, state.EdgesByKind(kind)...)
		}
	}

	var out []Row
	for _, edge := range edges {
		for _, pair := range orientations(rel.Direction, edge) {
			leftUID, rightUID := pair[0], pair[1]
			leftObj, ok := state.NodeByUID(leftUID)
			if !ok || !matchesNodeLabels(leftObj, left.Labels) {
				continue
			}
			rightObj, ok := state.NodeByUID(rightUID)
			if !ok || !matchesNodeLabels(rightObj, right.Labels) {
				continue
			}
			if leftName != "" {
				if bound, ok := row[leftName]; ok && !nodeValueMatches(bound, leftObj) {
					continue
				}
			}
			if rightName != "" {
				if bound, ok := row[rightName]; ok && !nodeValueMatches(bound, rightObj) {
					continue
				}
			}
			if rel.Variable != "" {
				if bound, ok := row[rel.Variable]; ok && !relationshipValueMatches(bound, edge, leftUID, rightUID) {
					continue
				}
			}

			binding := Row{}
			if leftName != "" {
				if _, ok := row[leftName]; !ok {
					binding[leftName] = nodeToValue(leftObj)
				}
			}
			if rightName != "" {
				if _, ok := row[rightName]; !ok {
					binding[rightName] = nodeToValue(rightObj)
				}
			}
			if rel.Variable != "" {
				if _, ok := row[rel.Variable]; !ok {
					binding[rel.Variable] = edgeToValue(edgeOriented(edge, leftUID, rightUID))
				}
			}
			out = append(out, binding)
		}
	}
	return out, nil
}

func nodeValueMatches(v any, obj *types.GenericObject) bool {
	uid, ok := nodeUIDFromValue(v)
	return ok && uid == obj.ID.UID
}

// edgeOriented returns edge's identity fields oriented the way the match
// walked it, so a relationship variable reflects the traversal direction
// used (e.g. undirected `--` matched right-to-left).
func edgeOriented(edge types.GraphEdge, leftUID, rightUID string) types.GraphEdge {
	if edge.SourceUID == leftUID && edge.TargetUID == rightUID {
		return edge
	}
	return types.GraphEdge{
		SourceUID: leftUID, SourceKind: edge.TargetKind,
		TargetUID: rightUID, TargetKind: edge.SourceKind,
		EdgeKind: edge.EdgeKind,
	}
}

func orientations(dir ast.Direction, edge types.GraphEdge) [][2]string {
	switch dir {
	case ast.DirOutgoing:
		return [][2]string{{edge.SourceUID, edge.TargetUID}}
	case ast.DirIncoming:
		return [][2]string{{edge.TargetUID, edge.SourceUID}}
	default:
		return [][2]string{{edge.SourceUID, edge.TargetUID}, {edge.TargetUID, edge.SourceUID}}
	}
}

// evalExists implements `EXISTS { pattern [WHERE expr] }`: it searches
// for one match (rather than enumerating) and honors the inner WHERE
// against the merged row.
func evalExists(e *ast.ExistsSubquery, row Row, state *clusterstate.ClusterState, params map[string]any) (bool, error) {
	bindings := []Row{{}}
	for _, p := range e.Pattern {
		var next []Row
		for _, binding := range bindings {
			combined := combineForMatch(row, binding)
			matches, err := matchPath(p, combined, state)
			if err != nil {
				return false, err
			}
			for _, m := range matches {
				merged := binding.clone()
				for k, v := range m {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		bindings = next
		if len(bindings) == 0 {
			return false, nil
		}
	}

	for _, binding := range bindings {
		merged, ok := mergeRows(row, binding)
		if !ok {
			continue
		}
		if e.Where == nil {
			return true, nil
		}
		v, err := evalExpr(e.Where, merged, state, params)
		if err != nil {
			return false, err
		}
		if truthy(v) {
			return true, nil
		}
	}
	return false, nil
}
