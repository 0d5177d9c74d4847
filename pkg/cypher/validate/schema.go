package validate

import (
	"strings"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
	"github.com/cuemby/ariadne/pkg/ontology"
)

// checkPatternSchema rejects node patterns with more than one label
// (Semantic) and validates every relationship segment of path against
// the ontology's schema table (spec.md invariant 5). A segment is only
// checked when both endpoint node patterns name exactly one label and
// the relationship names exactly one type — a segment with an unlabeled
// endpoint or several relationship types is left for the evaluator to
// filter at runtime.
func checkPatternSchema(path *ast.PathPattern) error {
	for _, n := range path.Nodes {
		if len(n.Labels) > 1 {
			return ariaerr.SemanticErr(n.Span(), "multi-label node patterns are not supported")
		}
	}
	for i, rel := range path.Rels {
		left := path.Nodes[i]
		right := path.Nodes[i+1]
		if len(left.Labels) != 1 || len(right.Labels) != 1 || len(rel.Types) != 1 {
			continue
		}
		edgeKind := ontology.EdgeKind(rel.Types[0])
		if !ontology.IsKnownEdgeKind(edgeKind) {
			return ariaerr.SchemaErr(rel.Span(), "unknown edge kind %q", rel.Types[0])
		}
		leftKind := ontology.ResourceKind(left.Labels[0])
		rightKind := ontology.ResourceKind(right.Labels[0])

		switch rel.Direction {
		case ast.DirOutgoing:
			if err := requireKnownEdge(rel, leftKind, edgeKind, rightKind); err != nil {
				return err
			}
		case ast.DirIncoming:
			if err := requireKnownEdge(rel, rightKind, edgeKind, leftKind); err != nil {
				return err
			}
		default: // DirEither
			if !ontology.IsKnownEdge(leftKind, edgeKind, rightKind) &&
				!ontology.IsKnownEdge(rightKind, edgeKind, leftKind) {
				return schemaError(rel, leftKind, edgeKind, rightKind)
			}
		}
	}
	return nil
}

func requireKnownEdge(rel *ast.RelationshipPattern, source ontology.ResourceKind, edge ontology.EdgeKind, target ontology.ResourceKind) error {
	if !ontology.IsKnownEdge(source, edge, target) {
		return schemaError(rel, source, edge, target)
	}
	return nil
}

func schemaError(rel *ast.RelationshipPattern, source ontology.ResourceKind, edge ontology.EdgeKind, target ontology.ResourceKind) error {
	allowed := ontology.AllowedPairs(edge)
	pairs := make([]string, 0, len(allowed))
	for _, t := range allowed {
		pairs = append(pairs, string(t.Source)+"->"+string(t.Target))
	}
	return ariaerr.SchemaErr(rel.Span(),
		"(%s)-[:%s]->(%s) is not a known edge; allowed pairs for %s: %s",
		source, edge, target, edge, strings.Join(pairs, ", "))
}
