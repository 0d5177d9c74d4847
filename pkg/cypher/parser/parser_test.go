package parser

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

func TestParseSimpleMatchReturn(t *testing.T) {
	q, err := Parse(`MATCH (p:Pod)-[:RunsOn]->(n:Node) WHERE p.phase = "Running" RETURN p.name, n.name AS node`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(q.Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(q.Clauses))
	}
	m, ok := q.Clauses[0].(*ast.Match)
	if !ok {
		t.Fatalf("expected *ast.Match, got %T", q.Clauses[0])
	}
	if m.Optional {
		t.Fatal("expected non-optional match")
	}
	if len(m.Pattern) != 1 || len(m.Pattern[0].Nodes) != 2 || len(m.Pattern[0].Rels) != 1 {
		t.Fatalf("unexpected pattern shape: %+v", m.Pattern)
	}
	if m.Pattern[0].Rels[0].Direction != ast.DirOutgoing {
		t.Fatalf("expected outgoing relationship, got %v", m.Pattern[0].Rels[0].Direction)
	}
	if m.Where == nil {
		t.Fatal("expected WHERE clause")
	}
}

func TestParseOptionalMatchWithUnwindReturn(t *testing.T) {
	q, err := Parse(`
		MATCH (d:Deployment)
		OPTIONAL MATCH (d)-[:Manages]->(rs:ReplicaSet)
		UNWIND [1, 2, 3] AS n
		WITH d, rs, n
		RETURN d.name, count(rs) AS replica_count
	`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(q.Clauses) != 5 {
		t.Fatalf("expected 5 clauses, got %d: %+v", len(q.Clauses), q.Clauses)
	}
	if _, ok := q.Clauses[1].(*ast.Match); !ok || !q.Clauses[1].(*ast.Match).Optional {
		t.Fatalf("expected optional match as 2nd clause, got %+v", q.Clauses[1])
	}
	uw, ok := q.Clauses[2].(*ast.Unwind)
	if !ok {
		t.Fatalf("expected *ast.Unwind, got %T", q.Clauses[2])
	}
	if uw.As != "n" {
		t.Fatalf("expected AS n, got %q", uw.As)
	}
	ret, ok := q.Clauses[4].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", q.Clauses[4])
	}
	if len(ret.Items) != 2 {
		t.Fatalf("expected 2 return items, got %d", len(ret.Items))
	}
	fc, ok := ret.Items[1].Expr.(*ast.FunctionCall)
	if !ok || fc.Name != "count" {
		t.Fatalf("expected count(rs) function call, got %+v", ret.Items[1].Expr)
	}
}

func TestParsePrecedence(t *testing.T) {
	q, err := Parse("RETURN 1 + 2 * 3")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ret := q.Clauses[0].(*ast.Return)
	top, ok := ret.Items[0].Expr.(*ast.BinaryExpr)
	if !ok || top.Op != "+" {
		t.Fatalf("expected top-level '+', got %+v", ret.Items[0].Expr)
	}
	if _, ok := top.Left.(*ast.IntegerLiteral); !ok {
		t.Fatalf("expected left operand to be literal 1, got %+v", top.Left)
	}
	mul, ok := top.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected right operand to be '*' expr, got %+v", top.Right)
	}
}

func TestParseUpdatingClauseIsPlaceholder(t *testing.T) {
	q, err := Parse("MATCH (n) CREATE (m) RETURN n")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(q.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(q.Clauses))
	}
	upd, ok := q.Clauses[1].(*ast.Updating)
	if !ok || upd.Kind != ast.UpdatingCreate {
		t.Fatalf("expected CREATE updating clause, got %+v", q.Clauses[1])
	}
}

func TestParseExistsAndQuantifier(t *testing.T) {
	q, err := Parse(`MATCH (p:Pod) WHERE EXISTS { (p)-[:BelongsTo]->(:Namespace) } AND ANY(x IN p.labels WHERE x = "app") RETURN p`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	m := q.Clauses[0].(*ast.Match)
	and, ok := m.Where.(*ast.BinaryExpr)
	if !ok || and.Op != "AND" {
		t.Fatalf("expected top-level AND, got %+v", m.Where)
	}
	if _, ok := and.Left.(*ast.ExistsSubquery); !ok {
		t.Fatalf("expected EXISTS subquery on left, got %+v", and.Left)
	}
	if _, ok := and.Right.(*ast.Quantifier); !ok {
		t.Fatalf("expected quantifier on right, got %+v", and.Right)
	}
}

func TestPrintReprintIdempotence(t *testing.T) {
	queries := []string{
		`MATCH (p:Pod)-[:RunsOn]->(n:Node) WHERE p.phase = "Running" RETURN p.name, n.name AS node`,
		`MATCH (d:Deployment) RETURN d.name AS name ORDER BY name DESC LIMIT 10`,
		`RETURN 1 + 2 * 3, [1, 2, 3], {a: 1, b: "x"}`,
	}
	for _, text := range queries {
		q1, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", text, err)
		}
		printed1 := ast.Print(q1)
		q2, err := Parse(printed1)
		if err != nil {
			t.Fatalf("re-parsing printed query %q failed: %v", printed1, err)
		}
		printed2 := ast.Print(q2)
		if printed1 != printed2 {
			t.Fatalf("printing not idempotent after reparse:\n1: %s\n2: %s", printed1, printed2)
		}
	}
}
