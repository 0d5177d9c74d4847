package validate

import (
	"testing"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
	"github.com/cuemby/ariadne/pkg/cypher/parser"
)

func mustParse(t *testing.T, q string) *ast.Query {
	t.Helper()
	query, err := parser.Parse(q)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", q, err)
	}
	return query
}

func TestValidateEngineAcceptsWellFormedQuery(t *testing.T) {
	q := mustParse(t, `MATCH (p:Pod)-[:RunsOn]->(n:Node) WHERE p.phase = "Running" RETURN p.name, n.name AS node`)
	if err := Validate(q, Engine); err != nil {
		t.Fatalf("expected valid query to pass, got %v", err)
	}
}

func TestValidateRejectsCall(t *testing.T) {
	q := mustParse(t, `MATCH (n) CALL RETURN n`)
	err := Validate(q, ReadOnly)
	if err == nil || !ariaerr.Is(err, ariaerr.Semantic) {
		t.Fatalf("expected Semantic error rejecting CALL, got %v", err)
	}
}

func TestValidateRejectsUpdatingClause(t *testing.T) {
	q := mustParse(t, `MATCH (n) DELETE n RETURN n`)
	err := Validate(q, ReadOnly)
	if err == nil || !ariaerr.Is(err, ariaerr.Semantic) {
		t.Fatalf("expected Semantic error rejecting DELETE, got %v", err)
	}
}

func TestValidateEngineRequiresTerminalReturn(t *testing.T) {
	q := mustParse(t, `MATCH (n:Pod) WHERE n.phase = "Running"`)
	err := Validate(q, Engine)
	if err == nil || !ariaerr.Is(err, ariaerr.Semantic) {
		t.Fatalf("expected Semantic error for missing RETURN, got %v", err)
	}
}

func TestValidateEngineRejectsUnboundVariable(t *testing.T) {
	q := mustParse(t, `MATCH (p:Pod) RETURN q.name`)
	err := Validate(q, Engine)
	if err == nil || !ariaerr.Is(err, ariaerr.Semantic) {
		t.Fatalf("expected Semantic error for unbound variable, got %v", err)
	}
}

func TestValidateEngineRejectsUnknownSchemaTriple(t *testing.T) {
	q := mustParse(t, `MATCH (s:Service)-[:RunsOn]->(p:Pod) RETURN s`)
	err := Validate(q, Engine)
	if err == nil || !ariaerr.Is(err, ariaerr.Schema) {
		t.Fatalf("expected Schema error for Service-RunsOn->Pod, got %v", err)
	}
}

func TestValidateEngineAllowsWithRescoping(t *testing.T) {
	q := mustParse(t, `MATCH (p:Pod) WITH p.name AS name RETURN name`)
	if err := Validate(q, Engine); err != nil {
		t.Fatalf("expected WITH-rescoped query to pass, got %v", err)
	}
}

func TestValidateEngineRejectsVariableDroppedByWith(t *testing.T) {
	q := mustParse(t, `MATCH (p:Pod) WITH p.name AS name RETURN p`)
	err := Validate(q, Engine)
	if err == nil || !ariaerr.Is(err, ariaerr.Semantic) {
		t.Fatalf("expected Semantic error for variable dropped by WITH, got %v", err)
	}
}
