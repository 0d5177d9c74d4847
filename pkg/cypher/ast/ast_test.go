package ast

import "testing"

func TestSpanString(t *testing.T) {
	s := Span{StartByte: 0, EndByte: 5, StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 6}
	if got, want := s.String(), "1:1-1:6"; got != want {
		t.Fatalf("Span.String() = %q, want %q", got, want)
	}
}

func TestNodeSpanAccessors(t *testing.T) {
	sp := Span{StartRow: 2, StartCol: 3, EndRow: 2, EndCol: 9}
	var n Node = &Match{Sp: sp}
	if n.Span() != sp {
		t.Fatalf("Match.Span() = %v, want %v", n.Span(), sp)
	}

	var e Expr = &Variable{Base: Base{Sp: sp}, Name: "x"}
	if e.Span() != sp {
		t.Fatalf("Variable.Span() = %v, want %v", e.Span(), sp)
	}
}

func TestClauseTypeSwitch(t *testing.T) {
	clauses := []Clause{
		&Match{},
		&Unwind{},
		&With{},
		&Return{},
		&Call{},
		&Updating{Kind: UpdatingDelete},
	}
	for _, c := range clauses {
		switch c.(type) {
		case *Match, *Unwind, *With, *Return, *Call, *Updating:
			// ok
		default:
			t.Fatalf("unexpected clause type %T", c)
		}
	}
}

func TestPathPatternShape(t *testing.T) {
	p := &PathPattern{
		Nodes: []*NodePattern{{Variable: "a"}, {Variable: "b"}},
		Rels:  []*RelationshipPattern{{Direction: DirOutgoing}},
	}
	if len(p.Rels) != len(p.Nodes)-1 {
		t.Fatalf("expected len(Rels) == len(Nodes)-1, got %d nodes, %d rels", len(p.Nodes), len(p.Rels))
	}
}
