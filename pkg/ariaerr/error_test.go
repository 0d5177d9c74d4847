package ariaerr

import (
	"errors"
	"testing"

	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

func TestErrorMessageShapes(t *testing.T) {
	span := ast.Span{StartRow: 1, StartCol: 5, EndRow: 1, EndCol: 10}
	e := ParseErr(span, "unexpected token %q", "MERGE")
	if got, want := e.Error(), `parse_error: unexpected token "MERGE" (at 1:5-1:10)`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("connection reset")
	be := BackendErr(cause, "write to remote backend failed")
	if got, want := be.Error(), "backend_error: write to remote backend failed: connection reset"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(be, cause) {
		t.Fatal("expected errors.Is to unwrap to cause")
	}
}

func TestRetriable(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{Parse, true},
		{Semantic, true},
		{Schema, true},
		{Engine, true},
		{Backend, false},
		{State, false},
		{Observer, false},
	}
	for _, c := range cases {
		e := &Error{Kind: c.kind}
		if got := e.Retriable(); got != c.want {
			t.Errorf("Kind %s: Retriable() = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestIs(t *testing.T) {
	err := SchemaErr(ast.Span{}, "unknown edge %s", "Orbits")
	if !Is(err, Schema) {
		t.Fatal("expected Is(err, Schema) to be true")
	}
	if Is(err, Engine) {
		t.Fatal("expected Is(err, Engine) to be false")
	}
	if Is(errors.New("plain"), Parse) {
		t.Fatal("expected Is on a non-*Error to be false")
	}
}

func TestStateAndObserverErrorsHaveNoSpan(t *testing.T) {
	se := StateErr("dangling edge endpoint %s", "handle#4")
	if se.Span != nil {
		t.Fatal("StateErr should not carry a span")
	}
	oe := ObserverErr(errors.New("permission denied"), "list Pods failed")
	if oe.Span != nil {
		t.Fatal("ObserverErr should not carry a span")
	}
	if oe.Cause == nil {
		t.Fatal("ObserverErr should wrap its cause")
	}
}
