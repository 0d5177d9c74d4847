package validate

import (
	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

// Mode selects how strict Validate is.
type Mode int

const (
	// ReadOnly only rejects CALL and the updating clauses. It does not
	// check variable scope or ontology schema triples.
	ReadOnly Mode = iota
	// Engine runs every check required before a query can be evaluated.
	Engine
)

// Validate checks q against mode, returning the first violation found
// as an *ariaerr.Error.
func Validate(q *ast.Query, mode Mode) error {
	if err := checkNoUpdates(q); err != nil {
		return err
	}
	if mode == ReadOnly {
		return nil
	}
	if err := checkTerminalReturn(q); err != nil {
		return err
	}

	bound := make(map[string]bool)
	for _, clause := range q.Clauses {
		if err := checkClauseSchema(clause); err != nil {
			return err
		}
		next, err := checkAndRescope(clause, bound)
		if err != nil {
			return err
		}
		bound = next
	}
	return nil
}

func checkNoUpdates(q *ast.Query) error {
	for _, c := range q.Clauses {
		switch v := c.(type) {
		case *ast.Call:
			return ariaerr.SemanticErr(v.Span(), "CALL is not supported; ariadne only evaluates read traversals")
		case *ast.Updating:
			return ariaerr.SemanticErr(v.Span(), "%s is not supported; ariadne never executes write traversals", v.Kind)
		}
	}
	return nil
}

func checkTerminalReturn(q *ast.Query) error {
	if len(q.Clauses) == 0 {
		return ariaerr.SemanticErr(ast.Span{}, "query has no clauses")
	}
	last := q.Clauses[len(q.Clauses)-1]
	if _, ok := last.(*ast.Return); !ok {
		return ariaerr.SemanticErr(last.Span(), "query must end with RETURN to be evaluated")
	}
	for _, c := range q.Clauses[:len(q.Clauses)-1] {
		if _, ok := c.(*ast.Return); ok {
			return ariaerr.SemanticErr(c.Span(), "RETURN may only appear as the final clause")
		}
	}
	return nil
}

func checkClauseSchema(c ast.Clause) error {
	m, ok := c.(*ast.Match)
	if !ok {
		return nil
	}
	for _, path := range m.Pattern {
		if err := checkPatternSchema(path); err != nil {
			return err
		}
	}
	if m.Where != nil {
		if err := checkExistsSchema(m.Where); err != nil {
			return err
		}
	}
	return nil
}

// checkExistsSchema recurses into EXISTS{} subqueries nested in an
// expression to validate their own patterns against the schema table.
func checkExistsSchema(e ast.Expr) error {
	switch v := e.(type) {
	case *ast.ExistsSubquery:
		for _, path := range v.Pattern {
			if err := checkPatternSchema(path); err != nil {
				return err
			}
		}
		if v.Where != nil {
			return checkExistsSchema(v.Where)
		}
	case *ast.UnaryExpr:
		return checkExistsSchema(v.Operand)
	case *ast.BinaryExpr:
		if err := checkExistsSchema(v.Left); err != nil {
			return err
		}
		return checkExistsSchema(v.Right)
	case *ast.StringPredicate:
		if err := checkExistsSchema(v.Left); err != nil {
			return err
		}
		return checkExistsSchema(v.Right)
	case *ast.IsNull:
		return checkExistsSchema(v.Operand)
	}
	return nil
}

// checkAndRescope validates that every expression in clause only
// references already-bound variables, then returns the variable set
// in scope for the next clause.
func checkAndRescope(clause ast.Clause, bound map[string]bool) (map[string]bool, error) {
	switch v := clause.(type) {
	case *ast.Match:
		next := cloneSet(bound)
		for _, path := range v.Pattern {
			bindPattern(path, next)
		}
		if v.Where != nil {
			if err := checkBound(v.Where, next); err != nil {
				return nil, err
			}
		}
		return next, nil

	case *ast.Unwind:
		if err := checkBound(v.Expr, bound); err != nil {
			return nil, err
		}
		next := cloneSet(bound)
		next[v.As] = true
		return next, nil

	case *ast.With:
		for _, item := range v.Items {
			if item.Expr != nil {
				if err := checkBound(item.Expr, bound); err != nil {
					return nil, err
				}
			}
		}
		next := make(map[string]bool)
		for _, item := range v.Items {
			if item.Star {
				for name := range bound {
					next[name] = true
				}
				continue
			}
			next[projectionName(item)] = true
		}
		for _, s := range v.OrderBy {
			if err := checkBound(s.Expr, next); err != nil {
				return nil, err
			}
		}
		if v.Skip != nil {
			if err := checkBound(v.Skip, bound); err != nil {
				return nil, err
			}
		}
		if v.Limit != nil {
			if err := checkBound(v.Limit, bound); err != nil {
				return nil, err
			}
		}
		if v.Where != nil {
			if err := checkBound(v.Where, next); err != nil {
				return nil, err
			}
		}
		return next, nil

	case *ast.Return:
		for _, item := range v.Items {
			if item.Expr != nil {
				if err := checkBound(item.Expr, bound); err != nil {
					return nil, err
				}
			}
		}
		for _, s := range v.OrderBy {
			if err := checkBound(s.Expr, bound); err != nil {
				return nil, err
			}
		}
		if v.Skip != nil {
			if err := checkBound(v.Skip, bound); err != nil {
				return nil, err
			}
		}
		if v.Limit != nil {
			if err := checkBound(v.Limit, bound); err != nil {
				return nil, err
			}
		}
		return bound, nil

	default:
		return bound, nil
	}
}

func projectionName(item *ast.ProjectionItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	if v, ok := item.Expr.(*ast.Variable); ok {
		return v.Name
	}
	return ""
}

func bindPattern(path *ast.PathPattern, scope map[string]bool) {
	if path.Variable != "" {
		scope[path.Variable] = true
	}
	for _, n := range path.Nodes {
		if n.Variable != "" {
			scope[n.Variable] = true
		}
	}
	for _, r := range path.Rels {
		if r.Variable != "" {
			scope[r.Variable] = true
		}
	}
}

func checkBound(e ast.Expr, scope map[string]bool) error {
	for name := range freeVars(e) {
		if !scope[name] {
			return ariaerr.SemanticErr(e.Span(), "variable %q is not bound in this scope", name)
		}
	}
	return nil
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}
