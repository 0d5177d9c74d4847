package validate

import "github.com/cuemby/ariadne/pkg/cypher/ast"

// freeVars returns the set of variable names e references that are not
// bound by e itself (a list comprehension's or quantifier's own
// iteration variable, or an EXISTS{} pattern's own node/relationship
// variables, are excluded).
func freeVars(e ast.Expr) map[string]bool {
	out := make(map[string]bool)
	collect(e, out)
	return out
}

func collect(e ast.Expr, out map[string]bool) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *ast.Variable:
		out[v.Name] = true
	case *ast.Parameter, *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral,
		*ast.BoolLiteral, *ast.NullLiteral:
		// no free variables
	case *ast.ListLiteral:
		for _, item := range v.Items {
			collect(item, out)
		}
	case *ast.MapLiteral:
		for _, entry := range v.Entries {
			collect(entry.Value, out)
		}
	case *ast.PropertyAccess:
		collect(v.Target, out)
	case *ast.IndexAccess:
		collect(v.Target, out)
		collect(v.Index, out)
	case *ast.SliceAccess:
		collect(v.Target, out)
		collect(v.From, out)
		collect(v.To, out)
	case *ast.FunctionCall:
		for _, arg := range v.Args {
			collect(arg, out)
		}
	case *ast.UnaryExpr:
		collect(v.Operand, out)
	case *ast.BinaryExpr:
		collect(v.Left, out)
		collect(v.Right, out)
	case *ast.StringPredicate:
		collect(v.Left, out)
		collect(v.Right, out)
	case *ast.IsNull:
		collect(v.Operand, out)
	case *ast.LabelTest:
		collect(v.Target, out)
	case *ast.CaseExpr:
		collect(v.BaseExpr, out)
		for _, w := range v.Whens {
			collect(w.Cond, out)
			collect(w.Then, out)
		}
		collect(v.Else, out)
	case *ast.ListComprehension:
		collect(v.List, out)
		local := make(map[string]bool)
		collect(v.Where, local)
		collect(v.Map, local)
		delete(local, v.Variable)
		for name := range local {
			out[name] = true
		}
	case *ast.Quantifier:
		collect(v.List, out)
		local := make(map[string]bool)
		collect(v.Where, local)
		delete(local, v.Variable)
		for name := range local {
			out[name] = true
		}
	case *ast.ExistsSubquery:
		bound := make(map[string]bool)
		for _, path := range v.Pattern {
			collectPatternVars(path, bound)
		}
		local := make(map[string]bool)
		collect(v.Where, local)
		for name := range local {
			if !bound[name] {
				out[name] = true
			}
		}
	}
}

func collectPatternVars(p *ast.PathPattern, out map[string]bool) {
	if p.Variable != "" {
		out[p.Variable] = true
	}
	for _, n := range p.Nodes {
		if n.Variable != "" {
			out[n.Variable] = true
		}
	}
	for _, r := range p.Rels {
		if r.Variable != "" {
			out[r.Variable] = true
		}
	}
}
