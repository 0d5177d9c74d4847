package eval

import (
	"math"
	"strings"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

// evalBool evaluates e and applies Cypher's "only true is true" rule: a
// non-bool (including null) result is treated as false.
func evalBool(e ast.Expr, row Row, state *clusterstate.ClusterState, params map[string]any) (bool, error) {
	v, err := evalExpr(e, row, state, params)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

func evalExpr(e ast.Expr, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	switch v := e.(type) {
	case *ast.IntegerLiteral:
		return v.Value, nil
	case *ast.FloatLiteral:
		return v.Value, nil
	case *ast.StringLiteral:
		return v.Value, nil
	case *ast.BoolLiteral:
		return v.Value, nil
	case *ast.NullLiteral:
		return nil, nil
	case *ast.ListLiteral:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			val, err := evalExpr(item, row, state, params)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case *ast.MapLiteral:
		out := make(map[string]any, len(v.Entries))
		for _, entry := range v.Entries {
			val, err := evalExpr(entry.Value, row, state, params)
			if err != nil {
				return nil, err
			}
			out[entry.Key] = val
		}
		return out, nil
	case *ast.Variable:
		return row[v.Name], nil
	case *ast.Parameter:
		val, ok := params[v.Name]
		if !ok {
			return nil, ariaerr.EngineErr(v.Span(), "no value bound for parameter $%s", v.Name)
		}
		return val, nil
	case *ast.PropertyAccess:
		base, err := evalExpr(v.Target, row, state, params)
		if err != nil {
			return nil, err
		}
		m, ok := asMap(base)
		if !ok {
			return nil, nil
		}
		return m[v.Key], nil
	case *ast.IndexAccess:
		base, err := evalExpr(v.Target, row, state, params)
		if err != nil {
			return nil, err
		}
		idx, err := evalExpr(v.Index, row, state, params)
		if err != nil {
			return nil, err
		}
		return indexInto(base, idx), nil
	case *ast.SliceAccess:
		base, err := evalExpr(v.Target, row, state, params)
		if err != nil {
			return nil, err
		}
		return evalSlice(base, v.From, v.To, row, state, params)
	case *ast.UnaryExpr:
		operand, err := evalExpr(v.Operand, row, state, params)
		if err != nil {
			return nil, err
		}
		switch v.Op {
		case "NOT":
			return !truthy(operand), nil
		case "-":
			return -asFloat64Lenient(operand), nil
		default: // "+"
			return asFloat64Lenient(operand), nil
		}
	case *ast.BinaryExpr:
		return evalBinary(v, row, state, params)
	case *ast.StringPredicate:
		return evalStringPredicate(v, row, state, params)
	case *ast.IsNull:
		val, err := evalExpr(v.Operand, row, state, params)
		if err != nil {
			return nil, err
		}
		null := isNull(val)
		if v.Negated {
			return !null, nil
		}
		return null, nil
	case *ast.LabelTest:
		val, err := evalExpr(v.Target, row, state, params)
		if err != nil {
			return nil, err
		}
		m, ok := asMap(val)
		if !ok {
			return false, nil
		}
		kind, _ := m["kind"].(string)
		if kind == "" {
			kind, _ = m["type"].(string)
		}
		if kind == "" {
			return false, nil
		}
		for _, label := range v.Labels {
			if label != kind {
				return false, nil
			}
		}
		return true, nil
	case *ast.CaseExpr:
		return evalCase(v, row, state, params)
	case *ast.ExistsSubquery:
		return evalExists(v, row, state, params)
	case *ast.ListComprehension:
		return evalListComprehension(v, row, state, params)
	case *ast.Quantifier:
		return evalQuantifier(v, row, state, params)
	case *ast.FunctionCall:
		return evalFunction(v, row, state, params)
	default:
		return nil, ariaerr.EngineErr(e.Span(), "unsupported expression")
	}
}

func indexInto(base, idx any) any {
	if list, ok := asList(base); ok {
		i := toInt64(idx, -1)
		if i < 0 || int(i) >= len(list) {
			return nil
		}
		return list[i]
	}
	if m, ok := asMap(base); ok {
		if key, ok := idx.(string); ok {
			return m[key]
		}
	}
	return nil
}

func evalSlice(base any, fromExpr, toExpr ast.Expr, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	list, ok := asList(base)
	if !ok {
		return nil, nil
	}
	n := int64(len(list))
	from, to := int64(0), n
	if fromExpr != nil {
		v, err := evalExpr(fromExpr, row, state, params)
		if err != nil {
			return nil, err
		}
		if !isNull(v) {
			from = toInt64(v, 0)
		}
	}
	if toExpr != nil {
		v, err := evalExpr(toExpr, row, state, params)
		if err != nil {
			return nil, err
		}
		if !isNull(v) {
			to = toInt64(v, n)
		}
	}
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from > n {
		from = n
	}
	if to < from {
		to = from
	}
	out := make([]any, to-from)
	copy(out, list[from:to])
	return out, nil
}

func evalBinary(e *ast.BinaryExpr, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	switch e.Op {
	case "OR":
		l, err := evalBool(e.Left, row, state, params)
		if err != nil {
			return nil, err
		}
		r, err := evalBool(e.Right, row, state, params)
		if err != nil {
			return nil, err
		}
		return l || r, nil
	case "AND":
		l, err := evalBool(e.Left, row, state, params)
		if err != nil {
			return nil, err
		}
		r, err := evalBool(e.Right, row, state, params)
		if err != nil {
			return nil, err
		}
		return l && r, nil
	case "XOR":
		l, err := evalBool(e.Left, row, state, params)
		if err != nil {
			return nil, err
		}
		r, err := evalBool(e.Right, row, state, params)
		if err != nil {
			return nil, err
		}
		return l != r, nil
	case "IN":
		left, err := evalExpr(e.Left, row, state, params)
		if err != nil {
			return nil, err
		}
		right, err := evalExpr(e.Right, row, state, params)
		if err != nil {
			return nil, err
		}
		list, ok := asList(right)
		if !ok {
			return false, nil
		}
		for _, item := range list {
			if valuesEqual(item, left) {
				return true, nil
			}
		}
		return false, nil
	}

	l, err := evalExpr(e.Left, row, state, params)
	if err != nil {
		return nil, err
	}
	r, err := evalExpr(e.Right, row, state, params)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "=", "<>", "<", "<=", ">", ">=":
		cmp, ok := compareValues(l, r)
		switch e.Op {
		case "=":
			return ok && cmp == 0, nil
		case "<>":
			return !ok || cmp != 0, nil
		case "<":
			return ok && cmp < 0, nil
		case "<=":
			return ok && cmp <= 0, nil
		case ">":
			return ok && cmp > 0, nil
		default: // ">="
			return ok && cmp >= 0, nil
		}
	case "+", "-", "*", "/", "%", "^":
		lf, rf := asFloat64Lenient(l), asFloat64Lenient(r)
		switch e.Op {
		case "+":
			return addValues(l, r, lf, rf), nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "/":
			return lf / rf, nil
		case "%":
			return math.Mod(lf, rf), nil
		default: // "^"
			return math.Pow(lf, rf), nil
		}
	}
	return nil, ariaerr.EngineErr(e.Span(), "unsupported operator %q", e.Op)
}

// addValues special-cases string concatenation (`"a" + "b"`), which the
// lenient float coercion used for the rest of arithmetic would otherwise
// silently zero out.
func addValues(l, r any, lf, rf float64) any {
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		return ls + rs
	}
	if lok {
		return ls + valueToString(r)
	}
	if rok {
		return valueToString(l) + rs
	}
	return lf + rf
}

func evalStringPredicate(e *ast.StringPredicate, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	l, err := evalExpr(e.Left, row, state, params)
	if err != nil {
		return nil, err
	}
	r, err := evalExpr(e.Right, row, state, params)
	if err != nil {
		return nil, err
	}
	if isNull(l) || isNull(r) {
		return false, nil
	}
	ls, rs := valueToString(l), valueToString(r)
	switch e.Op {
	case "STARTS WITH":
		return strings.HasPrefix(ls, rs), nil
	case "ENDS WITH":
		return strings.HasSuffix(ls, rs), nil
	default: // "CONTAINS"
		return strings.Contains(ls, rs), nil
	}
}

func evalCase(c *ast.CaseExpr, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	if c.BaseExpr != nil {
		base, err := evalExpr(c.BaseExpr, row, state, params)
		if err != nil {
			return nil, err
		}
		for _, when := range c.Whens {
			whenVal, err := evalExpr(when.Cond, row, state, params)
			if err != nil {
				return nil, err
			}
			if cmp, ok := compareValues(base, whenVal); ok && cmp == 0 {
				return evalExpr(when.Then, row, state, params)
			}
		}
	} else {
		for _, when := range c.Whens {
			ok, err := evalBool(when.Cond, row, state, params)
			if err != nil {
				return nil, err
			}
			if ok {
				return evalExpr(when.Then, row, state, params)
			}
		}
	}
	if c.Else != nil {
		return evalExpr(c.Else, row, state, params)
	}
	return nil, nil
}

func evalListComprehension(lc *ast.ListComprehension, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	listVal, err := evalExpr(lc.List, row, state, params)
	if err != nil {
		return nil, err
	}
	items, ok := asList(listVal)
	if !ok {
		return []any{}, nil
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		scoped := row.clone()
		scoped[lc.Variable] = item
		if lc.Where != nil {
			keep, err := evalBool(lc.Where, scoped, state, params)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}
		if lc.Map == nil {
			out = append(out, item)
			continue
		}
		val, err := evalExpr(lc.Map, scoped, state, params)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func evalQuantifier(q *ast.Quantifier, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	listVal, err := evalExpr(q.List, row, state, params)
	if err != nil {
		return nil, err
	}
	items, ok := asList(listVal)
	if !ok {
		return false, nil
	}

	matches := 0
	for _, item := range items {
		scoped := row.clone()
		scoped[q.Variable] = item
		var passed bool
		if q.Where != nil {
			passed, err = evalBool(q.Where, scoped, state, params)
			if err != nil {
				return nil, err
			}
		} else {
			passed = truthy(item)
		}

		switch q.Kind {
		case ast.QuantifierAny:
			if passed {
				return true, nil
			}
		case ast.QuantifierAll:
			if !passed {
				return false, nil
			}
		case ast.QuantifierNone:
			if passed {
				return false, nil
			}
		case ast.QuantifierSingle:
			if passed {
				matches++
				if matches > 1 {
					return false, nil
				}
			}
		}
	}

	switch q.Kind {
	case ast.QuantifierAny:
		return false, nil
	case ast.QuantifierSingle:
		return matches == 1, nil
	default: // ALL, NONE
		return true, nil
	}
}
