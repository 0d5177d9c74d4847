package eval

import (
	"strings"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

var aggregateNames = map[string]bool{
	"count": true, "sum": true, "avg": true, "min": true, "max": true, "collect": true,
}

// isAggregateExpr reports whether e is (or wraps, via index/slice access)
// an aggregate function call — the trigger for projectRows to switch
// from per-row projection to grouped aggregation (spec §4.9).
func isAggregateExpr(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.FunctionCall:
		return aggregateNames[strings.ToLower(v.Name)]
	case *ast.IndexAccess:
		return isAggregateExpr(v.Target)
	case *ast.SliceAccess:
		return isAggregateExpr(v.Target)
	default:
		return false
	}
}

// evalFunction evaluates a scalar (non-aggregate) function call.
// Aggregates are rejected here — they are only valid inside a
// WITH/RETURN projection, handled by evalAggregate.
func evalFunction(fc *ast.FunctionCall, row Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	name := strings.ToLower(fc.Name)
	if aggregateNames[name] {
		return nil, ariaerr.EngineErr(fc.Span(), "aggregate function %s must appear in a projection", fc.Name)
	}

	arg := func(i int) (any, error) {
		if i >= len(fc.Args) {
			return nil, ariaerr.EngineErr(fc.Span(), "%s requires an argument", fc.Name)
		}
		return evalExpr(fc.Args[i], row, state, params)
	}

	switch name {
	case "size":
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		switch t := v.(type) {
		case []any:
			return int64(len(t)), nil
		case string:
			return int64(len([]rune(t))), nil
		case map[string]any:
			return int64(len(t)), nil
		default:
			return int64(0), nil
		}
	case "lower", "upper":
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		s, _ := v.(string)
		if name == "lower" {
			return strings.ToLower(s), nil
		}
		return strings.ToUpper(s), nil
	case "coalesce":
		for _, a := range fc.Args {
			v, err := evalExpr(a, row, state, params)
			if err != nil {
				return nil, err
			}
			if !isNull(v) {
				return v, nil
			}
		}
		return nil, nil
	case "tostring":
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		if s, ok := v.(string); ok {
			return s, nil
		}
		return valueToString(v), nil
	case "tointeger", "toint":
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		return toInt64(v, 0), nil
	case "tofloat":
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		return asFloat64Lenient(v), nil
	case "labels":
		v, err := arg(0)
		if err != nil {
			return nil, err
		}
		m, ok := asMap(v)
		if !ok {
			return []any{}, nil
		}
		kind, ok := m["kind"].(string)
		if !ok {
			return []any{}, nil
		}
		return []any{kind}, nil
	case "replace":
		if len(fc.Args) < 3 {
			return nil, ariaerr.EngineErr(fc.Span(), "replace requires three arguments")
		}
		val, err := arg(0)
		if err != nil {
			return nil, err
		}
		search, err := arg(1)
		if err != nil {
			return nil, err
		}
		repl, err := arg(2)
		if err != nil {
			return nil, err
		}
		if isNull(val) || isNull(search) || isNull(repl) {
			return nil, nil
		}
		return strings.ReplaceAll(valueToString(val), valueToString(search), valueToString(repl)), nil
	default:
		return nil, ariaerr.EngineErr(fc.Span(), "unsupported function %q", fc.Name)
	}
}

// evalAggregate computes an aggregate expression over one group's rows.
// It also recurses through index/slice access so `collect(x)[0]` works.
func evalAggregate(e ast.Expr, rows []Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	switch v := e.(type) {
	case *ast.FunctionCall:
		return evalAggregateCall(v, rows, state, params)
	case *ast.IndexAccess:
		base, err := evalAggregate(v.Target, rows, state, params)
		if err != nil {
			return nil, err
		}
		idx, err := evalExpr(v.Index, sampleRow(rows), state, params)
		if err != nil {
			return nil, err
		}
		return indexInto(base, idx), nil
	case *ast.SliceAccess:
		base, err := evalAggregate(v.Target, rows, state, params)
		if err != nil {
			return nil, err
		}
		return evalSlice(base, v.From, v.To, sampleRow(rows), state, params)
	default:
		return nil, ariaerr.EngineErr(e.Span(), "unsupported aggregate expression")
	}
}

func sampleRow(rows []Row) Row {
	if len(rows) == 0 {
		return Row{}
	}
	return rows[0]
}

func evalAggregateCall(fc *ast.FunctionCall, rows []Row, state *clusterstate.ClusterState, params map[string]any) (any, error) {
	name := strings.ToLower(fc.Name)
	if fc.Star {
		if name != "count" {
			return nil, ariaerr.EngineErr(fc.Span(), "only count(*) is valid; %s(*) is not", fc.Name)
		}
		return int64(len(rows)), nil
	}
	if len(fc.Args) == 0 {
		return nil, ariaerr.EngineErr(fc.Span(), "%s requires one argument", fc.Name)
	}
	target := fc.Args[0]

	switch name {
	case "count":
		var n int64
		for _, row := range rows {
			v, err := evalExpr(target, row, state, params)
			if err != nil {
				return nil, err
			}
			if !isNull(v) {
				n++
			}
		}
		return n, nil
	case "sum":
		var total float64
		var seen bool
		for _, row := range rows {
			v, err := evalExpr(target, row, state, params)
			if err != nil {
				return nil, err
			}
			if f, ok := numeric(v); ok {
				total += f
				seen = true
			}
		}
		if !seen {
			return nil, nil
		}
		return total, nil
	case "avg":
		var total float64
		var count float64
		for _, row := range rows {
			v, err := evalExpr(target, row, state, params)
			if err != nil {
				return nil, err
			}
			if f, ok := numeric(v); ok {
				total += f
				count++
			}
		}
		if count == 0 {
			return nil, nil
		}
		return total / count, nil
	case "min", "max":
		var current any
		var haveCurrent bool
		for _, row := range rows {
			v, err := evalExpr(target, row, state, params)
			if err != nil {
				return nil, err
			}
			if isNull(v) {
				continue
			}
			if !haveCurrent {
				current, haveCurrent = v, true
				continue
			}
			cmp, ok := compareValues(current, v)
			if !ok {
				continue
			}
			if name == "min" {
				if cmp > 0 {
					current = v
				}
			} else if cmp < 0 {
				current = v
			}
		}
		if !haveCurrent {
			return nil, nil
		}
		return current, nil
	case "collect":
		out := make([]any, 0, len(rows))
		for _, row := range rows {
			v, err := evalExpr(target, row, state, params)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, ariaerr.EngineErr(fc.Span(), "unsupported aggregate function %q", fc.Name)
	}
}
