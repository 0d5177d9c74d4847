package eval

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

// Evaluate runs a validated query against state and returns its final
// record sequence. Callers are expected to have already run
// validate.Validate(q, validate.Engine); Evaluate does not re-check
// scope or schema, only clause semantics.
func Evaluate(q *ast.Query, state *clusterstate.ClusterState, params map[string]any) ([]Record, error) {
	rows := []Row{{}}
	var records []Record

	for _, clause := range q.Clauses {
		var err error
		switch c := clause.(type) {
		case *ast.Match:
			rows, err = applyMatch(rows, c, state, params)
		case *ast.Unwind:
			rows, err = applyUnwind(rows, c, state, params)
		case *ast.With:
			rows, err = applyWith(rows, c, state, params)
		case *ast.Return:
			records, err = finalizeReturn(rows, c, state, params)
		default:
			return nil, ariaerr.EngineErr(clause.Span(), "clause not supported by the evaluator")
		}
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func applyMatch(rows []Row, clause *ast.Match, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	vars := patternVariables(clause.Pattern)
	var output []Row

	for _, row := range rows {
		if allBound(vars, row) {
			exists, err := patternExists(clause.Pattern, clause.Where, row, state, params)
			if err != nil {
				return nil, err
			}
			if exists || clause.Optional {
				output = append(output, row)
			}
			continue
		}

		matches, err := matchPatternList(clause.Pattern, row, state)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			if clause.Optional {
				expanded := row.clone()
				for _, v := range vars {
					if _, ok := expanded[v]; !ok {
						expanded[v] = nil
					}
				}
				output = append(output, expanded)
			}
			continue
		}
		for _, binding := range matches {
			if merged, ok := mergeRows(row, binding); ok {
				output = append(output, merged)
			}
		}
	}

	if clause.Where == nil {
		return output, nil
	}
	filtered := make([]Row, 0, len(output))
	for _, row := range output {
		keep, err := evalBool(clause.Where, row, state, params)
		if err != nil {
			return nil, err
		}
		if keep {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// patternExists is the existence-check counterpart of matchPatternList,
// used when every pattern variable is already bound (spec §4.9): it
// reports whether at least one consistent match exists rather than
// enumerating every one.
func patternExists(paths []*ast.PathPattern, where ast.Expr, row Row, state *clusterstate.ClusterState, params map[string]any) (bool, error) {
	bindings := []Row{{}}
	for _, p := range paths {
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
		if where == nil {
			return true, nil
		}
		keep, err := evalBool(where, merged, state, params)
		if err != nil {
			return false, err
		}
		if keep {
			return true, nil
		}
	}
	return false, nil
}

func applyUnwind(rows []Row, clause *ast.Unwind, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	var output []Row
	for _, row := range rows {
		val, err := evalExpr(clause.Expr, row, state, params)
		if err != nil {
			return nil, err
		}
		if items, ok := asList(val); ok {
			for _, item := range items {
				next := row.clone()
				next[clause.As] = item
				output = append(output, next)
			}
			continue
		}
		if isNull(val) {
			continue
		}
		next := row.clone()
		next[clause.As] = val
		output = append(output, next)
	}
	return output, nil
}

func applyWith(rows []Row, clause *ast.With, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	projected, err := projectRows(rows, clause.Items, state, params)
	if err != nil {
		return nil, err
	}
	if clause.Distinct {
		projected = distinctRows(projected)
	}
	if clause.Where != nil {
		filtered := make([]Row, 0, len(projected))
		for _, row := range projected {
			keep, err := evalBool(clause.Where, row, state, params)
			if err != nil {
				return nil, err
			}
			if keep {
				filtered = append(filtered, row)
			}
		}
		projected = filtered
	}
	if len(clause.OrderBy) > 0 {
		projected, err = sortRows(projected, clause.OrderBy, state, params)
		if err != nil {
			return nil, err
		}
	}
	return applySkipLimit(projected, clause.Skip, clause.Limit, state, params)
}

func finalizeReturn(rows []Row, clause *ast.Return, state *clusterstate.ClusterState, params map[string]any) ([]Record, error) {
	projected, err := projectRows(rows, clause.Items, state, params)
	if err != nil {
		return nil, err
	}
	if clause.Distinct {
		projected = distinctRows(projected)
	}
	if len(clause.OrderBy) > 0 {
		projected, err = sortRows(projected, clause.OrderBy, state, params)
		if err != nil {
			return nil, err
		}
	}
	projected, err = applySkipLimit(projected, clause.Skip, clause.Limit, state, params)
	if err != nil {
		return nil, err
	}

	keys := projectionKeys(clause.Items)
	records := make([]Record, 0, len(projected))
	for _, row := range projected {
		records = append(records, newRecord(keys, row))
	}
	return records, nil
}

// projectRows applies a WITH/RETURN item list to rows, switching to
// grouped aggregation when any item contains an aggregate function
// (spec §4.9).
func projectRows(rows []Row, items []*ast.ProjectionItem, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	hasAgg := false
	for _, item := range items {
		if !item.Star && isAggregateExpr(item.Expr) {
			hasAgg = true
			break
		}
	}
	if hasAgg {
		return projectRowsAggregate(rows, items, state, params)
	}

	output := make([]Row, 0, len(rows))
	for _, row := range rows {
		record := Row{}
		for idx, item := range items {
			if item.Star {
				for k, v := range row {
					record[k] = v
				}
				continue
			}
			val, err := evalExpr(item.Expr, row, state, params)
			if err != nil {
				return nil, err
			}
			record[projectionLabel(item, idx)] = val
		}
		output = append(output, record)
	}
	return output, nil
}

func projectRowsAggregate(rows []Row, items []*ast.ProjectionItem, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	var groupIdx []int
	for idx, item := range items {
		if item.Star {
			return nil, ariaerr.EngineErr(item.Span(), "RETURN * cannot be combined with an aggregate")
		}
		if !isAggregateExpr(item.Expr) {
			groupIdx = append(groupIdx, idx)
		}
	}

	type group struct {
		keyValues []any
		rows      []Row
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, row := range rows {
		keyValues := make([]any, len(groupIdx))
		for i, idx := range groupIdx {
			v, err := evalExpr(items[idx].Expr, row, state, params)
			if err != nil {
				return nil, err
			}
			keyValues[i] = v
		}
		key, err := groupKey(keyValues)
		if err != nil {
			return nil, err
		}
		g, ok := groups[key]
		if !ok {
			g = &group{keyValues: keyValues}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	if len(groups) == 0 && len(groupIdx) == 0 {
		// No grouping keys at all: every item is an aggregate, so the
		// whole input is one implicit group, even when that group is
		// empty (e.g. `MATCH (p:Pod) RETURN count(p)` over zero Pods).
		// Standard Cypher still yields the single empty-group row with
		// count=0, sum/avg/min/max=null, collect=[].
		order = append(order, "")
		groups[""] = &group{}
	}

	output := make([]Row, 0, len(groups))
	for _, key := range order {
		g := groups[key]
		record := Row{}
		keyPos := 0
		for idx, item := range items {
			if isAggregateExpr(item.Expr) {
				val, err := evalAggregate(item.Expr, g.rows, state, params)
				if err != nil {
					return nil, err
				}
				record[projectionLabel(item, idx)] = val
				continue
			}
			record[projectionLabel(item, idx)] = g.keyValues[keyPos]
			keyPos++
		}
		output = append(output, record)
	}
	return output, nil
}

func projectionLabel(item *ast.ProjectionItem, idx int) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := item.Expr.(type) {
	case *ast.Variable:
		return e.Name
	case *ast.PropertyAccess:
		return e.Key
	case *ast.FunctionCall:
		return e.Name
	default:
		return fmt.Sprintf("expr_%d", idx)
	}
}

func projectionKeys(items []*ast.ProjectionItem) []string {
	keys := make([]string, 0, len(items))
	for idx, item := range items {
		if item.Star {
			continue // resolved per-row at projection time; order is row-dependent
		}
		keys = append(keys, projectionLabel(item, idx))
	}
	return keys
}

func groupKey(values []any) (string, error) {
	b, err := json.Marshal(values)
	if err != nil {
		return "", ariaerr.EngineErr(ast.Span{}, "cannot group by a non-serializable value: %v", err)
	}
	return string(b), nil
}

func distinctRows(rows []Row) []Row {
	seen := make(map[string]bool, len(rows))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		fp := rowFingerprint(row)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, row)
	}
	return out
}

func rowFingerprint(row Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make(map[string]any, len(row))
	for _, k := range keys {
		ordered[k] = row[k]
	}
	b, _ := json.Marshal(ordered)
	return string(b)
}

func applySkipLimit(rows []Row, skip, limit ast.Expr, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	empty := Row{}
	if skip != nil {
		v, err := evalExpr(skip, empty, state, params)
		if err != nil {
			return nil, err
		}
		n := toInt64(v, 0)
		if n < 0 {
			n = 0
		}
		if int(n) >= len(rows) {
			rows = nil
		} else {
			rows = rows[n:]
		}
	}
	if limit != nil {
		v, err := evalExpr(limit, empty, state, params)
		if err != nil {
			return nil, err
		}
		n := toInt64(v, 0)
		if n < 0 {
			n = 0
		}
		if int(n) < len(rows) {
			rows = rows[:n]
		}
	}
	return rows, nil
}

func sortRows(rows []Row, order []*ast.SortItem, state *clusterstate.ClusterState, params map[string]any) ([]Row, error) {
	type keyedRow struct {
		row  Row
		keys []any
	}
	keyed := make([]keyedRow, len(rows))
	for i, row := range rows {
		keys := make([]any, len(order))
		for j, item := range order {
			v, err := evalExpr(item.Expr, row, state, params)
			if err != nil {
				return nil, err
			}
			keys[j] = v
		}
		keyed[i] = keyedRow{row: row, keys: keys}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		for k := range order {
			cmp, ok := compareValues(keyed[i].keys[k], keyed[j].keys[k])
			if !ok || cmp == 0 {
				continue
			}
			if order[k].Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	out := make([]Row, len(keyed))
	for i, k := range keyed {
		out[i] = k.row
	}
	return out, nil
}
