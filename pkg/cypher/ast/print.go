package ast

import "strconv"

// Print renders a Query back to Cypher text. It covers the read-only,
// engine-evaluable subset (Match/Unwind/With/Return and all expression
// kinds); Call and Updating clauses print as their bare keyword since
// ariadne never evaluates their internals and nothing round-trips them
// (spec.md §8 property 5 only asks for idempotence "over the subset
// actually reprintable").
func Print(q *Query) string {
	var out string
	for i, c := range q.Clauses {
		if i > 0 {
			out += " "
		}
		out += printClause(c)
	}
	return out
}

func printClause(c Clause) string {
	switch v := c.(type) {
	case *Match:
		s := ""
		if v.Optional {
			s += "OPTIONAL "
		}
		s += "MATCH " + printPatternList(v.Pattern)
		if v.Where != nil {
			s += " WHERE " + printExpr(v.Where)
		}
		return s
	case *Unwind:
		return "UNWIND " + printExpr(v.Expr) + " AS " + v.As
	case *With:
		s := "WITH "
		if v.Distinct {
			s += "DISTINCT "
		}
		s += printProjections(v.Items)
		s += printOrderSkipLimit(v.OrderBy, v.Skip, v.Limit)
		if v.Where != nil {
			s += " WHERE " + printExpr(v.Where)
		}
		return s
	case *Return:
		s := "RETURN "
		if v.Distinct {
			s += "DISTINCT "
		}
		s += printProjections(v.Items)
		s += printOrderSkipLimit(v.OrderBy, v.Skip, v.Limit)
		return s
	case *Call:
		return "CALL"
	case *Updating:
		return string(v.Kind)
	default:
		return ""
	}
}

func printOrderSkipLimit(orderBy []*SortItem, skip, limit Expr) string {
	s := ""
	if len(orderBy) > 0 {
		s += " ORDER BY "
		for i, item := range orderBy {
			if i > 0 {
				s += ", "
			}
			s += printExpr(item.Expr)
			if item.Descending {
				s += " DESC"
			}
		}
	}
	if skip != nil {
		s += " SKIP " + printExpr(skip)
	}
	if limit != nil {
		s += " LIMIT " + printExpr(limit)
	}
	return s
}

func printProjections(items []*ProjectionItem) string {
	s := ""
	for i, item := range items {
		if i > 0 {
			s += ", "
		}
		if item.Star {
			s += "*"
			continue
		}
		s += printExpr(item.Expr)
		if item.Alias != "" {
			s += " AS " + item.Alias
		}
	}
	return s
}

func printPatternList(paths []*PathPattern) string {
	s := ""
	for i, p := range paths {
		if i > 0 {
			s += ", "
		}
		if p.Variable != "" {
			s += p.Variable + " = "
		}
		for j, n := range p.Nodes {
			s += printNodePattern(n)
			if j < len(p.Rels) {
				s += printRelPattern(p.Rels[j])
			}
		}
	}
	return s
}

func printNodePattern(n *NodePattern) string {
	s := "(" + n.Variable
	for _, l := range n.Labels {
		s += ":" + l
	}
	if len(n.Properties) > 0 {
		s += " " + printMapEntries(n.Properties)
	}
	return s + ")"
}

func printRelPattern(r *RelationshipPattern) string {
	left, right := "-", "-"
	if r.Direction == DirIncoming {
		left = "<-"
	}
	if r.Direction == DirOutgoing {
		right = "->"
	}
	inner := r.Variable
	for i, t := range r.Types {
		if i == 0 {
			inner += ":" + t
		} else {
			inner += "|" + t
		}
	}
	if len(r.Properties) > 0 {
		if inner != "" {
			inner += " "
		}
		inner += printMapEntries(r.Properties)
	}
	if inner == "" {
		return left + right
	}
	return left + "[" + inner + "]" + right
}

func printMapEntries(entries []*MapEntry) string {
	s := "{"
	for i, e := range entries {
		if i > 0 {
			s += ", "
		}
		s += e.Key + ": " + printExpr(e.Value)
	}
	return s + "}"
}

func printExpr(e Expr) string {
	switch v := e.(type) {
	case *IntegerLiteral:
		return strconv.FormatInt(v.Value, 10)
	case *FloatLiteral:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *StringLiteral:
		return "\"" + v.Value + "\""
	case *BoolLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *NullLiteral:
		return "null"
	case *ListLiteral:
		s := "["
		for i, item := range v.Items {
			if i > 0 {
				s += ", "
			}
			s += printExpr(item)
		}
		return s + "]"
	case *MapLiteral:
		return printMapEntries(v.Entries)
	case *Variable:
		return v.Name
	case *Parameter:
		return "$" + v.Name
	case *PropertyAccess:
		return printExpr(v.Target) + "." + v.Key
	case *IndexAccess:
		return printExpr(v.Target) + "[" + printExpr(v.Index) + "]"
	case *SliceAccess:
		s := printExpr(v.Target) + "["
		if v.From != nil {
			s += printExpr(v.From)
		}
		s += ".."
		if v.To != nil {
			s += printExpr(v.To)
		}
		return s + "]"
	case *FunctionCall:
		s := v.Name + "("
		if v.Distinct {
			s += "DISTINCT "
		}
		if v.Star {
			s += "*"
		} else {
			for i, a := range v.Args {
				if i > 0 {
					s += ", "
				}
				s += printExpr(a)
			}
		}
		return s + ")"
	case *UnaryExpr:
		if v.Op == "NOT" {
			return "NOT " + printExpr(v.Operand)
		}
		return v.Op + printExpr(v.Operand)
	case *BinaryExpr:
		return printExpr(v.Left) + " " + v.Op + " " + printExpr(v.Right)
	case *StringPredicate:
		return printExpr(v.Left) + " " + v.Op + " " + printExpr(v.Right)
	case *IsNull:
		if v.Negated {
			return printExpr(v.Operand) + " IS NOT NULL"
		}
		return printExpr(v.Operand) + " IS NULL"
	case *LabelTest:
		s := printExpr(v.Target)
		for _, l := range v.Labels {
			s += ":" + l
		}
		return s
	case *CaseExpr:
		s := "CASE"
		if v.BaseExpr != nil {
			s += " " + printExpr(v.BaseExpr)
		}
		for _, w := range v.Whens {
			s += " WHEN " + printExpr(w.Cond) + " THEN " + printExpr(w.Then)
		}
		if v.Else != nil {
			s += " ELSE " + printExpr(v.Else)
		}
		return s + " END"
	case *ExistsSubquery:
		s := "EXISTS { " + printPatternList(v.Pattern)
		if v.Where != nil {
			s += " WHERE " + printExpr(v.Where)
		}
		return s + " }"
	case *ListComprehension:
		s := "[" + v.Variable + " IN " + printExpr(v.List)
		if v.Where != nil {
			s += " WHERE " + printExpr(v.Where)
		}
		if v.Map != nil {
			s += " | " + printExpr(v.Map)
		}
		return s + "]"
	case *Quantifier:
		s := string(v.Kind) + "(" + v.Variable + " IN " + printExpr(v.List)
		if v.Where != nil {
			s += " WHERE " + printExpr(v.Where)
		}
		return s + ")"
	default:
		return ""
	}
}
