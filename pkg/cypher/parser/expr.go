package parser

import (
	"strconv"

	"github.com/cuemby/ariadne/pkg/cypher/ast"
	"github.com/cuemby/ariadne/pkg/cypher/lexer"
)

// parseExpr is the entry point into the precedence chain described in
// spec.md §4.6:
//
//	OR < XOR < AND < NOT < comparison < string/list/null predicates
//	  < additive < multiplicative < unary < exponential
//	  < property/index/slice access < atom
func (p *parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

// baseSpan builds an ast.Base spanning from the start of left to the end
// of right, for a freshly built binary node.
func baseSpan(left, right ast.Expr) ast.Base {
	return ast.Base{Sp: joinSpan(left.Span(), right.Span())}
}

// spanFrom builds an ast.Base spanning from a to b.
func spanFrom(a, b ast.Span) ast.Base {
	return ast.Base{Sp: joinSpan(a, b)}
}

// fromTok builds an ast.Base from a single token's span, for atoms.
func fromTok(tok lexer.Token) ast.Base {
	return ast.Base{Sp: tok.Span}
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		p.advance()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "OR", Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parseXor() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("XOR") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "XOR", Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "AND", Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parseNot() (ast.Expr, error) {
	if p.atKeyword("NOT") {
		start := p.cur().Span
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: "NOT", Operand: operand, Base: spanFrom(start, operand.Span())}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]bool{"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *parser) parseComparison() (ast.Expr, error) {
	left, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Punct && comparisonOps[p.cur().Text] {
		op := p.advance().Text
		right, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parsePredicate() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atKeyword("STARTS"):
			p.advance()
			if _, err := p.expectKeyword("WITH"); err != nil {
				return nil, err
			}
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.StringPredicate{Op: "STARTS WITH", Left: left, Right: right, Base: baseSpan(left, right)}
		case p.atKeyword("ENDS"):
			p.advance()
			if _, err := p.expectKeyword("WITH"); err != nil {
				return nil, err
			}
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.StringPredicate{Op: "ENDS WITH", Left: left, Right: right, Base: baseSpan(left, right)}
		case p.atKeyword("CONTAINS"):
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.StringPredicate{Op: "CONTAINS", Left: left, Right: right, Base: baseSpan(left, right)}
		case p.atKeyword("IN"):
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryExpr{Op: "IN", Left: left, Right: right, Base: baseSpan(left, right)}
		case p.atKeyword("IS"):
			p.advance()
			negated := false
			if p.atKeyword("NOT") {
				p.advance()
				negated = true
			}
			endTok, err := p.expectKeyword("NULL")
			if err != nil {
				return nil, err
			}
			left = &ast.IsNull{Operand: left, Negated: negated, Base: spanFrom(left.Span(), endTok.Span)}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atPunct("*") || p.atPunct("/") || p.atPunct("%") {
		op := p.advance().Text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.atPunct("-") || p.atPunct("+") {
		start := p.cur().Span
		op := p.advance().Text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand, Base: spanFrom(start, operand.Span())}, nil
	}
	return p.parseExponential()
}

func (p *parser) parseExponential() (ast.Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.atPunct("^") {
		p.advance()
		right, err := p.parseExponential()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "^", Left: left, Right: right, Base: baseSpan(left, right)}
	}
	return left, nil
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("."):
			p.advance()
			key, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			left = &ast.PropertyAccess{Target: left, Key: key.Text, Base: spanFrom(left.Span(), key.Span)}
		case p.atPunct(":"):
			p.advance()
			label, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			labels := []string{label.Text}
			end := label.Span
			for p.atPunct(":") {
				p.advance()
				l, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				labels = append(labels, l.Text)
				end = l.Span
			}
			left = &ast.LabelTest{Target: left, Labels: labels, Base: spanFrom(left.Span(), end)}
		case p.atPunct("["):
			p.advance()
			if p.atPunct("..") {
				p.advance()
				var to ast.Expr
				if !p.atPunct("]") {
					to, err = p.parseExpr()
					if err != nil {
						return nil, err
					}
				}
				closeTok, err := p.expectPunct("]")
				if err != nil {
					return nil, err
				}
				left = &ast.SliceAccess{Target: left, To: to, Base: spanFrom(left.Span(), closeTok.Span)}
				continue
			}
			first, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.atPunct("..") {
				p.advance()
				var to ast.Expr
				if !p.atPunct("]") {
					to, err = p.parseExpr()
					if err != nil {
						return nil, err
					}
				}
				closeTok, err := p.expectPunct("]")
				if err != nil {
					return nil, err
				}
				left = &ast.SliceAccess{Target: left, From: first, To: to, Base: spanFrom(left.Span(), closeTok.Span)}
				continue
			}
			closeTok, err := p.expectPunct("]")
			if err != nil {
				return nil, err
			}
			left = &ast.IndexAccess{Target: left, Index: first, Base: spanFrom(left.Span(), closeTok.Span)}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseAtom() (ast.Expr, error) {
	tok := p.cur()
	switch {
	case tok.Kind == lexer.Int:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errf("invalid integer literal %q", tok.Text)
		}
		return &ast.IntegerLiteral{Value: v, Base: fromTok(tok)}, nil
	case tok.Kind == lexer.Float:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errf("invalid float literal %q", tok.Text)
		}
		return &ast.FloatLiteral{Value: v, Base: fromTok(tok)}, nil
	case tok.Kind == lexer.String:
		p.advance()
		return &ast.StringLiteral{Value: tok.Text, Base: fromTok(tok)}, nil
	case tok.Kind == lexer.Parameter:
		p.advance()
		return &ast.Parameter{Name: tok.Text, Base: fromTok(tok)}, nil
	case tok.Kind == lexer.Keyword && tok.Text == "TRUE":
		p.advance()
		return &ast.BoolLiteral{Value: true, Base: fromTok(tok)}, nil
	case tok.Kind == lexer.Keyword && tok.Text == "FALSE":
		p.advance()
		return &ast.BoolLiteral{Value: false, Base: fromTok(tok)}, nil
	case tok.Kind == lexer.Keyword && tok.Text == "NULL":
		p.advance()
		return &ast.NullLiteral{Base: fromTok(tok)}, nil
	case tok.Kind == lexer.Punct && tok.Text == "(":
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case tok.Kind == lexer.Punct && tok.Text == "[":
		return p.parseListOrComprehension()
	case tok.Kind == lexer.Punct && tok.Text == "{":
		return p.parseMapLiteral()
	case tok.Kind == lexer.Keyword && tok.Text == "CASE":
		return p.parseCase()
	case tok.Kind == lexer.Keyword && tok.Text == "EXISTS":
		return p.parseExistsSubquery()
	case tok.Kind == lexer.Keyword && (tok.Text == "ANY" || tok.Text == "ALL" || tok.Text == "NONE" || tok.Text == "SINGLE"):
		return p.parseQuantifier()
	case tok.Kind == lexer.Ident:
		return p.parseIdentOrCall()
	default:
		return nil, p.errf("unexpected token %q", tok.Text)
	}
}

func (p *parser) parseIdentOrCall() (ast.Expr, error) {
	name := p.advance()
	if !p.atPunct("(") {
		return &ast.Variable{Name: name.Text, Base: fromTok(name)}, nil
	}
	p.advance() // '('
	call := &ast.FunctionCall{Name: name.Text}
	if p.atKeyword("DISTINCT") {
		p.advance()
		call.Distinct = true
	}
	if p.atPunct("*") {
		p.advance()
		call.Star = true
	} else if !p.atPunct(")") {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	call.Base = spanFrom(name.Span, closeTok.Span)
	return call, nil
}

func (p *parser) parseListOrComprehension() (ast.Expr, error) {
	open, _ := p.expectPunct("[")
	if p.cur().Kind == lexer.Ident && p.nextIsKeyword("IN") {
		variable := p.advance().Text
		p.advance() // IN
		list, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lc := &ast.ListComprehension{Variable: variable, List: list}
		if p.atKeyword("WHERE") {
			p.advance()
			where, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lc.Where = where
		}
		if p.atPunct("|") {
			p.advance()
			m, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lc.Map = m
		}
		closeTok, err := p.expectPunct("]")
		if err != nil {
			return nil, err
		}
		lc.Base = spanFrom(open.Span, closeTok.Span)
		return lc, nil
	}

	list := &ast.ListLiteral{}
	if !p.atPunct("]") {
		for {
			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expectPunct("]")
	if err != nil {
		return nil, err
	}
	list.Base = spanFrom(open.Span, closeTok.Span)
	return list, nil
}

func (p *parser) nextIsKeyword(kw string) bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	n := p.toks[p.pos+1]
	return n.Kind == lexer.Keyword && n.Text == kw
}

func (p *parser) parseMapLiteral() (ast.Expr, error) {
	open, _ := p.expectPunct("{")
	m := &ast.MapLiteral{}
	if !p.atPunct("}") {
		for {
			key, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, &ast.MapEntry{Key: key.Text, Value: val})
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	m.Base = spanFrom(open.Span, closeTok.Span)
	return m, nil
}

func (p *parser) parseCase() (ast.Expr, error) {
	start := p.cur().Span
	p.advance() // CASE
	c := &ast.CaseExpr{}
	if !p.atKeyword("WHEN") {
		base, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.BaseExpr = base
	}
	for p.atKeyword("WHEN") {
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, &ast.CaseWhen{Cond: cond, Then: then})
	}
	if p.atKeyword("ELSE") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Else = e
	}
	endTok, err := p.expectKeyword("END")
	if err != nil {
		return nil, err
	}
	c.Base = spanFrom(start, endTok.Span)
	return c, nil
}

func (p *parser) parseExistsSubquery() (ast.Expr, error) {
	start := p.cur().Span
	p.advance() // EXISTS
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	pattern, err := p.parsePatternList()
	if err != nil {
		return nil, err
	}
	e := &ast.ExistsSubquery{Pattern: pattern}
	if p.atKeyword("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		e.Where = where
	}
	closeTok, err := p.expectPunct("}")
	if err != nil {
		return nil, err
	}
	e.Base = spanFrom(start, closeTok.Span)
	return e, nil
}

func (p *parser) parseQuantifier() (ast.Expr, error) {
	start := p.cur().Span
	kind := ast.QuantifierKind(p.advance().Text)
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	variable, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("IN"); err != nil {
		return nil, err
	}
	list, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	if p.atKeyword("WHERE") {
		p.advance()
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	return &ast.Quantifier{
		Kind: kind, Variable: variable.Text, List: list, Where: where,
		Base: spanFrom(start, closeTok.Span),
	}, nil
}
