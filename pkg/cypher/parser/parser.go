package parser

import (
	"github.com/cuemby/ariadne/pkg/ariaerr"
	"github.com/cuemby/ariadne/pkg/cypher/ast"
	"github.com/cuemby/ariadne/pkg/cypher/lexer"
)

// clauseKeywords starts a new top-level clause; used both to recognize
// clause boundaries and to bail out of a skipped CALL/updating clause.
var clauseKeywords = map[string]bool{
	"MATCH": true, "OPTIONAL": true, "UNWIND": true, "WITH": true,
	"RETURN": true, "CALL": true, "CREATE": true, "MERGE": true,
	"DELETE": true, "DETACH": true, "SET": true, "REMOVE": true,
}

type parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses query text into an ast.Query.
func Parse(query string) (*ast.Query, error) {
	toks, err := lexer.Tokenize(query)
	if err != nil {
		return nil, ariaerr.ParseErr(ast.Span{}, "tokenize: %v", err)
	}
	p := &parser{toks: toks}
	return p.parseQuery()
}

func (p *parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *parser) atEOF() bool       { return p.cur().Kind == lexer.EOF }
func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) atKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == lexer.Keyword && t.Text == kw
}

func (p *parser) atPunct(s string) bool {
	t := p.cur()
	return t.Kind == lexer.Punct && t.Text == s
}

func (p *parser) errf(format string, args ...any) *ariaerr.Error {
	return ariaerr.ParseErr(p.cur().Span, format, args...)
}

func (p *parser) expectKeyword(kw string) (lexer.Token, error) {
	if !p.atKeyword(kw) {
		return lexer.Token{}, p.errf("expected %q, got %q", kw, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *parser) expectPunct(s string) (lexer.Token, error) {
	if !p.atPunct(s) {
		return lexer.Token{}, p.errf("expected %q, got %q", s, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent() (lexer.Token, error) {
	if p.cur().Kind != lexer.Ident {
		return lexer.Token{}, p.errf("expected identifier, got %q", p.cur().Text)
	}
	return p.advance(), nil
}

func joinSpan(a, b ast.Span) ast.Span {
	return ast.Span{
		StartByte: a.StartByte, EndByte: b.EndByte,
		StartRow: a.StartRow, StartCol: a.StartCol,
		EndRow: b.EndRow, EndCol: b.EndCol,
	}
}

// ---- top level -------------------------------------------------------

func (p *parser) parseQuery() (*ast.Query, error) {
	start := p.cur().Span
	var clauses []ast.Clause
	for !p.atEOF() {
		c, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}
	end := start
	if len(clauses) > 0 {
		end = clauses[len(clauses)-1].Span()
	}
	return &ast.Query{Clauses: clauses, Sp: joinSpan(start, end)}, nil
}

func (p *parser) parseClause() (ast.Clause, error) {
	switch {
	case p.atKeyword("OPTIONAL") || p.atKeyword("MATCH"):
		return p.parseMatch()
	case p.atKeyword("UNWIND"):
		return p.parseUnwind()
	case p.atKeyword("WITH"):
		return p.parseWith()
	case p.atKeyword("RETURN"):
		return p.parseReturn()
	case p.atKeyword("CALL"):
		return p.parseSkippedClause(&ast.Call{})
	case p.atKeyword("CREATE"):
		return p.parseSkippedClause(&ast.Updating{Kind: ast.UpdatingCreate})
	case p.atKeyword("MERGE"):
		return p.parseSkippedClause(&ast.Updating{Kind: ast.UpdatingMerge})
	case p.atKeyword("DELETE") || p.atKeyword("DETACH"):
		return p.parseSkippedClause(&ast.Updating{Kind: ast.UpdatingDelete})
	case p.atKeyword("SET"):
		return p.parseSkippedClause(&ast.Updating{Kind: ast.UpdatingSet})
	case p.atKeyword("REMOVE"):
		return p.parseSkippedClause(&ast.Updating{Kind: ast.UpdatingRemove})
	default:
		return nil, p.errf("unexpected token %q at clause boundary", p.cur().Text)
	}
}

// parseSkippedClause consumes tokens up to the next clause keyword or
// EOF without building an internal grammar: CALL and the updating
// clauses parse only far enough for the validator to reject them by
// kind (spec.md §4.8).
func (p *parser) parseSkippedClause(c ast.Clause) (ast.Clause, error) {
	start := p.cur().Span
	p.advance()
	end := start
	for !p.atEOF() {
		if p.cur().Kind == lexer.Keyword && clauseKeywords[p.cur().Text] {
			break
		}
		end = p.cur().Span
		p.advance()
	}
	sp := joinSpan(start, end)
	switch v := c.(type) {
	case *ast.Call:
		v.Sp = sp
		return v, nil
	case *ast.Updating:
		v.Sp = sp
		return v, nil
	default:
		return c, nil
	}
}

func (p *parser) parseMatch() (*ast.Match, error) {
	start := p.cur().Span
	optional := false
	if p.atKeyword("OPTIONAL") {
		p.advance()
		optional = true
		if _, err := p.expectKeyword("MATCH"); err != nil {
			return nil, err
		}
	} else {
		p.advance() // MATCH
	}

	pattern, err := p.parsePatternList()
	if err != nil {
		return nil, err
	}

	var where ast.Expr
	end := pattern[len(pattern)-1].Span()
	if p.atKeyword("WHERE") {
		p.advance()
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
		end = where.Span()
	}

	return &ast.Match{Optional: optional, Pattern: pattern, Where: where, Sp: joinSpan(start, end)}, nil
}

func (p *parser) parseUnwind() (*ast.Unwind, error) {
	start := p.cur().Span
	p.advance() // UNWIND
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return &ast.Unwind{Expr: expr, As: name.Text, Sp: joinSpan(start, name.Span)}, nil
}

func (p *parser) parseWith() (*ast.With, error) {
	start := p.cur().Span
	p.advance() // WITH
	w := &ast.With{}
	if p.atKeyword("DISTINCT") {
		p.advance()
		w.Distinct = true
	}
	items, err := p.parseProjectionItems()
	if err != nil {
		return nil, err
	}
	w.Items = items
	end := items[len(items)-1].Span()

	if err := p.parseOrderSkipLimit(&w.OrderBy, &w.Skip, &w.Limit, &end); err != nil {
		return nil, err
	}
	if p.atKeyword("WHERE") {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		w.Where = where
		end = where.Span()
	}
	w.Sp = joinSpan(start, end)
	return w, nil
}

func (p *parser) parseReturn() (*ast.Return, error) {
	start := p.cur().Span
	p.advance() // RETURN
	r := &ast.Return{}
	if p.atKeyword("DISTINCT") {
		p.advance()
		r.Distinct = true
	}
	items, err := p.parseProjectionItems()
	if err != nil {
		return nil, err
	}
	r.Items = items
	end := items[len(items)-1].Span()

	if err := p.parseOrderSkipLimit(&r.OrderBy, &r.Skip, &r.Limit, &end); err != nil {
		return nil, err
	}
	r.Sp = joinSpan(start, end)
	return r, nil
}

func (p *parser) parseOrderSkipLimit(orderBy *[]*ast.SortItem, skip, limit *ast.Expr, end *ast.Span) error {
	if p.atKeyword("ORDER") {
		p.advance()
		if _, err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			itemStart := p.cur().Span
			e, err := p.parseExpr()
			if err != nil {
				return err
			}
			desc := false
			if p.atKeyword("DESC") {
				p.advance()
				desc = true
			} else if p.atKeyword("ASC") {
				p.advance()
			}
			sp := joinSpan(itemStart, e.Span())
			*orderBy = append(*orderBy, &ast.SortItem{Expr: e, Descending: desc, Sp: sp})
			*end = sp
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if p.atKeyword("SKIP") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return err
		}
		*skip = e
		*end = e.Span()
	}
	if p.atKeyword("LIMIT") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return err
		}
		*limit = e
		*end = e.Span()
	}
	return nil
}

func (p *parser) parseProjectionItems() ([]*ast.ProjectionItem, error) {
	var items []*ast.ProjectionItem
	for {
		start := p.cur().Span
		if p.atPunct("*") {
			p.advance()
			items = append(items, &ast.ProjectionItem{Star: true, Sp: start})
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			item := &ast.ProjectionItem{Expr: e, Sp: e.Span()}
			if p.atKeyword("AS") {
				p.advance()
				alias, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				item.Alias = alias.Text
				item.Sp = joinSpan(start, alias.Span)
			}
			items = append(items, item)
		}
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

// ---- patterns ----------------------------------------------------------

func (p *parser) parsePatternList() ([]*ast.PathPattern, error) {
	var paths []*ast.PathPattern
	for {
		path, err := p.parsePathPattern()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return paths, nil
}

func (p *parser) parsePathPattern() (*ast.PathPattern, error) {
	start := p.cur().Span
	var variable string
	if p.cur().Kind == lexer.Ident && p.peekIsAssign() {
		variable = p.advance().Text
		p.advance() // '='
	}

	firstNode, err := p.parseNodePattern()
	if err != nil {
		return nil, err
	}
	nodes := []*ast.NodePattern{firstNode}
	var rels []*ast.RelationshipPattern
	end := firstNode.Span()

	for p.atPunct("-") || p.atPunct("<") {
		rel, err := p.parseRelationshipPattern()
		if err != nil {
			return nil, err
		}
		node, err := p.parseNodePattern()
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
		nodes = append(nodes, node)
		end = node.Span()
	}

	return &ast.PathPattern{Variable: variable, Nodes: nodes, Rels: rels, Sp: joinSpan(start, end)}, nil
}

// peekIsAssign reports whether the current Ident is followed directly by
// a bare `=` (the `p = (a)-->(b)` path-variable binding form), as
// opposed to `=` used inside a property map (which never appears here).
func (p *parser) peekIsAssign() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	next := p.toks[p.pos+1]
	return next.Kind == lexer.Punct && next.Text == "="
}

func (p *parser) parseNodePattern() (*ast.NodePattern, error) {
	open, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	n := &ast.NodePattern{}
	if p.cur().Kind == lexer.Ident {
		n.Variable = p.advance().Text
	}
	for p.atPunct(":") {
		p.advance()
		label, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		n.Labels = append(n.Labels, label.Text)
	}
	if p.atPunct("{") {
		props, err := p.parsePropertyMap()
		if err != nil {
			return nil, err
		}
		n.Properties = props
	}
	closeTok, err := p.expectPunct(")")
	if err != nil {
		return nil, err
	}
	n.Sp = joinSpan(open.Span, closeTok.Span)
	return n, nil
}

func (p *parser) parseRelationshipPattern() (*ast.RelationshipPattern, error) {
	start := p.cur().Span
	leftArrow := false
	if p.atPunct("<") {
		p.advance()
		leftArrow = true
	}
	if _, err := p.expectPunct("-"); err != nil {
		return nil, err
	}

	r := &ast.RelationshipPattern{}
	if p.atPunct("[") {
		p.advance()
		if p.cur().Kind == lexer.Ident {
			r.Variable = p.advance().Text
		}
		if p.atPunct(":") {
			p.advance()
			typ, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			r.Types = append(r.Types, typ.Text)
			for p.atPunct("|") {
				p.advance()
				typ, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				r.Types = append(r.Types, typ.Text)
			}
		}
		if p.atPunct("{") {
			props, err := p.parsePropertyMap()
			if err != nil {
				return nil, err
			}
			r.Properties = props
		}
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expectPunct("-"); err != nil {
		return nil, err
	}
	rightArrow := false
	if p.atPunct(">") {
		p.advance()
		rightArrow = true
	}

	switch {
	case leftArrow && !rightArrow:
		r.Direction = ast.DirIncoming
	case rightArrow && !leftArrow:
		r.Direction = ast.DirOutgoing
	default:
		r.Direction = ast.DirEither
	}
	end := start
	if p.pos > 0 {
		end = p.toks[p.pos-1].Span
	}
	r.Sp = joinSpan(start, end)
	return r, nil
}

func (p *parser) parsePropertyMap() ([]*ast.MapEntry, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var entries []*ast.MapEntry
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
			entries = append(entries, &ast.MapEntry{Key: key.Text, Value: val})
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return entries, nil
}
