/*
Package parser builds an ast.Query from Cypher query text.

Parse runs pkg/cypher/lexer.Tokenize and then a hand-written recursive
descent / precedence-climbing parser over the resulting token slice,
following spec.md §4's grammar and the precedence chain in §4.6:

	OR < XOR < AND < NOT < comparison < string/list/null predicates
	  < additive < multiplicative < unary < exponential
	  < property/index/slice access < atom

CALL and the updating clauses (CREATE, MERGE, DELETE, SET, REMOVE) parse
into placeholder clause nodes without their internal grammar — ariadne
never executes them, so the validator only needs to recognize and
reject them by clause kind (spec.md §1 Non-goals, §4.8).

Every parse error is returned as an *ariaerr.Error of Kind Parse,
anchored at the offending token's Span, so a caller-facing correction
loop can point at the exact source range.
*/
package parser
