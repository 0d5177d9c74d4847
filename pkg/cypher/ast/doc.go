/*
Package ast defines ariadne's Cypher abstract syntax tree: the typed,
read-only-subset AST the parser (pkg/cypher/parser) produces, the
validator (pkg/cypher/validate) checks, and the evaluator (pkg/cypher/eval)
walks.

Every node carries a Span (byte range plus row/column range) so that
parse, semantic and schema errors can point at the offending source text
(spec.md §4.7, §7). The AST is the public contract; the concrete grammar
used to produce it (pkg/cypher/parser, built on a participle-generated
lexer) is free to change shape as long as it walks to this same tree.
*/
package ast
