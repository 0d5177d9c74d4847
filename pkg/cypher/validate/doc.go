/*
Package validate implements ariadne's two-mode Cypher validation
(spec.md §4.8).

ReadOnly mode only rejects CALL and the five updating clauses (CREATE,
MERGE, DELETE, SET, REMOVE) — ariadne's Non-goals exclude write
traversals outright, and this mode exists for callers that just want a
cheap "is this a write?" check before doing anything more expensive.

Engine mode runs the ReadOnly check plus everything required before a
query can actually be evaluated: every clause chains into a single
terminal RETURN, every variable referenced in an expression was bound by
an earlier MATCH/UNWIND/WITH (or is a pattern-local binding inside an
EXISTS{}/comprehension/quantifier), and every concretely-labeled
relationship pattern names a (source_kind, edge_kind, target_kind)
triple the ontology actually produces (spec.md invariant 5). A node
pattern with more than one label is rejected. A relationship segment
with an unlabeled endpoint or several relationship types is not
schema-checked and is left for the evaluator to filter at runtime.

Every failure is returned as an *ariaerr.Error of Kind Semantic or
Schema, anchored at the offending node's Span.
*/
package validate
