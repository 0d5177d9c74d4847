/*
Package eval implements ariadne's Cypher query evaluator: it walks a
validated *ast.Query clause by clause against a *clusterstate.ClusterState
and produces the final record sequence.

# Row model

Evaluation state is a list of rows, each row a map from variable name to
value. Values are the JSON-ish shapes the rest of the package works in
throughout: nil, bool, int64, float64, string, []any, and map[string]any.
A matched node binds immediately to a map[string]any carrying its stored
attributes plus three always-present flattened fields (metadata_uid,
metadata_name, metadata_namespace); a matched relationship binds to
{type, source, target, source_type, target_type}. Converting eagerly at
bind time (rather than keeping typed handles in the row) means property
access, equality, and row-merge comparisons are all plain value
operations with no special-casing for node/relationship types.

Each clause consumes the current row list and produces the next:
MATCH/OPTIONAL MATCH extend it by pattern matching, UNWIND fans a row out
per list element, WITH/RETURN project (and, when a projection contains an
aggregate, group) it.

# Grounding

The clause pipeline, pattern-matching algorithm (including the
already-bound-variable existence-check shortcut and the synthesized
internal-node-variable handling for 3+ node paths), aggregation
grouping, and the exact function/operator semantics are ported from
original_source/ariadne-core/src/backends/in_memory.rs, expressed against
this repository's own AST and clusterstate types rather than translated
line for line. Inline pattern property maps ({key: expr} in a node or
relationship pattern) are parsed by pkg/cypher/parser but — matching that
same reference evaluator — are not applied as a matching filter; only
labels/types and shared-variable identity constrain a match.
*/
package eval
