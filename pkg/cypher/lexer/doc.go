/*
Package lexer tokenizes ariadne's Cypher subset.

Tokenization is delegated to a stateless regex lexer built with
github.com/alecthomas/participle/v2/lexer (the same dependency the
teacher pulls in transitively via lima-vm/lima, promoted here to a
direct, directly-used dependency). Tokenize wraps participle's
lexer.Lexer, discards whitespace/comment tokens, classifies keywords,
and reshapes participle's lexer.Position into an ast.Span on every
token — the one span format the rest of ariadne (parser, validator,
evaluator, ariaerr) agrees on.

The grammar itself (pkg/cypher/parser) is hand-written recursive
descent over the Token slice this package produces; participle's own
struct-tag grammar builder is not used, since this exercise never
invokes the Go toolchain to verify a generated grammar compiles and
matches the spec's precedence table exactly.
*/
package lexer
