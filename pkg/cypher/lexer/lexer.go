package lexer

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cuemby/ariadne/pkg/cypher/ast"
)

// Token is one lexical unit, carrying its classified Kind and its source
// Span for diagnostics.
type Token struct {
	Kind Kind
	Text string
	Span ast.Span
}

// def is the participle simple lexer backing Tokenize. Rule order
// matters: participle's simple lexer matches rules top-to-bottom and
// takes the first one that matches at the current input position, so
// more specific patterns (BacktickIdent, String, Parameter, the
// multi-char operators inside Op) must precede the catch-all Ident and
// single-char punctuation alternatives.
var def = lexer.MustSimple([]lexer.SimpleRule{
	{"Whitespace", `\s+`},
	{"Comment", `//[^\n]*`},
	{"BacktickIdent", "`(?:[^`\\\\]|\\\\.)*`"},
	{"String", `'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`},
	{"Parameter", `\$[A-Za-z_][A-Za-z0-9_]*`},
	{"Float", `\d+\.\d+`},
	{"Int", `\d+`},
	{"Ident", `[A-Za-z_][A-Za-z0-9_]*`},
	{"Op", `<>|<=|>=|\.\.|[-+*/%^=<>(){}\[\],.:|!]`},
})

var symbolNames = buildSymbolNames()

func buildSymbolNames() map[lexer.TokenType]string {
	names := make(map[lexer.TokenType]string)
	for name, tt := range def.Symbols() {
		names[tt] = name
	}
	return names
}

// Tokenize lexes the full query text into a Token slice terminated by an
// EOF token, dropping whitespace and comments and classifying keywords.
func Tokenize(query string) ([]Token, error) {
	lx, err := def.Lex("query", strings.NewReader(query))
	if err != nil {
		return nil, err
	}

	var tokens []Token
	for {
		raw, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if raw.EOF() {
			tokens = append(tokens, Token{Kind: EOF, Span: spanOf(raw, raw)})
			return tokens, nil
		}

		switch symbolNames[raw.Type] {
		case "Whitespace", "Comment":
			continue
		case "BacktickIdent":
			tokens = append(tokens, Token{
				Kind: Ident,
				Text: strings.Trim(raw.Value, "`"),
				Span: spanOf(raw, raw),
			})
		case "String":
			tokens = append(tokens, Token{
				Kind: String,
				Text: unquote(raw.Value),
				Span: spanOf(raw, raw),
			})
		case "Parameter":
			tokens = append(tokens, Token{
				Kind: Parameter,
				Text: raw.Value[1:],
				Span: spanOf(raw, raw),
			})
		case "Int":
			tokens = append(tokens, Token{Kind: Int, Text: raw.Value, Span: spanOf(raw, raw)})
		case "Float":
			tokens = append(tokens, Token{Kind: Float, Text: raw.Value, Span: spanOf(raw, raw)})
		case "Ident":
			upper := strings.ToUpper(raw.Value)
			if IsKeyword(upper) {
				tokens = append(tokens, Token{Kind: Keyword, Text: upper, Span: spanOf(raw, raw)})
			} else {
				tokens = append(tokens, Token{Kind: Ident, Text: raw.Value, Span: spanOf(raw, raw)})
			}
		case "Op":
			tokens = append(tokens, Token{Kind: Punct, Text: raw.Value, Span: spanOf(raw, raw)})
		default:
			tokens = append(tokens, Token{Kind: Punct, Text: raw.Value, Span: spanOf(raw, raw)})
		}
	}
}

// spanOf builds an ast.Span from a participle token's position and
// value length. start and end are the same token; participle doesn't
// expose an end position directly, so the end row/col is derived from
// the value on the start row. A string or backtick literal that
// contains a newline therefore gets an end row equal to its start row
// and an end column counted across the newline.
func spanOf(start, end lexer.Token) ast.Span {
	endCol := start.Pos.Column + len([]rune(end.Value))
	return ast.Span{
		StartByte: start.Pos.Offset,
		EndByte:   start.Pos.Offset + len(end.Value),
		StartRow:  start.Pos.Line,
		StartCol:  start.Pos.Column,
		EndRow:    start.Pos.Line,
		EndCol:    endCol,
	}
}

func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
