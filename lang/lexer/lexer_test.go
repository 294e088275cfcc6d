package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/cycles/lang/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	lx := New(input)
	require.NoError(t, lx.Lex())
	var toks []token.Token
	for {
		tok := lx.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tk := range toks {
		out[i] = tk.Type
	}
	return out
}

func TestLexerTokenizesArrowFunction(t *testing.T) {
	toks := tokenize(t, "(a, b) => a + b")
	require.Equal(t, []token.Type{
		token.LParen, token.Ident, token.Comma, token.Ident, token.RParen,
		token.Arrow, token.Ident, token.Plus, token.Ident, token.EOF,
	}, types(toks))
}

func TestLexerHandlesTwoCharOperatorsBeforeOneChar(t *testing.T) {
	toks := tokenize(t, "a == b && c != d || e <= f >= g")
	want := []token.Type{
		token.Ident, token.Eq, token.Ident, token.And, token.Ident, token.Neq,
		token.Ident, token.Or, token.Ident, token.Lte, token.Ident, token.Gte,
		token.Ident, token.EOF,
	}
	require.Equal(t, want, types(toks))
}

func TestLexerReadsStringEscapes(t *testing.T) {
	toks := tokenize(t, `"hi\nthere"`)
	require.Equal(t, "hi\nthere", toks[0].Value)
}

func TestLexerReadsAllThreeQuoteStyles(t *testing.T) {
	for _, src := range []string{`"a"`, `'a'`, "`a`"} {
		toks := tokenize(t, src)
		require.Equal(t, token.String, toks[0].Type)
		require.Equal(t, "a", toks[0].Value)
	}
}

func TestLexerSkipsLineComments(t *testing.T) {
	toks := tokenize(t, "let x = 1 // a comment\nlet y = 2")
	require.Equal(t, token.Let, toks[0].Type)
	require.Equal(t, "1", toks[3].Value)
}

func TestLexerReadsDecimalNumbers(t *testing.T) {
	toks := tokenize(t, "1 2.5 0.125")
	require.Equal(t, []string{"1", "2.5", "0.125"}, []string{toks[0].Value, toks[1].Value, toks[2].Value})
}

func TestLexerKeywordsVsIdentifiers(t *testing.T) {
	toks := tokenize(t, "let letter import importer")
	require.Equal(t, []token.Type{token.Let, token.Ident, token.Import, token.Ident, token.EOF}, types(toks))
}

func TestLexerRejectsUnterminatedString(t *testing.T) {
	lx := New(`"abc`)
	require.Error(t, lx.Lex())
}
