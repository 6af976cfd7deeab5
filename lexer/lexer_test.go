package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"paracl/report"
	"paracl/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestScanBasicProgram(t *testing.T) {
	src := "a = 1 + 2 * 3; print a;"
	r := report.NewReporter()
	tokens := New("t.cl", src).Scan(r)

	require.False(t, r.HasErrors())
	require.Equal(t, []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.SEMI,
		token.PRINT, token.IDENT, token.SEMI, token.EOF,
	}, kinds(tokens))
}

func TestScanKeywordsAndOperators(t *testing.T) {
	src := "if (x >= 1 && y != 0) { continue; } else { break; }"
	r := report.NewReporter()
	tokens := New("t.cl", src).Scan(r)

	require.False(t, r.HasErrors())
	require.Equal(t, []token.Kind{
		token.IF, token.LPAREN, token.IDENT, token.GE, token.INT, token.AND, token.IDENT, token.NE, token.INT, token.RPAREN,
		token.LBRACE, token.CONTINUE, token.SEMI, token.RBRACE,
		token.ELSE, token.LBRACE, token.BREAK, token.SEMI, token.RBRACE, token.EOF,
	}, kinds(tokens))
}

func TestScanSkipsComments(t *testing.T) {
	src := "a = 1; // line comment\n/* block\ncomment */ b = 2;"
	r := report.NewReporter()
	tokens := New("t.cl", src).Scan(r)

	require.False(t, r.HasErrors())
	require.Equal(t, []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.IDENT, token.ASSIGN, token.INT, token.SEMI, token.EOF,
	}, kinds(tokens))
}

func TestScanRecoversFromUnknownToken(t *testing.T) {
	src := "a = 1 @ 2;"
	r := report.NewReporter()
	tokens := New("t.cl", src).Scan(r)

	require.True(t, r.HasErrors())
	require.Equal(t, report.UnknownToken, r.Errors()[0].Kind)
	// the '@' is dropped but scanning continues to EOF
	require.Equal(t, token.EOF, tokens[len(tokens)-1].Kind)
}

func TestScanUnterminatedComment(t *testing.T) {
	src := "a = 1; /* never closes"
	r := report.NewReporter()
	New("t.cl", src).Scan(r)

	require.True(t, r.HasErrors())
	require.Equal(t, report.UnterminatedComment, r.Errors()[0].Kind)
}

func TestScanPostfixVsOperators(t *testing.T) {
	src := "a++; a--; a + +a; a - -a;"
	r := report.NewReporter()
	tokens := New("t.cl", src).Scan(r)

	require.False(t, r.HasErrors())
	require.Equal(t, []token.Kind{
		token.IDENT, token.INC, token.SEMI,
		token.IDENT, token.DEC, token.SEMI,
		token.IDENT, token.PLUS, token.PLUS, token.IDENT, token.SEMI,
		token.IDENT, token.MINUS, token.MINUS, token.IDENT, token.SEMI,
		token.EOF,
	}, kinds(tokens))
}
