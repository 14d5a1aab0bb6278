package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwood-labs/schemacat/pkg/dialects/mysql"
	"github.com/fernwood-labs/schemacat/pkg/parser"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

type wantToken struct {
	typ token.TokenType
	lit string
}

func lexAll(t *testing.T, l *parser.Lexer) []token.Token {
	t.Helper()
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks
		}
		toks = append(toks, tok)
		require.Less(t, len(toks), 1000, "lexer did not terminate")
	}
}

func assertTokens(t *testing.T, input string, want []wantToken) {
	t.Helper()
	l := parser.NewLexer(input)
	toks := lexAll(t, l)
	require.Nil(t, l.Err(), "unexpected lex error for %q", input)
	require.Len(t, toks, len(want), "token count for %q", input)
	for i, w := range want {
		assert.Equal(t, w.typ, toks[i].Type, "token %d type in %q", i, input)
		assert.Equal(t, w.lit, toks[i].Literal, "token %d literal in %q", i, input)
	}
}

func TestLexerBasicStatement(t *testing.T) {
	assertTokens(t, "CREATE TABLE users (id int);", []wantToken{
		{token.CREATE, "CREATE"},
		{token.TABLE, "TABLE"},
		{token.IDENT, "users"},
		{token.LPAREN, "("},
		{token.IDENT, "id"},
		{token.IDENT, "int"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
	})
}

func TestLexerKeywordsCaseInsensitive(t *testing.T) {
	assertTokens(t, "create Table DROP aLtEr", []wantToken{
		{token.CREATE, "create"},
		{token.TABLE, "Table"},
		{token.DROP, "DROP"},
		{token.ALTER, "aLtEr"},
	})
}

func TestLexerQuotedIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []wantToken
	}{
		{
			name:  "case preserved",
			input: `"Users"`,
			want:  []wantToken{{token.QIDENT, "Users"}},
		},
		{
			name:  "keyword spelling stays identifier",
			input: `"table"`,
			want:  []wantToken{{token.QIDENT, "table"}},
		},
		{
			name:  "doubled quote escape",
			input: `"col""name"`,
			want:  []wantToken{{token.QIDENT, `col"name`}},
		},
		{
			name:  "qualified name",
			input: `"My Schema"."My Table"`,
			want: []wantToken{
				{token.QIDENT, "My Schema"},
				{token.DOT, "."},
				{token.QIDENT, "My Table"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.want)
		})
	}
}

func TestLexerStrings(t *testing.T) {
	assertTokens(t, `'hello' 'it''s' ''`, []wantToken{
		{token.STRING, "hello"},
		{token.STRING, "it's"},
		{token.STRING, ""},
	})
}

func TestLexerNumbers(t *testing.T) {
	assertTokens(t, "0 42 3.14 1e10 2.5E-3", []wantToken{
		{token.NUMBER, "0"},
		{token.NUMBER, "42"},
		{token.NUMBER, "3.14"},
		{token.NUMBER, "1e10"},
		{token.NUMBER, "2.5E-3"},
	})
}

func TestLexerOperators(t *testing.T) {
	assertTokens(t, "( ) [ ] , ; . :: || <> != <= >= < > = + - * / %", []wantToken{
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.COMMA, ","},
		{token.SEMICOLON, ";"},
		{token.DOT, "."},
		{token.DCOLON, "::"},
		{token.DPIPE, "||"},
		{token.NE, "<>"},
		{token.NE, "!="},
		{token.LE, "<="},
		{token.GE, ">="},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.EQ, "="},
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.STAR, "*"},
		{token.SLASH, "/"},
		{token.PERCENT, "%"},
	})
}

func TestLexerComments(t *testing.T) {
	input := "-- leading\nCREATE /* inline */ TABLE t (id int)"
	l := parser.NewLexer(input)
	toks := lexAll(t, l)
	require.Nil(t, l.Err())

	require.Len(t, l.Comments, 2)
	assert.Equal(t, token.LineComment, l.Comments[0].Kind)
	assert.Equal(t, "-- leading", l.Comments[0].Text)
	assert.Equal(t, token.BlockComment, l.Comments[1].Kind)
	assert.Equal(t, "/* inline */", l.Comments[1].Text)

	// Comments never surface as tokens
	assert.Equal(t, token.CREATE, toks[0].Type)
	assert.Equal(t, token.TABLE, toks[1].Type)
}

func TestLexerPositions(t *testing.T) {
	input := "CREATE TABLE t\n(id int)"
	l := parser.NewLexer(input)
	toks := lexAll(t, l)
	require.Nil(t, l.Err())
	require.Len(t, toks, 7)

	create := toks[0]
	assert.Equal(t, 1, create.Pos.Line)
	assert.Equal(t, 1, create.Pos.Column)
	assert.Equal(t, 0, create.Pos.Offset)
	assert.Equal(t, 6, create.End.Offset)

	table := toks[1]
	assert.Equal(t, 7, table.Pos.Offset)
	assert.Equal(t, 8, table.Pos.Column)

	lparen := toks[3]
	assert.Equal(t, 2, lparen.Pos.Line)
	assert.Equal(t, 1, lparen.Pos.Column)
	assert.Equal(t, 15, lparen.Pos.Offset)

	// Span covers exactly the source bytes of the token
	id := toks[4]
	assert.Equal(t, "id", input[id.Pos.Offset:id.End.Offset])
}

func TestLexerUnterminatedString(t *testing.T) {
	l := parser.NewLexer("CREATE TABLE t (n text DEFAULT 'oops)")
	toks := lexAll(t, l)

	last := toks[len(toks)-1]
	assert.Equal(t, token.ILLEGAL, last.Type)

	err := l.Err()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 32, err.Pos.Column)
	assert.Equal(t, 31, err.Span.Start.Offset)
	assert.Equal(t, len("CREATE TABLE t (n text DEFAULT 'oops)"), err.Span.End.Offset)
}

func TestLexerUnterminatedQuotedIdentifier(t *testing.T) {
	l := parser.NewLexer(`CREATE TABLE "users`)
	toks := lexAll(t, l)

	last := toks[len(toks)-1]
	assert.Equal(t, token.ILLEGAL, last.Type)

	err := l.Err()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unterminated quoted identifier")
	assert.Equal(t, 13, err.Span.Start.Offset)
}

func TestLexerUnterminatedBlockComment(t *testing.T) {
	l := parser.NewLexer("CREATE /* never closed")
	toks := lexAll(t, l)

	last := toks[len(toks)-1]
	assert.Equal(t, token.ILLEGAL, last.Type)

	err := l.Err()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unterminated block comment")
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "question mark", input: "CREATE ? TABLE"},
		{name: "at sign", input: "@@version"},
		{name: "lone bang", input: "a ! b"},
		{name: "lone pipe", input: "a | b"},
		{name: "lone colon", input: "a : b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			toks := lexAll(t, l)

			var sawIllegal bool
			for _, tok := range toks {
				if tok.Type == token.ILLEGAL {
					sawIllegal = true
				}
			}
			assert.True(t, sawIllegal, "expected an ILLEGAL token")
			require.NotNil(t, l.Err())
			assert.Contains(t, l.Err().Error(), "unexpected character")
		})
	}
}

func TestLexerErrIsFirstError(t *testing.T) {
	l := parser.NewLexer("? @")
	lexAll(t, l)
	require.NotNil(t, l.Err())
	assert.Equal(t, 0, l.Err().Span.Start.Offset, "first error wins")
}

func TestLexerMySQLBackticks(t *testing.T) {
	l := parser.NewLexerWithDialect("CREATE TABLE `My``Table` (`id` int unsigned)", mysql.MySQL)
	toks := lexAll(t, l)
	require.Nil(t, l.Err())

	assert.Equal(t, token.QIDENT, toks[2].Type)
	assert.Equal(t, "My`Table", toks[2].Literal)
	assert.Equal(t, token.QIDENT, toks[4].Type)
	assert.Equal(t, "id", toks[4].Literal)

	// Dialect keyword registered by the MySQL package
	assert.Equal(t, mysql.TokenUnsigned, toks[6].Type)
}

func TestLexerBacktickIsIllegalForANSI(t *testing.T) {
	l := parser.NewLexer("CREATE TABLE `users`")
	lexAll(t, l)
	require.NotNil(t, l.Err())
	assert.Contains(t, l.Err().Error(), "unexpected character")
}

func TestTokenize(t *testing.T) {
	toks := parser.Tokenize("DROP TABLE t;")
	require.Len(t, toks, 5)
	assert.Equal(t, token.EOF, toks[4].Type)
}
