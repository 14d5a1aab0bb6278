package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// Lexer tokenizes SQL DDL input.
//
// Tokens are produced lazily, one NextToken call at a time. The lexer
// never gives up on malformed input: it emits an ILLEGAL token and
// records the first LexError, which callers surface via Err().
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	quote    byte // identifier quote char, dialect-dependent (e.g. '`' for MySQL)
	quoteEnd byte // closing identifier quote char

	// Dialect support (optional)
	dialect *dialect.Dialect

	err        *LexError
	errEmitted bool

	// Comments collected during lexing
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input using ANSI
// double-quote identifier quoting and builtin keywords only.
func NewLexer(input string) *Lexer {
	return NewLexerWithDialect(input, nil)
}

// NewLexerWithDialect creates a new dialect-aware Lexer for the given input.
// A nil dialect behaves like NewLexer.
func NewLexerWithDialect(input string, d *dialect.Dialect) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		col:      0,
		quote:    '"',
		quoteEnd: '"',
		dialect:  d,
	}
	if d != nil && len(d.Identifiers.Quote) == 1 {
		l.quote = d.Identifiers.Quote[0]
		l.quoteEnd = l.quote
		if len(d.Identifiers.QuoteEnd) == 1 {
			l.quoteEnd = d.Identifiers.QuoteEnd[0]
		}
	}
	l.readChar()
	return l
}

// Err returns the first lexical error encountered, or nil.
func (l *Lexer) Err() *LexError {
	return l.err
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// setErr records the first lexical error; later errors are dropped.
func (l *Lexer) setErr(msg string, start, end token.Position) {
	if l.err == nil {
		l.err = &LexError{
			Pos:     start,
			Span:    token.Span{Start: start, End: end},
			Message: msg,
		}
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	// An unterminated block comment is only detected while skipping;
	// surface it as a single ILLEGAL token here.
	if l.err != nil && !l.errEmitted && l.ch == 0 {
		l.errEmitted = true
		return token.Token{
			Type:    token.ILLEGAL,
			Literal: l.input[l.err.Span.Start.Offset:l.err.Span.End.Offset],
			Pos:     l.err.Pos,
			End:     l.err.Span.End,
		}
	}

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		tok.End = pos
		return tok
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			tok = l.illegalChar(pos)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = token.Token{Type: token.DPIPE, Literal: "||", Pos: pos}
		} else {
			tok = l.illegalChar(pos)
		}
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = token.Token{Type: token.DCOLON, Literal: "::", Pos: pos}
		} else {
			tok = l.illegalChar(pos)
		}
	case '.':
		tok = l.newToken(token.DOT, ".")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '\'':
		startOffset := l.pos
		lit, terminated := l.readString()
		end := l.currentPos()
		if !terminated {
			l.setErr(ErrUnterminatedString, pos, end)
			l.errEmitted = true
			return token.Token{Type: token.ILLEGAL, Literal: l.input[startOffset:l.pos], Pos: pos, End: end}
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos, End: end}
	case '"':
		// ANSI quoted identifier, accepted regardless of dialect
		return l.lexQuotedIdentifier(pos, '"')
	default:
		switch {
		case l.ch == l.quote:
			// Dialect identifier quote (e.g. backtick for MySQL)
			return l.lexQuotedIdentifier(pos, l.quoteEnd)
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			if l.dialect != nil {
				tok.Type = l.dialect.LookupKeyword(tok.Literal)
			} else {
				tok.Type = token.LookupIdent(strings.ToLower(tok.Literal))
			}
			// Fallback to dynamically registered keywords (from dialect packages)
			if tok.Type == token.IDENT {
				if dynTok, ok := token.LookupDynamicKeyword(strings.ToLower(tok.Literal)); ok {
					tok.Type = dynTok
				}
			}
			tok.End = l.currentPos()
			return tok
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.End = l.currentPos()
			return tok
		default:
			tok = l.illegalChar(pos)
		}
	}

	l.readChar()
	tok.End = l.currentPos()
	return tok
}

// newToken creates a new token at the current position.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// illegalChar builds an ILLEGAL token for the current character and
// records the error.
func (l *Lexer) illegalChar(pos token.Position) token.Token {
	end := pos
	end.Column++
	end.Offset++
	l.setErr(fmt.Sprintf(ErrUnexpectedCharacter, rune(l.ch)), pos, end)
	l.errEmitted = true
	return token.Token{Type: token.ILLEGAL, Literal: string(l.ch), Pos: pos}
}

// lexQuotedIdentifier scans a quoted identifier, preserving case.
func (l *Lexer) lexQuotedIdentifier(pos token.Position, closeQuote byte) token.Token {
	startOffset := l.pos
	lit, terminated := l.readQuotedIdentifier(closeQuote)
	end := l.currentPos()
	if !terminated {
		l.setErr(ErrUnterminatedIdentifier, pos, end)
		l.errEmitted = true
		return token.Token{Type: token.ILLEGAL, Literal: l.input[startOffset:l.pos], Pos: pos, End: end}
	}
	return token.Token{Type: token.QIDENT, Literal: lit, Pos: pos, End: end}
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		// Skip whitespace
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		// Collect line comment (-- ...)
		if l.ch == '-' && l.peekChar() == '-' {
			l.collectLineComment()
			continue
		}

		// Collect block comment (/* ... */)
		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	// Consume until end of line
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment. Reaching EOF before the
// closing delimiter records an unterminated-comment error.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	terminated := false
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			terminated = true
			break
		}
		l.readChar()
	}

	if !terminated {
		l.setErr(ErrUnterminatedComment, startPos, l.currentPos())
		return
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's
func (l *Lexer) readString() (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				// Doubled quote escape
				result.WriteByte('\'')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
			} else {
				// End of string
				l.readChar() // skip closing quote
				return result.String(), true
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String(), false
}

// readQuotedIdentifier reads a quoted identifier.
// Handles doubled closing quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier(closeQuote byte) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == closeQuote {
			if l.peekChar() == closeQuote {
				// Doubled quote escape
				result.WriteByte(closeQuote)
				l.readChar() // skip first quote
				l.readChar() // skip second quote
			} else {
				// End of identifier
				l.readChar() // skip closing quote
				return result.String(), true
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String(), false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
