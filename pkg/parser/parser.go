// Package parser provides SQL DDL parsing with dialect-aware identifier
// quoting and keyword handling.
//
// # Usage
//
//	stmts, err := parser.ParseStatements(ddl, myDialect)
//	if err != nil {
//	    // handle error
//	}
//
// The dialect controls identifier quoting (double quotes, backticks),
// the known data types, and dialect keyword registration. Use the
// dialect registry to get a dialect by name:
//
//	d, err := dialect.MustGet("postgres")
//	stmts, err := parser.ParseStatements(ddl, d)
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for the DDL subset
// of SQL:
//
//	script        → statement (';' statement)* [';']
//	statement     → create_table | create_index | create_schema
//	              | create_type | alter_table | drop_statement
//	create_table  → CREATE TABLE [IF NOT EXISTS] object_name
//	                '(' table_element (',' table_element)* ')'
//	table_element → column_def | table_constraint
//	alter_table   → ALTER TABLE [IF EXISTS] object_name
//	                alter_action (',' alter_action)*
//
// Statements outside this subset are skipped up to the next ';' by
// default, or rejected when RejectUnknown is set. See each file for
// detailed grammar rules for that section.
package parser

import (
	"fmt"
	"strings"

	"github.com/fernwood-labs/schemacat/pkg/dialect"
	"github.com/fernwood-labs/schemacat/pkg/token"
)

// Parser parses SQL DDL into an AST.
type Parser struct {
	lexer   *Lexer
	input   string
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	prev    token.Token // most recently consumed token
	errors  []error
	dialect *dialect.Dialect // optional

	// RejectUnknown turns statements outside the DDL grammar into a
	// parse error instead of skipping them.
	RejectUnknown bool

	skipped []SkippedStatement
}

// SkippedStatement records a statement the parser passed over because
// it falls outside the supported grammar.
type SkippedStatement struct {
	Lead string // first token of the statement, as written
	Span token.Span
}

// NewParser creates a new parser for the given SQL input. The dialect
// may be nil, in which case ANSI identifier quoting and only builtin
// keywords apply.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	p := &Parser{
		lexer:   NewLexerWithDialect(sql, d),
		input:   sql,
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// ParseStatements parses all statements in the input with the given
// dialect. On error it returns the statements parsed so far along with
// the first error encountered.
func ParseStatements(sql string, d *dialect.Dialect) ([]Statement, error) {
	return NewParser(sql, d).ParseStatements()
}

// Dialect returns the parser's dialect, if any.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// Skipped returns the statements passed over so far.
func (p *Parser) Skipped() []SkippedStatement {
	return p.skipped
}

// Errors returns all errors accumulated so far.
func (p *Parser) Errors() []error {
	return p.errors
}

// ParseStatements parses statements until end of input. The first
// error stops parsing; statements completed before it are returned.
func (p *Parser) ParseStatements() ([]Statement, error) {
	var stmts []Statement
	nextComment := 0
	for {
		for p.check(token.SEMICOLON) {
			p.nextToken()
		}
		if p.check(token.EOF) {
			break
		}
		if p.check(token.ILLEGAL) {
			return stmts, p.tokenError()
		}

		before := len(p.errors)
		stmt := p.parseStatement()
		if len(p.errors) > before {
			return stmts, p.errors[before]
		}
		if stmt == nil {
			continue // unknown statement skipped
		}
		if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
			p.addErrorExpected(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.SEMICOLON), ";")
			return stmts, p.errors[len(p.errors)-1]
		}
		p.attachComments(stmt, &nextComment)
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// attachComments attaches comments that precede the statement as
// leading comments; comments inside the statement body are dropped.
func (p *Parser) attachComments(stmt Statement, next *int) {
	span := stmt.GetSpan()
	for *next < len(p.lexer.Comments) {
		c := p.lexer.Comments[*next]
		if c.Span.End.Offset <= span.Start.Offset {
			stmt.(interface{ AddLeadingComment(*token.Comment) }).AddLeadingComment(c)
		} else if c.Span.Start.Offset < span.End.Offset {
			// interior comment, skip
		} else {
			return
		}
		*next++
	}
}

// parseStatement dispatches on the statement's leading keywords.
// It returns nil for unknown statements that were skipped.
func (p *Parser) parseStatement() Statement {
	switch p.token.Type {
	case token.CREATE:
		switch {
		case p.checkPeek(token.TABLE):
			return p.parseCreateTable()
		case p.checkPeek(token.INDEX),
			p.checkPeek(token.UNIQUE) && p.checkPeek2(token.INDEX):
			return p.parseCreateIndex()
		case p.checkPeek(token.SCHEMA):
			return p.parseCreateSchema()
		case p.checkPeek(token.TYPE):
			return p.parseCreateType()
		}
	case token.ALTER:
		if p.checkPeek(token.TABLE) {
			return p.parseAlterTable()
		}
	case token.DROP:
		switch {
		case p.checkPeek(token.TABLE):
			return p.parseDropTable()
		case p.checkPeek(token.INDEX):
			return p.parseDropIndex()
		case p.checkPeek(token.SCHEMA):
			return p.parseDropSchema()
		}
	}
	return p.unknownStatement()
}

// unknownStatement handles a statement outside the DDL grammar:
// either record a parse error or scan forward to the next top-level
// ';' and continue.
func (p *Parser) unknownStatement() Statement {
	lead := p.token
	if p.RejectUnknown {
		p.addErrorExpected(
			fmt.Sprintf(ErrUnsupportedStatement, lead.Type),
			"CREATE, ALTER or DROP statement",
		)
		return nil
	}
	for !p.check(token.SEMICOLON) && !p.check(token.EOF) && !p.check(token.ILLEGAL) {
		p.nextToken()
	}
	if p.check(token.ILLEGAL) {
		p.addErrorExpected(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, token.SEMICOLON), ";")
		return nil
	}
	p.skipped = append(p.skipped, SkippedStatement{
		Lead: lead.Literal,
		Span: token.Span{Start: lead.Pos, End: p.prev.End},
	})
	return nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prev = p.token
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// checkPeek2 returns true if the peek2 token is of the given type.
func (p *Parser) checkPeek2(t token.TokenType) bool {
	return p.peek2.Type == t
}

// checkIdent returns true if the current token is a plain identifier
// spelling the given word, case-insensitively.
func (p *Parser) checkIdent(word string) bool {
	return p.check(token.IDENT) && strings.EqualFold(p.token.Literal, word)
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// matchIdent consumes the current token if it is a plain identifier
// spelling the given word.
func (p *Parser) matchIdent(word string) bool {
	if p.checkIdent(word) {
		p.nextToken()
		return true
	}
	return false
}

// matchIfNotExists consumes an IF NOT EXISTS clause if present.
func (p *Parser) matchIfNotExists() bool {
	if p.check(token.IF) && p.checkPeek(token.NOT) && p.checkPeek2(token.EXISTS) {
		p.nextToken()
		p.nextToken()
		p.nextToken()
		return true
	}
	return false
}

// matchIfExists consumes an IF EXISTS clause if present.
func (p *Parser) matchIfExists() bool {
	if p.check(token.IF) && p.checkPeek(token.EXISTS) {
		p.nextToken()
		p.nextToken()
		return true
	}
	return false
}

// ok reports whether no error has been recorded yet. Statement parsing
// bails out at the first error, so this doubles as a per-statement
// error check.
func (p *Parser) ok() bool {
	return len(p.errors) == 0
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addErrorExpected(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, t), t.String())
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.addErrorExpected(msg, "")
}

// addErrorExpected adds a parse error naming the construct the parser
// was looking for. A pending lexical error takes precedence, so that
// malformed input surfaces as the LexError that caused it.
func (p *Parser) addErrorExpected(msg, expected string) {
	if p.check(token.ILLEGAL) {
		if lexErr := p.lexer.Err(); lexErr != nil {
			p.errors = append(p.errors, lexErr)
			return
		}
	}
	p.errors = append(p.errors, &ParseError{
		Pos:      p.token.Pos,
		Span:     p.token.Span(),
		Message:  msg,
		Expected: expected,
	})
}

// tokenError converts the current ILLEGAL token into an error.
func (p *Parser) tokenError() error {
	if lexErr := p.lexer.Err(); lexErr != nil {
		return lexErr
	}
	return &ParseError{
		Pos:     p.token.Pos,
		Span:    p.token.Span(),
		Message: fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "statement"),
	}
}

// ---------- Name Helpers ----------

// parseName parses a plain or quoted identifier.
func (p *Parser) parseName() Name {
	if !token.IsName(p.token.Type) {
		p.addErrorExpected(fmt.Sprintf(ErrExpectedIdentifier, p.token.Type), "identifier")
		return Name{}
	}
	return p.takeName()
}

// parseColumnName parses a column name. Non-reserved keywords are
// accepted here: a column may legitimately be called "key" or "action".
func (p *Parser) parseColumnName() Name {
	if !token.IsName(p.token.Type) && !token.IsKeyword(p.token.Type) && !token.IsDynamic(p.token.Type) {
		p.addErrorExpected(fmt.Sprintf(ErrExpectedIdentifier, p.token.Type), "column name")
		return Name{}
	}
	return p.takeName()
}

// takeName consumes the current token as a Name.
func (p *Parser) takeName() Name {
	quoted := p.check(token.QIDENT)
	if quoted && p.token.Literal == "" {
		p.addError(ErrEmptyIdentifier)
		return Name{}
	}
	n := Name{Value: p.token.Literal, Quoted: quoted, Span: p.token.Span()}
	p.nextToken()
	return n
}

// parseObjectName parses a possibly schema-qualified name.
func (p *Parser) parseObjectName() ObjectName {
	first := p.parseName()
	if !p.match(token.DOT) {
		return ObjectName{Name: first}
	}
	second := p.parseName()
	if p.check(token.DOT) {
		p.addError(ErrTooManyNameParts)
	}
	return ObjectName{Schema: first, Name: second}
}

// parseColumnNameList parses a parenthesized, comma-separated list of
// column names.
func (p *Parser) parseColumnNameList() []Name {
	if !p.expect(token.LPAREN) {
		return nil
	}
	if p.check(token.RPAREN) {
		p.addError(ErrEmptyColumnList)
		return nil
	}
	var names []Name
	for {
		n := p.parseColumnName()
		if n.IsZero() {
			return names
		}
		names = append(names, n)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return names
}

// ---------- Raw Expressions ----------

// parseRawExpr captures expression source text verbatim until a stop
// token at paren depth zero. EOF, ';' and lexical errors always stop
// the capture.
func (p *Parser) parseRawExpr(stop func(t token.Token) bool) *RawExpr {
	start := p.token.Pos
	end := p.token.Pos
	depth := 0
loop:
	for {
		switch {
		case p.check(token.EOF) || p.check(token.SEMICOLON) || p.check(token.ILLEGAL):
			break loop
		case p.check(token.LPAREN):
			depth++
		case p.check(token.RPAREN):
			if depth == 0 {
				break loop
			}
			depth--
		case depth == 0 && stop(p.token):
			break loop
		}
		end = p.token.End
		p.nextToken()
	}
	text := strings.TrimSpace(p.input[start.Offset:end.Offset])
	if text == "" {
		p.addErrorExpected(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, "expression"), "expression")
		return nil
	}
	return &RawExpr{Text: text, Span: token.Span{Start: start, End: end}}
}

// parseParenRawExpr captures the source text between a balanced pair
// of parentheses, as used by CHECK constraints.
func (p *Parser) parseParenRawExpr() *RawExpr {
	if !p.expect(token.LPAREN) {
		return nil
	}
	start := p.token.Pos
	end := p.token.Pos
	depth := 0
loop:
	for {
		switch {
		case p.check(token.EOF) || p.check(token.SEMICOLON) || p.check(token.ILLEGAL):
			break loop
		case p.check(token.LPAREN):
			depth++
		case p.check(token.RPAREN):
			if depth == 0 {
				break loop
			}
			depth--
		}
		end = p.token.End
		p.nextToken()
	}
	text := strings.TrimSpace(p.input[start.Offset:end.Offset])
	if !p.expect(token.RPAREN) {
		return nil
	}
	if text == "" {
		p.addErrorExpected("expected expression inside parentheses", "expression")
		return nil
	}
	return &RawExpr{Text: text, Span: token.Span{Start: start, End: end}}
}
