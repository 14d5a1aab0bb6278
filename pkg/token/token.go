// Package token defines the token types for SQL DDL parsing.
//
// Core tokens are defined as constants (IDs 0-999) for switch performance.
// Dialect-specific tokens are registered dynamically via Register().
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier
	QIDENT // "Quoted Identifier" (case preserved verbatim)
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'

	// Operators and punctuation
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // =
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	DCOLON    // ::
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]

	// DDL keywords (alphabetical)
	ACTION
	ADD
	ALTER
	AS
	CASCADE
	CHECK
	COLUMN
	CONSTRAINT
	CREATE
	DEFAULT
	DELETE
	DROP
	ENUM
	EXISTS
	FOREIGN
	IF
	INDEX
	KEY
	NO
	NOT
	NULL
	ON
	PRIMARY
	REFERENCES
	RENAME
	RESTRICT
	SCHEMA
	SET
	TABLE
	TO
	TYPE
	UNIQUE
	UPDATE

	// Sentinel - dynamic tokens start after this
	maxBuiltin TokenType = 999
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	// Check dynamic tokens first
	if name, ok := getDynamicName(t); ok {
		return name
	}
	// Then check builtin tokens
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps builtin token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	QIDENT: "QIDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	DPIPE:     "||",
	EQ:        "=",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	DCOLON:    "::",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",

	ACTION:     "ACTION",
	ADD:        "ADD",
	ALTER:      "ALTER",
	AS:         "AS",
	CASCADE:    "CASCADE",
	CHECK:      "CHECK",
	COLUMN:     "COLUMN",
	CONSTRAINT: "CONSTRAINT",
	CREATE:     "CREATE",
	DEFAULT:    "DEFAULT",
	DELETE:     "DELETE",
	DROP:       "DROP",
	ENUM:       "ENUM",
	EXISTS:     "EXISTS",
	FOREIGN:    "FOREIGN",
	IF:         "IF",
	INDEX:      "INDEX",
	KEY:        "KEY",
	NO:         "NO",
	NOT:        "NOT",
	NULL:       "NULL",
	ON:         "ON",
	PRIMARY:    "PRIMARY",
	REFERENCES: "REFERENCES",
	RENAME:     "RENAME",
	RESTRICT:   "RESTRICT",
	SCHEMA:     "SCHEMA",
	SET:        "SET",
	TABLE:      "TABLE",
	TO:         "TO",
	TYPE:       "TYPE",
	UNIQUE:     "UNIQUE",
	UPDATE:     "UPDATE",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"action":     ACTION,
	"add":        ADD,
	"alter":      ALTER,
	"as":         AS,
	"cascade":    CASCADE,
	"check":      CHECK,
	"column":     COLUMN,
	"constraint": CONSTRAINT,
	"create":     CREATE,
	"default":    DEFAULT,
	"delete":     DELETE,
	"drop":       DROP,
	"enum":       ENUM,
	"exists":     EXISTS,
	"foreign":    FOREIGN,
	"if":         IF,
	"index":      INDEX,
	"key":        KEY,
	"no":         NO,
	"not":        NOT,
	"null":       NULL,
	"on":         ON,
	"primary":    PRIMARY,
	"references": REFERENCES,
	"rename":     RENAME,
	"restrict":   RESTRICT,
	"schema":     SCHEMA,
	"set":        SET,
	"table":      TABLE,
	"to":         TO,
	"type":       TYPE,
	"unique":     UNIQUE,
	"update":     UPDATE,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
// This only checks builtin keywords; use LookupDynamicKeyword for dialect keywords.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a builtin keyword.
func IsKeyword(t TokenType) bool {
	return t >= ACTION && t <= UPDATE
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RBRACKET
}

// IsName returns true if the token type can serve as an object name
// (plain or quoted identifier).
func IsName(t TokenType) bool {
	return t == IDENT || t == QIDENT
}

// Token represents a lexical token with position information.
// End is one past the last source byte of the token, so quoted forms
// (strings, quoted identifiers) span their delimiters.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     Position
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}
