package parser

import (
	"fmt"

	"github.com/fernwood-labs/schemacat/pkg/token"
)

// ParseError represents a parsing error with position information.
// Expected names the construct the parser was looking for when the
// input diverged; it is empty when no single construct applies.
type ParseError struct {
	Pos      token.Position
	Span     token.Span
	Message  string
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error. Span covers the
// offending input, starting at the opening quote for unterminated
// literals.
type LexError struct {
	Pos     token.Position
	Span    token.Span
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken        = "unexpected token %s, expected %s"
	ErrUnterminatedString     = "unterminated string literal"
	ErrUnterminatedIdentifier = "unterminated quoted identifier"
	ErrUnterminatedComment    = "unterminated block comment"
	ErrUnexpectedCharacter    = "unexpected character %q"
	ErrExpectedIdentifier     = "expected identifier, got %s"
	ErrExpectedType           = "expected data type, got %s"
	ErrEmptyIdentifier        = "zero-length quoted identifier"
	ErrTooManyNameParts       = "qualified name has too many parts"

	// Statement-level error messages
	ErrUnsupportedStatement = "unsupported statement beginning with %s"
	ErrEmptyColumnList      = "column list must name at least one column"
)
