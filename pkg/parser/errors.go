package parser

import (
	"fmt"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// ParseError is a syntax error with the position of the offending token.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError is a tokenization error such as an unterminated string.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken      = "unexpected token %s, expected %s"
	ErrUnexpectedInExpr     = "unexpected token in expression: %s"
	ErrTrailingInput        = "unexpected %s after end of statement"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedIdent    = "unterminated quoted identifier"
	ErrUnterminatedComment  = "unterminated block comment"
	ErrUnexpectedCharacter  = "unexpected character %q"
	ErrNaturalJoinCondition = "NATURAL JOIN cannot have %s clause"
)
