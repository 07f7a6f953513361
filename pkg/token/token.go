// Package token defines the lexical tokens of the SQL subset understood by
// the parser.
//
// Core keywords are always recognised. Operator keywords that only some
// engines support (GLOB, REGEXP, ILIKE, ...) are listed in Optional and are
// switched on per dialect, so that in other dialects they remain usable as
// plain identifiers.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads better at call sites than token.Type
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier, bare or quoted
	NUMBER // 123, 45.67, 1e10, 0x1F
	STRING // 'hello'
	BLOB   // x'00ff'
	PARAM  // ?, ?1, :name, @name, $name

	// Operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	DPIPE     // ||
	EQ        // = or ==
	NE        // != or <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	AMP       // &
	PIPE      // |
	LSHIFT    // <<
	RSHIFT    // >>
	TILDE     // ~
	ARROW     // ->
	DARROW    // ->>
	DCOLON    // ::
	DOT       // .
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )

	// Keywords (alphabetical)
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	COLLATE
	CROSS
	CURRENT
	DESC
	DISTINCT
	ELSE
	END
	ESCAPE
	EXCEPT
	EXISTS
	FALSE
	FILTER
	FIRST
	FOLLOWING
	FROM
	FULL
	GLOB
	GROUP
	GROUPS
	HAVING
	ILIKE
	IN
	INNER
	INTERSECT
	IS
	ISNULL
	JOIN
	LAST
	LATERAL
	LEFT
	LIKE
	LIMIT
	MATCH
	NATURAL
	NOT
	NOTNULL
	NULL
	NULLS
	OFFSET
	ON
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	PRECEDING
	RANGE
	RECURSIVE
	REGEXP
	RIGHT
	RLIKE
	ROW
	ROWS
	SELECT
	THEN
	TRUE
	UNBOUNDED
	UNION
	USING
	VALUES
	WHEN
	WHERE
	WINDOW
	WITH
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	BLOB:   "BLOB",
	PARAM:  "PARAM",

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
	AMP:       "&",
	PIPE:      "|",
	LSHIFT:    "<<",
	RSHIFT:    ">>",
	TILDE:     "~",
	ARROW:     "->",
	DARROW:    "->>",
	DCOLON:    "::",
	DOT:       ".",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
}

// keywords maps lowercase keyword text to the core keyword tokens.
var keywords = map[string]TokenType{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"between":   BETWEEN,
	"by":        BY,
	"case":      CASE,
	"cast":      CAST,
	"collate":   COLLATE,
	"cross":     CROSS,
	"current":   CURRENT,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"else":      ELSE,
	"end":       END,
	"escape":    ESCAPE,
	"except":    EXCEPT,
	"exists":    EXISTS,
	"false":     FALSE,
	"filter":    FILTER,
	"first":     FIRST,
	"following": FOLLOWING,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"groups":    GROUPS,
	"having":    HAVING,
	"in":        IN,
	"inner":     INNER,
	"intersect": INTERSECT,
	"is":        IS,
	"join":      JOIN,
	"last":      LAST,
	"left":      LEFT,
	"like":      LIKE,
	"limit":     LIMIT,
	"natural":   NATURAL,
	"not":       NOT,
	"null":      NULL,
	"nulls":     NULLS,
	"offset":    OFFSET,
	"on":        ON,
	"or":        OR,
	"order":     ORDER,
	"outer":     OUTER,
	"over":      OVER,
	"partition": PARTITION,
	"preceding": PRECEDING,
	"range":     RANGE,
	"recursive": RECURSIVE,
	"right":     RIGHT,
	"row":       ROW,
	"rows":      ROWS,
	"select":    SELECT,
	"then":      THEN,
	"true":      TRUE,
	"unbounded": UNBOUNDED,
	"union":     UNION,
	"using":     USING,
	"values":    VALUES,
	"when":      WHEN,
	"where":     WHERE,
	"window":    WINDOW,
	"with":      WITH,
}

// Optional holds keywords that a dialect has to enable explicitly.
var Optional = map[string]TokenType{
	"glob":    GLOB,
	"ilike":   ILIKE,
	"isnull":  ISNULL,
	"lateral": LATERAL,
	"match":   MATCH,
	"notnull": NOTNULL,
	"regexp":  REGEXP,
	"rlike":   RLIKE,
}

// soft keywords may still be used as column or function names.
var soft = map[TokenType]bool{
	CURRENT:   true,
	FILTER:    true,
	FIRST:     true,
	FOLLOWING: true,
	GLOB:      true,
	GROUPS:    true,
	LAST:      true,
	MATCH:     true,
	NULLS:     true,
	OVER:      true,
	PARTITION: true,
	PRECEDING: true,
	RANGE:     true,
	RECURSIVE: true,
	REGEXP:    true,
	ROW:       true,
	ROWS:      true,
	UNBOUNDED: true,
	WINDOW:    true,
}

func init() {
	for name, t := range keywords {
		tokenNames[t] = upper(name)
	}
	for name, t := range Optional {
		tokenNames[t] = upper(name)
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// LookupIdent returns the core keyword token for a lowercase identifier, or
// IDENT when it is not a core keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is a keyword token.
func IsKeyword(t TokenType) bool {
	return t >= ALL && t <= WITH
}

// IsOperator reports whether t is an operator or punctuation token.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RPAREN
}

// IsSoftKeyword reports whether a keyword can double as an identifier.
func IsSoftKeyword(t TokenType) bool {
	return soft[t]
}

// Position is a location in the source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	// Quoted is set for identifiers written as "x", `x` or [x]; they never
	// turn into keywords.
	Quoted bool
}
