// Package parser turns a single SQL query into a typed AST.
//
// # Usage
//
//	stmt, err := parser.Parse("SELECT a, b FROM t")
//
// Dialects change lexing only (identifier quotes and optional operator
// keywords); the grammar is shared:
//
//	d, err := dialect.Get("postgres")
//	stmt, err := parser.ParseWithDialect(sql, d)
//
// # Grammar Overview
//
// The parser is a recursive descent parser for the query subset of SQL:
//
//	statement     → [WITH [RECURSIVE] cte_list] select_body [';']
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL] select_body]
//	select_core   → SELECT [DISTINCT|ALL] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [WINDOW window_list] [ORDER BY order_list]
//	                [LIMIT expr [(OFFSET|',') expr]]
//	              | VALUES row_list
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/bird-bench/mini-dev/pkg/dialect"
	"github.com/bird-bench/mini-dev/pkg/token"
)

// Parser parses SQL into an AST.
type Parser struct {
	lexer   *Lexer
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	errors  []error
	dialect *dialect.Dialect
}

// NewParser creates a new parser for sql. A nil dialect means the default.
func NewParser(sql string, d *dialect.Dialect) *Parser {
	if d == nil {
		d = dialect.Default()
	}
	p := &Parser{
		lexer:   NewLexerWithDialect(sql, d),
		dialect: d,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses sql with the default dialect.
func Parse(sql string) (*SelectStmt, error) {
	return ParseWithDialect(sql, dialect.Default())
}

// ParseWithDialect parses exactly one statement, optionally terminated by
// semicolons. Lexer errors take precedence over parse errors.
func ParseWithDialect(sql string, d *dialect.Dialect) (*SelectStmt, error) {
	p := NewParser(sql, d)
	stmt := p.parseStatement()
	if len(p.errors) == 0 {
		for p.match(token.SEMICOLON) {
		}
		if !p.check(token.EOF) {
			p.addError(fmt.Sprintf(ErrTrailingInput, describe(p.token)))
		}
	}
	if len(p.lexer.Errors) > 0 {
		return nil, p.lexer.Errors[0]
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return stmt, nil
}

// Dialect returns the parser's dialect.
func (p *Parser) Dialect() *dialect.Dialect {
	return p.dialect
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
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

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.PARAM:
		return fmt.Sprintf("%q", tok.Literal)
	case token.STRING:
		return fmt.Sprintf("string '%s'", tok.Literal)
	}
	return tok.Type.String()
}

// ---------- Identifier Helpers ----------

// isName reports whether tok can be used as a column, table or function
// name: an identifier or a soft keyword.
func isName(tok token.Token) bool {
	return tok.Type == token.IDENT || token.IsSoftKeyword(tok.Type)
}

// isAnyWord reports whether tok is an identifier or any keyword. After a
// dot every word is a name, as in t.order.
func isAnyWord(tok token.Token) bool {
	if tok.Type == token.IDENT {
		return true
	}
	return token.IsKeyword(tok.Type) && tok.Literal != "" && isIdentStart(tok.Literal[0])
}

// parseName consumes a name, reporting an error when there is none.
func (p *Parser) parseName(what string) string {
	if !isName(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), what))
		return ""
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// parseWordAfterDot consumes the part after a '.'.
func (p *Parser) parseWordAfterDot() string {
	if !isAnyWord(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "identifier"))
		return ""
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// parseAlias parses [AS] alias. Without AS only a plain identifier counts,
// so clause keywords are never swallowed. allowString also accepts 'alias'.
func (p *Parser) parseAlias(allowString bool) string {
	if p.match(token.AS) {
		if isName(p.token) || (allowString && p.check(token.STRING)) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "alias"))
		return ""
	}
	if p.check(token.IDENT) || (allowString && p.check(token.STRING)) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}

// parseNameList parses name [, name ...].
func (p *Parser) parseNameList(what string) []string {
	var names []string
	for {
		name := p.parseName(what)
		if p.failed() {
			return names
		}
		names = append(names, name)
		if !p.match(token.COMMA) {
			return names
		}
	}
}
