package parser

import (
	"fmt"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// Primary expression parsing: literals, parameters, column refs, function calls.
//
// Grammar:
//
//	primary       → literal | PARAM | column_ref | func_call | paren_expr
//	              | case_expr | cast_expr | exists_expr | "*"
//	literal       → NUMBER | STRING | BLOB | TRUE | FALSE | NULL
//	column_ref    → [[schema "."] table "."] column | table "." "*"
//	func_call     → identifier "(" [DISTINCT] [expr_list [ORDER BY order_list] | "*"] ")"
//	                [FILTER "(" WHERE expr ")"] [OVER window_spec]

// niladic names are keywords in sqlite that read like columns but are
// evaluated as functions.
var niladic = map[string]bool{
	"CURRENT_DATE":      true,
	"CURRENT_TIME":      true,
	"CURRENT_TIMESTAMP": true,
}

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &Literal{Type: LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &Literal{Type: LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.BLOB:
		lit := &Literal{Type: LiteralBlob, Value: p.token.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "true"}

	case token.FALSE:
		p.nextToken()
		return &Literal{Type: LiteralBool, Value: "false"}

	case token.NULL:
		p.nextToken()
		return &Literal{Type: LiteralNull, Value: "null"}

	case token.PARAM:
		param := &Param{Name: p.token.Literal}
		p.nextToken()
		return param

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.EXISTS:
		return p.parseExistsExpr(false)

	case token.LPAREN:
		return p.parseParenExpr()

	case token.STAR:
		p.nextToken()
		return &StarExpr{}

	case token.LEFT, token.RIGHT:
		// left(s, n) and right(s, n) in mysql and postgres
		if p.checkPeek(token.LPAREN) {
			name := p.token.Literal
			p.nextToken()
			return p.parseFuncCall(name)
		}
	}

	if isName(p.token) {
		return p.parseIdentifierExpr()
	}

	p.addError(fmt.Sprintf(ErrUnexpectedInExpr, describe(p.token)))
	return nil
}

// parseIdentifierExpr parses an identifier which could be a column ref or function call.
func (p *Parser) parseIdentifierExpr() Expr {
	tok := p.token
	p.nextToken()

	if p.check(token.LPAREN) {
		return p.parseFuncCall(tok.Literal)
	}

	if p.check(token.DOT) {
		return p.parseQualifiedColumnRef(tok)
	}

	if !tok.Quoted && niladic[strings.ToUpper(tok.Literal)] {
		return &FuncCall{Name: strings.ToUpper(tok.Literal)}
	}

	return &ColumnRef{Column: tok.Literal, Pos: tok.Pos}
}

// parseQualifiedColumnRef parses table.column, schema.table.column or table.*.
// Names with more than three parts keep the last three.
func (p *Parser) parseQualifiedColumnRef(first token.Token) Expr {
	parts := []string{first.Literal}

	for p.match(token.DOT) {
		if p.check(token.STAR) {
			p.nextToken()
			return &StarExpr{Table: parts[len(parts)-1]}
		}
		parts = append(parts, p.parseWordAfterDot())
		if p.failed() {
			return nil
		}
	}

	ref := &ColumnRef{Pos: first.Pos, Column: parts[len(parts)-1]}
	if n := len(parts); n >= 2 {
		ref.Table = parts[n-2]
		if n >= 3 {
			ref.Schema = parts[n-3]
		}
	}
	return ref
}

// parseFuncCall parses a function call.
func (p *Parser) parseFuncCall(name string) Expr {
	fn := &FuncCall{Name: strings.ToUpper(name)}

	p.expect(token.LPAREN)

	if p.check(token.STAR) {
		fn.Star = true
		p.nextToken()
	} else if !p.check(token.RPAREN) {
		if p.match(token.DISTINCT) {
			fn.Distinct = true
		} else {
			p.match(token.ALL)
		}

		fn.Args = p.parseExpressionList()
		if p.failed() {
			return fn
		}

		if p.check(token.ORDER) {
			p.nextToken()
			if p.expect(token.BY) {
				fn.OrderBy = p.parseOrderByList()
			}
		}
	}

	if !p.expect(token.RPAREN) {
		return fn
	}

	if p.check(token.FILTER) && p.checkPeek(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		if p.expect(token.WHERE) {
			fn.Filter = p.parseExpression()
			p.expect(token.RPAREN)
		}
	}

	if p.match(token.OVER) {
		fn.Window = p.parseWindowSpec()
	}

	return fn
}
