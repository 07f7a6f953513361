package parser

import (
	"fmt"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// Special expression parsing: CASE, CAST, EXISTS, parenthesized expressions, subqueries.
//
// Grammar:
//
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast_expr     → CAST "(" expr AS type_name ")"
//	exists_expr   → [NOT] EXISTS "(" statement ")"
//	paren_expr    → "(" statement ")" | "(" expr ")" | "(" expr ("," expr)+ ")"
//	type_name     → identifier+ ["(" [-]number ["," [-]number] ")"]

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() Expr {
	p.expect(token.CASE)
	caseExpr := &CaseExpr{}

	if !p.check(token.WHEN) {
		caseExpr.Operand = p.parseExpression()
	}

	for !p.failed() && p.match(token.WHEN) {
		when := WhenClause{}
		when.Condition = p.parseExpression()
		if !p.expect(token.THEN) {
			return caseExpr
		}
		when.Result = p.parseExpression()
		caseExpr.Whens = append(caseExpr.Whens, when)
	}

	if len(caseExpr.Whens) == 0 && !p.failed() {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "WHEN"))
		return caseExpr
	}

	if p.match(token.ELSE) {
		caseExpr.Else = p.parseExpression()
	}

	p.expect(token.END)
	return caseExpr
}

// parseCastExpr parses a CAST expression.
func (p *Parser) parseCastExpr() Expr {
	p.expect(token.CAST)
	if !p.expect(token.LPAREN) {
		return nil
	}

	cast := &CastExpr{}
	cast.Expr = p.parseExpression()

	if !p.expect(token.AS) {
		return cast
	}

	cast.TypeName = p.parseTypeName()

	p.expect(token.RPAREN)
	return cast
}

// parseTypeName parses a possibly multi-word type name with optional
// parameters, e.g. DOUBLE PRECISION or DECIMAL(10, 2).
func (p *Parser) parseTypeName() string {
	if !isName(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "type name"))
		return ""
	}

	var words []string
	for isName(p.token) {
		words = append(words, p.token.Literal)
		p.nextToken()
	}
	typeName := strings.Join(words, " ")

	if p.match(token.LPAREN) {
		var params []string
		for {
			param := ""
			if p.match(token.MINUS) {
				param = "-"
			}
			if !p.check(token.NUMBER) {
				p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "type parameter"))
				return typeName
			}
			params = append(params, param+p.token.Literal)
			p.nextToken()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		typeName += "(" + strings.Join(params, ", ") + ")"
	}

	return typeName
}

// parseParenExpr parses a parenthesized expression, scalar subquery or
// row value.
func (p *Parser) parseParenExpr() Expr {
	p.expect(token.LPAREN)

	if p.startsQuery(p.token) {
		subquery := &SubqueryExpr{Select: p.parseStatement()}
		p.expect(token.RPAREN)
		return subquery
	}

	expr := p.parseExpression()
	if p.failed() {
		return expr
	}

	if p.check(token.COMMA) {
		list := &ListExpr{Items: []Expr{expr}}
		for p.match(token.COMMA) {
			list.Items = append(list.Items, p.parseExpression())
			if p.failed() {
				return list
			}
		}
		p.expect(token.RPAREN)
		return list
	}

	p.expect(token.RPAREN)
	return &ParenExpr{Expr: expr}
}

// parseExistsExpr parses an EXISTS expression; the current token is EXISTS.
func (p *Parser) parseExistsExpr(not bool) Expr {
	p.nextToken()

	if !p.expect(token.LPAREN) {
		return nil
	}
	exists := &ExistsExpr{Not: not, Select: p.parseStatement()}
	p.expect(token.RPAREN)

	return exists
}
