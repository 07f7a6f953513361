package parser

import (
	"fmt"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels follow sqlite, lowest first:
//
//	precOr       = 1  OR
//	precAnd      = 2  AND
//	precNot      = 3  NOT (prefix)
//	precEquality = 4  = == != <> IS IN LIKE GLOB MATCH REGEXP BETWEEN ISNULL NOTNULL
//	precCompare  = 5  < <= > >=
//	precBitwise  = 6  & | << >>
//	precAdditive = 7  + -
//	precMultiply = 8  * / %
//	precConcat   = 9  || -> ->>
//	precPostfix  = 10 COLLATE ::
//	precUnary    = 11 - + ~ (prefix)
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precEquality
	precCompare
	precBitwise
	precAdditive
	precMultiply
	precConcat
	precPostfix
	precUnary
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	left := p.parsePrefixExpr()
	if left == nil || p.failed() {
		return left
	}

	for !p.failed() {
		prec := p.infixPrecedence()
		if prec == precNone || prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
	}

	return left
}

// parsePrefixExpr parses prefix expressions (unary operators and primary expressions).
func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Type {
	case token.NOT:
		if p.checkPeek(token.EXISTS) {
			p.nextToken()
			return p.parseExistsExpr(true)
		}
		p.nextToken()
		return &UnaryExpr{Op: token.NOT, Expr: p.parseExpressionWithPrecedence(precNot)}

	case token.MINUS, token.PLUS, token.TILDE:
		op := p.token.Type
		p.nextToken()
		return &UnaryExpr{Op: op, Expr: p.parseExpressionWithPrecedence(precUnary)}

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of the current token as an infix
// or postfix operator, or precNone.
func (p *Parser) infixPrecedence() int {
	switch p.token.Type {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.IS, token.IN, token.BETWEEN, token.ISNULL, token.NOTNULL:
		return precEquality
	case token.LIKE, token.GLOB, token.MATCH, token.REGEXP, token.ILIKE, token.RLIKE:
		return precEquality
	case token.NOT:
		// Only as the first half of NOT IN, NOT LIKE, NOT NULL, ...
		switch p.peek.Type {
		case token.IN, token.BETWEEN, token.NULL,
			token.LIKE, token.GLOB, token.MATCH, token.REGEXP, token.ILIKE, token.RLIKE:
			return precEquality
		}
		return precNone
	case token.LT, token.LE, token.GT, token.GE:
		return precCompare
	case token.AMP, token.PIPE, token.LSHIFT, token.RSHIFT:
		return precBitwise
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiply
	case token.DPIPE, token.ARROW, token.DARROW:
		return precConcat
	case token.COLLATE, token.DCOLON:
		return precPostfix
	}
	return precNone
}

// parseInfixExpr parses an infix or postfix expression given the left operand.
func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	switch p.token.Type {
	case token.NOT:
		return p.parseNotInfixExpr(left)

	case token.IS:
		return p.parseIsExpr(left)

	case token.ISNULL:
		p.nextToken()
		return &IsNullExpr{Expr: left}

	case token.NOTNULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: true}

	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)

	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)

	case token.LIKE, token.GLOB, token.MATCH, token.REGEXP, token.ILIKE, token.RLIKE:
		op := p.token.Type
		p.nextToken()
		return p.parseLikeExpr(left, false, op)

	case token.COLLATE:
		p.nextToken()
		collation := p.token.Literal
		if !p.check(token.IDENT) && !p.check(token.STRING) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "collation name"))
			return left
		}
		p.nextToken()
		return &CollateExpr{Expr: left, Collation: collation}

	case token.DCOLON:
		p.nextToken()
		return &CastExpr{Expr: left, TypeName: p.parseTypeName()}
	}

	// Standard binary operators, left-associative.
	op := p.token.Type
	p.nextToken()
	right := p.parseExpressionWithPrecedence(prec + 1)
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

// parseNotInfixExpr handles NOT as an infix modifier (NOT IN, NOT BETWEEN,
// NOT LIKE, NOT NULL).
func (p *Parser) parseNotInfixExpr(left Expr) Expr {
	p.nextToken() // consume NOT

	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, true)

	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, true)

	case token.NULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: true}

	default:
		op := p.token.Type
		p.nextToken()
		return p.parseLikeExpr(left, true, op)
	}
}

// parseIsExpr parses IS [NOT] NULL and IS [NOT] [DISTINCT FROM] expr.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.nextToken() // consume IS

	isNot := p.match(token.NOT)

	if p.match(token.NULL) {
		return &IsNullExpr{Expr: left, Not: isNot}
	}

	is := &IsExpr{Left: left, Not: isNot}
	if p.match(token.DISTINCT) {
		if !p.expect(token.FROM) {
			return left
		}
		is.Distinct = true
	}
	is.Right = p.parseExpressionWithPrecedence(precCompare)
	return is
}

// parseInExpr parses the right side of [NOT] IN.
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	in := &InExpr{Expr: left, Not: not}

	// sqlite: x IN tablename
	if isName(p.token) {
		name := p.token.Literal
		p.nextToken()
		if p.match(token.DOT) {
			name = p.parseWordAfterDot()
		}
		in.Table = name
		return in
	}

	if !p.expect(token.LPAREN) {
		return in
	}

	switch {
	case p.check(token.RPAREN):
		// empty list
	case p.startsQuery(p.token):
		in.Query = p.parseStatement()
	default:
		in.Values = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	return in
}

// parseBetweenExpr parses a BETWEEN expression. Both bounds are parsed
// above AND so that the AND separating them is not swallowed.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	between := &BetweenExpr{Expr: left, Not: not}
	between.Low = p.parseExpressionWithPrecedence(precCompare)
	if !p.expect(token.AND) {
		return between
	}
	between.High = p.parseExpressionWithPrecedence(precCompare)
	return between
}

// parseLikeExpr parses the pattern and optional ESCAPE of a LIKE-family
// operator.
func (p *Parser) parseLikeExpr(left Expr, not bool, op token.TokenType) Expr {
	like := &LikeExpr{Expr: left, Not: not, Op: op}
	like.Pattern = p.parseExpressionWithPrecedence(precCompare)
	if p.match(token.ESCAPE) {
		like.Escape = p.parseExpressionWithPrecedence(precCompare)
	}
	return like
}
