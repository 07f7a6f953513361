package parser

import (
	"fmt"
	"strings"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// Statement parsing: WITH clause, CTEs, SELECT body, SELECT list, ORDER BY.
//
// Grammar:
//
//	statement     → [WITH [RECURSIVE] cte_list] select_body
//	cte_list      → cte ("," cte)*
//	cte           → identifier ["(" name_list ")"] AS [[NOT] MATERIALIZED] "(" statement ")"
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_core   → SELECT [DISTINCT|ALL] select_list [FROM from_clause]
//	                [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                [WINDOW window_def ("," window_def)*]
//	                [ORDER BY order_list] [LIMIT expr [(OFFSET|",") expr]]
//	              | VALUES "(" expr_list ")" ("," "(" expr_list ")")*
//	select_list   → select_item ("," select_item)*
//	select_item   → "*" | table "." "*" | expr [[AS] identifier]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC] [NULLS FIRST|LAST]
//
// In a compound body the ORDER BY and LIMIT written after the last core
// belong to the whole statement and are moved onto SelectStmt.

// parseStatement parses a complete SELECT statement.
func (p *Parser) parseStatement() *SelectStmt {
	stmt := &SelectStmt{}

	if p.check(token.WITH) {
		stmt.With = p.parseWithClause()
		if p.failed() {
			return stmt
		}
	}

	stmt.Body = p.parseSelectBody()

	if stmt.Body != nil && stmt.Body.Right != nil {
		cores := stmt.Cores()
		last := cores[len(cores)-1]
		stmt.OrderBy, last.OrderBy = last.OrderBy, nil
		stmt.Limit, last.Limit = last.Limit, nil
		stmt.Offset, last.Offset = last.Offset, nil
	}

	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *WithClause {
	p.expect(token.WITH)
	with := &WithClause{}

	if p.match(token.RECURSIVE) {
		with.Recursive = true
	}

	for {
		cte := p.parseCTE()
		if p.failed() {
			return with
		}
		with.CTEs = append(with.CTEs, cte)

		if !p.match(token.COMMA) {
			break
		}
	}

	return with
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *CTE {
	cte := &CTE{}

	cte.Name = p.parseName("CTE name")
	if p.failed() {
		return cte
	}

	if p.match(token.LPAREN) {
		cte.Columns = p.parseNameList("column name")
		if !p.expect(token.RPAREN) {
			return cte
		}
	}

	if !p.expect(token.AS) {
		return cte
	}

	// [NOT] MATERIALIZED hints are accepted and dropped.
	if p.check(token.NOT) && isWord(p.peek, "materialized") {
		p.nextToken()
		p.nextToken()
	} else if isWord(p.token, "materialized") {
		p.nextToken()
	}

	if !p.expect(token.LPAREN) {
		return cte
	}
	cte.Select = p.parseStatement()
	p.expect(token.RPAREN)

	return cte
}

// isWord reports whether tok is the unquoted identifier word.
func isWord(tok token.Token, word string) bool {
	return tok.Type == token.IDENT && !tok.Quoted && strings.EqualFold(tok.Literal, word)
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Left = p.parseSelectCore()
	if p.failed() {
		return body
	}

	switch p.token.Type {
	case token.UNION:
		p.nextToken()
		if p.match(token.ALL) {
			body.Op = SetOpUnionAll
			body.All = true
		} else {
			body.Op = SetOpUnion
			p.match(token.DISTINCT)
		}
	case token.INTERSECT:
		p.nextToken()
		body.Op = SetOpIntersect
		body.All = p.match(token.ALL)
	case token.EXCEPT:
		p.nextToken()
		body.Op = SetOpExcept
		body.All = p.match(token.ALL)
	default:
		return body
	}

	body.Right = p.parseSelectBody()
	return body
}

// parseSelectCore parses a single SELECT or VALUES block.
func (p *Parser) parseSelectCore() *SelectCore {
	core := &SelectCore{Pos: p.token.Pos}

	if p.match(token.VALUES) {
		core.Values = p.parseValuesRows()
		return core
	}

	if !p.expect(token.SELECT) {
		return core
	}

	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL)
	}

	core.Columns = p.parseSelectList()
	if p.failed() {
		return core
	}

	if p.match(token.FROM) {
		core.From = p.parseFromClause()
		if p.failed() {
			return core
		}
	}

	p.parseClauses(core)
	return core
}

// parseClauses parses the optional clauses after FROM in their fixed order.
func (p *Parser) parseClauses(core *SelectCore) {
	if p.match(token.WHERE) {
		core.Where = p.parseExpression()
	}

	if !p.failed() && p.check(token.GROUP) {
		p.nextToken()
		if p.expect(token.BY) {
			core.GroupBy = p.parseExpressionList()
		}
	}

	if !p.failed() && p.match(token.HAVING) {
		core.Having = p.parseExpression()
	}

	if !p.failed() && p.match(token.WINDOW) {
		core.Windows = p.parseWindowDefs()
	}

	if !p.failed() && p.check(token.ORDER) {
		p.nextToken()
		if p.expect(token.BY) {
			core.OrderBy = p.parseOrderByList()
		}
	}

	if !p.failed() && p.match(token.LIMIT) {
		first := p.parseExpression()
		switch {
		case p.match(token.OFFSET):
			core.Limit = first
			core.Offset = p.parseExpression()
		case p.match(token.COMMA):
			// LIMIT offset, count
			core.Offset = first
			core.Limit = p.parseExpression()
		default:
			core.Limit = first
		}
	} else if !p.failed() && p.match(token.OFFSET) {
		core.Offset = p.parseExpression()
	}
}

// parseValuesRows parses ( expr_list ) [, ( expr_list ) ...].
func (p *Parser) parseValuesRows() [][]Expr {
	var rows [][]Expr
	for {
		if !p.expect(token.LPAREN) {
			return rows
		}
		rows = append(rows, p.parseExpressionList())
		if !p.expect(token.RPAREN) || !p.match(token.COMMA) {
			return rows
		}
	}
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem

	for {
		item := p.parseSelectItem()
		if p.failed() {
			return items
		}
		items = append(items, item)

		if !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() SelectItem {
	item := SelectItem{}

	if p.check(token.STAR) {
		item.Star = true
		p.nextToken()
		return item
	}

	// table.* via 3-token lookahead
	if isName(p.token) && p.checkPeek(token.DOT) && p.checkPeek2(token.STAR) {
		item.TableStar = p.token.Literal
		p.nextToken()
		p.nextToken()
		p.nextToken()
		return item
	}

	item.Expr = p.parseExpression()
	if p.failed() {
		return item
	}
	item.Alias = p.parseAlias(true)

	return item
}

// parseOrderByList parses a list of ORDER BY items.
func (p *Parser) parseOrderByList() []OrderByItem {
	var items []OrderByItem

	for {
		item := p.parseOrderByItem()
		if p.failed() {
			return items
		}
		items = append(items, item)

		if !p.match(token.COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() OrderByItem {
	item := OrderByItem{}
	item.Expr = p.parseExpression()

	if p.match(token.DESC) {
		item.Desc = true
	} else {
		p.match(token.ASC)
	}

	if p.match(token.NULLS) {
		switch {
		case p.match(token.FIRST):
			b := true
			item.NullsFirst = &b
		case p.match(token.LAST):
			b := false
			item.NullsFirst = &b
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "FIRST or LAST"))
		}
	}

	return item
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr

	for {
		expr := p.parseExpression()
		if p.failed() {
			return exprs
		}
		exprs = append(exprs, expr)

		if !p.match(token.COMMA) {
			break
		}
	}

	return exprs
}
