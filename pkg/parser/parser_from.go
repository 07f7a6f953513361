package parser

import (
	"fmt"

	"github.com/bird-bench/mini-dev/pkg/token"
)

// FROM clause parsing: table references, derived tables, join groups, JOINs.
//
// Grammar:
//
//	from_clause   → table_ref (join)*
//	table_ref     → table_name | table_func | derived_table | join_group
//	table_name    → [schema "."] identifier [[AS] identifier]
//	table_func    → identifier "(" [expr_list] ")" [[AS] identifier]
//	derived_table → [LATERAL] "(" statement ")" [[AS] identifier]
//	join_group    → "(" from_clause ")" [[AS] identifier]
//	join          → [NATURAL] join_type JOIN table_ref [ON expr | USING "(" name_list ")"]
//	              | "," table_ref
//	join_type     → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER] | CROSS

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	from.Source = p.parseTableRef()

	for !p.failed() {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}

	return from
}

// parseTableRef parses a table reference.
func (p *Parser) parseTableRef() TableRef {
	if p.match(token.LATERAL) {
		if !p.check(token.LPAREN) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "( after LATERAL"))
			return nil
		}
		derived := p.parseDerivedTable()
		derived.Lateral = true
		return derived
	}

	if p.check(token.LPAREN) {
		if p.startsQuery(p.peek) {
			return p.parseDerivedTable()
		}
		return p.parseJoinGroup()
	}

	return p.parseTableName()
}

// startsQuery reports whether tok begins a statement.
func (p *Parser) startsQuery(tok token.Token) bool {
	switch tok.Type {
	case token.SELECT, token.WITH, token.VALUES:
		return true
	}
	return false
}

// parseTableName parses a possibly qualified table name or table function.
func (p *Parser) parseTableName() TableRef {
	if !isName(p.token) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "table name"))
		return nil
	}

	parts := []string{p.token.Literal}
	p.nextToken()

	for p.match(token.DOT) {
		parts = append(parts, p.parseWordAfterDot())
		if p.failed() {
			return nil
		}
	}

	if p.check(token.LPAREN) && len(parts) == 1 {
		return p.parseTableFunc(parts[0])
	}

	table := &TableName{Name: parts[len(parts)-1]}
	if len(parts) > 1 {
		table.Schema = parts[len(parts)-2]
	}
	table.Alias = p.parseAlias(false)

	return table
}

// parseTableFunc parses the argument list and alias of a table function.
func (p *Parser) parseTableFunc(name string) *TableFunc {
	fn := &TableFunc{Name: name}
	p.expect(token.LPAREN)
	if !p.check(token.RPAREN) {
		fn.Args = p.parseExpressionList()
	}
	if !p.expect(token.RPAREN) {
		return fn
	}
	fn.Alias = p.parseAlias(false)
	return fn
}

// parseDerivedTable parses a derived table (subquery in FROM).
func (p *Parser) parseDerivedTable() *DerivedTable {
	p.expect(token.LPAREN)
	derived := &DerivedTable{}
	derived.Select = p.parseStatement()
	if p.failed() || !p.expect(token.RPAREN) {
		return derived
	}
	derived.Alias = p.parseAlias(false)
	return derived
}

// parseJoinGroup parses a parenthesised join tree.
func (p *Parser) parseJoinGroup() *JoinGroup {
	p.expect(token.LPAREN)
	group := &JoinGroup{}
	group.From = p.parseFromClause()
	if p.failed() || !p.expect(token.RPAREN) {
		return group
	}
	group.Alias = p.parseAlias(false)
	return group
}

// parseJoin parses one join, or returns nil when no join follows.
func (p *Parser) parseJoin() *Join {
	join := &Join{}

	if p.match(token.COMMA) {
		join.Type = JoinComma
		join.Right = p.parseTableRef()
		return join
	}

	if p.match(token.NATURAL) {
		join.Natural = true
	}

	switch p.token.Type {
	case token.JOIN:
		join.Type = JoinInner
	case token.INNER:
		join.Type = JoinInner
		p.nextToken()
	case token.CROSS:
		join.Type = JoinCross
		p.nextToken()
	case token.LEFT, token.RIGHT, token.FULL:
		// LEFT( and RIGHT( are function calls, never joins here.
		join.Type = JoinType(p.token.Type.String())
		p.nextToken()
		p.match(token.OUTER)
	default:
		if join.Natural {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "JOIN"))
		}
		return nil
	}

	if !p.expect(token.JOIN) {
		return nil
	}

	join.Right = p.parseTableRef()
	if p.failed() {
		return join
	}
	p.parseJoinCondition(join)
	return join
}

// parseJoinCondition handles ON/USING/NATURAL validation.
func (p *Parser) parseJoinCondition(join *Join) {
	switch {
	case join.Natural:
		if p.check(token.ON) || p.check(token.USING) {
			p.addError(fmt.Sprintf(ErrNaturalJoinCondition, p.token.Type))
		}
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.match(token.USING):
		if p.expect(token.LPAREN) {
			join.Using = p.parseNameList("column name in USING clause")
			p.expect(token.RPAREN)
		}
	}
}
