package parser

import "github.com/bird-bench/mini-dev/pkg/token"

// The AST is a closed set: Statement, Expr and TableRef can only be
// implemented inside this package, so a type switch over the node types
// listed here is exhaustive.

// Statement represents a SQL statement.
type Statement interface {
	stmtNode()
}

// Expr represents an expression in SQL.
type Expr interface {
	exprNode()
}

// TableRef represents a table reference in a FROM clause.
type TableRef interface {
	tableRefNode()
}

// ---------- Statement Types ----------

// SelectStmt is a complete query: an optional WITH clause and a body of one
// or more SELECT cores combined with set operations.
//
// OrderBy, Limit and Offset are only set for compound bodies; they apply to
// the result of the set operation. For a single core they live on the core.
type SelectStmt struct {
	With    *WithClause
	Body    *SelectBody
	OrderBy []OrderByItem
	Limit   Expr
	Offset  Expr
}

func (*SelectStmt) stmtNode() {}

// Cores returns the SELECT cores of the body in source order.
func (s *SelectStmt) Cores() []*SelectCore {
	var cores []*SelectCore
	for body := s.Body; body != nil; body = body.Right {
		if body.Left != nil {
			cores = append(cores, body.Left)
		}
	}
	return cores
}

// WithClause is a WITH clause.
type WithClause struct {
	Recursive bool
	CTEs      []*CTE
}

// CTE is one common table expression.
type CTE struct {
	Name    string
	Columns []string
	Select  *SelectStmt
}

// SelectBody is a SELECT core optionally followed by a set operation and
// the rest of the chain.
type SelectBody struct {
	Left  *SelectCore
	Op    SetOpType
	All   bool
	Right *SelectBody
}

// SetOpType is the set operation joining two bodies.
type SetOpType string

// Set operations.
const (
	SetOpNone      SetOpType = ""
	SetOpUnion     SetOpType = "UNION"
	SetOpUnionAll  SetOpType = "UNION ALL"
	SetOpIntersect SetOpType = "INTERSECT"
	SetOpExcept    SetOpType = "EXCEPT"
)

// SelectCore is a single SELECT block, or a VALUES list.
//
// A *SelectCore is the unit of scope: column references inside it are
// resolved against its own FROM clause only.
type SelectCore struct {
	Pos      token.Position
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	Windows  []WindowDef
	OrderBy  []OrderByItem
	Limit    Expr
	Offset   Expr

	// Values holds the rows of a VALUES core; Columns is empty then.
	Values [][]Expr
}

// WindowDef is a named window from the WINDOW clause.
type WindowDef struct {
	Name string
	Spec *WindowSpec
}

// SelectItem is one entry of the select list.
type SelectItem struct {
	Star      bool   // SELECT *
	TableStar string // SELECT t.*
	Expr      Expr
	Alias     string
}

// FromClause is a FROM clause: a first source followed by joins.
type FromClause struct {
	Source TableRef
	Joins  []*Join
}

// Join is one joined source.
type Join struct {
	Type      JoinType
	Natural   bool
	Right     TableRef
	Condition Expr     // ON
	Using     []string // USING (a, b)
}

// JoinType is the SQL keyword naming the join.
type JoinType string

// Join types.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
	JoinComma JoinType = ","
)

// OrderByItem is one ORDER BY term.
type OrderByItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil means engine default
}

// ---------- Table Reference Types ----------

// TableName is a named table, optionally schema-qualified.
type TableName struct {
	Schema string
	Name   string
	Alias  string
}

func (*TableName) tableRefNode() {}

// DerivedTable is a subquery in FROM.
type DerivedTable struct {
	Select  *SelectStmt
	Alias   string
	Lateral bool
}

func (*DerivedTable) tableRefNode() {}

// JoinGroup is a parenthesised join tree used as a single source,
// e.g. FROM (a JOIN b ON a.id = b.id).
type JoinGroup struct {
	From  *FromClause
	Alias string
}

func (*JoinGroup) tableRefNode() {}

// TableFunc is a table-valued function call such as json_each(x).
type TableFunc struct {
	Name  string
	Args  []Expr
	Alias string
}

func (*TableFunc) tableRefNode() {}

// ---------- Expression Types ----------

// ColumnRef is a column reference. Table holds the qualifier as written,
// Schema is only set for three-part names.
type ColumnRef struct {
	Schema string
	Table  string
	Column string
	Pos    token.Position
}

func (*ColumnRef) exprNode() {}

// Literal is a literal value.
type Literal struct {
	Type  LiteralType
	Value string
}

func (*Literal) exprNode() {}

// LiteralType is the kind of a literal.
type LiteralType int

// Literal kinds.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBlob
	LiteralBool
	LiteralNull
)

// Param is a bound parameter: ?, ?1, :name, @name or $1.
type Param struct {
	Name string
}

func (*Param) exprNode() {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a prefix operation (NOT, -, +, ~).
type UnaryExpr struct {
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall is a scalar, aggregate or window function call.
type FuncCall struct {
	Name     string // upper-cased
	Distinct bool
	Star     bool // COUNT(*)
	Args     []Expr
	OrderBy  []OrderByItem // aggregate ORDER BY, e.g. group_concat(x ORDER BY y)
	Filter   Expr          // FILTER (WHERE ...)
	Window   *WindowSpec   // OVER
}

func (*FuncCall) exprNode() {}

// WindowSpec is the OVER clause of a window function.
type WindowSpec struct {
	Name        string // OVER w, or the base window inside parentheses
	PartitionBy []Expr
	OrderBy     []OrderByItem
	Frame       *FrameSpec
}

// FrameSpec is a window frame.
type FrameSpec struct {
	Type  FrameType
	Start *FrameBound
	End   *FrameBound
}

// FrameType is ROWS, RANGE or GROUPS.
type FrameType string

// Frame types.
const (
	FrameRows   FrameType = "ROWS"
	FrameRange  FrameType = "RANGE"
	FrameGroups FrameType = "GROUPS"
)

// FrameBound is one end of a window frame.
type FrameBound struct {
	Type   FrameBoundType
	Offset Expr // for N PRECEDING / N FOLLOWING
}

// FrameBoundType names the kind of bound.
type FrameBoundType string

// Frame bound kinds.
const (
	FrameUnboundedPreceding FrameBoundType = "UNBOUNDED PRECEDING"
	FrameUnboundedFollowing FrameBoundType = "UNBOUNDED FOLLOWING"
	FrameCurrentRow         FrameBoundType = "CURRENT ROW"
	FrameExprPreceding      FrameBoundType = "EXPR PRECEDING"
	FrameExprFollowing      FrameBoundType = "EXPR FOLLOWING"
)

// CaseExpr is a CASE expression.
type CaseExpr struct {
	Operand Expr // CASE operand WHEN ... (optional)
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause is one WHEN ... THEN ... arm.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr is CAST(expr AS type) or expr::type.
type CastExpr struct {
	Expr     Expr
	TypeName string
}

func (*CastExpr) exprNode() {}

// CollateExpr is expr COLLATE name.
type CollateExpr struct {
	Expr      Expr
	Collation string
}

func (*CollateExpr) exprNode() {}

// InExpr is expr [NOT] IN (...). Exactly one of Values, Query and Table is
// used; an empty Values list is valid in sqlite.
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
	Table  string // sqlite: x IN tablename
}

func (*InExpr) exprNode() {}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// IsNullExpr is expr IS [NOT] NULL, expr ISNULL or expr NOTNULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// IsExpr is the general expr IS [NOT] [DISTINCT FROM] expr.
type IsExpr struct {
	Left     Expr
	Not      bool
	Distinct bool
	Right    Expr
}

func (*IsExpr) exprNode() {}

// LikeExpr covers LIKE, GLOB, REGEXP, MATCH, ILIKE and RLIKE.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Op      token.TokenType
	Pattern Expr
	Escape  Expr
}

func (*LikeExpr) exprNode() {}

// ParenExpr is a parenthesised expression.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// ListExpr is a parenthesised row value such as (a, b).
type ListExpr struct {
	Items []Expr
}

func (*ListExpr) exprNode() {}

// StarExpr is * or t.* in expression position.
type StarExpr struct {
	Table string
}

func (*StarExpr) exprNode() {}

// SubqueryExpr is a scalar subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

func (*SubqueryExpr) exprNode() {}

// ExistsExpr is [NOT] EXISTS (subquery).
type ExistsExpr struct {
	Not    bool
	Select *SelectStmt
}

func (*ExistsExpr) exprNode() {}
