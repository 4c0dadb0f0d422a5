package sqlast

// CompareKind identifies a comparison operator.
type CompareKind uint8

const (
	CmpEquals CompareKind = iota
	CmpNotEquals
	CmpLessThan
	CmpLessThanOrEquals
	CmpGreaterThan
	CmpGreaterThanOrEquals
	CmpIn
	CmpNotIn
	CmpLike
	CmpNotLike
	CmpNull
	CmpNotNull
	CmpBetween
	CmpNotBetween
	CmpRaw
	CmpJSONArrayContains
	CmpJSONArrayNotContains
	CmpJSONTypeEquals
	CmpJSONTypeNotEquals
	CmpMatches
	CmpNotMatches
	CmpAny
	CmpAll
)

// JSONTypeKind is the JSON type family checked by a type comparison.
type JSONTypeKind uint8

const (
	JSONTypeArray JSONTypeKind = iota
	JSONTypeBoolean
	JSONTypeNumber
	JSONTypeObject
	JSONTypeString
	JSONTypeNull
	JSONTypeColumn
)

// JSONType is either a concrete JSON type family or a reference to
// another column whose type is compared instead.
type JSONType struct {
	Kind   JSONTypeKind
	Column *Column
}

// JSONTypeOf checks against a concrete JSON type family.
func JSONTypeOf(kind JSONTypeKind) JSONType {
	return JSONType{Kind: kind}
}

// JSONTypeOfColumn compares against the JSON type of another column.
func JSONTypeOfColumn(c Column) JSONType {
	return JSONType{Kind: JSONTypeColumn, Column: &c}
}

// Compare is a single comparison between expressions.
type Compare struct {
	Kind  CompareKind
	Left  *Expression
	Right *Expression
	// High is the upper bound of BETWEEN comparisons.
	High *Expression
	// Op is the raw operator of CmpRaw comparisons.
	Op string
	// JSONType is the target of JSON type comparisons.
	JSONType JSONType
	// Query is the search term of full-text match comparisons.
	Query string
}

// Expr lifts the comparison into an expression.
func (c Compare) Expr() Expression {
	return Expression{Kind: ExprCompare{Compare: c}}
}

func compare(kind CompareKind, left Expression, right any) Expression {
	r := ExprOf(right)
	return Compare{Kind: kind, Left: &left, Right: &r}.Expr()
}

// Equals builds `e = other`.
func (e Expression) Equals(other any) Expression {
	return compare(CmpEquals, e, other)
}

// NotEquals builds `e <> other`.
func (e Expression) NotEquals(other any) Expression {
	return compare(CmpNotEquals, e, other)
}

// LessThan builds `e < other`.
func (e Expression) LessThan(other any) Expression {
	return compare(CmpLessThan, e, other)
}

// LessThanOrEquals builds `e <= other`.
func (e Expression) LessThanOrEquals(other any) Expression {
	return compare(CmpLessThanOrEquals, e, other)
}

// GreaterThan builds `e > other`.
func (e Expression) GreaterThan(other any) Expression {
	return compare(CmpGreaterThan, e, other)
}

// GreaterThanOrEquals builds `e >= other`.
func (e Expression) GreaterThanOrEquals(other any) Expression {
	return compare(CmpGreaterThanOrEquals, e, other)
}

// In builds `e IN other`.
func (e Expression) In(other any) Expression {
	return compare(CmpIn, e, other)
}

// NotIn builds `e NOT IN other`.
func (e Expression) NotIn(other any) Expression {
	return compare(CmpNotIn, e, other)
}

// Like builds `e LIKE other`.
func (e Expression) Like(other any) Expression {
	return compare(CmpLike, e, other)
}

// NotLike builds `e NOT LIKE other`.
func (e Expression) NotLike(other any) Expression {
	return compare(CmpNotLike, e, other)
}

// IsNull builds `e IS NULL`.
func (e Expression) IsNull() Expression {
	left := e
	return Compare{Kind: CmpNull, Left: &left}.Expr()
}

// IsNotNull builds `e IS NOT NULL`.
func (e Expression) IsNotNull() Expression {
	left := e
	return Compare{Kind: CmpNotNull, Left: &left}.Expr()
}

// Between builds `e BETWEEN low AND high`.
func (e Expression) Between(low, high any) Expression {
	left, lo, hi := e, ExprOf(low), ExprOf(high)
	return Compare{Kind: CmpBetween, Left: &left, Right: &lo, High: &hi}.Expr()
}

// NotBetween builds `e NOT BETWEEN low AND high`.
func (e Expression) NotBetween(low, high any) Expression {
	left, lo, hi := e, ExprOf(low), ExprOf(high)
	return Compare{Kind: CmpNotBetween, Left: &left, Right: &lo, High: &hi}.Expr()
}

// CompareRaw builds `e <op> other` with a caller-supplied operator.
func (e Expression) CompareRaw(op string, other any) Expression {
	left, right := e, ExprOf(other)
	return Compare{Kind: CmpRaw, Left: &left, Right: &right, Op: op}.Expr()
}

// JSONArrayContains builds a containment check of `item` inside the
// JSON array `e`.
func (e Expression) JSONArrayContains(item any) Expression {
	return compare(CmpJSONArrayContains, e, item)
}

// JSONArrayNotContains negates JSONArrayContains.
func (e Expression) JSONArrayNotContains(item any) Expression {
	return compare(CmpJSONArrayNotContains, e, item)
}

// JSONTypeEquals checks the JSON type of `e`.
func (e Expression) JSONTypeEquals(t JSONType) Expression {
	left := e
	return Compare{Kind: CmpJSONTypeEquals, Left: &left, JSONType: t}.Expr()
}

// JSONTypeNotEquals negates JSONTypeEquals.
func (e Expression) JSONTypeNotEquals(t JSONType) Expression {
	left := e
	return Compare{Kind: CmpJSONTypeNotEquals, Left: &left, JSONType: t}.Expr()
}

// Matches builds a full-text match of `e` against the query.
func (e Expression) Matches(query string) Expression {
	left := e
	return Compare{Kind: CmpMatches, Left: &left, Query: query}.Expr()
}

// NotMatches negates Matches.
func (e Expression) NotMatches(query string) Expression {
	left := e
	return Compare{Kind: CmpNotMatches, Left: &left, Query: query}.Expr()
}

// Any builds `ANY(e)`.
func (e Expression) Any() Expression {
	left := e
	return Compare{Kind: CmpAny, Left: &left}.Expr()
}

// All builds `ALL(e)`.
func (e Expression) All() Expression {
	left := e
	return Compare{Kind: CmpAll, Left: &left}.Expr()
}

// Comparison shorthands on Column, so conditions read the way queries
// are written.

func (c Column) Equals(other any) Expression    { return c.Expr().Equals(other) }
func (c Column) NotEquals(other any) Expression { return c.Expr().NotEquals(other) }
func (c Column) LessThan(other any) Expression  { return c.Expr().LessThan(other) }
func (c Column) LessThanOrEquals(other any) Expression {
	return c.Expr().LessThanOrEquals(other)
}
func (c Column) GreaterThan(other any) Expression { return c.Expr().GreaterThan(other) }
func (c Column) GreaterThanOrEquals(other any) Expression {
	return c.Expr().GreaterThanOrEquals(other)
}
func (c Column) In(other any) Expression      { return c.Expr().In(other) }
func (c Column) NotIn(other any) Expression   { return c.Expr().NotIn(other) }
func (c Column) Like(other any) Expression    { return c.Expr().Like(other) }
func (c Column) NotLike(other any) Expression { return c.Expr().NotLike(other) }
func (c Column) IsNull() Expression           { return c.Expr().IsNull() }
func (c Column) IsNotNull() Expression        { return c.Expr().IsNotNull() }
func (c Column) Between(low, high any) Expression {
	return c.Expr().Between(low, high)
}
func (c Column) NotBetween(low, high any) Expression {
	return c.Expr().NotBetween(low, high)
}
func (c Column) CompareRaw(op string, other any) Expression {
	return c.Expr().CompareRaw(op, other)
}
func (c Column) JSONArrayContains(item any) Expression {
	return c.Expr().JSONArrayContains(item)
}
func (c Column) JSONArrayNotContains(item any) Expression {
	return c.Expr().JSONArrayNotContains(item)
}
func (c Column) JSONTypeEquals(t JSONType) Expression {
	return c.Expr().JSONTypeEquals(t)
}
func (c Column) JSONTypeNotEquals(t JSONType) Expression {
	return c.Expr().JSONTypeNotEquals(t)
}
func (c Column) Matches(query string) Expression    { return c.Expr().Matches(query) }
func (c Column) NotMatches(query string) Expression { return c.Expr().NotMatches(query) }

// Tuple comparisons on Row.

func (r Row) Equals(other any) Expression    { return ExprOf(r).Equals(other) }
func (r Row) NotEquals(other any) Expression { return ExprOf(r).NotEquals(other) }
func (r Row) In(other any) Expression        { return ExprOf(r).In(other) }
func (r Row) NotIn(other any) Expression     { return ExprOf(r).NotIn(other) }
