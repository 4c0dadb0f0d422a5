package sqlast

// ExpressionKind is implemented by every node an Expression can hold.
type ExpressionKind interface {
	isExpressionKind()
}

// Expression is a node of the query tree with an optional alias.
type Expression struct {
	Kind  ExpressionKind
	Alias string
}

// ExprParameterized sends the value through the parameter list.
type ExprParameterized struct {
	Value Value
}

// ExprRaw renders the value inline as a literal.
type ExprRaw struct {
	Value Value
}

// ExprColumn references a column.
type ExprColumn struct {
	Column Column
}

// ExprRow is a tuple of expressions.
type ExprRow struct {
	Row Row
}

// ExprSelection embeds a subquery.
type ExprSelection struct {
	Query SelectQuery
}

// ExprFunction is a database function call.
type ExprFunction struct {
	Function Function
}

// ExprAsterisk selects every column, optionally scoped to a table.
type ExprAsterisk struct {
	Table *Table
}

// OpKind is an arithmetic operator.
type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// ExprOp is a binary arithmetic operation.
type ExprOp struct {
	Left  *Expression
	Right *Expression
	Op    OpKind
}

// ExprValues is a list of tuples.
type ExprValues struct {
	Values Values
}

// ExprTree is a logical condition tree used as an expression.
type ExprTree struct {
	Tree ConditionTree
}

// ExprCompare is a comparison used as an expression.
type ExprCompare struct {
	Compare Compare
}

// ExprValue wraps a nested expression so it keeps its own alias.
type ExprValue struct {
	Expr *Expression
}

// ExprDefault renders the DEFAULT keyword.
type ExprDefault struct{}

func (ExprParameterized) isExpressionKind() {}
func (ExprRaw) isExpressionKind()           {}
func (ExprColumn) isExpressionKind()        {}
func (ExprRow) isExpressionKind()           {}
func (ExprSelection) isExpressionKind()     {}
func (ExprFunction) isExpressionKind()      {}
func (ExprAsterisk) isExpressionKind()      {}
func (ExprOp) isExpressionKind()            {}
func (ExprValues) isExpressionKind()        {}
func (ExprTree) isExpressionKind()          {}
func (ExprCompare) isExpressionKind()       {}
func (ExprValue) isExpressionKind()         {}
func (ExprDefault) isExpressionKind()       {}

// Param sends any supported Go value as a bound parameter.
func Param(v any) Expression {
	return Expression{Kind: ExprParameterized{Value: ValueOf(v)}}
}

// Raw renders any supported Go value inline as a SQL literal.
func Raw(v any) Expression {
	return Expression{Kind: ExprRaw{Value: ValueOf(v)}}
}

// Default renders the DEFAULT keyword, typically as an insert value.
func Default() Expression {
	return Expression{Kind: ExprDefault{}}
}

// Asterisk selects every column without a table qualifier.
func Asterisk() Expression {
	return Expression{Kind: ExprAsterisk{}}
}

// ExprOf converts builder inputs into an Expression. Columns, rows,
// selects, values lists and functions keep their structure; anything
// else becomes a bound parameter.
func ExprOf(v any) Expression {
	switch t := v.(type) {
	case Expression:
		return t
	case Column:
		return t.Expr()
	case Row:
		return Expression{Kind: ExprRow{Row: t}}
	case Values:
		return Expression{Kind: ExprValues{Values: t}}
	case *Select:
		return Expression{Kind: ExprSelection{Query: t}}
	case *Union:
		return Expression{Kind: ExprSelection{Query: t}}
	case Function:
		return t.Expr()
	case ConditionTree:
		return Expression{Kind: ExprTree{Tree: t}}
	default:
		return Param(v)
	}
}

// As aliases the expression.
func (e Expression) As(alias string) Expression {
	e.Alias = alias
	return e
}

func (e Expression) op(op OpKind, other any) Expression {
	left, right := e, ExprOf(other)
	return Expression{Kind: ExprOp{Left: &left, Right: &right, Op: op}}
}

// Add builds `(e + other)`.
func (e Expression) Add(other any) Expression { return e.op(OpAdd, other) }

// Subtract builds `(e - other)`.
func (e Expression) Subtract(other any) Expression { return e.op(OpSub, other) }

// Multiply builds `(e * other)`.
func (e Expression) Multiply(other any) Expression { return e.op(OpMul, other) }

// Divide builds `(e / other)`.
func (e Expression) Divide(other any) Expression { return e.op(OpDiv, other) }

// Modulo builds `(e % other)`.
func (e Expression) Modulo(other any) Expression { return e.op(OpMod, other) }

// IsRow reports whether the expression is a tuple.
func (e Expression) IsRow() bool {
	_, ok := e.Kind.(ExprRow)
	return ok
}

// IsSelection reports whether the expression embeds a subquery.
func (e Expression) IsSelection() bool {
	_, ok := e.Kind.(ExprSelection)
	return ok
}

// IsAsterisk reports whether the expression is a `*` projection.
func (e Expression) IsAsterisk() bool {
	_, ok := e.Kind.(ExprAsterisk)
	return ok
}

// IsXMLValue reports whether the expression carries an XML literal or
// parameter.
func (e Expression) IsXMLValue() bool {
	switch k := e.Kind.(type) {
	case ExprParameterized:
		return k.Value.IsXML()
	case ExprRaw:
		return k.Value.IsXML()
	default:
		return false
	}
}

// IsJSONValue reports whether the expression carries a JSON literal or
// parameter.
func (e Expression) IsJSONValue() bool {
	switch k := e.Kind.(type) {
	case ExprParameterized:
		return k.Value.IsJSON()
	case ExprRaw:
		return k.Value.IsJSON()
	default:
		return false
	}
}

// IsJSONExpr reports whether the expression is JSON-valued, either as a
// literal or through a function returning JSON.
func (e Expression) IsJSONExpr() bool {
	if e.IsJSONValue() {
		return true
	}
	if k, ok := e.Kind.(ExprFunction); ok {
		return k.Function.ReturnsJSON()
	}
	return false
}

// IntoJSONValue extracts the JSON payload of the expression, if any.
func (e Expression) IntoJSONValue() (Value, bool) {
	switch k := e.Kind.(type) {
	case ExprParameterized:
		if k.Value.IsJSON() {
			return k.Value, true
		}
	case ExprRaw:
		if k.Value.IsJSON() {
			return k.Value, true
		}
	}
	return Value{}, false
}
