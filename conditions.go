package sqlast

// TreeKind identifies the shape of a condition tree node.
type TreeKind uint8

const (
	TreeAnd TreeKind = iota
	TreeOr
	TreeNot
	TreeSingle
	// TreeNoCondition renders `1=1`.
	TreeNoCondition
	// TreeNegativeCondition renders `1=0`.
	TreeNegativeCondition
)

// ConditionTree combines expressions with logical operators.
type ConditionTree struct {
	Kind        TreeKind
	Expressions []Expression
}

// NoCondition always holds.
func NoCondition() ConditionTree {
	return ConditionTree{Kind: TreeNoCondition}
}

// NegativeCondition never holds.
func NegativeCondition() ConditionTree {
	return ConditionTree{Kind: TreeNegativeCondition}
}

// Single wraps one expression as a tree.
func Single(e Expression) ConditionTree {
	return ConditionTree{Kind: TreeSingle, Expressions: []Expression{e}}
}

// Not negates an expression.
func Not(e Expression) ConditionTree {
	return ConditionTree{Kind: TreeNot, Expressions: []Expression{e}}
}

func conditionTreeOf(e Expression) ConditionTree {
	if k, ok := e.Kind.(ExprTree); ok && e.Alias == "" {
		return k.Tree
	}
	return Single(e)
}

// Expr lifts the tree into an expression.
func (t ConditionTree) Expr() Expression {
	return Expression{Kind: ExprTree{Tree: t}}
}

// And extends the tree with a further ANDed condition. An existing AND
// node takes the new condition as a sibling instead of nesting.
func (t ConditionTree) And(e Expression) ConditionTree {
	if t.Kind == TreeAnd {
		t.Expressions = append(t.Expressions, e)
		return t
	}
	return ConditionTree{Kind: TreeAnd, Expressions: []Expression{t.Expr(), e}}
}

// Or extends the tree with a further ORed condition, flattening
// existing OR nodes like And does.
func (t ConditionTree) Or(e Expression) ConditionTree {
	if t.Kind == TreeOr {
		t.Expressions = append(t.Expressions, e)
		return t
	}
	return ConditionTree{Kind: TreeOr, Expressions: []Expression{t.Expr(), e}}
}

// And combines two expressions into an AND tree.
func (e Expression) And(other Expression) Expression {
	return conditionTreeOf(e).And(other).Expr()
}

// Or combines two expressions into an OR tree.
func (e Expression) Or(other Expression) Expression {
	return conditionTreeOf(e).Or(other).Expr()
}

// Not negates the expression.
func (e Expression) Not() Expression {
	return Not(e).Expr()
}
