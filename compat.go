package sqlast

import "fmt"

// TupleSelectsToCTEs traverses the condition tree of a select, looking
// for comparisons where the left side is a tuple and the right side a
// nested SELECT in an IN or NOT IN operation, and converts them to
// common table expressions.
//
// So the following query:
//
//	SELECT * FROM A WHERE (x, y) IN (SELECT a, b FROM B)
//
// turns into:
//
//	WITH cte_0 AS (SELECT a, b FROM B)
//	SELECT * FROM A
//	WHERE x IN (SELECT a FROM cte_0 WHERE b = y)
//
// This makes possible certain tuple comparisons in databases which do
// not support them, allowing the same query AST to be used throughout
// different systems. A comparison stays untouched when it is not a
// tuple, not an IN or NOT IN operation, or the number of variables on
// both sides differs.
func TupleSelectsToCTEs(s *Select) (*Select, error) {
	level := 0
	out, ctes := convertSelectTuples(s, &level)

	for _, existing := range out.CTEs {
		for _, generated := range ctes {
			if existing.Identifier == generated.Identifier {
				return nil, fmt.Errorf("generated table expression %q clashes with a user-defined one", existing.Identifier)
			}
		}
	}

	out.CTEs = append(out.CTEs, ctes...)
	return out, nil
}

func convertSelectTuples(s *Select, level *int) (*Select, []CommonTableExpression) {
	out := *s

	var ctes []CommonTableExpression
	if out.Conditions != nil {
		tree, treeCTEs := convertTreeTuples(*out.Conditions, level)
		out.Conditions = &tree
		ctes = treeCTEs
	}

	return &out, ctes
}

func convertSelectionTuples(q SelectQuery, level *int) (SelectQuery, []CommonTableExpression) {
	switch t := q.(type) {
	case *Select:
		return convertSelectTuples(t, level)
	case *Union:
		out := *t
		out.Selects = make([]*Select, len(t.Selects))

		var ctes []CommonTableExpression
		for i, sel := range t.Selects {
			converted, selCTEs := convertSelectTuples(sel, level)
			out.Selects[i] = converted
			ctes = append(ctes, selCTEs...)
		}
		return &out, ctes
	default:
		return q, nil
	}
}

func convertTreeTuples(tree ConditionTree, level *int) (ConditionTree, []CommonTableExpression) {
	out := tree
	out.Expressions = make([]Expression, len(tree.Expressions))

	var ctes []CommonTableExpression
	for i, e := range tree.Expressions {
		converted, exprCTEs := convertExpressionTuples(e, level)
		out.Expressions[i] = converted
		ctes = append(ctes, exprCTEs...)
	}

	return out, ctes
}

func convertExpressionTuples(e Expression, level *int) (Expression, []CommonTableExpression) {
	switch k := e.Kind.(type) {
	case ExprSelection:
		selection, ctes := convertSelectionTuples(k.Query, level)
		return Expression{Kind: ExprSelection{Query: selection}, Alias: e.Alias}, ctes
	case ExprCompare:
		compare, ctes := convertCompareTuples(k.Compare, level)
		return Expression{Kind: ExprCompare{Compare: compare}, Alias: e.Alias}, ctes
	case ExprTree:
		tree, ctes := convertTreeTuples(k.Tree, level)
		return Expression{Kind: ExprTree{Tree: tree}, Alias: e.Alias}, ctes
	default:
		return e, nil
	}
}

func convertCompareTuples(c Compare, level *int) (Compare, []CommonTableExpression) {
	if c.Kind != CmpIn && c.Kind != CmpNotIn {
		return c, nil
	}

	right, rightIsSelection := c.Right.Kind.(ExprSelection)
	if !rightIsSelection {
		return c, nil
	}

	if !c.Left.IsRow() {
		// `x IN (SELECT ...)` converts the nested select only.
		selection, ctes := convertSelectionTuples(right.Query, level)
		converted := c
		r := Expression{Kind: ExprSelection{Query: selection}}
		converted.Right = &r
		return converted, ctes
	}

	row := c.Left.Kind.(ExprRow).Row
	names := namedSelectionOf(right.Query)

	// Imbalanced sides stay as they are.
	if row.Len() != len(names) {
		return c, nil
	}

	if row.IsOnlyColumns() && row.Len() > 1 {
		compCol, innerSelect, ctes := convertTupleComparison(row, right.Query, names, level)

		left := compCol.Expr()
		r := Expression{Kind: ExprSelection{Query: innerSelect}}
		return Compare{Kind: c.Kind, Left: &left, Right: &r}, ctes
	}

	if row.Len() == 1 {
		selection, ctes := convertSelectionTuples(right.Query, level)
		converted := c
		r := Expression{Kind: ExprSelection{Query: selection}}
		converted.Right = &r
		return converted, ctes
	}

	return c, nil
}

// convertTupleComparison hoists the nested select into a CTE, keeping
// the first tuple column as the comparison and binding the rest of the
// tuple pairwise in the WHERE clause of a new select over the CTE.
func convertTupleComparison(row Row, selection SelectQuery, names []string, level *int) (Column, *Select, []CommonTableExpression) {
	cols := row.IntoColumns()

	ident := fmt.Sprintf("cte_%d", *level)
	*level++

	converted, innerCTEs := convertSelectionTuples(selection, level)

	// A table expression may only reference ones defined before it, so
	// the ones hoisted out of the nested select come first.
	combined := make([]CommonTableExpression, 0, len(innerCTEs)+1)
	combined = append(combined, innerCTEs...)
	combined = append(combined, CTE(ident, converted))

	compCol := cols[0]

	// The right side select picks the first column from the CTE and
	// filters out the rest of the tuple, so `(a, b) IN (SELECT x, y ..)`
	// turns into `a IN (SELECT x FROM cte_n WHERE y = b)`.
	inner := SelectFrom(ident).Column(names[0])
	for i := 1; i < len(cols); i++ {
		inner = inner.AndWhere(NewColumn(names[i]).Equals(cols[i]))
	}

	return compCol, inner, combined
}

func namedSelectionOf(q SelectQuery) []string {
	switch t := q.(type) {
	case *Select:
		return t.namedSelection()
	case *Union:
		return t.namedSelection()
	default:
		return nil
	}
}
