package sqlast

// CommonTableExpression names a selection for use in a WITH clause.
type CommonTableExpression struct {
	Identifier string
	Columns    []Column
	Selection  SelectQuery
}

// CTE builds a common table expression over the given selection.
func CTE(identifier string, selection SelectQuery) CommonTableExpression {
	return CommonTableExpression{Identifier: identifier, Selection: selection}
}

// WithColumns names the columns the CTE exposes.
func (c CommonTableExpression) WithColumns(columns ...Column) CommonTableExpression {
	c.Columns = append(c.Columns, columns...)
	return c
}

// IntoCTE wraps the select under the given identifier.
func (s *Select) IntoCTE(identifier string) CommonTableExpression {
	return CTE(identifier, s)
}

// IntoCTE wraps the union under the given identifier.
func (u *Union) IntoCTE(identifier string) CommonTableExpression {
	return CTE(identifier, u)
}
