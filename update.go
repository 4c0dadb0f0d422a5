package sqlast

// Update is an UPDATE statement. Columns and Values are parallel
// assignment lists.
type Update struct {
	Table      Table
	Columns    []Column
	Values     []Expression
	Conditions *ConditionTree
	Returning  []Column
	Comment    string
}

// UpdateTable starts an update of the table.
func UpdateTable(table any) *Update {
	return &Update{Table: tableOf(table)}
}

// Set assigns an expression to a column.
func (u *Update) Set(column any, value any) *Update {
	u.Columns = append(u.Columns, columnOf(column))
	u.Values = append(u.Values, ExprOf(value))
	return u
}

// Where replaces the WHERE condition.
func (u *Update) Where(e Expression) *Update {
	t := conditionTreeOf(e)
	u.Conditions = &t
	return u
}

// AndWhere ANDs a condition onto the WHERE clause.
func (u *Update) AndWhere(e Expression) *Update {
	if u.Conditions == nil {
		return u.Where(e)
	}
	t := u.Conditions.And(e)
	u.Conditions = &t
	return u
}

// WithReturning asks the database to return the given columns of the
// updated rows.
func (u *Update) WithReturning(columns ...any) *Update {
	for _, c := range columns {
		u.Returning = append(u.Returning, columnOf(c))
	}
	return u
}

// WithComment appends a trailing comment to the statement.
func (u *Update) WithComment(text string) *Update {
	u.Comment = text
	return u
}
