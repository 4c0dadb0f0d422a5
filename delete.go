package sqlast

// Delete is a DELETE statement.
type Delete struct {
	Table      Table
	Conditions *ConditionTree
	Returning  []Column
	Comment    string
}

// DeleteFrom starts a delete from the table.
func DeleteFrom(table any) *Delete {
	return &Delete{Table: tableOf(table)}
}

// Where replaces the WHERE condition.
func (d *Delete) Where(e Expression) *Delete {
	t := conditionTreeOf(e)
	d.Conditions = &t
	return d
}

// AndWhere ANDs a condition onto the WHERE clause.
func (d *Delete) AndWhere(e Expression) *Delete {
	if d.Conditions == nil {
		return d.Where(e)
	}
	t := d.Conditions.And(e)
	d.Conditions = &t
	return d
}

// WithReturning asks the database to return the given columns of the
// deleted rows.
func (d *Delete) WithReturning(columns ...any) *Delete {
	for _, c := range columns {
		d.Returning = append(d.Returning, columnOf(c))
	}
	return d
}

// WithComment appends a trailing comment to the statement.
func (d *Delete) WithComment(text string) *Delete {
	d.Comment = text
	return d
}
