package sqlast

// OnConflictKind selects the conflict handling strategy of an insert.
type OnConflictKind uint8

const (
	// ConflictDoNothing skips conflicting rows.
	ConflictDoNothing OnConflictKind = iota
	// ConflictUpdate turns the insert into an upsert.
	ConflictUpdate
)

// OnConflict describes the ON CONFLICT clause of an insert.
type OnConflict struct {
	Kind OnConflictKind
	// Update carries the assignments and conditions of an upsert.
	Update *Update
	// Columns is the conflict target.
	Columns []Column
}

// Insert is an INSERT statement. Values is a single row, a values
// list, or an arbitrary expression.
type Insert struct {
	Table      *Table
	Columns    []Column
	Values     Expression
	OnConflict *OnConflict
	Returning  []Column
	Comment    string
}

// SingleRowInsert accumulates column/value pairs for a one-row insert.
type SingleRowInsert struct {
	table   *Table
	columns []Column
	values  Row
}

// InsertSingleInto starts a single-row insert into the table.
func InsertSingleInto(table any) *SingleRowInsert {
	t := tableOf(table)
	return &SingleRowInsert{table: &t}
}

// Value adds a column/value pair to the row.
func (i *SingleRowInsert) Value(column any, value any) *SingleRowInsert {
	i.columns = append(i.columns, columnOf(column))
	i.values = i.values.Push(value)
	return i
}

// Build finishes the insert.
func (i *SingleRowInsert) Build() *Insert {
	return &Insert{
		Table:   i.table,
		Columns: i.columns,
		Values:  Expression{Kind: ExprRow{Row: i.values}},
	}
}

// MultiRowInsert accumulates rows for a multi-row insert.
type MultiRowInsert struct {
	table   *Table
	columns []Column
	rows    []Row
}

// InsertMultiInto starts a multi-row insert into the table over the
// given columns.
func InsertMultiInto(table any, columns ...any) *MultiRowInsert {
	t := tableOf(table)
	m := &MultiRowInsert{table: &t}
	for _, c := range columns {
		m.columns = append(m.columns, columnOf(c))
	}
	return m
}

// Values adds a row.
func (i *MultiRowInsert) Values(values ...any) *MultiRowInsert {
	i.rows = append(i.rows, RowOf(values...))
	return i
}

// Build finishes the insert.
func (i *MultiRowInsert) Build() *Insert {
	return &Insert{
		Table:   i.table,
		Columns: i.columns,
		Values:  Expression{Kind: ExprValues{Values: Values{Rows: i.rows}}},
	}
}

// InsertInto starts an insert without values, rendering the dialect's
// DEFAULT VALUES form.
func InsertInto(table any) *Insert {
	t := tableOf(table)
	return &Insert{Table: &t, Values: Expression{Kind: ExprRow{}}}
}

// InsertExpressionInto inserts the result of an arbitrary expression,
// typically a subquery.
func InsertExpressionInto(table any, columns []Column, expr Expression) *Insert {
	t := tableOf(table)
	return &Insert{Table: &t, Columns: columns, Values: expr}
}

func columnOf(v any) Column {
	switch t := v.(type) {
	case Column:
		return t
	case string:
		return NewColumn(t)
	default:
		panic("sqlast: unsupported column reference")
	}
}

// OnConflictDoNothing skips rows violating a unique constraint.
func (i *Insert) OnConflictDoNothing() *Insert {
	i.OnConflict = &OnConflict{Kind: ConflictDoNothing}
	return i
}

// OnConflictUpdate updates the conflicting row instead, targeting the
// given constraint columns.
func (i *Insert) OnConflictUpdate(u *Update, constraint ...Column) *Insert {
	i.OnConflict = &OnConflict{Kind: ConflictUpdate, Update: u, Columns: constraint}
	return i
}

// WithReturning asks the database to return the given columns of the
// inserted rows.
func (i *Insert) WithReturning(columns ...any) *Insert {
	for _, c := range columns {
		i.Returning = append(i.Returning, columnOf(c))
	}
	return i
}

// WithComment appends a trailing comment to the statement.
func (i *Insert) WithComment(text string) *Insert {
	i.Comment = text
	return i
}
