package sqlast

// Row is an ordered tuple of expressions.
type Row struct {
	Values []Expression
}

// RowOf builds a row from any supported expression inputs.
func RowOf(values ...any) Row {
	r := Row{Values: make([]Expression, 0, len(values))}
	for _, v := range values {
		r.Values = append(r.Values, ExprOf(v))
	}
	return r
}

// Push appends a value to the row.
func (r Row) Push(v any) Row {
	r.Values = append(r.Values, ExprOf(v))
	return r
}

// Len is the number of values in the row.
func (r Row) Len() int { return len(r.Values) }

// IsOnlyColumns reports whether every value of the row is a plain
// column reference.
func (r Row) IsOnlyColumns() bool {
	for _, e := range r.Values {
		if _, ok := e.Kind.(ExprColumn); !ok {
			return false
		}
	}
	return len(r.Values) > 0
}

// IntoColumns extracts the columns of a column-only row.
func (r Row) IntoColumns() []Column {
	cols := make([]Column, 0, len(r.Values))
	for _, e := range r.Values {
		if k, ok := e.Kind.(ExprColumn); ok {
			cols = append(cols, k.Column)
		}
	}
	return cols
}

// Values is a list of rows, all expected to be of equal width.
type Values struct {
	Rows []Row
}

// ValuesOf builds a values list from rows.
func ValuesOf(rows ...Row) Values {
	return Values{Rows: rows}
}

// Push appends a row.
func (v Values) Push(r Row) Values {
	v.Rows = append(v.Rows, r)
	return v
}

// Len is the number of rows.
func (v Values) Len() int { return len(v.Rows) }

// RowLen is the width of the rows, zero when empty.
func (v Values) RowLen() int {
	if len(v.Rows) == 0 {
		return 0
	}
	return v.Rows[0].Len()
}

// FlattenRow collapses single-value rows into one row. Returns false
// when any row is wider than one value.
func (v Values) FlattenRow() (Row, bool) {
	flat := Row{Values: make([]Expression, 0, len(v.Rows))}
	for _, r := range v.Rows {
		if r.Len() != 1 {
			return Row{}, false
		}
		flat.Values = append(flat.Values, r.Values[0])
	}
	return flat, true
}
