package sqlast

// Select is a SELECT statement.
type Select struct {
	Distinct   bool
	Tables     []Table
	Columns    []Expression
	Conditions *ConditionTree
	Ordering   Ordering
	Grouping   []Expression
	Having     *ConditionTree
	Limit      *Value
	Offset     *Value
	Joins      []Join
	CTEs       []CommonTableExpression
	Comment    string
}

func tableOf(v any) Table {
	switch t := v.(type) {
	case Table:
		return t
	case string:
		return NewTable(t)
	case *Select:
		return SubqueryTable(t)
	case Values:
		return ValuesTable(t)
	default:
		panic("sqlast: unsupported table source")
	}
}

func columnExprOf(v any) Expression {
	switch t := v.(type) {
	case string:
		return NewColumn(t).Expr()
	case Column:
		return t.Expr()
	default:
		return ExprOf(v)
	}
}

// SelectDefault starts an empty SELECT without a FROM clause.
func SelectDefault() *Select {
	return &Select{}
}

// SelectFrom starts a SELECT over the given table source.
func SelectFrom(table any) *Select {
	return &Select{Tables: []Table{tableOf(table)}}
}

// AndFrom adds a further table source to the FROM clause.
func (s *Select) AndFrom(table any) *Select {
	s.Tables = append(s.Tables, tableOf(table))
	return s
}

// Column adds a column to the projection. Strings become bare column
// names.
func (s *Select) Column(c any) *Select {
	s.Columns = append(s.Columns, columnExprOf(c))
	return s
}

// Value adds an expression to the projection; plain Go values become
// bound parameters.
func (s *Select) Value(v any) *Select {
	s.Columns = append(s.Columns, ExprOf(v))
	return s
}

// SetDistinct makes the projection DISTINCT.
func (s *Select) SetDistinct() *Select {
	s.Distinct = true
	return s
}

// Where replaces the WHERE condition.
func (s *Select) Where(e Expression) *Select {
	t := conditionTreeOf(e)
	s.Conditions = &t
	return s
}

// AndWhere ANDs a condition onto the WHERE clause.
func (s *Select) AndWhere(e Expression) *Select {
	if s.Conditions == nil {
		return s.Where(e)
	}
	t := s.Conditions.And(e)
	s.Conditions = &t
	return s
}

// OrWhere ORs a condition onto the WHERE clause.
func (s *Select) OrWhere(e Expression) *Select {
	if s.Conditions == nil {
		return s.Where(e)
	}
	t := s.Conditions.Or(e)
	s.Conditions = &t
	return s
}

// GroupBy adds a GROUP BY term.
func (s *Select) GroupBy(g any) *Select {
	s.Grouping = append(s.Grouping, columnExprOf(g))
	return s
}

// AndHaving ANDs a condition onto the HAVING clause.
func (s *Select) AndHaving(e Expression) *Select {
	if s.Having == nil {
		t := conditionTreeOf(e)
		s.Having = &t
		return s
	}
	t := s.Having.And(e)
	s.Having = &t
	return s
}

// OrderBy adds an ORDER BY term.
func (s *Select) OrderBy(d OrderDefinition) *Select {
	s.Ordering = s.Ordering.Append(d)
	return s
}

// Take limits the number of returned rows.
func (s *Select) Take(n int64) *Select {
	v := Int64Value(n)
	s.Limit = &v
	return s
}

// Skip offsets the returned rows.
func (s *Select) Skip(n int64) *Select {
	v := Int64Value(n)
	s.Offset = &v
	return s
}

// InnerJoin adds an INNER JOIN.
func (s *Select) InnerJoin(j JoinData) *Select {
	s.Joins = append(s.Joins, Join{Kind: JoinInner, Data: j})
	return s
}

// LeftJoin adds a LEFT JOIN.
func (s *Select) LeftJoin(j JoinData) *Select {
	s.Joins = append(s.Joins, Join{Kind: JoinLeft, Data: j})
	return s
}

// RightJoin adds a RIGHT JOIN.
func (s *Select) RightJoin(j JoinData) *Select {
	s.Joins = append(s.Joins, Join{Kind: JoinRight, Data: j})
	return s
}

// FullJoin adds a FULL JOIN.
func (s *Select) FullJoin(j JoinData) *Select {
	s.Joins = append(s.Joins, Join{Kind: JoinFull, Data: j})
	return s
}

// With prepends a common table expression.
func (s *Select) With(cte CommonTableExpression) *Select {
	s.CTEs = append(s.CTEs, cte)
	return s
}

// WithComment appends a trailing comment to the statement.
func (s *Select) WithComment(text string) *Select {
	s.Comment = text
	return s
}

// namedSelection lists the column names the select exposes, as far as
// they can be derived. A single asterisk projection exposes nothing
// nameable.
func (s *Select) namedSelection() []string {
	if len(s.Columns) == 1 && s.Columns[0].IsAsterisk() {
		return nil
	}
	names := make([]string, 0, len(s.Columns))
	for _, e := range s.Columns {
		switch k := e.Kind.(type) {
		case ExprColumn:
			switch {
			case k.Column.Alias != "":
				names = append(names, k.Column.Alias)
			case e.Alias != "":
				names = append(names, e.Alias)
			default:
				names = append(names, k.Column.Name)
			}
		case ExprParameterized:
			if e.Alias != "" {
				names = append(names, e.Alias)
			}
		}
	}
	return names
}
