package sqlast

import "strings"

// Visitor walks a query AST, building the SQL string and gathering the
// parameters in the order they appear in the query. Dialect hooks are
// dispatched through the stored Dialect, so overrides apply even when
// the shared walk reaches the hook.
type Visitor struct {
	dialect Dialect
	sql     strings.Builder
	params  []Value
}

// Build compiles the query for the given dialect.
func Build(d Dialect, q Query) (string, []Value, error) {
	v := &Visitor{dialect: d}
	if err := v.VisitQuery(q); err != nil {
		return "", nil, err
	}
	return v.sql.String(), v.params, nil
}

// Write appends raw text to the query.
func (v *Visitor) Write(s string) {
	v.sql.WriteString(s)
}

// AddParameter appends a value to the parameter list without rendering
// it; the caller substitutes a placeholder.
func (v *Visitor) AddParameter(val Value) {
	v.params = append(v.params, val)
}

// ParameterCount is the number of parameters gathered so far.
func (v *Visitor) ParameterCount() int {
	return len(v.params)
}

// Substitute writes the dialect's placeholder for the last parameter.
func (v *Visitor) Substitute() {
	v.dialect.Substitute(v)
}

// Unsupported builds an error for a feature the dialect cannot render.
func (v *Visitor) Unsupported(feature string, hint ...string) error {
	return Unsupported(v.dialect.Name(), feature, hint...)
}

// Quote surrounds an identifier part with the dialect's quotes.
func (v *Visitor) Quote(part string) {
	v.Write(v.dialect.QuoteOpen())
	v.Write(part)
	v.Write(v.dialect.QuoteClose())
}

// DelimitedIdentifiers quotes every part and joins them with dots.
func (v *Visitor) DelimitedIdentifiers(parts ...string) {
	for i, part := range parts {
		if i > 0 {
			v.Write(".")
		}
		v.Quote(part)
	}
}

// VisitColumn renders a column through the dialect hook.
func (v *Visitor) VisitColumn(c Column) error {
	return v.dialect.VisitColumn(v, c)
}

// VisitValues renders a values list through the dialect hook.
func (v *Visitor) VisitValues(vals Values) error {
	return v.dialect.VisitValues(v, vals)
}

// VisitRawValue renders an inline literal through the dialect hook.
func (v *Visitor) VisitRawValue(val Value) error {
	return v.dialect.VisitRawValue(v, val)
}

// ColumnsToBracketList renders ` (c1,c2)` with bare column names.
func (v *Visitor) ColumnsToBracketList(columns []Column) error {
	v.Write(" (")
	for i, c := range columns {
		if i > 0 {
			v.Write(",")
		}
		if err := v.dialect.VisitColumn(v, NewColumn(c.Name)); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
}

// VisitQuery compiles any statement, applying the dialect's
// compatibility pre-pass first.
func (v *Visitor) VisitQuery(q Query) error {
	q, err := v.dialect.CompatibilityModifications(q)
	if err != nil {
		return err
	}

	switch t := q.(type) {
	case *Select:
		return v.visitSelect(t)
	case *Insert:
		return v.dialect.VisitInsert(v, t)
	case *Update:
		return v.VisitUpdate(t)
	case *Delete:
		return v.dialect.VisitDelete(v, t)
	case *Union:
		return v.visitUnion(t)
	case *Merge:
		return v.dialect.VisitMerge(v, t)
	case RawQuery:
		v.Write(string(t))
		return nil
	default:
		return Unsupported(v.dialect.Name(), "query type")
	}
}

// VisitSelection compiles a query usable in selection positions.
func (v *Visitor) VisitSelection(q SelectQuery) error {
	switch t := q.(type) {
	case *Select:
		return v.visitSelect(t)
	case *Union:
		return v.visitUnion(t)
	default:
		return Unsupported(v.dialect.Name(), "selection type")
	}
}

func (v *Visitor) visitSelect(s *Select) error {
	if len(s.CTEs) > 0 {
		v.Write("WITH ")
		for i, cte := range s.CTEs {
			if i > 0 {
				v.Write(", ")
			}
			if err := v.visitCTE(cte); err != nil {
				return err
			}
		}
		v.Write(" ")
	}

	v.Write("SELECT ")

	if s.Distinct {
		v.Write("DISTINCT ")
	}

	if len(s.Tables) > 0 {
		if len(s.Columns) == 0 {
			for i, table := range s.Tables {
				if i > 0 {
					v.Write(", ")
				}
				if err := v.visitTableAsterisk(table); err != nil {
					return err
				}
			}
		} else {
			if err := v.VisitColumns(s.Columns); err != nil {
				return err
			}
		}

		v.Write(" FROM ")
		for i, table := range s.Tables {
			if i > 0 {
				v.Write(", ")
			}
			if err := v.VisitTable(table, true); err != nil {
				return err
			}
		}

		if len(s.Joins) > 0 {
			if err := v.VisitJoins(s.Joins); err != nil {
				return err
			}
		}

		if s.Conditions != nil {
			v.Write(" WHERE ")
			if err := v.VisitConditions(*s.Conditions); err != nil {
				return err
			}
		}
		if len(s.Grouping) > 0 {
			v.Write(" GROUP BY ")
			for i, g := range s.Grouping {
				if i > 0 {
					v.Write(", ")
				}
				if err := v.VisitExpression(g); err != nil {
					return err
				}
			}
		}
		if s.Having != nil {
			v.Write(" HAVING ")
			if err := v.VisitConditions(*s.Having); err != nil {
				return err
			}
		}
		if !s.Ordering.IsEmpty() {
			v.Write(" ORDER BY ")
			if err := v.dialect.VisitOrdering(v, s.Ordering); err != nil {
				return err
			}
		}

		if err := v.dialect.VisitLimitAndOffset(v, s.Limit, s.Offset); err != nil {
			return err
		}
	} else if len(s.Columns) == 0 {
		v.Write(" *")
	} else {
		if err := v.VisitColumns(s.Columns); err != nil {
			return err
		}
	}

	if s.Comment != "" {
		v.Write(" ")
		v.VisitComment(s.Comment)
	}

	return nil
}

// The projection of a select without explicit columns, one `table.*`
// per source.
func (v *Visitor) visitTableAsterisk(table Table) error {
	switch table.Kind {
	case TableQuery, TableValues:
		if table.Alias != "" {
			v.Quote(table.Alias)
			v.Write(".*")
		} else {
			v.Write("*")
		}
	case TableJoined:
		if table.Alias != "" {
			v.Quote(table.Alias)
			v.Write(".*")
		} else {
			// Only the FROM clause renders the joins.
			unjoined := table
			unjoined.Kind = TableName
			unjoined.Joins = nil
			if err := v.VisitTable(unjoined, false); err != nil {
				return err
			}
			v.Write(".*")
		}
	default:
		if table.Alias != "" {
			v.Quote(table.Alias)
			v.Write(".*")
		} else {
			if err := v.VisitTable(table, false); err != nil {
				return err
			}
			v.Write(".*")
		}
	}
	return nil
}

// VisitUpdate renders an UPDATE statement.
func (v *Visitor) VisitUpdate(u *Update) error {
	v.Write("UPDATE ")
	if err := v.VisitTable(u.Table, true); err != nil {
		return err
	}

	v.Write(" SET ")
	if err := v.VisitUpdateSet(u); err != nil {
		return err
	}

	if u.Conditions != nil {
		v.Write(" WHERE ")
		if err := v.VisitConditions(*u.Conditions); err != nil {
			return err
		}
	}

	if len(u.Returning) > 0 {
		v.Write(" RETURNING ")
		if err := v.VisitColumns(ColumnExprs(u.Returning)); err != nil {
			return err
		}
	}

	if u.Comment != "" {
		v.Write(" ")
		v.VisitComment(u.Comment)
	}

	return nil
}

// VisitUpdateSet renders the assignment pairs of an update.
func (v *Visitor) VisitUpdateSet(u *Update) error {
	for i, col := range u.Columns {
		if i > 0 {
			v.Write(", ")
		}
		if err := v.dialect.VisitColumn(v, col); err != nil {
			return err
		}
		v.Write(" = ")
		if err := v.VisitExpression(u.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

// VisitUpsert renders the conflict-update arm of an upsert.
func (v *Visitor) VisitUpsert(u *Update) error {
	v.Write("UPDATE ")
	v.Write("SET ")
	if err := v.VisitUpdateSet(u); err != nil {
		return err
	}

	if u.Conditions != nil {
		v.Write(" WHERE ")
		if err := v.VisitConditions(*u.Conditions); err != nil {
			return err
		}
	}

	return nil
}

func (v *Visitor) visitUnion(u *Union) error {
	if len(u.CTEs) > 0 {
		v.Write("WITH ")
		for i, cte := range u.CTEs {
			if i > 0 {
				v.Write(", ")
			}
			if err := v.visitCTE(cte); err != nil {
				return err
			}
		}
		v.Write(" ")
	}

	for i, sel := range u.Selects {
		if i > 0 {
			if u.Types[i-1] == UnionAll {
				v.Write(" UNION ALL ")
			} else {
				v.Write(" UNION ")
			}
		}
		if err := v.visitSelect(sel); err != nil {
			return err
		}
	}

	return nil
}

func (v *Visitor) visitCTE(cte CommonTableExpression) error {
	if err := v.dialect.VisitColumn(v, NewColumn(cte.Identifier)); err != nil {
		return err
	}

	if len(cte.Columns) > 0 {
		v.Write(" ")
		if err := v.VisitRow(Row{Values: ColumnExprs(cte.Columns)}); err != nil {
			return err
		}
	}

	v.Write(" AS ")
	v.Write("(")
	if err := v.VisitSelection(cte.Selection); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

// VisitComment renders a trailing `/* text */` comment.
func (v *Visitor) VisitComment(text string) {
	v.Write("/* ")
	v.Write(text)
	v.Write(" */")
}

// VisitColumns renders a comma separated projection list.
func (v *Visitor) VisitColumns(columns []Expression) error {
	for i, c := range columns {
		if i > 0 {
			v.Write(", ")
		}
		if err := v.VisitExpression(c); err != nil {
			return err
		}
	}
	return nil
}

// ColumnExprs lifts columns into a projection list.
func ColumnExprs(columns []Column) []Expression {
	exprs := make([]Expression, 0, len(columns))
	for _, c := range columns {
		exprs = append(exprs, c.Expr())
	}
	return exprs
}

// VisitExpression renders any expression node and its alias.
func (v *Visitor) VisitExpression(e Expression) error {
	var err error

	switch k := e.Kind.(type) {
	case ExprValue:
		err = v.VisitExpression(*k.Expr)
	case ExprTree:
		err = v.VisitConditions(k.Tree)
	case ExprCompare:
		err = v.VisitCompare(k.Compare)
	case ExprParameterized:
		err = v.VisitParameterized(k.Value)
	case ExprRaw:
		err = v.dialect.VisitRawValue(v, k.Value)
	case ExprColumn:
		err = v.dialect.VisitColumn(v, k.Column)
	case ExprRow:
		err = v.VisitRow(k.Row)
	case ExprSelection:
		v.Write("(")
		err = v.dialect.VisitSubSelection(v, k.Query)
		v.Write(")")
	case ExprFunction:
		err = v.visitFunction(k.Function)
	case ExprOp:
		err = v.visitOperation(k)
	case ExprValues:
		err = v.dialect.VisitValues(v, k.Values)
	case ExprAsterisk:
		if k.Table != nil {
			if err = v.VisitTable(*k.Table, false); err == nil {
				v.Write(".*")
			}
		} else {
			v.Write("*")
		}
	case ExprDefault:
		v.Write("DEFAULT")
	default:
		err = Unsupported(v.dialect.Name(), "expression kind")
	}
	if err != nil {
		return err
	}

	if e.Alias != "" {
		v.Write(" AS ")
		v.Quote(e.Alias)
	}

	return nil
}

func (v *Visitor) visitOperation(op ExprOp) error {
	signs := map[OpKind]string{
		OpAdd: " + ",
		OpSub: " - ",
		OpMul: " * ",
		OpDiv: " / ",
		OpMod: " % ",
	}

	v.Write("(")
	if err := v.VisitExpression(*op.Left); err != nil {
		return err
	}
	v.Write(signs[op.Op])
	if err := v.VisitExpression(*op.Right); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

// VisitParameterized sends a value through the parameter list, letting
// the dialect type enums first.
func (v *Visitor) VisitParameterized(val Value) error {
	switch {
	case val.Kind == KindEnum && !val.Null:
		return v.dialect.VisitParameterizedEnum(v, val.EnumVariant, val.EnumName)
	case val.Kind == KindEnumArray && !val.Null:
		return v.dialect.VisitParameterizedEnumArray(v, val.EnumVariants, val.EnumName)
	default:
		v.AddParameter(val)
		v.Substitute()
		return nil
	}
}

// VisitRow renders `(e1,e2)`.
func (v *Visitor) VisitRow(r Row) error {
	v.Write("(")
	for i, e := range r.Values {
		if i > 0 {
			v.Write(",")
		}
		if err := v.VisitExpression(e); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
}

// VisitValuesBase renders `((..),(..))`, the generic values list.
func (v *Visitor) VisitValuesBase(vals Values) error {
	v.Write("(")
	for i, r := range vals.Rows {
		if i > 0 {
			v.Write(",")
		}
		if err := v.VisitRow(r); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
}

// VisitTable renders a table source, optionally with its alias.
func (v *Visitor) VisitTable(t Table, includeAlias bool) error {
	switch t.Kind {
	case TableName:
		if t.Database != "" {
			v.DelimitedIdentifiers(t.Database, t.Name)
		} else {
			v.DelimitedIdentifiers(t.Name)
		}
	case TableValues:
		if err := v.dialect.VisitValues(v, *t.Values); err != nil {
			return err
		}
	case TableQuery:
		v.Write("(")
		if err := v.visitSelect(t.Query); err != nil {
			return err
		}
		v.Write(")")
	case TableJoined:
		if t.Database != "" {
			v.DelimitedIdentifiers(t.Database, t.Name)
		} else {
			v.DelimitedIdentifiers(t.Name)
		}
		if err := v.VisitJoins(t.Joins); err != nil {
			return err
		}
	}

	if includeAlias && t.Alias != "" {
		v.Write(" AS ")
		v.DelimitedIdentifiers(t.Alias)
	}

	return nil
}

// VisitColumnBase renders the generic `table`.`column` AS `alias` form.
func (v *Visitor) VisitColumnBase(c Column) error {
	if c.Table != nil {
		if err := v.VisitTable(*c.Table, false); err != nil {
			return err
		}
		v.Write(".")
	}
	v.DelimitedIdentifiers(c.Name)

	if c.Alias != "" {
		v.Write(" AS ")
		v.DelimitedIdentifiers(c.Alias)
	}

	return nil
}

// VisitJoins renders every join clause.
func (v *Visitor) VisitJoins(joins []Join) error {
	keywords := map[JoinKind]string{
		JoinInner: " INNER JOIN ",
		JoinLeft:  " LEFT JOIN ",
		JoinRight: " RIGHT JOIN ",
		JoinFull:  " FULL JOIN ",
	}

	for _, j := range joins {
		v.Write(keywords[j.Kind])
		if err := v.VisitTable(j.Data.Table, true); err != nil {
			return err
		}
		v.Write(" ON ")
		if err := v.VisitConditions(j.Data.Conditions); err != nil {
			return err
		}
	}

	return nil
}

// VisitConditions renders a condition tree.
func (v *Visitor) VisitConditions(tree ConditionTree) error {
	switch tree.Kind {
	case TreeAnd:
		return v.visitTreeList(tree.Expressions, " AND ")
	case TreeOr:
		return v.visitTreeList(tree.Expressions, " OR ")
	case TreeNot:
		v.Write("(")
		v.Write("NOT ")
		if err := v.VisitExpression(tree.Expressions[0]); err != nil {
			return err
		}
		v.Write(")")
		return nil
	case TreeSingle:
		return v.VisitExpression(tree.Expressions[0])
	case TreeNoCondition:
		v.Write("1=1")
		return nil
	case TreeNegativeCondition:
		v.Write("1=0")
		return nil
	default:
		return Unsupported(v.dialect.Name(), "condition tree kind")
	}
}

func (v *Visitor) visitTreeList(exprs []Expression, separator string) error {
	v.Write("(")
	for i, e := range exprs {
		if i > 0 {
			v.Write(separator)
		}
		if err := v.VisitExpression(e); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
}

// VisitCompare renders a comparison, handling the IN edge cases before
// dispatching to dialect hooks.
func (v *Visitor) VisitCompare(c Compare) error {
	switch c.Kind {
	case CmpEquals:
		return v.dialect.VisitEquals(v, *c.Left, *c.Right)
	case CmpNotEquals:
		return v.dialect.VisitNotEquals(v, *c.Left, *c.Right)
	case CmpLessThan:
		return v.dialect.VisitLessThan(v, *c.Left, *c.Right)
	case CmpLessThanOrEquals:
		return v.dialect.VisitLessThanOrEquals(v, *c.Left, *c.Right)
	case CmpGreaterThan:
		return v.dialect.VisitGreaterThan(v, *c.Left, *c.Right)
	case CmpGreaterThanOrEquals:
		return v.dialect.VisitGreaterThanOrEquals(v, *c.Left, *c.Right)
	case CmpIn:
		return v.visitIn(*c.Left, *c.Right, false)
	case CmpNotIn:
		return v.visitIn(*c.Left, *c.Right, true)
	case CmpLike:
		return v.dialect.VisitLike(v, *c.Left, *c.Right)
	case CmpNotLike:
		return v.dialect.VisitNotLike(v, *c.Left, *c.Right)
	case CmpNull:
		if err := v.VisitExpression(*c.Left); err != nil {
			return err
		}
		v.Write(" IS NULL")
		return nil
	case CmpNotNull:
		if err := v.VisitExpression(*c.Left); err != nil {
			return err
		}
		v.Write(" IS NOT NULL")
		return nil
	case CmpBetween, CmpNotBetween:
		if err := v.VisitExpression(*c.Left); err != nil {
			return err
		}
		if c.Kind == CmpNotBetween {
			v.Write(" NOT BETWEEN ")
		} else {
			v.Write(" BETWEEN ")
		}
		if err := v.VisitExpression(*c.Right); err != nil {
			return err
		}
		v.Write(" AND ")
		return v.VisitExpression(*c.High)
	case CmpRaw:
		if err := v.VisitExpression(*c.Left); err != nil {
			return err
		}
		v.Write(" ")
		v.Write(c.Op)
		v.Write(" ")
		return v.VisitExpression(*c.Right)
	case CmpJSONArrayContains:
		return v.dialect.VisitJSONArrayContains(v, *c.Left, *c.Right, false)
	case CmpJSONArrayNotContains:
		return v.dialect.VisitJSONArrayContains(v, *c.Left, *c.Right, true)
	case CmpJSONTypeEquals:
		return v.dialect.VisitJSONTypeEquals(v, *c.Left, c.JSONType, false)
	case CmpJSONTypeNotEquals:
		return v.dialect.VisitJSONTypeEquals(v, *c.Left, c.JSONType, true)
	case CmpMatches:
		return v.dialect.VisitMatches(v, *c.Left, c.Query, false)
	case CmpNotMatches:
		return v.dialect.VisitMatches(v, *c.Left, c.Query, true)
	case CmpAny:
		v.Write("ANY")
		v.Write("(")
		if err := v.VisitExpression(*c.Left); err != nil {
			return err
		}
		v.Write(")")
		return nil
	case CmpAll:
		v.Write("ALL")
		v.Write("(")
		if err := v.VisitExpression(*c.Left); err != nil {
			return err
		}
		v.Write(")")
		return nil
	default:
		return Unsupported(v.dialect.Name(), "comparison kind")
	}
}

func (v *Visitor) visitIn(left, right Expression, negate bool) error {
	keyword, short, degenerate := " IN ", " = ", "1=0"
	if negate {
		keyword, short, degenerate = " NOT IN ", " <> ", "1=1"
	}

	// Guard `x IN ()` from ever rendering.
	if row, ok := right.Kind.(ExprRow); ok && row.Row.Len() == 0 {
		v.Write(degenerate)
		return nil
	}

	if vals, ok := right.Kind.(ExprValues); ok && left.IsRow() {
		leftRow := left.Kind.(ExprRow).Row

		if vals.Values.RowLen() == 0 {
			v.Write(degenerate)
			return nil
		}

		// A single column tuple flattens into a plain IN list.
		if leftRow.Len() == 1 && vals.Values.RowLen() == 1 {
			flat, _ := vals.Values.FlattenRow()
			if err := v.VisitExpression(leftRow.Values[0]); err != nil {
				return err
			}
			v.Write(keyword)
			return v.VisitRow(flat)
		}

		return v.dialect.VisitMultipleTupleComparison(v, leftRow, vals.Values, negate)
	}

	// A single value on the right degrades into equality.
	if pv, ok := right.Kind.(ExprParameterized); ok {
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(short)
		return v.VisitParameterized(pv.Value)
	}

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(keyword)
	return v.VisitExpression(right)
}

func (v *Visitor) visitFunction(f Function) error {
	switch f.Kind {
	case FnRowNumber:
		if f.Over.IsEmpty() {
			v.Write("ROW_NUMBER() OVER()")
		} else {
			v.Write("ROW_NUMBER() OVER")
			v.Write("(")
			if err := v.visitPartitioning(f.Over); err != nil {
				return err
			}
			v.Write(")")
		}
	case FnCount:
		if len(f.Exprs) == 0 {
			v.Write("COUNT(*)")
		} else {
			v.Write("COUNT")
			v.Write("(")
			if err := v.VisitColumns(f.Exprs); err != nil {
				return err
			}
			v.Write(")")
		}
	case FnAggregateToString:
		return v.dialect.VisitAggregateToString(v, *f.Arg)
	case FnRowToJSON:
		v.Write("ROW_TO_JSON")
		v.Write("(")
		if err := v.VisitTable(f.Table, false); err != nil {
			return err
		}
		v.Write(")")
	case FnAverage:
		return v.dialect.VisitAverage(v, f.Column)
	case FnSum:
		v.Write("SUM")
		v.Write("(")
		if err := v.VisitExpression(*f.Arg); err != nil {
			return err
		}
		v.Write(")")
	case FnLower:
		v.Write("LOWER")
		v.Write("(")
		if err := v.VisitExpression(*f.Arg); err != nil {
			return err
		}
		v.Write(")")
	case FnUpper:
		v.Write("UPPER")
		v.Write("(")
		if err := v.VisitExpression(*f.Arg); err != nil {
			return err
		}
		v.Write(")")
	case FnMinimum:
		return v.dialect.VisitMinimum(v, f.Column)
	case FnMaximum:
		return v.dialect.VisitMaximum(v, f.Column)
	case FnCoalesce:
		v.Write("COALESCE")
		v.Write("(")
		if err := v.VisitColumns(f.Exprs); err != nil {
			return err
		}
		v.Write(")")
	case FnJSONExtract:
		return v.dialect.VisitJSONExtract(v, f)
	case FnJSONExtractFirstArrayElem:
		return v.dialect.VisitJSONExtractFirstArrayItem(v, *f.Arg)
	case FnJSONExtractLastArrayElem:
		return v.dialect.VisitJSONExtractLastArrayItem(v, *f.Arg)
	case FnJSONUnquote:
		return v.dialect.VisitJSONUnquote(v, *f.Arg)
	case FnTextSearch:
		return v.dialect.VisitTextSearch(v, f.Exprs)
	case FnTextSearchRelevance:
		return v.dialect.VisitTextSearchRelevance(v, f.Exprs, f.Query)
	case FnUUIDToBin:
		v.Write("uuid_to_bin(uuid())")
	case FnUUIDToBinSwapped:
		v.Write("uuid_to_bin(uuid(), 1)")
	case FnUUID:
		v.Write("uuid()")
	case FnConcat:
		return v.dialect.VisitConcat(v, f.Exprs)
	default:
		return Unsupported(v.dialect.Name(), "function kind")
	}

	return nil
}

func (v *Visitor) visitPartitioning(over Over) error {
	if len(over.Partitioning) > 0 {
		v.Write("PARTITION BY ")
		for i, p := range over.Partitioning {
			if i > 0 {
				v.Write(", ")
			}
			if err := v.dialect.VisitColumn(v, p); err != nil {
				return err
			}
		}

		if !over.Ordering.IsEmpty() {
			v.Write(" ")
		}
	}

	if !over.Ordering.IsEmpty() {
		v.Write("ORDER BY ")
		return v.dialect.VisitOrdering(v, over.Ordering)
	}

	return nil
}
