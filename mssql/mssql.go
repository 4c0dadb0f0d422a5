// Package mssql compiles query ASTs into T-SQL with `@Pn` placeholders.
package mssql

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/zoobzio/sqlast"
)

const generatedKeys = "@generated_keys"

type dialect struct {
	sqlast.DefaultDialect

	// orderBySet tracks whether an ORDER BY was rendered, as OFFSET
	// clauses require one.
	orderBySet bool
}

// Build compiles the query for SQL Server.
func Build(q sqlast.Query) (string, []sqlast.Value, error) {
	d := &dialect{DefaultDialect: sqlast.DefaultDialect{Dialect: "mssql"}}
	return sqlast.Build(d, q)
}

func (*dialect) QuoteOpen() string  { return "[" }
func (*dialect) QuoteClose() string { return "]" }

func (*dialect) Substitute(v *sqlast.Visitor) {
	v.Write("@P")
	v.Write(strconv.Itoa(v.ParameterCount()))
}

// SQL Server has no tuple comparisons and no conflict-ignore insert, so
// tuple IN selections become common table expressions and inserts with
// DO NOTHING become MERGE statements.
func (*dialect) CompatibilityModifications(q sqlast.Query) (sqlast.Query, error) {
	switch t := q.(type) {
	case *sqlast.Select:
		return sqlast.TupleSelectsToCTEs(t)
	case *sqlast.Insert:
		if t.OnConflict != nil && t.OnConflict.Kind == sqlast.ConflictDoNothing {
			return sqlast.MergeFromInsert(t)
		}
		return t, nil
	default:
		return q, nil
	}
}

func (d *dialect) equalityComparison(v *sqlast.Visitor, left, right sqlast.Expression, sign string, negate bool) error {
	if left.IsRow() && right.IsRow() {
		leftRow := left.Kind.(sqlast.ExprRow).Row
		rightRow := right.Kind.(sqlast.ExprRow).Row
		vals := sqlast.Values{Rows: []sqlast.Row{rightRow}}

		return d.VisitMultipleTupleComparison(v, leftRow, vals, negate)
	}

	castXML := func(e sqlast.Expression) error {
		v.Write("CAST(")
		if err := v.VisitExpression(e); err != nil {
			return err
		}
		v.Write(" AS NVARCHAR(MAX))")
		return nil
	}

	if right.IsXMLValue() {
		if err := castXML(left); err != nil {
			return err
		}
	} else {
		if err := v.VisitExpression(left); err != nil {
			return err
		}
	}

	v.Write(sign)

	if left.IsXMLValue() {
		return castXML(right)
	}
	return v.VisitExpression(right)
}

func (d *dialect) VisitEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return d.equalityComparison(v, left, right, " = ", false)
}

func (d *dialect) VisitNotEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return d.equalityComparison(v, left, right, " <> ", true)
}

// Tuples expand into an OR of per-row AND groups.
func (*dialect) VisitMultipleTupleComparison(v *sqlast.Visitor, left sqlast.Row, right sqlast.Values, negate bool) error {
	if negate {
		v.Write("NOT ")
	}

	v.Write("(")
	for i, row := range right.Rows {
		if i > 0 {
			v.Write(" OR ")
		}

		v.Write("(")
		for j, val := range row.Values {
			if j > 0 {
				v.Write(" AND ")
			}
			if err := v.VisitExpression(left.Values[j]); err != nil {
				return err
			}
			v.Write(" = ")
			if err := v.VisitExpression(val); err != nil {
				return err
			}
		}
		v.Write(")")
	}
	v.Write(")")

	return nil
}

func (*dialect) VisitRawValue(v *sqlast.Visitor, val sqlast.Value) error {
	if val.Null {
		v.Write("null")
		return nil
	}

	switch val.Kind {
	case sqlast.KindInt32:
		v.Write(strconv.FormatInt(int64(val.Int32), 10))
	case sqlast.KindInt64:
		v.Write(strconv.FormatInt(val.Int64, 10))
	case sqlast.KindFloat:
		writeRawFloat(v, float64(val.Float))
	case sqlast.KindDouble:
		writeRawFloat(v, val.Double)
	case sqlast.KindText:
		quoted(v, val.Text)
	case sqlast.KindChar:
		quoted(v, string(val.Char))
	case sqlast.KindEnum:
		v.Write(val.EnumVariant)
	case sqlast.KindBytes:
		v.Write("0x")
		v.Write(hex.EncodeToString(val.Bytes))
	case sqlast.KindBoolean:
		if val.Bool {
			v.Write("1")
		} else {
			v.Write("0")
		}
	case sqlast.KindArray, sqlast.KindEnumArray:
		return sqlast.ConversionError{Message: "Arrays are not supported in T-SQL."}
	case sqlast.KindJSON:
		quoted(v, sqlast.CompactJSON(val.JSON))
	case sqlast.KindNumeric:
		v.Write(val.Numeric.String())
	case sqlast.KindUUID:
		v.Write("CONVERT(uniqueidentifier, N'")
		v.Write(val.UUID.String())
		v.Write("')")
	case sqlast.KindDateTime:
		v.Write("CONVERT(datetimeoffset, N'")
		v.Write(sqlast.FormatRawDateTime(val.DateTime))
		v.Write("')")
	case sqlast.KindDate:
		v.Write("CONVERT(date, N'")
		v.Write(val.Date.String())
		v.Write("')")
	case sqlast.KindTime:
		v.Write("CONVERT(time, N'")
		v.Write(val.Time.String())
		v.Write("')")
	case sqlast.KindXML:
		// Style 3 keeps whitespace and processes internal DTDs.
		v.Write("CONVERT(XML, N'")
		v.Write(val.XML)
		v.Write("', 3)")
	default:
		return v.Unsupported("raw value kind")
	}

	return nil
}

func quoted(v *sqlast.Visitor, s string) {
	v.Write("'")
	v.Write(s)
	v.Write("'")
}

func writeRawFloat(v *sqlast.Visitor, f float64) {
	switch {
	case math.IsNaN(f):
		v.Write("'NaN'")
	case math.IsInf(f, 1):
		v.Write("'Infinity'")
	case math.IsInf(f, -1):
		v.Write("'-Infinity'")
	default:
		v.Write(sqlast.FormatRawFloat(f))
	}
}

func (d *dialect) addOrdering(v *sqlast.Visitor) error {
	if d.orderBySet {
		return nil
	}

	v.Write(" ORDER BY ")
	return d.VisitOrdering(v, sqlast.OrderBy(sqlast.OrderDefinition{Expr: sqlast.Raw(1)}))
}

// OFFSET and FETCH require an ORDER BY, so one is synthesized over a
// constant when the query has none.
func (d *dialect) VisitLimitAndOffset(v *sqlast.Visitor, limit, offset *sqlast.Value) error {
	switch {
	case limit != nil && offset != nil:
		if err := d.addOrdering(v); err != nil {
			return err
		}
		v.Write(" OFFSET ")
		if err := v.VisitParameterized(*offset); err != nil {
			return err
		}
		v.Write(" ROWS FETCH NEXT ")
		if err := v.VisitParameterized(*limit); err != nil {
			return err
		}
		v.Write(" ROWS ONLY")
		return nil
	case limit == nil && offset != nil:
		n, ok := offset.AsInt64()
		if !d.orderBySet && !(ok && n > 0) {
			return nil
		}
		if err := d.addOrdering(v); err != nil {
			return err
		}
		v.Write(" OFFSET ")
		if err := v.VisitParameterized(*offset); err != nil {
			return err
		}
		v.Write(" ROWS")
		return nil
	case limit != nil:
		if err := d.addOrdering(v); err != nil {
			return err
		}
		v.Write(" OFFSET ")
		if err := v.VisitParameterized(sqlast.Int32Value(0)); err != nil {
			return err
		}
		v.Write(" ROWS FETCH NEXT ")
		if err := v.VisitParameterized(*limit); err != nil {
			return err
		}
		v.Write(" ROWS ONLY")
		return nil
	default:
		return nil
	}
}

func (d *dialect) VisitOrdering(v *sqlast.Visitor, o sqlast.Ordering) error {
	for i, term := range o.Terms {
		if i > 0 {
			v.Write(", ")
		}
		if err := v.VisitExpression(term.Expr); err != nil {
			return err
		}
		switch term.Order {
		case sqlast.OrderAsc, sqlast.OrderAscNullsFirst, sqlast.OrderAscNullsLast:
			v.Write(" ASC")
		case sqlast.OrderDesc, sqlast.OrderDescNullsFirst, sqlast.OrderDescNullsLast:
			v.Write(" DESC")
		}
	}

	d.orderBySet = true

	return nil
}

func (*dialect) VisitAggregateToString(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("STRING_AGG")
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(",")
	v.Write("\",\"")
	v.Write(")")
	return nil
}

// AVG over integers truncates, so the value converts to decimal first.
func (*dialect) VisitAverage(v *sqlast.Visitor, c sqlast.Column) error {
	v.Write("AVG")
	v.Write("(")
	v.Write("CONVERT")
	v.Write("(")
	v.Write("DECIMAL(32,16),")
	if err := v.VisitColumn(c); err != nil {
		return err
	}
	v.Write(")")
	v.Write(")")
	return nil
}

func writeTypeFamily(v *sqlast.Visitor, f sqlast.TypeFamily) {
	switch f {
	case sqlast.TypeText:
		v.Write("NVARCHAR(2000)")
	case sqlast.TypeInt:
		v.Write("BIGINT")
	case sqlast.TypeFloat:
		v.Write("FLOAT(24)")
	case sqlast.TypeDouble:
		v.Write("FLOAT(53)")
	case sqlast.TypeDecimal:
		v.Write("DECIMAL(32,16)")
	case sqlast.TypeBoolean:
		v.Write("BIT")
	case sqlast.TypeUUID:
		v.Write("UNIQUEIDENTIFIER")
	case sqlast.TypeDateTime:
		v.Write("DATETIMEOFFSET")
	case sqlast.TypeBytes:
		v.Write("VARBYTES(4000)")
	default:
		v.Write("NVARCHAR(255)")
	}
}

// createGeneratedKeys declares the table variable the OUTPUT clause
// writes the inserted keys into.
func createGeneratedKeys(v *sqlast.Visitor, columns []sqlast.Column) error {
	v.Write("DECLARE ")
	v.Write(generatedKeys)
	v.Write(" table")
	v.Write("(")
	for i, c := range columns {
		if i > 0 {
			v.Write(",")
		}
		if err := v.VisitColumn(sqlast.NewColumn(c.Name)); err != nil {
			return err
		}
		v.Write(" ")
		writeTypeFamily(v, c.TypeFamily)
	}
	v.Write(")")
	return nil
}

func visitReturning(v *sqlast.Visitor, columns []sqlast.Column) error {
	v.Write(" OUTPUT ")
	for i, c := range columns {
		if i > 0 {
			v.Write(",")
		}
		col := sqlast.NewColumn(c.Name).InTable(sqlast.NewTable("Inserted"))
		if err := v.VisitColumn(col); err != nil {
			return err
		}
	}
	v.Write(" INTO ")
	v.Write(generatedKeys)
	return nil
}

// selectGeneratedKeys reads the inserted rows back by joining the key
// table against the target.
func selectGeneratedKeys(v *sqlast.Visitor, columns []sqlast.Column, target sqlast.Table) error {
	t := sqlast.NewTable("t")
	g := sqlast.NewTable("g")

	join := target.As("t").On(
		sqlast.NewColumn(columns[0].Name).InTable(t).
			Equals(sqlast.NewColumn(columns[0].Name).InTable(g)))
	for _, c := range columns[1:] {
		join = join.And(
			sqlast.NewColumn(c.Name).InTable(t).
				Equals(sqlast.NewColumn(c.Name).InTable(g)))
	}

	v.Write("SELECT ")
	for i, c := range columns {
		if i > 0 {
			v.Write(",")
		}
		if err := v.VisitColumn(sqlast.NewColumn(c.Name).InTable(t)); err != nil {
			return err
		}
	}

	v.Write(" FROM ")
	v.Write(generatedKeys)
	v.Write(" AS g")
	if err := v.VisitJoins([]sqlast.Join{{Kind: sqlast.JoinInner, Data: join}}); err != nil {
		return err
	}

	v.Write(" WHERE @@ROWCOUNT > 0")
	return nil
}

// Inserts returning columns go through a table variable: OUTPUT cannot
// target the client directly when triggers are involved, and SQL Server
// has no RETURNING.
func (*dialect) VisitInsert(v *sqlast.Visitor, i *sqlast.Insert) error {
	if len(i.Returning) > 0 {
		if err := createGeneratedKeys(v, i.Returning); err != nil {
			return err
		}
		v.Write(" ")
	}

	v.Write("INSERT")

	if i.Table != nil {
		v.Write(" INTO ")
		if err := v.VisitTable(*i.Table, true); err != nil {
			return err
		}
	}

	columnRow := func() sqlast.Row {
		return sqlast.Row{Values: sqlast.ColumnExprs(bareColumns(i.Columns))}
	}

	switch values := i.Values.Kind.(type) {
	case sqlast.ExprRow:
		if values.Row.Len() == 0 {
			if len(i.Returning) > 0 {
				if err := visitReturning(v, i.Returning); err != nil {
					return err
				}
			}
			v.Write(" DEFAULT VALUES")
		} else {
			v.Write(" ")
			if err := v.VisitRow(columnRow()); err != nil {
				return err
			}
			if len(i.Returning) > 0 {
				if err := visitReturning(v, i.Returning); err != nil {
					return err
				}
			}
			v.Write(" VALUES ")
			if err := v.VisitRow(values.Row); err != nil {
				return err
			}
		}
	case sqlast.ExprValues:
		v.Write(" ")
		if err := v.VisitRow(columnRow()); err != nil {
			return err
		}
		if len(i.Returning) > 0 {
			if err := visitReturning(v, i.Returning); err != nil {
				return err
			}
		}
		v.Write(" VALUES ")
		for idx, row := range values.Values.Rows {
			if idx > 0 {
				v.Write(",")
			}
			if err := v.VisitRow(row); err != nil {
				return err
			}
		}
	default:
		v.Write("(")
		if err := v.VisitExpression(i.Values); err != nil {
			return err
		}
		v.Write(")")
	}

	if len(i.Returning) > 0 {
		if i.Table == nil {
			return v.Unsupported("INSERT with OUTPUT without a table")
		}
		v.Write(" ")
		if err := selectGeneratedKeys(v, i.Returning, *i.Table); err != nil {
			return err
		}
	}

	return nil
}

func bareColumns(columns []sqlast.Column) []sqlast.Column {
	out := make([]sqlast.Column, 0, len(columns))
	for _, c := range columns {
		out = append(out, sqlast.NewColumn(c.Name))
	}
	return out
}

func (*dialect) VisitMerge(v *sqlast.Visitor, m *sqlast.Merge) error {
	if len(m.Returning) > 0 {
		if err := createGeneratedKeys(v, m.Returning); err != nil {
			return err
		}
		v.Write(" ")
	}

	v.Write("MERGE INTO ")
	if err := v.VisitTable(m.Table, true); err != nil {
		return err
	}

	v.Write(" USING ")
	v.Write("(")
	base := m.Using.BaseQuery
	if err := v.VisitQuery(&base); err != nil {
		return err
	}
	v.Write(")")

	v.Write(" AS ")
	if err := v.VisitTable(sqlast.NewTable(m.Using.AsTable), false); err != nil {
		return err
	}

	v.Write(" ")
	if err := v.VisitRow(sqlast.Row{Values: sqlast.ColumnExprs(bareColumns(m.Using.Columns))}); err != nil {
		return err
	}
	v.Write(" ON ")
	if err := v.VisitConditions(m.Using.On); err != nil {
		return err
	}

	if m.WhenNotMatched != nil {
		v.Write(" WHEN NOT MATCHED THEN ")
		if err := v.VisitQuery(m.WhenNotMatched); err != nil {
			return err
		}
	}

	if len(m.Returning) > 0 {
		if err := visitReturning(v, m.Returning); err != nil {
			return err
		}
		v.Write("; ")
		return selectGeneratedKeys(v, m.Returning, m.Table)
	}

	v.Write(";")
	return nil
}
