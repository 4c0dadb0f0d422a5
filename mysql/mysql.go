// Package mysql compiles query ASTs into MySQL flavored SQL with `?`
// placeholders.
package mysql

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/zoobzio/sqlast"
)

type dialect struct {
	sqlast.DefaultDialect

	// targetTable is the table an UPDATE or DELETE modifies. MySQL
	// errors when a subselect references it, so those subselects get
	// wrapped in a temporary table.
	targetTable *sqlast.Table
}

// Build compiles the query for MySQL.
func Build(q sqlast.Query) (string, []sqlast.Value, error) {
	d := &dialect{DefaultDialect: sqlast.DefaultDialect{Dialect: "mysql"}}
	d.targetTable = targetTable(q)

	return sqlast.Build(d, q)
}

func targetTable(q sqlast.Query) *sqlast.Table {
	switch t := q.(type) {
	case *sqlast.Update:
		table := t.Table
		return &table
	case *sqlast.Delete:
		table := t.Table
		return &table
	default:
		return nil
	}
}

func (*dialect) QuoteOpen() string  { return "`" }
func (*dialect) QuoteClose() string { return "`" }

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
	case sqlast.KindEnum:
		v.Write(val.EnumVariant)
	case sqlast.KindBytes:
		v.Write("x'")
		v.Write(hex.EncodeToString(val.Bytes))
		v.Write("'")
	case sqlast.KindBoolean:
		v.Write(strconv.FormatBool(val.Bool))
	case sqlast.KindChar:
		quoted(v, string(val.Char))
	case sqlast.KindArray, sqlast.KindEnumArray:
		return sqlast.ConversionError{Message: "Arrays are not supported in MySQL."}
	case sqlast.KindNumeric:
		v.Write(val.Numeric.String())
	case sqlast.KindJSON:
		v.Write("CONVERT('")
		v.Write(sqlast.CompactJSON(val.JSON))
		v.Write("', JSON)")
	case sqlast.KindUUID:
		quoted(v, val.UUID.String())
	case sqlast.KindDateTime:
		quoted(v, sqlast.FormatRawDateTime(val.DateTime))
	case sqlast.KindDate:
		quoted(v, val.Date.String())
	case sqlast.KindTime:
		quoted(v, val.Time.String())
	case sqlast.KindXML:
		quoted(v, val.XML)
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

func (*dialect) VisitInsert(v *sqlast.Visitor, i *sqlast.Insert) error {
	if i.OnConflict != nil && i.OnConflict.Kind == sqlast.ConflictUpdate {
		return v.Unsupported("ON CONFLICT DO UPDATE")
	}

	if i.OnConflict != nil && i.OnConflict.Kind == sqlast.ConflictDoNothing {
		v.Write("INSERT IGNORE ")
	} else {
		v.Write("INSERT ")
	}

	if i.Table != nil {
		v.Write("INTO ")
		if err := v.VisitTable(*i.Table, true); err != nil {
			return err
		}
	}

	switch values := i.Values.Kind.(type) {
	case sqlast.ExprRow:
		if values.Row.Len() == 0 {
			v.Write(" () VALUES ()")
		} else {
			v.Write(" (")
			for idx, c := range i.Columns {
				if idx > 0 {
					v.Write(",")
				}
				if err := v.VisitColumn(sqlast.NewColumn(c.Name)); err != nil {
					return err
				}
			}
			v.Write(")")
			v.Write(" VALUES ")
			if err := v.VisitRow(values.Row); err != nil {
				return err
			}
		}
	case sqlast.ExprValues:
		v.Write(" (")
		for idx, c := range i.Columns {
			if idx > 0 {
				v.Write(",")
			}
			if err := v.VisitColumn(sqlast.NewColumn(c.Name)); err != nil {
				return err
			}
		}
		v.Write(")")
		v.Write(" VALUES ")
		for idx, row := range values.Values.Rows {
			if idx > 0 {
				v.Write(", ")
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

	if i.Comment != "" {
		v.Write(" ")
		v.VisitComment(i.Comment)
	}

	return nil
}

// Subselects in UPDATE or DELETE queries referencing the modified
// table get wrapped in a temporary table, as MySQL refuses to read the
// target otherwise.
func (d *dialect) VisitSubSelection(v *sqlast.Visitor, q sqlast.SelectQuery) error {
	sel, ok := q.(*sqlast.Select)
	if ok && d.targetTable != nil && containsTable(sel.Tables, *d.targetTable) {
		const tmpName = "tmp_subselect_table"

		wrapped := sqlast.SelectFrom(sqlast.SubqueryTable(sel).As(tmpName)).
			Value(sqlast.NewTable(tmpName).Asterisk())

		return v.VisitSelection(wrapped)
	}

	return v.VisitSelection(q)
}

func containsTable(tables []sqlast.Table, target sqlast.Table) bool {
	for _, t := range tables {
		if t.Kind == sqlast.TableName && target.Kind == sqlast.TableName &&
			t.Name == target.Name && t.Database == target.Database {
			return true
		}
	}
	return false
}

func (*dialect) VisitLimitAndOffset(v *sqlast.Visitor, limit, offset *sqlast.Value) error {
	switch {
	case limit != nil && offset != nil:
		v.Write(" LIMIT ")
		if err := v.VisitParameterized(*limit); err != nil {
			return err
		}
		v.Write(" OFFSET ")
		return v.VisitParameterized(*offset)
	case limit == nil && offset != nil:
		if n, ok := offset.AsInt64(); ok && n < 1 {
			return nil
		}

		// MySQL has no bare OFFSET, so the limit gets a sentinel.
		v.Write(" LIMIT ")
		if err := v.VisitParameterized(sqlast.Int64Value(math.MaxInt64)); err != nil {
			return err
		}
		v.Write(" OFFSET ")
		return v.VisitParameterized(*offset)
	case limit != nil:
		v.Write(" LIMIT ")
		return v.VisitParameterized(*limit)
	default:
		return nil
	}
}

func (*dialect) VisitAggregateToString(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write(" GROUP_CONCAT")
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

// JSON equality goes through a bidirectional containment check, as
// MySQL compares JSON values structurally only that way.
func (*dialect) VisitEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	if left.IsJSONExpr() || right.IsJSONExpr() {
		v.Write("(")
		v.Write("JSON_CONTAINS(")
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(", ")
		if err := v.VisitExpression(right); err != nil {
			return err
		}
		v.Write(")")
		v.Write(" AND ")
		v.Write("JSON_CONTAINS(")
		if err := v.VisitExpression(right); err != nil {
			return err
		}
		v.Write(", ")
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(")")
		v.Write(")")
		return nil
	}

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" = ")
	return v.VisitExpression(right)
}

func (*dialect) VisitNotEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	if left.IsJSONExpr() || right.IsJSONExpr() {
		v.Write("(")
		v.Write("NOT JSON_CONTAINS(")
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(", ")
		if err := v.VisitExpression(right); err != nil {
			return err
		}
		v.Write(")")
		v.Write(" OR ")
		v.Write("NOT JSON_CONTAINS(")
		if err := v.VisitExpression(right); err != nil {
			return err
		}
		v.Write(", ")
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(")")
		v.Write(")")
		return nil
	}

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" <> ")
	return v.VisitExpression(right)
}

// jsonScalarValue coerces a JSON literal into a typed parameter, as
// MySQL compares a bare JSON scalar against JSON_EXTRACT results with
// the wrong collation otherwise.
func jsonScalarValue(raw json.RawMessage) (sqlast.Value, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return sqlast.Int64Value(i), nil
		}
		if f, err := num.Float64(); err == nil {
			return sqlast.DoubleValue(f), nil
		}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return sqlast.TextValue(text), nil
	}

	msg := fmt.Sprintf("Expected JSON string or number, found: %s", sqlast.CompactJSON(raw))
	return sqlast.Value{}, sqlast.ConversionError{Message: msg}
}

func numericComparison(v *sqlast.Visitor, left, right sqlast.Expression, sign string) error {
	leftJSON, leftIsJSON := left.IntoJSONValue()
	rightJSON, rightIsJSON := right.IntoJSONValue()

	switch {
	case leftIsJSON && isJSONFunction(right):
		val, err := jsonScalarValue(leftJSON.JSON)
		if err != nil {
			return err
		}
		if err := v.VisitParameterized(val); err != nil {
			return err
		}
		v.Write(" " + sign + " ")
		return v.VisitExpression(right)
	case isJSONFunction(left) && rightIsJSON:
		val, err := jsonScalarValue(rightJSON.JSON)
		if err != nil {
			return err
		}
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(" " + sign + " ")
		return v.VisitParameterized(val)
	default:
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(" " + sign + " ")
		return v.VisitExpression(right)
	}
}

func isJSONFunction(e sqlast.Expression) bool {
	return e.IsJSONExpr() && !e.IsJSONValue()
}

func (*dialect) VisitLessThan(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return numericComparison(v, left, right, "<")
}

func (*dialect) VisitLessThanOrEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return numericComparison(v, left, right, "<=")
}

func (*dialect) VisitGreaterThan(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return numericComparison(v, left, right, ">")
}

func (*dialect) VisitGreaterThanOrEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return numericComparison(v, left, right, ">=")
}

func (*dialect) VisitJSONExtract(v *sqlast.Visitor, f sqlast.Function) error {
	if f.Path.IsArray {
		return sqlast.ConversionError{Message: "JSON path array notation is not supported for MySQL"}
	}

	if f.AsString {
		v.Write("JSON_UNQUOTE(")
	}

	v.Write("JSON_EXTRACT(")
	if err := v.VisitExpression(*f.Arg); err != nil {
		return err
	}
	v.Write(", ")
	if err := v.VisitParameterized(sqlast.TextValue(f.Path.String)); err != nil {
		return err
	}
	v.Write(")")

	if f.AsString {
		v.Write(")")
	}

	return nil
}

func (*dialect) VisitJSONExtractFirstArrayItem(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("JSON_EXTRACT(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(", ")
	if err := v.VisitParameterized(sqlast.TextValue("$[0]")); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

func (*dialect) VisitJSONExtractLastArrayItem(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("JSON_EXTRACT(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(", ")
	v.Write("CONCAT('$[', ")
	v.Write("JSON_LENGTH(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(") - 1, ']'))")
	return nil
}

func (*dialect) VisitJSONUnquote(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("JSON_UNQUOTE(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

func (*dialect) VisitJSONArrayContains(v *sqlast.Visitor, left, right sqlast.Expression, not bool) error {
	v.Write("JSON_CONTAINS(")
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(", ")
	if err := v.VisitExpression(right); err != nil {
		return err
	}
	v.Write(")")

	if not {
		v.Write(" = FALSE")
	}

	return nil
}

func (*dialect) VisitJSONTypeEquals(v *sqlast.Visitor, left sqlast.Expression, t sqlast.JSONType, not bool) error {
	v.Write("(")
	v.Write("JSON_TYPE")
	v.Write("(")
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(")")

	if not {
		v.Write(" != ")
	} else {
		v.Write(" = ")
	}

	typeName := func(name string) error {
		return v.VisitParameterized(sqlast.TextValue(name))
	}

	switch t.Kind {
	case sqlast.JSONTypeArray:
		if err := typeName("ARRAY"); err != nil {
			return err
		}
	case sqlast.JSONTypeBoolean:
		if err := typeName("BOOLEAN"); err != nil {
			return err
		}
	case sqlast.JSONTypeNumber:
		// MySQL splits numbers into two JSON types.
		if err := typeName("INTEGER"); err != nil {
			return err
		}
		v.Write(" OR JSON_TYPE(")
		if err := v.VisitExpression(left); err != nil {
			return err
		}
		v.Write(")")
		v.Write(" = ")
		if err := typeName("DOUBLE"); err != nil {
			return err
		}
	case sqlast.JSONTypeObject:
		if err := typeName("OBJECT"); err != nil {
			return err
		}
	case sqlast.JSONTypeString:
		if err := typeName("STRING"); err != nil {
			return err
		}
	case sqlast.JSONTypeNull:
		if err := typeName("NULL"); err != nil {
			return err
		}
	case sqlast.JSONTypeColumn:
		v.Write("JSON_TYPE")
		v.Write("(")
		if err := v.VisitColumn(*t.Column); err != nil {
			return err
		}
		v.Write(")")
	}

	v.Write(")")
	return nil
}

func (*dialect) VisitTextSearch(v *sqlast.Visitor, exprs []sqlast.Expression) error {
	v.Write("MATCH (")
	for i, e := range exprs {
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

func (*dialect) VisitMatches(v *sqlast.Visitor, left sqlast.Expression, query string, not bool) error {
	if not {
		v.Write("(NOT ")
	}

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write("AGAINST (")
	if err := v.VisitParameterized(sqlast.TextValue(query)); err != nil {
		return err
	}
	v.Write(" IN BOOLEAN MODE)")

	if not {
		v.Write(")")
	}

	return nil
}

func (d *dialect) VisitTextSearchRelevance(v *sqlast.Visitor, exprs []sqlast.Expression, query string) error {
	search := sqlast.TextSearch()
	search.Exprs = exprs

	return d.VisitMatches(v, search.Expr(), query, false)
}

func (*dialect) VisitOrdering(v *sqlast.Visitor, o sqlast.Ordering) error {
	orderBy := func(e sqlast.Expression, direction string) error {
		if err := v.VisitExpression(e); err != nil {
			return err
		}
		v.Write(" " + direction)
		return nil
	}

	// ORDER BY x IS NOT NULL, x ASC emulates NULLS FIRST; IS NULL
	// emulates NULLS LAST.
	for i, term := range o.Terms {
		if i > 0 {
			v.Write(", ")
		}

		var err error
		switch term.Order {
		case sqlast.OrderAsc:
			err = orderBy(term.Expr, "ASC")
		case sqlast.OrderDesc:
			err = orderBy(term.Expr, "DESC")
		case sqlast.OrderAscNullsFirst:
			if err = orderBy(term.Expr, "IS NOT NULL"); err == nil {
				v.Write(", ")
				err = orderBy(term.Expr, "ASC")
			}
		case sqlast.OrderAscNullsLast:
			if err = orderBy(term.Expr, "IS NULL"); err == nil {
				v.Write(", ")
				err = orderBy(term.Expr, "ASC")
			}
		case sqlast.OrderDescNullsFirst:
			if err = orderBy(term.Expr, "IS NOT NULL"); err == nil {
				v.Write(", ")
				err = orderBy(term.Expr, "DESC")
			}
		case sqlast.OrderDescNullsLast:
			if err = orderBy(term.Expr, "IS NULL"); err == nil {
				v.Write(", ")
				err = orderBy(term.Expr, "DESC")
			}
		default:
			err = v.VisitExpression(term.Expr)
		}
		if err != nil {
			return err
		}
	}

	return nil
}
