// Package postgres compiles query ASTs into PostgreSQL flavored SQL
// with `$n` placeholders.
package postgres

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/zoobzio/sqlast"
)

type dialect struct {
	sqlast.DefaultDialect
}

// Build compiles the query for PostgreSQL.
func Build(q sqlast.Query) (string, []sqlast.Value, error) {
	d := &dialect{DefaultDialect: sqlast.DefaultDialect{Dialect: "postgres"}}
	return sqlast.Build(d, q)
}

func (*dialect) Substitute(v *sqlast.Visitor) {
	v.Write("$")
	v.Write(strconv.Itoa(v.ParameterCount()))
}

// Enums are user-defined types, so drivers fire an extra roundtrip to
// resolve them when binding. Passing the value as text and casting
// keeps the parameter a builtin type.
func (*dialect) VisitParameterizedEnum(v *sqlast.Visitor, variant string, name *sqlast.EnumName) error {
	v.AddParameter(sqlast.TextValue(variant))

	if name == nil {
		v.Substitute()
		return nil
	}

	v.Write("CAST(")
	v.Substitute()
	v.Write("::text")
	v.Write(" AS ")
	writeEnumName(v, *name)
	v.Write(")")
	return nil
}

func (*dialect) VisitParameterizedEnumArray(v *sqlast.Visitor, variants []string, name *sqlast.EnumName) error {
	vals := make([]sqlast.Value, 0, len(variants))

	if name == nil {
		for _, variant := range variants {
			vals = append(vals, sqlast.EnumValue(variant, nil))
		}
		return v.VisitParameterized(sqlast.ArrayValue(vals...))
	}

	for _, variant := range variants {
		vals = append(vals, sqlast.TextValue(variant))
	}
	v.AddParameter(sqlast.ArrayValue(vals...))

	v.Write("CAST(")
	v.Substitute()
	v.Write("::text[]")
	v.Write(" AS ")
	writeEnumName(v, *name)
	v.Write("[]")
	v.Write(")")
	return nil
}

func writeEnumName(v *sqlast.Visitor, name sqlast.EnumName) {
	if name.Schema != "" {
		v.Quote(name.Schema)
		v.Write(".")
	}
	v.Quote(name.Name)
}

// Selected enum columns come back as text, keeping the driver from
// resolving the user-defined type.
func (*dialect) VisitColumn(v *sqlast.Visitor, c sqlast.Column) error {
	if c.Table != nil {
		if err := v.VisitTable(*c.Table, false); err != nil {
			return err
		}
		v.Write(".")
	}
	v.DelimitedIdentifiers(c.Name)

	if c.IsEnum && c.IsSelected {
		if c.IsList {
			v.Write("::text[]")
		} else {
			v.Write("::text")
		}
	}

	if c.Alias != "" {
		v.Write(" AS ")
		v.DelimitedIdentifiers(c.Alias)
	}

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
		v.Write("E'")
		v.Write(hex.EncodeToString(val.Bytes))
		v.Write("'")
	case sqlast.KindBoolean:
		v.Write(strconv.FormatBool(val.Bool))
	case sqlast.KindXML:
		quoted(v, val.XML)
	case sqlast.KindArray:
		v.Write("'{")
		for i, item := range val.Array {
			if i > 0 {
				v.Write(",")
			}
			if err := writeArrayItem(v, item); err != nil {
				return err
			}
		}
		v.Write("}'")
	case sqlast.KindEnumArray:
		v.Write("ARRAY[")
		for i, variant := range val.EnumVariants {
			if i > 0 {
				v.Write(",")
			}
			quoted(v, variant)
		}
		v.Write("]")
		if val.EnumName != nil {
			v.Write("::")
			writeEnumName(v, *val.EnumName)
		}
	case sqlast.KindJSON:
		quoted(v, sqlast.CompactJSON(val.JSON))
	case sqlast.KindNumeric:
		v.Write(val.Numeric.String())
	case sqlast.KindUUID:
		quoted(v, val.UUID.String())
	case sqlast.KindDateTime:
		quoted(v, sqlast.FormatRawDateTime(val.DateTime))
	case sqlast.KindDate:
		quoted(v, val.Date.String())
	case sqlast.KindTime:
		quoted(v, val.Time.String())
	default:
		return v.Unsupported("raw value kind")
	}

	return nil
}

func writeArrayItem(v *sqlast.Visitor, item sqlast.Value) error {
	switch item.Kind {
	case sqlast.KindInt32:
		v.Write(strconv.FormatInt(int64(item.Int32), 10))
		return nil
	case sqlast.KindInt64:
		v.Write(strconv.FormatInt(item.Int64, 10))
		return nil
	case sqlast.KindText:
		v.Write(item.Text)
		return nil
	default:
		return v.VisitRawValue(item)
	}
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
	v.Write("INSERT ")

	if i.Table != nil {
		v.Write("INTO ")
		if err := v.VisitTable(*i.Table, true); err != nil {
			return err
		}
	}

	writeColumnList := func(columns []sqlast.Column) error {
		v.Write(" (")
		for idx, c := range columns {
			if idx > 0 {
				v.Write(",")
			}
			if err := v.VisitColumn(sqlast.NewColumn(c.Name)); err != nil {
				return err
			}
		}
		v.Write(")")
		return nil
	}

	switch values := i.Values.Kind.(type) {
	case sqlast.ExprRow:
		if values.Row.Len() == 0 {
			v.Write(" DEFAULT VALUES")
		} else {
			if err := writeColumnList(i.Columns); err != nil {
				return err
			}
			v.Write(" VALUES ")
			if err := v.VisitRow(values.Row); err != nil {
				return err
			}
		}
	case sqlast.ExprValues:
		if err := writeColumnList(i.Columns); err != nil {
			return err
		}
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

	if i.OnConflict != nil {
		switch i.OnConflict.Kind {
		case sqlast.ConflictDoNothing:
			v.Write(" ON CONFLICT DO NOTHING")
		case sqlast.ConflictUpdate:
			v.Write(" ON CONFLICT")
			if err := v.ColumnsToBracketList(i.OnConflict.Columns); err != nil {
				return err
			}
			v.Write(" DO ")
			if err := v.VisitUpsert(i.OnConflict.Update); err != nil {
				return err
			}
		}
	}

	if len(i.Returning) > 0 {
		v.Write(" RETURNING ")
		if err := v.VisitColumns(sqlast.ColumnExprs(i.Returning)); err != nil {
			return err
		}
	}

	if i.Comment != "" {
		v.Write(" ")
		v.VisitComment(i.Comment)
	}

	return nil
}

func (*dialect) VisitDelete(v *sqlast.Visitor, d *sqlast.Delete) error {
	v.Write("DELETE FROM ")
	if err := v.VisitTable(d.Table, true); err != nil {
		return err
	}

	if d.Conditions != nil {
		v.Write(" WHERE ")
		if err := v.VisitConditions(*d.Conditions); err != nil {
			return err
		}
	}

	if len(d.Returning) > 0 {
		v.Write(" RETURNING ")
		if err := v.VisitColumns(sqlast.ColumnExprs(d.Returning)); err != nil {
			return err
		}
	}

	if d.Comment != "" {
		v.Write(" ")
		v.VisitComment(d.Comment)
	}

	return nil
}

func (*dialect) VisitAggregateToString(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("ARRAY_TO_STRING")
	v.Write("(")
	v.Write("ARRAY_AGG")
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(")")
	v.Write("','")
	v.Write(")")
	return nil
}

// One side being a json or xml value forces a cast on the other, as
// comparing jsonb against text fails on type.
func jsonXMLCast(e sqlast.Expression) string {
	switch {
	case e.IsJSONValue():
		return "::jsonb"
	case e.IsXMLValue():
		return "::text"
	default:
		return ""
	}
}

func equalityComparison(v *sqlast.Visitor, left, right sqlast.Expression, sign string) error {
	leftCast := jsonXMLCast(right)
	rightCast := jsonXMLCast(left)

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(leftCast)
	v.Write(sign)
	if err := v.VisitExpression(right); err != nil {
		return err
	}
	v.Write(rightCast)
	return nil
}

func (*dialect) VisitEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return equalityComparison(v, left, right, " = ")
}

func (*dialect) VisitNotEquals(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return equalityComparison(v, left, right, " <> ")
}

// LIKE only compares strings, and postgres does not implicitly cast,
// so a column on the left goes through text.
func likeComparison(v *sqlast.Visitor, left, right sqlast.Expression, keyword string) error {
	_, needCast := left.Kind.(sqlast.ExprColumn)

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	if needCast {
		v.Write("::text")
	}
	v.Write(keyword)
	return v.VisitExpression(right)
}

func (*dialect) VisitLike(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return likeComparison(v, left, right, " LIKE ")
}

func (*dialect) VisitNotLike(v *sqlast.Visitor, left, right sqlast.Expression) error {
	return likeComparison(v, left, right, " NOT LIKE ")
}

func (*dialect) VisitConcat(v *sqlast.Visitor, exprs []sqlast.Expression) error {
	v.Write("(")
	for i, e := range exprs {
		if i > 0 {
			v.Write(" || ")
		}
		if err := v.VisitExpression(e); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
}

// Casting the aggregate result instead of the inner enum column keeps
// MIN and MAX comparing enum order, not text order.
func aggregateEnumCast(v *sqlast.Visitor, keyword string, c sqlast.Column) error {
	shouldCast := c.IsEnum && c.IsSelected

	inner := c
	inner.IsSelected = false

	v.Write(keyword)
	v.Write("(")
	if err := v.VisitColumn(inner); err != nil {
		return err
	}
	v.Write(")")

	if shouldCast {
		v.Write("::text")
	}
	return nil
}

func (*dialect) VisitMinimum(v *sqlast.Visitor, c sqlast.Column) error {
	return aggregateEnumCast(v, "MIN", c)
}

func (*dialect) VisitMaximum(v *sqlast.Visitor, c sqlast.Column) error {
	return aggregateEnumCast(v, "MAX", c)
}

func (*dialect) VisitJSONExtract(v *sqlast.Visitor, f sqlast.Function) error {
	if !f.Path.IsArray {
		return sqlast.ConversionError{Message: "JSON path string notation is not supported for Postgres"}
	}

	v.Write("(")
	if err := v.VisitExpression(*f.Arg); err != nil {
		return err
	}

	if f.AsString {
		v.Write("#>>")
	} else {
		v.Write("#>")
	}

	// ARRAY[]::text[] notation handles escaped characters better than
	// the '{a, b, c}' string form over the text protocol.
	v.Write("ARRAY[")
	for i, segment := range f.Path.Segments {
		if i > 0 {
			v.Write(", ")
		}
		if err := v.VisitParameterized(sqlast.TextValue(segment)); err != nil {
			return err
		}
	}
	v.Write("]::text[]")
	v.Write(")")

	if !f.AsString {
		v.Write("::jsonb")
	}

	return nil
}

func (*dialect) VisitJSONUnquote(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write("#>>ARRAY[]::text[]")
	v.Write(")")
	return nil
}

func (*dialect) VisitJSONExtractFirstArrayItem(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write("->0")
	v.Write(")")
	return nil
}

func (*dialect) VisitJSONExtractLastArrayItem(v *sqlast.Visitor, e sqlast.Expression) error {
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write("->-1")
	v.Write(")")
	return nil
}

func (*dialect) VisitJSONArrayContains(v *sqlast.Visitor, left, right sqlast.Expression, not bool) error {
	if not {
		v.Write("( NOT ")
	}

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" @> ")
	if err := v.VisitExpression(right); err != nil {
		return err
	}

	if not {
		v.Write(" )")
	}

	return nil
}

func (*dialect) VisitJSONTypeEquals(v *sqlast.Visitor, left sqlast.Expression, t sqlast.JSONType, not bool) error {
	v.Write("JSONB_TYPEOF")
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
		return typeName("array")
	case sqlast.JSONTypeBoolean:
		return typeName("boolean")
	case sqlast.JSONTypeNumber:
		return typeName("number")
	case sqlast.JSONTypeObject:
		return typeName("object")
	case sqlast.JSONTypeString:
		return typeName("string")
	case sqlast.JSONTypeNull:
		return typeName("null")
	case sqlast.JSONTypeColumn:
		v.Write("JSONB_TYPEOF")
		v.Write("(")
		if err := v.VisitColumn(*t.Column); err != nil {
			return err
		}
		v.Write("::jsonb)")
		return nil
	default:
		return v.Unsupported("JSON type kind")
	}
}

func visitSearchVector(v *sqlast.Visitor, exprs []sqlast.Expression) error {
	v.Write("to_tsvector(concat_ws(' ', ")
	for i, e := range exprs {
		if i > 0 {
			v.Write(",")
		}
		if err := v.VisitExpression(e); err != nil {
			return err
		}
	}
	v.Write("))")
	return nil
}

func (*dialect) VisitTextSearch(v *sqlast.Visitor, exprs []sqlast.Expression) error {
	return visitSearchVector(v, exprs)
}

func (*dialect) VisitMatches(v *sqlast.Visitor, left sqlast.Expression, query string, not bool) error {
	if not {
		v.Write("(NOT ")
	}

	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" @@ ")
	v.Write("to_tsquery(")
	if err := v.VisitParameterized(sqlast.TextValue(query)); err != nil {
		return err
	}
	v.Write(")")

	if not {
		v.Write(")")
	}

	return nil
}

func (*dialect) VisitTextSearchRelevance(v *sqlast.Visitor, exprs []sqlast.Expression, query string) error {
	v.Write("ts_rank(")
	if err := visitSearchVector(v, exprs); err != nil {
		return err
	}
	v.Write(", ")
	v.Write("to_tsquery(")
	if err := v.VisitParameterized(sqlast.TextValue(query)); err != nil {
		return err
	}
	v.Write(")")
	v.Write(")")
	return nil
}
