package sqlast

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Dialect is the hook surface a database backend implements. Every
// hook has a generic implementation on DefaultDialect; backends embed
// it and override what their database renders differently.
type Dialect interface {
	Name() string
	QuoteOpen() string
	QuoteClose() string

	// CompatibilityModifications rewrites a query into a shape the
	// database can execute before the walk starts.
	CompatibilityModifications(q Query) (Query, error)
	// Substitute writes the placeholder for the last added parameter.
	Substitute(v *Visitor)

	VisitRawValue(v *Visitor, val Value) error
	VisitParameterizedEnum(v *Visitor, variant string, name *EnumName) error
	VisitParameterizedEnumArray(v *Visitor, variants []string, name *EnumName) error
	VisitInsert(v *Visitor, i *Insert) error
	VisitMerge(v *Visitor, m *Merge) error
	VisitDelete(v *Visitor, d *Delete) error
	VisitLimitAndOffset(v *Visitor, limit, offset *Value) error
	VisitOrdering(v *Visitor, o Ordering) error
	VisitAggregateToString(v *Visitor, e Expression) error
	VisitColumn(v *Visitor, c Column) error
	VisitEquals(v *Visitor, left, right Expression) error
	VisitNotEquals(v *Visitor, left, right Expression) error
	VisitLessThan(v *Visitor, left, right Expression) error
	VisitLessThanOrEquals(v *Visitor, left, right Expression) error
	VisitGreaterThan(v *Visitor, left, right Expression) error
	VisitGreaterThanOrEquals(v *Visitor, left, right Expression) error
	VisitLike(v *Visitor, left, right Expression) error
	VisitNotLike(v *Visitor, left, right Expression) error
	VisitMultipleTupleComparison(v *Visitor, left Row, right Values, negate bool) error
	VisitValues(v *Visitor, vals Values) error
	VisitSubSelection(v *Visitor, q SelectQuery) error
	VisitAverage(v *Visitor, c Column) error
	VisitConcat(v *Visitor, exprs []Expression) error
	VisitMinimum(v *Visitor, c Column) error
	VisitMaximum(v *Visitor, c Column) error
	VisitJSONExtract(v *Visitor, f Function) error
	VisitJSONExtractFirstArrayItem(v *Visitor, e Expression) error
	VisitJSONExtractLastArrayItem(v *Visitor, e Expression) error
	VisitJSONUnquote(v *Visitor, e Expression) error
	VisitJSONArrayContains(v *Visitor, left, right Expression, not bool) error
	VisitJSONTypeEquals(v *Visitor, left Expression, t JSONType, not bool) error
	VisitTextSearch(v *Visitor, exprs []Expression) error
	VisitMatches(v *Visitor, left Expression, query string, not bool) error
	VisitTextSearchRelevance(v *Visitor, exprs []Expression, query string) error
}

// DefaultDialect renders generic ANSI-flavored SQL. Backends embed it
// so they only write the hooks their database deviates on.
type DefaultDialect struct {
	Dialect string
}

func (d DefaultDialect) Name() string { return d.Dialect }

func (DefaultDialect) QuoteOpen() string  { return `"` }
func (DefaultDialect) QuoteClose() string { return `"` }

func (DefaultDialect) CompatibilityModifications(q Query) (Query, error) {
	return q, nil
}

func (DefaultDialect) Substitute(v *Visitor) {
	v.Write("?")
}

func (DefaultDialect) VisitParameterizedEnum(v *Visitor, variant string, name *EnumName) error {
	v.AddParameter(EnumValue(variant, name))
	v.Substitute()
	return nil
}

func (DefaultDialect) VisitParameterizedEnumArray(v *Visitor, variants []string, name *EnumName) error {
	vals := make([]Value, 0, len(variants))
	for _, variant := range variants {
		vals = append(vals, EnumValue(variant, name))
	}
	v.AddParameter(ArrayValue(vals...))
	v.Substitute()
	return nil
}

func (DefaultDialect) VisitInsert(v *Visitor, i *Insert) error {
	v.Write("INSERT INTO ")
	if err := v.VisitTable(*i.Table, true); err != nil {
		return err
	}

	switch values := i.Values.Kind.(type) {
	case ExprRow:
		if values.Row.Len() == 0 {
			v.Write(" DEFAULT VALUES")
		} else {
			v.Write(" (")
			for idx, c := range i.Columns {
				if idx > 0 {
					v.Write(", ")
				}
				if err := v.dialect.VisitColumn(v, NewColumn(c.Name)); err != nil {
					return err
				}
			}
			v.Write(")")
			v.Write(" VALUES ")
			if err := v.VisitRow(values.Row); err != nil {
				return err
			}
		}
	case ExprValues:
		v.Write(" (")
		for idx, c := range i.Columns {
			if idx > 0 {
				v.Write(", ")
			}
			if err := v.dialect.VisitColumn(v, NewColumn(c.Name)); err != nil {
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
		if err := v.VisitExpression(i.Values); err != nil {
			return err
		}
	}

	if i.OnConflict != nil {
		switch i.OnConflict.Kind {
		case ConflictDoNothing:
			v.Write(" ON CONFLICT DO NOTHING")
		case ConflictUpdate:
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
		if err := v.VisitColumns(ColumnExprs(i.Returning)); err != nil {
			return err
		}
	}

	if i.Comment != "" {
		v.Write(" ")
		v.VisitComment(i.Comment)
	}

	return nil
}

func (DefaultDialect) VisitMerge(v *Visitor, m *Merge) error {
	return v.Unsupported("MERGE")
}

func (DefaultDialect) VisitDelete(v *Visitor, d *Delete) error {
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

	if d.Comment != "" {
		v.Write(" ")
		v.VisitComment(d.Comment)
	}

	return nil
}

func (DefaultDialect) VisitLimitAndOffset(v *Visitor, limit, offset *Value) error {
	if limit != nil {
		v.Write(" LIMIT ")
		if err := v.VisitParameterized(*limit); err != nil {
			return err
		}
	}
	if offset != nil {
		v.Write(" OFFSET ")
		if err := v.VisitParameterized(*offset); err != nil {
			return err
		}
	}
	return nil
}

func (DefaultDialect) VisitOrdering(v *Visitor, o Ordering) error {
	for i, term := range o.Terms {
		if i > 0 {
			v.Write(", ")
		}
		if err := v.VisitExpression(term.Expr); err != nil {
			return err
		}
		switch term.Order {
		case OrderAsc:
			v.Write(" ASC")
		case OrderDesc:
			v.Write(" DESC")
		case OrderAscNullsFirst:
			v.Write(" ASC NULLS FIRST")
		case OrderAscNullsLast:
			v.Write(" ASC NULLS LAST")
		case OrderDescNullsFirst:
			v.Write(" DESC NULLS FIRST")
		case OrderDescNullsLast:
			v.Write(" DESC NULLS LAST")
		}
	}
	return nil
}

func (DefaultDialect) VisitAggregateToString(v *Visitor, e Expression) error {
	v.Write("GROUP_CONCAT")
	v.Write("(")
	if err := v.VisitExpression(e); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

func (DefaultDialect) VisitColumn(v *Visitor, c Column) error {
	return v.VisitColumnBase(c)
}

func (DefaultDialect) VisitEquals(v *Visitor, left, right Expression) error {
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" = ")
	return v.VisitExpression(right)
}

func (DefaultDialect) VisitNotEquals(v *Visitor, left, right Expression) error {
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" <> ")
	return v.VisitExpression(right)
}

func visitOrderingComparison(v *Visitor, left, right Expression, sign string) error {
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(sign)
	return v.VisitExpression(right)
}

func (DefaultDialect) VisitLessThan(v *Visitor, left, right Expression) error {
	return visitOrderingComparison(v, left, right, " < ")
}

func (DefaultDialect) VisitLessThanOrEquals(v *Visitor, left, right Expression) error {
	return visitOrderingComparison(v, left, right, " <= ")
}

func (DefaultDialect) VisitGreaterThan(v *Visitor, left, right Expression) error {
	return visitOrderingComparison(v, left, right, " > ")
}

func (DefaultDialect) VisitGreaterThanOrEquals(v *Visitor, left, right Expression) error {
	return visitOrderingComparison(v, left, right, " >= ")
}

func (DefaultDialect) VisitLike(v *Visitor, left, right Expression) error {
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" LIKE ")
	return v.VisitExpression(right)
}

func (DefaultDialect) VisitNotLike(v *Visitor, left, right Expression) error {
	if err := v.VisitExpression(left); err != nil {
		return err
	}
	v.Write(" NOT LIKE ")
	return v.VisitExpression(right)
}

func (DefaultDialect) VisitMultipleTupleComparison(v *Visitor, left Row, right Values, negate bool) error {
	if err := v.VisitRow(left); err != nil {
		return err
	}
	if negate {
		v.Write(" NOT IN ")
	} else {
		v.Write(" IN ")
	}
	return v.dialect.VisitValues(v, right)
}

func (DefaultDialect) VisitValues(v *Visitor, vals Values) error {
	return v.VisitValuesBase(vals)
}

func (DefaultDialect) VisitSubSelection(v *Visitor, q SelectQuery) error {
	return v.VisitSelection(q)
}

func (DefaultDialect) VisitAverage(v *Visitor, c Column) error {
	v.Write("AVG")
	v.Write("(")
	if err := v.dialect.VisitColumn(v, c); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

func (DefaultDialect) VisitConcat(v *Visitor, exprs []Expression) error {
	v.Write("CONCAT")
	v.Write("(")
	for i, e := range exprs {
		if i > 0 {
			v.Write(", ")
		}
		if err := v.VisitExpression(e); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
}

func (DefaultDialect) VisitMinimum(v *Visitor, c Column) error {
	v.Write("MIN")
	v.Write("(")
	if err := v.dialect.VisitColumn(v, c); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

func (DefaultDialect) VisitMaximum(v *Visitor, c Column) error {
	v.Write("MAX")
	v.Write("(")
	if err := v.dialect.VisitColumn(v, c); err != nil {
		return err
	}
	v.Write(")")
	return nil
}

func (DefaultDialect) VisitJSONExtract(v *Visitor, f Function) error {
	return v.Unsupported("JSON filtering")
}

func (DefaultDialect) VisitJSONExtractFirstArrayItem(v *Visitor, e Expression) error {
	return v.Unsupported("JSON filtering")
}

func (DefaultDialect) VisitJSONExtractLastArrayItem(v *Visitor, e Expression) error {
	return v.Unsupported("JSON filtering")
}

func (DefaultDialect) VisitJSONUnquote(v *Visitor, e Expression) error {
	return v.Unsupported("JSON filtering")
}

func (DefaultDialect) VisitJSONArrayContains(v *Visitor, left, right Expression, not bool) error {
	return v.Unsupported("JSON filtering")
}

func (DefaultDialect) VisitJSONTypeEquals(v *Visitor, left Expression, t JSONType, not bool) error {
	return v.Unsupported("JSON filtering")
}

func (DefaultDialect) VisitTextSearch(v *Visitor, exprs []Expression) error {
	return v.Unsupported("full-text search")
}

func (DefaultDialect) VisitMatches(v *Visitor, left Expression, query string, not bool) error {
	return v.Unsupported("full-text search")
}

func (DefaultDialect) VisitTextSearchRelevance(v *Visitor, exprs []Expression, query string) error {
	return v.Unsupported("full-text search")
}

func (DefaultDialect) VisitRawValue(v *Visitor, val Value) error {
	if val.Null {
		v.Write("null")
		return nil
	}

	switch val.Kind {
	case KindInt32:
		v.Write(strconv.FormatInt(int64(val.Int32), 10))
	case KindInt64:
		v.Write(strconv.FormatInt(val.Int64, 10))
	case KindFloat:
		v.Write(FormatRawFloat(float64(val.Float)))
	case KindDouble:
		v.Write(FormatRawFloat(val.Double))
	case KindText:
		writeQuoted(v, val.Text)
	case KindChar:
		writeQuoted(v, string(val.Char))
	case KindEnum:
		v.Write(val.EnumVariant)
	case KindBytes:
		v.Write("x'")
		v.Write(hex.EncodeToString(val.Bytes))
		v.Write("'")
	case KindBoolean:
		if val.Bool {
			v.Write("true")
		} else {
			v.Write("false")
		}
	case KindNumeric:
		v.Write(val.Numeric.String())
	case KindJSON:
		writeQuoted(v, CompactJSON(val.JSON))
	case KindXML:
		writeQuoted(v, val.XML)
	case KindUUID:
		writeQuoted(v, val.UUID.String())
	case KindDateTime:
		writeQuoted(v, FormatRawDateTime(val.DateTime))
	case KindDate:
		writeQuoted(v, val.Date.String())
	case KindTime:
		writeQuoted(v, val.Time.String())
	default:
		return v.Unsupported("array literals")
	}

	return nil
}

func writeQuoted(v *Visitor, s string) {
	v.Write("'")
	v.Write(s)
	v.Write("'")
}

// FormatRawFloat renders a float literal, keeping a decimal point on
// round numbers so the database reads it as a float.
func FormatRawFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatRawDateTime renders a timestamp literal in RFC 3339 form.
func FormatRawDateTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.999999999-07:00")
}

// CompactJSON renders a JSON document without insignificant
// whitespace.
func CompactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
