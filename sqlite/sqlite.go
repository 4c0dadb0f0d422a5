// Package sqlite compiles query ASTs into SQLite flavored SQL with `?`
// placeholders.
package sqlite

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/zoobzio/sqlast"
)

type dialect struct {
	sqlast.DefaultDialect
}

// Build compiles the query for SQLite.
func Build(q sqlast.Query) (string, []sqlast.Value, error) {
	d := &dialect{DefaultDialect: sqlast.DefaultDialect{Dialect: "sqlite"}}
	return sqlast.Build(d, q)
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
	case sqlast.KindChar:
		quoted(v, string(val.Char))
	case sqlast.KindEnum:
		v.Write(val.EnumVariant)
	case sqlast.KindBytes:
		v.Write("x'")
		v.Write(hex.EncodeToString(val.Bytes))
		v.Write("'")
	case sqlast.KindBoolean:
		v.Write(strconv.FormatBool(val.Bool))
	case sqlast.KindArray, sqlast.KindEnumArray:
		return sqlast.ConversionError{Message: "Arrays are not supported in SQLite."}
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
	if i.OnConflict != nil && i.OnConflict.Kind == sqlast.ConflictDoNothing {
		v.Write("INSERT OR IGNORE")
	} else {
		v.Write("INSERT")
	}

	if i.Table != nil {
		v.Write(" INTO ")
		if err := v.VisitTable(*i.Table, true); err != nil {
			return err
		}
	}

	writeColumnList := func(columns []sqlast.Column) error {
		v.Write(" (")
		for idx, c := range columns {
			if idx > 0 {
				v.Write(", ")
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
		if err := v.VisitExpression(i.Values); err != nil {
			return err
		}
	}

	if i.OnConflict != nil && i.OnConflict.Kind == sqlast.ConflictUpdate {
		v.Write(" ON CONFLICT")
		if err := v.ColumnsToBracketList(i.OnConflict.Columns); err != nil {
			return err
		}
		v.Write(" DO ")
		if err := v.VisitUpsert(i.OnConflict.Update); err != nil {
			return err
		}
	}

	if len(i.Returning) > 0 {
		// RETURNING aliases every column to itself, working around the
		// sqlite quirk where the bare form reports the expression text
		// as the column name.
		v.Write(" RETURNING ")
		for idx, c := range i.Returning {
			if idx > 0 {
				v.Write(", ")
			}
			v.Quote(c.Name)
			v.Write(" AS ")
			v.Quote(c.Name)
		}
	}

	if i.Comment != "" {
		v.Write("; ")
		v.VisitComment(i.Comment)
	}

	return nil
}

// SQLite has no bare OFFSET, so a missing limit renders as LIMIT -1.
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
		v.Write(" LIMIT ")
		if err := v.VisitParameterized(sqlast.Int32Value(-1)); err != nil {
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

func (*dialect) VisitValues(v *sqlast.Visitor, vals sqlast.Values) error {
	v.Write("(VALUES ")
	for i, row := range vals.Rows {
		if i > 0 {
			v.Write(",")
		}
		if err := v.VisitRow(row); err != nil {
			return err
		}
	}
	v.Write(")")
	return nil
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

// NULLS FIRST and NULLS LAST are emulated with a CASE WHEN prefix term,
// keeping the same output on older sqlite versions.
func (*dialect) VisitOrdering(v *sqlast.Visitor, o sqlast.Ordering) error {
	orderBy := func(e sqlast.Expression, direction string) error {
		if err := v.VisitExpression(e); err != nil {
			return err
		}
		v.Write(" " + direction)
		return nil
	}

	nullsCase := func(e sqlast.Expression, direction, whenNull, otherwise string) error {
		v.Write("CASE WHEN ")
		if err := v.VisitExpression(e); err != nil {
			return err
		}
		v.Write(" IS NULL THEN " + whenNull + " ELSE " + otherwise + " END")
		v.Write(", ")
		return orderBy(e, direction)
	}

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
			err = nullsCase(term.Expr, "ASC", "0", "1")
		case sqlast.OrderAscNullsLast:
			err = nullsCase(term.Expr, "ASC", "1", "0")
		case sqlast.OrderDescNullsFirst:
			err = nullsCase(term.Expr, "DESC", "0", "1")
		case sqlast.OrderDescNullsLast:
			err = nullsCase(term.Expr, "DESC", "1", "0")
		default:
			err = v.VisitExpression(term.Expr)
		}
		if err != nil {
			return err
		}
	}

	return nil
}
