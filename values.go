package sqlast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueKind discriminates the payload held by a Value.
type ValueKind uint8

const (
	KindInt32 ValueKind = iota
	KindInt64
	KindFloat
	KindDouble
	KindText
	KindEnum
	KindEnumArray
	KindBytes
	KindBoolean
	KindChar
	KindArray
	KindNumeric
	KindJSON
	KindXML
	KindUUID
	KindDateTime
	KindDate
	KindTime
)

// EnumName identifies a user-defined enum type, optionally qualified
// with a schema.
type EnumName struct {
	Name   string
	Schema string
}

// Value is a tagged union over every data type the compiler can send to
// a database. The Kind is retained for NULL values so dialects can type
// their parameters.
type Value struct {
	Kind ValueKind
	Null bool

	Int32        int32
	Int64        int64
	Float        float32
	Double       float64
	Text         string
	Char         rune
	Bool         bool
	Bytes        []byte
	EnumVariant  string
	EnumVariants []string
	EnumName     *EnumName
	Array        []Value
	Numeric      decimal.Decimal
	JSON         json.RawMessage
	XML          string
	UUID         uuid.UUID
	DateTime     time.Time
	Date         civil.Date
	Time         civil.Time
}

func Int32Value(v int32) Value   { return Value{Kind: KindInt32, Int32: v} }
func Int64Value(v int64) Value   { return Value{Kind: KindInt64, Int64: v} }
func FloatValue(v float32) Value { return Value{Kind: KindFloat, Float: v} }
func DoubleValue(v float64) Value {
	return Value{Kind: KindDouble, Double: v}
}
func TextValue(v string) Value  { return Value{Kind: KindText, Text: v} }
func CharValue(v rune) Value    { return Value{Kind: KindChar, Char: v} }
func BooleanValue(v bool) Value { return Value{Kind: KindBoolean, Bool: v} }
func BytesValue(v []byte) Value { return Value{Kind: KindBytes, Bytes: v} }
func ArrayValue(vs ...Value) Value {
	return Value{Kind: KindArray, Array: vs}
}
func NumericValue(v decimal.Decimal) Value {
	return Value{Kind: KindNumeric, Numeric: v}
}
func JSONValue(v json.RawMessage) Value {
	return Value{Kind: KindJSON, JSON: v}
}
func XMLValue(v string) Value { return Value{Kind: KindXML, XML: v} }
func UUIDValue(v uuid.UUID) Value {
	return Value{Kind: KindUUID, UUID: v}
}
func DateTimeValue(v time.Time) Value {
	return Value{Kind: KindDateTime, DateTime: v}
}
func DateValue(v civil.Date) Value { return Value{Kind: KindDate, Date: v} }
func TimeValue(v civil.Time) Value { return Value{Kind: KindTime, Time: v} }

// EnumValue holds a single variant of a user-defined enum. The name may
// be nil when the database does not need the type for the parameter.
func EnumValue(variant string, name *EnumName) Value {
	return Value{Kind: KindEnum, EnumVariant: variant, EnumName: name}
}

// EnumArrayValue holds a list of variants of a user-defined enum.
func EnumArrayValue(variants []string, name *EnumName) Value {
	return Value{Kind: KindEnumArray, EnumVariants: variants, EnumName: name}
}

// NullValue is a typed NULL of the given kind.
func NullValue(kind ValueKind) Value {
	return Value{Kind: kind, Null: true}
}

// ValueOf converts common Go types into a Value. It panics on types it
// does not know about; use the typed constructors for those.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return NullValue(KindText)
	case int:
		return Int64Value(int64(t))
	case int32:
		return Int32Value(t)
	case int64:
		return Int64Value(t)
	case float32:
		return FloatValue(t)
	case float64:
		return DoubleValue(t)
	case string:
		return TextValue(t)
	case bool:
		return BooleanValue(t)
	case []byte:
		return BytesValue(t)
	case json.RawMessage:
		return JSONValue(t)
	case uuid.UUID:
		return UUIDValue(t)
	case decimal.Decimal:
		return NumericValue(t)
	case time.Time:
		return DateTimeValue(t)
	case civil.Date:
		return DateValue(t)
	case civil.Time:
		return TimeValue(t)
	default:
		panic(fmt.Sprintf("sqlast: cannot convert %T into a value", v))
	}
}

// IsJSON reports whether the value carries a JSON payload.
func (v Value) IsJSON() bool { return v.Kind == KindJSON }

// IsXML reports whether the value carries an XML payload.
func (v Value) IsXML() bool { return v.Kind == KindXML }

// AsInt64 returns the integer payload of an Int32 or Int64 value.
func (v Value) AsInt64() (int64, bool) {
	if v.Null {
		return 0, false
	}
	switch v.Kind {
	case KindInt32:
		return int64(v.Int32), true
	case KindInt64:
		return v.Int64, true
	default:
		return 0, false
	}
}
