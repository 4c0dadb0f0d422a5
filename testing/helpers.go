// Package testing provides test utilities for sqlast.
package testing

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/sqlast"
)

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertParams checks that the ordered parameter list matches.
func AssertParams(t *testing.T, expected, actual []sqlast.Value) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Param mismatch:\nExpected: %v\nActual:   %v", expected, actual)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that the error message contains the substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}

// DriverArgs converts an ordered parameter list into values database/sql
// and pgx drivers accept.
func DriverArgs(params []sqlast.Value) []any {
	args := make([]any, 0, len(params))
	for _, p := range params {
		args = append(args, driverArg(p))
	}
	return args
}

func driverArg(v sqlast.Value) any {
	if v.Null {
		return nil
	}

	switch v.Kind {
	case sqlast.KindInt32:
		return v.Int32
	case sqlast.KindInt64:
		return v.Int64
	case sqlast.KindFloat:
		return v.Float
	case sqlast.KindDouble:
		return v.Double
	case sqlast.KindText:
		return v.Text
	case sqlast.KindChar:
		return string(v.Char)
	case sqlast.KindEnum:
		return v.EnumVariant
	case sqlast.KindBytes:
		return v.Bytes
	case sqlast.KindBoolean:
		return v.Bool
	case sqlast.KindArray:
		items := make([]any, 0, len(v.Array))
		for _, item := range v.Array {
			items = append(items, driverArg(item))
		}
		return items
	case sqlast.KindEnumArray:
		return v.EnumVariants
	case sqlast.KindNumeric:
		return v.Numeric.String()
	case sqlast.KindJSON:
		return string(v.JSON)
	case sqlast.KindXML:
		return v.XML
	case sqlast.KindUUID:
		return v.UUID.String()
	case sqlast.KindDateTime:
		return v.DateTime
	case sqlast.KindDate:
		return v.Date.String()
	case sqlast.KindTime:
		return v.Time.String()
	default:
		return nil
	}
}
