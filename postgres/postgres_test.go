package postgres_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/sqlast"
	"github.com/zoobzio/sqlast/postgres"
)

func expect(t *testing.T, q sqlast.Query, expectedSQL string, expectedParams ...sqlast.Value) {
	t.Helper()

	sql, params, err := postgres.Build(q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if sql != expectedSQL {
		t.Errorf("Expected SQL:\n%s\nGot:\n%s", expectedSQL, sql)
	}
	if len(expectedParams) == 0 {
		if len(params) != 0 {
			t.Errorf("Expected no parameters, got %v", params)
		}
		return
	}
	if !reflect.DeepEqual(params, expectedParams) {
		t.Errorf("Expected parameters:\n%v\nGot:\n%v", expectedParams, params)
	}
}

func TestSelectValue(t *testing.T) {
	expect(t, sqlast.SelectDefault().Value(1), "SELECT $1", sqlast.Int64Value(1))
}

func TestParameterNumbering(t *testing.T) {
	cond := sqlast.NewColumn("a").Equals(1).And(sqlast.NewColumn("b").Equals(2))

	expect(t, sqlast.SelectFrom("users").Where(cond),
		`SELECT "users".* FROM "users" WHERE ("a" = $1 AND "b" = $2)`,
		sqlast.Int64Value(1), sqlast.Int64Value(2))
}

func TestInsertDefaultValues(t *testing.T) {
	expect(t, sqlast.InsertInto("users"), `INSERT INTO "users" DEFAULT VALUES`)
}

func TestInsertSingleRow(t *testing.T) {
	q := sqlast.InsertSingleInto("users").Value("foo", 10).Build()

	expect(t, q,
		`INSERT INTO "users" ("foo") VALUES ($1)`,
		sqlast.Int64Value(10))
}

func TestInsertReturning(t *testing.T) {
	q := sqlast.InsertSingleInto("users").Value("foo", 10).Build().WithReturning("foo")

	expect(t, q,
		`INSERT INTO "users" ("foo") VALUES ($1) RETURNING "foo"`,
		sqlast.Int64Value(10))
}

func TestInsertOnConflictDoNothing(t *testing.T) {
	q := sqlast.InsertSingleInto("users").Value("foo", 10).Build().OnConflictDoNothing()

	expect(t, q,
		`INSERT INTO "users" ("foo") VALUES ($1) ON CONFLICT DO NOTHING`,
		sqlast.Int64Value(10))
}

func TestInsertOnConflictUpdate(t *testing.T) {
	update := sqlast.UpdateTable("users").
		Set("foo", 3).
		Where(sqlast.NewColumn("foo").InTable(sqlast.NewTable("users")).Equals(1))

	q := sqlast.InsertSingleInto("users").Value("foo", 10).Build().
		OnConflictUpdate(update, sqlast.NewColumn("foo")).
		WithReturning("foo")

	expect(t, q,
		`INSERT INTO "users" ("foo") VALUES ($1) ON CONFLICT ("foo") DO UPDATE SET "foo" = $2 WHERE "users"."foo" = $3 RETURNING "foo"`,
		sqlast.Int64Value(10), sqlast.Int64Value(3), sqlast.Int64Value(1))
}

func TestInsertMultiRow(t *testing.T) {
	q := sqlast.InsertMultiInto("users", "foo", "bar").
		Values(1, 2).
		Values(3, 4).
		Build()

	expect(t, q,
		`INSERT INTO "users" ("foo","bar") VALUES ($1,$2), ($3,$4)`,
		sqlast.Int64Value(1), sqlast.Int64Value(2), sqlast.Int64Value(3), sqlast.Int64Value(4))
}

func TestLimitAndOffset(t *testing.T) {
	expect(t, sqlast.SelectFrom("users").Take(10).Skip(2),
		`SELECT "users".* FROM "users" LIMIT $1 OFFSET $2`,
		sqlast.Int64Value(10), sqlast.Int64Value(2))

	expect(t, sqlast.SelectFrom("users").Skip(10),
		`SELECT "users".* FROM "users" OFFSET $1`,
		sqlast.Int64Value(10))

	expect(t, sqlast.SelectFrom("users").Take(10),
		`SELECT "users".* FROM "users" LIMIT $1`,
		sqlast.Int64Value(10))
}

func TestOrderByNulls(t *testing.T) {
	q := sqlast.SelectFrom("users").
		OrderBy(sqlast.NewColumn("foo").AscendNullsFirst()).
		OrderBy(sqlast.NewColumn("bar").DescendNullsLast())

	expect(t, q,
		`SELECT "users".* FROM "users" ORDER BY "foo" ASC NULLS FIRST, "bar" DESC NULLS LAST`)
}

// LIKE compares strings only, and postgres does not implicitly cast
// the column side.
func TestLikeCastsColumn(t *testing.T) {
	expect(t, sqlast.SelectFrom("users").Where(sqlast.NewColumn("name").Like("%foo%")),
		`SELECT "users".* FROM "users" WHERE "name"::text LIKE $1`,
		sqlast.TextValue("%foo%"))

	expect(t, sqlast.SelectFrom("users").Where(sqlast.NewColumn("name").NotLike("%foo%")),
		`SELECT "users".* FROM "users" WHERE "name"::text NOT LIKE $1`,
		sqlast.TextValue("%foo%"))
}

func TestJSONEqualityCasts(t *testing.T) {
	doc := sqlast.JSONValue(json.RawMessage(`{"enabled":true}`))

	expect(t, sqlast.SelectFrom("users").Where(sqlast.NewColumn("settings").Equals(doc)),
		`SELECT "users".* FROM "users" WHERE "settings"::jsonb = $1`,
		doc)

	expect(t, sqlast.SelectFrom("users").Where(sqlast.Param(doc).Equals(sqlast.NewColumn("settings"))),
		`SELECT "users".* FROM "users" WHERE $1 = "settings"::jsonb`,
		doc)
}

func TestXMLEqualityCasts(t *testing.T) {
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("xmlfield").NotEquals(sqlast.XMLValue("<cat/>")))

	expect(t, q,
		`SELECT "users".* FROM "users" WHERE "xmlfield"::text <> $1`,
		sqlast.XMLValue("<cat/>"))
}

// Selected enum columns come back as text so the driver skips the type
// lookup roundtrip.
func TestSelectedEnumColumnCasts(t *testing.T) {
	col := sqlast.NewColumn("pet").SetEnum(false)
	col.IsSelected = true

	expect(t, sqlast.SelectFrom("users").Column(col),
		`SELECT "pet"::text FROM "users"`)

	list := sqlast.NewColumn("pets").SetEnum(true)
	list.IsSelected = true

	expect(t, sqlast.SelectFrom("users").Column(list),
		`SELECT "pets"::text[] FROM "users"`)
}

func TestEnumParameter(t *testing.T) {
	name := &sqlast.EnumName{Name: "PetType"}
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("pet").Equals(sqlast.EnumValue("cat", name)))

	expect(t, q,
		`SELECT "users".* FROM "users" WHERE "pet" = CAST($1::text AS "PetType")`,
		sqlast.TextValue("cat"))
}

func TestEnumParameterWithSchema(t *testing.T) {
	name := &sqlast.EnumName{Name: "PetType", Schema: "public"}
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("pet").Equals(sqlast.EnumValue("cat", name)))

	expect(t, q,
		`SELECT "users".* FROM "users" WHERE "pet" = CAST($1::text AS "public"."PetType")`,
		sqlast.TextValue("cat"))
}

func TestEnumArrayParameter(t *testing.T) {
	name := &sqlast.EnumName{Name: "PetType"}
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("pets").Equals(sqlast.EnumArrayValue([]string{"cat", "dog"}, name)))

	expect(t, q,
		`SELECT "users".* FROM "users" WHERE "pets" = CAST($1::text[] AS "PetType"[])`,
		sqlast.ArrayValue(sqlast.TextValue("cat"), sqlast.TextValue("dog")))
}

// The cast sits outside the aggregate so MIN and MAX compare enum
// order, not text order.
func TestMinMaxEnumCast(t *testing.T) {
	col := sqlast.NewColumn("pet").SetEnum(false)
	col.IsSelected = true

	expect(t, sqlast.SelectFrom("users").Value(sqlast.Minimum(col)),
		`SELECT MIN("pet")::text FROM "users"`)

	expect(t, sqlast.SelectFrom("users").Value(sqlast.Maximum(col)),
		`SELECT MAX("pet")::text FROM "users"`)
}

func TestAggregateToString(t *testing.T) {
	q := sqlast.SelectFrom("users").Value(sqlast.AggregateToString(sqlast.NewColumn("foo")))

	expect(t, q,
		`SELECT ARRAY_TO_STRING(ARRAY_AGG("foo")',') FROM "users"`)
}

func TestConcat(t *testing.T) {
	q := sqlast.SelectFrom("users").
		Value(sqlast.Concat(sqlast.NewColumn("firstname"), sqlast.NewColumn("lastname")))

	expect(t, q, `SELECT ("firstname" || "lastname") FROM "users"`)
}

func TestJSONExtractArrayPath(t *testing.T) {
	extract := sqlast.JSONExtract(sqlast.NewColumn("json"), sqlast.JSONPathArray("a", "b"), false)

	expect(t, sqlast.SelectFrom("test").Value(extract),
		`SELECT ("json"#>ARRAY[$1, $2]::text[])::jsonb FROM "test"`,
		sqlast.TextValue("a"), sqlast.TextValue("b"))
}

func TestJSONExtractArrayPathAsString(t *testing.T) {
	extract := sqlast.JSONExtract(sqlast.NewColumn("json"), sqlast.JSONPathArray("a", "b"), true)

	expect(t, sqlast.SelectFrom("test").Value(extract),
		`SELECT ("json"#>>ARRAY[$1, $2]::text[]) FROM "test"`,
		sqlast.TextValue("a"), sqlast.TextValue("b"))
}

func TestJSONExtractStringPathUnsupported(t *testing.T) {
	extract := sqlast.JSONExtract(sqlast.NewColumn("json"), sqlast.JSONPathString("$.a"), false)
	q := sqlast.SelectFrom("test").Value(extract)

	_, _, err := postgres.Build(q)
	var convErr sqlast.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected a conversion error, got %v", err)
	}
	if convErr.Message != "JSON path string notation is not supported for Postgres" {
		t.Errorf("Unexpected error message: %s", convErr.Message)
	}
}

func TestJSONUnquote(t *testing.T) {
	q := sqlast.SelectFrom("test").Value(sqlast.JSONUnquote(sqlast.NewColumn("json")))

	expect(t, q, `SELECT ("json"#>>ARRAY[]::text[]) FROM "test"`)
}

func TestJSONExtractFirstAndLastArrayItem(t *testing.T) {
	expect(t, sqlast.SelectFrom("test").Value(sqlast.JSONExtractFirstArrayElem(sqlast.NewColumn("json"))),
		`SELECT ("json"->0) FROM "test"`)

	expect(t, sqlast.SelectFrom("test").Value(sqlast.JSONExtractLastArrayElem(sqlast.NewColumn("json"))),
		`SELECT ("json"->-1) FROM "test"`)
}

func TestJSONArrayContains(t *testing.T) {
	item := sqlast.JSONValue(json.RawMessage("1"))

	expect(t, sqlast.SelectFrom("test").Where(sqlast.NewColumn("json").JSONArrayContains(item)),
		`SELECT "test".* FROM "test" WHERE "json" @> $1`,
		item)

	expect(t, sqlast.SelectFrom("test").Where(sqlast.NewColumn("json").JSONArrayNotContains(item)),
		`SELECT "test".* FROM "test" WHERE ( NOT "json" @> $1 )`,
		item)
}

func TestJSONTypeEquals(t *testing.T) {
	q := sqlast.SelectFrom("test").
		Where(sqlast.NewColumn("json").JSONTypeEquals(sqlast.JSONTypeOf(sqlast.JSONTypeArray)))

	expect(t, q,
		`SELECT "test".* FROM "test" WHERE JSONB_TYPEOF("json") = $1`,
		sqlast.TextValue("array"))
}

func TestJSONTypeEqualsColumn(t *testing.T) {
	q := sqlast.SelectFrom("test").
		Where(sqlast.NewColumn("json").JSONTypeEquals(sqlast.JSONTypeOfColumn(sqlast.NewColumn("other"))))

	expect(t, q,
		`SELECT "test".* FROM "test" WHERE JSONB_TYPEOF("json") = JSONB_TYPEOF("other"::jsonb)`)
}

func TestFullTextMatch(t *testing.T) {
	search := sqlast.TextSearch(sqlast.NewColumn("name"), sqlast.NewColumn("ingredients"))
	q := sqlast.SelectFrom("recipes").Where(search.Expr().Matches("chicken"))

	expect(t, q,
		`SELECT "recipes".* FROM "recipes" WHERE to_tsvector(concat_ws(' ', "name","ingredients")) @@ to_tsquery($1)`,
		sqlast.TextValue("chicken"))
}

func TestFullTextNotMatch(t *testing.T) {
	search := sqlast.TextSearch(sqlast.NewColumn("name"))
	q := sqlast.SelectFrom("recipes").Where(search.Expr().NotMatches("chicken"))

	expect(t, q,
		`SELECT "recipes".* FROM "recipes" WHERE (NOT to_tsvector(concat_ws(' ', "name")) @@ to_tsquery($1))`,
		sqlast.TextValue("chicken"))
}

func TestFullTextRelevance(t *testing.T) {
	relevance := sqlast.TextSearchRelevance("chicken", sqlast.NewColumn("name"))
	q := sqlast.SelectFrom("recipes").Value(relevance.As("rank"))

	expect(t, q,
		`SELECT ts_rank(to_tsvector(concat_ws(' ', "name")), to_tsquery($1)) AS "rank" FROM "recipes"`,
		sqlast.TextValue("chicken"))
}

func TestDeleteReturning(t *testing.T) {
	q := sqlast.DeleteFrom("users").
		Where(sqlast.NewColumn("id").Equals(1)).
		WithReturning("id")

	expect(t, q,
		`DELETE FROM "users" WHERE "id" = $1 RETURNING "id"`,
		sqlast.Int64Value(1))
}

func TestEqualsAnyArray(t *testing.T) {
	arr := sqlast.ArrayValue(sqlast.Int64Value(1), sqlast.Int64Value(2))
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("id").Equals(sqlast.Param(arr).Any()))

	expect(t, q,
		`SELECT "users".* FROM "users" WHERE "id" = ANY($1)`,
		arr)
}

func TestNotEqualsAllArray(t *testing.T) {
	arr := sqlast.ArrayValue(sqlast.Int64Value(1), sqlast.Int64Value(2))
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("id").NotEquals(sqlast.Param(arr).All()))

	expect(t, q,
		`SELECT "users".* FROM "users" WHERE "id" <> ALL($1)`,
		arr)
}

func TestRawComparator(t *testing.T) {
	q := sqlast.SelectFrom("foo").Where(sqlast.NewColumn("bar").CompareRaw("ILIKE", "baz%"))

	expect(t, q,
		`SELECT "foo".* FROM "foo" WHERE "bar" ILIKE $1`,
		sqlast.TextValue("baz%"))
}

func TestRawValues(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"int", 1, "SELECT 1"},
		{"text", "foo", "SELECT 'foo'"},
		{"bytes", []byte{1, 2, 3}, "SELECT E'010203'"},
		{"true", true, "SELECT true"},
		{"json", json.RawMessage(`{"foo":"bar"}`), `SELECT '{"foo":"bar"}'`},
		{
			"int array",
			sqlast.ArrayValue(sqlast.Int64Value(1), sqlast.Int64Value(2), sqlast.Int64Value(3)),
			"SELECT '{1,2,3}'",
		},
		{
			"text array",
			sqlast.ArrayValue(sqlast.TextValue("a"), sqlast.TextValue("b")),
			"SELECT '{a,b}'",
		},
		{
			"enum array",
			sqlast.EnumArrayValue([]string{"A", "B"}, &sqlast.EnumName{Name: "Alphabet", Schema: "foo"}),
			`SELECT ARRAY['A','B']::"foo"."Alphabet"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, sqlast.SelectDefault().Value(sqlast.Raw(tt.value)), tt.expected)
		})
	}
}
