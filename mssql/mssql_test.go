package mssql_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zoobzio/sqlast"
	"github.com/zoobzio/sqlast/mssql"
)

func expect(t *testing.T, q sqlast.Query, expectedSQL string, expectedParams ...sqlast.Value) {
	t.Helper()

	sql, params, err := mssql.Build(q)
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
	expect(t, sqlast.SelectDefault().Value(1), "SELECT @P1", sqlast.Int64Value(1))
}

func TestSelectAliasedValue(t *testing.T) {
	expect(t, sqlast.SelectDefault().Value(sqlast.Param(1).As("test")),
		"SELECT @P1 AS [test]",
		sqlast.Int64Value(1))
}

func TestSelectStar(t *testing.T) {
	expect(t, sqlast.SelectFrom("musti"), "SELECT [musti].* FROM [musti]")
}

// T-SQL has no tuple comparisons, so tuples expand into an OR of
// per-row AND groups.
func TestTupleEquality(t *testing.T) {
	row := sqlast.RowOf(sqlast.NewColumn("id1"), sqlast.NewColumn("id2"))
	q := sqlast.SelectFrom("test").Where(row.Equals(sqlast.RowOf(1, 2)))

	expect(t, q,
		"SELECT [test].* FROM [test] WHERE (([id1] = @P1 AND [id2] = @P2))",
		sqlast.Int64Value(1), sqlast.Int64Value(2))
}

func TestTupleInValues(t *testing.T) {
	row := sqlast.RowOf(sqlast.NewColumn("id1"), sqlast.NewColumn("id2"))
	vals := sqlast.ValuesOf(sqlast.RowOf(1, 2), sqlast.RowOf(3, 4))

	expect(t, sqlast.SelectFrom("test").Where(row.In(vals)),
		"SELECT [test].* FROM [test] WHERE (([id1] = @P1 AND [id2] = @P2) OR ([id1] = @P3 AND [id2] = @P4))",
		sqlast.Int64Value(1), sqlast.Int64Value(2), sqlast.Int64Value(3), sqlast.Int64Value(4))
}

func TestTupleNotInValues(t *testing.T) {
	row := sqlast.RowOf(sqlast.NewColumn("id1"), sqlast.NewColumn("id2"))
	vals := sqlast.ValuesOf(sqlast.RowOf(1, 2), sqlast.RowOf(3, 4))

	expect(t, sqlast.SelectFrom("test").Where(row.NotIn(vals)),
		"SELECT [test].* FROM [test] WHERE NOT (([id1] = @P1 AND [id2] = @P2) OR ([id1] = @P3 AND [id2] = @P4))",
		sqlast.Int64Value(1), sqlast.Int64Value(2), sqlast.Int64Value(3), sqlast.Int64Value(4))
}

func TestSingleTupleInValuesFlattens(t *testing.T) {
	row := sqlast.RowOf(sqlast.NewColumn("id1"))
	vals := sqlast.ValuesOf(sqlast.RowOf(1), sqlast.RowOf(2))

	expect(t, sqlast.SelectFrom("test").Where(row.In(vals)),
		"SELECT [test].* FROM [test] WHERE [id1] IN (@P1,@P2)",
		sqlast.Int64Value(1), sqlast.Int64Value(2))
}

// A tuple against a nested select hoists the select into a CTE.
func TestTupleInSelectConvertsToCTE(t *testing.T) {
	row := sqlast.RowOf(sqlast.NewColumn("x"), sqlast.NewColumn("y"))
	inner := sqlast.SelectFrom("B").Column("a").Column("b")

	expect(t, sqlast.SelectFrom("A").Where(row.In(inner)),
		"WITH [cte_0] AS (SELECT [a], [b] FROM [B]) SELECT [A].* FROM [A] WHERE [x] IN (SELECT [a] FROM [cte_0] WHERE [b] = [y])")
}

func TestNestedTupleInSelectConvertsToCTEs(t *testing.T) {
	innermost := sqlast.SelectFrom("C").Column("m").Column("n")
	nested := sqlast.RowOf(sqlast.NewColumn("c"), sqlast.NewColumn("d"))
	inner := sqlast.SelectFrom("B").Column("a").Column("b").Where(nested.In(innermost))

	row := sqlast.RowOf(sqlast.NewColumn("x"), sqlast.NewColumn("y"))

	expect(t, sqlast.SelectFrom("A").Where(row.In(inner)),
		"WITH [cte_1] AS (SELECT [m], [n] FROM [C]), [cte_0] AS (SELECT [a], [b] FROM [B] WHERE [c] IN (SELECT [m] FROM [cte_1] WHERE [n] = [d])) SELECT [A].* FROM [A] WHERE [x] IN (SELECT [a] FROM [cte_0] WHERE [b] = [y])")
}

// OFFSET and FETCH require an ORDER BY, so one is synthesized over a
// constant when the query has none.
func TestLimitAndOffsetWithoutOrdering(t *testing.T) {
	expect(t, sqlast.SelectFrom("users").Take(10).Skip(2),
		"SELECT [users].* FROM [users] ORDER BY 1 OFFSET @P1 ROWS FETCH NEXT @P2 ROWS ONLY",
		sqlast.Int64Value(2), sqlast.Int64Value(10))
}

func TestLimitAndOffsetWithOrdering(t *testing.T) {
	q := sqlast.SelectFrom("users").
		OrderBy(sqlast.NewColumn("id").Ascend()).
		Take(10).
		Skip(2)

	expect(t, q,
		"SELECT [users].* FROM [users] ORDER BY [id] ASC OFFSET @P1 ROWS FETCH NEXT @P2 ROWS ONLY",
		sqlast.Int64Value(2), sqlast.Int64Value(10))
}

func TestLimitWithoutOffset(t *testing.T) {
	expect(t, sqlast.SelectFrom("users").Take(10),
		"SELECT [users].* FROM [users] ORDER BY 1 OFFSET @P1 ROWS FETCH NEXT @P2 ROWS ONLY",
		sqlast.Int32Value(0), sqlast.Int64Value(10))
}

func TestOffsetWithoutLimit(t *testing.T) {
	expect(t, sqlast.SelectFrom("users").Skip(10),
		"SELECT [users].* FROM [users] ORDER BY 1 OFFSET @P1 ROWS",
		sqlast.Int64Value(10))
}

func TestZeroOffsetWithoutOrdering(t *testing.T) {
	expect(t, sqlast.SelectFrom("users").Skip(0),
		"SELECT [users].* FROM [users]")
}

// NULLS FIRST and NULLS LAST collapse into the plain direction.
func TestOrderingCollapsesNulls(t *testing.T) {
	q := sqlast.SelectFrom("users").
		OrderBy(sqlast.NewColumn("foo").AscendNullsFirst()).
		OrderBy(sqlast.NewColumn("bar").DescendNullsLast())

	expect(t, q,
		"SELECT [users].* FROM [users] ORDER BY [foo] ASC, [bar] DESC")
}

func TestInsertSingleRow(t *testing.T) {
	q := sqlast.InsertSingleInto("users").Value("foo", 10).Build()

	expect(t, q,
		"INSERT INTO [users] ([foo]) VALUES (@P1)",
		sqlast.Int64Value(10))
}

// RETURNING emulates through a table variable the OUTPUT clause writes
// into, read back by joining against the target.
func TestInsertReturning(t *testing.T) {
	q := sqlast.InsertSingleInto("users").Value("foo", 10).Build().
		WithReturning(sqlast.NewColumn("id").WithType(sqlast.TypeInt))

	expect(t, q,
		"DECLARE @generated_keys table([id] BIGINT) "+
			"INSERT INTO [users] ([foo]) OUTPUT [Inserted].[id] INTO @generated_keys VALUES (@P1) "+
			"SELECT [t].[id] FROM @generated_keys AS g INNER JOIN [users] AS [t] ON [t].[id] = [g].[id] WHERE @@ROWCOUNT > 0",
		sqlast.Int64Value(10))
}

func TestInsertDefaultValuesReturning(t *testing.T) {
	q := sqlast.InsertInto("users").WithReturning("id")

	expect(t, q,
		"DECLARE @generated_keys table([id] NVARCHAR(255)) "+
			"INSERT INTO [users] OUTPUT [Inserted].[id] INTO @generated_keys DEFAULT VALUES "+
			"SELECT [t].[id] FROM @generated_keys AS g INNER JOIN [users] AS [t] ON [t].[id] = [g].[id] WHERE @@ROWCOUNT > 0")
}

// Inserts with DO NOTHING become MERGE statements joined against the
// unique indexes of the target table.
func TestInsertDoNothingConvertsToMerge(t *testing.T) {
	table := sqlast.NewTable("users").Unique(sqlast.NewColumn("foo"))
	q := sqlast.InsertSingleInto(table).Value("foo", 10).Build().OnConflictDoNothing()

	expect(t, q,
		"MERGE INTO [users] USING (SELECT @P1 AS [foo]) AS [dual] ([foo]) "+
			"ON [dual].[foo] = [users].[foo] "+
			"WHEN NOT MATCHED THEN INSERT ([foo]) VALUES ([dual].[foo]);",
		sqlast.Int64Value(10))
}

func TestMergeCompoundIndex(t *testing.T) {
	table := sqlast.NewTable("users").Unique(sqlast.NewColumn("a"), sqlast.NewColumn("b"))
	q := sqlast.InsertSingleInto(table).Value("a", 1).Value("b", 2).Build().OnConflictDoNothing()

	expect(t, q,
		"MERGE INTO [users] USING (SELECT @P1 AS [a], @P2 AS [b]) AS [dual] ([a],[b]) "+
			"ON ([dual].[a] = [users].[a] AND [dual].[b] = [users].[b]) "+
			"WHEN NOT MATCHED THEN INSERT ([a],[b]) VALUES ([dual].[a],[dual].[b]);",
		sqlast.Int64Value(1), sqlast.Int64Value(2))
}

// A missing index column with a concrete default compares the target
// against the default.
func TestMergeDefaultedIndexColumn(t *testing.T) {
	status := sqlast.NewColumn("status").WithDefault(sqlast.DefaultOf(sqlast.TextValue("new")))
	table := sqlast.NewTable("users").Unique(status)
	q := sqlast.InsertSingleInto(table).Value("foo", 1).Build().OnConflictDoNothing()

	expect(t, q,
		"MERGE INTO [users] USING (SELECT @P1 AS [foo]) AS [dual] ([foo]) "+
			"ON [users].[status] = @P2 "+
			"WHEN NOT MATCHED THEN INSERT ([foo]) VALUES ([dual].[foo]);",
		sqlast.Int64Value(1), sqlast.TextValue("new"))
}

// A generated single-column index can never match an incoming row, so
// the whole index drops out of the join.
func TestMergeGeneratedIndexSkipped(t *testing.T) {
	id := sqlast.NewColumn("id").WithDefault(sqlast.GeneratedDefault())
	table := sqlast.NewTable("users").Unique(id)
	q := sqlast.InsertSingleInto(table).Value("foo", 1).Build().OnConflictDoNothing()

	expect(t, q,
		"MERGE INTO [users] USING (SELECT @P1 AS [foo]) AS [dual] ([foo]) "+
			"ON 1=0 "+
			"WHEN NOT MATCHED THEN INSERT ([foo]) VALUES ([dual].[foo]);",
		sqlast.Int64Value(1))
}

func TestMergeReturning(t *testing.T) {
	table := sqlast.NewTable("users").Unique(sqlast.NewColumn("foo"))
	q := sqlast.InsertSingleInto(table).Value("foo", 10).Build().
		OnConflictDoNothing().
		WithReturning(sqlast.NewColumn("id").WithType(sqlast.TypeInt))

	expect(t, q,
		"DECLARE @generated_keys table([id] BIGINT) "+
			"MERGE INTO [users] USING (SELECT @P1 AS [foo]) AS [dual] ([foo]) "+
			"ON [dual].[foo] = [users].[foo] "+
			"WHEN NOT MATCHED THEN INSERT ([foo]) VALUES ([dual].[foo])"+
			" OUTPUT [Inserted].[id] INTO @generated_keys; "+
			"SELECT [t].[id] FROM @generated_keys AS g INNER JOIN [users] AS [t] ON [t].[id] = [g].[id] WHERE @@ROWCOUNT > 0",
		sqlast.Int64Value(10))
}

// Comparing against an XML value casts the other side, as XML columns
// have no equality operator.
func TestXMLEqualityCasts(t *testing.T) {
	q := sqlast.SelectFrom("users").
		Where(sqlast.NewColumn("xmlfield").Equals(sqlast.XMLValue("<cat/>")))

	expect(t, q,
		"SELECT [users].* FROM [users] WHERE CAST([xmlfield] AS NVARCHAR(MAX)) = @P1",
		sqlast.XMLValue("<cat/>"))
}

func TestStringAgg(t *testing.T) {
	q := sqlast.SelectFrom("users").Value(sqlast.AggregateToString(sqlast.NewColumn("foo")))

	expect(t, q, `SELECT STRING_AGG([foo],",") FROM [users]`)
}

// AVG over integers truncates, so the column converts to decimal.
func TestAverage(t *testing.T) {
	q := sqlast.SelectFrom("users").Value(sqlast.Average(sqlast.NewColumn("age")))

	expect(t, q, "SELECT AVG(CONVERT(DECIMAL(32,16),[age])) FROM [users]")
}

func TestUpdate(t *testing.T) {
	q := sqlast.UpdateTable("users").
		Set("foo", 10).
		Where(sqlast.NewColumn("id").Equals(1))

	expect(t, q,
		"UPDATE [users] SET [foo] = @P1 WHERE [id] = @P2",
		sqlast.Int64Value(10), sqlast.Int64Value(1))
}

func TestDelete(t *testing.T) {
	q := sqlast.DeleteFrom("users").Where(sqlast.NewColumn("id").Equals(1))

	expect(t, q,
		"DELETE FROM [users] WHERE [id] = @P1",
		sqlast.Int64Value(1))
}

func TestRawValues(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"int", 1, "SELECT 1"},
		{"text", "foo", "SELECT 'foo'"},
		{"bytes", []byte{1, 2, 3}, "SELECT 0x010203"},
		{"true", true, "SELECT 1"},
		{"false", false, "SELECT 0"},
		{
			"uuid",
			uuid.MustParse("936da01f-9abd-4d9d-80c7-02af85c822a8"),
			"SELECT CONVERT(uniqueidentifier, N'936da01f-9abd-4d9d-80c7-02af85c822a8')",
		},
		{
			"datetime",
			time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC),
			"SELECT CONVERT(datetimeoffset, N'2020-01-01T12:00:00+00:00')",
		},
		{"xml", sqlast.XMLValue("<cat/>"), "SELECT CONVERT(XML, N'<cat/>', 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, sqlast.SelectDefault().Value(sqlast.Raw(tt.value)), tt.expected)
		})
	}
}

func TestRawArrayUnsupported(t *testing.T) {
	q := sqlast.SelectDefault().Value(sqlast.Raw(sqlast.ArrayValue(sqlast.Int64Value(1))))

	_, _, err := mssql.Build(q)
	var convErr sqlast.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected a conversion error, got %v", err)
	}
	if convErr.Message != "Arrays are not supported in T-SQL." {
		t.Errorf("Unexpected error message: %s", convErr.Message)
	}
}
