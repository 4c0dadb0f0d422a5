// Package benchmarks provides performance benchmarks for sqlast.
package benchmarks

import (
	"testing"

	"github.com/zoobzio/sqlast"
	"github.com/zoobzio/sqlast/mssql"
	"github.com/zoobzio/sqlast/mysql"
	"github.com/zoobzio/sqlast/postgres"
	"github.com/zoobzio/sqlast/sqlite"
)

// BenchmarkSimpleSelect measures simple SELECT compilation.
func BenchmarkSimpleSelect(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("users"))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithColumns measures SELECT with an explicit projection.
func BenchmarkSelectWithColumns(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("users").
			Column("id").
			Column("username").
			Column("email").
			Column("age"))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithWhere measures SELECT with a WHERE clause.
func BenchmarkSelectWithWhere(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("users").
			Where(sqlast.NewColumn("active").Equals(true)))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithMultipleConditions measures SELECT with a nested
// condition tree.
func BenchmarkSelectWithMultipleConditions(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("users").
			Where(sqlast.NewColumn("active").Equals(true).
				And(sqlast.NewColumn("age").GreaterThan(18).
					Or(sqlast.NewColumn("username").Like("adm%")))))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithJoin measures SELECT with an INNER JOIN.
func BenchmarkSelectWithJoin(b *testing.B) {
	users := sqlast.NewTable("users").As("u")
	posts := sqlast.NewTable("posts").As("p")
	join := posts.On(
		sqlast.NewColumn("user_id").InTable(posts).
			Equals(sqlast.NewColumn("id").InTable(users)))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom(users).
			Column(sqlast.NewColumn("username").InTable(users)).
			InnerJoin(join))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithOrderByLimit measures SELECT with ORDER BY, LIMIT
// and OFFSET.
func BenchmarkSelectWithOrderByLimit(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("users").
			OrderBy(sqlast.NewColumn("created_at").Descend()).
			Take(10).
			Skip(20))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSelectWithAggregates measures SELECT with grouping and
// aggregate functions.
func BenchmarkSelectWithAggregates(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("orders").
			Column("user_id").
			Value(sqlast.Sum(sqlast.NewColumn("total")).As("total_spent")).
			Value(sqlast.Count(sqlast.Asterisk()).As("order_count")).
			GroupBy("user_id"))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInsert measures INSERT compilation.
func BenchmarkInsert(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.InsertSingleInto("users").
			Value("username", "alice").
			Value("email", "alice@example.com").
			Value("age", 30).
			Build())
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInsertWithReturning measures INSERT with RETURNING.
func BenchmarkInsertWithReturning(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.InsertSingleInto("users").
			Value("username", "alice").
			Value("email", "alice@example.com").
			Build().
			WithReturning("id"))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUpdate measures UPDATE compilation.
func BenchmarkUpdate(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.UpdateTable("users").
			Set("username", "bob").
			Set("email", "bob@example.com").
			Where(sqlast.NewColumn("id").Equals(1)))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDelete measures DELETE compilation.
func BenchmarkDelete(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.DeleteFrom("users").
			Where(sqlast.NewColumn("id").Equals(1)))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWindowFunction measures ROW_NUMBER OVER compilation.
func BenchmarkWindowFunction(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := postgres.Build(sqlast.SelectFrom("orders").
			Column("id").
			Value(sqlast.RowNumber().
				PartitionBy(sqlast.NewColumn("user_id")).
				OrderBy(sqlast.NewColumn("total").Descend()).
				As("rank")))
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTupleIn measures tuple IN compilation, including the MSSQL
// rewrite into a common table expression.
func BenchmarkTupleIn(b *testing.B) {
	row := sqlast.RowOf(sqlast.NewColumn("a"), sqlast.NewColumn("b"))
	inner := sqlast.SelectFrom("B").Column("a").Column("b")

	b.ResetTimer()
	b.ReportAllocs()

	b.Run("postgres", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _, err := postgres.Build(sqlast.SelectFrom("A").Where(row.In(inner)))
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("mssql", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _, err := mssql.Build(sqlast.SelectFrom("A").Where(row.In(inner)))
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkJSONExtract measures JSON path extraction compilation.
func BenchmarkJSONExtract(b *testing.B) {
	b.Run("mysql", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _, err := mysql.Build(sqlast.SelectFrom("users").
				Value(sqlast.JSONExtract(sqlast.NewColumn("metadata"), sqlast.JSONPathString("$.a.b"), false)))
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("postgres", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _, err := postgres.Build(sqlast.SelectFrom("users").
				Value(sqlast.JSONExtract(sqlast.NewColumn("metadata"), sqlast.JSONPathArray("a", "b"), false)))
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkMergeFromInsert measures the insert-to-merge conversion on
// SQL Server.
func BenchmarkMergeFromInsert(b *testing.B) {
	table := sqlast.NewTable("users").Unique(sqlast.NewColumn("email"))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, err := mssql.Build(sqlast.InsertSingleInto(table).
			Value("email", "alice@example.com").
			Build().
			OnConflictDoNothing())
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDialects compiles the same query for every backend.
func BenchmarkDialects(b *testing.B) {
	query := func() sqlast.Query {
		return sqlast.SelectFrom("users").
			Column("id").
			Column("username").
			Where(sqlast.NewColumn("active").Equals(true)).
			OrderBy(sqlast.NewColumn("id").Ascend()).
			Take(10)
	}

	builders := []struct {
		name  string
		build func(sqlast.Query) (string, []sqlast.Value, error)
	}{
		{"mysql", mysql.Build},
		{"postgres", postgres.Build},
		{"sqlite", sqlite.Build},
		{"mssql", mssql.Build},
	}

	for _, d := range builders {
		b.Run(d.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _, err := d.build(query())
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
