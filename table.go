package sqlast

// TableKind discriminates the source a Table refers to.
type TableKind uint8

const (
	// TableName is a plain table identifier.
	TableName TableKind = iota
	// TableQuery is a subquery used in a FROM position.
	TableQuery
	// TableValues is an in-memory list of rows used as a table.
	TableValues
	// TableJoined is a table identifier with joins rendered right
	// after it in the FROM clause.
	TableJoined
)

// IndexDefinition describes a unique index on a table. MERGE conversion
// on SQL Server joins the source against these columns.
type IndexDefinition struct {
	Columns []Column
}

// Table is anything a query can select from.
type Table struct {
	Kind     TableKind
	Name     string
	Database string
	Alias    string
	Query    *Select
	Values   *Values
	Joins    []Join

	UniqueIndexes []IndexDefinition
}

// NewTable references a plain table by name.
func NewTable(name string) Table {
	return Table{Kind: TableName, Name: name}
}

// QualifiedTable references a table inside a database or schema.
func QualifiedTable(database, name string) Table {
	return Table{Kind: TableName, Name: name, Database: database}
}

// SubqueryTable uses a SELECT as a table source.
func SubqueryTable(q *Select) Table {
	return Table{Kind: TableQuery, Query: q}
}

// ValuesTable uses a list of rows as a table source.
func ValuesTable(v Values) Table {
	return Table{Kind: TableValues, Values: &v}
}

// As aliases the table.
func (t Table) As(alias string) Table {
	t.Alias = alias
	return t
}

// LeftJoin attaches a LEFT JOIN directly after the table in the FROM
// clause, keeping the join positional when more tables follow.
func (t Table) LeftJoin(j JoinData) Table {
	return t.addJoin(Join{Kind: JoinLeft, Data: j})
}

// InnerJoin attaches an INNER JOIN directly after the table.
func (t Table) InnerJoin(j JoinData) Table {
	return t.addJoin(Join{Kind: JoinInner, Data: j})
}

// RightJoin attaches a RIGHT JOIN directly after the table.
func (t Table) RightJoin(j JoinData) Table {
	return t.addJoin(Join{Kind: JoinRight, Data: j})
}

// FullJoin attaches a FULL JOIN directly after the table.
func (t Table) FullJoin(j JoinData) Table {
	return t.addJoin(Join{Kind: JoinFull, Data: j})
}

func (t Table) addJoin(j Join) Table {
	t.Kind = TableJoined
	t.Joins = append(t.Joins, j)
	return t
}

// Unique registers a unique index over the given columns.
func (t Table) Unique(columns ...Column) Table {
	t.UniqueIndexes = append(t.UniqueIndexes, IndexDefinition{Columns: columns})
	return t
}

// On builds join data for this table with the given condition.
func (t Table) On(condition Expression) JoinData {
	return JoinData{Table: t, Conditions: conditionTreeOf(condition)}
}

// Asterisk selects every column of the table.
func (t Table) Asterisk() Expression {
	tt := t
	return Expression{Kind: ExprAsterisk{Table: &tt}}
}

// JoinKind is the SQL join flavor.
type JoinKind uint8

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
)

// JoinData pairs the joined table with its ON condition.
type JoinData struct {
	Table      Table
	Conditions ConditionTree
}

// And adds a further condition to the join.
func (j JoinData) And(condition Expression) JoinData {
	j.Conditions = j.Conditions.And(condition)
	return j
}

// Join is a single JOIN clause.
type Join struct {
	Kind JoinKind
	Data JoinData
}
