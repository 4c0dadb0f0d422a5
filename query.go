package sqlast

// Query is any statement the compiler can turn into SQL.
type Query interface {
	isQuery()
}

// SelectQuery is a query usable in selection positions, as a CTE body
// or a subquery.
type SelectQuery interface {
	Query
	isSelectQuery()
}

// RawQuery passes SQL text through unchanged.
type RawQuery string

func (*Select) isQuery()  {}
func (*Insert) isQuery()  {}
func (*Update) isQuery()  {}
func (*Delete) isQuery()  {}
func (*Union) isQuery()   {}
func (*Merge) isQuery()   {}
func (RawQuery) isQuery() {}

func (*Select) isSelectQuery() {}
func (*Union) isSelectQuery()  {}
