package sqlast

import "fmt"

// MergeUsing is the source side of a MERGE: a query aliased as a
// table, the columns it exposes, and the match condition.
type MergeUsing struct {
	BaseQuery Select
	AsTable   string
	Columns   []Column
	On        ConditionTree
}

// Merge is a MERGE statement inserting source rows that do not match
// the target.
type Merge struct {
	Table          Table
	Using          MergeUsing
	WhenNotMatched *Insert
	Returning      []Column
}

// MergeInto starts a merge into the table.
func MergeInto(table any, using MergeUsing) *Merge {
	return &Merge{Table: tableOf(table), Using: using}
}

// WhenNotMatchedInsert inserts the given row when the source does not
// match the target.
func (m *Merge) WhenNotMatchedInsert(i *Insert) *Merge {
	m.WhenNotMatched = i
	return m
}

// WithReturning asks the database to return the given columns of the
// inserted rows.
func (m *Merge) WithReturning(columns ...any) *Merge {
	for _, c := range columns {
		m.Returning = append(m.Returning, columnOf(c))
	}
	return m
}

// MergeFromInsert converts a single-row insert into a merge that only
// inserts when no unique index of the target table matches. Databases
// without a conflict-ignore insert use this instead.
//
// The source side selects every insert value aliased as its column,
// named `dual`. The match condition goes through the unique indexes of
// the target: a provided column compares source against target, a
// missing column with a concrete default compares the target against
// the default, and a missing generated column can never match, so a
// single-column index is dropped and a compound one gets a `1=0` arm.
func MergeFromInsert(i *Insert) (*Merge, error) {
	if i.Table == nil {
		return nil, fmt.Errorf("cannot convert an insert without a table into a merge")
	}

	row, ok := i.Values.Kind.(ExprRow)
	if !ok {
		if vals, isValues := i.Values.Kind.(ExprValues); isValues && vals.Values.Len() == 1 {
			row = ExprRow{Row: vals.Values.Rows[0]}
		} else {
			return nil, fmt.Errorf("cannot convert a multi-row insert into a merge")
		}
	}

	table := *i.Table

	query := SelectDefault()
	for idx, col := range i.Columns {
		query.Columns = append(query.Columns, row.Row.Values[idx].As(col.Name))
	}

	using := MergeUsing{
		BaseQuery: *query,
		AsTable:   "dual",
		On:        mergeMatchConditions(table, i.Columns),
	}

	dual := NewTable("dual")
	insertRow := Row{}
	for _, col := range i.Columns {
		using.Columns = append(using.Columns, NewColumn(col.Name))
		insertRow = insertRow.Push(NewColumn(col.Name).InTable(dual))
	}

	whenNotMatched := &Insert{
		Columns: using.Columns,
		Values:  Expression{Kind: ExprRow{Row: insertRow}},
	}

	m := MergeInto(table, using).WhenNotMatchedInsert(whenNotMatched)
	m.Returning = i.Returning

	return m, nil
}

func mergeMatchConditions(table Table, provided []Column) ConditionTree {
	providedNames := make(map[string]bool, len(provided))
	for _, c := range provided {
		providedNames[c.Name] = true
	}

	dual := NewTable("dual")

	var indexConds []Expression
	for _, index := range table.UniqueIndexes {
		var conds []Expression
		skip := false

		for _, col := range index.Columns {
			target := NewColumn(col.Name).InTable(table)

			switch {
			case providedNames[col.Name]:
				source := NewColumn(col.Name).InTable(dual)
				conds = append(conds, source.Equals(target))
			case col.Default == nil, col.defaultsToGenerated():
				// A generated value can never match an incoming row.
				if len(index.Columns) == 1 {
					skip = true
				} else {
					conds = append(conds, NegativeCondition().Expr())
				}
			default:
				conds = append(conds, target.Equals(Param(col.Default.Value)))
			}
		}

		if skip || len(conds) == 0 {
			continue
		}

		indexCond := conds[0]
		for _, c := range conds[1:] {
			indexCond = indexCond.And(c)
		}
		indexConds = append(indexConds, indexCond)
	}

	if len(indexConds) == 0 {
		return NegativeCondition()
	}

	combined := indexConds[0]
	for _, c := range indexConds[1:] {
		combined = combined.Or(c)
	}

	return conditionTreeOf(combined)
}
