package sqlast

// UnionType is the combinator between two selects of a union.
type UnionType uint8

const (
	// UnionDistinct deduplicates the combined rows.
	UnionDistinct UnionType = iota
	// UnionAll keeps duplicates.
	UnionAll
)

// Union combines selects. Types holds one combinator per boundary, so
// it is always one element shorter than Selects.
type Union struct {
	Selects []*Select
	Types   []UnionType
	CTEs    []CommonTableExpression
}

// NewUnion starts a union with its first select.
func NewUnion(s *Select) *Union {
	return &Union{Selects: []*Select{s}}
}

// All appends a select with UNION ALL.
func (u *Union) All(s *Select) *Union {
	u.Selects = append(u.Selects, s)
	u.Types = append(u.Types, UnionAll)
	return u
}

// Distinct appends a select with UNION.
func (u *Union) Distinct(s *Select) *Union {
	u.Selects = append(u.Selects, s)
	u.Types = append(u.Types, UnionDistinct)
	return u
}

// With prepends a common table expression.
func (u *Union) With(cte CommonTableExpression) *Union {
	u.CTEs = append(u.CTEs, cte)
	return u
}

func (u *Union) namedSelection() []string {
	if len(u.Selects) == 0 {
		return nil
	}
	return u.Selects[0].namedSelection()
}
