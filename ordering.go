package sqlast

// Order is the direction of a single ORDER BY term.
type Order uint8

const (
	// OrderNone leaves the direction to the database.
	OrderNone Order = iota
	OrderAsc
	OrderDesc
	OrderAscNullsFirst
	OrderAscNullsLast
	OrderDescNullsFirst
	OrderDescNullsLast
)

// OrderDefinition pairs an expression with its direction.
type OrderDefinition struct {
	Expr  Expression
	Order Order
}

// Ordering is the ORDER BY list of a query or window.
type Ordering struct {
	Terms []OrderDefinition
}

// OrderBy builds an ordering from definitions.
func OrderBy(terms ...OrderDefinition) Ordering {
	return Ordering{Terms: terms}
}

// Append adds a term to the ordering.
func (o Ordering) Append(d OrderDefinition) Ordering {
	o.Terms = append(o.Terms, d)
	return o
}

// IsEmpty reports whether the ordering has no terms.
func (o Ordering) IsEmpty() bool { return len(o.Terms) == 0 }

// Order attaches an explicit direction to the expression.
func (e Expression) Order(order Order) OrderDefinition {
	return OrderDefinition{Expr: e, Order: order}
}

// Ascend orders by the expression ascending.
func (e Expression) Ascend() OrderDefinition { return e.Order(OrderAsc) }

// Descend orders by the expression descending.
func (e Expression) Descend() OrderDefinition { return e.Order(OrderDesc) }

func (c Column) Order(order Order) OrderDefinition {
	return OrderDefinition{Expr: c.Expr(), Order: order}
}

func (c Column) Ascend() OrderDefinition  { return c.Order(OrderAsc) }
func (c Column) Descend() OrderDefinition { return c.Order(OrderDesc) }

// AscendNullsFirst orders ascending with NULL rows first.
func (c Column) AscendNullsFirst() OrderDefinition {
	return c.Order(OrderAscNullsFirst)
}

// AscendNullsLast orders ascending with NULL rows last.
func (c Column) AscendNullsLast() OrderDefinition {
	return c.Order(OrderAscNullsLast)
}

// DescendNullsFirst orders descending with NULL rows first.
func (c Column) DescendNullsFirst() OrderDefinition {
	return c.Order(OrderDescNullsFirst)
}

// DescendNullsLast orders descending with NULL rows last.
func (c Column) DescendNullsLast() OrderDefinition {
	return c.Order(OrderDescNullsLast)
}
