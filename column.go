package sqlast

// TypeFamily is the coarse data type of a column. SQL Server needs it
// to declare the temporary key table for inserts with RETURNING.
type TypeFamily uint8

const (
	TypeUnknown TypeFamily = iota
	TypeText
	TypeInt
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBoolean
	TypeUUID
	TypeDateTime
	TypeBytes
)

// DefaultValue describes the default of a column. Either a concrete
// value or a marker that the database generates it.
type DefaultValue struct {
	Generated bool
	Value     Value
}

// DefaultOf wraps a concrete default value.
func DefaultOf(v Value) *DefaultValue {
	return &DefaultValue{Value: v}
}

// GeneratedDefault marks the default as produced by the database.
func GeneratedDefault() *DefaultValue {
	return &DefaultValue{Generated: true}
}

// Column references a column, optionally qualified with its table.
type Column struct {
	Name  string
	Table *Table
	Alias string

	TypeFamily TypeFamily
	Default    *DefaultValue

	// IsEnum together with IsSelected drives the text cast PostgreSQL
	// needs when reading enum columns back.
	IsEnum     bool
	IsSelected bool
	IsList     bool
}

// NewColumn references a column by bare name.
func NewColumn(name string) Column {
	return Column{Name: name}
}

// InTable qualifies the column with a table.
func (c Column) InTable(t Table) Column {
	c.Table = &t
	return c
}

// As aliases the column.
func (c Column) As(alias string) Column {
	c.Alias = alias
	return c
}

// WithType records the type family of the column.
func (c Column) WithType(f TypeFamily) Column {
	c.TypeFamily = f
	return c
}

// WithDefault records the column default.
func (c Column) WithDefault(d *DefaultValue) Column {
	c.Default = d
	return c
}

// SetEnum marks the column as holding a user-defined enum.
func (c Column) SetEnum(isList bool) Column {
	c.IsEnum = true
	c.IsList = isList
	return c
}

// Expr lifts the column into an expression.
func (c Column) Expr() Expression {
	return Expression{Kind: ExprColumn{Column: c}}
}

func (c Column) defaultsToGenerated() bool {
	return c.Default != nil && c.Default.Generated
}
