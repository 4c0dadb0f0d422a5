package sqlast

// FunctionKind identifies a database function.
type FunctionKind uint8

const (
	FnRowNumber FunctionKind = iota
	FnCount
	FnAggregateToString
	FnAverage
	FnSum
	FnLower
	FnUpper
	FnMinimum
	FnMaximum
	FnCoalesce
	FnConcat
	FnJSONExtract
	FnJSONExtractFirstArrayElem
	FnJSONExtractLastArrayElem
	FnJSONUnquote
	FnTextSearch
	FnTextSearchRelevance
	FnRowToJSON
	FnUUID
	FnUUIDToBin
	FnUUIDToBinSwapped
)

// JSONPath addresses a location inside a JSON document, either with a
// `$.a.b` string or with path segments.
type JSONPath struct {
	String   string
	Segments []string
	IsArray  bool
}

// JSONPathString builds a `$.a.b` style path.
func JSONPathString(path string) JSONPath {
	return JSONPath{String: path}
}

// JSONPathArray builds a path from segments.
func JSONPathArray(segments ...string) JSONPath {
	return JSONPath{Segments: segments, IsArray: true}
}

// Over is the window of a ROW_NUMBER call.
type Over struct {
	Partitioning []Column
	Ordering     Ordering
}

// IsEmpty reports whether the window has no partitioning and no
// ordering.
func (o Over) IsEmpty() bool {
	return len(o.Partitioning) == 0 && o.Ordering.IsEmpty()
}

// Function is a database function call.
type Function struct {
	Kind FunctionKind

	Exprs    []Expression
	Arg      *Expression
	Column   Column
	Table    Table
	Over     Over
	Path     JSONPath
	AsString bool
	Query    string
}

// Expr lifts the function into an expression.
func (f Function) Expr() Expression {
	return Expression{Kind: ExprFunction{Function: f}}
}

// As aliases the function result.
func (f Function) As(alias string) Expression {
	return f.Expr().As(alias)
}

// ReturnsJSON reports whether the function produces a JSON value.
func (f Function) ReturnsJSON() bool {
	switch f.Kind {
	case FnJSONExtract, FnJSONExtractFirstArrayElem, FnJSONExtractLastArrayElem, FnJSONUnquote:
		return true
	default:
		return false
	}
}

func exprsOf(args []any) []Expression {
	exprs := make([]Expression, 0, len(args))
	for _, a := range args {
		exprs = append(exprs, ExprOf(a))
	}
	return exprs
}

// RowNumber starts a ROW_NUMBER() window function.
func RowNumber() Function {
	return Function{Kind: FnRowNumber}
}

// PartitionBy adds a partitioning column to the window.
func (f Function) PartitionBy(c Column) Function {
	f.Over.Partitioning = append(f.Over.Partitioning, c)
	return f
}

// OrderBy adds an ordering term to the window.
func (f Function) OrderBy(d OrderDefinition) Function {
	f.Over.Ordering = f.Over.Ordering.Append(d)
	return f
}

// Count builds COUNT(...), or COUNT(*) without arguments.
func Count(args ...any) Function {
	return Function{Kind: FnCount, Exprs: exprsOf(args)}
}

// AggregateToString folds grouped values of the expression into a
// comma-separated string.
func AggregateToString(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnAggregateToString, Arg: &e}
}

// Average builds AVG(column).
func Average(c Column) Function {
	return Function{Kind: FnAverage, Column: c}
}

// Sum builds SUM(expr).
func Sum(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnSum, Arg: &e}
}

// Lower builds LOWER(expr).
func Lower(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnLower, Arg: &e}
}

// Upper builds UPPER(expr).
func Upper(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnUpper, Arg: &e}
}

// Minimum builds MIN(column).
func Minimum(c Column) Function {
	return Function{Kind: FnMinimum, Column: c}
}

// Maximum builds MAX(column).
func Maximum(c Column) Function {
	return Function{Kind: FnMaximum, Column: c}
}

// Coalesce builds COALESCE(...).
func Coalesce(args ...any) Function {
	return Function{Kind: FnCoalesce, Exprs: exprsOf(args)}
}

// Concat builds string concatenation of the arguments.
func Concat(args ...any) Function {
	return Function{Kind: FnConcat, Exprs: exprsOf(args)}
}

// JSONExtract reads the JSON document at the given path. AsString
// unwraps the result into text.
func JSONExtract(expr any, path JSONPath, asString bool) Function {
	e := ExprOf(expr)
	return Function{Kind: FnJSONExtract, Arg: &e, Path: path, AsString: asString}
}

// JSONExtractFirstArrayElem reads the first element of a JSON array.
func JSONExtractFirstArrayElem(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnJSONExtractFirstArrayElem, Arg: &e}
}

// JSONExtractLastArrayElem reads the last element of a JSON array.
func JSONExtractLastArrayElem(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnJSONExtractLastArrayElem, Arg: &e}
}

// JSONUnquote unwraps a JSON string into text.
func JSONUnquote(expr any) Function {
	e := ExprOf(expr)
	return Function{Kind: FnJSONUnquote, Arg: &e}
}

// TextSearch builds a full-text search vector over the expressions.
func TextSearch(args ...any) Function {
	return Function{Kind: FnTextSearch, Exprs: exprsOf(args)}
}

// TextSearchRelevance ranks the expressions against the query.
func TextSearchRelevance(query string, args ...any) Function {
	return Function{Kind: FnTextSearchRelevance, Exprs: exprsOf(args), Query: query}
}

// RowToJSON converts a table row into a JSON document.
func RowToJSON(t Table) Function {
	return Function{Kind: FnRowToJSON, Table: t}
}

// NativeUUID generates a UUID on the database side.
func NativeUUID() Function {
	return Function{Kind: FnUUID}
}

// UUIDToBin generates a UUID and converts it to binary.
func UUIDToBin() Function {
	return Function{Kind: FnUUIDToBin}
}

// UUIDToBinSwapped generates a time-swapped binary UUID.
func UUIDToBinSwapped() Function {
	return Function{Kind: FnUUIDToBinSwapped}
}
