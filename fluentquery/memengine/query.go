package memengine

import (
	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

type (
	// Predicate is a fluentquery.PredicateSpec for the in-memory engine.
	Predicate = fluentquery.PredicateSpec[*Query, Expr]

	// Sort is a fluentquery.SortSpec for the in-memory engine.
	Sort = fluentquery.SortSpec[*Query, Expr]

	// Selector is a fluentquery.Selector for the in-memory engine.
	Selector = fluentquery.Selector[*Query, Expr]

	// Fetch is a fluentquery.Fetch for the in-memory engine.
	Fetch = fluentquery.Fetch[*Query, Expr]

	// QueryEngine is a fluentquery.Engine over the in-memory engine.
	QueryEngine = fluentquery.Engine[*Query, Expr, Document]
)

// Projection is a fluentquery.Projection for the in-memory engine.
type Projection[U any] = fluentquery.Projection[*Query, Expr, Document, U]

// Query is the per-query Context of the in-memory engine.
type Query struct {
	identityField string
}

// NewQuery creates a Query whose identity is identityField.
func NewQuery(identityField string) *Query {
	return &Query{identityField: identityField}
}

// Field reads a document field.
func (q *Query) Field(name string) Expr {
	return Field(name)
}

// And is true when both conditions are true. The right side is not evaluated otherwise.
func (q *Query) And(lhs, rhs Expr) Expr {
	return and(lhs, rhs)
}

// Or is true when either condition is true.
func (q *Query) Or(lhs, rhs Expr) Expr {
	return or(lhs, rhs)
}

// Not negates a condition.
func (q *Query) Not(x Expr) Expr {
	return not(x)
}

// Identity returns the identity field.
func (q *Query) Identity() []Expr {
	return []Expr{Field(q.identityField)}
}

// Cond lifts an arbitrary condition into a Predicate.
func Cond(condition func(q *Query) Expr) Predicate {
	return fluentquery.Where(condition)
}

func compareField(field string, op Operator, value any) Predicate {
	rhs := Value(value)

	return Cond(func(q *Query) Expr { return Cmp(q.Field(field), op, rhs) })
}

// Eq matches documents where field equals value.
func Eq(field string, value any) Predicate {
	return compareField(field, OpEq, value)
}

// EqIfSet is Eq for a non-zero value and absent for the zero value.
func EqIfSet[T comparable](field string, value T) Predicate {
	var zero T
	if value == zero {
		return nil
	}

	return Eq(field, value)
}

// Ne matches documents where field differs from value.
func Ne(field string, value any) Predicate {
	return compareField(field, OpNe, value)
}

// Gt matches documents where field is greater than value.
func Gt(field string, value any) Predicate {
	return compareField(field, OpGt, value)
}

// Gte matches documents where field is greater than or equal to value.
func Gte(field string, value any) Predicate {
	return compareField(field, OpGte, value)
}

// Lt matches documents where field is less than value.
func Lt(field string, value any) Predicate {
	return compareField(field, OpLt, value)
}

// Lte matches documents where field is less than or equal to value.
func Lte(field string, value any) Predicate {
	return compareField(field, OpLte, value)
}

// In matches documents where field is one of values. No values yields an absent Predicate.
func In(field string, values ...any) Predicate {
	if len(values) == 0 {
		return nil
	}

	return Cond(func(q *Query) Expr { return OneOf(q.Field(field), values...) })
}

// Contains matches documents where field is a string containing value or an array holding value.
func Contains(field string, value any) Predicate {
	return Cond(func(q *Query) Expr { return Includes(q.Field(field), value) })
}

// IsNull matches documents where field is null or missing.
func IsNull(field string) Predicate {
	return Cond(func(q *Query) Expr { return Null(q.Field(field)) })
}

// Match matches documents against a MongoDB-style filter such as {"year": {"$gt": 1980}}.
// An empty filter yields an absent Predicate.
func Match(filter map[string]any) Predicate {
	if len(filter) == 0 {
		return nil
	}

	expr := Filter(filter)

	return Cond(func(*Query) Expr { return expr })
}

// Asc sorts ascending by field.
func Asc(field string) Sort {
	return fluentquery.SortAsc(func(q *Query) Expr { return q.Field(field) })
}

// Desc sorts descending by field.
func Desc(field string) Sort {
	return fluentquery.SortDesc(func(q *Query) Expr { return q.Field(field) })
}

// Column selects a field under its own name.
func Column(name string) Selector {
	return fluentquery.As(name, func(q *Query) Expr { return q.Field(name) })
}

// As selects expr under alias. Aggregates reduce the group of each projected row.
func As(alias string, expr Expr) Selector {
	return fluentquery.As(alias, func(*Query) Expr { return expr })
}

// Columns returns field expressions for grouping.
func Columns(names ...string) []func(q *Query) Expr {
	columns := make([]func(q *Query) Expr, len(names))
	for i, name := range names {
		columns[i] = func(q *Query) Expr { return q.Field(name) }
	}

	return columns
}

// Records projects whole documents.
func Records() Projection[Document] {
	return fluentquery.Identity[*Query, Expr, Document]()
}

// Tuple projects the selectors into a fluentquery.Tuple.
func Tuple(selectors ...Selector) Projection[fluentquery.Tuple] {
	return fluentquery.TupleOf[*Query, Expr, Document](selectors...)
}

// Construct projects the selectors positionally into ctor.
func Construct[U any](ctor func(values []any) (U, error), selectors ...Selector) Projection[U] {
	return fluentquery.Construct[*Query, Expr, Document](ctor, selectors...)
}
