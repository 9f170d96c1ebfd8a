package sqlengine

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

// Record is one result row of a whole-record query, keyed by column name.
type Record = map[string]any

type (
	// Predicate is a fluentquery.PredicateSpec for the SQL engine.
	Predicate = fluentquery.PredicateSpec[*Query, exp.Expression]

	// Sort is a fluentquery.SortSpec for the SQL engine.
	Sort = fluentquery.SortSpec[*Query, exp.Expression]

	// Selector is a fluentquery.Selector for the SQL engine.
	Selector = fluentquery.Selector[*Query, exp.Expression]

	// Fetch is a fluentquery.Fetch for the SQL engine.
	Fetch = fluentquery.Fetch[*Query, exp.Expression]

	// QueryEngine is a fluentquery.Engine over the SQL engine.
	QueryEngine = fluentquery.Engine[*Query, exp.Expression, Record]
)

// Projection is a fluentquery.Projection for the SQL engine.
type Projection[U any] = fluentquery.Projection[*Query, exp.Expression, Record, U]

// Query is the per-query context handed to predicates and sorts. It is created fresh for each
// statement the engine builds.
type Query struct {
	table    string
	identity []string
	dialect  string
}

// NewQuery creates a Query for table with the given identity columns, rendered for PostgreSQL.
func NewQuery(table string, identity ...string) *Query {
	return &Query{table: table, identity: identity, dialect: DialectPostgres}
}

// Table returns the queried table name.
func (q *Query) Table() string {
	return q.table
}

// Col returns an identifier expression for the given column.
func (q *Query) Col(name string) exp.IdentifierExpression {
	return goqu.C(name)
}

// Qualified returns the column qualified with the queried table, as needed to reference
// outer rows from a correlated subquery.
func (q *Query) Qualified(name string) exp.IdentifierExpression {
	return goqu.T(q.table).Col(name)
}

// And combines two conditions into a conjunction.
func (q *Query) And(lhs, rhs exp.Expression) exp.Expression {
	return goqu.And(lhs, rhs)
}

// Or combines two conditions into a disjunction.
func (q *Query) Or(lhs, rhs exp.Expression) exp.Expression {
	return goqu.Or(lhs, rhs)
}

// Not negates a condition.
func (q *Query) Not(x exp.Expression) exp.Expression {
	return goqu.L("NOT (?)", x)
}

// Identity returns the identity columns in configured order.
func (q *Query) Identity() []exp.Expression {
	identity := make([]exp.Expression, len(q.identity))
	for i, column := range q.identity {
		identity[i] = goqu.C(column)
	}

	return identity
}

// Cond lifts an arbitrary goqu condition into a Predicate.
func Cond(condition func(q *Query) exp.Expression) Predicate {
	return fluentquery.Where(condition)
}

// When returns p if present is true, otherwise an absent Predicate.
func When(present bool, p Predicate) Predicate {
	if !present {
		return nil
	}

	return p
}

// Eq matches rows where column equals value.
func Eq(column string, value any) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Eq(value) })
}

// EqIfSet is Eq for a non-zero value and absent for the zero value.
func EqIfSet[T comparable](column string, value T) Predicate {
	var zero T

	return When(value != zero, Eq(column, value))
}

// Neq matches rows where column differs from value.
func Neq(column string, value any) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Neq(value) })
}

// Gt matches rows where column is greater than value.
func Gt(column string, value any) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Gt(value) })
}

// Gte matches rows where column is greater than or equal to value.
func Gte(column string, value any) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Gte(value) })
}

// Lt matches rows where column is less than value.
func Lt(column string, value any) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Lt(value) })
}

// Lte matches rows where column is less than or equal to value.
func Lte(column string, value any) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Lte(value) })
}

// Like matches rows where column matches the LIKE pattern.
func Like(column string, pattern string) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).Like(pattern) })
}

// In matches rows where column is one of values. No values yields an absent Predicate.
func In(column string, values ...any) Predicate {
	if len(values) == 0 {
		return nil
	}

	return Cond(func(q *Query) exp.Expression { return q.Col(column).In(values...) })
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).IsNull() })
}

// IsNotNull matches rows where column is not NULL.
func IsNotNull(column string) Predicate {
	return Cond(func(q *Query) exp.Expression { return q.Col(column).IsNotNull() })
}

// Asc sorts ascending by column.
func Asc(column string) Sort {
	return fluentquery.SortAsc(func(q *Query) exp.Expression { return q.Col(column) })
}

// Desc sorts descending by column.
func Desc(column string) Sort {
	return fluentquery.SortDesc(func(q *Query) exp.Expression { return q.Col(column) })
}

// Column selects a column under its own name.
func Column(name string) Selector {
	return fluentquery.As(name, func(q *Query) exp.Expression { return q.Col(name) })
}

// Expr selects an arbitrary expression under alias.
func Expr(alias string, expr func(q *Query) exp.Expression) Selector {
	return fluentquery.As(alias, expr)
}

// CountAll selects COUNT(*) under alias.
func CountAll(alias string) Selector {
	return Expr(alias, func(*Query) exp.Expression { return goqu.COUNT(goqu.Star()) })
}

// Columns returns column expressions for grouping.
func Columns(names ...string) []func(q *Query) exp.Expression {
	columns := make([]func(q *Query) exp.Expression, len(names))
	for i, name := range names {
		columns[i] = func(q *Query) exp.Expression { return q.Col(name) }
	}

	return columns
}

// Records projects whole rows.
func Records() Projection[Record] {
	return fluentquery.Identity[*Query, exp.Expression, Record]()
}

// Tuple projects the selectors into a fluentquery.Tuple.
func Tuple(selectors ...Selector) Projection[fluentquery.Tuple] {
	return fluentquery.TupleOf[*Query, exp.Expression, Record](selectors...)
}

// Construct projects the selectors positionally into ctor.
func Construct[U any](ctor func(values []any) (U, error), selectors ...Selector) Projection[U] {
	return fluentquery.Construct[*Query, exp.Expression, Record](ctor, selectors...)
}
