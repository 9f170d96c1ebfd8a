package sqlengine

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// SubQuery selects from another table of the same database. Its predicate is applied to a
// Query over that table, correlated conditions reach the outer rows through
// the outer Query's Qualified columns.
type SubQuery struct {
	table string
	where func(outer *Query) Predicate
}

// From starts a SubQuery over table.
func From(table string) SubQuery {
	return SubQuery{table: table}
}

// Where filters the subquery. The outer Query is passed for correlation.
func (s SubQuery) Where(where func(outer *Query) Predicate) SubQuery {
	s.where = where
	return s
}

// Matching filters the subquery with an uncorrelated predicate.
func (s SubQuery) Matching(where Predicate) SubQuery {
	return s.Where(func(*Query) Predicate { return where })
}

// dataset renders the subquery selecting selection. It is absent when the filter is absent.
func (s SubQuery) dataset(outer *Query, selection any) (*goqu.SelectDataset, bool) {
	if s.where == nil {
		return nil, false
	}

	inner := &Query{table: s.table, dialect: outer.dialect}

	condition, ok := s.where(outer).Apply(inner)
	if !ok {
		return nil, false
	}

	return goqu.Dialect(outer.dialect).From(s.table).Select(selection).Where(condition), true
}

// Exists matches outer rows for which the subquery has at least one row.
// It is absent when the subquery filter is absent.
func Exists(sub SubQuery) Predicate {
	return func(q *Query) (exp.Expression, bool) {
		ds, ok := sub.dataset(q, goqu.L("1"))
		if !ok {
			return nil, false
		}

		return goqu.L("EXISTS ?", ds), true
	}
}

// NotExists matches outer rows for which the subquery has no row.
// It is absent when the subquery filter is absent.
func NotExists(sub SubQuery) Predicate {
	return func(q *Query) (exp.Expression, bool) {
		ds, ok := sub.dataset(q, goqu.L("1"))
		if !ok {
			return nil, false
		}

		return goqu.L("NOT EXISTS ?", ds), true
	}
}

// InSubQuery matches rows whose column is among the selected column values of the subquery.
// It is absent when the subquery filter is absent.
func InSubQuery(column string, sub SubQuery, selected string) Predicate {
	return func(q *Query) (exp.Expression, bool) {
		ds, ok := sub.dataset(q, goqu.C(selected))
		if !ok {
			return nil, false
		}

		return q.Col(column).In(ds), true
	}
}
