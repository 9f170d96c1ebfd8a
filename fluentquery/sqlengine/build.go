package sqlengine

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

func (e *Engine) newQuery() *Query {
	q := NewQuery(e.tableName, e.identityColumns...)
	q.dialect = e.dialect

	return q
}

// baseDataset renders FROM, WHERE, SELECT, DISTINCT and GROUP BY of a fetch.
func (e *Engine) baseDataset(q *Query, fetch Fetch) (*goqu.SelectDataset, error) {
	ds := goqu.Dialect(e.dialect).From(e.tableName)

	if where, ok := fetch.Where.Apply(q); ok {
		ds = ds.Where(where)
	}

	if len(fetch.Selectors) > 0 {
		selection := make([]any, 0, len(fetch.Selectors))
		for i, selector := range fetch.Selectors {
			if selector.Expr == nil {
				return nil, fmt.Errorf("%w: selector %d has no expression", ErrBuildingQueryFailed, i)
			}

			selection = append(selection, aliased(selector.Expr(q), selector.Alias))
		}
		ds = ds.Select(selection...)
	}

	if fetch.Distinct {
		ds = ds.Distinct()
	}

	if len(fetch.Grouping) > 0 {
		grouping := make([]any, 0, len(fetch.Grouping))
		for _, expr := range fetch.Grouping {
			grouping = append(grouping, expr(q))
		}
		ds = ds.GroupBy(grouping...)
	}

	return ds, nil
}

// buildCountQuery counts rows of the table for whole-record fetches. Projected fetches are
// counted as the rows their select yields, so aggregates without grouping count as one.
func (e *Engine) buildCountQuery(fetch Fetch) (string, error) {
	q := e.newQuery()

	base, err := e.baseDataset(q, fetch)
	if err != nil {
		return "", err
	}

	var ds *goqu.SelectDataset
	if len(fetch.Selectors) > 0 || fetch.Distinct || len(fetch.Grouping) > 0 {
		ds = goqu.Dialect(e.dialect).From(base.As(aliasCounted)).Select(goqu.COUNT(goqu.Star()))
	} else {
		ds = base.ClearSelect().Select(goqu.COUNT(goqu.Star()))
	}

	sqlQuery, _, toSQLErr := ds.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (e *Engine) buildFetchQuery(fetch Fetch, offset int64, limit int) (string, error) {
	q := e.newQuery()

	ds, err := e.baseDataset(q, fetch)
	if err != nil {
		return "", err
	}

	for _, key := range fetch.Sort.Apply(q) {
		orderable, ok := key.Expr.(exp.Orderable)
		if !ok {
			return "", fmt.Errorf("%w: %T", ErrUnorderableExpression, key.Expr)
		}

		if key.Direction == fluentquery.Desc {
			ds = ds.OrderAppend(orderable.Desc())
		} else {
			ds = ds.OrderAppend(orderable.Asc())
		}
	}

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	sqlQuery, _, toSQLErr := ds.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// aliased adds AS alias to expressions that support it and differ from a plain column of the same name.
func aliased(expr exp.Expression, alias string) any {
	if alias == "" {
		return expr
	}

	if ident, ok := expr.(exp.IdentifierExpression); ok && ident.GetCol() == alias {
		return expr
	}

	if aliasable, ok := expr.(exp.Aliaseable); ok {
		return aliasable.As(alias)
	}

	return expr
}
