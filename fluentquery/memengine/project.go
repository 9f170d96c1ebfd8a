package memengine

import (
	"fmt"
)

// project evaluates the selectors of a tuple or constructed fetch. Grouped fetches, and
// ungrouped ones selecting an aggregate, produce one row per group.
func project(q *Query, fetch Fetch, docs []Document) ([]row, error) {
	selectors := make([]Expr, len(fetch.Selectors))
	aliases := make([]string, len(fetch.Selectors))
	hasAggregate := false

	for i, selector := range fetch.Selectors {
		if selector.Expr == nil {
			return nil, fmt.Errorf("%w: selector %d has no expression", ErrEvaluationFailed, i)
		}

		selectors[i] = selector.Expr(q)
		aliases[i] = selector.Alias

		if _, ok := selectors[i].(Aggregate); ok {
			hasAggregate = true
		}
	}

	var rows []row
	var err error

	switch {
	case len(fetch.Grouping) > 0:
		rows, err = projectGroups(q, fetch, selectors, aliases, docs)
	case hasAggregate:
		var r row
		r, err = projectGroup(selectors, aliases, docs)
		rows = []row{r}
	default:
		rows = make([]row, 0, len(docs))
		for _, doc := range docs {
			var r row
			r, err = projectGroup(selectors, aliases, []Document{doc})
			if err != nil {
				break
			}
			rows = append(rows, r)
		}
	}

	if err != nil {
		return nil, err
	}

	if fetch.Distinct {
		return distinct(rows)
	}

	return rows, nil
}

// projectGroups partitions docs by the grouping expressions, in order of first appearance.
func projectGroups(q *Query, fetch Fetch, selectors []Expr, aliases []string, docs []Document) ([]row, error) {
	grouping := make([]Expr, len(fetch.Grouping))
	for i, expr := range fetch.Grouping {
		grouping[i] = expr(q)
	}

	order := make([]string, 0)
	groups := make(map[string][]Document)

	for _, doc := range docs {
		values := make([]any, len(grouping))
		for i, expr := range grouping {
			v, err := expr.Eval(doc)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}

		key, err := encodeKey(values)
		if err != nil {
			return nil, err
		}

		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], doc)
	}

	rows := make([]row, 0, len(order))
	for _, key := range order {
		r, err := projectGroup(selectors, aliases, groups[key])
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}

	return rows, nil
}

// projectGroup reduces aggregates over group and evaluates plain selectors on its first document.
func projectGroup(selectors []Expr, aliases []string, group []Document) (row, error) {
	values := make([]any, len(selectors))
	record := make(Document, len(selectors))

	for i, selector := range selectors {
		var v any
		var err error

		if agg, ok := selector.(Aggregate); ok {
			v, err = agg.Reduce(group)
		} else if len(group) > 0 {
			v, err = selector.Eval(group[0])
		}

		if err != nil {
			return row{}, err
		}

		values[i] = v
		record[aliases[i]] = v
	}

	return row{record: record, values: values}, nil
}

func distinct(rows []row) ([]row, error) {
	seen := make(map[string]struct{}, len(rows))
	unique := make([]row, 0, len(rows))

	for _, r := range rows {
		key, err := encodeKey(r.values)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}

	return unique, nil
}
