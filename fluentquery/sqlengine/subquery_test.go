package sqlengine_test

import (
	"testing"

	"github.com/doug-martin/goqu/v9/exp"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery/sqlengine"
)

// loanedTo correlates loans with the outer book row and filters by reader if one is given.
func loanedTo(reader string) sqlengine.SubQuery {
	return sqlengine.From("loans").Where(func(outer *sqlengine.Query) sqlengine.Predicate {
		return sqlengine.Cond(func(inner *sqlengine.Query) exp.Expression {
			return inner.Qualified("book_id").Eq(outer.Qualified("id"))
		}).And(sqlengine.EqIfSet("reader", reader))
	})
}

//nolint:funlen
func Test_SubQuery_Predicates(t *testing.T) {
	testCases := []struct {
		name     string
		build    func() sqlengine.Predicate
		expected string
	}{
		{
			name:  "Exists correlated with the outer row",
			build: func() sqlengine.Predicate { return sqlengine.Exists(loanedTo("")) },
			expected: `SELECT * FROM "books" WHERE EXISTS (SELECT 1 FROM "loans" ` +
				`WHERE ("loans"."book_id" = "books"."id"))`,
		},
		{
			name:  "Exists with an additional inner condition",
			build: func() sqlengine.Predicate { return sqlengine.Exists(loanedTo("r-1")) },
			expected: `SELECT * FROM "books" WHERE EXISTS (SELECT 1 FROM "loans" ` +
				`WHERE (("loans"."book_id" = "books"."id") AND ("reader" = 'r-1')))`,
		},
		{
			name:  "NotExists",
			build: func() sqlengine.Predicate { return sqlengine.NotExists(loanedTo("")) },
			expected: `SELECT * FROM "books" WHERE NOT EXISTS (SELECT 1 FROM "loans" ` +
				`WHERE ("loans"."book_id" = "books"."id"))`,
		},
		{
			name: "InSubQuery uncorrelated",
			build: func() sqlengine.Predicate {
				return sqlengine.InSubQuery("id", sqlengine.From("loans").Matching(sqlengine.Eq("reader", "r-2")), "book_id")
			},
			expected: `SELECT * FROM "books" WHERE ("id" IN (SELECT "book_id" FROM "loans" WHERE ("reader" = 'r-2')))`,
		},
		{
			name: "absent inner filter makes the subquery predicate absent",
			build: func() sqlengine.Predicate {
				return sqlengine.Exists(sqlengine.From("loans").Matching(sqlengine.EqIfSet("reader", "")))
			},
			expected: "",
		},
		{
			name: "subquery without filter is absent",
			build: func() sqlengine.Predicate {
				return sqlengine.InSubQuery("id", sqlengine.From("loans"), "book_id")
			},
			expected: "",
		},
		{
			name: "absent subquery predicate is elided from a conjunction",
			build: func() sqlengine.Predicate {
				return sqlengine.Exists(sqlengine.From("loans").Matching(nil)).And(sqlengine.Gte("year", 2000))
			},
			expected: `SELECT * FROM "books" WHERE ("year" >= 2000)`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, renderWhere(t, tc.build()))
		})
	}
}
