package sqlengine_test

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery/sqlengine"
	"github.com/AntonStoeckl/dynamic-queries-go/testutil/sqlengine/config"
)

const sqliteBookCount = 19

// givenSQLiteBooks creates an in-memory books table with ids 1..19, where year repeats every third row.
func givenSQLiteBooks(t testing.TB) *sqlengine.QueryEngine {
	t.Helper()

	_, engine := givenSQLiteBooksDB(t)

	return engine
}

// givenSQLiteBooksDB is givenSQLiteBooks that also returns the connection for extra tables.
func givenSQLiteBooksDB(t testing.TB) (*sql.DB, *sqlengine.QueryEngine) {
	t.Helper()

	settings, err := config.Load()
	require.NoError(t, err)

	db, err := settings.SQLite.NewSQLDB(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT NOT NULL, author TEXT NOT NULL, year INTEGER NOT NULL)`)
	require.NoError(t, err)

	for id := 1; id <= sqliteBookCount; id++ {
		_, err = db.Exec(
			`INSERT INTO books (id, title, author, year) VALUES (?, ?, ?, ?)`,
			id, fmt.Sprintf("title-%02d", id), fmt.Sprintf("author-%d", id%4), 2000+id%3,
		)
		require.NoError(t, err)
	}

	engine, err := sqlengine.NewEngineFromSQLDB(db,
		sqlengine.WithDialect(sqlengine.DialectSQLite),
		sqlengine.WithTableName("books"),
	)
	require.NoError(t, err)

	return db, engine.QueryEngine()
}

// expectedIDsByYear is the ids sorted by year, ties broken by id.
func expectedIDsByYear() []int64 {
	ids := make([]int64, 0, sqliteBookCount)
	for id := int64(1); id <= sqliteBookCount; id++ {
		ids = append(ids, id)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		return 2000+ids[i]%3 < 2000+ids[j]%3
	})

	return ids
}

func idsOf(records []sqlengine.Record) []int64 {
	ids := make([]int64, 0, len(records))
	for _, record := range records {
		id, _ := record["id"].(int64)
		ids = append(ids, id)
	}

	return ids
}

func Test_SQLite_List_Breaks_Ties_By_Identity(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)

	// act
	records, err := engine.List(context.Background(), nil, sqlengine.Asc("year"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, expectedIDsByYear(), idsOf(records))
	assert.Equal(t, "title-03", records[0]["title"], "id 3 is the lowest id of the earliest year")
}

func Test_SQLite_Slices_Cover_All_Rows_Exactly_Once(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)
	point, err := fluentquery.FirstSlicePoint(5)
	require.NoError(t, err)

	// act
	collected := make([]int64, 0, sqliteBookCount)
	slices := 0
	for {
		slice, sliceErr := engine.Slice(context.Background(), nil, sqlengine.Asc("year"), point)
		require.NoError(t, sliceErr)

		collected = append(collected, idsOf(slice.Content())...)
		slices++

		if !slice.HasNext() {
			break
		}
		point = point.Next()
	}

	// assert
	assert.Equal(t, 4, slices)
	assert.Equal(t, expectedIDsByYear(), collected)
}

func Test_SQLite_Page_Totals(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)
	point, err := fluentquery.NewSlicePoint(3, 5)
	require.NoError(t, err)

	// act
	page, err := engine.Page(context.Background(), nil, nil, point)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(19), page.TotalElements())
	assert.Equal(t, int64(4), page.TotalPages())
	assert.Equal(t, []int64{16, 17, 18, 19}, idsOf(page.Content()))
	assert.False(t, page.HasNext())
}

func Test_SQLite_Count_And_Single(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)

	// act
	total, countErr := engine.Count(context.Background(), sqlengine.Eq("year", 2001).And(sqlengine.Gt("id", 5)))
	record, singleErr := engine.Single(context.Background(), sqlengine.Eq("title", "title-07"))
	_, found, optionalErr := engine.OptionalSingle(context.Background(), sqlengine.Eq("title", "missing"))

	// assert
	require.NoError(t, countErr)
	require.NoError(t, singleErr)
	require.NoError(t, optionalErr)
	assert.Equal(t, int64(5), total, "ids 7, 10, 13, 16, 19")
	assert.Equal(t, int64(7), record["id"])
	assert.False(t, found)
}

func Test_SQLite_Streams_Forward_And_Backward(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)

	forward, err := engine.Stream(context.Background(), nil, sqlengine.Asc("year"), 5, fluentquery.Forward)
	require.NoError(t, err)
	backward, err := engine.Stream(context.Background(), nil, sqlengine.Asc("year"), 5, fluentquery.Backward)
	require.NoError(t, err)

	// act
	forwardRecords, forwardErr := forward.Collect()
	backwardRecords, backwardErr := backward.Collect()

	// assert
	require.NoError(t, forwardErr)
	require.NoError(t, backwardErr)

	expected := expectedIDsByYear()
	assert.Equal(t, expected, idsOf(forwardRecords))

	wantBackward := make([]int64, 0, len(expected))
	for start := 15; start >= 0; start -= 5 {
		end := min(start+5, len(expected))
		wantBackward = append(wantBackward, expected[start:end]...)
	}
	assert.Equal(t, wantBackward, idsOf(backwardRecords))
}

func Test_SQLite_Grouped_Tuples(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)
	perYear := sqlengine.Tuple(sqlengine.Column("year"), sqlengine.CountAll("books")).
		GroupBy(sqlengine.Columns("year")...)

	// act
	tuples, err := fluentquery.List(context.Background(), engine, nil, sqlengine.Desc("year"), perYear)
	total, countErr := fluentquery.PageOf(context.Background(), engine, nil, sqlengine.Desc("year"), perYear,
		fluentquery.DefaultSlicePoint())

	// assert
	require.NoError(t, err)
	require.NoError(t, countErr)
	require.Len(t, tuples, 3)
	assert.Equal(t, []string{"year", "books"}, tuples[0].Names())
	assert.Equal(t, []any{int64(2002), int64(6)}, tuples[0].Values())
	assert.Equal(t, []any{int64(2001), int64(7)}, tuples[1].Values())
	assert.Equal(t, []any{int64(2000), int64(6)}, tuples[2].Values())
	assert.Equal(t, int64(3), total.TotalElements())
}

func Test_SQLite_Distinct_Construct(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)
	authors := sqlengine.Construct(
		func(values []any) (string, error) {
			author, ok := values[0].(string)
			if !ok {
				return "", fmt.Errorf("unexpected author %v", values[0])
			}

			return author, nil
		},
		sqlengine.Column("author"),
	).Distinct()

	// act
	result, err := fluentquery.List(context.Background(), engine, nil, sqlengine.Asc("author"), authors)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"author-0", "author-1", "author-2", "author-3"}, result)
}

func Test_SQLite_Ungrouped_Aggregate_Page(t *testing.T) {
	// setup
	engine := givenSQLiteBooks(t)
	point, err := fluentquery.FirstSlicePoint(10)
	require.NoError(t, err)

	totals := sqlengine.Tuple(sqlengine.CountAll("books"))

	// act
	page, err := fluentquery.PageOf(context.Background(), engine, nil, nil, totals, point)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements())
	assert.Equal(t, int64(1), page.TotalPages())
	assert.False(t, page.HasNext())
	require.Equal(t, 1, page.Len())
	assert.Equal(t, []any{int64(sqliteBookCount)}, page.Content()[0].Values())
}

//nolint:funlen
func Test_SQLite_SubQuery_Predicates(t *testing.T) {
	// setup
	db, engine := givenSQLiteBooksDB(t)

	_, err := db.Exec(`CREATE TABLE loans (book_id INTEGER NOT NULL, reader TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO loans (book_id, reader) VALUES (2, 'r-1'), (5, 'r-1'), (5, 'r-2'), (11, 'r-2')`)
	require.NoError(t, err)

	var notLoaned []int64
	for id := int64(1); id <= sqliteBookCount; id++ {
		if id != 2 && id != 5 && id != 11 {
			notLoaned = append(notLoaned, id)
		}
	}

	testCases := []struct {
		name     string
		where    sqlengine.Predicate
		expected []int64
	}{
		{
			name:     "exists correlated",
			where:    sqlengine.Exists(loanedTo("r-1")),
			expected: []int64{2, 5},
		},
		{
			name:     "not exists correlated",
			where:    sqlengine.NotExists(loanedTo("")),
			expected: notLoaned,
		},
		{
			name:     "in subquery",
			where:    sqlengine.InSubQuery("id", sqlengine.From("loans").Matching(sqlengine.Eq("reader", "r-2")), "book_id"),
			expected: []int64{5, 11},
		},
		{
			name:     "absent inner filter",
			where:    sqlengine.Exists(sqlengine.From("loans").Matching(sqlengine.EqIfSet("reader", ""))).And(sqlengine.Lte("id", 3)),
			expected: []int64{1, 2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			records, listErr := engine.List(context.Background(), tc.where, nil)

			// assert
			require.NoError(t, listErr)
			assert.Equal(t, tc.expected, idsOf(records))
		})
	}
}
