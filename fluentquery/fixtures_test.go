package fluentquery_test

import (
	"context"
	"strings"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

// textQuery renders conditions and sort expressions as strings.
type textQuery struct{}

func (textQuery) And(lhs, rhs string) string { return "(" + lhs + " AND " + rhs + ")" }
func (textQuery) Or(lhs, rhs string) string  { return "(" + lhs + " OR " + rhs + ")" }
func (textQuery) Not(x string) string        { return "NOT " + x }
func (textQuery) Identity() []string         { return []string{"id"} }

type (
	predicate = fluentquery.PredicateSpec[textQuery, string]
	sorting   = fluentquery.SortSpec[textQuery, string]
)

func cond(text string) predicate {
	return fluentquery.Where(func(textQuery) string { return text })
}

func absent() predicate {
	return func(textQuery) (string, bool) { return "", false }
}

func asc(expr string) sorting {
	return fluentquery.SortAsc(func(textQuery) string { return expr })
}

func desc(expr string) sorting {
	return fluentquery.SortDesc(func(textQuery) string { return expr })
}

func render(p predicate) (string, bool) {
	return p.Apply(textQuery{})
}

func renderSort(s sorting) string {
	keys := s.Apply(textQuery{})
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.Expr+" "+strings.ToUpper(k.Direction.String()))
	}

	return strings.Join(parts, ", ")
}

type fetchCall struct {
	where    string
	hasWhere bool
	sort     string
	kind     fluentquery.ProjectionKind
	offset   int64
	limit    int
}

// recordingBackend serves the records 0..n-1 in order and records every call.
type recordingBackend struct {
	records  []int
	counts   int
	fetches  []fetchCall
	countErr error
	fetchErr error
}

func newRecordingBackend(n int) *recordingBackend {
	records := make([]int, n)
	for i := range records {
		records[i] = i
	}

	return &recordingBackend{records: records}
}

func (b *recordingBackend) ExecuteCount(_ context.Context, fetch fluentquery.Fetch[textQuery, string]) (int64, error) {
	b.counts++
	if fetch.Sort != nil {
		panic("count received a sort")
	}

	if b.countErr != nil {
		return 0, b.countErr
	}

	return int64(len(b.records)), nil
}

func (b *recordingBackend) ExecuteFetch(
	_ context.Context,
	fetch fluentquery.Fetch[textQuery, string],
	offset int64,
	limit int,
) ([]fluentquery.Row[int], error) {

	where, hasWhere := fetch.Where.Apply(textQuery{})
	b.fetches = append(b.fetches, fetchCall{
		where:    where,
		hasWhere: hasWhere,
		sort:     renderSort(fetch.Sort),
		kind:     fetch.Kind,
		offset:   offset,
		limit:    limit,
	})

	if b.fetchErr != nil {
		return nil, b.fetchErr
	}

	start := min(int(offset), len(b.records))
	end := len(b.records)
	if limit > 0 {
		end = min(start+limit, end)
	}

	rows := make([]fluentquery.Row[int], 0, end-start)
	for _, record := range b.records[start:end] {
		row := fluentquery.Row[int]{Record: record}
		if fetch.Kind != fluentquery.IdentityProjection {
			row.Values = []any{record, record * 10}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func newEngine(backend *recordingBackend) *fluentquery.Engine[textQuery, string, int] {
	engine, err := fluentquery.NewEngine[textQuery, string, int](backend)
	if err != nil {
		panic(err)
	}

	return engine
}

func point(number, size int) fluentquery.SlicePoint {
	p, err := fluentquery.NewSlicePoint(number, size)
	if err != nil {
		panic(err)
	}

	return p
}

func sequence(from, to int) []int {
	result := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		result = append(result, i)
	}

	return result
}
