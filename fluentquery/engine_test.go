package fluentquery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

func Test_NewEngine_Rejects_Nil_Backend(t *testing.T) {
	_, err := fluentquery.NewEngine[textQuery, string, int](nil)

	assert.ErrorIs(t, err, fluentquery.ErrNilBackend)
}

func Test_Count_Passes_Where_And_No_Sort(t *testing.T) {
	// arrange
	backend := newRecordingBackend(7)
	engine := newEngine(backend)

	// act
	total, err := engine.Count(context.Background(), cond("a"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Equal(t, 1, backend.counts)
	assert.Empty(t, backend.fetches)
}

func Test_List_Appends_Identity_Order_After_Caller_Sort(t *testing.T) {
	// arrange
	backend := newRecordingBackend(3)
	engine := newEngine(backend)

	// act
	records, err := engine.List(context.Background(), cond("a").And(nil), asc("title"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, records)
	require.Len(t, backend.fetches, 1)
	assert.Equal(t, "a", backend.fetches[0].where)
	assert.Equal(t, "title ASC, id ASC", backend.fetches[0].sort)
	assert.Equal(t, 0, backend.fetches[0].limit)
	assert.Equal(t, int64(0), backend.fetches[0].offset)
}

func Test_List_Without_Where_Or_Sort_Still_Orders_By_Identity(t *testing.T) {
	backend := newRecordingBackend(1)

	_, err := newEngine(backend).List(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.False(t, backend.fetches[0].hasWhere)
	assert.Equal(t, "id ASC", backend.fetches[0].sort)
}

func Test_List_Of_Tuple_Does_Not_Append_Identity(t *testing.T) {
	// arrange
	backend := newRecordingBackend(2)
	engine := newEngine(backend)
	projection := fluentquery.TupleOf[textQuery, string, int](
		fluentquery.As("n", func(textQuery) string { return "n" }),
		fluentquery.As("n10", func(textQuery) string { return "n * 10" }),
	)

	// act
	tuples, err := fluentquery.List(context.Background(), engine, nil, asc("n"), projection)

	// assert
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, "n ASC", backend.fetches[0].sort)
	assert.Equal(t, fluentquery.TupleProjection, backend.fetches[0].kind)
	value, found := tuples[1].Get("n10")
	assert.True(t, found)
	assert.Equal(t, 10, value)
}

func Test_List_Of_Constructed_Projection(t *testing.T) {
	type pair struct{ n, n10 int }

	backend := newRecordingBackend(3)
	projection := fluentquery.Construct[textQuery, string, int](
		func(values []any) (pair, error) { return pair{n: values[0].(int), n10: values[1].(int)}, nil },
		fluentquery.As("n", func(textQuery) string { return "n" }),
		fluentquery.As("n10", func(textQuery) string { return "n * 10" }),
	)

	pairs, err := fluentquery.List(context.Background(), newEngine(backend), nil, nil, projection)

	require.NoError(t, err)
	assert.Equal(t, []pair{{0, 0}, {1, 10}, {2, 20}}, pairs)
}

func Test_List_Propagates_Constructor_Error(t *testing.T) {
	boom := errors.New("boom")
	projection := fluentquery.Construct[textQuery, string, int](
		func([]any) (int, error) { return 0, boom },
		fluentquery.As("n", func(textQuery) string { return "n" }),
	)

	_, err := fluentquery.List(context.Background(), newEngine(newRecordingBackend(1)), nil, nil, projection)

	assert.ErrorIs(t, err, boom)
}

func Test_List_Rejects_Zero_Projection(t *testing.T) {
	var projection fluentquery.Projection[textQuery, string, int, int]

	_, err := fluentquery.List(context.Background(), newEngine(newRecordingBackend(1)), nil, nil, projection)

	assert.ErrorIs(t, err, fluentquery.ErrInvalidProjection)
}

func Test_Slice_Overfetches_By_One(t *testing.T) {
	tests := []struct {
		name            string
		records         int
		point           fluentquery.SlicePoint
		expectedContent []int
		expectedHasNext bool
	}{
		{name: "more_rows_available", records: 25, point: point(1, 10), expectedContent: sequence(10, 19), expectedHasNext: true},
		{name: "exactly_size_rows_left", records: 20, point: point(1, 10), expectedContent: sequence(10, 19), expectedHasNext: false},
		{name: "fewer_rows_left", records: 14, point: point(1, 10), expectedContent: sequence(10, 13), expectedHasNext: false},
		{name: "beyond_the_end", records: 5, point: point(3, 10), expectedContent: []int{}, expectedHasNext: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			backend := newRecordingBackend(tt.records)

			// act
			slice, err := newEngine(backend).Slice(context.Background(), nil, asc("title"), tt.point)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tt.expectedContent, slice.Content())
			assert.Equal(t, tt.expectedHasNext, slice.HasNext())
			assert.Equal(t, tt.point, slice.Point())
			require.Len(t, backend.fetches, 1)
			assert.Equal(t, tt.point.Size()+1, backend.fetches[0].limit)
			assert.Equal(t, tt.point.Offset(), backend.fetches[0].offset)
			assert.Equal(t, 0, backend.counts)
		})
	}
}

func Test_Slice_Rejects_Zero_SlicePoint(t *testing.T) {
	backend := newRecordingBackend(5)

	_, err := newEngine(backend).Slice(context.Background(), nil, nil, fluentquery.SlicePoint{})

	assert.ErrorIs(t, err, fluentquery.ErrInvalidSlicePoint)
	assert.Empty(t, backend.fetches)
}

func Test_Page_Fetches_Exactly_Size_After_Count(t *testing.T) {
	// arrange
	backend := newRecordingBackend(15)

	// act
	page, err := newEngine(backend).Page(context.Background(), cond("a"), desc("year"), point(0, 10))

	// assert
	require.NoError(t, err)
	assert.Equal(t, sequence(0, 9), page.Content())
	assert.Equal(t, int64(15), page.TotalElements())
	assert.Equal(t, int64(2), page.TotalPages())
	assert.True(t, page.HasNext())
	assert.Equal(t, 1, backend.counts)
	require.Len(t, backend.fetches, 1)
	assert.Equal(t, 10, backend.fetches[0].limit)
	assert.Equal(t, "year DESC, id ASC", backend.fetches[0].sort)
}

func Test_Page_ShortCircuits_When_Offset_Reaches_Count(t *testing.T) {
	tests := []struct {
		name    string
		records int
		point   fluentquery.SlicePoint
	}{
		{name: "no_rows_at_all", records: 0, point: fluentquery.DefaultSlicePoint()},
		{name: "offset_equals_count", records: 20, point: point(2, 10)},
		{name: "offset_beyond_count", records: 20, point: point(7, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			backend := newRecordingBackend(tt.records)

			// act
			page, err := newEngine(backend).Page(context.Background(), nil, nil, tt.point)

			// assert
			require.NoError(t, err)
			assert.Empty(t, page.Content())
			assert.Equal(t, int64(tt.records), page.TotalElements())
			assert.False(t, page.HasNext())
			assert.Equal(t, 1, backend.counts, "exactly one count call")
			assert.Empty(t, backend.fetches, "no fetch call")
		})
	}
}

func Test_Page_Of_Empty_Result(t *testing.T) {
	page, err := newEngine(newRecordingBackend(0)).Page(context.Background(), nil, nil, fluentquery.DefaultSlicePoint())

	require.NoError(t, err)
	assert.Empty(t, page.Content())
	assert.Equal(t, int64(0), page.TotalElements())
	assert.Equal(t, int64(0), page.TotalPages())
	assert.False(t, page.HasNext())
}

func Test_Single(t *testing.T) {
	tests := []struct {
		name        string
		records     int
		expectedErr error
	}{
		{name: "exactly_one", records: 1},
		{name: "none", records: 0, expectedErr: fluentquery.ErrNoResult},
		{name: "more_than_one", records: 5, expectedErr: fluentquery.ErrTooManyResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newRecordingBackend(tt.records)

			record, err := newEngine(backend).Single(context.Background(), cond("id = 0"))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 0, record)
			}
			assert.Equal(t, 2, backend.fetches[0].limit)
		})
	}
}

func Test_OptionalSingle(t *testing.T) {
	engine := newEngine(newRecordingBackend(0))

	_, found, err := engine.OptionalSingle(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, found)

	engine = newEngine(newRecordingBackend(1))
	record, found, err := engine.OptionalSingle(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, record)

	engine = newEngine(newRecordingBackend(3))
	_, found, err = engine.OptionalSingle(context.Background(), nil)
	assert.ErrorIs(t, err, fluentquery.ErrTooManyResults)
	assert.False(t, found)
}

func Test_Backend_Errors_Propagate_Unchanged(t *testing.T) {
	boom := errors.New("connection reset")
	ctx := context.Background()

	fetchFailing := newRecordingBackend(10)
	fetchFailing.fetchErr = boom
	countFailing := newRecordingBackend(10)
	countFailing.countErr = boom

	_, listErr := newEngine(fetchFailing).List(ctx, nil, nil)
	_, sliceErr := newEngine(fetchFailing).Slice(ctx, nil, nil, fluentquery.DefaultSlicePoint())
	_, singleErr := newEngine(fetchFailing).Single(ctx, nil)
	_, pageFetchErr := newEngine(fetchFailing).Page(ctx, nil, nil, fluentquery.DefaultSlicePoint())
	_, pageCountErr := newEngine(countFailing).Page(ctx, nil, nil, fluentquery.DefaultSlicePoint())
	_, countErr := newEngine(countFailing).Count(ctx, nil)

	for _, err := range []error{listErr, sliceErr, singleErr, pageFetchErr, pageCountErr, countErr} {
		assert.Same(t, boom, err)
	}
	assert.Empty(t, countFailing.fetches, "a failed count must not be followed by a fetch")
}
