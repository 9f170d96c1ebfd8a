package fluentquery_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

func labels(from, to int) []string {
	result := make([]string, 0, to-from+1)
	for _, i := range sequence(from, to) {
		result = append(result, strconv.Itoa(i))
	}

	return result
}

func Test_Pagination_FirstPage(t *testing.T) {
	p := fluentquery.PaginationOfPage(fluentquery.NewPage(labels(1, 15), fluentquery.DefaultSlicePoint(), 62))

	totalPages, pagesKnown := p.TotalPages()
	totalElements, elementsKnown := p.TotalElements()

	assert.Equal(t, 0, p.CurrentPage())
	assert.False(t, p.FirstPageEnabled())
	assert.True(t, p.LastPageEnabled())
	assert.True(t, pagesKnown)
	assert.Equal(t, int64(5), totalPages)
	assert.Equal(t, 0, p.StartPage())
	assert.Equal(t, 5, p.EndPage())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Links())
	assert.False(t, p.PreviousPageEnabled())
	assert.True(t, p.NextPageEnabled())
	assert.Equal(t, int64(0), p.ElementsTop())
	assert.Equal(t, int64(14), p.ElementsBottom())
	assert.True(t, elementsKnown)
	assert.Equal(t, int64(62), totalElements)
}

func Test_Pagination_LastPage(t *testing.T) {
	p := fluentquery.PaginationOfPage(fluentquery.NewPage(labels(61, 62), point(4, 15), 62))

	totalPages, _ := p.TotalPages()

	assert.Equal(t, 4, p.CurrentPage())
	assert.True(t, p.FirstPageEnabled())
	assert.False(t, p.LastPageEnabled())
	assert.Equal(t, int64(5), totalPages)
	assert.Equal(t, 0, p.StartPage())
	assert.Equal(t, 5, p.EndPage())
	assert.True(t, p.PreviousPageEnabled())
	assert.False(t, p.NextPageEnabled())
	assert.Equal(t, int64(60), p.ElementsTop())
	assert.Equal(t, int64(61), p.ElementsBottom())
}

func Test_Pagination_Window_Slides_With_Current_Page(t *testing.T) {
	p := fluentquery.PaginationOfPage(fluentquery.NewPage(labels(1, 10), point(10, 10), 300))

	assert.Equal(t, 6, p.StartPage())
	assert.Equal(t, 15, p.EndPage())
	assert.Len(t, p.Links(), fluentquery.DefaultMaxLinks)
}

func Test_Pagination_Of_Slice_Has_No_Totals(t *testing.T) {
	p := fluentquery.PaginationOfSlice(fluentquery.NewSlice(labels(1, 5), point(12, 5), true))

	_, pagesKnown := p.TotalPages()
	_, elementsKnown := p.TotalElements()

	assert.False(t, pagesKnown)
	assert.False(t, elementsKnown)
	assert.False(t, p.LastPageEnabled())
	assert.Equal(t, 3, p.StartPage())
	assert.Equal(t, 13, p.EndPage())
	assert.True(t, p.NextPageEnabled())
}

func Test_Pagination_Empty_Page_Bottom_Precedes_Top(t *testing.T) {
	p := fluentquery.PaginationOfPage(fluentquery.NewPage[string](nil, fluentquery.DefaultSlicePoint(), 0))

	assert.Equal(t, int64(0), p.ElementsTop())
	assert.Equal(t, int64(-1), p.ElementsBottom())
	assert.Empty(t, p.Links())
}
