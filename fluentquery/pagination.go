package fluentquery

// DefaultMaxLinks is the number of page links a Pagination shows at most.
const DefaultMaxLinks = 9

// Pagination derives page-link information for rendering a pager from a Slice or a Page.
// Totals are only known when it was built from a Page.
type Pagination struct {
	number        int
	size          int
	contentLen    int
	hasNext       bool
	totalElements int64
	totalKnown    bool
	maxLinks      int
}

// PaginationOfSlice creates a Pagination without totals.
func PaginationOfSlice[T any](s Slice[T]) Pagination {
	return Pagination{
		number:     s.point.number,
		size:       s.point.size,
		contentLen: len(s.content),
		hasNext:    s.hasNext,
		maxLinks:   DefaultMaxLinks,
	}
}

// PaginationOfPage creates a Pagination with totals.
func PaginationOfPage[T any](p Page[T]) Pagination {
	pagination := PaginationOfSlice(p.Slice)
	pagination.totalElements = p.totalElements
	pagination.totalKnown = true

	return pagination
}

// WithMaxLinks returns a copy showing at most maxLinks links. Values < 1 are ignored.
func (p Pagination) WithMaxLinks(maxLinks int) Pagination {
	if maxLinks > 0 {
		p.maxLinks = maxLinks
	}

	return p
}

// MaxLinks returns the maximum number of links.
func (p Pagination) MaxLinks() int {
	return p.maxLinks
}

// CurrentPage returns the zero-based current page number.
func (p Pagination) CurrentPage() int {
	return p.number
}

// FirstPageEnabled reports whether a link to the first page makes sense.
func (p Pagination) FirstPageEnabled() bool {
	return p.number > 0
}

// LastPageEnabled reports whether a link to the last page makes sense. It is false without totals.
func (p Pagination) LastPageEnabled() bool {
	totalPages, known := p.TotalPages()

	return known && totalPages > int64(p.number)+1
}

// PreviousPageEnabled reports whether a preceding page exists.
func (p Pagination) PreviousPageEnabled() bool {
	return p.number > 0
}

// NextPageEnabled reports whether a following page exists.
func (p Pagination) NextPageEnabled() bool {
	return p.hasNext
}

// TotalPages returns the number of pages, if known.
func (p Pagination) TotalPages() (int64, bool) {
	if !p.totalKnown {
		return 0, false
	}

	return totalPages(p.totalElements, p.size), true
}

// TotalElements returns the number of elements, if known.
func (p Pagination) TotalElements() (int64, bool) {
	return p.totalElements, p.totalKnown
}

// StartPage returns the first page number of the link window.
func (p Pagination) StartPage() int {
	totalPages, known := p.TotalPages()
	if !known {
		return max(0, p.number-p.maxLinks)
	}

	start := max(0, p.number-p.maxLinks/2)
	if int64(start+p.maxLinks) > totalPages-1 {
		return int(max(0, totalPages-int64(p.maxLinks)))
	}

	return start
}

// EndPage returns the page number after the last one of the link window.
func (p Pagination) EndPage() int {
	totalPages, known := p.TotalPages()
	if !known {
		return p.number + 1
	}

	return int(min(int64(p.StartPage()+p.maxLinks), totalPages))
}

// Links returns the page numbers of the link window.
func (p Pagination) Links() []int {
	start, end := p.StartPage(), p.EndPage()
	links := make([]int, 0, max(0, end-start))
	for i := start; i < end; i++ {
		links = append(links, i)
	}

	return links
}

// ElementsTop returns the zero-based index of the first element on the current page.
func (p Pagination) ElementsTop() int64 {
	return int64(p.number) * int64(p.size)
}

// ElementsBottom returns the zero-based index of the last element on the current page.
// For an empty page it is ElementsTop() - 1.
func (p Pagination) ElementsBottom() int64 {
	return p.ElementsTop() + int64(p.contentLen) - 1
}
