package fluentquery

// Page is a Slice that also knows the total number of elements.
type Page[T any] struct {
	Slice[T]
	totalElements int64
}

// NewPage creates a Page. The content is copied and hasNext is derived from the total.
func NewPage[T any](content []T, point SlicePoint, totalElements int64) Page[T] {
	hasNext := int64(point.number)+1 < totalPages(totalElements, point.size)

	return Page[T]{
		Slice:         NewSlice(content, point, hasNext),
		totalElements: totalElements,
	}
}

// TotalElements returns the total number of elements across all pages.
func (p Page[T]) TotalElements() int64 {
	return p.totalElements
}

// TotalPages returns ceil(totalElements / size). It is 0 only when there are no elements.
func (p Page[T]) TotalPages() int64 {
	return totalPages(p.totalElements, p.point.size)
}

// MapPage converts the content of a Page, keeping its point and totals.
func MapPage[T any, V any](p Page[T], mapper func(T) V) Page[V] {
	return Page[V]{Slice: MapSlice(p.Slice, mapper), totalElements: p.totalElements}
}

func totalPages(totalElements int64, size int) int64 {
	if totalElements <= 0 || size <= 0 {
		return 0
	}

	s := int64(size)

	return (totalElements + s - 1) / s
}
