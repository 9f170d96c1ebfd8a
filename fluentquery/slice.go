package fluentquery

// Slice is one window of a result set that knows whether a following window exists,
// without knowing the total.
type Slice[T any] struct {
	content []T
	point   SlicePoint
	hasNext bool
}

// NewSlice creates a Slice. The content is copied.
func NewSlice[T any](content []T, point SlicePoint, hasNext bool) Slice[T] {
	return Slice[T]{
		content: append(make([]T, 0, len(content)), content...),
		point:   point,
		hasNext: hasNext,
	}
}

// Content returns a copy of the slice content.
func (s Slice[T]) Content() []T {
	return append(make([]T, 0, len(s.content)), s.content...)
}

// Len returns the number of items in the slice.
func (s Slice[T]) Len() int {
	return len(s.content)
}

// HasContent reports whether the slice holds any items.
func (s Slice[T]) HasContent() bool {
	return len(s.content) > 0
}

// HasNext reports whether a following window exists.
func (s Slice[T]) HasNext() bool {
	return s.hasNext
}

// HasPrevious reports whether a preceding window exists.
func (s Slice[T]) HasPrevious() bool {
	return s.point.number > 0
}

// Point returns the SlicePoint this slice was fetched for.
func (s Slice[T]) Point() SlicePoint {
	return s.point
}

// Number returns the window number.
func (s Slice[T]) Number() int {
	return s.point.number
}

// Size returns the requested window size, not the number of items.
func (s Slice[T]) Size() int {
	return s.point.size
}

// MapSlice converts the content of a Slice, keeping its point and hasNext flag.
func MapSlice[T any, V any](s Slice[T], mapper func(T) V) Slice[V] {
	content := make([]V, len(s.content))
	for i, item := range s.content {
		content[i] = mapper(item)
	}

	return Slice[V]{content: content, point: s.point, hasNext: s.hasNext}
}
