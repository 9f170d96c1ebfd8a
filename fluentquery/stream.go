package fluentquery

import (
	"context"
	"iter"
)

// StreamMode selects the traversal direction of a PagedStream.
type StreamMode int

const (
	// Forward traverses pages from the first to the last, in fetch order.
	Forward StreamMode = iota + 1

	// Backward traverses pages from the last to the first. Items within a page keep their fetch order.
	Backward
)

// String provides a string representation of StreamMode for logging and debugging.
func (m StreamMode) String() string {
	switch m {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// PagedStream lazily iterates a result set one page at a time.
//
// It is created unprimed and fetches nothing until the first call to HasNext.
// HasNext may fetch, Next never does. A PagedStream is not safe for concurrent use.
//
// A backward stream counts the results once, on its first fetch, and derives the
// index of the last page from that snapshot. Rows inserted or deleted while the
// stream is open are not re-validated against it.
type PagedStream[U any] struct {
	ctx          context.Context
	mode         StreamMode
	size         int
	fetchSlice   func(ctx context.Context, point SlicePoint) (Slice[U], error)
	fetchPage    func(ctx context.Context, point SlicePoint) ([]U, error)
	count        func(ctx context.Context) (int64, error)
	beforeRefuel []func()

	buffer  []U
	head    int
	page    int
	primed  bool
	hasMore bool
	err     error
}

// Stream returns a lazy PagedStream over all projected results.
// Every fetch of the stream runs with ctx.
func Stream[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
	pageSize int,
	mode StreamMode,
) (*PagedStream[U], error) {

	if pageSize <= 0 {
		return nil, ErrInvalidSlicePoint
	}

	if mode != Forward && mode != Backward {
		return nil, ErrInvalidStreamMode
	}

	if !projection.valid() {
		return nil, ErrInvalidProjection
	}

	fetch := newFetch(where, sort, projection)

	return &PagedStream[U]{
		ctx:  ctx,
		mode: mode,
		size: pageSize,
		fetchSlice: func(ctx context.Context, point SlicePoint) (Slice[U], error) {
			return SliceOf(ctx, e, where, sort, projection, point)
		},
		fetchPage: func(ctx context.Context, point SlicePoint) ([]U, error) {
			return fetchPageContent(ctx, e, fetch, projection, point)
		},
		count: func(ctx context.Context) (int64, error) {
			return e.backend.ExecuteCount(ctx, fetch.countOnly())
		},
		page:    -1,
		hasMore: true,
	}, nil
}

// BeforeRefuel registers a callback that runs synchronously before every page fetch,
// in registration order. Typical uses are clearing caches or flushing work between pages.
func (s *PagedStream[U]) BeforeRefuel(callback func()) *PagedStream[U] {
	if callback != nil {
		s.beforeRefuel = append(s.beforeRefuel, callback)
	}

	return s
}

// HasNext reports whether another item is available, fetching pages as needed.
// Empty pages are skipped. Once it returns false, or an error, it keeps doing so.
func (s *PagedStream[U]) HasNext() (bool, error) {
	if s.err != nil {
		return false, s.err
	}

	s.primed = true

	for s.buffered() == 0 {
		if !s.hasMore {
			return false, nil
		}

		if err := s.refuel(); err != nil {
			s.err = err
			s.hasMore = false
			s.reset()

			return false, err
		}
	}

	return true, nil
}

// Next returns the next buffered item.
// It fails with ErrIllegalStreamState when called before HasNext or when no item is buffered.
func (s *PagedStream[U]) Next() (U, error) {
	var empty U

	if !s.primed || s.buffered() == 0 {
		return empty, ErrIllegalStreamState
	}

	item := s.buffer[s.head]
	s.buffer[s.head] = empty
	s.head++

	if s.head == len(s.buffer) {
		s.reset()
	}

	return item, nil
}

// All adapts the stream to a range-over-func iterator.
// A fetch error is yielded once with the zero item and ends the iteration.
func (s *PagedStream[U]) All() iter.Seq2[U, error] {
	return func(yield func(U, error) bool) {
		for {
			ok, err := s.HasNext()
			if err != nil {
				var empty U
				yield(empty, err)
				return
			}

			if !ok {
				return
			}

			item, _ := s.Next()
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains the stream into a list.
func (s *PagedStream[U]) Collect() ([]U, error) {
	result := make([]U, 0)
	for item, err := range s.All() {
		if err != nil {
			return nil, err
		}

		result = append(result, item)
	}

	return result, nil
}

// Mode returns the traversal direction.
func (s *PagedStream[U]) Mode() StreamMode {
	return s.mode
}

func (s *PagedStream[U]) buffered() int {
	return len(s.buffer) - s.head
}

func (s *PagedStream[U]) reset() {
	s.buffer = s.buffer[:0]
	s.head = 0
}

func (s *PagedStream[U]) refuel() error {
	for _, callback := range s.beforeRefuel {
		callback()
	}

	if s.mode == Backward {
		return s.refuelBackward()
	}

	return s.refuelForward()
}

func (s *PagedStream[U]) refuelForward() error {
	s.page++

	slice, err := s.fetchSlice(s.ctx, slicePointAt(s.page, s.size))
	if err != nil {
		return err
	}

	s.buffer = append(s.buffer, slice.content...)
	s.hasMore = slice.hasNext

	return nil
}

func (s *PagedStream[U]) refuelBackward() error {
	if s.page < 0 {
		total, err := s.count(s.ctx)
		if err != nil {
			return err
		}

		if total <= 0 {
			s.hasMore = false
			return nil
		}

		s.page = int(total / int64(s.size))
	} else {
		s.page--
	}

	items, err := s.fetchPage(s.ctx, slicePointAt(s.page, s.size))
	if err != nil {
		return err
	}

	s.buffer = append(s.buffer, items...)
	s.hasMore = s.page > 0

	return nil
}
