package fluentquery

import (
	"context"
)

// Engine executes read queries against a Backend and shapes the results into
// lists, single results, slices, pages and paged streams.
//
// The engine holds no mutable state. It never logs, retries or swallows errors,
// backend errors are returned unchanged.
type Engine[Q Context[X], X any, R any] struct {
	backend Backend[Q, X, R]
}

// NewEngine creates an Engine for the given backend.
func NewEngine[Q Context[X], X any, R any](backend Backend[Q, X, R]) (*Engine[Q, X, R], error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	return &Engine[Q, X, R]{backend: backend}, nil
}

// Count returns the number of records matching where.
func (e *Engine[Q, X, R]) Count(ctx context.Context, where PredicateSpec[Q, X]) (int64, error) {
	return e.backend.ExecuteCount(ctx, Fetch[Q, X]{Where: where, Kind: IdentityProjection})
}

// List returns all matching records, ordered by sort and then by identity.
func (e *Engine[Q, X, R]) List(ctx context.Context, where PredicateSpec[Q, X], sort SortSpec[Q, X]) ([]R, error) {
	return List(ctx, e, where, sort, Identity[Q, X, R]())
}

// Single returns the only matching record.
func (e *Engine[Q, X, R]) Single(ctx context.Context, where PredicateSpec[Q, X]) (R, error) {
	return Single(ctx, e, where, nil, Identity[Q, X, R]())
}

// OptionalSingle returns the only matching record, if any.
func (e *Engine[Q, X, R]) OptionalSingle(ctx context.Context, where PredicateSpec[Q, X]) (R, bool, error) {
	return OptionalSingle(ctx, e, where, nil, Identity[Q, X, R]())
}

// Slice returns the window of matching records at point.
func (e *Engine[Q, X, R]) Slice(
	ctx context.Context,
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	point SlicePoint,
) (Slice[R], error) {

	return SliceOf(ctx, e, where, sort, Identity[Q, X, R](), point)
}

// Page returns the window of matching records at point together with the total.
func (e *Engine[Q, X, R]) Page(
	ctx context.Context,
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	point SlicePoint,
) (Page[R], error) {

	return PageOf(ctx, e, where, sort, Identity[Q, X, R](), point)
}

// Stream returns a lazy PagedStream over all matching records.
func (e *Engine[Q, X, R]) Stream(
	ctx context.Context,
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	pageSize int,
	mode StreamMode,
) (*PagedStream[R], error) {

	return Stream(ctx, e, where, sort, Identity[Q, X, R](), pageSize, mode)
}

// List returns all projected results. For identity projections the identity
// expressions are appended to the sort in ascending order.
func List[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
) ([]U, error) {

	if !projection.valid() {
		return nil, ErrInvalidProjection
	}

	rows, err := e.backend.ExecuteFetch(ctx, newFetch(where, sort, projection), 0, 0)
	if err != nil {
		return nil, err
	}

	return projection.decodeRows(rows)
}

// Single returns the only projected result.
// It fails with ErrNoResult when nothing matches and ErrTooManyResults when more than one result matches.
func Single[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
) (U, error) {

	result, found, err := OptionalSingle(ctx, e, where, sort, projection)
	if err != nil {
		return result, err
	}

	if !found {
		return result, ErrNoResult
	}

	return result, nil
}

// OptionalSingle returns the only projected result, if any.
// It fails with ErrTooManyResults when more than one result matches, it never truncates.
func OptionalSingle[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
) (U, bool, error) {

	var empty U

	if !projection.valid() {
		return empty, false, ErrInvalidProjection
	}

	rows, err := e.backend.ExecuteFetch(ctx, newFetch(where, sort, projection), 0, 2)
	if err != nil {
		return empty, false, err
	}

	if len(rows) == 0 {
		return empty, false, nil
	}

	if len(rows) > 1 {
		return empty, false, ErrTooManyResults
	}

	result, err := projection.decode(rows[0])
	if err != nil {
		return empty, false, err
	}

	return result, true, nil
}

// SliceOf returns the projected window at point.
// It fetches one result more than the point's size to learn whether a following window exists.
func SliceOf[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
	point SlicePoint,
) (Slice[U], error) {

	if !point.IsValid() {
		return Slice[U]{}, ErrInvalidSlicePoint
	}

	if !projection.valid() {
		return Slice[U]{}, ErrInvalidProjection
	}

	rows, err := e.backend.ExecuteFetch(ctx, newFetch(where, sort, projection), point.Offset(), point.Size()+1)
	if err != nil {
		return Slice[U]{}, err
	}

	hasNext := len(rows) > point.Size()
	if hasNext {
		rows = rows[:point.Size()]
	}

	content, err := projection.decodeRows(rows)
	if err != nil {
		return Slice[U]{}, err
	}

	return Slice[U]{content: content, point: point, hasNext: hasNext}, nil
}

// PageOf returns the projected window at point together with the total.
// The total is counted first. When the offset is at or beyond it the fetch is skipped
// and an empty page is returned.
func PageOf[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
	point SlicePoint,
) (Page[U], error) {

	if !point.IsValid() {
		return Page[U]{}, ErrInvalidSlicePoint
	}

	if !projection.valid() {
		return Page[U]{}, ErrInvalidProjection
	}

	fetch := newFetch(where, sort, projection)

	total, err := e.backend.ExecuteCount(ctx, fetch.countOnly())
	if err != nil {
		return Page[U]{}, err
	}

	if total <= point.Offset() {
		return NewPage[U](nil, point, total), nil
	}

	content, err := fetchPageContent(ctx, e, fetch, projection, point)
	if err != nil {
		return Page[U]{}, err
	}

	return NewPage(content, point, total), nil
}

// fetchPageContent fetches exactly one window of point.Size() results.
func fetchPageContent[Q Context[X], X any, R any, U any](
	ctx context.Context,
	e *Engine[Q, X, R],
	fetch Fetch[Q, X],
	projection Projection[Q, X, R, U],
	point SlicePoint,
) ([]U, error) {

	rows, err := e.backend.ExecuteFetch(ctx, fetch, point.Offset(), point.Size())
	if err != nil {
		return nil, err
	}

	return projection.decodeRows(rows)
}
