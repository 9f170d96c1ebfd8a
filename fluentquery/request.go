package fluentquery

import "context"

// Request bundles a predicate, a sort and a SlicePoint, for example one decoded
// from an incoming list request. Absent parts fall back to no filter, no sort and
// the default point.
type Request[Q Context[X], X any] struct {
	where PredicateSpec[Q, X]
	sort  SortSpec[Q, X]
	point SlicePoint
}

// NewRequest creates a Request at the default point.
func NewRequest[Q Context[X], X any](where PredicateSpec[Q, X], sort SortSpec[Q, X]) Request[Q, X] {
	return Request[Q, X]{where: where, sort: sort, point: DefaultSlicePoint()}
}

// Where returns the request predicate.
func (r Request[Q, X]) Where() PredicateSpec[Q, X] {
	return r.where
}

// Sort returns the request sort.
func (r Request[Q, X]) Sort() SortSpec[Q, X] {
	return r.sort
}

// Point returns the request SlicePoint, or the default point for a zero Request.
func (r Request[Q, X]) Point() SlicePoint {
	if !r.point.IsValid() {
		return DefaultSlicePoint()
	}

	return r.point
}

// WithWhere returns a copy with the given predicate.
func (r Request[Q, X]) WithWhere(where PredicateSpec[Q, X]) Request[Q, X] {
	r.where = where
	return r
}

// WithSort returns a copy with the given sort.
func (r Request[Q, X]) WithSort(sort SortSpec[Q, X]) Request[Q, X] {
	r.sort = sort
	return r
}

// WithPoint returns a copy at the given point.
func (r Request[Q, X]) WithPoint(point SlicePoint) Request[Q, X] {
	r.point = point
	return r
}

// Next returns a copy at the following point.
func (r Request[Q, X]) Next() Request[Q, X] {
	r.point = r.Point().Next()
	return r
}

// SliceOfRequest returns the window of matching records described by the request.
func SliceOfRequest[Q Context[X], X any, R any](
	ctx context.Context,
	e *Engine[Q, X, R],
	request Request[Q, X],
) (Slice[R], error) {

	return e.Slice(ctx, request.where, request.sort, request.Point())
}

// PageOfRequest returns the page of matching records described by the request.
func PageOfRequest[Q Context[X], X any, R any](
	ctx context.Context,
	e *Engine[Q, X, R],
	request Request[Q, X],
) (Page[R], error) {

	return e.Page(ctx, request.where, request.sort, request.Point())
}
