package fluentquery

import "context"

// Querying is an immutable fluent builder for identity queries against one Engine.
//
// Example usage:
//
//	books, err := fluentquery.From(engine).
//		Filter(byAuthor).
//		Filter(publishedAfter).
//		Sorted(byTitle).
//		Page(ctx, point)
type Querying[Q Context[X], X any, R any] struct {
	engine *Engine[Q, X, R]
	where  PredicateSpec[Q, X]
	sort   SortSpec[Q, X]
}

// From starts a Querying on the given engine.
func From[Q Context[X], X any, R any](engine *Engine[Q, X, R]) Querying[Q, X, R] {
	return Querying[Q, X, R]{engine: engine}
}

// Filter adds a predicate, combined with the existing ones by And.
func (q Querying[Q, X, R]) Filter(where PredicateSpec[Q, X]) Querying[Q, X, R] {
	q.where = q.where.And(where)
	return q
}

// Sorted appends sort keys after the existing ones.
func (q Querying[Q, X, R]) Sorted(sort SortSpec[Q, X]) Querying[Q, X, R] {
	q.sort = q.sort.Then(sort)
	return q
}

// Where returns the combined predicate.
func (q Querying[Q, X, R]) Where() PredicateSpec[Q, X] {
	return q.where
}

// Sort returns the combined sort.
func (q Querying[Q, X, R]) Sort() SortSpec[Q, X] {
	return q.sort
}

// Count returns the number of matching records.
func (q Querying[Q, X, R]) Count(ctx context.Context) (int64, error) {
	return q.engine.Count(ctx, q.where)
}

// List returns all matching records.
func (q Querying[Q, X, R]) List(ctx context.Context) ([]R, error) {
	return q.engine.List(ctx, q.where, q.sort)
}

// Single returns the only matching record.
func (q Querying[Q, X, R]) Single(ctx context.Context) (R, error) {
	return Single(ctx, q.engine, q.where, q.sort, Identity[Q, X, R]())
}

// OptionalSingle returns the only matching record, if any.
func (q Querying[Q, X, R]) OptionalSingle(ctx context.Context) (R, bool, error) {
	return OptionalSingle(ctx, q.engine, q.where, q.sort, Identity[Q, X, R]())
}

// Slice returns the window of matching records at point.
func (q Querying[Q, X, R]) Slice(ctx context.Context, point SlicePoint) (Slice[R], error) {
	return q.engine.Slice(ctx, q.where, q.sort, point)
}

// Page returns the window of matching records at point with the total.
func (q Querying[Q, X, R]) Page(ctx context.Context, point SlicePoint) (Page[R], error) {
	return q.engine.Page(ctx, q.where, q.sort, point)
}

// Stream returns a lazy PagedStream over all matching records.
func (q Querying[Q, X, R]) Stream(ctx context.Context, pageSize int, mode StreamMode) (*PagedStream[R], error) {
	return q.engine.Stream(ctx, q.where, q.sort, pageSize, mode)
}

// Selection is a Querying bound to a projection.
type Selection[Q Context[X], X any, R any, U any] struct {
	querying   Querying[Q, X, R]
	projection Projection[Q, X, R, U]
}

// Select binds a projection to the querying.
func Select[Q Context[X], X any, R any, U any](
	querying Querying[Q, X, R],
	projection Projection[Q, X, R, U],
) Selection[Q, X, R, U] {

	return Selection[Q, X, R, U]{querying: querying, projection: projection}
}

// List returns all projected results.
func (s Selection[Q, X, R, U]) List(ctx context.Context) ([]U, error) {
	return List(ctx, s.querying.engine, s.querying.where, s.querying.sort, s.projection)
}

// Single returns the only projected result.
func (s Selection[Q, X, R, U]) Single(ctx context.Context) (U, error) {
	return Single(ctx, s.querying.engine, s.querying.where, s.querying.sort, s.projection)
}

// OptionalSingle returns the only projected result, if any.
func (s Selection[Q, X, R, U]) OptionalSingle(ctx context.Context) (U, bool, error) {
	return OptionalSingle(ctx, s.querying.engine, s.querying.where, s.querying.sort, s.projection)
}

// Slice returns the projected window at point.
func (s Selection[Q, X, R, U]) Slice(ctx context.Context, point SlicePoint) (Slice[U], error) {
	return SliceOf(ctx, s.querying.engine, s.querying.where, s.querying.sort, s.projection, point)
}

// Page returns the projected window at point with the total.
func (s Selection[Q, X, R, U]) Page(ctx context.Context, point SlicePoint) (Page[U], error) {
	return PageOf(ctx, s.querying.engine, s.querying.where, s.querying.sort, s.projection, point)
}

// Stream returns a lazy PagedStream over all projected results.
func (s Selection[Q, X, R, U]) Stream(ctx context.Context, pageSize int, mode StreamMode) (*PagedStream[U], error) {
	return Stream(ctx, s.querying.engine, s.querying.where, s.querying.sort, s.projection, pageSize, mode)
}
