package fluentquery

import "context"

// Row is one result row of a backend fetch.
// Identity projections fill Record, tuple and constructed projections fill Values
// in selector order.
type Row[R any] struct {
	Record R
	Values []any
}

// Fetch is the backend-neutral description of a fetch query.
type Fetch[Q Context[X], X any] struct {
	Where     PredicateSpec[Q, X]
	Sort      SortSpec[Q, X]
	Kind      ProjectionKind
	Selectors []Selector[Q, X]
	Grouping  []func(q Q) X
	Distinct  bool
}

// Backend translates query descriptions into executed queries.
//
// ExecuteCount counts the results the fetch would return without any paging.
// Implementations ignore fetch.Sort when counting.
//
// ExecuteFetch returns at most limit results starting at offset, in the order of fetch.Sort.
// A limit of 0 means unbounded.
//
// Both must create a fresh Context for every call.
type Backend[Q Context[X], X any, R any] interface {
	ExecuteCount(ctx context.Context, fetch Fetch[Q, X]) (int64, error)
	ExecuteFetch(ctx context.Context, fetch Fetch[Q, X], offset int64, limit int) ([]Row[R], error)
}

func newFetch[Q Context[X], X any, R any, U any](
	where PredicateSpec[Q, X],
	sort SortSpec[Q, X],
	projection Projection[Q, X, R, U],
) Fetch[Q, X] {

	if projection.kind == IdentityProjection {
		sort = sort.Then(identityOrder[Q, X]())
	}

	return Fetch[Q, X]{
		Where:     where,
		Sort:      sort,
		Kind:      projection.kind,
		Selectors: projection.selectors,
		Grouping:  projection.grouping,
		Distinct:  projection.distinct,
	}
}

// countOnly strips the sort, a count never needs one.
func (f Fetch[Q, X]) countOnly() Fetch[Q, X] {
	f.Sort = nil
	return f
}
