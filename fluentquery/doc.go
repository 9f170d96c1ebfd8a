// Package fluentquery provides a backend-neutral way to build read queries and to
// consume large result sets in page-bounded windows.
//
// Queries are composed from three kinds of specs, all evaluated against a per-query
// Context supplied by the Backend:
//   - PredicateSpec: an optional condition, composable with And, Or and Not
//   - SortSpec: an ordered list of sort keys, composable with Then
//   - Projection: whole records (Identity), a Tuple of selectors, or selectors
//     mapped onto a constructor (Construct), optionally Distinct or grouped
//
// Absent predicates and sorts are elided on composition, so optional filters can be
// chained without branching on which inputs were supplied.
//
// The Engine executes the queries and shapes results into:
//   - List, Single and OptionalSingle
//   - Slice: one window plus a hasNext flag, found by fetching one extra row
//   - Page: one window plus totals, found by counting first
//   - PagedStream: a lazy forward or backward iterator fetching one page at a time
//
// Whole-record queries are always ordered by the backend's identity expressions after
// the caller's sort keys, which keeps paging stable when sort values repeat.
//
// Common usage pattern:
//
//	engine := sqlEngine.QueryEngine()
//
//	byAuthor := sqlengine.EqIfSet("author", author) // absent when author is empty
//	page, err := fluentquery.From(engine).
//		Filter(byAuthor).
//		Sorted(sqlengine.Asc("title")).
//		Page(ctx, fluentquery.DefaultSlicePoint())
//	if err != nil {
//		// handle error
//	}
//
//	stream, _ := engine.Stream(ctx, byAuthor, nil, 100, fluentquery.Backward)
//	for record, err := range stream.All() {
//		// handle record or err
//	}
package fluentquery
