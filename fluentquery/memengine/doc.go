// Package memengine implements fluentquery.Backend over an in-memory document Collection.
//
// Documents are JSON-like maps. They are normalized on insert, so numbers are float64 and
// nested values are maps and slices, and kept in a btree ordered by their identity field.
// Missing identities are assigned time-ordered UUIDv7 strings.
//
// Specs are written against *Query with Expr values:
//
//	inPrint := memengine.Eq("status", "in print").And(memengine.Gte("year", 1980))
//	legacy := memengine.Match(map[string]any{"tags": map[string]any{"$in": []any{"classic"}}})
//	sort := memengine.Desc("year").Then(memengine.Asc("title"))
//
// Aggregates (Count, Sum, Min, Max) reduce groups of documents in grouped Tuple or Construct
// projections. Sort keys of those projections are evaluated against the projected row, keyed
// by selector alias.
package memengine
