// Package sqlengine implements fluentquery.Backend for SQL databases.
//
// Statements are rendered with goqu, for PostgreSQL by default or for SQLite with
// WithDialect(DialectSQLite), and executed through one of the supported connection types:
// pgxpool.Pool (optionally with a read replica), sql.DB or sqlx.DB.
//
// Specs are written against *Query, the per-statement Context. The helpers in this package
// cover the common cases:
//
//	byAuthor := sqlengine.EqIfSet("author", author) // absent for ""
//	recent := sqlengine.Gte("year", 2000)
//	sort := sqlengine.Desc("year").Then(sqlengine.Asc("title"))
//
//	engine := sqlEngine.QueryEngine()
//	point, _ := fluentquery.FirstSlicePoint(20)
//	page, err := engine.Page(ctx, byAuthor.And(recent), sort, point)
//
// Whole-record queries return Record values and are ordered by the identity columns
// (WithIdentityColumns, default "id") after the caller's sort keys. Tuple and Construct
// projections select arbitrary expressions, optionally DISTINCT or grouped with Columns.
//
// Observability is opt-in via WithLogger, WithContextualLogger, WithMetrics and WithTracing.
package sqlengine
