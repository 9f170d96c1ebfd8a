// Package adapters provide database adapter implementations for the SQL query engine.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent read functionality
// through a common DBAdapter interface, so the engine works with any supported
// connection type and any database/sql driver.
package adapters
