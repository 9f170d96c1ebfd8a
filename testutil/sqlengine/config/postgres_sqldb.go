package config

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// NewSQLDB opens and pings a *sql.DB on the primary database using lib/pq.
func (s PostgresSettings) NewSQLDB(ctx context.Context) (*sql.DB, error) {
	if !s.Configured() {
		return nil, ErrPostgresNotConfigured
	}

	db, err := sql.Open(driverPostgres, s.DSN)
	if err != nil {
		return nil, err
	}

	s.applyPool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// NewSQLX opens and pings a *sqlx.DB on the primary database using lib/pq.
func (s PostgresSettings) NewSQLX(ctx context.Context) (*sqlx.DB, error) {
	if !s.Configured() {
		return nil, ErrPostgresNotConfigured
	}

	db, err := sqlx.ConnectContext(ctx, driverPostgres, s.DSN)
	if err != nil {
		return nil, err
	}

	s.applyPool(db.DB)

	return db, nil
}

func (s PostgresSettings) applyPool(db *sql.DB) {
	db.SetMaxOpenConns(int(s.MaxConns))
	db.SetMaxIdleConns(int(s.MinConns))
	db.SetConnMaxLifetime(s.MaxConnLifetime)
	db.SetConnMaxIdleTime(s.MaxConnIdleTime)
}

// NewSQLDB opens an in-process SQLite database using modernc.org/sqlite.
// It is limited to one connection, so an in-memory database is shared by all statements.
func (s SQLiteSettings) NewSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverSQLite, s.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}
