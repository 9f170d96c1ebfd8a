package config

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXPoolConfig creates a pgxpool.Config for dsn with the pool settings applied.
func (s PostgresSettings) PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = s.MaxConns
	dbConfig.MinConns = s.MinConns
	dbConfig.MaxConnLifetime = s.MaxConnLifetime
	dbConfig.MaxConnIdleTime = s.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = s.HealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = s.ConnectTimeout

	return dbConfig, nil
}

// NewPGXPool connects a pool to the primary database.
func (s PostgresSettings) NewPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	return s.newPGXPool(ctx, s.DSN)
}

// NewReplicaPGXPool connects a pool to the replica, or to the primary if no replica is set.
func (s PostgresSettings) NewReplicaPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	if s.Replica.DSN == "" {
		return s.newPGXPool(ctx, s.DSN)
	}

	return s.newPGXPool(ctx, s.Replica.DSN)
}

func (s PostgresSettings) newPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrPostgresNotConfigured
	}

	dbConfig, err := s.PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}
