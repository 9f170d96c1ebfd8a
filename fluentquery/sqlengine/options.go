package sqlengine

import (
	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithTableName sets the queried table name.
func WithTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return fluentquery.ErrEmptyTableNameSupplied
		}

		e.tableName = tableName

		return nil
	}
}

// WithIdentityColumns sets the columns that uniquely identify a row.
// Whole-record queries are ordered by them after the caller's sort keys.
func WithIdentityColumns(columns ...string) Option {
	return func(e *Engine) error {
		if len(columns) == 0 {
			return ErrEmptyIdentityColumns
		}

		for _, column := range columns {
			if column == "" {
				return ErrEmptyIdentityColumns
			}
		}

		e.identityColumns = append([]string(nil), columns...)

		return nil
	}
}

// WithDialect sets the goqu dialect used to render statements, "postgres" or "sqlite3".
func WithDialect(dialect string) Option {
	return func(e *Engine) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
			e.dialect = dialect
			return nil
		default:
			return ErrUnsupportedDialect
		}
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Row counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Failures that cause an operation to fail.
func WithLogger(logger fluentquery.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives count and fetch durations, fetched row counts and database errors.
func WithMetrics(collector fluentquery.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// It receives one span per count or fetch statement.
func WithTracing(collector fluentquery.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// It receives the same messages as the Logger, correlated with the active trace when tracing is enabled.
func WithContextualLogger(logger fluentquery.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}
