package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery/sqlengine/internal/adapters"
)

const (
	// DialectPostgres renders PostgreSQL statements. It is the default.
	DialectPostgres = "postgres"

	// DialectSQLite renders SQLite statements.
	DialectSQLite = "sqlite3"

	defaultTableName      = "records"
	defaultIdentityColumn = "id"
	aliasCounted          = "counted"
)

var ErrEmptyIdentityColumns = errors.New("empty identity columns supplied")
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrUnorderableExpression = errors.New("sort expression can not be ordered")
var ErrScanningRowFailed = errors.New("scanning db row failed")

// Engine is a fluentquery.Backend that renders queries with goqu and runs them on a SQL database.
// It only reads, it never writes to the table.
type Engine struct {
	db               adapters.DBAdapter
	tableName        string
	identityColumns  []string
	dialect          string
	logger           fluentquery.Logger
	metricsCollector fluentquery.MetricsCollector
	tracingCollector fluentquery.TracingCollector
	contextualLogger fluentquery.ContextualLogger
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, fluentquery.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options...)
}

// NewEngineFromPGXPoolWithReplica creates a new Engine using a pgx Pool for the primary
// and one for a replica. Reads go to the replica when the context carries
// fluentquery.EventualConsistency.
func NewEngineFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Engine, error) {
	if db == nil || replica == nil {
		return nil, fluentquery.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
// Combine it with WithDialect for databases other than PostgreSQL.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, fluentquery.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, fluentquery.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (*Engine, error) {
	e := &Engine{
		db:              db,
		tableName:       defaultTableName,
		identityColumns: []string{defaultIdentityColumn},
		dialect:         DialectPostgres,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// QueryEngine returns a fluentquery.Engine backed by e.
func (e *Engine) QueryEngine() *QueryEngine {
	engine, _ := fluentquery.NewEngine[*Query, exp.Expression, Record](e) // e is never nil here

	return engine
}

// ExecuteCount counts the rows the fetch would return without paging.
func (e *Engine) ExecuteCount(ctx context.Context, fetch Fetch) (int64, error) {
	observer, ctx := e.startObservation(ctx, operationCount)

	sqlQuery, buildErr := e.buildCountQuery(fetch)
	if buildErr != nil {
		e.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		observer.finishError(errorTypeBuildQuery)

		return 0, buildErr
	}

	rows, queryErr := e.executeQuery(ctx, sqlQuery, logActionCount)
	if queryErr != nil {
		observer.finishError(errorTypeDatabaseQuery)
		return 0, queryErr
	}
	defer e.closeRows(ctx, rows)

	var total int64
	if rows.Next() {
		if scanErr := rows.Scan(&total); scanErr != nil {
			e.logErrorAll(ctx, logMsgScanRowFailed, scanErr)
			observer.finishError(errorTypeRowScan)

			return 0, errors.Join(fluentquery.ErrBackendExecutionFailed, ErrScanningRowFailed, scanErr)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logErrorAll(ctx, logMsgDBQueryFailed, iterErr)
		observer.finishError(errorTypeDatabaseQuery)

		return 0, errors.Join(fluentquery.ErrBackendExecutionFailed, iterErr)
	}

	observer.finishSuccess(total)
	e.logOperationAll(ctx, logMsgCountCompleted, logAttrTotal, total, logAttrDurationMS, toMilliseconds(observer.elapsed()))

	return total, nil
}

// ExecuteFetch returns at most limit rows starting at offset. A limit of 0 means unbounded.
func (e *Engine) ExecuteFetch(
	ctx context.Context,
	fetch Fetch,
	offset int64,
	limit int,
) ([]fluentquery.Row[Record], error) {

	observer, ctx := e.startObservation(ctx, operationFetch)

	sqlQuery, buildErr := e.buildFetchQuery(fetch, offset, limit)
	if buildErr != nil {
		e.logErrorAll(ctx, logMsgBuildQueryFailed, buildErr)
		observer.finishError(errorTypeBuildQuery)

		return nil, buildErr
	}

	rows, queryErr := e.executeQuery(ctx, sqlQuery, logActionFetch)
	if queryErr != nil {
		observer.finishError(errorTypeDatabaseQuery)
		return nil, queryErr
	}
	defer e.closeRows(ctx, rows)

	result, scanErr := e.scanRows(ctx, rows)
	if scanErr != nil {
		observer.finishError(errorTypeRowScan)
		return nil, scanErr
	}

	observer.finishSuccess(int64(len(result)))
	e.logOperationAll(ctx, logMsgFetchCompleted, logAttrRowCount, len(result), logAttrDurationMS, toMilliseconds(observer.elapsed()))

	return result, nil
}

// executeQuery executes the SQL query and logs it with its timing.
func (e *Engine) executeQuery(ctx context.Context, sqlQuery string, action string) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDurationAll(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		e.logErrorAll(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(fluentquery.ErrBackendExecutionFailed, queryErr)
	}

	return rows, nil
}

// closeRows safely closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if e.logger != nil {
			e.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}

		if e.contextualLogger != nil {
			e.contextualLogger.WarnContext(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// scanRows reads every row into a Record plus its positional values.
func (e *Engine) scanRows(ctx context.Context, rows adapters.DBRows) ([]fluentquery.Row[Record], error) {
	columns, columnsErr := rows.Columns()
	if columnsErr != nil {
		e.logErrorAll(ctx, logMsgScanRowFailed, columnsErr)
		return nil, errors.Join(fluentquery.ErrBackendExecutionFailed, ErrScanningRowFailed, columnsErr)
	}

	result := make([]fluentquery.Row[Record], 0)

	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if scanErr := rows.Scan(dest...); scanErr != nil {
			e.logErrorAll(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(fluentquery.ErrBackendExecutionFailed, ErrScanningRowFailed, scanErr)
		}

		record := make(Record, len(columns))
		for i, column := range columns {
			values[i] = normalizeValue(values[i])
			record[column] = values[i]
		}

		result = append(result, fluentquery.Row[Record]{Record: record, Values: values})
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logErrorAll(ctx, logMsgDBQueryFailed, iterErr)
		return nil, errors.Join(fluentquery.ErrBackendExecutionFailed, iterErr)
	}

	return result, nil
}

// normalizeValue turns driver byte slices into strings, so records compare and encode as text.
func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}

	return value
}
