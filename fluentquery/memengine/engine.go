package memengine

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

const (
	logMsgCountCompleted = "memengine operation: count completed"
	logMsgFetchCompleted = "memengine operation: fetch completed"
	logMsgQueryFailed    = "memengine query failed"
	logAttrError         = "error"
	logAttrScanned       = "scanned"
	logAttrTotal         = "total"
	logAttrRowCount      = "row_count"
	logAttrDurationMS    = "duration_ms"
)

var ErrNilCollection = errors.New("nil collection supplied")

// Engine is a fluentquery.Backend evaluating queries against a Collection.
// Every statement works on a snapshot of the collection taken when it starts.
type Engine struct {
	collection       *Collection
	logger           fluentquery.Logger
	contextualLogger fluentquery.ContextualLogger
}

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the Engine. It receives one Info record per statement
// and an Error record for each failed statement.
func WithLogger(logger fluentquery.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
func WithContextualLogger(logger fluentquery.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// NewEngine creates an Engine over collection.
func NewEngine(collection *Collection, options ...Option) (*Engine, error) {
	if collection == nil {
		return nil, ErrNilCollection
	}

	e := &Engine{collection: collection}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// QueryEngine returns a fluentquery.Engine backed by e.
func (e *Engine) QueryEngine() *QueryEngine {
	engine, _ := fluentquery.NewEngine[*Query, Expr, Document](e) // e is never nil here

	return engine
}

// ExecuteCount counts the rows the fetch would return without paging.
func (e *Engine) ExecuteCount(ctx context.Context, fetch Fetch) (int64, error) {
	start := time.Now()

	rows, scanned, err := e.evaluate(ctx, fetch, false)
	if err != nil {
		e.logErrorAll(ctx, err)
		return 0, err
	}

	total := int64(len(rows))
	e.logOperationAll(ctx, logMsgCountCompleted,
		logAttrScanned, scanned, logAttrTotal, total, logAttrDurationMS, toMilliseconds(time.Since(start)))

	return total, nil
}

// ExecuteFetch returns at most limit rows starting at offset. A limit of 0 means unbounded.
func (e *Engine) ExecuteFetch(
	ctx context.Context,
	fetch Fetch,
	offset int64,
	limit int,
) ([]fluentquery.Row[Document], error) {

	start := time.Now()

	rows, scanned, err := e.evaluate(ctx, fetch, true)
	if err != nil {
		e.logErrorAll(ctx, err)
		return nil, err
	}

	rows = window(rows, offset, limit)

	result := make([]fluentquery.Row[Document], len(rows))
	for i, r := range rows {
		result[i] = fluentquery.Row[Document]{Record: cloneDocument(r.record), Values: cloneValues(r.values)}
	}

	e.logOperationAll(ctx, logMsgFetchCompleted,
		logAttrScanned, scanned, logAttrRowCount, len(result), logAttrDurationMS, toMilliseconds(time.Since(start)))

	return result, nil
}

// row is one result row before paging. For whole-document fetches values is nil.
type row struct {
	record   Document
	values   []any
	sortKeys []any
}

// evaluate filters, projects and, if sorted is set, orders a snapshot of the collection.
func (e *Engine) evaluate(ctx context.Context, fetch Fetch, sorted bool) ([]row, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(fluentquery.ErrBackendExecutionFailed, err)
	}

	q := NewQuery(e.collection.IdentityField())
	docs := e.collection.snapshot()

	matched, err := filter(q, fetch, docs)
	if err != nil {
		return nil, len(docs), errors.Join(fluentquery.ErrBackendExecutionFailed, err)
	}

	var rows []row
	if fetch.Kind == fluentquery.IdentityProjection {
		rows = make([]row, len(matched))
		for i, doc := range matched {
			rows[i] = row{record: doc}
		}
	} else {
		rows, err = project(q, fetch, matched)
		if err != nil {
			return nil, len(docs), errors.Join(fluentquery.ErrBackendExecutionFailed, err)
		}
	}

	if sorted {
		if err = sortRows(q, fetch.Sort, rows); err != nil {
			return nil, len(docs), errors.Join(fluentquery.ErrBackendExecutionFailed, err)
		}
	}

	return rows, len(docs), nil
}

func filter(q *Query, fetch Fetch, docs []Document) ([]Document, error) {
	where, ok := fetch.Where.Apply(q)
	if !ok {
		return docs, nil
	}

	matched := make([]Document, 0, len(docs))
	for _, doc := range docs {
		v, err := where.Eval(doc)
		if err != nil {
			return nil, err
		}

		if isTrue(v) {
			matched = append(matched, doc)
		}
	}

	return matched, nil
}

// sortRows orders rows by the sort keys, keeping the incoming order for ties.
func sortRows(q *Query, sort Sort, rows []row) error {
	keys := sort.Apply(q)
	if len(keys) == 0 {
		return nil
	}

	for i := range rows {
		rows[i].sortKeys = make([]any, len(keys))
		for k, key := range keys {
			v, err := key.Expr.Eval(rows[i].record)
			if err != nil {
				return err
			}

			rows[i].sortKeys[k] = v
		}
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		for k, key := range keys {
			c := compareValues(a.sortKeys[k], b.sortKeys[k])
			if c == 0 {
				continue
			}

			if key.Direction == fluentquery.Desc {
				return -c
			}

			return c
		}

		return 0
	})

	return nil
}

func window(rows []row, offset int64, limit int) []row {
	if offset >= int64(len(rows)) {
		return nil
	}

	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return rows
}

func (e *Engine) logOperationAll(ctx context.Context, message string, args ...any) {
	if e.logger != nil {
		e.logger.Info(message, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, message, args...)
	}
}

func (e *Engine) logErrorAll(ctx context.Context, err error) {
	if e.logger != nil {
		e.logger.Error(logMsgQueryFailed, logAttrError, err.Error())
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, logMsgQueryFailed, logAttrError, err.Error())
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds.
func toMilliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
