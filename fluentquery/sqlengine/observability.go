package sqlengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

const (
	logMsgBuildQueryFailed = "failed to build query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgCountCompleted   = "count completed"
	logMsgFetchCompleted   = "fetch completed"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "sqlengine operation: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrTotal           = "total"
	logAttrRowCount        = "row_count"
	logAttrDurationMS      = "duration_ms"
	logActionCount         = "count"
	logActionFetch         = "fetch"

	operationCount = "count"
	operationFetch = "fetch"

	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeRowScan       = "row_scan"

	metricQueryDuration  = "fluentquery_query_duration_seconds"
	metricRowsFetched    = "fluentquery_rows_fetched"
	metricDatabaseErrors = "fluentquery_database_errors_total"

	spanNameCount = "fluentquery.count"
	spanNameFetch = "fluentquery.fetch"

	spanAttrOperation  = "operation"
	spanAttrTable      = "table"
	spanAttrErrorType  = "error_type"
	spanAttrRowCount   = "row_count"
	spanAttrDurationMS = "duration_ms"

	labelStatus   = "status"
	statusSuccess = "success"
	statusError   = "error"
)

// operationObserver encapsulates metrics and tracing for one count or fetch statement.
type operationObserver struct {
	e         *Engine
	ctx       context.Context
	span      fluentquery.SpanContext
	operation string
	start     time.Time
}

// startObservation starts the span (if tracing is configured) and the duration clock.
func (e *Engine) startObservation(ctx context.Context, operation string) (*operationObserver, context.Context) {
	spanName := spanNameFetch
	if operation == operationCount {
		spanName = spanNameCount
	}

	var span fluentquery.SpanContext
	if e.tracingCollector != nil {
		ctx, span = e.tracingCollector.StartSpan(ctx, spanName, map[string]string{
			spanAttrOperation: operation,
			spanAttrTable:     e.tableName,
		})
	}

	return &operationObserver{e: e, ctx: ctx, span: span, operation: operation, start: time.Now()}, ctx
}

func (o *operationObserver) elapsed() time.Duration {
	return time.Since(o.start)
}

// finishSuccess records duration and row count and closes the span.
func (o *operationObserver) finishSuccess(rowCount int64) {
	duration := o.elapsed()

	o.e.recordDuration(o.ctx, duration, o.operation, statusSuccess)
	if o.operation == operationFetch {
		o.e.recordValue(o.ctx, metricRowsFetched, float64(rowCount), o.operation, statusSuccess)
	}

	if o.span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrRowCount:   strconv.FormatInt(rowCount, 10),
		spanAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64),
	}
	o.e.tracingCollector.FinishSpan(o.span, statusSuccess, attrs)
}

// finishError records duration and the error counter and closes the span.
func (o *operationObserver) finishError(errorType string) {
	duration := o.elapsed()

	o.e.recordDuration(o.ctx, duration, o.operation, statusError)
	o.e.recordError(o.ctx, o.operation, errorType)

	if o.span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64),
	}
	o.e.tracingCollector.FinishSpan(o.span, statusError, attrs)
}

// recordDuration records the statement duration, with context if the collector supports it.
func (e *Engine) recordDuration(ctx context.Context, duration time.Duration, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if contextualCollector, ok := e.metricsCollector.(fluentquery.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricQueryDuration, duration, labels)
	} else {
		e.metricsCollector.RecordDuration(metricQueryDuration, duration, labels)
	}
}

// recordValue records a value metric, with context if the collector supports it.
func (e *Engine) recordValue(ctx context.Context, metric string, value float64, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if contextualCollector, ok := e.metricsCollector.(fluentquery.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
	} else {
		e.metricsCollector.RecordValue(metric, value, labels)
	}
}

// recordError increments the database error counter, with context if the collector supports it.
func (e *Engine) recordError(ctx context.Context, operation, errorType string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := e.metricsCollector.(fluentquery.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
	} else {
		e.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// logQueryWithDurationAll logs SQL statements with execution time at debug level to all configured loggers.
func (e *Engine) logQueryWithDurationAll(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperationAll logs operational information at info level to all configured loggers.
func (e *Engine) logOperationAll(ctx context.Context, action string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logErrorAll logs error information at error level to all configured loggers.
func (e *Engine) logErrorAll(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
