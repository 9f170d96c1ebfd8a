// Package oteladapters implements the fluentquery observability interfaces with OpenTelemetry.
//
//   - SlogBridgeLogger: fluentquery.ContextualLogger on top of the otelslog bridge, correlating
//     log records with the active span
//   - OTelLogger: fluentquery.ContextualLogger emitting records through the OpenTelemetry log API
//   - MetricsCollector: fluentquery.ContextualMetricsCollector mapping durations to histograms,
//     counters to counters and values to gauges
//   - TracingCollector: fluentquery.TracingCollector starting one span per backend statement
//
// Wiring a SQL engine:
//
//	engine, err := sqlengine.NewEngineFromPGXPool(pool,
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("fluentquery")),
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("fluentquery"))),
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("fluentquery"))),
//	)
package oteladapters
