// Package testdoubles provides spies for the fluentquery observability interfaces.
//
//   - LogHandlerSpy: a slog.Handler capturing records, usable as Logger and ContextualLogger via slog.New
//   - MetricsCollectorSpy: captures duration, counter and value calls, with and without context
//   - TracingCollectorSpy: captures started and finished spans
//
// They let backend tests assert on instrumentation without a telemetry backend.
package testdoubles
