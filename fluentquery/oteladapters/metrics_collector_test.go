package oteladapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %q was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// setup
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "fetch", "status": "success"}

	// act
	collector.RecordDuration("fluentquery_query_duration_seconds", 150*time.Millisecond, labels)
	collector.RecordDurationContext(context.Background(), "fluentquery_query_duration_seconds", 50*time.Millisecond, labels)

	// assert
	m := findMetric(t, collect(t, reader), "fluentquery_query_duration_seconds")
	assert.Equal(t, "s", m.Unit)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(2), dataPoint.Count)
	assert.InDelta(t, 0.2, dataPoint.Sum, 0.001)

	expectedAttrs := attribute.NewSet(
		attribute.String("operation", "fetch"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "count", "error_type": "database_query"}

	// act
	collector.IncrementCounter("fluentquery_database_errors_total", labels)
	collector.IncrementCounter("fluentquery_database_errors_total", labels)
	collector.IncrementCounterContext(context.Background(), "fluentquery_database_errors_total", labels)

	// assert
	m := findMetric(t, collect(t, reader), "fluentquery_database_errors_total")

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// setup
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "fetch"}

	// act
	collector.RecordValue("fluentquery_rows_fetched", 20, labels)
	collector.RecordValueContext(context.Background(), "fluentquery_rows_fetched", 7, labels)

	// assert
	m := findMetric(t, collect(t, reader), "fluentquery_rows_fetched")

	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "expected a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_SeparatesLabelSets(t *testing.T) {
	// setup
	collector, reader := givenMetricsCollector()

	// act
	collector.IncrementCounter("fluentquery_database_errors_total", map[string]string{"operation": "count"})
	collector.IncrementCounter("fluentquery_database_errors_total", map[string]string{"operation": "fetch"})
	collector.IncrementCounter("fluentquery_database_errors_total", nil)

	// assert
	m := findMetric(t, collect(t, reader), "fluentquery_database_errors_total")

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 3)
}
