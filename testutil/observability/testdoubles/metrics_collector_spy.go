package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricKind tells which collector method produced a MetricRecord.
type MetricKind string

const (
	DurationMetric MetricKind = "duration"
	CounterMetric  MetricKind = "counter"
	ValueMetric    MetricKind = "value"
)

// MetricRecord is one captured metrics call.
type MetricRecord struct {
	Kind        MetricKind
	Metric      string
	Duration    time.Duration
	Value       float64
	Labels      map[string]string
	WithContext bool
}

// MetricsCollectorSpy implements fluentquery.ContextualMetricsCollector and captures every call.
type MetricsCollectorSpy struct {
	records []MetricRecord
	mu      sync.Mutex
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{records: make([]MetricRecord, 0)}
}

func (s *MetricsCollectorSpy) add(record MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	s.records = append(s.records, record)
}

// RecordDuration implements fluentquery.MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.add(MetricRecord{Kind: DurationMetric, Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter implements fluentquery.MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.add(MetricRecord{Kind: CounterMetric, Metric: metric, Labels: labels})
}

// RecordValue implements fluentquery.MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.add(MetricRecord{Kind: ValueMetric, Metric: metric, Value: value, Labels: labels})
}

// RecordDurationContext implements fluentquery.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordDurationContext(
	_ context.Context,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {

	s.add(MetricRecord{Kind: DurationMetric, Metric: metric, Duration: duration, Labels: labels, WithContext: true})
}

// IncrementCounterContext implements fluentquery.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.add(MetricRecord{Kind: CounterMetric, Metric: metric, Labels: labels, WithContext: true})
}

// RecordValueContext implements fluentquery.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordValueContext(
	_ context.Context,
	metric string,
	value float64,
	labels map[string]string,
) {

	s.add(MetricRecord{Kind: ValueMetric, Metric: metric, Value: value, Labels: labels, WithContext: true})
}

// Records returns a copy of all captured records.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]MetricRecord, len(s.records))
	copy(records, s.records)

	return records
}

// Find returns the captured records of kind for metric whose labels contain all of labels.
func (s *MetricsCollectorSpy) Find(kind MetricKind, metric string, labels map[string]string) []MetricRecord {
	found := make([]MetricRecord, 0)

	for _, record := range s.Records() {
		if record.Kind != kind || record.Metric != metric {
			continue
		}

		if containsLabels(record.Labels, labels) {
			found = append(found, record)
		}
	}

	return found
}

// Reset clears all captured records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

func containsLabels(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}

	return true
}

// PlainMetricsCollectorSpy hides the context-aware methods of a MetricsCollectorSpy,
// so it only satisfies fluentquery.MetricsCollector.
type PlainMetricsCollectorSpy struct {
	spy *MetricsCollectorSpy
}

// NewPlainMetricsCollectorSpy wraps spy.
func NewPlainMetricsCollectorSpy(spy *MetricsCollectorSpy) PlainMetricsCollectorSpy {
	return PlainMetricsCollectorSpy{spy: spy}
}

// RecordDuration implements fluentquery.MetricsCollector.
func (p PlainMetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	p.spy.RecordDuration(metric, duration, labels)
}

// IncrementCounter implements fluentquery.MetricsCollector.
func (p PlainMetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	p.spy.IncrementCounter(metric, labels)
}

// RecordValue implements fluentquery.MetricsCollector.
func (p PlainMetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	p.spy.RecordValue(metric, value, labels)
}
