package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/dynamic-queries-go/fluentquery"
)

// SpySpan implements fluentquery.SpanContext and remembers what was set on it.
type SpySpan struct {
	Name            string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	Status          string
	Finished        bool
	mu              sync.Mutex
}

// SetStatus implements fluentquery.SpanContext.
func (s *SpySpan) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

// AddAttribute implements fluentquery.SpanContext.
func (s *SpySpan) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EndAttributes[key] = value
}

// TracingCollectorSpy implements fluentquery.TracingCollector and captures every span.
type TracingCollectorSpy struct {
	spans []*SpySpan
	mu    sync.Mutex
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{spans: make([]*SpySpan, 0)}
}

// StartSpan implements fluentquery.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, fluentquery.SpanContext) {

	span := &SpySpan{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		EndAttributes:   make(map[string]string),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.spans = append(s.spans, span)

	return ctx, span
}

// FinishSpan implements fluentquery.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx fluentquery.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpan)
	if !ok {
		return
	}

	span.mu.Lock()
	defer span.mu.Unlock()

	span.Status = status
	span.Finished = true
	for k, v := range attrs {
		span.EndAttributes[k] = v
	}
}

// Spans returns the captured spans in start order.
func (s *TracingCollectorSpy) Spans() []*SpySpan {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]*SpySpan, len(s.spans))
	copy(spans, s.spans)

	return spans
}

// SpansNamed returns the captured spans with name.
func (s *TracingCollectorSpy) SpansNamed(name string) []*SpySpan {
	found := make([]*SpySpan, 0)
	for _, span := range s.Spans() {
		if span.Name == name {
			found = append(found, span)
		}
	}

	return found
}
