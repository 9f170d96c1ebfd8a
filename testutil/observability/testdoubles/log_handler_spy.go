package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which helps when debugging tests.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdout,
	}
}

// Handle implements slog.Handler.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// RecordCount returns the number of captured records.
func (s *LogHandlerSpy) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// CountAtLevel returns the number of captured records at level.
func (s *LogHandlerSpy) CountAtLevel(level slog.Level) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Level == level {
			count++
		}
	}

	return count
}

// Reset clears all captured records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// LogRecordMatcher checks the attributes of the first record matching a level and message.
type LogRecordMatcher struct {
	attrs map[string]slog.Value
	found bool
}

// HasLog starts a fluent chain on the first record with level and message.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) *LogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level != level || record.Message != message {
			continue
		}

		attrs := make(map[string]slog.Value)
		record.Attrs(func(attr slog.Attr) bool {
			attrs[attr.Key] = attr.Value
			return true
		})

		return &LogRecordMatcher{attrs: attrs, found: true}
	}

	return &LogRecordMatcher{found: false}
}

// WithAttr requires the attribute key to be present.
func (m *LogRecordMatcher) WithAttr(key string) *LogRecordMatcher {
	if !m.found {
		return m
	}

	if _, ok := m.attrs[key]; !ok {
		m.found = false
	}

	return m
}

// WithNonNegative requires the attribute key to hold a non-negative number.
func (m *LogRecordMatcher) WithNonNegative(key string) *LogRecordMatcher {
	if !m.found {
		return m
	}

	value, ok := m.attrs[key]
	if !ok {
		m.found = false
		return m
	}

	switch value.Kind() {
	case slog.KindInt64:
		m.found = value.Int64() >= 0
	case slog.KindUint64:
		m.found = true
	case slog.KindFloat64:
		m.found = value.Float64() >= 0
	default:
		m.found = false
	}

	return m
}

// WithValue requires the attribute key to render as value.
func (m *LogRecordMatcher) WithValue(key, value string) *LogRecordMatcher {
	if !m.found {
		return m
	}

	if attr, ok := m.attrs[key]; !ok || attr.String() != value {
		m.found = false
	}

	return m
}

// Assert returns true if all conditions in the chain were met.
func (m *LogRecordMatcher) Assert() bool {
	return m.found
}
