package fluentquery

import "context"

// ConsistencyLevel defines the read consistency requirements for backend operations.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database.
	// This is the default when nothing is set on the context.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from replica databases, trading consistency
	// for a reduced load on the primary database.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "fluentquery.consistency_level"

// WithStrongConsistency returns a context that signals backends to read from the primary database.
//
// Example usage:
//
//	ctx = fluentquery.WithStrongConsistency(ctx)
//	total, err := engine.Count(ctx, where)
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that signals backends they may read from a replica.
//
// Paged streams issue many independent reads, so a stream created with such a context
// may observe a replica that lags behind between two pages.
//
// Example usage:
//
//	ctx = fluentquery.WithEventualConsistency(ctx)
//	page, err := engine.Page(ctx, where, sort, point)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// If no consistency level is set, it returns StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
