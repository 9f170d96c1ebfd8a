package fluentquery

// Direction is the direction of a single sort key.
type Direction int

const (
	// Asc sorts in ascending order.
	Asc Direction = iota

	// Desc sorts in descending order.
	Desc
)

// String provides a string representation of Direction for logging and debugging.
func (d Direction) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	default:
		return "unknown"
	}
}

// SortKey is one (expression, direction) pair of an ORDER BY list.
type SortKey[X any] struct {
	Expr      X
	Direction Direction
}

// SortSpec builds an ordered list of sort keys against a query Context.
// Earlier keys take precedence. A nil SortSpec, or one returning no keys, is absent.
type SortSpec[Q Context[X], X any] func(q Q) []SortKey[X]

// Apply evaluates the sort. It returns nil when the sort is absent.
func (s SortSpec[Q, X]) Apply(q Q) []SortKey[X] {
	if s == nil {
		return nil
	}

	return s(q)
}

// Then appends the keys of other after the keys of s.
func (s SortSpec[Q, X]) Then(other SortSpec[Q, X]) SortSpec[Q, X] {
	if s == nil {
		return other
	}

	if other == nil {
		return s
	}

	return func(q Q) []SortKey[X] {
		lhs := s(q)
		rhs := other(q)
		keys, _ := combine(lhs, len(lhs) > 0, rhs, len(rhs) > 0, concatKeys[X])

		return keys
	}
}

// SortAsc sorts ascending by the given expression.
func SortAsc[Q Context[X], X any](expr func(q Q) X) SortSpec[Q, X] {
	return sortBy(expr, Asc)
}

// SortDesc sorts descending by the given expression.
func SortDesc[Q Context[X], X any](expr func(q Q) X) SortSpec[Q, X] {
	return sortBy(expr, Desc)
}

// SortBy concatenates the sorts left to right. Absent sorts are dropped.
func SortBy[Q Context[X], X any](sorts ...SortSpec[Q, X]) SortSpec[Q, X] {
	var result SortSpec[Q, X]
	for _, s := range sorts {
		result = result.Then(s)
	}

	return result
}

func sortBy[Q Context[X], X any](expr func(q Q) X, direction Direction) SortSpec[Q, X] {
	if expr == nil {
		return nil
	}

	return func(q Q) []SortKey[X] {
		return []SortKey[X]{{Expr: expr(q), Direction: direction}}
	}
}

// identityOrder sorts ascending by every identity expression of the context.
func identityOrder[Q Context[X], X any]() SortSpec[Q, X] {
	return func(q Q) []SortKey[X] {
		identity := q.Identity()
		keys := make([]SortKey[X], 0, len(identity))
		for _, x := range identity {
			keys = append(keys, SortKey[X]{Expr: x, Direction: Asc})
		}

		return keys
	}
}

func concatKeys[X any](lhs, rhs []SortKey[X]) []SortKey[X] {
	keys := make([]SortKey[X], 0, len(lhs)+len(rhs))
	keys = append(keys, lhs...)

	return append(keys, rhs...)
}
