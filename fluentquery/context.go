package fluentquery

// Context is the per-query handle a Backend creates for exactly one query build.
// Every PredicateSpec, SortSpec and Selector of that query receives the same handle.
//
// X is the backend's expression type. Conditions and sort expressions share it.
type Context[X any] interface {
	// And combines two conditions into a conjunction.
	And(lhs, rhs X) X

	// Or combines two conditions into a disjunction.
	Or(lhs, rhs X) X

	// Not negates a condition.
	Not(x X) X

	// Identity returns the expressions uniquely identifying a record, in a stable order.
	Identity() []X
}

// combine merges two optional values with op, eliding any absent side.
func combine[T any](lhs T, lhsOK bool, rhs T, rhsOK bool, op func(lhs, rhs T) T) (T, bool) {
	switch {
	case lhsOK && rhsOK:
		return op(lhs, rhs), true
	case lhsOK:
		return lhs, true
	case rhsOK:
		return rhs, true
	default:
		var zero T
		return zero, false
	}
}
