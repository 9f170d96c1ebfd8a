package fluentquery

// PredicateSpec builds an optional condition against a query Context.
//
// A nil PredicateSpec, or one that returns false, is absent: composing with it
// yields the other side unchanged, which lets callers chain optional filters
// without branching on which inputs were supplied.
type PredicateSpec[Q Context[X], X any] func(q Q) (X, bool)

// Where lifts an always-present condition into a PredicateSpec.
func Where[Q Context[X], X any](condition func(q Q) X) PredicateSpec[Q, X] {
	if condition == nil {
		return nil
	}

	return func(q Q) (X, bool) {
		return condition(q), true
	}
}

// Apply evaluates the predicate. The boolean is false when the predicate is absent.
func (p PredicateSpec[Q, X]) Apply(q Q) (X, bool) {
	if p == nil {
		var zero X
		return zero, false
	}

	return p(q)
}

// And returns the conjunction of p and other, eliding an absent side.
func (p PredicateSpec[Q, X]) And(other PredicateSpec[Q, X]) PredicateSpec[Q, X] {
	return p.compose(other, func(q Q) func(lhs, rhs X) X {
		return func(lhs, rhs X) X { return q.And(lhs, rhs) }
	})
}

// Or returns the disjunction of p and other, eliding an absent side.
func (p PredicateSpec[Q, X]) Or(other PredicateSpec[Q, X]) PredicateSpec[Q, X] {
	return p.compose(other, func(q Q) func(lhs, rhs X) X {
		return func(lhs, rhs X) X { return q.Or(lhs, rhs) }
	})
}

// Not returns the negation of p. The negation of an absent predicate is absent.
func (p PredicateSpec[Q, X]) Not() PredicateSpec[Q, X] {
	return Not(p)
}

func (p PredicateSpec[Q, X]) compose(
	other PredicateSpec[Q, X],
	op func(q Q) func(lhs, rhs X) X,
) PredicateSpec[Q, X] {

	if p == nil {
		return other
	}

	if other == nil {
		return p
	}

	return func(q Q) (X, bool) {
		lhs, lhsOK := p(q)
		rhs, rhsOK := other(q)

		return combine(lhs, lhsOK, rhs, rhsOK, op(q))
	}
}

// Not returns the negation of p. The negation of an absent predicate is absent.
func Not[Q Context[X], X any](p PredicateSpec[Q, X]) PredicateSpec[Q, X] {
	if p == nil {
		return nil
	}

	return func(q Q) (X, bool) {
		x, ok := p(q)
		if !ok {
			return x, false
		}

		return q.Not(x), true
	}
}

// AllOf folds the predicates with And. Absent predicates are skipped.
func AllOf[Q Context[X], X any](predicates ...PredicateSpec[Q, X]) PredicateSpec[Q, X] {
	var result PredicateSpec[Q, X]
	for _, p := range predicates {
		result = result.And(p)
	}

	return result
}

// AnyOf folds the predicates with Or. Absent predicates are skipped.
func AnyOf[Q Context[X], X any](predicates ...PredicateSpec[Q, X]) PredicateSpec[Q, X] {
	var result PredicateSpec[Q, X]
	for _, p := range predicates {
		result = result.Or(p)
	}

	return result
}
