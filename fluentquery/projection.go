package fluentquery

// ProjectionKind tags the shape of a Projection.
type ProjectionKind int

const (
	// IdentityProjection returns whole records.
	IdentityProjection ProjectionKind = iota + 1

	// TupleProjection returns a Tuple of independently selected expressions.
	TupleProjection

	// ConstructedProjection maps selected expressions positionally onto a constructor.
	ConstructedProjection
)

// String provides a string representation of ProjectionKind for logging and debugging.
func (k ProjectionKind) String() string {
	switch k {
	case IdentityProjection:
		return "identity"
	case TupleProjection:
		return "tuple"
	case ConstructedProjection:
		return "constructed"
	default:
		return "unknown"
	}
}

// Selector is one named expression of a tuple or constructed projection.
type Selector[Q Context[X], X any] struct {
	Alias string
	Expr  func(q Q) X
}

// As creates a Selector.
func As[Q Context[X], X any](alias string, expr func(q Q) X) Selector[Q, X] {
	return Selector[Q, X]{Alias: alias, Expr: expr}
}

// Projection describes what a query returns: whole records of type R, or values
// computed from selectors and decoded into U.
//
// The zero value is invalid, use Identity, TupleOf or Construct.
type Projection[Q Context[X], X any, R any, U any] struct {
	kind      ProjectionKind
	selectors []Selector[Q, X]
	grouping  []func(q Q) X
	distinct  bool
	decode    func(row Row[R]) (U, error)
}

// Identity projects whole records.
func Identity[Q Context[X], X any, R any]() Projection[Q, X, R, R] {
	return Projection[Q, X, R, R]{
		kind: IdentityProjection,
		decode: func(row Row[R]) (R, error) {
			return row.Record, nil
		},
	}
}

// TupleOf projects the given selectors into a Tuple.
func TupleOf[Q Context[X], X any, R any](selectors ...Selector[Q, X]) Projection[Q, X, R, Tuple] {
	names := make([]string, len(selectors))
	for i, s := range selectors {
		names[i] = s.Alias
	}

	return Projection[Q, X, R, Tuple]{
		kind:      TupleProjection,
		selectors: append([]Selector[Q, X](nil), selectors...),
		decode: func(row Row[R]) (Tuple, error) {
			return NewTuple(names, row.Values), nil
		},
	}
}

// Construct projects the given selectors positionally into ctor.
func Construct[Q Context[X], X any, R any, U any](
	ctor func(values []any) (U, error),
	selectors ...Selector[Q, X],
) Projection[Q, X, R, U] {

	return Projection[Q, X, R, U]{
		kind:      ConstructedProjection,
		selectors: append([]Selector[Q, X](nil), selectors...),
		decode: func(row Row[R]) (U, error) {
			return ctor(row.Values)
		},
	}
}

// Distinct returns a copy of the projection that eliminates duplicate results.
func (p Projection[Q, X, R, U]) Distinct() Projection[Q, X, R, U] {
	p.distinct = true
	return p
}

// GroupBy returns a copy of the projection grouped by the given expressions.
// Grouping only applies to tuple and constructed projections.
func (p Projection[Q, X, R, U]) GroupBy(exprs ...func(q Q) X) Projection[Q, X, R, U] {
	grouping := make([]func(q Q) X, 0, len(p.grouping)+len(exprs))
	grouping = append(grouping, p.grouping...)
	p.grouping = append(grouping, exprs...)

	return p
}

// Kind returns the projection's shape.
func (p Projection[Q, X, R, U]) Kind() ProjectionKind {
	return p.kind
}

// IsDistinct reports whether duplicate results are eliminated.
func (p Projection[Q, X, R, U]) IsDistinct() bool {
	return p.distinct
}

func (p Projection[Q, X, R, U]) valid() bool {
	if p.decode == nil {
		return false
	}

	switch p.kind {
	case IdentityProjection:
		return true
	case TupleProjection, ConstructedProjection:
		return len(p.selectors) > 0
	default:
		return false
	}
}

func (p Projection[Q, X, R, U]) decodeRows(rows []Row[R]) ([]U, error) {
	result := make([]U, 0, len(rows))
	for _, row := range rows {
		value, err := p.decode(row)
		if err != nil {
			return nil, err
		}

		result = append(result, value)
	}

	return result, nil
}

// Tuple is a positional list of values, addressable by alias.
type Tuple struct {
	names  []string
	values []any
}

// NewTuple creates a Tuple. Missing values are nil, surplus values are dropped.
func NewTuple(names []string, values []any) Tuple {
	t := Tuple{
		names:  append([]string(nil), names...),
		values: make([]any, len(names)),
	}
	copy(t.values, values)

	return t
}

// Len returns the number of values.
func (t Tuple) Len() int {
	return len(t.values)
}

// Names returns the aliases in selection order.
func (t Tuple) Names() []string {
	return append([]string(nil), t.names...)
}

// Values returns the values in selection order.
func (t Tuple) Values() []any {
	return append([]any(nil), t.values...)
}

// Value returns the value at position i, or nil if i is out of range.
func (t Tuple) Value(i int) any {
	if i < 0 || i >= len(t.values) {
		return nil
	}

	return t.values[i]
}

// Get returns the value selected under alias.
func (t Tuple) Get(alias string) (any, bool) {
	for i, name := range t.names {
		if name == alias {
			return t.values[i], true
		}
	}

	return nil, false
}
