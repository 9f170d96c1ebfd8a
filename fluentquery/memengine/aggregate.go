package memengine

// Aggregate is an Expr that reduces a group of documents to one value.
// Evaluated against a single document it reduces a group of one.
type Aggregate interface {
	Expr
	Reduce(group []Document) (any, error)
}

type reducer func(group []Document) (any, error)

type aggregate struct {
	reduce reducer
}

func (a aggregate) Eval(doc Document) (any, error) {
	return a.reduce([]Document{doc})
}

func (a aggregate) Reduce(group []Document) (any, error) {
	return a.reduce(group)
}

// Count counts the documents of the group.
func Count() Aggregate {
	return aggregate{reduce: func(group []Document) (any, error) {
		return float64(len(group)), nil
	}}
}

// Sum adds the numeric values of field. It is nil when the group has none.
func Sum(field string) Aggregate {
	x := Field(field)

	return aggregate{reduce: func(group []Document) (any, error) {
		var sum float64
		found := false

		for _, doc := range group {
			v, err := x.Eval(doc)
			if err != nil {
				return nil, err
			}

			if f, ok := v.(float64); ok {
				sum += f
				found = true
			}
		}

		if !found {
			return nil, nil
		}

		return sum, nil
	}}
}

// Min is the smallest non-nil value of field.
func Min(field string) Aggregate {
	return extreme(field, func(c int) bool { return c < 0 })
}

// Max is the largest non-nil value of field.
func Max(field string) Aggregate {
	return extreme(field, func(c int) bool { return c > 0 })
}

func extreme(field string, better func(c int) bool) Aggregate {
	x := Field(field)

	return aggregate{reduce: func(group []Document) (any, error) {
		var result any

		for _, doc := range group {
			v, err := x.Eval(doc)
			if err != nil {
				return nil, err
			}

			if v == nil {
				continue
			}

			if result == nil || better(compareValues(v, result)) {
				result = v
			}
		}

		return result, nil
	}}
}
