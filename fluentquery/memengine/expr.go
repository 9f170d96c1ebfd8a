package memengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SierraSoftworks/connor"
)

var ErrEvaluationFailed = errors.New("evaluating expression failed")

// Expr is evaluated against one document.
type Expr interface {
	Eval(doc Document) (any, error)
}

// ExprFunc adapts a function to Expr.
type ExprFunc func(doc Document) (any, error)

// Eval calls f.
func (f ExprFunc) Eval(doc Document) (any, error) {
	return f(doc)
}

type fieldExpr struct {
	path []string
}

// Field reads a value from the document. Dots in name address nested objects.
// Missing fields evaluate to nil.
func Field(name string) Expr {
	return fieldExpr{path: strings.Split(name, ".")}
}

func (f fieldExpr) Eval(doc Document) (any, error) {
	var current any = doc

	for _, key := range f.path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, nil
		}

		current = object[key]
	}

	return current, nil
}

type valueExpr struct {
	value any
}

// Value is a constant. It is normalized like a stored document value, so Value(1987)
// equals a stored 1987.
func Value(v any) Expr {
	return valueExpr{value: normalizeValue(v)}
}

func (v valueExpr) Eval(Document) (any, error) {
	return v.value, nil
}

// Operator is a binary comparison operator.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
)

// String provides a string representation of Operator for logging and debugging.
func (o Operator) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	default:
		return "unknown"
	}
}

// Cmp compares lhs with rhs. Like SQL, a comparison with a missing or null side is false
// for every operator, use Null to match those. Negating such a comparison with Not is true.
func Cmp(lhs Expr, op Operator, rhs Expr) Expr {
	return ExprFunc(func(doc Document) (any, error) {
		a, b, err := evalPair(doc, lhs, rhs)
		if err != nil {
			return nil, err
		}

		if a == nil || b == nil {
			return false, nil
		}

		c := compareValues(a, b)

		switch op {
		case OpEq:
			return c == 0, nil
		case OpNe:
			return c != 0, nil
		case OpGt:
			return c > 0, nil
		case OpGte:
			return c >= 0, nil
		case OpLt:
			return c < 0, nil
		case OpLte:
			return c <= 0, nil
		default:
			return nil, fmt.Errorf("%w: operator %d", ErrEvaluationFailed, op)
		}
	})
}

// OneOf is true when x equals one of values. It is false when x is missing or null.
func OneOf(x Expr, values ...any) Expr {
	normalized := make([]any, len(values))
	for i, v := range values {
		normalized[i] = normalizeValue(v)
	}

	return ExprFunc(func(doc Document) (any, error) {
		v, err := x.Eval(doc)
		if err != nil {
			return nil, err
		}

		if v == nil {
			return false, nil
		}

		for _, candidate := range normalized {
			if equalValues(v, candidate) {
				return true, nil
			}
		}

		return false, nil
	})
}

// Includes is true when x is a string containing the string value, or an array containing value.
func Includes(x Expr, value any) Expr {
	needle := normalizeValue(value)

	return ExprFunc(func(doc Document) (any, error) {
		v, err := x.Eval(doc)
		if err != nil {
			return nil, err
		}

		switch t := v.(type) {
		case string:
			s, ok := needle.(string)
			return ok && strings.Contains(t, s), nil
		case []any:
			for _, item := range t {
				if equalValues(item, needle) {
					return true, nil
				}
			}

			return false, nil
		default:
			return false, nil
		}
	})
}

// Null is true when x evaluates to nil, which includes missing fields.
func Null(x Expr) Expr {
	return ExprFunc(func(doc Document) (any, error) {
		v, err := x.Eval(doc)
		if err != nil {
			return nil, err
		}

		return v == nil, nil
	})
}

// Filter evaluates a MongoDB-style filter document against the document.
func Filter(filter map[string]any) Expr {
	normalized, err := normalizeDocument(filter)

	return ExprFunc(func(doc Document) (any, error) {
		if err != nil {
			return nil, errors.Join(ErrEvaluationFailed, err)
		}

		match, matchErr := connor.Match(normalized, doc)
		if matchErr != nil {
			return nil, errors.Join(ErrEvaluationFailed, matchErr)
		}

		return match, nil
	})
}

func and(lhs, rhs Expr) Expr {
	return ExprFunc(func(doc Document) (any, error) {
		a, err := lhs.Eval(doc)
		if err != nil || !isTrue(a) {
			return false, err
		}

		b, err := rhs.Eval(doc)
		if err != nil {
			return nil, err
		}

		return isTrue(b), nil
	})
}

func or(lhs, rhs Expr) Expr {
	return ExprFunc(func(doc Document) (any, error) {
		a, err := lhs.Eval(doc)
		if err != nil {
			return nil, err
		}

		if isTrue(a) {
			return true, nil
		}

		b, err := rhs.Eval(doc)
		if err != nil {
			return nil, err
		}

		return isTrue(b), nil
	})
}

func not(x Expr) Expr {
	return ExprFunc(func(doc Document) (any, error) {
		v, err := x.Eval(doc)
		if err != nil {
			return nil, err
		}

		return !isTrue(v), nil
	})
}

func evalPair(doc Document, lhs, rhs Expr) (any, any, error) {
	a, err := lhs.Eval(doc)
	if err != nil {
		return nil, nil, err
	}

	b, err := rhs.Eval(doc)
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}
