package memengine

import (
	"reflect"
	"strings"
)

// typeRank orders values of different types: null, bool, number, string, everything else.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

// compareValues orders two normalized values. Values of different types order by typeRank,
// arrays and objects of the same rank compare by their JSON encoding.
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}

	switch x := a.(type) {
	case nil:
		return 0
	case bool:
		y, _ := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case float64:
		y, _ := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case string:
		y, _ := b.(string)
		return strings.Compare(x, y)
	default:
		if reflect.DeepEqual(a, b) {
			return 0
		}

		ka, _ := jsonAPI.MarshalToString(a)
		kb, _ := jsonAPI.MarshalToString(b)

		return strings.Compare(ka, kb)
	}
}

func equalValues(a, b any) bool {
	return compareValues(a, b) == 0
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
