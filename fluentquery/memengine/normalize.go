package memengine

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is one stored document and the Record type of the engine.
type Document = map[string]any

// normalizeDocument round-trips doc through JSON.
func normalizeDocument(doc Document) (Document, error) {
	data, err := jsonAPI.Marshal(doc)
	if err != nil {
		return nil, err
	}

	normalized := make(Document, len(doc))
	if err = jsonAPI.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}

	if normalized == nil {
		normalized = make(Document)
	}

	return normalized, nil
}

// normalizeValue gives v the shape it would have inside a normalized document.
// Values that can not be encoded are kept as they are.
func normalizeValue(v any) any {
	switch v.(type) {
	case nil, string, bool, float64:
		return v
	}

	data, err := jsonAPI.Marshal(v)
	if err != nil {
		return v
	}

	var normalized any
	if err = jsonAPI.Unmarshal(data, &normalized); err != nil {
		return v
	}

	return normalized
}

// encodeKey renders values as a comparable key for grouping and distinct.
func encodeKey(values []any) (string, error) {
	return jsonAPI.MarshalToString(values)
}

// cloneValue deep-copies maps and slices of a normalized value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneDocument(t)
	case []any:
		return cloneValues(t)
	default:
		return v
	}
}

func cloneDocument(doc Document) Document {
	c := make(Document, len(doc))
	for k, v := range doc {
		c[k] = cloneValue(v)
	}

	return c
}

func cloneValues(values []any) []any {
	if values == nil {
		return nil
	}

	c := make([]any, len(values))
	for i, v := range values {
		c[i] = cloneValue(v)
	}

	return c
}
