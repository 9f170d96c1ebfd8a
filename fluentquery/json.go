package fluentquery

import (
	jsoniter "github.com/json-iterator/go"
)

// jsonAPI keeps full float precision, which ConfigFastest does not.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type slicePointJSON struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

type sliceJSON[T any] struct {
	Content     []T  `json:"content"`
	Number      int  `json:"number"`
	Size        int  `json:"size"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type pageJSON[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int64 `json:"totalPages"`
}

// MarshalJSON encodes the point as {"number":n,"size":s}.
func (p SlicePoint) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(slicePointJSON{Number: p.number, Size: p.size})
}

// UnmarshalJSON decodes {"number":n,"size":s}. Missing fields fall back to the default point.
func (p *SlicePoint) UnmarshalJSON(data []byte) error {
	decoded := slicePointJSON{Number: 0, Size: DefaultSliceSize}
	if err := jsonAPI.Unmarshal(data, &decoded); err != nil {
		return err
	}

	point, err := NewSlicePoint(decoded.Number, decoded.Size)
	if err != nil {
		return err
	}

	*p = point

	return nil
}

func (s Slice[T]) toJSON() sliceJSON[T] {
	content := s.content
	if content == nil {
		content = []T{}
	}

	return sliceJSON[T]{
		Content:     content,
		Number:      s.point.number,
		Size:        s.point.size,
		HasNext:     s.hasNext,
		HasPrevious: s.HasPrevious(),
	}
}

// MarshalJSON encodes the slice with its content and navigation flags.
func (s Slice[T]) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(s.toJSON())
}

// MarshalJSON encodes the page like a Slice plus totalElements and totalPages.
func (p Page[T]) MarshalJSON() ([]byte, error) {
	s := p.Slice.toJSON()

	return jsonAPI.Marshal(pageJSON[T]{
		Content:       s.Content,
		Number:        s.Number,
		Size:          s.Size,
		HasNext:       s.HasNext,
		HasPrevious:   s.HasPrevious,
		TotalElements: p.totalElements,
		TotalPages:    p.TotalPages(),
	})
}

// MarshalJSON encodes the tuple as an object keyed by alias.
func (t Tuple) MarshalJSON() ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, name := range t.names {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(name)
		stream.WriteVal(t.values[i])
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	return append([]byte(nil), stream.Buffer()...), nil
}
