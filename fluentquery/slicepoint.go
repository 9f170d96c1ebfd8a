package fluentquery

// SlicePoint identifies one window of a result set by zero-based number and size.
type SlicePoint struct {
	number int
	size   int
}

// NewSlicePoint creates a SlicePoint. The number must be >= 0 and the size > 0.
func NewSlicePoint(number, size int) (SlicePoint, error) {
	if number < 0 || size <= 0 {
		return SlicePoint{}, ErrInvalidSlicePoint
	}

	return SlicePoint{number: number, size: size}, nil
}

// DefaultSlicePoint returns the first window of DefaultSliceSize.
func DefaultSlicePoint() SlicePoint {
	return SlicePoint{number: 0, size: DefaultSliceSize}
}

// FirstSlicePoint returns the first window of the given size.
func FirstSlicePoint(size int) (SlicePoint, error) {
	return NewSlicePoint(0, size)
}

// Number returns the zero-based window number.
func (p SlicePoint) Number() int {
	return p.number
}

// Size returns the window size.
func (p SlicePoint) Size() int {
	return p.size
}

// Offset returns number * size, computed in 64 bits.
func (p SlicePoint) Offset() int64 {
	return int64(p.number) * int64(p.size)
}

// Next returns the following window of the same size.
func (p SlicePoint) Next() SlicePoint {
	return SlicePoint{number: p.number + 1, size: p.size}
}

// WithNumber returns a copy with the given number.
func (p SlicePoint) WithNumber(number int) (SlicePoint, error) {
	return NewSlicePoint(number, p.size)
}

// WithSize returns a copy with the given size.
func (p SlicePoint) WithSize(size int) (SlicePoint, error) {
	return NewSlicePoint(p.number, size)
}

// IsValid reports whether p was built by one of the constructors rather than being a zero value.
func (p SlicePoint) IsValid() bool {
	return p.number >= 0 && p.size > 0
}

// slicePointAt builds a SlicePoint from already validated parts.
func slicePointAt(number, size int) SlicePoint {
	return SlicePoint{number: number, size: size}
}
