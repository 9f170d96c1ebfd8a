package fluentquery

import (
	"errors"
)

var ErrNilBackend = errors.New("nil backend supplied")
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")

var ErrBackendExecutionFailed = errors.New("backend execution failed")
var ErrTooManyResults = errors.New("query returned more than one result")
var ErrNoResult = errors.New("query returned no result")
var ErrInvalidProjection = errors.New("invalid projection, use one of the projection constructors")

var ErrInvalidSlicePoint = errors.New("invalid slice point, number must be >= 0 and size must be > 0")
var ErrIllegalStreamState = errors.New("illegal stream state, call HasNext before Next")
var ErrInvalidStreamMode = errors.New("invalid stream mode")

// DefaultSliceSize is the size of a default SlicePoint.
const DefaultSliceSize = 15
