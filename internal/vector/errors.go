package vector

import "errors"

var (
	// ErrBadDimension is returned when an index is created with a non-positive dimension.
	ErrBadDimension = errors.New("vector: dimension must be positive")
	// ErrDimensionMismatch is returned when a vector's length does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")
	// ErrEmptyIndex is returned when searching an index that holds no vectors.
	ErrEmptyIndex = errors.New("vector: index is empty")
)
