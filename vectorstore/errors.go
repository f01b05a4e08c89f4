package vectorstore

import "errors"

var (
	// ErrEmptyQuery is returned when a similarity query has no vector.
	ErrEmptyQuery = errors.New("query vector cannot be empty")

	// ErrInvalidTopK is returned when topK is not positive.
	ErrInvalidTopK = errors.New("topK must be greater than zero")
)
