package compose

import "errors"

var (
	// ErrInvalidRequest indicates parameters for which no composition exists.
	ErrInvalidRequest = errors.New("compose: invalid request")
	// ErrSamplingTimeout indicates the attempt budget or the context ran out
	// before an exact composition was found.
	ErrSamplingTimeout = errors.New("compose: sampling timeout")
)
