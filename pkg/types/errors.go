package types

import "errors"

// Value and trace encoding errors
var (
	// ErrNonFiniteNumber is returned when a NaN or infinite number is encoded as JSON
	ErrNonFiniteNumber = errors.New("non-finite number cannot be encoded")

	// ErrInvalidScalar is returned when a JSON value is not a number, string or null
	ErrInvalidScalar = errors.New("value must be a number, string or null")

	// ErrInvalidTrace is returned when a trace expression matches none of the known shapes
	ErrInvalidTrace = errors.New("invalid trace expression")
)
