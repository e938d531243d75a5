package payback

import "errors"

// Every failure returned by the engine wraps exactly one of these.
var (
	// ErrInvalidGeometry is returned for a plot with a non-positive spacing.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrInvalidInput covers malformed lengths, missing or non-numeric fields
	// and out-of-range values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLengthMismatch reports a derived series with an unexpected length.
	ErrLengthMismatch = errors.New("length mismatch")
)
