package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrVariableNotFound = fmt.Errorf("%w: variable", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("%w: session", ErrNotFound)

	ErrUnknownAxis        = errors.New("unknown axis")
	ErrShapeMismatch      = errors.New("variable has the wrong shape for this analysis")
	ErrLengthMismatch     = errors.New("paired sequences differ in length")
	ErrEmptyInput         = errors.New("empty input")
	ErrZeroVariance       = errors.New("zero variance")
	ErrInvalidObservation = errors.New("non-finite observation")
)

// NewVariableNotFoundError annotates ErrVariableNotFound with the key
func NewVariableNotFoundError(key VariableKey) error {
	return fmt.Errorf("%w: %s", ErrVariableNotFound, key)
}

// NewShapeError reports that key resolved to got when want was required
func NewShapeError(key VariableKey, want, got string) error {
	return fmt.Errorf("%w: %s is %s, need %s", ErrShapeMismatch, key, got, want)
}

// NewLengthError reports mismatched pair lengths
func NewLengthError(nx, ny int) error {
	return fmt.Errorf("%w: x has %d values, y has %d", ErrLengthMismatch, nx, ny)
}

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInputError reports whether err was caused by unusable analysis input
func IsInputError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidObservation) ||
		errors.Is(err, ErrUnknownAxis)
}
