package services

import (
	"errors"
)

// Error kinds raised by the core services. Handlers translate these into
// user-facing responses; the services never retry or degrade silently.
var (
	// ErrNotFound means a referenced patient, measurement, condition, or
	// symptom does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput covers out-of-bounds ages, malformed dates, and
	// measurements dated before the patient's birth.
	ErrInvalidInput = errors.New("invalid input")

	// ErrComputation marks a degenerate calculation, such as a zero
	// reference standard deviation.
	ErrComputation = errors.New("computation error")
)
