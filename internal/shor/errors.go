package shor

import "errors"

var (
	// ErrInvalidInput reports a request the library would reject: a number
	// that is not an odd composite greater than 1, or a non-positive shot count.
	ErrInvalidInput = errors.New("invalid input")
	// ErrBackendUnavailable reports that the requested simulator cannot be
	// constructed.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrLibraryExecution reports that the factoring routine raised during a run.
	ErrLibraryExecution = errors.New("library execution failed")
	// ErrUserInterrupt reports that stdin closed during the final gate.
	ErrUserInterrupt = errors.New("input closed")
)
