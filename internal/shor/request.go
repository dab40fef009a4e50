package shor

import (
	"fmt"
	"math/big"
	"strings"
)

// Request describes one factoring run. It is passed by value and never
// modified after construction.
type Request struct {
	Number               int
	Shots                int
	Backend              string
	ValidateBeforeSubmit bool
	Seed                 int64
}

// Validate checks the request before any backend is touched. Primes are
// rejected rather than reported as having no factors.
func (r Request) Validate() error {
	if r.Number <= 1 {
		return fmt.Errorf("%w: number must be greater than 1, got %d", ErrInvalidInput, r.Number)
	}
	if r.Shots < 1 {
		return fmt.Errorf("%w: shots must be at least 1, got %d", ErrInvalidInput, r.Shots)
	}
	if strings.TrimSpace(r.Backend) == "" {
		return fmt.Errorf("%w: backend name is required", ErrInvalidInput)
	}
	if r.Number%2 == 0 {
		return fmt.Errorf("%w: number must be odd, got %d", ErrInvalidInput, r.Number)
	}
	if big.NewInt(int64(r.Number)).ProbablyPrime(20) {
		return fmt.Errorf("%w: %d is prime and has no non-trivial factors", ErrInvalidInput, r.Number)
	}
	return nil
}
