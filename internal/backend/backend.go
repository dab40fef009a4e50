package backend

import (
	"context"
	"errors"
)

var (
	// ErrBackendUnavailable reports that a simulator cannot be constructed,
	// either because its name is unknown or its runtime is missing.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrExecution reports that the factoring routine itself failed.
	ErrExecution = errors.New("backend execution failed")
)

// RunOptions controls a single factoring run on a backend.
type RunOptions struct {
	Number        int
	Shots         int
	Validate      bool
	Seed          int64
	RawOutputFile string
}

// RunResult holds the factor candidates reported by the library.
// Each candidate is one list of factors; the list is empty when the
// algorithm did not converge.
type RunResult struct {
	Candidates [][]int
}

// Backend defines the interface for simulated execution targets.
type Backend interface {
	CheckInstalled() error
	Simulator() string
	Run(ctx context.Context, opts RunOptions) (RunResult, error)
}
