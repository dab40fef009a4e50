// Package shor runs a single Shor factorisation against a registered
// simulator backend and normalises what the library reports.
package shor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goosewin/shor/internal/backend"
	"github.com/goosewin/shor/internal/logging"
)

// Options bundles a request with the collaborators used to run it.
type Options struct {
	Request Request
	// Backend overrides the registry lookup by Request.Backend.
	Backend    backend.Backend
	Logger     *zap.Logger
	LogDir     string
	RetainDays int
}

// Result is the outcome of one run. Factors is empty when the algorithm
// did not converge.
type Result struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Number     int           `json:"number" yaml:"number"`
	Backend    string        `json:"backend" yaml:"backend"`
	Shots      int           `json:"shots" yaml:"shots"`
	Factors    []int         `json:"factors" yaml:"factors"`
	Candidates [][]int       `json:"candidates" yaml:"candidates"`
	Duration   time.Duration `json:"-" yaml:"-"`
}

// Factor validates the request, submits it to the backend once and returns
// the normalised factor candidates.
func Factor(ctx context.Context, opts Options) (Result, error) {
	req := opts.Request
	result := Result{
		Number:     req.Number,
		Backend:    strings.TrimSpace(req.Backend),
		Shots:      req.Shots,
		Factors:    []int{},
		Candidates: [][]int{},
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := req.Validate(); err != nil {
		return result, err
	}

	instance, err := resolveBackend(opts)
	if err != nil {
		return result, err
	}
	if err := instance.CheckInstalled(); err != nil {
		return result, fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, result.Backend, err)
	}

	result.RunID = uuid.NewString()
	logger = logger.With(zap.String("run_id", result.RunID))

	if opts.LogDir != "" {
		if removed := logging.CleanupOldLogs(opts.LogDir, opts.RetainDays, time.Now()); removed > 0 {
			logger.Debug("Pruned raw logs", zap.Int("removed", removed))
		}
	}
	rawOutput := logging.RawOutputPath(opts.LogDir, result.RunID)

	logger.Info("Submitting factoring run",
		zap.Int("number", req.Number),
		zap.Int("shots", req.Shots),
		zap.String("backend", result.Backend),
		zap.String("simulator", instance.Simulator()),
		zap.Bool("validate", req.ValidateBeforeSubmit))

	start := time.Now()
	run, err := instance.Run(ctx, backend.RunOptions{
		Number:        req.Number,
		Shots:         req.Shots,
		Validate:      req.ValidateBeforeSubmit,
		Seed:          req.Seed,
		RawOutputFile: rawOutput,
	})
	result.Duration = time.Since(start)
	if err != nil {
		logger.Debug("Factoring run failed", zap.Error(err), zap.String("raw_output", rawOutput))
		if errors.Is(err, backend.ErrBackendUnavailable) {
			return result, fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, result.Backend, err)
		}
		return result, fmt.Errorf("%w: %w", ErrLibraryExecution, err)
	}

	result.Candidates = normalizeCandidates(req.Number, run.Candidates, logger)
	if len(result.Candidates) > 0 {
		result.Factors = result.Candidates[0]
	} else {
		logger.Warn("No factors found; try more shots", zap.Int("number", req.Number))
	}

	logger.Info("Factoring run finished",
		zap.Ints("factors", result.Factors),
		zap.Int("candidates", len(result.Candidates)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Product multiplies factors. The product of an empty list is 1.
func Product(factors []int) int {
	product := 1
	for _, factor := range factors {
		product *= factor
	}
	return product
}

func resolveBackend(opts Options) (backend.Backend, error) {
	if opts.Backend != nil {
		return opts.Backend, nil
	}
	name := strings.TrimSpace(opts.Request.Backend)
	if name == "" {
		name = backend.DefaultName()
	}
	instance, err := backend.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return instance, nil
}

// normalizeCandidates sorts and de-duplicates candidates and completes a
// partial one with its cofactor, so every kept candidate multiplies to number.
func normalizeCandidates(number int, candidates [][]int, logger *zap.Logger) [][]int {
	normalized := [][]int{}
	seen := map[string]bool{}
	for _, candidate := range candidates {
		completed, ok := completeCandidate(number, candidate)
		if !ok {
			logger.Warn("Dropping candidate that does not divide the number",
				zap.Int("number", number),
				zap.Ints("candidate", candidate))
			continue
		}
		key := fmt.Sprint(completed)
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, completed)
	}
	return normalized
}

func completeCandidate(number int, candidate []int) ([]int, bool) {
	if len(candidate) == 0 {
		return nil, false
	}
	factors := make([]int, 0, len(candidate)+1)
	product := 1
	for _, factor := range candidate {
		if factor <= 1 || factor >= number || number%factor != 0 {
			return nil, false
		}
		if product > number/factor {
			return nil, false
		}
		product *= factor
		factors = append(factors, factor)
	}
	if number%product != 0 {
		return nil, false
	}
	if cofactor := number / product; cofactor > 1 {
		factors = append(factors, cofactor)
	}
	sort.Ints(factors)
	return factors, true
}
