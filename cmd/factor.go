package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goosewin/shor/internal/backend"
	"github.com/goosewin/shor/internal/config"
	"github.com/goosewin/shor/internal/shor"
)

const (
	defaultNumber = 21
	defaultShots  = 10
)

type factorFlags struct {
	number         int
	shots          int
	backend        string
	skipValidation bool
	seed           int64
	format         string
	noWait         bool
}

func (f *factorFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.number, "number", "n", defaultNumber, "Integer to factor (odd composite > 1)")
	cmd.Flags().IntVarP(&f.shots, "shots", "s", defaultShots, "Measurement repetitions per run")
	cmd.Flags().StringVarP(&f.backend, "backend", "b", backend.DefaultName(), "Simulator backend (see 'shor backends')")
	cmd.Flags().BoolVar(&f.skipValidation, "skip-validation", false, "Skip validating the job before submission")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Simulator seed (0 leaves it unset)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&f.noWait, "no-wait", false, "Exit without waiting for a key press")
}

func (a *app) runFactor(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	number := a.factor.number
	if !flags.Changed("number") {
		value, err := config.GetInt("defaults.number", defaultNumber)
		if err != nil {
			return fmt.Errorf("%w: %w", shor.ErrInvalidInput, err)
		}
		number = value
	}

	shots := a.factor.shots
	if !flags.Changed("shots") {
		value, err := config.GetInt("defaults.shots", defaultShots)
		if err != nil {
			return fmt.Errorf("%w: %w", shor.ErrInvalidInput, err)
		}
		shots = value
	}

	retainDays, err := config.GetInt("logging.retain_days", 7)
	if err != nil {
		return err
	}

	backendName := strings.TrimSpace(a.factor.backend)
	if !flags.Changed("backend") {
		backendName = config.GetString("defaults.backend", backend.DefaultName())
	}

	format := strings.ToLower(strings.TrimSpace(a.factor.format))
	if !flags.Changed("format") {
		format = strings.ToLower(config.GetString("defaults.format", "text"))
	}
	if !validFormat(format) {
		return fmt.Errorf("unsupported format: %s", format)
	}

	out := cmd.OutOrStdout()
	if format == formatText {
		printBanner(out)
	}

	result, err := shor.Factor(cmd.Context(), shor.Options{
		Request: shor.Request{
			Number:               number,
			Shots:                shots,
			Backend:              backendName,
			ValidateBeforeSubmit: !a.factor.skipValidation,
			Seed:                 a.factor.seed,
		},
		Logger:     a.logger,
		LogDir:     config.GetString("logging.dir", ""),
		RetainDays: retainDays,
	})
	if err != nil {
		return err
	}

	if err := writeResult(out, format, result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if a.factor.noWait {
		return nil
	}
	if format == formatText {
		fmt.Fprintln(out, "\nPress any key to close")
	}
	return waitForKey(cmd.InOrStdin())
}

func printBanner(out io.Writer) {
	fmt.Fprintln(out, "\n Shors Algorithm")
	fmt.Fprintln(out, "--------------------")
	fmt.Fprintln(out, "\nExecuting...")
	fmt.Fprintln(out, "")
}

// waitForKey blocks for one line of input and discards it.
func waitForKey(in io.Reader) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err == nil || line != "" {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w while waiting for a key press", shor.ErrUserInterrupt)
	}
	return fmt.Errorf("%w: %v", shor.ErrUserInterrupt, err)
}
