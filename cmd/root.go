package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goosewin/shor/internal/config"
	"github.com/goosewin/shor/internal/logging"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

// app carries state shared by the command tree for one invocation.
type app struct {
	factor    factorFlags
	verbose   bool
	logger    *zap.Logger
	newLogger func(logging.Options) (*zap.Logger, error)
}

func newApp() *app {
	return &app{logger: zap.NewNop(), newLogger: logging.New}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(newApp())
}

func buildRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shor",
		Short: "Factor an integer with Shor's algorithm",
		Long: `Shor factors an integer with Shor's algorithm on a simulated quantum backend.

Run without arguments to factor the configured default number (21) with 10
shots on the default simulator, then wait for a key press.`,
		Version:           Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runFactor,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	a.factor.register(rootCmd)

	rootCmd.AddCommand(newBackendsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd(rootCmd))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := loadConfigForCwd(); err != nil {
		return err
	}

	logger, err := a.newLogger(logging.Options{
		Level:   config.GetString("logging.level", "info"),
		Verbose: a.verbose,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// execute runs the command tree and flushes the logger whether or not the
// command failed.
func (a *app) execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// Execute runs the root command.
func Execute() {
	a := newApp()
	if err := a.execute(buildRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
