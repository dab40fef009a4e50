package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goosewin/shor/internal/backend"
	_ "github.com/goosewin/shor/internal/backend/aer"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List available simulator backends",
		Args:  cobra.NoArgs,
		RunE:  runBackends,
	}
}

func runBackends(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	names := backend.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "No backends registered")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tSIMULATOR\tINSTALLED")
	fmt.Fprintln(writer, "----\t---------\t---------")

	for _, name := range names {
		simulator := "?"
		installed := "no"
		instance, ok := backend.Get(name)
		if ok {
			simulator = instance.Simulator()
			if err := instance.CheckInstalled(); err == nil {
				installed = "yes"
			}
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", name, simulator, installed)
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage: shor --number <n> --backend <name>")
	return nil
}
