// Package cli implements the driftline command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattcarrick/driftline/internal/common"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "driftline",
		Short: "Driftline - Allocation drift and rebalancing",
		Long: `Driftline compares brokerage holdings against a target allocation model
and reports which positions have drifted far enough to act on.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "driftline "+common.GetFullVersion())
		},
	}
}
