// Package cmd defines the summaflow command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hydrotools/summaflow/pkg/logging"
)

var rootLogLevel string

// NewRootCmd builds the summaflow root command with every subcommand
// registered.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "summaflow",
		Short: "Run and manage SUMMA simulations",
		Long: `summaflow wraps the SUMMA hydrological model: it edits the model's
configuration files in place, launches single runs locally, in docker or
through slurm, and coordinates parameter-sweep ensembles with merged output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rootLogLevel != "" {
				return logging.SetLevel(rootLogLevel)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewEnsembleCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewRunsCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}
