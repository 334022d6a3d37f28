package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"olistcli/internal/app"
	"olistcli/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "olist",
	Short: "Olist order pipeline - ETL and exploratory analysis",
	Long: `olist runs the two batch jobs of the order pipeline.

The etl job joins the Olist CSV tables from the data directory into one
processed CSV. The analyze job reads that file and writes five report charts
plus a summary workbook. Paths and tunables come from OLIST_* environment
variables or config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	app.Fail(err)
	os.Exit(app.ExitCode(err))
}

// withConfig bootstraps configuration and logging around a job
func withConfig(run func(cmd *cobra.Command, cfg *config.Config) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, closeLog, err := app.Bootstrap()
		if err != nil {
			return fmt.Errorf("startup failed: %w", err)
		}
		defer closeLog()
		return run(cmd, cfg)
	}
}
