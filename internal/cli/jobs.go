package cli

import (
	"github.com/spf13/cobra"

	"olistcli/internal/app"
	"olistcli/internal/config"
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Join the raw CSV tables into the processed dataset",
	Args:  cobra.NoArgs,
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config) error {
		_, err := app.RunETL(cmd.Context(), cfg, cmd.OutOrStdout())
		return err
	}),
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate the report charts from the processed dataset",
	Args:  cobra.NoArgs,
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config) error {
		_, err := app.RunAnalysis(cmd.Context(), cfg, cmd.OutOrStdout())
		return err
	}),
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the etl job followed by the analyze job",
	Args:  cobra.NoArgs,
	RunE: withConfig(func(cmd *cobra.Command, cfg *config.Config) error {
		if _, err := app.RunETL(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
			return err
		}
		_, err := app.RunAnalysis(cmd.Context(), cfg, cmd.OutOrStdout())
		return err
	}),
}

func init() {
	rootCmd.AddCommand(etlCmd, analyzeCmd, runCmd)
}
