package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/quarklab/masspec/internal/config"
	"github.com/quarklab/masspec/internal/pipeline"
	"github.com/quarklab/masspec/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analysis and write all artifacts to the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}

		result, err := pipeline.Run(cfg, logger)
		if err != nil {
			return err
		}
		if err := report.WriteReport(result.Metrics, result.Figures, cfg.OutDir); err != nil {
			return err
		}

		fmt.Printf("Analyzed %d events from %s\n", result.Metrics.Events, result.InputPath)
		fmt.Printf("Artifacts written to %s\n", cfg.OutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
