package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/abc"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/driver"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Run the fixed reference flow for every configured circuit",
	Long: `Run the parameter-free ABC flow once per circuit and record the
resulting LUT count and level. The report anchors the depth ceiling
applied during optimization and the final comparison.`,
	Args: cobra.NoArgs,
	RunE: runBaseline,
}

func runBaseline(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targets, err := discoverTargets(cfg)
	if err != nil {
		return err
	}
	timeout, err := cfg.GetRunTimeout()
	if err != nil {
		return err
	}

	runner := abc.NewRunner(cfg.ToolPath)
	report := driver.RunBaselineAll(cmd.Context(), runner, targets, timeout)
	if err := circuit.WriteJSON(cfg.BaselineReport, report); err != nil {
		return err
	}

	fmt.Printf("baseline: %d/%d circuits succeeded, %d total LUTs, report written to %s\n",
		report.SuccessfulCircuits, report.TotalCircuits, report.TotalCost, cfg.BaselineReport)
	return nil
}
