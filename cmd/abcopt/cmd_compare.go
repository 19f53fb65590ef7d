package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the optimization results against the baseline",
	Long: `Join the baseline and optimization reports circuit by circuit and
quantify the LUT savings and level movement. Circuits present in only
one report are listed as mismatches and left out of the totals.`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	baselines, err := circuit.LoadBaselineReport(cfg.BaselineReport)
	if err != nil {
		return fmt.Errorf("baseline report required, run `abcopt baseline` first: %w", err)
	}
	opt, err := circuit.LoadOptimizationReport(cfg.OptimizationReport)
	if err != nil {
		return fmt.Errorf("optimization report required, run `abcopt optimize` first: %w", err)
	}

	report := compare.Compare(baselines, opt)
	if err := report.Write(cfg.ComparisonReport); err != nil {
		return err
	}

	tot := report.Totals
	fmt.Printf("compare: %d circuits, %d LUTs saved (%.1f%%), %d improved / %d regressed / %d unchanged",
		tot.Circuits, tot.CostDelta, tot.CostDeltaPct, tot.Improved, tot.Regressed, tot.Unchanged)
	if n := len(report.Mismatches); n > 0 {
		fmt.Printf(", %d mismatches", n)
	}
	fmt.Printf("; report written to %s\n", cfg.ComparisonReport)
	return nil
}
