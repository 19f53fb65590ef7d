package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/abc"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/driver"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search the parameter space for every configured circuit",
	Long: `Run the constrained parameter search per circuit. When a baseline
report exists, each circuit's depth is held within the configured
multiple of its baseline level; without one the ceiling is skipped.`,
	Args: cobra.NoArgs,
	RunE: runOptimize,
}

func runOptimize(cmd *cobra.Command, _ []string) error {
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
	budget, err := cfg.GetCircuitBudget()
	if err != nil {
		return err
	}

	baselines := circuit.NewBaselineReport(nil)
	if loaded, err := circuit.LoadBaselineReport(cfg.BaselineReport); err == nil {
		baselines = loaded
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("baseline report unusable, depth constraints disabled", "error", err)
	} else {
		logger.Warn("no baseline report found, depth constraints disabled", "path", cfg.BaselineReport)
	}

	runner := abc.NewRunner(cfg.ToolPath)
	report := driver.OptimizeAll(cmd.Context(), runner, targets, baselines, driver.Options{
		Trials:          cfg.Trials,
		RunTimeout:      timeout,
		CircuitBudget:   budget,
		DepthMultiplier: cfg.DepthMultiplier,
		Workers:         cfg.Workers,
		Seed:            cfg.Seed,
		TrialDB:         cfg.TrialDB,
	})
	if err := circuit.WriteJSON(cfg.OptimizationReport, report); err != nil {
		return err
	}

	fmt.Printf("optimize: %d/%d circuits produced a result, %d total LUTs over %d trials, report written to %s\n",
		len(report.Circuits), report.TotalCircuits, report.TotalCost, report.TotalTrials, cfg.OptimizationReport)
	return nil
}
