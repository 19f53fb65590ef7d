package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/config"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:   "abcopt",
	Short: "Constrained parameter search for ABC logic synthesis",
	Long: "abcopt tunes the ABC optimization pipeline per circuit: it establishes\n" +
		"a fixed baseline, searches the parameter space under a depth ceiling,\n" +
		"and compares the best results against the baseline.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to YAML configuration (default: built-in defaults)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.Version = version
}

// loadConfig resolves the run configuration and installs the logger.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if rootFlags.configPath != "" {
		loaded, err := config.Load(rootFlags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}
	logger.SetDefault(logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr))
	return cfg, nil
}

// discoverTargets resolves the configured circuits, logging and skipping the
// ones that cannot be resolved.
func discoverTargets(cfg *config.Config) ([]circuit.Target, error) {
	targets, errs := circuit.Discover(cfg.CircuitsRoot, cfg.Circuits)
	for _, err := range errs {
		logger.Warn("skipping circuit", "error", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no usable circuits under %s", cfg.CircuitsRoot)
	}
	return targets, nil
}
