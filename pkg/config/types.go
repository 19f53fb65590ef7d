package config

import "time"

// Config is the top-level configuration for a synthesis optimization run.
type Config struct {
	// ToolPath is the ABC binary invoked for every synthesis run.
	ToolPath string `yaml:"tool_path"`

	// CircuitsRoot is the directory containing one workspace per circuit.
	CircuitsRoot string `yaml:"circuits_root"`

	// Circuits lists the circuit workspaces to process, in order.
	Circuits []string `yaml:"circuits"`

	// Trials is the per-circuit trial budget.
	Trials int `yaml:"trials"`

	// RunTimeout bounds a single ABC invocation, e.g. "5m".
	RunTimeout string `yaml:"run_timeout"`

	// CircuitBudget bounds the wall-clock time spent searching one circuit,
	// e.g. "15m". The search stops at whichever of Trials or CircuitBudget
	// is exhausted first.
	CircuitBudget string `yaml:"circuit_budget"`

	// DepthMultiplier is the depth-ceiling factor applied against the
	// baseline level. A candidate whose depth exceeds
	// baseline_depth * DepthMultiplier is rejected.
	DepthMultiplier float64 `yaml:"depth_multiplier"`

	// Workers is the number of circuits optimized concurrently. 1 means
	// strictly sequential.
	Workers int `yaml:"workers"`

	// Seed seeds the candidate sampler.
	Seed int64 `yaml:"seed"`

	// TrialDB enables the sampler's per-circuit SQLite trial history.
	TrialDB bool `yaml:"trial_db"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Report file paths, relative to the working directory.
	BaselineReport     string `yaml:"baseline_report"`
	OptimizationReport string `yaml:"optimization_report"`
	ComparisonReport   string `yaml:"comparison_report"`
}

// GetRunTimeout parses RunTimeout into a duration.
func (c *Config) GetRunTimeout() (time.Duration, error) {
	return time.ParseDuration(c.RunTimeout)
}

// GetCircuitBudget parses CircuitBudget into a duration.
func (c *Config) GetCircuitBudget() (time.Duration, error) {
	return time.ParseDuration(c.CircuitBudget)
}

// Default returns a configuration with the standard defaults applied.
func Default() *Config {
	return &Config{
		ToolPath:           "abc",
		CircuitsRoot:       ".",
		Trials:             20,
		RunTimeout:         "5m",
		CircuitBudget:      "10m",
		DepthMultiplier:    1.10,
		Workers:            1,
		Seed:               42,
		LogLevel:           "info",
		LogFormat:          "text",
		BaselineReport:     "baseline_results.json",
		OptimizationReport: "optimization_results.json",
		ComparisonReport:   "comparison_results.json",
	}
}
