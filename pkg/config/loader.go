package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses YAML configuration data, applies defaults for absent fields
// and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate performs validation on the configuration
func validate(cfg *Config) error {
	if cfg.ToolPath == "" {
		return fmt.Errorf("tool_path cannot be empty")
	}
	if len(cfg.Circuits) == 0 {
		return fmt.Errorf("at least one circuit must be listed")
	}
	seen := make(map[string]bool)
	for _, name := range cfg.Circuits {
		if name == "" {
			return fmt.Errorf("circuit name cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate circuit name: %s", name)
		}
		seen[name] = true
	}
	if cfg.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if _, err := cfg.GetRunTimeout(); err != nil {
		return fmt.Errorf("invalid run_timeout %s: %w", cfg.RunTimeout, err)
	}
	if _, err := cfg.GetCircuitBudget(); err != nil {
		return fmt.Errorf("invalid circuit_budget %s: %w", cfg.CircuitBudget, err)
	}
	if cfg.DepthMultiplier < 1.0 {
		return fmt.Errorf("depth_multiplier must be >= 1.0, got %f", cfg.DepthMultiplier)
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log_format: %s (must be text or json)", cfg.LogFormat)
	}
	return nil
}
