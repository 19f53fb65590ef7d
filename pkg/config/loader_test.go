package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
tool_path: /usr/local/bin/abc
circuits_root: ./circuits
circuits:
  - adder
  - voter
trials: 30
run_timeout: 2m
circuit_budget: 20m
depth_multiplier: 1.10
workers: 2
seed: 42
log_level: debug
log_format: json
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ToolPath != "/usr/local/bin/abc" {
		t.Errorf("unexpected tool_path: %s", cfg.ToolPath)
	}
	if len(cfg.Circuits) != 2 || cfg.Circuits[0] != "adder" {
		t.Errorf("unexpected circuits: %v", cfg.Circuits)
	}
	if cfg.Trials != 30 {
		t.Errorf("unexpected trials: %d", cfg.Trials)
	}
	timeout, err := cfg.GetRunTimeout()
	if err != nil {
		t.Fatalf("GetRunTimeout: %v", err)
	}
	if timeout != 2*time.Minute {
		t.Errorf("unexpected run timeout: %v", timeout)
	}
	if cfg.Workers != 2 {
		t.Errorf("unexpected workers: %d", cfg.Workers)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("circuits: [adder]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Trials != 20 {
		t.Errorf("default trials = %d, want 20", cfg.Trials)
	}
	if cfg.DepthMultiplier != 1.10 {
		t.Errorf("default depth_multiplier = %f, want 1.10", cfg.DepthMultiplier)
	}
	if cfg.Seed != 42 {
		t.Errorf("default seed = %d, want 42", cfg.Seed)
	}
	if cfg.Workers != 1 {
		t.Errorf("default workers = %d, want 1", cfg.Workers)
	}
	if cfg.BaselineReport != "baseline_results.json" {
		t.Errorf("default baseline_report = %s", cfg.BaselineReport)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no circuits", "trials: 5\n", "at least one circuit"},
		{"empty circuit name", "circuits: ['']\n", "circuit name cannot be empty"},
		{"duplicate circuit", "circuits: [adder, adder]\n", "duplicate circuit"},
		{"zero trials", "circuits: [adder]\ntrials: 0\n", "trials must be positive"},
		{"bad timeout", "circuits: [adder]\nrun_timeout: fast\n", "invalid run_timeout"},
		{"bad budget", "circuits: [adder]\ncircuit_budget: soon\n", "invalid circuit_budget"},
		{"multiplier below one", "circuits: [adder]\ndepth_multiplier: 0.5\n", "depth_multiplier"},
		{"zero workers", "circuits: [adder]\nworkers: 0\n", "workers must be positive"},
		{"bad log level", "circuits: [adder]\nlog_level: loud\n", "invalid log_level"},
		{"bad log format", "circuits: [adder]\nlog_format: xml\n", "invalid log_format"},
		{"malformed yaml", "circuits: [", "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("unexpected log_level: %s", cfg.LogLevel)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
