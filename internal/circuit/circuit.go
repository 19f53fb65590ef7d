// Package circuit models the optimization targets: one workspace directory
// per circuit holding its input artifact, and the records persisted across
// baseline, optimization and comparison passes.
package circuit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// InputKind is the format of a circuit's input artifact.
type InputKind string

const (
	// KindAIG is a pre-compiled and-inverter graph (.aig).
	KindAIG InputKind = "aig"
	// KindVerilog is a structural Verilog description (.v).
	KindVerilog InputKind = "verilog"
)

// Target is one independent optimization problem: a named circuit with its
// own workspace directory and exactly one input artifact.
type Target struct {
	Name      string
	Dir       string
	InputFile string // file name relative to Dir
	Kind      InputKind
}

// Resolve locates the workspace and input artifact for one circuit name
// under root. AIG inputs take precedence over Verilog when both exist.
func Resolve(root, name string) (Target, error) {
	dir := filepath.Join(root, name)
	info, err := os.Stat(dir)
	if err != nil {
		return Target{}, fmt.Errorf("circuit directory %s not found: %w", dir, err)
	}
	if !info.IsDir() {
		return Target{}, fmt.Errorf("circuit path %s is not a directory", dir)
	}

	inputFile, kind, err := findInput(dir)
	if err != nil {
		return Target{}, fmt.Errorf("circuit %s: %w", name, err)
	}

	return Target{
		Name:      name,
		Dir:       dir,
		InputFile: inputFile,
		Kind:      kind,
	}, nil
}

// Discover resolves all named circuits under root. Circuits that cannot be
// resolved are skipped and returned as errors so a batch pass can report
// them without aborting.
func Discover(root string, names []string) ([]Target, []error) {
	targets := make([]Target, 0, len(names))
	var errs []error
	for _, name := range names {
		t, err := Resolve(root, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		targets = append(targets, t)
	}
	return targets, errs
}

// findInput picks the input artifact in a workspace directory. macOS
// resource-fork files ("._*") are ignored. The candidate list is sorted so
// the choice is deterministic when several files match.
func findInput(dir string) (string, InputKind, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read directory: %w", err)
	}

	var aigs, verilogs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "._") {
			continue
		}
		switch {
		case strings.HasSuffix(name, ".aig"):
			aigs = append(aigs, name)
		case strings.HasSuffix(name, ".v"):
			verilogs = append(verilogs, name)
		}
	}
	sort.Strings(aigs)
	sort.Strings(verilogs)

	if len(aigs) > 0 {
		return aigs[0], KindAIG, nil
	}
	if len(verilogs) > 0 {
		return verilogs[0], KindVerilog, nil
	}
	return "", "", fmt.Errorf("no input artifact (.aig or .v) found in %s", dir)
}
