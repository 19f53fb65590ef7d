// Package script renders ABC command scripts. Rendering is a pure function
// of its inputs: identical parameters always produce byte-identical text, so
// the tuned and baseline scripts stay directly comparable.
package script

import (
	"fmt"
	"strings"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
)

// File names written into each circuit workspace. The output artifact name is
// fixed per variant so successive trials overwrite the previous artifact.
const (
	Name         = "optuna_script.abc"
	BaselineName = "baseline_script.abc"
	BestName     = "best_script_%s.abc" // formatted with the circuit name

	OutputName         = "optimized_optuna.blif"
	BaselineOutputName = "baseline.blif"
)

// BestScriptName returns the workspace file name for a circuit's winning
// script.
func BestScriptName(circuitName string) string {
	return fmt.Sprintf(BestName, circuitName)
}

// Render produces the tuned synthesis script for a validated parameter set.
// The read command autodetects both AIG and Verilog inputs; kind is part of
// the contract so callers cannot render for an unresolved artifact.
func Render(inputFile string, kind circuit.InputKind, p params.ParameterSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "read %s\n", inputFile)
	b.WriteString("strash\n")
	fmt.Fprintf(&b, "balance -l %d\n", p.Balance1L)
	fmt.Fprintf(&b, "resub -K %d -N %d\n", p.Resub1K, p.Resub1N)
	fmt.Fprintf(&b, "resub -K %d -N %d\n", p.Resub2K, p.Resub2N)
	fmt.Fprintf(&b, "balance -l %d\n", p.Balance2L)
	fmt.Fprintf(&b, "if -K %d\n", p.IfK)
	b.WriteString("print_level\n")
	fmt.Fprintf(&b, "write_blif %s\n", OutputName)
	return b.String()
}

// RenderBaseline produces the fixed reference script. It shares the tuned
// script's step ordering exactly, with default operation arguments and a
// distinct output name, so baseline and tuned results are comparable.
func RenderBaseline(inputFile string, kind circuit.InputKind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "read %s\n", inputFile)
	b.WriteString("strash\n")
	b.WriteString("balance\n")
	b.WriteString("resub\n")
	b.WriteString("resub\n")
	b.WriteString("balance\n")
	b.WriteString("if -K 6\n")
	b.WriteString("print_level\n")
	fmt.Fprintf(&b, "write_blif %s\n", BaselineOutputName)
	return b.String()
}
