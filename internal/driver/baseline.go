package driver

import (
	"context"
	"time"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/objective"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/script"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
)

// RunBaseline runs the fixed parameter-free flow for one target and records
// the result. A failed run yields an unsuccessful record rather than an
// error: later passes decide per circuit whether to proceed without a
// baseline.
func RunBaseline(ctx context.Context, runner objective.ProcessRunner, target circuit.Target, timeout time.Duration) circuit.BaselineRecord {
	rec := circuit.BaselineRecord{
		Circuit:   target.Name,
		InputFile: target.InputFile,
		Kind:      target.Kind,
	}

	text := script.RenderBaseline(target.InputFile, target.Kind)
	outcome := runner.Run(ctx, text, target.Dir, script.BaselineName, script.BaselineOutputName, timeout)
	if !outcome.Succeeded() {
		rec.Error = outcome.String()
		logger.Warn("baseline run failed", "circuit", target.Name, "outcome", rec.Error)
		return rec
	}

	rec.Success = true
	rec.Cost = outcome.Cost
	rec.Depth = outcome.Depth
	rec.ArtifactBytes = outcome.ArtifactBytes
	logger.Info("baseline established",
		"circuit", target.Name, "luts", rec.Cost, "level", rec.Depth,
		"elapsed", outcome.Elapsed.Round(time.Millisecond))
	return rec
}
