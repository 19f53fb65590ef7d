// Package driver runs the optimization loop for one circuit at a time and
// orchestrates baseline and optimization passes across a whole circuit set.
// It owns the best-so-far state and the trial and wall-clock budgets; all
// tool interaction goes through the objective evaluator.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/objective"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/script"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
)

// State is the lifecycle phase of a per-circuit driver.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateFinalized State = "finalized"
)

// Driver runs a bounded search over one circuit's parameter space. A driver
// is built per circuit and used for exactly one Optimize call.
type Driver struct {
	evaluator *objective.Evaluator
	sampler   Sampler
	space     params.Space
	trials    int
	budget    time.Duration // wall-clock budget for the whole circuit; 0 = unlimited

	mu    sync.Mutex
	state State
}

// Sampler is the collaborator surface the driver needs. search.Sampler
// satisfies it; the driver never inspects the collaborator's internals.
type Sampler interface {
	Suggest(space params.Space) (params.ParameterSet, error)
	Report(cand params.ParameterSet, fitness float64, res objective.Result)
}

// New creates a driver for one circuit's search.
func New(evaluator *objective.Evaluator, sampler Sampler, space params.Space, trials int, budget time.Duration) *Driver {
	return &Driver{
		evaluator: evaluator,
		sampler:   sampler,
		space:     space,
		trials:    trials,
		budget:    budget,
		state:     StateIdle,
	}
}

// State returns the driver's current lifecycle phase.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Optimize runs the search for target and returns the best accepted trial as
// a summary, persisting the winning script and parameters into the circuit's
// directory. baselineDepth anchors the depth constraint; zero disables it.
//
// The loop stops at the trial budget or the wall-clock budget, whichever
// comes first. The best trial is replaced only on a strictly lower fitness,
// so ties keep the earlier result. A nil summary with a nil error means the
// search finished without a single feasible trial.
func (d *Driver) Optimize(ctx context.Context, target circuit.Target, baselineDepth int) (*circuit.TargetSummary, error) {
	d.setState(StateSearching)
	defer d.setState(StateFinalized)

	start := time.Now()
	var deadline time.Time
	if d.budget > 0 {
		deadline = start.Add(d.budget)
	}

	var best *objective.Result
	completed := 0

	for n := 0; n < d.trials; n++ {
		if ctx.Err() != nil {
			logger.Warn("optimization canceled", "circuit", target.Name, "completed_trials", completed)
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			logger.Info("circuit time budget exhausted",
				"circuit", target.Name, "budget", d.budget, "completed_trials", completed)
			break
		}

		cand, err := d.sampler.Suggest(d.space)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest candidate for %s: %w", target.Name, err)
		}

		res := d.evaluator.Evaluate(ctx, cand, target, baselineDepth)
		d.sampler.Report(cand, res.Fitness, res)
		completed++

		if res.Rejected {
			logger.Debug("trial rejected",
				"circuit", target.Name, "trial", n, "reason", string(res.RejectReason))
			continue
		}
		if best == nil || res.Fitness < best.Fitness {
			r := res
			best = &r
			logger.Info("new best result",
				"circuit", target.Name, "trial", n,
				"luts", res.Outcome.Cost, "level", res.Outcome.Depth)
		}
	}

	if best == nil {
		logger.Warn("no feasible result", "circuit", target.Name, "completed_trials", completed)
		return nil, nil
	}

	summary := &circuit.TargetSummary{
		Circuit:           target.Name,
		Kind:              target.Kind,
		BestCost:          best.Outcome.Cost,
		BestDepth:         best.Outcome.Depth,
		BaselineDepth:     baselineDepth,
		Constraint:        d.constraintDescription(*best),
		ConstraintApplied: best.ConstraintApplied,
		ConstraintLimit:   best.ConstraintLimit,
		ArtifactBytes:     best.Outcome.ArtifactBytes,
		Parameters:        best.Params,
		Trials:            completed,
		FinishedAt:        time.Now().UTC(),
	}
	if err := d.persistBest(target, best.Params, summary); err != nil {
		return nil, err
	}
	logger.Info("optimization finished",
		"circuit", target.Name,
		"best_luts", summary.BestCost, "best_level", summary.BestDepth,
		"trials", completed, "elapsed", time.Since(start).Round(time.Millisecond))
	return summary, nil
}

func (d *Driver) constraintDescription(best objective.Result) string {
	if !best.ConstraintApplied {
		return "None"
	}
	return fmt.Sprintf("<= %.1f (%.0f%% of baseline)", best.ConstraintLimit, d.evaluator.Multiplier()*100)
}

// persistBest writes the winning script and the full best-result record into
// the circuit's directory so the result can be reproduced without rerunning
// the search.
func (d *Driver) persistBest(target circuit.Target, best params.ParameterSet, summary *circuit.TargetSummary) error {
	text := script.Render(target.InputFile, target.Kind, best)
	scriptPath := filepath.Join(target.Dir, script.BestScriptName(target.Name))
	if err := os.WriteFile(scriptPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write best script for %s: %w", target.Name, err)
	}
	paramsPath := filepath.Join(target.Dir, fmt.Sprintf("best_parameters_%s.json", target.Name))
	if err := circuit.WriteJSON(paramsPath, summary); err != nil {
		return fmt.Errorf("failed to write best parameters for %s: %w", target.Name, err)
	}
	return nil
}
