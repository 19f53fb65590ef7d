package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/objective"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/search"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
)

// TrialDBName is the per-circuit trial history database, written into the
// circuit's directory when history persistence is enabled.
const TrialDBName = "trials.db"

// Options carries the knobs for a batch pass over a circuit set.
type Options struct {
	Trials          int
	RunTimeout      time.Duration
	CircuitBudget   time.Duration
	DepthMultiplier float64
	Workers         int          // circuits optimized concurrently; <=1 means sequential
	Seed            int64
	Space           params.Space // zero value means the default space
	TrialDB         bool         // persist per-circuit trial history to SQLite
}

// RunBaselineAll runs the fixed reference flow for every target in order and
// returns the aggregated report. Individual failures are recorded, never
// fatal.
func RunBaselineAll(ctx context.Context, runner objective.ProcessRunner, targets []circuit.Target, timeout time.Duration) *circuit.BaselineReport {
	records := make([]circuit.BaselineRecord, 0, len(targets))
	for _, target := range targets {
		if ctx.Err() != nil {
			logger.Warn("baseline pass canceled", "remaining", len(targets)-len(records))
			break
		}
		records = append(records, RunBaseline(ctx, runner, target, timeout))
	}
	return circuit.NewBaselineReport(records)
}

// OptimizeAll runs the search for every target and returns the aggregated
// report. Targets without a usable baseline are still optimized, with the
// depth constraint disabled for them. Circuits whose search fails or finds
// no feasible result count as failed.
//
// With Workers > 1 the circuits run concurrently under that limit; each
// circuit owns its directory exclusively, so runs never share a workspace.
func OptimizeAll(ctx context.Context, runner objective.ProcessRunner, targets []circuit.Target, baselines *circuit.BaselineReport, opts Options) *circuit.OptimizationReport {
	results := make([]*circuit.TargetSummary, len(targets))

	if opts.Workers <= 1 {
		for i, target := range targets {
			if ctx.Err() != nil {
				break
			}
			results[i] = optimizeOne(ctx, runner, target, baselines, opts)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		var mu sync.Mutex
		for i, target := range targets {
			i, target := i, target
			g.Go(func() error {
				summary := optimizeOne(gctx, runner, target, baselines, opts)
				mu.Lock()
				results[i] = summary
				mu.Unlock()
				return nil
			})
		}
		// Workers never return errors; failures become missing summaries.
		_ = g.Wait()
	}

	summaries := make([]circuit.TargetSummary, 0, len(targets))
	failed := 0
	for _, s := range results {
		if s == nil {
			failed++
			continue
		}
		summaries = append(summaries, *s)
	}
	return circuit.NewOptimizationReport(summaries, failed)
}

// optimizeOne builds the per-circuit collaborator chain and runs one search.
// It returns nil when the circuit ends without a feasible result.
func optimizeOne(ctx context.Context, runner objective.ProcessRunner, target circuit.Target, baselines *circuit.BaselineReport, opts Options) *circuit.TargetSummary {
	baselineDepth := 0
	if baselines != nil {
		if rec, ok := baselines.Lookup(target.Name); ok {
			baselineDepth = rec.Depth
		} else {
			logger.Warn("no usable baseline, depth constraint disabled", "circuit", target.Name)
		}
	}

	var sampler Sampler = search.NewRandomSampler(opts.Seed)
	var store *search.TrialStore
	if opts.TrialDB {
		st, err := search.OpenTrialStore(filepath.Join(target.Dir, TrialDBName))
		if err != nil {
			logger.Warn("trial history disabled", "circuit", target.Name, "error", err)
		} else {
			store = st
			defer store.Close()
			sampler = search.NewRecordingSampler(sampler, store, target.Name)
		}
	}

	space := opts.Space
	if space == (params.Space{}) {
		space = params.DefaultSpace()
	}

	evaluator := objective.NewEvaluator(runner, opts.DepthMultiplier, opts.RunTimeout)
	d := New(evaluator, sampler, space, opts.Trials, opts.CircuitBudget)

	summary, err := d.Optimize(ctx, target, baselineDepth)
	if err != nil {
		logger.Error(fmt.Sprintf("optimization failed for %s", target.Name), "error", err)
		return nil
	}
	if store != nil {
		checkHistory(store, target.Name, summary)
	}
	return summary
}

// checkHistory cross-checks the driver's result against the persisted trial
// history. Disagreement means dropped rows or a best-tracking bug; it is
// logged, never fatal.
func checkHistory(store *search.TrialStore, circuitName string, summary *circuit.TargetSummary) {
	count, err := store.Count(circuitName)
	if err != nil {
		logger.Warn("failed to read trial history", "circuit", circuitName, "error", err)
		return
	}
	_, fitness, ok, err := store.Best(circuitName)
	if err != nil {
		logger.Warn("failed to read trial history", "circuit", circuitName, "error", err)
		return
	}
	logger.Debug("trial history", "circuit", circuitName, "stored_trials", count, "has_best", ok)

	if summary != nil && ok && fitness != float64(summary.BestCost) {
		logger.Warn("trial history disagrees with best result",
			"circuit", circuitName, "stored_fitness", fitness, "best_luts", summary.BestCost)
	}
	if summary != nil && count < summary.Trials {
		logger.Warn("trial history is missing rows",
			"circuit", circuitName, "stored_trials", count, "completed_trials", summary.Trials)
	}
}
