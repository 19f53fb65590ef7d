// Package objective maps one candidate parameter set to one scalar fitness
// value, applying the depth-ceiling constraint against the circuit's
// baseline. Every failure mode is converted to a reject fitness here; a trial
// never aborts the surrounding search.
package objective

import (
	"context"
	"math"
	"time"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/abc"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/script"
)

// RejectFitness is the sentinel reported for any rejected trial. It compares
// worse than every real cost, so the minimizing search collaborator always
// prefers any valid result over any rejection.
var RejectFitness = math.Inf(1)

// RejectReason says why a trial was rejected.
type RejectReason string

const (
	RejectInvalidParams       RejectReason = "invalid_parameters"
	RejectExecutionFailed     RejectReason = "execution_failed"
	RejectTimeout             RejectReason = "timeout"
	RejectConstraintViolation RejectReason = "level_constraint_violated"
)

// Result is the structured record of one trial: the scalar fitness plus the
// fixed attribute bag retained for best-so-far tracking and reporting.
type Result struct {
	Fitness float64
	Params  params.ParameterSet
	Outcome abc.Outcome

	Rejected     bool
	RejectReason RejectReason

	// Depth-constraint bookkeeping. ConstraintApplied is false when the
	// circuit had no usable baseline and the check was skipped entirely.
	ConstraintApplied  bool
	ConstraintViolated bool
	ObservedDepth      int
	BaselineDepth      int
	ConstraintLimit    float64
}

// Accepted reports whether the trial produced a real fitness value.
func (r Result) Accepted() bool {
	return !r.Rejected
}

// ProcessRunner runs one rendered script in a workspace. *abc.Runner is the
// production implementation; tests substitute stubs.
type ProcessRunner interface {
	Run(ctx context.Context, scriptText, workDir, scriptName, outputName string, timeout time.Duration) abc.Outcome
}

// Evaluator evaluates candidates for circuits under the depth constraint.
// The multiplier is configuration, not a hard-coded call-site constant; the
// historical value is 1.10 (accept up to 10% above the baseline depth).
type Evaluator struct {
	runner     ProcessRunner
	multiplier float64
	timeout    time.Duration
}

// NewEvaluator creates an evaluator. A multiplier below 1.0 is replaced by
// the historical default 1.10.
func NewEvaluator(runner ProcessRunner, multiplier float64, timeout time.Duration) *Evaluator {
	if multiplier < 1.0 {
		multiplier = 1.10
	}
	return &Evaluator{
		runner:     runner,
		multiplier: multiplier,
		timeout:    timeout,
	}
}

// Multiplier returns the configured depth-ceiling factor.
func (e *Evaluator) Multiplier() float64 {
	return e.multiplier
}

// Evaluate runs one trial of cand against target. baselineDepth is the
// constraint anchor; zero means no baseline is available and the depth check
// is skipped. An invalid candidate is rejected before any process is
// spawned and costs no tool time.
func (e *Evaluator) Evaluate(ctx context.Context, cand params.ParameterSet, target circuit.Target, baselineDepth int) Result {
	res := Result{
		Params:        cand,
		BaselineDepth: baselineDepth,
	}

	if err := cand.Validate(); err != nil {
		res.Fitness = RejectFitness
		res.Rejected = true
		res.RejectReason = RejectInvalidParams
		res.Outcome = abc.Outcome{Status: abc.StatusFailed, Detail: err.Error()}
		return res
	}

	text := script.Render(target.InputFile, target.Kind, cand)
	outcome := e.runner.Run(ctx, text, target.Dir, script.Name, script.OutputName, e.timeout)
	res.Outcome = outcome

	switch outcome.Status {
	case abc.StatusTimedOut:
		res.Fitness = RejectFitness
		res.Rejected = true
		res.RejectReason = RejectTimeout
		return res
	case abc.StatusFailed:
		res.Fitness = RejectFitness
		res.Rejected = true
		res.RejectReason = RejectExecutionFailed
		return res
	}

	res.ObservedDepth = outcome.Depth
	if baselineDepth > 0 {
		res.ConstraintApplied = true
		res.ConstraintLimit = float64(baselineDepth) * e.multiplier
		if float64(outcome.Depth) > res.ConstraintLimit {
			res.ConstraintViolated = true
			res.Fitness = RejectFitness
			res.Rejected = true
			res.RejectReason = RejectConstraintViolation
			return res
		}
	}

	res.Fitness = float64(outcome.Cost)
	return res
}
