package circuit

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
)

// BaselineRecord is the reference outcome for one circuit, produced once by
// the fixed parameter-free script. Depth is the anchor for the level
// constraint applied to every later candidate of the same circuit.
type BaselineRecord struct {
	Circuit       string    `json:"circuit"`
	InputFile     string    `json:"input_file"`
	Kind          InputKind `json:"file_type"`
	Cost          int       `json:"baseline_luts"`
	Depth         int       `json:"baseline_level"`
	ArtifactBytes int64     `json:"baseline_file_size"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
}

// BaselineReport is the persisted result of a baseline pass over all circuits.
type BaselineReport struct {
	GeneratedAt        time.Time        `json:"baseline_date"`
	TotalCircuits      int              `json:"total_circuits"`
	SuccessfulCircuits int              `json:"successful_circuits"`
	FailedCircuits     int              `json:"failed_circuits"`
	TotalCost          int              `json:"total_baseline_luts"`
	Circuits           []BaselineRecord `json:"circuit_results"`
}

// NewBaselineReport builds a report with totals derived from the records.
func NewBaselineReport(records []BaselineRecord) *BaselineReport {
	report := &BaselineReport{
		GeneratedAt:   time.Now().UTC(),
		TotalCircuits: len(records),
		Circuits:      records,
	}
	for _, rec := range records {
		if rec.Success {
			report.SuccessfulCircuits++
			report.TotalCost += rec.Cost
		} else {
			report.FailedCircuits++
		}
	}
	return report
}

// Lookup returns the successful baseline record for a circuit, if any.
func (r *BaselineReport) Lookup(name string) (BaselineRecord, bool) {
	for _, rec := range r.Circuits {
		if rec.Circuit == name && rec.Success {
			return rec, true
		}
	}
	return BaselineRecord{}, false
}

// TargetSummary is the persisted best result of one circuit's search.
// A circuit whose search accepted no trial has no summary at all; that is the
// "no feasible result" case, distinct from a summary with zero cost.
type TargetSummary struct {
	Circuit           string              `json:"circuit"`
	Kind              InputKind           `json:"file_type"`
	BestCost          int                 `json:"best_luts"`
	BestDepth         int                 `json:"best_level"`
	BaselineDepth     int                 `json:"baseline_level"`
	Constraint        string              `json:"level_constraint"`
	ConstraintApplied bool                `json:"level_constraint_applied"`
	ConstraintLimit   float64             `json:"level_constraint_limit"`
	ArtifactBytes     int64               `json:"best_file_size"`
	Parameters        params.ParameterSet `json:"parameters"`
	Trials            int                 `json:"n_trials"`
	FinishedAt        time.Time           `json:"optimization_time"`
}

// OptimizationReport is the persisted result of an optimization pass over all
// circuits. Circuits without a feasible result appear only in the failed
// count, never as summaries.
type OptimizationReport struct {
	GeneratedAt     time.Time       `json:"optimization_date"`
	TotalCircuits   int             `json:"total_circuits"`
	FailedCircuits  int             `json:"failed_circuits"`
	TotalCost       int             `json:"total_luts"`
	TotalTrials     int             `json:"total_trials"`
	AIGCircuits     int             `json:"aig_circuits"`
	VerilogCircuits int             `json:"verilog_circuits"`
	Circuits        []TargetSummary `json:"circuit_results"`
}

// NewOptimizationReport builds a report with totals derived from the
// summaries. failed is the number of circuits that finished without a
// feasible result.
func NewOptimizationReport(summaries []TargetSummary, failed int) *OptimizationReport {
	report := &OptimizationReport{
		GeneratedAt:    time.Now().UTC(),
		TotalCircuits:  len(summaries) + failed,
		FailedCircuits: failed,
		Circuits:       summaries,
	}
	for _, s := range summaries {
		report.TotalCost += s.BestCost
		report.TotalTrials += s.Trials
		switch s.Kind {
		case KindAIG:
			report.AIGCircuits++
		case KindVerilog:
			report.VerilogCircuits++
		}
	}
	return report
}

// WriteJSON persists v as indented JSON at path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads JSON from path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// LoadBaselineReport loads a persisted baseline report.
func LoadBaselineReport(path string) (*BaselineReport, error) {
	var report BaselineReport
	if err := ReadJSON(path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// LoadOptimizationReport loads a persisted optimization report.
func LoadOptimizationReport(path string) (*OptimizationReport, error) {
	var report OptimizationReport
	if err := ReadJSON(path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
