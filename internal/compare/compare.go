// Package compare joins a baseline report with an optimization report and
// quantifies the improvement per circuit and in aggregate. It is the single
// place delta arithmetic lives; reports elsewhere only carry raw numbers.
package compare

import (
	"fmt"
	"sort"
	"time"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/circuit"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/utils"
)

// Verdict is the per-circuit depth-constraint judgement.
type Verdict string

const (
	VerdictNotApplied Verdict = "not applied"
	VerdictRespected  Verdict = "respected"
	VerdictViolated   Verdict = "violated"
)

// Record quantifies one circuit present in both reports. CostDelta is
// baseline minus optimized, so positive means improvement; DepthDelta is
// optimized minus baseline, so negative means improvement.
type Record struct {
	Circuit        string  `json:"circuit"`
	BaselineCost   int     `json:"baseline_luts"`
	OptimizedCost  int     `json:"optimized_luts"`
	CostDelta      int     `json:"luts_saved"`
	CostDeltaPct   float64 `json:"luts_saved_pct"`
	BaselineDepth  int     `json:"baseline_level"`
	OptimizedDepth int     `json:"optimized_level"`
	DepthDelta     int     `json:"level_delta"`
	Verdict        Verdict `json:"level_constraint"`
}

// Totals aggregates the matched circuits with plain sums.
type Totals struct {
	Circuits      int     `json:"circuits"`
	BaselineCost  int     `json:"total_baseline_luts"`
	OptimizedCost int     `json:"total_optimized_luts"`
	CostDelta     int     `json:"total_luts_saved"`
	CostDeltaPct  float64 `json:"total_luts_saved_pct"`
	Improved      int     `json:"improved_circuits"`
	Regressed     int     `json:"regressed_circuits"`
	Unchanged     int     `json:"unchanged_circuits"`
}

// Report is the persisted comparison result. Mismatches lists circuits found
// in only one input; those never contribute to Records or Totals.
type Report struct {
	GeneratedAt time.Time `json:"comparison_date"`
	Records     []Record  `json:"circuit_results"`
	Totals      Totals    `json:"totals"`
	Mismatches  []string  `json:"mismatches,omitempty"`
}

// Compare joins the two reports by circuit name. Records come out sorted by
// name, so the result does not depend on either input's ordering. Circuits
// present in only one report, and circuits whose baseline failed, are
// reported as mismatches and excluded from the totals.
func Compare(baselines *circuit.BaselineReport, opt *circuit.OptimizationReport) *Report {
	report := &Report{GeneratedAt: time.Now().UTC()}

	summaries := make(map[string]circuit.TargetSummary, len(opt.Circuits))
	for _, s := range opt.Circuits {
		summaries[s.Circuit] = s
	}

	matched := make(map[string]bool, len(summaries))
	for _, base := range baselines.Circuits {
		if !base.Success {
			report.Mismatches = append(report.Mismatches,
				fmt.Sprintf("%s: baseline failed, nothing to compare against", base.Circuit))
			continue
		}
		s, ok := summaries[base.Circuit]
		if !ok {
			report.Mismatches = append(report.Mismatches,
				fmt.Sprintf("%s: present in baseline report only", base.Circuit))
			continue
		}
		matched[base.Circuit] = true
		report.Records = append(report.Records, newRecord(base, s))
	}
	for _, s := range opt.Circuits {
		if !matched[s.Circuit] {
			report.Mismatches = append(report.Mismatches,
				fmt.Sprintf("%s: present in optimization report only", s.Circuit))
		}
	}

	sort.Slice(report.Records, func(i, j int) bool {
		return report.Records[i].Circuit < report.Records[j].Circuit
	})
	sort.Strings(report.Mismatches)
	for _, m := range report.Mismatches {
		logger.Warn("comparison mismatch", "detail", m)
	}

	report.Totals = total(report.Records)
	return report
}

func newRecord(base circuit.BaselineRecord, s circuit.TargetSummary) Record {
	delta := base.Cost - s.BestCost
	rec := Record{
		Circuit:        base.Circuit,
		BaselineCost:   base.Cost,
		OptimizedCost:  s.BestCost,
		CostDelta:      delta,
		CostDeltaPct:   utils.Round(utils.Pct(float64(delta), float64(base.Cost)), 1),
		BaselineDepth:  base.Depth,
		OptimizedDepth: s.BestDepth,
		DepthDelta:     s.BestDepth - base.Depth,
		Verdict:        VerdictNotApplied,
	}
	if s.ConstraintApplied {
		rec.Verdict = VerdictRespected
		if float64(s.BestDepth) > s.ConstraintLimit {
			rec.Verdict = VerdictViolated
		}
	}
	return rec
}

func total(records []Record) Totals {
	t := Totals{Circuits: len(records)}
	for _, rec := range records {
		t.BaselineCost += rec.BaselineCost
		t.OptimizedCost += rec.OptimizedCost
		switch {
		case rec.CostDelta > 0:
			t.Improved++
		case rec.CostDelta < 0:
			t.Regressed++
		default:
			t.Unchanged++
		}
	}
	t.CostDelta = t.BaselineCost - t.OptimizedCost
	t.CostDeltaPct = utils.Round(utils.Pct(float64(t.CostDelta), float64(t.BaselineCost)), 1)
	return t
}

// Write persists the report as JSON at path.
func (r *Report) Write(path string) error {
	return circuit.WriteJSON(path, r)
}

// Load reads a persisted comparison report.
func Load(path string) (*Report, error) {
	var report Report
	if err := circuit.ReadJSON(path, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
