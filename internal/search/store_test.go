package search

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/objective"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
)

func openStore(t *testing.T) *TrialStore {
	t.Helper()
	store, err := OpenTrialStore(filepath.Join(t.TempDir(), "trials.db"))
	if err != nil {
		t.Fatalf("failed to open trial store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func acceptedResult(p params.ParameterSet, fitness float64, depth int) objective.Result {
	return objective.Result{Fitness: fitness, Params: p, ObservedDepth: depth}
}

func TestTrialStoreRecordAndCount(t *testing.T) {
	store := openStore(t)
	p := params.ParameterSet{Balance1L: 3, Resub1K: 4, Resub1N: 1, Resub2K: 5, Resub2N: 2, Balance2L: 7, IfK: 6}

	if err := store.Record("voter", 1, "trial-a", acceptedResult(p, 120, 9)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record("voter", 2, "trial-b", objective.Result{
		Fitness: objective.RejectFitness, Params: p,
		Rejected: true, RejectReason: objective.RejectConstraintViolation,
		ConstraintViolated: true, ObservedDepth: 15,
	}); err != nil {
		t.Fatalf("record rejected: %v", err)
	}
	if err := store.Record("adder", 1, "trial-c", acceptedResult(p, 300, 12)); err != nil {
		t.Fatalf("record other circuit: %v", err)
	}

	n, err := store.Count("voter")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestTrialStoreBest(t *testing.T) {
	store := openStore(t)
	low := params.ParameterSet{Balance1L: 1, Resub1K: 4, Resub1N: 1, Resub2K: 4, Resub2N: 1, Balance2L: 1, IfK: 4}
	high := params.ParameterSet{Balance1L: 9, Resub1K: 5, Resub1N: 2, Resub2K: 5, Resub2N: 2, Balance2L: 9, IfK: 6}

	if err := store.Record("voter", 1, "trial-a", acceptedResult(high, 200, 8)); err != nil {
		t.Fatal(err)
	}
	if err := store.Record("voter", 2, "trial-b", acceptedResult(low, 150, 8)); err != nil {
		t.Fatal(err)
	}

	best, fitness, ok, err := store.Best("voter")
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if !ok || fitness != 150 || best != low {
		t.Errorf("best = %v (fitness %f, ok %v), want low at 150", best, fitness, ok)
	}
}

func TestTrialStoreBestIgnoresRejected(t *testing.T) {
	store := openStore(t)
	p := params.ParameterSet{Balance1L: 1, Resub1K: 4, Resub1N: 1, Resub2K: 4, Resub2N: 1, Balance2L: 1, IfK: 4}

	if err := store.Record("voter", 1, "trial-a", objective.Result{
		Fitness: objective.RejectFitness, Params: p,
		Rejected: true, RejectReason: objective.RejectTimeout,
	}); err != nil {
		t.Fatal(err)
	}

	_, _, ok, err := store.Best("voter")
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if ok {
		t.Errorf("rejected-only history must not yield a best trial")
	}
}

func TestTrialStoreDuplicateNumberRejected(t *testing.T) {
	store := openStore(t)
	p := params.ParameterSet{Balance1L: 1, Resub1K: 4, Resub1N: 1, Resub2K: 4, Resub2N: 1, Balance2L: 1, IfK: 4}

	if err := store.Record("voter", 1, "trial-a", acceptedResult(p, 10, 1)); err != nil {
		t.Fatal(err)
	}
	if err := store.Record("voter", 1, "trial-b", acceptedResult(p, 20, 1)); err == nil {
		t.Errorf("duplicate (circuit, number) should be rejected")
	}
}

func TestRecordingSamplerTagsRowsWithTrialIDs(t *testing.T) {
	store := openStore(t)
	inner := NewRandomSampler(42)
	s := NewRecordingSampler(inner, store, "voter")

	space := params.DefaultSpace()
	for i := 0; i < 3; i++ {
		cand, err := s.Suggest(space)
		if err != nil {
			t.Fatalf("suggest: %v", err)
		}
		s.Report(cand, float64(100-i), acceptedResult(cand, float64(100-i), 6))
	}

	rows, err := store.db.Query(`SELECT trial_id FROM trials WHERE circuit = ?`, "voter")
	if err != nil {
		t.Fatalf("query trial ids: %v", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if !strings.HasPrefix(id, "trial-") {
			t.Errorf("trial_id = %q, want a trial- prefixed tag", id)
		}
		if seen[id] {
			t.Errorf("duplicate trial_id %q", id)
		}
		seen[id] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("tagged rows = %d, want 3", len(seen))
	}
}

func TestRecordingSamplerPersistsReports(t *testing.T) {
	store := openStore(t)
	inner := NewRandomSampler(42)
	s := NewRecordingSampler(inner, store, "voter")

	space := params.DefaultSpace()
	cand, err := s.Suggest(space)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	s.Report(cand, 80, acceptedResult(cand, 80, 6))
	s.Report(cand, 70, acceptedResult(cand, 70, 6))

	n, err := store.Count("voter")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("persisted trials = %d, want 2", n)
	}
	if inner.Trials() != 2 {
		t.Errorf("inner sampler saw %d reports, want 2", inner.Trials())
	}

	best, fitness, ok, err := store.Best("voter")
	if err != nil || !ok {
		t.Fatalf("best: %v (ok %v)", err, ok)
	}
	if fitness != 70 || best != cand {
		t.Errorf("best = %v at %f, want %v at 70", best, fitness, cand)
	}
}
