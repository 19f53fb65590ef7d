package search

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/objective"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/logger"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/pkg/utils"
)

//go:embed schema.sql
var schemaSQL string

// TrialStore is the sampler's durable trial history, one SQLite database per
// optimization run. Rejected trials are stored with a NULL fitness; the
// reject sentinel is not a representable REAL.
type TrialStore struct {
	db *sql.DB
}

// OpenTrialStore creates or opens the trial database at path.
func OpenTrialStore(path string) (*TrialStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trial database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to trial database: %w", err)
	}

	// SQLite supports a single writer; keep one connection to avoid
	// SQLITE_BUSY under the parallel batch runner.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply trial schema: %w", err)
	}

	return &TrialStore{db: db}, nil
}

// Close closes the database connection.
func (s *TrialStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one trial row for a circuit. trialID tags the row so log
// lines and history rows for the same evaluation can be correlated.
func (s *TrialStore) Record(circuitName string, number int, trialID string, res objective.Result) error {
	fitness := sql.NullFloat64{}
	if res.Accepted() {
		fitness = sql.NullFloat64{Float64: res.Fitness, Valid: true}
	}
	p := res.Params
	_, err := s.db.Exec(`
		INSERT INTO trials (
			circuit, number, trial_id,
			balance1_l, resub1_k, resub1_n, resub2_k, resub2_n, balance2_l, if_k,
			fitness, accepted, reject_reason, depth, constraint_violated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		circuitName, number, trialID,
		p.Balance1L, p.Resub1K, p.Resub1N, p.Resub2K, p.Resub2N, p.Balance2L, p.IfK,
		fitness, res.Accepted(), string(res.RejectReason), res.ObservedDepth, res.ConstraintViolated,
	)
	if err != nil {
		return fmt.Errorf("failed to record trial %d for %s: %w", number, circuitName, err)
	}
	return nil
}

// Count returns the number of recorded trials for a circuit.
func (s *TrialStore) Count(circuitName string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM trials WHERE circuit = ?`, circuitName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count trials for %s: %w", circuitName, err)
	}
	return n, nil
}

// Best returns the accepted trial with the lowest fitness for a circuit.
// ok is false when no accepted trial exists.
func (s *TrialStore) Best(circuitName string) (params.ParameterSet, float64, bool, error) {
	var p params.ParameterSet
	var fitness float64
	err := s.db.QueryRow(`
		SELECT balance1_l, resub1_k, resub1_n, resub2_k, resub2_n, balance2_l, if_k, fitness
		FROM trials
		WHERE circuit = ? AND accepted = 1
		ORDER BY fitness ASC, number ASC
		LIMIT 1`, circuitName).
		Scan(&p.Balance1L, &p.Resub1K, &p.Resub1N, &p.Resub2K, &p.Resub2N, &p.Balance2L, &p.IfK, &fitness)
	if err == sql.ErrNoRows {
		return params.ParameterSet{}, 0, false, nil
	}
	if err != nil {
		return params.ParameterSet{}, 0, false, fmt.Errorf("failed to query best trial for %s: %w", circuitName, err)
	}
	return p, fitness, true, nil
}

// RecordingSampler decorates a Sampler with durable trial history. Suggest
// passes through; Report writes one row per trial before delegating.
type RecordingSampler struct {
	inner   Sampler
	store   *TrialStore
	circuit string

	mu     sync.Mutex
	number int
}

// NewRecordingSampler wraps inner so every reported trial for circuitName is
// persisted to store.
func NewRecordingSampler(inner Sampler, store *TrialStore, circuitName string) *RecordingSampler {
	return &RecordingSampler{
		inner:   inner,
		store:   store,
		circuit: circuitName,
	}
}

// Suggest delegates to the wrapped sampler.
func (s *RecordingSampler) Suggest(space params.Space) (params.ParameterSet, error) {
	return s.inner.Suggest(space)
}

// Report persists the trial, then delegates. A storage failure never aborts
// the search; the row is dropped and the in-memory history stays intact.
func (s *RecordingSampler) Report(cand params.ParameterSet, fitness float64, res objective.Result) {
	s.mu.Lock()
	s.number++
	number := s.number
	s.mu.Unlock()

	trialID := utils.GenerateTrialID()
	if err := s.store.Record(s.circuit, number, trialID, res); err != nil {
		logger.Warn("failed to persist trial",
			"circuit", s.circuit, "trial", number, "trial_id", trialID, "error", err)
	}
	s.inner.Report(cand, fitness, res)
}
