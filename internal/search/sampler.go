// Package search is the boundary to the search collaborator: the component
// that proposes candidate parameter sets and absorbs fitness feedback. The
// rest of the system only ever calls Suggest and Report and never inspects
// the collaborator's internals or trial history.
package search

import (
	"math/rand"
	"sync"

	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/objective"
	"github.com/qhan2012/ABC-Optuna-Synthesis-Framework/internal/params"
)

// Sampler suggests candidates and receives fitness feedback. Implementations
// own their sampling strategy and trial history.
type Sampler interface {
	// Suggest proposes the next candidate from the given space. The
	// candidate may violate cross-field constraints; the evaluator rejects
	// those without charging tool time, and the rejection is reported back.
	Suggest(space params.Space) (params.ParameterSet, error)

	// Report feeds back the fitness of an evaluated candidate together with
	// the trial's attribute record.
	Report(cand params.ParameterSet, fitness float64, res objective.Result)
}

// RandomSampler draws candidates uniformly from the space. Deterministic for
// a fixed seed, so optimization runs are reproducible.
type RandomSampler struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seen int

	bestFitness float64
	bestSet     bool
	best        params.ParameterSet
}

// NewRandomSampler creates a sampler seeded with seed.
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *RandomSampler) intIn(r params.Range) int {
	return r.Min + s.rng.Intn(r.Max-r.Min+1)
}

// Suggest draws one candidate uniformly per field.
func (s *RandomSampler) Suggest(space params.Space) (params.ParameterSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return params.ParameterSet{
		Balance1L: s.intIn(space.Balance1L),
		Resub1K:   s.intIn(space.Resub1K),
		Resub1N:   s.intIn(space.Resub1N),
		Resub2K:   s.intIn(space.Resub2K),
		Resub2N:   s.intIn(space.Resub2N),
		Balance2L: s.intIn(space.Balance2L),
		IfK:       s.intIn(space.IfK),
	}, nil
}

// Report records the trial in the sampler's in-memory history.
func (s *RandomSampler) Report(cand params.ParameterSet, fitness float64, res objective.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen++
	if res.Accepted() && (!s.bestSet || fitness < s.bestFitness) {
		s.bestFitness = fitness
		s.best = cand
		s.bestSet = true
	}
}

// Trials returns the number of reported trials.
func (s *RandomSampler) Trials() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

// Best returns the best reported candidate and its fitness, if any trial was
// accepted.
func (s *RandomSampler) Best() (params.ParameterSet, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best, s.bestFitness, s.bestSet
}
