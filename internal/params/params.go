// Package params defines the tunable parameter space for the ABC synthesis
// sequence and validates candidate points against its range and cross-field
// constraints.
package params

import "fmt"

// ParameterSet is one candidate point in the 7-dimensional tunable space.
// A set must pass Validate before any script is rendered from it.
type ParameterSet struct {
	Balance1L int `json:"balance1_l"` // first balance level
	Resub1K   int `json:"resub1_K"`   // first resub cut size
	Resub1N   int `json:"resub1_N"`   // first resub max added nodes (ABC limit is 3)
	Resub2K   int `json:"resub2_K"`   // second resub cut size
	Resub2N   int `json:"resub2_N"`   // second resub max added nodes
	Balance2L int `json:"balance2_l"` // second balance level
	IfK       int `json:"if_K"`       // technology mapping LUT width
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Space describes the per-field ranges of the parameter space. The sampler
// draws candidates from it; cross-field constraints are enforced by Validate.
type Space struct {
	Balance1L Range
	Resub1K   Range
	Resub1N   Range
	Resub2K   Range
	Resub2N   Range
	Balance2L Range
	IfK       Range
}

// DefaultSpace returns the parameter space used for all circuits.
func DefaultSpace() Space {
	return Space{
		Balance1L: Range{1, 20},
		Resub1K:   Range{4, 8},
		Resub1N:   Range{1, 3},
		Resub2K:   Range{4, 8},
		Resub2N:   Range{1, 3},
		Balance2L: Range{1, 20},
		IfK:       Range{4, 6},
	}
}

// Validate checks p against the default space's ranges and the cross-field
// constraints. It has no side effects.
func (p ParameterSet) Validate() error {
	return p.ValidateIn(DefaultSpace())
}

// ValidateIn checks p against the given space. The resub cut sizes must not
// exceed the mapping width, otherwise the mapper cannot realize the cuts.
func (p ParameterSet) ValidateIn(space Space) error {
	checks := []struct {
		name  string
		value int
		rng   Range
	}{
		{"balance1_l", p.Balance1L, space.Balance1L},
		{"resub1_K", p.Resub1K, space.Resub1K},
		{"resub1_N", p.Resub1N, space.Resub1N},
		{"resub2_K", p.Resub2K, space.Resub2K},
		{"resub2_N", p.Resub2N, space.Resub2N},
		{"balance2_l", p.Balance2L, space.Balance2L},
		{"if_K", p.IfK, space.IfK},
	}
	for _, c := range checks {
		if !c.rng.Contains(c.value) {
			return fmt.Errorf("%s = %d out of range [%d, %d]", c.name, c.value, c.rng.Min, c.rng.Max)
		}
	}

	if p.Resub1K > p.IfK {
		return fmt.Errorf("resub1_K = %d exceeds if_K = %d", p.Resub1K, p.IfK)
	}
	if p.Resub2K > p.IfK {
		return fmt.Errorf("resub2_K = %d exceeds if_K = %d", p.Resub2K, p.IfK)
	}
	return nil
}

// Valid reports whether p satisfies all constraints.
func (p ParameterSet) Valid() bool {
	return p.Validate() == nil
}

// String renders the set in a compact single-line form for logs.
func (p ParameterSet) String() string {
	return fmt.Sprintf("balance1_l=%d resub1_K=%d resub1_N=%d resub2_K=%d resub2_N=%d balance2_l=%d if_K=%d",
		p.Balance1L, p.Resub1K, p.Resub1N, p.Resub2K, p.Resub2N, p.Balance2L, p.IfK)
}
