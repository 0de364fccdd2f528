// Package weights holds the component weight vector used to fold the seven
// match component scores into one overall score.
package weights

import (
	"fmt"
	"hash/fnv"
	"math"
	"sync/atomic"

	"github.com/talentgrid/matchd/internal/domain"
)

// SumTolerance is the allowed deviation of the weight sum from 1.0.
const SumTolerance = 0.01

// Vector is an immutable set of component weights. Callers pass a Vector by
// value into scoring, so a captured snapshot is never affected by later swaps.
type Vector struct {
	Skill        float64
	Experience   float64
	Education    float64
	Location     float64
	Rate         float64
	Availability float64
	Culture      float64
}

// Default returns the stock weight vector. Culture is scored but carries no
// weight until interview feedback coverage is good enough to trust it.
func Default() Vector {
	return Vector{
		Skill:        0.35,
		Experience:   0.25,
		Education:    0.15,
		Location:     0.10,
		Rate:         0.10,
		Availability: 0.05,
		Culture:      0.0,
	}
}

// Sum returns the total of all component weights.
func (v Vector) Sum() float64 {
	return v.Skill + v.Experience + v.Education + v.Location + v.Rate + v.Availability + v.Culture
}

// Fingerprint returns a short stable digest of the vector. Data derived from
// a vector (cached rankings) is keyed by it, so swapping the active weights
// retires the old entries instead of serving them until expiry.
func (v Vector) Fingerprint() string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%v/%v/%v/%v/%v/%v/%v",
		v.Skill, v.Experience, v.Education, v.Location, v.Rate, v.Availability, v.Culture)
	return fmt.Sprintf("%08x", h.Sum32())
}

// Validate checks that every weight is within [0,1] and the sum is 1.0
// within SumTolerance. Errors wrap domain.ErrInvalidWeights.
func (v Vector) Validate() error {
	components := map[string]float64{
		"skill":        v.Skill,
		"experience":   v.Experience,
		"education":    v.Education,
		"location":     v.Location,
		"rate":         v.Rate,
		"availability": v.Availability,
		"culture":      v.Culture,
	}
	for name, w := range components {
		if w < 0 || w > 1 {
			return fmt.Errorf("weight %q must be within [0,1], got %v: %w", name, w, domain.ErrInvalidWeights)
		}
	}
	if sum := v.Sum(); math.Abs(sum-1.0) > SumTolerance {
		return fmt.Errorf("weights must sum to 1.0 +/- %v, got %v: %w", SumTolerance, sum, domain.ErrInvalidWeights)
	}
	return nil
}

// Store holds the active weight vector. Reads return a value snapshot;
// writes validate first and swap atomically, so a rejected vector never
// replaces the active one and readers never observe a partial update.
type Store struct {
	current atomic.Pointer[Vector]
}

// NewStore creates a store seeded with the given vector.
// The seed must be valid.
func NewStore(v Vector) (*Store, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(&v)
	return s, nil
}

// Current returns a snapshot of the active vector.
func (s *Store) Current() Vector {
	return *s.current.Load()
}

// Set validates v and makes it the active vector. On validation failure the
// prior vector stays active.
func (s *Store) Set(v Vector) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.current.Store(&v)
	return nil
}
