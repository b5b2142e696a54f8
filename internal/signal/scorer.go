package signal

import (
	"math"

	"prospector/internal/taxonomy"
)

// Scorer turns a MatchResult plus engagement metrics into a problem score.
// The threshold is fixed at construction; classification of one item never
// depends on other items in a batch.
type Scorer struct {
	weights   taxonomy.Weights
	threshold float64
}

// NewScorer builds a scorer from the loaded configuration.
func NewScorer(cfg *taxonomy.Config) *Scorer {
	return &Scorer{weights: cfg.Weights, threshold: cfg.ProblemThreshold}
}

// Score computes the problem score for one item.
//
//	score = total_matches*Wk + log1p(max(votes,0))*Ws + log1p(max(comments,0))*Wc
//
// log1p compresses large engagement numbers so a heavily upvoted post cannot
// drown out genuine keyword density; negative vote totals are floored at
// zero. Pass comments=0 for comment items, which have no comment term.
//
// isProblem is true iff the score meets the threshold AND at least one
// keyword matched — engagement alone never qualifies an item.
func (s *Scorer) Score(m MatchResult, votes, comments int) (problemScore float64, isProblem bool) {
	v := float64(votes)
	if v < 0 {
		v = 0
	}
	c := float64(comments)
	if c < 0 {
		c = 0
	}
	problemScore = float64(m.Total)*s.weights.Keyword +
		math.Log1p(v)*s.weights.Score +
		math.Log1p(c)*s.weights.Comment
	isProblem = problemScore >= s.threshold && m.Total >= 1
	return problemScore, isProblem
}

// Threshold reports the configured problem threshold.
func (s *Scorer) Threshold() float64 { return s.threshold }
